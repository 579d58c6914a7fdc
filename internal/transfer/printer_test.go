package transfer

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterCountsFailuresAndWarnings(t *testing.T) {
	ch := make(chan PrintTask, 4)
	var out bytes.Buffer
	p := NewPrinter(ch, &out, false)

	ch <- PrintTask{Message: "ok"}
	ch <- PrintTask{Message: "bad", Error: true}
	ch <- PrintTask{Message: "retried", Warning: true}
	close(ch)

	p.Run()

	if p.NumFailed() != 1 {
		t.Errorf("NumFailed() = %d, want 1", p.NumFailed())
	}
	if p.NumWarned() != 1 {
		t.Errorf("NumWarned() = %d, want 1", p.NumWarned())
	}
	for _, want := range []string{"ok", "bad", "retried"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q missing %q", out.String(), want)
		}
	}
}

func TestPrinterQuietModeSuppressesOutputButStillCounts(t *testing.T) {
	ch := make(chan PrintTask, 2)
	var out bytes.Buffer
	p := NewPrinter(ch, &out, true)

	ch <- PrintTask{Message: "bad", Error: true}
	close(ch)

	p.Run()

	if out.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", out.String())
	}
	if p.NumFailed() != 1 {
		t.Errorf("NumFailed() = %d, want 1", p.NumFailed())
	}
}

func TestPrinterRendersPartsSuffix(t *testing.T) {
	ch := make(chan PrintTask, 1)
	var out bytes.Buffer
	p := NewPrinter(ch, &out, false)

	n := 4
	ch <- PrintTask{Message: "part 2 of file", TotalParts: &n}
	close(ch)
	p.Run()

	if !strings.Contains(out.String(), "4/4 parts") {
		t.Errorf("output = %q, want a parts suffix", out.String())
	}
}

func TestPrinterSummary(t *testing.T) {
	ch := make(chan PrintTask, 1)
	var out bytes.Buffer
	p := NewPrinter(ch, &out, true)
	p.SetTotals(3, 10)
	ch <- PrintTask{Message: "x", Error: true}
	close(ch)
	p.Run()

	summary := p.Summary()
	if !strings.Contains(summary, "3 file(s)") || !strings.Contains(summary, "1 failed") {
		t.Errorf("Summary() = %q, missing expected counts", summary)
	}
}
