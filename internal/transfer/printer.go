package transfer

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

// Dracula-derived palette, carried over from the teacher's interactive TUI
// styling and reused here for plain line-oriented progress output.
var (
	colorSuccess = lipgloss.Color("#50fa7b")
	colorError   = lipgloss.Color("#ff5555")
	colorWarning = lipgloss.Color("#ffb86c")
	colorSubtext = lipgloss.Color("#6272a4")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	subtextStyle = lipgloss.NewStyle().Foreground(colorSubtext)
)

// Printer is the single consumer of the bounded result channel: it renders
// progress and errors to out, or suppresses them entirely in quiet mode,
// and is the exclusive owner of the failed/warned counters.
type Printer struct {
	ch     <-chan PrintTask
	out    io.Writer
	quiet  bool
	color  bool

	numFailed atomic.Int64
	numWarned atomic.Int64

	totalFiles int
	totalParts int
}

// NewPrinter creates a Printer. Color is auto-detected from out via termenv:
// it is used only when out is a color-capable terminal and quiet is off;
// any other writer gets plain text.
func NewPrinter(ch <-chan PrintTask, out io.Writer, quiet bool) *Printer {
	color := !quiet && termenv.NewOutput(out).Profile != termenv.Ascii
	return &Printer{ch: ch, out: out, quiet: quiet, color: color}
}

// SetTotals records the counts the Handler computed while enqueueing tasks.
// Summary reports the file count; render takes its part counts from each
// PrintTask's own TotalParts, not from these totals.
func (p *Printer) SetTotals(files, parts int) {
	p.totalFiles = files
	p.totalParts = parts
}

// Run consumes PrintTasks until ch is closed (the tombstone).
func (p *Printer) Run() {
	for pt := range p.ch {
		if pt.Error {
			p.numFailed.Add(1)
		} else if pt.Warning {
			p.numWarned.Add(1)
		}
		if p.quiet {
			continue
		}
		fmt.Fprintln(p.out, p.render(pt))
	}
}

func (p *Printer) render(pt PrintTask) string {
	line := pt.Message
	if pt.TotalParts != nil {
		line = fmt.Sprintf("%s (%d/%d parts)", line, *pt.TotalParts, *pt.TotalParts)
	}
	if !p.color {
		return line
	}
	switch {
	case pt.Error:
		return errorStyle.Render(line)
	case pt.Warning:
		return warningStyle.Render(line)
	default:
		return successStyle.Render(line)
	}
}

// humanBytes formats n the way success messages report file sizes.
func humanBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}

func (p *Printer) NumFailed() int64 { return p.numFailed.Load() }
func (p *Printer) NumWarned() int64 { return p.numWarned.Load() }

// Summary renders the closing "N files, M failed, K warned" line the CLI
// front-end prints after a Call returns.
func (p *Printer) Summary() string {
	line := fmt.Sprintf("%d file(s), %d failed, %d warned", p.totalFiles, p.numFailed.Load(), p.numWarned.Load())
	if !p.color {
		return line
	}
	return subtextStyle.Render(line)
}
