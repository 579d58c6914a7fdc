package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ENCODE-DCC/wgot/internal/httpx"
	"github.com/ENCODE-DCC/wgot/internal/utils"
)

// DownloadPartTask fetches one byte range of a multipart download and
// enqueues its bytes to the Writer, retrying transient failures up to
// PartTaskAttempts times.
type DownloadPartTask struct {
	Part      int
	NumParts  int
	Chunksize int64
	File      *FileRef
	Context   *PartContext
	Client    *http.Client
	Runtime   *Runtime
	HTTPOpts  httpx.Options
	ResultCh  chan<- PrintTask
	WriteCh   chan<- WriteItem
}

func (t *DownloadPartTask) Priority() int { return PriorityPart }

// byteRange computes the Range header per §4.4: the last part is always
// open-ended to cover any trailing bytes regardless of rounding.
func (t *DownloadPartTask) byteRange() (start, end int64, openEnded bool) {
	start = int64(t.Part) * t.Chunksize
	if t.Part == t.NumParts-1 {
		return start, 0, true
	}
	return start, start + t.Chunksize - 1, false
}

func (t *DownloadPartTask) Run() {
	attempts := t.Runtime.GetPartTaskAttempts()
	retried := false
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := t.attempt()
		if err == nil {
			t.Context.AnnounceCompletedPart(t.Part)
			tp := t.NumParts
			t.ResultCh <- PrintTask{
				Message:    fmt.Sprintf("%s: part %d/%d of %s", t.File.OperationName, t.Part+1, t.NumParts, t.File.Src),
				TotalParts: &tp,
				Warning:    retried,
			}
			return
		}
		if err == ErrDownloadCancelled {
			return
		}
		lastErr = err
		if !isRetryable(err) {
			t.Context.Cancel()
			t.ResultCh <- PrintTask{
				Message: fmt.Sprintf("%s: part %d of %s failed: %v", t.File.OperationName, t.Part, t.File.Src, err),
				Error:   true,
			}
			return
		}
		utils.Debug("part %d/%d of %s: attempt %d failed, retrying: %v", t.Part, t.NumParts, t.File.Src, attempt+1, err)
		retried = true
	}
	t.Context.Cancel()
	t.ResultCh <- PrintTask{
		Message: fmt.Sprintf("%s: part %d of %s failed after %d attempts: %v: %v", t.File.OperationName, t.Part, t.File.Src, attempts, ErrRetriesExceeded, lastErr),
		Error:   true,
	}
}

func (t *DownloadPartTask) attempt() error {
	start, end, openEnded := t.byteRange()

	req, err := httpx.NewRequest(http.MethodGet, t.File.Src, t.HTTPOpts)
	if err != nil {
		return err
	}
	if openEnded {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", start))
	} else {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.Runtime.GetConnectTimeout()+t.Runtime.GetReadTimeout())
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transfer: part %d: unexpected status %d", t.Part, resp.StatusCode)
	}
	expected := resp.ContentLength

	if err := t.Context.WaitForFileCreated(); err != nil {
		return err
	}

	if t.File.IsStream {
		return t.queueStreamWrite(resp.Body, expected, start)
	}
	return t.queueFileWrites(resp.Body, expected, start)
}

// queueFileWrites reads the body in fixed iterate-chunks, emitting one
// IORequest per chunk at its absolute offset so the Writer can apply each
// with a positioned write regardless of arrival order.
func (t *DownloadPartTask) queueFileWrites(body io.Reader, expected, start int64) error {
	buf := make([]byte, t.Runtime.GetIterateChunkSize())
	var total int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.WriteCh <- IORequest{Dest: t.File.Dest, Offset: start + total, Data: chunk}
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if expected >= 0 && total != expected {
		return &IncompleteReadError{Actual: total, Expected: expected}
	}
	return nil
}

// queueStreamWrite waits its turn, buffers the whole part (stdout cannot be
// rewound so nothing is written before the length is verified), then
// enqueues one IORequest and releases the next part's turn.
func (t *DownloadPartTask) queueStreamWrite(body io.Reader, expected, start int64) error {
	if err := t.Context.WaitForTurn(t.Part); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if expected >= 0 && int64(len(data)) != expected {
		return &IncompleteReadError{Actual: int64(len(data)), Expected: expected}
	}
	t.WriteCh <- IORequest{Dest: t.File.Dest, Offset: start, Data: data, IsStream: true}
	t.Context.DoneWithTurn()
	return nil
}
