package transfer

import (
	"fmt"
	"os"
)

// CompleteDownloadTask waits for every part to finish, restores the
// server-reported modification time, reports success, and closes the
// destination via the Writer.
type CompleteDownloadTask struct {
	File     *FileRef
	Context  *PartContext
	ResultCh chan<- PrintTask
	WriteCh  chan<- WriteItem
}

func (t *CompleteDownloadTask) Priority() int { return PriorityComplete }

func (t *CompleteDownloadTask) Run() {
	if err := t.Context.WaitForCompletion(); err != nil {
		// Cancellation already produced its own report upstream.
		return
	}
	if !t.File.LastModified.IsZero() && t.File.Dest != "" {
		_ = os.Chtimes(t.File.Dest, t.File.LastModified, t.File.LastModified)
	}
	msg := fmt.Sprintf("%s: %s", t.File.OperationName, t.File.Src)
	if t.File.Dest != "" {
		msg = fmt.Sprintf("%s to %s", msg, t.File.Dest)
	}
	if t.File.Size > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, humanBytes(t.File.Size))
	}
	t.ResultCh <- PrintTask{Message: msg}
	t.WriteCh <- IOCloseRequest{Dest: t.File.Dest}
}
