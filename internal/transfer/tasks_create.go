package transfer

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateLocalFileTask ensures the destination directory exists and
// truncates the destination file, then announces the PartContext as
// started. It never retries: any failure is fatal for the file and cancels
// its PartContext.
type CreateLocalFileTask struct {
	File     *FileRef
	Context  *PartContext
	ResultCh chan<- PrintTask
}

func (t *CreateLocalFileTask) Priority() int { return PriorityCreate }

func (t *CreateLocalFileTask) Run() {
	dir := filepath.Dir(t.File.Dest)
	if err := os.MkdirAll(dir, 0o755); err != nil && !os.IsExist(err) {
		t.fail(err)
		return
	}
	f, err := os.OpenFile(t.File.Dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		t.fail(err)
		return
	}
	f.Close()
	t.Context.AnnounceFileCreated()
}

func (t *CreateLocalFileTask) fail(err error) {
	t.Context.Cancel()
	t.ResultCh <- PrintTask{
		Message: fmt.Sprintf("%s: could not create %s: %v", t.File.OperationName, t.File.Dest, err),
		Error:   true,
	}
}
