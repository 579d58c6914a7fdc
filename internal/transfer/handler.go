package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/ENCODE-DCC/wgot/internal/httpx"
	"github.com/ENCODE-DCC/wgot/internal/utils"
)

// Handler is the top-level entry point: it inspects each FileRef, enqueues
// the appropriate tasks, drives shutdown, and reports the final result.
type Handler struct {
	Client   *http.Client
	Runtime  *Runtime
	HTTPOpts httpx.Options
	Quiet    bool
	Out      io.Writer // Printer destination, typically os.Stderr
	Stdout   io.Writer // stream sink, typically os.Stdout

	executor *Executor

	mu        sync.Mutex
	multipart []multipartRecord
}

type multipartRecord struct {
	context *PartContext
	dest    string
}

// NewHandler builds a Handler. Out and Stdout default to os.Stderr and
// os.Stdout respectively when nil.
func NewHandler(client *http.Client, runtime *Runtime, opts httpx.Options, quiet bool, out, stdout io.Writer) *Handler {
	if out == nil {
		out = os.Stderr
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Handler{Client: client, Runtime: runtime, HTTPOpts: opts, Quiet: quiet, Out: out, Stdout: stdout}
}

// Call runs the full Handler lifecycle of §4.7 for one batch of files and
// returns (numTasksFailed, numTasksWarned).
func (h *Handler) Call(ctx context.Context, files []*FileRef) (int, int) {
	stream := anyStream(files)
	h.executor = NewExecutor(
		h.Runtime.GetNumWorkers(stream),
		h.Runtime.GetMaxQueueSize(stream),
		MaxIOQueueSize,
		h.Out, h.Stdout, h.Quiet,
	)
	h.executor.Start()

	enqueueDone := make(chan struct{})
	var totalFiles, totalParts int
	var enqueueErr error
	go func() {
		defer close(enqueueDone)
		totalFiles, totalParts, enqueueErr = h.enqueueTasks(files)
	}()

	select {
	case <-enqueueDone:
	case <-ctx.Done():
		utils.Debug("handler: context cancelled, initiating immediate shutdown")
		h.executor.ResultCh() <- PrintTask{Message: "interrupted, cleaning up...", Error: true}
		return h.shutdown(PriorityImmediateShutdown)
	}

	if enqueueErr != nil {
		h.executor.ResultCh() <- PrintTask{Message: enqueueErr.Error(), Error: true}
		return h.shutdown(PriorityImmediateShutdown)
	}

	h.executor.SetTotals(totalFiles, totalParts)
	return h.shutdown(PriorityShutdown)
}

// Summary renders the closing totals line for the most recent Call.
func (h *Handler) Summary() string { return h.executor.Summary() }

func (h *Handler) shutdown(priority int) (int, int) {
	h.executor.InitiateShutdown(priority)
	h.executor.WaitUntilShutdown()
	h.sweep()
	failed, warned := h.executor.Result()
	return int(failed), int(warned)
}

func anyStream(files []*FileRef) bool {
	for _, f := range files {
		if f.IsStream {
			return true
		}
	}
	return false
}

// enqueueTasks implements §4.7 steps 2-4: decide multipart eligibility per
// file and submit the corresponding task sequence.
func (h *Handler) enqueueTasks(files []*FileRef) (totalFiles, totalParts int, err error) {
	totalFiles = len(files)
	for _, f := range files {
		if f.Size <= 0 {
			if err := h.populateSize(f); err != nil {
				return totalFiles, totalParts, err
			}
		}

		multipart := f.Size > 0 && f.Size > h.Runtime.GetMultiThreshold()
		if !multipart {
			task := &BasicTask{File: f, Client: h.Client, Runtime: h.Runtime, HTTPOpts: h.HTTPOpts, ResultCh: h.executor.ResultCh(), WriteCh: h.executor.WriteCh()}
			if err := squashQueueClosed(h.executor.Submit(task)); err != nil {
				return totalFiles, totalParts, err
			}
			totalParts++
			continue
		}

		chunksize := chunksizeFor(f.Size, h.Runtime)
		n := numParts(f.Size, chunksize)
		pc := NewPartContext(n)
		h.recordMultipart(pc, f.Dest)

		if f.IsStream {
			pc.AnnounceFileCreated()
		} else if err := squashQueueClosed(h.executor.Submit(&CreateLocalFileTask{File: f, Context: pc, ResultCh: h.executor.ResultCh()})); err != nil {
			return totalFiles, totalParts, err
		}

		for p := 0; p < n; p++ {
			task := &DownloadPartTask{
				Part: p, NumParts: n, Chunksize: chunksize,
				File: f, Context: pc, Client: h.Client, Runtime: h.Runtime,
				HTTPOpts: h.HTTPOpts, ResultCh: h.executor.ResultCh(), WriteCh: h.executor.WriteCh(),
			}
			if err := squashQueueClosed(h.executor.Submit(task)); err != nil {
				return totalFiles, totalParts, err
			}
		}
		totalParts += n

		complete := &CompleteDownloadTask{File: f, Context: pc, ResultCh: h.executor.ResultCh(), WriteCh: h.executor.WriteCh()}
		if err := squashQueueClosed(h.executor.Submit(complete)); err != nil {
			return totalFiles, totalParts, err
		}
	}
	return totalFiles, totalParts, nil
}

// squashQueueClosed treats ErrQueueClosed as the expected shape of
// cancellation racing the enqueue loop: the Handler's ctx.Done() branch
// already reported it, so this is not a fresh error to surface again.
func squashQueueClosed(err error) error {
	if errors.Is(err, ErrQueueClosed) {
		return nil
	}
	return err
}

// populateSize performs the HEAD-then-ranged-GET probe every file needs
// before multipart eligibility can be decided (§4.7 step 2): the multipart
// decision has to be made before any task runs, so Size must be known
// up front regardless of destination kind.
func (h *Handler) populateSize(f *FileRef) error {
	req, err := httpx.NewRequest(http.MethodHead, f.Src, h.HTTPOpts)
	if err != nil {
		return err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK && resp.ContentLength > 0 {
		f.IngestHeaders(resp.Header)
		return nil
	}

	req2, err := httpx.NewRequest(http.MethodGet, f.Src, h.HTTPOpts)
	if err != nil {
		return err
	}
	req2.Header.Set("Range", "bytes=0-0")
	resp2, err := h.Client.Do(req2)
	if err != nil {
		return err
	}
	defer resp2.Body.Close()
	io.Copy(io.Discard, resp2.Body)
	f.IngestHeaders(resp2.Header)
	if resp2.StatusCode == http.StatusPartialContent {
		if cr := resp2.Header.Get("Content-Range"); cr != "" {
			var size int64
			if _, err := fmt.Sscanf(cr, "bytes 0-0/%d", &size); err == nil {
				f.Size = size
			}
		}
	}
	if f.Size <= 0 {
		return fmt.Errorf("transfer: could not determine size for %s", f.Src)
	}
	return nil
}

func (h *Handler) recordMultipart(pc *PartContext, dest string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.multipart = append(h.multipart, multipartRecord{context: pc, dest: dest})
}

// sweep implements §4.7 step 7: delete the destination file of any context
// left STARTED or CANCELLED (an interrupted or failed download), then mark
// every context CANCELLED. UNSTARTED and COMPLETED contexts keep their files.
func (h *Handler) sweep() {
	h.mu.Lock()
	records := append([]multipartRecord(nil), h.multipart...)
	h.mu.Unlock()

	for _, r := range records {
		if r.dest != "" && (r.context.IsStarted() || r.context.IsCancelled()) {
			if _, err := os.Stat(r.dest); err == nil {
				os.Remove(r.dest)
			}
		}
		r.context.Cancel()
	}
}
