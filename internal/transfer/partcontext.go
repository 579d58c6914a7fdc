package transfer

import (
	"sync"
	"time"
)

// PartState is a position in the PartContext lifecycle: UNSTARTED -> STARTED
// -> COMPLETED, with CANCELLED reachable from any state and absorbing.
type PartState int

const (
	StateUnstarted PartState = iota
	StateStarted
	StateCompleted
	StateCancelled
)

// PartContext coordinates one file's create -> part-writes -> complete
// lifecycle across N DownloadPartTasks, its CreateLocalFileTask, its
// CompleteDownloadTask, and the Handler's shutdown sweep. One mutex guards
// the state and three condition variables bound to it.
type PartContext struct {
	mu sync.Mutex

	fileCreatedCV *sync.Cond
	completedCV   *sync.Cond
	streamTurnCV  *sync.Cond

	state             PartState
	numParts          int
	finishedParts     map[int]struct{}
	currentStreamPart int
}

// NewPartContext creates a PartContext for a file split into numParts parts.
func NewPartContext(numParts int) *PartContext {
	p := &PartContext{
		numParts:      numParts,
		finishedParts: make(map[int]struct{}, numParts),
	}
	p.fileCreatedCV = sync.NewCond(&p.mu)
	p.completedCV = sync.NewCond(&p.mu)
	p.streamTurnCV = sync.NewCond(&p.mu)
	return p
}

// waitTimed waits on cv with a bound: a timer broadcasts cv after d even if
// nothing else ever signals it, so the caller's re-check loop always runs
// again within d. This stands in for the source's condition.wait(timeout=d).
func waitTimed(cv *sync.Cond, d time.Duration) {
	timer := time.AfterFunc(d, cv.Broadcast)
	cv.Wait()
	timer.Stop()
}

// AnnounceFileCreated transitions UNSTARTED -> STARTED and wakes
// WaitForFileCreated callers. A no-op once CANCELLED.
func (p *PartContext) AnnounceFileCreated() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateCancelled {
		return
	}
	p.state = StateStarted
	p.fileCreatedCV.Broadcast()
}

// AnnounceCompletedPart records part i as finished, transitioning to
// COMPLETED and waking WaitForCompletion callers once every part has
// reported in. A no-op once CANCELLED.
func (p *PartContext) AnnounceCompletedPart(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateCancelled {
		return
	}
	p.finishedParts[i] = struct{}{}
	if len(p.finishedParts) >= p.numParts {
		p.state = StateCompleted
		p.completedCV.Broadcast()
	}
}

// Cancel transitions to CANCELLED from any state and wakes every waiter so
// they can observe the cancellation and fail fast.
func (p *PartContext) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateCancelled {
		return
	}
	p.state = StateCancelled
	p.fileCreatedCV.Broadcast()
	p.completedCV.Broadcast()
	p.streamTurnCV.Broadcast()
}

// IsCancelled reports whether the context has been cancelled.
func (p *PartContext) IsCancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateCancelled
}

// IsStarted reports whether the context is in the STARTED state: the
// destination file was created but the download has not yet completed.
// Excludes COMPLETED so a finished download is not mistaken for a partial one.
func (p *PartContext) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateStarted
}

// WaitForFileCreated blocks until STARTED, failing fast with
// ErrDownloadCancelled if the context is cancelled first or meanwhile.
func (p *PartContext) WaitForFileCreated() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.state == StateUnstarted {
		waitTimed(p.fileCreatedCV, CreateWaitTimeout)
	}
	if p.state == StateCancelled {
		return ErrDownloadCancelled
	}
	return nil
}

// WaitForCompletion blocks until COMPLETED, failing fast with
// ErrDownloadCancelled if the context is cancelled first or meanwhile. On a
// normal wake, state is guaranteed to be COMPLETED or CANCELLED, never
// STARTED.
func (p *PartContext) WaitForCompletion() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.state != StateCompleted && p.state != StateCancelled {
		waitTimed(p.completedCV, CompletionWaitTimeout)
	}
	if p.state == StateCancelled {
		return ErrDownloadCancelled
	}
	return nil
}

// WaitForTurn blocks until currentStreamPart == n, used only when the
// destination is a stream to serialize writes in increasing part order.
func (p *PartContext) WaitForTurn(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.currentStreamPart != n {
		if p.state == StateCancelled {
			return ErrDownloadCancelled
		}
		waitTimed(p.streamTurnCV, TurnWaitTimeout)
	}
	if p.state == StateCancelled {
		return ErrDownloadCancelled
	}
	return nil
}

// DoneWithTurn advances currentStreamPart and wakes every WaitForTurn
// waiter so the next part in order can proceed.
func (p *PartContext) DoneWithTurn() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentStreamPart++
	p.streamTurnCV.Broadcast()
}
