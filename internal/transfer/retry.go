package transfer

import (
	"context"
	"errors"
	"io"
	"net"
)

// isRetryable classifies the transient-network and integrity error taxonomy
// from §7: connect failures, read timeouts, short reads, and checksum
// mismatches are retried by the emitting task; everything else (including
// cancellation) is fatal for that attempt loop.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDownloadCancelled) {
		return false
	}
	var incomplete *IncompleteReadError
	if errors.As(err, &incomplete) {
		return true
	}
	// net/http reports a body cut short of its Content-Length this way.
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var md5err *MD5Error
	if errors.As(err, &md5err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
