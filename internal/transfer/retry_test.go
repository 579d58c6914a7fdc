package transfer

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", ErrDownloadCancelled, false},
		{"incomplete read", &IncompleteReadError{Actual: 1, Expected: 2}, true},
		{"md5 mismatch", &MD5Error{Expected: "a", Actual: "b"}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"net error", &net.DNSError{IsTimeout: true}, true},
		{"generic error", errors.New("boom"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isRetryable(c.err); got != c.want {
				t.Errorf("isRetryable(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
