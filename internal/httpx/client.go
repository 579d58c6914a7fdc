// Package httpx builds the HTTP client the transfer engine consumes: a
// tuned transport for many concurrent ranged connections, plus the small
// per-session policies (redirect limit, auth, User-Agent) §6 of the spec
// names as the client's contract.
package httpx

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	DefaultMaxIdleConns          = 100
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 15 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second
	DialTimeout                  = 10 * time.Second
	KeepAliveDuration            = 30 * time.Second
)

// Options configures NewClient.
type Options struct {
	UserAgent         string
	MaxConnsPerHost   int
	MaxRedirects      int
	Username          string
	Password          string
	HasBasicAuth      bool
}

// NewClient builds an *http.Client tuned for many concurrent byte-range
// GETs against the same host: HTTP/1.1 is forced (ForceAttemptHTTP2=false)
// because a single HTTP/2 connection would multiplex all ranged requests
// over one TCP stream, defeating the parallelism this engine relies on.
// Compression is disabled since downloaded payloads are typically already
// compressed. Redirects replay the original headers (notably Range and
// Authorization) up to MaxRedirects hops.
func NewClient(opts Options) *http.Client {
	maxConns := opts.MaxConnsPerHost
	if maxConns <= 0 {
		maxConns = 64
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 20
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: maxConns + 2,
		MaxConnsPerHost:     maxConns,

		IdleConnTimeout:       DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		ExpectContinueTimeout: DefaultExpectContinueTimeout,

		DisableCompression: true,
		ForceAttemptHTTP2:  false,
		TLSNextProto:       make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),

		DialContext: (&net.Dialer{
			Timeout:   DialTimeout,
			KeepAlive: KeepAliveDuration,
		}).DialContext,
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("httpx: stopped after %d redirects", maxRedirects)
			}
			if len(via) > 0 {
				for key, vals := range via[0].Header {
					if key == "Range" || key == "Authorization" || key == "User-Agent" {
						req.Header[key] = vals
					}
				}
			}
			return nil
		},
	}
}

// NewRequest builds a request carrying the session-level headers §6
// requires: User-Agent and, optionally, Basic auth.
func NewRequest(method, url string, opts Options) (*http.Request, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "wgot/1.0"
	}
	req.Header.Set("User-Agent", ua)
	if opts.HasBasicAuth {
		req.SetBasicAuth(opts.Username, opts.Password)
	}
	return req, nil
}
