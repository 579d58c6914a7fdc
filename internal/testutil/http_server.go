package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewHTTPServer starts an httptest.Server bound to tcp4 127.0.0.1:0, avoiding
// the IPv6 loopback resolution issues some sandboxed environments hit with
// httptest.NewServer's default listener.
func NewHTTPServer(handler http.Handler) *httptest.Server {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	srv := &httptest.Server{Listener: l, Config: &http.Server{Handler: handler}}
	srv.Start()
	return srv
}

// NewHTTPServerT is NewHTTPServer for use inside a test, failing it instead
// of panicking if the listener cannot be created.
func NewHTTPServerT(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("testutil: failed to listen: %v", err)
	}
	srv := &httptest.Server{Listener: l, Config: &http.Server{Handler: handler}}
	srv.Start()
	return srv
}
