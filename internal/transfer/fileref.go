package transfer

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vfaronov/httpheader"
)

// FileRef is an immutable-after-init descriptor of one transfer. It is
// mutated only by the header-ingestion methods below, before any part task
// begins; every task kind treats it as read-only thereafter.
type FileRef struct {
	ID            string
	Src           string
	Dest          string
	Size          int64
	LastModified  time.Time
	IsStream      bool
	OperationName string

	// Header-derived integrity metadata, populated by IngestHeaders.
	ETag       string
	ContentMD5 string
	Server     string
	SSEKMS     bool

	// SuggestedName is the filename advertised via Content-Disposition.
	// It is recorded only; neither the engine nor the CLI front-end reads
	// it when choosing a destination path.
	SuggestedName string
}

// NewFileRef builds a FileRef, enforcing the IsStream ⇒ Dest == "" invariant.
// Violating it is a programming error, not a runtime condition: it panics
// rather than returning an error a caller might plausibly ignore.
func NewFileRef(src, dest string, isStream bool) *FileRef {
	if isStream && dest != "" {
		panic("transfer: stream FileRef must not have a destination path")
	}
	return &FileRef{
		ID:            uuid.NewString(),
		Src:           src,
		Dest:          dest,
		IsStream:      isStream,
		OperationName: "download",
	}
}

// IngestHeaders records size, last-modified and integrity metadata from a
// response. It is only ever called before part tasks begin (from a HEAD
// probe or the single BasicTask GET), never concurrently with part writes.
func (f *FileRef) IngestHeaders(h http.Header) {
	if cl := h.Get("Content-Length"); cl != "" && f.Size <= 0 {
		fmt.Sscanf(cl, "%d", &f.Size)
	}
	if lm := h.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			f.LastModified = t
		}
	}
	f.ETag = strings.Trim(h.Get("ETag"), `"`)
	f.ContentMD5 = h.Get("Content-MD5")
	f.Server = h.Get("Server")
	f.SSEKMS = strings.EqualFold(h.Get("x-amz-server-side-encryption"), "aws:kms")

	if _, name, err := httpheader.ContentDisposition(h); err == nil && name != "" {
		f.SuggestedName = name
	}
}
