package transfer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ENCODE-DCC/wgot/internal/httpx"
)

// BasicTask downloads a small file (below the multipart threshold) in a
// single GET, with its own 3-attempt retry policy and its own integrity
// check — it has no PartContext to coordinate with.
type BasicTask struct {
	File     *FileRef
	Client   *http.Client
	Runtime  *Runtime
	HTTPOpts httpx.Options
	ResultCh chan<- PrintTask
	WriteCh  chan<- WriteItem
}

func (t *BasicTask) Priority() int { return PriorityPart }

func (t *BasicTask) Run() {
	var lastErr error
	for attempt := 0; attempt < t.Runtime.GetBasicTaskAttempts(); attempt++ {
		err := t.attempt()
		if err == nil {
			t.ResultCh <- PrintTask{
				Message: fmt.Sprintf("%s: %s%s", t.File.OperationName, t.File.Src, t.destSuffix()),
			}
			return
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}
	t.ResultCh <- PrintTask{
		Message: fmt.Sprintf("%s: %s failed: %v", t.File.OperationName, t.File.Src, lastErr),
		Error:   true,
	}
}

func (t *BasicTask) destSuffix() string {
	if t.File.IsStream {
		return ""
	}
	return fmt.Sprintf(" to %s", t.File.Dest)
}

func (t *BasicTask) attempt() error {
	req, err := httpx.NewRequest(http.MethodGet, t.File.Src, t.HTTPOpts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.Runtime.GetConnectTimeout()+t.Runtime.GetReadTimeout())
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transfer: unexpected status %d", resp.StatusCode)
	}
	t.File.IngestHeaders(resp.Header)

	hash := md5.New()
	body := io.TeeReader(resp.Body, hash)

	var payload []byte
	var writeErr error
	if t.File.IsStream {
		payload, writeErr = io.ReadAll(body)
	} else {
		writeErr = t.writeToFile(body)
	}
	if writeErr != nil {
		return writeErr
	}

	if expected, ok := verifiableChecksum(t.File); ok {
		actual := hex.EncodeToString(hash.Sum(nil))
		if actual != expected {
			if !t.File.IsStream {
				os.Remove(t.File.Dest)
			}
			return &MD5Error{Expected: expected, Actual: actual}
		}
	}

	if t.File.IsStream {
		t.WriteCh <- IORequest{Data: payload, IsStream: true}
		return nil
	}
	if !t.File.LastModified.IsZero() {
		_ = os.Chtimes(t.File.Dest, t.File.LastModified, t.File.LastModified)
	}
	return nil
}

func (t *BasicTask) writeToFile(body io.Reader) error {
	if dir := filepath.Dir(t.File.Dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil && !os.IsExist(err) {
			return err
		}
	}
	f, err := os.OpenFile(t.File.Dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, body)
	return err
}
