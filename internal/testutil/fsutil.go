package testutil

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempDir creates a fresh temporary directory for a test and returns a
// cleanup func that removes it.
func TempDir(prefix string) (string, func(), error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }
	return dir, cleanup, nil
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CreateTestFile writes a file of the given size under dir, either zero-filled
// or with random bytes, mirroring MockServer's own RandomData option.
func CreateTestFile(dir, name string, size int64, randomData bool) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var src io.Reader
	if randomData {
		src = io.LimitReader(rand.Reader, size)
	} else {
		src = io.LimitReader(zeroReader{}, size)
	}
	if _, err := io.Copy(f, src); err != nil {
		return "", err
	}
	return path, nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// VerifyFileSize reports an error if the file at path is not exactly
// expectedSize bytes.
func VerifyFileSize(path string, expectedSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() != expectedSize {
		return fmt.Errorf("testutil: %s: expected size %d, got %d", path, expectedSize, info.Size())
	}
	return nil
}
