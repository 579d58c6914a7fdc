package transfer

import (
	"encoding/base64"
	"testing"
)

func TestVerifiableChecksumPrefersS3ETag(t *testing.T) {
	f := &FileRef{
		ETag:   "d41d8cd98f00b204e9800998ecf8427e",
		Server: "AmazonS3",
	}
	hash, ok := verifiableChecksum(f)
	if !ok {
		t.Fatal("expected a verifiable checksum from a single-part S3 ETag")
	}
	if hash != f.ETag {
		t.Errorf("hash = %s, want %s", hash, f.ETag)
	}
}

func TestVerifiableChecksumRejectsMultipartETag(t *testing.T) {
	f := &FileRef{
		ETag:   "d41d8cd98f00b204e9800998ecf8427e-3",
		Server: "AmazonS3",
	}
	if _, ok := verifiableChecksum(f); ok {
		t.Fatal("multipart ETag (containing '-') must not be treated as verifiable")
	}
}

func TestVerifiableChecksumSkipsSSEKMS(t *testing.T) {
	f := &FileRef{
		ETag:       "d41d8cd98f00b204e9800998ecf8427e",
		Server:     "AmazonS3",
		ContentMD5: base64.StdEncoding.EncodeToString([]byte("0123456789abcdef")),
		SSEKMS:     true,
	}
	if _, ok := verifiableChecksum(f); ok {
		t.Fatal("SSE-KMS responses must never be treated as verifiable")
	}
}

func TestVerifiableChecksumFallsBackToContentMD5(t *testing.T) {
	raw := []byte("0123456789abcdef")
	f := &FileRef{ContentMD5: base64.StdEncoding.EncodeToString(raw)}
	hash, ok := verifiableChecksum(f)
	if !ok {
		t.Fatal("expected Content-MD5 fallback to be verifiable")
	}
	want := "30313233343536373839616263646566"
	if hash != want {
		t.Errorf("hash = %s, want %s", hash, want)
	}
}

func TestVerifiableChecksumNoneAvailable(t *testing.T) {
	f := &FileRef{}
	if _, ok := verifiableChecksum(f); ok {
		t.Fatal("expected no verifiable checksum when neither ETag nor Content-MD5 is present")
	}
}
