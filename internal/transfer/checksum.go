package transfer

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// verifiableChecksum decides whether a verifiable server-advertised hash is
// available for f, and returns it hex-encoded. Matches §4.6: prefer ETag
// when the server identifies itself as the S3 family and the ETag is
// single-part; otherwise fall back to Content-MD5. Multipart ETags
// (containing '-') and SSE-KMS responses are not verifiable.
func verifiableChecksum(f *FileRef) (hexHash string, ok bool) {
	if f.SSEKMS {
		return "", false
	}
	if f.ETag != "" && looksLikeS3(f.Server) && !strings.Contains(f.ETag, "-") {
		return strings.ToLower(f.ETag), true
	}
	if f.ContentMD5 != "" {
		decoded, err := base64.StdEncoding.DecodeString(f.ContentMD5)
		if err != nil {
			return "", false
		}
		return hex.EncodeToString(decoded), true
	}
	return "", false
}

func looksLikeS3(server string) bool {
	s := strings.ToLower(server)
	return strings.Contains(s, "amazons3") || strings.Contains(s, "amazon s3")
}
