package storage

import (
	"strings"

	"github.com/google/uuid"
)

const uploadPrefix = "uploads/"

// UploadKey builds the object key for a client upload: a fresh UUID joined
// with the sanitized filename under the uploads/ prefix. The UUID prevents
// collisions and key guessing; sanitization strips path separators and
// control characters from the untrusted filename.
func UploadKey(filename string) string {
	return uploadPrefix + uuid.New().String() + "-" + sanitizeFilename(filename)
}

func sanitizeFilename(name string) string {
	// Keep only the final path element of whatever the client sent.
	if idx := strings.LastIndexAny(name, `/\`); idx != -1 {
		name = name[idx+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
