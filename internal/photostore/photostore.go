package photostore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/azzam2912/xseon-real/internal/domain"
)

// DefaultFilename replaces an empty upload filename.
const DefaultFilename = "upload.bin"

// Sink persists attachment bytes and returns a URL the caller can fetch
// without further authentication. Callers must treat the URL as opaque.
type Sink interface {
	Upload(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error)
}

// StorageName builds a collision-resistant name from the upload time, a short
// random suffix and the original extension (or one derived from mimeType).
func StorageName(now time.Time, filename, mimeType string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == ".bin" {
		if e := mimeTypeToExt(mimeType); e != "" {
			ext = e
		}
	}
	if !safeExt(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s_%s%s", now.UTC().Format("20060102T150405"), uuid.NewString()[:8], ext)
}

// CheckPayload rejects uploads the sinks refuse to store.
func CheckPayload(entityID string, data []byte) error {
	if len(data) == 0 {
		return domain.ErrEmptyPayload
	}
	if entityID == "" || strings.ContainsAny(entityID, `/\.`) {
		return fmt.Errorf("%w: entity id %q", domain.ErrInvalidValue, entityID)
	}
	return nil
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}

func safeExt(ext string) bool {
	if len(ext) > 10 {
		return false
	}
	for _, r := range strings.TrimPrefix(ext, ".") {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
