package service

import (
	"context"

	"github.com/azzam2912/xseon-real/internal/domain"
)

// Upload is one attachment submitted with a create or update.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// uploadAll stores each upload independently and returns the URLs of the
// ones that succeeded. Empty payloads and failures are skipped.
func (s *Service) uploadAll(ctx context.Context, kind domain.Kind, id string, uploads []Upload) []string {
	var urls []string
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		mimeType := u.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		url, err := s.store.UploadFileBytes(ctx, kind, id, u.Filename, mimeType, u.Data)
		if err != nil {
			s.logger.Warn("upload skipped", "kind", kind, "id", id, "filename", u.Filename, "error", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// withoutIndices drops the entries at the given positions. Out of range
// indices are ignored.
func withoutIndices(values []string, remove []int) []string {
	if len(remove) == 0 {
		return values
	}
	drop := make(map[int]bool, len(remove))
	for _, i := range remove {
		drop[i] = true
	}
	var out []string
	for i, v := range values {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}
