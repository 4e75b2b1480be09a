package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/photostore"
)

// LocalPhotoStore writes uploads under basePath/<kinds>/<entity id>/ and
// hands back URLs under urlPrefix, where the web layer mounts basePath.
type LocalPhotoStore struct {
	basePath  string
	urlPrefix string
	now       func() time.Time
}

func NewLocalPhotoStore(basePath, urlPrefix string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalPhotoStore{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

func (s *LocalPhotoStore) Upload(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error) {
	if err := photostore.CheckPayload(entityID, data); err != nil {
		return "", err
	}

	rel := path.Join(kind.Plural(), entityID, photostore.StorageName(s.now(), filename, mimeType))
	filePath, err := s.safeJoin(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return s.urlPrefix + "/" + rel, nil
}

// safeJoin resolves rel relative to basePath and rejects directory traversal.
func (s *LocalPhotoStore) safeJoin(rel string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}
