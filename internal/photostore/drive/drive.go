// Package drive stores uploads in a publicly readable Google Drive folder.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/photostore"
)

const folderMimeType = "application/vnd.google-apps.folder"

// fileAPI is the slice of the Drive API the sink needs.
type fileAPI interface {
	FindFolder(ctx context.Context, name string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error)
	ShareWithAnyone(ctx context.Context, fileID string) error
}

type Sink struct {
	files      fileAPI
	folderName string
	now        func() time.Time

	mu       sync.Mutex
	folderID string
}

func New(svc *gdrive.Service, folderName string) *Sink {
	return newSink(&apiFiles{svc: svc}, folderName)
}

func newSink(files fileAPI, folderName string) *Sink {
	if folderName == "" {
		folderName = "xseon-uploads"
	}
	return &Sink{files: files, folderName: folderName, now: time.Now}
}

// FileURL is the anonymous download URL for a Drive file id.
func FileURL(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

func (s *Sink) Upload(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error) {
	if err := photostore.CheckPayload(entityID, data); err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	folderID, err := s.folder(ctx)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s", kind.Plural(), entityID, photostore.StorageName(s.now(), filename, mimeType))
	fileID, err := s.files.CreateFile(ctx, folderID, name, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload %s: %w", domain.ErrBackendUnavailable, name, err)
	}
	return FileURL(fileID), nil
}

// folder resolves the upload folder once per sink, creating and sharing it
// when it does not exist yet.
func (s *Sink) folder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folderID != "" {
		return s.folderID, nil
	}

	id, err := s.files.FindFolder(ctx, s.folderName)
	if err != nil {
		return "", fmt.Errorf("%w: failed to look up folder %q: %w", domain.ErrBackendUnavailable, s.folderName, err)
	}
	if id == "" {
		id, err = s.files.CreateFolder(ctx, s.folderName)
		if err != nil {
			return "", fmt.Errorf("%w: failed to create folder %q: %w", domain.ErrBackendUnavailable, s.folderName, err)
		}
		if err := s.files.ShareWithAnyone(ctx, id); err != nil {
			return "", fmt.Errorf("%w: failed to share folder %q: %w", domain.ErrBackendUnavailable, s.folderName, err)
		}
	}
	s.folderID = id
	return id, nil
}

type apiFiles struct {
	svc *gdrive.Service
}

func (a *apiFiles) FindFolder(ctx context.Context, name string) (string, error) {
	return FindByName(ctx, a.svc, name, folderMimeType)
}

func (a *apiFiles) CreateFolder(ctx context.Context, name string) (string, error) {
	f, err := a.svc.Files.Create(&gdrive.File{Name: name, MimeType: folderMimeType}).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

func (a *apiFiles) CreateFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	f, err := a.svc.Files.Create(&gdrive.File{Name: name, MimeType: mimeType, Parents: []string{folderID}}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

func (a *apiFiles) ShareWithAnyone(ctx context.Context, fileID string) error {
	_, err := a.svc.Permissions.Create(fileID, &gdrive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).Do()
	return err
}

// FindByName returns the id of the first non-trashed file with the exact name
// and mime type visible to the caller, or "" when there is none.
func FindByName(ctx context.Context, svc *gdrive.Service, name, mimeType string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), mimeType)
	list, err := svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// escapeQuery quotes a literal for the Drive search syntax.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
