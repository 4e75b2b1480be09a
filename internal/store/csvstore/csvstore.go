// Package csvstore keeps each entity kind in its own CSV file under a data
// directory. Every read goes to disk and every write rewrites the whole file
// atomically; nothing is cached between calls.
package csvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/photostore"
	"github.com/azzam2912/xseon-real/internal/record"
)

type Store struct {
	dir    string
	sink   photostore.Sink
	logger *slog.Logger
}

// New creates dir if needed and a header-only file for every missing table.
// Existing files are left alone until their next write.
func New(dir string, sink photostore.Sink, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{dir: dir, sink: sink, logger: logger}
	for _, t := range record.All {
		if err := s.ensureFile(t); err != nil {
			return nil, err
		}
	}
	logger.Debug("csv store ready", "dir", dir)
	return s, nil
}

func (s *Store) ListObjects(_ context.Context) ([]domain.Object, error) {
	return list(s, record.Objects, record.DecodeObject)
}

func (s *Store) GetObject(_ context.Context, id string) (*domain.Object, error) {
	return get(s, record.Objects, id, record.DecodeObject)
}

func (s *Store) SaveObject(_ context.Context, o domain.Object) error {
	row, err := record.EncodeObject(o)
	if err != nil {
		return err
	}
	if err := s.upsert(record.Objects, row); err != nil {
		return fmt.Errorf("failed to save object: %w", err)
	}
	return nil
}

func (s *Store) DeleteObject(_ context.Context, id string) error {
	if _, err := s.remove(record.Objects, func(r record.Row) bool { return r.ID() == id }); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *Store) DeleteObjectsByPlace(_ context.Context, placeID string) (int, error) {
	n, err := s.remove(record.Objects, func(r record.Row) bool { return r["place_id"] == placeID })
	if err != nil {
		return 0, fmt.Errorf("failed to delete objects in place: %w", err)
	}
	return n, nil
}

func (s *Store) ListPlaces(_ context.Context) ([]domain.Place, error) {
	return list(s, record.Places, record.DecodePlace)
}

func (s *Store) GetPlace(_ context.Context, id string) (*domain.Place, error) {
	return get(s, record.Places, id, record.DecodePlace)
}

func (s *Store) SavePlace(_ context.Context, p domain.Place) error {
	row, err := record.EncodePlace(p)
	if err != nil {
		return err
	}
	if err := s.upsert(record.Places, row); err != nil {
		return fmt.Errorf("failed to save place: %w", err)
	}
	return nil
}

func (s *Store) DeletePlace(_ context.Context, id string) error {
	if _, err := s.remove(record.Places, func(r record.Row) bool { return r.ID() == id }); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	return nil
}

func (s *Store) ListTags(_ context.Context) ([]domain.Tag, error) {
	return list(s, record.Tags, record.DecodeTag)
}

func (s *Store) GetTag(_ context.Context, id string) (*domain.Tag, error) {
	return get(s, record.Tags, id, record.DecodeTag)
}

func (s *Store) SaveTag(_ context.Context, t domain.Tag) error {
	row, err := record.EncodeTag(t)
	if err != nil {
		return err
	}
	if err := s.upsert(record.Tags, row); err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}
	return nil
}

func (s *Store) DeleteTag(_ context.Context, id string) error {
	if _, err := s.remove(record.Tags, func(r record.Row) bool { return r.ID() == id }); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

func (s *Store) ListLogs(_ context.Context) ([]domain.LogEntry, error) {
	return list(s, record.Logs, record.DecodeLog)
}

// AddLog appends through a full rewrite so a file with an older header is
// upgraded before the new row lands.
func (s *Store) AddLog(_ context.Context, e domain.LogEntry) error {
	if err := s.appendRow(record.Logs, record.EncodeLog(e)); err != nil {
		return fmt.Errorf("failed to add log: %w", err)
	}
	return nil
}

func (s *Store) ListAudit(_ context.Context) ([]domain.AuditEntry, error) {
	return list(s, record.Audit, record.DecodeAudit)
}

func (s *Store) AddAudit(_ context.Context, e domain.AuditEntry) error {
	if err := s.appendRow(record.Audit, record.EncodeAudit(e)); err != nil {
		return fmt.Errorf("failed to add audit entry: %w", err)
	}
	return nil
}

func (s *Store) UploadFileBytes(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("%w: no upload sink configured", domain.ErrBackendUnavailable)
	}
	return s.sink.Upload(ctx, kind, entityID, filename, mimeType, data)
}

func (s *Store) Close() error { return nil }
