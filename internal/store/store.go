// Package store defines the record store contract every backend satisfies
// and the factory that picks a backend from configuration.
//
// Getters report absence as (nil, nil). Deletes of absent ids are no-ops.
// Every list or get materializes fresh values from the medium, so callers
// may mutate what they receive. There is no locking: two concurrent saves to
// the same table race and the last writer wins.
package store

import (
	"context"

	"github.com/azzam2912/xseon-real/internal/domain"
)

type Store interface {
	ListObjects(ctx context.Context) ([]domain.Object, error)
	GetObject(ctx context.Context, id string) (*domain.Object, error)
	SaveObject(ctx context.Context, o domain.Object) error
	DeleteObject(ctx context.Context, id string) error
	// DeleteObjectsByPlace removes every object whose place_id matches and
	// returns how many were removed.
	DeleteObjectsByPlace(ctx context.Context, placeID string) (int, error)

	ListPlaces(ctx context.Context) ([]domain.Place, error)
	GetPlace(ctx context.Context, id string) (*domain.Place, error)
	SavePlace(ctx context.Context, p domain.Place) error
	DeletePlace(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	SaveTag(ctx context.Context, t domain.Tag) error
	DeleteTag(ctx context.Context, id string) error

	ListLogs(ctx context.Context) ([]domain.LogEntry, error)
	AddLog(ctx context.Context, e domain.LogEntry) error

	ListAudit(ctx context.Context) ([]domain.AuditEntry, error)
	AddAudit(ctx context.Context, e domain.AuditEntry) error

	// UploadFileBytes persists an attachment and returns its fetchable URL.
	UploadFileBytes(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error)

	Close() error
}
