package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
)

// MoveInput is a manually recorded move. A zero At means now.
type MoveInput struct {
	ObjectID string
	PlaceID  string
	Notes    string
	At       time.Time
}

func (s *Service) ListLogs(ctx context.Context) ([]domain.LogEntry, error) {
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

func (s *Service) ListAudit(ctx context.Context) ([]domain.AuditEntry, error) {
	entries, err := s.store.ListAudit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// LogMove appends a log entry and, when the object exists, moves it to the
// logged place with put_at set to the log time. Unknown objects are logged
// anyway.
func (s *Service) LogMove(ctx context.Context, in MoveInput) (*domain.LogEntry, error) {
	objectID := strings.TrimSpace(in.ObjectID)
	if objectID == "" {
		return nil, fmt.Errorf("%w: object id is required", domain.ErrInvalidValue)
	}
	placeID := strings.TrimSpace(in.PlaceID)
	at := in.At.UTC()
	if in.At.IsZero() {
		at = s.clock()
	}

	if err := s.addLog(ctx, at, objectID, placeID, in.Notes); err != nil {
		return nil, err
	}

	o, err := s.store.GetObject(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if o != nil {
		o.PlaceID = placeID
		o.PutAt = nil
		if placeID != "" {
			o.PutAt = &at
		}
		if err := s.store.SaveObject(ctx, *o); err != nil {
			return nil, fmt.Errorf("failed to save object: %w", err)
		}
	}
	s.logger.Info("move logged", "object_id", objectID, "place_id", placeID, "object_known", o != nil)

	return &domain.LogEntry{Timestamp: at, ObjectID: objectID, PlaceID: placeID, Notes: in.Notes}, nil
}
