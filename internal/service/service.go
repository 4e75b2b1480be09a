// Package service holds the rules above raw record storage: id generation,
// auto-logs for moves and tag changes, delete guards and audit entries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/store"
)

type Service struct {
	store  store.Store
	logger *slog.Logger

	now      func() time.Time
	randIntn func(n int) int
}

func New(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		logger:   logger,
		now:      time.Now,
		randIntn: rand.IntN,
	}
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) audit(ctx context.Context, kind domain.Kind, id, action, details string) error {
	entry := domain.AuditEntry{
		Timestamp:  s.clock(),
		EntityType: kind,
		EntityID:   id,
		Action:     action,
		Details:    details,
	}
	if err := s.store.AddAudit(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (s *Service) addLog(ctx context.Context, at time.Time, objectID, placeID, notes string) error {
	entry := domain.LogEntry{Timestamp: at, ObjectID: objectID, PlaceID: placeID, Notes: notes}
	if err := s.store.AddLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to add log: %w", err)
	}
	return nil
}

func requireName(kind domain.Kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s name is required", domain.ErrInvalidValue, kind)
	}
	return name, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func notFound(kind domain.Kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}
