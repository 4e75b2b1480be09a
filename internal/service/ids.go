package service

import (
	"context"
	"fmt"

	"github.com/azzam2912/xseon-real/internal/domain"
)

const (
	minID = 10000
	maxID = 99999
)

// NewID draws random five digit ids until one is unused for kind. The
// existing ids are read once; the loop only runs against that snapshot.
func (s *Service) NewID(ctx context.Context, kind domain.Kind) (string, error) {
	taken, err := s.existingIDs(ctx, kind)
	if err != nil {
		return "", err
	}
	for {
		id := fmt.Sprintf("%05d", minID+s.randIntn(maxID-minID+1))
		if !taken[id] {
			return id, nil
		}
		s.logger.Debug("generated id collides, retrying", "kind", kind, "id", id)
	}
}

func (s *Service) existingIDs(ctx context.Context, kind domain.Kind) (map[string]bool, error) {
	taken := map[string]bool{}
	switch kind {
	case domain.KindObject:
		objects, err := s.store.ListObjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, o := range objects {
			taken[o.ID] = true
		}
	case domain.KindPlace:
		places, err := s.store.ListPlaces(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list places: %w", err)
		}
		for _, p := range places {
			taken[p.ID] = true
		}
	case domain.KindTag:
		tags, err := s.store.ListTags(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		for _, t := range tags {
			taken[t.ID] = true
		}
	default:
		return nil, fmt.Errorf("%w: %s records have no id", domain.ErrInvalidValue, kind)
	}
	return taken, nil
}
