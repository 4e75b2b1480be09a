package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/azzam2912/xseon-real/internal/domain"
)

type PlaceInput struct {
	Name         string
	Description  string
	Images       []string
	Tags         []string
	Photos       []Upload
	RemovePhotos []int
}

func (s *Service) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if p == nil {
		return nil, notFound(domain.KindPlace, id)
	}
	return p, nil
}

func (s *Service) ListPlaces(ctx context.Context, tagID string) ([]domain.Place, error) {
	places, err := s.store.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	if tagID == "" {
		return places, nil
	}
	return slices.DeleteFunc(places, func(p domain.Place) bool { return !p.HasTag(tagID) }), nil
}

func (s *Service) CreatePlace(ctx context.Context, in PlaceInput) (*domain.Place, error) {
	name, err := requireName(domain.KindPlace, in.Name)
	if err != nil {
		return nil, err
	}
	id, err := s.NewID(ctx, domain.KindPlace)
	if err != nil {
		return nil, err
	}

	p := domain.Place{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Images:      cleanList(in.Images),
		ImagesPhoto: s.uploadAll(ctx, domain.KindPlace, id, in.Photos),
		Tags:        domain.NormalizeTags(in.Tags),
	}
	if err := s.store.SavePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save place: %w", err)
	}
	s.logger.Info("place created", "place_id", id)

	if err := s.audit(ctx, domain.KindPlace, id, domain.ActionCreated, name); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlace replaces the editable fields and keeps put_at.
func (s *Service) UpdatePlace(ctx context.Context, id string, in PlaceInput) (*domain.Place, error) {
	name, err := requireName(domain.KindPlace, in.Name)
	if err != nil {
		return nil, err
	}
	prev, err := s.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}

	photos := append(slices.Clone(prev.ImagesPhoto), s.uploadAll(ctx, domain.KindPlace, id, in.Photos)...)
	p := domain.Place{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Images:      cleanList(in.Images),
		ImagesPhoto: withoutIndices(photos, in.RemovePhotos),
		Tags:        domain.NormalizeTags(in.Tags),
		PutAt:       prev.PutAt,
	}
	if err := s.store.SavePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save place: %w", err)
	}
	s.logger.Info("place updated", "place_id", id)

	if err := s.audit(ctx, domain.KindPlace, id, domain.ActionUpdated, name); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlace refuses with ErrIntegrity while any object is in the place.
func (s *Service) DeletePlace(ctx context.Context, id string) error {
	p, err := s.GetPlace(ctx, id)
	if err != nil {
		return err
	}
	inside, err := s.ObjectsInPlace(ctx, id)
	if err != nil {
		return err
	}
	if len(inside) > 0 {
		return fmt.Errorf("%w: place %s holds %d objects", domain.ErrIntegrity, id, len(inside))
	}

	if err := s.store.DeletePlace(ctx, id); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	s.logger.Info("place deleted", "place_id", id)
	return s.audit(ctx, domain.KindPlace, id, domain.ActionDeleted, p.Name)
}

// DeleteAllObjectsInPlace removes every object in the place and returns the
// count. It is the one way to empty a place without per-object deletes.
func (s *Service) DeleteAllObjectsInPlace(ctx context.Context, placeID string) (int, error) {
	if _, err := s.GetPlace(ctx, placeID); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteObjectsByPlace(ctx, placeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete objects in place: %w", err)
	}
	s.logger.Info("place cleared", "place_id", placeID, "removed", n)

	if err := s.audit(ctx, domain.KindPlace, placeID, domain.ActionDeleteAllObjects, strconv.Itoa(n)); err != nil {
		return n, err
	}
	return n, nil
}
