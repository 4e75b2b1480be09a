package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
)

const (
	noteCreatedObject = "auto: created object"
	noteMovedObject   = "auto: moved object"
	noteTagsPrefix    = "auto: tags"
)

// ObjectInput carries the editable fields of an Object. On update, Photos
// are appended to the existing photos before RemovePhotos (indices into the
// combined list) are dropped.
type ObjectInput struct {
	Name         string
	Description  string
	Images       []string
	Tags         []string
	PlaceID      string
	Photos       []Upload
	RemovePhotos []int
}

func (s *Service) GetObject(ctx context.Context, id string) (*domain.Object, error) {
	o, err := s.store.GetObject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if o == nil {
		return nil, notFound(domain.KindObject, id)
	}
	return o, nil
}

// ListObjects returns every object, or only those carrying tagID when it is
// non-empty.
func (s *Service) ListObjects(ctx context.Context, tagID string) ([]domain.Object, error) {
	objects, err := s.store.ListObjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	if tagID == "" {
		return objects, nil
	}
	return slices.DeleteFunc(objects, func(o domain.Object) bool { return !o.HasTag(tagID) }), nil
}

func (s *Service) ObjectsInPlace(ctx context.Context, placeID string) ([]domain.Object, error) {
	objects, err := s.store.ListObjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return slices.DeleteFunc(objects, func(o domain.Object) bool { return o.PlaceID != placeID }), nil
}

func (s *Service) CreateObject(ctx context.Context, in ObjectInput) (*domain.Object, error) {
	name, err := requireName(domain.KindObject, in.Name)
	if err != nil {
		return nil, err
	}
	placeID := strings.TrimSpace(in.PlaceID)
	if err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}
	id, err := s.NewID(ctx, domain.KindObject)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	o := domain.Object{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Images:      cleanList(in.Images),
		ImagesPhoto: s.uploadAll(ctx, domain.KindObject, id, in.Photos),
		Tags:        domain.NormalizeTags(in.Tags),
		PlaceID:     placeID,
	}
	if placeID != "" {
		o.PutAt = &now
	}
	if err := s.store.SaveObject(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save object: %w", err)
	}
	s.logger.Info("object created", "object_id", id, "place_id", placeID)

	if placeID != "" {
		if err := s.addLog(ctx, now, id, placeID, noteCreatedObject); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// UpdateObject replaces the object's fields. Moving to a different place
// stamps put_at and logs the move; clearing the place clears put_at without
// a log. A change of tag set is logged as one tag-diff entry.
func (s *Service) UpdateObject(ctx context.Context, id string, in ObjectInput) (*domain.Object, error) {
	name, err := requireName(domain.KindObject, in.Name)
	if err != nil {
		return nil, err
	}
	prev, err := s.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}
	placeID := strings.TrimSpace(in.PlaceID)
	moved := placeID != "" && placeID != prev.PlaceID
	if moved {
		if err := s.requirePlace(ctx, placeID); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	photos := append(slices.Clone(prev.ImagesPhoto), s.uploadAll(ctx, domain.KindObject, id, in.Photos)...)
	o := domain.Object{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Images:      cleanList(in.Images),
		ImagesPhoto: withoutIndices(photos, in.RemovePhotos),
		Tags:        domain.NormalizeTags(in.Tags),
		PlaceID:     placeID,
		PutAt:       putAtAfter(prev, placeID, now),
	}
	if err := s.store.SaveObject(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save object: %w", err)
	}
	s.logger.Info("object updated", "object_id", id, "place_id", placeID, "moved", moved)

	if moved {
		if err := s.addLog(ctx, now, id, placeID, noteMovedObject); err != nil {
			return nil, err
		}
	}
	if note, ok := tagDiffNote(prev.Tags, o.Tags); ok {
		logPlace := placeID
		if logPlace == "" {
			logPlace = prev.PlaceID
		}
		if err := s.addLog(ctx, now, id, logPlace, note); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func putAtAfter(prev *domain.Object, placeID string, now time.Time) *time.Time {
	switch {
	case placeID == "":
		return nil
	case placeID != prev.PlaceID || prev.PutAt == nil:
		return &now
	default:
		t := *prev.PutAt
		return &t
	}
}

// tagDiffNote renders added tags as +id and removed ones as -id.
func tagDiffNote(prev, next []string) (string, bool) {
	added, removed := domain.DiffTags(prev, next)
	if len(added) == 0 && len(removed) == 0 {
		return "", false
	}
	parts := []string{noteTagsPrefix}
	for _, t := range added {
		parts = append(parts, "+"+t)
	}
	for _, t := range removed {
		parts = append(parts, "-"+t)
	}
	return strings.Join(parts, " "), true
}

func (s *Service) DeleteObject(ctx context.Context, id string) error {
	if _, err := s.GetObject(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	s.logger.Info("object deleted", "object_id", id)
	return nil
}

func (s *Service) requirePlace(ctx context.Context, placeID string) error {
	if placeID == "" {
		return nil
	}
	p, err := s.store.GetPlace(ctx, placeID)
	if err != nil {
		return fmt.Errorf("failed to get place: %w", err)
	}
	if p == nil {
		return notFound(domain.KindPlace, placeID)
	}
	return nil
}
