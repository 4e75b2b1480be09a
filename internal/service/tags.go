package service

import (
	"context"
	"fmt"

	"github.com/azzam2912/xseon-real/internal/domain"
)

func (s *Service) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	if t == nil {
		return nil, notFound(domain.KindTag, id)
	}
	return t, nil
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *Service) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name, err := requireName(domain.KindTag, name)
	if err != nil {
		return nil, err
	}
	id, err := s.NewID(ctx, domain.KindTag)
	if err != nil {
		return nil, err
	}
	t := domain.Tag{ID: id, Name: name}
	if err := s.store.SaveTag(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tag: %w", err)
	}
	s.logger.Info("tag created", "tag_id", id)

	if err := s.audit(ctx, domain.KindTag, id, domain.ActionCreated, name); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) UpdateTag(ctx context.Context, id, name string) (*domain.Tag, error) {
	name, err := requireName(domain.KindTag, name)
	if err != nil {
		return nil, err
	}
	t, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	if err := s.store.SaveTag(ctx, *t); err != nil {
		return nil, fmt.Errorf("failed to save tag: %w", err)
	}
	s.logger.Info("tag updated", "tag_id", id)

	if err := s.audit(ctx, domain.KindTag, id, domain.ActionUpdated, name); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTag refuses with ErrIntegrity while any object or place carries the tag.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	t, err := s.GetTag(ctx, id)
	if err != nil {
		return err
	}
	objects, err := s.ListObjects(ctx, id)
	if err != nil {
		return err
	}
	places, err := s.ListPlaces(ctx, id)
	if err != nil {
		return err
	}
	if len(objects) > 0 || len(places) > 0 {
		return fmt.Errorf("%w: tag %s is used by %d objects and %d places", domain.ErrIntegrity, id, len(objects), len(places))
	}

	if err := s.store.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	s.logger.Info("tag deleted", "tag_id", id)
	return s.audit(ctx, domain.KindTag, id, domain.ActionDeleted, t.Name)
}
