// Package storetest is a conformance suite run against every store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/store"
)

// Factory returns an empty store. Cleanup belongs to the factory.
type Factory func(t *testing.T) store.Store

var (
	t1 = time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)
	t2 = time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
)

func sampleObject(id string) domain.Object {
	put := t1
	return domain.Object{
		ID:          id,
		Name:        "Drill, cordless",
		Description: "line one\nline \"two\"",
		Images:      []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
		ImagesPhoto: []string{"/uploads/objects/" + id + "/p.jpg"},
		Tags:        []string{"tools", "power"},
		PlaceID:     "P1",
		PutAt:       &put,
	}
}

func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("EmptyStoreListsNothing", func(t *testing.T) {
		s := newStore(t)
		objects, err := s.ListObjects(ctx)
		require.NoError(t, err)
		assert.Empty(t, objects)
		places, err := s.ListPlaces(ctx)
		require.NoError(t, err)
		assert.Empty(t, places)
		tags, err := s.ListTags(ctx)
		require.NoError(t, err)
		assert.Empty(t, tags)
		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		assert.Empty(t, logs)
		audit, err := s.ListAudit(ctx)
		require.NoError(t, err)
		assert.Empty(t, audit)
	})

	t.Run("ObjectRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := sampleObject("O1")
		require.NoError(t, s.SaveObject(ctx, want))

		got, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	})

	t.Run("ObjectWithoutPlace", func(t *testing.T) {
		s := newStore(t)
		want := domain.Object{ID: "O1", Name: "loose"}
		require.NoError(t, s.SaveObject(ctx, want))

		got, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	})

	t.Run("EmptyListsReadBackAsNil", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveObject(ctx, domain.Object{
			ID:          "O1",
			Name:        "bare",
			Images:      []string{},
			ImagesPhoto: []string{""},
			Tags:        []string{"", "t1"},
		}))

		got, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.Object{ID: "O1", Name: "bare", Tags: []string{"t1"}}, *got)
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		s := newStore(t)
		o, err := s.GetObject(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, o)
		p, err := s.GetPlace(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, p)
		tag, err := s.GetTag(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, tag)
	})

	t.Run("SaveReplacesExisting", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveObject(ctx, sampleObject("O1")))
		require.NoError(t, s.SaveObject(ctx, sampleObject("O2")))

		updated := sampleObject("O1")
		updated.Name = "renamed"
		updated.Tags = []string{"tools"}
		require.NoError(t, s.SaveObject(ctx, updated))

		objects, err := s.ListObjects(ctx)
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "O1", objects[0].ID)
		assert.Equal(t, "renamed", objects[0].Name)
		assert.Equal(t, []string{"tools"}, objects[0].Tags)
		assert.Equal(t, "O2", objects[1].ID)
	})

	t.Run("ListPreservesInsertionOrder", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.SaveTag(ctx, domain.Tag{ID: id, Name: "tag " + id}))
		}
		tags, err := s.ListTags(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 3)
		assert.Equal(t, "c", tags[0].ID)
		assert.Equal(t, "a", tags[1].ID)
		assert.Equal(t, "b", tags[2].ID)
	})

	t.Run("DeleteRemovesOnlyTarget", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveObject(ctx, sampleObject("O1")))
		require.NoError(t, s.SaveObject(ctx, sampleObject("O2")))

		require.NoError(t, s.DeleteObject(ctx, "O1"))

		got, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		assert.Nil(t, got)
		objects, err := s.ListObjects(ctx)
		require.NoError(t, err)
		require.Len(t, objects, 1)
		assert.Equal(t, "O2", objects[0].ID)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveTag(ctx, domain.Tag{ID: "T1", Name: "one"}))
		require.NoError(t, s.DeleteObject(ctx, "nope"))
		require.NoError(t, s.DeletePlace(ctx, "nope"))
		require.NoError(t, s.DeleteTag(ctx, "nope"))

		tags, err := s.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})

	t.Run("DeleteObjectsByPlace", func(t *testing.T) {
		s := newStore(t)
		for _, o := range []domain.Object{
			{ID: "O1", PlaceID: "P1"},
			{ID: "O2", PlaceID: "P2"},
			{ID: "O3", PlaceID: "P1"},
			{ID: "O4", PlaceID: "P1"},
		} {
			require.NoError(t, s.SaveObject(ctx, o))
		}

		n, err := s.DeleteObjectsByPlace(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		objects, err := s.ListObjects(ctx)
		require.NoError(t, err)
		require.Len(t, objects, 1)
		assert.Equal(t, "O2", objects[0].ID)

		n, err = s.DeleteObjectsByPlace(ctx, "P1")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("PlaceRoundTrip", func(t *testing.T) {
		s := newStore(t)
		put := t2
		want := domain.Place{
			ID:          "P1",
			Name:        "Garage",
			Description: "north wall",
			Images:      []string{"https://example.com/g.jpg"},
			Tags:        []string{"outdoor"},
			PutAt:       &put,
		}
		require.NoError(t, s.SavePlace(ctx, want))

		got, err := s.GetPlace(ctx, "P1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	})

	t.Run("DelimiterInListIsRejected", func(t *testing.T) {
		s := newStore(t)
		o := sampleObject("O1")
		o.Tags = []string{"a|b"}
		err := s.SaveObject(ctx, o)
		require.ErrorIs(t, err, domain.ErrInvalidValue)

		objects, err := s.ListObjects(ctx)
		require.NoError(t, err)
		assert.Empty(t, objects)

		p := domain.Place{ID: "P1", Images: []string{"x|y"}}
		require.ErrorIs(t, s.SavePlace(ctx, p), domain.ErrInvalidValue)
	})

	t.Run("EmptyIDIsRejected", func(t *testing.T) {
		s := newStore(t)
		require.ErrorIs(t, s.SaveTag(ctx, domain.Tag{Name: "anon"}), domain.ErrInvalidValue)
	})

	t.Run("ReturnedValuesAreCopies", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveObject(ctx, sampleObject("O1")))

		got, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		got.Name = "mutated"
		got.Tags[0] = "mutated"

		again, err := s.GetObject(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, "Drill, cordless", again.Name)
		assert.Equal(t, "tools", again.Tags[0])
	})

	t.Run("LogsAppendInOrder", func(t *testing.T) {
		s := newStore(t)
		first := domain.LogEntry{Timestamp: t1, ObjectID: "O1", PlaceID: "P1", Notes: "auto: created object"}
		second := domain.LogEntry{Timestamp: t2, ObjectID: "O1", PlaceID: "", Notes: "moved, \"carefully\""}
		require.NoError(t, s.AddLog(ctx, first))
		require.NoError(t, s.AddLog(ctx, second))

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.True(t, t1.Equal(logs[0].Timestamp))
		assert.Equal(t, first.ObjectID, logs[0].ObjectID)
		assert.Equal(t, first.PlaceID, logs[0].PlaceID)
		assert.Equal(t, first.Notes, logs[0].Notes)
		assert.True(t, t2.Equal(logs[1].Timestamp))
		assert.Empty(t, logs[1].PlaceID)
		assert.Equal(t, second.Notes, logs[1].Notes)
	})

	t.Run("AuditAppendInOrder", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddAudit(ctx, domain.AuditEntry{
			Timestamp: t1, EntityType: domain.KindPlace, EntityID: "P1", Action: domain.ActionCreated,
		}))
		require.NoError(t, s.AddAudit(ctx, domain.AuditEntry{
			Timestamp: t2, EntityType: domain.KindPlace, EntityID: "P1", Action: domain.ActionDeleteAllObjects, Details: "3",
		}))

		audit, err := s.ListAudit(ctx)
		require.NoError(t, err)
		require.Len(t, audit, 2)
		assert.Equal(t, domain.KindPlace, audit[0].EntityType)
		assert.Equal(t, domain.ActionCreated, audit[0].Action)
		assert.Equal(t, domain.ActionDeleteAllObjects, audit[1].Action)
		assert.Equal(t, "3", audit[1].Details)
		assert.True(t, t2.Equal(audit[1].Timestamp))
	})

	t.Run("UploadReturnsURL", func(t *testing.T) {
		s := newStore(t)
		url, err := s.UploadFileBytes(ctx, domain.KindObject, "O1", "photo.jpg", "image/jpeg", []byte("jpeg"))
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	})
}
