package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/store"
	"github.com/azzam2912/xseon-real/internal/store/csvstore"
)

var (
	t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 5, 2, 17, 30, 0, 0, time.UTC)
)

// uploadStub records uploads and fails for filenames listed in fail.
type uploadStub struct {
	store.Store
	fail     map[string]bool
	uploaded []string
}

func (u *uploadStub) UploadFileBytes(_ context.Context, kind domain.Kind, entityID, filename, _ string, _ []byte) (string, error) {
	if u.fail[filename] {
		return "", errors.New("disk full")
	}
	u.uploaded = append(u.uploaded, filename)
	return "/uploads/" + kind.Plural() + "/" + entityID + "/" + filename, nil
}

type testEnv struct {
	svc   *Service
	store *uploadStub
	clock *time.Time
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()
	cs, err := csvstore.New(filepath.Join(t.TempDir(), "data"), nil, nil)
	require.NoError(t, err)
	st := &uploadStub{Store: cs, fail: map[string]bool{}}

	now := t0
	svc := New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return &testEnv{svc: svc, store: st, clock: &now}
}

func (e *testEnv) savePlace(t *testing.T, id string, tags ...string) {
	t.Helper()
	require.NoError(t, e.store.SavePlace(context.Background(), domain.Place{ID: id, Name: "place " + id, Tags: tags}))
}

func (e *testEnv) logs(t *testing.T) []domain.LogEntry {
	t.Helper()
	logs, err := e.svc.ListLogs(context.Background())
	require.NoError(t, err)
	return logs
}

func (e *testEnv) audit(t *testing.T) []domain.AuditEntry {
	t.Helper()
	entries, err := e.svc.ListAudit(context.Background())
	require.NoError(t, err)
	return entries
}

// sequence returns a randIntn that yields values in order.
func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i]
		i++
		return v
	}
}

func TestNewIDIsFiveDigits(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	pattern := regexp.MustCompile(`^[0-9]{5}$`)

	for range 50 {
		id, err := env.svc.NewID(ctx, domain.KindObject)
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}

	env.svc.randIntn = sequence(0, 89999)
	id, err := env.svc.NewID(ctx, domain.KindTag)
	require.NoError(t, err)
	assert.Equal(t, "10000", id)
	id, err = env.svc.NewID(ctx, domain.KindTag)
	require.NoError(t, err)
	assert.Equal(t, "99999", id)
}

func TestNewIDRetriesOnCollision(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	require.NoError(t, env.store.SaveTag(ctx, domain.Tag{ID: "10005", Name: "taken"}))
	require.NoError(t, env.store.SaveTag(ctx, domain.Tag{ID: "10006", Name: "taken"}))

	env.svc.randIntn = sequence(5, 6, 5, 7)
	id, err := env.svc.NewID(ctx, domain.KindTag)
	require.NoError(t, err)
	assert.Equal(t, "10007", id)
}

func TestNewIDIsPerKind(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "10005")

	env.svc.randIntn = sequence(5)
	id, err := env.svc.NewID(ctx, domain.KindObject)
	require.NoError(t, err)
	assert.Equal(t, "10005", id)
}

func TestNewIDRejectsAppendOnlyKinds(t *testing.T) {
	env := newTestService(t)
	_, err := env.svc.NewID(context.Background(), domain.KindLog)
	require.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestCreateObjectInPlaceLogsCreation(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{
		Name:    "  Drill ",
		Images:  []string{" https://example.com/a.jpg ", ""},
		Tags:    []string{"b", "a", "b", " "},
		PlaceID: "40000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Drill", o.Name)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, o.Images)
	assert.Equal(t, []string{"b", "a"}, o.Tags)
	require.NotNil(t, o.PutAt)
	assert.True(t, t0.Equal(*o.PutAt))

	stored, err := env.svc.GetObject(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "40000", stored.PlaceID)
	require.NotNil(t, stored.PutAt)
	assert.True(t, t0.Equal(*stored.PutAt))

	logs := env.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "auto: created object", logs[0].Notes)
	assert.Equal(t, o.ID, logs[0].ObjectID)
	assert.Equal(t, "40000", logs[0].PlaceID)
	assert.True(t, t0.Equal(logs[0].Timestamp))
	assert.Empty(t, env.audit(t))
}

func TestCreateObjectWithoutPlace(t *testing.T) {
	env := newTestService(t)

	o, err := env.svc.CreateObject(context.Background(), ObjectInput{Name: "loose"})
	require.NoError(t, err)
	assert.Nil(t, o.PutAt)
	assert.Empty(t, env.logs(t))
}

func TestCreateObjectUnknownPlace(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", PlaceID: "40000"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	objects, err := env.svc.ListObjects(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestCreateRequiresName(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.CreateObject(ctx, ObjectInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	_, err = env.svc.CreatePlace(ctx, PlaceInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	_, err = env.svc.CreateTag(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestUpdateObjectMoveLogsAndStamps(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")
	env.savePlace(t, "40001")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", PlaceID: "40000"})
	require.NoError(t, err)

	*env.clock = t1
	updated, err := env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill", PlaceID: "40001"})
	require.NoError(t, err)
	require.NotNil(t, updated.PutAt)
	assert.True(t, t1.Equal(*updated.PutAt))

	logs := env.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, "auto: moved object", logs[1].Notes)
	assert.Equal(t, "40001", logs[1].PlaceID)
	assert.True(t, t1.Equal(logs[1].Timestamp))
}

func TestUpdateObjectSamePlaceKeepsPutAt(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", PlaceID: "40000"})
	require.NoError(t, err)

	*env.clock = t1
	updated, err := env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "cordless drill", PlaceID: "40000"})
	require.NoError(t, err)
	require.NotNil(t, updated.PutAt)
	assert.True(t, t0.Equal(*updated.PutAt))
	assert.Len(t, env.logs(t), 1)
}

func TestUpdateObjectClearingPlace(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", PlaceID: "40000"})
	require.NoError(t, err)

	updated, err := env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill"})
	require.NoError(t, err)
	assert.Empty(t, updated.PlaceID)
	assert.Nil(t, updated.PutAt)

	stored, err := env.svc.GetObject(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PutAt)
	assert.Len(t, env.logs(t), 1)
}

func TestUpdateObjectMoveToUnknownPlace(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill"})
	require.NoError(t, err)

	_, err = env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill", PlaceID: "49999"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateObjectTagDiff(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", Tags: []string{"a", "b"}, PlaceID: "40000"})
	require.NoError(t, err)

	_, err = env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill", Tags: []string{"b", "c"}, PlaceID: "40000"})
	require.NoError(t, err)

	logs := env.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, "auto: tags +c -a", logs[1].Notes)
	assert.Contains(t, logs[1].Notes, "+c")
	assert.Contains(t, logs[1].Notes, "-a")
	assert.Equal(t, "40000", logs[1].PlaceID)
}

func TestUpdateObjectTagDiffUsesPreviousPlaceWhenCleared(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", Tags: []string{"a"}, PlaceID: "40000"})
	require.NoError(t, err)

	_, err = env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill"})
	require.NoError(t, err)

	logs := env.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, "auto: tags -a", logs[1].Notes)
	assert.Equal(t, "40000", logs[1].PlaceID)
}

func TestUpdateObjectSameTagsNoLog(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	_, err = env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill", Tags: []string{"b", "a", "a"}})
	require.NoError(t, err)
	assert.Empty(t, env.logs(t))
}

func TestUpdateObjectMoveAndRetagLogsBoth(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill"})
	require.NoError(t, err)

	_, err = env.svc.UpdateObject(ctx, o.ID, ObjectInput{Name: "drill", Tags: []string{"x"}, PlaceID: "40000"})
	require.NoError(t, err)

	logs := env.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, "auto: moved object", logs[0].Notes)
	assert.Equal(t, "auto: tags +x", logs[1].Notes)
}

func TestUpdateMissingObject(t *testing.T) {
	env := newTestService(t)
	_, err := env.svc.UpdateObject(context.Background(), "12345", ObjectInput{Name: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	objects, err := env.svc.ListObjects(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestDeleteObject(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill"})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteObject(ctx, o.ID))

	_, err = env.svc.GetObject(ctx, o.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, env.svc.DeleteObject(ctx, o.ID), domain.ErrNotFound)
	assert.Empty(t, env.audit(t))
}

func TestUploadsAreBestEffort(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.store.fail["bad.jpg"] = true

	o, err := env.svc.CreateObject(ctx, ObjectInput{
		Name: "drill",
		Photos: []Upload{
			{Filename: "one.jpg", MimeType: "image/jpeg", Data: []byte("1")},
			{Filename: "bad.jpg", MimeType: "image/jpeg", Data: []byte("2")},
			{Filename: "empty.jpg", MimeType: "image/jpeg"},
			{Filename: "two.png", MimeType: "image/png", Data: []byte("3")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one.jpg", "two.png"}, env.store.uploaded)
	assert.Equal(t, []string{
		"/uploads/objects/" + o.ID + "/one.jpg",
		"/uploads/objects/" + o.ID + "/two.png",
	}, o.ImagesPhoto)

	stored, err := env.svc.GetObject(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ImagesPhoto, stored.ImagesPhoto)
}

func TestUpdateAppendsThenRemovesPhotos(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	o, err := env.svc.CreateObject(ctx, ObjectInput{
		Name:   "drill",
		Photos: []Upload{{Filename: "a.jpg", Data: []byte("a")}, {Filename: "b.jpg", Data: []byte("b")}},
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdateObject(ctx, o.ID, ObjectInput{
		Name:         "drill",
		Photos:       []Upload{{Filename: "c.jpg", Data: []byte("c")}},
		RemovePhotos: []int{0, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/uploads/objects/" + o.ID + "/b.jpg",
		"/uploads/objects/" + o.ID + "/c.jpg",
	}, updated.ImagesPhoto)
}

func TestListObjectsByTag(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	_, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", Tags: []string{"tools"}, PlaceID: "40000"})
	require.NoError(t, err)
	_, err = env.svc.CreateObject(ctx, ObjectInput{Name: "bread", Tags: []string{"food"}})
	require.NoError(t, err)

	all, err := env.svc.ListObjects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tools, err := env.svc.ListObjects(ctx, "tools")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "drill", tools[0].Name)

	inPlace, err := env.svc.ObjectsInPlace(ctx, "40000")
	require.NoError(t, err)
	require.Len(t, inPlace, 1)
	assert.Equal(t, "drill", inPlace[0].Name)
}

func TestPlaceLifecycleAudits(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	p, err := env.svc.CreatePlace(ctx, PlaceInput{Name: "Garage", Tags: []string{"outdoor"}})
	require.NoError(t, err)
	assert.Nil(t, p.PutAt)

	_, err = env.svc.UpdatePlace(ctx, p.ID, PlaceInput{Name: "Big Garage"})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeletePlace(ctx, p.ID))

	entries := env.audit(t)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, domain.KindPlace, e.EntityType)
		assert.Equal(t, p.ID, e.EntityID)
		assert.True(t, t0.Equal(e.Timestamp))
	}
	assert.Equal(t, domain.ActionCreated, entries[0].Action)
	assert.Equal(t, "Garage", entries[0].Details)
	assert.Equal(t, domain.ActionUpdated, entries[1].Action)
	assert.Equal(t, "Big Garage", entries[1].Details)
	assert.Equal(t, domain.ActionDeleted, entries[2].Action)
	assert.Equal(t, "Big Garage", entries[2].Details)
	assert.Empty(t, env.logs(t))
}

func TestUpdatePlacePreservesPutAt(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	put := t0
	require.NoError(t, env.store.SavePlace(ctx, domain.Place{ID: "40000", Name: "old", PutAt: &put}))

	p, err := env.svc.UpdatePlace(ctx, "40000", PlaceInput{Name: "new"})
	require.NoError(t, err)
	require.NotNil(t, p.PutAt)
	assert.True(t, t0.Equal(*p.PutAt))

	_, err = env.svc.UpdatePlace(ctx, "49999", PlaceInput{Name: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePlaceGuard(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill", PlaceID: "40000"})
	require.NoError(t, err)

	err = env.svc.DeletePlace(ctx, "40000")
	require.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = env.svc.GetPlace(ctx, "40000")
	require.NoError(t, err)
	stored, err := env.svc.GetObject(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "40000", stored.PlaceID)
	assert.Empty(t, env.audit(t))

	require.NoError(t, env.svc.DeleteObject(ctx, o.ID))
	require.NoError(t, env.svc.DeletePlace(ctx, "40000"))
	places, err := env.svc.ListPlaces(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, places)

	require.ErrorIs(t, env.svc.DeletePlace(ctx, "40000"), domain.ErrNotFound)
}

func TestDeleteAllObjectsInPlace(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.savePlace(t, "40000")
	env.savePlace(t, "40001")

	for _, place := range []string{"40000", "40001", "40000", "40000"} {
		_, err := env.svc.CreateObject(ctx, ObjectInput{Name: "thing", PlaceID: place})
		require.NoError(t, err)
	}

	n, err := env.svc.DeleteAllObjectsInPlace(ctx, "40000")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = env.svc.DeleteAllObjectsInPlace(ctx, "40000")
	require.NoError(t, err)
	assert.Zero(t, n)

	remaining, err := env.svc.ListObjects(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "40001", remaining[0].PlaceID)

	entries := env.audit(t)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionDeleteAllObjects, entries[0].Action)
	assert.Equal(t, "3", entries[0].Details)
	assert.Equal(t, "0", entries[1].Details)

	_, err = env.svc.DeleteAllObjectsInPlace(ctx, "49999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagLifecycleAudits(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	tag, err := env.svc.CreateTag(ctx, "tools")
	require.NoError(t, err)
	_, err = env.svc.UpdateTag(ctx, tag.ID, "power tools")
	require.NoError(t, err)

	got, err := env.svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "power tools", got.Name)

	require.NoError(t, env.svc.DeleteTag(ctx, tag.ID))

	entries := env.audit(t)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.KindTag, entries[0].EntityType)
	assert.Equal(t, []string{domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted},
		[]string{entries[0].Action, entries[1].Action, entries[2].Action})
	assert.Equal(t, "power tools", entries[2].Details)

	_, err = env.svc.UpdateTag(ctx, tag.ID, "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTagGuard(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	onObject, err := env.svc.CreateTag(ctx, "tools")
	require.NoError(t, err)
	onPlace, err := env.svc.CreateTag(ctx, "outdoor")
	require.NoError(t, err)
	unused, err := env.svc.CreateTag(ctx, "spare")
	require.NoError(t, err)

	_, err = env.svc.CreateObject(ctx, ObjectInput{Name: "drill", Tags: []string{onObject.ID}})
	require.NoError(t, err)
	env.savePlace(t, "40000", onPlace.ID)

	require.ErrorIs(t, env.svc.DeleteTag(ctx, onObject.ID), domain.ErrIntegrity)
	require.ErrorIs(t, env.svc.DeleteTag(ctx, onPlace.ID), domain.ErrIntegrity)
	require.NoError(t, env.svc.DeleteTag(ctx, unused.ID))

	tags, err := env.svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestLogMoveUpdatesObject(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	o, err := env.svc.CreateObject(ctx, ObjectInput{Name: "drill"})
	require.NoError(t, err)

	entry, err := env.svc.LogMove(ctx, MoveInput{ObjectID: o.ID, PlaceID: "40000", Notes: "lent to neighbour", At: t1})
	require.NoError(t, err)
	assert.True(t, t1.Equal(entry.Timestamp))

	stored, err := env.svc.GetObject(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "40000", stored.PlaceID)
	require.NotNil(t, stored.PutAt)
	assert.True(t, t1.Equal(*stored.PutAt))

	logs := env.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "lent to neighbour", logs[0].Notes)
}

func TestLogMoveUnknownObjectStillLogs(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	entry, err := env.svc.LogMove(ctx, MoveInput{ObjectID: "12345", PlaceID: "40000"})
	require.NoError(t, err)
	assert.True(t, t0.Equal(entry.Timestamp))
	assert.Len(t, env.logs(t), 1)

	objects, err := env.svc.ListObjects(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)

	_, err = env.svc.LogMove(ctx, MoveInput{PlaceID: "40000"})
	require.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestTagDiffNote(t *testing.T) {
	note, ok := tagDiffNote([]string{"a", "b"}, []string{"d", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, "auto: tags +c +d -a", note)

	_, ok = tagDiffNote([]string{"a"}, []string{"a"})
	assert.False(t, ok)
}
