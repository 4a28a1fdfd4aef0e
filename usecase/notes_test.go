package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"notekeep/model"
	"notekeep/repository"
	"notekeep/services"
	"notekeep/testutils"
	"notekeep/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newService(t *testing.T) (*usecase.NotesService, *services.LRUNoteCache) {
	t.Helper()
	repo := repository.GetNotesRepo(testutils.SetupTestDB(t))
	repo.Now = testutils.FixedTime{Fixed: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}.Now

	cache, err := services.NewLRUNoteCache(16)
	require.NoError(t, err)

	svc := usecase.NewNotesService(repo, zaptest.NewLogger(t))
	svc.Cache = cache
	return svc, cache
}

func TestCreateNoteDefaults(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		wantCategory string
	}{
		{"blank category", "", model.DefaultCategory},
		{"whitespace category", "   ", model.DefaultCategory},
		{"explicit category", "Work", "Work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			ctx := context.Background()

			id, err := svc.CreateNote(ctx, &model.Note{Title: "", Category: tt.category})
			require.NoError(t, err)

			got, err := svc.GetNote(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, "", got.Title)
			assert.Equal(t, "", got.Desc)
			assert.Equal(t, "", got.Cover)
		})
	}
}

func TestDescStoredVerbatimByDefault(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	desc := `<p onclick="x()">hi</p><script>alert(1)</script>`

	id, err := svc.CreateNote(ctx, &model.Note{Title: "t", Desc: desc})
	require.NoError(t, err)

	got, err := svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, desc, got.Desc)
}

func TestDescSanitizedWhenEnabled(t *testing.T) {
	svc, _ := newService(t)
	svc.Sanitizer = services.NewUGCSanitizer()
	ctx := context.Background()

	id, err := svc.CreateNote(ctx, &model.Note{Title: "t", Desc: `<p onclick="x()">hi</p><script>alert(1)</script>`})
	require.NoError(t, err)

	got, err := svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", got.Desc)

	require.NoError(t, svc.UpdateNote(ctx, &model.Note{ID: id, Title: "t", Desc: `<a href="javascript:x()">l</a>`}))
	got, err = svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, got.Desc, "javascript")
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	id, err := svc.CreateNote(ctx, &model.Note{Title: "cached"})
	require.NoError(t, err)

	_, err = svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, svc.SetPinned(ctx, id, true))
	assert.Equal(t, 0, cache.Len())

	got, err := svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsPinned, "read after write must not be stale")

	require.NoError(t, svc.SoftDelete(ctx, id))
	_, err = svc.GetNote(ctx, id)
	assert.True(t, usecase.IsNotFound(err))
}

func TestZeroRowMutations(t *testing.T) {
	const missing = int64(9999)

	mutations := []struct {
		name string
		run  func(ctx context.Context, svc *usecase.NotesService) error
	}{
		{"update", func(ctx context.Context, svc *usecase.NotesService) error {
			return svc.UpdateNote(ctx, &model.Note{ID: missing, Title: "x"})
		}},
		{"pin", func(ctx context.Context, svc *usecase.NotesService) error { return svc.SetPinned(ctx, missing, true) }},
		{"archive", func(ctx context.Context, svc *usecase.NotesService) error { return svc.SetArchived(ctx, missing, true) }},
		{"delete", func(ctx context.Context, svc *usecase.NotesService) error { return svc.SoftDelete(ctx, missing) }},
		{"restore", func(ctx context.Context, svc *usecase.NotesService) error { return svc.Restore(ctx, missing) }},
		{"purge", func(ctx context.Context, svc *usecase.NotesService) error { return svc.DeletePermanent(ctx, missing) }},
	}

	for _, m := range mutations {
		t.Run(m.name+"/lenient", func(t *testing.T) {
			svc, _ := newService(t)
			assert.NoError(t, m.run(context.Background(), svc))
		})
		t.Run(m.name+"/strict", func(t *testing.T) {
			svc, _ := newService(t)
			svc.StrictMutations = true
			err := m.run(context.Background(), svc)
			assert.ErrorIs(t, err, usecase.ErrNoteNotFound)
		})
	}
}

func TestStrictModeAllowsIdempotentWrites(t *testing.T) {
	svc, _ := newService(t)
	svc.StrictMutations = true
	ctx := context.Background()

	id, err := svc.CreateNote(ctx, &model.Note{Title: "twice"})
	require.NoError(t, err)

	require.NoError(t, svc.SetPinned(ctx, id, true))
	require.NoError(t, svc.SetPinned(ctx, id, true))
	require.NoError(t, svc.Restore(ctx, id))
}

type failingStore struct {
	usecase.NoteStore
	err error
}

func (f failingStore) SetArchived(context.Context, int64, bool) (int64, error) { return 0, f.err }
func (f failingStore) ListActive(context.Context) ([]*model.Note, error)       { return nil, f.err }

func TestStoreErrorsAreWrapped(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := usecase.NewNotesService(failingStore{err: storeErr}, zaptest.NewLogger(t))

	err := svc.SetArchived(context.Background(), 7, true)
	require.ErrorIs(t, err, storeErr)
	assert.False(t, usecase.IsNotFound(err))
	assert.Contains(t, err.Error(), "archive note 7")

	_, err = svc.ListActive(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

// trashingStore soft deletes a note right after reading it, as a concurrent
// request would between the read and the cache fill.
type trashingStore struct {
	usecase.NoteStore
	svc  *usecase.NotesService
	once bool
}

func (s *trashingStore) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	note, err := s.NoteStore.GetNote(ctx, id)
	if err == nil && !s.once {
		s.once = true
		if derr := s.svc.SoftDelete(ctx, id); derr != nil {
			return nil, derr
		}
	}
	return note, err
}

func TestGetNoteDoesNotCacheAfterConcurrentDelete(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	id, err := svc.CreateNote(ctx, &model.Note{Title: "Short-lived"})
	require.NoError(t, err)

	store := &trashingStore{NoteStore: svc.Store, svc: svc}
	svc.Store = store

	got, err := svc.GetNote(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted, "the read itself predates the delete")
	require.True(t, store.once)

	cached, err := cache.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, cached, "a copy read before the delete must not be cached")

	_, err = svc.GetNote(ctx, id)
	assert.True(t, usecase.IsNotFound(err), "trashed note served: %v", err)
}

func TestGetNoteFillsCacheWhenUndisturbed(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	id, err := svc.CreateNote(ctx, &model.Note{Title: "Stable"})
	require.NoError(t, err)

	_, err = svc.GetNote(ctx, id)
	require.NoError(t, err)

	cached, err := cache.GetNote(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Stable", cached.Title)
}
