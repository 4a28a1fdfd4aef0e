package repository_test

import (
	"context"
	"testing"
	"time"

	"notekeep/model"
	"notekeep/repository"
	"notekeep/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func newRepo(t *testing.T) *repository.NotesRepo {
	t.Helper()
	repo := repository.GetNotesRepo(testutils.SetupTestDB(t))
	clock := &testutils.StepTime{Start: baseTime, Step: time.Hour}
	repo.Now = clock.Now
	return repo
}

func mustCreate(t *testing.T, repo *repository.NotesRepo, title string) int64 {
	t.Helper()
	id, err := repo.CreateNote(context.Background(), &model.Note{
		Title:    title,
		Category: model.DefaultCategory,
	})
	require.NoError(t, err)
	return id
}

func ids(notes []*model.Note) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestCreateNote(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	note := &model.Note{Title: "Groceries", Category: "Home", Desc: "<b>milk</b>", Cover: "http://x/a.png"}
	id, err := repo.CreateNote(ctx, note)
	require.NoError(t, err)
	assert.Equal(t, id, note.ID)
	assert.True(t, baseTime.Equal(note.CreatedAt))

	got, err := repo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "Home", got.Category)
	assert.Equal(t, "<b>milk</b>", got.Desc)
	assert.Equal(t, "http://x/a.png", got.Cover)
	assert.True(t, baseTime.Equal(got.CreatedAt), "createdAt %v", got.CreatedAt)
	assert.False(t, got.IsPinned)
	assert.False(t, got.IsArchived)
	assert.False(t, got.IsDeleted)
}

func TestGetNoteNotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetNote(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)

	id := mustCreate(t, repo, "gone")
	_, err = repo.SoftDelete(ctx, id)
	require.NoError(t, err)

	_, err = repo.GetNote(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound, "trashed notes are not readable by id")
}

func TestListPartitions(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	plain := mustCreate(t, repo, "plain")
	archived := mustCreate(t, repo, "archived")
	trashed := mustCreate(t, repo, "trashed")
	archivedTrashed := mustCreate(t, repo, "archived and trashed")

	_, err := repo.SetArchived(ctx, archived, true)
	require.NoError(t, err)
	_, err = repo.SoftDelete(ctx, trashed)
	require.NoError(t, err)
	_, err = repo.SetArchived(ctx, archivedTrashed, true)
	require.NoError(t, err)
	_, err = repo.SoftDelete(ctx, archivedTrashed)
	require.NoError(t, err)

	tests := []struct {
		name string
		list func(context.Context) ([]*model.Note, error)
		want []int64
	}{
		{"active includes archived", repo.ListActive, []int64{plain, archived}},
		{"trash", repo.ListTrashed, []int64{trashed, archivedTrashed}},
		{"archived excludes trashed", repo.ListArchived, []int64{archived}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := tt.list(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(notes))
		})
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	repo := newRepo(t)

	notes, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestSoftDeleteKeepsFlags(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, "keep flags")

	_, err := repo.SetPinned(ctx, id, true)
	require.NoError(t, err)
	_, err = repo.SetArchived(ctx, id, true)
	require.NoError(t, err)
	_, err = repo.SoftDelete(ctx, id)
	require.NoError(t, err)
	_, err = repo.Restore(ctx, id)
	require.NoError(t, err)

	got, err := repo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
	assert.True(t, got.IsArchived)
	assert.False(t, got.IsDeleted)
}

func TestUpdateNoteLeavesFlagsAndDate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, "before")

	_, err := repo.SetPinned(ctx, id, true)
	require.NoError(t, err)

	n, err := repo.UpdateNote(ctx, &model.Note{ID: id, Title: "after", Category: "Work", Desc: "d", Cover: ""})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "Work", got.Category)
	assert.True(t, got.IsPinned)
	assert.True(t, baseTime.Equal(got.CreatedAt))
}

func TestMutationsReportRowsAffected(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, "counted")

	n, err := repo.SetPinned(ctx, 4242, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "missing id")

	n, err = repo.Restore(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "restoring a note that is not trashed still matches")

	n, err = repo.DeletePermanent(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DeletePermanent(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeletePermanentRemovesRow(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, "purge me")

	_, err := repo.SoftDelete(ctx, id)
	require.NoError(t, err)
	_, err = repo.DeletePermanent(ctx, id)
	require.NoError(t, err)

	for _, list := range []func(context.Context) ([]*model.Note, error){repo.ListActive, repo.ListTrashed, repo.ListArchived} {
		notes, err := list(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids(notes), id)
	}
}

func TestStats(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NoteStats{}, *stats)

	a := mustCreate(t, repo, "a")
	b := mustCreate(t, repo, "b")
	c := mustCreate(t, repo, "c")
	mustCreate(t, repo, "d")

	_, _ = repo.SetPinned(ctx, a, true)
	_, _ = repo.SetArchived(ctx, b, true)
	_, _ = repo.SetPinned(ctx, c, true)
	_, _ = repo.SoftDelete(ctx, c)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NoteStats{Total: 4, Active: 3, Pinned: 1, Archived: 1, Trashed: 1}, *stats)
}
