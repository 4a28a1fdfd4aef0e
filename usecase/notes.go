package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"notekeep/model"
	"notekeep/repository"
	"notekeep/services"
	"notekeep/utils"

	"go.uber.org/zap"
)

// ErrNoteNotFound is returned by Get, and by mutations in strict mode when
// no row matched.
var ErrNoteNotFound = repository.ErrNoteNotFound

// NoteStore is the persistence surface the service needs. Each method is a
// single statement; mutations report the number of rows they touched.
type NoteStore interface {
	ListActive(ctx context.Context) ([]*model.Note, error)
	ListTrashed(ctx context.Context) ([]*model.Note, error)
	ListArchived(ctx context.Context) ([]*model.Note, error)
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) (int64, error)
	UpdateNote(ctx context.Context, note *model.Note) (int64, error)
	SetPinned(ctx context.Context, id int64, pinned bool) (int64, error)
	SetArchived(ctx context.Context, id int64, archived bool) (int64, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
	Restore(ctx context.Context, id int64) (int64, error)
	DeletePermanent(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context) (*model.NoteStats, error)
	Ping(ctx context.Context) error
}

type NotesService struct {
	Store     NoteStore
	Cache     services.NoteCache
	Sanitizer services.HTMLSanitizer
	Logger    *zap.Logger

	// StrictMutations turns a mutation that matched no row into
	// ErrNoteNotFound. Off by default: such mutations succeed silently.
	StrictMutations bool

	// cacheGen counts invalidations. A read only fills the cache if no
	// invalidation happened since it started.
	cacheMu  sync.Mutex
	cacheGen uint64
}

func NewNotesService(store NoteStore, logger *zap.Logger) *NotesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesService{
		Store:     store,
		Cache:     services.NoopNoteCache{},
		Sanitizer: services.PassthroughSanitizer{},
		Logger:    logger,
	}
}

func (svc *NotesService) ListActive(ctx context.Context) ([]*model.Note, error) {
	return svc.Store.ListActive(ctx)
}

func (svc *NotesService) ListTrashed(ctx context.Context) ([]*model.Note, error) {
	return svc.Store.ListTrashed(ctx)
}

func (svc *NotesService) ListArchived(ctx context.Context) ([]*model.Note, error) {
	return svc.Store.ListArchived(ctx)
}

func (svc *NotesService) Stats(ctx context.Context) (*model.NoteStats, error) {
	return svc.Store.Stats(ctx)
}

// GetNote returns an active note, consulting the cache first.
func (svc *NotesService) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	if cached, err := svc.Cache.GetNote(ctx, id); err != nil {
		svc.Logger.Warn("note cache read failed", zap.Int64("id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	gen := svc.generation()
	note, err := svc.Store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	svc.fillCache(ctx, gen, note)
	return note, nil
}

func (svc *NotesService) generation() uint64 {
	svc.cacheMu.Lock()
	defer svc.cacheMu.Unlock()
	return svc.cacheGen
}

// fillCache stores note unless the cache was invalidated after gen was read,
// in which case note may already be out of date.
func (svc *NotesService) fillCache(ctx context.Context, gen uint64, note *model.Note) {
	svc.cacheMu.Lock()
	defer svc.cacheMu.Unlock()
	if svc.cacheGen != gen {
		svc.Logger.Debug("skipping cache fill after concurrent write", zap.Int64("id", note.ID))
		return
	}
	if err := svc.Cache.SetNote(ctx, note); err != nil {
		svc.Logger.Warn("note cache write failed", zap.Int64("id", note.ID), zap.Error(err))
	}
}

func (svc *NotesService) invalidate(ctx context.Context, id int64) {
	svc.cacheMu.Lock()
	defer svc.cacheMu.Unlock()
	svc.cacheGen++
	if err := svc.Cache.Invalidate(ctx, id); err != nil {
		svc.Logger.Warn("note cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
}

// CreateNote applies defaults and inserts the note, returning its id.
func (svc *NotesService) CreateNote(ctx context.Context, note *model.Note) (int64, error) {
	if strings.TrimSpace(note.Category) == "" {
		note.Category = model.DefaultCategory
	}
	note.Desc = svc.Sanitizer.Sanitize(note.Desc)

	id, err := svc.Store.CreateNote(ctx, note)
	if err != nil {
		return 0, err
	}

	utils.TrackNoteOperation("create")
	return id, nil
}

// UpdateNote replaces title, category, description and cover.
func (svc *NotesService) UpdateNote(ctx context.Context, note *model.Note) error {
	note.Desc = svc.Sanitizer.Sanitize(note.Desc)
	return svc.mutate(ctx, "update", note.ID, func() (int64, error) {
		return svc.Store.UpdateNote(ctx, note)
	})
}

// SetPinned sets the flag to exactly pinned; toggling is the caller's job.
func (svc *NotesService) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return svc.mutate(ctx, "pin", id, func() (int64, error) {
		return svc.Store.SetPinned(ctx, id, pinned)
	})
}

func (svc *NotesService) SetArchived(ctx context.Context, id int64, archived bool) error {
	return svc.mutate(ctx, "archive", id, func() (int64, error) {
		return svc.Store.SetArchived(ctx, id, archived)
	})
}

// SoftDelete moves a note to the trash, leaving its other flags as they are.
func (svc *NotesService) SoftDelete(ctx context.Context, id int64) error {
	return svc.mutate(ctx, "delete", id, func() (int64, error) {
		return svc.Store.SoftDelete(ctx, id)
	})
}

func (svc *NotesService) Restore(ctx context.Context, id int64) error {
	return svc.mutate(ctx, "restore", id, func() (int64, error) {
		return svc.Store.Restore(ctx, id)
	})
}

func (svc *NotesService) DeletePermanent(ctx context.Context, id int64) error {
	return svc.mutate(ctx, "purge", id, func() (int64, error) {
		return svc.Store.DeletePermanent(ctx, id)
	})
}

func (svc *NotesService) Ping(ctx context.Context) error {
	return svc.Store.Ping(ctx)
}

func (svc *NotesService) mutate(ctx context.Context, operation string, id int64, write func() (int64, error)) error {
	affected, err := write()

	// Drop the cached copy even on failure; the row may have changed anyway.
	svc.invalidate(ctx, id)

	if err != nil {
		return fmt.Errorf("%s note %d: %w", operation, id, err)
	}

	if affected == 0 {
		if svc.StrictMutations {
			return ErrNoteNotFound
		}
		svc.Logger.Debug("mutation matched no rows", zap.String("operation", operation), zap.Int64("id", id))
	}

	utils.TrackNoteOperation(operation)
	return nil
}

// IsNotFound reports whether err means the note does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoteNotFound)
}
