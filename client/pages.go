package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"notekeep/model"
	"notekeep/view"

	"go.uber.org/zap"
)

// ErrUnknownNote is returned when a page is asked to act on a note it has
// not loaded.
var ErrUnknownNote = errors.New("note is not in the loaded collection")

// API is the part of Client the pages use.
type API interface {
	ListNotes(ctx context.Context) ([]*model.Note, error)
	ListTrash(ctx context.Context) ([]*model.Note, error)
	ListArchived(ctx context.Context) ([]*model.Note, error)
	CreateNote(ctx context.Context, title, category, desc, cover string) (int64, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	DeletePermanent(ctx context.Context, id int64) error
}

// collection is a page's local copy of the notes it shows. Local state only
// changes after the server accepted a mutation.
type collection struct {
	mu     sync.RWMutex
	notes  []model.Note
	api    API
	logger *zap.Logger
}

func (c *collection) init(api API, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.api = api
	c.logger = logger
}

func (c *collection) load(ctx context.Context, what string, fetch func(context.Context) ([]*model.Note, error)) error {
	notes, err := fetch(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch "+what, zap.Error(err))
		return err
	}

	local := make([]model.Note, len(notes))
	for i, n := range notes {
		local[i] = *n
	}

	c.mu.Lock()
	c.notes = local
	c.mu.Unlock()
	return nil
}

// Notes returns copies of the loaded notes in server order.
func (c *collection) Notes() []*model.Note {
	return c.selectNotes(func(model.Note) bool { return true })
}

func (c *collection) selectNotes(keep func(model.Note) bool) []*model.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Note, 0, len(c.notes))
	for _, n := range c.notes {
		if keep(n) {
			n := n
			out = append(out, &n)
		}
	}
	return out
}

func (c *collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

func (c *collection) find(id int64) (model.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

func (c *collection) patch(id int64, apply func(*model.Note)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notes {
		if c.notes[i].ID == id {
			apply(&c.notes[i])
			return
		}
	}
}

func (c *collection) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notes {
		if c.notes[i].ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return
		}
	}
}

// mutate sends a request and, only if it succeeded, applies onSuccess.
func (c *collection) mutate(action string, id int64, send func() error, onSuccess func()) error {
	if err := send(); err != nil {
		c.logger.Warn("failed to "+action, zap.Int64("id", id), zap.Error(err))
		return err
	}
	onSuccess()
	return nil
}

func (c *collection) togglePin(ctx context.Context, id int64, unpinnedLeaves bool) error {
	note, ok := c.find(id)
	if !ok {
		return fmt.Errorf("pin %d: %w", id, ErrUnknownNote)
	}
	pinned := !note.IsPinned
	return c.mutate("toggle pin", id,
		func() error { return c.api.SetPinned(ctx, id, pinned) },
		func() {
			if !pinned && unpinnedLeaves {
				c.remove(id)
				return
			}
			c.patch(id, func(n *model.Note) { n.IsPinned = pinned })
		})
}

func (c *collection) toggleArchive(ctx context.Context, id int64, unarchivedLeaves bool) error {
	note, ok := c.find(id)
	if !ok {
		return fmt.Errorf("archive %d: %w", id, ErrUnknownNote)
	}
	archived := !note.IsArchived
	return c.mutate("toggle archive", id,
		func() error { return c.api.SetArchived(ctx, id, archived) },
		func() {
			if !archived && unarchivedLeaves {
				c.remove(id)
				return
			}
			c.patch(id, func(n *model.Note) { n.IsArchived = archived })
		})
}

func (c *collection) softDelete(ctx context.Context, id int64) error {
	return c.mutate("delete note", id,
		func() error { return c.api.Delete(ctx, id) },
		func() { c.remove(id) })
}

// NotesPage is the "all notes" / home page: the full active collection, with
// the view derived locally.
type NotesPage struct {
	collection
}

func NewNotesPage(api API, logger *zap.Logger) *NotesPage {
	p := &NotesPage{}
	p.init(api, logger)
	return p
}

func (p *NotesPage) Load(ctx context.Context) error {
	return p.load(ctx, "notes", p.api.ListNotes)
}

func (p *NotesPage) View(query string, spec view.SortSpec, opts view.Options) []view.Group {
	return view.Derive(p.Notes(), query, spec, opts)
}

func (p *NotesPage) TogglePin(ctx context.Context, id int64) error {
	return p.togglePin(ctx, id, false)
}

func (p *NotesPage) ToggleArchive(ctx context.Context, id int64) error {
	return p.toggleArchive(ctx, id, false)
}

func (p *NotesPage) Delete(ctx context.Context, id int64) error {
	return p.softDelete(ctx, id)
}

// Create adds a note and then re-fetches the collection, since the server
// assigns the id and timestamp.
func (p *NotesPage) Create(ctx context.Context, title, category, desc, cover string) (int64, error) {
	id, err := p.api.CreateNote(ctx, title, category, desc, cover)
	if err != nil {
		p.logger.Warn("failed to create note", zap.Error(err))
		return 0, err
	}
	return id, p.Load(ctx)
}

// Update replaces the editable fields of a loaded note.
func (p *NotesPage) Update(ctx context.Context, note *model.Note) error {
	if _, ok := p.find(note.ID); !ok {
		return fmt.Errorf("update %d: %w", note.ID, ErrUnknownNote)
	}
	return p.mutate("update note", note.ID,
		func() error { return p.api.UpdateNote(ctx, note) },
		func() {
			p.patch(note.ID, func(n *model.Note) {
				n.Title, n.Category, n.Desc, n.Cover = note.Title, note.Category, note.Desc, note.Cover
			})
		})
}

// PinnedPage fetches the active collection and shows its pinned notes.
// Unpinning removes the note from the page.
type PinnedPage struct {
	collection
}

func NewPinnedPage(api API, logger *zap.Logger) *PinnedPage {
	p := &PinnedPage{}
	p.init(api, logger)
	return p
}

func (p *PinnedPage) Load(ctx context.Context) error {
	return p.load(ctx, "notes", p.api.ListNotes)
}

// Notes returns the pinned notes only.
func (p *PinnedPage) Notes() []*model.Note {
	return p.selectNotes(func(n model.Note) bool { return n.IsPinned })
}

func (p *PinnedPage) View(query string, spec view.SortSpec, opts view.Options) []view.Group {
	return view.Derive(p.Notes(), query, spec, opts)
}

func (p *PinnedPage) TogglePin(ctx context.Context, id int64) error {
	return p.togglePin(ctx, id, true)
}

func (p *PinnedPage) Delete(ctx context.Context, id int64) error {
	return p.softDelete(ctx, id)
}

// ArchivePage shows archived notes. Unarchiving removes the note from it.
type ArchivePage struct {
	collection
}

func NewArchivePage(api API, logger *zap.Logger) *ArchivePage {
	p := &ArchivePage{}
	p.init(api, logger)
	return p
}

func (p *ArchivePage) Load(ctx context.Context) error {
	return p.load(ctx, "archived notes", p.api.ListArchived)
}

func (p *ArchivePage) View(query string, spec view.SortSpec, opts view.Options) []view.Group {
	return view.Derive(p.Notes(), query, spec, opts)
}

func (p *ArchivePage) ToggleArchive(ctx context.Context, id int64) error {
	return p.toggleArchive(ctx, id, true)
}

func (p *ArchivePage) TogglePin(ctx context.Context, id int64) error {
	return p.togglePin(ctx, id, false)
}

func (p *ArchivePage) Delete(ctx context.Context, id int64) error {
	return p.softDelete(ctx, id)
}

// TrashPage shows soft-deleted notes.
type TrashPage struct {
	collection
}

func NewTrashPage(api API, logger *zap.Logger) *TrashPage {
	p := &TrashPage{}
	p.init(api, logger)
	return p
}

func (p *TrashPage) Load(ctx context.Context) error {
	return p.load(ctx, "trash", p.api.ListTrash)
}

func (p *TrashPage) Restore(ctx context.Context, id int64) error {
	return p.mutate("restore note", id,
		func() error { return p.api.Restore(ctx, id) },
		func() { p.remove(id) })
}

// Purge deletes a note permanently.
func (p *TrashPage) Purge(ctx context.Context, id int64) error {
	return p.mutate("permanently delete note", id,
		func() error { return p.api.DeletePermanent(ctx, id) },
		func() { p.remove(id) })
}

// CalendarPage loads the active collection once and buckets it by the
// calendar day each note was created on.
type CalendarPage struct {
	collection
	opts view.Options
}

func NewCalendarPage(api API, opts view.Options, logger *zap.Logger) *CalendarPage {
	p := &CalendarPage{opts: opts}
	p.init(api, logger)
	return p
}

func (p *CalendarPage) Load(ctx context.Context) error {
	return p.load(ctx, "notes", p.api.ListNotes)
}

// Days lists the days that have notes, oldest first.
func (p *CalendarPage) Days() []time.Time {
	buckets := view.DayBuckets(p.Notes(), p.opts)
	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func (p *CalendarPage) NotesOn(day time.Time) []*model.Note {
	return view.NotesOn(p.Notes(), day, p.opts)
}
