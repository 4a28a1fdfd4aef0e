package services

import (
	"context"

	"notekeep/model"
)

// NoteCache holds single notes as served by "get one". A miss is reported as
// (nil, nil). Lists are never cached.
type NoteCache interface {
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	SetNote(ctx context.Context, note *model.Note) error
	Invalidate(ctx context.Context, id int64) error
	Close() error
}

// NoopNoteCache is used when caching is disabled.
type NoopNoteCache struct{}

func (NoopNoteCache) GetNote(context.Context, int64) (*model.Note, error) { return nil, nil }
func (NoopNoteCache) SetNote(context.Context, *model.Note) error          { return nil }
func (NoopNoteCache) Invalidate(context.Context, int64) error             { return nil }
func (NoopNoteCache) Close() error                                        { return nil }
