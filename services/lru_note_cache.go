package services

import (
	"context"
	"fmt"

	"notekeep/model"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUNoteCache is an in-process cache, only correct when a single server
// instance writes to the database.
type LRUNoteCache struct {
	cache *lru.Cache[int64, model.Note]
}

func NewLRUNoteCache(size int) (*LRUNoteCache, error) {
	c, err := lru.New[int64, model.Note](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create note cache: %w", err)
	}
	return &LRUNoteCache{cache: c}, nil
}

func (lc *LRUNoteCache) GetNote(_ context.Context, id int64) (*model.Note, error) {
	note, ok := lc.cache.Get(id)
	if !ok {
		return nil, nil
	}
	return &note, nil
}

func (lc *LRUNoteCache) SetNote(_ context.Context, note *model.Note) error {
	if note == nil {
		return fmt.Errorf("cannot cache nil note")
	}
	lc.cache.Add(note.ID, *note)
	return nil
}

func (lc *LRUNoteCache) Invalidate(_ context.Context, id int64) error {
	lc.cache.Remove(id)
	return nil
}

func (lc *LRUNoteCache) Len() int {
	return lc.cache.Len()
}

func (lc *LRUNoteCache) Close() error {
	lc.cache.Purge()
	return nil
}
