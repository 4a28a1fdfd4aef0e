package view

import (
	"fmt"
	"sort"
	"strings"

	"notekeep/model"
)

type SortKey string

const (
	SortByTitle    SortKey = "title"
	SortByDate     SortKey = "date"
	SortByCategory SortKey = "category"
	// SortByPinned restricts the view to pinned notes, ordered by date.
	SortByPinned SortKey = "pinned"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

type SortSpec struct {
	Key       SortKey
	Direction Direction
}

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(s)); key {
	case SortByTitle, SortByDate, SortByCategory, SortByPinned:
		return key, nil
	case "":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Sort returns a sorted copy of notes. Pinned notes always come first; the
// direction flips the key comparison but never the pinned partition. Ties
// keep their input order. With SortByPinned unpinned notes are dropped.
func Sort(notes []*model.Note, spec SortSpec, opts Options) []*model.Note {
	out := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if spec.Key == SortByPinned && !note.IsPinned {
			continue
		}
		out = append(out, note)
	}

	cmp := comparator(spec.Key, opts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		c := cmp(a, b)
		if spec.Direction == Descending {
			c = -c
		}
		return c < 0
	})
	return out
}

func comparator(key SortKey, opts Options) func(a, b *model.Note) int {
	switch key {
	case SortByTitle:
		col := opts.collator()
		return func(a, b *model.Note) int {
			return col.CompareString(a.Title, b.Title)
		}
	case SortByCategory:
		col := opts.collator()
		return func(a, b *model.Note) int {
			return col.CompareString(a.Category, b.Category)
		}
	default:
		return func(a, b *model.Note) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}
