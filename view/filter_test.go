package view

import (
	"strings"
	"testing"
	"time"

	"notekeep/model"

	"github.com/google/go-cmp/cmp"
)

func utcOptions() Options {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func noteIDs(notes []*model.Note) []int64 {
	ids := make([]int64, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return ids
}

func sampleNotes() []*model.Note {
	return []*model.Note{
		{ID: 1, Title: "Groceries", Category: "Home", Desc: "<ul><li>Milk</li></ul>", CreatedAt: day(2024, 3, 14, 9)},
		{ID: 2, Title: "standup", Category: "Work", Desc: "Talk about RELEASE", CreatedAt: day(2024, 3, 15, 10)},
		{ID: 3, Title: "", Category: "", Desc: "", CreatedAt: day(2023, 12, 1, 8)},
		{ID: 4, Title: "Écrire", Category: "Home", Desc: "lettre", CreatedAt: day(2024, 3, 14, 18), IsPinned: true},
	}
}

func TestFilter(t *testing.T) {
	notes := sampleNotes()
	opts := utcOptions()

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3, 4}},
		{"milk", []int64{1}},
		{"GROC", []int64{1}},
		{"release", []int64{2}},
		{"home", []int64{1, 4}},
		{"3/14/2024", []int64{1, 4}},
		{"12/1/2023", []int64{3}},
		{"écr", []int64{4}},
		{"nothing matches this", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := noteIDs(Filter(notes, tt.query, opts))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

// TestFilterMatchesDefinition checks every substring of every searchable field
// finds its note, and that a note is kept only if one of its fields contains
// the query.
func TestFilterMatchesDefinition(t *testing.T) {
	notes := sampleNotes()
	opts := utcOptions()

	var queries []string
	for _, n := range notes {
		for _, field := range []string{n.Title, n.Desc, n.Category, opts.FormatDate(n.CreatedAt)} {
			for i := 0; i < len(field); i++ {
				for j := i + 1; j <= len(field) && j <= i+4; j++ {
					queries = append(queries, strings.ToUpper(field[i:j]))
				}
			}
		}
	}

	for _, q := range queries {
		kept := make(map[int64]bool)
		for _, n := range Filter(notes, q, opts) {
			kept[n.ID] = true
		}
		for _, n := range notes {
			want := false
			for _, field := range []string{n.Title, n.Desc, n.Category, opts.FormatDate(n.CreatedAt)} {
				if strings.Contains(strings.ToLower(field), strings.ToLower(q)) {
					want = true
				}
			}
			if kept[n.ID] != want {
				t.Fatalf("query %q: note %d kept=%v, want %v", q, n.ID, kept[n.ID], want)
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	notes := sampleNotes()
	before := noteIDs(notes)
	_ = Filter(notes, "home", utcOptions())
	if diff := cmp.Diff(before, noteIDs(notes)); diff != "" {
		t.Errorf("input reordered (-before +after):\n%s", diff)
	}
}
