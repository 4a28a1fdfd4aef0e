package view

import (
	"testing"
	"time"

	"notekeep/model"

	"github.com/google/go-cmp/cmp"
)

type groupSummary struct {
	Key string
	IDs []int64
}

func summarize(groups []Group) []groupSummary {
	out := make([]groupSummary, len(groups))
	for i, g := range groups {
		out[i] = groupSummary{Key: g.Key, IDs: noteIDs(g.Notes)}
	}
	return out
}

func TestDerive(t *testing.T) {
	notes := sampleNotes()
	opts := utcOptions()

	tests := []struct {
		name  string
		query string
		spec  SortSpec
		want  []groupSummary
	}{
		{
			name: "title buckets, empty title under A",
			spec: SortSpec{Key: SortByTitle},
			want: []groupSummary{
				{"A", []int64{3}},
				{"É", []int64{4}},
				{"G", []int64{1}},
				{"S", []int64{2}},
			},
		},
		{
			name: "date buckets ascending",
			spec: SortSpec{Key: SortByDate},
			want: []groupSummary{
				{"12/1/2023", []int64{3}},
				{"3/14/2024", []int64{4, 1}},
				{"3/15/2024", []int64{2}},
			},
		},
		{
			name: "date buckets descending",
			spec: SortSpec{Key: SortByDate, Direction: Descending},
			want: []groupSummary{
				{"3/15/2024", []int64{2}},
				{"3/14/2024", []int64{4, 1}},
				{"12/1/2023", []int64{3}},
			},
		},
		{
			name: "category buckets, blank as Uncategorized",
			spec: SortSpec{Key: SortByCategory},
			want: []groupSummary{
				{"Home", []int64{4, 1}},
				{"Uncategorized", []int64{3}},
				{"Work", []int64{2}},
			},
		},
		{
			name: "pinned mode is flat",
			spec: SortSpec{Key: SortByPinned},
			want: []groupSummary{{"", []int64{4}}},
		},
		{
			name:  "filter before grouping",
			query: "home",
			spec:  SortSpec{Key: SortByCategory},
			want:  []groupSummary{{"Home", []int64{4, 1}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(Derive(notes, tt.query, tt.spec, opts))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Derive mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPinnedLeadsEachBucket(t *testing.T) {
	notes := []*model.Note{
		{ID: 1, Title: "apple", CreatedAt: day(2024, 1, 1, 1)},
		{ID: 2, Title: "avocado", CreatedAt: day(2024, 1, 1, 2), IsPinned: true},
		{ID: 3, Title: "banana", CreatedAt: day(2024, 1, 1, 3)},
	}
	got := summarize(Derive(notes, "", SortSpec{Key: SortByTitle}, utcOptions()))
	want := []groupSummary{
		{"A", []int64{2, 1}},
		{"B", []int64{3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTitleLetter(t *testing.T) {
	tests := map[string]string{
		"":        FallbackLetter,
		"   ":     FallbackLetter,
		"apple":   "A",
		" zebra":  "Z",
		"éclair":  "É",
		"42 ways": "4",
	}
	for in, want := range tests {
		if got := TitleLetter(in); got != want {
			t.Errorf("TitleLetter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDateGroupsUseLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	opts := utcOptions()
	opts.Location = tokyo

	// 20:00 UTC on the 1st is already the 2nd in Tokyo.
	notes := []*model.Note{{ID: 1, CreatedAt: day(2024, 5, 1, 20)}}
	got := summarize(Derive(notes, "", SortSpec{Key: SortByDate}, opts))
	if diff := cmp.Diff([]groupSummary{{"5/2/2024", []int64{1}}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoriesUseCollation(t *testing.T) {
	notes := []*model.Note{
		{ID: 1, Category: "Zebra", CreatedAt: day(2024, 1, 1, 1)},
		{ID: 2, Category: "apple", CreatedAt: day(2024, 1, 1, 2)},
		{ID: 3, Category: "Mango", CreatedAt: day(2024, 1, 1, 3)},
	}
	spec := SortSpec{Key: SortByCategory}

	if diff := cmp.Diff([]int64{2, 3, 1}, noteIDs(Sort(notes, spec, utcOptions()))); diff != "" {
		t.Errorf("Sort mismatch (-want +got):\n%s", diff)
	}

	want := []groupSummary{
		{"apple", []int64{2}},
		{"Mango", []int64{3}},
		{"Zebra", []int64{1}},
	}
	if diff := cmp.Diff(want, summarize(GroupBy(notes, spec, utcOptions()))); diff != "" {
		t.Errorf("GroupBy mismatch (-want +got):\n%s", diff)
	}
}
