package view

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"notekeep/model"
)

// FallbackLetter is the title bucket of notes without a title.
const FallbackLetter = "A"

type Group struct {
	// Key is the bucket label: a letter, a formatted date or a category.
	// Ungrouped views have a single group with an empty key.
	Key string
	// Day is set for date groups.
	Day   time.Time
	Notes []*model.Note
}

// GroupBy buckets already-sorted notes by the grouping implied by spec.Key.
// Notes keep their relative order inside a bucket, so the pinned-first order
// from Sort carries into every bucket.
func GroupBy(notes []*model.Note, spec SortSpec, opts Options) []Group {
	switch spec.Key {
	case SortByTitle:
		groups := bucket(notes, func(n *model.Note) (string, time.Time) {
			return TitleLetter(n.Title), time.Time{}
		})
		col := opts.collator()
		sort.SliceStable(groups, func(i, j int) bool {
			return col.CompareString(groups[i].Key, groups[j].Key) < 0
		})
		return groups
	case SortByDate:
		groups := bucket(notes, func(n *model.Note) (string, time.Time) {
			day := Day(n.CreatedAt, opts.withDefaults().Location)
			return opts.FormatDate(day), day
		})
		sort.SliceStable(groups, func(i, j int) bool {
			if spec.Direction == Descending {
				return groups[i].Day.After(groups[j].Day)
			}
			return groups[i].Day.Before(groups[j].Day)
		})
		return groups
	case SortByCategory:
		groups := bucket(notes, func(n *model.Note) (string, time.Time) {
			return CategoryKey(n.Category), time.Time{}
		})
		col := opts.collator()
		sort.SliceStable(groups, func(i, j int) bool {
			return col.CompareString(groups[i].Key, groups[j].Key) < 0
		})
		return groups
	default:
		return []Group{{Notes: notes}}
	}
}

func bucket(notes []*model.Note, keyOf func(*model.Note) (string, time.Time)) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, note := range notes {
		key, day := keyOf(note)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Day: day})
		}
		groups[i].Notes = append(groups[i].Notes, note)
	}
	return groups
}

// TitleLetter returns the upper-cased first letter of title, or
// FallbackLetter when the title is blank.
func TitleLetter(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return FallbackLetter
	}
	r, _ := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r))
}

// CategoryKey returns category, or model.DefaultCategory when it is blank.
func CategoryKey(category string) string {
	if strings.TrimSpace(category) == "" {
		return model.DefaultCategory
	}
	return category
}

// Derive runs the whole pipeline: filter, sort, group.
func Derive(notes []*model.Note, query string, spec SortSpec, opts Options) []Group {
	return GroupBy(Sort(Filter(notes, query, opts), spec, opts), spec, opts)
}
