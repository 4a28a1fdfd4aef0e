package view

import (
	"time"

	"notekeep/model"
)

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// NotesOn returns the notes created on the calendar day of day.
func NotesOn(notes []*model.Note, day time.Time, opts Options) []*model.Note {
	loc := opts.withDefaults().Location
	var out []*model.Note
	for _, note := range notes {
		if SameDay(note.CreatedAt, day, loc) {
			out = append(out, note)
		}
	}
	return out
}

// DayBuckets maps each calendar day that has notes to those notes, in input
// order.
func DayBuckets(notes []*model.Note, opts Options) map[time.Time][]*model.Note {
	loc := opts.withDefaults().Location
	buckets := make(map[time.Time][]*model.Note)
	for _, note := range notes {
		day := Day(note.CreatedAt, loc)
		buckets[day] = append(buckets[day], note)
	}
	return buckets
}
