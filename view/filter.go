package view

import (
	"strings"

	"notekeep/model"
)

// Matches reports whether query, ignoring case, occurs in the note's title,
// description, category or formatted creation date. An empty query matches.
func Matches(note *model.Note, query string, opts Options) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{note.Title, note.Desc, note.Category, opts.FormatDate(note.CreatedAt)} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Filter keeps the notes matching query, in their original order.
func Filter(notes []*model.Note, query string, opts Options) []*model.Note {
	out := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if Matches(note, query, opts) {
			out = append(out, note)
		}
	}
	return out
}
