package model

// NoteStats holds row counts per lifecycle state. Pinned and Archived count
// only notes that are not in the trash.
type NoteStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Pinned   int `json:"pinned"`
	Archived int `json:"archived"`
	Trashed  int `json:"trashed"`
}
