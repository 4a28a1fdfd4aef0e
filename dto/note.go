package dto

import (
	"notekeep/model"
)

// CreateNoteRequest is the body of POST /note. Title must be present but may
// be empty; the remaining fields fall back to defaults in the service.
type CreateNoteRequest struct {
	Title    *string `json:"title" binding:"required"`
	Category string  `json:"category"`
	Desc     string  `json:"desc"`
	Cover    string  `json:"cover" binding:"coverurl"`
}

// UpdateNoteRequest is the body of PUT /note/:id. Every editable field has to
// be sent, since the update replaces all of them.
type UpdateNoteRequest struct {
	Title    *string `json:"title" binding:"required"`
	Category *string `json:"category" binding:"required"`
	Desc     *string `json:"desc" binding:"required"`
	Cover    *string `json:"cover" binding:"required,coverurl"`
}

type PinRequest struct {
	IsPinned *bool `json:"isPinned" binding:"required"`
}

type ArchiveRequest struct {
	IsArchived *bool `json:"isArchived" binding:"required"`
}

type CreateNoteResponse struct {
	Message    string `json:"message"`
	InsertedID int64  `json:"insertedId"`
}

type PinResponse struct {
	Message  string `json:"message"`
	IsPinned bool   `json:"isPinned"`
}

type ArchiveResponse struct {
	Message    string `json:"message"`
	IsArchived bool   `json:"isArchived"`
}

type HealthResponse struct {
	Status   string  `json:"status"`
	Database string  `json:"database"`
	DiskFree uint64  `json:"disk_free_bytes,omitempty"`
	DiskUsed float64 `json:"disk_used_percent,omitempty"`
}

// ToNote converts a create request into an unsaved note.
func (r *CreateNoteRequest) ToNote() *model.Note {
	note := &model.Note{
		Category: r.Category,
		Desc:     r.Desc,
		Cover:    r.Cover,
	}
	if r.Title != nil {
		note.Title = *r.Title
	}
	return note
}

// ToNote converts an update request into the replacement field set.
func (r *UpdateNoteRequest) ToNote(id int64) *model.Note {
	return &model.Note{
		ID:       id,
		Title:    deref(r.Title),
		Category: deref(r.Category),
		Desc:     deref(r.Desc),
		Cover:    deref(r.Cover),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
