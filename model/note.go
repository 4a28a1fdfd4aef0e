package model

import (
	"time"
)

// DefaultCategory is stored when a note is created without a category.
const DefaultCategory = "Uncategorized"

type Note struct {
	ID         int64     `json:"idNote"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Desc       string    `json:"desc"`
	Cover      string    `json:"cover"`
	CreatedAt  time.Time `json:"createdAt"`
	IsPinned   bool      `json:"isPinned"`
	IsArchived bool      `json:"isArchived"`
	IsDeleted  bool      `json:"isDeleted"`
}
