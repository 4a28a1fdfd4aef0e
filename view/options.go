package view

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultDateLayout renders dates the way an en-US browser's
// toLocaleDateString does.
const DefaultDateLayout = "1/2/2006"

type Options struct {
	// DateLayout formats createdAt for matching and for date group labels.
	DateLayout string
	// Location decides which calendar day a timestamp falls on.
	Location *time.Location
	// Language selects the collation used for titles and categories.
	Language language.Tag
}

func DefaultOptions() Options {
	return Options{
		DateLayout: DefaultDateLayout,
		Location:   time.Local,
		Language:   language.English,
	}
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Language == language.Und {
		o.Language = language.English
	}
	return o
}

// FormatDate returns the locale-formatted calendar date of t.
func (o Options) FormatDate(t time.Time) string {
	o = o.withDefaults()
	return t.In(o.Location).Format(o.DateLayout)
}

// collator is created per call; collate.Collator keeps internal buffers and
// must not be shared between goroutines.
func (o Options) collator() *collate.Collator {
	return collate.New(o.withDefaults().Language)
}
