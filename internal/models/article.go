// ABOUTME: Article model representing a single content item with read/starred state
// ABOUTME: Created by ingestion only; immutable apart from the two boolean flags

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a content item belonging to one Source.
// Read and Starred are independent flags; all four combinations are valid.
type Article struct {
	ID          string
	SourceID    string
	Title       string
	Description *string
	AISummary   *string
	URL         string     // canonical link
	PublishedAt *time.Time // nil means unknown publish time, sorts last
	Read        bool
	ReadAt      *time.Time
	Starred     bool
	StarredAt   *time.Time
	CreatedAt   time.Time
}

// NewArticle creates an Article with a generated ID, unread and unstarred.
func NewArticle(sourceID, title, url string) *Article {
	return &Article{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now(),
	}
}

// SetRead sets the read flag to an absolute value, maintaining ReadAt.
func (a *Article) SetRead(read bool) {
	a.Read = read
	if read {
		now := time.Now()
		a.ReadAt = &now
	} else {
		a.ReadAt = nil
	}
}

// SetStarred sets the starred flag to an absolute value, maintaining StarredAt.
func (a *Article) SetStarred(starred bool) {
	a.Starred = starred
	if starred {
		now := time.Now()
		a.StarredAt = &now
	} else {
		a.StarredAt = nil
	}
}

// Clone returns a shallow copy. Flag timestamps are value pointers owned by
// the copy so a revert cannot alias the original.
func (a *Article) Clone() *Article {
	c := *a
	if a.ReadAt != nil {
		t := *a.ReadAt
		c.ReadAt = &t
	}
	if a.StarredAt != nil {
		t := *a.StarredAt
		c.StarredAt = &t
	}
	return &c
}
