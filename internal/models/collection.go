// ABOUTME: Collection model representing a named grouping of content sources
// ABOUTME: Owned by a single user and identified by an opaque UUID

package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a user-chosen thematic grouping of Sources.
type Collection struct {
	ID          string
	UserID      string
	Name        string
	Description *string
	Color       string // display tag, opaque to the engine
	CreatedAt   time.Time
}

// NewCollection creates a Collection with a generated ID and timestamp.
func NewCollection(userID, name, color string) *Collection {
	return &Collection{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
}
