// ABOUTME: Source model representing a content origin (feed, channel, newsletter...)
// ABOUTME: Belongs to exactly one Collection; carries kind, category and active flag

package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind enumerates the known kinds of content origin.
// The set is open: unknown kinds round-trip unchanged.
type SourceKind string

const (
	KindFeed         SourceKind = "feed"
	KindVideoChannel SourceKind = "video-channel"
	KindNewsletter   SourceKind = "newsletter"
	KindSocial       SourceKind = "social"
	KindBlog         SourceKind = "blog"
	KindNews         SourceKind = "news"
)

// Fetchable reports whether the kind is served by the RSS ingestion path.
// Video channels, newsletters and social accounts need an external
// converter before they produce a fetchable feed URL.
func (k SourceKind) Fetchable() bool {
	switch k {
	case KindFeed, KindBlog, KindNews:
		return true
	}
	return false
}

// Source is a content origin belonging to one Collection.
type Source struct {
	ID           string
	CollectionID string
	UserID       string
	Name         string
	URL          string
	Kind         SourceKind
	Category     *string
	Active       bool
	CreatedAt    time.Time
}

// NewSource creates a Source with a generated ID, active by default.
func NewSource(userID, collectionID, name, url string, kind SourceKind) *Source {
	return &Source{
		ID:           uuid.New().String(),
		CollectionID: collectionID,
		UserID:       userID,
		Name:         name,
		URL:          url,
		Kind:         kind,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}
