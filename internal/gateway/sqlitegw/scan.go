// ABOUTME: Row scanning and SQL value helpers for the sqlite gateway
// ABOUTME: Maps nullable columns onto pointer fields and back

package sqlitegw

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/curateapp/curator/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*models.Source, error) {
	var src models.Source
	var kind string
	var active int
	if err := row.Scan(&src.ID, &src.CollectionID, &src.UserID, &src.Name, &src.URL,
		&kind, &src.Category, &active, &src.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Kind = models.SourceKind(kind)
	src.Active = active != 0
	return &src, nil
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var read, starred int
	var publishedAt, readAt, starredAt sql.NullTime
	if err := row.Scan(&a.ID, &a.SourceID, &a.Title, &a.Description, &a.AISummary, &a.URL,
		&publishedAt, &read, &readAt, &starred, &starredAt, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	a.Read = read != 0
	a.Starred = starred != 0
	a.PublishedAt = timeFromSQL(publishedAt)
	a.ReadAt = timeFromSQL(readAt)
	a.StarredAt = timeFromSQL(starredAt)
	return &a, nil
}

// timeToSQL converts an optional time to a driver-friendly value.
func timeToSQL(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timeFromSQL(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
