// ABOUTME: SQLite sync gateway implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Persists collections, sources, and articles with referential cascade

package sqlitegw

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/models"
	_ "modernc.org/sqlite"
)

// Gateway implements engine.Gateway over a local SQLite database. Deletes
// of collections and sources cascade to children through foreign keys, so
// the engine only issues the root delete.
type Gateway struct {
	db *sql.DB
}

var _ engine.Gateway = (*Gateway)(nil)

// Open creates (or opens) the database at dbPath.
func Open(dbPath string) (*Gateway, error) {
	dir := filepath.Dir(dbPath)
	// 0700: reading habits are personal data
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	gw := &Gateway{db: db}
	if err := gw.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return gw, nil
}

func (g *Gateway) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			color TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_collections_user ON collections(user_id);

		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			category TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sources_collection ON sources(collection_id);
		CREATE INDEX IF NOT EXISTS idx_sources_user ON sources(user_id);

		CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			ai_summary TEXT,
			url TEXT NOT NULL,
			published_at TIMESTAMP,
			read INTEGER NOT NULL DEFAULT 0,
			read_at TIMESTAMP,
			starred INTEGER NOT NULL DEFAULT 0,
			starred_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(source_id, url)
		);

		CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_id);
		CREATE INDEX IF NOT EXISTS idx_articles_read ON articles(read);
		CREATE INDEX IF NOT EXISTS idx_articles_starred ON articles(starred);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
	`
	_, err := g.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// FetchCollections returns all collections for the user in creation order.
func (g *Gateway) FetchCollections(ctx context.Context, userID string) ([]*models.Collection, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, color, created_at
		FROM collections WHERE user_id = ? ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var out []*models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// FetchSources returns all sources for the user in creation order.
func (g *Gateway) FetchSources(ctx context.Context, userID string) ([]*models.Source, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, collection_id, user_id, name, url, kind, category, active, created_at
		FROM sources WHERE user_id = ? ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var out []*models.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// FetchArticles returns all articles under the user's sources.
func (g *Gateway) FetchArticles(ctx context.Context, userID string) ([]*models.Article, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT a.id, a.source_id, a.title, a.description, a.ai_summary, a.url,
		       a.published_at, a.read, a.read_at, a.starred, a.starred_at, a.created_at
		FROM articles a
		JOIN sources s ON s.id = a.source_id
		WHERE s.user_id = ?
		ORDER BY a.created_at, a.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertCollection stores a new collection.
func (g *Gateway) InsertCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, description, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Name, c.Description, c.Color, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	return c, nil
}

// InsertSource stores a new source.
func (g *Gateway) InsertSource(ctx context.Context, src *models.Source) (*models.Source, error) {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO sources (id, collection_id, user_id, name, url, kind, category, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, src.ID, src.CollectionID, src.UserID, src.Name, src.URL, string(src.Kind),
		src.Category, boolToInt(src.Active), src.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}
	return src, nil
}

// InsertArticle stores a new article. A duplicate (source, url) pair is
// rejected by the unique constraint.
func (g *Gateway) InsertArticle(ctx context.Context, a *models.Article) (*models.Article, error) {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO articles (id, source_id, title, description, ai_summary, url,
			published_at, read, read_at, starred, starred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.SourceID, a.Title, a.Description, a.AISummary, a.URL,
		timeToSQL(a.PublishedAt), boolToInt(a.Read), timeToSQL(a.ReadAt),
		boolToInt(a.Starred), timeToSQL(a.StarredAt), a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return a, nil
}

// UpdateArticleFlags applies absolute flag values and returns the stored row.
func (g *Gateway) UpdateArticleFlags(ctx context.Context, articleID string, update engine.FlagUpdate) (*models.Article, error) {
	now := time.Now()
	if update.Read != nil {
		var readAt *time.Time
		if *update.Read {
			readAt = &now
		}
		if err := g.execFlag(ctx, `UPDATE articles SET read = ?, read_at = ? WHERE id = ?`,
			boolToInt(*update.Read), timeToSQL(readAt), articleID); err != nil {
			return nil, err
		}
	}
	if update.Starred != nil {
		var starredAt *time.Time
		if *update.Starred {
			starredAt = &now
		}
		if err := g.execFlag(ctx, `UPDATE articles SET starred = ?, starred_at = ? WHERE id = ?`,
			boolToInt(*update.Starred), timeToSQL(starredAt), articleID); err != nil {
			return nil, err
		}
	}
	return g.getArticle(ctx, articleID)
}

func (g *Gateway) execFlag(ctx context.Context, query string, args ...any) error {
	result, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article flags: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article flags: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article not found")
	}
	return nil
}

func (g *Gateway) getArticle(ctx context.Context, id string) (*models.Article, error) {
	row := g.db.QueryRowContext(ctx, `
		SELECT id, source_id, title, description, ai_summary, url,
		       published_at, read, read_at, starred, starred_at, created_at
		FROM articles WHERE id = ?
	`, id)
	return scanArticle(row)
}

// DeleteCollection removes the collection row; sources and articles go with
// it via ON DELETE CASCADE.
func (g *Gateway) DeleteCollection(ctx context.Context, id string) error {
	return g.deleteRow(ctx, "collections", id)
}

// DeleteSource removes the source row; its articles cascade.
func (g *Gateway) DeleteSource(ctx context.Context, id string) error {
	return g.deleteRow(ctx, "sources", id)
}

func (g *Gateway) deleteRow(ctx context.Context, table, id string) error {
	result, err := g.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("no row in %s with id %s", table, id)
	}
	return nil
}

// CountArticles counts the user's articles without hydrating them.
func (g *Gateway) CountArticles(ctx context.Context, userID string) (int, error) {
	var count int
	err := g.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles a
		JOIN sources s ON s.id = a.source_id
		WHERE s.user_id = ?
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}
