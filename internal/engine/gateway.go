// ABOUTME: Sync gateway contract: the remote persistence boundary
// ABOUTME: Narrow CRUD+count interface, scoped to the authenticated owner

package engine

import (
	"context"

	"github.com/curateapp/curator/internal/models"
)

// FlagUpdate carries absolute flag values for an article write. Absolute
// values rather than toggle instructions keep retried writes idempotent.
// A nil field leaves that flag untouched.
type FlagUpdate struct {
	Read    *bool
	Starred *bool
}

// Gateway is the remote persistent store boundary. Implementations are
// trusted to scope every operation to the owning user and to cascade
// deletes of child rows referentially.
type Gateway interface {
	FetchCollections(ctx context.Context, userID string) ([]*models.Collection, error)
	FetchSources(ctx context.Context, userID string) ([]*models.Source, error)
	FetchArticles(ctx context.Context, userID string) ([]*models.Article, error)

	InsertCollection(ctx context.Context, c *models.Collection) (*models.Collection, error)
	InsertSource(ctx context.Context, src *models.Source) (*models.Source, error)
	InsertArticle(ctx context.Context, a *models.Article) (*models.Article, error)

	// UpdateArticleFlags applies absolute flag values and returns the row
	// as stored, which the engine reconciles against.
	UpdateArticleFlags(ctx context.Context, articleID string, update FlagUpdate) (*models.Article, error)

	// DeleteCollection and DeleteSource delete the root entity only;
	// children are removed by the store's referential cascade.
	DeleteCollection(ctx context.Context, id string) error
	DeleteSource(ctx context.Context, id string) error

	// CountArticles supports the dashboard without full hydration.
	CountArticles(ctx context.Context, userID string) (int, error)
}
