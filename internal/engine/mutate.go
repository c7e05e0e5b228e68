// ABOUTME: State mutations with optimistic local apply and rollback
// ABOUTME: Every failed path restores the pre-optimistic store state exactly

package engine

import (
	"context"
	"strings"

	"github.com/curateapp/curator/internal/models"
)

// CreateCollection validates, applies optimistically, and persists a new
// collection. On gateway failure the insertion is reverted.
func (e *Engine) CreateCollection(ctx context.Context, name, description, color string) (*models.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := models.NewCollection(e.userID, strings.TrimSpace(name), color)
	if description != "" {
		c.Description = &description
	}
	if err := e.store.UpsertCollection(c); err != nil {
		return nil, &ValidationError{Field: "collection", Reason: err.Error()}
	}

	stored, err := e.gateway.InsertCollection(ctx, c)
	if err != nil {
		if _, rerr := e.store.RemoveCollection(c.ID); rerr != nil {
			// Already gone; nothing to revert.
			_ = rerr
		}
		return nil, &PersistenceError{Op: "insert collection", Err: err}
	}

	// Reconcile against the stored row, not the optimistic guess.
	if err := e.store.UpsertCollection(stored); err != nil {
		return nil, &ValidationError{Field: "collection", Reason: err.Error()}
	}
	return stored, nil
}

// CreateSource validates the target collection, applies optimistically, and
// persists a new source with the same rollback discipline.
func (e *Engine) CreateSource(ctx context.Context, collectionID, name, url string, kind models.SourceKind, category string) (*models.Source, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	case strings.TrimSpace(url) == "":
		return nil, &ValidationError{Field: "url", Reason: "must not be empty"}
	case strings.TrimSpace(collectionID) == "":
		return nil, &ValidationError{Field: "collectionId", Reason: "must not be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Collection(collectionID); err != nil {
		return nil, &ValidationError{Field: "collectionId", Reason: "does not resolve to a known collection"}
	}

	src := models.NewSource(e.userID, collectionID, strings.TrimSpace(name), strings.TrimSpace(url), kind)
	if category != "" {
		src.Category = &category
	}
	if err := e.store.UpsertSource(src); err != nil {
		return nil, &ValidationError{Field: "source", Reason: err.Error()}
	}

	stored, err := e.gateway.InsertSource(ctx, src)
	if err != nil {
		if _, rerr := e.store.RemoveSource(src.ID); rerr != nil {
			_ = rerr
		}
		return nil, &PersistenceError{Op: "insert source", Err: err}
	}

	if err := e.store.UpsertSource(stored); err != nil {
		return nil, &ValidationError{Field: "source", Reason: err.Error()}
	}
	return stored, nil
}

// ToggleRead flips the read flag of an article, writing the absolute new
// value to the gateway. Local state reconciles against the row the gateway
// returns; on failure the flag reverts to its prior value.
func (e *Engine) ToggleRead(ctx context.Context, articleID string) (*models.Article, error) {
	return e.toggleFlag(ctx, articleID, func(a *models.Article) FlagUpdate {
		next := !a.Read
		a.SetRead(next)
		return FlagUpdate{Read: &next}
	})
}

// ToggleStar flips the starred flag of an article with the same contract
// as ToggleRead.
func (e *Engine) ToggleStar(ctx context.Context, articleID string) (*models.Article, error) {
	return e.toggleFlag(ctx, articleID, func(a *models.Article) FlagUpdate {
		next := !a.Starred
		a.SetStarred(next)
		return FlagUpdate{Starred: &next}
	})
}

func (e *Engine) toggleFlag(ctx context.Context, articleID string, apply func(*models.Article) FlagUpdate) (*models.Article, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.Article(articleID)
	if err != nil {
		return nil, err
	}

	prior := a.Clone()
	update := apply(a)

	stored, err := e.gateway.UpdateArticleFlags(ctx, articleID, update)
	if err != nil {
		e.revertArticle(articleID, prior)
		return nil, &PersistenceError{Op: "update article flags", Err: err}
	}

	// The gateway's returned value wins over the optimistic guess; another
	// session may have written between our read and our write.
	current, err := e.store.Article(articleID)
	if err != nil {
		// Article removed while the write was in flight; the late
		// response is a no-op.
		return stored, nil
	}
	current.SetRead(stored.Read)
	current.SetStarred(stored.Starred)
	return current, nil
}

// revertArticle restores an article's flags after a failed write. If the
// article vanished in the meantime there is nothing to restore.
func (e *Engine) revertArticle(articleID string, prior *models.Article) {
	current, err := e.store.Article(articleID)
	if err != nil {
		return
	}
	current.Read = prior.Read
	current.ReadAt = prior.ReadAt
	current.Starred = prior.Starred
	current.StarredAt = prior.StarredAt
}

// RemoveCollection removes a collection and its subtree optimistically,
// issuing a gateway delete for the root only. On failure the full subtree
// is restored in its original relative order.
func (e *Engine) RemoveCollection(ctx context.Context, id string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Collection(id); err != nil {
		return nil, err
	}

	snapshot := e.captureSubtree(id, "")
	removed, err := e.store.RemoveCollection(id)
	if err != nil {
		return nil, err
	}

	if err := e.gateway.DeleteCollection(ctx, id); err != nil {
		e.restoreSubtree(snapshot)
		return nil, &PersistenceError{Op: "delete collection", Err: err}
	}
	return removed, nil
}

// RemoveSource removes a source and its articles with the same contract as
// RemoveCollection.
func (e *Engine) RemoveSource(ctx context.Context, id string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Source(id); err != nil {
		return nil, err
	}

	snapshot := e.captureSubtree("", id)
	removed, err := e.store.RemoveSource(id)
	if err != nil {
		return nil, err
	}

	if err := e.gateway.DeleteSource(ctx, id); err != nil {
		e.restoreSubtree(snapshot)
		return nil, &PersistenceError{Op: "delete source", Err: err}
	}
	return removed, nil
}

// subtree is the state captured before an optimistic removal, sufficient to
// restore the store if the gateway delete fails.
type subtree struct {
	collection *models.Collection
	sources    []*models.Source
	articles   []*models.Article
}

func (e *Engine) captureSubtree(collectionID, sourceID string) *subtree {
	snap := &subtree{}
	if collectionID != "" {
		snap.collection, _ = e.store.Collection(collectionID)
		snap.sources = e.store.SourcesInCollection(collectionID)
	} else {
		src, _ := e.store.Source(sourceID)
		snap.sources = []*models.Source{src}
	}
	for _, src := range snap.sources {
		snap.articles = append(snap.articles, e.store.ArticlesInSource(src.ID)...)
	}
	return snap
}

func (e *Engine) restoreSubtree(snap *subtree) {
	if snap.collection != nil {
		_ = e.store.UpsertCollection(snap.collection)
	}
	for _, src := range snap.sources {
		_ = e.store.UpsertSource(src)
	}
	for _, a := range snap.articles {
		_ = e.store.UpsertArticle(a)
	}
}
