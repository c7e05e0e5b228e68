// ABOUTME: Session-scoped curation engine: hydration, reads, and teardown
// ABOUTME: Owns the entity store; all mutation goes through the single writer

package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
	"github.com/curateapp/curator/internal/store"
)

// Engine ties one user session to a gateway and the local entity store.
// Reads are served from the store; writes are optimistic with rollback.
// The mutex enforces the single-writer discipline: writes to the same
// session serialize, including the gateway round-trip, so an earlier
// in-flight write can never stomp a later one.
type Engine struct {
	mu      sync.Mutex
	userID  string
	gateway Gateway
	store   *store.Store
	agg     *stats.Aggregator
}

// New creates an Engine for the signed-in user.
func New(userID string, gw Gateway) *Engine {
	s := store.New()
	return &Engine{
		userID:  userID,
		gateway: gw,
		store:   s,
		agg:     stats.New(s),
	}
}

// UserID returns the session owner.
func (e *Engine) UserID() string { return e.userID }

// Store exposes the read-only snapshot surface.
func (e *Engine) Store() *store.Store { return e.store }

// Stats exposes the aggregator over the current snapshot.
func (e *Engine) Stats() *stats.Aggregator { return e.agg }

// Hydrate replaces the local snapshot from the gateway. A HydrationError
// (orphaned entities dropped) is returned alongside the loaded remainder;
// callers may log it but the snapshot is usable.
func (e *Engine) Hydrate(ctx context.Context) error {
	collections, err := e.gateway.FetchCollections(ctx, e.userID)
	if err != nil {
		return &PersistenceError{Op: "fetch collections", Err: err}
	}
	sources, err := e.gateway.FetchSources(ctx, e.userID)
	if err != nil {
		return &PersistenceError{Op: "fetch sources", Err: err}
	}
	articles, err := e.gateway.FetchArticles(ctx, e.userID)
	if err != nil {
		return &PersistenceError{Op: "fetch articles", Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Load(collections, sources, articles)
}

// Clear wipes the local snapshot. Called on sign-out; the caller is
// responsible for issuing no further gateway calls for this session.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
}

// QueryArticles runs a filtered view over the articles in scope.
func (e *Engine) QueryArticles(scope stats.Scope, q query.Query) []*models.Article {
	return q.Collect(e.agg.Articles(scope))
}

// IsNotFound reports whether err is a store not-found.
func IsNotFound(err error) bool {
	var nfe *store.NotFoundError
	return errors.As(err, &nfe)
}
