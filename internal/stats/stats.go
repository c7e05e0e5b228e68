// ABOUTME: Read-only aggregation over the entity store snapshot
// ABOUTME: Counts are recomputed on every call, never cached or persisted

package stats

import (
	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/store"
)

// Scope selects which articles ArticleStats counts.
type Scope struct {
	collectionID string
	sourceID     string
}

// All scopes over every article in the store.
func All() Scope { return Scope{} }

// InCollection scopes over articles transitively under one collection.
func InCollection(id string) Scope { return Scope{collectionID: id} }

// InSource scopes over articles under one source.
func InSource(id string) Scope { return Scope{sourceID: id} }

// ArticleStats is the per-scope flag breakdown.
type ArticleStats struct {
	Total   int
	Unread  int
	Starred int
}

// DashboardSummary is a fixed snapshot of top-level counts for display.
type DashboardSummary struct {
	CollectionCount   int
	SourceCount       int
	ActiveSourceCount int
	ArticleCount      int
}

// Aggregator computes derived statistics from a store snapshot. It holds no
// state of its own; two calls with no mutation in between return identical
// results.
type Aggregator struct {
	store *store.Store
}

// New creates an Aggregator over the given store.
func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// SourceCount returns the number of sources referencing the collection.
// Returns 0 for an unknown collection.
func (ag *Aggregator) SourceCount(collectionID string) int {
	return len(ag.store.SourcesInCollection(collectionID))
}

// Articles returns the articles under the given scope in insertion order.
func (ag *Aggregator) Articles(scope Scope) []*models.Article {
	switch {
	case scope.sourceID != "":
		return ag.store.ArticlesInSource(scope.sourceID)
	case scope.collectionID != "":
		var out []*models.Article
		for _, src := range ag.store.SourcesInCollection(scope.collectionID) {
			out = append(out, ag.store.ArticlesInSource(src.ID)...)
		}
		return out
	default:
		return ag.store.Articles()
	}
}

// ArticleStats counts flags over the articles in scope.
func (ag *Aggregator) ArticleStats(scope Scope) ArticleStats {
	var st ArticleStats
	for _, a := range ag.Articles(scope) {
		st.Total++
		if !a.Read {
			st.Unread++
		}
		if a.Starred {
			st.Starred++
		}
	}
	return st
}

// Dashboard recomputes the top-level counts from the store.
func (ag *Aggregator) Dashboard() DashboardSummary {
	sum := DashboardSummary{
		CollectionCount: len(ag.store.Collections()),
		ArticleCount:    len(ag.store.Articles()),
	}
	for _, src := range ag.store.Sources() {
		sum.SourceCount++
		if src.Active {
			sum.ActiveSourceCount++
		}
	}
	return sum
}
