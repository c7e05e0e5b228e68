// ABOUTME: Snapshot loading with orphan detection for the entity store
// ABOUTME: Drops entities whose parent is missing and reports them, never aborts

package store

import (
	"fmt"
	"strings"

	"github.com/curateapp/curator/internal/models"
)

// HydrationError reports entities dropped during Load because their parent
// was missing. Loading continues with the remainder; the error is
// informational, not fatal.
type HydrationError struct {
	OrphanedSources  []string
	OrphanedArticles []string
}

func (e *HydrationError) Error() string {
	var parts []string
	if n := len(e.OrphanedSources); n > 0 {
		parts = append(parts, fmt.Sprintf("%d orphaned sources", n))
	}
	if n := len(e.OrphanedArticles); n > 0 {
		parts = append(parts, fmt.Sprintf("%d orphaned articles", n))
	}
	return "dropped " + strings.Join(parts, " and ") + " during load"
}

// Load replaces the full snapshot. Sources referencing a missing collection
// and articles referencing a missing (or dropped) source are discarded and
// reported via *HydrationError alongside the loaded state.
func (s *Store) Load(collections []*models.Collection, sources []*models.Source, articles []*models.Article) error {
	s.Clear()

	var herr HydrationError

	for _, c := range collections {
		s.collections.put(c.ID, c)
	}
	for _, src := range sources {
		if _, ok := s.collections.get(src.CollectionID); !ok {
			herr.OrphanedSources = append(herr.OrphanedSources, src.ID)
			continue
		}
		s.sources.put(src.ID, src)
	}
	for _, a := range articles {
		if _, ok := s.sources.get(a.SourceID); !ok {
			herr.OrphanedArticles = append(herr.OrphanedArticles, a.ID)
			continue
		}
		s.articles.put(a.ID, a)
	}

	if len(herr.OrphanedSources) > 0 || len(herr.OrphanedArticles) > 0 {
		return &herr
	}
	return nil
}
