// ABOUTME: Filtered, ordered article views: text search, scope, and sort
// ABOUTME: Returns lazy restartable sequences with no hidden cursor state

package query

import (
	"iter"
	"sort"
	"strings"

	"github.com/curateapp/curator/internal/models"
)

// Filter selects articles by flag state.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterUnread  Filter = "unread"
	FilterStarred Filter = "starred"
)

// Sort orders articles by published time.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// Query describes one filtered view over a base article set.
type Query struct {
	Text   string
	Filter Filter
	Sort   Sort
}

// Run evaluates the query over base and returns a lazy sequence. The
// sequence is restartable: each range re-walks the ordered result, and
// re-running against a mutated base set reflects the new state.
func (q Query) Run(base []*models.Article) iter.Seq[*models.Article] {
	matched := make([]*models.Article, 0, len(base))
	for _, a := range base {
		if q.matches(a) {
			matched = append(matched, a)
		}
	}
	orderArticles(matched, q.Sort)

	return func(yield func(*models.Article) bool) {
		for _, a := range matched {
			if !yield(a) {
				return
			}
		}
	}
}

// Collect evaluates the query and returns the full result slice.
func (q Query) Collect(base []*models.Article) []*models.Article {
	var out []*models.Article
	for a := range q.Run(base) {
		out = append(out, a)
	}
	return out
}

func (q Query) matches(a *models.Article) bool {
	switch q.Filter {
	case FilterUnread:
		if a.Read {
			return false
		}
	case FilterStarred:
		if !a.Starred {
			return false
		}
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(a.Title), needle) {
		return true
	}
	if a.Description != nil && strings.Contains(strings.ToLower(*a.Description), needle) {
		return true
	}
	if a.AISummary != nil && strings.Contains(strings.ToLower(*a.AISummary), needle) {
		return true
	}
	return false
}

// orderArticles sorts by published time in the requested direction.
// Articles without a publish time sort after all timestamped ones in either
// direction; ties break by ID for determinism.
func orderArticles(articles []*models.Article, s Sort) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return a.ID < b.ID
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		}
		if a.PublishedAt.Equal(*b.PublishedAt) {
			return a.ID < b.ID
		}
		if s == SortOldest {
			return a.PublishedAt.Before(*b.PublishedAt)
		}
		return a.PublishedAt.After(*b.PublishedAt)
	})
}

// ParseFilter maps a user-supplied filter name, defaulting to all.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, "":
		return FilterAll, true
	case FilterUnread:
		return FilterUnread, true
	case FilterStarred:
		return FilterStarred, true
	}
	return FilterAll, false
}

// ParseSort maps a user-supplied sort name, defaulting to newest.
func ParseSort(s string) (Sort, bool) {
	switch Sort(s) {
	case SortNewest, "":
		return SortNewest, true
	case SortOldest:
		return SortOldest, true
	}
	return SortNewest, false
}
