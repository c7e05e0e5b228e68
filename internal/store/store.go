// ABOUTME: In-memory entity store holding the authoritative local snapshot
// ABOUTME: Keyed by ID with insertion order preserved; cascading removal

package store

import (
	"fmt"

	"github.com/curateapp/curator/internal/models"
)

// Kind identifies which entity table an ID refers to.
type Kind string

const (
	KindCollection Kind = "collection"
	KindSource     Kind = "source"
	KindArticle    Kind = "article"
)

// NotFoundError reports an ID absent from the store. Callers should treat it
// as a local state problem and re-hydrate rather than retry.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Store holds Collections, Sources, and Articles for one user session.
// It is not safe for concurrent use; all mutation is funneled through a
// single logical writer (see engine.Engine).
type Store struct {
	collections *table[*models.Collection]
	sources     *table[*models.Source]
	articles    *table[*models.Article]
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		collections: newTable[*models.Collection](),
		sources:     newTable[*models.Source](),
		articles:    newTable[*models.Article](),
	}
}

// Clear wipes the snapshot. Called on sign-out.
func (s *Store) Clear() {
	s.collections = newTable[*models.Collection]()
	s.sources = newTable[*models.Source]()
	s.articles = newTable[*models.Article]()
}

// Collection returns the collection with the given ID.
func (s *Store) Collection(id string) (*models.Collection, error) {
	c, ok := s.collections.get(id)
	if !ok {
		return nil, &NotFoundError{Kind: KindCollection, ID: id}
	}
	return c, nil
}

// Source returns the source with the given ID.
func (s *Store) Source(id string) (*models.Source, error) {
	src, ok := s.sources.get(id)
	if !ok {
		return nil, &NotFoundError{Kind: KindSource, ID: id}
	}
	return src, nil
}

// Article returns the article with the given ID.
func (s *Store) Article(id string) (*models.Article, error) {
	a, ok := s.articles.get(id)
	if !ok {
		return nil, &NotFoundError{Kind: KindArticle, ID: id}
	}
	return a, nil
}

// Collections returns all collections in insertion order.
func (s *Store) Collections() []*models.Collection { return s.collections.list() }

// Sources returns all sources in insertion order.
func (s *Store) Sources() []*models.Source { return s.sources.list() }

// Articles returns all articles in insertion order.
func (s *Store) Articles() []*models.Article { return s.articles.list() }

// SourcesInCollection returns the sources referencing the given collection,
// in insertion order.
func (s *Store) SourcesInCollection(collectionID string) []*models.Source {
	var out []*models.Source
	for _, src := range s.sources.list() {
		if src.CollectionID == collectionID {
			out = append(out, src)
		}
	}
	return out
}

// ArticlesInSource returns the articles referencing the given source,
// in insertion order.
func (s *Store) ArticlesInSource(sourceID string) []*models.Article {
	var out []*models.Article
	for _, a := range s.articles.list() {
		if a.SourceID == sourceID {
			out = append(out, a)
		}
	}
	return out
}

// UpsertCollection inserts or replaces a collection by ID.
func (s *Store) UpsertCollection(c *models.Collection) error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("collection requires id and name")
	}
	s.collections.put(c.ID, c)
	return nil
}

// UpsertSource inserts or replaces a source by ID. The owning collection
// must already exist; a dangling reference rejects the whole upsert.
func (s *Store) UpsertSource(src *models.Source) error {
	if src.ID == "" || src.Name == "" || src.URL == "" {
		return fmt.Errorf("source requires id, name, and url")
	}
	if _, ok := s.collections.get(src.CollectionID); !ok {
		return &NotFoundError{Kind: KindCollection, ID: src.CollectionID}
	}
	s.sources.put(src.ID, src)
	return nil
}

// UpsertArticle inserts or replaces an article by ID. The owning source
// must already exist.
func (s *Store) UpsertArticle(a *models.Article) error {
	if a.ID == "" || a.Title == "" {
		return fmt.Errorf("article requires id and title")
	}
	if _, ok := s.sources.get(a.SourceID); !ok {
		return &NotFoundError{Kind: KindSource, ID: a.SourceID}
	}
	s.articles.put(a.ID, a)
	return nil
}

// RemoveArticle removes a single article.
func (s *Store) RemoveArticle(id string) error {
	if !s.articles.delete(id) {
		return &NotFoundError{Kind: KindArticle, ID: id}
	}
	return nil
}

// RemoveSource removes a source and cascades to its articles, returning the
// IDs of removed descendant articles.
func (s *Store) RemoveSource(id string) ([]string, error) {
	if _, ok := s.sources.get(id); !ok {
		return nil, &NotFoundError{Kind: KindSource, ID: id}
	}
	var removed []string
	for _, a := range s.ArticlesInSource(id) {
		s.articles.delete(a.ID)
		removed = append(removed, a.ID)
	}
	s.sources.delete(id)
	return removed, nil
}

// RemoveCollection removes a collection and cascades through its sources to
// their articles, returning the IDs of all removed descendants.
func (s *Store) RemoveCollection(id string) ([]string, error) {
	if _, ok := s.collections.get(id); !ok {
		return nil, &NotFoundError{Kind: KindCollection, ID: id}
	}
	var removed []string
	for _, src := range s.SourcesInCollection(id) {
		descendants, err := s.RemoveSource(src.ID)
		if err != nil {
			return removed, err
		}
		removed = append(removed, src.ID)
		removed = append(removed, descendants...)
	}
	s.collections.delete(id)
	return removed, nil
}
