// ABOUTME: Charm KV sync gateway using the transactional Do API
// ABOUTME: Short-lived connections; keys are prefixed JSON records per entity

package charmgw

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/models"
)

const (
	CollectionPrefix = "collection:"
	SourcePrefix     = "source:"
	ArticlePrefix    = "article:"

	// DefaultCharmHost is used when CHARM_HOST is unset.
	DefaultCharmHost = "charm.2389.dev"

	// DBName is the charm kv database for curator.
	DBName = "curator"
)

// Gateway implements engine.Gateway over a Charm KV store. Every record is
// stored under a type prefix as JSON; the charm server replicates the store
// across the user's devices. Each operation opens the database, runs, and
// closes it to avoid lock contention with other processes.
type Gateway struct {
	dbName   string
	autoSync bool
}

var _ engine.Gateway = (*Gateway)(nil)

// New creates a Gateway against the configured charm host.
func New() (*Gateway, error) {
	if os.Getenv("CHARM_HOST") == "" {
		os.Setenv("CHARM_HOST", DefaultCharmHost)
	}
	return &Gateway{dbName: DBName, autoSync: true}, nil
}

// SetAutoSync enables or disables automatic sync after writes.
func (g *Gateway) SetAutoSync(enabled bool) {
	g.autoSync = enabled
}

// NewWithDBName creates a Gateway against a specific kv database, used by
// tests to isolate local stores without touching the default one.
func NewWithDBName(dbName string, autoSync bool) *Gateway {
	return &Gateway{dbName: dbName, autoSync: autoSync}
}

func (g *Gateway) do(fn func(k *kv.KV) error) error {
	return kv.Do(g.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if g.autoSync {
			return k.Sync()
		}
		return nil
	})
}

func (g *Gateway) doReadOnly(fn func(k *kv.KV) error) error {
	return kv.DoReadOnly(g.dbName, fn)
}

func collectionKey(id string) []byte { return []byte(CollectionPrefix + id) }
func sourceKey(id string) []byte     { return []byte(SourcePrefix + id) }
func articleKey(id string) []byte    { return []byte(ArticlePrefix + id) }

// setJSON marshals and stores one record.
func setJSON(k *kv.KV, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return k.Set(key, data)
}

// listPrefix collects every record under a key prefix, skipping entries
// that fail to decode (a corrupted record must not block the rest).
func listPrefix[T any](k *kv.KV, prefix string) ([]*T, error) {
	keys, err := k.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	out := make([]*T, 0, len(keys))
	warned := false
	for _, key := range keys {
		if !strings.HasPrefix(string(key), prefix) {
			continue
		}
		data, err := k.Get(key)
		if err != nil {
			warned = warnCorruption(warned)
			continue
		}
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			warned = warnCorruption(warned)
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

func warnCorruption(already bool) bool {
	if !already {
		fmt.Fprintf(os.Stderr, "Warning: some records may be corrupted\n")
	}
	return true
}

// FetchCollections returns the user's collections in creation order.
func (g *Gateway) FetchCollections(_ context.Context, userID string) ([]*models.Collection, error) {
	var out []*models.Collection
	err := g.doReadOnly(func(k *kv.KV) error {
		all, err := listPrefix[models.Collection](k, CollectionPrefix)
		if err != nil {
			return err
		}
		for _, c := range all {
			if c.UserID == userID {
				out = append(out, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(out, func(c *models.Collection) (string, int64) { return c.ID, c.CreatedAt.UnixNano() })
	return out, nil
}

// FetchSources returns the user's sources in creation order.
func (g *Gateway) FetchSources(_ context.Context, userID string) ([]*models.Source, error) {
	var out []*models.Source
	err := g.doReadOnly(func(k *kv.KV) error {
		all, err := listPrefix[models.Source](k, SourcePrefix)
		if err != nil {
			return err
		}
		for _, s := range all {
			if s.UserID == userID {
				out = append(out, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(out, func(s *models.Source) (string, int64) { return s.ID, s.CreatedAt.UnixNano() })
	return out, nil
}

// FetchArticles returns articles under the user's sources in creation order.
func (g *Gateway) FetchArticles(ctx context.Context, userID string) ([]*models.Article, error) {
	sources, err := g.FetchSources(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(sources))
	for _, s := range sources {
		owned[s.ID] = true
	}

	var out []*models.Article
	err = g.doReadOnly(func(k *kv.KV) error {
		all, err := listPrefix[models.Article](k, ArticlePrefix)
		if err != nil {
			return err
		}
		for _, a := range all {
			if owned[a.SourceID] {
				out = append(out, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(out, func(a *models.Article) (string, int64) { return a.ID, a.CreatedAt.UnixNano() })
	return out, nil
}

// InsertCollection stores a new collection.
func (g *Gateway) InsertCollection(_ context.Context, c *models.Collection) (*models.Collection, error) {
	err := g.do(func(k *kv.KV) error {
		return setJSON(k, collectionKey(c.ID), c)
	})
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	return c, nil
}

// InsertSource stores a new source.
func (g *Gateway) InsertSource(_ context.Context, src *models.Source) (*models.Source, error) {
	err := g.do(func(k *kv.KV) error {
		return setJSON(k, sourceKey(src.ID), src)
	})
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}
	return src, nil
}

// InsertArticle stores a new article.
func (g *Gateway) InsertArticle(_ context.Context, a *models.Article) (*models.Article, error) {
	err := g.do(func(k *kv.KV) error {
		return setJSON(k, articleKey(a.ID), a)
	})
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return a, nil
}

// UpdateArticleFlags reads the stored row, applies absolute flag values,
// and writes it back, returning the row as stored. Later writes win: the
// read-modify-write happens inside one Do transaction.
func (g *Gateway) UpdateArticleFlags(_ context.Context, articleID string, update engine.FlagUpdate) (*models.Article, error) {
	var stored models.Article
	err := g.do(func(k *kv.KV) error {
		data, err := k.Get(articleKey(articleID))
		if err != nil {
			return fmt.Errorf("get article: %w", err)
		}
		if data == nil {
			return fmt.Errorf("article not found: %s", articleID)
		}
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("unmarshal article: %w", err)
		}
		if update.Read != nil {
			stored.SetRead(*update.Read)
		}
		if update.Starred != nil {
			stored.SetStarred(*update.Starred)
		}
		return setJSON(k, articleKey(articleID), &stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteCollection removes the collection and cascades through its sources
// to their articles inside one transaction.
func (g *Gateway) DeleteCollection(_ context.Context, id string) error {
	return g.do(func(k *kv.KV) error {
		sources, err := listPrefix[models.Source](k, SourcePrefix)
		if err != nil {
			return err
		}
		for _, src := range sources {
			if src.CollectionID != id {
				continue
			}
			if err := deleteSourceWithKV(k, src.ID); err != nil {
				return err
			}
		}
		if err := k.Delete(collectionKey(id)); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		return nil
	})
}

// DeleteSource removes the source and its articles.
func (g *Gateway) DeleteSource(_ context.Context, id string) error {
	return g.do(func(k *kv.KV) error {
		return deleteSourceWithKV(k, id)
	})
}

func deleteSourceWithKV(k *kv.KV, id string) error {
	articles, err := listPrefix[models.Article](k, ArticlePrefix)
	if err != nil {
		return err
	}
	for _, a := range articles {
		if a.SourceID != id {
			continue
		}
		if err := k.Delete(articleKey(a.ID)); err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
	}
	if err := k.Delete(sourceKey(id)); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// CountArticles counts the user's articles.
func (g *Gateway) CountArticles(ctx context.Context, userID string) (int, error) {
	articles, err := g.FetchArticles(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(articles), nil
}

// Sync manually triggers a sync with the charm server.
func (g *Gateway) Sync() error {
	return kv.Do(g.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

// Reset wipes all local data.
func (g *Gateway) Reset() error {
	return kv.Do(g.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}

// sortByCreation orders records by creation time ascending, ID tiebreak,
// matching the insertion order the sqlite gateway produces.
func sortByCreation[T any](records []*T, key func(*T) (string, int64)) {
	sort.Slice(records, func(i, j int) bool {
		idI, tI := key(records[i])
		idJ, tJ := key(records[j])
		if tI == tJ {
			return idI < idJ
		}
		return tI < tJ
	})
}
