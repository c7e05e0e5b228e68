// ABOUTME: Test suite for article ingestion
// ABOUTME: Uses a canned feed body and an in-memory gateway fake

package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/models"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First Post</title>
      <link>https://example.com/first</link>
      <description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jun 2025 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/second</link>
      <description>Plain description</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
  </channel>
</rss>`

// recordGateway accepts inserts and counts them; other operations succeed
// trivially so the engine can seed collections and sources.
type recordGateway struct {
	inserted []*models.Article
	failNext bool
}

func (g *recordGateway) FetchCollections(context.Context, string) ([]*models.Collection, error) {
	return nil, nil
}
func (g *recordGateway) FetchSources(context.Context, string) ([]*models.Source, error) {
	return nil, nil
}
func (g *recordGateway) FetchArticles(context.Context, string) ([]*models.Article, error) {
	return nil, nil
}
func (g *recordGateway) InsertCollection(_ context.Context, c *models.Collection) (*models.Collection, error) {
	return c, nil
}
func (g *recordGateway) InsertSource(_ context.Context, s *models.Source) (*models.Source, error) {
	return s, nil
}
func (g *recordGateway) InsertArticle(_ context.Context, a *models.Article) (*models.Article, error) {
	if g.failNext {
		g.failNext = false
		return nil, errors.New("injected insert failure")
	}
	g.inserted = append(g.inserted, a)
	return a, nil
}
func (g *recordGateway) UpdateArticleFlags(context.Context, string, engine.FlagUpdate) (*models.Article, error) {
	return nil, errors.New("not used")
}
func (g *recordGateway) DeleteCollection(context.Context, string) error { return nil }
func (g *recordGateway) DeleteSource(context.Context, string) error     { return nil }
func (g *recordGateway) CountArticles(context.Context, string) (int, error) {
	return 0, nil
}

func setupIngestor(t *testing.T, body string) (*Ingestor, *engine.Engine, *recordGateway, *models.Source) {
	t.Helper()
	gw := &recordGateway{}
	e := engine.New("user-1", gw)

	c, err := e.CreateCollection(context.Background(), "Tech", "", "#000")
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	src, err := e.CreateSource(context.Background(), c.ID, "Example", "https://example.com/feed", models.KindFeed, "")
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	ing := New(e, gw)
	ing.fetch = func(context.Context, string) ([]byte, error) {
		return []byte(body), nil
	}
	return ing, e, gw, src
}

func TestRunSourceMapsItems(t *testing.T) {
	ing, e, gw, src := setupIngestor(t, sampleFeed)

	res := ing.RunSource(context.Background(), src)
	if res.Err != nil {
		t.Fatalf("RunSource: %v", res.Err)
	}
	// Untitled item is dropped.
	if res.NewArticles != 2 {
		t.Fatalf("expected 2 new articles, got %d", res.NewArticles)
	}
	if len(gw.inserted) != 2 {
		t.Fatalf("expected 2 gateway inserts, got %d", len(gw.inserted))
	}

	articles := e.Store().ArticlesInSource(src.ID)
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles in store, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "First Post" || first.PublishedAt == nil {
		t.Errorf("first article did not map: %+v", first)
	}
	if first.Description == nil || *first.Description != "Hello world" {
		t.Errorf("expected HTML-stripped description, got %v", first.Description)
	}
	second := articles[1]
	if second.PublishedAt != nil {
		t.Error("second article has no pubDate and must stay undated")
	}
}

func TestRunSourceDedupesByLink(t *testing.T) {
	ing, e, _, src := setupIngestor(t, sampleFeed)

	if res := ing.RunSource(context.Background(), src); res.Err != nil {
		t.Fatalf("first run: %v", res.Err)
	}
	res := ing.RunSource(context.Background(), src)
	if res.Err != nil {
		t.Fatalf("second run: %v", res.Err)
	}
	if res.NewArticles != 0 {
		t.Errorf("expected no new articles on re-run, got %d", res.NewArticles)
	}
	if got := len(e.Store().ArticlesInSource(src.ID)); got != 2 {
		t.Errorf("expected 2 articles total, got %d", got)
	}
}

func TestRunSourceSkipsNonFetchableKinds(t *testing.T) {
	ing, e, _, _ := setupIngestor(t, sampleFeed)
	c := e.Store().Collections()[0]

	yt, err := e.CreateSource(context.Background(), c.ID, "Channel", "https://youtube.com/@x", models.KindVideoChannel, "")
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	res := ing.RunSource(context.Background(), yt)
	if !res.Skipped {
		t.Error("expected non-fetchable kind to be skipped")
	}
}

func TestRunSourceSkipsInactive(t *testing.T) {
	ing, _, _, src := setupIngestor(t, sampleFeed)
	src.Active = false

	res := ing.RunSource(context.Background(), src)
	if !res.Skipped {
		t.Error("expected inactive source to be skipped")
	}
}

func TestRunSourceContinuesPastInsertFailure(t *testing.T) {
	ing, e, gw, src := setupIngestor(t, sampleFeed)
	gw.failNext = true

	res := ing.RunSource(context.Background(), src)
	if res.Err == nil {
		t.Fatal("expected the failed insert to surface")
	}
	// The second item still landed.
	if res.NewArticles != 1 {
		t.Errorf("expected 1 article past the failure, got %d", res.NewArticles)
	}
	if got := len(e.Store().ArticlesInSource(src.ID)); got != 1 {
		t.Errorf("expected 1 article in store, got %d", got)
	}
}

func TestRunSourceBadFeed(t *testing.T) {
	ing, _, _, src := setupIngestor(t, "not a feed at all")

	res := ing.RunSource(context.Background(), src)
	if res.Err == nil {
		t.Error("expected parse error for invalid feed body")
	}
}
