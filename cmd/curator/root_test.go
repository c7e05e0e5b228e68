// ABOUTME: Tests for root command helpers
// ABOUTME: Verifies prefix resolution and ID display helpers

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/gateway/sqlitegw"
	"github.com/curateapp/curator/internal/models"
)

func setupEngine(t *testing.T) {
	t.Helper()
	gateway, err := sqlitegw.Open(filepath.Join(t.TempDir(), "curator.db"))
	if err != nil {
		t.Fatalf("failed to open gateway: %v", err)
	}
	t.Cleanup(func() { gateway.Close() })

	oldEng, oldGw := eng, gw
	t.Cleanup(func() { eng, gw = oldEng, oldGw })
	gw = gateway
	eng = engine.New("test-user", gateway)
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdefghijklmnop"); got != "abcdefgh" {
		t.Errorf("expected 8-char prefix, got %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("expected short IDs unchanged, got %q", got)
	}
}

func TestFindCollectionByName(t *testing.T) {
	setupEngine(t)
	ctx := context.Background()

	c, err := eng.CreateCollection(ctx, "Tech", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	found, err := findCollection("Tech")
	if err != nil {
		t.Fatalf("findCollection by name failed: %v", err)
	}
	if found.ID != c.ID {
		t.Errorf("expected %s, got %s", c.ID, found.ID)
	}

	found, err = findCollection(c.ID[:8])
	if err != nil {
		t.Fatalf("findCollection by prefix failed: %v", err)
	}
	if found.ID != c.ID {
		t.Errorf("expected %s, got %s", c.ID, found.ID)
	}

	if _, err := findCollection("nope"); err == nil {
		t.Error("expected error for unknown collection, got nil")
	}
}

func TestFindSourceByURL(t *testing.T) {
	setupEngine(t)
	ctx := context.Background()

	c, err := eng.CreateCollection(ctx, "Tech", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	src, err := eng.CreateSource(ctx, c.ID, "HN", "https://news.ycombinator.com/rss", models.KindFeed, "")
	if err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}

	found, err := findSource("https://news.ycombinator.com/rss")
	if err != nil {
		t.Fatalf("findSource by URL failed: %v", err)
	}
	if found.ID != src.ID {
		t.Errorf("expected %s, got %s", src.ID, found.ID)
	}

	found, err = findSource("HN")
	if err != nil {
		t.Fatalf("findSource by name failed: %v", err)
	}
	if found.ID != src.ID {
		t.Errorf("expected %s, got %s", src.ID, found.ID)
	}
}

func TestFindArticleRejectsShortPrefix(t *testing.T) {
	setupEngine(t)

	if _, err := findArticle("abc"); err == nil {
		t.Error("expected error for too-short prefix, got nil")
	}
}

func TestFindArticleByPrefix(t *testing.T) {
	setupEngine(t)
	ctx := context.Background()

	c, _ := eng.CreateCollection(ctx, "Tech", "", "")
	src, _ := eng.CreateSource(ctx, c.ID, "HN", "https://example.com/rss", models.KindFeed, "")
	a := models.NewArticle(src.ID, "Hello", "https://example.com/1")
	if _, err := gw.InsertArticle(ctx, a); err != nil {
		t.Fatalf("InsertArticle failed: %v", err)
	}
	if err := eng.Store().UpsertArticle(a); err != nil {
		t.Fatalf("UpsertArticle failed: %v", err)
	}

	found, err := findArticle(a.ID[:8])
	if err != nil {
		t.Fatalf("findArticle by prefix failed: %v", err)
	}
	if found.ID != a.ID {
		t.Errorf("expected %s, got %s", a.ID, found.ID)
	}
}
