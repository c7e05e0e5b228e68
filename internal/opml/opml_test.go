// ABOUTME: Tests for OPML import/export with collection folders
// ABOUTME: Validates round-trip serialization and kind/category attrs

package opml

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/curateapp/curator/internal/models"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title>curator sources</title>
  </head>
  <body>
    <outline text="Tech">
      <outline text="TechCrunch" title="TechCrunch" type="rss" xmlUrl="https://techcrunch.com/feed"></outline>
      <outline text="Some Channel" title="Some Channel" type="video-channel" xmlUrl="https://youtube.com/feeds/x" category="videos"></outline>
    </outline>
    <outline text="Root Feed" type="rss" xmlUrl="https://example.com/feed"></outline>
  </body>
</opml>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleOPML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Title != "curator sources" {
		t.Errorf("expected title 'curator sources', got %q", doc.Title)
	}
	if len(doc.Subscriptions) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(doc.Subscriptions))
	}

	tc := doc.Subscriptions[0]
	if tc.Collection != "Tech" || tc.Kind != models.KindFeed || tc.URL != "https://techcrunch.com/feed" {
		t.Errorf("first subscription did not parse: %+v", tc)
	}

	yt := doc.Subscriptions[1]
	if yt.Kind != models.KindVideoChannel || yt.Category != "videos" {
		t.Errorf("expected video-channel kind with category, got %+v", yt)
	}

	root := doc.Subscriptions[2]
	if root.Collection != "" {
		t.Errorf("expected root-level subscription, got folder %q", root.Collection)
	}
}

func TestCollections(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleOPML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := doc.Collections()
	if len(got) != 1 || got[0] != "Tech" {
		t.Errorf("expected [Tech], got %v", got)
	}
}

func TestExportRoundTrip(t *testing.T) {
	c := models.NewCollection("user-1", "Tech", "#000")
	src := models.NewSource("user-1", c.ID, "TechCrunch", "https://techcrunch.com/feed", models.KindFeed)
	cat := "startups"
	src.Category = &cat

	doc := Export("curator sources", []*models.Collection{c}, []*models.Source{src})

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`text="Tech"`, `xmlUrl="https://techcrunch.com/feed"`, `type="rss"`, `category="startups"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if len(parsed.Subscriptions) != 1 {
		t.Fatalf("expected 1 subscription after round-trip, got %d", len(parsed.Subscriptions))
	}
	got := parsed.Subscriptions[0]
	if got.Collection != "Tech" || got.Title != "TechCrunch" || got.Category != "startups" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestWriteFile(t *testing.T) {
	doc := &Document{Title: "empty"}
	path := filepath.Join(t.TempDir(), "nested", "sources.opml")

	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if parsed.Title != "empty" {
		t.Errorf("expected title 'empty', got %q", parsed.Title)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(strings.NewReader("not xml at all")); err == nil {
		t.Error("expected error for invalid OPML")
	}
}
