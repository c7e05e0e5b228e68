// ABOUTME: Article ingestion: fetch a source's feed URL and map items to articles
// ABOUTME: The only producer of Articles; dedupes per source by canonical link

package ingest

import (
	"context"
	"fmt"

	"github.com/curateapp/curator/internal/content"
	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/models"
	"github.com/mmcdole/gofeed"
)

// Result summarizes one source's ingestion run.
type Result struct {
	Source      *models.Source
	NewArticles int
	Skipped     bool // source kind not fetchable or inactive
	Err         error
}

// Ingestor fetches sources and persists new articles through the gateway,
// then upserts them into the session's entity store so views see them
// without a re-hydration round-trip.
type Ingestor struct {
	engine  *engine.Engine
	gateway engine.Gateway
	fetch   func(ctx context.Context, url string) ([]byte, error)
}

// New creates an Ingestor bound to a session engine and its gateway.
func New(e *engine.Engine, gw engine.Gateway) *Ingestor {
	return &Ingestor{engine: e, gateway: gw, fetch: Fetch}
}

// Run ingests every active, fetchable source in the store, returning one
// Result per source. A failing source never aborts the others.
func (ing *Ingestor) Run(ctx context.Context) []Result {
	var results []Result
	for _, src := range ing.engine.Store().Sources() {
		results = append(results, ing.RunSource(ctx, src))
	}
	return results
}

// RunSource ingests a single source.
func (ing *Ingestor) RunSource(ctx context.Context, src *models.Source) Result {
	res := Result{Source: src}
	if !src.Active || !src.Kind.Fetchable() {
		res.Skipped = true
		return res
	}

	body, err := ing.fetch(ctx, src.URL)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", src.URL, err)
		return res
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		res.Err = fmt.Errorf("parse %s: %w", src.URL, err)
		return res
	}

	seen := make(map[string]bool)
	for _, a := range ing.engine.Store().ArticlesInSource(src.ID) {
		seen[a.URL] = true
	}

	for _, item := range parsed.Items {
		a := itemToArticle(src.ID, item)
		if a == nil || seen[a.URL] {
			continue
		}
		seen[a.URL] = true

		if _, err := ing.gateway.InsertArticle(ctx, a); err != nil {
			res.Err = fmt.Errorf("insert article %s: %w", a.URL, err)
			continue
		}
		if err := ing.engine.Store().UpsertArticle(a); err != nil {
			res.Err = fmt.Errorf("store article %s: %w", a.URL, err)
			continue
		}
		res.NewArticles++
	}
	return res
}

// itemToArticle maps a feed item onto an Article. Items without a title or
// link carry nothing addressable and are dropped.
func itemToArticle(sourceID string, item *gofeed.Item) *models.Article {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	if item.Title == "" || link == "" {
		return nil
	}

	a := models.NewArticle(sourceID, item.Title, link)

	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = item.UpdatedParsed
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	if body != "" {
		desc := content.PlainText(body)
		a.Description = &desc
	}
	return a
}
