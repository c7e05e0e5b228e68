// ABOUTME: Test suite for the HTTP JSON API
// ABOUTME: Exercises handlers end to end over a real sqlite gateway

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/gateway/sqlitegw"
	"github.com/curateapp/curator/internal/models"
)

func setupServer(t *testing.T) (*httptest.Server, *engine.Engine, *sqlitegw.Gateway) {
	t.Helper()
	gw, err := sqlitegw.Open(filepath.Join(t.TempDir(), "curator.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { gw.Close() })

	e := engine.New("user-1", gw)
	srv := httptest.NewServer(New(e, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, e, gw
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestCreateAndListCollections(t *testing.T) {
	srv, _, _ := setupServer(t)

	var created collectionJSON
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/collections",
		map[string]string{"name": "Tech", "color": "#3B82F6"}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if created.Name != "Tech" || created.ID == "" {
		t.Errorf("unexpected collection: %+v", created)
	}

	var list []collectionJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/collections", nil, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created collection, got %+v", list)
	}
}

func TestCreateCollectionRejectsBlankName(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/collections",
		map[string]string{"name": "   "}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSourceLifecycle(t *testing.T) {
	srv, e, _ := setupServer(t)
	ctx := context.Background()

	c, err := e.CreateCollection(ctx, "Tech", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	var src sourceJSON
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sources", map[string]string{
		"collection_id": c.ID,
		"name":          "Hacker News",
		"url":           "https://news.ycombinator.com/rss",
	}, &src)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if src.Kind != string(models.KindFeed) {
		t.Errorf("expected default kind feed, got %q", src.Kind)
	}
	if !src.Active {
		t.Error("expected new source to be active")
	}

	var list []sourceJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/collections/"+c.ID+"/sources", nil, &list)
	if len(list) != 1 || list[0].ID != src.ID {
		t.Fatalf("expected the created source, got %+v", list)
	}

	var del struct {
		Removed []string `json:"removed"`
	}
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/sources/"+src.ID, nil, &del)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/collections/"+c.ID+"/sources", nil, &list)
	if len(list) != 0 {
		t.Errorf("expected no sources after delete, got %+v", list)
	}
}

func TestDeleteCollectionReportsDescendants(t *testing.T) {
	srv, e, gw := setupServer(t)
	ctx := context.Background()

	c, _ := e.CreateCollection(ctx, "Tech", "", "")
	src, _ := e.CreateSource(ctx, c.ID, "HN", "https://example.com/rss", models.KindFeed, "")
	a := models.NewArticle(src.ID, "Hello", "https://example.com/1")
	if _, err := gw.InsertArticle(ctx, a); err != nil {
		t.Fatalf("InsertArticle failed: %v", err)
	}
	if err := e.Store().UpsertArticle(a); err != nil {
		t.Fatalf("UpsertArticle failed: %v", err)
	}

	var del struct {
		Removed []string `json:"removed"`
	}
	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/collections/"+c.ID, nil, &del)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(del.Removed) != 2 {
		t.Errorf("expected source and article in removed set, got %v", del.Removed)
	}
}

func TestDeleteUnknownCollectionIs404(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/collections/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func seedArticles(t *testing.T, e *engine.Engine, gw *sqlitegw.Gateway) (*models.Collection, *models.Source) {
	t.Helper()
	ctx := context.Background()

	c, err := e.CreateCollection(ctx, "Tech", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	src, err := e.CreateSource(ctx, c.ID, "HN", "https://example.com/rss", models.KindFeed, "")
	if err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		a := models.NewArticle(src.ID, fmt.Sprintf("Article %d", i), fmt.Sprintf("https://example.com/%d", i))
		pub := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		a.PublishedAt = &pub
		if i == 0 {
			a.SetRead(true)
		}
		if _, err := gw.InsertArticle(ctx, a); err != nil {
			t.Fatalf("InsertArticle failed: %v", err)
		}
		if err := e.Store().UpsertArticle(a); err != nil {
			t.Fatalf("UpsertArticle failed: %v", err)
		}
	}
	return c, src
}

func TestListArticlesFiltersAndSorts(t *testing.T) {
	srv, e, gw := setupServer(t)
	seedArticles(t, e, gw)

	var all []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles", nil, &all)
	if len(all) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(all))
	}
	// Default sort is newest first.
	if all[0].Title != "Article 2" {
		t.Errorf("expected newest first, got %q", all[0].Title)
	}

	var unread []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles?filter=unread", nil, &unread)
	if len(unread) != 2 {
		t.Errorf("expected 2 unread, got %d", len(unread))
	}

	var oldest []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles?sort=oldest", nil, &oldest)
	if oldest[0].Title != "Article 0" {
		t.Errorf("expected oldest first, got %q", oldest[0].Title)
	}

	var matched []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles?q=article+1", nil, &matched)
	if len(matched) != 1 || matched[0].Title != "Article 1" {
		t.Errorf("expected only Article 1, got %+v", matched)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/articles?filter=bogus", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown filter, got %d", resp.StatusCode)
	}
}

func TestListArticlesScopedToSource(t *testing.T) {
	srv, e, gw := setupServer(t)
	_, src := seedArticles(t, e, gw)

	var scoped []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles?source="+src.ID, nil, &scoped)
	if len(scoped) != 3 {
		t.Errorf("expected 3 articles in source, got %d", len(scoped))
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/articles?source=nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown source, got %d", resp.StatusCode)
	}
}

func TestToggleReadAndStar(t *testing.T) {
	srv, e, gw := setupServer(t)
	seedArticles(t, e, gw)

	var all []articleJSON
	doJSON(t, http.MethodGet, srv.URL+"/api/articles?filter=unread", nil, &all)
	id := all[0].ID

	var toggled articleJSON
	doJSON(t, http.MethodPost, srv.URL+"/api/articles/"+id+"/toggle-read", nil, &toggled)
	if !toggled.Read {
		t.Error("expected article read after toggle")
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/articles/"+id+"/toggle-star", nil, &toggled)
	if !toggled.Starred {
		t.Error("expected article starred after toggle")
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/articles/nope/toggle-read", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSnapshot(t *testing.T) {
	srv, e, gw := setupServer(t)
	seedArticles(t, e, gw)

	var snap struct {
		UserID      string           `json:"user_id"`
		Collections []collectionJSON `json:"collections"`
		Sources     []sourceJSON     `json:"sources"`
		Articles    []articleJSON    `json:"articles"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/snapshot", nil, &snap)
	if snap.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", snap.UserID)
	}
	if len(snap.Collections) != 1 || len(snap.Sources) != 1 || len(snap.Articles) != 3 {
		t.Errorf("unexpected snapshot shape: %d/%d/%d",
			len(snap.Collections), len(snap.Sources), len(snap.Articles))
	}
}

func TestDashboard(t *testing.T) {
	srv, e, gw := setupServer(t)
	seedArticles(t, e, gw)

	var d map[string]int
	doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", nil, &d)
	if d["collections"] != 1 || d["sources"] != 1 || d["articles"] != 3 {
		t.Errorf("unexpected dashboard counts: %v", d)
	}
	if d["unread"] != 2 {
		t.Errorf("expected 2 unread, got %d", d["unread"])
	}
}

func TestImportAndExportOPML(t *testing.T) {
	srv, _, _ := setupServer(t)

	opml := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subs</title></head>
  <body>
    <outline text="Tech">
      <outline type="rss" text="HN" xmlUrl="https://news.ycombinator.com/rss"/>
    </outline>
  </body>
</opml>`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/import-opml", strings.NewReader(opml))
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	defer resp.Body.Close()

	var imported struct {
		Imported int `json:"imported"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if imported.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", imported.Imported)
	}

	// Re-importing the same document is a no-op.
	req2, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/import-opml", strings.NewReader(opml))
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&imported); err != nil {
		t.Fatalf("decode re-import response: %v", err)
	}
	if imported.Imported != 0 {
		t.Errorf("expected 0 on re-import, got %d", imported.Imported)
	}

	exportResp, err := http.Get(srv.URL + "/api/export-opml")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	defer exportResp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(exportResp.Body); err != nil {
		t.Fatalf("read export body: %v", err)
	}
	if !strings.Contains(buf.String(), "news.ycombinator.com/rss") {
		t.Error("expected exported OPML to contain the imported feed URL")
	}
}
