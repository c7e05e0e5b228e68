// ABOUTME: HTTP JSON API over a session engine: queries, flag toggles, CRUD
// ABOUTME: One server per user session; the engine serializes all mutation

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/ingest"
	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/opml"
	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
)

// Server exposes the curation engine over HTTP.
type Server struct {
	engine   *engine.Engine
	ingestor *ingest.Ingestor
	router   chi.Router
}

// New creates a server bound to a hydrated engine.
func New(e *engine.Engine, ing *ingest.Ingestor) *Server {
	s := &Server{engine: e, ingestor: ing}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/dashboard", s.handleDashboard)

		r.Get("/collections", s.handleListCollections)
		r.Post("/collections", s.handleCreateCollection)
		r.Delete("/collections/{collectionID}", s.handleDeleteCollection)
		r.Get("/collections/{collectionID}/sources", s.handleListSources)

		r.Post("/sources", s.handleCreateSource)
		r.Delete("/sources/{sourceID}", s.handleDeleteSource)

		r.Get("/articles", s.handleListArticles)
		r.Post("/articles/{articleID}/toggle-read", s.handleToggleRead)
		r.Post("/articles/{articleID}/toggle-star", s.handleToggleStar)

		r.Post("/refresh", s.handleRefresh)
		r.Post("/import-opml", s.handleImportOPML)
		r.Get("/export-opml", s.handleExportOPML)
	})

	s.router = r
}

// Handler returns the root HTTP handler, for mounting and tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// --- Wire representations ---

type collectionJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	SourceCount int     `json:"source_count"`
	Unread      int     `json:"unread"`
	Starred     int     `json:"starred"`
	Total       int     `json:"total"`
}

type sourceJSON struct {
	ID           string  `json:"id"`
	CollectionID string  `json:"collection_id"`
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	Kind         string  `json:"kind"`
	Category     *string `json:"category,omitempty"`
	Active       bool    `json:"active"`
	Unread       int     `json:"unread"`
	Total        int     `json:"total"`
}

type articleJSON struct {
	ID          string  `json:"id"`
	SourceID    string  `json:"source_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	AISummary   *string `json:"ai_summary,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
	Read        bool    `json:"read"`
	Starred     bool    `json:"starred"`
}

func (s *Server) collectionToJSON(c *models.Collection) collectionJSON {
	agg := s.engine.Stats()
	st := agg.ArticleStats(stats.InCollection(c.ID))
	return collectionJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		SourceCount: agg.SourceCount(c.ID),
		Unread:      st.Unread,
		Starred:     st.Starred,
		Total:       st.Total,
	}
}

func (s *Server) sourceToJSON(src *models.Source) sourceJSON {
	st := s.engine.Stats().ArticleStats(stats.InSource(src.ID))
	return sourceJSON{
		ID:           src.ID,
		CollectionID: src.CollectionID,
		Name:         src.Name,
		URL:          src.URL,
		Kind:         string(src.Kind),
		Category:     src.Category,
		Active:       src.Active,
		Unread:       st.Unread,
		Total:        st.Total,
	}
}

func articleToJSON(a *models.Article) articleJSON {
	out := articleJSON{
		ID:          a.ID,
		SourceID:    a.SourceID,
		Title:       a.Title,
		URL:         a.URL,
		Description: a.Description,
		AISummary:   a.AISummary,
		Read:        a.Read,
		Starred:     a.Starred,
	}
	if a.PublishedAt != nil {
		ts := a.PublishedAt.UTC().Format("2006-01-02T15:04:05Z")
		out.PublishedAt = &ts
	}
	return out
}

// --- Handlers ---

// handleSnapshot returns the whole hydrated session in one payload.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()

	collections := []collectionJSON{}
	for _, c := range store.Collections() {
		collections = append(collections, s.collectionToJSON(c))
	}
	sources := []sourceJSON{}
	for _, src := range store.Sources() {
		sources = append(sources, s.sourceToJSON(src))
	}
	articles := []articleJSON{}
	for _, a := range store.Articles() {
		articles = append(articles, articleToJSON(a))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":     s.engine.UserID(),
		"collections": collections,
		"sources":     sources,
		"articles":    articles,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	agg := s.engine.Stats()
	d := agg.Dashboard()
	st := agg.ArticleStats(stats.All())
	respondJSON(w, http.StatusOK, map[string]any{
		"collections":    d.CollectionCount,
		"sources":        d.SourceCount,
		"active_sources": d.ActiveSourceCount,
		"articles":       d.ArticleCount,
		"unread":         st.Unread,
		"starred":        st.Starred,
	})
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	out := []collectionJSON{}
	for _, c := range s.engine.Store().Collections() {
		out = append(out, s.collectionToJSON(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := s.engine.CreateCollection(r.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.collectionToJSON(c))
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "collectionID")
	removed, err := s.engine.RemoveCollection(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "collectionID")
	if _, err := s.engine.Store().Collection(id); err != nil {
		respondEngineError(w, err)
		return
	}
	out := []sourceJSON{}
	for _, src := range s.engine.Store().SourcesInCollection(id) {
		out = append(out, s.sourceToJSON(src))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CollectionID string `json:"collection_id"`
		Name         string `json:"name"`
		URL          string `json:"url"`
		Kind         string `json:"kind"`
		Category     string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind := models.SourceKind(req.Kind)
	if req.Kind == "" {
		kind = models.KindFeed
	}
	src, err := s.engine.CreateSource(r.Context(), req.CollectionID, req.Name, req.URL, kind, req.Category)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.sourceToJSON(src))
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sourceID")
	removed, err := s.engine.RemoveSource(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope := stats.All()
	if id := q.Get("collection"); id != "" {
		if _, err := s.engine.Store().Collection(id); err != nil {
			respondEngineError(w, err)
			return
		}
		scope = stats.InCollection(id)
	}
	if id := q.Get("source"); id != "" {
		if _, err := s.engine.Store().Source(id); err != nil {
			respondEngineError(w, err)
			return
		}
		scope = stats.InSource(id)
	}

	filter, ok := query.ParseFilter(q.Get("filter"))
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown filter %q", q.Get("filter")))
		return
	}
	sort, ok := query.ParseSort(q.Get("sort"))
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort %q", q.Get("sort")))
		return
	}

	articles := s.engine.QueryArticles(scope, query.Query{
		Text:   q.Get("q"),
		Filter: filter,
		Sort:   sort,
	})
	out := []articleJSON{}
	for _, a := range articles {
		out = append(out, articleToJSON(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleToggleRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "articleID")
	a, err := s.engine.ToggleRead(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, articleToJSON(a))
}

func (s *Server) handleToggleStar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "articleID")
	a, err := s.engine.ToggleStar(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, articleToJSON(a))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.ingestor == nil {
		respondError(w, http.StatusServiceUnavailable, "ingestion not configured")
		return
	}
	type refreshResult struct {
		SourceID    string `json:"source_id"`
		Name        string `json:"name"`
		NewArticles int    `json:"new_articles"`
		Skipped     bool   `json:"skipped"`
		Error       string `json:"error,omitempty"`
	}
	out := []refreshResult{}
	for _, res := range s.ingestor.Run(r.Context()) {
		rr := refreshResult{
			SourceID:    res.Source.ID,
			Name:        res.Source.Name,
			NewArticles: res.NewArticles,
			Skipped:     res.Skipped,
		}
		if res.Err != nil {
			rr.Error = res.Err.Error()
		}
		out = append(out, rr)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleImportOPML(w http.ResponseWriter, r *http.Request) {
	doc, err := opml.Parse(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("parse opml: %v", err))
		return
	}

	// Folders become collections; existing ones are matched by name.
	byName := make(map[string]string)
	for _, c := range s.engine.Store().Collections() {
		byName[c.Name] = c.ID
	}
	existingURLs := make(map[string]bool)
	for _, src := range s.engine.Store().Sources() {
		existingURLs[src.URL] = true
	}

	imported := 0
	for _, sub := range doc.Subscriptions {
		if existingURLs[sub.URL] {
			continue
		}
		name := sub.Collection
		if name == "" {
			name = "Imported"
		}
		collectionID, ok := byName[name]
		if !ok {
			c, err := s.engine.CreateCollection(r.Context(), name, "", "")
			if err != nil {
				respondEngineError(w, err)
				return
			}
			collectionID = c.ID
			byName[name] = c.ID
		}
		if _, err := s.engine.CreateSource(r.Context(), collectionID, sub.Title, sub.URL, sub.Kind, sub.Category); err != nil {
			respondEngineError(w, err)
			return
		}
		existingURLs[sub.URL] = true
		imported++
	}
	respondJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

func (s *Server) handleExportOPML(w http.ResponseWriter, r *http.Request) {
	doc := opml.Export("Subscriptions", s.engine.Store().Collections(), s.engine.Store().Sources())
	w.Header().Set("Content-Type", "text/x-opml")
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.opml"`)
	if err := doc.Write(w); err != nil {
		log.Printf("export opml: %v", err)
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondEngineError maps engine error kinds onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	var ve *engine.ValidationError
	switch {
	case engine.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusBadGateway, err.Error())
	}
}
