// ABOUTME: MCP tool definitions and handlers for curation operations
// ABOUTME: Covers collection/source CRUD, article queries, flag toggles, and refresh

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/curateapp/curator/internal/ingest"
	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

// Type definitions for input/output structures

type ListCollectionsInput struct{}

type CollectionOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	SourceCount int       `json:"source_count"`
	Unread      int       `json:"unread"`
	Total       int       `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListCollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
	Count       int                `json:"count"`
}

type CreateCollectionInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type RemoveCollectionInput struct {
	CollectionID string `json:"collection_id"`
}

type RemoveOutput struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Removed []string `json:"removed"`
}

type CreateSourceInput struct {
	CollectionID string  `json:"collection_id"`
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	Kind         *string `json:"kind,omitempty"`
	Category     *string `json:"category,omitempty"`
}

type SourceOutput struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Kind         string    `json:"kind"`
	Category     *string   `json:"category,omitempty"`
	Active       bool      `json:"active"`
	Unread       int       `json:"unread"`
	Total        int       `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type RemoveSourceInput struct {
	SourceID string `json:"source_id"`
}

type ListArticlesInput struct {
	CollectionID *string `json:"collection_id,omitempty"`
	SourceID     *string `json:"source_id,omitempty"`
	Query        *string `json:"query,omitempty"`
	Filter       *string `json:"filter,omitempty"`
	Sort         *string `json:"sort,omitempty"`
	Limit        *int    `json:"limit,omitempty"`
}

type ArticleOutput struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"source_id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description *string    `json:"description,omitempty"`
	AISummary   *string    `json:"ai_summary,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	Starred     bool       `json:"starred"`
	StarredAt   *time.Time `json:"starred_at,omitempty"`
}

type ListArticlesOutput struct {
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
	Filters  map[string]any  `json:"filters"`
}

type ToggleInput struct {
	ArticleID string `json:"article_id"`
}

type RefreshInput struct {
	SourceID *string `json:"source_id,omitempty"`
}

type RefreshResult struct {
	SourceID    string  `json:"source_id"`
	SourceName  string  `json:"source_name"`
	NewArticles int     `json:"new_articles"`
	Skipped     bool    `json:"skipped"`
	Error       *string `json:"error,omitempty"`
}

type RefreshOutput struct {
	Results      []RefreshResult `json:"results"`
	TotalSources int             `json:"total_sources"`
	TotalNew     int             `json:"total_new"`
	TotalErrors  int             `json:"total_errors"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListCollectionsTool()
	s.registerCreateCollectionTool()
	s.registerRemoveCollectionTool()
	s.registerCreateSourceTool()
	s.registerRemoveSourceTool()
	s.registerListArticlesTool()
	s.registerToggleReadTool()
	s.registerToggleStarTool()
	s.registerRefreshTool()
}

func (s *Server) registerListCollectionsTool() {
	tool := mcp.Tool{
		Name:        "list_collections",
		Description: "Retrieve all collections with their source counts and article statistics. Use this first to discover collection IDs before listing sources or articles.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListCollections)
}

func (s *Server) registerCreateCollectionTool() {
	tool := mcp.Tool{
		Name:        "create_collection",
		Description: "Create a new collection for grouping sources. Name is required and must not be blank. Returns the created collection with its unique ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Collection name. Example: 'Tech News'",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional description of the collection's theme",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Optional display color. Example: '#3B82F6'",
				},
			},
			Required: []string{"name"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleCreateCollection)
}

func (s *Server) registerRemoveCollectionTool() {
	tool := mcp.Tool{
		Name:        "remove_collection",
		Description: "Remove a collection and everything under it: all its sources and all their articles. This action cannot be undone. Returns the IDs of every removed descendant.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection_id": map[string]interface{}{
					"type":        "string",
					"description": "The collection ID to remove",
				},
			},
			Required: []string{"collection_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRemoveCollection)
}

func (s *Server) registerCreateSourceTool() {
	tool := mcp.Tool{
		Name:        "create_source",
		Description: "Add a content source to a collection. Kind defaults to 'feed'; other kinds are 'blog', 'news', 'video-channel', 'newsletter', 'social'. Only feed, blog, and news kinds are fetched by refresh. Returns the created source.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection_id": map[string]interface{}{
					"type":        "string",
					"description": "The collection this source belongs to",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the source. Example: 'Hacker News'",
				},
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The source URL (feed URL for fetchable kinds). Example: 'https://news.ycombinator.com/rss'",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Source kind: feed, blog, news, video-channel, newsletter, or social. Default: feed",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional free-form category label",
				},
			},
			Required: []string{"collection_id", "name", "url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleCreateSource)
}

func (s *Server) registerRemoveSourceTool() {
	tool := mcp.Tool{
		Name:        "remove_source",
		Description: "Remove a source and all its articles. This action cannot be undone. Returns the IDs of every removed article.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "The source ID to remove",
				},
			},
			Required: []string{"source_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRemoveSource)
}

func (s *Server) registerListArticlesTool() {
	tool := mcp.Tool{
		Name:        "list_articles",
		Description: "Retrieve articles with optional scoping and filtering. Scope by collection_id or source_id; search with query (case-insensitive substring over title, description, and summary); filter by 'all', 'unread', or 'starred'; sort by 'newest' (default) or 'oldest'. All parameters are optional and can be combined.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional collection ID to scope articles to one collection",
				},
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional source ID to scope articles to one source. Takes precedence over collection_id",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Optional search text. Example: 'rust'",
				},
				"filter": map[string]interface{}{
					"type":        "string",
					"description": "Optional status filter: all, unread, or starred. Default: all",
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Optional sort order: newest or oldest. Default: newest",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of articles to return. If omitted, returns all matching articles",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListArticles)
}

func (s *Server) registerToggleReadTool() {
	tool := mcp.Tool{
		Name:        "toggle_read",
		Description: "Flip an article's read flag. Unread becomes read and vice versa. Returns the article's resulting state, which reflects what was actually persisted.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"article_id": map[string]interface{}{
					"type":        "string",
					"description": "The article ID to toggle",
				},
			},
			Required: []string{"article_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleToggleRead)
}

func (s *Server) registerToggleStarTool() {
	tool := mcp.Tool{
		Name:        "toggle_star",
		Description: "Flip an article's starred flag. Returns the article's resulting state, which reflects what was actually persisted.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"article_id": map[string]interface{}{
					"type":        "string",
					"description": "The article ID to toggle",
				},
			},
			Required: []string{"article_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleToggleStar)
}

func (s *Server) registerRefreshTool() {
	tool := mcp.Tool{
		Name:        "refresh",
		Description: "Fetch new articles from sources. If source_id is provided, refreshes only that source; otherwise refreshes all active fetchable sources. Returns per-source results with new article counts. A failing source never aborts the others.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional source ID to refresh only that source",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRefresh)
}

// Tool handlers

func (s *Server) collectionOutput(c *models.Collection) CollectionOutput {
	agg := s.engine.Stats()
	st := agg.ArticleStats(stats.InCollection(c.ID))
	return CollectionOutput{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		SourceCount: agg.SourceCount(c.ID),
		Unread:      st.Unread,
		Total:       st.Total,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *Server) sourceOutput(src *models.Source) SourceOutput {
	st := s.engine.Stats().ArticleStats(stats.InSource(src.ID))
	return SourceOutput{
		ID:           src.ID,
		CollectionID: src.CollectionID,
		Name:         src.Name,
		URL:          src.URL,
		Kind:         string(src.Kind),
		Category:     src.Category,
		Active:       src.Active,
		Unread:       st.Unread,
		Total:        st.Total,
		CreatedAt:    src.CreatedAt,
	}
}

func articleOutput(a *models.Article) ArticleOutput {
	return ArticleOutput{
		ID:          a.ID,
		SourceID:    a.SourceID,
		Title:       a.Title,
		URL:         a.URL,
		Description: a.Description,
		AISummary:   a.AISummary,
		PublishedAt: a.PublishedAt,
		Read:        a.Read,
		ReadAt:      a.ReadAt,
		Starred:     a.Starred,
		StarredAt:   a.StarredAt,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListCollections(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collections := s.engine.Store().Collections()
	outputs := make([]CollectionOutput, 0, len(collections))
	for _, c := range collections {
		outputs = append(outputs, s.collectionOutput(c))
	}
	return jsonResult(ListCollectionsOutput{Collections: outputs, Count: len(outputs)})
}

func (s *Server) handleCreateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CreateCollectionInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	color := ""
	if input.Color != nil {
		color = *input.Color
	}

	c, err := s.engine.CreateCollection(ctx, input.Name, description, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return jsonResult(s.collectionOutput(c))
}

func (s *Server) handleRemoveCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RemoveCollectionInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	removed, err := s.engine.RemoveCollection(ctx, input.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove collection: %w", err)
	}
	if removed == nil {
		removed = []string{}
	}
	return jsonResult(RemoveOutput{
		Success: true,
		Message: fmt.Sprintf("Collection removed along with %d descendants", len(removed)),
		Removed: removed,
	})
}

func (s *Server) handleCreateSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CreateSourceInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("source URL must use http or https scheme, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("source URL must have a host")
	}

	kind := models.KindFeed
	if input.Kind != nil && *input.Kind != "" {
		kind = models.SourceKind(*input.Kind)
	}
	category := ""
	if input.Category != nil {
		category = *input.Category
	}

	src, err := s.engine.CreateSource(ctx, input.CollectionID, input.Name, input.URL, kind, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return jsonResult(s.sourceOutput(src))
}

func (s *Server) handleRemoveSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RemoveSourceInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	removed, err := s.engine.RemoveSource(ctx, input.SourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove source: %w", err)
	}
	if removed == nil {
		removed = []string{}
	}
	return jsonResult(RemoveOutput{
		Success: true,
		Message: fmt.Sprintf("Source removed along with %d articles", len(removed)),
		Removed: removed,
	})
}

func (s *Server) handleListArticles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Limit != nil && *input.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got: %d", *input.Limit)
	}

	scope := stats.All()
	filters := map[string]any{}
	switch {
	case input.SourceID != nil:
		if _, err := s.engine.Store().Source(*input.SourceID); err != nil {
			return nil, fmt.Errorf("source not found: %s", *input.SourceID)
		}
		scope = stats.InSource(*input.SourceID)
		filters["source_id"] = *input.SourceID
	case input.CollectionID != nil:
		if _, err := s.engine.Store().Collection(*input.CollectionID); err != nil {
			return nil, fmt.Errorf("collection not found: %s", *input.CollectionID)
		}
		scope = stats.InCollection(*input.CollectionID)
		filters["collection_id"] = *input.CollectionID
	}

	q := query.Query{}
	if input.Query != nil {
		q.Text = *input.Query
		filters["query"] = *input.Query
	}
	if input.Filter != nil {
		f, ok := query.ParseFilter(*input.Filter)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q (want all, unread, or starred)", *input.Filter)
		}
		q.Filter = f
		filters["filter"] = *input.Filter
	}
	if input.Sort != nil {
		srt, ok := query.ParseSort(*input.Sort)
		if !ok {
			return nil, fmt.Errorf("unknown sort %q (want newest or oldest)", *input.Sort)
		}
		q.Sort = srt
		filters["sort"] = *input.Sort
	}

	articles := s.engine.QueryArticles(scope, q)
	if input.Limit != nil && len(articles) > *input.Limit {
		articles = articles[:*input.Limit]
		filters["limit"] = *input.Limit
	}

	outputs := make([]ArticleOutput, 0, len(articles))
	for _, a := range articles {
		outputs = append(outputs, articleOutput(a))
	}
	return jsonResult(ListArticlesOutput{Articles: outputs, Count: len(outputs), Filters: filters})
}

func (s *Server) handleToggleRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ToggleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	a, err := s.engine.ToggleRead(ctx, input.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle read: %w", err)
	}
	return jsonResult(articleOutput(a))
}

func (s *Server) handleToggleStar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ToggleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	a, err := s.engine.ToggleStar(ctx, input.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle star: %w", err)
	}
	return jsonResult(articleOutput(a))
}

func (s *Server) handleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ingestor == nil {
		return nil, fmt.Errorf("ingestion not configured")
	}
	var input RefreshInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	var results []RefreshResult
	if input.SourceID != nil {
		src, err := s.engine.Store().Source(*input.SourceID)
		if err != nil {
			return nil, fmt.Errorf("source not found: %s", *input.SourceID)
		}
		results = append(results, refreshResult(s.ingestor.RunSource(ctx, src)))
	} else {
		for _, res := range s.ingestor.Run(ctx) {
			results = append(results, refreshResult(res))
		}
	}

	output := RefreshOutput{Results: results, TotalSources: len(results)}
	for _, r := range results {
		output.TotalNew += r.NewArticles
		if r.Error != nil {
			output.TotalErrors++
		}
	}
	return jsonResult(output)
}

func refreshResult(res ingest.Result) RefreshResult {
	out := RefreshResult{
		SourceID:    res.Source.ID,
		SourceName:  res.Source.Name,
		NewArticles: res.NewArticles,
		Skipped:     res.Skipped,
	}
	if res.Err != nil {
		msg := res.Err.Error()
		out.Error = &msg
	}
	return out
}
