// ABOUTME: MCP resource providers for curator
// ABOUTME: Exposes read-only views of collections, articles, and statistics

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	ResourceURI string         `json:"resource_uri"`
	Filters     map[string]any `json:"filters,omitempty"`
}

func (s *Server) registerResources() {
	s.registerCollectionsResource()
	s.registerUnreadArticlesResource()
	s.registerStarredArticlesResource()
	s.registerStatsResource()
}

func resourceLinks(current string) map[string]string {
	links := map[string]string{
		"collections":      "curator://collections",
		"unread_articles":  "curator://articles/unread",
		"starred_articles": "curator://articles/starred",
		"stats":            "curator://stats",
	}
	for name, uri := range links {
		if uri == current {
			delete(links, name)
		}
	}
	return links
}

func resourceContents(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) registerCollectionsResource() {
	const uri = "curator://collections"
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         uri,
			Name:        "All Collections",
			Description: "List all collections with source counts and unread article statistics",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			collections := s.engine.Store().Collections()
			outputs := make([]CollectionOutput, 0, len(collections))
			for _, c := range collections {
				outputs = append(outputs, s.collectionOutput(c))
			}
			return resourceContents(uri, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(outputs),
					ResourceURI: uri,
				},
				Data:  outputs,
				Links: resourceLinks(uri),
			})
		},
	)
}

func (s *Server) articlesResource(uri, name, description string, filter query.Filter) {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         uri,
			Name:        name,
			Description: description,
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			articles := s.engine.QueryArticles(stats.All(), query.Query{Filter: filter})
			outputs := make([]ArticleOutput, 0, len(articles))
			for _, a := range articles {
				outputs = append(outputs, articleOutput(a))
			}
			return resourceContents(uri, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(outputs),
					ResourceURI: uri,
					Filters:     map[string]any{"filter": string(filter)},
				},
				Data:  outputs,
				Links: resourceLinks(uri),
			})
		},
	)
}

func (s *Server) registerUnreadArticlesResource() {
	s.articlesResource(
		"curator://articles/unread",
		"Unread Articles",
		"All unread articles across every collection, newest first",
		query.FilterUnread,
	)
}

func (s *Server) registerStarredArticlesResource() {
	s.articlesResource(
		"curator://articles/starred",
		"Starred Articles",
		"All starred articles across every collection, newest first",
		query.FilterStarred,
	)
}

func (s *Server) registerStatsResource() {
	const uri = "curator://stats"
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         uri,
			Name:        "Curation Statistics",
			Description: "Aggregate counts: collections, sources, active sources, and article totals by status",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			d := s.engine.Stats().Dashboard()
			st := s.engine.Stats().ArticleStats(stats.All())
			data := map[string]any{
				"collections":    d.CollectionCount,
				"sources":        d.SourceCount,
				"active_sources": d.ActiveSourceCount,
				"articles":       d.ArticleCount,
				"unread":         st.Unread,
				"starred":        st.Starred,
			}
			return resourceContents(uri, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       1,
					ResourceURI: uri,
				},
				Data:  data,
				Links: resourceLinks(uri),
			})
		},
	)
}
