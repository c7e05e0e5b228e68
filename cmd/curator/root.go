// ABOUTME: Root Cobra command and global flags
// ABOUTME: Wires config, gateway, and engine, and hydrates the session snapshot

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/config"
	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/ingest"
	"github.com/curateapp/curator/internal/models"
)

var (
	backendFlag string
	dataDirFlag string
	userFlag    string

	cfg      *config.Config
	gw       engine.Gateway
	eng      *engine.Engine
	ingestor *ingest.Ingestor
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Curated reading across collections of sources",
	Long: `
 ██████╗██╗   ██╗██████╗  █████╗ ████████╗ ██████╗ ██████╗
██╔════╝██║   ██║██╔══██╗██╔══██╗╚══██╔══╝██╔═══██╗██╔══██╗
██║     ██║   ██║██████╔╝███████║   ██║   ██║   ██║██████╔╝
██║     ██║   ██║██╔══██╗██╔══██║   ██║   ██║   ██║██╔══██╗
╚██████╗╚██████╔╝██║  ██║██║  ██║   ██║   ╚██████╔╝██║  ██║
 ╚═════╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝

Organize sources into collections, pull their articles, and
triage them from the terminal, over HTTP, or through MCP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if userFlag != "" {
			cfg.UserID = userFlag
		}

		gw, err = cfg.OpenGateway()
		if err != nil {
			return fmt.Errorf("failed to open gateway: %w", err)
		}

		eng = engine.New(cfg.GetUserID(), gw)
		if err := eng.Hydrate(cmd.Context()); err != nil {
			return fmt.Errorf("failed to hydrate: %w", err)
		}
		ingestor = ingest.New(eng, gw)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closer, ok := gw.(interface{ Close() error }); ok && closer != nil {
			if err := closer.Close(); err != nil {
				return fmt.Errorf("failed to close gateway: %w", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "gateway backend: sqlite or charm (default: from config)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: ~/.local/share/curator)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "user ID to scope entities to (default: from config)")
}

// minPrefixLength guards prefix lookups against matching half the store.
const minPrefixLength = 6

// findArticle resolves an article by full ID or unique ID prefix.
func findArticle(ref string) (*models.Article, error) {
	if a, err := eng.Store().Article(ref); err == nil {
		return a, nil
	}
	if len(ref) < minPrefixLength {
		return nil, fmt.Errorf("article not found: %s (prefix must be at least %d characters)", ref, minPrefixLength)
	}
	var match *models.Article
	for _, a := range eng.Store().Articles() {
		if strings.HasPrefix(a.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous article prefix: %s", ref)
			}
			match = a
		}
	}
	if match == nil {
		return nil, fmt.Errorf("article not found: %s", ref)
	}
	return match, nil
}

// findCollection resolves a collection by full ID, unique ID prefix, or exact name.
func findCollection(ref string) (*models.Collection, error) {
	if c, err := eng.Store().Collection(ref); err == nil {
		return c, nil
	}
	var match *models.Collection
	for _, c := range eng.Store().Collections() {
		if c.Name == ref || (len(ref) >= minPrefixLength && strings.HasPrefix(c.ID, ref)) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous collection: %s", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("collection not found: %s", ref)
	}
	return match, nil
}

// findSource resolves a source by full ID, unique ID prefix, URL, or exact name.
func findSource(ref string) (*models.Source, error) {
	if src, err := eng.Store().Source(ref); err == nil {
		return src, nil
	}
	var match *models.Source
	for _, src := range eng.Store().Sources() {
		if src.URL == ref || src.Name == ref || (len(ref) >= minPrefixLength && strings.HasPrefix(src.ID, ref)) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous source: %s", ref)
			}
			match = src
		}
	}
	if match == nil {
		return nil, fmt.Errorf("source not found: %s", ref)
	}
	return match, nil
}

// shortID trims an ID for display.
func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}
