// ABOUTME: Import and export commands for OPML subscription lists
// ABOUTME: Folders map to collections; outline types map to source kinds

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/opml"
)

var importCmd = &cobra.Command{
	Use:   "import <file.opml>",
	Short: "Import sources from an OPML file",
	Long:  "Import subscriptions from OPML. Folders become collections; existing collections are matched by name and duplicate URLs are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := opml.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse OPML: %w", err)
		}

		byName := make(map[string]string)
		for _, c := range eng.Store().Collections() {
			byName[c.Name] = c.ID
		}
		existingURLs := make(map[string]bool)
		for _, src := range eng.Store().Sources() {
			existingURLs[src.URL] = true
		}

		imported := 0
		skipped := 0
		for _, sub := range doc.Subscriptions {
			if existingURLs[sub.URL] {
				skipped++
				continue
			}
			name := sub.Collection
			if name == "" {
				name = "Imported"
			}
			collectionID, ok := byName[name]
			if !ok {
				c, err := eng.CreateCollection(cmd.Context(), name, "", "")
				if err != nil {
					return fmt.Errorf("failed to create collection %q: %w", name, err)
				}
				collectionID = c.ID
				byName[name] = c.ID
			}
			if _, err := eng.CreateSource(cmd.Context(), collectionID, sub.Title, sub.URL, sub.Kind, sub.Category); err != nil {
				return fmt.Errorf("failed to import %s: %w", sub.URL, err)
			}
			existingURLs[sub.URL] = true
			imported++
		}

		fmt.Printf("Imported %d sources", imported)
		if skipped > 0 {
			fmt.Printf(" (%d already present)", skipped)
		}
		fmt.Println()
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sources as OPML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := opml.Export("curator subscriptions", eng.Store().Collections(), eng.Store().Sources())
		return doc.Write(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
