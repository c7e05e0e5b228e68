// ABOUTME: Source management commands: add, list, remove
// ABOUTME: Sources live inside a collection and feed the ingestion pipeline

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/stats"
)

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"src", "s"},
	Short:   "Manage sources",
	Long:    "Add, list, and remove content sources inside collections",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a source to a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionRef, _ := cmd.Flags().GetString("collection")
		name, _ := cmd.Flags().GetString("name")
		kindStr, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")

		if collectionRef == "" {
			return fmt.Errorf("--collection is required")
		}
		c, err := findCollection(collectionRef)
		if err != nil {
			return err
		}

		if name == "" {
			name = args[0]
		}
		kind := models.SourceKind(kindStr)

		src, err := eng.CreateSource(cmd.Context(), c.ID, name, args[0], kind, category)
		if err != nil {
			return fmt.Errorf("failed to create source: %w", err)
		}

		fmt.Printf("Added source %s (%s) to %s\n", src.Name, shortID(src.ID), c.Name)
		if !src.Kind.Fetchable() {
			fmt.Printf("Note: %s sources are not fetched by 'curator fetch'\n", src.Kind)
		}
		return nil
	},
}

var sourceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionRef, _ := cmd.Flags().GetString("collection")

		sources := eng.Store().Sources()
		if collectionRef != "" {
			c, err := findCollection(collectionRef)
			if err != nil {
				return err
			}
			sources = eng.Store().SourcesInCollection(c.ID)
		}

		if len(sources) == 0 {
			fmt.Println("No sources. Add one with 'curator source add <url> --collection <name>'")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()

		for _, src := range sources {
			st := eng.Stats().ArticleStats(stats.InSource(src.ID))
			status := " "
			if !src.Active {
				status = faint("(inactive)")
			}
			fmt.Printf("%s %-30s %s %s %s\n",
				faint(shortID(src.ID)),
				src.Name,
				faint(string(src.Kind)),
				faint(fmt.Sprintf("%d unread of %d", st.Unread, st.Total)),
				status)
		}
		return nil
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:     "remove <source>",
	Aliases: []string{"rm"},
	Short:   "Remove a source and its articles",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := findSource(args[0])
		if err != nil {
			return err
		}

		removed, err := eng.RemoveSource(cmd.Context(), src.ID)
		if err != nil {
			return fmt.Errorf("failed to remove source: %w", err)
		}

		fmt.Printf("Removed source %s and %d articles\n", src.Name, len(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)

	sourceAddCmd.Flags().StringP("collection", "c", "", "collection to add the source to (required)")
	sourceAddCmd.Flags().StringP("name", "n", "", "display name (default: the URL)")
	sourceAddCmd.Flags().StringP("kind", "k", "feed", "source kind: feed, blog, news, video-channel, newsletter, social")
	sourceAddCmd.Flags().String("category", "", "free-form category label")

	sourceListCmd.Flags().StringP("collection", "c", "", "only list sources in this collection")
}
