// ABOUTME: Collection management commands: add, list, remove
// ABOUTME: Collections group sources; removing one cascades to its articles

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/stats"
)

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col", "c"},
	Short:   "Manage collections",
	Long:    "Add, list, and remove collections that group your sources",
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		colorTag, _ := cmd.Flags().GetString("color")

		c, err := eng.CreateCollection(cmd.Context(), args[0], description, colorTag)
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		fmt.Printf("Created collection %s (%s)\n", c.Name, shortID(c.ID))
		return nil
	},
}

var collectionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		collections := eng.Store().Collections()
		if len(collections) == 0 {
			fmt.Println("No collections. Create one with 'curator collection add <name>'")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()

		for _, c := range collections {
			st := eng.Stats().ArticleStats(stats.InCollection(c.ID))
			fmt.Printf("%s %s", faint(shortID(c.ID)), bold(c.Name))
			if c.Description != nil && *c.Description != "" {
				fmt.Printf(" — %s", *c.Description)
			}
			fmt.Printf("  %s\n", faint(fmt.Sprintf("%d sources, %d unread of %d",
				eng.Stats().SourceCount(c.ID), st.Unread, st.Total)))
		}
		return nil
	},
}

var collectionRemoveCmd = &cobra.Command{
	Use:     "remove <collection>",
	Aliases: []string{"rm"},
	Short:   "Remove a collection and everything under it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := findCollection(args[0])
		if err != nil {
			return err
		}

		removed, err := eng.RemoveCollection(cmd.Context(), c.ID)
		if err != nil {
			return fmt.Errorf("failed to remove collection: %w", err)
		}

		fmt.Printf("Removed collection %s and %d descendants\n", c.Name, len(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)

	collectionAddCmd.Flags().StringP("description", "d", "", "collection description")
	collectionAddCmd.Flags().String("color", "", "display color, e.g. '#3B82F6'")
}
