// ABOUTME: Star and unstar commands for flagging articles to keep
// ABOUTME: Each flips the starred flag through the engine's optimistic mutation path

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var starCmd = &cobra.Command{
	Use:   "star <article-id>",
	Short: "Star an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		if a.Starred {
			fmt.Println("Article is already starred")
			return nil
		}

		updated, err := eng.ToggleStar(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to star article: %w", err)
		}

		fmt.Printf("Starred: %s\n", updated.Title)
		return nil
	},
}

var unstarCmd = &cobra.Command{
	Use:   "unstar <article-id>",
	Short: "Remove an article's star",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		if !a.Starred {
			fmt.Println("Article is not starred")
			return nil
		}

		updated, err := eng.ToggleStar(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to unstar article: %w", err)
		}

		fmt.Printf("Unstarred: %s\n", updated.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(unstarCmd)
}
