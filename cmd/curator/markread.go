// ABOUTME: Mark-read and mark-unread commands for article triage
// ABOUTME: Each flips the read flag through the engine's optimistic mutation path

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var markReadCmd = &cobra.Command{
	Use:   "mark-read <article-id>",
	Short: "Mark an article as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		if a.Read {
			fmt.Println("Article is already marked as read")
			return nil
		}

		updated, err := eng.ToggleRead(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to mark article as read: %w", err)
		}

		fmt.Printf("Marked as read: %s\n", updated.Title)
		return nil
	},
}

var markUnreadCmd = &cobra.Command{
	Use:   "mark-unread <article-id>",
	Short: "Mark an article as unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		if !a.Read {
			fmt.Println("Article is already unread")
			return nil
		}

		updated, err := eng.ToggleRead(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to mark article as unread: %w", err)
		}

		fmt.Printf("Marked as unread: %s\n", updated.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markReadCmd)
	rootCmd.AddCommand(markUnreadCmd)
}
