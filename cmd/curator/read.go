// ABOUTME: Read command for viewing article content
// ABOUTME: Displays full article details with markdown rendering and marks it read

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/config"
	"github.com/curateapp/curator/internal/content"
)

var readCmd = &cobra.Command{
	Use:   "read <article-id>",
	Short: "Read an article",
	Long:  "Display the full content of an article and mark it as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noMark, _ := cmd.Flags().GetBool("no-mark")

		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		src, err := eng.Store().Source(a.SourceID)
		if err != nil {
			return fmt.Errorf("failed to get source: %w", err)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println(strings.Repeat("─", config.SeparatorWidth))
		fmt.Printf("%s\n\n", bold(a.Title))
		fmt.Printf("%s %s\n", faint("Source:"), src.Name)
		if a.PublishedAt != nil {
			fmt.Printf("%s %s\n", faint("Published:"), a.PublishedAt.Format(config.DateFormatShort))
		}
		if a.URL != "" {
			fmt.Printf("%s %s\n", faint("Link:"), cyan(a.URL))
		}
		fmt.Println(strings.Repeat("─", config.SeparatorWidth))

		body := ""
		if a.Description != nil && *a.Description != "" {
			body = content.ToMarkdown(*a.Description)
		}
		if a.AISummary != nil && *a.AISummary != "" {
			body = fmt.Sprintf("**Summary:** %s\n\n%s", *a.AISummary, body)
		}

		if body != "" {
			rendered, err := glamour.Render(body, "dark")
			if err != nil {
				fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
				fmt.Printf("\n%s\n", body)
			} else {
				fmt.Print(rendered)
			}
		} else {
			fmt.Println("\n(No content available)")
		}

		fmt.Println()

		if !noMark && !a.Read {
			if _, err := eng.ToggleRead(cmd.Context(), a.ID); err != nil {
				return fmt.Errorf("failed to mark article as read: %w", err)
			}
			fmt.Printf("%s\n", faint("Marked as read"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().Bool("no-mark", false, "don't mark the article as read")
}
