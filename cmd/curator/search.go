// ABOUTME: Search command for finding articles by text
// ABOUTME: Case-insensitive substring match over title, description, and summary

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>...",
	Short: "Search articles",
	Long:  "Search article titles, descriptions, and summaries with a case-insensitive substring match",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionRef, _ := cmd.Flags().GetString("collection")
		unreadOnly, _ := cmd.Flags().GetBool("unread")
		starredOnly, _ := cmd.Flags().GetBool("starred")

		scope := stats.All()
		if collectionRef != "" {
			c, err := findCollection(collectionRef)
			if err != nil {
				return err
			}
			scope = stats.InCollection(c.ID)
		}

		filter := query.FilterAll
		if unreadOnly {
			filter = query.FilterUnread
		}
		if starredOnly {
			filter = query.FilterStarred
		}

		articles := eng.QueryArticles(scope, query.Query{
			Text:   strings.Join(args, " "),
			Filter: filter,
		})

		printArticles(articles)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("collection", "c", "", "restrict search to one collection")
	searchCmd.Flags().BoolP("unread", "u", false, "only search unread articles")
	searchCmd.Flags().Bool("starred", false, "only search starred articles")

	searchCmd.MarkFlagsMutuallyExclusive("unread", "starred")
}
