// ABOUTME: List command for viewing articles with filtering options
// ABOUTME: Displays articles with read status, title, and age using color formatting

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/config"
	"github.com/curateapp/curator/internal/models"
	"github.com/curateapp/curator/internal/query"
	"github.com/curateapp/curator/internal/stats"
	"github.com/curateapp/curator/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List articles",
	Long:    "List articles with optional filtering by collection, source, and status",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		starred, _ := cmd.Flags().GetBool("starred")
		collectionRef, _ := cmd.Flags().GetString("collection")
		sourceRef, _ := cmd.Flags().GetString("source")
		sortStr, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		today, _ := cmd.Flags().GetBool("today")
		week, _ := cmd.Flags().GetBool("week")

		scope := stats.All()
		if sourceRef != "" {
			src, err := findSource(sourceRef)
			if err != nil {
				return err
			}
			scope = stats.InSource(src.ID)
		} else if collectionRef != "" {
			c, err := findCollection(collectionRef)
			if err != nil {
				return err
			}
			scope = stats.InCollection(c.ID)
		}

		filter := query.FilterUnread
		if all {
			filter = query.FilterAll
		}
		if starred {
			filter = query.FilterStarred
		}

		sort, ok := query.ParseSort(sortStr)
		if !ok {
			return fmt.Errorf("unknown sort %q (want newest or oldest)", sortStr)
		}

		articles := eng.QueryArticles(scope, query.Query{Filter: filter, Sort: sort})

		if today {
			articles = publishedSince(articles, timeutil.StartOfToday())
		} else if week {
			articles = publishedSince(articles, timeutil.StartOfWeek())
		}

		if limit > 0 && len(articles) > limit {
			articles = articles[:limit]
		}

		printArticles(articles)
		return nil
	},
}

// publishedSince keeps articles published at or after the cutoff. Articles
// with no publish time are excluded from date-bounded views.
func publishedSince(articles []*models.Article, cutoff time.Time) []*models.Article {
	var kept []*models.Article
	for _, a := range articles {
		if a.PublishedAt != nil && !a.PublishedAt.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	return kept
}

// printArticles renders one line per article, shared with the search command.
func printArticles(articles []*models.Article) {
	if len(articles) == 0 {
		fmt.Println("No articles found")
		return
	}

	faint := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	now := time.Now()

	for _, a := range articles {
		fmt.Print(faint(shortID(a.ID)))
		fmt.Print(" ")

		if a.Read {
			fmt.Print("✓ ")
		} else {
			fmt.Print("  ")
		}
		if a.Starred {
			fmt.Print(yellow("★ "))
		} else {
			fmt.Print("  ")
		}

		fmt.Print(a.Title)

		if a.PublishedAt != nil {
			fmt.Printf(" %s", faint(timeutil.RelativeAge(*a.PublishedAt, now)))
		}

		fmt.Println()
	}
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("all", "a", false, "show all articles including read")
	listCmd.Flags().Bool("starred", false, "show only starred articles")
	listCmd.Flags().StringP("collection", "c", "", "filter by collection name or ID")
	listCmd.Flags().StringP("source", "s", "", "filter by source name, URL, or ID")
	listCmd.Flags().String("sort", "newest", "sort order: newest or oldest")
	listCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max articles to show")
	listCmd.Flags().Bool("today", false, "show only today's articles")
	listCmd.Flags().Bool("week", false, "show only this week's articles")

	listCmd.MarkFlagsMutuallyExclusive("all", "starred")
	listCmd.MarkFlagsMutuallyExclusive("today", "week")
	listCmd.MarkFlagsMutuallyExclusive("collection", "source")
}
