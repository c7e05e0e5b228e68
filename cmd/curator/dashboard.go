// ABOUTME: Dashboard command summarizing the whole curation snapshot
// ABOUTME: Shows entity counts plus per-collection unread breakdowns

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/stats"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show curation summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		d := eng.Stats().Dashboard()
		st := eng.Stats().ArticleStats(stats.All())

		fmt.Printf("%s\n", bold("Curation summary"))
		fmt.Printf("  Collections: %d\n", d.CollectionCount)
		fmt.Printf("  Sources:     %d %s\n", d.SourceCount, faint(fmt.Sprintf("(%d active)", d.ActiveSourceCount)))
		fmt.Printf("  Articles:    %d %s\n", d.ArticleCount,
			faint(fmt.Sprintf("(%d unread, %d starred)", st.Unread, st.Starred)))

		collections := eng.Store().Collections()
		if len(collections) > 0 {
			fmt.Printf("\n%s\n", bold("By collection"))
			for _, c := range collections {
				cst := eng.Stats().ArticleStats(stats.InCollection(c.ID))
				fmt.Printf("  %-24s %d unread of %d\n", c.Name, cst.Unread, cst.Total)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
