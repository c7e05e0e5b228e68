// ABOUTME: Fetch command to pull new articles from sources
// ABOUTME: Runs the ingestion pipeline for all sources or a single one

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/ingest"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch [source]",
	Aliases: []string{"refresh"},
	Short:   "Fetch new articles from sources",
	Long: `Fetch new articles from all active sources or a specific source.

Only fetchable source kinds (feed, blog, news) are pulled; others are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		var results []ingest.Result
		if len(args) == 1 {
			src, err := findSource(args[0])
			if err != nil {
				return err
			}
			results = append(results, ingestor.RunSource(cmd.Context(), src))
		} else {
			results = ingestor.Run(cmd.Context())
		}

		if len(results) == 0 {
			fmt.Println("No sources to fetch. Add one with 'curator source add <url>'")
			return nil
		}

		totalNew := 0
		totalErrors := 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				totalErrors++
				fmt.Printf("%s %s: %v\n", red("✗"), res.Source.Name, res.Err)
			case res.Skipped:
				fmt.Printf("%s %s %s\n", faint("-"), res.Source.Name, faint("(skipped)"))
			default:
				totalNew += res.NewArticles
				fmt.Printf("%s %s: %d new\n", green("✓"), res.Source.Name, res.NewArticles)
			}
		}

		fmt.Printf("\n%d new articles", totalNew)
		if totalErrors > 0 {
			fmt.Printf(", %d sources failed", totalErrors)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
