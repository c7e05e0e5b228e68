// ABOUTME: Serve command starting the HTTP JSON API
// ABOUTME: Exposes the hydrated session over the configured listen address

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curateapp/curator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the HTTP JSON API over the hydrated session. Blocks until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.GetListenAddr()
		}

		srv := server.New(eng, ingestor)
		if err := srv.Start(addr); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: from config, :8484)")
}
