// ABOUTME: Open command for launching article links in the browser
// ABOUTME: Opens the article's link and marks the article as read

package main

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <article-id>",
	Short: "Open article link in browser and mark as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findArticle(args[0])
		if err != nil {
			return err
		}

		if a.URL == "" {
			return fmt.Errorf("article has no link")
		}

		parsedURL, err := url.Parse(a.URL)
		if err != nil {
			return fmt.Errorf("article has malformed link: %w", err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("article link must be http or https, got: %s", parsedURL.Scheme)
		}

		if err := openBrowser(parsedURL.String()); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}

		if !a.Read {
			if _, err := eng.ToggleRead(cmd.Context(), a.ID); err != nil {
				return fmt.Errorf("failed to mark article as read: %w", err)
			}
		}

		fmt.Printf("Opened and marked as read: %s\n", a.Title)
		return nil
	},
}

// openBrowser opens a URL in the default browser for the current platform
func openBrowser(urlStr string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", urlStr)
	case "linux":
		cmd = exec.Command("xdg-open", urlStr)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", urlStr)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	// Reap the process asynchronously to prevent zombie processes
	go cmd.Wait()

	return nil
}

func init() {
	rootCmd.AddCommand(openCmd)
}
