// Package cli provides the Cobra command structure for folio.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root folio command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "A personal site and blog served from Markdown",
		Long: `folio serves a personal website with a landing page, a blog,
a portfolio, an about page and a contact page.

Blog posts are Markdown files with front matter, read from a local
directory or fetched from an HTTP origin. Pages can be served live with
hot reload, or exported as a static site.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newPostsCommand())
	rootCmd.AddCommand(newReadCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
