package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigFile is written by init when --output is not given.
const defaultConfigFile = ".folio.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
	title  string
	author string
	posts  string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new folio configuration file",
		Long: `Create a new .folio.yml configuration file in the current directory
with sensible defaults and a comment on every setting.`,
		Example: `  folio init                          Create .folio.yml
  folio init --title "Jo's Notes"     Set the site title
  folio init --posts content/posts    Read posts from another directory
  folio init --output site.yml        Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")
	cmd.Flags().StringVar(&flags.title, "title", "", "Site title")
	cmd.Flags().StringVar(&flags.author, "author", "", "Site author")
	cmd.Flags().StringVar(&flags.posts, "posts", "", "Posts directory or URL")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigFile
	}

	// Make path absolute
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Title:       flags.title,
		Author:      flags.author,
		PostsSource: flags.posts,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your site by editing the file")
	logger.Info("run 'folio serve --watch' to preview it")

	return nil
}
