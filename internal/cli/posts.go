package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/app"
	"github.com/yaklabco/folio/internal/configloader"
	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/internal/ui/pretty"
)

func newPostsCommand() *cobra.Command {
	var drafts bool

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List blog posts",
		Long:  `List the posts in the configured source, newest first.`,
		Example: `  folio posts                     List published posts
  folio posts --drafts            Include drafts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPosts(cmd, drafts)
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include draft posts")

	return cmd
}

func runPosts(cmd *cobra.Command, drafts bool) error {
	cfg, err := loadConfig(cmd, &configloader.Overrides{
		Drafts: changedBool(cmd, "drafts", drafts),
	})
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	if err := a.Load(commandContext(cmd)); err != nil {
		return err
	}

	posts := a.Store.Posts()
	entries := make([]source.Entry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, p.Entry)
	}

	color, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()
	table := pretty.NewTableFormatter(
		pretty.NewStyles(pretty.IsColorEnabled(color, out)),
		pretty.TerminalWidth(out),
	)

	if _, err := fmt.Fprint(out, table.FormatPosts(entries)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
