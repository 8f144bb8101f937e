package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/app"
	"github.com/yaklabco/folio/internal/configloader"
	"github.com/yaklabco/folio/internal/ui/pretty"
)

// readWrapMargin keeps rendered text clear of the terminal edge.
const readWrapMargin = 4

func newReadCommand() *cobra.Command {
	var drafts bool

	cmd := &cobra.Command{
		Use:   "read <slug>",
		Short: "Render a post in the terminal",
		Long: `Render one post's Markdown in the terminal, for proofreading
without a browser.`,
		Example: `  folio read hello-world          Show the post with slug hello-world
  folio read --color never intro  Plain output for piping`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, args[0], drafts)
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include draft posts")

	return cmd
}

func runRead(cmd *cobra.Command, slug string, drafts bool) error {
	ctx := commandContext(cmd)

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
	if err := a.Load(ctx); err != nil {
		return err
	}

	post, _, err := a.Store.PostBySlug(slug)
	if err != nil {
		return err
	}

	body, err := a.Source.Body(ctx, post.Entry)
	if err != nil {
		return fmt.Errorf("read %s: %w", slug, err)
	}

	color, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()

	style := glamour.WithStylePath("notty")
	if pretty.IsColorEnabled(color, out) {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(max(pretty.TerminalWidth(out)-readWrapMargin, readWrapMargin)),
	)
	if err != nil {
		return fmt.Errorf("create terminal renderer: %w", err)
	}

	rendered, err := renderer.RenderBytes(body)
	if err != nil {
		return fmt.Errorf("render %s: %w", slug, err)
	}

	if _, err := out.Write(rendered); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
