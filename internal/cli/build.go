package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/app"
	"github.com/yaklabco/folio/internal/configloader"
	"github.com/yaklabco/folio/internal/export"
	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/internal/ui/pretty"
)

// ErrBuildFailed is returned when some files could not be exported.
// The failures have already been reported.
var ErrBuildFailed = errors.New("build failed")

// buildFlags holds the flags for the build command.
type buildFlags struct {
	out    string
	jobs   int
	drafts bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Long: `Render every page and asset into a directory that any static
file server can host. Files whose content did not change are left alone.`,
		Example: `  folio build                     Export to the configured directory
  folio build --out dist          Export to ./dist
  folio build --jobs 1            Render one page at a time`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output directory (default from config, public)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Concurrent page renders (0 = one per CPU)")
	cmd.Flags().BoolVar(&flags.drafts, "drafts", false, "Include draft posts")

	return cmd
}

func runBuild(cmd *cobra.Command, flags *buildFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	cfg, err := loadConfig(cmd, &configloader.Overrides{
		OutDir: changedString(cmd, "out", flags.out),
		Jobs:   changedInt(cmd, "jobs", flags.jobs),
		Drafts: changedBool(cmd, "drafts", flags.drafts),
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

	logger.Debug("exporting site",
		logging.FieldOutput, cfg.Build.OutDir,
		logging.FieldJobs, cfg.Build.Jobs,
		logging.FieldPosts, a.Store.Len(),
	)

	start := time.Now()
	result, err := export.Export(ctx, a.Router, export.Options{
		OutDir: cfg.Build.OutDir,
		Jobs:   cfg.Build.Jobs,
	})
	if result == nil {
		return err
	}

	color, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, out))

	duration := time.Since(start).Round(time.Millisecond).String()
	if _, werr := fmt.Fprint(out, styles.FormatBuildOneLine(result.Stats, duration)); werr != nil {
		return fmt.Errorf("write output: %w", werr)
	}

	if result.Stats.Failed > 0 {
		if _, werr := fmt.Fprint(out, styles.FormatBuildSummary(result, cfg.Build.OutDir)); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		return ErrBuildFailed
	}
	return err
}
