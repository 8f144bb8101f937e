package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/app"
	"github.com/yaklabco/folio/internal/configloader"
	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/internal/server"
)

// serveFlags holds the flags for the serve command.
type serveFlags struct {
	addr   string
	watch  bool
	drafts bool
}

func newServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `Serve the site over HTTP until interrupted.

With --watch, a local posts directory is watched and the post index is
rebuilt when files change, so edits show up on the next page load.`,
		Example: `  folio serve                     Serve on the configured address
  folio serve --addr :3000        Serve on port 3000
  folio serve --watch --drafts    Preview drafts while writing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Reload posts when files change")
	cmd.Flags().BoolVar(&flags.drafts, "drafts", false, "Include draft posts")

	return cmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, &configloader.Overrides{
		Addr:   changedString(cmd, "addr", flags.addr),
		Watch:  changedBool(cmd, "watch", flags.watch),
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

	logger := logging.Default()
	opts := []server.Option{server.WithLogger(logger)}

	if cfg.Server.Watch {
		dir := a.Source.Dir()
		if dir == "" {
			logger.Warn("watch needs a local posts directory; ignoring", logging.FieldSource, cfg.Posts.Source)
		} else {
			watcher, err := server.NewWatcher(dir, a.Store, server.DefaultDebounce)
			if err != nil {
				return fmt.Errorf("watch posts: %w", err)
			}
			opts = append(opts, server.WithWatcher(watcher))
		}
	}

	logger.Info("serving site",
		logging.FieldAddr, cfg.Server.Addr,
		logging.FieldPosts, a.Store.Len(),
		logging.FieldSource, cfg.Posts.Source,
	)

	return server.New(cfg.Server, a.Router.Handler(), opts...).Run(ctx)
}
