// Package app assembles folio from its configuration: the post source,
// the parser and renderer, the store, the site pages and the router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yaklabco/folio/internal/assets"
	"github.com/yaklabco/folio/internal/router"
	"github.com/yaklabco/folio/internal/site"
	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/internal/store"
	"github.com/yaklabco/folio/pkg/config"
	"github.com/yaklabco/folio/pkg/parser/goldmark"
	"github.com/yaklabco/folio/pkg/render"
)

// App is a fully wired folio instance.
type App struct {
	Config *config.Config
	Source *source.Source
	Store  *store.Store
	Site   *site.Site
	Assets *assets.Assets
	Router *router.Router
}

// Option configures New.
type Option func(*options)

type options struct {
	client   *http.Client
	siteOpts []site.Option
}

// WithHTTPClient sets the client used for remote post sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithSiteOptions passes options through to site.New.
func WithSiteOptions(opts ...site.Option) Option {
	return func(o *options) {
		o.siteOpts = append(o.siteOpts, opts...)
	}
}

// New wires every component described by cfg. The store starts empty;
// call Load to build the post index.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{client: http.DefaultClient}
	for _, opt := range opts {
		opt(o)
	}

	src, err := source.FromConfig(cfg.Posts, o.client)
	if err != nil {
		return nil, err
	}
	return NewWithSource(cfg, src, opts...)
}

// NewWithSource wires cfg around an already constructed source.
func NewWithSource(cfg *config.Config, src *source.Source, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	parser := goldmark.New(string(cfg.Markdown.Flavor))
	renderer := render.New(RenderOptions(cfg.Markdown, cfg.Site.BaseURL))

	st := store.New(src, parser, renderer)
	s := site.New(cfg.Site, st, parser, renderer, o.siteOpts...)

	a, err := assets.New(cfg.Markdown.HighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	return &App{
		Config: cfg,
		Source: src,
		Store:  st,
		Site:   s,
		Assets: a,
		Router: router.New(s, a),
	}, nil
}

// Load builds the post index.
func (a *App) Load(ctx context.Context) error {
	if err := a.Store.Load(ctx); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	return nil
}

// RenderOptions maps Markdown configuration onto renderer options. The
// host of baseURL decides which links count as external.
func RenderOptions(cfg config.MarkdownConfig, baseURL string) render.Options {
	opts := render.DefaultOptions()
	opts.HardWraps = cfg.HardWraps
	opts.HeadingLinks = cfg.HeadingLinks
	opts.Highlight = cfg.Highlight
	if cfg.HighlightStyle != "" {
		opts.HighlightStyle = cfg.HighlightStyle
	}
	opts.DetectLanguage = cfg.DetectLanguage
	if cfg.HTML != "" {
		opts.HTML = render.HTMLMode(cfg.HTML)
	}

	if u, err := url.Parse(baseURL); err == nil {
		opts.SiteHost = u.Hostname()
	}
	opts.ReservedIDs = []string{site.MainID}
	return opts
}
