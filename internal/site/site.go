// Package site builds folio's pages: the chrome around every page, the
// static pages described by the configuration, and the blog pages backed by
// the post store.
package site

import (
	"context"
	"time"

	"github.com/yaklabco/folio/internal/store"
	"github.com/yaklabco/folio/pkg/config"
	"github.com/yaklabco/folio/pkg/render"
	"github.com/yaklabco/folio/pkg/view"
)

// Route names. The layout marks the nav link of the current route active.
const (
	RouteHome      = "home"
	RouteBlog      = "blog"
	RouteArticle   = "article"
	RoutePortfolio = "portfolio"
	RouteAbout     = "about"
	RouteContact   = "contact"
	RouteNotFound  = "not-found"
)

// Request is what a page sees of an HTTP request.
type Request struct {
	// Route is the matched route name.
	Route string

	// Path is the request path.
	Path string

	// Params holds named path parameters such as "slug".
	Params map[string]string
}

// Param returns the named path parameter.
func (r Request) Param(name string) string {
	return r.Params[name]
}

// Response is a rendered page before the layout is applied.
type Response struct {
	// Title is the page title; the layout appends the site title.
	Title string

	// Body is the content of <main>.
	Body *view.Node

	// Status is the HTTP status; zero means 200.
	Status int
}

// Page renders one kind of page.
type Page interface {
	Render(ctx context.Context, req Request) (Response, error)
}

// PageFunc adapts a function to Page.
type PageFunc func(ctx context.Context, req Request) (Response, error)

// Render calls f.
func (f PageFunc) Render(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Site holds what the pages are built from.
type Site struct {
	cfg      config.SiteConfig
	store    *store.Store
	parser   store.Parser
	renderer *render.Renderer
	now      func() time.Time
}

// Option configures a Site.
type Option func(*Site)

// WithClock sets the clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		s.now = now
	}
}

// New creates a site. Static Markdown such as the intro and about text is
// parsed with parser and rendered with renderer, like posts.
func New(cfg config.SiteConfig, st *store.Store, parser store.Parser, renderer *render.Renderer, opts ...Option) *Site {
	s := &Site{
		cfg:      cfg,
		store:    st,
		parser:   parser,
		renderer: renderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the site configuration.
func (s *Site) Config() config.SiteConfig {
	return s.cfg
}

// Store returns the post store behind the blog pages.
func (s *Site) Store() *store.Store {
	return s.store
}

// markdown renders a snippet of configured Markdown without the article
// wrapper. Empty input renders nothing.
func (s *Site) markdown(ctx context.Context, name, text string) (*view.Node, error) {
	if text == "" {
		return nil, nil
	}
	doc, err := s.parser.Parse(ctx, name, []byte(text))
	if err != nil {
		return nil, err
	}
	return s.renderer.Fragment(doc), nil
}
