package app_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/folio/internal/app"
	"github.com/yaklabco/folio/internal/site"
	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/pkg/config"
	"github.com/yaklabco/folio/pkg/render"
)

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig().Markdown
	cfg.HardWraps = true
	cfg.HeadingLinks = false
	cfg.HTML = config.HTMLEscape
	cfg.HighlightStyle = "monokai"

	opts := app.RenderOptions(cfg, "https://jo.example.com/")

	assert.True(t, opts.HardWraps)
	assert.False(t, opts.HeadingLinks)
	assert.True(t, opts.Highlight)
	assert.Equal(t, "monokai", opts.HighlightStyle)
	assert.Equal(t, render.HTMLEscape, opts.HTML)
	assert.Equal(t, "jo.example.com", opts.SiteHost)
	assert.Equal(t, render.DefaultTheme(), opts.Theme)
	assert.Contains(t, opts.ReservedIDs, site.MainID)
}

func TestRenderOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts := app.RenderOptions(config.MarkdownConfig{}, "")

	assert.Equal(t, render.HTMLSanitize, opts.HTML)
	assert.Equal(t, render.DefaultOptions().HighlightStyle, opts.HighlightStyle)
	assert.Empty(t, opts.SiteHost)
}

func TestNewWithSource(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"hello.md": {Data: []byte("---\ntitle: Hello\ndate: 2024-01-02\n---\n# Hello\n\nWorld.\n")},
	}
	src := source.New(source.NewFSFetcher(fsys), source.Options{})

	cfg := config.NewConfig()
	cfg.Site.Title = "Test"

	a, err := app.NewWithSource(cfg, src)
	require.NoError(t, err)
	require.NoError(t, a.Load(context.Background()))

	assert.Equal(t, 1, a.Store.Len())
	assert.Same(t, a.Site, a.Router.Site())

	var buf bytes.Buffer
	status, err := a.Router.Render(context.Background(), &buf, site.Request{
		Route:  site.RouteArticle,
		Path:   "/blog/hello",
		Params: map[string]string{"slug": "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, buf.String(), "<title>Hello · Test</title>")
}

func TestArticle_HeadingDoesNotShadowMainID(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"toc.md": {Data: []byte("---\ntitle: Contents\ndate: 2024-01-02\n---\n## Content\n\nBody.\n")},
	}
	src := source.New(source.NewFSFetcher(fsys), source.Options{})

	a, err := app.NewWithSource(config.NewConfig(), src)
	require.NoError(t, err)
	require.NoError(t, a.Load(context.Background()))

	var buf bytes.Buffer
	_, err = a.Router.Render(context.Background(), &buf, site.Request{
		Route:  site.RouteArticle,
		Path:   "/blog/toc",
		Params: map[string]string{"slug": "toc"},
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Equal(t, 1, strings.Count(page, `id="`+site.MainID+`"`))
	assert.Contains(t, page, `id="`+site.MainID+`-1"`)
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Posts.Source = t.TempDir() + "/missing"

	_, err := app.New(cfg)
	require.Error(t, err)
}

func TestLoad_Error(t *testing.T) {
	t.Parallel()

	src := source.New(source.NewFSFetcher(fstest.MapFS{}), source.Options{Manifest: "posts.yaml"})

	a, err := app.NewWithSource(config.NewConfig(), src)
	require.NoError(t, err)
	require.ErrorIs(t, a.Load(context.Background()), source.ErrNotFound)
}
