package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/folio/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies projects", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.Site.Projects = []config.Project{{Name: "folio", Tags: []string{"go"}}}
		original.Site.Contacts = []config.Contact{{Label: "Email", URL: "me@example.com"}}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Site.Projects[0].Tags[0] = "changed"
		clone.Site.Contacts[0].Label = "changed"
		assert.Equal(t, "go", original.Site.Projects[0].Tags[0])
		assert.Equal(t, "Email", original.Site.Contacts[0].Label)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Site.Title = "My Site"
		cfg.Server.ShutdownTimeout = 2 * time.Second

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "title: My Site")
		assert.Contains(t, string(data), "shutdown_timeout: 2s")

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, cfg, parsed)
	})

	t.Run("header is prepended", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAMLWithHeader("# hello")
		require.NoError(t, err)
		assert.Contains(t, string(data), "# hello\n\nsite:")
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("keeps defaults for absent keys", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
site:
  title: Notes
markdown:
  highlight: false
server:
  read_timeout: 3s
`))
		require.NoError(t, err)

		assert.Equal(t, "Notes", cfg.Site.Title)
		assert.Equal(t, config.DefaultLatestPosts, cfg.Site.LatestPosts)
		assert.False(t, cfg.Markdown.Highlight)
		assert.True(t, cfg.Markdown.HeadingLinks)
		assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, config.DefaultWriteTimeout, cfg.Server.WriteTimeout)
	})

	t.Run("empty and comment-only input", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "# nothing here\n"} {
			cfg, err := config.FromYAML([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, config.NewConfig(), cfg)
		}
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("site:\n  colour: red\n"))
		require.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("server:\n  read_timeout: soon\n"))
		require.Error(t, err)
	})
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	data, err := config.GenerateTemplate(config.TemplateOptions{Title: "Jo's Notes", Author: "Jo"})
	require.NoError(t, err)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, "Jo's Notes", cfg.Site.Title)
	assert.Equal(t, "Jo", cfg.Site.Author)
	assert.Contains(t, cfg.Site.About, "# About")
	assert.Equal(t, config.DefaultPostsDir, cfg.Posts.Source)
	assert.Equal(t, config.HTMLSanitize, cfg.Markdown.HTML)
	assert.Equal(t, config.DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestContactHref(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"me@example.com", "mailto:me@example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"https://github.com/me", "https://github.com/me"},
		{"/contact", "/contact"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, config.Contact{URL: tt.url}.Href())
		})
	}
}

func TestHTMLModeIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.HTMLSanitize.IsValid())
	assert.True(t, config.HTMLUnsafe.IsValid())
	assert.False(t, config.HTMLMode("strip").IsValid())
}
