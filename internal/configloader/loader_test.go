package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/folio/pkg/config"
)

// isolated returns options that read only files under dir.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), `
site:
  title: Field Notes
markdown:
  flavor: commonmark
  highlight: false
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", result.Config.Site.Title)
	assert.Equal(t, config.FlavorCommonMark, result.Config.Markdown.Flavor)
	assert.False(t, result.Config.Markdown.Highlight)
	assert.True(t, result.Config.Markdown.HeadingLinks)
	assert.Equal(t, []string{filepath.Join(tmpDir, ".folio.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigFoundUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, "folio.yaml"), "site:\n  title: Upward\n")

	nested := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)
	assert.Equal(t, "Upward", result.Config.Site.Title)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".folio.yml"), "site:\n  title: Outer\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitConfigWins(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), "site:\n  title: Project\n  author: Ada\n")
	explicit := filepath.Join(tmpDir, "alt", "site.yaml")
	writeFile(t, explicit, "site:\n  title: Explicit\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "Explicit", result.Config.Site.Title)
	assert.Equal(t, "Ada", result.Config.Site.Author)
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, explicit, result.Paths.Explicit)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "nope.yml")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), "server:\n  addr: \":9000\"\n  watch: true\nbuild:\n  jobs: 2\n")

	addr := ":7000"
	watch := false
	jobs := 8

	opts := isolated(tmpDir)
	opts.Overrides = &Overrides{Addr: &addr, Watch: &watch, Jobs: &jobs}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, ":7000", result.Config.Server.Addr)
	assert.False(t, result.Config.Server.Watch)
	assert.Equal(t, 8, result.Config.Build.Jobs)
}

func TestLoad_Environment(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), "server:\n  addr: \":9000\"\n")

	t.Setenv("FOLIO_SERVER_ADDR", ":9100")
	t.Setenv("FOLIO_POSTS_DRAFTS", "true")
	t.Setenv("FOLIO_SERVER_SHUTDOWN_TIMEOUT", "1s")

	opts := isolated(tmpDir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, ":9100", result.Config.Server.Addr)
	assert.True(t, result.Config.Posts.Drafts)
	assert.Equal(t, time.Second, result.Config.Server.ShutdownTimeout)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bool", "FOLIO_SERVER_WATCH", "sometimes"},
		{"int", "FOLIO_BUILD_JOBS", "many"},
		{"duration", "FOLIO_POSTS_FETCH_TIMEOUT", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := LoadFromEnv(config.NewConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"flavor", "markdown:\n  flavor: wiki\n", "markdown.flavor"},
		{"html mode", "markdown:\n  html: strip\n", "markdown.html"},
		{"addr", "server:\n  addr: localhost\n", "server.addr"},
		{"jobs", "build:\n  jobs: -1\n", "build.jobs"},
		{"source", "posts:\n  source: \"\"\n", "posts.source"},
		{"log level", "log_level: loud\n", "log_level"},
		{"timeout", "server:\n  read_timeout: 0s\n", "server.read_timeout"},
		{"base url", "site:\n  base_url: example.com\n", "site.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, ".folio.yml"), tt.yaml)

			_, err := Load(context.Background(), isolated(tmpDir))
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), "site: [unclosed\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".folio.yml"), "markdown:\n  html: unsafe\n  highlight_style: no-such-style\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "FOLIO_SERVER_ADDR")
	assert.Equal(t, "FOLIO_BUILD_JOBS", GetEnvVarName("build.jobs"))
	assert.Empty(t, GetEnvVarName("nope"))
}
