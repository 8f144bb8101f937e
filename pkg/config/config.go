// Package config defines core configuration types for folio.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import (
	"net/mail"
	"strings"
	"time"
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// HTMLMode controls how raw HTML in posts is emitted.
type HTMLMode string

const (
	HTMLSanitize HTMLMode = "sanitize"
	HTMLEscape   HTMLMode = "escape"
	HTMLUnsafe   HTMLMode = "unsafe"
)

// IsValid returns true if the mode is known.
func (m HTMLMode) IsValid() bool {
	switch m {
	case HTMLSanitize, HTMLEscape, HTMLUnsafe:
		return true
	default:
		return false
	}
}

// Project is a portfolio entry.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// Contact is a labelled link on the contact page and in the footer.
type Contact struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Href returns the link target. Bare email addresses get a mailto: scheme.
func (c Contact) Href() string {
	if strings.Contains(c.URL, ":") {
		return c.URL
	}
	if addr, err := mail.ParseAddress(c.URL); err == nil {
		return "mailto:" + addr.Address
	}
	return c.URL
}

// SiteConfig holds the site identity and static page content.
type SiteConfig struct {
	// Title is the site name shown in the header and page titles.
	Title string `yaml:"title"`

	// Tagline is shown on the landing page under the title.
	Tagline string `yaml:"tagline,omitempty"`

	// Author appears in the footer copyright line.
	Author string `yaml:"author,omitempty"`

	// BaseURL is the public URL of the site; its host decides which links
	// are external.
	BaseURL string `yaml:"base_url,omitempty"`

	// Language is the <html lang> attribute.
	Language string `yaml:"language,omitempty"`

	// Intro is Markdown shown on the landing page.
	Intro string `yaml:"intro,omitempty"`

	// About is Markdown for the about page.
	About string `yaml:"about,omitempty"`

	// LatestPosts is how many posts the landing page lists.
	LatestPosts int `yaml:"latest_posts"`

	Projects []Project `yaml:"projects,omitempty"`
	Contacts []Contact `yaml:"contacts,omitempty"`
}

// PostsConfig controls where posts are loaded from.
type PostsConfig struct {
	// Source is a directory path or an http(s) base URL.
	Source string `yaml:"source"`

	// Manifest names a YAML index of posts relative to Source. When empty,
	// directory sources are scanned for Markdown files and HTTP sources
	// use index.yaml.
	Manifest string `yaml:"manifest,omitempty"`

	// Drafts includes posts marked draft.
	Drafts bool `yaml:"drafts"`

	// FetchTimeout bounds each HTTP fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// MarkdownConfig controls parsing and rendering of posts.
type MarkdownConfig struct {
	Flavor         Flavor   `yaml:"flavor"`
	HardWraps      bool     `yaml:"hard_wraps"`
	HeadingLinks   bool     `yaml:"heading_links"`
	Highlight      bool     `yaml:"highlight"`
	HighlightStyle string   `yaml:"highlight_style"`
	DetectLanguage bool     `yaml:"detect_language"`
	HTML           HTMLMode `yaml:"html"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Watch           bool          `yaml:"watch"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BuildConfig controls static export.
type BuildConfig struct {
	OutDir string `yaml:"out_dir"`

	// Jobs is the number of concurrent page renders; 0 means one per CPU.
	Jobs int `yaml:"jobs"`
}

// Config is the root configuration structure for folio.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Posts    PostsConfig    `yaml:"posts"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Server   ServerConfig   `yaml:"server"`
	Build    BuildConfig    `yaml:"build"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default values.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultOutDir          = "public"
	DefaultPostsDir        = "posts"
	DefaultManifest        = "index.yaml"
	DefaultLatestPosts     = 5
	DefaultHighlightStyle  = "github"
	DefaultFetchTimeout    = 10 * time.Second
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:       "folio",
			Language:    "en",
			LatestPosts: DefaultLatestPosts,
		},
		Posts: PostsConfig{
			Source:       DefaultPostsDir,
			FetchTimeout: DefaultFetchTimeout,
		},
		Markdown: MarkdownConfig{
			Flavor:         FlavorGFM,
			HeadingLinks:   true,
			Highlight:      true,
			HighlightStyle: DefaultHighlightStyle,
			DetectLanguage: true,
			HTML:           HTMLSanitize,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Build: BuildConfig{
			OutDir: DefaultOutDir,
		},
		LogLevel: "info",
	}
}

// IsRemoteSource reports whether posts are fetched over HTTP.
func (p PostsConfig) IsRemoteSource() bool {
	return strings.HasPrefix(p.Source, "http://") || strings.HasPrefix(p.Source, "https://")
}
