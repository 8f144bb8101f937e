package configloader

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "server.addr").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateSite(cfg, result)
	validatePosts(cfg, result)
	validateMarkdown(cfg, result)
	validateServer(cfg, result)

	if cfg.Build.Jobs < 0 {
		result.addError("build.jobs", cfg.Build.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if strings.TrimSpace(cfg.Build.OutDir) == "" {
		result.addError("build.out_dir", cfg.Build.OutDir, "output directory must not be empty")
	}

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		result.addError("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	return result
}

func validateSite(cfg *config.Config, result *ValidationResult) {
	site := cfg.Site

	if strings.TrimSpace(site.Title) == "" {
		result.addError("site.title", site.Title, "title must not be empty")
	}

	if site.BaseURL != "" {
		u, err := url.Parse(site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			result.addError("site.base_url", site.BaseURL, "base URL must be an absolute URL such as https://example.com")
		}
	}

	if site.LatestPosts < 0 {
		result.addError("site.latest_posts", site.LatestPosts, "latest_posts must be >= 0")
	}

	for i, p := range site.Projects {
		if strings.TrimSpace(p.Name) == "" {
			result.addError(fmt.Sprintf("site.projects[%d].name", i), p.Name, "project name must not be empty")
		}
	}

	for i, c := range site.Contacts {
		if c.Label == "" || c.URL == "" {
			result.addError(fmt.Sprintf("site.contacts[%d]", i), c, "contact needs both label and url")
		}
	}
}

func validatePosts(cfg *config.Config, result *ValidationResult) {
	posts := cfg.Posts

	if strings.TrimSpace(posts.Source) == "" {
		result.addError("posts.source", posts.Source, "posts source must be set")
	}

	if posts.IsRemoteSource() {
		if _, err := url.Parse(posts.Source); err != nil {
			result.addError("posts.source", posts.Source, "invalid URL: %v", err)
		}
		if posts.FetchTimeout <= 0 {
			result.addError("posts.fetch_timeout", posts.FetchTimeout, "fetch timeout must be > 0")
		}
	}

	if posts.Manifest != "" && strings.Contains(posts.Manifest, "..") {
		result.addError("posts.manifest", posts.Manifest, "manifest must be inside the posts source")
	}
}

func validateMarkdown(cfg *config.Config, result *ValidationResult) {
	md := cfg.Markdown

	if md.Flavor != config.FlavorCommonMark && md.Flavor != config.FlavorGFM {
		result.addError("markdown.flavor", md.Flavor,
			"invalid flavor %q; must be one of: commonmark, gfm", md.Flavor)
	}

	if !md.HTML.IsValid() {
		result.addError("markdown.html", md.HTML,
			"invalid html mode %q; must be one of: sanitize, escape, unsafe", md.HTML)
	}
	if md.HTML == config.HTMLUnsafe {
		result.addWarning("markdown.html", md.HTML, "raw HTML in posts is written without sanitizing")
	}

	if md.Highlight && !slices.Contains(styles.Names(), md.HighlightStyle) {
		result.addWarning("markdown.highlight_style", md.HighlightStyle,
			"unknown highlight style %q; the default style is used", md.HighlightStyle)
	}
}

func validateServer(cfg *config.Config, result *ValidationResult) {
	srv := cfg.Server

	if _, _, err := net.SplitHostPort(srv.Addr); err != nil {
		result.addError("server.addr", srv.Addr, "invalid listen address: %v", err)
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", srv.ReadTimeout},
		{"server.write_timeout", srv.WriteTimeout},
		{"server.shutdown_timeout", srv.ShutdownTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			result.addError(timeout.field, timeout.value, "timeout must be > 0")
		}
	}

	if srv.Watch && cfg.Posts.IsRemoteSource() {
		result.addWarning("server.watch", srv.Watch, "watching is only supported for directory sources")
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
