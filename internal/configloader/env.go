package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/yaklabco/folio/pkg/config"
)

// envVarPrefix is the prefix for all folio environment variables.
const envVarPrefix = "FOLIO_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeDuration
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SITE_TITLE":              {"site.title", envTypeString, "Site title"},
	"SITE_BASE_URL":           {"site.base_url", envTypeString, "Public URL of the site"},
	"POSTS_SOURCE":            {"posts.source", envTypeString, "Posts directory or http(s) base URL"},
	"POSTS_DRAFTS":            {"posts.drafts", envTypeBool, "Include draft posts: true or false"},
	"POSTS_FETCH_TIMEOUT":     {"posts.fetch_timeout", envTypeDuration, "HTTP fetch timeout, e.g. 10s"},
	"MARKDOWN_FLAVOR":         {"markdown.flavor", envTypeString, "Markdown flavor: commonmark or gfm"},
	"MARKDOWN_HTML":           {"markdown.html", envTypeString, "Raw HTML mode: sanitize, escape or unsafe"},
	"MARKDOWN_HIGHLIGHT":      {"markdown.highlight", envTypeBool, "Highlight code blocks: true or false"},
	"SERVER_ADDR":             {"server.addr", envTypeString, "Listen address, e.g. :8080"},
	"SERVER_WATCH":            {"server.watch", envTypeBool, "Reload posts on change: true or false"},
	"SERVER_SHUTDOWN_TIMEOUT": {"server.shutdown_timeout", envTypeDuration, "Graceful shutdown timeout"},
	"BUILD_OUT_DIR":           {"build.out_dir", envTypeString, "Static export directory"},
	"BUILD_JOBS":              {"build.jobs", envTypeInt, "Concurrent page renders (0 = auto)"},
	"LOG_LEVEL":               {"log_level", envTypeString, "Log level: debug, info, warn or error"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with FOLIO_ (e.g., FOLIO_SERVER_ADDR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", envVar, value)
		}
		return setDurationField(cfg, mapping.field, d)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "site.title":
		cfg.Site.Title = value
	case "site.base_url":
		cfg.Site.BaseURL = value
	case "posts.source":
		cfg.Posts.Source = value
	case "markdown.flavor":
		cfg.Markdown.Flavor = config.Flavor(value)
	case "markdown.html":
		cfg.Markdown.HTML = config.HTMLMode(value)
	case "server.addr":
		cfg.Server.Addr = value
	case "build.out_dir":
		cfg.Build.OutDir = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "posts.drafts":
		cfg.Posts.Drafts = value
	case "markdown.highlight":
		cfg.Markdown.Highlight = value
	case "server.watch":
		cfg.Server.Watch = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "build.jobs":
		cfg.Build.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setDurationField sets a duration field on the config by field path.
func setDurationField(cfg *config.Config, field string, value time.Duration) error {
	switch field {
	case "posts.fetch_timeout":
		cfg.Posts.FetchTimeout = value
	case "server.shutdown_timeout":
		cfg.Server.ShutdownTimeout = value
	default:
		return fmt.Errorf("unknown duration field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
