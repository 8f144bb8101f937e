package source

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Entry describes one post in the index.
type Entry struct {
	// File is the post's name within the source.
	File string

	Slug    string
	Title   string
	Date    time.Time
	Summary string
	Tags    []string
	Draft   bool
}

// frontMatter is the metadata block at the top of a post, in YAML (---)
// or TOML (+++).
type frontMatter struct {
	Title   string   `yaml:"title" toml:"title"`
	Slug    string   `yaml:"slug" toml:"slug"`
	Date    any      `yaml:"date" toml:"date"`
	Summary string   `yaml:"summary" toml:"summary"`
	Tags    []string `yaml:"tags" toml:"tags"`
	Draft   bool     `yaml:"draft" toml:"draft"`
}

// dateLayouts are accepted for front matter and manifest dates.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// SplitFrontMatter separates the metadata block from the Markdown body.
// Content without front matter is returned unchanged with an entry holding
// only defaults.
func SplitFrontMatter(name string, content []byte) (Entry, []byte, error) {
	var fm frontMatter

	body, err := frontmatter.Parse(bytes.NewReader(content), &fm)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("%s: front matter: %w", name, err)
	}

	date, err := parseDate(fm.Date)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("%s: %w", name, err)
	}

	entry := Entry{
		File:    name,
		Slug:    fm.Slug,
		Title:   fm.Title,
		Date:    date,
		Summary: fm.Summary,
		Tags:    fm.Tags,
		Draft:   fm.Draft,
	}
	entry.applyDefaults()

	return entry, body, nil
}

// applyDefaults fills the slug from the file name and the title from the slug.
func (e *Entry) applyDefaults() {
	e.Slug = strings.TrimSpace(e.Slug)
	if e.Slug == "" {
		base := path.Base(e.File)
		e.Slug = strings.TrimSuffix(base, path.Ext(base))
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		e.Title = e.Slug
	}
}

// parseDate accepts the values YAML and TOML decoders produce for a date.
func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case string:
		return ParseDate(d)
	default:
		return time.Time{}, fmt.Errorf("invalid date %v", v)
	}
}

// ParseDate parses a post date. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
