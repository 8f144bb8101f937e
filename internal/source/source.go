// Package source loads post metadata and Markdown bodies from a directory,
// an embedded file system or an HTTP origin.
package source

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/pkg/config"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates a missing post or manifest.
	ErrNotFound = errors.New("not found")

	// ErrFetch wraps failures of the underlying fetcher other than ErrNotFound.
	ErrFetch = errors.New("fetch failed")

	// ErrDuplicateSlug indicates two posts resolve to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// Options controls index building.
type Options struct {
	// Manifest names a YAML index of posts. When empty, a Lister fetcher is
	// scanned for Markdown files and other fetchers use DefaultManifest.
	Manifest string

	// Drafts keeps entries marked draft.
	Drafts bool
}

// Source pairs a fetcher with index options.
type Source struct {
	fetcher Fetcher
	opts    Options

	// dir is the directory behind a local source, for watching.
	dir string
}

// New creates a source over fetcher.
func New(fetcher Fetcher, opts Options) *Source {
	return &Source{fetcher: fetcher, opts: opts}
}

// FromConfig creates the source described by the posts configuration:
// an HTTP fetcher for http(s) URLs, otherwise a directory on disk.
func FromConfig(cfg config.PostsConfig, client *http.Client) (*Source, error) {
	opts := Options{Manifest: cfg.Manifest, Drafts: cfg.Drafts}

	if cfg.IsRemoteSource() {
		fetcher, err := NewHTTPFetcher(cfg.Source, client, cfg.FetchTimeout)
		if err != nil {
			return nil, err
		}
		return New(fetcher, opts), nil
	}

	info, err := os.Stat(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("posts source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("posts source %s: not a directory", cfg.Source)
	}

	src := New(NewFSFetcher(os.DirFS(cfg.Source)), opts)
	src.dir = cfg.Source
	return src, nil
}

// Dir returns the directory of a local source, or "" for other sources.
func (s *Source) Dir() string {
	return s.dir
}

// Fetcher returns the underlying fetcher.
//
//nolint:ireturn // Callers choose between fetcher implementations.
func (s *Source) Fetcher() Fetcher {
	return s.fetcher
}

// Index builds the sorted list of post entries.
// Entries sort by date, newest first, then by slug. Drafts are dropped
// unless Options.Drafts is set. Two entries with the same slug are an error.
func (s *Source) Index(ctx context.Context) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)

	lister, canList := s.fetcher.(Lister)
	switch {
	case s.opts.Manifest != "":
		entries, err = s.fromManifest(ctx, s.opts.Manifest)
	case canList:
		entries, err = s.fromListing(ctx, lister)
	default:
		entries, err = s.fromManifest(ctx, config.DefaultManifest)
	}
	if err != nil {
		return nil, err
	}

	if !s.opts.Drafts {
		entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.Draft })
	}

	if err := checkDuplicates(entries); err != nil {
		return nil, err
	}

	SortEntries(entries)

	logging.FromContext(ctx).Debug("built post index", logging.FieldPosts, len(entries))
	return entries, nil
}

// Body fetches a post and returns its Markdown without front matter.
func (s *Source) Body(ctx context.Context, entry Entry) ([]byte, error) {
	raw, err := s.fetch(ctx, entry.File)
	if err != nil {
		return nil, err
	}

	_, body, err := SplitFrontMatter(entry.File, raw)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// fetch wraps fetcher failures other than not-found in ErrFetch.
func (s *Source) fetch(ctx context.Context, name string) ([]byte, error) {
	content, err := s.fetcher.Fetch(ctx, name)
	if err == nil {
		return content, nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrFetch, err)
}

// manifest is the YAML index format.
type manifest struct {
	Posts []manifestEntry `yaml:"posts"`
}

type manifestEntry struct {
	File    string   `yaml:"file"`
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	Draft   bool     `yaml:"draft"`
}

func (s *Source) fromManifest(ctx context.Context, name string) ([]Entry, error) {
	content, err := s.fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}

	entries := make([]Entry, 0, len(m.Posts))
	for i, p := range m.Posts {
		if p.File == "" {
			return nil, fmt.Errorf("manifest %s: posts[%d]: file is required", name, i)
		}

		date, err := ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: posts[%d]: %w", name, i, err)
		}

		entry := Entry{
			File:    p.File,
			Slug:    p.Slug,
			Title:   p.Title,
			Date:    date,
			Summary: p.Summary,
			Tags:    p.Tags,
			Draft:   p.Draft,
		}
		entry.applyDefaults()
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Source) fromListing(ctx context.Context, lister Lister) ([]Entry, error) {
	files, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		content, err := s.fetch(ctx, file)
		if err != nil {
			return nil, err
		}

		entry, _, err := SplitFrontMatter(file, content)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func checkDuplicates(entries []Entry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if other, ok := seen[e.Slug]; ok {
			return fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, e.Slug, other, e.File)
		}
		seen[e.Slug] = e.File
	}
	return nil
}

// SortEntries orders entries by date, newest first, then by slug.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
