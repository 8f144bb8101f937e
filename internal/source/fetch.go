package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"
)

// maxBodySize caps the size of a fetched file.
const maxBodySize = 8 << 20

// markdownExtensions are the file extensions discovered as posts.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownExtensions = []string{".md", ".markdown"}

// Fetcher retrieves named files from a post source.
type Fetcher interface {
	// Fetch returns the content of name. Missing files return an error
	// wrapping ErrNotFound.
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Lister is implemented by fetchers that can enumerate their Markdown files.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// FSFetcher reads posts from a file system: a directory via os.DirFS or an
// embedded tree.
type FSFetcher struct {
	FS fs.FS
}

// NewFSFetcher creates a fetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{FS: fsys}
}

// Fetch reads name from the file system.
func (f *FSFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	content, err := fs.ReadFile(f.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}

// List walks the file system for Markdown files. Hidden files and
// directories are skipped. The result is sorted.
func (f *FSFetcher) List(ctx context.Context) ([]string, error) {
	var files []string

	err := fs.WalkDir(f.FS, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := strings.HasPrefix(entry.Name(), ".") && p != "."
		if entry.IsDir() {
			if hidden {
				return fs.SkipDir
			}
			return nil
		}
		if hidden || !hasMarkdownExtension(p) {
			return nil
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	slices.Sort(files)
	return files, nil
}

func hasMarkdownExtension(name string) bool {
	return slices.Contains(markdownExtensions, strings.ToLower(path.Ext(name)))
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// HTTPFetcher fetches posts relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for files under baseURL. A nil client
// gets a client with the given timeout.
func NewHTTPFetcher(baseURL string, client *http.Client, timeout time.Duration) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPFetcher{base: base, client: client}, nil
}

// URL returns the absolute URL of name.
func (f *HTTPFetcher) URL(name string) string {
	return f.base.ResolveReference(&url.URL{Path: name}).String()
}

// Fetch GETs name relative to the base URL. 404 wraps ErrNotFound; other
// non-2xx statuses return a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	target := f.URL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain, application/yaml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", target, maxBodySize)
	}
	return body, nil
}
