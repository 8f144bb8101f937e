// Package export renders the whole site into a directory of static files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/internal/router"
	"github.com/yaklabco/folio/internal/site"
	"github.com/yaklabco/folio/pkg/fsutil"
)

// NotFoundFile is the file the not-found page is written to.
const NotFoundFile = "404.html"

// ErrInvalidPath indicates a page path that cannot be mapped to a file
// inside the output directory.
var ErrInvalidPath = errors.New("invalid page path")

// Options controls an export.
type Options struct {
	// OutDir is the directory files are written to. It is created if needed.
	OutDir string

	// Jobs is the number of pages rendered concurrently; 0 means one per CPU.
	Jobs int
}

// job is one file to produce.
type job struct {
	// file is the slash-separated path relative to OutDir.
	file string

	// request renders a page; nil for assets.
	request *site.Request

	// content is the data of an asset.
	content []byte
}

// Export renders every page and asset served by r into opts.OutDir.
// The first failure cancels the remaining work; files not attempted are
// left out of the result.
func Export(ctx context.Context, r *router.Router, opts Options) (*Result, error) {
	if opts.OutDir == "" {
		return nil, errors.New("export: output directory is required")
	}

	jobs, err := plan(r)
	if err != nil {
		return nil, err
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := logging.FromContext(ctx)
	logger.Debug("exporting", logging.FieldOutput, opts.OutDir, logging.FieldPages, len(jobs), logging.FieldJobs, workers)

	var (
		mu       sync.Mutex
		outcomes = make(map[string]FileOutcome, len(jobs))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, j := range jobs {
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			outcome := produce(groupCtx, r, opts.OutDir, j)

			mu.Lock()
			outcomes[j.file] = outcome
			mu.Unlock()

			return outcome.Error
		})
	}
	runErr := group.Wait()

	result := &Result{Files: make([]FileOutcome, 0, len(jobs))}
	for _, j := range jobs {
		if outcome, ok := outcomes[j.file]; ok {
			result.accumulate(outcome)
		}
	}

	if runErr != nil {
		return result, fmt.Errorf("export: %w", runErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}
	return result, nil
}

// plan lists the files to produce: every static route, one page per post,
// the not-found page and the assets.
func plan(r *router.Router) ([]job, error) {
	var jobs []job

	add := func(req site.Request) error {
		file, err := FileFor(req.Path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{file: file, request: &req})
		return nil
	}

	posts := r.Site().Store().Posts()
	for _, route := range r.Routes() {
		if route.Static() {
			if err := add(site.Request{Route: route.Name, Path: route.Path}); err != nil {
				return nil, err
			}
			continue
		}
		if route.Name != site.RouteArticle {
			continue
		}
		for _, p := range posts {
			req := site.Request{
				Route:  route.Name,
				Path:   site.PostPath(p.Slug),
				Params: map[string]string{"slug": p.Slug},
			}
			if err := add(req); err != nil {
				return nil, err
			}
		}
	}

	jobs = append(jobs, job{
		file:    NotFoundFile,
		request: &site.Request{Route: site.RouteNotFound, Path: "/" + NotFoundFile},
	})

	if a := r.Assets(); a != nil {
		for _, name := range a.Names() {
			content, _ := a.Get(name)
			jobs = append(jobs, job{file: path.Join(strings.Trim(router.AssetsPrefix, "/"), name), content: content})
		}
	}

	return jobs, nil
}

// produce renders or copies one file and writes it if it changed.
func produce(ctx context.Context, r *router.Router, outDir string, j job) FileOutcome {
	outcome := FileOutcome{File: j.file}
	if err := ctx.Err(); err != nil {
		outcome.Error = err
		return outcome
	}

	content := j.content
	if j.request != nil {
		outcome.Path = j.request.Path

		var buf bytes.Buffer
		status, err := r.Render(ctx, &buf, *j.request)
		if err != nil {
			outcome.Error = fmt.Errorf("%s: %w", j.request.Path, err)
			return outcome
		}
		if status != http.StatusOK && j.request.Route != site.RouteNotFound {
			outcome.Error = fmt.Errorf("%s: status %d", j.request.Path, status)
			return outcome
		}
		content = buf.Bytes()
	}

	written, err := fsutil.WriteFile(ctx, filepath.Join(outDir, filepath.FromSlash(j.file)), content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Outcome = written
	return outcome
}

// FileFor maps a page path to its file: "/" is index.html and every other
// path becomes a directory with an index.html.
func FileFor(pagePath string) (string, error) {
	rel := strings.Trim(pagePath, "/")
	if rel == "" {
		return "index.html", nil
	}
	if !fs.ValidPath(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, pagePath)
	}
	return rel + "/index.html", nil
}
