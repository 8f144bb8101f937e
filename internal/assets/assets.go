// Package assets provides the static files served under /assets/.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/yaklabco/folio/pkg/render"
)

// Names of the generated and embedded files.
const (
	SiteCSS      = "site.css"
	HighlightCSS = "highlight.css"
)

//go:embed static
var static embed.FS

// Assets holds the asset files in memory.
type Assets struct {
	files map[string][]byte
}

// New loads the embedded files and generates the code highlighting
// stylesheet for the given chroma style.
func New(highlightStyle string) (*Assets, error) {
	files := map[string][]byte{}

	sub, err := fs.Sub(static, "static")
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	err = fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := fs.ReadFile(sub, p)
		if err != nil {
			return err
		}
		files[p] = content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	var css strings.Builder
	if err := render.WriteHighlightCSS(&css, highlightStyle); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	files[HighlightCSS] = []byte(css.String())

	return &Assets{files: files}, nil
}

// Get returns the content of the named asset.
func (a *Assets) Get(name string) ([]byte, bool) {
	content, ok := a.files[strings.TrimPrefix(name, "/")]
	return content, ok
}

// Names returns the asset names in sorted order.
func (a *Assets) Names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ContentType returns the MIME type for an asset name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
