package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter emits class-based chroma markup; colors come from the
// stylesheet written by WriteHighlightCSS.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(styleName string) *highlighter {
	return &highlighter{
		style:     styles.Get(styleName),
		formatter: newFormatter(),
	}
}

func newFormatter() *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
}

// highlight returns highlighted markup for code, or false when no lexer
// matches the language.
func (h *highlighter) highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", false
	}
	return b.String(), true
}

// WriteHighlightCSS writes the stylesheet for highlighted code blocks in the
// named chroma style. Unknown styles fall back to chroma's default.
func WriteHighlightCSS(w io.Writer, styleName string) error {
	if err := newFormatter().WriteCSS(w, styles.Get(styleName)); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}
