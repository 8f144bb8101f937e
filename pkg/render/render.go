// Package render maps a Markdown AST onto view fragments.
//
// The mapping is a single recursive walk that dispatches on node kind.
// Every kind has a rendering; unknown kinds fall back to their children,
// so rendering never fails.
package render

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/folio/pkg/langdetect"
	"github.com/yaklabco/folio/pkg/mdast"
	"github.com/yaklabco/folio/pkg/view"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// HTMLMode controls how raw HTML embedded in Markdown is emitted.
type HTMLMode string

const (
	// HTMLSanitize passes raw HTML through a user-content sanitizer.
	HTMLSanitize HTMLMode = "sanitize"

	// HTMLEscape shows raw HTML as literal text.
	HTMLEscape HTMLMode = "escape"

	// HTMLUnsafe writes raw HTML verbatim.
	HTMLUnsafe HTMLMode = "unsafe"
)

// Options configures a Renderer.
type Options struct {
	// Theme supplies class names for rendered elements.
	Theme Theme

	// HeadingLinks appends a "#" self-link to every heading.
	HeadingLinks bool

	// HardWraps renders soft line breaks as <br>.
	HardWraps bool

	// Highlight enables syntax highlighting of code blocks.
	Highlight bool

	// HighlightStyle is the chroma style used for the highlight stylesheet.
	HighlightStyle string

	// DetectLanguage guesses the language of unlabeled code blocks.
	DetectLanguage bool

	// HTML selects how raw HTML is handled. Empty means HTMLSanitize.
	HTML HTMLMode

	// SiteHost is the host of the site itself; links to other hosts are
	// marked external and open in a new tab.
	SiteHost string

	// ReservedIDs are element ids owned by the page around the article.
	// Heading anchors never reuse them.
	ReservedIDs []string
}

// DefaultOptions returns options matching the bundled stylesheet.
func DefaultOptions() Options {
	return Options{
		Theme:          DefaultTheme(),
		HeadingLinks:   true,
		Highlight:      true,
		HighlightStyle: "github",
		DetectLanguage: true,
		HTML:           HTMLSanitize,
	}
}

// Heading is a table-of-contents entry.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Result is a rendered document.
type Result struct {
	// View is the <article> fragment.
	View *view.Node

	// TOC lists headings in document order.
	TOC []Heading

	// Title is the text of the first level-1 heading, if any.
	Title string

	// Words counts prose words.
	Words int

	// ReadingMinutes is the estimated reading time, at least 1.
	ReadingMinutes int
}

// Renderer converts Markdown documents to view fragments.
// A Renderer is safe for concurrent use.
type Renderer struct {
	opts        Options
	policy      *bluemonday.Policy
	highlighter *highlighter
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.HTML == "" {
		opts.HTML = HTMLSanitize
	}

	r := &Renderer{opts: opts}
	if opts.HTML == HTMLSanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	if opts.Highlight {
		r.highlighter = newHighlighter(opts.HighlightStyle)
	}
	return r
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render maps a whole document into an <article> fragment and collects its
// table of contents and reading statistics.
func (r *Renderer) Render(doc *mdast.Document) *Result {
	result := &Result{}
	if doc == nil || doc.Root == nil {
		result.View = view.El("article", view.Class(r.opts.Theme.Article))
		result.ReadingMinutes = 1
		return result
	}

	w := &walker{r: r, slugger: NewSlugger(r.opts.ReservedIDs...)}
	result.View = w.node(doc.Root, false)
	result.TOC = w.toc

	for _, h := range w.toc {
		if h.Level == 1 {
			result.Title = h.Text
			break
		}
	}

	result.Words = doc.WordCount()
	result.ReadingMinutes = readingMinutes(result.Words)

	return result
}

// Fragment maps the children of a document without the <article> wrapper.
// It is used for short Markdown snippets embedded in other pages.
func (r *Renderer) Fragment(doc *mdast.Document) *view.Node {
	if doc == nil || doc.Root == nil {
		return view.Fragment()
	}
	w := &walker{r: r, slugger: NewSlugger(r.opts.ReservedIDs...)}
	return view.Fragment(w.children(doc.Root, false)...)
}

func readingMinutes(words int) int {
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// walker holds the per-document state of one render pass.
type walker struct {
	r       *Renderer
	slugger *Slugger
	toc     []Heading
}

// children maps every child of n. tight is forwarded to paragraphs so that
// items of tight lists render without <p> wrappers.
func (w *walker) children(n *mdast.Node, tight bool) []*view.Node {
	out := make([]*view.Node, 0, n.ChildCount())
	for child := n.FirstChild; child != nil; child = child.Next {
		out = append(out, w.node(child, tight))
	}
	return out
}

// node dispatches on the node kind.
func (w *walker) node(n *mdast.Node, tight bool) *view.Node {
	theme := w.r.opts.Theme

	switch n.Kind {
	case mdast.NodeDocument:
		return view.El("article", view.Class(theme.Article), w.children(n, false)...)

	case mdast.NodeHeading:
		return w.heading(n)

	case mdast.NodeParagraph:
		if tight {
			return view.Fragment(w.children(n, false)...)
		}
		return view.El("p", view.Class(theme.Paragraph), w.children(n, false)...)

	case mdast.NodeBlockquote:
		return view.El("blockquote", view.Class(theme.Blockquote), w.children(n, false)...)

	case mdast.NodeThematicBreak:
		return view.El("hr", view.Class(theme.Rule))

	case mdast.NodeList:
		return w.list(n)

	case mdast.NodeListItem:
		return view.El("li", view.Class(theme.ListItem), w.children(n, tight)...)

	case mdast.NodeCodeBlock:
		return w.codeBlock(n)

	case mdast.NodeCodeSpan:
		return view.El("code", view.Class(theme.CodeSpan), view.Text(string(n.Literal())))

	case mdast.NodeText:
		return view.Text(string(n.Literal()))

	case mdast.NodeEmphasis:
		return view.El("em", view.Class(theme.Emphasis), w.children(n, false)...)

	case mdast.NodeStrong:
		return view.El("strong", view.Class(theme.Strong), w.children(n, false)...)

	case mdast.NodeStrikethrough:
		return view.El("del", view.Class(theme.Strike), w.children(n, false)...)

	case mdast.NodeLink:
		return w.link(n)

	case mdast.NodeImage:
		return w.image(n)

	case mdast.NodeSoftBreak:
		if w.r.opts.HardWraps {
			return view.El("br", nil)
		}
		return view.Text(" ")

	case mdast.NodeHardBreak:
		return view.El("br", nil)

	case mdast.NodeHTMLBlock:
		return view.El("div", view.Class(theme.HTML), w.rawHTML(n))

	case mdast.NodeHTMLInline:
		return w.rawHTML(n)

	case mdast.NodeTable:
		return w.table(n)

	case mdast.NodeTableRow:
		return view.El("tr", nil, w.cells(n, "td")...)

	default:
		return view.Fragment(w.children(n, tight)...)
	}
}

// heading renders <hN id=...> and records the TOC entry.
func (w *walker) heading(n *mdast.Node) *view.Node {
	level := n.HeadingLevel()
	if level < 1 || level > 6 {
		level = 6
	}

	text := mdast.PlainText(n)
	id := w.slugger.Anchor(text)
	w.toc = append(w.toc, Heading{Level: level, Text: text, ID: id})

	theme := w.r.opts.Theme
	el := view.El("h"+strconv.Itoa(level), view.Attrs("id", id, "class", theme.Heading), w.children(n, false)...)
	if w.r.opts.HeadingLinks {
		el.Append(view.El("a",
			view.Attrs("class", theme.Anchor, "href", "#"+id, "aria-label", "Link to "+text),
			view.Text("#"),
		))
	}
	return el
}

// list renders <ul> or <ol>; an ordered list's start is emitted when not 1.
func (w *walker) list(n *mdast.Node) *view.Node {
	var attrs *mdast.ListAttrs
	if n.Block != nil {
		attrs = n.Block.List
	}
	if attrs == nil {
		attrs = &mdast.ListAttrs{Tight: true}
	}

	theme := w.r.opts.Theme
	if !attrs.Ordered {
		return view.El("ul", view.Class(theme.BulletList), w.children(n, attrs.Tight)...)
	}

	start := ""
	if attrs.StartNumber != 1 && attrs.StartNumber != 0 {
		start = strconv.Itoa(attrs.StartNumber)
	}
	return view.El("ol", view.Attrs("start", start, "class", theme.OrderedList), w.children(n, attrs.Tight)...)
}

// codeBlock renders <pre><code class="language-X">, highlighted when possible.
func (w *walker) codeBlock(n *mdast.Node) *view.Node {
	opts := w.r.opts
	code := n.Literal()

	declared := ""
	if n.Block != nil && n.Block.CodeBlock != nil {
		declared = n.Block.CodeBlock.Language
	}
	lang := langdetect.ForCodeBlock(declared, code, opts.DetectLanguage)

	codeClass := ""
	if lang != "" {
		codeClass = "language-" + lang
	}

	var body *view.Node
	if w.r.highlighter != nil && lang != "" && lang != langdetect.Text {
		if markup, ok := w.r.highlighter.highlight(lang, string(code)); ok {
			body = view.Raw(markup)
			codeClass = strings.TrimSpace(codeClass + " chroma")
		}
	}
	if body == nil {
		body = view.Text(string(code))
	}

	return view.El("pre", view.Attrs("class", opts.Theme.CodeBlock, "data-lang", lang),
		view.El("code", view.Class(codeClass), body),
	)
}

// table renders <table> with the header row in <thead> and the body rows
// in <tbody>.
func (w *walker) table(n *mdast.Node) *view.Node {
	el := view.El("table", view.Class(w.r.opts.Theme.Table))

	var body *view.Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == mdast.NodeTableHeader {
			el.Append(view.El("thead", nil, view.El("tr", nil, w.cells(child, "th")...)))
			continue
		}
		if body == nil {
			body = view.El("tbody", nil)
			el.Append(body)
		}
		body.Append(w.node(child, false))
	}
	return el
}

// cells renders the cells of a row as tag elements with their column
// alignment.
func (w *walker) cells(row *mdast.Node, tag string) []*view.Node {
	out := make([]*view.Node, 0, row.ChildCount())
	for cell := row.FirstChild; cell != nil; cell = cell.Next {
		style := ""
		if cell.Block != nil && cell.Block.Align != mdast.AlignNone {
			style = "text-align: " + cell.Block.Align.String()
		}
		out = append(out, view.El(tag, view.Attrs("style", style), w.children(cell, false)...))
	}
	return out
}

// link renders <a>; links off-site open in a new tab.
func (w *walker) link(n *mdast.Node) *view.Node {
	var dest, title string
	if n.Inline != nil && n.Inline.Link != nil {
		dest = w.safeURL(n.Inline.Link.Destination)
		title = n.Inline.Link.Title
	}

	theme := w.r.opts.Theme
	el := view.El("a", view.Attrs("href", dest, "title", title, "class", theme.Link), w.children(n, false)...)
	if w.isExternal(dest) {
		el.AddClass(theme.External)
		el.SetAttr("target", "_blank")
		el.SetAttr("rel", "noopener noreferrer")
	}
	return el
}

func (w *walker) isExternal(dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return !strings.EqualFold(u.Hostname(), w.r.opts.SiteHost)
}

// safeURL blanks script-bearing URLs (javascript:, vbscript:, file: and
// non-image data:) unless raw HTML is trusted.
func (w *walker) safeURL(dest string) string {
	if w.r.opts.HTML == HTMLUnsafe {
		return dest
	}
	normalized := strings.ToLower(strings.TrimSpace(dest))
	if gmhtml.IsDangerousURL([]byte(normalized)) {
		return ""
	}
	return dest
}

// image renders <img>; the alt text is the plain text of the children.
func (w *walker) image(n *mdast.Node) *view.Node {
	var src, title string
	if n.Inline != nil && n.Inline.Link != nil {
		src = w.safeURL(n.Inline.Link.Destination)
		title = n.Inline.Link.Title
	}

	attrs := view.Attrs("src", src, "title", title, "class", w.r.opts.Theme.Image, "loading", "lazy")
	attrs = append(attrs, view.Attr{Key: "alt", Val: mdast.PlainText(n)})
	return view.El("img", attrs)
}

// rawHTML emits embedded HTML according to the configured mode.
func (w *walker) rawHTML(n *mdast.Node) *view.Node {
	raw := string(n.Literal())

	switch w.r.opts.HTML {
	case HTMLUnsafe:
		return view.Raw(raw)
	case HTMLEscape:
		return view.Text(raw)
	default:
		return view.Raw(w.r.policy.Sanitize(raw))
	}
}
