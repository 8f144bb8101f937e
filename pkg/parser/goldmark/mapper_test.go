package goldmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/folio/pkg/mdast"
)

func parseGFM(t *testing.T, content string) *mdast.Node {
	t.Helper()

	doc, err := New(FlavorGFM).Parse(context.Background(), "test.md", []byte(content))
	require.NoError(t, err)
	return doc.Root
}

func TestMapper_Heading(t *testing.T) {
	tests := []struct {
		name    string
		content string
		level   int
	}{
		{"h1", "# Heading 1", 1},
		{"h2", "## Heading 2", 2},
		{"h3", "### Heading 3", 3},
		{"h6", "###### Heading 6", 6},
		{"setext", "Heading\n=======", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headings := mdast.FindByKind(parseGFM(t, tt.content), mdast.NodeHeading)
			require.Len(t, headings, 1)
			assert.Equal(t, tt.level, headings[0].HeadingLevel())
		})
	}
}

func TestMapper_Lists(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ordered bool
		start   int
		marker  string
		tight   bool
		items   int
	}{
		{"bullet dash", "- a\n- b\n", false, 0, "-", true, 2},
		{"bullet star", "* a\n* b\n* c\n", false, 0, "*", true, 3},
		{"ordered", "1. a\n2. b\n", true, 1, "", true, 2},
		{"ordered start", "3. a\n4. b\n", true, 3, "", true, 2},
		{"loose", "- a\n\n- b\n", false, 0, "-", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := mdast.FindByKind(parseGFM(t, tt.content), mdast.NodeList)
			require.Len(t, lists, 1)

			attrs := lists[0].Block.List
			require.NotNil(t, attrs)
			assert.Equal(t, tt.ordered, attrs.Ordered)
			assert.Equal(t, tt.marker, attrs.BulletMarker)
			assert.Equal(t, tt.tight, attrs.Tight)
			if tt.ordered {
				assert.Equal(t, tt.start, attrs.StartNumber)
			}
			assert.Equal(t, tt.items, lists[0].ChildCount())
		})
	}
}

func TestMapper_FencedCodeBlock(t *testing.T) {
	root := parseGFM(t, "```go title=main.go\npackage main\n\nfunc main() {}\n```\n")

	blocks := mdast.FindByKind(root, mdast.NodeCodeBlock)
	require.Len(t, blocks, 1)

	attrs := blocks[0].Block.CodeBlock
	assert.True(t, attrs.Fenced)
	assert.Equal(t, "go title=main.go", attrs.Info)
	assert.Equal(t, "go", attrs.Language)
	assert.Equal(t, "package main\n\nfunc main() {}\n", string(attrs.Content))
}

func TestMapper_IndentedCodeBlock(t *testing.T) {
	root := parseGFM(t, "para\n\n    x := 1\n    y := 2\n")

	blocks := mdast.FindByKind(root, mdast.NodeCodeBlock)
	require.Len(t, blocks, 1)

	attrs := blocks[0].Block.CodeBlock
	assert.False(t, attrs.Fenced)
	assert.Empty(t, attrs.Language)
	assert.Equal(t, "x := 1\ny := 2\n", string(attrs.Content))
}

func TestMapper_Emphasis(t *testing.T) {
	root := parseGFM(t, "*em* and **strong**")

	ems := mdast.FindByKind(root, mdast.NodeEmphasis)
	strongs := mdast.FindByKind(root, mdast.NodeStrong)
	require.Len(t, ems, 1)
	require.Len(t, strongs, 1)

	assert.Equal(t, "em", mdast.PlainText(ems[0]))
	assert.Equal(t, "strong", mdast.PlainText(strongs[0]))
	assert.Equal(t, 2, strongs[0].Inline.EmphasisLevel)
}

func TestMapper_Breaks(t *testing.T) {
	root := parseGFM(t, "one\ntwo  \nthree")

	para := root.FirstChild
	require.NotNil(t, para)

	var kinds []mdast.NodeKind
	for _, child := range para.Children() {
		kinds = append(kinds, child.Kind)
	}

	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeText, mdast.NodeSoftBreak,
		mdast.NodeText, mdast.NodeHardBreak,
		mdast.NodeText,
	}, kinds)
	assert.Equal(t, "one two three", mdast.PlainText(para))
}

func TestMapper_Links(t *testing.T) {
	root := parseGFM(t, `[site](https://example.com "Example") and <https://go.dev> and ![logo](/logo.png)`)

	links := mdast.FindByKind(root, mdast.NodeLink)
	require.Len(t, links, 2)

	assert.Equal(t, "https://example.com", links[0].Inline.Link.Destination)
	assert.Equal(t, "Example", links[0].Inline.Link.Title)
	assert.Equal(t, "site", mdast.PlainText(links[0]))

	assert.True(t, links[1].Inline.Link.Autolink)
	assert.Equal(t, "https://go.dev", links[1].Inline.Link.Destination)
	assert.Equal(t, "https://go.dev", mdast.PlainText(links[1]))

	images := mdast.FindByKind(root, mdast.NodeImage)
	require.Len(t, images, 1)
	assert.Equal(t, "/logo.png", images[0].Inline.Link.Destination)
	assert.Equal(t, "logo", mdast.PlainText(images[0]))
}

func TestMapper_EscapesAndEntities(t *testing.T) {
	root := parseGFM(t, `a \*b\* AT&amp;T &copy; &#35; [x](/a\_b "say &quot;hi&quot;")`)

	para := root.FirstChild
	require.NotNil(t, para)
	assert.Equal(t, "a *b* AT&T © # x", mdast.PlainText(para))
	assert.Empty(t, mdast.FindByKind(root, mdast.NodeEmphasis))

	links := mdast.FindByKind(root, mdast.NodeLink)
	require.Len(t, links, 1)
	assert.Equal(t, "/a_b", links[0].Inline.Link.Destination)
	assert.Equal(t, `say "hi"`, links[0].Inline.Link.Title)
}

func TestMapper_CodeSpanKeepsEscapes(t *testing.T) {
	root := parseGFM(t, "`a \\*b &amp;`")

	spans := mdast.FindByKind(root, mdast.NodeCodeSpan)
	require.Len(t, spans, 1)
	assert.Equal(t, `a \*b &amp;`, string(spans[0].Inline.Text))
}

func TestMapper_CodeSpan(t *testing.T) {
	root := parseGFM(t, "run `go test ./...` now")

	spans := mdast.FindByKind(root, mdast.NodeCodeSpan)
	require.Len(t, spans, 1)
	assert.Equal(t, "go test ./...", string(spans[0].Inline.Text))
}

func TestMapper_HTML(t *testing.T) {
	root := parseGFM(t, "<div class=\"x\">\nhi\n</div>\n\ntext <b>bold</b>\n")

	blocks := mdast.FindByKind(root, mdast.NodeHTMLBlock)
	require.Len(t, blocks, 1)
	assert.Contains(t, string(blocks[0].Literal()), `<div class="x">`)

	inlines := mdast.FindByKind(root, mdast.NodeHTMLInline)
	require.Len(t, inlines, 2)
	assert.Equal(t, "<b>", string(inlines[0].Literal()))
	assert.Equal(t, "</b>", string(inlines[1].Literal()))
}

func TestMapper_Table(t *testing.T) {
	root := parseGFM(t, "| a | b | c |\n|:--|:-:|--:|\n| 1 | 2 | 3 |\n")

	assert.Empty(t, mdast.FindByKind(root, mdast.NodeRaw))

	tables := mdast.FindByKind(root, mdast.NodeTable)
	require.Len(t, tables, 1)

	headers := mdast.FindByKind(tables[0], mdast.NodeTableHeader)
	require.Len(t, headers, 1)
	assert.Len(t, mdast.FindByKind(tables[0], mdast.NodeTableRow), 1)

	cells := mdast.FindByKind(tables[0], mdast.NodeTableCell)
	require.Len(t, cells, 6)

	var texts []string
	for _, cell := range cells {
		texts = append(texts, mdast.PlainText(cell))
	}
	assert.Equal(t, []string{"a", "b", "c", "1", "2", "3"}, texts)

	assert.Equal(t, mdast.AlignLeft, cells[0].Block.Align)
	assert.Equal(t, mdast.AlignCenter, cells[1].Block.Align)
	assert.Equal(t, mdast.AlignRight, cells[5].Block.Align)
}

func TestMapper_TaskList(t *testing.T) {
	root := parseGFM(t, "- [x] done\n- [ ] todo\n")

	items := mdast.FindByKind(root, mdast.NodeListItem)
	require.Len(t, items, 2)
	assert.Equal(t, "☑ done", mdast.PlainText(items[0]))
	assert.Equal(t, "☐ todo", mdast.PlainText(items[1]))
}

func TestMapper_BlockquoteAndRule(t *testing.T) {
	root := parseGFM(t, "> quoted\n\n---\n")

	assert.Len(t, mdast.FindByKind(root, mdast.NodeBlockquote), 1)
	assert.Len(t, mdast.FindByKind(root, mdast.NodeThematicBreak), 1)
}
