package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/folio/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast.Node tree.
type mapper struct {
	content []byte
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

// mapDocument converts a goldmark document node to an mdast.Node tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument()
	m.mapChildren(gmDoc, doc)
	return doc
}

// mapChildren recursively maps all children of a goldmark node to mdast nodes.
// Text nodes that end a line also emit the matching break node.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if mdNode := m.mapNode(child); mdNode != nil {
			mdast.AppendChild(parent, mdNode)
		}

		if textNode, ok := child.(*ast.Text); ok {
			switch {
			case textNode.HardLineBreak():
				mdast.AppendChild(parent, mdast.NewNode(mdast.NodeHardBreak))
			case textNode.SoftLineBreak():
				mdast.AppendChild(parent, mdast.NewNode(mdast.NodeSoftBreak))
			}
		}
	}
}

// mapNode converts a single goldmark node to an mdast.Node.
func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	var node *mdast.Node

	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Document:
		node = mdast.NewNode(mdast.NodeDocument)
		m.mapChildren(gmNode, node)

	case *ast.Heading:
		node = mdast.NewNode(mdast.NodeHeading)
		node.Block = mdast.NewBlockAttrs().WithHeadingLevel(gmn.Level)
		m.mapChildren(gmn, node)

	case *ast.Paragraph, *ast.TextBlock:
		// Tight list items hold a TextBlock; the renderer decides whether
		// to unwrap it based on the list's tightness.
		node = mdast.NewNode(mdast.NodeParagraph)
		m.mapChildren(gmNode, node)

	case *ast.List:
		node = m.mapList(gmn)

	case *ast.ListItem:
		node = mdast.NewNode(mdast.NodeListItem)
		m.mapChildren(gmNode, node)

	case *ast.Blockquote:
		node = mdast.NewNode(mdast.NodeBlockquote)
		m.mapChildren(gmNode, node)

	case *ast.FencedCodeBlock:
		node = m.mapFencedCodeBlock(gmn)

	case *ast.CodeBlock:
		node = m.mapIndentedCodeBlock(gmn)

	case *ast.ThematicBreak:
		node = mdast.NewNode(mdast.NodeThematicBreak)

	case *ast.HTMLBlock:
		node = m.mapHTMLBlock(gmn)

	// Inline-level nodes.
	case *ast.Text:
		value := gmn.Value(m.content)
		if !gmn.IsRaw() {
			value = unescape(value)
		}
		node = mdast.NewText(value)

	case *ast.String:
		node = mdast.NewText(gmn.Value)

	case *ast.Emphasis:
		node = m.mapEmphasis(gmn)

	case *ast.CodeSpan:
		node = m.mapCodeSpan(gmn)

	case *ast.Link:
		node = m.mapLink(gmn.Destination, gmn.Title, mdast.NodeLink)
		m.mapChildren(gmn, node)

	case *ast.Image:
		node = m.mapLink(gmn.Destination, gmn.Title, mdast.NodeImage)
		m.mapChildren(gmn, node)

	case *ast.AutoLink:
		node = m.mapAutoLink(gmn)

	case *ast.RawHTML:
		node = m.mapRawHTML(gmn)

	// GFM extension nodes.
	case *east.Strikethrough:
		node = mdast.NewNode(mdast.NodeStrikethrough)
		m.mapChildren(gmn, node)

	case *east.TaskCheckBox:
		node = m.mapTaskCheckBox(gmn)

	case *east.Table:
		node = mdast.NewNode(mdast.NodeTable)
		m.mapChildren(gmn, node)

	case *east.TableHeader:
		node = mdast.NewNode(mdast.NodeTableHeader)
		m.mapChildren(gmn, node)

	case *east.TableRow:
		node = mdast.NewNode(mdast.NodeTableRow)
		m.mapChildren(gmn, node)

	case *east.TableCell:
		node = mdast.NewNode(mdast.NodeTableCell)
		node.Block = mdast.NewBlockAttrs().WithAlign(cellAlign(gmn.Alignment))
		m.mapChildren(gmn, node)

	default:
		// Anything else falls back to a raw container.
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"kind": gmNode.Kind().String()}
		m.mapChildren(gmNode, node)
	}

	return node
}

// mapList converts a goldmark List to an mdast node.
func (m *mapper) mapList(list *ast.List) *mdast.Node {
	node := mdast.NewNode(mdast.NodeList)

	listAttrs := &mdast.ListAttrs{
		Ordered:     list.IsOrdered(),
		StartNumber: list.Start,
		Tight:       list.IsTight,
	}
	if !list.IsOrdered() {
		listAttrs.BulletMarker = string(list.Marker)
	}

	node.Block = mdast.NewBlockAttrs().WithList(listAttrs)
	m.mapChildren(list, node)
	return node
}

// mapFencedCodeBlock converts a goldmark FencedCodeBlock to an mdast node.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)

	info := ""
	if codeBlock.Info != nil {
		info = strings.TrimSpace(string(codeBlock.Info.Value(m.content)))
	}

	node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
		Info:     info,
		Language: string(codeBlock.Language(m.content)),
		Fenced:   true,
		Content:  m.linesContent(codeBlock),
	})
	return node
}

// mapIndentedCodeBlock converts a goldmark indented CodeBlock to an mdast node.
func (m *mapper) mapIndentedCodeBlock(codeBlock *ast.CodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
		Content: m.linesContent(codeBlock),
	})
	return node
}

// mapHTMLBlock keeps the literal markup of an HTML block, closure line included.
func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock) *mdast.Node {
	raw := m.linesContent(block)
	if block.HasClosure() {
		raw = append(raw, block.ClosureLine.Value(m.content)...)
	}

	node := mdast.NewNode(mdast.NodeHTMLBlock)
	node.Ext = map[string]any{mdast.ExtHTML: raw}
	return node
}

// mapRawHTML keeps the literal markup of inline HTML.
func (m *mapper) mapRawHTML(raw *ast.RawHTML) *mdast.Node {
	var buf bytes.Buffer
	for i := range raw.Segments.Len() {
		seg := raw.Segments.At(i)
		buf.Write(seg.Value(m.content))
	}

	node := mdast.NewNode(mdast.NodeHTMLInline)
	node.Ext = map[string]any{mdast.ExtHTML: buf.Bytes()}
	return node
}

// linesContent concatenates the source lines of a block node.
func (m *mapper) linesContent(n ast.Node) []byte {
	lines := n.Lines()
	var buf bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(m.content))
	}
	return buf.Bytes()
}

// mapEmphasis converts a goldmark Emphasis node to an mdast node.
func (m *mapper) mapEmphasis(emphasis *ast.Emphasis) *mdast.Node {
	var node *mdast.Node

	if emphasis.Level == 2 {
		node = mdast.NewNode(mdast.NodeStrong)
		node.Inline = mdast.NewInlineAttrs().WithEmphasisLevel(2)
	} else {
		node = mdast.NewNode(mdast.NodeEmphasis)
		node.Inline = mdast.NewInlineAttrs().WithEmphasisLevel(1)
	}

	m.mapChildren(emphasis, node)
	return node
}

// mapCodeSpan converts a goldmark CodeSpan to an mdast node.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	var text []byte
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			text = append(text, c.Value(m.content)...)
			if c.SoftLineBreak() {
				text = append(text, ' ')
			}
		case *ast.String:
			text = append(text, c.Value...)
		}
	}

	node.Inline = mdast.NewInlineAttrs().WithText(text)
	return node
}

// mapLink builds a link or image node; children are mapped by the caller.
func (m *mapper) mapLink(destination, title []byte, kind mdast.NodeKind) *mdast.Node {
	node := mdast.NewNode(kind)
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
		Destination: string(unescape(destination)),
		Title:       string(unescape(title)),
	})
	return node
}

// unescape resolves backslash escapes and character references in link
// destinations, titles and text.
func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// cellAlign converts a GFM column alignment.
func cellAlign(align east.Alignment) mdast.CellAlign {
	switch align {
	case east.AlignLeft:
		return mdast.AlignLeft
	case east.AlignCenter:
		return mdast.AlignCenter
	case east.AlignRight:
		return mdast.AlignRight
	default:
		return mdast.AlignNone
	}
}

// mapAutoLink converts a goldmark AutoLink to a link with its label as text.
func (m *mapper) mapAutoLink(al *ast.AutoLink) *mdast.Node {
	node := mdast.NewNode(mdast.NodeLink)

	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
		Destination: string(al.URL(m.content)),
		Autolink:    true,
	})
	mdast.AppendChild(node, mdast.NewText(al.Label(m.content)))

	return node
}

// mapTaskCheckBox renders a GFM task marker as a text glyph.
func (m *mapper) mapTaskCheckBox(cb *east.TaskCheckBox) *mdast.Node {
	glyph := "☐ "
	if cb.IsChecked {
		glyph = "☑ "
	}
	node := mdast.NewText([]byte(glyph))
	node.Ext = map[string]any{"checked": cb.IsChecked}
	return node
}
