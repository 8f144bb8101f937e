// Package mdast provides the Markdown AST that folio renders into pages.
// It decouples the view mapper from the parser library:
// - Document: the source bytes and the parsed tree
// - Node: structural representation with block and inline attributes
package mdast

import (
	"bytes"
	"strings"
)

// Document is a parsed Markdown file.
type Document struct {
	// Path is the logical source name (may be empty for in-memory content).
	Path string

	// Source is the Markdown body that was parsed, without front matter.
	Source []byte

	// Root is the AST root node (Document).
	Root *Node
}

// PlainText returns the concatenated text of all descendants of n.
// Soft and hard breaks contribute a single space.
func PlainText(n *Node) string {
	if n == nil {
		return ""
	}

	var buf bytes.Buffer

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(n, func(node *Node) error {
		switch node.Kind {
		case NodeText, NodeCodeSpan:
			if node.Inline != nil {
				buf.Write(node.Inline.Text)
			}
		case NodeSoftBreak, NodeHardBreak:
			buf.WriteByte(' ')
		case NodeCodeBlock, NodeHTMLBlock, NodeHTMLInline:
			return ErrSkipChildren
		}
		return nil
	})

	return strings.TrimSpace(buf.String())
}

// FirstHeading returns the first heading of the given level, or nil.
func (d *Document) FirstHeading(level int) *Node {
	if d == nil {
		return nil
	}
	return FindFirst(d.Root, func(n *Node) bool {
		return n.HeadingLevel() == level
	})
}

// WordCount counts whitespace-separated words in prose, skipping code blocks
// and raw HTML.
func (d *Document) WordCount() int {
	if d == nil || d.Root == nil {
		return 0
	}

	count := 0

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(d.Root, func(node *Node) error {
		switch node.Kind {
		case NodeCodeBlock, NodeHTMLBlock, NodeHTMLInline:
			return ErrSkipChildren
		case NodeText, NodeCodeSpan:
			if node.Inline != nil {
				count += len(bytes.Fields(node.Inline.Text))
			}
		}
		return nil
	})

	return count
}
