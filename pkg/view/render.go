package view

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes n as HTML.
func Render(w io.Writer, n *Node) error {
	for _, hn := range toHTML(n) {
		if err := html.Render(w, hn); err != nil {
			return fmt.Errorf("render %s: %w", describe(n), err)
		}
	}
	return nil
}

// String renders n to a string. Rendering into memory cannot fail for
// well-formed trees; errors yield an empty string.
func String(n *Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// RenderDocument writes a complete HTML5 document with the given head and
// body content.
func RenderDocument(w io.Writer, lang string, head, body *Node) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := newElement("html", Attrs("lang", lang))
	headEl := newElement("head", nil)
	bodyEl := newElement("body", nil)
	for _, hn := range toHTML(head) {
		headEl.AppendChild(hn)
	}
	for _, hn := range toHTML(body) {
		bodyEl.AppendChild(hn)
	}
	root.AppendChild(headEl)
	root.AppendChild(bodyEl)
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// toHTML converts a view node into html nodes. Fragments expand to their
// children, so the result may hold zero or more nodes.
func toHTML(n *Node) []*html.Node {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case TextKind:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case RawKind:
		return []*html.Node{{Type: html.RawNode, Data: n.Data}}
	case FragmentKind:
		var out []*html.Node
		for _, child := range n.Children {
			out = append(out, toHTML(child)...)
		}
		return out
	default:
		el := newElement(n.Tag, n.Attrs)
		for _, child := range n.Children {
			for _, hn := range toHTML(child) {
				el.AppendChild(hn)
			}
		}
		return []*html.Node{el}
	}
}

func newElement(tag string, attrs []Attr) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	return el
}

func describe(n *Node) string {
	if n == nil {
		return "nil"
	}
	if n.Kind == ElementKind {
		return "<" + n.Tag + ">"
	}
	return "fragment"
}
