// Package view defines the small element tree that folio pages are built from.
// Markdown documents, site chrome and static pages all produce view nodes;
// Render turns them into HTML through golang.org/x/net/html, which owns
// escaping of text and attribute values.
package view

import "strings"

// Kind identifies the variant of a view node.
type Kind uint8

const (
	// ElementKind is an HTML element with attributes and children.
	ElementKind Kind = iota

	// TextKind is escaped character data.
	TextKind

	// RawKind is trusted markup written verbatim.
	RawKind

	// FragmentKind groups children without a wrapping element.
	FragmentKind
)

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Key string
	Val string
}

// Node is a view fragment.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Children []*Node

	// Data holds the text for TextKind and markup for RawKind.
	Data string
}

// El creates an element. Nil children are skipped.
func El(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{Kind: ElementKind, Tag: tag, Attrs: attrs}
	return n.Append(children...)
}

// Text creates a text node.
func Text(s string) *Node {
	return &Node{Kind: TextKind, Data: s}
}

// Raw creates a node whose markup is written without escaping.
// Only pass markup that has been sanitized or generated by folio itself.
func Raw(s string) *Node {
	return &Node{Kind: RawKind, Data: s}
}

// Fragment groups children without a wrapping element.
func Fragment(children ...*Node) *Node {
	n := &Node{Kind: FragmentKind}
	return n.Append(children...)
}

// Append adds non-nil children and returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(key, val string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

// AddClass appends class names to the class attribute.
func (n *Node) AddClass(classes ...string) *Node {
	joined := strings.TrimSpace(strings.Join(classes, " "))
	if joined == "" {
		return n
	}
	if existing, ok := n.Attr("class"); ok && existing != "" {
		return n.SetAttr("class", existing+" "+joined)
	}
	return n.SetAttr("class", joined)
}

// TextContent returns the concatenated text of n and its descendants.
// Raw markup is not included.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.textContent(&b)
	return b.String()
}

func (n *Node) textContent(b *strings.Builder) {
	if n.Kind == TextKind {
		b.WriteString(n.Data)
		return
	}
	for _, child := range n.Children {
		child.textContent(b)
	}
}

// Attrs builds an attribute list from key/value pairs. Pairs with an empty
// value are dropped; a trailing odd key is ignored.
func Attrs(kv ...string) []Attr {
	attrs := make([]Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		attrs = append(attrs, Attr{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}

// Class is shorthand for a single class attribute.
func Class(class string) []Attr {
	return Attrs("class", class)
}

// Link creates an anchor element.
func Link(href, class string, children ...*Node) *Node {
	return El("a", Attrs("href", href, "class", class), children...)
}
