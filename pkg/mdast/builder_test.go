package mdast_test

import (
	"testing"

	"github.com/yaklabco/folio/pkg/mdast"
)

func TestNewNode(t *testing.T) {
	t.Parallel()

	node := mdast.NewNode(mdast.NodeParagraph)

	if node.Kind != mdast.NodeParagraph {
		t.Errorf("expected Paragraph, got %s", node.Kind)
	}

	if node.Parent != nil || node.FirstChild != nil || node.LastChild != nil {
		t.Error("expected nil parent and children")
	}
}

func TestNewText_CopiesInput(t *testing.T) {
	t.Parallel()

	src := []byte("hello")
	node := mdast.NewText(src)
	src[0] = 'j'

	if string(node.Inline.Text) != "hello" {
		t.Errorf("expected text to be copied, got %q", node.Inline.Text)
	}
}

func TestAppendChild(t *testing.T) {
	t.Parallel()

	parent := mdast.NewDocument()
	child1 := mdast.NewNode(mdast.NodeParagraph)
	child2 := mdast.NewNode(mdast.NodeHeading)

	mdast.AppendChild(parent, child1)

	if parent.FirstChild != child1 || parent.LastChild != child1 {
		t.Error("first child not set correctly")
	}

	mdast.AppendChild(parent, child2)

	if parent.FirstChild != child1 || parent.LastChild != child2 {
		t.Error("children not linked in order")
	}
	if child1.Next != child2 || child2.Prev != child1 {
		t.Error("sibling pointers not set")
	}
	if parent.ChildCount() != 2 {
		t.Errorf("expected 2 children, got %d", parent.ChildCount())
	}
}

func TestAppendChild_Reparents(t *testing.T) {
	t.Parallel()

	first := mdast.NewDocument()
	second := mdast.NewDocument()
	child := mdast.NewNode(mdast.NodeParagraph)

	mdast.AppendChild(first, child)
	mdast.AppendChild(second, child)

	if first.HasChildren() {
		t.Error("child should have been removed from previous parent")
	}
	if child.Parent != second {
		t.Error("child parent not updated")
	}
}

func TestInsertAfter(t *testing.T) {
	t.Parallel()

	parent := mdast.NewNode(mdast.NodeParagraph)
	text := mdast.NewText([]byte("a"))
	brk := mdast.NewNode(mdast.NodeSoftBreak)
	mdast.AppendChild(parent, text)

	mdast.InsertAfter(text, brk)

	if parent.LastChild != brk || text.Next != brk || brk.Prev != text {
		t.Error("InsertAfter did not link the new node")
	}
}

func TestRemoveChild(t *testing.T) {
	t.Parallel()

	parent := mdast.NewDocument()
	a := mdast.NewNode(mdast.NodeParagraph)
	b := mdast.NewNode(mdast.NodeParagraph)
	c := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(parent, a)
	mdast.AppendChild(parent, b)
	mdast.AppendChild(parent, c)

	mdast.RemoveChild(parent, b)

	if a.Next != c || c.Prev != a {
		t.Error("siblings not relinked")
	}
	if b.Parent != nil || b.Prev != nil || b.Next != nil {
		t.Error("removed node still linked")
	}

	// Removing from the wrong parent is a no-op.
	mdast.RemoveChild(mdast.NewDocument(), a)
	if a.Parent != parent {
		t.Error("RemoveChild with wrong parent should not detach")
	}
}
