package render

// Theme names the CSS classes attached to each rendered Markdown element.
// Empty names emit no class attribute.
type Theme struct {
	Article     string
	Heading     string
	Anchor      string
	Paragraph   string
	Blockquote  string
	Rule        string
	BulletList  string
	OrderedList string
	ListItem    string
	CodeBlock   string
	CodeSpan    string
	Emphasis    string
	Strong      string
	Strike      string
	Link        string
	External    string
	Image       string
	HTML        string
	Table       string
}

// DefaultTheme returns the class names used by the bundled stylesheet.
func DefaultTheme() Theme {
	return Theme{
		Article:     "prose",
		Heading:     "prose-heading",
		Anchor:      "anchor",
		Paragraph:   "prose-p",
		Blockquote:  "prose-quote",
		Rule:        "prose-rule",
		BulletList:  "prose-ul",
		OrderedList: "prose-ol",
		ListItem:    "prose-li",
		CodeBlock:   "code-block",
		CodeSpan:    "code-inline",
		Emphasis:    "",
		Strong:      "",
		Strike:      "",
		Link:        "prose-link",
		External:    "external",
		Image:       "prose-img",
		HTML:        "embedded",
		Table:       "prose-table",
	}
}
