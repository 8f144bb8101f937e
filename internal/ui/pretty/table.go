package pretty

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/folio/internal/source"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // DATE, SLUG, TITLE, TAGS
	dateWidth        = 10
	minSlugWidth     = 8
	minTitleWidth    = 20
	minTagsWidth     = 4
	heavySeparator   = "="
	draftMarker      = " (draft)"
	noDate           = "-"
	ellipsis         = "…"
)

// TableRow represents a single post in the table.
type TableRow struct {
	Date  string
	Slug  string
	Title string
	Tags  string
	Draft bool
}

// RowFromEntry converts a post entry into a table row.
func RowFromEntry(e source.Entry) TableRow {
	date := noDate
	if !e.Date.IsZero() {
		date = e.Date.Format(time.DateOnly)
	}
	return TableRow{
		Date:  date,
		Slug:  e.Slug,
		Title: e.Title,
		Tags:  strings.Join(e.Tags, ", "),
		Draft: e.Draft,
	}
}

// TableFormatter formats posts as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type columnWidths struct {
	slug  int
	title int
	tags  int
}

// FormatPosts formats entries as a table, one row per post.
func (t *TableFormatter) FormatPosts(entries []source.Entry) string {
	if len(entries) == 0 {
		return t.styles.Dim.Render("No posts found") + "\n"
	}

	rows := make([]TableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, RowFromEntry(e))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths sizes columns to their content, shrinking the title
// and then the tags to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		slug:  minSlugWidth,
		title: minTitleWidth,
		tags:  minTagsWidth,
	}

	for _, row := range rows {
		widths.slug = max(widths.slug, lipgloss.Width(row.Slug))
		title := row.Title
		if row.Draft {
			title += draftMarker
		}
		widths.title = max(widths.title, lipgloss.Width(title))
		widths.tags = max(widths.tags, lipgloss.Width(row.Tags))
	}

	if total := calculateTotalWidth(widths); total > t.termWidth {
		widths.title = max(minTitleWidth, widths.title-(total-t.termWidth))
	}
	if total := calculateTotalWidth(widths); total > t.termWidth {
		widths.tags = max(minTagsWidth, widths.tags-(total-t.termWidth))
	}

	return widths
}

func calculateTotalWidth(widths columnWidths) int {
	return dateWidth + widths.slug + widths.title + widths.tags + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := " " + pad("DATE", dateWidth) + "  " +
		pad("SLUG", widths.slug) + "  " +
		pad("TITLE", widths.title) + "  " +
		pad("TAGS", widths.tags)
	return t.styles.TableHeader.Render(strings.TrimRight(header, " "))
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	title := t.styles.Title.Render(truncate(row.Title, widths.title))
	titleWidth := lipgloss.Width(truncate(row.Title, widths.title))
	if row.Draft && titleWidth+lipgloss.Width(draftMarker) <= widths.title {
		title += t.styles.Draft.Render(draftMarker)
		titleWidth += lipgloss.Width(draftMarker)
	}
	title += strings.Repeat(" ", max(0, widths.title-titleWidth))

	line := " " + t.styles.Date.Render(pad(row.Date, dateWidth)) + "  " +
		t.styles.Slug.Render(pad(truncate(row.Slug, widths.slug), widths.slug)) + "  " +
		title
	if row.Tags == "" {
		return strings.TrimRight(line, " ")
	}
	return line + "  " + t.styles.Tag.Render(truncate(row.Tags, widths.tags))
}

// pad right-pads s with spaces to width display cells.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// truncate shortens s to at most maxLen display cells, ending in an ellipsis.
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
