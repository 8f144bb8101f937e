package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/folio/internal/export"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatBuildOneLine formats export statistics as a single line.
// Example: "Built 12 files (3 written, 9 unchanged) in 120ms".
func (s *Styles) FormatBuildOneLine(stats export.Stats, duration string) string {
	total := stats.Total()
	counts := fmt.Sprintf("%d written, %d unchanged", stats.Written, stats.Unchanged)

	if stats.Failed > 0 {
		return s.Failure(fmt.Sprintf("Build failed: %d %s", stats.Failed, plural(stats.Failed, wordFile, wordFiles))) +
			s.Dim.Render(" ("+counts+")") + "\n"
	}

	line := s.Success.Render(fmt.Sprintf("Built %d %s", total, plural(total, wordFile, wordFiles))) +
		s.Dim.Render(" ("+counts+")")
	if duration != "" {
		line += s.Dim.Render(" in " + duration)
	}
	return line + "\n"
}

// Failure renders text in the error style.
func (s *Styles) Failure(text string) string {
	return s.Error.Render(text)
}

// FormatBuildSummary formats an export result as a summary block listing
// any failed files.
func (s *Styles) FormatBuildSummary(result *export.Result, outDir string) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Output:     " + s.SummaryValue.Render(outDir) + "\n")
	builder.WriteString("  Written:    " + s.SummaryValue.Render(strconv.Itoa(result.Stats.Written)) + "\n")
	builder.WriteString("  Unchanged:  " + s.SummaryValue.Render(strconv.Itoa(result.Stats.Unchanged)) + "\n")

	if result.Stats.Failed > 0 {
		builder.WriteString("  Failed:     " + s.Failure(strconv.Itoa(result.Stats.Failed)) + "\n")
		for _, f := range result.Files {
			if f.Error == nil {
				continue
			}
			builder.WriteString("    " + s.Bold.Render(f.File) + "  " + s.Dim.Render(f.Error.Error()) + "\n")
		}
	}

	return builder.String()
}
