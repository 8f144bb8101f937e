package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Title is the site title written into the template.
	Title string

	// Author is written into the template when set.
	Author string

	// PostsSource overrides the default posts directory.
	PostsSource string
}

// templateField documents one key of the generated template.
type templateField struct {
	key     string
	value   string
	comment string
}

// GenerateTemplate creates a commented .folio.yml for `folio init`.
// The output parses with FromYAML.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	defaults := NewConfig()

	title := opts.Title
	if title == "" {
		title = defaults.Site.Title
	}
	source := opts.PostsSource
	if source == "" {
		source = defaults.Posts.Source
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	writeSection(&buf, "site", []templateField{
		{"title", quote(title), "Site name shown in the header and page titles"},
		{"tagline", quote("Notes, projects and experiments"), "Shown under the title on the landing page"},
		{"author", quote(opts.Author), "Used in the footer copyright line"},
		{"base_url", quote(""), "Public URL; links to other hosts open in a new tab"},
		{"language", defaults.Site.Language, ""},
		{"latest_posts", fmt.Sprint(defaults.Site.LatestPosts), "Posts listed on the landing page"},
		{"intro", "|\n    Welcome! This site is built with **folio**.", "Markdown shown on the landing page"},
		{"about", "|\n    # About\n\n    Write something about yourself here.", "Markdown for the about page"},
	})
	buf.WriteString(`  # projects:
  #   - name: folio
  #     description: A Markdown blog served from Go
  #     url: https://example.com/folio
  #     tags: [go, web]
  # contacts:
  #   - label: Email
  #     url: me@example.com
  #   - label: GitHub
  #     url: https://github.com/me

`)

	writeSection(&buf, "posts", []templateField{
		{"source", quote(source), "Directory of Markdown files, or an http(s) base URL"},
		{"drafts", "false", "Include posts marked draft: true"},
		{"fetch_timeout", defaults.Posts.FetchTimeout.String(), ""},
	})
	buf.WriteString("\n")

	writeSection(&buf, "markdown", []templateField{
		{"flavor", string(defaults.Markdown.Flavor), "commonmark or gfm"},
		{"hard_wraps", "false", "Render single line breaks as <br>"},
		{"heading_links", "true", "Append a # link to every heading"},
		{"highlight", "true", "Syntax highlight fenced code blocks"},
		{"highlight_style", defaults.Markdown.HighlightStyle, "Any chroma style name"},
		{"detect_language", "true", "Guess the language of unlabeled code blocks"},
		{"html", string(defaults.Markdown.HTML), "Raw HTML in posts: sanitize, escape or unsafe"},
	})
	buf.WriteString("\n")

	writeSection(&buf, "server", []templateField{
		{"addr", quote(defaults.Server.Addr), ""},
		{"watch", "false", "Reload posts when files change"},
		{"read_timeout", defaults.Server.ReadTimeout.String(), ""},
		{"write_timeout", defaults.Server.WriteTimeout.String(), ""},
		{"shutdown_timeout", defaults.Server.ShutdownTimeout.String(), ""},
	})
	buf.WriteString("\n")

	writeSection(&buf, "build", []templateField{
		{"out_dir", defaults.Build.OutDir, ""},
		{"jobs", "0", "Concurrent page renders (0 = one per CPU)"},
	})
	buf.WriteString("\n")

	buf.WriteString("# debug, info, warn or error\n")
	buf.WriteString("log_level: " + defaults.LogLevel + "\n")

	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, name string, fields []templateField) {
	buf.WriteString(name + ":\n")
	for _, f := range fields {
		if f.comment != "" {
			buf.WriteString("  # " + wrapComment(f.comment, commentWrapWidth) + "\n")
		}
		fmt.Fprintf(buf, "  %s: %s\n", f.key, f.value)
	}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# folio configuration
# Values below are the defaults; delete what you do not change.`
}
