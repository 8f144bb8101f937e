// Package langdetect picks the language of code blocks for highlighting.
// Fence info strings are normalized through go-enry aliases; unlabeled
// blocks are classified from their content.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// classifierCandidates limits the enry classifier to languages a blog is
// likely to show.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// pattern recognizes a language from unmistakable content.
type pattern struct {
	lang  string
	match func(content, trimmed []byte) bool
}

//nolint:gochecknoglobals // Read-only lookup table, checked in order of specificity.
var patterns = []pattern{
	{"go", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"python", func(content, _ []byte) bool {
		s := string(content)
		return (strings.Contains(s, "def ") && strings.Contains(s, "):")) ||
			strings.Contains(s, "__name__")
	}},
	{"html", func(_, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		return bytes.Contains(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
	}},
	{"json", func(_, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`":`))
	}},
	{"dockerfile", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) && bytes.Contains(trimmed, []byte("\nRUN "))
	}},
	{"sql", func(_, trimmed []byte) bool {
		upper := strings.ToUpper(string(trimmed))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(content, _ []byte) bool {
		s := string(content)
		return strings.Contains(s, "fn main()") || strings.Contains(s, "println!") || strings.Contains(s, "let mut ")
	}},
	{"javascript", func(content, _ []byte) bool {
		s := string(content)
		return strings.Contains(s, "=>") || strings.Contains(s, "console.log")
	}},
	{"yaml", func(content, _ []byte) bool {
		keys := 0
		for _, line := range bytes.Split(content, []byte("\n")) {
			line = bytes.TrimSpace(line)
			if bytes.HasPrefix(line, []byte("- ")) ||
				(bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({\"")) {
				keys++
			}
		}
		return keys >= 2
	}},
}

// Detect returns the detected language for code content.
// Returns Text if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	// Shebang first, it is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	trimmed := bytes.TrimSpace(content)
	for _, p := range patterns {
		if p.match(content, trimmed) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// Normalize maps a fence info language such as "golang", "sh" or "JS" to the
// lowercase tag folio uses for CSS classes and lexer lookup. Unknown names are
// lowercased and returned unchanged.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(name); ok {
		return normalize(lang)
	}
	return strings.ToLower(name)
}

// ForCodeBlock resolves the language of a code block from its fence language,
// falling back to content detection when detect is set.
func ForCodeBlock(language string, content []byte, detect bool) string {
	if lang := Normalize(language); lang != "" {
		return lang
	}
	if !detect {
		return ""
	}
	return Detect(content)
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
