package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/folio/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", langdetect.Text},
		{"whitespace", "  \n\t", langdetect.Text},
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go code", "package main\n\nfunc main() {}\n", "go"},
		{"python code", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"javascript code", "const x = () => { return 42; };\nconsole.log(x());", "javascript"},
		{"json object", `{"key": "value", "number": 123}`, "json"},
		{"yaml content", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml"},
		{"rust code", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust"},
		{"sql", "SELECT id FROM posts WHERE draft = false;", "sql"},
		{"html", "<!DOCTYPE html>\n<html><body></body></html>", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Looks like JavaScript but the shebang says Python.
	content := "#!/usr/bin/env python\nx = () => 1"
	assert.Equal(t, "python", langdetect.Detect([]byte(content)))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"go", "go"},
		{"golang", "go"},
		{"Go", "go"},
		{"sh", "bash"},
		{"bash", "bash"},
		{"js", "javascript"},
		{"python3", "python"},
		{"not-a-language", "not-a-language"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Normalize(tt.in))
		})
	}
}

func TestForCodeBlock(t *testing.T) {
	t.Parallel()

	goCode := []byte("package main\n")

	assert.Equal(t, "python", langdetect.ForCodeBlock("python", goCode, true), "fence language wins")
	assert.Equal(t, "go", langdetect.ForCodeBlock("", goCode, true))
	assert.Empty(t, langdetect.ForCodeBlock("", goCode, false))
}
