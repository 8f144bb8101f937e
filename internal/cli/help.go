package cli

import (
	"cmp"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/folio/internal/ui/pretty"
)

// flagToken matches a flag name in a usage line, such as -o or --out.
var flagToken = regexp.MustCompile(`(^|[\s,])(--?[A-Za-z0-9][\w-]*)`)

// helpTheme holds the styles used in command help.
type helpTheme struct {
	command lipgloss.Style
	heading lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpTheme(colorEnabled bool) helpTheme {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpTheme{command: plain, heading: plain, flag: plain, dim: plain}
	}
	return helpTheme{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// flagUsages styles the flag names in a flag set's usage text.
func (t helpTheme) flagUsages(flags interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimRight(flags.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		name, desc, ok := splitColumns(line)
		if !ok {
			continue
		}
		name = flagToken.ReplaceAllStringFunc(name, func(m string) string {
			sub := flagToken.FindStringSubmatch(m)
			return sub[1] + t.flag.Render(sub[2])
		})
		lines[i] = name + desc
	}
	return strings.Join(lines, "\n")
}

// examples styles the command part of each example line.
func (t helpTheme) examples(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		name, desc, ok := splitColumns(line)
		if !ok {
			lines[i] = t.command.Render(line)
			continue
		}
		lines[i] = t.command.Render(name) + t.dim.Render(desc)
	}
	return strings.Join(lines, "\n")
}

// splitColumns splits a line at the first gap of two or more spaces after
// the indentation, keeping the gap with the second column.
func splitColumns(line string) (string, string, bool) {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	gap := strings.Index(line[indent:], "  ")
	if gap < 0 {
		return line, "", false
	}
	return line[:indent+gap], line[indent+gap:], true
}

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{examples .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if .IsAvailableCommand}}
  {{command (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// applyHelp installs styled usage and help output on root. Subcommands
// inherit both.
func applyHelp(root *cobra.Command, colorMode string, w io.Writer) {
	theme := newHelpTheme(pretty.IsColorEnabled(colorMode, w))

	usage := template.Must(template.New("usage").Funcs(template.FuncMap{
		"heading":  theme.heading.Render,
		"command":  theme.command.Render,
		"flags":    theme.flagUsages,
		"examples": theme.examples,
		"rpad": func(s string, n int) string {
			return fmt.Sprintf("%-*s", n, s)
		},
	}).Parse(usageTemplate))

	root.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		if text := strings.TrimSpace(cmp.Or(c.Long, c.Short)); text != "" {
			_, _ = fmt.Fprintf(out, "%s\n\n", text)
		}
		_ = usage.Execute(out, c)
	})
}
