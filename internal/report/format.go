package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/wattfource/envdiag/internal/sysinfo"
)

// Format selects a rendering
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --format values
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatMarkdown)}
}

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected %s)", s, strings.Join(Formats(), ", "))
	}
}

// Write renders r to w. width is the wrap width for markdown, 0 for 80.
func Write(w io.Writer, r *Report, format Format, width int) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, Text(r))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		out, err := RenderMarkdown(r, width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderMarkdown styles Markdown(r) for the terminal
func RenderMarkdown(r *Report, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Markdown lays the report out as plain markdown
func Markdown(r *Report) string {
	var b strings.Builder
	b.WriteString("# Environment & resolution diagnostics\n\n")
	b.WriteString("_" + r.Time.Format("2006-01-02 15:04:05 MST") + "_\n\n")

	b.WriteString("## Window\n\n")
	if g := r.Window.Geometry; g != nil {
		fmt.Fprintf(&b, "- **Size:** %s\n- **Bounds:** %s\n- **State:** %s\n- **Decorations:** %s\n- **Source:** %s\n",
			g.SizeString(), g.Bounds, g.State, g.Decorations, g.Source)
	}
	if r.Window.Error != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", r.Window.Error)
	}

	b.WriteString("\n## Screens\n\n")
	if r.Screens.Error != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Screens.Error)
	}
	if len(r.Screens.Monitors) > 0 {
		b.WriteString("| # | ID | Bounds | Usable | Scale | Depth | Refresh |\n")
		b.WriteString("|---|----|--------|--------|-------|-------|---------|\n")
		for _, m := range r.Screens.Monitors {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s×%s | %d | %s Hz |\n",
				m.Index+1, cell(m.ID), m.Bounds, m.Usable(), decimal(m.ScaleX), decimal(m.ScaleY),
				m.BitDepth, decimal(m.RefreshHz))
		}
	}

	b.WriteString("\n## Desktop environment\n\n")
	kvTable(&b, r.Desktop)
	if len(r.DesktopShell.Lines) > 0 || r.DesktopShell.Error != "" {
		b.WriteString("\n```\n")
		for _, line := range r.DesktopShell.Lines {
			b.WriteString(line + "\n")
		}
		if r.DesktopShell.Error != "" {
			b.WriteString("error: " + r.DesktopShell.Error + "\n")
		}
		b.WriteString("```\n")
	}

	b.WriteString("\n## Environment variables\n\n")
	kvTable(&b, r.Variables)

	b.WriteString("\n## Platform properties\n\n")
	kvTable(&b, r.Properties)

	b.WriteString("\n## Crostini\n\n")
	fmt.Fprintf(&b, "- **Kernel:** %s\n- **Likely Crostini:** %t\n- **Hardware:** %s\n",
		cell(r.Crostini.KernelVersion), r.Crostini.Likely, cell(r.Crostini.Hardware))
	if r.Crostini.Error != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", r.Crostini.Error)
	}
	return b.String()
}

func kvTable(b *strings.Builder, kvs []sysinfo.KV) {
	b.WriteString("| Name | Value |\n|------|-------|\n")
	for _, kv := range kvs {
		v := "`" + cell(kv.Value) + "`"
		if !kv.Set {
			v = "_" + sysinfo.NotSet + "_"
		}
		fmt.Fprintf(b, "| %s | %s |\n", cell(kv.Key), v)
	}
}

// cell escapes characters that would break a table row
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
