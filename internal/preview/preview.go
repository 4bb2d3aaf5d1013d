// Package preview renders merge templates for the terminal: a markdown
// summary, a YAML diff between two versions and highlighted YAML.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/placeholder"
)

const maxWidth = 120

// Markdown builds the markdown summary of t.
func Markdown(t *mergetemplate.Template) string {
	cfg := t.ToConfig()
	md := cfg.MergeData

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(md.Title))
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Type | %s |\n", orDash(md.Type))
	fmt.Fprintf(&b, "| Sheet | %s (header row %s) |\n", orDash(md.Sheet), orDash(md.HeaderRow))
	fmt.Fprintf(&b, "| To | `%s` |\n", orDash(md.Data.To))
	if md.Data.CC != "" {
		fmt.Fprintf(&b, "| CC | `%s` |\n", md.Data.CC)
	}
	if md.Data.BCC != "" {
		fmt.Fprintf(&b, "| BCC | `%s` |\n", md.Data.BCC)
	}
	fmt.Fprintf(&b, "| Document | %s |\n", orDash(md.Data.DocumentID))
	repeat := "no"
	if cfg.Repeating {
		repeat = "yes"
	}
	fmt.Fprintf(&b, "| Repeating | %s |\n\n", repeat)

	fmt.Fprintf(&b, "## Subject\n\n%s\n", orDash(md.Data.Subject))
	if md.Conditional != nil {
		fmt.Fprintf(&b, "\n## Only when\n\n`%s`\n", *md.Conditional)
	}
	if cols := placeholder.TemplateFields(t); len(cols) > 0 {
		fmt.Fprintf(&b, "\n## Columns used\n\n%s\n", strings.Join(cols, ", "))
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// Render renders the markdown summary of t at width. Rendering errors
// fall back to the raw markdown.
func Render(t *mergetemplate.Template, width int) string {
	content := Markdown(t)
	if width > maxWidth {
		width = maxWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// Diff returns a unified YAML diff from before to after, or "" when they
// are equal. A nil before diffs against an empty document.
func Diff(before, after *mergetemplate.Template) (string, error) {
	var oldYAML []byte
	if before != nil {
		var err error
		if oldYAML, err = diffable(before).YAML(); err != nil {
			return "", err
		}
	}
	newYAML, err := diffable(after).YAML()
	if err != nil {
		return "", err
	}
	return udiff.Unified("saved", "edited", string(oldYAML), string(newYAML)), nil
}

// diffable drops the bookkeeping fields so only user edits show up.
func diffable(t *mergetemplate.Template) *mergetemplate.Template {
	cfg := t.ToConfig()
	cfg.UpdatedAt = cfg.CreatedAt
	return mergetemplate.New(cfg)
}

// HighlightYAML colors YAML for a true-color terminal. Highlighting
// errors return the source unchanged.
func HighlightYAML(source string) string {
	return highlight(source, "yaml")
}

// HighlightDiff colors a unified diff.
func HighlightDiff(source string) string {
	return highlight(source, "diff")
}

func highlight(source, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
