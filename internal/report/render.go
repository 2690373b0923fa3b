// Package report renders valuation results and company data as plain text,
// JSON, markdown or a self-contained HTML page.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "", "table":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json, markdown or html)", s)
}

// Document is one rendered result. Tables drive the text, markdown and HTML
// output; Data is what JSON output encodes. Charts are SVG fragments shown
// only in HTML.
type Document struct {
	Title  string
	Tables []Table
	Charts []string
	Data   any
}

// Render writes doc to w in the given format.
func Render(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, doc)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(doc))
		return err
	case FormatHTML:
		html, err := HTML(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return renderText(w, doc)
	}
}

func renderJSON(w io.Writer, doc Document) error {
	data := doc.Data
	if data == nil {
		data = doc.Tables
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderText(w io.Writer, doc Document) error {
	var sb strings.Builder
	if doc.Title != "" {
		line := strings.Repeat("═", 60)
		sb.WriteString(line + "\n")
		sb.WriteString("  " + doc.Title + "\n")
		sb.WriteString(line + "\n")
	}

	for i, t := range doc.Tables {
		if i > 0 || doc.Title != "" {
			sb.WriteString("\n")
		}
		if t.Title != "" {
			sb.WriteString("■ " + t.Title + "\n")
		}
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
		dashes := make([]string, len(t.Headers))
		for j, h := range t.Headers {
			dashes[j] = strings.Repeat("─", len([]rune(h)))
		}
		fmt.Fprintln(tw, strings.Join(dashes, "\t"))
		for _, row := range t.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ════════════════════════════════════════════════════════════════════
// Markdown / HTML
// ════════════════════════════════════════════════════════════════════

// Markdown renders doc as GitHub-flavoured markdown with pipe tables.
func Markdown(doc Document) string {
	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString("# " + escapeMarkdown(doc.Title) + "\n\n")
	}
	for _, t := range doc.Tables {
		if t.Title != "" {
			sb.WriteString("## " + escapeMarkdown(t.Title) + "\n\n")
		}
		writeMarkdownRow(&sb, t.Headers)
		seps := make([]string, len(t.Headers))
		for i := range seps {
			seps[i] = "---"
		}
		sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		for _, row := range t.Rows {
			writeMarkdownRow(&sb, row)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeMarkdown(c)
	}
	sb.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, "\n", " ", `<`, `&lt;`, `>`, `&gt;`)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var pageTmpl = template.Must(template.New("page").Parse(PageTemplate))

// HTML renders doc to markdown, converts it with goldmark and wraps it in a
// standalone page.
func HTML(doc Document) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	charts := make([]template.HTML, len(doc.Charts))
	for i, c := range doc.Charts {
		// Charts are generated here and escape their own text.
		charts[i] = template.HTML(c)
	}

	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Title  string
		Body   template.HTML
		Charts []template.HTML
	}{doc.Title, template.HTML(body.String()), charts})
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}
