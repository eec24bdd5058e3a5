package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates a section body could not be converted.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// highlightStyle is the chroma style used for JSON bodies.
const highlightStyle = "github"

// chromaClass limits class attributes to the identifiers chroma emits.
var chromaClass = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// bodyMarkup converts section bodies to HTML fragments. Text bodies are
// printed verbatim; only JSON bodies go through Markdown for highlighting.
type bodyMarkup struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newBodyMarkup() *bodyMarkup {
	md := goldmark.New(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("pre", "code", "span")
	policy.AllowAttrs("class").Matching(chromaClass).OnElements("span", "pre", "code", "div")

	return &bodyMarkup{md: md, policy: policy}
}

// text renders body as escaped text. Line breaks are kept by the
// section-text white-space rule.
func (m *bodyMarkup) text(body string) string {
	return `<p class="section-text">` + template.HTMLEscapeString(body) + `</p>`
}

// json renders a JSON body as a sanitized, highlighted code block.
func (m *bodyMarkup) json(body string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(fenceJSON(body)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return m.policy.Sanitize(buf.String()), nil
}

// fenceJSON wraps body in a json code fence longer than any backtick run it
// contains.
func fenceJSON(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + "json\n" + body + "\n" + fence + "\n"
}

// highlightCSS returns the stylesheet for the classes chroma emits.
func highlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
