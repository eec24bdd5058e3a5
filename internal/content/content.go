// Package content turns the free-form JSON produced by the generation step
// into an ordered list of sections that every renderer consumes.
//
// Classification is total: any byte slice maps to exactly one Kind, and every
// Kind maps to at least one Section. Object keys keep their document order,
// which a decode into map[string]any would lose.
package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultHeading is used when the content cannot be split into sections.
const DefaultHeading = "내용"

// slidesKey is the top-level key holding an explicit slide list.
const slidesKey = "slides"

// slideBodySeparator joins array-valued slide bodies.
const slideBodySeparator = "\n\n"

// Kind identifies the shape of a content tree.
type Kind int

const (
	// KindScalar covers strings, numbers, booleans, null, empty containers
	// and bytes that are not valid JSON.
	KindScalar Kind = iota
	// KindSlides is an object whose "slides" key holds a non-empty array.
	KindSlides
	// KindObject is any other non-empty object.
	KindObject
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindSlides:
		return "slides"
	case KindObject:
		return "object"
	default:
		return "scalar"
	}
}

// BodyFormat tells renderers how a section body was produced.
type BodyFormat string

const (
	// FormatText is prose taken verbatim from the content.
	FormatText BodyFormat = "text"
	// FormatJSON is an indented JSON dump of a non-string value.
	FormatJSON BodyFormat = "json"
)

// Section is one heading/body unit of a rendered document.
type Section struct {
	Heading string
	Body    string
	Format  BodyFormat
}

// Classify reports which normalization path raw takes.
func Classify(raw []byte) Kind {
	if !gjson.ValidBytes(raw) {
		return KindScalar
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return KindScalar
	}
	if slides := root.Get(slidesKey); slides.IsArray() && len(slides.Array()) > 0 {
		return KindSlides
	}
	empty := true
	root.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	if empty {
		return KindScalar
	}
	return KindObject
}

// Normalize converts raw content into sections. It never fails and always
// returns at least one section. raw is not modified.
func Normalize(raw []byte) []Section {
	switch Classify(raw) {
	case KindSlides:
		return fromSlides(gjson.ParseBytes(raw).Get(slidesKey))
	case KindObject:
		return fromObject(gjson.ParseBytes(raw))
	default:
		return []Section{fromScalar(raw)}
	}
}

func fromSlides(slides gjson.Result) []Section {
	items := slides.Array()
	sections := make([]Section, 0, len(items))
	for i, item := range items {
		fallback := "Slide " + strconv.Itoa(i+1)
		if !item.IsObject() {
			sections = append(sections, Section{Heading: fallback, Body: text(item), Format: FormatText})
			continue
		}

		heading := fallback
		if title := item.Get("title"); title.Exists() && title.Type != gjson.Null && text(title) != "" {
			heading = text(title)
		}

		sections = append(sections, Section{
			Heading: heading,
			Body:    slideBody(item.Get("content")),
			Format:  FormatText,
		})
	}
	return sections
}

func slideBody(v gjson.Result) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return ""
	case v.IsArray():
		parts := make([]string, 0)
		v.ForEach(func(_, el gjson.Result) bool {
			parts = append(parts, text(el))
			return true
		})
		return strings.Join(parts, slideBodySeparator)
	case v.IsObject():
		return indent(v.Raw)
	default:
		return text(v)
	}
}

func fromObject(root gjson.Result) []Section {
	var sections []Section
	root.ForEach(func(key, value gjson.Result) bool {
		s := Section{Heading: HumanizeKey(key.String())}
		if value.Type == gjson.String {
			s.Body = value.String()
			s.Format = FormatText
		} else {
			// Non-string values are dumped rather than flattened into subsections.
			s.Body = indent(value.Raw)
			s.Format = FormatJSON
		}
		sections = append(sections, s)
		return true
	})
	return sections
}

func fromScalar(raw []byte) Section {
	if !gjson.ValidBytes(raw) {
		return Section{Heading: DefaultHeading, Body: strings.TrimSpace(string(raw)), Format: FormatText}
	}
	root := gjson.ParseBytes(raw)
	if root.IsObject() || root.IsArray() {
		return Section{Heading: DefaultHeading, Body: indent(root.Raw), Format: FormatJSON}
	}
	return Section{Heading: DefaultHeading, Body: text(root), Format: FormatText}
}

// HumanizeKey inserts a space before each ASCII uppercase letter and trims
// the result: "documentType" becomes "document Type".
func HumanizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// text stringifies a scalar the way a JavaScript template literal would.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.JSON:
		return v.Raw
	default:
		return v.String()
	}
}

func indent(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
