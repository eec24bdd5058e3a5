package pptx

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// ErrEmptyDeck indicates a deck without slides.
var ErrEmptyDeck = errors.New("deck has no slides")

// defaultTextSize applies to paragraphs without an explicit size.
const defaultTextSize = 18.0

//go:embed templates/*.xml
var templateFS embed.FS

var parts = template.Must(
	template.New("pptx").Funcs(template.FuncMap{"x": escapeXML}).ParseFS(templateFS, "templates/*.xml"),
)

// part maps a package path to the template that renders it.
type part struct {
	path     string
	template string
}

// staticParts are written once per package, in this order, after
// [Content_Types].xml.
var staticParts = []part{
	{"_rels/.rels", "root_rels.xml"},
	{"docProps/core.xml", "core.xml"},
	{"docProps/app.xml", "app.xml"},
	{"ppt/presentation.xml", "presentation.xml"},
	{"ppt/_rels/presentation.xml.rels", "presentation_rels.xml"},
	{"ppt/presProps.xml", "pres_props.xml"},
	{"ppt/viewProps.xml", "view_props.xml"},
	{"ppt/tableStyles.xml", "table_styles.xml"},
	{"ppt/theme/theme1.xml", "theme.xml"},
	{"ppt/slideMasters/slideMaster1.xml", "slide_master.xml"},
	{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels.xml"},
	{"ppt/slideLayouts/slideLayout1.xml", "slide_layout.xml"},
	{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels.xml"},
}

type packageView struct {
	Title          string
	Author         string
	Created        string
	Format         string
	CX, CY         int64
	SizeType       string
	Slides         []slideView
	PresPropsRel   string
	ViewPropsRel   string
	ThemeRel       string
	TableStylesRel string
}

type slideView struct {
	Number int
	ID     int
	RelID  string
	Name   string
	Shapes []shapeView
}

type shapeView struct {
	ID         int
	Name       string
	X, Y       int64
	CX, CY     int64
	Fill       string
	Anchor     Anchor
	Paragraphs []paragraphView
}

type paragraphView struct {
	Text    string
	Size    int // hundredths of a point
	Bold    bool
	Color   string
	Align   Align
	Spacing int // hundredths of a point
}

// Write serializes d as a .pptx package.
func Write(w io.Writer, d *Deck) error {
	if d == nil || len(d.Slides) == 0 {
		return ErrEmptyDeck
	}
	if d.Layout.Width <= 0 || d.Layout.Height <= 0 {
		return fmt.Errorf("%w: %+v", ErrUnknownLayout, d.Layout)
	}

	modified := d.Created
	if modified.IsZero() {
		modified = time.Now()
	}
	view := newPackageView(d, modified)

	zw := zip.NewWriter(w)
	if err := writePart(zw, "[Content_Types].xml", "content_types.xml", view, modified); err != nil {
		return err
	}
	for _, p := range staticParts {
		if err := writePart(zw, p.path, p.template, view, modified); err != nil {
			return err
		}
	}
	for _, s := range view.Slides {
		name := "ppt/slides/slide" + strconv.Itoa(s.Number) + ".xml"
		if err := writePart(zw, name, "slide.xml", s, modified); err != nil {
			return err
		}
		rels := "ppt/slides/_rels/slide" + strconv.Itoa(s.Number) + ".xml.rels"
		if err := writePart(zw, rels, "slide_rels.xml", s, modified); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing pptx archive: %w", err)
	}
	return nil
}

// Marshal returns the .pptx bytes for d.
func Marshal(d *Deck) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(zw *zip.Writer, name, tmpl string, data any, modified time.Time) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := parts.ExecuteTemplate(fw, tmpl, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

func newPackageView(d *Deck, created time.Time) packageView {
	n := len(d.Slides)
	v := packageView{
		Title:          d.Title,
		Author:         d.Author,
		Created:        created.UTC().Format(time.RFC3339),
		Format:         formatName(d.Layout),
		CX:             toEMU(d.Layout.Width),
		CY:             toEMU(d.Layout.Height),
		SizeType:       d.Layout.slideSizeType(),
		Slides:         make([]slideView, n),
		PresPropsRel:   relID(n + 2),
		ViewPropsRel:   relID(n + 3),
		ThemeRel:       relID(n + 4),
		TableStylesRel: relID(n + 5),
	}

	for i, s := range d.Slides {
		sv := slideView{
			Number: i + 1,
			ID:     256 + i,
			RelID:  relID(i + 2),
			Name:   s.Name,
			Shapes: make([]shapeView, len(s.Shapes)),
		}
		for j, sh := range s.Shapes {
			sv.Shapes[j] = newShapeView(d.Layout, sh, j+2)
		}
		v.Slides[i] = sv
	}
	return v
}

func newShapeView(l Layout, sh Shape, id int) shapeView {
	anchor := sh.Anchor
	if anchor == "" {
		anchor = AnchorTop
	}
	v := shapeView{
		ID:         id,
		Name:       sh.Name,
		X:          l.emuX(sh.Box.X),
		Y:          l.emuY(sh.Box.Y),
		CX:         l.emuX(sh.Box.W),
		CY:         l.emuY(sh.Box.H),
		Fill:       sh.Fill,
		Anchor:     anchor,
		Paragraphs: make([]paragraphView, len(sh.Paragraphs)),
	}
	for i, p := range sh.Paragraphs {
		align := p.Align
		if align == "" {
			align = AlignLeft
		}
		color := p.Color
		if color == "" {
			color = ColorText
		}
		size := p.Size
		if size <= 0 {
			size = defaultTextSize
		}
		v.Paragraphs[i] = paragraphView{
			Text:    p.Text,
			Size:    hundredths(size),
			Bold:    p.Bold,
			Color:   color,
			Align:   align,
			Spacing: hundredths(p.LineSpacing),
		}
	}
	return v
}

func formatName(l Layout) string {
	if l == LayoutStandard {
		return "On-screen Show (4:3)"
	}
	return "Custom"
}

func relID(n int) string {
	return "rId" + strconv.Itoa(n)
}

func hundredths(pt float64) int {
	return int(math.Round(pt * 100))
}

// escapeXML escapes s for element text and attribute values. Characters
// XML 1.0 cannot carry become U+FFFD.
func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
