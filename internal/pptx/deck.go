// Package pptx builds slide decks and serializes them as OOXML presentations.
//
// A Deck is a plain model: slides made of rectangular shapes whose boxes are
// fractions of the canvas. Write turns it into a .pptx package with one
// master, one blank layout and one theme.
package pptx

import (
	"fmt"
	"strings"
	"time"
)

// Palette.
const (
	ColorBrand = "1F3A5F"
	ColorText  = "1F2328"
	ColorMuted = "57606A"
	ColorWhite = "FFFFFF"
)

// Anchor is the vertical text anchoring of a shape.
type Anchor string

// Anchors.
const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Align is the horizontal paragraph alignment.
type Align string

// Alignments.
const (
	AlignLeft  Align = "l"
	AlignRight Align = "r"
)

// Deck is a presentation ready to be written.
type Deck struct {
	Layout  Layout
	Title   string
	Author  string
	Created time.Time
	Slides  []Slide
}

// Slide is an ordered list of shapes, back to front.
type Slide struct {
	Name   string
	Shapes []Shape
}

// Box positions a shape as fractions of the canvas width and height.
type Box struct {
	X, Y, W, H float64
}

// Shape is a rectangle with an optional fill and text.
type Shape struct {
	Name       string
	Box        Box
	Fill       string // RGB hex, empty for none
	Anchor     Anchor
	Paragraphs []Paragraph
}

// Paragraph is a single-run paragraph.
type Paragraph struct {
	Text        string
	Size        float64 // points
	Bold        bool
	Color       string
	Align       Align
	LineSpacing float64 // points, 0 for single spacing
}

// Cover holds the title slide fields.
type Cover struct {
	Company  string
	Title    string
	Subtitle string
	Date     string
}

// Section is one content slide.
type Section struct {
	Heading string
	Body    string
}

// BuildDeck lays out a cover slide followed by one content slide per
// section, in order. Body lines become separate paragraphs sized by tiers.
func BuildDeck(layout Layout, tiers Tiers, cover Cover, sections []Section) *Deck {
	d := &Deck{
		Layout: layout,
		Title:  cover.Title,
		Author: cover.Company,
		Slides: make([]Slide, 0, len(sections)+1),
	}
	total := len(sections) + 1
	d.Slides = append(d.Slides, coverSlide(cover))
	for i, s := range sections {
		d.Slides = append(d.Slides, contentSlide(layout, tiers, s, i+2, total))
	}
	return d
}

func coverSlide(c Cover) Slide {
	return Slide{
		Name: "Cover",
		Shapes: []Shape{
			{
				Name:       "Company Band",
				Box:        Box{X: 0, Y: 0, W: 1, H: 0.16},
				Fill:       ColorBrand,
				Anchor:     AnchorMiddle,
				Paragraphs: []Paragraph{{Text: c.Company, Size: 16, Bold: true, Color: ColorWhite, Align: AlignLeft}},
			},
			{
				Name:       "Title",
				Box:        Box{X: 0.08, Y: 0.32, W: 0.84, H: 0.2},
				Anchor:     AnchorBottom,
				Paragraphs: []Paragraph{{Text: c.Title, Size: 32, Bold: true, Color: ColorText, Align: AlignLeft}},
			},
			{
				Name:       "Subtitle",
				Box:        Box{X: 0.08, Y: 0.54, W: 0.84, H: 0.09},
				Anchor:     AnchorTop,
				Paragraphs: []Paragraph{{Text: c.Subtitle, Size: 18, Color: ColorMuted, Align: AlignLeft}},
			},
			{
				Name:       "Date",
				Box:        Box{X: 0.08, Y: 0.82, W: 0.84, H: 0.07},
				Anchor:     AnchorMiddle,
				Paragraphs: []Paragraph{{Text: c.Date, Size: 14, Color: ColorMuted, Align: AlignRight}},
			},
		},
	}
}

func contentSlide(layout Layout, tiers Tiers, s Section, number, total int) Slide {
	band := HeaderBandHeight / layout.Height
	bodyTop := band + 0.17
	size := tiers.SizeFor(s.Body)

	lines := strings.Split(strings.ReplaceAll(s.Body, "\r\n", "\n"), "\n")
	body := make([]Paragraph, len(lines))
	for i, line := range lines {
		body[i] = Paragraph{Text: line, Size: size, Color: ColorText, Align: AlignLeft, LineSpacing: LineSpacing}
	}

	return Slide{
		Name: s.Heading,
		Shapes: []Shape{
			{
				Name: "Header Band",
				Box:  Box{X: 0, Y: 0, W: 1, H: band},
				Fill: ColorBrand,
			},
			{
				Name:       "Slide Index",
				Box:        Box{X: 0.7, Y: 0, W: 0.26, H: band},
				Anchor:     AnchorMiddle,
				Paragraphs: []Paragraph{{Text: fmt.Sprintf("%d / %d", number, total), Size: 12, Color: ColorWhite, Align: AlignRight}},
			},
			{
				Name:       "Title",
				Box:        Box{X: 0.06, Y: band + 0.03, W: 0.88, H: 0.12},
				Anchor:     AnchorMiddle,
				Paragraphs: []Paragraph{{Text: s.Heading, Size: 26, Bold: true, Color: ColorBrand, Align: AlignLeft}},
			},
			{
				Name:       "Body",
				Box:        Box{X: 0.06, Y: bodyTop, W: 0.88, H: 1 - bodyTop - 0.05},
				Anchor:     AnchorTop,
				Paragraphs: body,
			},
		},
	}
}

// BodyText returns the text of the shape named "Body" with paragraphs
// joined by newlines, or "" when the slide has no body.
func (s Slide) BodyText() string {
	for _, sh := range s.Shapes {
		if sh.Name != "Body" {
			continue
		}
		lines := make([]string, len(sh.Paragraphs))
		for i, p := range sh.Paragraphs {
			lines[i] = p.Text
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
