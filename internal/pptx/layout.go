package pptx

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// EMUPerUnit is the number of English Metric Units in one layout unit (inch).
const EMUPerUnit = 914400

// LineSpacing is the fixed body line spacing in points.
const LineSpacing = 24.0

// HeaderBandHeight is the content slide header band height in layout units.
const HeaderBandHeight = 0.9

// Sentinel errors for deck configuration.
var (
	ErrUnknownLayout = errors.New("unknown slide layout")
	ErrInvalidTiers  = errors.New("invalid font tiers")
)

// Layout is a slide canvas in layout units.
type Layout struct {
	Name   string
	Width  float64
	Height float64
}

// Canvases.
var (
	LayoutStandard = Layout{Name: "4:3", Width: 10, Height: 7.5}
	LayoutA4       = Layout{Name: "a4", Width: 11.69, Height: 8.27}
)

// LayoutByName resolves "4:3" (or empty) and "a4", case-insensitively.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutStandard.Name:
		return LayoutStandard, nil
	case LayoutA4.Name:
		return LayoutA4, nil
	}
	return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// slideSizeType is the presentation sldSz type attribute.
func (l Layout) slideSizeType() string {
	if l == LayoutStandard {
		return "screen4x3"
	}
	return "custom"
}

func (l Layout) emuX(frac float64) int64 { return toEMU(frac * l.Width) }
func (l Layout) emuY(frac float64) int64 { return toEMU(frac * l.Height) }

func toEMU(units float64) int64 {
	return int64(math.Round(units * EMUPerUnit))
}

// Tiers picks the body font size from the body length in characters.
// A body longer than SmallAbove gets Small, longer than MediumAbove gets
// Medium, anything else Large.
type Tiers struct {
	MediumAbove int
	SmallAbove  int
	Large       float64
	Medium      float64
	Small       float64
}

// DefaultTiers returns the 300/500 character tiers at 16/14/12 pt.
func DefaultTiers() Tiers {
	return Tiers{MediumAbove: 300, SmallAbove: 500, Large: 16, Medium: 14, Small: 12}
}

// Validate checks that thresholds and sizes are ordered.
func (t Tiers) Validate() error {
	if t.MediumAbove <= 0 || t.SmallAbove <= t.MediumAbove {
		return fmt.Errorf("%w: thresholds %d/%d", ErrInvalidTiers, t.MediumAbove, t.SmallAbove)
	}
	if t.Small <= 0 || t.Medium < t.Small || t.Large < t.Medium {
		return fmt.Errorf("%w: sizes %.1f/%.1f/%.1f", ErrInvalidTiers, t.Large, t.Medium, t.Small)
	}
	return nil
}

// SizeFor returns the font size in points for body.
func (t Tiers) SizeFor(body string) float64 {
	n := utf8.RuneCountInString(body)
	switch {
	case n > t.SmallAbove:
		return t.Small
	case n > t.MediumAbove:
		return t.Medium
	default:
		return t.Large
	}
}
