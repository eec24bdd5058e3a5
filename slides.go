package bizdoc

import (
	"fmt"
	"time"

	"github.com/alnah/go-bizdoc/internal/content"
	"github.com/alnah/go-bizdoc/internal/dateutil"
	"github.com/alnah/go-bizdoc/internal/pptx"
)

// slideRenderer lays out a cover slide plus one slide per section and
// serializes the deck to PPTX. It has no suspension points.
type slideRenderer struct {
	layout     pptx.Layout
	tiers      pptx.Tiers
	company    CompanyInfo
	dateFormat string
	now        func() time.Time
}

func (s *slideRenderer) render(doc *Document, sections []content.Section) ([]byte, error) {
	now := s.now()
	cover := pptx.Cover{
		Company:  s.company.Name,
		Title:    doc.Title,
		Subtitle: coverSubtitle(doc.Type.Label(), s.company.Name),
		Date:     issueDate(s.dateFormat, now),
	}

	slides := make([]pptx.Section, len(sections))
	for i, sec := range sections {
		slides[i] = pptx.Section{Heading: sec.Heading, Body: sec.Body}
	}

	deck := pptx.BuildDeck(s.layout, s.tiers, cover, slides)
	deck.Created = now

	data, err := pptx.Marshal(deck)
	if err != nil {
		return nil, fmt.Errorf("%w: writing presentation: %v", ErrRenderFailed, err)
	}
	return data, nil
}

// coverSubtitle joins the type label and company name.
func coverSubtitle(label, company string) string {
	if company == "" {
		return label
	}
	return label + " | " + company
}

// issueDate resolves format against t. Formats are validated when the
// Renderer is built, so a failure here falls back to ISO dates.
func issueDate(format string, t time.Time) string {
	s, err := dateutil.ResolveDate(format, t)
	if err != nil {
		return t.Format("2006-01-02")
	}
	return s
}
