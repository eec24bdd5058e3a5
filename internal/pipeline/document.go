package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-bizdoc/internal/assets"
	"github.com/alnah/go-bizdoc/internal/content"
)

// ErrTemplateRender indicates the document template failed to execute.
var ErrTemplateRender = errors.New("document template rendering failed")

// Company is the issuer block printed at the top of the page.
type Company struct {
	Name           string
	BusinessNumber string
	Address        string
	BusinessType   string
	Representative string
}

// Page is everything the document template needs.
type Page struct {
	Title     string
	TypeLabel string
	Date      string
	Company   Company
	Sections  []content.Section
}

// Options configures a Builder.
type Options struct {
	Fonts        []string // font-family fallback chain; nil uses DefaultFonts
	ImageDir     string   // base for relative <img> sources in the template; empty disables rewriting
	StyleName    string   // defaults to assets.DefaultStyleName
	TemplateName string   // defaults to assets.DefaultTemplateName
}

// Builder renders Pages to HTML. It is safe for concurrent use.
type Builder struct {
	tmpl         *template.Template
	style        string
	fontCSS      string
	highlightCSS string
	imageDir     string
	markup       *bodyMarkup
}

type templateSection struct {
	Heading string
	Body    template.HTML
}

type templateData struct {
	Title        string
	TypeLabel    string
	Date         string
	Company      Company
	Sections     []templateSection
	FontCSS      template.CSS
	Style        template.CSS
	HighlightCSS template.CSS
}

// NewBuilder loads the stylesheet and template through loader and prepares
// the body converters.
func NewBuilder(loader assets.AssetLoader, opts Options) (*Builder, error) {
	styleName := opts.StyleName
	if styleName == "" {
		styleName = assets.DefaultStyleName
	}
	templateName := opts.TemplateName
	if templateName == "" {
		templateName = assets.DefaultTemplateName
	}

	style, err := loader.LoadStyle(styleName)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	raw, err := loader.LoadTemplate(templateName)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	tmpl, err := template.New(templateName).Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrTemplateRender, templateName, err)
	}
	hl, err := highlightCSS()
	if err != nil {
		return nil, err
	}

	return &Builder{
		tmpl:         tmpl,
		style:        sanitizeCSS(style),
		fontCSS:      sanitizeCSS(FontCSS(opts.Fonts)),
		highlightCSS: sanitizeCSS(hl),
		imageDir:     opts.ImageDir,
		markup:       newBodyMarkup(),
	}, nil
}

// BuildDocumentHTML renders p as a complete HTML document. Sections keep
// their order. Cancellation is checked between sections.
func (b *Builder) BuildDocumentHTML(ctx context.Context, p *Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := templateData{
		Title:     p.Title,
		TypeLabel: p.TypeLabel,
		Date:      p.Date,
		Company:   p.Company,
		Sections:  make([]templateSection, 0, len(p.Sections)),
		// #nosec G203 -- stylesheets come from trusted assets and are sanitized
		FontCSS:      template.CSS(b.fontCSS),
		Style:        template.CSS(b.style),
		HighlightCSS: template.CSS(b.highlightCSS),
	}

	for i, s := range p.Sections {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, err := b.renderBody(s)
		if err != nil {
			return "", fmt.Errorf("section %d (%s): %w", i+1, s.Heading, err)
		}
		// #nosec G203 -- text bodies are escaped, JSON bodies sanitized by bluemonday
		data.Sections = append(data.Sections, templateSection{Heading: s.Heading, Body: template.HTML(body)})
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return ResolveImages(buf.String(), b.imageDir)
}

func (b *Builder) renderBody(s content.Section) (string, error) {
	if s.Format == content.FormatJSON {
		return b.markup.json(s.Body)
	}
	return b.markup.text(s.Body), nil
}
