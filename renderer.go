package bizdoc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-bizdoc/internal/assets"
	"github.com/alnah/go-bizdoc/internal/content"
	"github.com/alnah/go-bizdoc/internal/dateutil"
	"github.com/alnah/go-bizdoc/internal/pipeline"
	"github.com/alnah/go-bizdoc/internal/pptx"
)

// Output format names used in logs and metrics.
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

// ErrRendererClosed is returned by Generate calls made after Close.
var ErrRendererClosed = errors.New("renderer is closed")

// Renderer turns completed documents into PDF and PPTX files.
// It is safe for concurrent use. No browser outlives a GeneratePDF call.
type Renderer struct {
	logger  *zap.Logger
	metrics Metrics
	company CompanyInfo
	date    string
	builder *pipeline.Builder
	pdf     *pdfRenderer
	slides  *slideRenderer
	slots   *engineSlots
	now     func() time.Time
	closed  atomic.Bool
}

// NewRenderer validates the options and prepares the HTML builder.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := defaultRendererConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	layout, err := pptx.LayoutByName(cfg.layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	tiers := pptx.Tiers(cfg.tiers)
	if err := tiers.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontTiers, err)
	}
	if _, err := dateutil.ResolveDate(cfg.dateFormat, cfg.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}

	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	builder, err := pipeline.NewBuilder(resolver, pipeline.Options{
		Fonts:    cfg.fonts,
		ImageDir: cfg.assetPath,
	})
	if err != nil {
		return nil, fmt.Errorf("preparing document template: %w", err)
	}

	launcher := cfg.launcher
	if launcher == nil {
		launcher = &rodLauncher{bin: cfg.browserBin, logger: cfg.logger}
	}

	return &Renderer{
		logger:  cfg.logger,
		metrics: cfg.metrics,
		company: cfg.company,
		date:    cfg.dateFormat,
		builder: builder,
		pdf: &pdfRenderer{
			launcher: launcher,
			timeouts: cfg.timeouts,
			verify:   cfg.verify,
			logger:   cfg.logger,
			metrics:  cfg.metrics,
		},
		slides: &slideRenderer{
			layout:     layout,
			tiers:      tiers,
			company:    cfg.company,
			dateFormat: cfg.dateFormat,
			now:        cfg.now,
		},
		slots: newEngineSlots(ResolvePoolSize(cfg.maxConcurrent)),
		now:   cfg.now,
	}, nil
}

// GeneratePDF renders doc as an A4 PDF. The failure category is available
// through CategoryOf: ErrEngineCrashed, ErrRenderTimeout or ErrRenderFailed.
func (r *Renderer) GeneratePDF(ctx context.Context, doc *Document) (out []byte, err error) {
	start := r.now()
	sections := 0
	defer func() { r.finish(ctx, FormatPDF, doc, start, sections, len(out), err) }()
	defer r.recoverPanic(&err)

	if err := r.checkRenderable(doc); err != nil {
		return nil, err
	}

	rendered := content.Normalize(doc.Content)
	sections = len(rendered)

	html, err := r.builder.BuildDocumentHTML(ctx, &pipeline.Page{
		Title:     doc.Title,
		TypeLabel: doc.Type.Label(),
		Date:      issueDate(r.date, documentTime(doc, r.now)),
		Company:   pipeline.Company(r.company),
		Sections:  rendered,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: building HTML: %w", ErrRenderFailed, err)
	}

	if err := r.slots.acquire(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for a free engine: %w", ErrRenderFailed, err)
	}
	defer r.slots.release()

	return r.pdf.render(ctx, html)
}

// GeneratePPTX renders doc as a slide deck: a cover slide followed by one
// slide per section. Failures wrap ErrRenderFailed.
func (r *Renderer) GeneratePPTX(ctx context.Context, doc *Document) (out []byte, err error) {
	start := r.now()
	sections := 0
	defer func() { r.finish(ctx, FormatPPTX, doc, start, sections, len(out), err) }()
	defer r.recoverPanic(&err)

	if err := r.checkRenderable(doc); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	rendered := content.Normalize(doc.Content)
	sections = len(rendered)
	return r.slides.render(doc, rendered)
}

// Close marks the renderer closed. Engines are owned by individual calls,
// so there is nothing left to release.
func (r *Renderer) Close() error {
	r.closed.Store(true)
	return nil
}

// PoolSize returns the maximum number of concurrent PDF engines.
func (r *Renderer) PoolSize() int {
	return r.slots.size()
}

// EnginesInUse returns the number of PDF engines currently running.
func (r *Renderer) EnginesInUse() int {
	return r.slots.busy()
}

func (r *Renderer) checkRenderable(doc *Document) error {
	if r.closed.Load() {
		return ErrRendererClosed
	}
	if doc == nil {
		return ErrNilDocument
	}
	if doc.Status != StatusCompleted {
		return fmt.Errorf("%w: %s has status %q", ErrDocumentNotCompleted, doc.ID, doc.Status)
	}
	return nil
}

func (r *Renderer) recoverPanic(err *error) {
	if p := recover(); p != nil {
		r.logger.Error("render panicked", zap.Any("panic", p), zap.Stack("stack"))
		*err = fmt.Errorf("%w: panic: %v", ErrRenderFailed, p)
	}
}

func (r *Renderer) finish(ctx context.Context, format string, doc *Document, start time.Time, sections, size int, err error) {
	elapsed := r.now().Sub(start)
	category := CategoryOf(err)
	r.metrics.ObserveRender(format, category, elapsed, sections)

	fields := []zap.Field{
		zap.String("format", format),
		zap.Duration("elapsed", elapsed),
		zap.Int("sections", sections),
	}
	if doc != nil {
		fields = append(fields, zap.String("document_id", doc.ID), zap.String("document_type", string(doc.Type)))
	}
	if err == nil {
		r.logger.Info("document rendered", append(fields, zap.Int("bytes", size))...)
		return
	}

	fields = append(fields, zap.String("category", string(category)), zap.Error(err))
	switch {
	case ctx.Err() != nil, category == CategoryNotReady:
		r.logger.Info("render not performed", fields...)
	default:
		r.logger.Error("render failed", fields...)
	}
}

// documentTime is the issue time printed on the PDF.
func documentTime(doc *Document, now func() time.Time) time.Time {
	if doc.CreatedAt.IsZero() {
		return now()
	}
	return doc.CreatedAt
}
