package bizdoc

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-bizdoc/internal/dateutil"
	"github.com/alnah/go-bizdoc/internal/pdfinfo"
	"github.com/alnah/go-bizdoc/internal/pptx"
)

// Slide layout names accepted by WithSlideLayout.
const (
	SlideLayoutStandard = "4:3"
	SlideLayoutA4       = "a4"
)

// Timeouts bounds each step of a PDF render. Exceeding any of them fails
// the render with ErrRenderTimeout.
type Timeouts struct {
	Startup time.Duration // launch and connect the browser
	Load    time.Duration // navigate to the document and wait for load
	Fonts   time.Duration // wait for document.fonts.ready
	Print   time.Duration // print to PDF and read the stream
}

// DefaultTimeouts returns the per-step defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Startup: 20 * time.Second,
		Load:    15 * time.Second,
		Fonts:   10 * time.Second,
		Print:   20 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Startup > 0 {
		d.Startup = t.Startup
	}
	if t.Load > 0 {
		d.Load = t.Load
	}
	if t.Fonts > 0 {
		d.Fonts = t.Fonts
	}
	if t.Print > 0 {
		d.Print = t.Print
	}
	return d
}

// FontTiers picks the slide body font size from the body length in
// characters: above SmallAbove gets Small, above MediumAbove gets Medium,
// anything else Large. Sizes are in points.
type FontTiers struct {
	MediumAbove int
	SmallAbove  int
	Large       float64
	Medium      float64
	Small       float64
}

// DefaultFontTiers returns the 300/500 character tiers at 16/14/12 pt.
func DefaultFontTiers() FontTiers {
	return FontTiers(pptx.DefaultTiers())
}

// Metrics receives render measurements. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ObserveRender is called once per GeneratePDF or GeneratePPTX call.
	ObserveRender(format string, category Category, elapsed time.Duration, sections int)
	// EngineStarted and EngineStopped bracket the life of each browser.
	EngineStarted()
	EngineStopped()
}

type nopMetrics struct{}

func (nopMetrics) ObserveRender(string, Category, time.Duration, int) {}
func (nopMetrics) EngineStarted()                                     {}
func (nopMetrics) EngineStopped()                                     {}

// rendererConfig holds settings applied by options before NewRenderer
// validates them.
type rendererConfig struct {
	logger        *zap.Logger
	metrics       Metrics
	company       CompanyInfo
	timeouts      Timeouts
	fonts         []string
	tiers         FontTiers
	layout        string
	dateFormat    string
	maxConcurrent int
	assetPath     string
	browserBin    string

	// Test seams.
	launcher engineLauncher
	verify   func([]byte) (pdfinfo.Info, error)
	now      func() time.Time
}

func defaultRendererConfig() rendererConfig {
	return rendererConfig{
		logger:     zap.NewNop(),
		metrics:    nopMetrics{},
		timeouts:   DefaultTimeouts(),
		tiers:      DefaultFontTiers(),
		layout:     SlideLayoutStandard,
		dateFormat: dateutil.DefaultDocumentDate,
		verify:     pdfinfo.Inspect,
		now:        time.Now,
	}
}

// Option configures a Renderer.
type Option func(*rendererConfig)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *rendererConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the receiver of render measurements. A nil value is
// ignored.
func WithMetrics(m Metrics) Option {
	return func(c *rendererConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithCompanyInfo sets the issuer printed in the PDF header and on the
// slide cover.
func WithCompanyInfo(info CompanyInfo) Option {
	return func(c *rendererConfig) {
		c.company = info
	}
}

// WithTimeouts overrides the per-step PDF timeouts. Zero fields keep their
// default. Panics if any field is negative.
func WithTimeouts(t Timeouts) Option {
	if t.Startup < 0 || t.Load < 0 || t.Fonts < 0 || t.Print < 0 {
		panic("bizdoc: WithTimeouts durations must not be negative")
	}
	return func(c *rendererConfig) {
		c.timeouts = t.withDefaults()
	}
}

// WithFonts sets the font-family fallback chain used for PDF output.
func WithFonts(families ...string) Option {
	return func(c *rendererConfig) {
		c.fonts = append([]string(nil), families...)
	}
}

// WithFontTiers sets the slide body font tiers. NewRenderer rejects
// unordered tiers with ErrInvalidFontTiers.
func WithFontTiers(t FontTiers) Option {
	return func(c *rendererConfig) {
		c.tiers = t
	}
}

// WithSlideLayout selects the slide canvas: SlideLayoutStandard (10x7.5 in)
// or SlideLayoutA4 (A4 landscape).
func WithSlideLayout(name string) Option {
	return func(c *rendererConfig) {
		c.layout = name
	}
}

// WithDateFormat sets the issue date printed on documents and slide
// covers. It accepts "auto", "auto:FORMAT", "auto:preset" or a fixed string.
func WithDateFormat(format string) Option {
	return func(c *rendererConfig) {
		c.dateFormat = format
	}
}

// WithMaxConcurrentPDF caps how many browsers may run at once. Zero derives
// the limit from GOMAXPROCS.
func WithMaxConcurrentPDF(n int) Option {
	return func(c *rendererConfig) {
		c.maxConcurrent = n
	}
}

// WithAssetPath adds a directory searched for styles, templates and images
// before the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *rendererConfig) {
		c.assetPath = path
	}
}

// WithBrowserBin sets the Chrome or Chromium binary. Empty falls back to
// ROD_BROWSER_BIN, then to a browser rod downloads.
func WithBrowserBin(path string) Option {
	return func(c *rendererConfig) {
		c.browserBin = path
	}
}

func withEngineLauncher(l engineLauncher) Option {
	return func(c *rendererConfig) {
		c.launcher = l
	}
}

func withPDFVerifier(v func([]byte) (pdfinfo.Info, error)) Option {
	return func(c *rendererConfig) {
		c.verify = v
	}
}

func withClock(now func() time.Time) Option {
	return func(c *rendererConfig) {
		c.now = now
	}
}
