package main

import (
	"context"

	"go.uber.org/zap"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/config"
)

// documentRenderer is the part of *bizdoc.Renderer the CLI uses.
type documentRenderer interface {
	GeneratePDF(ctx context.Context, doc *bizdoc.Document) ([]byte, error)
	GeneratePPTX(ctx context.Context, doc *bizdoc.Document) ([]byte, error)
	Close() error
}

var _ documentRenderer = (*bizdoc.Renderer)(nil)

type rendererFactory func(cfg *config.Config, logger *zap.Logger, metrics bizdoc.Metrics) (documentRenderer, error)

func newRenderer(cfg *config.Config, logger *zap.Logger, metrics bizdoc.Metrics) (documentRenderer, error) {
	return bizdoc.NewRenderer(rendererOptions(cfg, logger, metrics)...)
}

// rendererOptions maps the config file onto renderer options.
func rendererOptions(cfg *config.Config, logger *zap.Logger, metrics bizdoc.Metrics) []bizdoc.Option {
	opts := []bizdoc.Option{
		bizdoc.WithLogger(logger),
		bizdoc.WithCompanyInfo(bizdoc.CompanyInfo(cfg.Company)),
		bizdoc.WithTimeouts(bizdoc.Timeouts{
			Startup: cfg.PDF.StartupTimeout,
			Load:    cfg.PDF.LoadTimeout,
			Fonts:   cfg.PDF.FontTimeout,
			Print:   cfg.PDF.PrintTimeout,
		}),
		bizdoc.WithFonts(cfg.PDF.Fonts...),
		bizdoc.WithSlideLayout(cfg.Slides.Layout),
		bizdoc.WithDateFormat(cfg.Slides.DateFormat),
		bizdoc.WithMaxConcurrentPDF(cfg.PDF.MaxConcurrent),
		bizdoc.WithAssetPath(cfg.Assets.BasePath),
		bizdoc.WithBrowserBin(cfg.PDF.BrowserBin),
	}

	if t := cfg.Slides.Tiers; t != (config.TiersConfig{}) {
		opts = append(opts, bizdoc.WithFontTiers(bizdoc.FontTiers{
			MediumAbove: t.MediumAbove,
			SmallAbove:  t.SmallAbove,
			Large:       t.LargeSize,
			Medium:      t.MediumSize,
			Small:       t.SmallSize,
		}))
	}
	if metrics != nil {
		opts = append(opts, bizdoc.WithMetrics(metrics))
	}
	return opts
}
