package bizdoc

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-bizdoc/internal/fileutil"
	"github.com/alnah/go-bizdoc/internal/pdfinfo"
)

// pdfRenderer prints document HTML through a headless browser. Every call
// launches its own engine and releases it before returning.
type pdfRenderer struct {
	launcher engineLauncher
	timeouts Timeouts
	verify   func([]byte) (pdfinfo.Info, error)
	logger   *zap.Logger
	metrics  Metrics
}

// render prints html to PDF. The page is closed before the engine on every
// exit path and release failures are only logged.
func (p *pdfRenderer) render(ctx context.Context, html string) ([]byte, error) {
	path, removeFile, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: writing document HTML: %v", ErrRenderFailed, err)
	}
	defer removeFile()

	var eng engine
	err = runStep(ctx, p.timeouts.Startup, ErrBrowserConnect, func(stepCtx context.Context) error {
		var err error
		eng, err = p.launcher.Launch(stepCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.EngineStarted()
	defer func() {
		if err := eng.Close(); err != nil {
			p.logRelease("engine", err)
		}
		p.metrics.EngineStopped()
	}()

	var page enginePage
	err = runStep(ctx, p.timeouts.Startup, ErrPageCreate, func(stepCtx context.Context) error {
		var err error
		page, err = eng.NewPage(stepCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			p.logRelease("page", err)
		}
	}()

	err = runStep(ctx, p.timeouts.Load, ErrPageLoad, func(stepCtx context.Context) error {
		return page.Load(stepCtx, fileURL(path))
	})
	if err != nil {
		return nil, err
	}

	err = runStep(ctx, p.timeouts.Fonts, ErrFontsLoad, page.WaitFonts)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = runStep(ctx, p.timeouts.Print, ErrPDFGeneration, func(stepCtx context.Context) error {
		var err error
		data, err = page.PrintPDF(stepCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	info, err := p.verify(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrRenderFailed, ErrInvalidPDF, err)
	}
	p.logger.Debug("pdf printed", zap.Int("pages", info.Pages), zap.Int("bytes", info.Size))
	return data, nil
}

func (p *pdfRenderer) logRelease(what string, err error) {
	p.logger.Warn("releasing pdf "+what,
		zap.Error(fmt.Errorf("%w: %w", ErrResourceCleanupFailed, err)))
}

// runStep runs fn under its own deadline and classifies the failure while
// the step context is still live.
func runStep(ctx context.Context, d time.Duration, stage error, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	if err := fn(stepCtx); err != nil {
		return classifyEngineError(stepCtx, stage, err)
	}
	return nil
}

// fileURL turns an absolute path into a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
