package bizdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-bizdoc/internal/process"
)

// engineLauncher starts a fresh headless browser for a single render.
type engineLauncher interface {
	Launch(ctx context.Context) (engine, error)
}

// engine is a running browser. Close tears down the browser and its process
// tree.
type engine interface {
	NewPage(ctx context.Context) (enginePage, error)
	Close() error
}

// enginePage is one browser tab. Every blocking call is bounded by ctx.
type enginePage interface {
	Load(ctx context.Context, url string) error
	WaitFonts(ctx context.Context) error
	PrintPDF(ctx context.Context) ([]byte, error)
	Close() error
}

var (
	_ engineLauncher = (*rodLauncher)(nil)
	_ engine         = (*rodEngine)(nil)
	_ enginePage     = (*rodPage)(nil)
)

// A4 portrait in inches, 2.5cm margins.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 2.5 / 2.54
)

// Viewport matching A4 at 96 CSS px per inch.
const (
	viewportWidth  = 794
	viewportHeight = 1123
)

// releaseTimeout bounds each teardown call against a hung browser.
const releaseTimeout = 5 * time.Second

// rodLauncher launches Chromium through go-rod. Rod downloads a browser on
// first use when no binary is configured.
type rodLauncher struct {
	bin    string
	logger *zap.Logger
}

// Launch starts the browser and connects to it, both bounded by ctx.
func (r *rodLauncher) Launch(ctx context.Context) (engine, error) {
	l := launcher.New().Context(ctx).Headless(true)

	bin := r.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners rarely allow the Chrome sandbox.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, err
	}

	type result struct {
		browser *rod.Browser
		err     error
	}
	done := make(chan result, 1)
	go func() {
		b := rod.New().ControlURL(u)
		done <- result{browser: b, err: b.Connect()}
	}()

	e := &rodEngine{launcher: l, logger: r.logger}
	select {
	case <-ctx.Done():
		go func() {
			if res := <-done; res.err == nil {
				_ = res.browser.Close()
			}
		}()
		_ = e.Close()
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			_ = e.Close()
			return nil, res.err
		}
		e.browser = res.browser
		return e, nil
	}
}

// rodEngine owns one launcher process and its browser connection.
type rodEngine struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   *zap.Logger
}

// NewPage opens a blank tab sized to an A4 sheet.
func (e *rodEngine) NewPage(ctx context.Context) (enginePage, error) {
	page, err := e.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	// Detach from ctx so later steps and Close use their own deadlines.
	page = page.Context(context.Background())

	err = page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = closePage(page)
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Close closes the browser, then kills the launcher process group and
// removes the browser profile directory.
func (e *rodEngine) Close() error {
	var errs []error
	if e.browser != nil {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		if err := e.browser.Context(ctx).Close(); err != nil && !isEngineGone(err) {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
		cancel()
		e.browser = nil
	}

	if e.launcher == nil {
		return errors.Join(errs...)
	}
	pid := e.launcher.PID()
	e.launcher.Kill()
	if err := process.KillGroup(pid); err != nil {
		errs = append(errs, fmt.Errorf("killing browser process group %d: %w", pid, err))
	}
	if pid > 0 {
		done := make(chan struct{})
		go func() {
			e.launcher.Cleanup()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(releaseTimeout):
			errs = append(errs, fmt.Errorf("browser process %d did not exit", pid))
		}
	}
	e.launcher = nil
	return errors.Join(errs...)
}

// rodPage adapts a rod page to enginePage.
type rodPage struct {
	page *rod.Page
}

// Load navigates to url and waits for the load event.
func (p *rodPage) Load(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// WaitFonts blocks until document.fonts.ready resolves.
func (p *rodPage) WaitFonts(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => document.fonts.ready.then(() => true)`)
	return err
}

// PrintPDF prints the page as A4 and reads the whole stream.
func (p *rodPage) PrintPDF(ctx context.Context) ([]byte, error) {
	stream, err := p.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	buf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return buf, nil
}

// Close closes the tab.
func (p *rodPage) Close() error {
	return closePage(p.page)
}

func closePage(page *rod.Page) error {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := page.Context(ctx).Close(); err != nil && !isEngineGone(err) {
		return err
	}
	return nil
}

// engineGoneMarkers are the messages rod and the CDP transport report once
// the browser process or its tab has disappeared.
var engineGoneMarkers = []string{
	"target closed",
	"session closed",
	"connection closed",
	"use of closed network connection",
	"websocket: close",
	"broken pipe",
	"connection reset by peer",
	"no target with given id",
}

// isEngineGone reports whether err means the browser died under us.
func isEngineGone(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range engineGoneMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classifyEngineError wraps err from the named stage in its render category.
// stepCtx is the context the failed call ran under.
func classifyEngineError(stepCtx context.Context, stage, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w: %w", ErrRenderTimeout, stage, err)
	case isEngineGone(err):
		return fmt.Errorf("%w: %w: %w", ErrEngineCrashed, stage, err)
	default:
		return fmt.Errorf("%w: %w: %w", ErrRenderFailed, stage, err)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
