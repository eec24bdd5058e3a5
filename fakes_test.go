package bizdoc

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// callLog records engine calls in order across goroutines.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(call string) int {
	n := 0
	for _, c := range l.list() {
		if c == call {
			n++
		}
	}
	return n
}

// fakeLauncher hands out fakeEngines and tracks how many are alive.
type fakeLauncher struct {
	log       *callLog
	launchErr error
	block     bool // Launch waits for ctx

	// Copied into every engine and page.
	newPageErr error
	engineErr  error
	page       fakePage

	active    atomic.Int32
	maxActive atomic.Int32
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{log: &callLog{}, page: fakePage{pdf: []byte("%PDF-1.7 fake")}}
}

func (f *fakeLauncher) Launch(ctx context.Context) (engine, error) {
	f.log.add("launch")
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	n := f.active.Add(1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	page := f.page
	page.log = f.log
	return &fakeEngine{log: f.log, launcher: f, newPageErr: f.newPageErr, closeErr: f.engineErr, page: &page}, nil
}

type fakeEngine struct {
	log        *callLog
	launcher   *fakeLauncher
	newPageErr error
	closeErr   error
	page       *fakePage
}

func (e *fakeEngine) NewPage(context.Context) (enginePage, error) {
	e.log.add("page.new")
	if e.newPageErr != nil {
		return nil, e.newPageErr
	}
	return e.page, nil
}

func (e *fakeEngine) Close() error {
	e.log.add("engine.close")
	e.launcher.active.Add(-1)
	return e.closeErr
}

// fakePage fails or blocks at a configurable step.
type fakePage struct {
	log      *callLog
	pdf      []byte
	loadErr  error
	fontsErr error
	printErr error
	closeErr error
	blockAt  string // "load", "fonts" or "print"
	panicAt  string
	loadHook func(url string)
}

func (p *fakePage) step(ctx context.Context, name string, err error) error {
	p.log.add(name)
	if p.panicAt == name {
		panic("engine bug at " + name)
	}
	if p.blockAt == name {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (p *fakePage) Load(ctx context.Context, url string) error {
	if p.loadHook != nil {
		p.loadHook(url)
	}
	return p.step(ctx, "load", p.loadErr)
}

func (p *fakePage) WaitFonts(ctx context.Context) error {
	return p.step(ctx, "fonts", p.fontsErr)
}

func (p *fakePage) PrintPDF(ctx context.Context) ([]byte, error) {
	if err := p.step(ctx, "print", p.printErr); err != nil {
		return nil, err
	}
	return p.pdf, nil
}

func (p *fakePage) Close() error {
	p.log.add("page.close")
	return p.closeErr
}

// readLoadedFile returns the HTML behind a file:// URL.
func readLoadedFile(url string) (string, error) {
	data, err := os.ReadFile(strings.TrimPrefix(url, "file://"))
	return string(data), err
}
