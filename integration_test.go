//go:build integration

package bizdoc

// Integration tests launch a real Chromium through rod. Run with:
//
//	go test -tags integration ./...

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-bizdoc/internal/pdfinfo"
)

const integrationTimeout = 90 * time.Second

func newIntegrationRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(append([]Option{
		WithCompanyInfo(CompanyInfo{Name: "주식회사 예시", BusinessNumber: "123-45-67890"}),
		WithMaxConcurrentPDF(2),
	}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestIntegration_GeneratePDF(t *testing.T) {
	r := newIntegrationRenderer(t)
	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	doc := completedDoc(`{"documentType":"견적서","customer":"테스트 고객","items":[{"name":"A","price":1000}]}`)
	pdf, err := r.GeneratePDF(ctx, doc)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}

	info, err := pdfinfo.Inspect(pdf)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Pages < 1 {
		t.Errorf("Pages = %d, want at least 1", info.Pages)
	}
	if r.EnginesInUse() != 0 {
		t.Errorf("EnginesInUse() = %d after render", r.EnginesInUse())
	}
}

func TestIntegration_GeneratePDF_Concurrent(t *testing.T) {
	r := newIntegrationRenderer(t)
	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	errs := make(chan error, 3)
	for range 3 {
		go func() {
			_, err := r.GeneratePDF(ctx, completedDoc(`{"a":"b"}`))
			errs <- err
		}()
	}
	for range 3 {
		if err := <-errs; err != nil {
			t.Errorf("GeneratePDF() error = %v", err)
		}
	}
}

func TestIntegration_GeneratePDF_LoadTimeout(t *testing.T) {
	r := newIntegrationRenderer(t, WithTimeouts(Timeouts{Load: time.Nanosecond}))
	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	_, err := r.GeneratePDF(ctx, completedDoc(`"x"`))
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("GeneratePDF() error = %v, want ErrRenderTimeout", err)
	}
}
