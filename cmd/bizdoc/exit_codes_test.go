package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"engine crashed", fmt.Errorf("%w: %w", bizdoc.ErrEngineCrashed, bizdoc.ErrPageLoad), ExitBrowser},
		{"render timeout", fmt.Errorf("%w: %w", bizdoc.ErrRenderTimeout, bizdoc.ErrPDFGeneration), ExitBrowser},
		{"browser connect", bizdoc.ErrBrowserConnect, ExitBrowser},
		{"page create", fmt.Errorf("failed: %w", bizdoc.ErrPageCreate), ExitBrowser},

		{"not exist", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"read document", fmt.Errorf("%w: %w", ErrReadDocument, os.ErrNotExist), ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},

		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config invalid value", config.ErrInvalidValue, ExitUsage},
		{"usage", fmt.Errorf("%w: unknown flag", ErrUsage), ExitUsage},
		{"invalid format", ErrInvalidFormat, ExitUsage},
		{"parse document", ErrParseDocument, ExitUsage},
		{"invalid type", bizdoc.ErrInvalidDocumentType, ExitUsage},
		{"empty title", bizdoc.ErrEmptyTitle, ExitUsage},
		{"not completed", bizdoc.ErrDocumentNotCompleted, ExitUsage},
		{"invalid layout", bizdoc.ErrInvalidLayout, ExitUsage},

		{"render failed", bizdoc.ErrRenderFailed, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
		{"joined keeps the first match", errors.Join(errors.New("boom"), ErrNoInput), ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_UnixConventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitGeneral, ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("custom code %d outside (2, 126)", code)
		}
	}
}
