// Package pdfinfo validates PDF buffers produced by the browser engine.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF indicates the buffer is not a readable PDF document.
var ErrInvalidPDF = errors.New("invalid PDF")

// Info describes a validated PDF.
type Info struct {
	Pages int
	Size  int
}

var disableConfigDir sync.Once

// Inspect parses and validates data and returns its page count.
// An empty or truncated buffer yields ErrInvalidPDF.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("%w: empty buffer", ErrInvalidPDF)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, fmt.Errorf("%w: missing %%PDF header", ErrInvalidPDF)
	}

	// pdfcpu would otherwise create a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if ctx.PageCount < 1 {
		return Info{}, fmt.Errorf("%w: no pages", ErrInvalidPDF)
	}
	return Info{Pages: ctx.PageCount, Size: len(data)}, nil
}
