// Package bizdoc renders generated Korean business documents to PDF and PPTX.
//
// # Quick Start
//
// Create a renderer, render a completed document, and close when done:
//
//	r, err := bizdoc.NewRenderer(
//	    bizdoc.WithCompanyInfo(bizdoc.CompanyInfo{Name: "주식회사 예시"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	pdf, err := r.GeneratePDF(ctx, doc)
//	deck, err := r.GeneratePPTX(ctx, doc)
//
// # Content
//
// Document.Content is schema-less JSON. It is normalized into an ordered list
// of heading/body sections before either renderer sees it:
//
//  1. {"slides": [...]} yields one section per slide
//  2. any other non-empty object yields one section per key, in key order
//  3. everything else yields a single "내용" section
//
// Rendering never modifies Document.Content.
//
// # PDF
//
// The PDF path builds an HTML page (company header, title block, one block
// per section), loads it in a headless Chromium started for this call only,
// waits for fonts and prints A4 with 2.5cm margins. Each wait has its own
// timeout, see Timeouts. The page and browser are released on every exit
// path.
//
// # Errors
//
// Failures are classified by sentinel. Use CategoryOf or errors.Is:
//
//   - ErrEngineCrashed: the browser died mid-render (PDF only)
//   - ErrRenderTimeout: a PDF step exceeded its timeout
//   - ErrRenderFailed: anything else, with the underlying message
//
// Release failures are logged as ErrResourceCleanupFailed and never returned.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN or WithBrowserBin to specify a custom
// Chrome binary.
package bizdoc
