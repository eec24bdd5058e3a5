package bizdoc

import "errors"

// Sentinel errors for rendering.
var (
	ErrEngineCrashed         = errors.New("rendering engine crashed")
	ErrRenderTimeout         = errors.New("rendering timed out")
	ErrRenderFailed          = errors.New("rendering failed")
	ErrResourceCleanupFailed = errors.New("rendering engine cleanup failed")

	// Engine startup stages, always wrapped together with a category above.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrFontsLoad      = errors.New("failed waiting for fonts")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrInvalidPDF     = errors.New("engine produced an invalid PDF")

	// Document validation errors.
	ErrNilDocument          = errors.New("document is nil")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentNotCompleted = errors.New("document is not completed")
	ErrInvalidDocumentType  = errors.New("invalid document type")
	ErrInvalidStatus        = errors.New("invalid document status")
	ErrEmptyTitle           = errors.New("document title cannot be empty")

	// Option validation errors.
	ErrInvalidFontTiers  = errors.New("invalid font tiers")
	ErrInvalidLayout     = errors.New("invalid slide layout")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Category is the user-facing class of a render failure.
type Category string

// Render failure categories.
const (
	CategoryNone          Category = ""
	CategoryEngineCrashed Category = "engine_crashed"
	CategoryTimeout       Category = "render_timeout"
	CategoryFailed        Category = "render_failed"
	CategoryNotReady      Category = "not_ready"
	CategoryNotFound      Category = "not_found"
	CategoryUnknown       Category = "unknown"
)

// CategoryOf classifies err. Crash and timeout take precedence over the
// generic failure so a wrapped chain reports its most specific cause.
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrEngineCrashed):
		return CategoryEngineCrashed
	case errors.Is(err, ErrRenderTimeout):
		return CategoryTimeout
	case errors.Is(err, ErrRenderFailed):
		return CategoryFailed
	case errors.Is(err, ErrDocumentNotCompleted):
		return CategoryNotReady
	case errors.Is(err, ErrDocumentNotFound):
		return CategoryNotFound
	default:
		return CategoryUnknown
	}
}

// Retryable reports whether a caller may reasonably try the same render again.
func Retryable(err error) bool {
	switch CategoryOf(err) {
	case CategoryEngineCrashed, CategoryTimeout:
		return true
	}
	return false
}
