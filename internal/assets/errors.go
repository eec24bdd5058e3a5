package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// isNotFound reports whether err means the asset is absent, the only case in
// which AssetResolver falls back to the embedded copy.
func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
