package assets

import (
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	DefaultStyleName    = "document"
	DefaultTemplateName = "document"
)

// AssetLoader loads stylesheets and HTML templates by name, without extension.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName rejects empty names and names containing separators or
// dots, so a name can never leave its asset directory or change extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
