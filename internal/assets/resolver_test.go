package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("empty path should not configure a custom loader")
	}

	r, err = NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver(dir) error = %v", err)
	}
	if !r.HasCustomLoader() {
		t.Error("valid path should configure a custom loader")
	}

	if _, err := NewAssetResolver("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", DefaultStyleName+".css", "/* custom */")

	r, err := NewAssetResolver(base)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	style, err := r.LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if style != "/* custom */" {
		t.Errorf("LoadStyle() = %q, want custom override", style)
	}

	tmpl, err := r.LoadTemplate(DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(tmpl, "doc-section") {
		t.Error("LoadTemplate() should fall back to the embedded template")
	}
}

func TestAssetResolver_NoFallbackOnInvalidName(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if _, err := r.LoadStyle("../document"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("error = %v, want ErrInvalidAssetName", err)
	}
}
