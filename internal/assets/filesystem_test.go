package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeAsset(t *testing.T, base, dir, file, content string) {
	t.Helper()
	full := filepath.Join(base, dir)
	if err := os.MkdirAll(full, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(full, file), []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, ".", "file.txt", "x")

		if _, err := NewFilesystemLoader(filepath.Join(dir, "file.txt")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "brand.css", "body{color:navy}")
	writeAsset(t, base, "templates", "brand.html", "<h1>{{.Title}}</h1>")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	if got, err := loader.LoadStyle("brand"); err != nil || got != "body{color:navy}" {
		t.Errorf("LoadStyle(brand) = %q, %v", got, err)
	}
	if got, err := loader.LoadTemplate("brand"); err != nil || got != "<h1>{{.Title}}</h1>" {
		t.Errorf("LoadTemplate(brand) = %q, %v", got, err)
	}
	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadStyle("../brand"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../brand) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	outside := t.TempDir()
	writeAsset(t, outside, ".", "secret.css", "leak")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(base, "styles", "evil.css")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrPathTraversal", err)
	}
}
