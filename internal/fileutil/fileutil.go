// Package fileutil provides temp file and filename helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// MaxFilenameRunes caps sanitized filename stems.
const MaxFilenameRunes = 100

// fallbackFilename is used when sanitizing leaves nothing.
const fallbackFilename = "document"

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "bizdoc-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SanitizeFilename turns a document title into a filename stem.
// Letters and digits of any script survive (Hangul included), as do '-',
// '.', '(' and ')'. Every other run of characters becomes a single '_'.
// The title is NFC-normalized first so decomposed Hangul from macOS
// clients produces the same name as composed input.
func SanitizeFilename(title string) string {
	title = norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(title))
	lastUnderscore := false
	count := 0
	for _, r := range title {
		if count >= MaxFilenameRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-.()", r) {
			b.WriteRune(r)
			lastUnderscore = false
			count++
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
			count++
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallbackFilename
	}
	return out
}

// ASCIIFilename returns an ASCII-only variant of SanitizeFilename for
// clients that ignore RFC 5987 encoded filenames.
func ASCIIFilename(title string) string {
	stem := SanitizeFilename(title)

	var b strings.Builder
	lastUnderscore := false
	for _, r := range stem {
		if r < unicode.MaxASCII && r != '_' {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallbackFilename
	}
	return out
}
