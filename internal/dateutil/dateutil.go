// Package dateutil formats issue dates printed on rendered documents.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used for a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// DefaultDocumentDate is the value renderers use when none is configured.
const DefaultDocumentDate = "auto:korean"

// dateTokens maps format tokens to Go layout components, longest first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"korean":   "YYYY년 M월 D일",
	"dotted":   "YYYY. MM. DD.",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D)
// into a Go time layout. Text inside brackets is copied literally, as is any
// byte that does not start a token, so Hangul unit suffixes pass through.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d bytes", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var out strings.Builder
	out.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				out.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(format[i])
			i++
		}
	}

	return out.String(), nil
}

// ResolveDate expands "auto", "auto:FORMAT" and "auto:preset" against t.
// Any other value is returned unchanged so a fixed date can be configured.
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	if lower == "auto" {
		return Format(DefaultDateFormat, t)
	}

	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	formatPart := value[len("auto:"):]
	if formatPart == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(formatPart)]; ok {
		formatPart = preset
	}

	return Format(formatPart, t)
}

// Format renders t with a token format string.
func Format(format string, t time.Time) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
