// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-bizdoc/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch and connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN or pdf.browserBin to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the per-step render timeouts.
func ForTimeout() string {
	return format("raise pdf.loadTimeout / pdf.printTimeout in the config for long documents")
}

// ForEngineCrash returns a hint for a browser that died mid-render.
func ForEngineCrash() string {
	return format("the browser exited during rendering; retry, and check memory limits (shm size in Docker)")
}

// ForMissingFonts returns a hint for documents printed with fallback glyphs.
func ForMissingFonts() string {
	return format("install a Korean font (e.g. fonts-noto-cjk) or list installed families under pdf.fonts")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-bizdoc") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNotCompleted returns a hint for rendering a document still being generated.
func ForNotCompleted() string {
	return format("only documents with status \"completed\" can be rendered")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
