package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-bizdoc/internal/hints"
)

const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Config   configInfo  `json:"config"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool     `json:"temp_writable"`
	KoreanFonts  []string `json:"korean_fonts,omitempty"`
}

type configInfo struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Warnings still exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	f, err := parseDoctorFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(f.config, env)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkConfig(result, configName, env)
	checkBrowser(result)
	checkEnvironment(result, env)
	checkSystem(result)
	checkFonts(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

// checkConfig loads the config the render and serve commands would use.
// A configured browserBin takes the place of ROD_BROWSER_BIN.
func checkConfig(result *doctorResult, name string, env *Environment) {
	if name == "" {
		name = env.Getenv("BIZDOC_CONFIG")
	}
	result.Config.Source = name
	if name == "" {
		result.Config.Source = "defaults"
	}

	cfg, err := loadConfig(name, env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return
	}
	result.Config.Valid = true
	if cfg.PDF.BrowserBin != "" {
		result.Env.BrowserBin = cfg.PDF.BrowserBin
	}
}

func checkBrowser(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		var found bool
		path, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	result.Browser.Found = true
	result.Browser.Path = path

	out, err := exec.Command(path, "--version").Output()
	if err == nil {
		result.Browser.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Browser.Sandbox = result.Env.NoSandbox != "1"
}

func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether the process runs in a container and which
// signal gave it away.
func isContainer(env *Environment) (bool, string) {
	if env.Getenv("BIZDOC_CONTAINER") == "1" {
		return true, "BIZDOC_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := env.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	probe := filepath.Join(tmpDir, "bizdoc-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(probe)
	result.System.TempWritable = true
}

// checkFonts lists installed Korean font families via fontconfig. Missing
// fontconfig is not an error; Chrome may still find fonts on its own.
func checkFonts(result *doctorResult) {
	path, err := exec.LookPath("fc-list")
	if err != nil {
		return
	}
	out, err := exec.Command(path, ":lang=ko", "family").Output()
	if err != nil {
		return
	}
	result.System.KoreanFonts = parseFontFamilies(string(out))
	if len(result.System.KoreanFonts) == 0 {
		result.Warnings = append(result.Warnings,
			"No Korean fonts installed. Hangul will print with fallback glyphs (install fonts-noto-cjk)")
	}
}

// parseFontFamilies extracts unique family names from fc-list output, where
// each line may carry several comma-separated localized names.
func parseFontFamilies(out string) []string {
	seen := make(map[string]bool)
	var families []string
	for line := range strings.Lines(out) {
		name, _, _ := strings.Cut(strings.TrimSpace(line), ",")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		families = append(families, name)
	}
	return families
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "bizdoc doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if len(r.System.KoreanFonts) > 0 {
		fmt.Fprintf(w, "  [OK] Korean fonts: %s\n", strings.Join(r.System.KoreanFonts, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] %s\n", r.Config.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
