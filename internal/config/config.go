package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-bizdoc/internal/fileutil"
	"github.com/alnah/go-bizdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDirName is the directory under os.UserConfigDir searched for configs.
const appDirName = "go-bizdoc"

// Field length limits.
const (
	MaxCompanyNameLength    = 100
	MaxBusinessNumberLength = 20 // "123-45-67890"
	MaxAddressLength        = 200
	MaxBusinessTypeLength   = 100
	MaxRepresentativeLength = 50
	MaxFontNameLength       = 64
	MaxFonts                = 16
	MaxPathLength           = 4096
	MaxDateFormatLength     = 50
)

// Timeout bounds for every engine step.
const (
	MinStepTimeout = time.Second
	MaxStepTimeout = 5 * time.Minute
)

// MaxConcurrentEngines caps pdf.maxConcurrent.
const MaxConcurrentEngines = 8

// Slide layouts.
const (
	LayoutStandard = "4:3"
	LayoutA4       = "a4"
)

// Config holds all configuration for the renderer, store, server and CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Company  CompanyConfig  `yaml:"company"`
	PDF      PDFConfig      `yaml:"pdf"`
	Slides   SlidesConfig   `yaml:"slides"`
	Assets   AssetsConfig   `yaml:"assets"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DatabaseConfig locates the SQLite document store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CompanyConfig is the issuer branding printed on every document.
type CompanyConfig struct {
	Name           string `yaml:"name"`
	BusinessNumber string `yaml:"businessNumber"`
	Address        string `yaml:"address"`
	BusinessType   string `yaml:"businessType"`
	Representative string `yaml:"representative"`
}

// PDFConfig tunes the headless browser renderer.
type PDFConfig struct {
	Fonts          []string      `yaml:"fonts"`          // font-family fallback chain, first match wins
	BrowserBin     string        `yaml:"browserBin"`     // empty = ROD_BROWSER_BIN or rod-managed Chromium
	MaxConcurrent  int           `yaml:"maxConcurrent"`  // 0 = derive from GOMAXPROCS
	StartupTimeout time.Duration `yaml:"startupTimeout"` // browser launch + connect
	LoadTimeout    time.Duration `yaml:"loadTimeout"`    // HTML load event
	FontTimeout    time.Duration `yaml:"fontTimeout"`    // document.fonts.ready
	PrintTimeout   time.Duration `yaml:"printTimeout"`   // print to PDF + stream read
}

// SlidesConfig tunes the slide deck renderer.
type SlidesConfig struct {
	Layout     string      `yaml:"layout"`     // "4:3" (10x7.5) or "a4"
	DateFormat string      `yaml:"dateFormat"` // "auto:korean", "auto:YYYY-MM-DD", or a fixed string
	Tiers      TiersConfig `yaml:"tiers"`
}

// TiersConfig selects the body font size from the body length in characters.
type TiersConfig struct {
	MediumAbove int     `yaml:"mediumAbove"`
	SmallAbove  int     `yaml:"smallAbove"`
	LargeSize   float64 `yaml:"largeSize"`
	MediumSize  float64 `yaml:"mediumSize"`
	SmallSize   float64 `yaml:"smallSize"`
}

// AssetsConfig points at optional custom styles/templates.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultFonts is the Korean-capable fallback chain used when none is configured.
func DefaultFonts() []string {
	return []string{
		"Noto Sans KR",
		"Noto Sans CJK KR",
		"Malgun Gothic",
		"Apple SD Gothic Neo",
		"NanumGothic",
	}
}

// DefaultConfig returns a configuration that works without a file.
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Database: DatabaseConfig{Path: "bizdoc.db"},
		PDF: PDFConfig{
			Fonts:          DefaultFonts(),
			StartupTimeout: 20 * time.Second,
			LoadTimeout:    15 * time.Second,
			FontTimeout:    10 * time.Second,
			PrintTimeout:   20 * time.Second,
		},
		Slides: SlidesConfig{
			Layout:     LayoutStandard,
			DateFormat: "auto:korean",
			Tiers: TiersConfig{
				MediumAbove: 300,
				SmallAbove:  500,
				LargeSize:   16,
				MediumSize:  14,
				SmallSize:   12,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks lengths and ranges. LoadConfig calls it; callers that build
// a Config by hand should too.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"company.name", c.Company.Name, MaxCompanyNameLength},
		{"company.businessNumber", c.Company.BusinessNumber, MaxBusinessNumberLength},
		{"company.address", c.Company.Address, MaxAddressLength},
		{"company.businessType", c.Company.BusinessType, MaxBusinessTypeLength},
		{"company.representative", c.Company.Representative, MaxRepresentativeLength},
		{"database.path", c.Database.Path, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"pdf.browserBin", c.PDF.BrowserBin, MaxPathLength},
		{"slides.dateFormat", c.Slides.DateFormat, MaxDateFormatLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := c.validatePDF(); err != nil {
		return err
	}
	if err := c.validateSlides(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}

	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdownTimeout must not be negative", ErrInvalidValue)
	}

	return nil
}

func (c *Config) validatePDF() error {
	if len(c.PDF.Fonts) > MaxFonts {
		return fmt.Errorf("%w: pdf.fonts has %d entries (max %d)", ErrInvalidValue, len(c.PDF.Fonts), MaxFonts)
	}
	for i, f := range c.PDF.Fonts {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: pdf.fonts[%d] is empty", ErrInvalidValue, i)
		}
		if strings.ContainsAny(f, `"'\;{}<>`) {
			return fmt.Errorf("%w: pdf.fonts[%d] %q contains CSS metacharacters", ErrInvalidValue, i, f)
		}
		if err := validateFieldLength(fmt.Sprintf("pdf.fonts[%d]", i), f, MaxFontNameLength); err != nil {
			return err
		}
	}

	if c.PDF.MaxConcurrent < 0 || c.PDF.MaxConcurrent > MaxConcurrentEngines {
		return fmt.Errorf("%w: pdf.maxConcurrent must be between 0 and %d, got %d", ErrInvalidValue, MaxConcurrentEngines, c.PDF.MaxConcurrent)
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"pdf.startupTimeout", c.PDF.StartupTimeout},
		{"pdf.loadTimeout", c.PDF.LoadTimeout},
		{"pdf.fontTimeout", c.PDF.FontTimeout},
		{"pdf.printTimeout", c.PDF.PrintTimeout},
	}
	for _, to := range timeouts {
		if to.d == 0 {
			continue // keep the renderer default
		}
		if to.d < MinStepTimeout || to.d > MaxStepTimeout {
			return fmt.Errorf("%w: %s must be between %v and %v, got %v", ErrInvalidValue, to.name, MinStepTimeout, MaxStepTimeout, to.d)
		}
	}
	return nil
}

func (c *Config) validateSlides() error {
	switch strings.ToLower(c.Slides.Layout) {
	case "", LayoutStandard, LayoutA4:
	default:
		return fmt.Errorf("%w: slides.layout %q (must be %q or %q)", ErrInvalidValue, c.Slides.Layout, LayoutStandard, LayoutA4)
	}

	t := c.Slides.Tiers
	if t == (TiersConfig{}) {
		return nil
	}
	if t.MediumAbove <= 0 || t.SmallAbove <= t.MediumAbove {
		return fmt.Errorf("%w: slides.tiers thresholds must satisfy 0 < mediumAbove < smallAbove, got %d/%d", ErrInvalidValue, t.MediumAbove, t.SmallAbove)
	}
	if t.SmallSize <= 0 || t.MediumSize < t.SmallSize || t.LargeSize < t.MediumSize {
		return fmt.Errorf("%w: slides.tiers sizes must satisfy 0 < small <= medium <= large, got %.1f/%.1f/%.1f", ErrInvalidValue, t.SmallSize, t.MediumSize, t.LargeSize)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig, so a file only needs the keys it changes.
// A name without path separators is searched with SearchPaths.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists, in order, the files LoadConfig tries for a config name:
// ./name.yaml, ./name.yml, then the same under the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, appDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
