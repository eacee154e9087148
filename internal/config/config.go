// Package config loads and validates md2deck configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultFileName is the per-presentation config file looked up by LoadFromDir.
const DefaultFileName = "md2deck.yaml"

// userConfigDirName is the directory under os.UserConfigDir searched for
// named configs.
const userConfigDirName = "md2deck"

// Render modes.
const (
	RenderMarkdown = "markdown"
	RenderRaw      = "raw"
)

// Field length limits.
const (
	MaxTitleLength      = 200
	MaxPathLength       = 1024
	MaxURLLength        = 2048
	MaxVersionLength    = 50
	MaxThemeLength      = 50
	MaxTransitionLength = 20
	MaxStyleNameLength  = 50
)

// Defaults, matching the reveal.js and Chart.js releases the deck template
// is written against.
const (
	DefaultTitle          = "Presentation"
	DefaultCDNBaseURL     = "https://cdn.jsdelivr.net/npm"
	DefaultRevealVersion  = "4.5.0"
	DefaultChartVersion   = "4.4.0"
	DefaultTheme          = "black"
	DefaultTransition     = "slide"
	DefaultHighlightStyle = "monokai"
	DefaultPDFTimeout     = 30 * time.Second
)

// versionPattern accepts semver-like versions such as 4.5.0 or 5.0.0-rc.1.
var versionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}([-+][0-9A-Za-z.-]+)?$`)

// validTransitions are the transitions reveal.js ships.
var validTransitions = map[string]bool{
	"none": true, "fade": true, "slide": true, "convex": true, "concave": true, "zoom": true,
}

// Config holds all configuration for deck generation.
type Config struct {
	Title  string       `yaml:"title"`
	Paths  PathsConfig  `yaml:"paths"`
	CDN    CDNConfig    `yaml:"cdn"`
	Reveal RevealConfig `yaml:"reveal"`
	Render RenderConfig `yaml:"render"`
	Assets AssetsConfig `yaml:"assets"`
	PDF    PDFConfig    `yaml:"pdf"`
}

// PathsConfig locates inputs and outputs, relative to the presentation
// directory.
type PathsConfig struct {
	Content string `yaml:"content"` // markdown source (default: content.md)
	Output  string `yaml:"output"`  // build directory (default: output)
	Images  string `yaml:"images"`  // copied flat to <output>/assets/images
	Data    string `yaml:"data"`    // CSV files for table and chart tags
	Scripts string `yaml:"scripts"` // copied flat to <output>/scripts
}

// CDNConfig pins the runtime libraries loaded by the deck.
type CDNConfig struct {
	BaseURL       string `yaml:"baseURL"`
	RevealVersion string `yaml:"revealVersion"`
	ChartVersion  string `yaml:"chartVersion"`
	Theme         string `yaml:"theme"`
}

// RevealConfig holds the options passed to Reveal.initialize.
type RevealConfig struct {
	Hash       bool   `yaml:"hash"`
	Controls   bool   `yaml:"controls"`
	Progress   bool   `yaml:"progress"`
	Center     bool   `yaml:"center"`
	Transition string `yaml:"transition"`
}

// RenderConfig controls how slide markdown becomes HTML.
type RenderConfig struct {
	Mode           string `yaml:"mode"`           // "markdown" (default) or "raw"
	InlineCSS      bool   `yaml:"inlineCSS"`      // embed the stylesheet in index.html
	HighlightStyle string `yaml:"highlightStyle"` // chroma style for code blocks
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PDFConfig controls the optional PDF export.
type PDFConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Title: DefaultTitle,
		Paths: PathsConfig{
			Content: "content.md",
			Output:  "output",
			Images:  "images",
			Data:    "data",
			Scripts: "scripts",
		},
		CDN: CDNConfig{
			BaseURL:       DefaultCDNBaseURL,
			RevealVersion: DefaultRevealVersion,
			ChartVersion:  DefaultChartVersion,
			Theme:         DefaultTheme,
		},
		Reveal: RevealConfig{
			Hash:       true,
			Controls:   true,
			Progress:   true,
			Center:     true,
			Transition: DefaultTransition,
		},
		Render: RenderConfig{
			Mode:           RenderMarkdown,
			HighlightStyle: DefaultHighlightStyle,
		},
		PDF: PDFConfig{Timeout: DefaultPDFTimeout},
	}
}

// Validate checks lengths, enumerations and path shapes.
// Called automatically by LoadConfig, but available for library users who
// construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"paths.content", c.Paths.Content, MaxPathLength},
		{"paths.output", c.Paths.Output, MaxPathLength},
		{"paths.images", c.Paths.Images, MaxPathLength},
		{"paths.data", c.Paths.Data, MaxPathLength},
		{"paths.scripts", c.Paths.Scripts, MaxPathLength},
		{"cdn.baseURL", c.CDN.BaseURL, MaxURLLength},
		{"cdn.revealVersion", c.CDN.RevealVersion, MaxVersionLength},
		{"cdn.chartVersion", c.CDN.ChartVersion, MaxVersionLength},
		{"cdn.theme", c.CDN.Theme, MaxThemeLength},
		{"reveal.transition", c.Reveal.Transition, MaxTransitionLength},
		{"render.highlightStyle", c.Render.HighlightStyle, MaxStyleNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	for _, p := range []struct{ field, value string }{
		{"paths.content", c.Paths.Content},
		{"paths.output", c.Paths.Output},
		{"paths.images", c.Paths.Images},
		{"paths.data", c.Paths.Data},
		{"paths.scripts", c.Paths.Scripts},
	} {
		if err := validateRelativePath(p.field, p.value); err != nil {
			return err
		}
	}

	if c.CDN.BaseURL != "" && !fileutil.IsURL(c.CDN.BaseURL) {
		return fmt.Errorf("%w: cdn.baseURL must start with http:// or https://, got %q", ErrInvalidValue, c.CDN.BaseURL)
	}
	for _, v := range []struct{ field, value string }{
		{"cdn.revealVersion", c.CDN.RevealVersion},
		{"cdn.chartVersion", c.CDN.ChartVersion},
	} {
		if v.value != "" && !versionPattern.MatchString(v.value) {
			return fmt.Errorf("%w: %s: %q is not a version", ErrInvalidValue, v.field, v.value)
		}
	}
	if strings.ContainsAny(c.CDN.Theme, "/\\.") {
		return fmt.Errorf("%w: cdn.theme: %q must be a theme name", ErrInvalidValue, c.CDN.Theme)
	}

	if c.Reveal.Transition != "" && !validTransitions[strings.ToLower(c.Reveal.Transition)] {
		return fmt.Errorf("%w: reveal.transition: %q (must be none, fade, slide, convex, concave or zoom)", ErrInvalidValue, c.Reveal.Transition)
	}

	switch strings.ToLower(c.Render.Mode) {
	case "", RenderMarkdown, RenderRaw:
	default:
		return fmt.Errorf("%w: render.mode: %q (must be markdown or raw)", ErrInvalidValue, c.Render.Mode)
	}

	if c.PDF.Timeout < 0 {
		return fmt.Errorf("%w: pdf.timeout must not be negative, got %s", ErrInvalidValue, c.PDF.Timeout)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRelativePath rejects absolute paths and paths escaping the
// presentation directory. Empty values fall back to defaults.
func validateRelativePath(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if filepath.IsAbs(value) || strings.HasPrefix(value, "/") {
		return fmt.Errorf("%w: %s must be relative, got %q", ErrInvalidValue, fieldName, value)
	}
	clean := filepath.ToSlash(filepath.Clean(value))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %s escapes the presentation directory: %q", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
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

	return loadFile(configPath)
}

// LoadFromDir loads <dir>/md2deck.yaml when present, and DefaultConfig
// otherwise.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFileName)
	if !fileutil.FileExists(path) {
		return DefaultConfig(), nil
	}
	return loadFile(path)
}

func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/md2deck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, userConfigDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
