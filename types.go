package md2deck

import (
	"log/slog"

	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Config is the deck configuration. See DefaultConfig.
type Config = config.Config

// DefaultConfig returns the configuration used when no md2deck.yaml exists.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// CopyReport lists the outcome of copying one asset directory.
type CopyReport = fileutil.CopyReport

// TagKind identifies a tag type (image, table, chart, video, script).
type TagKind = tags.Kind

// Output layout, relative to the output directory.
const (
	IndexFile      = "index.html"
	StylesheetPath = "styles/custom.css"
	ImagesDir      = "assets/images"
	ScriptsDir     = "scripts"
	PDFFile        = "presentation.pdf"
)

// RenderInput is the in-memory input of Render.
type RenderInput struct {
	// Source is the markdown document.
	Source string
	// BaseDir is the presentation directory; CSV paths resolve against
	// BaseDir/<paths.data>.
	BaseDir string
}

// Rendered is the in-memory output of Render.
type Rendered struct {
	HTML []byte
	// CSS is the stylesheet written to styles/custom.css (or inlined).
	CSS    string
	Slides int
	// TagCounts counts well-formed tags in the source, per kind.
	TagCounts map[TagKind]int
	// ImageRefs and ScriptRefs are the relative files the deck loads.
	ImageRefs  []string
	ScriptRefs []string
}

// Result describes a completed Build.
type Result struct {
	*Rendered

	OutputDir      string
	IndexPath      string
	StylesheetPath string
	PDFPath        string // empty when PDF export is disabled

	Images  *CopyReport
	Scripts *CopyReport

	// MissingRefs lists files referenced by the deck that are absent from
	// the output directory after copying.
	MissingRefs []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithLogger sets the logger for build events. Nil keeps the discarding
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAssetLoader sets a custom loader for the stylesheet and deck template.
// It takes precedence over WithAssetPath and assets.basePath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(b *Builder) {
		b.publicAssetLoader = loader
	}
}

// WithAssetPath loads the stylesheet and deck template from dir, falling
// back to the built-in assets. It takes precedence over assets.basePath.
func WithAssetPath(dir string) Option {
	return func(b *Builder) {
		b.assetPath = dir
	}
}

// WithPDFRenderer replaces the headless Chrome renderer used by PDF export.
func WithPDFRenderer(r PDFRenderer) Option {
	return func(b *Builder) {
		b.pdf = r
	}
}
