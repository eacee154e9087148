package md2deck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2deck/internal/assets"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/logging"
	"github.com/alnah/go-md2deck/internal/pipeline"
	"github.com/alnah/go-md2deck/internal/resolve"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.TagSubstitutor       = (*pipeline.TagEngine)(nil)
	_ pipeline.SlideRenderer        = (*pipeline.GoldmarkRenderer)(nil)
	_ pipeline.SlideRenderer        = (*pipeline.RawRenderer)(nil)
)

// Builder orchestrates the markdown-to-deck pipeline.
// Create with NewBuilder, call Build or Render, and Close when done.
// A Builder holds no per-build state and may be reused for several builds,
// but not concurrently when PDF export is enabled.
type Builder struct {
	cfg    *Config
	logger *slog.Logger

	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	assetPath         string

	preprocessor pipeline.MarkdownPreprocessor
	renderer     pipeline.SlideRenderer
	assembler    *pipeline.DeckAssembler
	registry     resolve.Registry
	stylesheet   string

	pdf PDFRenderer
}

// NewBuilder creates a Builder. The configuration is validated and the
// deck template and stylesheet are loaded up front, so asset problems
// surface before any file is read.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg:          config.DefaultConfig(),
		logger:       logging.Discard(),
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		registry:     resolve.DefaultRegistry(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.cfg == nil {
		return nil, ErrNilConfig
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := b.resolveAssetLoader(); err != nil {
		return nil, err
	}

	if b.markdownMode() {
		style := b.highlightStyle()
		if !pipeline.HasHighlightStyle(style) {
			return nil, fmt.Errorf("%w: %w: render.highlightStyle %q", ErrInvalidConfig, ErrHighlightStyle, style)
		}
		b.renderer = pipeline.NewGoldmarkRenderer()
	} else {
		b.renderer = &pipeline.RawRenderer{}
	}

	tmpl, err := b.assetLoader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading deck template: %w", err)
	}
	b.assembler, err = pipeline.NewDeckAssembler(tmpl)
	if err != nil {
		return nil, fmt.Errorf("initializing deck assembler: %w", err)
	}

	if err := b.loadStylesheet(); err != nil {
		return nil, err
	}

	return b, nil
}

// resolveAssetLoader picks the loader by precedence: WithAssetLoader, then
// WithAssetPath, then assets.basePath, then the embedded assets.
func (b *Builder) resolveAssetLoader() error {
	if b.publicAssetLoader != nil {
		b.assetLoader = b.publicAssetLoader
		return nil
	}

	path := b.assetPath
	if path == "" {
		path = b.cfg.Assets.BasePath
	}
	if path == "" {
		return nil
	}

	resolver, err := assets.NewAssetResolver(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAssetPath, err)
	}
	b.assetLoader = resolver
	return nil
}

// loadStylesheet loads custom.css and, in markdown mode, appends the code
// highlighting rules.
func (b *Builder) loadStylesheet() error {
	css, err := b.assetLoader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return fmt.Errorf("loading stylesheet: %w", err)
	}

	if b.markdownMode() {
		highlight, err := pipeline.HighlightCSS(b.highlightStyle())
		if err != nil {
			return err
		}
		css = strings.TrimRight(css, "\n") + "\n\n/* Code highlighting */\n" + highlight
	}

	b.stylesheet = css
	return nil
}

func (b *Builder) markdownMode() bool {
	return !strings.EqualFold(b.cfg.Render.Mode, config.RenderRaw)
}

func (b *Builder) highlightStyle() string {
	if b.cfg.Render.HighlightStyle == "" {
		return pipeline.DefaultHighlightStyle
	}
	return b.cfg.Render.HighlightStyle
}

// Render runs the pipeline in memory and returns the assembled deck.
// Nothing is written to disk. Internal panics are recovered into errors.
func (b *Builder) Render(ctx context.Context, input RenderInput) (rendered *Rendered, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	content := b.preprocessor.PreprocessMarkdown(ctx, input.Source)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	counts := tags.Count(content)

	rc := resolve.NewContext(filepath.Join(input.BaseDir, b.cfg.Paths.Data))
	engine := pipeline.NewTagEngine(b.registry, rc, b.logger)
	content, err = engine.Substitute(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("substituting tags: %w", err)
	}

	slides := pipeline.Segment(content)
	deck := pipeline.Deck{Title: b.title(), Slides: slides}

	sections := make([]string, 0, len(deck.Slides))
	for i, slide := range deck.Slides {
		body, err := b.renderer.RenderSlide(ctx, slide)
		if err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i+1, err)
		}
		sections = append(sections, body)
	}

	data := &pipeline.DeckData{
		Title:    deck.Title,
		Sections: sections,
		CDN: pipeline.CDN{
			BaseURL:       strings.TrimRight(b.cfg.CDN.BaseURL, "/"),
			RevealVersion: b.cfg.CDN.RevealVersion,
			ChartVersion:  b.cfg.CDN.ChartVersion,
			Theme:         b.cfg.CDN.Theme,
		},
		Reveal: pipeline.RevealOptions{
			Hash:       b.cfg.Reveal.Hash,
			Controls:   b.cfg.Reveal.Controls,
			Progress:   b.cfg.Reveal.Progress,
			Center:     b.cfg.Reveal.Center,
			Transition: strings.ToLower(b.cfg.Reveal.Transition),
		},
	}
	if b.cfg.Render.InlineCSS {
		data.InlineCSS = b.stylesheet
	} else {
		data.StylesheetHref = StylesheetPath
	}

	htmlContent, err := b.assembler.Assemble(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("assembling deck: %w", err)
	}

	inspection, err := pipeline.Inspect(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("inspecting deck: %w", err)
	}
	b.logger.Debug("rendered deck",
		"slides", inspection.Slides,
		"segments", len(deck.Slides),
		"bytes", len(htmlContent))

	return &Rendered{
		HTML:       []byte(htmlContent),
		CSS:        b.stylesheet,
		Slides:     inspection.Slides,
		TagCounts:  counts,
		ImageRefs:  inspection.ImageRefs,
		ScriptRefs: inspection.ScriptRefs,
	}, nil
}

func (b *Builder) title() string {
	if b.cfg.Title == "" {
		return config.DefaultTitle
	}
	return b.cfg.Title
}

// Build reads <dir>/<paths.content>, renders it and writes the output
// directory. Rendering completes before anything is written, so a failed
// tag leaves a previous build untouched.
func (b *Builder) Build(ctx context.Context, dir string) (*Result, error) {
	srcPath := filepath.Join(dir, b.cfg.Paths.Content)
	source, err := os.ReadFile(srcPath) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, srcPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	b.logger.Debug("read source", "path", srcPath, "bytes", len(source))

	rendered, err := b.Render(ctx, RenderInput{Source: string(source), BaseDir: dir})
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(dir, b.cfg.Paths.Output)
	res := &Result{
		Rendered:       rendered,
		OutputDir:      outDir,
		IndexPath:      filepath.Join(outDir, IndexFile),
		StylesheetPath: filepath.Join(outDir, filepath.FromSlash(StylesheetPath)),
	}

	if err := b.writeArtifacts(res); err != nil {
		return nil, err
	}
	if err := b.copyAssets(dir, res); err != nil {
		return nil, err
	}
	res.MissingRefs = missingRefs(outDir, rendered.ImageRefs, rendered.ScriptRefs)
	for _, ref := range res.MissingRefs {
		b.logger.Warn("referenced file missing from output", "path", ref)
	}

	if b.cfg.PDF.Enabled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.exportPDF(ctx, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// writeArtifacts creates the output tree and writes index.html and the
// stylesheet atomically.
func (b *Builder) writeArtifacts(res *Result) error {
	for _, d := range []string{
		res.OutputDir,
		filepath.Join(res.OutputDir, filepath.FromSlash(ImagesDir)),
		filepath.Dir(res.StylesheetPath),
	} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, d, err)
		}
	}

	if err := fileutil.WriteFileAtomic(res.IndexPath, res.HTML); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	b.logger.Debug("wrote file", "path", res.IndexPath)

	if err := fileutil.WriteFileAtomic(res.StylesheetPath, []byte(res.CSS)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	b.logger.Debug("wrote file", "path", res.StylesheetPath)
	return nil
}

// copyAssets copies images and scripts flat into the output directory.
// Per-file failures are logged and reported, not returned.
func (b *Builder) copyAssets(dir string, res *Result) error {
	var err error

	imagesSrc := filepath.Join(dir, b.cfg.Paths.Images)
	res.Images, err = fileutil.CopyFlat(imagesSrc, filepath.Join(res.OutputDir, filepath.FromSlash(ImagesDir)))
	if err != nil {
		return fmt.Errorf("%w: copying images: %v", ErrWriteOutput, err)
	}
	b.logCopy("images", res.Images)

	scriptsSrc := filepath.Join(dir, b.cfg.Paths.Scripts)
	if !fileutil.DirExists(scriptsSrc) {
		res.Scripts = &CopyReport{}
		return nil
	}
	res.Scripts, err = fileutil.CopyFlat(scriptsSrc, filepath.Join(res.OutputDir, ScriptsDir))
	if err != nil {
		return fmt.Errorf("%w: copying scripts: %v", ErrWriteOutput, err)
	}
	b.logCopy("scripts", res.Scripts)
	return nil
}

func (b *Builder) logCopy(kind string, report *CopyReport) {
	b.logger.Debug("copied assets",
		"kind", kind,
		"copied", len(report.Copied),
		"unchanged", len(report.Unchanged),
		"failed", len(report.Failed))
	for _, f := range report.Failed {
		b.logger.Warn("asset not copied", "kind", kind, "file", f.Name, "error", f.Err)
	}
}

// missingRefs returns the relative references with no file under outDir.
func missingRefs(outDir string, refGroups ...[]string) []string {
	var missing []string
	for _, refs := range refGroups {
		for _, ref := range refs {
			if !fileutil.FileExists(filepath.Join(outDir, filepath.FromSlash(ref))) {
				missing = append(missing, ref)
			}
		}
	}
	return missing
}

// exportPDF prints the written index.html to presentation.pdf.
func (b *Builder) exportPDF(ctx context.Context, res *Result) error {
	if b.pdf == nil {
		timeout := b.cfg.PDF.Timeout
		if timeout == 0 {
			timeout = config.DefaultPDFTimeout
		}
		b.pdf = newRodRenderer(timeout)
	}

	data, err := b.pdf.RenderPDF(ctx, res.IndexPath)
	if err != nil {
		return fmt.Errorf("exporting PDF: %w", err)
	}

	pdfPath := filepath.Join(res.OutputDir, PDFFile)
	if err := fileutil.WriteFileAtomic(pdfPath, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	res.PDFPath = pdfPath
	b.logger.Debug("wrote file", "path", pdfPath, "bytes", len(data))
	return nil
}

// Close releases resources (headless Chrome browser).
func (b *Builder) Close() error {
	if b.pdf != nil {
		return b.pdf.Close()
	}
	return nil
}
