package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrSlideRender indicates a slide could not be rendered to HTML.
var ErrSlideRender = errors.New("slide rendering failed")

// DefaultHighlightStyle is the chroma style used for code blocks.
const DefaultHighlightStyle = "monokai"

// SlideRenderer turns one slide into the HTML placed inside its <section>.
type SlideRenderer interface {
	RenderSlide(ctx context.Context, slide Slide) (string, error)
}

// GoldmarkRenderer renders slide markdown with goldmark.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions,
// footnotes and class-based syntax highlighting. Raw HTML passes through:
// resolved tags are HTML fragments embedded in the markdown.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md}
}

// RenderSlide converts the slide's markdown to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller returns early on cancellation.
func (r *GoldmarkRenderer) RenderSlide(ctx context.Context, slide Slide) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(slide.Text()), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrSlideRender, err)}
			return
		}
		done <- result{html: strings.TrimSpace(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// RawRenderer emits slide text as is, leaving any markdown to be rendered
// in the browser.
type RawRenderer struct{}

// RenderSlide returns the trimmed slide text.
func (r *RawRenderer) RenderSlide(ctx context.Context, slide Slide) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(slide.Text()), nil
}

// HighlightCSS returns the stylesheet for code blocks rendered by
// GoldmarkRenderer. Unknown style names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	s := styles.Get(style)

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, s); err != nil {
		return "", fmt.Errorf("writing %s highlight css: %w", style, err)
	}
	return buf.String(), nil
}

// HasHighlightStyle reports whether chroma knows the named style.
func HasHighlightStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// HighlightStyles lists the chroma style names, sorted.
func HighlightStyles() []string {
	return styles.Names()
}

// Compile-time interface checks.
var (
	_ SlideRenderer = (*GoldmarkRenderer)(nil)
	_ SlideRenderer = (*RawRenderer)(nil)
)
