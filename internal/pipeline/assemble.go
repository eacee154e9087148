package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDeckRender indicates the deck template could not be rendered.
var ErrDeckRender = errors.New("deck template rendering failed")

// CDN locates the reveal.js and Chart.js runtimes referenced by the deck.
type CDN struct {
	BaseURL       string
	RevealVersion string
	ChartVersion  string
	Theme         string
}

// RevealOptions are passed to Reveal.initialize.
type RevealOptions struct {
	Hash       bool
	Controls   bool
	Progress   bool
	Center     bool
	Transition string
}

// DeckData holds everything the deck template needs.
type DeckData struct {
	Title string
	// Sections are the rendered slide bodies, in order.
	Sections       []string
	CDN            CDN
	Reveal         RevealOptions
	StylesheetHref string // omitted from the page when empty
	InlineCSS      string // injected as a <style> block when non-empty
}

// deckView is the value the template executes against.
type deckView struct {
	Title          string
	Slides         template.HTML
	CDN            CDN
	Reveal         RevealOptions
	StylesheetHref string
}

// DeckAssembler renders slides into the final HTML document.
type DeckAssembler struct {
	tmpl *template.Template
	css  CSSInjector
}

// NewDeckAssembler parses the deck template.
func NewDeckAssembler(tmplContent string) (*DeckAssembler, error) {
	tmpl, err := template.New("deck").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing deck template: %w", err)
	}
	return &DeckAssembler{tmpl: tmpl, css: &CSSInjection{}}, nil
}

// Assemble wraps each section body in <section> tags and renders the
// template. Section bodies are trusted HTML: they come from the renderer and
// the tag resolvers, which escape user values themselves.
func (a *DeckAssembler) Assemble(ctx context.Context, data *DeckData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	view := deckView{
		Title:          data.Title,
		Slides:         template.HTML(joinSections(data.Sections)), // #nosec G203 -- resolver output escapes user values
		CDN:            data.CDN,
		Reveal:         data.Reveal,
		StylesheetHref: data.StylesheetHref,
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeckRender, err)
	}

	return a.css.InjectCSS(ctx, buf.String(), data.InlineCSS), nil
}

// joinSections wraps each body in <section> tags, separated by a blank line.
func joinSections(bodies []string) string {
	parts := make([]string, len(bodies))
	for i, body := range bodies {
		parts[i] = "<section>\n" + strings.TrimSpace(body) + "\n</section>"
	}
	return strings.Join(parts, "\n\n")
}
