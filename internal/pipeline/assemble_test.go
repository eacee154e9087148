package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/alnah/go-md2deck/internal/assets"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

func newTestAssembler(t *testing.T) *DeckAssembler {
	t.Helper()

	tmpl, err := assets.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		t.Fatalf("loading deck template: %v", err)
	}
	a, err := NewDeckAssembler(tmpl)
	if err != nil {
		t.Fatalf("NewDeckAssembler() error = %v", err)
	}
	return a
}

func testDeckData() *DeckData {
	return &DeckData{
		Title:    "Quarterly Review",
		Sections: []string{"<h1>One</h1>", "\n<h1>Two</h1>\n\n"},
		CDN: CDN{
			BaseURL:       "https://cdn.jsdelivr.net/npm",
			RevealVersion: "4.5.0",
			ChartVersion:  "4.4.0",
			Theme:         "black",
		},
		Reveal: RevealOptions{
			Hash:       true,
			Controls:   true,
			Progress:   true,
			Center:     true,
			Transition: "slide",
		},
		StylesheetHref: "styles/custom.css",
	}
}

// ---------------------------------------------------------------------------
// Assembly
// ---------------------------------------------------------------------------

func TestDeckAssembler_Assemble(t *testing.T) {
	t.Parallel()

	got, err := newTestAssembler(t).Assemble(context.Background(), testDeckData())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for _, want := range []string{
		"<title>Quarterly Review</title>",
		`href="https://cdn.jsdelivr.net/npm/reveal.js@4.5.0/dist/reveal.css"`,
		`href="https://cdn.jsdelivr.net/npm/reveal.js@4.5.0/dist/theme/black.css"`,
		`src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.js"`,
		`src="https://cdn.jsdelivr.net/npm/reveal.js@4.5.0/plugin/markdown/markdown.js"`,
		`<link rel="stylesheet" href="styles/custom.css">`,
		"<section>\n<h1>One</h1>\n</section>\n\n<section>\n<h1>Two</h1>\n</section>",
		`transition: "slide"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("deck missing %q:\n%s", want, got)
		}
	}

	// html/template pads JS booleans with spaces.
	if !regexp.MustCompile(`hash:\s*true\s*,`).MatchString(got) {
		t.Errorf("reveal options missing hash: true:\n%s", got)
	}
}

func TestDeckAssembler_SectionCountMatchesSlides(t *testing.T) {
	t.Parallel()

	data := testDeckData()
	data.Sections = []string{"a", "b", "c", "d"}

	got, err := newTestAssembler(t).Assemble(context.Background(), data)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	n, err := CountSlides(got)
	if err != nil {
		t.Fatalf("CountSlides() error = %v", err)
	}
	if n != 4 {
		t.Errorf("CountSlides() = %d, want 4", n)
	}
}

func TestDeckAssembler_EscapesTitle(t *testing.T) {
	t.Parallel()

	data := testDeckData()
	data.Title = "</title><script>alert(1)</script>"

	got, err := newTestAssembler(t).Assemble(context.Background(), data)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if strings.Contains(got, "<script>alert(1)") {
		t.Errorf("title not escaped:\n%s", got)
	}
}

func TestDeckAssembler_InlineCSS(t *testing.T) {
	t.Parallel()

	data := testDeckData()
	data.StylesheetHref = ""
	data.InlineCSS = ".presentation-image { margin: 0; }"

	got, err := newTestAssembler(t).Assemble(context.Background(), data)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if strings.Contains(got, "styles/custom.css") {
		t.Error("stylesheet link present in self-contained deck")
	}
	styleIdx := strings.Index(got, "<style>\n.presentation-image")
	headIdx := strings.Index(got, "</head>")
	if styleIdx < 0 || styleIdx > headIdx {
		t.Errorf("inline CSS not injected into head:\n%s", got)
	}
}

func TestDeckAssembler_Deterministic(t *testing.T) {
	t.Parallel()

	a := newTestAssembler(t)
	first, err := a.Assemble(context.Background(), testDeckData())
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assemble(context.Background(), testDeckData())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("same input produced different output")
	}
}

func TestNewDeckAssembler_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := NewDeckAssembler("{{.Title"); err == nil {
		t.Error("expected parse error")
	}
}

func TestDeckAssembler_ExecuteError(t *testing.T) {
	t.Parallel()

	a, err := NewDeckAssembler("{{.Missing}}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Assemble(context.Background(), testDeckData()); !errors.Is(err, ErrDeckRender) {
		t.Errorf("error = %v, want ErrDeckRender", err)
	}
}
