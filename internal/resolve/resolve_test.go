package resolve

// Notes:
// - Resolvers are tested through Registry.Resolve so parameter parsing and
//   dispatch are exercised together, the way the tag engine calls them.
// - CSV reads go through a stub TableLoader; csvdata.Load has its own tests.
// - Chart configuration is checked by decoding the embedded JSON rather than
//   comparing the script text byte for byte.

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-md2deck/internal/csvdata"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// stubTables serves CSV content from memory, keyed by file name.
func stubTables(files map[string]string) TableLoader {
	return TableLoaderFunc(func(path string) (*csvdata.Table, error) {
		content, ok := files[filepath.Base(path)]
		if !ok {
			return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
		}
		return csvdata.Parse(content), nil
	})
}

func newTestContext(files map[string]string) *Context {
	rc := NewContext("data")
	rc.Tables = stubTables(files)
	return rc
}

func resolveTag(t *testing.T, rc *Context, src string) string {
	t.Helper()

	occs := tags.Scan(src)
	if len(occs) != 1 {
		t.Fatalf("Scan(%q) found %d tags, want 1", src, len(occs))
	}
	out, err := DefaultRegistry().Resolve(rc, occs[0])
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", src, err)
	}
	return out
}

// extractChartConfig decodes the configuration object passed to new Chart().
func extractChartConfig(t *testing.T, fragment string) chartConfig {
	t.Helper()

	start := strings.Index(fragment, "), {")
	end := strings.LastIndex(fragment, ");")
	if start < 0 || end < 0 || end <= start {
		t.Fatalf("no chart config in fragment:\n%s", fragment)
	}
	var cfg chartConfig
	if err := json.Unmarshal([]byte(fragment[start+3:end]), &cfg); err != nil {
		t.Fatalf("decoding chart config: %v\n%s", err, fragment[start+3:end])
	}
	return cfg
}

// ---------------------------------------------------------------------------
// Image
// ---------------------------------------------------------------------------

func TestImageResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "defaults",
			src:  "#image-<logo.png>",
			want: []string{
				`<figure class="presentation-image">`,
				`src="assets/images/logo.png"`,
				`alt="logo.png"`,
				`loading="lazy"`,
				`</figure>`,
			},
			notWant: []string{"width=", "height=", "<figcaption>"},
		},
		{
			name: "all parameters",
			src:  `#image-<team.jpg, width=600, height=400, alt="The team", caption=Our team>`,
			want: []string{
				`width="600"`,
				`height="400"`,
				`alt="The team"`,
				`<figcaption>Our team</figcaption>`,
			},
		},
		{
			name:    "malformed width falls back while caption applies",
			src:     "#image-<a.png, width=,caption=ok>",
			want:    []string{`<figcaption>ok</figcaption>`},
			notWant: []string{"width="},
		},
		{
			name: "attribute values are escaped",
			src:  `#image-<a.png, alt=say "hi">`,
			want: []string{`alt="say &#34;hi"`},
		},
		{
			name: "caption markup is escaped",
			src:  `#image-<a.png, caption=<b>bold</b>`,
			want: []string{`<figcaption>&lt;b</figcaption>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveTag(t, newTestContext(nil), tt.src)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("fragment missing %q:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("fragment should not contain %q:\n%s", nw, got)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestTableResolver(t *testing.T) {
	t.Parallel()

	files := map[string]string{"sales.csv": "month,sales\nJan,10\nFeb,20\n"}

	t.Run("default style", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#table-<sales.csv>")
		for _, w := range []string{
			`<table class="striped-table">`,
			"<th>month</th>",
			"<th>sales</th>",
			"<td>Jan</td>",
			"<td>20</td>",
		} {
			if !strings.Contains(got, w) {
				t.Errorf("fragment missing %q:\n%s", w, got)
			}
		}
		if strings.Contains(got, "<caption>") {
			t.Error("fragment has caption without caption parameter")
		}
	})

	t.Run("style sortable and caption", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#table-<sales.csv, style=bordered, sortable=true, caption=Sales>")
		if !strings.Contains(got, `<table class="bordered-table sortable-table">`) {
			t.Errorf("unexpected table class:\n%s", got)
		}
		captionIdx := strings.Index(got, "<caption>Sales</caption>")
		headIdx := strings.Index(got, "<thead>")
		if captionIdx < 0 || captionIdx > headIdx {
			t.Errorf("caption must precede the header row:\n%s", got)
		}
	})

	t.Run("sortable requires literal true", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#table-<sales.csv, sortable=yes>")
		if strings.Contains(got, "sortable-table") {
			t.Errorf("sortable=yes should not enable sorting:\n%s", got)
		}
	})

	t.Run("row order preserved", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#table-<sales.csv>")
		if strings.Index(got, "Jan") > strings.Index(got, "Feb") {
			t.Errorf("rows out of order:\n%s", got)
		}
	})

	t.Run("fragment has no blank lines", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#table-<sales.csv, caption=x>")
		if strings.Contains(got, "\n\n") {
			t.Errorf("fragment contains a blank line:\n%s", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		occ := tags.Scan("#table-<missing.csv>")[0]
		_, err := DefaultRegistry().Resolve(newTestContext(files), occ)
		if !errors.Is(err, ErrDataRead) {
			t.Errorf("error = %v, want ErrDataRead", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist in chain", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Chart
// ---------------------------------------------------------------------------

func TestBuildChartData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
		want ChartData
	}{
		{
			name: "single series",
			csv:  "month,sales\nJan,10\nFeb,20",
			want: ChartData{
				Labels:   []string{"Jan", "Feb"},
				Datasets: []ChartSeries{{Label: "sales", Data: []float64{10, 20}}},
			},
		},
		{
			name: "multiple series",
			csv:  "q,a,b\nQ1,1,2.5\nQ2,3,4",
			want: ChartData{
				Labels: []string{"Q1", "Q2"},
				Datasets: []ChartSeries{
					{Label: "a", Data: []float64{1, 3}},
					{Label: "b", Data: []float64{2.5, 4}},
				},
			},
		},
		{
			name: "non numeric and missing cells become zero",
			csv:  "k,v\nx,abc\ny\nz,NaN",
			want: ChartData{
				Labels:   []string{"x", "y", "z"},
				Datasets: []ChartSeries{{Label: "v", Data: []float64{0, 0, 0}}},
			},
		},
		{
			name: "label column only",
			csv:  "k\na\nb",
			want: ChartData{
				Labels:   []string{"a", "b"},
				Datasets: []ChartSeries{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BuildChartData(csvdata.Parse(tt.csv))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildChartData() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChartResolver(t *testing.T) {
	t.Parallel()

	files := map[string]string{"sales.csv": "month,sales\nJan,10\nFeb,20"}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), "#chart-<sales.csv>")
		if !strings.Contains(got, `<canvas id="chart-1" height="400">`) {
			t.Errorf("unexpected canvas:\n%s", got)
		}

		cfg := extractChartConfig(t, got)
		if cfg.Type != "bar" {
			t.Errorf("Type = %q, want bar", cfg.Type)
		}
		if cfg.Options.Plugins.Title.Display {
			t.Error("title displayed without title parameter")
		}
		want := ChartData{
			Labels:   []string{"Jan", "Feb"},
			Datasets: []ChartSeries{{Label: "sales", Data: []float64{10, 20}}},
		}
		if !reflect.DeepEqual(cfg.Data, want) {
			t.Errorf("Data = %+v, want %+v", cfg.Data, want)
		}
	})

	t.Run("parameters", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), `#chart-<sales.csv, type=line, title="Sales 2024", height=300>`)
		if !strings.Contains(got, `height="300"`) {
			t.Errorf("height not applied:\n%s", got)
		}
		cfg := extractChartConfig(t, got)
		if cfg.Type != "line" {
			t.Errorf("Type = %q, want line", cfg.Type)
		}
		if !cfg.Options.Plugins.Title.Display || cfg.Options.Plugins.Title.Text != "Sales 2024" {
			t.Errorf("Title = %+v, want displayed %q", cfg.Options.Plugins.Title, "Sales 2024")
		}
	})

	t.Run("ids are unique and sequential within a build", func(t *testing.T) {
		t.Parallel()

		rc := newTestContext(files)
		first := resolveTag(t, rc, "#chart-<sales.csv>")
		second := resolveTag(t, rc, "#chart-<sales.csv>")
		if !strings.Contains(first, `id="chart-1"`) || !strings.Contains(second, `id="chart-2"`) {
			t.Errorf("expected chart-1 then chart-2:\n%s\n%s", first, second)
		}
	})

	t.Run("ids restart for a new build", func(t *testing.T) {
		t.Parallel()

		a := resolveTag(t, newTestContext(files), "#chart-<sales.csv>")
		b := resolveTag(t, newTestContext(files), "#chart-<sales.csv>")
		if a != b {
			t.Errorf("same input produced different fragments:\n%s\n%s", a, b)
		}
	})

	t.Run("title cannot break out of the script", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(files), `#chart-<sales.csv, title=</script><b>x</b>`)
		if strings.Count(got, "</script>") != 1 {
			t.Errorf("title escaped the script element:\n%s", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		occ := tags.Scan("#chart-<nope.csv>")[0]
		_, err := DefaultRegistry().Resolve(newTestContext(files), occ)
		if !errors.Is(err, ErrDataRead) {
			t.Errorf("error = %v, want ErrDataRead", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Video
// ---------------------------------------------------------------------------

func TestVideoResolver(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(nil), "#youtube-<dQw4w9WgXcQ>")
		for _, w := range []string{
			`<div class="presentation-video">`,
			`width="800" height="450"`,
			`src="https://www.youtube.com/embed/dQw4w9WgXcQ"`,
			"allowfullscreen",
		} {
			if !strings.Contains(got, w) {
				t.Errorf("fragment missing %q:\n%s", w, got)
			}
		}
	})

	t.Run("size override", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(nil), "#youtube-<abc, width=640, height=360>")
		if !strings.Contains(got, `width="640" height="360"`) {
			t.Errorf("size not applied:\n%s", got)
		}
	})
}

// ---------------------------------------------------------------------------
// Script
// ---------------------------------------------------------------------------

func TestScriptResolver(t *testing.T) {
	t.Parallel()

	t.Run("generated container", func(t *testing.T) {
		t.Parallel()

		rc := newTestContext(nil)
		got := resolveTag(t, rc, "#script-<custom-chart.js>")
		for _, w := range []string{
			`<div id="script-container-1" class="presentation-script"></div>`,
			`<script src="scripts/custom-chart.js"></script>`,
			"if (typeof render === 'function') {",
			`render("script-container-1");`,
		} {
			if !strings.Contains(got, w) {
				t.Errorf("fragment missing %q:\n%s", w, got)
			}
		}

		next := resolveTag(t, rc, "#script-<other.js>")
		if !strings.Contains(next, `id="script-container-2"`) {
			t.Errorf("second script should get script-container-2:\n%s", next)
		}
	})

	t.Run("explicit container", func(t *testing.T) {
		t.Parallel()

		got := resolveTag(t, newTestContext(nil), "#script-<viz.js, container=viz>")
		if !strings.Contains(got, `<div id="viz"`) || !strings.Contains(got, `render("viz");`) {
			t.Errorf("container not applied:\n%s", got)
		}
	})
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry_UnknownKind(t *testing.T) {
	t.Parallel()

	reg := Registry{}
	_, err := reg.Resolve(newTestContext(nil), tags.Occurrence{Kind: tags.KindImage, Primary: "a.png"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestIDSequence(t *testing.T) {
	t.Parallel()

	seq := NewIDSequence()
	got := []string{seq.Next("chart"), seq.Next("chart"), seq.Next("script-container"), seq.Next("chart")}
	want := []string{"chart-1", "chart-2", "script-container-1", "chart-3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}
