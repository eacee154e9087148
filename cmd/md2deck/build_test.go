package main

// Notes:
// - mergeFlags: we test that set flags override the config and unset flags
//   leave it alone, and that the merged result is revalidated.
// - printBuildResult and its helpers: we test the summary lines.
// - runBuild: end-to-end runs live in main_test.go; here we cover config
//   loading and error hints.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI over config precedence
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Title = "From file"
		if err := mergeFlags(&buildFlags{}, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Title != "From file" || cfg.Render.Mode != config.RenderMarkdown || cfg.PDF.Enabled {
			t.Errorf("config changed: %+v", cfg)
		}
	})

	t.Run("set flags win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		f := &buildFlags{title: "CLI", output: "dist", raw: true, inlineCSS: true, pdf: true, timeout: "90s"}
		if err := mergeFlags(f, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Title != "CLI" || cfg.Paths.Output != "dist" {
			t.Errorf("strings not merged: title=%q output=%q", cfg.Title, cfg.Paths.Output)
		}
		if cfg.Render.Mode != config.RenderRaw || !cfg.Render.InlineCSS || !cfg.PDF.Enabled {
			t.Errorf("bools not merged: %+v %+v", cfg.Render, cfg.PDF)
		}
		if cfg.PDF.Timeout != 90*time.Second {
			t.Errorf("timeout = %v, want 90s", cfg.PDF.Timeout)
		}
	})

	t.Run("merged config is validated", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		err := mergeFlags(&buildFlags{output: "../outside"}, cfg)
		if err == nil {
			t.Fatal("expected validation error for an escaping output path")
		}
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunBuild_Errors - Failures and hints
// ---------------------------------------------------------------------------

func TestRunBuild_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing content.md", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		env, _, _ := testEnv(dir)

		err := runBuild(t.Context(), nil, env)
		if !errors.Is(err, md2deck.ErrSourceNotFound) {
			t.Fatalf("error = %v, want ErrSourceNotFound", err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error should carry a hint: %v", err)
		}
	})

	t.Run("missing data file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), "# Numbers\n\n#table-<absent.csv>\n")
		env, _, _ := testEnv(dir)

		err := runBuild(t.Context(), nil, env)
		if exitCodeFor(err) != ExitIO {
			t.Fatalf("exit code = %d, want %d (err: %v)", exitCodeFor(err), ExitIO, err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error should carry a hint: %v", err)
		}
		if fileutil.FileExists(filepath.Join(dir, "output", "index.html")) {
			t.Error("a failed build should not write index.html")
		}
	})

	t.Run("explicit config not found", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		env, _, _ := testEnv(dir)

		err := runBuild(t.Context(), []string{"-c", filepath.Join(dir, "absent.yaml")}, env)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("config file in directory is used", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		writeFile(t, filepath.Join(dir, config.DefaultFileName), "title: Loaded From YAML\npaths:\n  output: site\n")
		env, stdout, stderr := testEnv(dir)

		if err := runBuild(t.Context(), nil, env); err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}
		html := readFile(t, filepath.Join(dir, "site", "index.html"))
		if !strings.Contains(html, "Loaded From YAML") {
			t.Error("title from md2deck.yaml should reach index.html")
		}
		if !strings.Contains(stdout.String(), "✓ Wrote site/index.html") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("verbose prints timing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		env, stdout, _ := testEnv(dir)

		if err := runBuild(t.Context(), []string{"-v"}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Built in") {
			t.Errorf("stdout = %q, want timing line", stdout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintBuildResult - Summary output
// ---------------------------------------------------------------------------

func TestPrintBuildResult(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/deck")
	res := &md2deck.Result{
		Rendered: &md2deck.Rendered{
			Slides:    3,
			TagCounts: map[tags.Kind]int{tags.KindImage: 2, tags.KindChart: 1},
		},
		IndexPath:      filepath.Join(dir, "output", "index.html"),
		StylesheetPath: filepath.Join(dir, "output", "styles", "custom.css"),
		PDFPath:        filepath.Join(dir, "output", "presentation.pdf"),
		Images:         &md2deck.CopyReport{Copied: []string{"a.png"}, Unchanged: []string{"b.png"}},
		Scripts:        &md2deck.CopyReport{},
	}

	var buf bytes.Buffer
	printBuildResult(&buf, dir, config.DefaultConfig(), res)
	out := buf.String()

	for _, want := range []string{
		"✓ Read content.md",
		"✓ Resolved 3 tags (2 images, 1 chart)",
		"✓ Rendered 3 slides",
		"✓ Wrote output/index.html",
		"✓ Wrote output/styles/custom.css",
		"✓ Copied 1 image (1 unchanged)",
		"✓ Exported output/presentation.pdf",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "script") {
		t.Errorf("empty script report should print nothing:\n%s", out)
	}
}

func TestTagSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts map[tags.Kind]int
		want   string
	}{
		{"none", map[tags.Kind]int{}, ""},
		{"all zero", map[tags.Kind]int{tags.KindImage: 0}, ""},
		{"single", map[tags.Kind]int{tags.KindVideo: 1}, "1 tag (1 video)"},
		{"kind order", map[tags.Kind]int{tags.KindScript: 1, tags.KindTable: 2}, "3 tags (2 tables, 1 script)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tagSummary(tt.counts); got != tt.want {
				t.Errorf("tagSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{0, "0 slides"},
		{1, "1 slide"},
		{7, "7 slides"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "slide"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
