package main

// Notes:
// - runMain: we test exit codes and output for every command through the
//   same entry point main uses. Builds run on temp directories without PDF
//   export, so no browser is needed.
// - looksLikeDir: we test the heuristics that route an unknown first
//   argument to an implicit build.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers, with dir as the
// working directory.
func testEnv(dir string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getwd:  func() (string, error) { return dir, nil },
	}
	return env, stdout, stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const twoSlides = "# One\n\nHello\n\n# Two\n\nWorld\n"

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version command", []string{"version"}, ExitSuccess, "md2deck dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "md2deck dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Usage: md2deck", ""},
		{"help flag", []string{"--help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"help", "build"}, ExitSuccess, "#chart-<", ""},
		{"help unknown", []string{"help", "nope"}, ExitUsage, "", "unknown command"},
		{"unknown command", []string{"frobnicate"}, ExitUsage, "", "unknown command: frobnicate"},
		{"build --help", []string{"build", "--help"}, ExitSuccess, "", "Usage: md2deck build"},
		{"invalid flag", []string{"build", "--bogus"}, ExitUsage, "", "invalid flags"},
		{"too many args", []string{"build", "a", "b"}, ExitUsage, "", "too many arguments"},
		{"bad timeout", []string{"build", "--timeout", "soon", "."}, ExitUsage, "", "invalid timeout"},
		{"completion no shell", []string{"completion"}, ExitSuccess, "Supported shells", ""},
		{"completion bad shell", []string{"completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(t.TempDir())
			got := runMain(append([]string{"md2deck"}, tt.args...), env)

			if got != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d (stderr: %s)", tt.args, got, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunMain_ImplicitBuild(t *testing.T) {
	t.Parallel()

	t.Run("no arguments builds the working directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		env, stdout, stderr := testEnv(dir)

		if code := runMain([]string{"md2deck"}, env); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, stderr)
		}
		if !strings.Contains(stdout.String(), "✓ Rendered 2 slides") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("directory as first argument", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		env, _, stderr := testEnv(t.TempDir())

		if code := runMain([]string{"md2deck", dir, "-q"}, env); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, stderr)
		}
		if _, err := os.Stat(filepath.Join(dir, "output", "index.html")); err != nil {
			t.Errorf("index.html not written: %v", err)
		}
	})

	t.Run("flag as first argument", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "content.md"), twoSlides)
		env, stdout, stderr := testEnv(dir)

		if code := runMain([]string{"md2deck", "--quiet"}, env); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, stderr)
		}
		if stdout.Len() != 0 {
			t.Errorf("quiet build printed %q", stdout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Workflow - init, count, build, bundle on one directory
// ---------------------------------------------------------------------------

func TestRunMain_Workflow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, stdout, stderr := testEnv(dir)

	for _, args := range [][]string{
		{"md2deck", "init"},
		{"md2deck", "count"},
		{"md2deck", "build"},
		{"md2deck", "bundle"},
	} {
		if code := runMain(args, env); code != ExitSuccess {
			t.Fatalf("%v: exit = %d, stderr: %s", args[1:], code, stderr)
		}
	}

	out := stdout.String()
	for _, want := range []string{
		"✓ Created content.md",
		"Tables   1",
		"✓ Resolved 3 tags (1 table, 1 chart, 1 script)",
		"✓ Rendered 4 slides",
		"✓ Copied 1 script",
		"✓ Bundled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	html := readFile(t, filepath.Join(dir, "output", "index.html"))
	if !strings.Contains(html, "Quarterly results") {
		t.Error("index.html should contain the table caption from init's sample")
	}
	if _, err := os.Stat(filepath.Join(dir, bundlePrefix(dir)+".tar.xz")); err != nil {
		t.Errorf("archive not written: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeDir - Implicit build routing
// ---------------------------------------------------------------------------

func TestLooksLikeDir(t *testing.T) {
	t.Parallel()

	existing := t.TempDir()

	tests := []struct {
		arg  string
		want bool
	}{
		{".", true},
		{"..", true},
		{"talks/q3", true},
		{`talks\q3`, true},
		{existing, true},
		{"frobnicate", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeDir(tt.arg); got != tt.want {
				t.Errorf("looksLikeDir(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}
