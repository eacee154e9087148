package main

// Notes:
// - parseBuildFlags/parseBundleFlags/parseInitFlags: we test short and long
//   forms, interspersed positionals and the ErrInvalidFlags wrapping.
// - parseTimeout and resolveDir: we test every branch.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseBuildFlags - Build flag parsing
// ---------------------------------------------------------------------------

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("short and long forms", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseBuildFlags([]string{
			"talk", "-T", "Q3 Review", "-o", "dist", "--raw", "--inline-css",
			"--pdf", "-t", "45s", "--asset-path", "theme", "-c", "alt.yaml", "-v",
		}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(args) != 1 || args[0] != "talk" {
			t.Errorf("args = %v, want [talk]", args)
		}
		if f.title != "Q3 Review" || f.output != "dist" || f.timeout != "45s" || f.assetPath != "theme" {
			t.Errorf("string flags = %+v", f)
		}
		if !f.raw || !f.inlineCSS || !f.pdf {
			t.Errorf("bool flags = %+v", f)
		}
		if f.common.config != "alt.yaml" || !f.common.verbose || f.common.quiet {
			t.Errorf("common flags = %+v", f.common)
		}
	})

	t.Run("unknown flag wraps ErrInvalidFlags", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseBuildFlags([]string{"--landscape"}, io.Discard)
		if !errors.Is(err, ErrInvalidFlags) {
			t.Errorf("error = %v, want ErrInvalidFlags", err)
		}
	})

	t.Run("help is passed through", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseBuildFlags([]string{"-h"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
		if errors.Is(err, ErrInvalidFlags) {
			t.Error("help should not be reported as invalid flags")
		}
	})
}

func TestParseOtherCommandFlags(t *testing.T) {
	t.Parallel()

	t.Run("count", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseCountFlags([]string{"-q", "deck"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.quiet || len(args) != 1 {
			t.Errorf("flags = %+v, args = %v", f, args)
		}
	})

	t.Run("bundle", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseBundleFlags([]string{"-o", "out.tar.xz", "--prefix", "q3"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.output != "out.tar.xz" || f.prefix != "q3" {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("init", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseInitFlags([]string{"-f"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.force {
			t.Error("force should be set")
		}
	})

	t.Run("count rejects build flags", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseCountFlags([]string{"--raw"}, io.Discard)
		if !errors.Is(err, ErrInvalidFlags) {
			t.Errorf("error = %v, want ErrInvalidFlags", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseTimeout - Duration validation
// ---------------------------------------------------------------------------

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"empty means unset", "", 0, false},
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"garbage", "soon", 0, true},
		{"zero", "0s", 0, true},
		{"negative", "-5s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseTimeout(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("parseTimeout(%q) error = %v, want ErrInvalidTimeout", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseTimeout(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveDir - Positional directory argument
// ---------------------------------------------------------------------------

func TestResolveDir(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("/work")

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{"defaults to working directory", nil, "/work", nil},
		{"explicit directory", []string{"talks/q3"}, "talks/q3", nil},
		{"two directories", []string{"a", "b"}, "", ErrTooManyArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveDir(tt.args, env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveDir(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
