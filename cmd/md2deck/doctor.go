package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/hints"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ErrNotReady is returned by doctor when a check failed.
var ErrNotReady = errors.New("presentation not ready")

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Deck     deckInfo   `json:"presentation"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// deckInfo holds the presentation directory checks.
type deckInfo struct {
	Dir     string `json:"dir"`
	Config  string `json:"config"`
	Content bool   `json:"content"`
	Tags    int    `json:"tags"`
	PDF     bool   `json:"pdf_enabled"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     bool   `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// browserFinder locates a Chrome binary; launcher.LookPath in production.
type browserFinder func() (string, bool)

// runDoctor checks the presentation directory and the PDF export
// environment.
func runDoctor(args []string, env *Environment) error {
	flags, positional, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	dir, err := resolveDir(positional, env)
	if err != nil {
		return err
	}

	result := diagnose(dir, flags.common.config, launcher.LookPath)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding doctor report: %w", err)
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return fmt.Errorf("%w: %d error(s)", ErrNotReady, len(result.Errors))
	}
	return nil
}

// diagnose performs all checks.
func diagnose(dir, configFlag string, find browserFinder) *doctorResult {
	browserEnv := hints.DetectBrowserEnv()
	result := &doctorResult{
		Status: statusReady,
		Deck:   deckInfo{Dir: dir},
		Env: envInfo{
			OS:            runtime.GOOS,
			Arch:          runtime.GOARCH,
			Container:     browserEnv.Container,
			ContainerHint: browserEnv.ContainerHint,
			CI:            browserEnv.CI,
			NoSandbox:     browserEnv.NoSandbox,
			BrowserBin:    browserEnv.BrowserBin,
		},
	}

	checkPresentation(result, dir, configFlag)
	checkChrome(result, find)
	if browserEnv.NeedsNoSandbox() && result.Deck.PDF {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkPresentation loads the config and content, then verifies every file
// a tag references. Missing CSV files fail the build; missing images and
// scripts only produce broken references.
func checkPresentation(result *doctorResult, dir, configFlag string) {
	cfg, err := loadConfig(dir, configFlag)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return
	}
	switch {
	case configFlag != "":
		result.Deck.Config = configFlag
	case fileutil.FileExists(filepath.Join(dir, config.DefaultFileName)):
		result.Deck.Config = config.DefaultFileName
	default:
		result.Deck.Config = "defaults"
	}
	result.Deck.PDF = cfg.PDF.Enabled

	source, err := os.ReadFile(filepath.Join(dir, cfg.Paths.Content)) // #nosec G304 -- user-provided path
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read %s: %v", cfg.Paths.Content, err))
		return
	}
	result.Deck.Content = true

	seen := make(map[string]bool)
	for _, occ := range tags.Scan(string(source)) {
		result.Deck.Tags++

		var sub string
		switch occ.Kind {
		case tags.KindImage:
			sub = cfg.Paths.Images
		case tags.KindTable, tags.KindChart:
			sub = cfg.Paths.Data
		case tags.KindScript:
			sub = cfg.Paths.Scripts
		default:
			continue
		}

		rel := filepath.ToSlash(filepath.Join(sub, occ.Primary))
		if seen[rel] {
			continue
		}
		seen[rel] = true
		if fileutil.FileExists(filepath.Join(dir, rel)) {
			continue
		}

		msg := fmt.Sprintf("%s tag references missing %s", occ.Kind, rel)
		if occ.Kind == tags.KindTable || occ.Kind == tags.KindChart {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}
}

// checkChrome detects Chrome/Chromium. A missing browser is an error only
// when the configuration enables PDF export.
func checkChrome(result *doctorResult, find browserFinder) {
	report := func(msg string) {
		if result.Deck.PDF {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" (needed only for --pdf)")
		}
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = find()
		if !found {
			report("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = !result.Env.NoSandbox

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- detected browser path
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2deck doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Presentation")
	fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Deck.Dir)
	if r.Deck.Config != "" {
		fmt.Fprintf(w, "  [OK] Config: %s\n", r.Deck.Config)
	}
	if r.Deck.Content {
		fmt.Fprintf(w, "  [OK] Content: %s\n", plural(r.Deck.Tags, "tag"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case !r.Chrome.Found:
		fmt.Fprintln(w, "  [--] Not found")
	default:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
