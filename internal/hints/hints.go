// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2deck/internal/fileutil"
)

// BrowserEnv is the part of the environment that decides how Chrome has
// to be launched for PDF export.
type BrowserEnv struct {
	CI            bool
	Container     bool
	ContainerHint string // which signal detected the container
	NoSandbox     bool   // ROD_NO_SANDBOX=1
	BrowserBin    string // ROD_BROWSER_BIN
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// DetectBrowserEnv reads CI variables, container markers and the ROD_*
// settings.
func DetectBrowserEnv() BrowserEnv {
	env := BrowserEnv{
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			env.CI = true
			break
		}
	}
	env.Container, env.ContainerHint = detectContainer()
	return env
}

func detectContainer() (bool, string) {
	if os.Getenv("MD2DECK_CONTAINER") == "1" {
		return true, "MD2DECK_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// NeedsNoSandbox reports whether Chrome is likely to refuse its sandbox
// here while ROD_NO_SANDBOX is unset.
func (e BrowserEnv) NeedsNoSandbox() bool {
	return (e.CI || e.Container) && !e.NoSandbox
}

// ForBrowserConnect returns hints for a browser that failed to start.
func ForBrowserConnect(env BrowserEnv) string {
	var hints []string
	if env.NeedsNoSandbox() {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if env.BrowserBin == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "run md2deck doctor to check the setup")
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the PDF export timeout.
func ForTimeout() string {
	return format("for large decks, raise pdf.timeout or use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/md2deck/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForSourceNotFound returns hints when the markdown source is missing.
func ForSourceNotFound(dir string) string {
	if !fileutil.DirExists(dir) {
		return format("directory " + dir + " does not exist; run md2deck init " + dir)
	}
	return format("create content.md in " + dir + " or set paths.content in md2deck.yaml")
}

// ForDataNotFound returns hints when a table or chart tag names a CSV file
// that cannot be read.
func ForDataNotFound(dataDir string) string {
	return format("table and chart tags read CSV files from " + dataDir)
}

// ForHighlightStyle returns hints for an unknown code highlighting style.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
