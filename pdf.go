package md2deck

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2deck/internal/hints"
	"github.com/alnah/go-md2deck/internal/process"
)

// PDFRenderer prints a built deck to PDF.
type PDFRenderer interface {
	// RenderPDF opens the index.html at indexPath and returns the PDF bytes.
	RenderPDF(ctx context.Context, indexPath string) ([]byte, error)
	Close() error
}

var _ PDFRenderer = (*rodRenderer)(nil)

// printSelector matches the pages reveal.js lays out in print-pdf mode.
const printSelector = ".pdf-page"

// rodRenderer implements PDFRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// A pre-installed browser (ROD_BROWSER_BIN) usually runs in a container
	// image where the sandbox is unavailable.
	env := hints.DetectBrowserEnv()
	if env.BrowserBin != "" {
		l = l.Bin(env.BrowserBin)
	}
	if env.CI || env.NoSandbox || env.BrowserBin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources, then kills the launcher's process group
// so no Chromium helper outlives the build.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLauncher()
	return err
}

func (r *rodRenderer) killLauncher() {
	if r.launcher == nil {
		return
	}
	process.KillProcessGroup(r.launcher.PID())
	r.launcher.Kill()
	r.launcher = nil
}

// RenderPDF opens indexPath in print-pdf mode and prints it.
func (r *rodRenderer) RenderPDF(ctx context.Context, indexPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := printURL(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx).Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// reveal.js lays out print pages after initialization, once its
	// scripts have loaded from the CDN.
	if err := page.WaitElementsMoreThan(printSelector, 0); err != nil {
		return nil, fmt.Errorf("%w: waiting for print layout: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions prints one slide per landscape page, using the page size
// reveal.js declares in print mode.
func buildPDFOptions() *proto.PagePrintToPDF {
	zero := 0.0
	return &proto.PagePrintToPDF{
		Landscape:         true,
		PrintBackground:   true,
		PreferCSSPageSize: true,
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
	}
}

// printURL returns the file:// URL of indexPath with reveal's print-pdf
// query.
func printURL(indexPath string) (string, error) {
	abs, err := filepath.Abs(indexPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", indexPath, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // windows drive letter
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "print-pdf"}
	return u.String(), nil
}
