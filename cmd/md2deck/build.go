package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/logging"
	"github.com/alnah/go-md2deck/internal/tags"
)

// runBuild renders the presentation directory into its output directory.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	dir, err := resolveDir(positional, env)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(dir, flags.common.config)
	if err != nil {
		return withHints(fmt.Errorf("loading config: %w", err), dir, nil)
	}
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	logger := logging.New(env.Stderr, logging.LevelFor(flags.common.verbose, flags.common.quiet), logging.FormatText)
	opts := []md2deck.Option{md2deck.WithConfig(cfg), md2deck.WithLogger(logger)}
	if flags.assetPath != "" {
		opts = append(opts, md2deck.WithAssetPath(flags.assetPath))
	}

	builder, err := md2deck.NewBuilder(opts...)
	if err != nil {
		return withHints(err, dir, cfg)
	}
	defer func() {
		if cerr := builder.Close(); cerr != nil {
			logger.Warn("closing browser", "error", cerr)
		}
	}()

	start := env.Now()
	res, err := builder.Build(ctx, dir)
	if err != nil {
		return withHints(err, dir, cfg)
	}

	if !flags.common.quiet {
		printBuildResult(env.Stdout, dir, cfg, res)
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "Built in %v\n", env.Now().Sub(start).Round(time.Millisecond))
		}
	}
	return nil
}

// loadConfig loads --config when given, else <dir>/md2deck.yaml when
// present, else the defaults.
func loadConfig(dir, configFlag string) (*config.Config, error) {
	if configFlag != "" {
		return config.LoadConfig(configFlag)
	}
	return config.LoadFromDir(dir)
}

// mergeFlags applies explicitly set flags over the configuration (CLI wins)
// and revalidates the result.
func mergeFlags(flags *buildFlags, cfg *config.Config) error {
	if flags.title != "" {
		cfg.Title = flags.title
	}
	if flags.output != "" {
		cfg.Paths.Output = flags.output
	}
	if flags.raw {
		cfg.Render.Mode = config.RenderRaw
	}
	if flags.inlineCSS {
		cfg.Render.InlineCSS = true
	}
	if flags.pdf {
		cfg.PDF.Enabled = true
	}

	timeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.PDF.Timeout = timeout
	}

	return cfg.Validate()
}

// printBuildResult writes the progress summary of a successful build.
// Missing references and failed copies are reported by the builder's logger.
func printBuildResult(w io.Writer, dir string, cfg *config.Config, res *md2deck.Result) {
	fmt.Fprintf(w, "✓ Read %s\n", cfg.Paths.Content)
	if summary := tagSummary(res.TagCounts); summary != "" {
		fmt.Fprintf(w, "✓ Resolved %s\n", summary)
	}
	fmt.Fprintf(w, "✓ Rendered %s\n", plural(res.Slides, "slide"))
	fmt.Fprintf(w, "✓ Wrote %s\n", relTo(dir, res.IndexPath))
	fmt.Fprintf(w, "✓ Wrote %s\n", relTo(dir, res.StylesheetPath))
	printCopyReport(w, "image", res.Images)
	printCopyReport(w, "script", res.Scripts)
	if res.PDFPath != "" {
		fmt.Fprintf(w, "✓ Exported %s\n", relTo(dir, res.PDFPath))
	}
}

func printCopyReport(w io.Writer, noun string, report *md2deck.CopyReport) {
	if report == nil || report.Total() == 0 {
		return
	}
	line := fmt.Sprintf("✓ Copied %s", plural(len(report.Copied), noun))
	if n := len(report.Unchanged); n > 0 {
		line += fmt.Sprintf(" (%d unchanged)", n)
	}
	fmt.Fprintln(w, line)
}

// tagSummary renders counts as "5 tags (1 image, 2 charts, ...)".
func tagSummary(counts map[tags.Kind]int) string {
	total := 0
	var parts []string
	for _, kind := range tags.Kinds {
		n := counts[kind]
		if n == 0 {
			continue
		}
		total += n
		parts = append(parts, plural(n, kind.String()))
	}
	if total == 0 {
		return ""
	}
	return plural(total, "tag") + " (" + strings.Join(parts, ", ") + ")"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// relTo shortens path for display; falls back to path.
func relTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
