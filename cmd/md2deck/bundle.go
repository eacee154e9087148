package main

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-md2deck/internal/bundle"
	"github.com/alnah/go-md2deck/internal/fileutil"
)

// runBundle packs the built output directory into a .tar.xz archive.
func runBundle(args []string, env *Environment) error {
	flags, positional, err := parseBundleFlags(args, env.Stderr)
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

	outDir := filepath.Join(dir, cfg.Paths.Output)
	if !fileutil.DirExists(outDir) {
		return fmt.Errorf("%w: %s (run md2deck build first)", bundle.ErrNotDirectory, outDir)
	}

	prefix := flags.prefix
	if prefix == "" {
		prefix = bundlePrefix(dir)
	}
	archive := flags.output
	if archive == "" {
		archive = filepath.Join(dir, prefix+bundle.Extension)
	}

	entries, err := bundle.Create(outDir, archive, prefix)
	if err != nil {
		return fmt.Errorf("bundling %s: %w", outDir, err)
	}

	if !flags.common.quiet {
		files := 0
		for _, e := range entries {
			if !e.Dir {
				files++
			}
		}
		fmt.Fprintf(env.Stdout, "✓ Bundled %s into %s\n", plural(files, "file"), archive)
	}
	return nil
}

// bundlePrefix names the archive root after the presentation directory.
func bundlePrefix(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "presentation"
	}
	base := filepath.Base(abs)
	if base == "." || base == string(filepath.Separator) {
		return "presentation"
	}
	return base
}
