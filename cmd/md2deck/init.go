package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// ErrProjectExists is returned by init when it would overwrite files.
var ErrProjectExists = errors.New("presentation already initialized")

const sampleContent = `# Welcome

This deck was generated by md2deck. Edit content.md and run md2deck build.

# Data

#table-<sample.csv, style=striped, caption="Quarterly results">

# Chart

#chart-<sample.csv, type=bar, title="Revenue vs. cost", height=300>

# Script

#script-<counter.js, container=counter>
`

const sampleCSV = `Quarter,Revenue,Cost
Q1,120,80
Q2,150,95
Q3,170,110
Q4,210,130
`

const sampleScript = `function render(containerId) {
  var el = document.getElementById(containerId);
  var n = 0;
  var button = document.createElement('button');
  button.textContent = 'Clicked 0 times';
  button.onclick = function () {
    n++;
    button.textContent = 'Clicked ' + n + ' times';
  };
  el.appendChild(button);
}
`

// scaffoldFile is one file written by init, relative to the presentation.
type scaffoldFile struct {
	path    string
	content []byte
}

// runInit creates a presentation skeleton: md2deck.yaml, content.md and
// sample data, images and scripts directories.
func runInit(args []string, env *Environment) error {
	flags, positional, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	dir, err := resolveDir(positional, env)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfgYAML, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	files := []scaffoldFile{
		{config.DefaultFileName, cfgYAML},
		{cfg.Paths.Content, []byte(sampleContent)},
		{filepath.Join(cfg.Paths.Data, "sample.csv"), []byte(sampleCSV)},
		{filepath.Join(cfg.Paths.Scripts, "counter.js"), []byte(sampleScript)},
	}

	if !flags.force {
		for _, f := range files[:2] {
			if fileutil.FileExists(filepath.Join(dir, f.path)) {
				return fmt.Errorf("%w: %s exists (use --force to overwrite)", ErrProjectExists, filepath.Join(dir, f.path))
			}
		}
	}

	for _, sub := range []string{cfg.Paths.Data, cfg.Paths.Images, cfg.Paths.Scripts} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrWriteFile, sub, err)
		}
	}

	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if err := fileutil.WriteFileAtomic(path, f.content); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFile, err)
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "✓ Created %s\n", filepath.ToSlash(f.path))
		}
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "\nNext: md2deck build %s\n", dir)
	}
	return nil
}
