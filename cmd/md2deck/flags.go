package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for flag and argument handling.
var (
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// buildFlags holds all flags for the build command. Zero values mean
// "not set": the config file or defaults apply.
type buildFlags struct {
	common    commonFlags
	title     string
	output    string
	assetPath string
	timeout   string
	raw       bool
	inlineCSS bool
	pdf       bool
}

// bundleFlags holds flags for the bundle command.
type bundleFlags struct {
	common commonFlags
	output string
	prefix string
}

// initFlags holds flags for the init command.
type initFlags struct {
	common commonFlags
	force  bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addBuildFlags registers the build flags. Shared by parseBuildFlags and
// the completion generator.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.title, "title", "T", "", "presentation title")
	fs.StringVarP(&f.output, "output", "o", "", "output directory, relative to the presentation")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding styles/custom.css and templates/deck.html")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.raw, "raw", false, "keep slide markdown verbatim (rendered by reveal.js)")
	fs.BoolVar(&f.inlineCSS, "inline-css", false, "embed the stylesheet in index.html")
	fs.BoolVar(&f.pdf, "pdf", false, "also export presentation.pdf (requires Chrome)")
	addCommonFlags(fs, &f.common)
}

func addBundleFlags(fs *flag.FlagSet, f *bundleFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "archive path (default: <dir>/<name>.tar.xz)")
	fs.StringVar(&f.prefix, "prefix", "", "directory name inside the archive (default: presentation directory name)")
	addCommonFlags(fs, &f.common)
}

func addInitFlags(fs *flag.FlagSet, f *initFlags) {
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite existing files")
	addCommonFlags(fs, &f.common)
}

func addDoctorFlags(fs *flag.FlagSet, f *doctorFlags) {
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse, tagging everything but --help as a usage error.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", printBuildUsage, stderr)
	addBuildFlags(fs, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCountFlags parses count command flags.
func parseCountFlags(args []string, stderr io.Writer) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := newFlagSet("count", printCountUsage, stderr)
	addCommonFlags(fs, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBundleFlags parses bundle command flags.
func parseBundleFlags(args []string, stderr io.Writer) (*bundleFlags, []string, error) {
	f := &bundleFlags{}
	fs := newFlagSet("bundle", printBundleUsage, stderr)
	addBundleFlags(fs, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init command flags.
func parseInitFlags(args []string, stderr io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := newFlagSet("init", printInitUsage, stderr)
	addInitFlags(fs, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseTimeout parses a --timeout value. Empty means "not set".
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}

// resolveDir returns the single optional directory argument, or the
// working directory.
func resolveDir(args []string, env *Environment) (string, error) {
	switch len(args) {
	case 0:
		return env.Getwd()
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected at most one directory, got %d", ErrTooManyArgs, len(args))
	}
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, []string, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", printDoctorUsage, stderr)
	addDoctorFlags(fs, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
