package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck [command] [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Turn content.md into a reveal.js slide deck.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build        Build the deck (default)")
	fmt.Fprintln(w, "  count        Count tags and write data/tags-usage.csv")
	fmt.Fprintln(w, "  bundle       Pack the output directory into a .tar.xz archive")
	fmt.Fprintln(w, "  init         Create a presentation skeleton")
	fmt.Fprintln(w, "  doctor       Check the presentation and PDF export setup")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "dir defaults to the current directory.")
	fmt.Fprintln(w, "Run 'md2deck help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render <dir>/content.md into <dir>/output/index.html, copy images")
	fmt.Fprintln(w, "and scripts, and write styles/custom.css.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tags:")
	fmt.Fprintln(w, "  #image-<file, width=, height=, alt=, caption=>")
	fmt.Fprintln(w, "  #table-<file.csv, style=, sortable=true, caption=>")
	fmt.Fprintln(w, "  #chart-<file.csv, type=, title=, height=>")
	fmt.Fprintln(w, "  #youtube-<id, width=, height=>")
	fmt.Fprintln(w, "  #script-<file.js, container=>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -T, --title <s>           Presentation title")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory, relative to dir")
	fmt.Fprintln(w, "      --raw                 Keep slide markdown verbatim")
	fmt.Fprintln(w, "      --inline-css          Embed the stylesheet in index.html")
	fmt.Fprintln(w, "      --asset-path <dir>    Override styles/ and templates/")
	fmt.Fprintln(w, "      --pdf                 Also export presentation.pdf")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printCountUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck count [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Count image, table, chart, video and script tags in content.md and")
	fmt.Fprintln(w, "write the counts to <data>/tags-usage.csv.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printBundleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck bundle [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pack the built output directory into a reproducible .tar.xz archive.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <file>       Archive path (default: <dir>/<name>.tar.xz)")
	fmt.Fprintln(w, "      --prefix <name>       Root directory inside the archive")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck init [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create md2deck.yaml, content.md and sample data in dir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --force               Overwrite existing files")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck doctor [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the config loads, content.md is readable and every file")
	fmt.Fprintln(w, "referenced by a tag exists. Also reports Chrome detection, needed")
	fmt.Fprintln(w, "for --pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case cmdBuild:
		printBuildUsage(env.Stdout)
	case cmdCount:
		printCountUsage(env.Stdout)
	case cmdBundle:
		printBundleUsage(env.Stdout)
	case cmdInit:
		printInitUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2deck version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2deck help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
