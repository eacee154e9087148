package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown command")

// Command names.
const (
	cmdBuild      = "build"
	cmdCount      = "count"
	cmdBundle     = "bundle"
	cmdInit       = "init"
	cmdDoctor     = "doctor"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command line and returns the process exit code.
// Without a command name, the arguments go to build.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := dispatch(ctx, args[1:], env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

func dispatch(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		return runBuild(ctx, nil, env)
	}

	name, rest := args[0], args[1:]
	switch name {
	case cmdBuild:
		return runBuild(ctx, rest, env)
	case cmdCount:
		return runCount(rest, env)
	case cmdBundle:
		return runBundle(rest, env)
	case cmdInit:
		return runInit(rest, env)
	case cmdDoctor:
		return runDoctor(rest, env)
	case cmdCompletion:
		return runCompletion(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "md2deck %s\n", Version)
		return nil
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	}

	if strings.HasPrefix(name, "-") || looksLikeDir(name) {
		return runBuild(ctx, args, env)
	}
	return fmt.Errorf("%w: %s (run 'md2deck help')", ErrUnknownCommand, name)
}

// looksLikeDir reports whether an unknown first argument should be taken
// as the presentation directory of an implicit build.
func looksLikeDir(arg string) bool {
	if strings.ContainsAny(arg, `/\`) || arg == "." || arg == ".." {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}
