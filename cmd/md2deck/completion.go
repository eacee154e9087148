package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDir  bool     // accepts a presentation directory argument
	Arguments []string // fixed argument values (completion shells)
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":     {FileGlob: "*.yaml,*.yml"},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the same registration functions the parsers use.
func getCommands() []commandDef {
	buildFS := flag.NewFlagSet(cmdBuild, flag.ContinueOnError)
	addBuildFlags(buildFS, &buildFlags{})

	countFS := flag.NewFlagSet(cmdCount, flag.ContinueOnError)
	addCommonFlags(countFS, &commonFlags{})

	bundleFS := flag.NewFlagSet(cmdBundle, flag.ContinueOnError)
	addBundleFlags(bundleFS, &bundleFlags{})

	initFS := flag.NewFlagSet(cmdInit, flag.ContinueOnError)
	addInitFlags(initFS, &initFlags{})

	doctorFS := flag.NewFlagSet(cmdDoctor, flag.ContinueOnError)
	addDoctorFlags(doctorFS, &doctorFlags{})

	return []commandDef{
		{Name: cmdBuild, Desc: "Build the deck", Flags: extractFlagsFromFlagSet(buildFS), TakesDir: true},
		{Name: cmdCount, Desc: "Count tags and write tags-usage.csv", Flags: extractFlagsFromFlagSet(countFS), TakesDir: true},
		{Name: cmdBundle, Desc: "Pack the output into a .tar.xz archive", Flags: extractFlagsFromFlagSet(bundleFS), TakesDir: true},
		{Name: cmdInit, Desc: "Create a presentation skeleton", Flags: extractFlagsFromFlagSet(initFS), TakesDir: true},
		{Name: cmdDoctor, Desc: "Check the presentation and PDF export setup", Flags: extractFlagsFromFlagSet(doctorFS), TakesDir: true},
		{Name: cmdCompletion, Desc: "Generate shell completion script",
			Arguments: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(cmds)
	case ShellZsh:
		script = generateZsh(cmds)
	case ShellFish:
		script = generateFish(cmds)
	case ShellPowerShell:
		script = generatePowerShell(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func flagWords(flags []flagDef) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for md2deck\n\n")
	b.WriteString("_md2deck_completions() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -d -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"$prev\" in\n")
	b.WriteString("    --config|-c) COMPREPLY=($(compgen -f -X '!*.@(yaml|yml)' -- \"$cur\")); return ;;\n")
	b.WriteString("    --asset-path|--output|-o) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n")
	b.WriteString("  esac\n\n")
	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		switch {
		case len(c.Arguments) > 0:
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", c.Name, strings.Join(c.Arguments, " "))
		case c.TakesDir:
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -d -- \"$cur\")) ;;\n", c.Name, strings.Join(flagWords(c.Flags), " "))
		}
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("complete -F _md2deck_completions md2deck\n")
	return b.String()
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef md2deck\n\n")
	b.WriteString("_md2deck() {\n")
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n    _files -/\n    return\n  fi\n\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Arguments) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if len(c.Arguments) > 0 {
			fmt.Fprintf(&b, "        '1:shell:(%s)'\n", strings.Join(c.Arguments, " "))
		} else {
			b.WriteString("        '1:directory:_files -/'\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("compdef _md2deck md2deck\n")
	return b.String()
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagFile:
		return ":file:_files -g '" + strings.ReplaceAll(f.FileGlob, ",", " ") + "'"
	case flagDir:
		return ":directory:_files -/"
	default:
		return ":value:"
	}
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "[", `\[`)
	s = strings.ReplaceAll(s, "]", `\]`)
	return strings.ReplaceAll(s, ":", `\:`)
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for md2deck\n\n")
	b.WriteString("function __fish_md2deck_needs_command\n")
	b.WriteString("  set -l cmd (commandline -opc)\n  test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_md2deck_using_command\n")
	b.WriteString("  set -l cmd (commandline -opc)\n  test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\nend\n\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2deck -f -n __fish_md2deck_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_md2deck_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2deck -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			default:
				line += " -r"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		if len(c.Arguments) > 0 {
			fmt.Fprintf(&b, "complete -c md2deck -f -n %s -a '%s'\n", cond, strings.Join(c.Arguments, " "))
		}
	}
	return b.String()
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for md2deck\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName md2deck -ScriptBlock {\n")
	b.WriteString("  param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("  $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("  $completions = @{\n")
	for _, c := range cmds {
		values := flagWords(c.Flags)
		values = append(values, c.Arguments...)
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + v + "'"
		}
		fmt.Fprintf(&b, "    '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("  }\n")
	b.WriteString("  if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("    $candidates = $completions.Keys\n")
	b.WriteString("  } else {\n")
	b.WriteString("    $candidates = $completions[$words[1]]\n")
	b.WriteString("  }\n")
	b.WriteString("  $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("    [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("  }\n}\n")
	return b.String()
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2deck completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(md2deck completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2deck completion fish > ~/.config/fish/completions/md2deck.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    md2deck completion powershell | Out-String | Invoke-Expression")
}
