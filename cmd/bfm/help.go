package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bfm <command> [flags] [files...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse      Print the enriched syntax tree as JSON")
	fmt.Fprintln(w, "  html       Render documents as HTML")
	fmt.Fprintln(w, "  meta       Print extracted metadata as JSON")
	fmt.Fprintln(w, "  fmt        Rewrite documents in normalized form")
	fmt.Fprintln(w, "  merge      Merge documents into one")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input is read from stdin when no files are given.")
	fmt.Fprintln(w, "Run 'bfm help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for one document command.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case cmdParse:
		fmt.Fprintln(w, "Usage: bfm parse [flags] [files or directories...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the enriched syntax tree of each document as JSON (.json).")
	case cmdHTML:
		fmt.Fprintln(w, "Usage: bfm html [flags] [files or directories...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render each document as an HTML fragment, or a full page (.html).")
	case cmdMeta:
		fmt.Fprintln(w, "Usage: bfm meta [flags] [files or directories...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print word count, reading time, tasks, tags and links as JSON (.meta.json).")
	case cmdFmt:
		fmt.Fprintln(w, "Usage: bfm fmt [flags] [files or directories...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rewrite documents in normalized form. Several inputs are rewritten in")
		fmt.Fprintln(w, "place unless -o names a directory.")
	case cmdMerge:
		fmt.Fprintln(w, "Usage: bfm merge [flags] <files or directories...>")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Merge documents in order: front matter is deep-merged, bodies are joined.")
	default:
		printUsage(w)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, or directory for several inputs")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Processing:")
	fmt.Fprintln(w, "      --toc-depth <n>       Default toc depth (1-6)")
	fmt.Fprintln(w, "      --wpm <n>             Words per minute for reading time")

	switch cmd {
	case cmdHTML:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "HTML:")
		fmt.Fprintln(w, "      --page                Wrap output in a complete HTML page")
		fmt.Fprintln(w, "      --css <path>          Stylesheet injected into --page output")
		fmt.Fprintln(w, "      --style <name>        Page style: default, plain, none, or a custom name")
		fmt.Fprintln(w, "      --title <s>           Page title when front matter has none")
	case cmdMerge:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Merge:")
		fmt.Fprintln(w, "      --strategy <s>        Front matter conflicts: last, first, error")
		fmt.Fprintln(w, "      --separator <s>       Text between bodies (default blank line)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file results and timing")
	fmt.Fprintln(w, "      --version             Show version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit Codes:")
	fmt.Fprintln(w, "  0  Success")
	fmt.Fprintln(w, "  1  General error")
	fmt.Fprintln(w, "  2  Usage error (invalid flags, config, validation)")
	fmt.Fprintln(w, "  3  I/O error (file not found, permission denied)")
}

// runHelp prints usage for the command named in args.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}
	if !isCommand(args[0]) {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	printCommandUsage(env.Stdout, args[0])
	return nil
}
