package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-bfm"
)

// Sentinel errors for flag validation.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	output    string
	workers   int
	tocDepth  int
	wpm       int
	logLevel  string
	logFormat string
	quiet     bool
	verbose   bool
	version   bool
}

// htmlFlags holds flags of the html command.
type htmlFlags struct {
	page  bool
	css   string
	style string
	title string
}

// mergeFlags holds flags of the merge command.
type mergeFlags struct {
	strategy  string
	separator string
}

// cliFlags holds all flags for one command invocation.
type cliFlags struct {
	common commonFlags
	html   htmlFlags
	merge  mergeFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output file, or directory for several inputs")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.tocDepth, "toc-depth", 0, "default toc depth (1-6)")
	fs.IntVar(&f.wpm, "wpm", 0, "words per minute for reading time")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text, json")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file results and timing")
	fs.BoolVar(&f.version, "version", false, "show version and exit")
}

// addHTMLFlags adds html command flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.BoolVar(&f.page, "page", false, "wrap output in a complete HTML page")
	fs.StringVar(&f.css, "css", "", "stylesheet file injected into --page output")
	fs.StringVar(&f.style, "style", "", "page style name, or none (implies --page)")
	fs.StringVar(&f.title, "title", "", "page title when front matter has none")
}

// addMergeFlags adds merge command flags to a FlagSet.
func addMergeFlags(fs *flag.FlagSet, f *mergeFlags) {
	fs.StringVar(&f.strategy, "strategy", "last", "front matter conflicts: last, first, error")
	fs.StringVar(&f.separator, "separator", "", "text between merged bodies (default blank line)")
}

// parseCommandFlags parses flags of cmd and returns positional args.
func parseCommandFlags(cmd string, args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	switch cmd {
	case cmdHTML:
		addHTMLFlags(fs, &f.html)
	case cmdMerge:
		addMergeFlags(fs, &f.merge)
	}

	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if err := validateWorkers(f.common.workers); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > bfm.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, bfm.MaxPoolSize)
	}
	return nil
}
