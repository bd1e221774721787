package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-bfm"
	"github.com/alnah/go-bfm/internal/assets"
	"github.com/alnah/go-bfm/internal/config"
	"github.com/alnah/go-bfm/internal/fileutil"
	"github.com/alnah/go-bfm/internal/logging"
	"github.com/alnah/go-bfm/internal/render"
)

// styleNone disables the page style.
const styleNone = "none"

// Command names.
const (
	cmdParse   = "parse"
	cmdHTML    = "html"
	cmdMeta    = "meta"
	cmdFmt     = "fmt"
	cmdMerge   = "merge"
	cmdVersion = "version"
	cmdHelp    = "help"
)

// Sentinel errors for command dispatch and I/O.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoInput        = errors.New("no input specified")
	ErrReadInput      = errors.New("failed to read input")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrWriteOutput    = errors.New("failed to write output")
)

// isCommand reports whether s names a command.
func isCommand(s string) bool {
	switch s {
	case cmdParse, cmdHTML, cmdMeta, cmdFmt, cmdMerge, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// isDocumentCommand reports whether cmd processes documents.
func isDocumentCommand(cmd string) bool {
	return isCommand(cmd) && cmd != cmdVersion && cmd != cmdHelp
}

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	err := run(ctx, args, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// run dispatches args to a command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case cmdVersion, "--version":
		printVersion(env.Stdout)
		return nil
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	}
	if !isDocumentCommand(cmd) {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	f, files, err := parseCommandFlags(cmd, rest, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if f.common.version {
		printVersion(env.Stdout)
		return nil
	}

	logger, err := newLogger(&f.common, env.Stderr)
	if err != nil {
		return err
	}
	if env.SetMaxProcs != nil {
		env.SetMaxProcs(maxProcsLogf(f.common.verbose, env.Stderr))
	}

	cfg, err := loadConfig(f.common.config)
	if err != nil {
		return err
	}
	if f.html.title != "" {
		cfg.Render.Title = f.html.title
	}

	opts := []bfm.Option{
		bfm.WithConfig(cfg),
		bfm.WithLogger(logger),
		bfm.WithTOCDepth(f.common.tocDepth),
		bfm.WithWordsPerMinute(f.common.wpm),
	}
	// Validate once before any worker starts.
	proc, err := bfm.New(opts...)
	if err != nil {
		return err
	}

	params := &commandParams{
		cmd:    cmd,
		flags:  f,
		logger: logger,
		now:    env.Now,
	}
	if params.now == nil {
		params.now = time.Now
	}
	if cmd == cmdHTML {
		params.page = f.html.page || f.html.css != "" || f.html.style != ""
		if params.page {
			if params.css, err = pageCSS(&f.html, &cfg.Render); err != nil {
				return err
			}
		}
	}

	if cmd == cmdMerge {
		return runMerge(ctx, proc, files, params, env)
	}
	if len(files) == 0 {
		return runStdin(ctx, proc, params, env)
	}
	single, err := isSingleFile(files)
	if err != nil {
		return err
	}
	if single {
		return runFile(ctx, proc, files[0], params, env)
	}

	outputDir := f.common.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	jobs, err := discoverFiles(files, outputDir, cmd)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no markdown files found", ErrNoInput)
	}

	poolSize := bfm.ResolvePoolSize(f.common.workers)
	logger.Info("processing batch", slog.Int("files", len(jobs)), slog.Int("workers", poolSize))
	pool := bfm.NewProcessorPool(poolSize, opts...)
	defer pool.Close()

	results := processBatch(ctx, pool, jobs, params)
	return printResults(results, f.common.quiet, f.common.verbose, env)
}

// commandParams groups what every file of one invocation shares.
type commandParams struct {
	cmd    string
	flags  *cliFlags
	logger *slog.Logger
	now    func() time.Time
	css    string
	page   bool
}

// execute produces the output of one command for one source document.
func execute(ctx context.Context, proc *bfm.Processor, p *commandParams, src []byte) (string, error) {
	if p.cmd == cmdFmt {
		return proc.Format(ctx, src)
	}

	doc, err := proc.Process(ctx, src)
	if err != nil {
		return "", err
	}

	switch p.cmd {
	case cmdParse:
		return marshalJSON(doc.Tree)
	case cmdHTML:
		if p.page {
			return proc.RenderPage(ctx, doc, p.css)
		}
		out, err := proc.RenderHTML(ctx, doc)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	case cmdMeta:
		md, err := proc.Metadata(ctx, doc)
		if err != nil {
			return "", err
		}
		return marshalJSON(md)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, p.cmd)
}

// runStdin processes a single document read from stdin.
func runStdin(ctx context.Context, proc *bfm.Processor, p *commandParams, env *Environment) error {
	src, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
	}
	out, err := execute(ctx, proc, p, src)
	if err != nil {
		return err
	}
	return writeOutput(p.flags.common.output, out, env)
}

// runFile processes one named file, writing to -o or stdout.
func runFile(ctx context.Context, proc *bfm.Processor, path string, p *commandParams, env *Environment) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	out, err := execute(ctx, proc, p, src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if out, err = relocateOutput(p, out, path, p.flags.common.output); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeOutput(p.flags.common.output, out, env)
}

// runMerge merges every input, in order, into one output.
func runMerge(ctx context.Context, proc *bfm.Processor, files []string, p *commandParams, env *Environment) error {
	strategy, err := bfm.ParseMergeStrategy(p.flags.merge.strategy)
	if err != nil {
		return err
	}

	var sources [][]byte
	if len(files) == 0 {
		src, err := io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		sources = append(sources, src)
	} else {
		jobs, err := discoverFiles(files, "", cmdMerge)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("%w: no markdown files found", ErrNoInput)
		}
		for _, j := range jobs {
			src, err := os.ReadFile(j.InputPath)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrReadInput, err)
			}
			sources = append(sources, src)
		}
	}

	out, err := proc.Merge(ctx, sources, bfm.MergeOptions{
		Strategy:  strategy,
		Separator: p.flags.merge.separator,
	})
	if err != nil {
		return err
	}
	return writeOutput(p.flags.common.output, out, env)
}

// relocateOutput rewrites relative links of HTML output written away from
// its source directory.
func relocateOutput(p *commandParams, out, inputPath, outputPath string) (string, error) {
	if p.cmd != cmdHTML || outputPath == "" {
		return out, nil
	}
	return render.RelocateLinks(out, filepath.Dir(inputPath), filepath.Dir(outputPath))
}

// writeOutput writes out to path, or to stdout when path is empty.
func writeOutput(path, out string, env *Environment) error {
	if path == "" {
		if _, err := io.WriteString(env.Stdout, out); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(out)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// marshalJSON renders v as indented JSON with a trailing newline.
func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*bfm.Config, error) {
	if name == "" {
		return bfm.DefaultConfig(), nil
	}
	return bfm.LoadConfig(name)
}

// pageCSS assembles the stylesheet of --page output: the named style, then
// the user stylesheet. Flags win over the config.
func pageCSS(f *htmlFlags, cfg *config.RenderConfig) (string, error) {
	name := cmp.Or(f.style, cfg.Style, assets.DefaultStyleName)
	var style string
	if name != styleNone {
		resolver, err := assets.NewStyleResolver(cfg.StyleDir)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		if style, err = resolver.LoadStyle(name); err != nil {
			return "", err
		}
	}

	path := cmp.Or(f.css, cfg.CSS)
	if path == "" {
		return style, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
	}
	return style + string(data), nil
}

// newLogger builds the diagnostics logger from the log flags.
func newLogger(f *commonFlags, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(f.logFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, format), nil
}

// maxProcsLogf returns the automaxprocs logger: silent unless verbose.
func maxProcsLogf(verbose bool, w io.Writer) func(string, ...any) {
	if !verbose {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

// printVersion prints the version line.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "bfm %s\n", Version)
}
