package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-bfm/internal/fileutil"
)

// ErrInvalidExtension is returned for a named file that is not Markdown.
var ErrInvalidExtension = errors.New("file must have .md, .markdown or .bfm extension")

// FileJob represents a single file to process.
type FileJob struct {
	InputPath  string
	OutputPath string
}

// isSingleFile reports whether args name exactly one regular file.
func isSingleFile(args []string) (bool, error) {
	if len(args) != 1 {
		return false, nil
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return !info.IsDir(), nil
}

// discoverFiles expands inputs into jobs, in argument order. Directories are
// walked in lexical order; hidden directories below them are skipped.
func discoverFiles(inputs []string, outputDir, cmd string) ([]FileJob, error) {
	var jobs []FileJob
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		if !info.IsDir() {
			if !fileutil.IsMarkdown(input) {
				return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
			}
			out, err := resolveOutputPath(input, outputDir, "", cmd)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, FileJob{InputPath: input, OutputPath: out})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != input && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !fileutil.IsMarkdown(path) {
				return nil
			}
			out, err := resolveOutputPath(path, outputDir, input, cmd)
			if err != nil {
				return err
			}
			jobs = append(jobs, FileJob{InputPath: path, OutputPath: out})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// resolveOutputPath determines the output file of inputPath for cmd.
// Files found under baseInputDir keep their relative directory in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, cmd string) (string, error) {
	dir := outputDir
	if outputDir != "" && baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			dir = filepath.Join(outputDir, filepath.Dir(rel))
		}
	}
	return fileutil.OutputPath(inputPath, dir, outputExtension(cmd, inputPath))
}

// outputExtension returns the extension of files written by cmd.
// fmt keeps the input's own extension.
func outputExtension(cmd, inputPath string) string {
	switch cmd {
	case cmdParse:
		return "json"
	case cmdHTML:
		return "html"
	case cmdMeta:
		return "meta.json"
	}
	return strings.TrimPrefix(filepath.Ext(inputPath), ".")
}
