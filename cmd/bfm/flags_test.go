package main

import (
	"errors"
	"io"
	"slices"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseCommandFlags - Flag parsing per command
// ---------------------------------------------------------------------------

func TestParseCommandFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseCommandFlags(cmdParse, nil, io.Discard)
		if err != nil {
			t.Fatalf("parseCommandFlags() error = %v", err)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
		if f.common.logLevel != "warn" {
			t.Errorf("logLevel = %q, want %q", f.common.logLevel, "warn")
		}
		if f.common.logFormat != "text" {
			t.Errorf("logFormat = %q, want %q", f.common.logFormat, "text")
		}
		if f.common.workers != 0 || f.common.tocDepth != 0 || f.common.wpm != 0 {
			t.Errorf("numeric flags = %+v, want zero values", f.common)
		}
	})

	t.Run("common flags and interspersed args", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseCommandFlags(cmdMeta, []string{
			"a.md", "-c", "work", "--toc-depth", "2", "--wpm=150",
			"-w", "3", "-o", "out", "-v", "b.md",
		}, io.Discard)
		if err != nil {
			t.Fatalf("parseCommandFlags() error = %v", err)
		}
		if !slices.Equal(args, []string{"a.md", "b.md"}) {
			t.Errorf("args = %v, want [a.md b.md]", args)
		}
		if f.common.config != "work" {
			t.Errorf("config = %q, want %q", f.common.config, "work")
		}
		if f.common.tocDepth != 2 || f.common.wpm != 150 || f.common.workers != 3 {
			t.Errorf("tocDepth, wpm, workers = %d, %d, %d, want 2, 150, 3",
				f.common.tocDepth, f.common.wpm, f.common.workers)
		}
		if f.common.output != "out" || !f.common.verbose {
			t.Errorf("output, verbose = %q, %v, want %q, true", f.common.output, f.common.verbose, "out")
		}
	})

	t.Run("html flags", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseCommandFlags(cmdHTML, []string{"--page", "--css", "s.css", "--title", "T"}, io.Discard)
		if err != nil {
			t.Fatalf("parseCommandFlags() error = %v", err)
		}
		if !f.html.page || f.html.css != "s.css" || f.html.title != "T" {
			t.Errorf("html flags = %+v", f.html)
		}
	})

	t.Run("merge flags", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseCommandFlags(cmdMerge, []string{"--strategy", "error", "--separator", "---"}, io.Discard)
		if err != nil {
			t.Fatalf("parseCommandFlags() error = %v", err)
		}
		if f.merge.strategy != "error" || f.merge.separator != "---" {
			t.Errorf("merge flags = %+v", f.merge)
		}
	})

	t.Run("merge strategy defaults to last", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseCommandFlags(cmdMerge, nil, io.Discard)
		if err != nil {
			t.Fatalf("parseCommandFlags() error = %v", err)
		}
		if f.merge.strategy != "last" {
			t.Errorf("strategy = %q, want %q", f.merge.strategy, "last")
		}
	})

	t.Run("html flag on other command", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseCommandFlags(cmdParse, []string{"--page"}, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("parseCommandFlags() error = %v, want ErrUsage", err)
		}
	})

	t.Run("help flag", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseCommandFlags(cmdParse, []string{"-h"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("parseCommandFlags() error = %v, want flag.ErrHelp", err)
		}
	})

	t.Run("too many workers", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseCommandFlags(cmdParse, []string{"-w", "99"}, io.Discard)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("parseCommandFlags() error = %v, want ErrInvalidWorkerCount", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"zero means auto", 0, false},
		{"one", 1, false},
		{"maximum", 8, false},
		{"negative", -1, true},
		{"above maximum", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.n)
			if tt.wantErr && !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateWorkers(%d) unexpected error: %v", tt.n, err)
			}
		})
	}
}
