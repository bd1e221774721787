package main

import (
	"io"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// SetMaxProcs adjusts GOMAXPROCS to the container CPU quota.
	// Nil leaves the runtime default.
	SetMaxProcs func(logf func(string, ...any))
}

// DefaultEnv returns production dependencies.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		SetMaxProcs: setMaxProcs,
	}
}

// setMaxProcs configures GOMAXPROCS through automaxprocs.
func setMaxProcs(logf func(string, ...any)) {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}
