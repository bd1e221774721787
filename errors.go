package bfm

import (
	"errors"

	"github.com/alnah/go-bfm/internal/config"
	"github.com/alnah/go-bfm/internal/merge"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput    = errors.New("input cannot be empty")
	ErrInputTooLarge = errors.New("input exceeds maximum size")
	ErrNilDocument   = errors.New("document cannot be nil")
	ErrParse         = errors.New("parsing failed")
	ErrRender        = errors.New("HTML rendering failed")
	ErrResolve       = errors.New("resolver post-pass failed")
	ErrPoolClosed    = errors.New("processor pool is closed")

	// Configuration validation errors.
	ErrInvalidTOCDepth       = config.ErrInvalidTOCDepth
	ErrInvalidWordsPerMinute = config.ErrInvalidWordsPerMinute
	ErrInvalidDirectiveName  = config.ErrInvalidDirectiveName
	ErrUnknownHostExtension  = config.ErrUnknownHostExtension
	ErrConfigNotFound        = config.ErrConfigNotFound

	// ErrMergeConflict is matched by errors.Is for every *MergeConflictError.
	ErrMergeConflict = merge.ErrConflict
)
