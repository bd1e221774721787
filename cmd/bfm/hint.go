package main

import (
	"errors"

	"github.com/alnah/go-bfm"
	"github.com/alnah/go-bfm/internal/assets"
	"github.com/alnah/go-bfm/internal/config"
	"github.com/alnah/go-bfm/internal/hints"
	"github.com/alnah/go-bfm/internal/hostmd"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.DefaultName)
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Names())
	case errors.Is(err, bfm.ErrUnknownHostExtension):
		return hints.ForHostExtension(hostmd.HostExtensions())
	case errors.Is(err, bfm.ErrInvalidDirectiveName):
		return hints.ForDirectiveName()
	case errors.Is(err, bfm.ErrMergeConflict):
		return hints.ForMergeConflict()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
