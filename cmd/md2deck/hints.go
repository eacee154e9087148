package main

import (
	"context"
	"errors"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/hints"
	"github.com/alnah/go-md2deck/internal/pipeline"
	"github.com/alnah/go-md2deck/internal/resolve"
)

// hintedError appends actionable hints to an error message while keeping
// the original error matchable.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHints decorates err with hints for the failures users can fix.
// dir is the presentation directory; cfg may be nil when loading failed.
func withHints(err error, dir string, cfg *config.Config) error {
	if err == nil {
		return nil
	}

	var hint string
	switch {
	case errors.Is(err, md2deck.ErrSourceNotFound):
		hint = hints.ForSourceNotFound(dir)
	case errors.Is(err, resolve.ErrDataRead):
		dataDir := config.DefaultConfig().Paths.Data
		if cfg != nil {
			dataDir = cfg.Paths.Data
		}
		hint = hints.ForDataNotFound(dataDir)
	case errors.Is(err, config.ErrConfigNotFound):
		hint = hints.ForConfigNotFound(nil)
	case errors.Is(err, md2deck.ErrHighlightStyle):
		hint = hints.ForHighlightStyle(pipeline.HighlightStyles())
	case errors.Is(err, md2deck.ErrBrowserConnect):
		hint = hints.ForBrowserConnect(hints.DetectBrowserEnv())
	case errors.Is(err, md2deck.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	case errors.Is(err, md2deck.ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	}

	if hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}
