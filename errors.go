package md2deck

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilConfig      = errors.New("config cannot be nil")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrHighlightStyle = errors.New("unknown highlight style")
	ErrSourceNotFound = errors.New("markdown source not found")
	ErrSourceRead     = errors.New("failed to read markdown source")
	ErrWriteOutput    = errors.New("failed to write output")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
