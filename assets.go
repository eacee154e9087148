package md2deck

import (
	"errors"

	"github.com/alnah/go-md2deck/internal/assets"
)

// Built-in asset names.
const (
	DefaultStyle    = assets.DefaultStyleName
	DefaultTemplate = assets.DefaultTemplateName
)

// AssetLoader loads the deck stylesheet and HTML template by name.
//
// NewAssetLoader provides filesystem loading with fallback to the embedded
// defaults. Implement this interface for other backends.
type AssetLoader interface {
	// LoadStyle loads a CSS stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a deck template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, only embedded assets are used.
//
// The basePath directory may contain:
//   - styles/{name}.css
//   - templates/{name}.html
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter maps internal asset errors to the public sentinels.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	return content, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	return content, convertAssetError(err)
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err)
	default:
		return err
	}
}

// wrapError keeps both the public sentinel and the original cause matchable.
func wrapError(sentinel, cause error) error {
	return &assetError{sentinel: sentinel, cause: cause}
}

type assetError struct {
	sentinel error
	cause    error
}

func (e *assetError) Error() string {
	return e.cause.Error()
}

func (e *assetError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}
