package mdconv

import (
	"errors"

	"github.com/alnah/go-mdconv/internal/assets"
)

// Built-in stylesheet names.
const (
	// DefaultBaseStyle is the embedded GitHub-flavored document stylesheet.
	DefaultBaseStyle = assets.DefaultBaseStyle

	// DefaultHighlightStyle is the chroma "github" theme for code blocks.
	DefaultHighlightStyle = assets.DefaultHighlightStyle
)

// AssetLoader loads stylesheets and page templates by name.
// Implementations may read from the filesystem, embedded assets, or any
// other store.
//
// NewAssetLoader provides filesystem loading with fallback to the embedded
// assets. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadStyle loads a CSS stylesheet by name (without .css extension).
	// Names starting with "chroma-" resolve to generated highlight themes.
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML page template by name.
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, only embedded assets are used.
// Otherwise files under basePath take precedence with fallback to embedded.
//
// The basePath directory may contain:
//   - styles/{name}.css for stylesheets
//   - templates/{name}.html for page templates
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// StyleNames lists every built-in stylesheet name, highlight themes included.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
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
		return wrapError(ErrStyleNotFound, err) // an invalid name cannot exist
	default:
		return err
	}
}

// wrapError keeps the original message but matches the public sentinel
// under errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel; internal errors stay hidden.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}

var _ AssetLoader = (*assetLoaderAdapter)(nil)
