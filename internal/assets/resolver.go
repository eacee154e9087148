package assets

import "errors"

// AssetResolver layers an optional custom directory over the embedded
// assets. A custom directory may provide the stylesheet, the template or
// both; whatever it lacks is served from the binary.
type AssetResolver struct {
	loaders []AssetLoader // custom first, embedded last
}

// NewAssetResolver returns a resolver over customBasePath, or over the
// embedded assets alone when the path is empty.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.loaders = append(r.loaders, custom)
	}
	r.loaders = append(r.loaders, NewEmbeddedLoader())
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// first returns the content from the first loader that has the asset.
// Invalid names and read failures stop the search.
func (r *AssetResolver) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range r.loaders {
		var content string
		if content, err = load(l); err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrStyleNotFound) && !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return "", err
}

// HasCustomLoader reports whether a custom directory is in use.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.loaders) > 1
}

var _ AssetLoader = (*AssetResolver)(nil)
