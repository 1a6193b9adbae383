package assets

import "errors"

// AssetResolver looks templates up in assets.basePath first and falls back
// to the embedded set for names the directory does not provide.
type AssetResolver struct {
	custom   AssetLoader // nil without assets.basePath
	embedded AssetLoader
}

// NewAssetResolver returns a resolver over customBasePath, or over the
// embedded templates alone when customBasePath is empty.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// LoadTemplate returns the named template source. Only ErrTemplateNotFound
// from the custom directory falls through to the embedded copy; invalid
// names and read errors are reported as is.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.custom != nil {
		src, err := r.custom.LoadTemplate(name)
		if !errors.Is(err, ErrTemplateNotFound) {
			return src, err
		}
	}
	return r.embedded.LoadTemplate(name)
}

// HasCustomLoader reports whether assets.basePath is in use.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
