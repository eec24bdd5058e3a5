package assets

// AssetResolver tries a custom FilesystemLoader first and falls back to the
// embedded assets when the custom directory lacks the requested file.
// Validation and I/O errors from the custom loader are returned as-is.
type AssetResolver struct {
	custom   AssetLoader // nil without a base path
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a stylesheet, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate loads an HTML template, custom first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// HasCustomLoader reports whether a base path was configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *AssetResolver) loadWithFallback(load func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return load(r.embedded)
}

var _ AssetLoader = (*AssetResolver)(nil)
