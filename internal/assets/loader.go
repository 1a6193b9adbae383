package assets

// AssetLoader loads slide deck templates.
type AssetLoader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// DefaultTemplateName is the template used when none is configured.
const DefaultTemplateName = "bootstrap_carousel"

// templateExt is appended to template names.
const templateExt = ".html"
