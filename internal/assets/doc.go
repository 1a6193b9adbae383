// Package assets provides the HTML templates that lay out rendered slide decks.
// Templates can be loaded from embedded files or a custom filesystem path.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (bundled templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the bundled templates (bootstrap_carousel,
// image_list) embedded at compile time.
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader when the template
// is not found there. This enables overriding one template while keeping
// the others.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.html          # html/template source
//
// # Security
//
// Template names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
