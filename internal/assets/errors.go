package assets

import "errors"

// Sentinel errors for template loading.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name") // separators, dots or too long
	ErrInvalidBasePath  = errors.New("invalid base path")  // assets.basePath is not a readable directory
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected") // resolved file lies outside basePath
)
