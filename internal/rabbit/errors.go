package rabbit

import "errors"

// Sentinel errors for renderer operations.
var (
	ErrUsage             = errors.New("invalid renderer arguments")
	ErrInvalidSize       = errors.New("invalid slide size")
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrUnknownLogger     = errors.New("unknown logger")
	ErrUnknownEncoding   = errors.New("unknown source encoding")
	ErrNoRasterizer      = errors.New("no rasterizer configured")
	ErrReadSource        = errors.New("failed to read source")
	ErrSaveImage         = errors.New("failed to save slide image")
	ErrSaveHTML          = errors.New("failed to save slide HTML")
)
