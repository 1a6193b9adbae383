package rab2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyOutputBase = errors.New("output base directory cannot be empty")
	ErrInvalidGeometry = errors.New("invalid slide geometry")
	ErrImageDirectory  = errors.New("failed to create slide image directory")
	ErrRender          = errors.New("slide rendering failed")
	ErrNoCaptureScope  = errors.New("slide saved outside a capture scope")
	ErrNotContainer    = errors.New("text holds no rendered slide container")

	// Template errors.
	ErrTemplateNotFound = errors.New("slide template not found")
	ErrTemplateRender   = errors.New("slide template rendering failed")

	// Rasterization errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load slide page")
	ErrScreenshot     = errors.New("failed to capture slide image")
)
