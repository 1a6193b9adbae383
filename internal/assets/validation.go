package assets

import (
	"fmt"
	"strings"
)

// MaxAssetNameLength bounds template names.
const MaxAssetNameLength = 64

// ValidateAssetName checks that a template name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty, too long, or contains
// path separators, dots or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
