package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	valid := []string{
		"bootstrap_carousel",
		"image-list",
		"carousel2",
		"ImageList",
		strings.Repeat("a", MaxAssetNameLength),
	}
	invalid := map[string]string{
		"empty":            "",
		"slash":            "decks/carousel",
		"backslash":        `decks\carousel`,
		"traversal":        "../secret",
		"windows path":     `C:\Windows\System32`,
		"absolute":         "/etc/passwd",
		"extension":        "carousel.html",
		"hidden":           ".hidden",
		"dot":              ".",
		"null byte":        "carousel\x00",
		"over length":      strings.Repeat("a", MaxAssetNameLength+1),
		"double extension": "carousel.html.bak",
	}

	for _, name := range valid {
		t.Run("valid/"+name[:min(len(name), 20)], func(t *testing.T) {
			t.Parallel()
			if err := ValidateAssetName(name); err != nil {
				t.Errorf("ValidateAssetName(%q) = %v", name, err)
			}
		})
	}
	for label, name := range invalid {
		t.Run("invalid/"+label, func(t *testing.T) {
			t.Parallel()
			if err := ValidateAssetName(name); !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", name, err)
			}
		})
	}
}
