package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// validDirections are the accepted spellings for directional operations.
var validDirections = map[string]bool{
	"left":  true,
	"right": true,
	"up":    true,
	"down":  true,
}

// ValidateDirection validates a direction string from user input.
func ValidateDirection(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidDirection, "direction cannot be empty")
	}
	if !validDirections[strings.ToLower(dir)] {
		return New(ErrCodeInvalidDirection, "invalid direction %q (want left, right, up or down)", dir)
	}
	return nil
}

// validOrientations are the accepted spellings for split orientations.
var validOrientations = map[string]bool{
	"horizontal": true,
	"vertical":   true,
	"tabbed":     true,
	"stacked":    true,
}

// ValidateOrientation validates a split orientation string from user input.
func ValidateOrientation(o string) error {
	if o == "" {
		return New(ErrCodeInvalidSplit, "split orientation cannot be empty")
	}
	if !validOrientations[strings.ToLower(o)] {
		return New(ErrCodeInvalidSplit, "invalid split orientation %q (want horizontal, vertical, tabbed or stacked)", o)
	}
	return nil
}

// ValidateGridDims validates workspace grid dimensions.
//
// The validation rules are intentionally conservative:
//   - Both dimensions at least 1
//   - Maximum of 32 per axis, keeping grids addressable by small indices
func ValidateGridDims(w, h int) error {
	const maxGridDim = 32

	if w < 1 || h < 1 {
		return New(ErrCodeGridBounds, "grid dimensions must be at least 1x1, got %dx%d", w, h)
	}
	if w > maxGridDim || h > maxGridDim {
		return New(ErrCodeGridBounds, "grid dimensions too large (max %dx%d), got %dx%d", maxGridDim, maxGridDim, w, h)
	}
	return nil
}

// ValidateSurfaceName validates a surface name used in scenario files and
// on the command line. It rejects names that could not round-trip through
// logs or DOT output.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateSurfaceName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownSurface, "surface name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "surface name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "surface name contains invalid control characters")
		}
	}

	return nil
}

// ratioRegex matches a ratio written as a decimal in (0, 1).
var ratioRegex = regexp.MustCompile(`^0?\.[0-9]+$`)

// ValidateRatio validates a split ratio string from a scenario file.
func ValidateRatio(s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "ratio cannot be empty")
	}
	if !ratioRegex.MatchString(s) {
		return New(ErrCodeInvalidInput, "invalid ratio %q (want a decimal in (0, 1))", s)
	}
	return nil
}
