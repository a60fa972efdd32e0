package errors

import (
	"math"
	"regexp"
	"unicode"
)

// elementIDRegex matches ids that are safe in selectors and attribute values.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateElementID validates an element id from a scene or request.
//
// The rules are conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Must start with a letter
//   - Only letters, digits, '-' and '_'
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "element id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element id contains invalid control characters")
		}
	}
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid element id: %q", id)
	}
	return nil
}

// ValidateDimension checks that a width or height is finite and positive.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidGeometry, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateCoordinate checks that a position is finite. Negative values are
// allowed: anchors may sit partly off-screen.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be a finite number", name)
	}
	return nil
}
