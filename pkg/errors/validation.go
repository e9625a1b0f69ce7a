package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateProbability checks that p is a finite value in [0, 1].
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return InvalidParameter("%s=%v outside [0,1]", name, p)
	}
	return nil
}

// ValidateNodeCount checks that n is at least 1.
func ValidateNodeCount(n int) error {
	if n < 1 {
		return InvalidParameter("num_nodes=%d must be >= 1", n)
	}
	return nil
}

// ValidateFinite checks that v is neither NaN nor infinite and not below min.
func ValidateFinite(name string, v, min float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InvalidParameter("%s=%v is not finite", name, v)
	}
	if v < min {
		return InvalidParameter("%s=%v must be >= %v", name, v, min)
	}
	return nil
}

// ValidatePath validates an output file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateKindName rejects selector strings that cannot name any kind
// (empty, whitespace-padded, or containing control characters).
func ValidateKindName(family, kind string) error {
	if kind == "" {
		return New(ErrCodeInvalidInput, "%s kind cannot be empty", family)
	}
	if strings.TrimSpace(kind) != kind {
		return New(ErrCodeInvalidInput, "%s kind %q has surrounding whitespace", family, kind)
	}
	for _, r := range kind {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s kind contains invalid control characters", family)
		}
	}
	return nil
}
