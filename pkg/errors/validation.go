package errors

import (
	"math"
	"strings"
	"unicode"
)

// Viewport and listing bounds accepted from user input.
const (
	MaxViewportSide = 16384
	MaxLimit        = 10000
	MaxPathLength   = 4096
)

// ValidateViewport checks that a viewport is non-empty and not absurdly large.
func ValidateViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %dx%d", width, height)
	}
	if width > MaxViewportSide || height > MaxViewportSide {
		return New(ErrCodeInvalidViewport, "viewport too large (max %d per side), got %dx%d", MaxViewportSide, width, height)
	}
	return nil
}

// ValidateCamera checks camera parameters supplied by a user. Pitch and
// distance are clamped by the camera itself, so only finiteness is required
// of them; the field of view must lie strictly between 0 and pi.
func ValidateCamera(yaw, pitch, dist, fov float64) error {
	for _, v := range []float64{yaw, pitch, dist, fov} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidCamera, "camera parameters must be finite")
		}
	}
	if fov <= 0 || fov >= math.Pi {
		return New(ErrCodeInvalidCamera, "fov must be in (0, pi) radians, got %g", fov)
	}
	return nil
}

// ValidateLimit checks a per-directory entry limit.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return New(ErrCodeInvalidInput, "limit must be positive, got %d", limit)
	}
	if limit > MaxLimit {
		return New(ErrCodeInvalidInput, "limit too large (max %d), got %d", MaxLimit, limit)
	}
	return nil
}

// ValidatePath validates a directory path before it is listed.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of MaxPathLength bytes
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", MaxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormats checks that every requested output format is supported.
func ValidateFormats(formats, supported []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		ok := false
		for _, s := range supported {
			if strings.EqualFold(f, s) {
				ok = true
				break
			}
		}
		if !ok {
			return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(supported, ", "))
		}
	}
	return nil
}
