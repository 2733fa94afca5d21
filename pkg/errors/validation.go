package errors

import (
	"strings"
	"unicode"
)

// ValidateUnwrapParams checks unwrap parameter scalars for sane ranges.
// The limits are deliberately loose: they reject values that can only be
// mistakes (negative margins, NaN-adjacent thresholds), not values that
// merely produce poor unwraps.
func ValidateUnwrapParams(angleThreshold float64, minIslandFaces int, islandMargin float64) error {
	if angleThreshold < 0 || angleThreshold > 180 {
		return New(ErrCodeInvalidParams, "angle threshold must be in [0,180] degrees, got %g", angleThreshold)
	}
	if minIslandFaces < 0 {
		return New(ErrCodeInvalidParams, "min island faces must be >= 0, got %d", minIslandFaces)
	}
	if islandMargin < 0 || islandMargin >= 1 {
		return New(ErrCodeInvalidParams, "island margin must be in [0,1), got %g", islandMargin)
	}
	return nil
}

// ValidateFilePath validates a user-supplied file path for safety.
// It rejects empty paths, control characters, and null bytes; it does not
// restrict absolute paths since CLI users legitimately write anywhere.
func ValidateFilePath(path string) error {
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

// ValidateRedisAddr validates a host:port address for the Redis cache backend.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "redis address cannot be empty")
	}
	if !strings.Contains(addr, ":") {
		return New(ErrCodeInvalidInput, "redis address must be host:port, got %q", addr)
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string for the cache backend.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongo URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "mongo URI must use mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}
