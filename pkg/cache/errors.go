package cache

import "errors"

// ErrInvalidKey is returned for empty cache keys.
var ErrInvalidKey = errors.New("cache key cannot be empty")
