package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools or versions
// can share one cache directory without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SimplifyKey generates a prefixed key for simplification results.
func (k *ScopedKeyer) SimplifyKey(networkHash string, opts SimplifyKeyOpts) string {
	return k.prefix + k.inner.SimplifyKey(networkHash, opts)
}

// RenderKey generates a prefixed key for rendered images.
func (k *ScopedKeyer) RenderKey(networkHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(networkHash, opts)
}
