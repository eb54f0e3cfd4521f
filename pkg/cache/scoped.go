package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants, or
// several versions of the layout engine, can share one store.
//
// Example usage:
//
//	// Keep preview-service entries apart from CLI entries in Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(gestureHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(gestureHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(gestureHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gestureHash, opts)
}
