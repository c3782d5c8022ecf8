package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The preview service uses this to keep shared-diagram artifacts apart
// from locally rendered ones.
//
// Example usage:
//
//	// Per-share keys
//	shareKeyer := NewScopedKeyer(NewDefaultKeyer(), "share:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// SourceKey generates a prefixed key for source caching.
func (k *ScopedKeyer) SourceKey(namespace, key string) string {
	return k.prefix + k.inner.SourceKey(namespace, key)
}

// GraphKey generates a prefixed key for parsed graph caching.
func (k *ScopedKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(sourceHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
