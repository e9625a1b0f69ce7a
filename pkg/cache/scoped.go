package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey returns the prefixed graph key.
func (k *ScopedKeyer) GraphKey(opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(opts)
}

// LayoutKey returns the prefixed layout key. graphKey is passed through
// unchanged, so it may already carry the prefix.
func (k *ScopedKeyer) LayoutKey(graphKey string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphKey, opts)
}
