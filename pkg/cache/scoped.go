package cache

// ScopedKeyer wraps a Keyer with a prefix so several users of one shared
// cache do not see each other's entries.
//
// Example usage:
//
//	// Keys for one server instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "srv:"+instanceID+":")
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

// ListingKey generates a prefixed listing key.
func (k *ScopedKeyer) ListingKey(dir string, limit int) string {
	return k.prefix + k.inner.ListingKey(dir, limit)
}

// SceneKey generates a prefixed scene key.
func (k *ScopedKeyer) SceneKey(listingHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(listingHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
