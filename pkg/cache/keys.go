package cache

import "fmt"

// SceneKeyOpts are the inputs that change a computed scene.
type SceneKeyOpts struct {
	Yaw, Pitch, Dist, FOV float64
	Width, Height         float64
	Radius, AngleStep     float64
	ZStep, MinFraction    float64
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
	Labels bool
	HUD    bool
	Scale  float64
}

// Keyer generates cache keys.
type Keyer interface {
	// ListingKey names the listing of dir truncated to limit.
	ListingKey(dir string, limit int) string

	// SceneKey names the screen points computed from a listing.
	SceneKey(listingHash string, opts SceneKeyOpts) string

	// ArtifactKey names a rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ListingKey returns "listing:<limit>:<dir>". Directory paths are kept
// readable so entries can be invalidated by prefix.
func (DefaultKeyer) ListingKey(dir string, limit int) string {
	return fmt.Sprintf("listing:%d:%s", limit, dir)
}

// SceneKey hashes the listing hash with every scene option.
func (DefaultKeyer) SceneKey(listingHash string, opts SceneKeyOpts) string {
	return hashKey("scene", listingHash, opts)
}

// ArtifactKey hashes the scene hash with the output options.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
