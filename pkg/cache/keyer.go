package cache

// Keyer derives cache keys. Every key has the form "<kind>:<sha256>" so
// backends and hooks can tell entry kinds apart.
type Keyer interface {
	// PlacementKey keys a single placement request. The request is hashed
	// through its JSON encoding.
	PlacementKey(request any) string

	// ArtifactKey keys a rendered scene artifact.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything besides the scene that changes an
// artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Tooltip string `json:"tooltip,omitempty"`
	Options any    `json:"options,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PlacementKey(request any) string {
	return hashKey("placement", request)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
