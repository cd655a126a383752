package cache

// Keyer generates cache keys.
type Keyer interface {
	// RenderKey generates a key for an artifact rendered from a DOT source.
	RenderKey(dotHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds the options that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:" followed by a hash of the DOT hash and options.
func (DefaultKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return Key("render", dotHash, opts)
}
