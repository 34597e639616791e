package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes a Glorot uniform weight initializer with the
// given gain.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot uniform weight initializer.
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of initializer the configuration describes.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the described initializer as a Gorgonia InitWFn.
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes a Glorot normal weight initializer with the
// given gain.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot normal weight initializer. This is
// the default initializer of every model configuration in this module.
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of initializer the configuration describes.
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the described initializer as a Gorgonia InitWFn.
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
