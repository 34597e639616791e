package discriminator

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/imitation/initwfn"
	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/solver"
)

// GAILConfig implements a configuration of a GAIL discriminator.
// Because every field is JSON serializable, configurations can be
// stored in and read from experiment configuration files. The solver
// is carried for the external training loop that fits the
// discriminator.
type GAILConfig struct {
	Layers      []int
	Biases      []bool
	Activations []*network.Activation
	StateOnly   bool

	InitWFn *initwfn.InitWFn
	Solver  *solver.Solver
}

// NewDefaultGAILConfig returns a GAILConfig with the default two tanh
// hidden layers of hiddenSize units.
func NewDefaultGAILConfig(hiddenSize int) (GAILConfig, error) {
	init, err := initwfn.NewGlorotN(1.0)
	if err != nil {
		return GAILConfig{}, fmt.Errorf("newDefaultGAILConfig: could not "+
			"create init function: %v", err)
	}

	return GAILConfig{
		Layers:      []int{hiddenSize, hiddenSize},
		Biases:      []bool{true, true},
		Activations: []*network.Activation{network.TanH(), network.TanH()},
		InitWFn:     init,
	}, nil
}

// Validate checks the configuration to ensure it describes a valid
// discriminator.
func (c GAILConfig) Validate() error {
	return validateLayers(c.Layers, c.Biases, c.Activations, c.InitWFn)
}

// Create creates the discriminator that the configuration describes.
func (c GAILConfig) Create(stateSize, actionSize, batch int) (*GAIL, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	return NewGAIL(stateSize, actionSize, batch, G.NewGraph(), c.Layers,
		c.Biases, c.Activations, c.InitWFn.InitWFn(), c.StateOnly)
}

// AIRLConfig implements a configuration of an AIRL discriminator. The
// Discount is the γ of the shaping term.
type AIRLConfig struct {
	Layers      []int
	Biases      []bool
	Activations []*network.Activation
	Discount    float64
	StateOnly   bool

	InitWFn *initwfn.InitWFn
	Solver  *solver.Solver
}

// NewDefaultAIRLConfig returns an AIRLConfig with the default two tanh
// hidden layers of hiddenSize units for the shaping network.
func NewDefaultAIRLConfig(hiddenSize int, discount float64) (AIRLConfig,
	error) {
	init, err := initwfn.NewGlorotN(1.0)
	if err != nil {
		return AIRLConfig{}, fmt.Errorf("newDefaultAIRLConfig: could not "+
			"create init function: %v", err)
	}

	return AIRLConfig{
		Layers:      []int{hiddenSize, hiddenSize},
		Biases:      []bool{true, true},
		Activations: []*network.Activation{network.TanH(), network.TanH()},
		Discount:    discount,
		InitWFn:     init,
	}, nil
}

// Validate checks the configuration to ensure it describes a valid
// discriminator.
func (c AIRLConfig) Validate() error {
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], got %v", c.Discount)
	}
	return validateLayers(c.Layers, c.Biases, c.Activations, c.InitWFn)
}

// Create creates the discriminator that the configuration describes.
func (c AIRLConfig) Create(stateSize, actionSize, batch int) (*AIRL, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	return NewAIRL(stateSize, actionSize, batch, G.NewGraph(), c.Layers,
		c.Biases, c.Activations, c.InitWFn.InitWFn(), c.Discount,
		c.StateOnly)
}

// REDConfig implements a configuration of a RED model. Sigma is the
// bandwidth of the reward kernel.
type REDConfig struct {
	Layers      []int
	Biases      []bool
	Activations []*network.Activation
	Sigma       float64
	StateOnly   bool

	InitWFn *initwfn.InitWFn
	Solver  *solver.Solver
}

// NewDefaultREDConfig returns a REDConfig with the default two tanh
// hidden layers of hiddenSize units and a unit bandwidth.
func NewDefaultREDConfig(hiddenSize int) (REDConfig, error) {
	init, err := initwfn.NewGlorotN(1.0)
	if err != nil {
		return REDConfig{}, fmt.Errorf("newDefaultREDConfig: could not "+
			"create init function: %v", err)
	}

	return REDConfig{
		Layers:      []int{hiddenSize, hiddenSize},
		Biases:      []bool{true, true},
		Activations: []*network.Activation{network.TanH(), network.TanH()},
		Sigma:       1.0,
		InitWFn:     init,
	}, nil
}

// Validate checks the configuration to ensure it describes a valid
// model.
func (c REDConfig) Validate() error {
	if c.Sigma <= 0 {
		return fmt.Errorf("bandwidth must be positive, got %v", c.Sigma)
	}
	return validateLayers(c.Layers, c.Biases, c.Activations, c.InitWFn)
}

// Create creates the model that the configuration describes.
func (c REDConfig) Create(stateSize, actionSize, batch int) (*RED, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	return NewRED(stateSize, actionSize, batch, G.NewGraph(), c.Layers,
		c.Biases, c.Activations, c.InitWFn.InitWFn(), c.Sigma, c.StateOnly)
}

// GMMILConfig implements a configuration of a GMMIL reward model.
type GMMILConfig struct {
	StateOnly bool
}

// NewDefaultGMMILConfig returns a GMMILConfig that compares states
// alone.
func NewDefaultGMMILConfig() GMMILConfig {
	return GMMILConfig{StateOnly: true}
}

// Create creates the model that the configuration describes.
func (c GMMILConfig) Create(actionSize int) *GMMIL {
	return NewGMMIL(actionSize, c.StateOnly)
}

// validateLayers checks an MLP architecture description.
func validateLayers(layers []int, biases []bool,
	activations []*network.Activation, init *initwfn.InitWFn) error {
	if len(layers) != len(biases) {
		return fmt.Errorf("invalid number of biases \n\twant(%v) "+
			"\n\thave(%v)", len(layers), len(biases))
	}
	if len(layers) != len(activations) {
		return fmt.Errorf("invalid number of activations \n\twant(%v) "+
			"\n\thave(%v)", len(layers), len(activations))
	}
	if init == nil {
		return fmt.Errorf("no weight initializer given")
	}
	return nil
}
