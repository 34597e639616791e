package policy

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/imitation/initwfn"
	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/solver"
)

// ActorCriticConfig implements a configuration of an actor-critic
// model. Because every field is JSON serializable, configurations can
// be stored in and read from experiment configuration files.
//
// The solvers are not used by the model itself. They are carried in
// the configuration so that the external training loop that updates
// the model uses the solvers the experiment file describes.
type ActorCriticConfig struct {
	// Policy neural net
	PolicyLayers      []int
	PolicyBiases      []bool
	PolicyActivations []*network.Activation

	// State value function neural net
	ValueFnLayers      []int
	ValueFnBiases      []bool
	ValueFnActivations []*network.Activation

	// Weight init function for all neural nets
	InitWFn *initwfn.InitWFn

	PolicySolver *solver.Solver
	VSolver      *solver.Solver
}

// NewDefaultActorCriticConfig returns an ActorCriticConfig with the
// default two tanh hidden layers of hiddenSize units for both the
// policy and the value function.
func NewDefaultActorCriticConfig(hiddenSize int) (ActorCriticConfig, error) {
	init, err := initwfn.NewGlorotN(1.0)
	if err != nil {
		return ActorCriticConfig{}, fmt.Errorf("newDefaultActorCriticConfig: "+
			"could not create init function: %v", err)
	}

	return ActorCriticConfig{
		PolicyLayers:      []int{hiddenSize, hiddenSize},
		PolicyBiases:      []bool{true, true},
		PolicyActivations: []*network.Activation{network.TanH(), network.TanH()},

		ValueFnLayers:      []int{hiddenSize, hiddenSize},
		ValueFnBiases:      []bool{true, true},
		ValueFnActivations: []*network.Activation{network.TanH(), network.TanH()},

		InitWFn: init,
	}, nil
}

// Validate checks the configuration to ensure it describes a valid
// actor-critic model.
func (c ActorCriticConfig) Validate() error {
	if len(c.PolicyLayers) != len(c.PolicyBiases) {
		return fmt.Errorf("invalid number of policy biases \n\twant(%v) "+
			"\n\thave(%v)", len(c.PolicyLayers), len(c.PolicyBiases))
	}
	if len(c.PolicyLayers) != len(c.PolicyActivations) {
		return fmt.Errorf("invalid number of policy activations "+
			"\n\twant(%v) \n\thave(%v)", len(c.PolicyLayers),
			len(c.PolicyActivations))
	}
	if len(c.ValueFnLayers) != len(c.ValueFnBiases) {
		return fmt.Errorf("invalid number of value function biases "+
			"\n\twant(%v) \n\thave(%v)", len(c.ValueFnLayers),
			len(c.ValueFnBiases))
	}
	if len(c.ValueFnLayers) != len(c.ValueFnActivations) {
		return fmt.Errorf("invalid number of value function activations "+
			"\n\twant(%v) \n\thave(%v)", len(c.ValueFnLayers),
			len(c.ValueFnActivations))
	}
	if c.InitWFn == nil {
		return fmt.Errorf("no weight initializer given")
	}
	return nil
}

// CreateActor creates the policy that the configuration describes.
func (c ActorCriticConfig) CreateActor(features, numActions, batch int,
	seed uint64) (*Actor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createActor: %v", err)
	}

	return NewActor(features, numActions, batch, G.NewGraph(),
		c.PolicyLayers, c.PolicyBiases, c.PolicyActivations,
		c.InitWFn.InitWFn(), seed)
}

// CreateCritic creates the state value function that the configuration
// describes.
func (c ActorCriticConfig) CreateCritic(features, batch int) (*Critic,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createCritic: %v", err)
	}

	return NewCritic(features, batch, G.NewGraph(), c.ValueFnLayers,
		c.ValueFnBiases, c.ValueFnActivations, c.InitWFn.InitWFn())
}

// CreateActorCritic creates the actor-critic model that the
// configuration describes.
func (c ActorCriticConfig) CreateActorCritic(features, numActions,
	batch int, seed uint64) (*ActorCritic, error) {
	actor, err := c.CreateActor(features, numActions, batch, seed)
	if err != nil {
		return nil, fmt.Errorf("createActorCritic: %v", err)
	}

	critic, err := c.CreateCritic(features, batch)
	if err != nil {
		return nil, fmt.Errorf("createActorCritic: %v", err)
	}

	return &ActorCritic{
		actor:  actor,
		critic: critic,
	}, nil
}
