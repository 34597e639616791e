package policy

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/imitation/network"
)

// Critic implements a state value function V(s), parameterized by a
// single-head neural network. For an input batch of states, the critic
// predicts one scalar expected return per state.
//
// An external training loop can construct a value loss over
// ValueNode() and run the graph with its own VM; Predict() runs the
// critic's internal VM.
type Critic struct {
	network.NeuralNet
	vm G.VM

	valueVal G.Value
}

// NewCritic returns a new state value function whose network has
// len(hiddenSizes) hidden layers, with a final linear layer mapping to
// a single predicted value. The graph g is populated with the value
// network.
func NewCritic(features, batch int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, activations []*network.Activation,
	init G.InitWFn) (*Critic, error) {
	net, err := network.NewSingleHeadMLP(features, batch, g, hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newCritic: could not create value "+
			"network: %v", err)
	}

	critic := &Critic{
		NeuralNet: net,
	}
	G.Read(net.Prediction(), &critic.valueVal)

	critic.vm = G.NewTapeMachine(g)

	return critic, nil
}

// ValueNode returns the node of the computational graph that stores
// the critic's value predictions. The node has shape (batch, 1).
func (c *Critic) ValueNode() *G.Node {
	return c.Prediction()
}

// Predict computes and returns V(s) for the given batch of states by
// running the critic's internal VM. The states argument is a
// flattened, row-major batch; the returned slice holds one value per
// state.
func (c *Critic) Predict(states []float64) ([]float64, error) {
	if err := c.SetInput(states); err != nil {
		return nil, fmt.Errorf("predict: could not set input: %v", err)
	}

	if err := c.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: could not run critic graph: %v", err)
	}
	defer c.vm.Reset()

	values := c.valueVal.Data().([]float64)
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// Network returns the critic's underlying neural network.
func (c *Critic) Network() network.NeuralNet {
	return c.NeuralNet
}
