// Package discriminator implements the reward models used for
// imitation learning. Each model estimates a reward signal for agent
// state-action pairs by comparing agent behaviour to expert
// demonstrations: GAIL and AIRL learn an adversarial classifier, RED
// learns to predict a random embedding, and GMMIL computes a
// kernel-based maximum mean discrepancy reward with no learned
// parameters.
//
// All models operate on discrete actions. An action batch is given as
// a slice of integer-valued float64's, which is one-hot encoded and
// joined to the state batch along the feature dimension. Models
// constructed with stateOnly compare states alone and ignore the
// action batch.
package discriminator

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/utils/matutils"
	"github.com/samuelfneumann/imitation/utils/op"
)

// dClip bounds discriminator outputs away from 0 and 1 so that the
// log-odds reward log(D) − log1p(−D) stays finite when the sigmoid
// saturates in float64.
const dClip float64 = 1e-7

// GAIL implements the discriminator of generative adversarial
// imitation learning. An MLP with a sigmoid head classifies
// state-action pairs as expert (D → 1) or agent (D → 0), and the
// imitation reward is the log-odds of the classification:
//
//	r(s, a) = log D(s, a) − log(1 − D(s, a))
//
// An external training loop constructs a binary classification loss
// over DiscriminatorNode() and runs the graph with its own VM;
// PredictReward() runs the model's internal VM.
type GAIL struct {
	network.NeuralNet
	vm G.VM

	states  *G.Node
	actions *G.Node // nil when stateOnly

	stateOnly  bool
	stateSize  int
	actionSize int
	batchSize  int

	d    *G.Node
	dVal G.Value

	reward    *G.Node
	rewardVal G.Value
}

// NewGAIL returns a new GAIL discriminator. The classifier network has
// len(hiddenSizes) hidden layers over the joined state-action input
// (or the state alone when stateOnly), with a final linear layer
// mapping to a single logit that is squashed through a sigmoid. The
// graph g is populated with the network.
func NewGAIL(stateSize, actionSize, batch int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, stateOnly bool) (*GAIL, error) {
	states := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, stateSize),
		G.WithName("states"),
		G.WithInit(G.Zeroes()),
	)

	inputs := []*G.Node{states}
	var actions *G.Node
	if !stateOnly {
		actions = G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(batch, actionSize),
			G.WithName("actions"),
			G.WithInit(G.Zeroes()),
		)
		inputs = append(inputs, actions)
	}

	net, err := network.NewMultiHeadMLPFromInputs(inputs, 1, g, hiddenSizes,
		biases, init, activations, "Discriminator", "", true)
	if err != nil {
		return nil, fmt.Errorf("newGAIL: could not create discriminator "+
			"network: %v", err)
	}

	dRaw := G.Must(G.Sigmoid(net.Prediction()))
	d, err := op.Clip(dRaw, dClip, 1-dClip)
	if err != nil {
		return nil, fmt.Errorf("newGAIL: could not clip discriminator "+
			"output: %v", err)
	}

	logD := G.Must(G.Log(d))
	log1mD := G.Must(G.Log1p(G.Must(G.Neg(d))))
	reward := G.Must(G.Sub(logD, log1mD))

	gail := &GAIL{
		NeuralNet: net,

		states:  states,
		actions: actions,

		stateOnly:  stateOnly,
		stateSize:  stateSize,
		actionSize: actionSize,
		batchSize:  batch,

		d:      d,
		reward: reward,
	}
	G.Read(gail.d, &gail.dVal)
	G.Read(gail.reward, &gail.rewardVal)

	gail.vm = G.NewTapeMachine(g)

	return gail, nil
}

// StateOnly returns whether the discriminator compares states alone,
// ignoring actions.
func (d *GAIL) StateOnly() bool {
	return d.stateOnly
}

// DiscriminatorNode returns the node of the computational graph that
// stores D(s, a) ∈ (0, 1). The node has shape (batch, 1).
func (d *GAIL) DiscriminatorNode() *G.Node {
	return d.d
}

// RewardNode returns the node of the computational graph that stores
// the log-odds imitation reward.
func (d *GAIL) RewardNode() *G.Node {
	return d.reward
}

// SetInputs sets the discriminator's input nodes to the given batch of
// states and actions before running the graph. The states argument is
// a flattened, row-major batch; actions holds one integer-valued
// action per state and is ignored when the discriminator is stateOnly.
func (d *GAIL) SetInputs(states, actions []float64) error {
	if len(states) != d.batchSize*d.stateSize {
		return fmt.Errorf("setinputs: invalid number of state features"+
			"\n\twant(%v)\n\thave(%v)", d.batchSize*d.stateSize, len(states))
	}
	statesTensor := tensor.New(
		tensor.WithBacking(states),
		tensor.WithShape(d.batchSize, d.stateSize),
	)
	if err := G.Let(d.states, statesTensor); err != nil {
		return fmt.Errorf("setinputs: could not set states: %v", err)
	}

	if d.stateOnly {
		return nil
	}

	if len(actions) != d.batchSize {
		return fmt.Errorf("setinputs: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", d.batchSize, len(actions))
	}
	oneHot, err := matutils.OneHotMatrix(actions, d.actionSize)
	if err != nil {
		return fmt.Errorf("setinputs: %v", err)
	}
	actionsTensor := tensor.New(
		tensor.WithBacking(oneHot.RawMatrix().Data),
		tensor.WithShape(d.batchSize, d.actionSize),
	)
	if err := G.Let(d.actions, actionsTensor); err != nil {
		return fmt.Errorf("setinputs: could not set actions: %v", err)
	}
	return nil
}

// Discriminate computes D(s, a) for the given batch by running the
// model's internal VM.
func (d *GAIL) Discriminate(states, actions []float64) ([]float64, error) {
	if err := d.run(states, actions); err != nil {
		return nil, fmt.Errorf("discriminate: %v", err)
	}
	return copyValue(d.dVal), nil
}

// PredictReward computes the log-odds imitation reward for the given
// batch by running the model's internal VM.
func (d *GAIL) PredictReward(states, actions []float64) ([]float64, error) {
	if err := d.run(states, actions); err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}
	return copyValue(d.rewardVal), nil
}

// run sets the model inputs and runs the internal VM.
func (d *GAIL) run(states, actions []float64) error {
	if err := d.SetInputs(states, actions); err != nil {
		return err
	}
	defer d.vm.Reset()
	return d.vm.RunAll()
}

// Network returns the discriminator's underlying neural network.
func (d *GAIL) Network() network.NeuralNet {
	return d.NeuralNet
}

// copyValue copies the float64 backing of a graph value after a run.
func copyValue(val G.Value) []float64 {
	data := val.Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}
