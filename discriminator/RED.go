package discriminator

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/utils/matutils"
)

// RED implements random expert distillation. Two embedding networks of
// identical architecture are placed on one graph: a frozen, randomly
// initialized target and a trainable predictor. An external training
// loop fits the predictor to the target on expert demonstrations by
// minimising LossNode(); at evaluation time the imitation reward is a
// Gaussian kernel of the embedding error,
//
//	r(s, a) = exp(−‖pred(s, a) − target(s, a)‖² / σ²)
//
// so that the reward is close to 1 on the support of the expert data
// and decays away from it. The bandwidth σ should be set so that
// rewards on expert demonstrations are approximately 1; it defaults
// to 1.
type RED struct {
	g  *G.ExprGraph
	vm G.VM

	states  *G.Node
	actions *G.Node // nil when stateOnly

	stateOnly  bool
	stateSize  int
	actionSize int
	batchSize  int
	sigma      float64

	predictor network.NeuralNet
	// The target's weights never appear in Learnables(), so an
	// external solver can never update them.
	target network.NeuralNet

	predVal   G.Value
	targetVal G.Value

	loss    *G.Node
	lossVal G.Value

	reward    *G.Node
	rewardVal G.Value
}

// NewRED returns a new RED model. Both embedding networks have
// len(hiddenSizes) hidden layers over the joined state-action input
// (or the state alone when stateOnly), with a final linear layer
// mapping back to the input size. The graph g is populated with both
// networks.
func NewRED(stateSize, actionSize, batch int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, sigma float64, stateOnly bool) (*RED, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("newRED: bandwidth must be positive, got %v",
			sigma)
	}

	states := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, stateSize),
		G.WithName("states"),
		G.WithInit(G.Zeroes()),
	)

	inputs := []*G.Node{states}
	features := stateSize
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
		features += actionSize
	}

	predictor, err := network.NewMultiHeadMLPFromInputs(inputs, features, g,
		hiddenSizes, biases, init, activations, "Predictor", "", true)
	if err != nil {
		return nil, fmt.Errorf("newRED: could not create predictor "+
			"network: %v", err)
	}

	target, err := network.NewMultiHeadMLPFromInputs(inputs, features, g,
		hiddenSizes, biases, init, activations, "Target", "", true)
	if err != nil {
		return nil, fmt.Errorf("newRED: could not create target "+
			"network: %v", err)
	}

	// Squared embedding error per sample
	diff := G.Must(G.Sub(predictor.Prediction(), target.Prediction()))
	sqDist := G.Must(G.Sum(G.Must(G.Square(diff)), 1))

	loss := G.Must(G.Mean(sqDist))

	gamma := G.NewScalar(g, tensor.Float64, G.WithValue(1/(sigma*sigma)),
		G.WithName("bandwidth"))
	reward := G.Must(G.Exp(G.Must(G.Neg(G.Must(G.HadamardProd(gamma,
		sqDist))))))

	red := &RED{
		g: g,

		states:  states,
		actions: actions,

		stateOnly:  stateOnly,
		stateSize:  stateSize,
		actionSize: actionSize,
		batchSize:  batch,
		sigma:      sigma,

		predictor: predictor,
		target:    target,

		loss:   loss,
		reward: reward,
	}
	G.Read(predictor.Prediction(), &red.predVal)
	G.Read(target.Prediction(), &red.targetVal)
	G.Read(red.loss, &red.lossVal)
	G.Read(red.reward, &red.rewardVal)

	red.vm = G.NewTapeMachine(g)

	return red, nil
}

// Graph returns the computational graph that the model is built on.
func (r *RED) Graph() *G.ExprGraph {
	return r.g
}

// StateOnly returns whether the embeddings are computed from states
// alone, ignoring actions.
func (r *RED) StateOnly() bool {
	return r.stateOnly
}

// Sigma returns the bandwidth of the reward kernel.
func (r *RED) Sigma() float64 {
	return r.sigma
}

// Predictor returns the trainable embedding network.
func (r *RED) Predictor() network.NeuralNet {
	return r.predictor
}

// Target returns the frozen embedding network.
func (r *RED) Target() network.NeuralNet {
	return r.target
}

// LossNode returns the node of the computational graph that stores the
// mean squared embedding error. An external training loop minimises
// this node with respect to Model() on expert demonstrations.
func (r *RED) LossNode() *G.Node {
	return r.loss
}

// RewardNode returns the node of the computational graph that stores
// the kernel imitation reward.
func (r *RED) RewardNode() *G.Node {
	return r.reward
}

// Learnables returns the learnable nodes of the predictor network. The
// target network is frozen and contributes no learnables.
func (r *RED) Learnables() G.Nodes {
	return r.predictor.Learnables()
}

// Model returns the learnable nodes of the predictor network with
// their gradients.
func (r *RED) Model() []G.ValueGrad {
	return r.predictor.Model()
}

// SetInputs sets the model's input nodes to the given batch of states
// and actions before running the graph. The states argument is a
// flattened, row-major batch; actions holds one integer-valued action
// per state and is ignored when the model is stateOnly.
func (r *RED) SetInputs(states, actions []float64) error {
	if len(states) != r.batchSize*r.stateSize {
		return fmt.Errorf("setinputs: invalid number of state features"+
			"\n\twant(%v)\n\thave(%v)", r.batchSize*r.stateSize, len(states))
	}
	statesTensor := tensor.New(
		tensor.WithBacking(states),
		tensor.WithShape(r.batchSize, r.stateSize),
	)
	if err := G.Let(r.states, statesTensor); err != nil {
		return fmt.Errorf("setinputs: could not set states: %v", err)
	}

	if r.stateOnly {
		return nil
	}

	if len(actions) != r.batchSize {
		return fmt.Errorf("setinputs: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", r.batchSize, len(actions))
	}
	oneHot, err := matutils.OneHotMatrix(actions, r.actionSize)
	if err != nil {
		return fmt.Errorf("setinputs: %v", err)
	}
	actionsTensor := tensor.New(
		tensor.WithBacking(oneHot.RawMatrix().Data),
		tensor.WithShape(r.batchSize, r.actionSize),
	)
	if err := G.Let(r.actions, actionsTensor); err != nil {
		return fmt.Errorf("setinputs: could not set actions: %v", err)
	}
	return nil
}

// Embed computes the predictor and target embeddings for the given
// batch by running the model's internal VM.
func (r *RED) Embed(states, actions []float64) (prediction,
	target []float64, err error) {
	if err := r.run(states, actions); err != nil {
		return nil, nil, fmt.Errorf("embed: %v", err)
	}
	return copyValue(r.predVal), copyValue(r.targetVal), nil
}

// Loss computes the mean squared embedding error for the given batch
// by running the model's internal VM.
func (r *RED) Loss(states, actions []float64) (float64, error) {
	if err := r.run(states, actions); err != nil {
		return 0, fmt.Errorf("loss: %v", err)
	}
	return r.lossVal.Data().(float64), nil
}

// PredictReward computes the kernel imitation reward for the given
// batch by running the model's internal VM.
func (r *RED) PredictReward(states, actions []float64) ([]float64, error) {
	if err := r.run(states, actions); err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}
	return copyValue(r.rewardVal), nil
}

// run sets the model inputs and runs the internal VM.
func (r *RED) run(states, actions []float64) error {
	if err := r.SetInputs(states, actions); err != nil {
		return err
	}
	defer r.vm.Reset()
	return r.vm.RunAll()
}
