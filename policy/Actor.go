// Package policy implements the actor-critic model used by the
// imitation-learning algorithms in this module. The actor is a
// categorical policy over discrete actions, parameterized by a neural
// network that outputs the logit of each action. Action probabilities
// are computed through the softmax function.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/utils/floatutils"
	"github.com/samuelfneumann/imitation/utils/op"
)

// Actor implements a categorical policy π(·|s) over discrete actions.
// The policy's network predicts one logit per action for each state in
// the input batch.
//
// Actor populates a Gorgonia ExprGraph with the policy network and the
// log probability computation. An internal VM runs the forward pass
// for action selection and reward-free log probability queries; an
// external training loop can construct losses over LogProbNode() and
// run the graph with its own VM.
type Actor struct {
	network.NeuralNet
	vm G.VM

	logits    *G.Node
	logitsVal G.Value

	// Log probability of actions inputted with LogProbOf()
	actionIndices *G.Node
	logProbNode   *G.Node
	logProbVal    G.Value

	batchSize  int
	numActions int

	source rand.Source
	rng    *rand.Rand
}

// NewActor returns a new categorical policy whose network has
// len(hiddenSizes) hidden layers. For index i, hiddenSizes[i] is the
// number of units in hidden layer i, biases[i] is whether layer i has
// a bias unit, and activations[i] is the activation function of layer
// i. A final linear layer maps to numActions logits. The graph g is
// populated with the policy network.
func NewActor(features, numActions, batch int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, seed uint64) (*Actor, error) {
	if numActions < 2 {
		return nil, fmt.Errorf("newActor: a categorical policy requires at "+
			"least 2 actions, got %v", numActions)
	}

	net, err := network.NewMultiHeadMLP(features, batch, numActions, g,
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newActor: could not create policy "+
			"network: %v", err)
	}

	logits := net.Prediction()

	// Log probability of actions inputted with LogProbOf(). The one-hot
	// action indices select each row's logit, which is normalized by
	// the log-sum-exp of the row.
	actionIndices := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(logits.Shape()...),
		G.WithInit(G.Zeroes()),
		G.WithName("actionIndices"),
	)
	logitsInputActions := G.Must(G.HadamardProd(actionIndices, logits))
	logitsInputActions = G.Must(G.Sum(logitsInputActions, 1))
	logSumExp := op.LogSumExp(logits, 1)
	logProbNode := G.Must(G.Sub(logitsInputActions, logSumExp))

	source := rand.NewSource(seed)

	actor := &Actor{
		NeuralNet: net,

		logits:        logits,
		actionIndices: actionIndices,
		logProbNode:   logProbNode,

		batchSize:  batch,
		numActions: numActions,

		source: source,
		rng:    rand.New(source),
	}
	G.Read(actor.logits, &actor.logitsVal)
	G.Read(actor.logProbNode, &actor.logProbVal)

	actor.vm = G.NewTapeMachine(g)

	return actor, nil
}

// NumActions returns the number of discrete actions the policy
// predicts logits for.
func (a *Actor) NumActions() int {
	return a.numActions
}

// Logits returns the value of the logits node after the last run of
// the policy's graph.
func (a *Actor) Logits() G.Value {
	return a.logitsVal
}

// LogProbNode returns the node of the computational graph that stores
// log π(a|s) of the actions inputted with LogProbOf(). External
// training loops construct policy losses over this node.
func (a *Actor) LogProbNode() *G.Node {
	return a.logProbNode
}

// LogProbOf sets the policy's inputs so that the node returned by
// LogProbNode() computes log π(a|s) for the given batch of states and
// actions once the graph is run. The states argument is a flattened,
// row-major batch; actions holds one integer-valued action per state.
func (a *Actor) LogProbOf(states, actions []float64) (*G.Node, error) {
	if len(actions) != a.batchSize {
		return nil, fmt.Errorf("logProbOf: invalid number of actions "+
			"\n\twant(%v) \n\thave(%v)", a.batchSize, len(actions))
	}
	if err := a.SetInput(states); err != nil {
		return nil, fmt.Errorf("logProbOf: could not set input: %v", err)
	}

	if err := a.setActionIndices(actions); err != nil {
		return nil, fmt.Errorf("logProbOf: %v", err)
	}

	return a.logProbNode, nil
}

// LogProbs computes and returns log π(a|s) for the given batch of
// states and actions by running the policy's internal VM.
func (a *Actor) LogProbs(states, actions []float64) ([]float64, error) {
	if _, err := a.LogProbOf(states, actions); err != nil {
		return nil, fmt.Errorf("logProbs: %v", err)
	}

	if err := a.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("logProbs: could not run policy graph: %v", err)
	}
	defer a.vm.Reset()

	logProbs := a.logProbVal.Data().([]float64)
	out := make([]float64, len(logProbs))
	copy(out, logProbs)
	return out, nil
}

// SelectAction samples an action from π(·|s) for a single state. The
// policy must have been constructed with a batch size of 1.
func (a *Actor) SelectAction(state []float64) (float64, error) {
	if a.batchSize != 1 {
		return 0, fmt.Errorf("selectAction: policy has batch size %v, "+
			"action selection requires 1", a.batchSize)
	}
	probs, err := a.probabilities(state)
	if err != nil {
		return 0, fmt.Errorf("selectAction: %v", err)
	}

	dist := distuv.NewCategorical(probs, a.source)
	return dist.Rand(), nil
}

// GreedyAction returns the mode of π(·|s) for a single state, breaking
// ties uniformly at random. The policy must have been constructed with
// a batch size of 1.
func (a *Actor) GreedyAction(state []float64) (float64, error) {
	if a.batchSize != 1 {
		return 0, fmt.Errorf("greedyAction: policy has batch size %v, "+
			"action selection requires 1", a.batchSize)
	}
	probs, err := a.probabilities(state)
	if err != nil {
		return 0, fmt.Errorf("greedyAction: %v", err)
	}

	actions := floatutils.ArgMax(probs...)
	index := a.rng.Intn(len(actions))
	return float64(actions[index]), nil
}

// probabilities runs the policy network on a single state and returns
// the action probabilities computed from the predicted logits.
func (a *Actor) probabilities(state []float64) ([]float64, error) {
	if err := a.SetInput(state); err != nil {
		return nil, fmt.Errorf("could not set input: %v", err)
	}

	if err := a.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("could not run policy graph: %v", err)
	}
	defer a.vm.Reset()

	logits := a.logitsVal.Data().([]float64)
	return floatutils.Softmax(logits), nil
}

// setActionIndices one-hot encodes the actions into the backing of the
// policy's action indices node.
func (a *Actor) setActionIndices(actions []float64) error {
	actionIndices := make([]float64, 0, a.numActions*a.batchSize)
	for i := range actions {
		action := int(actions[i])
		if action < 0 || action >= a.numActions {
			return fmt.Errorf("action %v out of range [0, %v)", action,
				a.numActions)
		}
		row := make([]float64, a.numActions)
		row[action] = 1.0
		actionIndices = append(actionIndices, row...)
	}
	actionIndicesTensor := tensor.NewDense(
		tensor.Float64,
		[]int{a.batchSize, a.numActions},
		tensor.WithBacking(actionIndices),
	)
	return G.Let(a.actionIndices, actionIndicesTensor)
}

// Network returns the policy's underlying neural network.
func (a *Actor) Network() network.NeuralNet {
	return a.NeuralNet
}
