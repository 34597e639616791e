package discriminator

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/imitation/network"
	"github.com/samuelfneumann/imitation/utils/matutils"
)

// AIRL implements the discriminator of adversarial inverse
// reinforcement learning. The model decomposes its logit into a reward
// approximator g and a potential-based shaping term over a state-value
// approximator h:
//
//	f(s, a, s′) = g(s, a) + (1 − terminal)·(γ·h(s′) − h(s))
//
// and classifies against the current policy's action probability:
//
//	D = exp(f) / (exp(f) + π(a|s))
//
// The imitation reward is the log-odds log D − log(1 − D). The reward
// approximator is a single linear layer over the joined state-action
// input (or the state alone when stateOnly); the shaping approximator
// is an MLP over states whose weights are shared between the state and
// next-state inputs.
type AIRL struct {
	g  *G.ExprGraph
	vm G.VM

	stateOnly  bool
	stateSize  int
	actionSize int
	batchSize  int
	discount   float64

	states     *G.Node
	actions    *G.Node // nil when stateOnly
	nextStates *G.Node
	policy     *G.Node
	terminals  *G.Node

	rewardLayer   network.Layer
	shapingLayers []network.Layer

	rewardFn    *G.Node // g(s, a)
	rewardFnVal G.Value
	shaping     *G.Node // h(s)
	shapingVal  G.Value

	d    *G.Node
	dVal G.Value

	reward    *G.Node
	rewardVal G.Value

	learnables G.Nodes
	model      []G.ValueGrad
}

// NewAIRL returns a new AIRL discriminator. The shaping network has
// len(hiddenSizes) hidden layers with a final linear layer mapping to
// a single value; the reward network is a single linear layer. The
// discount is the γ of the shaping term. The graph g is populated with
// both networks.
func NewAIRL(stateSize, actionSize, batch int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, discount float64, stateOnly bool) (*AIRL, error) {
	if len(hiddenSizes) != len(activations) {
		return nil, fmt.Errorf("newAIRL: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return nil, fmt.Errorf("newAIRL: invalid number of biases"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(biases))
	}

	states := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, stateSize),
		G.WithName("states"), G.WithInit(G.Zeroes()))
	nextStates := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, stateSize), G.WithName("nextStates"),
		G.WithInit(G.Zeroes()))
	policy := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, 1),
		G.WithName("policy"), G.WithInit(G.Zeroes()))
	terminals := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, 1),
		G.WithName("terminals"), G.WithInit(G.Zeroes()))

	// Reward approximator g over the joined state-action input
	rewardInput := states
	rewardFeatures := stateSize
	var actions *G.Node
	if !stateOnly {
		actions = G.NewMatrix(g, tensor.Float64,
			G.WithShape(batch, actionSize), G.WithName("actions"),
			G.WithInit(G.Zeroes()))
		rewardInput = G.Must(G.Concat(1, states, actions))
		rewardFeatures += actionSize
	}
	rewardLayer := network.NewFCLayer(g, rewardFeatures, 1,
		network.Identity(), true, init, "Reward")
	rewardFn, err := network.Fwd(rewardLayer, rewardInput)
	if err != nil {
		return nil, fmt.Errorf("newAIRL: could not compute reward "+
			"approximator forward pass: %v", err)
	}

	// Shaping approximator h, applied with shared weights to the state
	// and next-state inputs
	shapingLayers := make([]network.Layer, len(hiddenSizes)+1)
	in := stateSize
	for i, out := range hiddenSizes {
		shapingLayers[i] = network.NewFCLayer(g, in, out, activations[i],
			biases[i], init, fmt.Sprintf("ShapingL%d", i))
		in = out
	}
	shapingLayers[len(hiddenSizes)] = network.NewFCLayer(g, in, 1,
		network.Identity(), true, init, "ShapingOut")

	shaping, err := fwdLayers(shapingLayers, states)
	if err != nil {
		return nil, fmt.Errorf("newAIRL: could not compute shaping "+
			"forward pass: %v", err)
	}
	nextShaping, err := fwdLayers(shapingLayers, nextStates)
	if err != nil {
		return nil, fmt.Errorf("newAIRL: could not compute next-state "+
			"shaping forward pass: %v", err)
	}

	// f = g(s, a) + (1 - terminal) * (γ * h(s′) - h(s))
	one := G.NewScalar(g, tensor.Float64, G.WithValue(1.0),
		G.WithName("one"))
	gamma := G.NewScalar(g, tensor.Float64, G.WithValue(discount),
		G.WithName("discount"))
	telescope := G.Must(G.Sub(G.Must(G.HadamardProd(gamma, nextShaping)),
		shaping))
	continuing := G.Must(G.Sub(one, terminals))
	f := G.Must(G.Add(rewardFn, G.Must(G.HadamardProd(continuing,
		telescope))))

	// D = exp(f) / (exp(f) + π(a|s))
	fExp := G.Must(G.Exp(f))
	d := G.Must(G.HadamardDiv(fExp, G.Must(G.Add(fExp, policy))))

	logD := G.Must(G.Log(d))
	log1mD := G.Must(G.Log1p(G.Must(G.Neg(d))))
	reward := G.Must(G.Sub(logD, log1mD))

	airl := &AIRL{
		g: g,

		stateOnly:  stateOnly,
		stateSize:  stateSize,
		actionSize: actionSize,
		batchSize:  batch,
		discount:   discount,

		states:     states,
		actions:    actions,
		nextStates: nextStates,
		policy:     policy,
		terminals:  terminals,

		rewardLayer:   rewardLayer,
		shapingLayers: shapingLayers,

		rewardFn: rewardFn,
		shaping:  shaping,

		d:      d,
		reward: reward,
	}
	G.Read(airl.rewardFn, &airl.rewardFnVal)
	G.Read(airl.shaping, &airl.shapingVal)
	G.Read(airl.d, &airl.dVal)
	G.Read(airl.reward, &airl.rewardVal)

	airl.vm = G.NewTapeMachine(g)

	return airl, nil
}

// fwdLayers applies a stack of layers to an input node.
func fwdLayers(layers []network.Layer, x *G.Node) (*G.Node, error) {
	var err error
	for i, l := range layers {
		if x, err = network.Fwd(l, x); err != nil {
			return nil, fmt.Errorf("fwdlayers: could not compute forward "+
				"pass of layer %v: %v", i, err)
		}
	}
	return x, nil
}

// Graph returns the computational graph that the discriminator is
// built on.
func (a *AIRL) Graph() *G.ExprGraph {
	return a.g
}

// StateOnly returns whether the reward approximator sees states alone,
// ignoring actions.
func (a *AIRL) StateOnly() bool {
	return a.stateOnly
}

// Discount returns the γ of the shaping term.
func (a *AIRL) Discount() float64 {
	return a.discount
}

// RewardFnNode returns the node of the computational graph that stores
// the learned reward approximator g(s, a). The node has shape
// (batch, 1).
func (a *AIRL) RewardFnNode() *G.Node {
	return a.rewardFn
}

// ShapingNode returns the node of the computational graph that stores
// the shaping approximator h(s). The node has shape (batch, 1).
func (a *AIRL) ShapingNode() *G.Node {
	return a.shaping
}

// DiscriminatorNode returns the node of the computational graph that
// stores D ∈ (0, 1). The node has shape (batch, 1).
func (a *AIRL) DiscriminatorNode() *G.Node {
	return a.d
}

// RewardNode returns the node of the computational graph that stores
// the log-odds imitation reward.
func (a *AIRL) RewardNode() *G.Node {
	return a.reward
}

// Learnables returns the learnable nodes of the reward and shaping
// approximators.
func (a *AIRL) Learnables() G.Nodes {
	if a.learnables == nil {
		layers := append([]network.Layer{a.rewardLayer}, a.shapingLayers...)
		for _, l := range layers {
			a.learnables = append(a.learnables, l.Weights())
			if bias := l.Bias(); bias != nil {
				a.learnables = append(a.learnables, bias)
			}
		}
	}
	return a.learnables
}

// Model returns the learnable nodes with their gradients.
func (a *AIRL) Model() []G.ValueGrad {
	if a.model == nil {
		for _, node := range a.Learnables() {
			a.model = append(a.model, node)
		}
	}
	return a.model
}

// SetInputs sets the discriminator's input nodes before running the
// graph. The states and nextStates arguments are flattened, row-major
// batches; actions holds one integer-valued action per state and is
// ignored when the discriminator is stateOnly; policy holds π(a|s) for
// each state-action pair; terminals holds 1 where the transition ended
// an episode and 0 elsewhere.
func (a *AIRL) SetInputs(states, actions, nextStates, policy,
	terminals []float64) error {
	if len(states) != a.batchSize*a.stateSize {
		return fmt.Errorf("setinputs: invalid number of state features"+
			"\n\twant(%v)\n\thave(%v)", a.batchSize*a.stateSize, len(states))
	}
	if len(nextStates) != a.batchSize*a.stateSize {
		return fmt.Errorf("setinputs: invalid number of next-state features"+
			"\n\twant(%v)\n\thave(%v)", a.batchSize*a.stateSize,
			len(nextStates))
	}
	if len(policy) != a.batchSize {
		return fmt.Errorf("setinputs: invalid number of policy "+
			"probabilities\n\twant(%v)\n\thave(%v)", a.batchSize, len(policy))
	}
	if len(terminals) != a.batchSize {
		return fmt.Errorf("setinputs: invalid number of terminal "+
			"indicators\n\twant(%v)\n\thave(%v)", a.batchSize, len(terminals))
	}

	err := G.Let(a.states, tensor.New(
		tensor.WithBacking(states),
		tensor.WithShape(a.batchSize, a.stateSize),
	))
	if err != nil {
		return fmt.Errorf("setinputs: could not set states: %v", err)
	}

	err = G.Let(a.nextStates, tensor.New(
		tensor.WithBacking(nextStates),
		tensor.WithShape(a.batchSize, a.stateSize),
	))
	if err != nil {
		return fmt.Errorf("setinputs: could not set next states: %v", err)
	}

	err = G.Let(a.policy, tensor.New(
		tensor.WithBacking(policy),
		tensor.WithShape(a.batchSize, 1),
	))
	if err != nil {
		return fmt.Errorf("setinputs: could not set policy: %v", err)
	}

	err = G.Let(a.terminals, tensor.New(
		tensor.WithBacking(terminals),
		tensor.WithShape(a.batchSize, 1),
	))
	if err != nil {
		return fmt.Errorf("setinputs: could not set terminals: %v", err)
	}

	if a.stateOnly {
		return nil
	}

	if len(actions) != a.batchSize {
		return fmt.Errorf("setinputs: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", a.batchSize, len(actions))
	}
	oneHot, err := matutils.OneHotMatrix(actions, a.actionSize)
	if err != nil {
		return fmt.Errorf("setinputs: %v", err)
	}
	err = G.Let(a.actions, tensor.New(
		tensor.WithBacking(oneHot.RawMatrix().Data),
		tensor.WithShape(a.batchSize, a.actionSize),
	))
	if err != nil {
		return fmt.Errorf("setinputs: could not set actions: %v", err)
	}
	return nil
}

// Discriminate computes D for the given batch by running the model's
// internal VM.
func (a *AIRL) Discriminate(states, actions, nextStates, policy,
	terminals []float64) ([]float64, error) {
	if err := a.run(states, actions, nextStates, policy, terminals); err != nil {
		return nil, fmt.Errorf("discriminate: %v", err)
	}
	return copyValue(a.dVal), nil
}

// PredictReward computes the log-odds imitation reward for the given
// batch by running the model's internal VM.
func (a *AIRL) PredictReward(states, actions, nextStates, policy,
	terminals []float64) ([]float64, error) {
	if err := a.run(states, actions, nextStates, policy, terminals); err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}
	return copyValue(a.rewardVal), nil
}

// run sets the model inputs and runs the internal VM.
func (a *AIRL) run(states, actions, nextStates, policy,
	terminals []float64) error {
	err := a.SetInputs(states, actions, nextStates, policy, terminals)
	if err != nil {
		return err
	}
	defer a.vm.Reset()
	return a.vm.RunAll()
}
