package policy

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/imitation/network"
)

// ActorCritic pairs a categorical policy with a state value function.
// The two networks are placed on separate computational graphs so that
// an external training loop can run and update them independently.
type ActorCritic struct {
	actor  *Actor
	critic *Critic
}

// NewActorCritic returns a new actor-critic model. The actor's network
// has hiddenSizes hidden layers mapping to numActions logits, and the
// critic's network has the same hidden architecture mapping to a
// single value prediction.
func NewActorCritic(features, numActions, batch int, hiddenSizes []int,
	biases []bool, activations []*network.Activation, init G.InitWFn,
	seed uint64) (*ActorCritic, error) {
	actor, err := NewActor(features, numActions, batch, G.NewGraph(),
		hiddenSizes, biases, activations, init, seed)
	if err != nil {
		return nil, fmt.Errorf("newActorCritic: %v", err)
	}

	critic, err := NewCritic(features, batch, G.NewGraph(), hiddenSizes,
		biases, activations, init)
	if err != nil {
		return nil, fmt.Errorf("newActorCritic: %v", err)
	}

	return &ActorCritic{
		actor:  actor,
		critic: critic,
	}, nil
}

// Actor returns the model's policy.
func (a *ActorCritic) Actor() *Actor {
	return a.actor
}

// Critic returns the model's state value function.
func (a *ActorCritic) Critic() *Critic {
	return a.critic
}

// SelectAction samples an action from the policy for a single state.
func (a *ActorCritic) SelectAction(state []float64) (float64, error) {
	return a.actor.SelectAction(state)
}

// LogProbs computes log π(a|s) for the given batch of states and
// actions.
func (a *ActorCritic) LogProbs(states, actions []float64) ([]float64, error) {
	return a.actor.LogProbs(states, actions)
}

// Predict computes V(s) for the given batch of states.
func (a *ActorCritic) Predict(states []float64) ([]float64, error) {
	return a.critic.Predict(states)
}
