package discriminator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/imitation/utils/kernel"
	"github.com/samuelfneumann/imitation/utils/matutils"
)

// GMMIL implements the reward of generative moment matching imitation
// learning. The model has no learned parameters: the imitation reward
// of an agent sample is the sum of two Gaussian-kernel witness
// functions of the maximum mean discrepancy between the agent and
// expert distributions,
//
//	r(xᵢ) = meanⱼ exp(−γ₁‖xᵢ − xᴱⱼ‖²) + meanⱼ exp(−γ₂‖xᵢ − xᴱⱼ‖²)
//
// where x is a state (or joined state-action) vector and xᴱ ranges
// over the expert demonstrations.
//
// The bandwidths are data dependent and set by the median heuristic on
// the first call to PredictReward: γ₁ is the inverse median squared
// distance between agent and expert samples, and γ₂ the inverse median
// squared distance among expert samples. Later calls reuse the cached
// bandwidths so that the reward stays a fixed function during
// training.
type GMMIL struct {
	actionSize int
	stateOnly  bool

	gamma1, gamma2 float64
	bandwidthsSet  bool
}

// NewGMMIL returns a new GMMIL reward model over actionSize discrete
// actions.
func NewGMMIL(actionSize int, stateOnly bool) *GMMIL {
	return &GMMIL{
		actionSize: actionSize,
		stateOnly:  stateOnly,
	}
}

// StateOnly returns whether the model compares states alone, ignoring
// actions.
func (gm *GMMIL) StateOnly() bool {
	return gm.stateOnly
}

// Bandwidths returns the kernel bandwidths γ₁ and γ₂, and whether they
// have been set by the median heuristic yet.
func (gm *GMMIL) Bandwidths() (gamma1, gamma2 float64, set bool) {
	return gm.gamma1, gm.gamma2, gm.bandwidthsSet
}

// PredictReward computes the imitation reward of each agent sample
// against the expert demonstrations. The states arguments hold one
// sample per row; the actions arguments hold one integer-valued action
// per row and are ignored when the model is stateOnly.
func (gm *GMMIL) PredictReward(states *mat.Dense, actions []float64,
	expertStates *mat.Dense, expertActions []float64) ([]float64, error) {
	x, err := gm.join(states, actions)
	if err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}
	expertX, err := gm.join(expertStates, expertActions)
	if err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}

	// Use the median heuristic to set data-dependent bandwidths
	if !gm.bandwidthsSet {
		agentExpert, err := kernel.SquaredDistances(x, expertX, 1)
		if err != nil {
			return nil, fmt.Errorf("predictreward: %v", err)
		}
		expertExpert, err := kernel.SquaredDistances(expertX, expertX, 1)
		if err != nil {
			return nil, fmt.Errorf("predictreward: %v", err)
		}

		gm.gamma1 = 1 / kernel.Median(agentExpert)
		gm.gamma2 = 1 / kernel.Median(expertExpert)
		gm.bandwidthsSet = true
	}

	distances, err := kernel.SquaredDistances(x, expertX, 1)
	if err != nil {
		return nil, fmt.Errorf("predictreward: %v", err)
	}

	// Sum of the two kernel witness functions
	witness1 := matutils.RowMean(kernel.Gaussian(distances, gm.gamma1))
	witness2 := matutils.RowMean(kernel.Gaussian(distances, gm.gamma2))

	rewards := make([]float64, witness1.Len())
	for i := range rewards {
		rewards[i] = witness1.AtVec(i) + witness2.AtVec(i)
	}
	return rewards, nil
}

// join concatenates each state row with the one-hot encoding of its
// action. When the model is stateOnly the states are returned
// unchanged.
func (gm *GMMIL) join(states *mat.Dense, actions []float64) (*mat.Dense,
	error) {
	if gm.stateOnly {
		return states, nil
	}

	rows, _ := states.Dims()
	if len(actions) != rows {
		return nil, fmt.Errorf("join: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", rows, len(actions))
	}

	oneHot, err := matutils.OneHotMatrix(actions, gm.actionSize)
	if err != nil {
		return nil, fmt.Errorf("join: %v", err)
	}

	var joined mat.Dense
	joined.Augment(states, oneHot)
	return &joined, nil
}
