// Package demonstrations implements a store of expert demonstrations.
// The store holds a static dataset of expert transitions and serves
// the batches that the discriminator models compare agent behaviour
// against. It is not an experience replay buffer: nothing is ever
// removed or overwritten, and the data never comes from the learning
// agent.
package demonstrations

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/imitation/utils/matutils"
)

// ErrFull is returned when adding a transition to a store that has
// reached its capacity.
var ErrFull = errors.New("demonstration store full")

// ErrEmpty is returned when sampling from a store that holds no
// transitions.
var ErrEmpty = errors.New("demonstration store empty")

// Transition is a single expert demonstration step.
type Transition struct {
	State     []float64
	Action    float64
	NextState []float64
	Terminal  bool
}

// Demonstrations stores expert transitions in flat caches, one row per
// transition.
type Demonstrations struct {
	stateCache     []float64
	actionCache    []float64
	nextStateCache []float64
	terminalCache  []float64

	features   int
	actionSize int
	capacity   int
	size       int

	rng *rand.Rand
}

// New returns a new empty demonstration store for transitions with
// features state features and actionSize discrete actions, holding at
// most capacity transitions. The seed determines the order in which
// SampleUniform draws transitions.
func New(features, actionSize, capacity int, seed uint64) (*Demonstrations,
	error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("new: capacity must be positive, got %v",
			capacity)
	}
	if features <= 0 {
		return nil, fmt.Errorf("new: features must be positive, got %v",
			features)
	}

	return &Demonstrations{
		stateCache:     make([]float64, 0, capacity*features),
		actionCache:    make([]float64, 0, capacity),
		nextStateCache: make([]float64, 0, capacity*features),
		terminalCache:  make([]float64, 0, capacity),

		features:   features,
		actionSize: actionSize,
		capacity:   capacity,

		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Len returns the number of transitions in the store.
func (d *Demonstrations) Len() int {
	return d.size
}

// Capacity returns the maximum number of transitions the store can
// hold.
func (d *Demonstrations) Capacity() int {
	return d.capacity
}

// Features returns the number of state features per transition.
func (d *Demonstrations) Features() int {
	return d.features
}

// Add adds an expert transition to the store.
func (d *Demonstrations) Add(t Transition) error {
	if d.size == d.capacity {
		return fmt.Errorf("add: %w", ErrFull)
	}
	if len(t.State) != d.features || len(t.NextState) != d.features {
		return fmt.Errorf("add: invalid number of state features"+
			"\n\twant(%v)\n\thave(%v, %v)", d.features, len(t.State),
			len(t.NextState))
	}
	if action := int(t.Action); action < 0 || action >= d.actionSize {
		return fmt.Errorf("add: action %v out of range [0, %v)", action,
			d.actionSize)
	}

	d.stateCache = append(d.stateCache, t.State...)
	d.nextStateCache = append(d.nextStateCache, t.NextState...)
	d.actionCache = append(d.actionCache, t.Action)

	var terminal float64
	if t.Terminal {
		terminal = 1.0
	}
	d.terminalCache = append(d.terminalCache, terminal)

	d.size++
	return nil
}

// SampleUniform draws n transitions uniformly at random with
// replacement and returns them as flattened, row-major batches.
func (d *Demonstrations) SampleUniform(n int) (states, actions, nextStates,
	terminals []float64, err error) {
	if d.size == 0 {
		return nil, nil, nil, nil, fmt.Errorf("sampleuniform: %w", ErrEmpty)
	}

	states = make([]float64, 0, n*d.features)
	actions = make([]float64, 0, n)
	nextStates = make([]float64, 0, n*d.features)
	terminals = make([]float64, 0, n)

	for i := 0; i < n; i++ {
		index := d.rng.Intn(d.size)

		start := index * d.features
		states = append(states, d.stateCache[start:start+d.features]...)
		nextStates = append(nextStates,
			d.nextStateCache[start:start+d.features]...)
		actions = append(actions, d.actionCache[index])
		terminals = append(terminals, d.terminalCache[index])
	}
	return states, actions, nextStates, terminals, nil
}

// Actions returns a copy of all stored actions.
func (d *Demonstrations) Actions() []float64 {
	actions := make([]float64, d.size)
	copy(actions, d.actionCache)
	return actions
}

// StateMatrix returns the stored states as a matrix with one
// transition per row.
func (d *Demonstrations) StateMatrix() *mat.Dense {
	states := make([]float64, d.size*d.features)
	copy(states, d.stateCache)
	return mat.NewDense(d.size, d.features, states)
}

// JointMatrix returns the stored states joined with the one-hot
// encodings of their actions, one transition per row.
func (d *Demonstrations) JointMatrix() (*mat.Dense, error) {
	oneHot, err := matutils.OneHotMatrix(d.Actions(), d.actionSize)
	if err != nil {
		return nil, fmt.Errorf("jointmatrix: %v", err)
	}

	var joined mat.Dense
	joined.Augment(d.StateMatrix(), oneHot)
	return &joined, nil
}
