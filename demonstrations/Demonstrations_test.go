package demonstrations

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/imitation/utils/matutils"
)

func newStore(t *testing.T, capacity int) *Demonstrations {
	t.Helper()

	d, err := New(2, 3, capacity, 18)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestAdd(t *testing.T) {
	d := newStore(t, 2)

	if d.Len() != 0 {
		t.Fatalf("expected an empty store, got %v transitions", d.Len())
	}
	if d.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %v", d.Capacity())
	}

	err := d.Add(Transition{
		State:     []float64{1, 2},
		Action:    0,
		NextState: []float64{3, 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 transition, got %v", d.Len())
	}
}

func TestAddFull(t *testing.T) {
	d := newStore(t, 1)

	transition := Transition{
		State:     []float64{1, 2},
		Action:    1,
		NextState: []float64{3, 4},
	}
	if err := d.Add(transition); err != nil {
		t.Fatal(err)
	}

	if err := d.Add(transition); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
}

func TestAddInvalidTransition(t *testing.T) {
	d := newStore(t, 4)

	// Wrong number of state features
	err := d.Add(Transition{
		State:     []float64{1},
		Action:    0,
		NextState: []float64{3, 4},
	})
	if err == nil {
		t.Error("expected an error for the wrong number of features")
	}

	// Out-of-range action
	err = d.Add(Transition{
		State:     []float64{1, 2},
		Action:    3,
		NextState: []float64{3, 4},
	})
	if err == nil {
		t.Error("expected an error for an out-of-range action")
	}
}

func TestSampleUniform(t *testing.T) {
	d := newStore(t, 4)

	transitions := []Transition{
		{State: []float64{1, 1}, Action: 0, NextState: []float64{2, 2}},
		{State: []float64{2, 2}, Action: 1, NextState: []float64{3, 3},
			Terminal: true},
	}
	for _, transition := range transitions {
		if err := d.Add(transition); err != nil {
			t.Fatal(err)
		}
	}

	n := 5
	states, actions, nextStates, terminals, err := d.SampleUniform(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != n*2 || len(nextStates) != n*2 {
		t.Fatalf("expected %v state features, got %v and %v", n*2,
			len(states), len(nextStates))
	}
	if len(actions) != n || len(terminals) != n {
		t.Fatalf("expected %v actions and terminals, got %v and %v", n,
			len(actions), len(terminals))
	}

	// Every sampled row must be one of the stored transitions
	for i := 0; i < n; i++ {
		action := actions[i]
		if action != 0 && action != 1 {
			t.Errorf("sample %v: unexpected action %v", i, action)
		}

		stored := transitions[int(action)]
		for j := 0; j < 2; j++ {
			if states[i*2+j] != stored.State[j] {
				t.Errorf("sample %v: unexpected state feature %v", i,
					states[i*2+j])
			}
			if nextStates[i*2+j] != stored.NextState[j] {
				t.Errorf("sample %v: unexpected next-state feature %v", i,
					nextStates[i*2+j])
			}
		}

		expectedTerminal := 0.0
		if stored.Terminal {
			expectedTerminal = 1.0
		}
		if terminals[i] != expectedTerminal {
			t.Errorf("sample %v: unexpected terminal %v", i, terminals[i])
		}
	}
}

func TestSampleUniformEmpty(t *testing.T) {
	d := newStore(t, 4)

	if _, _, _, _, err := d.SampleUniform(1); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestMatrices(t *testing.T) {
	d := newStore(t, 4)

	transitions := []Transition{
		{State: []float64{1, 2}, Action: 2, NextState: []float64{3, 4}},
		{State: []float64{5, 6}, Action: 0, NextState: []float64{7, 8}},
	}
	for _, transition := range transitions {
		if err := d.Add(transition); err != nil {
			t.Fatal(err)
		}
	}

	states := d.StateMatrix()
	expectedStates := mat.NewDense(2, 2, []float64{1, 2, 5, 6})
	if !mat.Equal(states, expectedStates) {
		t.Errorf("expected states \n%v \ngot \n%v",
			matutils.Format(expectedStates), matutils.Format(states))
	}

	joined, err := d.JointMatrix()
	if err != nil {
		t.Fatal(err)
	}
	expectedJoined := mat.NewDense(2, 5, []float64{
		1, 2, 0, 0, 1,
		5, 6, 1, 0, 0,
	})
	if !mat.Equal(joined, expectedJoined) {
		t.Errorf("expected joined matrix \n%v \ngot \n%v",
			matutils.Format(expectedJoined), matutils.Format(joined))
	}
}
