package discriminator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGMMILStateOnlyReward(t *testing.T) {
	gm := NewGMMIL(0, true)
	if !gm.StateOnly() {
		t.Fatal("expected a state-only model")
	}

	states := mat.NewDense(2, 1, []float64{0, 2})
	expertStates := mat.NewDense(3, 1, []float64{1, 3, 5})

	rewards, err := gm.PredictReward(states, nil, expertStates, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 2 {
		t.Fatalf("expected 2 rewards, got %v", len(rewards))
	}

	// Median agent-expert squared distance of {1, 9, 25, 1, 1, 9} is 1
	// and median expert-expert squared distance is 4
	gamma1, gamma2, set := gm.Bandwidths()
	if !set {
		t.Fatal("expected bandwidths to be set after the first call")
	}
	if math.Abs(gamma1-1) > tolerance {
		t.Errorf("expected gamma1 = 1, got %v", gamma1)
	}
	if math.Abs(gamma2-0.25) > tolerance {
		t.Errorf("expected gamma2 = 0.25, got %v", gamma2)
	}

	distances := [][]float64{
		{1, 9, 25},
		{1, 1, 9},
	}
	for i, row := range distances {
		var expected float64
		for _, d := range row {
			expected += math.Exp(-gamma1*d) / float64(len(row))
			expected += math.Exp(-gamma2*d) / float64(len(row))
		}
		if math.Abs(rewards[i]-expected) > tolerance {
			t.Errorf("sample %v: expected reward %v, got %v", i, expected,
				rewards[i])
		}
	}
}

// The bandwidths are set by the first call and reused afterwards
func TestGMMILBandwidthCaching(t *testing.T) {
	gm := NewGMMIL(0, true)

	states := mat.NewDense(2, 1, []float64{0, 2})
	expertStates := mat.NewDense(3, 1, []float64{1, 3, 5})
	if _, err := gm.PredictReward(states, nil, expertStates, nil); err != nil {
		t.Fatal(err)
	}
	gamma1, gamma2, _ := gm.Bandwidths()

	// A second call with different agent data must not change the
	// bandwidths
	other := mat.NewDense(2, 1, []float64{100, -100})
	if _, err := gm.PredictReward(other, nil, expertStates, nil); err != nil {
		t.Fatal(err)
	}
	newGamma1, newGamma2, _ := gm.Bandwidths()

	if gamma1 != newGamma1 || gamma2 != newGamma2 {
		t.Errorf("bandwidths changed: (%v, %v) to (%v, %v)", gamma1, gamma2,
			newGamma1, newGamma2)
	}
}

func TestGMMILStateActionReward(t *testing.T) {
	gm := NewGMMIL(2, false)

	states := mat.NewDense(1, 1, []float64{0})
	actions := []float64{1}
	expertStates := mat.NewDense(3, 1, []float64{1, 2, 3})
	expertActions := []float64{1, 0, 1}

	rewards, err := gm.PredictReward(states, actions, expertStates,
		expertActions)
	if err != nil {
		t.Fatal(err)
	}

	// Joined agent sample (0, 0, 1) against joined expert samples
	// (1, 0, 1), (2, 1, 0), (3, 0, 1): squared distances 1, 6, 9 with
	// median 6; expert-expert squared distances 3, 4, 3 with median 3
	gamma1, gamma2, _ := gm.Bandwidths()
	if math.Abs(gamma1-1.0/6.0) > tolerance {
		t.Errorf("expected gamma1 = 1/6, got %v", gamma1)
	}
	if math.Abs(gamma2-1.0/3.0) > tolerance {
		t.Errorf("expected gamma2 = 1/3, got %v", gamma2)
	}

	var expected float64
	for _, d := range []float64{1, 6, 9} {
		expected += math.Exp(-gamma1*d) / 3
		expected += math.Exp(-gamma2*d) / 3
	}
	if math.Abs(rewards[0]-expected) > tolerance {
		t.Errorf("expected reward %v, got %v", expected, rewards[0])
	}
}

func TestGMMILInvalidInputs(t *testing.T) {
	gm := NewGMMIL(2, false)

	states := mat.NewDense(2, 1, []float64{0, 1})
	expertStates := mat.NewDense(2, 1, []float64{1, 2})

	// Wrong number of actions
	_, err := gm.PredictReward(states, []float64{0}, expertStates,
		[]float64{0, 1})
	if err == nil {
		t.Error("expected an error for the wrong number of actions")
	}

	// Out-of-range action
	_, err = gm.PredictReward(states, []float64{0, 2}, expertStates,
		[]float64{0, 1})
	if err == nil {
		t.Error("expected an error for an out-of-range action")
	}
}
