package policy

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/imitation/network"
)

func TestActorCritic(t *testing.T) {
	numActions := 3
	model, err := NewActorCritic(2, numActions, 1, []int{4}, []bool{true},
		[]*network.Activation{network.TanH()}, G.Zeroes(), 7)
	if err != nil {
		t.Fatal(err)
	}

	if model.Actor().NumActions() != numActions {
		t.Errorf("expected %v actions, got %v", numActions,
			model.Actor().NumActions())
	}

	// The actor and critic live on separate graphs
	if model.Actor().Graph() == model.Critic().Graph() {
		t.Error("actor and critic should not share a graph")
	}

	state := []float64{0.5, -1}

	action, err := model.SelectAction(state)
	if err != nil {
		t.Fatal(err)
	}
	if action < 0 || action >= float64(numActions) {
		t.Errorf("action %v out of range [0, %v)", action, numActions)
	}

	logProbs, err := model.LogProbs(state, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	expected := -math.Log(float64(numActions))
	if math.Abs(logProbs[0]-expected) > tolerance {
		t.Errorf("expected log probability %v, got %v", expected,
			logProbs[0])
	}

	values, err := model.Predict(state)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 1 {
		t.Errorf("expected 1 value, got %v", len(values))
	}

	// Zero weights predict a zero value
	if math.Abs(values[0]) > tolerance {
		t.Errorf("expected value 0, got %v", values[0])
	}
}

func TestActorCriticConfig(t *testing.T) {
	config, err := NewDefaultActorCriticConfig(16)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.Validate(); err != nil {
		t.Fatal(err)
	}

	model, err := config.CreateActorCritic(2, 3, 1, 12)
	if err != nil {
		t.Fatal(err)
	}

	action, err := model.SelectAction([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if action < 0 || action >= 3 {
		t.Errorf("action %v out of range [0, 3)", action)
	}
}
