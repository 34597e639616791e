package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
)

const tolerance float64 = 1e-10

// runNet runs the forward pass of a network on the given input and
// returns the flattened output
func runNet(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()

	if err := net.SetInput(input); err != nil {
		t.Fatal(err)
	}

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Reset()

	output := net.Output().Data().([]float64)
	out := make([]float64, len(output))
	copy(out, output)
	return out
}

// With all weights and biases set to 0.5, a linear network with no
// hidden layers computes 0.5 * sum(input) + 0.5
func TestMultiHeadMLPForwardLinear(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(2, 1, 1, g, []int{}, []bool{},
		G.ValuesOf(0.5), []*Activation{})
	if err != nil {
		t.Fatal(err)
	}

	out := runNet(t, net, []float64{1, 2})
	if len(out) != 1 {
		t.Fatalf("expected a single output, got %v", len(out))
	}

	expected := 0.5*(1+2) + 0.5
	if math.Abs(out[0]-expected) > tolerance {
		t.Errorf("expected %v, got %v", expected, out[0])
	}
}

// A single tanh hidden layer with constant weights is hand-computable
func TestMultiHeadMLPForwardHidden(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(2, 1, 1, g, []int{3}, []bool{true},
		G.ValuesOf(0.5), []*Activation{TanH()})
	if err != nil {
		t.Fatal(err)
	}

	out := runNet(t, net, []float64{1, 2})

	// Each hidden unit computes tanh(0.5*(1+2) + 0.5)
	hidden := math.Tanh(2.0)
	expected := 0.5*3*hidden + 0.5
	if math.Abs(out[0]-expected) > tolerance {
		t.Errorf("expected %v, got %v", expected, out[0])
	}
}

func TestMultiHeadMLPOutputShape(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(3, 4, 2, g, []int{5}, []bool{true},
		G.GlorotN(1.0), []*Activation{ReLU()})
	if err != nil {
		t.Fatal(err)
	}

	if net.BatchSize() != 4 {
		t.Errorf("expected batch size 4, got %v", net.BatchSize())
	}
	if net.Features() != 3 {
		t.Errorf("expected 3 features, got %v", net.Features())
	}
	if net.Outputs() != 2 {
		t.Errorf("expected 2 outputs, got %v", net.Outputs())
	}

	out := runNet(t, net, make([]float64, 3*4))
	if len(out) != 4*2 {
		t.Errorf("expected %v output values, got %v", 4*2, len(out))
	}
}

func TestMultiHeadMLPInvalidArguments(t *testing.T) {
	g := G.NewGraph()

	// Mismatched activations
	_, err := NewMultiHeadMLP(2, 1, 1, g, []int{3}, []bool{true},
		G.GlorotN(1.0), []*Activation{})
	if err == nil {
		t.Error("expected an error for mismatched activations")
	}

	// Mismatched biases
	_, err = NewMultiHeadMLP(2, 1, 1, g, []int{3}, []bool{},
		G.GlorotN(1.0), []*Activation{TanH()})
	if err == nil {
		t.Error("expected an error for mismatched biases")
	}
}

func TestMultiHeadMLPSetInputWrongLength(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(2, 1, 1, g, []int{}, []bool{},
		G.ValuesOf(0.5), []*Activation{})
	if err != nil {
		t.Fatal(err)
	}

	if err := net.SetInput([]float64{1, 2, 3}); err == nil {
		t.Error("expected an error for an input of the wrong length")
	}
}

// CloneWithBatch should preserve weights while changing the batch
// dimension
func TestMultiHeadMLPCloneWithBatch(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(2, 1, 1, g, []int{3}, []bool{true},
		G.ValuesOf(0.25), []*Activation{TanH()})
	if err != nil {
		t.Fatal(err)
	}

	clone, err := net.CloneWithBatch(2)
	if err != nil {
		t.Fatal(err)
	}
	if clone.BatchSize() != 2 {
		t.Errorf("expected batch size 2, got %v", clone.BatchSize())
	}

	single := runNet(t, net, []float64{1, 2})
	batch := runNet(t, clone, []float64{1, 2, 1, 2})

	for i := 0; i < 2; i++ {
		if math.Abs(batch[i]-single[0]) > tolerance {
			t.Errorf("row %v of clone: expected %v, got %v", i, single[0],
				batch[i])
		}
	}
}

// Set should copy weights so that both networks compute the same
// function
func TestSet(t *testing.T) {
	g1 := G.NewGraph()
	dest, err := NewMultiHeadMLP(2, 1, 1, g1, []int{3}, []bool{true},
		G.ValuesOf(0.0), []*Activation{TanH()})
	if err != nil {
		t.Fatal(err)
	}

	g2 := G.NewGraph()
	source, err := NewMultiHeadMLP(2, 1, 1, g2, []int{3}, []bool{true},
		G.ValuesOf(0.5), []*Activation{TanH()})
	if err != nil {
		t.Fatal(err)
	}

	if err := dest.Set(source); err != nil {
		t.Fatal(err)
	}

	input := []float64{1, -1}
	destOut := runNet(t, dest, input)
	sourceOut := runNet(t, source, input)

	if math.Abs(destOut[0]-sourceOut[0]) > tolerance {
		t.Errorf("expected %v, got %v", sourceOut[0], destOut[0])
	}
}

// Polyak averaging with constant weights is hand-computable: the new
// weights are tau*source + (1-tau)*dest elementwise
func TestPolyak(t *testing.T) {
	g1 := G.NewGraph()
	dest, err := NewMultiHeadMLP(1, 1, 1, g1, []int{}, []bool{},
		G.ValuesOf(0.0), []*Activation{})
	if err != nil {
		t.Fatal(err)
	}

	g2 := G.NewGraph()
	source, err := NewMultiHeadMLP(1, 1, 1, g2, []int{}, []bool{},
		G.ValuesOf(1.0), []*Activation{})
	if err != nil {
		t.Fatal(err)
	}

	tau := 0.25
	if err := dest.Polyak(source, tau); err != nil {
		t.Fatal(err)
	}

	// Weight and bias are both 0.25, so output on input 1 is 0.5
	out := runNet(t, dest, []float64{1})
	if math.Abs(out[0]-0.5) > tolerance {
		t.Errorf("expected 0.5, got %v", out[0])
	}
}

func TestMultiHeadMLPLearnables(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(2, 1, 3, g, []int{4, 4},
		[]bool{true, false}, G.GlorotN(1.0),
		[]*Activation{TanH(), TanH()})
	if err != nil {
		t.Fatal(err)
	}

	// Three weight matrices plus biases on the first hidden layer and
	// on the final linear layer
	if len(net.Learnables()) != 5 {
		t.Errorf("expected 5 learnables, got %v", len(net.Learnables()))
	}
	if len(net.Model()) != 5 {
		t.Errorf("expected 5 model values, got %v", len(net.Model()))
	}
}
