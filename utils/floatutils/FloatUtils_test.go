package floatutils

import (
	"math"
	"testing"
)

const tolerance float64 = 1e-10

func TestClip(t *testing.T) {
	if got := Clip(1.5, 0, 1); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := Clip(-0.5, 0, 1); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Clip(0.25, 0, 1); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}
}

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, 2, 3})
	if max != 3 {
		t.Errorf("expected max 3, got %v", max)
	}
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Errorf("expected indices [1 3], got %v", indices)
	}

	max, indices = MaxSlice([]float64{5, 1, 5})
	if max != 5 {
		t.Errorf("expected max 5, got %v", max)
	}
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 2 {
		t.Errorf("expected indices [0 2], got %v", indices)
	}
}

func TestLogSumExp(t *testing.T) {
	values := []float64{0.5, -1.25, 3.0}

	var sum float64
	for _, val := range values {
		sum += math.Exp(val)
	}
	expected := math.Log(sum)

	if got := LogSumExp(values...); math.Abs(got-expected) > tolerance {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

// LogSumExp should not overflow for large inputs
func TestLogSumExpStable(t *testing.T) {
	got := LogSumExp(1000, 1000)
	expected := 1000 + math.Log(2)
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float64{1, 2, 3})

	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > tolerance {
		t.Errorf("probabilities should sum to 1, got %v", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("probabilities should be increasing, got %v", probs)
	}

	// Uniform logits give uniform probabilities
	probs = Softmax([]float64{2, 2, 2, 2})
	for i, p := range probs {
		if math.Abs(p-0.25) > tolerance {
			t.Errorf("expected probability 0.25 at index %v, got %v", i, p)
		}
	}
}
