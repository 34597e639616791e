package discriminator

import (
	"testing"
)

func TestGAILConfig(t *testing.T) {
	config, err := NewDefaultGAILConfig(8)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.Validate(); err != nil {
		t.Fatal(err)
	}

	d, err := config.Create(2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}

	probs, err := d.Discriminate([]float64{0.5, -0.5}, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if probs[0] <= 0 || probs[0] >= 1 {
		t.Errorf("D = %v outside (0, 1)", probs[0])
	}
}

func TestAIRLConfig(t *testing.T) {
	config, err := NewDefaultAIRLConfig(8, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	d, err := config.Create(2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Discount() != 0.99 {
		t.Errorf("expected discount 0.99, got %v", d.Discount())
	}

	// An out-of-range discount is invalid
	config.Discount = 1.5
	if err := config.Validate(); err == nil {
		t.Error("expected an error for an out-of-range discount")
	}
}

func TestREDConfig(t *testing.T) {
	config, err := NewDefaultREDConfig(8)
	if err != nil {
		t.Fatal(err)
	}

	d, err := config.Create(2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Sigma() != 1.0 {
		t.Errorf("expected bandwidth 1, got %v", d.Sigma())
	}

	config.Sigma = -1
	if err := config.Validate(); err == nil {
		t.Error("expected an error for a non-positive bandwidth")
	}
}

func TestGMMILConfig(t *testing.T) {
	config := NewDefaultGMMILConfig()
	gm := config.Create(4)
	if !gm.StateOnly() {
		t.Error("expected the default model to be state-only")
	}
}

func TestConfigMismatchedLayers(t *testing.T) {
	config, err := NewDefaultGAILConfig(8)
	if err != nil {
		t.Fatal(err)
	}

	config.Biases = []bool{true}
	if err := config.Validate(); err == nil {
		t.Error("expected an error for mismatched biases")
	}
}
