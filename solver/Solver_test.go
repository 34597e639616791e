package solver

import (
	"encoding/json"
	"testing"
)

// A configuration should describe the same solver after a trip through
// JSON
func TestJSONRoundTrip(t *testing.T) {
	solver, err := NewDefaultAdam(1e-3, 32)
	if err != nil {
		t.Fatal(err)
	}
	if solver.Type != Adam {
		t.Fatalf("expected type %v, got %v", Adam, solver.Type)
	}

	data, err := json.Marshal(solver)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Solver
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Type != Adam {
		t.Errorf("expected type %v, got %v", Adam, decoded.Type)
	}
	if decoded.Solver == nil {
		t.Error("expected a usable solver after decoding")
	}
}

func TestNewRMSProp(t *testing.T) {
	solver, err := NewDefaultRMSProp(1e-3, 16)
	if err != nil {
		t.Fatal(err)
	}
	if solver.Type != RMSProp {
		t.Errorf("expected type %v, got %v", RMSProp, solver.Type)
	}
	if solver.Solver == nil {
		t.Error("expected a usable solver")
	}
}

// A configuration can only create the solver type it describes
func TestInvalidType(t *testing.T) {
	if _, err := newSolver(Vanilla, AdamConfig{}); err == nil {
		t.Error("expected an error for a mismatched solver type")
	}
}
