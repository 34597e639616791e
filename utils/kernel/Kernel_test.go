package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance float64 = 1e-10

func TestSquaredDistances(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		0, 0,
		1, 1,
	})
	y := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		2, 2,
	})

	distances, err := SquaredDistances(x, y, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	expected := mat.NewDense(2, 3, []float64{
		0, 1, 8,
		2, 1, 2,
	})

	r, c := distances.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(distances.At(i, j)-expected.At(i, j)) > tolerance {
				t.Errorf("distance at (%v, %v): expected %v, got %v", i, j,
					expected.At(i, j), distances.At(i, j))
			}
		}
	}
}

func TestSquaredDistancesLengthscale(t *testing.T) {
	x := mat.NewDense(1, 1, []float64{0})
	y := mat.NewDense(1, 1, []float64{4})

	// Dividing inputs by a lengthscale of 2 scales squared distances
	// by 1/4
	distances, err := SquaredDistances(x, y, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(distances.At(0, 0)-4) > tolerance {
		t.Errorf("expected 4, got %v", distances.At(0, 0))
	}
}

func TestSquaredDistancesDimensionMismatch(t *testing.T) {
	x := mat.NewDense(1, 2, []float64{0, 0})
	y := mat.NewDense(1, 3, []float64{0, 0, 0})

	if _, err := SquaredDistances(x, y, 1.0); err == nil {
		t.Error("expected an error for mismatched row lengths")
	}
}

func TestGaussian(t *testing.T) {
	distances := mat.NewDense(1, 3, []float64{0, 1, 4})
	gamma := 0.5

	k := Gaussian(distances, gamma)

	expected := []float64{1, math.Exp(-0.5), math.Exp(-2)}
	for j, e := range expected {
		if math.Abs(k.At(0, j)-e) > tolerance {
			t.Errorf("kernel at (0, %v): expected %v, got %v", j, e,
				k.At(0, j))
		}
	}
}

func TestMedian(t *testing.T) {
	odd := mat.NewDense(1, 5, []float64{5, 1, 3, 2, 4})
	if got := Median(odd); got != 3 {
		t.Errorf("expected median 3, got %v", got)
	}

	// Even number of entries returns the lower middle element
	even := mat.NewDense(2, 2, []float64{4, 1, 3, 2})
	if got := Median(even); got != 2 {
		t.Errorf("expected median 2, got %v", got)
	}
}
