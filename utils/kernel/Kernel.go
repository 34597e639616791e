// Package kernel implements the closed-form kernel computations used
// by the kernel-based imitation reward models: pairwise squared
// distances, the Gaussian (radial basis function) kernel, and the
// median heuristic for setting data-dependent bandwidths.
package kernel

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SquaredDistances computes the matrix of scaled squared distances
// between the rows of x and the rows of y:
//
//	D[i, j] = ‖x[i]/lengthscale − y[j]/lengthscale‖²
//
// computed as ‖x‖² − 2xyᵀ + ‖y‖² and clamped at 0 to guard against
// negative values from floating point error.
func SquaredDistances(x, y mat.Matrix, lengthscale float64) (*mat.Dense,
	error) {
	n, d := x.Dims()
	m, d2 := y.Dims()
	if d != d2 {
		return nil, fmt.Errorf("squareddistances: row length mismatch "+
			"\n\twant(%v) \n\thave(%v)", d, d2)
	}

	scale := 1 / (lengthscale * lengthscale)

	// Squared norms of each row
	xx := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			xx[i] += x.At(i, j) * x.At(i, j) * scale
		}
	}
	yy := make([]float64, m)
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			yy[i] += y.At(i, j) * y.At(i, j) * scale
		}
	}

	// Cross terms
	var xy mat.Dense
	xy.Mul(x, y.T())

	distances := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			dist := xx[i] - 2*xy.At(i, j)*scale + yy[j]
			if dist < 0 {
				dist = 0
			}
			distances.Set(i, j, dist)
		}
	}
	return distances, nil
}

// Gaussian applies the Gaussian/radial basis function/exponentiated
// quadratic kernel elementwise to a matrix of squared distances:
//
//	K[i, j] = exp(−gamma * D[i, j])
func Gaussian(distances mat.Matrix, gamma float64) *mat.Dense {
	r, c := distances.Dims()
	k := mat.NewDense(r, c, nil)
	k.Apply(func(_, _ int, v float64) float64 {
		return math.Exp(-gamma * v)
	}, distances)
	return k
}

// Median returns the median of all entries of a matrix. For an even
// number of entries the lower middle element is returned.
func Median(m mat.Matrix) float64 {
	r, c := m.Dims()
	values := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			values = append(values, m.At(i, j))
		}
	}
	sort.Float64s(values)
	return values[(len(values)-1)/2]
}
