// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i, value := range values {
		if value > max {
			max = value
			indices = []int{i}
		} else if value == max && i != 0 {
			indices = append(indices, i)
		}
	}
	return
}

// ArgMax returns the indices of the maximum values in a list of
// float64
func ArgMax(values ...float64) []int {
	_, indices := MaxSlice(values)
	return indices
}

// Min calculates and returns the minimum float64 in a list
func Min(floats ...float64) float64 {
	min := floats[0]
	for _, val := range floats {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(floats ...float64) float64 {
	max := floats[0]
	for _, val := range floats {
		if val > max {
			max = val
		}
	}
	return max
}

// LogSumExp computes the log of the summation of exponentials of the
// input values in a numerically stable way.
func LogSumExp(values ...float64) float64 {
	max := Max(values...)

	var sum float64
	for _, val := range values {
		sum += math.Exp(val - max)
	}
	return max + math.Log(sum)
}

// Softmax computes the softmax of the input values. The returned
// slice holds normalized probabilities.
func Softmax(values []float64) []float64 {
	lse := LogSumExp(values...)

	probs := make([]float64, len(values))
	for i, val := range values {
		probs[i] = math.Exp(val - lse)
	}
	return probs
}
