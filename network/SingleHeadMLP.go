package network

import G "gorgonia.org/gorgonia"

// NewSingleHeadMLP returns an MLP that predicts a single value per
// input sample. Scalar heads like state value functions and
// discriminator logits are built with this function; it is equivalent
// to calling NewMultiHeadMLP with an output size of 1.
func NewSingleHeadMLP(features, batch int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, init G.InitWFn, activations []*Activation) (NeuralNet,
	error) {
	return NewMultiHeadMLP(features, batch, 1, g, hiddenSizes, biases, init,
		activations)
}
