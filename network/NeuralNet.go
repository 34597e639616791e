// Package network implements the feedforward function approximators
// that the imitation-learning models in this module are built from.
// Networks are computation graphs built with Gorgonia, and an external
// training loop is expected to construct losses over the exposed
// prediction nodes and step the weights with a Gorgonia solver.
package network

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NeuralNet implements a neural network on a Gorgonia computational
// graph.
type NeuralNet interface {
	// Graph returns the computational graph that the network is
	// built on
	Graph() *G.ExprGraph

	// Clone clones the network to a new computational graph, keeping
	// the same weight values
	Clone() (NeuralNet, error)

	// CloneWithBatch clones the network to a new computational graph
	// with a new input batch size
	CloneWithBatch(int) (NeuralNet, error)

	// BatchSize returns the number of samples in an input batch
	BatchSize() int

	// Features returns the number of features in a single input
	// sample
	Features() int

	// Outputs returns the number of predictions per input sample
	Outputs() int

	// SetInput sets the value of the network's input node(s) before
	// running the forward pass. The input is a flattened batch of
	// row-major samples.
	SetInput([]float64) error

	// Set sets the weights of the network to those of another network
	// of identical architecture
	Set(NeuralNet) error

	// Polyak sets the weights of the network to the polyak average
	// between its current weights and those of another network of
	// identical architecture
	Polyak(NeuralNet, float64) error

	// Learnables returns the nodes of the network that can be learned
	Learnables() G.Nodes

	// Model returns the nodes of the network that can be learned
	// along with their gradients
	Model() []G.ValueGrad

	// Output returns the value of the network's prediction node after
	// the last run of the graph
	Output() G.Value

	// Prediction returns the node of the computational graph that
	// stores the network's prediction
	Prediction() *G.Node
}

// Set sets the weights of dest to the weights of source. The networks
// must have identical architectures.
func Set(dest, source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return err
		}
	}
	return nil
}

// Polyak sets the weights of dest to a polyak average between its
// current weights and the weights of source:
//
//	dest <- (1 - tau) * dest + tau * source
func Polyak(dest, source NeuralNet, tau float64) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	for i := range nodes {
		weights := nodes[i].Value().(*tensor.Dense)
		sourceWeights := sourceNodes[i].Value().(*tensor.Dense)

		weights, err := weights.MulScalar(1-tau, true)
		if err != nil {
			return err
		}

		sourceWeights, err = sourceWeights.MulScalar(tau, true)
		if err != nil {
			return err
		}

		var newWeights *tensor.Dense
		newWeights, err = weights.Add(sourceWeights)
		if err != nil {
			return err
		}

		err = G.Let(nodes[i], newWeights)
		if err != nil {
			return err
		}
	}
	return nil
}
