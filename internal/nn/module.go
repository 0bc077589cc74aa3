// Package nn implements the neural network building blocks used to train
// models on top of the autodiff backend.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable tensors with a stable identity
//   - Linear: Fully connected layer
//   - Activations: ReLU, Tanh
//   - MSELoss
//   - Sequential: Container for stacking layers
//
// Every module is composed from recorded primitives, so gradients come from
// a single autodiff.Backward call on the loss.
package nn

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(4, 8, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(8, 1, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, or an
	// empty slice for modules without any.
	Parameters() []*Parameter[B]
}
