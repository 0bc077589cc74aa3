// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/tensor"
)

// Module is the interface implemented by every layer.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a trainable tensor with a stable identity.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Linear is a fully connected layer: y = x @ W.T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// ReLU activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// Tanh activation.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// MSELoss is the mean squared error loss.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// CrossEntropyLoss is softmax cross-entropy over class indices.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// Sequential chains modules in order.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewParameter wraps t as a named trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a Linear layer with Xavier-initialized weights and zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// NewTanh creates a Tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// NewCrossEntropyLoss creates a softmax cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// OneHot encodes class indices as rows of a [len(labels), classes] tensor.
func OneHot[B tensor.Backend](labels []int, classes int, backend B) (*tensor.Tensor[float32, B], error) {
	return nn.OneHot(labels, classes, backend)
}

// NewSequential creates a Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Xavier returns a tensor initialized with Xavier/Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros returns a float32 tensor of zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}
