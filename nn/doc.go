// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides small neural network building blocks on top of the
// autodiff backend.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: ReLU, Tanh
//   - Loss functions: MSELoss
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradgraph/autodiff"
//	    "github.com/born-ml/gradgraph/backend/cpu"
//	    "github.com/born-ml/gradgraph/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    type B = *autodiff.Backend[*cpu.Backend]
//
//	    model := nn.NewSequential[B](
//	        nn.NewLinear(4, 8, backend),
//	        nn.NewTanh[B](),
//	        nn.NewLinear(8, 1, backend),
//	    )
//	    loss := nn.NewMSELoss[B]().Forward(model.Forward(x), y)
//	    grads := autodiff.Backward(loss)
//	}
//
// Parameter gradients are looked up in the returned container with
// Parameter.Grad.
package nn
