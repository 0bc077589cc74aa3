// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that consume autodiff gradients.
//
// # Basic Usage
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewLinear(4, 1, backend)
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05, Momentum: 0.9})
//
//	for step := 0; step < 100; step++ {
//	    loss := lossFn.Forward(model.Forward(x), y)
//	    grads := autodiff.Backward(loss)
//	    opt.Step(grads)
//	    backend.Graph().Clear()
//	}
package optim
