// Package optim implements optimization algorithms for training neural networks.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//
//	for epoch := range epochs {
//	    loss := lossFunc.Forward(model.Forward(input), targets)
//	    grads := autodiff.Backward(loss)
//	    optimizer.Step(grads)
//	    backend.Graph().Clear()
//	}
package optim

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Parameters absent from grads did not contribute to the loss and are
	// left unchanged.
	Step(grads *graph.Grads)

	// GetLR returns the current learning rate.
	GetLR() float32
}
