package optim

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Velocities live in a gradient store of their own, registered under each
// parameter's stable ID, and carry over from one step to the next.
// Updates are computed on the backend the gradients were accumulated with,
// so they are never recorded.
type SGD[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	lr       float32
	momentum float32
	state    *graph.Grads
}

var _ Optimizer = (*SGD[tensor.Backend])(nil)

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 `yaml:"lr"`       // Learning rate (default: 0.01)
	Momentum float32 `yaml:"momentum"` // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[B]{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step.
func (s *SGD[B]) Step(grads *graph.Grads) {
	backend := grads.Backend()
	for _, param := range s.params {
		grad := param.GradRaw(grads)
		if grad == nil {
			continue
		}

		update := grad
		if s.momentum != 0 {
			update = s.velocity(param, grad, backend)
		}

		p := param.Tensor().Raw()
		updated := backend.Sub(p, backend.MulScalar(update, float64(s.lr)))
		copy(p.Data(), updated.Data())
	}
}

// velocity updates and returns the momentum buffer for param.
func (s *SGD[B]) velocity(param *nn.Parameter[B], grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	if s.state == nil {
		s.state = graph.NewGrads(backend)
	}

	v := grad
	if prev, ok := s.state.Get(param.ID()); ok {
		v = backend.Add(backend.MulScalar(prev, float64(s.momentum)), grad)
	}
	s.state.Register(param.ID(), v)
	return v
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}

// StateDict returns the velocity buffers keyed "velocity.{param_index}".
// Without momentum, returns an empty map.
func (s *SGD[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if s.state == nil {
		return stateDict
	}
	for i, param := range s.params {
		if v, ok := s.state.Get(param.ID()); ok {
			stateDict[fmt.Sprintf("velocity.%d", i)] = v
		}
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict.
//
// Returns an error if a velocity shape doesn't match its parameter.
func (s *SGD[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor, backend tensor.Backend) error {
	if s.momentum == 0 {
		return nil
	}

	state := graph.NewGrads(backend)
	for i, param := range s.params {
		v, ok := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}
		if !v.Shape().Equal(param.Tensor().Shape()) {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected %v, got %v",
				i, param.Tensor().Shape(), v.Shape())
		}
		state.Register(param.ID(), v)
	}
	s.state = state
	return nil
}
