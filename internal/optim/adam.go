package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Both moment estimates live in gradient stores of their own, registered
// under each parameter's stable ID. As with SGD, updates run on the backend
// the gradients were accumulated with and are never recorded.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	for epoch := range epochs {
//	    grads := autodiff.Backward(lossFunc.Forward(model.Forward(input), targets))
//	    optimizer.Step(grads)
//	    backend.Graph().Clear()
//	}
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32
	t      int          // timestep for bias correction
	m      *graph.Grads // first moment estimates
	v      *graph.Grads // second moment estimates
}

var _ Optimizer = (*Adam[tensor.Backend])(nil)

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32    `yaml:"lr"`    // Learning rate (default: 0.001)
	Betas [2]float32 `yaml:"betas"` // Running average coefficients (default: [0.9, 0.999])
	Eps   float32    `yaml:"eps"`   // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero config fields take the defaults.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[B]{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
	}
}

// Step performs a single optimization step.
func (a *Adam[B]) Step(grads *graph.Grads) {
	backend := grads.Backend()
	if a.m == nil {
		a.m = graph.NewGrads(backend)
		a.v = graph.NewGrads(backend)
	}

	a.t++
	correction1 := 1 - math.Pow(float64(a.beta1), float64(a.t))
	correction2 := 1 - math.Pow(float64(a.beta2), float64(a.t))

	for _, param := range a.params {
		grad := param.GradRaw(grads)
		if grad == nil {
			continue
		}
		id := param.ID()

		m := backend.MulScalar(grad, float64(1-a.beta1))
		if prev, ok := a.m.Get(id); ok {
			m = backend.Add(backend.MulScalar(prev, float64(a.beta1)), m)
		}
		a.m.Register(id, m)

		v := backend.MulScalar(backend.Mul(grad, grad), float64(1-a.beta2))
		if prev, ok := a.v.Get(id); ok {
			v = backend.Add(backend.MulScalar(prev, float64(a.beta2)), v)
		}
		a.v.Register(id, v)

		mHat := backend.MulScalar(m, 1/correction1)
		denom := backend.AddScalar(backend.Powf(backend.MulScalar(v, 1/correction2), 0.5), float64(a.eps))
		step := backend.MulScalar(backend.Div(mHat, denom), float64(a.lr))

		p := param.Tensor().Raw()
		updated := backend.Sub(p, step)
		copy(p.Data(), updated.Data())
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam[B]) SetLR(lr float32) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken.
func (a *Adam[B]) GetTimestep() int {
	return a.t
}

// StateDict returns the moment estimates keyed "m.{param_index}" and
// "v.{param_index}".
func (a *Adam[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if a.m == nil {
		return stateDict
	}
	for i, param := range a.params {
		if m, ok := a.m.Get(param.ID()); ok {
			stateDict[fmt.Sprintf("m.%d", i)] = m
		}
		if v, ok := a.v.Get(param.ID()); ok {
			stateDict[fmt.Sprintf("v.%d", i)] = v
		}
	}
	return stateDict
}

// LoadStateDict restores moment estimates saved by StateDict together with
// the timestep they were saved at.
func (a *Adam[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor, timestep int, backend tensor.Backend) error {
	m := graph.NewGrads(backend)
	v := graph.NewGrads(backend)
	for i, param := range a.params {
		for prefix, store := range map[string]*graph.Grads{"m": m, "v": v} {
			t, ok := stateDict[fmt.Sprintf("%s.%d", prefix, i)]
			if !ok {
				continue
			}
			if !t.Shape().Equal(param.Tensor().Shape()) {
				return fmt.Errorf("%s shape mismatch for parameter %d: expected %v, got %v",
					prefix, i, param.Tensor().Shape(), t.Shape())
			}
			store.Register(param.ID(), t)
		}
	}
	a.m, a.v, a.t = m, v, timestep
	return nil
}
