package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/backend/cpu"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/tensor"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func TestParameter(t *testing.T) {
	backend := newBackend()
	data, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	p := nn.NewParameter("test_param", data)
	other := nn.NewParameter("other", data)

	assert.Equal(t, "test_param", p.Name())
	assert.Same(t, data, p.Tensor())
	assert.NotEqual(t, p.ID(), other.ID())

	loss := p.Tensor().Mul(p.Tensor()).Sum()
	grads := autodiff.Backward(loss)
	g := p.Grad(grads)
	require.NotNil(t, g)
	assert.Equal(t, []float32{2, 4, 6}, g.Data())
}

func TestParameter_GradWithoutGraph(t *testing.T) {
	plain := cpu.New()
	data := tensor.Ones[float32](tensor.Shape{2}, plain)
	p := nn.NewParameter("w", data)

	grads := autodiff.Backward(tensor.Ones[float32](tensor.Shape{1}, newBackend()))
	assert.Nil(t, p.Grad(grads))
}

func TestLinear_Creation(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(4, 3, backend)

	assert.Equal(t, 4, layer.InFeatures())
	assert.Equal(t, 3, layer.OutFeatures())
	assert.Equal(t, tensor.Shape{3, 4}, layer.Weight().Tensor().Shape())
	assert.Equal(t, tensor.Shape{3}, layer.Bias().Tensor().Shape())
	assert.Len(t, layer.Parameters(), 2)

	bound := float32(math.Sqrt(6.0 / 7.0))
	for _, v := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
	assert.Equal(t, []float32{0, 0, 0}, layer.Bias().Tensor().Data())
}

func TestLinear_Forward(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 2, backend)
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5})

	x, err := tensor.FromSlice([]float32{1, 1, 2, 0}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	out := layer.Forward(x)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	// [1,1] @ Wᵀ = [3, 7]; [2,0] @ Wᵀ = [2, 6]
	assert.InDeltaSlice(t, []float32{3.5, 6.5, 2.5, 5.5}, out.Data(), 1e-6)

	bad, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	assert.Panics(t, func() { layer.Forward(bad) })
}

func TestLinear_Backward(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 1, backend)
	copy(layer.Weight().Tensor().Data(), []float32{0.5, -1})

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	loss := layer.Forward(x).Sum()
	grads := autodiff.Backward(loss)

	// d/dW sum(x @ Wᵀ + b) = column sums of x; d/db = batch size.
	assert.Equal(t, []float32{4, 6}, layer.Weight().Grad(grads).Data())
	assert.Equal(t, []float32{2}, layer.Bias().Grad(grads).Data())
	assert.Equal(t, []float32{0.5, -1, 0.5, -1}, autodiff.Grad(x, grads).Data())
}

func TestActivations(t *testing.T) {
	backend := newBackend()
	x, err := tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	relu := nn.NewReLU[Backend]()
	assert.Equal(t, []float32{0, 0, 2}, relu.Forward(x).Data())
	assert.Nil(t, relu.Parameters())

	tanh := nn.NewTanh[Backend]()
	assert.InDelta(t, math.Tanh(2), float64(tanh.Forward(x).Data()[2]), 1e-6)
	assert.Nil(t, tanh.Parameters())
}

func TestSequential(t *testing.T) {
	backend := newBackend()
	model := nn.NewSequential[Backend](
		nn.NewLinear(3, 4, backend),
		nn.NewReLU[Backend](),
	)
	model.Add(nn.NewLinear(4, 2, backend))

	assert.Equal(t, 3, model.Len())
	assert.Len(t, model.Parameters(), 4)

	x := tensor.Ones[float32](tensor.Shape{5, 3}, backend)
	assert.Equal(t, tensor.Shape{5, 2}, model.Forward(x).Shape())
}

func TestMSELoss(t *testing.T) {
	backend := newBackend()
	pred, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{1, 0, 6}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	mse := nn.NewMSELoss[Backend]()
	loss := mse.Forward(pred, target)
	assert.InDelta(t, 13.0/3.0, float64(loss.Item()), 1e-5)

	grads := autodiff.Backward(loss)
	// 2 * (pred - target) / n
	assert.InDeltaSlice(t, []float32{0, 4.0 / 3, -2}, autodiff.Grad(pred, grads).Data(), 1e-5)

	short := tensor.Ones[float32](tensor.Shape{2}, backend)
	assert.Panics(t, func() { mse.Forward(pred, short) })
}

func TestCrossEntropyLoss(t *testing.T) {
	backend := newBackend()
	logits, err := tensor.FromSlice([]float32{0, 0, 0, 2, 0, 0}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	ce := nn.NewCrossEntropyLoss[Backend]()
	loss := ce.Forward(logits, []int{1, 0})

	e2 := math.Exp(2)
	p := e2 / (e2 + 2)
	want := (math.Log(3) - math.Log(p)) / 2
	assert.InDelta(t, want, float64(loss.Item()), 1e-5)

	// (softmax - onehot) / n
	q := 1 / (e2 + 2)
	grads := autodiff.Backward(loss)
	assert.InDeltaSlice(t,
		[]float32{1.0 / 6, float32(1.0/3-1) / 2, 1.0 / 6, float32(p-1) / 2, float32(q) / 2, float32(q) / 2},
		autodiff.Grad(logits, grads).Data(), 1e-5)

	assert.Panics(t, func() { ce.Forward(logits, []int{0}) })
	assert.Panics(t, func() { ce.Forward(logits, []int{0, 3}) })
}

func TestOneHot(t *testing.T) {
	backend := newBackend()
	got, err := nn.OneHot([]int{2, 0}, 3, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, got.Shape())
	assert.Equal(t, []float32{0, 0, 1, 1, 0, 0}, got.Data())

	_, err = nn.OneHot([]int{-1}, 3, backend)
	assert.Error(t, err)
}
