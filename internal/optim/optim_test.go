package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/backend/cpu"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func scalarParam(t *testing.T, backend Backend, v float32) *nn.Parameter[Backend] {
	t.Helper()
	x, err := tensor.FromSlice([]float32{v}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	return nn.NewParameter("x", x)
}

// linearLoss returns loss = sum(x * c) so that d loss / dx = c.
func linearLoss(t *testing.T, backend Backend, p *nn.Parameter[Backend], c float32) *tensor.Tensor[float32, Backend] {
	t.Helper()
	ct, err := tensor.FromSlice([]float32{c}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	return p.Tensor().Mul(ct).Sum()
}

func TestSGD_Defaults(t *testing.T) {
	sgd := optim.NewSGD[Backend](nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, sgd.GetLR(), 1e-9)

	sgd.SetLR(0.5)
	assert.Equal(t, float32(0.5), sgd.GetLR())
}

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2)
	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{LR: 0.1})

	grads := autodiff.Backward(linearLoss(t, backend, param, 1))
	sgd.Step(grads)

	// 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
	assert.Empty(t, sgd.StateDict())
}

func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1)
	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v1 = 1, x = 1 - 0.1
	sgd.Step(autodiff.Backward(linearLoss(t, backend, param, 1)))
	assert.InDelta(t, 0.9, param.Tensor().Data()[0], 1e-6)

	// v2 = 0.9 * 1 + 1 = 1.9, x = 0.9 - 0.19
	sgd.Step(autodiff.Backward(linearLoss(t, backend, param, 1)))
	assert.InDelta(t, 0.71, param.Tensor().Data()[0], 1e-6)

	state := sgd.StateDict()
	require.Contains(t, state, "velocity.0")
	assert.InDelta(t, 1.9, state["velocity.0"].AsFloat32()[0], 1e-6)
}

func TestSGD_SkipsParamsWithoutGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())
	used := scalarParam(t, backend, 1)
	unused := scalarParam(t, backend, 5)
	sgd := optim.NewSGD([]*nn.Parameter[Backend]{used, unused}, optim.SGDConfig{LR: 0.1, Momentum: 0.5})

	sgd.Step(autodiff.Backward(linearLoss(t, backend, used, 2)))

	assert.InDelta(t, 0.8, used.Tensor().Data()[0], 1e-6)
	assert.Equal(t, float32(5), unused.Tensor().Data()[0])
	assert.Len(t, sgd.StateDict(), 1)
}

func TestSGD_LoadStateDict(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1)
	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.5})

	v, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	v.AsFloat32()[0] = 2
	require.NoError(t, sgd.LoadStateDict(map[string]*tensor.RawTensor{"velocity.0": v}, backend.Inner()))

	// v = 0.5 * 2 + 1 = 2, x = 1 - 0.2
	sgd.Step(autodiff.Backward(linearLoss(t, backend, param, 1)))
	assert.InDelta(t, 0.8, param.Tensor().Data()[0], 1e-6)

	bad, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Error(t, sgd.LoadStateDict(map[string]*tensor.RawTensor{"velocity.0": bad}, backend.Inner()))
}

// A Linear + ReLU + Linear model fitting y = 2x - 1 must reduce its loss.
func TestSGD_TrainsToyRegression(t *testing.T) {
	backend := autodiff.New(cpu.New())

	model := nn.NewSequential[Backend](
		nn.NewLinear(1, 8, backend),
		nn.NewReLU[Backend](),
		nn.NewLinear(8, 1, backend),
	)
	mse := nn.NewMSELoss[Backend]()
	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.02, Momentum: 0.9})

	xs := []float32{-1, -0.5, 0, 0.5, 1, 1.5}
	ys := make([]float32, len(xs))
	for i, x := range xs {
		ys[i] = 2*x - 1
	}
	input, err := tensor.FromSlice(xs, tensor.Shape{len(xs), 1}, backend)
	require.NoError(t, err)
	target, err := tensor.FromSlice(ys, tensor.Shape{len(ys), 1}, backend)
	require.NoError(t, err)

	var first, last float32
	for step := 0; step < 300; step++ {
		loss := mse.Forward(model.Forward(input), target)
		if step == 0 {
			first = loss.Item()
		}
		last = loss.Item()

		sgd.Step(autodiff.Backward(loss))
		backend.Graph().Clear()
	}

	assert.Less(t, last, first/2)
}

func TestAdam_Defaults(t *testing.T) {
	adam := optim.NewAdam[Backend](nil, optim.AdamConfig{})
	assert.InDelta(t, 0.001, adam.GetLR(), 1e-9)
	assert.Equal(t, 0, adam.GetTimestep())

	adam.SetLR(0.01)
	assert.Equal(t, float32(0.01), adam.GetLR())
}

// With a constant gradient the bias-corrected step is lr * sign(grad).
func TestAdam_ConstantGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2)
	skipped := scalarParam(t, backend, 5)
	adam := optim.NewAdam([]*nn.Parameter[Backend]{param, skipped}, optim.AdamConfig{LR: 0.1})

	adam.Step(autodiff.Backward(linearLoss(t, backend, param, 3)))
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-5)
	assert.Equal(t, 1, adam.GetTimestep())

	adam.Step(autodiff.Backward(linearLoss(t, backend, param, 3)))
	assert.InDelta(t, 1.8, param.Tensor().Data()[0], 1e-5)
	assert.Equal(t, float32(5), skipped.Tensor().Data()[0])

	state := adam.StateDict()
	require.Len(t, state, 2)
	// m = 0.9 * 0.3 + 0.1 * 3, v = 0.999 * 0.009 + 0.001 * 9
	assert.InDelta(t, 0.57, state["m.0"].AsFloat32()[0], 1e-6)
	assert.InDelta(t, 0.017991, state["v.0"].AsFloat32()[0], 1e-6)
}

func TestAdam_LoadStateDict(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2)
	adam := optim.NewAdam([]*nn.Parameter[Backend]{param}, optim.AdamConfig{LR: 0.1})
	adam.Step(autodiff.Backward(linearLoss(t, backend, param, 3)))

	restored := optim.NewAdam([]*nn.Parameter[Backend]{param}, optim.AdamConfig{LR: 0.1})
	require.NoError(t, restored.LoadStateDict(adam.StateDict(), adam.GetTimestep(), backend.Inner()))
	assert.Equal(t, 1, restored.GetTimestep())

	restored.Step(autodiff.Backward(linearLoss(t, backend, param, 3)))
	assert.InDelta(t, 1.8, param.Tensor().Data()[0], 1e-5)

	bad, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Error(t, restored.LoadStateDict(map[string]*tensor.RawTensor{"v.0": bad}, 1, backend.Inner()))
}

// Adam on a softmax classifier must drive cross-entropy down.
func TestAdam_TrainsClassifier(t *testing.T) {
	backend := autodiff.New(cpu.New())

	model := nn.NewSequential[Backend](
		nn.NewLinear(2, 8, backend),
		nn.NewTanh[Backend](),
		nn.NewLinear(8, 3, backend),
	)
	ce := nn.NewCrossEntropyLoss[Backend]()
	adam := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.05})

	xs := []float32{1, 0, 0, 1, -1, -1, 0.9, 0.1, 0.1, 0.9, -0.8, -1.2}
	labels := []int{0, 1, 2, 0, 1, 2}
	input, err := tensor.FromSlice(xs, tensor.Shape{len(labels), 2}, backend)
	require.NoError(t, err)

	var first, last float32
	for step := 0; step < 200; step++ {
		loss := ce.Forward(model.Forward(input), labels)
		if step == 0 {
			first = loss.Item()
		}
		last = loss.Item()

		adam.Step(autodiff.Backward(loss))
		backend.Graph().Clear()
	}

	assert.Less(t, last, first/4)
}
