package ops_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/backend/cpu"
	"github.com/born-ml/gradgraph/internal/tensor"
)

func raw(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat64(), data)
	return r
}

func state(alloc *graph.Allocator, v *tensor.RawTensor) *graph.NodeState {
	return graph.NewLeaf(alloc, v).State()
}

func unary(t *testing.T, rule graph.UnaryRule, in, out, grad *tensor.RawTensor) []float64 {
	t.Helper()
	alloc := graph.NewAllocator()
	g := rule.Partial(graph.UnaryState{
		Input:   state(alloc, in),
		Output:  state(alloc, out),
		Grad:    grad,
		Backend: cpu.New(),
	})
	require.NotNil(t, g)
	require.Equal(t, in.Shape(), g.Shape())
	return g.AsFloat64()
}

func binary(t *testing.T, rule graph.BinaryRule, l, r, out, grad *tensor.RawTensor) (left, right *tensor.RawTensor) {
	t.Helper()
	alloc := graph.NewAllocator()
	s := graph.BinaryState{
		Left:    state(alloc, l),
		Right:   state(alloc, r),
		Output:  state(alloc, out),
		Grad:    grad,
		Backend: cpu.New(),
	}
	return rule.PartialLeft(s), rule.PartialRight(s)
}

func TestAdd_Broadcast(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := raw(t, []float64{10}, tensor.Shape{1})
	out := backend.Add(a, b)

	ga, gb := binary(t, ops.Add{}, a, b, out, tensor.OnesLike(out))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, ga.AsFloat64())
	assert.Equal(t, tensor.Shape{1}, gb.Shape())
	assert.Equal(t, []float64{6}, gb.AsFloat64())
}

func TestSub(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2}, tensor.Shape{2})
	b := raw(t, []float64{3, 4}, tensor.Shape{2})
	g := raw(t, []float64{1, 2}, tensor.Shape{2})

	ga, gb := binary(t, ops.Sub{}, a, b, backend.Sub(a, b), g)
	assert.Equal(t, []float64{1, 2}, ga.AsFloat64())
	assert.Equal(t, []float64{-1, -2}, gb.AsFloat64())
}

func TestMul(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2, 3}, tensor.Shape{3})
	b := raw(t, []float64{4, 5, 6}, tensor.Shape{3})
	out := backend.Mul(a, b)

	ga, gb := binary(t, ops.Mul{}, a, b, out, tensor.OnesLike(out))
	assert.Equal(t, []float64{4, 5, 6}, ga.AsFloat64())
	assert.Equal(t, []float64{1, 2, 3}, gb.AsFloat64())
}

func TestMul_BroadcastColumn(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	col := raw(t, []float64{2, 3}, tensor.Shape{2, 1})
	out := backend.Mul(a, col)

	_, gc := binary(t, ops.Mul{}, a, col, out, tensor.OnesLike(out))
	assert.Equal(t, tensor.Shape{2, 1}, gc.Shape())
	assert.Equal(t, []float64{6, 15}, gc.AsFloat64())
}

func TestDiv(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{6, 8}, tensor.Shape{2})
	b := raw(t, []float64{2, 4}, tensor.Shape{2})
	out := backend.Div(a, b)

	ga, gb := binary(t, ops.Div{}, a, b, out, tensor.OnesLike(out))
	assert.InDeltaSlice(t, []float64{0.5, 0.25}, ga.AsFloat64(), 1e-12)
	// -a/b²
	assert.InDeltaSlice(t, []float64{-1.5, -0.5}, gb.AsFloat64(), 1e-12)
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := raw(t, []float64{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2})
	out := backend.MatMul(a, b)

	ga, gb := binary(t, ops.MatMul{}, a, b, out, tensor.OnesLike(out))
	assert.Equal(t, tensor.Shape{2, 3}, ga.Shape())
	assert.Equal(t, tensor.Shape{3, 2}, gb.Shape())
	// ones @ bᵀ: row sums of b
	assert.Equal(t, []float64{1, 1, 2, 1, 1, 2}, ga.AsFloat64())
	// aᵀ @ ones: column sums of a repeated
	assert.Equal(t, []float64{5, 5, 7, 7, 9, 9}, gb.AsFloat64())
}

func TestUnaryRules(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{-1, 0.5, 2}, tensor.Shape{3})
	g := raw(t, []float64{1, 2, 3}, tensor.Shape{3})
	xs := x.AsFloat64()
	gs := g.AsFloat64()

	expect := func(d func(v float64) float64) []float64 {
		out := make([]float64, len(xs))
		for i, v := range xs {
			out[i] = gs[i] * d(v)
		}
		return out
	}

	tests := []struct {
		name string
		rule graph.UnaryRule
		out  *tensor.RawTensor
		want []float64
	}{
		{"neg", ops.Neg{}, backend.Neg(x), []float64{-1, -2, -3}},
		{"mul_scalar", ops.MulScalar{Scalar: 3}, backend.MulScalar(x, 3), []float64{3, 6, 9}},
		{"add_scalar", ops.AddScalar{}, backend.AddScalar(x, 3), []float64{1, 2, 3}},
		{"exp", ops.Exp{}, backend.Exp(x), expect(math.Exp)},
		{"erf", ops.Erf{}, backend.Erf(x), expect(func(v float64) float64 {
			return 2 / math.Sqrt(math.Pi) * math.Exp(-v*v)
		})},
		{"tanh", ops.Tanh{}, backend.Tanh(x), expect(func(v float64) float64 {
			return 1 - math.Tanh(v)*math.Tanh(v)
		})},
		{"relu", ops.ReLU{}, backend.ReLU(x), []float64{0, 2, 3}},
		{"powf", ops.Powf{Exponent: 3}, backend.Powf(x, 3), expect(func(v float64) float64 {
			return 3 * v * v
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, unary(t, tt.rule, x, tt.out, g), 1e-9)
		})
	}
}

func TestLog(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 4}, tensor.Shape{3})
	got := unary(t, ops.Log{}, x, backend.Log(x), tensor.OnesLike(x))
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, got, 1e-12)
}

func TestReshape(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := backend.Reshape(x, tensor.Shape{3, 2})
	g := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

	got := unary(t, ops.Reshape{}, x, out, g)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, got)
}

func TestTranspose_InversePermutation(t *testing.T) {
	backend := cpu.New()
	data := make([]float64, 24)
	for i := range data {
		data[i] = float64(i)
	}
	x := raw(t, data, tensor.Shape{2, 3, 4})
	axes := []int{2, 0, 1}
	out := backend.Transpose(x, axes...)

	// Using the output itself as the gradient must give back x.
	got := unary(t, ops.Transpose{Axes: axes}, x, out, out)
	assert.Equal(t, data, got)
}

func TestSumAndMean(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	g := raw(t, []float64{2}, tensor.Shape{})

	assert.Equal(t, []float64{2, 2, 2, 2}, unary(t, ops.Sum{}, x, backend.Sum(x), g))
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, unary(t, ops.Mean{}, x, backend.Mean(x), g))
}

func TestSumDim(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	t.Run("drop dim", func(t *testing.T) {
		g := raw(t, []float64{1, 2}, tensor.Shape{2})
		got := unary(t, ops.SumDim{Dim: 1}, x, backend.SumDim(x, 1, false), g)
		assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, got)
	})

	t.Run("keep dim", func(t *testing.T) {
		g := raw(t, []float64{1, 2, 3}, tensor.Shape{1, 3})
		got := unary(t, ops.SumDim{Dim: 0, KeepDim: true}, x, backend.SumDim(x, 0, true), g)
		assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, got)
	})
}

func TestSoftmax(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 1, 1, 1}, tensor.Shape{2, 3})
	y := backend.Softmax(x, 1)

	t.Run("uniform grad vanishes", func(t *testing.T) {
		got := unary(t, ops.Softmax{Dim: 1}, x, y, tensor.OnesLike(y))
		assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 0, 0}, got, 1e-12)
	})

	t.Run("one-hot grad", func(t *testing.T) {
		g := raw(t, []float64{1, 0, 0, 0, 0, 0}, tensor.Shape{2, 3})
		got := unary(t, ops.Softmax{Dim: 1}, x, y, g)
		s := y.AsFloat64()
		want := []float64{s[0] * (1 - s[0]), -s[0] * s[1], -s[0] * s[2], 0, 0, 0}
		assert.InDeltaSlice(t, want, got, 1e-12)
	})
}

func TestCat(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2}, tensor.Shape{2, 1})
	b := raw(t, []float64{3, 4, 5, 6}, tensor.Shape{2, 2})
	out := backend.Cat([]*tensor.RawTensor{a, b}, 1)
	g := raw(t, []float64{10, 11, 12, 20, 21, 22}, tensor.Shape{2, 3})

	alloc := graph.NewAllocator()
	partials := ops.Cat{Dim: 1, Sizes: []int{1, 2}}.Partials(graph.NaryState{
		Inputs:  []*graph.NodeState{state(alloc, a), state(alloc, b)},
		Output:  state(alloc, out),
		Grad:    g,
		Backend: backend,
	})
	require.Len(t, partials, 2)
	assert.Equal(t, tensor.Shape{2, 1}, partials[0].Shape())
	assert.Equal(t, []float64{10, 20}, partials[0].AsFloat64())
	assert.Equal(t, []float64{11, 12, 21, 22}, partials[1].AsFloat64())
}

func TestIndex(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	ranges := []tensor.Range{{Start: 1, End: 2}, {Start: 0, End: 2}}
	out := backend.Index(x, ranges)
	g := raw(t, []float64{7, 8}, tensor.Shape{1, 2})

	got := unary(t, ops.Index{Ranges: ranges}, x, out, g)
	assert.Equal(t, []float64{0, 0, 0, 7, 8, 0}, got)
}

func TestIndexAssign(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4}, tensor.Shape{4})
	v := raw(t, []float64{9, 9}, tensor.Shape{2})
	ranges := []tensor.Range{{Start: 1, End: 3}}
	out := backend.IndexAssign(x, ranges, v)
	require.Equal(t, []float64{1, 9, 9, 4}, out.AsFloat64())

	g := raw(t, []float64{1, 2, 3, 4}, tensor.Shape{4})
	gx, gv := binary(t, ops.IndexAssign{Ranges: ranges}, x, v, out, g)
	assert.Equal(t, []float64{1, 0, 0, 4}, gx.AsFloat64())
	assert.Equal(t, []float64{2, 3}, gv.AsFloat64())
}

func TestMaskFill(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3}, tensor.Shape{3})
	mask := raw(t, []float64{0, 1, 0}, tensor.Shape{3})
	out := backend.MaskFill(x, mask, -1)
	require.Equal(t, []float64{1, -1, 3}, out.AsFloat64())

	g := raw(t, []float64{4, 5, 6}, tensor.Shape{3})
	assert.Equal(t, []float64{4, 0, 6}, unary(t, ops.MaskFill{Mask: mask}, x, out, g))
}
