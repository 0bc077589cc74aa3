package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/gradgraph/internal/tensor"
)

func TestSum(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	got := backend.Sum(x)
	assert.Empty(t, got.Shape())
	assert.Equal(t, float32(10), got.AsFloat32()[0])

	got = backend.Mean(x)
	assert.Empty(t, got.Shape())
	assert.Equal(t, float32(2.5), got.AsFloat32()[0])
}

func TestSumDim_1D(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	result := backend.SumDim(x, 0, true)
	assert.Equal(t, tensor.Shape{1}, result.Shape())
	assert.Equal(t, float32(10), result.AsFloat32()[0])

	result = backend.SumDim(x, 0, false)
	assert.Empty(t, result.Shape())
	assert.Equal(t, float32(10), result.AsFloat32()[0])
}

func TestSumDim_2D(t *testing.T) {
	backend := New()
	x := raw64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	tests := []struct {
		name    string
		dim     int
		keepDim bool
		shape   tensor.Shape
		want    []float64
	}{
		{"first dim", 0, false, tensor.Shape{3}, []float64{5, 7, 9}},
		{"first dim keep", 0, true, tensor.Shape{1, 3}, []float64{5, 7, 9}},
		{"last dim", 1, false, tensor.Shape{2}, []float64{6, 15}},
		{"last dim keep", 1, true, tensor.Shape{2, 1}, []float64{6, 15}},
		{"negative dim", -1, false, tensor.Shape{2}, []float64{6, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := backend.SumDim(x, tt.dim, tt.keepDim)
			assert.Equal(t, tt.shape, got.Shape())
			assert.Equal(t, tt.want, got.AsFloat64())
		})
	}
}

func TestSumDim_3D(t *testing.T) {
	backend := New()
	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	x := raw32(t, data, tensor.Shape{2, 3, 4})

	got := backend.SumDim(x, 1, false)
	assert.Equal(t, tensor.Shape{2, 4}, got.Shape())
	// out[0][0] = 0 + 4 + 8
	assert.Equal(t, float32(12), got.AsFloat32()[0])
	// out[1][3] = 15 + 19 + 23
	assert.Equal(t, float32(57), got.AsFloat32()[7])
}

func TestSumDim_InvalidDimPanics(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2}, tensor.Shape{2})
	assert.Panics(t, func() { backend.SumDim(x, 1, false) })
}
