package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// The product itself is computed by gonum.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkDType("matmul", a, b)
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := cpu.alloc("matmul", tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float64:
		// gonum reads and writes the tensor buffers directly.
		c := mat.NewDense(m, n, result.AsFloat64())
		c.Mul(mat.NewDense(m, k, a.AsFloat64()), mat.NewDense(k, n, b.AsFloat64()))
	case tensor.Float32:
		var c mat.Dense
		c.Mul(mat.NewDense(m, k, a.Float64s()), mat.NewDense(k, n, b.Float64s()))
		out := result.AsFloat32()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				out[i*n+j] = float32(c.At(i, j))
			}
		}
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}
