package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sum reduces all elements to a scalar tensor (shape []).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.scalarResult("sum", x, sumAll(x))
}

// Mean reduces all elements to their mean (shape []).
func (cpu *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.scalarResult("mean", x, sumAll(x)/float64(x.NumElements()))
}

// SumDim sums along dim. With keepDim the reduced dimension is kept with size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sum_dim: invalid dimension %d for shape %v", dim, shape))
	}

	outer := shape[:dim].NumElements()
	size := shape[dim]
	inner := shape[dim+1:].NumElements()

	outShape := reducedShape(shape, dim, keepDim)
	result := cpu.alloc("sum_dim", outShape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		sumAlong(view[float32](result), view[float32](x), outer, size, inner)
	case tensor.Float64:
		sumAlong(view[float64](result), view[float64](x), outer, size, inner)
	default:
		panic(fmt.Sprintf("sum_dim: unsupported dtype %s", x.DType()))
	}
	return result
}

func (cpu *CPUBackend) scalarResult(op string, x *tensor.RawTensor, v float64) *tensor.RawTensor {
	result := cpu.alloc(op, tensor.Shape{}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(v)
	case tensor.Float64:
		result.AsFloat64()[0] = v
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

func sumAll(x *tensor.RawTensor) float64 {
	if x.DType() == tensor.Float64 {
		return floats.Sum(x.AsFloat64())
	}
	return floats.Sum(x.Float64s())
}

func sumAlong[T float](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var s float64
			for k := 0; k < size; k++ {
				s += float64(src[(o*size+k)*inner+i])
			}
			dst[o*inner+i] = T(s)
		}
	}
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	out = append(out, shape[:dim]...)
	return append(out, shape[dim+1:]...)
}
