package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Softmax normalizes exp(x) along dim. The row maximum is subtracted first so
// large logits do not overflow.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("softmax", dim, len(shape))

	outer := shape[:dim].NumElements()
	size := shape[dim]
	inner := shape[dim+1:].NumElements()

	result := cpu.alloc("softmax", shape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		softmaxAlong(view[float32](result), view[float32](x), outer, size, inner)
	case tensor.Float64:
		softmaxAlong(view[float64](result), view[float64](x), outer, size, inner)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}
	return result
}

func softmaxAlong[T float](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			at := func(k int) int { return (o*size+k)*inner + i }

			peak := math.Inf(-1)
			for k := 0; k < size; k++ {
				peak = math.Max(peak, float64(src[at(k)]))
			}
			var sum float64
			for k := 0; k < size; k++ {
				e := math.Exp(float64(src[at(k)]) - peak)
				dst[at(k)] = T(e)
				sum += e
			}
			for k := 0; k < size; k++ {
				dst[at(k)] = T(float64(dst[at(k)]) / sum)
			}
		}
	}
}
