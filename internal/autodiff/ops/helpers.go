package ops

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// reduceBroadcast sums grad back down to target when the forward op broadcast
// an input.
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, b tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	// Leading dimensions that the input did not have.
	for len(grad.Shape()) > len(target) {
		grad = b.SumDim(grad, 0, false)
	}

	for i, dim := range target {
		if dim == 1 && grad.Shape()[i] != 1 {
			grad = b.SumDim(grad, i, true)
		}
	}

	if !grad.Shape().Equal(target) {
		grad = b.Reshape(grad, target)
	}
	return grad
}

// expand broadcasts grad to the shape of like.
func expand(grad, like *tensor.RawTensor, b tensor.Backend) *tensor.RawTensor {
	return b.Mul(tensor.OnesLike(like), grad)
}

// positiveMask returns 1 where x > 0 and 0 elsewhere.
func positiveMask(x *tensor.RawTensor) *tensor.RawTensor {
	mask := tensor.ZerosLike(x)
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), mask.AsFloat32()
		for i, v := range src {
			if v > 0 {
				dst[i] = 1
			}
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), mask.AsFloat64()
		for i, v := range src {
			if v > 0 {
				dst[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}
	return mask
}

// inversePermutation returns p such that p[axes[i]] = i.
func inversePermutation(axes []int) []int {
	inv := make([]int, len(axes))
	for i, ax := range axes {
		inv[ax] = i
	}
	return inv
}
