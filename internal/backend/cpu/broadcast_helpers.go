package cpu

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// broadcastStrides returns strides for reading inShape as if it had outShape.
// Padded and size-1 dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)
	offset := outDim - len(inShape)
	inStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		if inIdx < 0 || inShape[inIdx] == 1 {
			continue
		}
		strides[i] = inStrides[inIdx]
	}
	return strides
}

// sourceIndex maps a flat output index to the flat index of a broadcast input.
func sourceIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
