package cpu

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Cat concatenates tensors along dim. All other dimensions must match.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors")
	}
	first := tensors[0]
	ndim := len(first.Shape())
	dim = normalizeDim("cat", dim, ndim)

	outShape := first.Shape().Clone()
	outShape[dim] = 0
	for i, t := range tensors {
		checkDType("cat", first, t)
		shape := t.Shape()
		if len(shape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(shape), ndim))
		}
		for d := range shape {
			if d != dim && shape[d] != outShape[d] {
				panic(fmt.Sprintf("cat: tensor %d shape %v incompatible with %v at dimension %d",
					i, shape, first.Shape(), d))
			}
		}
		outShape[dim] += shape[dim]
	}

	result := cpu.alloc("cat", outShape, first.DType())
	dst := result.Data()
	es := first.DType().Size()
	offset := make([]int, ndim)
	for _, t := range tensors {
		src := t.Data()
		boxRows(outShape, offset, t.Shape(), func(full, box, n int) {
			copy(dst[full*es:(full+n)*es], src[box*es:(box+n)*es])
		})
		offset[dim] += t.Shape()[dim]
	}
	return result
}

// Index returns the box of x selected by ranges.
func (cpu *CPUBackend) Index(x *tensor.RawTensor, ranges []tensor.Range) *tensor.RawTensor {
	offset, size, err := tensor.ResolveRanges(x.Shape(), ranges)
	if err != nil {
		panic(fmt.Sprintf("index: %v", err))
	}

	result := cpu.alloc("index", size, x.DType())
	dst, src := result.Data(), x.Data()
	es := x.DType().Size()
	boxRows(x.Shape(), offset, size, func(full, box, n int) {
		copy(dst[box*es:(box+n)*es], src[full*es:(full+n)*es])
	})
	return result
}

// IndexAssign returns a copy of x whose box selected by ranges holds values.
func (cpu *CPUBackend) IndexAssign(x *tensor.RawTensor, ranges []tensor.Range, values *tensor.RawTensor) *tensor.RawTensor {
	checkDType("index_assign", x, values)
	offset, size, err := tensor.ResolveRanges(x.Shape(), ranges)
	if err != nil {
		panic(fmt.Sprintf("index_assign: %v", err))
	}
	if !values.Shape().Equal(size) {
		panic(fmt.Sprintf("index_assign: values shape %v does not match selection %v", values.Shape(), size))
	}

	result := cpu.alloc("index_assign", x.Shape(), x.DType())
	dst, src := result.Data(), values.Data()
	copy(dst, x.Data())
	es := x.DType().Size()
	boxRows(x.Shape(), offset, size, func(full, box, n int) {
		copy(dst[full*es:(full+n)*es], src[box*es:(box+n)*es])
	})
	return result
}

// MaskFill returns a copy of x holding value wherever mask is non-zero.
func (cpu *CPUBackend) MaskFill(x, mask *tensor.RawTensor, value float64) *tensor.RawTensor {
	checkDType("mask_fill", x, mask)
	if !x.Shape().Equal(mask.Shape()) {
		panic(fmt.Sprintf("mask_fill: mask shape %v does not match %v", mask.Shape(), x.Shape()))
	}

	result := cpu.alloc("mask_fill", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		maskFill(view[float32](result), view[float32](x), view[float32](mask), float32(value))
	case tensor.Float64:
		maskFill(view[float64](result), view[float64](x), view[float64](mask), value)
	default:
		panic(fmt.Sprintf("mask_fill: unsupported dtype %s", x.DType()))
	}
	return result
}

func maskFill[T float](dst, src, mask []T, value T) {
	for i, m := range mask {
		if m != 0 {
			dst[i] = value
		} else {
			dst[i] = src[i]
		}
	}
}

// boxRows walks the contiguous rows of the box (offset, size) inside a tensor of
// the given shape. f receives the flat element index in the full tensor, the
// flat element index in the box, and the row length.
func boxRows(shape tensor.Shape, offset []int, size tensor.Shape, f func(full, box, n int)) {
	if len(shape) == 0 {
		f(0, 0, 1)
		return
	}
	strides := shape.ComputeStrides()
	last := len(shape) - 1
	rowLen := size[last]
	rows := size[:last].NumElements()
	coord := make([]int, last)

	for r := 0; r < rows; r++ {
		full := offset[last]
		for d := 0; d < last; d++ {
			full += (offset[d] + coord[d]) * strides[d]
		}
		f(full, r*rowLen, rowLen)

		for d := last - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < size[d] {
				break
			}
			coord[d] = 0
		}
	}
}

func normalizeDim(op string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: invalid dimension %d for %dD tensor", op, dim, ndim))
	}
	return dim
}
