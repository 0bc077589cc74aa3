package tensor

func (t *Tensor[T, B]) wrap(raw *RawTensor) *Tensor[T, B] {
	return New[T, B](raw, t.backend)
}

// Add performs element-wise addition with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Add(t.raw, other.raw))
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Sub(t.raw, other.raw))
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Mul(t.raw, other.raw))
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Div(t.raw, other.raw))
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.MatMul(t.raw, other.raw))
}

// Reshape returns a tensor with the same data but a different shape.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	return t.wrap(t.backend.Reshape(t.raw, Shape(newShape)))
}

// Transpose permutes dimensions. With no axes, all dimensions are reversed.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return t.wrap(t.backend.Transpose(t.raw, axes...))
}

// T is a shortcut for 2D transpose.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// MulScalar multiplies every element by s.
func (t *Tensor[T, B]) MulScalar(s T) *Tensor[T, B] {
	return t.wrap(t.backend.MulScalar(t.raw, float64(s)))
}

// AddScalar adds s to every element.
func (t *Tensor[T, B]) AddScalar(s T) *Tensor[T, B] {
	return t.wrap(t.backend.AddScalar(t.raw, float64(s)))
}

// Neg returns -t.
func (t *Tensor[T, B]) Neg() *Tensor[T, B] {
	return t.wrap(t.backend.Neg(t.raw))
}

// Exp returns e^t element-wise.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return t.wrap(t.backend.Exp(t.raw))
}

// Log returns the natural logarithm element-wise.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return t.wrap(t.backend.Log(t.raw))
}

// Erf returns the Gauss error function element-wise.
func (t *Tensor[T, B]) Erf() *Tensor[T, B] {
	return t.wrap(t.backend.Erf(t.raw))
}

// Tanh returns the hyperbolic tangent element-wise.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	return t.wrap(t.backend.Tanh(t.raw))
}

// ReLU returns max(0, t) element-wise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return t.wrap(t.backend.ReLU(t.raw))
}

// Powf raises every element to the given exponent.
func (t *Tensor[T, B]) Powf(exponent float64) *Tensor[T, B] {
	return t.wrap(t.backend.Powf(t.raw, exponent))
}

// Sum reduces all elements to a scalar tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return t.wrap(t.backend.Sum(t.raw))
}

// SumDim sums along dim.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return t.wrap(t.backend.SumDim(t.raw, dim, keepDim))
}

// Mean reduces all elements to their mean.
func (t *Tensor[T, B]) Mean() *Tensor[T, B] {
	return t.wrap(t.backend.Mean(t.raw))
}

// Softmax normalizes exp(t) along dim so that every slice sums to one.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return t.wrap(t.backend.Softmax(t.raw, dim))
}

// Index returns the box selected by ranges. Dimensions without a range are
// kept whole.
//
// Example:
//
//	x.Index(tensor.Range{Start: 0, End: 2}, tensor.Range{Start: 1, End: 3})
func (t *Tensor[T, B]) Index(ranges ...Range) *Tensor[T, B] {
	return t.wrap(t.backend.Index(t.raw, ranges))
}

// IndexAssign returns a copy of t whose box selected by ranges holds values.
func (t *Tensor[T, B]) IndexAssign(ranges []Range, values *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.IndexAssign(t.raw, ranges, values.raw))
}

// MaskFill returns a copy of t holding value wherever mask is non-zero.
func (t *Tensor[T, B]) MaskFill(mask *Tensor[T, B], value T) *Tensor[T, B] {
	return t.wrap(t.backend.MaskFill(t.raw, mask.raw, float64(value)))
}

// Cat concatenates tensors along dim. All other dimensions must match.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: no tensors")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	first := tensors[0]
	return first.wrap(first.backend.Cat(raws, dim))
}
