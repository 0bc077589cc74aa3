package tensor

// Backend defines the numeric contract every compute backend implements.
//
// The autodiff engine only ever talks to this interface: forward kernels and
// the analytic gradient rules are both expressed through it, so the same graph
// machinery drives any backend.
//
// Backends must never write into their arguments. Results are always fresh
// tensors.
type Backend interface {
	// Element-wise binary operations with broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	AddScalar(x *RawTensor, scalar float64) *RawTensor

	// Element-wise math
	Neg(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Erf(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor
	Powf(x *RawTensor, exponent float64) *RawTensor

	// Reductions
	Sum(x *RawTensor) *RawTensor                           // total sum, shape []
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension
	Mean(x *RawTensor) *RawTensor                          // total mean, shape []

	// Softmax normalizes exp(x) along dim.
	Softmax(x *RawTensor, dim int) *RawTensor

	// Slicing and assembly
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Index(x *RawTensor, ranges []Range) *RawTensor
	IndexAssign(x *RawTensor, ranges []Range, values *RawTensor) *RawTensor // copy of x with the box replaced

	// MaskFill returns a copy of x with value wherever mask is non-zero.
	// mask has the shape of x.
	MaskFill(x, mask *RawTensor, value float64) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
