package tensor

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// OnesLike returns a raw tensor of ones with the same shape and dtype as r.
// Used to seed a backward pass.
func OnesLike(r *RawTensor) *RawTensor {
	out, err := NewRaw(r.Shape(), r.DType(), r.Device())
	if err != nil {
		panic(err)
	}
	switch r.DType() {
	case Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	}
	return out
}

// ZerosLike returns a raw tensor of zeros with the same shape and dtype as r.
func ZerosLike(r *RawTensor) *RawTensor {
	out, err := NewRaw(r.Shape(), r.DType(), r.Device())
	if err != nil {
		panic(err)
	}
	return out
}
