package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/gradgraph/internal/parallel"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unary("mul_scalar", x, func(v float64) float64 { return v * scalar })
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unary("add_scalar", x, func(v float64) float64 { return v + scalar })
}

// Neg negates every element.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("neg", x, func(v float64) float64 { return -v })
}

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, math.Exp)
}

// Log computes the natural logarithm element-wise.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, math.Log)
}

// Erf computes the Gauss error function element-wise.
func (cpu *CPUBackend) Erf(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("erf", x, math.Erf)
}

// Tanh computes the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math.Tanh)
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float64) float64 { return max(v, 0) })
}

// Powf raises every element to exponent.
func (cpu *CPUBackend) Powf(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return cpu.unary("powf", x, func(v float64) float64 { return math.Pow(v, exponent) })
}

func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	checkDType(op, a, b)
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.alloc(op, outShape, a.DType())
	switch a.DType() {
	case tensor.Float32:
		binaryKernel(view[float32](result), view[float32](a), view[float32](b),
			a.Shape(), b.Shape(), outShape, needsBroadcast, f, cpu.par)
	case tensor.Float64:
		binaryKernel(view[float64](result), view[float64](a), view[float64](b),
			a.Shape(), b.Shape(), outShape, needsBroadcast, f, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

func binaryKernel[T float](dst, a, b []T, aShape, bShape, outShape tensor.Shape,
	broadcast bool, f func(x, y float64) float64, cfg parallel.Config,
) {
	if !broadcast {
		parallel.For(len(dst), func(i int) {
			dst[i] = T(f(float64(a[i]), float64(b[i])))
		}, cfg)
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	parallel.For(len(dst), func(i int) {
		av := a[sourceIndex(i, outStrides, aStrides)]
		bv := b[sourceIndex(i, outStrides, bStrides)]
		dst[i] = T(f(float64(av), float64(bv)))
	}, cfg)
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := cpu.alloc(op, x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		unaryKernel(view[float32](result), view[float32](x), f, cpu.par)
	case tensor.Float64:
		unaryKernel(view[float64](result), view[float64](x), f, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

func unaryKernel[T float](dst, src []T, f func(float64) float64, cfg parallel.Config) {
	parallel.For(len(dst), func(i int) {
		dst[i] = T(f(float64(src[i])))
	}, cfg)
}
