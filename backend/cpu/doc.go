// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - Matrix multiplication through gonum
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradgraph/autodiff"
//	    "github.com/born-ml/gradgraph/backend/cpu"
//	    "github.com/born-ml/gradgraph/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    loss := x.Mul(x).Sum()
//	    grads := autodiff.Backward(loss)
//	    _ = autodiff.Grad(x, grads) // 2x
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Kernels never write into their
// arguments and large element-wise kernels are split across workers.
package cpu
