// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for the gradgraph engine.
//
// # Overview
//
// Tensors are the values that flow through a computation graph. This package provides:
//   - Generic type-safe tensors (Tensor[T, B]) over float32 and float64
//   - NumPy-style broadcasting for element-wise operations
//   - The Backend interface implemented by compute and decorator backends
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradgraph/backend/cpu"
//	    "github.com/born-ml/gradgraph/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	}
//
// Operations never mutate their inputs. Every result is a fresh tensor, which
// is what lets the autodiff backend keep forward values around for the
// backward pass.
package tensor
