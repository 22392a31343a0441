// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

// Package refmat holds naive reference implementations and operand builders
// shared by the driver tests. Everything here favors obviousness over speed.
package refmat

import (
	"math/rand"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/Fritzkefit/hostblas/view"
)

// Gemm is the triple-loop definition of C = alpha*op(A)*op(B) + beta*C.
// beta == 0 never reads C, matching the BLAS convention.
func Gemm[T hwy.Floats](a *view.Matrix[T], transA bool, b *view.Matrix[T], transB bool, c *view.Matrix[T], alpha, beta T) {
	m, k := a.Rows(), a.Cols()
	if transA {
		m, k = k, m
	}
	n := b.Cols()
	if transB {
		n = b.Rows()
	}

	opA := func(i, p int) T {
		if transA {
			return a.At(p, i)
		}
		return a.At(i, p)
	}
	opB := func(p, j int) T {
		if transB {
			return b.At(j, p)
		}
		return b.At(p, j)
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for p := 0; p < k; p++ {
				sum += opA(i, p) * opB(p, j)
			}
			if beta == 0 {
				c.Set(i, j, alpha*sum)
			} else {
				c.Set(i, j, beta*c.At(i, j)+alpha*sum)
			}
		}
	}
}

// Gemv is the double-loop definition of y = op(A)*x.
func Gemv[T hwy.Floats](a *view.Matrix[T], trans bool, x, y *view.Vector[T]) {
	outLen, inLen := a.Rows(), a.Cols()
	if trans {
		outLen, inLen = inLen, outLen
	}
	for r := 0; r < outLen; r++ {
		var sum T
		for p := 0; p < inLen; p++ {
			if trans {
				sum += a.At(p, r) * x.At(p)
			} else {
				sum += a.At(r, p) * x.At(p)
			}
		}
		y.Set(r, sum)
	}
}

// RandMatrix builds a dense rows x cols matrix filled with small random
// values in [-2, 2), drawn from rng so tests stay reproducible.
func RandMatrix[T hwy.Floats](rng *rand.Rand, rows, cols int, layout view.Layout) *view.Matrix[T] {
	data := make([]T, rows*cols)
	for i := range data {
		data[i] = T(rng.Float64()*4 - 2)
	}
	return view.NewMatrix(data, rows, cols, layout)
}

// RandStridedMatrix builds a rows x cols sub-view sitting inside a larger
// padded allocation with non-unit strides, exercising the general addressing
// path. The padding area is filled with a sentinel so reads outside the
// logical region are detectable.
func RandStridedMatrix[T hwy.Floats](rng *rand.Rand, rows, cols int, layout view.Layout, sentinel T) *view.Matrix[T] {
	const strideRow, strideCol = 2, 3
	padRows := 1 + rows*strideRow + 2
	padCols := 2 + cols*strideCol + 1
	data := make([]T, padRows*padCols)
	for i := range data {
		data[i] = sentinel
	}
	m := view.NewStridedMatrix(data, view.Spec{
		OffRow: 1, OffCol: 2,
		StrideRow: strideRow, StrideCol: strideCol,
		Rows: rows, Cols: cols,
		PadRows: padRows, PadCols: padCols,
		Layout: layout,
	})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, T(rng.Float64()*4-2))
		}
	}
	return m
}

// RandVector builds a dense random vector of the given length.
func RandVector[T hwy.Floats](rng *rand.Rand, n int) *view.Vector[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = T(rng.Float64()*4 - 2)
	}
	return view.NewVector(data, n)
}

// RandStridedVector builds a strided vector of the given length with the
// gaps filled by a sentinel.
func RandStridedVector[T hwy.Floats](rng *rand.Rand, n int, sentinel T) *view.Vector[T] {
	const inc = 3
	data := make([]T, 2+n*inc)
	for i := range data {
		data[i] = sentinel
	}
	v := view.NewStridedVector(data, 2, inc, n)
	for i := 0; i < n; i++ {
		v.Set(i, T(rng.Float64()*4-2))
	}
	return v
}

// CloneMatrix deep-copies a matrix into a fresh dense allocation with the
// same logical contents and layout.
func CloneMatrix[T hwy.Floats](m *view.Matrix[T]) *view.Matrix[T] {
	out := view.NewMatrix(make([]T, m.Rows()*m.Cols()), m.Rows(), m.Cols(), m.Layout())
	view.Assign(out, m)
	return out
}

// MaxAbsDiff returns the largest elementwise |a - b| over two equally shaped
// matrices.
func MaxAbsDiff[T hwy.Floats](a, b *view.Matrix[T]) float64 {
	var maxErr float64
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			d := float64(a.At(i, j) - b.At(i, j))
			if d < 0 {
				d = -d
			}
			if d > maxErr {
				maxErr = d
			}
		}
	}
	return maxErr
}

// MaxAbsDiffVec returns the largest elementwise |a - b| over two vectors.
func MaxAbsDiffVec[T hwy.Floats](a, b *view.Vector[T]) float64 {
	var maxErr float64
	for i := 0; i < a.Len(); i++ {
		d := float64(a.At(i) - b.At(i))
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}
