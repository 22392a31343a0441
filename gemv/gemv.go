// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

// Package gemv implements the matrix-vector multiply y = op(A)*x over
// strided views. Unlike the matrix-matrix path it does not pack: each
// layout x transpose combination gets its own loop order so the matrix is
// always walked sequentially in memory.
//
// Two parallel shapes exist. When every output element is an independent
// dot product (row-major untransposed, column-major transposed), rows are
// simply split across workers. In the other two combinations every output
// element receives contributions from the whole scanned dimension, so each
// worker accumulates into a private full-length scratch vector and a
// single-threaded reduction after the join sums the scratch vectors into y.
package gemv

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/Fritzkefit/hostblas/view"
)

// Pool runs a data-parallel for over a known index range, joining before it
// returns. *workerpool.Pool from go-highway satisfies it. A nil Pool runs
// the multiply on the calling goroutine.
type Pool interface {
	ParallelFor(n int, fn func(start, end int))
	NumWorkers() int
}

// Gemv computes y = op(A)*x, mutating y. op(A) is a when trans is false and
// a's transpose otherwise. Panics if x does not match op(A)'s columns or y
// op(A)'s rows; this is the only validation.
//
// y is fully overwritten. A zero-length scanned dimension yields a zero y.
func Gemv[T hwy.Floats](pool Pool, a *view.Matrix[T], trans bool, x, y *view.Vector[T]) {
	outLen, inLen := a.Rows(), a.Cols()
	if trans {
		outLen, inLen = inLen, outLen
	}
	if x.Len() != inLen {
		panic(fmt.Sprintf("gemv: x has %d elements, op(A) has %d columns", x.Len(), inLen))
	}
	if y.Len() != outLen {
		panic(fmt.Sprintf("gemv: y has %d elements, op(A) has %d rows", y.Len(), outLen))
	}
	if outLen == 0 {
		return
	}

	// Row-major untransposed and column-major transposed both reduce along
	// the contiguous dimension: independent dot products, no shared state.
	if trans != a.RowMajor() {
		dotDriver(pool, a, trans, x, y, outLen, inLen)
		return
	}
	accumDriver(pool, a, trans, x, y, outLen, inLen)
}

// dotDriver computes each output element as a dot product over the scanned
// dimension, splitting output elements across workers.
func dotDriver[T hwy.Floats](pool Pool, a *view.Matrix[T], trans bool, x, y *view.Vector[T], outLen, inLen int) {
	data := a.Data()
	var scanStep int
	if trans {
		scanStep = a.RowStep()
	} else {
		scanStep = a.ColStep()
	}
	xSlice, xContig := x.Contiguous()

	run := func(start, end int) {
		for r := start; r < end; r++ {
			var idx0 int
			if trans {
				idx0 = a.Index(0, r)
			} else {
				idx0 = a.Index(r, 0)
			}
			var sum T
			if scanStep == 1 && xContig {
				sum = dotSlices(data[idx0:idx0+inLen], xSlice)
			} else {
				for p := 0; p < inLen; p++ {
					sum += data[idx0+p*scanStep] * x.At(p)
				}
			}
			y.Set(r, sum)
		}
	}
	if pool == nil {
		run(0, outLen)
		return
	}
	pool.ParallelFor(outLen, run)
}

// accumDriver handles the combinations where output elements are built from
// contributions across the scanned dimension. Workers split the scanned
// dimension, each accumulating into a private result-length scratch vector;
// after the implicit join, a single-threaded reduction sums the scratch
// vectors into y. The scratch is O(workers x outLen), trading memory for
// lock-free accumulation.
func accumDriver[T hwy.Floats](pool Pool, a *view.Matrix[T], trans bool, x, y *view.Vector[T], outLen, inLen int) {
	y.Fill(0)
	if inLen == 0 {
		return
	}

	workers := 1
	if pool != nil {
		workers = min(pool.NumWorkers(), inLen)
	}

	if workers <= 1 {
		if ySlice, ok := y.Contiguous(); ok {
			accumRange(a, trans, x, ySlice, 0, inLen, outLen)
		} else {
			scratch := make([]T, outLen)
			accumRange(a, trans, x, scratch, 0, inLen, outLen)
			for j := 0; j < outLen; j++ {
				y.Set(j, scratch[j])
			}
		}
		return
	}

	scratch := make([]T, workers*outLen)
	// One chunk per worker slot; ParallelFor hands each index range to some
	// worker, and chunk w only ever touches its own scratch row.
	pool.ParallelFor(workers, func(start, end int) {
		for w := start; w < end; w++ {
			lo := w * inLen / workers
			hi := (w + 1) * inLen / workers
			accumRange(a, trans, x, scratch[w*outLen:(w+1)*outLen], lo, hi, outLen)
		}
	})

	for w := 0; w < workers; w++ {
		row := scratch[w*outLen : (w+1)*outLen]
		for j, v := range row {
			y.Set(j, y.At(j)+v)
		}
	}
}

// accumRange folds scanned indices [lo, hi) of op(A) into out:
// out[j] += op(A)[j][s] * x[s]. The matrix walk along j is sequential in
// memory for the combinations routed here.
func accumRange[T hwy.Floats](a *view.Matrix[T], trans bool, x *view.Vector[T], out []T, lo, hi, outLen int) {
	data := a.Data()
	var outStep int
	if trans {
		outStep = a.ColStep()
	} else {
		outStep = a.RowStep()
	}

	for s := lo; s < hi; s++ {
		xs := x.At(s)
		var idx0 int
		if trans {
			idx0 = a.Index(s, 0)
		} else {
			idx0 = a.Index(0, s)
		}
		if outStep == 1 {
			axpySlices(out, data[idx0:idx0+outLen], xs)
			continue
		}
		for j := 0; j < outLen; j++ {
			out[j] += data[idx0+j*outStep] * xs
		}
	}
}

// dotSlices is the contiguous fast path: sum of a[i]*b[i] with vector
// accumulation and a scalar tail.
func dotSlices[T hwy.Floats](a, b []T) T {
	lanes := hwy.MaxLanes[T]()
	n := len(a)

	acc := hwy.Zero[T]()
	var i int
	for ; i+lanes <= n; i += lanes {
		acc = hwy.MulAdd(hwy.Load(a[i:]), hwy.Load(b[i:]), acc)
	}
	sum := hwy.ReduceSum(acc)
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// axpySlices is the contiguous fast path: dst[i] += src[i]*s.
func axpySlices[T hwy.Floats](dst, src []T, s T) {
	lanes := hwy.MaxLanes[T]()
	n := len(src)
	vS := hwy.Set(s)

	var i int
	for ; i+lanes <= n; i += lanes {
		hwy.Store(hwy.MulAdd(vS, hwy.Load(src[i:]), hwy.Load(dst[i:])), dst[i:])
	}
	for ; i < n; i++ {
		dst[i] += src[i] * s
	}
}
