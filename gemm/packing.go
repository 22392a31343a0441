// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemm

import (
	"github.com/ajroetker/go-highway/hwy"

	"github.com/Fritzkefit/hostblas/view"
)

// Packing copies one cache block of an operand into a contiguous scratch
// buffer laid out as register-width slivers, absorbing the source's layout
// and transpose so the microkernel always streams linearly.
//
// A-side layout: ceil(mc/mr) slivers of mr rows each, sliver s at a fixed
// offset s*mr*kc; within a sliver, depth-major with the mr row values
// contiguous per depth step (packedA[s*mr*kc + p*mr + i]).
//
// B-side layout mirrors it with nr-column slivers
// (packedB[s*nr*kc + p*nr + j]).
//
// Blocks at the edge of a dimension are packed with their true smaller size
// only. Slots of a partial sliver beyond the true rows/cols/depth are left
// unwritten; the driver clamps the tile write-back window, so stale scratch
// contents never reach C.

// packA packs the logical sub-block op(A)[rowStart:rowStart+mc,
// kStart:kStart+kc], clamped to op(A)'s true shape. op(A) is src when trans
// is false and its transpose otherwise.
func packA[T hwy.Floats](dst []T, rowStart, kStart, mc, kc, mr int, src *view.Matrix[T], trans bool) {
	m, k := src.Rows(), src.Cols()
	if trans {
		m, k = k, m
	}
	rows := min(mc, m-rowStart)
	depth := min(kc, k-kStart)

	data := src.Data()
	var rowStep int
	if trans {
		rowStep = src.ColStep()
	} else {
		rowStep = src.RowStep()
	}

	numSlivers := ceilDiv(rows, mr)
	for s := 0; s < numSlivers; s++ {
		base := s * mr * kc
		r0 := rowStart + s*mr
		rEff := min(mr, rows-s*mr)
		for p := 0; p < depth; p++ {
			var idx0 int
			if trans {
				idx0 = src.Index(kStart+p, r0)
			} else {
				idx0 = src.Index(r0, kStart+p)
			}
			out := dst[base+p*mr : base+p*mr+rEff]
			if rowStep == 1 {
				copy(out, data[idx0:idx0+rEff])
				continue
			}
			for i := range out {
				out[i] = data[idx0+i*rowStep]
			}
		}
	}
}

// packB packs the logical sub-block op(B)[kStart:kStart+kc,
// colStart:colStart+nc], clamped to op(B)'s true shape, as nr-column slivers.
func packB[T hwy.Floats](dst []T, kStart, colStart, kc, nc, nr int, src *view.Matrix[T], trans bool) {
	k, n := src.Rows(), src.Cols()
	if trans {
		k, n = n, k
	}
	depth := min(kc, k-kStart)
	cols := min(nc, n-colStart)

	data := src.Data()
	var colStep int
	if trans {
		colStep = src.RowStep()
	} else {
		colStep = src.ColStep()
	}

	numSlivers := ceilDiv(cols, nr)
	for s := 0; s < numSlivers; s++ {
		base := s * nr * kc
		c0 := colStart + s*nr
		cEff := min(nr, cols-s*nr)
		for p := 0; p < depth; p++ {
			var idx0 int
			if trans {
				idx0 = src.Index(c0, kStart+p)
			} else {
				idx0 = src.Index(kStart+p, c0)
			}
			out := dst[base+p*nr : base+p*nr+cEff]
			if colStep == 1 {
				copy(out, data[idx0:idx0+cEff])
				continue
			}
			for j := range out {
				out[j] = data[idx0+j*colStep]
			}
		}
	}
}
