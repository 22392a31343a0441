// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

// Package gemm implements the blocked general matrix-matrix multiply
//
//	C = alpha*op(A)*op(B) + beta*C
//
// over strided views. The driver packs cache blocks of the operands into
// contiguous sliver buffers, runs a register-blocked SIMD microkernel over
// the packed panels, and writes tiles back through the output view. The
// outer loop over N-blocks is the sole parallel axis: workers own disjoint
// column ranges of C, so no write to C is ever synchronized.
package gemm

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
}

type config struct {
	kind KernelKind
	bs   *BlockSizes
}

// Option adjusts one multiply call.
type Option func(*config)

// WithKernel forces a microkernel back-end instead of the automatic choice.
func WithKernel(kind KernelKind) Option {
	return func(c *config) { c.kind = kind }
}

// WithBlockSizes overrides the planner. The record must satisfy the
// divisibility invariants (MC%MR == 0, NC%NR == 0, all positive).
func WithBlockSizes(bs BlockSizes) Option {
	return func(c *config) { c.bs = &bs }
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C, mutating c in place.
//
// op(A) is a when transA is false and a's transpose otherwise; likewise for
// op(B). Shapes must satisfy op(A): m x k, op(B): k x n, C: m x n; Gemm
// panics on mismatch before touching any data. This is the only validation;
// the blocked loops assume checked inputs.
//
// A zero-sized multiply (m, n, or k zero) returns immediately with C
// untouched. beta == 0 never reads existing C values, so C may start
// uninitialized or NaN-filled. beta is applied to each element of C exactly
// once, at the first K-block contributing to its tile.
//
// Workers claim whole N-blocks; each owns every row of C within its columns,
// and distinct workers never share a column. Pack buffers and the
// accumulator tile are worker-private, allocated once per worker and
// re-filled across block iterations.
func Gemm[T hwy.Floats](pool Pool, a *view.Matrix[T], transA bool, b *view.Matrix[T], transB bool, c *view.Matrix[T], alpha, beta T, opts ...Option) {
	m, k := a.Rows(), a.Cols()
	if transA {
		m, k = k, m
	}
	kB, n := b.Rows(), b.Cols()
	if transB {
		kB, n = n, kB
	}
	if k != kB {
		panic(fmt.Sprintf("gemm: shared dimension mismatch: op(A) is %dx%d, op(B) is %dx%d", m, k, kB, n))
	}
	if c.Rows() != m || c.Cols() != n {
		panic(fmt.Sprintf("gemm: C is %dx%d, product is %dx%d", c.Rows(), c.Cols(), m, n))
	}

	if m == 0 || n == 0 || k == 0 {
		return
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var bs BlockSizes
	if cfg.bs != nil {
		bs = *cfg.bs
		if !bs.valid() {
			panic("gemm: invalid block sizes")
		}
	} else {
		bs = blockSizesFor[T](m, k, n, cfg.kind)
	}
	kern := kernelFor[T](cfg.kind, bs.MR, bs.NR)

	numBlocksN := ceilDiv(n, bs.NC)
	numBlocksM := ceilDiv(m, bs.MC)
	numBlocksK := ceilDiv(k, bs.KC)

	// One worker invocation handles N-blocks [nbStart, nbEnd). Buffers are
	// private to the invocation and reused across every block it iterates.
	run := func(nbStart, nbEnd int) {
		packedA := make([]T, bs.MC*bs.KC)
		packedB := make([]T, bs.KC*bs.NC)
		acc := make([]T, bs.MR*bs.NR)

		for nb := nbStart; nb < nbEnd; nb++ {
			colStart := nb * bs.NC
			nSize := min(bs.NC, n-colStart)
			numSliversB := ceilDiv(nSize, bs.NR)

			for kb := 0; kb < numBlocksK; kb++ {
				kStart := kb * bs.KC
				depth := min(bs.KC, k-kStart)
				packB(packedB, kStart, colStart, bs.KC, bs.NC, bs.NR, b, transB)

				for mb := 0; mb < numBlocksM; mb++ {
					rowStart := mb * bs.MC
					mSize := min(bs.MC, m-rowStart)
					numSliversA := ceilDiv(mSize, bs.MR)
					packA(packedA, rowStart, kStart, bs.MC, bs.KC, bs.MR, a, transA)

					for sb := 0; sb < numSliversB; sb++ {
						tileCol := colStart + sb*bs.NR
						tileCols := min(bs.NR, n-tileCol)

						for sa := 0; sa < numSliversA; sa++ {
							tileRow := rowStart + sa*bs.MR
							tileRows := min(bs.MR, m-tileRow)

							clear(acc)
							kern(packedA[sa*bs.MR*bs.KC:], packedB[sb*bs.NR*bs.KC:], acc, depth, bs.MR, bs.NR)
							writeTile(c, acc, tileRow, tileCol, tileRows, tileCols, bs.NR, alpha, beta, kb == 0)
						}
					}
				}
			}
		}
	}

	if pool == nil {
		run(0, numBlocksN)
		return
	}
	pool.ParallelFor(numBlocksN, run)
}

// writeTile combines one accumulator tile into C. The beta-vs-accumulate
// choice is made here, once per tile, not per element:
//
//   - first K-block, beta != 0: C = beta*C + alpha*acc
//   - first K-block, beta == 0: C = alpha*acc (existing C never read)
//   - later K-blocks: C += alpha*acc, beta having been applied already
//
// rows and cols are the true tile bounds, clamped by the caller so residue
// tiles never write past the logical matrix.
func writeTile[T hwy.Floats](c *view.Matrix[T], acc []T, row0, col0, rows, cols, nr int, alpha, beta T, firstK bool) {
	data := c.Data()
	switch {
	case firstK && beta != 0:
		for i := 0; i < rows; i++ {
			ti := acc[i*nr : i*nr+cols]
			for j, v := range ti {
				idx := c.Index(row0+i, col0+j)
				data[idx] = beta*data[idx] + alpha*v
			}
		}
	case firstK:
		for i := 0; i < rows; i++ {
			ti := acc[i*nr : i*nr+cols]
			for j, v := range ti {
				data[c.Index(row0+i, col0+j)] = alpha * v
			}
		}
	default:
		for i := 0; i < rows; i++ {
			ti := acc[i*nr : i*nr+cols]
			for j, v := range ti {
				data[c.Index(row0+i, col0+j)] += alpha * v
			}
		}
	}
}
