// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemm

import (
	"unsafe"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/klauspost/cpuid/v2"
)

// BlockSizes carries the two tiers of blocking parameters for one multiply:
// cache-block sizes MC, KC, NC and register-block sizes MR, NR.
// MC is always a multiple of MR and NC a multiple of NR, so only the last
// block along a dimension can hold partial slivers.
type BlockSizes struct {
	MC, KC, NC int
	MR, NR     int
}

// Cache budgets for the packing working sets. Discovered once at startup;
// the fallbacks cover virtualized environments where cpuid reports nothing.
var (
	l1dBytes = cacheSize(cpuid.CPU.Cache.L1D, 32<<10)
	l2Bytes  = cacheSize(cpuid.CPU.Cache.L2, 512<<10)
)

func cacheSize(detected, fallback int) int {
	if detected <= 0 {
		return fallback
	}
	return detected
}

// microTileRows is the register-tile row count MR. Four rows keeps the
// accumulator at 8 vector registers for the wide kernel (4 rows x 2 vectors).
const microTileRows = 4

// nColumnsTarget is the default NC before rounding and clamping. It bounds
// the packed B block (KC x NC) and keeps enough N-blocks in flight for the
// parallel loop to spread across workers.
const nColumnsTarget = 512

// blockSizesFor computes the blocking parameters for an m x k x n multiply
// of element type T. Deterministic for fixed sizes, kernel kind, and machine.
//
// NR matches the register tile of the selected kernel back-end: two vector
// widths for the wide kernel, one for the narrow kernel. KC is sized so one
// A sliver (MR x KC) and one B sliver (KC x NR) stay within half the L1 data
// cache; MC so the packed A block (MC x KC) stays within half of L2.
//
// Block sizes are clamped toward the problem dimensions. MC and NC are kept
// multiples of MR and NR, so a clamp may round up past a dimension that is
// not itself a multiple; the residue handling in the driver and packer bounds
// all work by the true sizes.
func blockSizesFor[T hwy.Floats](m, k, n int, kind KernelKind) BlockSizes {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	lanes := hwy.MaxLanes[T]()

	nr := 2 * lanes
	if kind == KernelVector1 {
		nr = lanes
	}
	mr := microTileRows

	kc := l1dBytes / (2 * elem * (mr + nr))
	kc = max(kc-kc%8, 8)
	if kc > k {
		kc = k
	}

	mc := l2Bytes / (2 * elem * kc)
	mc = max(mc-mc%mr, mr)
	if mc > m {
		mc = roundUp(m, mr)
	}

	nc := roundUp(nColumnsTarget, nr)
	if nc > n {
		nc = roundUp(n, nr)
	}

	return BlockSizes{MC: mc, KC: kc, NC: nc, MR: mr, NR: nr}
}

// valid reports whether the record satisfies the divisibility and positivity
// invariants the blocked loops assume.
func (bs BlockSizes) valid() bool {
	return bs.MC > 0 && bs.KC > 0 && bs.NC > 0 &&
		bs.MR > 0 && bs.NR > 0 &&
		bs.MC%bs.MR == 0 && bs.NC%bs.NR == 0
}

func roundUp(x, multiple int) int {
	return (x + multiple - 1) / multiple * multiple
}

func ceilDiv(x, d int) int {
	return (x + d - 1) / d
}
