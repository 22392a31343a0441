// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemm

import "github.com/ajroetker/go-highway/hwy"

// KernelKind names a microkernel back-end. The kind is resolved to a concrete
// kernel once per multiply, outside the blocked loops, and injected into the
// driver; the hot path never re-tests CPU capabilities.
type KernelKind int

const (
	// KernelAuto picks the widest back-end the runtime dispatch allows.
	KernelAuto KernelKind = iota

	// KernelVector2 is the wide back-end: register tiles of MR rows by two
	// vector widths of columns.
	KernelVector2

	// KernelVector1 is the narrow back-end: one vector width of columns.
	KernelVector1

	// KernelScalar is the portable double-loop fallback for any MR/NR.
	KernelScalar
)

// String returns a short name for the kind.
func (k KernelKind) String() string {
	switch k {
	case KernelAuto:
		return "auto"
	case KernelVector2:
		return "vector2"
	case KernelVector1:
		return "vector1"
	case KernelScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// microKernel accumulates one mr x nr output tile from two packed slivers:
//
//	acc[i*nr+j] += sum over p < depth of packedA[p*mr+i] * packedB[p*nr+j]
//
// acc must be zeroed by the caller before the first call for a tile. The
// back-ends are numerically equivalent up to summation order.
type microKernel[T hwy.Floats] func(packedA, packedB, acc []T, depth, mr, nr int)

// kernelFor resolves a KernelKind against the plan's register-tile shape.
// A vector back-end is used only when the tile shape matches its lane count;
// anything else falls back to the scalar kernel, which handles every shape.
func kernelFor[T hwy.Floats](kind KernelKind, mr, nr int) microKernel[T] {
	lanes := hwy.MaxLanes[T]()
	switch kind {
	case KernelScalar:
		return kernelScalar[T]
	case KernelVector1:
		if mr == microTileRows && nr == lanes {
			return kernelVec1[T]
		}
		return kernelScalar[T]
	case KernelVector2:
		if mr == microTileRows && nr == 2*lanes {
			return kernelVec2[T]
		}
		return kernelScalar[T]
	default:
		if hwy.CurrentLevel() == hwy.DispatchScalar {
			return kernelScalar[T]
		}
		if mr == microTileRows && nr == 2*lanes {
			return kernelVec2[T]
		}
		if mr == microTileRows && nr == lanes {
			return kernelVec1[T]
		}
		return kernelScalar[T]
	}
}
