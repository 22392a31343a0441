// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemm

import "github.com/ajroetker/go-highway/hwy"

// kernelVec2 is the wide microkernel: 4 rows x 2 vector widths, 8 vector
// accumulators held across the full depth loop. Requires mr == 4 and
// nr == 2*lanes; kernelFor guarantees the shape before handing it out.
func kernelVec2[T hwy.Floats](packedA, packedB, acc []T, depth, mr, nr int) {
	lanes := nr / 2

	acc00 := hwy.Zero[T]()
	acc01 := hwy.Zero[T]()
	acc10 := hwy.Zero[T]()
	acc11 := hwy.Zero[T]()
	acc20 := hwy.Zero[T]()
	acc21 := hwy.Zero[T]()
	acc30 := hwy.Zero[T]()
	acc31 := hwy.Zero[T]()

	for p := 0; p < depth; p++ {
		ap := packedA[p*mr:]
		bp := packedB[p*nr:]

		vB0 := hwy.Load(bp)
		vB1 := hwy.Load(bp[lanes:])

		vA0 := hwy.Set(ap[0])
		vA1 := hwy.Set(ap[1])
		vA2 := hwy.Set(ap[2])
		vA3 := hwy.Set(ap[3])

		acc00 = hwy.MulAdd(vA0, vB0, acc00)
		acc01 = hwy.MulAdd(vA0, vB1, acc01)
		acc10 = hwy.MulAdd(vA1, vB0, acc10)
		acc11 = hwy.MulAdd(vA1, vB1, acc11)
		acc20 = hwy.MulAdd(vA2, vB0, acc20)
		acc21 = hwy.MulAdd(vA2, vB1, acc21)
		acc30 = hwy.MulAdd(vA3, vB0, acc30)
		acc31 = hwy.MulAdd(vA3, vB1, acc31)
	}

	// Accumulate into the caller-zeroed tile.
	addStore(acc00, acc[0*nr:])
	addStore(acc01, acc[0*nr+lanes:])
	addStore(acc10, acc[1*nr:])
	addStore(acc11, acc[1*nr+lanes:])
	addStore(acc20, acc[2*nr:])
	addStore(acc21, acc[2*nr+lanes:])
	addStore(acc30, acc[3*nr:])
	addStore(acc31, acc[3*nr+lanes:])
}

// kernelVec1 is the narrow microkernel: 4 rows x 1 vector width. Requires
// mr == 4 and nr == lanes.
func kernelVec1[T hwy.Floats](packedA, packedB, acc []T, depth, mr, nr int) {
	acc0 := hwy.Zero[T]()
	acc1 := hwy.Zero[T]()
	acc2 := hwy.Zero[T]()
	acc3 := hwy.Zero[T]()

	for p := 0; p < depth; p++ {
		ap := packedA[p*mr:]
		vB := hwy.Load(packedB[p*nr:])

		acc0 = hwy.MulAdd(hwy.Set(ap[0]), vB, acc0)
		acc1 = hwy.MulAdd(hwy.Set(ap[1]), vB, acc1)
		acc2 = hwy.MulAdd(hwy.Set(ap[2]), vB, acc2)
		acc3 = hwy.MulAdd(hwy.Set(ap[3]), vB, acc3)
	}

	addStore(acc0, acc[0*nr:])
	addStore(acc1, acc[1*nr:])
	addStore(acc2, acc[2*nr:])
	addStore(acc3, acc[3*nr:])
}

func addStore[T hwy.Floats](v hwy.Vec[T], dst []T) {
	hwy.Store(hwy.Add(hwy.Load(dst), v), dst)
}
