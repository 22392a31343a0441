// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemm

import "github.com/ajroetker/go-highway/hwy"

// kernelScalar is the portable microkernel: a rank-1 update per depth step.
// Works for any mr/nr and serves as the reference the vector back-ends are
// tested against.
func kernelScalar[T hwy.Floats](packedA, packedB, acc []T, depth, mr, nr int) {
	for p := 0; p < depth; p++ {
		ap := packedA[p*mr : p*mr+mr]
		bp := packedB[p*nr : p*nr+nr]
		for i := 0; i < mr; i++ {
			ai := ap[i]
			ci := acc[i*nr : i*nr+nr]
			for j := range ci {
				ci[j] += ai * bp[j]
			}
		}
	}
}
