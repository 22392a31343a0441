// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

//go:build viewdebug

package view

import "fmt"

func boundsCheck2(i, j, rows, cols int) {
	if i < 0 || i >= rows || j < 0 || j >= cols {
		panic(fmt.Sprintf("view: index (%d,%d) out of range %dx%d", i, j, rows, cols))
	}
}

func boundsCheck1(i, size int) {
	if i < 0 || i >= size {
		panic(fmt.Sprintf("view: index %d out of range %d", i, size))
	}
}
