// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package view

import "github.com/ajroetker/go-highway/hwy"

// Assign copies src into dst element by element, honoring the layout and
// strides of both views. Panics if the shapes differ. The operands must not
// alias unless they address identical elements.
func Assign[T hwy.Floats](dst, src *Matrix[T]) {
	if dst.Rows() != src.Rows() || dst.Cols() != src.Cols() {
		panic("view: Assign shape mismatch")
	}
	// Walk whichever dimension is contiguous in the destination to keep the
	// write stream linear.
	if dst.RowMajor() {
		for i := 0; i < dst.rows; i++ {
			for j := 0; j < dst.cols; j++ {
				dst.data[dst.Index(i, j)] = src.data[src.Index(i, j)]
			}
		}
		return
	}
	for j := 0; j < dst.cols; j++ {
		for i := 0; i < dst.rows; i++ {
			dst.data[dst.Index(i, j)] = src.data[src.Index(i, j)]
		}
	}
}

// AssignT copies the transpose of src into dst, honoring layouts and strides.
// dst must be src.Cols() x src.Rows(). The operands must not alias.
func AssignT[T hwy.Floats](dst, src *Matrix[T]) {
	if dst.Rows() != src.Cols() || dst.Cols() != src.Rows() {
		panic("view: AssignT shape mismatch")
	}
	if dst.RowMajor() {
		for i := 0; i < dst.rows; i++ {
			for j := 0; j < dst.cols; j++ {
				dst.data[dst.Index(i, j)] = src.data[src.Index(j, i)]
			}
		}
		return
	}
	for j := 0; j < dst.cols; j++ {
		for i := 0; i < dst.rows; i++ {
			dst.data[dst.Index(i, j)] = src.data[src.Index(j, i)]
		}
	}
}
