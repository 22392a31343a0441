// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

// Package view provides non-owning strided accessors over flat numeric
// buffers. A Matrix or Vector describes how to address a dense operand that
// may be a sub-matrix, a padded allocation, or a strided slice of a larger
// buffer, in either row-major or column-major order.
//
// Views never own their backing slice. The caller guarantees the slice
// outlives every view carved from it. Two views may alias the same buffer;
// aliasing between the output and input operands of a multiply is the
// caller's responsibility.
//
// Element addressing follows the padded ("internal") shape, not the logical
// shape: element (i,j) of a row-major matrix lives at
//
//	(offRow + i*strideRow)*padCols + (offCol + j*strideCol)
//
// and at the transposed expression for column-major. Out-of-range access is
// unchecked in release builds; build with -tags viewdebug to bounds-check
// every access.
package view

import "github.com/ajroetker/go-highway/hwy"

// Layout selects the memory order of a Matrix.
type Layout int

const (
	// RowMajor stores each logical row contiguously (up to padding).
	RowMajor Layout = iota

	// ColMajor stores each logical column contiguously (up to padding).
	ColMajor
)

// String returns "row-major" or "col-major".
func (l Layout) String() string {
	if l == RowMajor {
		return "row-major"
	}
	return "col-major"
}

// Matrix is a borrowed strided 2-D accessor over a flat buffer.
type Matrix[T hwy.Floats] struct {
	data []T

	offRow, offCol       int
	strideRow, strideCol int
	rows, cols           int
	padRows, padCols     int
	layout               Layout
}

// Spec describes a strided matrix over an existing buffer. Zero strides
// default to 1 and zero padded sizes default to the logical sizes, so the
// zero value plus Rows/Cols describes a dense unpadded matrix.
type Spec struct {
	OffRow, OffCol       int
	StrideRow, StrideCol int
	Rows, Cols           int
	PadRows, PadCols     int
	Layout               Layout
}

// NewMatrix wraps data as a dense unpadded rows x cols matrix.
// Panics if data is shorter than rows*cols.
func NewMatrix[T hwy.Floats](data []T, rows, cols int, layout Layout) *Matrix[T] {
	return NewStridedMatrix(data, Spec{Rows: rows, Cols: cols, Layout: layout})
}

// NewStridedMatrix wraps data according to spec. Panics if the spec addresses
// memory outside data or if the logical shape exceeds the padded shape.
func NewStridedMatrix[T hwy.Floats](data []T, s Spec) *Matrix[T] {
	if s.StrideRow == 0 {
		s.StrideRow = 1
	}
	if s.StrideCol == 0 {
		s.StrideCol = 1
	}
	if s.PadRows == 0 {
		s.PadRows = s.OffRow + (s.Rows-1)*s.StrideRow + 1
	}
	if s.PadCols == 0 {
		s.PadCols = s.OffCol + (s.Cols-1)*s.StrideCol + 1
	}
	if s.Rows < 0 || s.Cols < 0 {
		panic("view: negative matrix shape")
	}
	if s.Rows > 0 && s.Cols > 0 {
		if s.OffRow+(s.Rows-1)*s.StrideRow >= s.PadRows ||
			s.OffCol+(s.Cols-1)*s.StrideCol >= s.PadCols {
			panic("view: logical shape exceeds padded shape")
		}
		if len(data) < s.PadRows*s.PadCols {
			panic("view: buffer shorter than padded shape")
		}
	}
	return &Matrix[T]{
		data:      data,
		offRow:    s.OffRow,
		offCol:    s.OffCol,
		strideRow: s.StrideRow,
		strideCol: s.StrideCol,
		rows:      s.Rows,
		cols:      s.Cols,
		padRows:   s.PadRows,
		padCols:   s.PadCols,
		layout:    s.Layout,
	}
}

// Rows returns the logical row count.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the logical column count.
func (m *Matrix[T]) Cols() int { return m.cols }

// Layout returns the memory order.
func (m *Matrix[T]) Layout() Layout { return m.layout }

// RowMajor reports whether the matrix is stored row-major.
func (m *Matrix[T]) RowMajor() bool { return m.layout == RowMajor }

// Data returns the borrowed backing slice.
func (m *Matrix[T]) Data() []T { return m.data }

// Index resolves the flat buffer index of logical element (i, j).
func (m *Matrix[T]) Index(i, j int) int {
	if m.layout == RowMajor {
		return (m.offRow+i*m.strideRow)*m.padCols + m.offCol + j*m.strideCol
	}
	return m.offRow + i*m.strideRow + (m.offCol+j*m.strideCol)*m.padRows
}

// At reads logical element (i, j).
func (m *Matrix[T]) At(i, j int) T {
	boundsCheck2(i, j, m.rows, m.cols)
	return m.data[m.Index(i, j)]
}

// Set writes logical element (i, j).
func (m *Matrix[T]) Set(i, j int, v T) {
	boundsCheck2(i, j, m.rows, m.cols)
	m.data[m.Index(i, j)] = v
}

// RowStep returns the flat-index distance between vertically adjacent
// logical elements, and ColStep the distance between horizontally adjacent
// ones. A matrix whose scanned dimension has step 1 can be walked with
// contiguous slices.
func (m *Matrix[T]) RowStep() int {
	if m.layout == RowMajor {
		return m.strideRow * m.padCols
	}
	return m.strideRow
}

// ColStep returns the flat-index distance between horizontally adjacent
// logical elements.
func (m *Matrix[T]) ColStep() int {
	if m.layout == RowMajor {
		return m.strideCol
	}
	return m.strideCol * m.padRows
}

// Sub carves an aliasing rows x cols sub-view anchored at (i0, j0).
// The sub-view shares the backing buffer.
func (m *Matrix[T]) Sub(i0, j0, rows, cols int) *Matrix[T] {
	boundsCheck2(i0, j0, m.rows, m.cols)
	if rows > 0 && cols > 0 {
		boundsCheck2(i0+rows-1, j0+cols-1, m.rows, m.cols)
	}
	sub := *m
	sub.offRow = m.offRow + i0*m.strideRow
	sub.offCol = m.offCol + j0*m.strideCol
	sub.rows = rows
	sub.cols = cols
	return &sub
}

// Fill assigns v to every logical element.
func (m *Matrix[T]) Fill(v T) {
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			m.data[m.Index(i, j)] = v
		}
	}
}

// Vector is a borrowed strided 1-D accessor over a flat buffer.
type Vector[T hwy.Floats] struct {
	data []T
	off  int
	inc  int
	size int
}

// NewVector wraps data as a dense vector of length size.
func NewVector[T hwy.Floats](data []T, size int) *Vector[T] {
	return NewStridedVector(data, 0, 1, size)
}

// NewStridedVector wraps data with an explicit start offset and stride.
// Panics if the described elements fall outside data.
func NewStridedVector[T hwy.Floats](data []T, off, inc, size int) *Vector[T] {
	if inc == 0 {
		inc = 1
	}
	if size < 0 {
		panic("view: negative vector length")
	}
	if size > 0 && off+(size-1)*inc >= len(data) {
		panic("view: vector exceeds buffer")
	}
	return &Vector[T]{data: data, off: off, inc: inc, size: size}
}

// Len returns the logical element count.
func (v *Vector[T]) Len() int { return v.size }

// Inc returns the stride between consecutive logical elements.
func (v *Vector[T]) Inc() int { return v.inc }

// Data returns the borrowed backing slice.
func (v *Vector[T]) Data() []T { return v.data }

// Index resolves the flat buffer index of logical element i.
func (v *Vector[T]) Index(i int) int { return v.off + i*v.inc }

// At reads logical element i.
func (v *Vector[T]) At(i int) T {
	boundsCheck1(i, v.size)
	return v.data[v.Index(i)]
}

// Set writes logical element i.
func (v *Vector[T]) Set(i int, x T) {
	boundsCheck1(i, v.size)
	v.data[v.Index(i)] = x
}

// Contiguous returns the logical elements as one slice when inc == 1,
// and (nil, false) otherwise.
func (v *Vector[T]) Contiguous() ([]T, bool) {
	if v.inc != 1 {
		return nil, false
	}
	return v.data[v.off : v.off+v.size], true
}

// Fill assigns x to every logical element.
func (v *Vector[T]) Fill(x T) {
	for i := 0; i < v.size; i++ {
		v.data[v.Index(i)] = x
	}
}
