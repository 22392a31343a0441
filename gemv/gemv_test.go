// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

package gemv

import (
	"fmt"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/Fritzkefit/hostblas/internal/refmat"
	"github.com/Fritzkefit/hostblas/view"
)

func tolFor[T hwy.Floats](k int) float64 {
	var zero T
	eps := 2.220446049250313e-16
	if unsafe.Sizeof(zero) == 4 {
		eps = 1.1920929e-7
	}
	return 32 * eps * float64(k+4)
}

func testGemvAgainstReference[T hwy.Floats](t *testing.T) {
	shapes := []struct{ rows, cols int }{
		{1, 1},
		{1, 9},
		{9, 1},
		{7, 5},
		{16, 16},
		{33, 129}, // crosses several vector widths
	}
	rng := rand.New(rand.NewSource(41))

	for _, s := range shapes {
		for _, trans := range []bool{false, true} {
			for _, layout := range []view.Layout{view.RowMajor, view.ColMajor} {
				name := fmt.Sprintf("%dx%d-trans=%v-%v", s.rows, s.cols, trans, layout)
				t.Run(name, func(t *testing.T) {
					a := refmat.RandMatrix[T](rng, s.rows, s.cols, layout)
					inLen, outLen := s.cols, s.rows
					if trans {
						inLen, outLen = s.rows, s.cols
					}
					x := refmat.RandVector[T](rng, inLen)

					want := view.NewVector(make([]T, outLen), outLen)
					refmat.Gemv(a, trans, x, want)

					got := view.NewVector(make([]T, outLen), outLen)
					Gemv(nil, a, trans, x, got)

					if err := refmat.MaxAbsDiffVec(want, got); err > tolFor[T](inLen) {
						t.Errorf("max error %v exceeds %v", err, tolFor[T](inLen))
					}
				})
			}
		}
	}
}

func TestGemvAgainstReferenceFloat32(t *testing.T) { testGemvAgainstReference[float32](t) }
func TestGemvAgainstReferenceFloat64(t *testing.T) { testGemvAgainstReference[float64](t) }

// Strided matrix, strided x, strided y: the general (non-contiguous) inner
// paths, all four layout/transpose branches.
func TestGemvStridedViews(t *testing.T) {
	const rows, cols = 11, 8
	const sentinel = -1000
	rng := rand.New(rand.NewSource(43))

	for _, trans := range []bool{false, true} {
		for _, layout := range []view.Layout{view.RowMajor, view.ColMajor} {
			a := refmat.RandStridedMatrix[float64](rng, rows, cols, layout, sentinel)
			inLen, outLen := cols, rows
			if trans {
				inLen, outLen = rows, cols
			}
			x := refmat.RandStridedVector[float64](rng, inLen, sentinel)
			y := refmat.RandStridedVector[float64](rng, outLen, sentinel)

			want := view.NewVector(make([]float64, outLen), outLen)
			refmat.Gemv(a, trans, x, want)

			Gemv(nil, a, trans, x, y)

			for i := 0; i < outLen; i++ {
				if d := want.At(i) - y.At(i); d > 1e-12 || d < -1e-12 {
					t.Errorf("trans=%v %v: y[%d] = %v, want %v", trans, layout, i, y.At(i), want.At(i))
				}
			}

			// Gaps between strided y elements keep their sentinel.
			var sentinels int
			for _, v := range y.Data() {
				if v == sentinel {
					sentinels++
				}
			}
			if wantSentinels := len(y.Data()) - outLen; sentinels != wantSentinels {
				t.Errorf("trans=%v %v: y gaps overwritten", trans, layout)
			}
		}
	}
}

// The transposed (private-scratch + reduce) path must agree across worker
// counts within summation-order tolerance.
func TestGemvTransposedThreadInvariance(t *testing.T) {
	const rows, cols = 257, 65
	rng := rand.New(rand.NewSource(47))
	a := refmat.RandMatrix[float32](rng, rows, cols, view.RowMajor)
	x := refmat.RandVector[float32](rng, rows)

	want := view.NewVector(make([]float32, cols), cols)
	Gemv(nil, a, true, x, want)

	for _, workers := range []int{1, 2, 4, 8} {
		pool := workerpool.New(workers)
		got := view.NewVector(make([]float32, cols), cols)
		Gemv(pool, a, true, x, got)
		pool.Close()

		if err := refmat.MaxAbsDiffVec(want, got); err > tolFor[float32](rows) {
			t.Errorf("workers=%d: max error %v", workers, err)
		}
	}
}

func TestGemvDotPathParallel(t *testing.T) {
	const rows, cols = 130, 40
	rng := rand.New(rand.NewSource(53))
	a := refmat.RandMatrix[float64](rng, rows, cols, view.RowMajor)
	x := refmat.RandVector[float64](rng, cols)

	want := view.NewVector(make([]float64, rows), rows)
	refmat.Gemv(a, false, x, want)

	pool := workerpool.New(4)
	defer pool.Close()
	got := view.NewVector(make([]float64, rows), rows)
	Gemv(pool, a, false, x, got)

	if err := refmat.MaxAbsDiffVec(want, got); err > tolFor[float64](cols) {
		t.Errorf("max error %v", err)
	}
}

// op(A) with zero columns yields an all-zero y, overwriting stale contents.
func TestGemvEmptyScanZeroesResult(t *testing.T) {
	a := view.NewMatrix[float64](nil, 5, 0, view.RowMajor)
	x := view.NewVector[float64](nil, 0)
	y := view.NewVector([]float64{1, 2, 3, 4, 5}, 5)

	Gemv(nil, a, false, x, y)
	for i := 0; i < 5; i++ {
		if y.At(i) != 0 {
			t.Errorf("y[%d] = %v, want 0", i, y.At(i))
		}
	}
}

func TestGemvShapeMismatchPanics(t *testing.T) {
	a := view.NewMatrix(make([]float64, 6), 2, 3, view.RowMajor)
	x := view.NewVector(make([]float64, 2), 2)
	y := view.NewVector(make([]float64, 2), 2)

	defer func() {
		if recover() == nil {
			t.Fatal("mismatched x length did not panic")
		}
	}()
	Gemv(nil, a, false, x, y)
}

func benchmarkGemv(b *testing.B, rows, cols int, trans bool) {
	rng := rand.New(rand.NewSource(1))
	a := refmat.RandMatrix[float32](rng, rows, cols, view.RowMajor)
	inLen, outLen := cols, rows
	if trans {
		inLen, outLen = rows, cols
	}
	x := refmat.RandVector[float32](rng, inLen)
	y := view.NewVector(make([]float32, outLen), outLen)

	b.SetBytes(int64(rows * cols * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Gemv(nil, a, trans, x, y)
	}
}

func BenchmarkGemv1024(b *testing.B)      { benchmarkGemv(b, 1024, 1024, false) }
func BenchmarkGemv1024Trans(b *testing.B) { benchmarkGemv(b, 1024, 1024, true) }
