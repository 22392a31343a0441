// Copyright 2026 The hostblas Authors. SPDX-License-Identifier: Apache-2.0

// gemmbench times the blocked multiply drivers for a given problem shape
// and reports achieved GFLOP/s, optionally checking the result against the
// naive reference.
//
// Examples:
//
//	gemmbench --m 1024 --k 1024 --n 1024 --workers 8
//	gemmbench --dtype float64 --trans-a --verify
//	gemmbench --gemv --m 4096 --k 4096
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/chewxy/math32"
	"github.com/spf13/cobra"

	"github.com/Fritzkefit/hostblas/gemm"
	"github.com/Fritzkefit/hostblas/gemv"
	"github.com/Fritzkefit/hostblas/view"
)

var opts struct {
	m, n, k        int
	transA, transB bool
	dtype          string
	workers        int
	iters          int
	verify         bool
	vector         bool
}

func main() {
	cmd := &cobra.Command{
		Use:          "gemmbench",
		Short:        "benchmark the hostblas multiply kernels",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.dtype {
			case "float32":
				return run[float32]()
			case "float64":
				return run[float64]()
			default:
				return fmt.Errorf("unknown dtype %q (want float32 or float64)", opts.dtype)
			}
		},
	}

	cmd.Flags().IntVar(&opts.m, "m", 1024, "output rows")
	cmd.Flags().IntVar(&opts.n, "n", 1024, "output columns")
	cmd.Flags().IntVar(&opts.k, "k", 1024, "shared dimension")
	cmd.Flags().BoolVar(&opts.transA, "trans-a", false, "transpose A")
	cmd.Flags().BoolVar(&opts.transB, "trans-b", false, "transpose B")
	cmd.Flags().StringVar(&opts.dtype, "dtype", "float32", "element type: float32 or float64")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.GOMAXPROCS(0), "worker threads")
	cmd.Flags().IntVar(&opts.iters, "iters", 10, "timed iterations")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check the result against the naive reference")
	cmd.Flags().BoolVar(&opts.vector, "gemv", false, "benchmark y = op(A)*x instead of the matrix product")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run[T hwy.Floats]() error {
	fmt.Printf("simd: %s (%d-byte vectors), workers: %d\n",
		hwy.CurrentName(), hwy.CurrentWidth(), opts.workers)

	pool := workerpool.New(opts.workers)
	defer pool.Close()

	rng := rand.New(rand.NewSource(42))
	if opts.vector {
		return runGemv[T](pool, rng)
	}
	return runGemm[T](pool, rng)
}

func randMatrix[T hwy.Floats](rng *rand.Rand, rows, cols int) *view.Matrix[T] {
	data := make([]T, rows*cols)
	for i := range data {
		data[i] = T(rng.Float64()*2 - 1)
	}
	return view.NewMatrix(data, rows, cols, view.RowMajor)
}

func runGemm[T hwy.Floats](pool *workerpool.Pool, rng *rand.Rand) error {
	m, n, k := opts.m, opts.n, opts.k
	aRows, aCols := m, k
	if opts.transA {
		aRows, aCols = k, m
	}
	bRows, bCols := k, n
	if opts.transB {
		bRows, bCols = n, k
	}

	a := randMatrix[T](rng, aRows, aCols)
	b := randMatrix[T](rng, bRows, bCols)
	c := view.NewMatrix(make([]T, m*n), m, n, view.RowMajor)

	// Warmup run, also the one verified.
	gemm.Gemm(pool, a, opts.transA, b, opts.transB, c, 1, 0)
	if opts.verify {
		if err := verifyGemm(a, b, c); err != nil {
			return err
		}
	}

	start := time.Now()
	for i := 0; i < opts.iters; i++ {
		gemm.Gemm(pool, a, opts.transA, b, opts.transB, c, 1, 0)
	}
	elapsed := time.Since(start)

	flops := 2 * float64(m) * float64(n) * float64(k) * float64(opts.iters)
	perIter := elapsed / time.Duration(opts.iters)
	fmt.Printf("gemm %dx%dx%d: %v/iter, %.2f GFLOP/s\n",
		m, k, n, perIter.Round(time.Microsecond), flops/elapsed.Seconds()/1e9)
	return nil
}

func runGemv[T hwy.Floats](pool *workerpool.Pool, rng *rand.Rand) error {
	rows, cols := opts.m, opts.k

	a := randMatrix[T](rng, rows, cols)
	inLen, outLen := cols, rows
	if opts.transA {
		inLen, outLen = rows, cols
	}
	xData := make([]T, inLen)
	for i := range xData {
		xData[i] = T(rng.Float64()*2 - 1)
	}
	x := view.NewVector(xData, inLen)
	y := view.NewVector(make([]T, outLen), outLen)

	gemv.Gemv(pool, a, opts.transA, x, y)

	start := time.Now()
	for i := 0; i < opts.iters; i++ {
		gemv.Gemv(pool, a, opts.transA, x, y)
	}
	elapsed := time.Since(start)

	flops := 2 * float64(rows) * float64(cols) * float64(opts.iters)
	perIter := elapsed / time.Duration(opts.iters)
	fmt.Printf("gemv %dx%d trans=%v: %v/iter, %.2f GFLOP/s\n",
		rows, cols, opts.transA, perIter.Round(time.Microsecond), flops/elapsed.Seconds()/1e9)
	return nil
}

// verifyGemm recomputes the product with a plain triple loop and reports the
// largest elementwise error.
func verifyGemm[T hwy.Floats](a, b, c *view.Matrix[T]) error {
	m, n := c.Rows(), c.Cols()
	k := a.Cols()
	if opts.transA {
		k = a.Rows()
	}

	var maxErr float64
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for p := 0; p < k; p++ {
				av := a.At(i, p)
				if opts.transA {
					av = a.At(p, i)
				}
				bv := b.At(p, j)
				if opts.transB {
					bv = b.At(j, p)
				}
				sum += av * bv
			}
			if e := absDiff(sum, c.At(i, j)); e > maxErr {
				maxErr = e
			}
		}
	}

	tol := 1e-10 * float64(k)
	if _, isF32 := any(T(0)).(float32); isF32 {
		tol = 1e-4 * float64(k)
	}
	fmt.Printf("verify: max error %.3g (tolerance %.3g)\n", maxErr, tol)
	if maxErr > tol {
		return fmt.Errorf("verification failed: max error %g exceeds %g", maxErr, tol)
	}
	return nil
}

func absDiff[T hwy.Floats](a, b T) float64 {
	switch x := any(a - b).(type) {
	case float32:
		return float64(math32.Abs(x))
	case float64:
		return math.Abs(x)
	default:
		return 0
	}
}
