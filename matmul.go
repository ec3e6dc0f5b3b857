package main

import (
	"fmt"
	"runtime"
	"sync"
)

// ===========================================================================
// MATRIX MULTIPLICATION
// ===========================================================================
//
// Matrix multiplication dominates both the forward and backward pass of the
// forecaster, so it gets two implementations:
//
//   - MatMul: sequential, i-k-j loop order so the inner loop walks both B and
//     C contiguously (much friendlier to the cache than the naive i-j-k form).
//   - MatMulParallel: row-parallel. Output rows are split across goroutines;
//     workers read the shared inputs and write disjoint row ranges, so no
//     locking is needed.
//
// Row-parallel pays off once the batch dimension is large relative to the
// worker count; for small matrices the goroutine overhead exceeds the win,
// so MatMulParallel falls back to the sequential path.
// ===========================================================================

// MatMul performs matrix multiplication: C = A @ B.
// A must be (M, K), B must be (K, N), result is (M, N).
func MatMul(a, b *Tensor) *Tensor {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		panic("tensor: MatMul requires 2D tensors")
	}

	m, k := a.shape[0], a.shape[1]
	k2, n := b.shape[0], b.shape[1]
	if k != k2 {
		panic(fmt.Sprintf("tensor: cannot multiply (%d,%d) by (%d,%d)", m, k, k2, n))
	}

	out := NewTensor(m, n)
	matmulRows(a, b, out, 0, m)
	return out
}

// matmulRows computes output rows [rowStart, rowEnd) of out = a @ b.
// Shared by the sequential and parallel paths.
func matmulRows(a, b, out *Tensor, rowStart, rowEnd int) {
	k, n := a.shape[1], b.shape[1]

	for i := rowStart; i < rowEnd; i++ {
		aRow := a.data[i*k : (i+1)*k]
		outRow := out.data[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			av := aRow[kk]
			if av == 0 {
				continue
			}
			bRow := b.data[kk*n : (kk+1)*n]
			for j := 0; j < n; j++ {
				outRow[j] += av * bRow[j]
			}
		}
	}
}

// MatMulParallel performs C = A @ B with output rows distributed across
// goroutines. numWorkers <= 0 means runtime.NumCPU().
func MatMulParallel(a, b *Tensor, numWorkers int) *Tensor {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		panic("tensor: MatMulParallel requires 2D tensors")
	}

	m := a.shape[0]
	if a.shape[1] != b.shape[0] {
		panic(fmt.Sprintf("tensor: cannot multiply (%d,%d) by (%d,%d)",
			a.shape[0], a.shape[1], b.shape[0], b.shape[1]))
	}

	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Not enough rows to amortize goroutine startup.
	if m < numWorkers*2 {
		return MatMul(a, b)
	}

	out := NewTensor(m, b.shape[1])

	rowsPerWorker := m / numWorkers
	remainder := m % numWorkers

	var wg sync.WaitGroup
	rowStart := 0
	for w := 0; w < numWorkers; w++ {
		rows := rowsPerWorker
		if w < remainder {
			rows++
		}
		rowEnd := rowStart + rows

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			matmulRows(a, b, out, start, end)
		}(rowStart, rowEnd)

		rowStart = rowEnd
	}
	wg.Wait()

	return out
}
