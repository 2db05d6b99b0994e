// Package parallel provides a small chunked worker helper for the
// embarrassingly parallel loops in numkit, such as the bootstrap draws in
// the distance-covariance tests.
package parallel

import (
	"runtime"
	"sync"
)

// For splits [0, items) into contiguous chunks, one per available CPU, and
// runs fn(start, end) on each chunk concurrently. It returns when every
// chunk is done. fn must be safe to call from multiple goroutines.
func For(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last chunk is never empty-by-construction
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ForThreshold runs fn sequentially over the whole range when items is at
// or below threshold, and falls back to For otherwise. Small inputs are not
// worth the goroutine overhead.
func ForThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	For(items, fn)
}
