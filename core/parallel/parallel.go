// Package parallel provides the data-parallel execution helpers used by the
// cross-validation search. Tasks are pure functions over read-only shared
// data; each one writes into its own pre-assigned result slot, so the merge
// is deterministic regardless of completion order.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides the specified total number (items) according to the number of CPU cores,
// and executes the specified function (fn) in parallel for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(runtime.NumCPU(), items, fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker count. A count
// below 1 falls back to the number of CPU cores. The items are split into
// contiguous chunks, one per worker.
func ParallelizeWorkers(workers, items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
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

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
