// Package parallel distributes row bands of a frame across worker
// goroutines for data-parallel per-pixel rendering.
package parallel

import (
	"runtime"
	"sync"
)

// Rows splits [0, rows) into contiguous bands and runs fn(y0, y1) for each
// band on its own goroutine, then waits for all bands to complete.
//
// workers selects the number of goroutines; 0 or less uses GOMAXPROCS.
// Bands never overlap, so fn may write freely within its own range. With a
// single worker the call degenerates to fn(0, rows) on the calling
// goroutine, which keeps small frames and tests cheap.
func Rows(rows, workers int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}
	if workers == 1 {
		fn(0, rows)
		return
	}

	// Ceiling division so every row lands in exactly one band.
	band := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < rows; y0 += band {
		y1 := y0 + band
		if y1 > rows {
			y1 = rows
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
