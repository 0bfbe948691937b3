// Fixed worker pool for data-parallel fan-out stages. Workers receive
// element indices over a channel and never share mutable state; each fn call
// owns exactly the element at its index.
package engine

import (
	"sync"
)

// forEachIndex runs fn(i) for every i in [0, n) across a fixed pool of
// workers, blocking until all calls return. fn must confine its writes to
// data owned by index i.
func forEachIndex(workers, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
}
