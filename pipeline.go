package bvcull

import "sync"

// task splits data into one contiguous chunk per worker and runs fn on
// every element. fn receives the worker id, so workers can accumulate into
// private state, and the element index.
func task[T any](workersCount int, data []T, fn func(worker, i int, data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(worker, i, data[i])
			}
		}(workerID, start, end)
	}
	wg.Wait()
}
