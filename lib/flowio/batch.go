package flowio

import (
	"runtime"
	"sync"

	"github.com/pjohansson/gmxflow/lib/flow"
)

// ReadFiles reads a set of flow field files on a pool of worker
// goroutines. Each file is read on exactly one worker and the returned
// fields match the order of the input paths. If any file cannot be read
// the whole batch fails with the error of the earliest failing path:
// no partially read batch is ever returned.
//
// workers limits the number of files read concurrently; values below 1
// use one worker per CPU.
func ReadFiles(paths []string, workers int) ([]*flow.Flow, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	fields := make([]*flow.Flow, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	wg := sync.WaitGroup{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fields[i], errs[i] = ReadFile(paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return fields, nil
}
