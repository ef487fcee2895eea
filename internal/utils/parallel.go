package utils

import (
	"runtime"
	"sync"
)

// Parallelize process in parallel the work function, splitting [0,iEnd) into
// roughly equal chunks, one per goroutine.
func Parallelize(iEnd int, work func(int, int), maxCPUs ...int) {
	nbTasks := runtime.NumCPU()
	if len(maxCPUs) == 1 && maxCPUs[0] > 0 {
		nbTasks = maxCPUs[0]
	}
	nbIterationsPerCpus := iEnd / nbTasks

	// more CPUs than tasks: a single span
	if nbIterationsPerCpus < 1 {
		nbIterationsPerCpus = 1
		nbTasks = iEnd
	}

	var wg sync.WaitGroup

	extraTasks := iEnd - (nbTasks * nbIterationsPerCpus)
	extraTasksOffset := 0

	for i := 0; i < nbTasks; i++ {
		wg.Add(1)
		_start := i*nbIterationsPerCpus + extraTasksOffset
		_end := _start + nbIterationsPerCpus
		if extraTasks > 0 {
			_end++
			extraTasks--
			extraTasksOffset++
		}
		go func() {
			work(_start, _end)
			wg.Done()
		}()
	}

	wg.Wait()
}
