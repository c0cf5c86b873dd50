package matmul

import "runtime"

type poolTask struct {
	run  func()
	done chan struct{}
}

// workPool is a fixed set of goroutines shared by every parallel call in the
// process. Each call borrows a done channel from doneSlots so concurrent
// callers never observe each other's completions.
type workPool struct {
	size      int
	tasks     chan poolTask
	doneSlots chan chan struct{}
}

func newWorkPool(size int) *workPool {
	if size < 1 {
		size = 1
	}
	p := &workPool{
		size:      size,
		tasks:     make(chan poolTask, size*2),
		doneSlots: make(chan chan struct{}, size),
	}
	for i := 0; i < size; i++ {
		// Capacity == size: a worker's completion send never blocks, even
		// while the owning caller is still queueing.
		p.doneSlots <- make(chan struct{}, size)
	}
	for w := 0; w < size; w++ {
		go func() {
			for task := range p.tasks {
				task.run()
				task.done <- struct{}{}
			}
		}()
	}
	return p
}

var defaultPool = newWorkPool(runtime.GOMAXPROCS(0))

// PoolSize reports how many workers back the parallel entry points.
func PoolSize() int { return defaultPool.size }

// run executes fns on the pool and returns once all of them have finished.
// At most p.size of the caller's functions are in flight at a time.
func (p *workPool) run(fns []func()) {
	if len(fns) == 0 {
		return
	}
	done := <-p.doneSlots
	inFlight := 0
	for _, fn := range fns {
		if inFlight == p.size {
			<-done
			inFlight--
		}
		p.tasks <- poolTask{run: fn, done: done}
		inFlight++
	}
	for ; inFlight > 0; inFlight-- {
		<-done
	}
	p.doneSlots <- done
}
