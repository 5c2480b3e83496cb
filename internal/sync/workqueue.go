package sync

import "sync"

// WorkQueue is a queue of work to be done.
type WorkQueue struct {
	work    map[string]func()
	order   []string
	workers int
	mu      sync.RWMutex
}

// NewWorkQueue creates a new work queue. The workers argument specifies the
// number of concurrent workers to run the work.
func NewWorkQueue(workers int) *WorkQueue {
	if workers <= 0 {
		workers = 1
	}

	return &WorkQueue{
		work:    make(map[string]func()),
		workers: workers,
	}
}

// Run runs the queued work, at most workers at a time, and waits for it to
// finish. Work added while Run is in progress is picked up before it returns.
func (wq *WorkQueue) Run() {
	for {
		wq.mu.Lock()
		ids := wq.order
		wq.order = nil
		fns := make([]func(), len(ids))
		for i, id := range ids {
			fns[i] = wq.work[id]
		}
		wq.mu.Unlock()

		if len(ids) == 0 {
			return
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, wq.workers)
		for i, id := range ids {
			sem <- struct{}{}
			wg.Add(1)
			go func(id string, fn func()) {
				defer func() {
					wq.mu.Lock()
					delete(wq.work, id)
					wq.mu.Unlock()
					<-sem
					wg.Done()
				}()
				fn()
			}(id, fns[i])
		}

		wg.Wait()
	}
}

// Add adds a new job to the queue. A job whose id is already queued is
// ignored.
func (wq *WorkQueue) Add(id string, fn func()) {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	if _, ok := wq.work[id]; ok {
		return
	}
	wq.work[id] = fn
	wq.order = append(wq.order, id)
}

// Status reports whether the job with the given id is queued or running.
func (wq *WorkQueue) Status(id string) bool {
	wq.mu.RLock()
	defer wq.mu.RUnlock()
	_, ok := wq.work[id]
	return ok
}

// Len returns the number of queued or running jobs.
func (wq *WorkQueue) Len() int {
	wq.mu.RLock()
	defer wq.mu.RUnlock()
	return len(wq.work)
}
