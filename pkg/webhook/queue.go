package webhook

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrQueueClosed is returned when enqueuing into a closed queue.
var ErrQueueClosed = errors.New("webhook queue is closed")

// DispatchFunc dispatches a single event.
type DispatchFunc func(context.Context, Event)

// Queue is a bounded queue of events consumed by a fixed number of workers.
type Queue struct {
	events   chan Event
	dispatch DispatchFunc
	workers  int
	logger   *log.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewQueue returns a queue holding up to size events, dispatched by workers
// goroutines once started.
func NewQueue(dispatch DispatchFunc, size int, workers int) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}

	return &Queue{
		events:   make(chan Event, size),
		dispatch: dispatch,
		workers:  workers,
		logger:   log.Default().WithPrefix("webhook"),
	}
}

// Start starts the workers. Events are dispatched with a context that keeps
// the values of ctx but not its cancellation, so that queued events are
// still delivered while the queue drains. Start is a no-op after the first
// call.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	q.logger = log.FromContext(ctx).WithPrefix("webhook")

	dctx := context.WithoutCancel(ctx)
	q.wg.Add(q.workers)
	for i := 0; i < q.workers; i++ {
		go func() {
			defer q.wg.Done()
			for ev := range q.events {
				queueDepthGauge.Set(float64(len(q.events)))
				q.run(dctx, ev)
			}
		}()
	}
}

func (q *Queue) run(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("panic while dispatching event", "action", ev.Action, "panic", r)
		}
	}()
	q.dispatch(ctx, ev)
}

// Enqueue adds ev to the queue. It waits for room until ctx is done.
func (q *Queue) Enqueue(ctx context.Context, ev Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- ev:
		queueDepthGauge.Set(float64(len(q.events)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of events waiting to be dispatched.
func (q *Queue) Len() int {
	return len(q.events)
}

// Close stops accepting events and waits until the queued events are
// dispatched or ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.events)
	started := q.started
	q.mu.Unlock()

	if !started {
		if n := len(q.events); n > 0 {
			q.logger.Warn("webhook queue closed before it was started", "dropped", n)
			for ev := range q.events {
				CountDropped(ev.Action, "closed")
			}
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
