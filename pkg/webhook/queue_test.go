package webhook

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestQueueDrainsOnClose(t *testing.T) {
	is := is.New(t)

	var n atomic.Int64
	q := NewQueue(func(context.Context, Event) {
		time.Sleep(5 * time.Millisecond)
		n.Add(1)
	}, 16, 2)

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	for i := 0; i < 10; i++ {
		is.NoErr(q.Enqueue(ctx, Event{Action: ActionTaskCreate}))
	}

	// Cancelling the start context does not stop the workers.
	cancel()
	is.NoErr(q.Close(context.Background()))
	is.Equal(n.Load(), int64(10))

	err := q.Enqueue(context.Background(), Event{Action: ActionTaskCreate})
	is.True(errors.Is(err, ErrQueueClosed))
	is.NoErr(q.Close(context.Background())) // idempotent
}

func TestQueueDispatchContextIsDetached(t *testing.T) {
	is := is.New(t)

	errs := make(chan error, 1)
	q := NewQueue(func(ctx context.Context, _ Event) {
		errs <- ctx.Err()
	}, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Start(ctx)
	is.NoErr(q.Enqueue(context.Background(), Event{}))
	is.NoErr(<-errs)
	is.NoErr(q.Close(context.Background()))
}

func TestQueueFullWaitsForContext(t *testing.T) {
	is := is.New(t)

	q := NewQueue(func(context.Context, Event) {}, 1, 1)
	is.NoErr(q.Enqueue(context.Background(), Event{}))
	is.Equal(q.Len(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Event{})
	is.True(errors.Is(err, context.DeadlineExceeded))

	// Never started: closing drops what is left.
	is.NoErr(q.Close(context.Background()))
}

func TestQueueSurvivesPanics(t *testing.T) {
	is := is.New(t)

	var wg sync.WaitGroup
	wg.Add(2)
	var calls atomic.Int64
	q := NewQueue(func(context.Context, Event) {
		defer wg.Done()
		if calls.Add(1) == 1 {
			panic("boom")
		}
	}, 2, 1)
	q.Start(context.Background())
	is.NoErr(q.Enqueue(context.Background(), Event{}))
	is.NoErr(q.Enqueue(context.Background(), Event{}))
	wg.Wait()
	is.NoErr(q.Close(context.Background()))
	is.Equal(calls.Load(), int64(2))
}

func TestQueueCloseTimeout(t *testing.T) {
	is := is.New(t)

	release := make(chan struct{})
	q := NewQueue(func(context.Context, Event) { <-release }, 1, 1)
	q.Start(context.Background())
	is.NoErr(q.Enqueue(context.Background(), Event{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	is.True(errors.Is(q.Close(ctx), context.DeadlineExceeded))
	close(release)
}
