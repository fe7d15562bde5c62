package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

var ErrQueueFull = errors.New("delivery queue full")

// Executor is the designated delivery context: a single goroutine
// draining a task channel, so everything submitted runs serialized in
// submission order. Engine callbacks and controller notifications are
// marshalled here before any observer is touched.
//
// The queue is bounded and Submit never blocks, so delivery is lossy
// under sustained overload. The dispatcher keeps the upper half of the
// queue reserved for lifecycle events by refusing telemetry once the
// backlog crosses half capacity; a lifecycle event is only ever lost
// if the queue fills with lifecycle events alone, which dedup upstream
// makes pathological.
type Executor struct {
	tasks chan func()
}

func NewExecutor(queueSize int) *Executor {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Executor{tasks: make(chan func(), queueSize)}
}

// Run drains tasks until ctx is canceled. Call it from exactly one
// goroutine; that goroutine becomes the delivery context.
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.executor").Msg("delivery loop done")
			return
		case task := <-e.tasks:
			task()
		}
	}
}

// Submit enqueues a task without blocking. A full queue is reported as
// ErrQueueFull; callers decide whether losing the unit of work matters.
func (e *Executor) Submit(task func()) error {
	select {
	case e.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Backlog reports how many tasks are waiting.
func (e *Executor) Backlog() int { return len(e.tasks) }

// Capacity reports the queue bound.
func (e *Executor) Capacity() int { return cap(e.tasks) }
