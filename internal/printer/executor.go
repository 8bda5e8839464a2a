package printer

//go:generate $MOCKGEN -source=executor.go -destination=mocks/executor_mock.go

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/metrics"
)

const (
	// DefaultQueueWorkers is the number of workers used when none is given.
	DefaultQueueWorkers = 1
	// DefaultQueueSize is the queue capacity used when none is given.
	DefaultQueueSize = 1024
)

// Executor runs render tasks.
type Executor interface {
	// Submit schedules task. It must not block the caller for long
	// and must never panic because of the task.
	Submit(task func())
}

// SyncExecutor runs every task inline on the calling goroutine.
type SyncExecutor struct{}

// Submit runs task immediately.
func (SyncExecutor) Submit(task func()) {
	runSafely(task)
}

// QueueExecutor runs tasks on background workers fed by a bounded queue.
// Submit never blocks: when the queue is full or the executor is closed
// the task is dropped and counted.
type QueueExecutor struct {
	// tasks is the bounded task queue.
	tasks chan func()
	// workers tracks the worker goroutines.
	workers conc.WaitGroup
	// mu guards closed against concurrent Submit and Close.
	mu sync.RWMutex
	// closed is set once Close has been called.
	closed bool
	// dropped counts tasks that were not queued.
	dropped atomic.Uint64
	// metrics receives dropped task counts, may be nil.
	metrics *metrics.Collector
}

// QueueOption customizes a QueueExecutor.
type QueueOption func(*QueueExecutor)

// WithQueueMetrics reports dropped tasks to collector.
func WithQueueMetrics(collector *metrics.Collector) QueueOption {
	return func(e *QueueExecutor) {
		e.metrics = collector
	}
}

// NewQueueExecutor starts workers goroutines serving a queue of queueSize tasks.
// Non-positive arguments fall back to DefaultQueueWorkers and DefaultQueueSize.
func NewQueueExecutor(workers, queueSize int, opts ...QueueOption) *QueueExecutor {
	if workers <= 0 {
		workers = DefaultQueueWorkers
	}

	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	e := &QueueExecutor{
		tasks: make(chan func(), queueSize),
	}

	for _, opt := range opts {
		opt(e)
	}

	for range workers {
		e.workers.Go(e.work)
	}

	return e
}

// Submit queues task without blocking.
func (e *QueueExecutor) Submit(task func()) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.drop()
		return
	}

	select {
	case e.tasks <- task:
	default:
		e.drop()
	}
}

// Close stops accepting tasks, runs everything already queued and waits for the workers.
// It is safe to call more than once.
func (e *QueueExecutor) Close() {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return
	}

	e.closed = true
	close(e.tasks)
	e.mu.Unlock()

	e.workers.Wait()
}

// Dropped returns the number of tasks that were not queued.
func (e *QueueExecutor) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *QueueExecutor) work() {
	for task := range e.tasks {
		runSafely(task)
	}
}

func (e *QueueExecutor) drop() {
	e.dropped.Add(1)
	e.metrics.TaskDropped()
}

// runSafely runs task and reports a panic instead of propagating it.
func runSafely(task func()) {
	var catcher panics.Catcher

	catcher.Try(task)

	if recovered := catcher.Recovered(); recovered != nil {
		logger.Errorf(context.Background(), "Traffic printer task panicked: %v", recovered.Value)
	}
}
