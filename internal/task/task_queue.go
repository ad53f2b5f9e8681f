package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Queue errors
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
	ErrNilTask     = errors.New("task cannot be nil")
)

// TaskQueue is a bounded FIFO between producers and a WorkerPool.
type TaskQueue struct {
	tasks  chan Task
	logger *slog.Logger

	// mu orders sends against Close so nothing is sent on a closed channel.
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

var (
	_ TaskQueueReader = (*TaskQueue)(nil)
	_ TaskQueueWriter = (*TaskQueue)(nil)
)

// NewTaskQueue creates a queue holding at most size tasks.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		tasks:  make(chan Task, max(size, 0)),
		logger: logger.With(slog.String("component", "task_queue")),
	}
}

// Enqueue implements TaskQueueWriter. A full queue refuses the task and
// counts it as dropped.
func (q *TaskQueue) Enqueue(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued",
			slog.String("task_id", task.ID().String()),
			slog.String("task_type", task.Type()),
			slog.Int("depth", len(q.tasks)))
		return nil
	default:
		q.dropped.Add(1)
		return fmt.Errorf("%w: %d tasks waiting", ErrQueueFull, cap(q.tasks))
	}
}

// Close implements TaskQueueWriter. Tasks already queued are still
// delivered. Closing twice does nothing.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
	q.logger.Info("task queue closed",
		slog.Int("pending", len(q.tasks)),
		slog.Int64("dropped", q.dropped.Load()))
}

// GetChannel implements TaskQueueReader.
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}

// Len returns the number of tasks waiting.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Dropped returns how many tasks were refused because the queue was full.
func (q *TaskQueue) Dropped() int64 {
	return q.dropped.Load()
}
