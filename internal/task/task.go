package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus is where a task is in its lifecycle.
type TaskStatus string

// Task statuses. A task moves from pending to processing and ends completed
// or failed.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further transition can happen.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskTypeAudioPreload loads the clips of one card.
const TaskTypeAudioPreload = "audio_preload"

// Task is a unit of background work run by a WorkerPool.
type Task interface {
	ID() uuid.UUID
	Type() string
	Status() TaskStatus
	// Execute does the work. ctx is cancelled when the pool stops.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consuming side of a queue.
type TaskQueueReader interface {
	// GetChannel returns the channel workers receive tasks from. It is
	// closed when the queue is closed.
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a queue.
type TaskQueueWriter interface {
	// Enqueue submits a task without blocking. It fails when the queue is
	// full or closed.
	Enqueue(task Task) error
	Close()
}
