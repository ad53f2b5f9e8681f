package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockTaskQueue implements TaskQueueReader for testing
type mockTaskQueue struct {
	ch chan Task
}

func newMockTaskQueue() *mockTaskQueue {
	return &mockTaskQueue{
		ch: make(chan Task, 10),
	}
}

func (m *mockTaskQueue) GetChannel() <-chan Task {
	return m.ch
}

func TestNewWorkerPool(t *testing.T) {
	t.Parallel()

	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 5}, logger)
	assert.NotNil(t, pool)
	assert.Equal(t, 5, pool.workerCount)
	assert.Equal(t, taskQueue, pool.taskQueue)
	assert.NotNil(t, pool.ctx)
	assert.Nil(t, pool.errorHandler)

	tests := []struct {
		name  string
		count int
	}{
		{name: "zero", count: 0},
		{name: "negative", count: -5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: tt.count}, logger)
			assert.Equal(t, 1, pool.workerCount)
		})
	}

	assert.Equal(t, 2, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_StartStop(t *testing.T) {
	t.Parallel()

	pool := NewWorkerPool(newMockTaskQueue(), WorkerPoolConfig{WorkerCount: 2}, setupTestLogger())
	pool.Start()
	pool.Start()

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for worker pool to stop")
	}
}

func TestWorkerPool_ProcessTask_Success(t *testing.T) {
	t.Parallel()

	taskQueue := newMockTaskQueue()
	completed := make(chan struct{})

	task := NewMockTask("mock")
	task.ExecuteFn = func(ctx context.Context) error {
		close(completed)
		return nil
	}

	var failures atomic.Int32
	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.SetErrorHandler(func(Task, error) { failures.Add(1) })
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case <-completed:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to complete")
	}
	assert.Zero(t, failures.Load())
}

func TestWorkerPool_ProcessTask_Errors(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("test error")

	tests := []struct {
		name    string
		execute func(ctx context.Context) error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "returned error",
			execute: func(ctx context.Context) error { return expectedErr },
			check: func(t *testing.T, err error) {
				assert.Equal(t, expectedErr, err)
			},
		},
		{
			name:    "panic",
			execute: func(ctx context.Context) error { panic("test panic") },
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "panic")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			taskQueue := newMockTaskQueue()
			errorHandled := make(chan error, 1)

			task := NewMockTask("mock")
			task.ExecuteFn = tt.execute

			pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
			pool.SetErrorHandler(func(task Task, err error) {
				errorHandled <- err
			})
			pool.Start()
			defer pool.Stop()

			taskQueue.ch <- task

			select {
			case err := <-errorHandled:
				tt.check(t, err)
			case <-time.After(500 * time.Millisecond):
				t.Fatal("Timed out waiting for error handler")
			}
		})
	}
}

func TestWorkerPool_KeepsWorkingAfterPanic(t *testing.T) {
	t.Parallel()

	taskQueue := newMockTaskQueue()
	done := make(chan struct{})

	bad := NewMockTask("mock")
	bad.ExecuteFn = func(ctx context.Context) error { panic("boom") }
	good := NewMockTask("mock")
	good.ExecuteFn = func(ctx context.Context) error {
		close(done)
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- bad
	taskQueue.ch <- good

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not survive the panic")
	}
}

func TestWorkerPool_StopCancelsRunningTask(t *testing.T) {
	t.Parallel()

	taskQueue := newMockTaskQueue()
	taskStarted := make(chan struct{})
	taskCancelled := make(chan struct{})

	task := NewMockTask("mock")
	task.ExecuteFn = func(ctx context.Context) error {
		close(taskStarted)
		<-ctx.Done()
		close(taskCancelled)
		return ctx.Err()
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.Start()

	taskQueue.ch <- task

	select {
	case <-taskStarted:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to start")
	}

	stopDone := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopDone)
	}()

	select {
	case <-taskCancelled:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to be canceled")
	}

	select {
	case <-stopDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for worker pool to stop")
	}
}

func TestWorkerPool_ClosedQueueStopsWorkers(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, setupTestLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, setupTestLogger())
	pool.Start()

	queue.Close()

	done := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("workers did not exit after the queue closed")
	}
	pool.Stop()
}
