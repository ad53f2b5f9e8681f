package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Backend loads, releases and plays the audio clips of cards.
type Backend interface {
	// Load makes the clips of a card ready to play.
	Load(ctx context.Context, cardID string, files []string) error
	// Release drops whatever Load kept for the card. Releasing an unknown
	// card is a no-op.
	Release(cardID string)
	// Play blocks until the clip finishes or ctx is done.
	Play(ctx context.Context, cardID string, clip int) error
}

// PreloadTask loads the clips of one card through a Backend.
type PreloadTask struct {
	id      uuid.UUID
	cardID  string
	files   []string
	backend Backend

	mu        sync.Mutex
	status    TaskStatus
	cancelled bool
	err       error
	done      chan struct{}
}

// NewPreloadTask creates a pending preload of files for cardID.
func NewPreloadTask(cardID string, files []string, backend Backend) *PreloadTask {
	return &PreloadTask{
		id:      uuid.New(),
		cardID:  cardID,
		files:   append([]string(nil), files...),
		backend: backend,
		status:  TaskStatusPending,
		done:    make(chan struct{}),
	}
}

// ID implements Task.
func (t *PreloadTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *PreloadTask) Type() string { return TaskTypeAudioPreload }

// CardID returns the card whose clips are loaded.
func (t *PreloadTask) CardID() string { return t.cardID }

// Status implements Task.
func (t *PreloadTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err returns the load error once the task has finished.
func (t *PreloadTask) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed when the task has finished, successfully or not.
func (t *PreloadTask) Done() <-chan struct{} {
	return t.done
}

// Cancel marks the card as unloaded. A task that has not run yet skips the
// load, and one that is running releases the clips when the load ends.
func (t *PreloadTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Execute implements Task.
func (t *PreloadTask) Execute(ctx context.Context) error {
	t.mu.Lock()
	if t.cancelled {
		t.status = TaskStatusCompleted
		t.mu.Unlock()
		close(t.done)
		return nil
	}
	t.status = TaskStatusProcessing
	t.mu.Unlock()

	err := t.backend.Load(ctx, t.cardID, t.files)

	t.mu.Lock()
	t.err = err
	if err != nil {
		t.status = TaskStatusFailed
	} else {
		t.status = TaskStatusCompleted
	}
	release := t.cancelled
	t.mu.Unlock()

	if release {
		t.backend.Release(t.cardID)
	}
	close(t.done)
	return err
}
