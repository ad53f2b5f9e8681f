package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// AudioLoader queues clip loading on a worker pool. Preload returns as soon
// as the work is queued; Play waits for the card's pending load first.
type AudioLoader struct {
	backend Backend
	queue   TaskQueueWriter
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*PreloadTask
}

// NewAudioLoader creates a loader that enqueues preload tasks on queue.
func NewAudioLoader(backend Backend, queue TaskQueueWriter, logger *slog.Logger) *AudioLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioLoader{
		backend: backend,
		queue:   queue,
		logger:  logger.With(slog.String("component", "audio_loader")),
		pending: make(map[string]*PreloadTask),
	}
}

// Preload queues the loading of a card's clips.
func (l *AudioLoader) Preload(_ context.Context, cardID string, files []string) error {
	t := NewPreloadTask(cardID, files, l.backend)

	l.mu.Lock()
	// A finished load stays; the new task replaces its clips.
	if old, ok := l.pending[cardID]; ok && !old.Status().Terminal() {
		old.Cancel()
	}
	l.pending[cardID] = t
	l.mu.Unlock()

	if err := l.queue.Enqueue(t); err != nil {
		l.mu.Lock()
		if l.pending[cardID] == t {
			delete(l.pending, cardID)
		}
		l.mu.Unlock()
		return fmt.Errorf("queue audio preload for card %s: %w", cardID, err)
	}

	l.logger.Debug("audio preload queued", "card_id", cardID, "task_id", t.ID())
	return nil
}

// Unload releases a card's clips. A load still queued for the card is
// dropped.
func (l *AudioLoader) Unload(cardID string) {
	l.mu.Lock()
	t, ok := l.pending[cardID]
	delete(l.pending, cardID)
	l.mu.Unlock()

	if ok {
		t.Cancel()
	}
	l.backend.Release(cardID)
}

// Play waits for the card's load to finish, then plays clip. Clips that
// failed to load are left to the backend to report.
func (l *AudioLoader) Play(ctx context.Context, cardID string, clip int) error {
	l.mu.Lock()
	t, ok := l.pending[cardID]
	l.mu.Unlock()

	if ok {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return l.backend.Play(ctx, cardID, clip)
}
