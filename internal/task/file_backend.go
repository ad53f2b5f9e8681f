package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Audio backend errors
var (
	ErrClipNotLoaded = errors.New("audio clip not loaded")
	ErrNoClip        = errors.New("card has no clip at that index")
)

// FileBackend is a Backend over audio files on disk. Loading checks that
// every clip exists; playing hands the file to an external player command.
// Without a player, Play succeeds silently.
type FileBackend struct {
	dir    string
	player []string
	logger *slog.Logger

	mu    sync.RWMutex
	clips map[string][]string
}

// NewFileBackend creates a backend resolving relative clip paths against dir.
// player is a command line such as "mpg123 -q"; the clip path is appended.
func NewFileBackend(dir, player string, logger *slog.Logger) *FileBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileBackend{
		dir:    dir,
		player: strings.Fields(player),
		logger: logger.With(slog.String("component", "audio_files")),
		clips:  make(map[string][]string),
	}
}

// Load implements Backend. Empty entries stay empty; every missing file is
// reported.
func (b *FileBackend) Load(ctx context.Context, cardID string, files []string) error {
	resolved := make([]string, len(files))
	var errs []error

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f == "" {
			continue
		}
		path := f
		if !filepath.IsAbs(path) && b.dir != "" {
			path = filepath.Join(b.dir, path)
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, err)
			continue
		case info.IsDir():
			errs = append(errs, fmt.Errorf("%s is a directory", path))
			continue
		}
		resolved[i] = path
	}

	b.mu.Lock()
	b.clips[cardID] = resolved
	b.mu.Unlock()

	return errors.Join(errs...)
}

// Release implements Backend.
func (b *FileBackend) Release(cardID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clips, cardID)
}

// Loaded reports whether the card's clips are held.
func (b *FileBackend) Loaded(cardID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.clips[cardID]
	return ok
}

// Play implements Backend.
func (b *FileBackend) Play(ctx context.Context, cardID string, clip int) error {
	b.mu.RLock()
	clips, ok := b.clips[cardID]
	b.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: card %s", ErrClipNotLoaded, cardID)
	}
	if clip < 0 || clip >= len(clips) || clips[clip] == "" {
		return fmt.Errorf("%w: card %s clip %d", ErrNoClip, cardID, clip)
	}
	if len(b.player) == 0 {
		b.logger.Debug("no audio player configured", "card_id", cardID, "clip", clips[clip])
		return nil
	}

	args := append(append([]string(nil), b.player[1:]...), clips[clip])
	cmd := exec.CommandContext(ctx, b.player[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("play %s: %w: %s", clips[clip], err, strings.TrimSpace(string(out)))
	}
	return nil
}
