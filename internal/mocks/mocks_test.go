package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/mocks"
	"github.com/chadananda/flashcard/internal/session"
)

func TestMockDisplay(t *testing.T) {
	t.Parallel()

	t.Run("records calls with default behavior", func(t *testing.T) {
		t.Parallel()
		d := &mocks.MockDisplay{}
		ctx := context.Background()

		require.NoError(t, d.ShowCard(ctx, session.Prompt{CardID: "a"}))
		require.NoError(t, d.ShowCountdown(ctx, session.Countdown{}))
		require.NoError(t, d.ShowResult(ctx, session.Result{CardID: "a", Correct: true}))
		require.NoError(t, d.ShowComplete(ctx, session.Summary{Reason: session.EndFinished}))

		assert.Len(t, d.Prompts(), 1)
		assert.Len(t, d.Countdowns(), 1)
		assert.True(t, d.Results()[0].Correct)
		assert.Equal(t, session.EndFinished, d.Summaries()[0].Reason)
	})

	t.Run("custom behavior", func(t *testing.T) {
		t.Parallel()
		want := errors.New("terminal closed")
		d := &mocks.MockDisplay{
			ShowCardFn: func(context.Context, session.Prompt) error { return want },
		}

		assert.ErrorIs(t, d.ShowCard(context.Background(), session.Prompt{}), want)
		assert.Len(t, d.Prompts(), 1)
	})
}

func TestMockAudio(t *testing.T) {
	t.Parallel()

	a := &mocks.MockAudio{
		PlayFn: func(_ context.Context, _ string, clip int) error {
			if clip > 0 {
				return errors.New("no such clip")
			}
			return nil
		},
	}
	ctx := context.Background()

	require.NoError(t, a.Preload(ctx, "a", []string{"a.mp3"}))
	a.Unload("a")
	assert.NoError(t, a.Play(ctx, "a", 0))
	assert.Error(t, a.Play(ctx, "a", 1))

	assert.Equal(t, []string{"a"}, a.Preloaded())
	assert.Equal(t, []string{"a"}, a.Unloaded())
	assert.Equal(t, []int{0, 1}, a.Calls.PlayClip)
}

func TestMockEventHandler(t *testing.T) {
	t.Parallel()

	h := &mocks.MockEventHandler{}
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(h)

	event, err := events.NewEvent(events.TypeSessionStarted, uuid.New(), "", events.SessionStarted{Total: 1})
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	assert.Equal(t, []string{events.TypeSessionStarted}, h.Types())
}
