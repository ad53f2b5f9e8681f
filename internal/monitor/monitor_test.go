package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/mocks"
	"github.com/chadananda/flashcard/internal/session"
)

type fakeRegistry struct {
	today int
	due   []string
}

func (r *fakeRegistry) Today() int { return r.today }

func (r *fakeRegistry) Due(today int) []string {
	if today != r.today {
		return nil
	}
	return r.due
}

type fakeEngine struct {
	active  atomic.Bool
	starts  atomic.Int32
	StartFn func(ctx context.Context, ids []string) (*session.SessionInfo, error)
}

func (e *fakeEngine) Active() bool { return e.active.Load() }

func (e *fakeEngine) StartSession(ctx context.Context, ids []string) (*session.SessionInfo, error) {
	e.starts.Add(1)
	if e.StartFn != nil {
		return e.StartFn(ctx, ids)
	}
	return &session.SessionInfo{ID: uuid.New(), Total: 2}, nil
}

func TestMonitor_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		due        []string
		autoStart  bool
		active     bool
		startErr   error
		wantStarts int32
		wantErr    bool
	}{
		{name: "nothing due", autoStart: true},
		{name: "due without auto start", due: []string{"a", "b"}},
		{name: "due and idle", due: []string{"a", "b"}, autoStart: true, wantStarts: 1},
		{name: "due but busy", due: []string{"a"}, autoStart: true, active: true},
		{
			name: "lost the race", due: []string{"a"}, autoStart: true, wantStarts: 1,
			startErr: session.NewEngineError("start_session", "busy", session.ErrSessionActive),
		},
		{name: "start fails", due: []string{"a"}, autoStart: true, wantStarts: 1, startErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := &fakeRegistry{today: 42, due: tt.due}
			engine := &fakeEngine{}
			engine.active.Store(tt.active)
			if tt.startErr != nil {
				engine.StartFn = func(context.Context, []string) (*session.SessionInfo, error) {
					return nil, tt.startErr
				}
			}

			rec := &mocks.MockEventHandler{}
			emitter := events.NewInMemoryEventEmitter(nil)
			emitter.RegisterHandler(rec)

			m := New(reg, engine, Config{Interval: time.Minute, AutoStart: tt.autoStart}, WithEmitter(emitter))

			count, err := m.Check(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, len(tt.due), count)
			assert.Equal(t, tt.wantStarts, engine.starts.Load())

			require.Equal(t, 1, len(rec.Events()))
			event := rec.Events()[0]
			assert.Equal(t, events.TypeCardsDue, event.Type)
			assert.Equal(t, uuid.Nil, event.SessionID)

			var payload events.CardsDue
			require.NoError(t, event.UnmarshalPayload(&payload))
			assert.Equal(t, events.CardsDue{Today: 42, Count: len(tt.due)}, payload)
		})
	}
}

func TestMonitor_StartStop(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{today: 1, due: []string{"a"}}
	engine := &fakeEngine{}
	rec := &mocks.MockEventHandler{}
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(rec)

	m := New(reg, engine, Config{Interval: time.Hour, AutoStart: true}, WithEmitter(emitter))
	require.NoError(t, m.Start(context.Background()))
	assert.ErrorIs(t, m.Start(context.Background()), ErrAlreadyStarted)

	// The first check runs right away.
	assert.Eventually(t, func() bool { return len(rec.Events()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return engine.starts.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()
}

func TestMonitor_InvalidInterval(t *testing.T) {
	t.Parallel()

	m := New(&fakeRegistry{}, &fakeEngine{}, Config{})
	assert.Error(t, m.Start(context.Background()))
	m.Stop()
}

func TestNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(nil, &fakeEngine{}, Config{}) })
	assert.Panics(t, func() { New(&fakeRegistry{}, nil, Config{}) })
}
