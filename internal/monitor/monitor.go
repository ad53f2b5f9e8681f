package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/session"
)

// ErrAlreadyStarted is returned when Start is called on a running monitor.
var ErrAlreadyStarted = errors.New("monitor already started")

// Registry is the part of the card registry the monitor reads.
type Registry interface {
	Today() int
	Due(today int) []string
}

// Engine is the part of the session engine the monitor drives.
type Engine interface {
	Active() bool
	StartSession(ctx context.Context, dueIDs []string) (*session.SessionInfo, error)
}

// Config holds the monitor settings.
type Config struct {
	// Interval is the time between checks.
	Interval time.Duration
	// AutoStart starts a session when cards are due and the engine is idle.
	AutoStart bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithEmitter sets where cards.due events are sent.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(m *Monitor) {
		if emitter != nil {
			m.emitter = emitter
		}
	}
}

// WithLogger sets the monitor logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// Monitor checks for due cards on a schedule.
type Monitor struct {
	registry Registry
	engine   Engine
	emitter  events.EventEmitter
	cfg      Config
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
}

// New creates a monitor. Nothing runs until Start.
func New(registry Registry, engine Engine, cfg Config, opts ...Option) *Monitor {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}

	m := &Monitor{
		registry: registry,
		engine:   engine,
		emitter:  events.NopEmitter{},
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(slog.String("component", "due_monitor"))
	return m
}

// Start schedules a check every Interval, the first one immediately. Checks
// never overlap. ctx is handed to sessions the monitor starts.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		return ErrAlreadyStarted
	}
	if m.cfg.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %s", m.cfg.Interval)
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(m.cfg.Interval).Do(func() {
		if _, err := m.Check(ctx); err != nil {
			m.logger.Warn("due check failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule due check: %w", err)
	}

	s.StartAsync()
	m.scheduler = s
	m.logger.Info("due monitor started",
		slog.Duration("interval", m.cfg.Interval),
		slog.Bool("auto_start", m.cfg.AutoStart))
	return nil
}

// Stop cancels the schedule. It is safe to call on a monitor that was never
// started.
func (m *Monitor) Stop() {
	m.mu.Lock()
	s := m.scheduler
	m.scheduler = nil
	m.mu.Unlock()

	if s == nil {
		return
	}
	s.Stop()
	m.logger.Info("due monitor stopped")
}

// Check counts the due cards, reports them and, with AutoStart, starts a
// session if the engine is idle. It returns the number of due cards.
func (m *Monitor) Check(ctx context.Context) (int, error) {
	today := m.registry.Today()
	due := m.registry.Due(today)
	count := len(due)

	event, err := events.NewEvent(events.TypeCardsDue, uuid.Nil, "", events.CardsDue{Today: today, Count: count})
	if err != nil {
		return count, err
	}
	if err := m.emitter.EmitEvent(ctx, event); err != nil {
		m.logger.Warn("event handler failed", slog.String("error", err.Error()))
	}

	m.logger.Debug("due check", slog.Int("today", today), slog.Int("due", count))

	if count == 0 || !m.cfg.AutoStart || m.engine.Active() {
		return count, nil
	}

	info, err := m.engine.StartSession(ctx, nil)
	switch {
	case session.IsSessionActive(err):
		// Someone else started one between Active and StartSession.
		return count, nil
	case err != nil:
		return count, fmt.Errorf("failed to start session: %w", err)
	case info != nil:
		m.logger.Info("session started for due cards",
			slog.String("session_id", info.ID.String()),
			slog.Int("total", info.Total))
	}
	return count, nil
}
