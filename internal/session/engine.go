package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/domain/srs"
	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/platform/logger"
)

// Registry is the card registry as seen by the engine.
type Registry interface {
	Get(id string) (domain.Card, error)
	Due(today int) []string
	Today() int
	AddCards(cards []domain.Card) []string
	Reschedule(id string, passed bool, today int) (srs.Result, error)
}

// Config holds the engine settings.
type Config struct {
	// HandSize is the number of cards in rotation at once.
	HandSize int
	// Choices is the number of distractors shown with the correct answer.
	Choices int
	// InputBuffer is the capacity of the session input channel.
	InputBuffer int
	Timings     Timings
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	return Config{
		HandSize:    3,
		Choices:     3,
		InputBuffer: 16,
		Timings:     DefaultTimings(),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the engine settings. Non-positive sizes keep their defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		def := DefaultConfig()
		if cfg.HandSize <= 0 {
			cfg.HandSize = def.HandSize
		}
		if cfg.Choices < 0 {
			cfg.Choices = def.Choices
		}
		if cfg.InputBuffer <= 0 {
			cfg.InputBuffer = def.InputBuffer
		}
		e.cfg = cfg
	}
}

// WithAudio sets the audio adapter.
func WithAudio(audio Audio) Option {
	return func(e *Engine) {
		if audio != nil {
			e.audio = audio
		}
	}
}

// WithClock sets the clock used for timers.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRand sets the random source used for shuffling. It must be safe for
// concurrent use; see NewRand.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithEmitter sets where session events are sent.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(e *Engine) {
		if emitter != nil {
			e.emitter = emitter
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrategies replaces the default strategies.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Engine) {
		e.strategies = make(map[domain.CardType]Strategy, len(strategies))
		for _, s := range strategies {
			e.strategies[s.Type()] = s
		}
	}
}

// Engine runs practice sessions, one at a time.
type Engine struct {
	registry   Registry
	display    Display
	audio      Audio
	emitter    events.EventEmitter
	clock      Clock
	rng        *rand.Rand
	strategies map[domain.CardType]Strategy
	cfg        Config
	logger     *slog.Logger

	mu         sync.Mutex
	session    *Session
	live       Token
	generation uint64
	done       chan struct{}
}

// NewEngine creates an engine over registry that renders to display.
// Every card type must have a strategy.
func NewEngine(registry Registry, display Display, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, NewEngineError("new_engine", "registry cannot be nil", nil)
	}
	if display == nil {
		return nil, NewEngineError("new_engine", "display cannot be nil", nil)
	}

	idle := make(chan struct{})
	close(idle)

	e := &Engine{
		registry: registry,
		display:  display,
		audio:    NopAudio{},
		emitter:  events.NopEmitter{},
		clock:    RealClock{},
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
		done:     idle,
	}
	WithStrategies(DefaultStrategies()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(time.Now().UnixNano())
	}
	e.logger = e.logger.With(slog.String("component", "session_engine"))

	for _, t := range domain.CardTypes() {
		if _, ok := e.strategies[t]; !ok {
			return nil, NewEngineError("new_engine", string(t), ErrMissingStrategy)
		}
	}

	return e, nil
}

// StartSession starts a session over dueIDs, or over the shuffled due cards
// when dueIDs is nil. The first cards form the hand and the rest wait in
// the backlog. The session runs in its own goroutine; StartSession returns
// immediately.
//
// A session that was just cancelled is given time to show its completion
// screen first, so the new session's first card always comes after it.
//
// An empty list starts nothing and returns nil, nil. Cancelling ctx ends
// the session.
func (e *Engine) StartSession(ctx context.Context, dueIDs []string) (*SessionInfo, error) {
	if err := e.lockIdle(ctx); err != nil {
		return nil, err
	}

	var ids []string
	if dueIDs == nil {
		ids = e.registry.Due(e.registry.Today())
		e.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	} else {
		ids = dedupe(dueIDs)
	}
	if len(ids) == 0 {
		e.mu.Unlock()
		e.logger.Debug("no cards due, staying idle")
		return nil, nil
	}

	s := newSession(uuid.New(), len(ids), e.cfg.InputBuffer, e.clock.Now())
	n := min(len(ids), e.cfg.HandSize)
	s.Additional = append([]string(nil), ids[n:]...)

	var entered []domain.Card
	for _, id := range ids[:n] {
		if card, ok := e.addCardToHand(s, id); ok {
			entered = append(entered, card)
			continue
		}
		entered = append(entered, e.refill(s)...)
	}

	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	e.session = s
	e.done = s.done
	info := &SessionInfo{ID: s.ID, Total: s.total, Hand: append([]string(nil), s.Hand...)}
	e.mu.Unlock()

	log := e.logger.With(slog.String("session_id", s.ID.String()))
	sctx = logger.WithLogger(sctx, log)
	log.Info("session started",
		slog.Int("total", info.Total),
		slog.Int("hand", len(info.Hand)))

	e.preload(sctx, entered)
	e.emit(sctx, events.TypeSessionStarted, s.ID, "", events.SessionStarted{Total: info.Total, Hand: info.Hand})

	go e.run(sctx, s, log)

	return info, nil
}

// lockIdle acquires e.mu once no session is running and the last one has
// finished. On error the lock is not held.
func (e *Engine) lockIdle(ctx context.Context) error {
	for {
		e.mu.Lock()
		if e.session != nil {
			e.mu.Unlock()
			return NewEngineError("start_session", "cannot start a second session", ErrSessionActive)
		}
		prev := e.done
		select {
		case <-prev:
			return nil
		default:
		}
		e.mu.Unlock()

		select {
		case <-prev:
		case <-ctx.Done():
			return NewEngineError("start_session", "waiting for the previous session", ctx.Err())
		}
	}
}

// AddCards admits new cards to the registry. With forceSession set, a
// session is started over exactly the cards that were added.
func (e *Engine) AddCards(ctx context.Context, cards []domain.Card, forceSession bool) ([]string, error) {
	added := e.registry.AddCards(cards)
	if !forceSession || len(added) == 0 {
		return added, nil
	}

	if _, err := e.StartSession(ctx, added); err != nil {
		return added, err
	}
	return added, nil
}

// Submit delivers user input to the live card. It never blocks.
func (e *Engine) Submit(in Input) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return ErrNoActiveSession
	}
	if e.live.IsZero() || in.Token != e.live {
		return ErrStaleToken
	}

	select {
	case s.inputs <- in:
		return nil
	default:
		return ErrInputDropped
	}
}

// Cancel ends the running session. When it returns the engine is idle and
// no further hand changes or rescheduling happen for that session. Calling
// it without a session, or twice, does nothing.
func (e *Engine) Cancel() {
	e.mu.Lock()
	s := e.session
	if s == nil || s.cancelled {
		e.mu.Unlock()
		return
	}
	s.cancelled = true
	e.session = nil
	e.generation++
	e.live = Token{}
	e.mu.Unlock()

	s.cancel()
	e.logger.Info("session cancelled", slog.String("session_id", s.ID.String()))
}

// Active reports whether a session is running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Snapshot returns a copy of the running session.
func (e *Engine) Snapshot() (SessionSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return SessionSnapshot{}, false
	}
	return e.session.snapshot(e.live), true
}

// Done returns a channel closed once the most recent session has shown its
// completion screen. It is already closed if no session was ever started.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Wait blocks until the most recent session finishes or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// addCardToHand puts id in the hand with a fresh status. Ids that are empty
// or not in the registry are skipped.
func (e *Engine) addCardToHand(s *Session, id string) (domain.Card, bool) {
	if id == "" {
		return domain.Card{}, false
	}
	card, err := e.registry.Get(id)
	if err != nil {
		e.logger.Warn("skipping card missing from registry",
			slog.String("session_id", s.ID.String()),
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return domain.Card{}, false
	}

	s.Hand = append(s.Hand, id)
	s.Status[id] = domain.NewCardStatus(&card)
	return card, true
}

// refill pulls cards off the backlog until one enters the hand or the
// backlog is empty.
func (e *Engine) refill(s *Session) []domain.Card {
	for {
		id, ok := s.popAdditional()
		if !ok {
			return nil
		}
		if card, ok := e.addCardToHand(s, id); ok {
			return []domain.Card{card}
		}
	}
}

func (e *Engine) run(ctx context.Context, s *Session, log *slog.Logger) {
	defer close(s.done)

	for {
		e.mu.Lock()
		if s.cancelled {
			summary := s.summary(EndCancelled, e.clock.Now())
			e.mu.Unlock()
			e.finish(ctx, s, summary, log)
			return
		}

		id, ok := s.head()
		if !ok {
			summary := e.endLocked(s, EndFinished)
			e.mu.Unlock()
			e.finish(ctx, s, summary, log)
			return
		}

		card, err := e.registry.Get(id)
		if err != nil {
			log.Warn("card left the registry, dropping it from the hand",
				slog.String("card_id", id),
				slog.String("error", err.Error()))
			s.dropHead()
			entered := e.refill(s)
			e.mu.Unlock()

			e.audio.Unload(id)
			e.preload(ctx, entered)
			continue
		}

		status := s.Status[id]
		if status == nil {
			status = domain.NewCardStatus(&card)
			s.Status[id] = status
		}

		e.generation++
		token := Token{Session: s.ID, Card: id, Generation: e.generation}
		e.live = token
		presentation := &Presentation{
			Token:    token,
			Card:     card,
			Status:   status.Clone(),
			Progress: s.progress(),
			Inputs:   s.inputs,
			Display:  e.display,
			Audio:    e.audio,
			Clock:    e.clock,
			Timings:  e.cfg.Timings,
			Choices:  e.cfg.Choices,
			Rand:     e.rng,
			Logger:   log,
		}
		strategy, found := e.strategies[card.Type]
		e.mu.Unlock()

		var out Outcome
		if found {
			pctx, pcancel := context.WithCancel(ctx)
			out = strategy.Present(pctx, presentation)
			pcancel()
		} else {
			out = Outcome{Kind: OutcomeUnsupported, Err: fmt.Errorf("%w: %q", ErrUnknownCardType, card.Type)}
			log.Error("no strategy for card type",
				slog.String("card_id", id),
				slog.String("type", string(card.Type)))
		}

		if e.apply(ctx, s, id, out, log) {
			return
		}
	}
}

type pendingEvent struct {
	typ     string
	cardID  string
	payload interface{}
}

// apply folds one outcome into the session. It reports whether the session
// is over.
func (e *Engine) apply(ctx context.Context, s *Session, id string, out Outcome, log *slog.Logger) bool {
	e.mu.Lock()
	e.live = Token{}

	if s.cancelled {
		summary := s.summary(EndCancelled, e.clock.Now())
		e.mu.Unlock()
		e.finish(ctx, s, summary, log)
		return true
	}

	var (
		entered []domain.Card
		unload  bool
		pending []pendingEvent
	)

	switch out.Kind {
	case OutcomeNone:
		summary := e.endLocked(s, EndAborted)
		e.mu.Unlock()
		log.Error("presentation failed, ending session", slog.Any("error", out.Err))
		e.finish(ctx, s, summary, log)
		return true

	case OutcomeCancel:
		summary := e.endLocked(s, EndCancelled)
		e.mu.Unlock()
		e.finish(ctx, s, summary, log)
		return true

	case OutcomeSkip:
		if out.Status != nil {
			s.Status[id] = out.Status
		}
		s.rotate()

	case OutcomeAnswered:
		if out.Status != nil {
			s.Status[id] = out.Status
		}
		if !out.Completed() {
			s.rotate()
			break
		}

		result, err := e.registry.Reschedule(id, out.Status.Passed, e.registry.Today())
		switch {
		case err != nil:
			log.Error("failed to reschedule card",
				slog.String("card_id", id),
				slog.String("error", err.Error()))
		case result.Retired:
			s.retired++
			pending = append(pending, pendingEvent{events.TypeCardRetired, id, events.CardRetired{Day: result.RetiredOn}})
		default:
			s.rescheduled++
			pending = append(pending, pendingEvent{events.TypeCardRescheduled, id, events.CardRescheduled{
				Passed:   out.Status.Passed,
				Level:    result.Level,
				Schedule: result.Schedule,
			}})
		}

		s.dropHead()
		s.Completed = append(s.Completed, id)
		unload = true
		entered = e.refill(s)

	case OutcomeUnsupported:
		log.Warn("card deferred", slog.String("card_id", id), slog.Any("error", out.Err))
		s.dropHead()
		s.Deferred = append(s.Deferred, id)
		unload = true
		entered = e.refill(s)
	}
	e.mu.Unlock()

	if unload {
		e.audio.Unload(id)
	}
	e.preload(ctx, entered)
	for _, p := range pending {
		e.emit(ctx, p.typ, s.ID, p.cardID, p.payload)
	}

	return false
}

// endLocked returns the engine to idle if s is still its session.
func (e *Engine) endLocked(s *Session, reason EndReason) Summary {
	if e.session == s {
		e.session = nil
	}
	e.live = Token{}
	return s.summary(reason, e.clock.Now())
}

func (e *Engine) finish(ctx context.Context, s *Session, summary Summary, log *slog.Logger) {
	defer s.cancel()

	ctx = context.WithoutCancel(ctx)
	if err := e.display.ShowComplete(ctx, summary); err != nil {
		log.Warn("failed to show completion screen", slog.String("error", err.Error()))
	}

	e.emit(ctx, events.TypeSessionEnded, s.ID, "", events.SessionEnded{
		Reason:      string(summary.Reason),
		Completed:   summary.Completed,
		Rescheduled: summary.Rescheduled,
		Retired:     summary.Retired,
		Deferred:    summary.Deferred,
		Remaining:   summary.Remaining,
	})

	log.Info("session ended",
		slog.String("reason", string(summary.Reason)),
		slog.Int("completed", summary.Completed),
		slog.Int("retired", summary.Retired),
		slog.Int("deferred", summary.Deferred),
		slog.Duration("duration", summary.Duration))
}

func (e *Engine) preload(ctx context.Context, cards []domain.Card) {
	for _, card := range cards {
		if card.Content == nil {
			continue
		}
		files := card.Content.AudioFiles()
		if !hasAudio(files) {
			continue
		}
		if err := e.audio.Preload(ctx, card.ID, files); err != nil {
			logger.FromContextOrDefault(ctx, e.logger).Warn("audio preload failed",
				slog.String("card_id", card.ID),
				slog.String("error", err.Error()))
		}
	}
}

func (e *Engine) emit(ctx context.Context, typ string, sessionID uuid.UUID, cardID string, payload interface{}) {
	event, err := events.NewEvent(typ, sessionID, cardID, payload)
	if err != nil {
		e.logger.Error("failed to build event", slog.String("type", typ), slog.String("error", err.Error()))
		return
	}
	if err := e.emitter.EmitEvent(ctx, event); err != nil {
		e.logger.Warn("event handler failed", slog.String("type", typ), slog.String("error", err.Error()))
	}
}

func hasAudio(files []string) bool {
	for _, f := range files {
		if f != "" {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IsSessionActive reports whether err means a session was already running.
func IsSessionActive(err error) bool {
	return errors.Is(err, ErrSessionActive)
}
