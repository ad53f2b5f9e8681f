package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/domain/srs"
)

// DefaultMinChoices is the number of distinct incorrect answers a card must
// carry per direction to be admitted.
const DefaultMinChoices = 3

// Snapshot is the exchange format of a card store: the active cards and the
// retirement history (card id to the day bucket it retired on).
type Snapshot struct {
	Cards   []domain.Card  `json:"cards" yaml:"cards"`
	History map[string]int `json:"history,omitempty" yaml:"history,omitempty"`
}

// Rejection names a card that was not admitted and why.
type Rejection struct {
	ID  string
	Err error
}

// ImportResult summarises a bulk load into the registry.
type ImportResult struct {
	// Imported lists the ids that were added.
	Imported []string
	// Skipped lists ids that were already known, either active or retired.
	Skipped []string
	// Rejected lists cards that failed validation or have an unsupported type.
	Rejected []Rejection
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNow sets the wall clock used to compute today.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithMinChoices sets the distractor pool minimum enforced on admission.
// Zero disables the check.
func WithMinChoices(n int) Option {
	return func(r *Registry) {
		r.minChoices = n
	}
}

// Registry is the in-memory set of active cards plus the retirement history.
type Registry struct {
	mu         sync.RWMutex
	cards      map[string]*domain.Card
	history    map[string]int
	srs        srs.Service
	now        func() time.Time
	minChoices int
	logger     *slog.Logger
}

// NewRegistry creates an empty registry that reschedules with scheduler.
func NewRegistry(scheduler srs.Service, opts ...Option) *Registry {
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	r := &Registry{
		cards:      make(map[string]*domain.Card),
		history:    make(map[string]int),
		srs:        scheduler,
		now:        time.Now,
		minChoices: DefaultMinChoices,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("component", "card_registry"))

	return r
}

// Today returns the current day bucket.
func (r *Registry) Today() int {
	return r.srs.Today(r.now())
}

// CardFound reports whether id is active or retired.
func (r *Registry) CardFound(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.knownLocked(id)
}

func (r *Registry) knownLocked(id string) bool {
	if _, ok := r.cards[id]; ok {
		return true
	}
	_, ok := r.history[id]
	return ok
}

// Get returns a copy of the active card with the given id.
func (r *Registry) Get(id string) (domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		if _, retired := r.history[id]; retired {
			return domain.Card{}, fmt.Errorf("%w: %s", ErrCardRetired, id)
		}
		return domain.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return *card, nil
}

// Len returns the number of active cards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cards)
}

// History returns a copy of the retirement history.
func (r *Registry) History() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.history))
	for id, day := range r.history {
		out[id] = day
	}
	return out
}

// Due returns the ids of active cards whose schedule is at or before today,
// sorted by id.
func (r *Registry) Due(today int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	due := make([]string, 0, len(r.cards))
	for id, card := range r.cards {
		if card.Schedule <= today {
			due = append(due, id)
		}
	}
	sort.Strings(due)
	return due
}

// AddCards admits cards that are not yet known. Each admitted card starts at
// level 0 and is due today. Known ids are ignored and invalid cards are
// logged and dropped. The ids actually added are returned in input order.
func (r *Registry) AddCards(cards []domain.Card) []string {
	today := r.Today()

	r.mu.Lock()
	defer r.mu.Unlock()

	added := make([]string, 0, len(cards))
	for i := range cards {
		card := cards[i]
		if r.knownLocked(card.ID) {
			continue
		}
		if err := r.admit(&card); err != nil {
			r.logger.Warn("card rejected",
				slog.String("card_id", card.ID),
				slog.String("error", err.Error()))
			continue
		}

		card.Level = 0
		card.Schedule = today
		r.cards[card.ID] = &card
		added = append(added, card.ID)
	}

	if len(added) > 0 {
		r.logger.Info("cards added", slog.Int("count", len(added)))
	}
	return added
}

// Import loads a card store snapshot. Only vocab and lang_vocab cards are
// accepted. A zero schedule defaults to today and a negative level to 0.
// The history is merged in. Importing the same snapshot twice is a no-op.
func (r *Registry) Import(snapshot Snapshot) ImportResult {
	today := r.Today()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, day := range snapshot.History {
		if _, ok := r.history[id]; !ok {
			r.history[id] = day
		}
	}

	var result ImportResult
	for i := range snapshot.Cards {
		card := snapshot.Cards[i]

		if !card.Type.Importable() {
			result.Rejected = append(result.Rejected, Rejection{
				ID:  card.ID,
				Err: fmt.Errorf("%w: %q", ErrUnsupportedType, card.Type),
			})
			continue
		}
		if card.ID == "" && card.Content != nil {
			card.ID = domain.CardID(card.Content)
		}
		if r.knownLocked(card.ID) {
			result.Skipped = append(result.Skipped, card.ID)
			continue
		}

		if card.Level < 0 {
			card.Level = 0
		}
		if card.Schedule == 0 {
			card.Schedule = today
		}

		if err := r.admit(&card); err != nil {
			result.Rejected = append(result.Rejected, Rejection{ID: card.ID, Err: err})
			continue
		}

		r.cards[card.ID] = &card
		result.Imported = append(result.Imported, card.ID)
	}

	r.logger.Info("snapshot imported",
		slog.Int("imported", len(result.Imported)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("rejected", len(result.Rejected)),
		slog.Int("history", len(r.history)))

	return result
}

func (r *Registry) admit(card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	if r.minChoices > 0 {
		if err := card.ValidateChoices(r.minChoices); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
		}
	}
	return nil
}

// Reschedule applies a session outcome to an active card. A pass advances
// the level and a fail resets it. A card whose level runs off the end of the
// interval table is retired: it leaves the active set and its id is recorded
// in the history with today's day bucket.
func (r *Registry) Reschedule(id string, passed bool, today int) (srs.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok {
		return srs.Result{}, NewStoreError("card", "reschedule", id, ErrCardNotFound)
	}

	result, err := r.srs.Next(card.Level, passed, today)
	if err != nil {
		return srs.Result{}, NewStoreError("card", "reschedule", id, err)
	}

	if result.Retired {
		delete(r.cards, id)
		r.history[id] = result.RetiredOn
		r.logger.Info("card retired",
			slog.String("card_id", id),
			slog.Int("day", result.RetiredOn))
		return result, nil
	}

	card.Level = result.Level
	card.Schedule = result.Schedule
	r.logger.Debug("card rescheduled",
		slog.String("card_id", id),
		slog.Bool("passed", passed),
		slog.Int("level", result.Level),
		slog.Int("schedule", result.Schedule))

	return result, nil
}

// Snapshot exports the registry in the card store format, cards sorted by id.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Cards:   make([]domain.Card, 0, len(r.cards)),
		History: make(map[string]int, len(r.history)),
	}
	for _, card := range r.cards {
		snap.Cards = append(snap.Cards, *card)
	}
	sort.Slice(snap.Cards, func(i, j int) bool { return snap.Cards[i].ID < snap.Cards[j].ID })
	for id, day := range r.history {
		snap.History[id] = day
	}
	return snap
}
