package session_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/domain/srs"
	"github.com/chadananda/flashcard/internal/session"
)

const waitTimeout = 2 * time.Second

var errCardMissing = errors.New("card not found")

type rescheduleCall struct {
	ID     string
	Passed bool
	Today  int
}

// fakeRegistry is an in-memory session.Registry. Cards at retireLevel or
// above retire when they pass.
type fakeRegistry struct {
	mu          sync.Mutex
	cards       map[string]domain.Card
	today       int
	retireLevel int
	calls       []rescheduleCall
}

func newFakeRegistry(cards ...domain.Card) *fakeRegistry {
	r := &fakeRegistry{cards: make(map[string]domain.Card), today: 100}
	for _, c := range cards {
		r.cards[c.ID] = c
	}
	return r
}

func (r *fakeRegistry) Get(id string) (domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return domain.Card{}, errCardMissing
	}
	return card, nil
}

func (r *fakeRegistry) Due(today int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, c := range r.cards {
		if c.Schedule <= today {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *fakeRegistry) Today() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.today
}

func (r *fakeRegistry) AddCards(cards []domain.Card) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var added []string
	for _, c := range cards {
		if _, ok := r.cards[c.ID]; ok {
			continue
		}
		c.Schedule = r.today
		r.cards[c.ID] = c
		added = append(added, c.ID)
	}
	return added
}

func (r *fakeRegistry) Reschedule(id string, passed bool, today int) (srs.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return srs.Result{}, errCardMissing
	}
	r.calls = append(r.calls, rescheduleCall{ID: id, Passed: passed, Today: today})

	level := 0
	if passed {
		level = card.Level + 1
	}
	if passed && r.retireLevel > 0 && level >= r.retireLevel {
		delete(r.cards, id)
		return srs.Result{Level: level, Retired: true, RetiredOn: today}, nil
	}
	card.Level = level
	card.Schedule = today + 1
	r.cards[id] = card
	return srs.Result{Level: level, Schedule: card.Schedule}, nil
}

func (r *fakeRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, id)
}

func (r *fakeRegistry) rescheduleCalls() []rescheduleCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rescheduleCall(nil), r.calls...)
}

// fakeDisplay forwards everything it is asked to show to buffered channels.
type fakeDisplay struct {
	cards      chan session.Prompt
	countdowns chan session.Countdown
	results    chan session.Result
	complete   chan session.Summary
	cardErr    error
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		cards:      make(chan session.Prompt, 64),
		countdowns: make(chan session.Countdown, 256),
		results:    make(chan session.Result, 64),
		complete:   make(chan session.Summary, 4),
	}
}

func (d *fakeDisplay) ShowCard(_ context.Context, p session.Prompt) error {
	if d.cardErr != nil {
		return d.cardErr
	}
	d.cards <- p
	return nil
}

func (d *fakeDisplay) ShowCountdown(_ context.Context, c session.Countdown) error {
	select {
	case d.countdowns <- c:
	default:
	}
	return nil
}

func (d *fakeDisplay) ShowResult(_ context.Context, r session.Result) error {
	d.results <- r
	return nil
}

func (d *fakeDisplay) ShowComplete(_ context.Context, s session.Summary) error {
	d.complete <- s
	return nil
}

func (d *fakeDisplay) nextCard(t *testing.T) session.Prompt {
	t.Helper()
	select {
	case p := <-d.cards:
		return p
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a card")
		return session.Prompt{}
	}
}

func (d *fakeDisplay) nextResult(t *testing.T) session.Result {
	t.Helper()
	select {
	case r := <-d.results:
		return r
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a result")
		return session.Result{}
	}
}

func (d *fakeDisplay) summary(t *testing.T) session.Summary {
	t.Helper()
	select {
	case s := <-d.complete:
		return s
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for the completion screen")
		return session.Summary{}
	}
}

func (d *fakeDisplay) noCard(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case p := <-d.cards:
		t.Fatalf("unexpected card %s", p.CardID)
	case <-time.After(within):
	}
}

type playCall struct {
	CardID string
	Clip   int
}

// fakeAudio records every call.
type fakeAudio struct {
	mu        sync.Mutex
	preloaded []string
	unloaded  []string
	plays     []playCall
}

func (a *fakeAudio) Preload(_ context.Context, cardID string, _ []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.preloaded = append(a.preloaded, cardID)
	return nil
}

func (a *fakeAudio) Unload(cardID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloaded = append(a.unloaded, cardID)
}

func (a *fakeAudio) Play(_ context.Context, cardID string, clip int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plays = append(a.plays, playCall{CardID: cardID, Clip: clip})
	return nil
}

func (a *fakeAudio) snapshot() (preloaded, unloaded []string, plays []playCall) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.preloaded...),
		append([]string(nil), a.unloaded...),
		append([]playCall(nil), a.plays...)
}

func vocabCard(t *testing.T, question, answer string, audio ...string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(&domain.VocabContent{
		Question:  question,
		Answer:    answer,
		Incorrect: []string{"wrong-1", "wrong-2", "wrong-3", "wrong-4"},
		Audio:     audio,
	})
	require.NoError(t, err)
	return *card
}

func langCard(t *testing.T, word0, word1 string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(&domain.LangVocabContent{
		Words: [2]string{word0, word1},
		Lang:  [2]string{"en", "es"},
		Incorrect: [2][]string{
			{"cat", "house", "tree"},
			{"gato", "casa", "árbol"},
		},
	})
	require.NoError(t, err)
	return *card
}

func quoteCard(t *testing.T, quote string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(&domain.QuoteContent{Quote: quote, Author: "anon"})
	require.NoError(t, err)
	return *card
}

// fastTimings keeps presentations quick and disables the countdown.
func fastTimings() session.Timings {
	return session.Timings{
		SuccessDelay:  time.Millisecond,
		QuestionPause: time.Millisecond,
		ReplayDelay:   time.Millisecond,
		ReplayPause:   time.Millisecond,
		MaxReplays:    2,
	}
}

func newTestEngine(t *testing.T, reg session.Registry, display session.Display, opts ...session.Option) *session.Engine {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Timings = fastTimings()

	all := append([]session.Option{
		session.WithConfig(cfg),
		session.WithRand(session.NewRand(1)),
	}, opts...)

	engine, err := session.NewEngine(reg, display, all...)
	require.NoError(t, err)
	t.Cleanup(engine.Cancel)
	return engine
}

// answerOf returns the expected answer for a prompt of card.
func answerOf(card domain.Card, prompt session.Prompt) string {
	return card.Content.Face(prompt.Direction).Answer
}
