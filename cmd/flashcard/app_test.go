package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chadananda/flashcard/internal/config"
	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/platform/deckfile"
	"github.com/chadananda/flashcard/internal/platform/logger"
	"github.com/chadananda/flashcard/internal/session"
	"github.com/chadananda/flashcard/internal/store"
)

const runTimeout = 5 * time.Second

func testConfig(deckPath string) *config.Config {
	cfg := config.Default()
	cfg.Deck.Path = deckPath
	cfg.Session.CardTimeout = 0
	cfg.Session.SuccessDelay = time.Millisecond
	cfg.Session.QuestionPause = time.Millisecond
	cfg.Session.Seed = 1
	cfg.Audio.Workers = 1
	return cfg
}

func testVocab(t *testing.T, question, answer string) domain.Card {
	t.Helper()
	card, err := domain.NewCard(&domain.VocabContent{
		Question:  question,
		Answer:    answer,
		Incorrect: []string{"cat", "tree", "house"},
	})
	require.NoError(t, err)
	return *card
}

func writeDeck(t *testing.T, path string, cards ...domain.Card) {
	t.Helper()
	require.NoError(t, deckfile.Save(path, store.Snapshot{Cards: cards}, deckfile.Options{}))
}

type testApp struct {
	*application
	out  *logger.TestLogBuffer
	logs *logger.TestLogBuffer
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	log, logs := logger.GetTestLogger(t)
	out := &logger.TestLogBuffer{}

	app, err := newApplication(cfg, log, out)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	return &testApp{application: app, out: out, logs: logs}
}

// start runs the application in the background and returns its result
// channel and the writer feeding its console.
func (a *testApp) start(t *testing.T, ctx context.Context) (<-chan error, io.Writer) {
	t.Helper()
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, r) }()
	return done, w
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(runTimeout):
		t.Fatal("application did not stop")
		return nil
	}
}

// answerAll answers every live card correctly until Run returns.
func (a *testApp) answerAll(t *testing.T, done <-chan error) error {
	t.Helper()
	deadline := time.After(runTimeout)
	var last session.Token

	for {
		select {
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("session did not finish")
		default:
		}

		snap, ok := a.engine.Snapshot()
		if !ok || snap.Live.IsZero() || snap.Live == last {
			time.Sleep(time.Millisecond)
			continue
		}
		card, err := a.registry.Get(snap.Live.Card)
		require.NoError(t, err)

		direction := 0
		if status := snap.Status[card.ID]; status != nil {
			direction = status.L1
		}
		if err := a.engine.Submit(session.Answer(snap.Live, card.Content.Face(direction).Answer)); err == nil {
			last = snap.Live
		}
	}
}

func TestApplication_Run_CompletesSession(t *testing.T) {
	t.Parallel()

	deck := filepath.Join(t.TempDir(), "deck.json")
	writeDeck(t, deck, testVocab(t, "hola", "hello"), testVocab(t, "adios", "goodbye"))

	app := newTestApp(t, testConfig(deck))
	done, _ := app.start(t, context.Background())

	require.NoError(t, app.answerAll(t, done))
	assert.Contains(t, app.out.String(), "Session finished: 2 of 2 cards done")

	snap, err := deckfile.Load(deck, deckfile.Options{})
	require.NoError(t, err)
	require.Len(t, snap.Cards, 2)
	today := app.registry.Today()
	for _, card := range snap.Cards {
		assert.Equal(t, 1, card.Level, card.ID)
		assert.Equal(t, today+2, card.Schedule, card.ID)
	}
	logger.AssertLogContains(t, app.logs, "deck saved")
}

func TestApplication_Run_CancelFromConsole(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.json")
	writeDeck(t, deck, testVocab(t, "hola", "hello"))

	cfg := testConfig(deck)
	cfg.Deck.ExportPath = filepath.Join(dir, "export.yaml")
	app := newTestApp(t, cfg)
	done, w := app.start(t, context.Background())

	require.Eventually(t, app.engine.Active, runTimeout, time.Millisecond)
	_, err := io.WriteString(w, "q\n")
	require.NoError(t, err)

	require.NoError(t, waitRun(t, done))
	assert.Contains(t, app.out.String(), "Session cancelled")

	snap, err := deckfile.Load(cfg.Deck.ExportPath, deckfile.Options{})
	require.NoError(t, err)
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, 0, snap.Cards[0].Level)
}

func TestApplication_Run_NothingDue(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig(""))
	require.NoError(t, app.Run(context.Background(), strings.NewReader("")))

	assert.Contains(t, app.out.String(), "Nothing due today.")
	logger.AssertLogContains(t, app.logs, "no deck configured")
}

func TestApplication_Run_Monitor(t *testing.T) {
	t.Parallel()

	deck := filepath.Join(t.TempDir(), "deck.yaml")
	writeDeck(t, deck, testVocab(t, "hola", "hello"))

	cfg := testConfig(deck)
	cfg.Monitor.Enabled = true
	cfg.Monitor.AutoStart = true
	cfg.Monitor.Interval = time.Hour
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done, _ := app.start(t, ctx)

	// The first check runs at once and starts the session.
	require.Eventually(t, app.engine.Active, runTimeout, time.Millisecond)
	cancel()

	require.NoError(t, waitRun(t, done))
	assert.Contains(t, app.out.String(), "Session cancelled")
	logger.AssertLogContains(t, app.logs, "cards.due")
}

func TestApplication_LoadDeck(t *testing.T) {
	t.Parallel()

	t.Run("table rows that fail are skipped", func(t *testing.T) {
		t.Parallel()
		deck := filepath.Join(t.TempDir(), "deck.csv")
		csv := "type,question,answer,incorrect\n" +
			"vocab,hola,hello,cat|tree|house\n" +
			"bogus,x,y,z\n" +
			"vocab,adios,goodbye,cat\n"
		require.NoError(t, os.WriteFile(deck, []byte(csv), 0o600))

		app := newTestApp(t, testConfig(deck))
		require.NoError(t, app.loadDeck())

		assert.Equal(t, 1, app.registry.Len())
		logger.AssertLogContains(t, app.logs, "skipped deck row")
		logger.AssertLogContains(t, app.logs, "card rejected")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, testConfig(filepath.Join(t.TempDir(), "missing.json")))
		assert.Error(t, app.loadDeck())
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, testConfig(filepath.Join(t.TempDir(), "deck.txt")))
		err := app.loadDeck()
		require.Error(t, err)
		assert.ErrorIs(t, err, deckfile.ErrUnsupportedFormat)
	})
}

func TestApplication_SaveDeck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		wantWarn bool
	}{
		{name: "csv drops history", file: "deck.csv", wantWarn: true},
		{name: "yaml keeps history", file: "deck.yaml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			app := newTestApp(t, testConfig(path))
			app.registry.Import(store.Snapshot{
				Cards:   []domain.Card{testVocab(t, "hola", "hello")},
				History: map[string]int{"retired-1": 3},
			})

			require.NoError(t, app.saveDeck())
			logger.AssertLogContains(t, app.logs, "deck saved")
			if tt.wantWarn {
				logger.AssertLogContains(t, app.logs, "CSV decks do not keep retired cards")
			} else {
				assert.NotContains(t, app.logs.String(), "CSV decks do not keep retired cards")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("flags override the configuration", func(t *testing.T) {
		cfg, err := loadConfig([]string{"-deck", "cards.xlsx", "-export", "out.csv", "-watch"})
		require.NoError(t, err)
		assert.Equal(t, "cards.xlsx", cfg.Deck.Path)
		assert.Equal(t, "out.csv", cfg.Deck.ExportPath)
		assert.True(t, cfg.Monitor.Enabled)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("FLASHCARD_DECK_PATH", "env.yaml")
		t.Setenv("FLASHCARD_SESSION_HAND_SIZE", "5")

		cfg, err := loadConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, "env.yaml", cfg.Deck.Path)
		assert.Equal(t, 5, cfg.Session.HandSize)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := loadConfig([]string{"-nope"})
		assert.Error(t, err)
	})
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	got := engineConfig(cfg.Session)

	assert.Equal(t, session.DefaultConfig(), got)
	assert.Equal(t, cfg.Scheduler.Levels, schedulerParams(cfg.Scheduler).Levels)
	assert.Equal(t, 24*time.Hour, schedulerParams(cfg.Scheduler).DayBucket)
}
