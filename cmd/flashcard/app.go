package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chadananda/flashcard/internal/config"
	"github.com/chadananda/flashcard/internal/domain/srs"
	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/monitor"
	"github.com/chadananda/flashcard/internal/platform/deckfile"
	"github.com/chadananda/flashcard/internal/session"
	"github.com/chadananda/flashcard/internal/store"
	"github.com/chadananda/flashcard/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry *store.Registry
	engine   *session.Engine
	console  *console
	monitor  *monitor.Monitor

	eventEmitter *events.InMemoryEventEmitter

	// Audio preloading
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
}

// newApplication wires the registry, audio loader, session engine and
// console. out receives the console display.
func newApplication(cfg *config.Config, logger *slog.Logger, out io.Writer) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	scheduler, err := srs.NewServiceWithParams(schedulerParams(cfg.Scheduler))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	app.registry = store.NewRegistry(scheduler,
		store.WithLogger(logger),
		store.WithMinChoices(cfg.Session.Choices))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.HandlerFunc(app.logEvent))

	app.taskQueue = task.NewTaskQueue(cfg.Audio.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Audio.Workers,
	}, logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		logger.Warn("audio task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("error", err.Error()))
	})
	backend := task.NewFileBackend(cfg.Audio.Dir, cfg.Audio.Player, logger)
	audio := task.NewAudioLoader(backend, app.taskQueue, logger)

	app.console = newConsole(out, logger)
	app.eventEmitter.RegisterHandler(app.console, events.TypeCardsDue)

	app.engine, err = session.NewEngine(app.registry, app.console,
		session.WithConfig(engineConfig(cfg.Session)),
		session.WithRand(newRand(cfg.Session.Seed)),
		session.WithAudio(audio),
		session.WithEmitter(app.eventEmitter),
		session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create session engine: %w", err)
	}

	if cfg.Monitor.Enabled {
		app.monitor = monitor.New(app.registry, app.engine, monitor.Config{
			Interval:  cfg.Monitor.Interval,
			AutoStart: cfg.Monitor.AutoStart,
		}, monitor.WithEmitter(app.eventEmitter), monitor.WithLogger(logger))
	}

	logger.Info("application initialized",
		slog.Int("hand_size", cfg.Session.HandSize),
		slog.Int("audio_workers", cfg.Audio.Workers),
		slog.Bool("monitor", cfg.Monitor.Enabled))
	return app, nil
}

// Run loads the deck, practices until the session ends (or, with the
// monitor enabled, until ctx is done) and writes the deck back.
func (app *application) Run(ctx context.Context, in io.Reader) error {
	if err := app.loadDeck(); err != nil {
		return err
	}

	app.workerPool.Start()

	go func() {
		if err := app.console.Listen(ctx, in, app.engine); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error("console input stopped", slog.String("error", err.Error()))
		}
	}()

	if app.monitor != nil {
		if err := app.monitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start due monitor: %w", err)
		}
		<-ctx.Done()
		app.monitor.Stop()
		app.engine.Cancel()
	} else {
		info, err := app.engine.StartSession(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		if info == nil {
			app.console.println("Nothing due today.")
		}
	}

	// The completion screen is shown even after ctx is done.
	<-app.engine.Done()

	return app.saveDeck()
}

func (app *application) loadDeck() error {
	path := app.config.Deck.Path
	if path == "" {
		app.logger.Warn("no deck configured, starting with an empty registry")
		return nil
	}

	snap, err := deckfile.Load(path, deckfile.Options{Sheet: app.config.Deck.Sheet})
	var rowErrs deckfile.RowErrors
	switch {
	case errors.As(err, &rowErrs):
		for _, rowErr := range rowErrs {
			app.logger.Warn("skipped deck row",
				slog.Int("row", rowErr.Row),
				slog.String("error", rowErr.Err.Error()))
		}
	case err != nil:
		return fmt.Errorf("failed to load deck %s: %w", path, err)
	}

	result := app.registry.Import(snap)
	for _, rejected := range result.Rejected {
		app.logger.Warn("card rejected",
			slog.String("card_id", rejected.ID),
			slog.String("error", rejected.Err.Error()))
	}
	app.logger.Info("deck loaded",
		slog.String("path", path),
		slog.Int("cards", app.registry.Len()),
		slog.Int("due", len(app.registry.Due(app.registry.Today()))))
	return nil
}

func (app *application) saveDeck() error {
	path := app.config.Deck.ExportPath
	if path == "" {
		path = app.config.Deck.Path
	}
	if path == "" {
		return nil
	}

	snap := app.registry.Snapshot()
	if format, err := deckfile.FormatOf(path); err == nil && format == deckfile.FormatCSV && len(snap.History) > 0 {
		app.logger.Warn("CSV decks do not keep retired cards, they will be imported again next run",
			slog.String("path", path),
			slog.Int("retired", len(snap.History)))
	}

	if err := deckfile.Save(path, snap, deckfile.Options{Sheet: app.config.Deck.Sheet}); err != nil {
		return fmt.Errorf("failed to save deck %s: %w", path, err)
	}
	app.logger.Info("deck saved", slog.String("path", path), slog.Int("cards", app.registry.Len()))
	return nil
}

func (app *application) logEvent(_ context.Context, event *events.Event) error {
	app.logger.Debug("event",
		slog.String("type", event.Type),
		slog.String("session_id", event.SessionID.String()),
		slog.String("card_id", event.CardID),
		slog.String("payload", string(event.Payload)))
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.monitor != nil {
		app.monitor.Stop()
	}
	if app.engine != nil {
		app.engine.Cancel()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}

	app.logger.Info("application shutdown completed")
}
