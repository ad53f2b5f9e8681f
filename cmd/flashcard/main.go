// Package main implements the flashcard command. It loads a deck, runs
// spaced-repetition practice sessions on the terminal and writes the
// updated deck back when it exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chadananda/flashcard/internal/config"
	"github.com/chadananda/flashcard/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("flashcard: %v", err)
	}
}

// run is main without the process globals.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app, err := newApplication(cfg, appLogger, out)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx, in)
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("flashcard", flag.ContinueOnError)
	deck := fs.String("deck", "", "deck file (.yaml, .json, .csv or .xlsx)")
	export := fs.String("export", "", "write the deck here instead of back to -deck")
	watch := fs.Bool("watch", false, "keep running and check for due cards on a schedule")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if *deck != "" {
		cfg.Deck.Path = *deck
	}
	if *export != "" {
		cfg.Deck.ExportPath = *export
	}
	if *watch {
		cfg.Monitor.Enabled = true
	}
	return cfg, nil
}
