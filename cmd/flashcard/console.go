package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chadananda/flashcard/internal/events"
	"github.com/chadananda/flashcard/internal/session"
)

// controller is the part of the engine the console drives.
type controller interface {
	Submit(in session.Input) error
	Cancel()
	StartSession(ctx context.Context, dueIDs []string) (*session.SessionInfo, error)
}

// console renders sessions as plain text and turns typed lines into engine
// input:
//
//	1..n   pick an answer
//	s      skip the card
//	enter  acknowledge a revealed answer
//	p      start a session over the due cards
//	q      end the session
type console struct {
	out    io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	prompt  session.Prompt
	live    bool
	waitAck bool
}

var (
	_ session.Display     = (*console)(nil)
	_ events.EventHandler = (*console)(nil)
)

func newConsole(out io.Writer, logger *slog.Logger) *console {
	if logger == nil {
		logger = slog.Default()
	}
	return &console{
		out:    out,
		logger: logger.With(slog.String("component", "console")),
	}
}

// ShowCard implements session.Display.
func (c *console) ShowCard(_ context.Context, p session.Prompt) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompt = p
	c.live = true
	c.waitAck = false

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d/%d] %s", p.Progress.Completed+1, p.Progress.Total, p.Question)
	if p.Lang != "" {
		fmt.Fprintf(&b, " (%s)", p.Lang)
	}
	b.WriteString("\n")
	if p.Description != "" {
		fmt.Fprintf(&b, "    %s\n", p.Description)
	}
	for i, choice := range p.Choices {
		fmt.Fprintf(&b, "  %d) %s\n", i+1, choice)
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

// ShowCountdown implements session.Display.
func (c *console) ShowCountdown(_ context.Context, cd session.Countdown) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.live || cd.Token != c.prompt.Token {
		return nil
	}
	_, err := fmt.Fprintf(c.out, "  %ds\n", int(cd.Remaining.Round(time.Second)/time.Second))
	return err
}

// ShowResult implements session.Display.
func (c *console) ShowResult(_ context.Context, r session.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waitAck = r.AwaitAck

	var err error
	switch {
	case r.Correct && r.Flipped:
		_, err = fmt.Fprintf(c.out, "  correct: %s (now the other way round)\n", r.Answer)
	case r.Correct:
		_, err = fmt.Fprintf(c.out, "  correct: %s\n", r.Answer)
	default:
		_, err = fmt.Fprintf(c.out, "  wrong: the answer is %s (press enter)\n", r.Answer)
	}
	return err
}

// ShowComplete implements session.Display.
func (c *console) ShowComplete(_ context.Context, s session.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.live = false
	c.waitAck = false
	c.prompt = session.Prompt{}

	_, err := fmt.Fprintf(c.out,
		"\nSession %s: %d of %d cards done, %d retired, %d deferred, %d left (%s)\n",
		s.Reason, s.Completed, s.Total, s.Retired, s.Deferred, s.Remaining,
		s.Duration.Round(time.Second))
	return err
}

// HandleEvent announces due cards found by the monitor.
func (c *console) HandleEvent(_ context.Context, event *events.Event) error {
	if event.Type != events.TypeCardsDue {
		return nil
	}

	var due events.CardsDue
	if err := event.UnmarshalPayload(&due); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live || due.Count == 0 {
		return nil
	}
	_, err := fmt.Fprintf(c.out, "%d cards due, type p to practice\n", due.Count)
	return err
}

// Listen reads commands from r until it is exhausted or ctx is done.
func (c *console) Listen(ctx context.Context, r io.Reader, ctl controller) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.command(ctx, strings.TrimSpace(scanner.Text()), ctl)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (c *console) command(ctx context.Context, line string, ctl controller) {
	switch strings.ToLower(line) {
	case "q":
		ctl.Cancel()
		return
	case "p":
		info, err := ctl.StartSession(ctx, nil)
		switch {
		case session.IsSessionActive(err):
			return
		case err != nil:
			c.logger.Error("failed to start session", slog.String("error", err.Error()))
		case info == nil:
			c.println("Nothing due.")
		}
		return
	}

	in, ok := c.input(line)
	if !ok {
		return
	}
	if err := ctl.Submit(in); err != nil {
		c.logger.Debug("input not accepted",
			slog.String("input", in.Kind.String()),
			slog.String("error", err.Error()))
	}
}

// input maps a typed line to an input for the live card.
func (c *console) input(line string) (session.Input, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.live {
		return session.Input{}, false
	}
	token := c.prompt.Token

	switch {
	case line == "":
		if !c.waitAck {
			return session.Input{}, false
		}
		return session.Acknowledge(token), true
	case strings.EqualFold(line, "s"):
		return session.Skip(token), true
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(c.prompt.Choices) {
		fmt.Fprintf(c.out, "  pick 1-%d, s to skip, q to quit\n", len(c.prompt.Choices))
		return session.Input{}, false
	}
	return session.Answer(token, c.prompt.Choices[n-1]), true
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, s)
}
