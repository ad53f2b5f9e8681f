package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/chadananda/flashcard/internal/domain"
)

type eventKind int

const (
	evQuestionPlayed eventKind = iota + 1
	evCountdownStart
	evTick
	evSuccess
	evReplay
	evReplayPlayed
)

// presEvent is posted by timers and audio goroutines of one presentation.
type presEvent struct {
	token Token
	kind  eventKind
}

// judgeFunc records an answer on status and reports whether testing moved
// to the other direction.
type judgeFunc func(status *domain.CardStatus, correct bool) (flipped bool)

// choicePresenter drives one multiple-choice presentation. All of its state
// is owned by the goroutine running Present; timers and audio playback talk
// to it through events.
type choicePresenter struct {
	ctx    context.Context
	p      *Presentation
	face   domain.Face
	judge  judgeFunc
	status *domain.CardStatus
	events chan presEvent
	logger *slog.Logger

	answered  bool
	correct   bool
	countdown bool
	remaining time.Duration
	replays   int
	tick      Timer
	timers    []Timer
}

func presentChoice(ctx context.Context, p *Presentation, direction int, judge judgeFunc) Outcome {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &choicePresenter{
		ctx:    ctx,
		p:      p,
		face:   p.Card.Content.Face(direction),
		judge:  judge,
		status: p.Status,
		events: make(chan presEvent, 4),
		logger: logger.With(slog.String("card_id", p.Card.ID), slog.Int("direction", direction)),
	}
	defer c.stopTimers()

	prompt := Prompt{
		Token:       p.Token,
		CardID:      p.Card.ID,
		Type:        p.Card.Type,
		Direction:   direction,
		Question:    c.face.Question,
		Description: c.face.Description,
		Lang:        c.face.Lang,
		Choices:     Choices(c.face.Answer, c.face.Distractors, p.Choices, p.Rand),
		HasAudio:    c.face.QuestionClip != domain.NoClip,
		Progress:    p.Progress,
	}
	if err := p.Display.ShowCard(ctx, prompt); err != nil {
		if ctx.Err() != nil {
			return Outcome{Kind: OutcomeCancel}
		}
		c.logger.Error("failed to show card", slog.String("error", err.Error()))
		return Outcome{Kind: OutcomeNone, Err: err}
	}

	// Cards without a question clip go straight to the countdown.
	if c.face.QuestionClip != domain.NoClip {
		c.play(c.face.QuestionClip, evQuestionPlayed)
	} else {
		c.startCountdown(false)
	}

	for {
		select {
		case <-ctx.Done():
			return Outcome{Kind: OutcomeCancel}

		case in, ok := <-p.Inputs:
			if !ok {
				return Outcome{Kind: OutcomeCancel}
			}
			if in.Token != p.Token {
				c.logger.Debug("dropping stale input", slog.String("token", in.Token.String()))
				continue
			}
			if out, done := c.handleInput(in); done {
				return out
			}

		case ev := <-c.events:
			if ev.token != p.Token {
				continue
			}
			if out, done := c.handleEvent(ev); done {
				return out
			}
		}
	}
}

func (c *choicePresenter) handleInput(in Input) (Outcome, bool) {
	switch in.Kind {
	case InputAnswer:
		if !c.answered {
			c.answer(in.Answer)
			return Outcome{}, false
		}
		// Picking the correct answer acknowledges a wrong one.
		if !c.correct && in.Answer == c.face.Answer {
			return c.resolved(), true
		}

	case InputSkip:
		if !c.answered {
			return Outcome{Kind: OutcomeSkip, Status: c.status}, true
		}
		if !c.correct {
			return c.resolved(), true
		}

	case InputAcknowledge:
		if c.answered && !c.correct {
			return c.resolved(), true
		}
	}

	return Outcome{}, false
}

func (c *choicePresenter) handleEvent(ev presEvent) (Outcome, bool) {
	t := c.p.Timings

	switch ev.kind {
	case evQuestionPlayed:
		c.after(t.QuestionPause, evCountdownStart)

	case evCountdownStart:
		c.startCountdown(true)

	case evTick:
		if c.answered {
			break
		}
		c.remaining -= c.step()
		if c.remaining <= 0 {
			c.logger.Debug("card timed out")
			return Outcome{Kind: OutcomeSkip, Status: c.status}, true
		}
		c.tick = c.after(c.step(), evTick)
		c.showCountdown()

	case evSuccess:
		return c.resolved(), true

	case evReplay:
		if c.replays >= t.MaxReplays {
			break
		}
		c.replays++
		c.play(c.face.AnswerClip, evReplayPlayed)

	case evReplayPlayed:
		c.after(t.ReplayPause, evReplay)
	}

	return Outcome{}, false
}

func (c *choicePresenter) answer(chosen string) {
	c.answered = true
	c.correct = chosen == c.face.Answer
	if c.tick != nil {
		c.tick.Stop()
	}

	flipped := c.judge(c.status, c.correct)

	result := Result{
		Token:    c.p.Token,
		CardID:   c.p.Card.ID,
		Chosen:   chosen,
		Answer:   c.face.Answer,
		Correct:  c.correct,
		Flipped:  flipped,
		AwaitAck: !c.correct,
	}

	// Timer events are handled only after answer returns.
	switch {
	case c.correct:
		c.after(c.p.Timings.SuccessDelay, evSuccess)
	case c.face.AnswerClip != domain.NoClip && c.p.Timings.MaxReplays > 0:
		c.after(c.p.Timings.ReplayDelay, evReplay)
	}

	if err := c.p.Display.ShowResult(c.ctx, result); err != nil {
		c.logger.Warn("failed to show result", slog.String("error", err.Error()))
	}
}

func (c *choicePresenter) resolved() Outcome {
	return Outcome{Kind: OutcomeAnswered, Status: c.status}
}

func (c *choicePresenter) step() time.Duration {
	if s := c.p.Timings.CountdownStep; s > 0 {
		return s
	}
	return c.p.Timings.CardTimeout
}

func (c *choicePresenter) startCountdown(replayQuestion bool) {
	if c.answered || c.countdown {
		return
	}
	c.countdown = true

	if replayQuestion {
		c.play(c.face.QuestionClip, 0)
	}

	// A zero timeout disables auto-skip.
	if c.p.Timings.CardTimeout <= 0 {
		return
	}
	c.remaining = c.p.Timings.CardTimeout
	c.tick = c.after(c.step(), evTick)
	c.showCountdown()
}

func (c *choicePresenter) showCountdown() {
	countdown := Countdown{
		Token:     c.p.Token,
		Remaining: c.remaining,
		Total:     c.p.Timings.CardTimeout,
	}
	if err := c.p.Display.ShowCountdown(c.ctx, countdown); err != nil {
		c.logger.Debug("failed to show countdown", slog.String("error", err.Error()))
	}
}

// play runs a clip in the background and posts kind when it ends. A zero
// kind posts nothing.
func (c *choicePresenter) play(clip int, kind eventKind) {
	go func() {
		if err := c.p.Audio.Play(c.ctx, c.p.Card.ID, clip); err != nil && c.ctx.Err() == nil {
			c.logger.Warn("audio playback failed",
				slog.Int("clip", clip),
				slog.String("error", err.Error()))
		}
		if kind != 0 {
			c.post(kind)
		}
	}()
}

func (c *choicePresenter) after(d time.Duration, kind eventKind) Timer {
	timer := c.p.Clock.AfterFunc(d, func() { c.post(kind) })
	c.timers = append(c.timers, timer)
	return timer
}

// post delivers an event unless the presentation is over.
func (c *choicePresenter) post(kind eventKind) {
	if c.ctx.Err() != nil {
		return
	}
	select {
	case c.events <- presEvent{token: c.p.Token, kind: kind}:
	case <-c.ctx.Done():
	}
}

func (c *choicePresenter) stopTimers() {
	for _, timer := range c.timers {
		timer.Stop()
	}
}
