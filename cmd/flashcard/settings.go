package main

import (
	"math/rand"
	"time"

	"github.com/chadananda/flashcard/internal/config"
	"github.com/chadananda/flashcard/internal/domain/srs"
	"github.com/chadananda/flashcard/internal/session"
)

func schedulerParams(cfg config.SchedulerConfig) *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		Levels:    cfg.Levels,
		DayBucket: cfg.DayBucket,
	})
}

func engineConfig(cfg config.SessionConfig) session.Config {
	return session.Config{
		HandSize:    cfg.HandSize,
		Choices:     cfg.Choices,
		InputBuffer: cfg.InputBuffer,
		Timings: session.Timings{
			CardTimeout:   cfg.CardTimeout,
			CountdownStep: cfg.CountdownStep,
			SuccessDelay:  cfg.SuccessDelay,
			QuestionPause: cfg.QuestionPause,
			ReplayDelay:   cfg.ReplayDelay,
			ReplayPause:   cfg.ReplayPause,
			MaxReplays:    cfg.MaxReplays,
		},
	}
}

// newRand seeds from the clock unless seed is fixed.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return session.NewRand(seed)
}
