package srs

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDayBucket is the width of one scheduling day.
const DefaultDayBucket = 24 * time.Hour

// Parameter validation errors
var (
	ErrNoLevels        = errors.New("level table cannot be empty")
	ErrInvalidInterval = errors.New("level intervals must be at least 1 day")
	ErrInvalidBucket   = errors.New("day bucket must be positive")
)

// DefaultLevels returns the repetition intervals, in day buckets, indexed by
// card level.
func DefaultLevels() []int {
	return []int{1, 2, 4, 10, 25, 60, 150}
}

// Params defines all configurable parameters for the scheduler
type Params struct {
	// Levels holds the interval applied after reaching each level. A card
	// whose level reaches len(Levels) is retired.
	Levels []int

	// DayBucket is the coarse time unit that "today" is measured in.
	DayBucket time.Duration
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	Levels    []int
	DayBucket time.Duration
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Levels:    DefaultLevels(),
		DayBucket: DefaultDayBucket,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.Levels) > 0 {
		params.Levels = append([]int(nil), config.Levels...)
	}
	if config.DayBucket > 0 {
		params.DayBucket = config.DayBucket
	}

	return params
}

// Validate checks that the parameters describe a usable schedule.
func (p *Params) Validate() error {
	if len(p.Levels) == 0 {
		return ErrNoLevels
	}
	for i, interval := range p.Levels {
		if interval < 1 {
			return fmt.Errorf("%w: level %d has interval %d", ErrInvalidInterval, i, interval)
		}
	}
	if p.DayBucket <= 0 {
		return ErrInvalidBucket
	}
	return nil
}
