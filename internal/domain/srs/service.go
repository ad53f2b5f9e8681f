package srs

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrNegativeLevel = errors.New("card level cannot be negative")
)

// Service defines the interface for scheduling operations
type Service interface {
	// Today returns the day bucket containing now.
	Today(now time.Time) int

	// Next computes the level and schedule of a card leaving the hand.
	Next(level int, passed bool, today int) (Result, error)

	// Levels returns a copy of the interval table.
	Levels() []int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
// The parameters are validated first.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// Today implements the Service interface
func (s *defaultService) Today(now time.Time) int {
	return calculateToday(now, s.params.DayBucket)
}

// Next implements the Service interface
func (s *defaultService) Next(level int, passed bool, today int) (Result, error) {
	if level < 0 {
		return Result{}, ErrNegativeLevel
	}
	return calculateNext(level, passed, today, s.params), nil
}

// Levels implements the Service interface
func (s *defaultService) Levels() []int {
	return append([]int(nil), s.params.Levels...)
}
