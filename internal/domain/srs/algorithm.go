package srs

import "time"

// Result is the scheduling state of a card after a session outcome.
type Result struct {
	// Level is the card's new level.
	Level int

	// Schedule is the day bucket on which the card is next due. It is only
	// meaningful when Retired is false.
	Schedule int

	// Retired is set when the level ran off the end of the table. The card
	// leaves the active set for good.
	Retired bool

	// RetiredOn is the day bucket of retirement.
	RetiredOn int
}

// calculateToday maps a wall-clock time to its day bucket.
//
// Buckets are counted from the Unix epoch with floor division, so every
// instant inside the same bucket yields the same value and the value never
// decreases as time moves forward.
func calculateToday(now time.Time, bucket time.Duration) int {
	ms := now.UnixMilli()
	width := bucket.Milliseconds()
	q := ms / width
	if ms%width != 0 && ms < 0 {
		q--
	}
	return int(q)
}

// calculateNext advances or resets a card's level and computes its next due
// day.
//
// Algorithm behavior:
//   - passed: level increases by one
//   - failed: level resets to 0
//   - if the new level indexes the table, the card is due today + Levels[level]
//   - otherwise the card is retired on today
func calculateNext(level int, passed bool, today int, params *Params) Result {
	if passed {
		level++
	} else {
		level = 0
	}

	if level < len(params.Levels) {
		return Result{
			Level:    level,
			Schedule: today + params.Levels[level],
		}
	}

	return Result{
		Level:     level,
		Retired:   true,
		RetiredOn: today,
	}
}
