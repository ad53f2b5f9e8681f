package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chadananda/flashcard/internal/domain"
)

// Session is the state of one practice run. It is owned by the engine and
// only changed under the engine lock.
//
// Hand holds the cards in rotation, head first. Additional is the backlog;
// cards are pulled from its end. A card has an entry in Status exactly while
// it is in the hand.
type Session struct {
	ID         uuid.UUID
	Hand       []string
	Additional []string
	Completed  []string
	Deferred   []string
	Status     map[string]*domain.CardStatus

	total       int
	rescheduled int
	retired     int
	started     time.Time

	cancelled bool
	cancel    context.CancelFunc
	inputs    chan Input
	done      chan struct{}
}

func newSession(id uuid.UUID, total int, inputBuffer int, started time.Time) *Session {
	return &Session{
		ID:      id,
		Status:  make(map[string]*domain.CardStatus),
		total:   total,
		started: started,
		inputs:  make(chan Input, inputBuffer),
		done:    make(chan struct{}),
	}
}

// head returns the card at the front of the hand.
func (s *Session) head() (string, bool) {
	if len(s.Hand) == 0 {
		return "", false
	}
	return s.Hand[0], true
}

// rotate moves the head of the hand to the tail.
func (s *Session) rotate() {
	if len(s.Hand) < 2 {
		return
	}
	head := s.Hand[0]
	copy(s.Hand, s.Hand[1:])
	s.Hand[len(s.Hand)-1] = head
}

// dropHead removes the head of the hand and its status.
func (s *Session) dropHead() string {
	head := s.Hand[0]
	s.Hand = append(s.Hand[:0:0], s.Hand[1:]...)
	delete(s.Status, head)
	return head
}

// popAdditional takes the last id off the backlog.
func (s *Session) popAdditional() (string, bool) {
	n := len(s.Additional)
	if n == 0 {
		return "", false
	}
	id := s.Additional[n-1]
	s.Additional = s.Additional[:n-1]
	return id, true
}

func (s *Session) progress() Progress {
	return Progress{
		Completed: len(s.Completed),
		Total:     len(s.Hand) + len(s.Additional) + len(s.Completed),
	}
}

func (s *Session) summary(reason EndReason, now time.Time) Summary {
	return Summary{
		SessionID:   s.ID,
		Reason:      reason,
		Total:       s.total,
		Completed:   len(s.Completed),
		Rescheduled: s.rescheduled,
		Retired:     s.retired,
		Deferred:    len(s.Deferred),
		Remaining:   len(s.Hand) + len(s.Additional),
		Duration:    now.Sub(s.started),
	}
}

// SessionInfo describes a session that was just started.
type SessionInfo struct {
	ID    uuid.UUID
	Total int
	Hand  []string
}

// SessionSnapshot is a point-in-time copy of the running session.
type SessionSnapshot struct {
	ID         uuid.UUID
	Hand       []string
	Additional []string
	Completed  []string
	Deferred   []string
	Status     map[string]*domain.CardStatus
	// Live is the token of the card being presented, if any.
	Live Token
}

func (s *Session) snapshot(live Token) SessionSnapshot {
	snap := SessionSnapshot{
		ID:         s.ID,
		Hand:       append([]string(nil), s.Hand...),
		Additional: append([]string(nil), s.Additional...),
		Completed:  append([]string(nil), s.Completed...),
		Deferred:   append([]string(nil), s.Deferred...),
		Status:     make(map[string]*domain.CardStatus, len(s.Status)),
		Live:       live,
	}
	for id, status := range s.Status {
		snap.Status[id] = status.Clone()
	}
	return snap
}
