package domain

// CompletionWindow is the number of most recent answers that must all be
// correct for a card to count as mastered in a session.
const CompletionWindow = 3

// AnswerLog is the append-only record of answers in one testing direction,
// oldest first.
type AnswerLog []bool

// Append returns the log with correct recorded as the newest answer.
func (l AnswerLog) Append(correct bool) AnswerLog {
	return append(l, correct)
}

// Mastered reports whether the last n answers exist and are all correct.
func (l AnswerLog) Mastered(n int) bool {
	if n <= 0 || len(l) < n {
		return false
	}
	for _, ok := range l[len(l)-n:] {
		if !ok {
			return false
		}
	}
	return true
}

// Flawless reports whether every answer in the log is correct. An empty log is
// flawless.
func (l AnswerLog) Flawless() bool {
	for _, ok := range l {
		if !ok {
			return false
		}
	}
	return true
}

// CardStatus is the per-session progress of a card in the hand.
//
// History holds one log per testing direction and L1 is the direction
// currently under test. Vocab cards have a single direction.
type CardStatus struct {
	CardID    string      `json:"card_id"`
	Type      CardType    `json:"type"`
	Completed bool        `json:"completed"`
	Passed    bool        `json:"passed"`
	History   []AnswerLog `json:"history"`
	L1        int         `json:"l1"`
}

// NewCardStatus returns a fresh status for a card entering the hand.
func NewCardStatus(card *Card) *CardStatus {
	directions := 1
	if card.Content != nil {
		directions = card.Content.Directions()
	}
	return &CardStatus{
		CardID:  card.ID,
		Type:    card.Type,
		History: make([]AnswerLog, directions),
	}
}

// L2 returns the direction holding the expected answer.
func (s *CardStatus) L2() int {
	return 1 - s.L1
}

// Record appends an answer to the active direction and recomputes Completed
// and Passed from that direction's log.
func (s *CardStatus) Record(correct bool) {
	s.History[s.L1] = s.History[s.L1].Append(correct)
	s.Completed = s.History[s.L1].Mastered(CompletionWindow)
	s.Passed = s.History[s.L1].Flawless()
}

// Flip moves testing to the other direction and clears Completed. It is a
// no-op for single-direction cards.
func (s *CardStatus) Flip() {
	if len(s.History) < 2 {
		return
	}
	s.L1 = s.L2()
	s.Completed = false
}

// Clone returns a deep copy of the status.
func (s *CardStatus) Clone() *CardStatus {
	c := *s
	c.History = make([]AnswerLog, len(s.History))
	for i, h := range s.History {
		c.History[i] = append(AnswerLog(nil), h...)
	}
	return &c
}
