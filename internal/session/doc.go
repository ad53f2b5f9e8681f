// Package session runs practice sessions over the cards in a registry.
//
// An Engine owns at most one Session. A session draws the due cards, keeps a
// small hand of them in rotation and presents the head of the hand through
// the Strategy registered for the card's type. Each presentation resolves to
// exactly one Outcome, after which the engine rotates the hand, reschedules a
// completed card or ends the session.
//
// One goroutine per session runs the loop and is the only writer of the
// session state. User input arrives through Engine.Submit, tagged with the
// Token of the card it answers, and never blocks the caller. Inputs and timer
// callbacks carrying a stale token are dropped.
package session
