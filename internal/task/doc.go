// Package task runs background work on a small pool of workers. The session
// engine uses it to load audio clips for cards entering the hand without
// holding up the presentation of the current card.
package task
