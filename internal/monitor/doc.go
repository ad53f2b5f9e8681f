// Package monitor periodically counts the cards that are due and can start
// a practice session on its own when some are waiting and none is running.
package monitor
