// Package store holds the card registry: the set of active cards with their
// scheduling metadata, plus the history of retired card ids.
//
// The registry is the only place a card's level and schedule change. It is
// in-memory and safe for concurrent use; snapshots are loaded from and
// exported to a card store by the caller.
package store
