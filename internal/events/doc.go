// Package events provides the session lifecycle events and a small in-process
// bus to deliver them.
//
// The session engine and the due monitor emit events without knowing who
// consumes them. Handlers register with an emitter, optionally for a set of event
// types, and receive only the events they subscribed to.
//
// The primary components are:
// - Event: a typed notification with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
