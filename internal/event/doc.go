// Package event provides the engine's notification bus: a small
// named-topic pub/sub used to fan out history changes to independent
// listeners (toolbar state, autosave, telemetry) without coupling them
// to the engine.
//
// Dispatch is synchronous and in registration order. A handler
// registered for the wildcard "*" receives every emission. Handler
// panics propagate to the Emit caller on purpose: a broken listener
// should fail loudly, not be swallowed by the bus.
package event
