// Package dispatch drains widget call queues on the owner loop's tick.
//
// Each tick, every target's queue is drained up to a snapshot taken at the
// start of the drain, so a script hammering a queue cannot pin the owner
// loop inside a single tick. Each envelope's operation name is resolved
// against the target's op table — a closed, explicit set per widget type —
// and invoked on the owner goroutine; the result is delivered to the reply
// channel when the caller asked for one.
//
// Error handling:
//   - Unresolved operation → fatal. It is a scripting bug; masking it
//     would hide the bug, so the owner loop shuts down.
//   - Operation returned an error (bad argument shape) → fatal, same
//     reasoning.
//   - Reply to a departed caller → dropped silently, harmless.
//
// Listener registration envelopes are handled by the dispatcher itself:
// the callback is wrapped so each firing runs on the shared worker pool
// with at most one live invocation per listener — a firing that arrives
// while the previous one is still running is dropped, not queued.
package dispatch
