// Package call implements the cross-goroutine call plumbing between a
// control goroutine (user script code) and the owner goroutine (the
// terminal event loop that owns all widget state).
//
// Scripts never hold a reference to a widget. They hold a Proxy, which
// turns method-style invocations into Envelopes and enqueues them on the
// widget's bounded Queue. The owner loop drains each queue once per tick
// and invokes the real operation; read-style calls carry a capacity-1
// reply channel the caller blocks on.
//
// Key properties:
//   - Per-queue FIFO: dispatch order equals enqueue order
//   - Multi-producer, single-consumer: any number of script goroutines may
//     enqueue; only the owner loop drains
//   - Backpressure: Enqueue waits a bounded interval on a full queue, then
//     fails with ErrQueueFull
//   - Liveness: a blocked reader is released the moment the owner loop
//     exits, with ErrOwnerDead, instead of hanging forever
//
// The owner loop never blocks on a script goroutine. The reverse is the
// whole point: Get blocks until the owner services the call or dies.
package call
