package call

import "errors"

var (
	// ErrQueueFull means the target's queue stayed full for the whole
	// bounded enqueue wait while the owner loop was still alive.
	ErrQueueFull = errors.New("call queue full")

	// ErrOwnerDead means the owner loop has exited. Pending and future
	// calls on its proxies fail with this error.
	ErrOwnerDead = errors.New("owner loop has exited")

	// ErrUnknownTarget means the identifier was never registered.
	ErrUnknownTarget = errors.New("unknown target identifier")

	// ErrUnresolvedOp means an envelope named an operation the target does
	// not implement. The dispatcher treats this as fatal: it is a scripting
	// bug, not a runtime race.
	ErrUnresolvedOp = errors.New("unresolved operation")
)
