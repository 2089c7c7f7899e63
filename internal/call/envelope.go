package call

// OpAddListener is the reserved operation name for event-listener
// registration. The dispatcher intercepts it instead of resolving it
// against the target's op table.
const OpAddListener = "add_event_listener"

// Args carries one call's arguments, opaque to the queue.
type Args struct {
	Pos []any
	KW  map[string]any
}

// OpFunc is one operation of a target's closed op set.
type OpFunc func(args Args) (any, error)

// Envelope is one deferred invocation: operation name, arguments, and the
// reply destination. It is immutable after construction and crosses from
// the control goroutine to the owner goroutine exactly once.
type Envelope struct {
	Op   string
	Args Args

	// Listener is set only for OpAddListener envelopes. The callback is
	// carried by value, not by name.
	Listener func()

	// reply is nil for fire-and-forget calls, capacity 1 otherwise.
	reply chan any
}

// NewCall builds a fire-and-forget envelope.
func NewCall(op string, args Args) Envelope {
	return Envelope{Op: op, Args: args}
}

// NewRequest builds an envelope whose result the caller will wait for,
// returning the reply channel alongside it.
func NewRequest(op string, args Args) (Envelope, <-chan any) {
	reply := make(chan any, 1)
	return Envelope{Op: op, Args: args, reply: reply}, reply
}

// NewListener builds the registration envelope for f.
func NewListener(f func()) Envelope {
	return Envelope{Op: OpAddListener, Listener: f}
}

// WantsReply reports whether the caller is waiting on a result.
func (e Envelope) WantsReply() bool {
	return e.reply != nil
}

// Reply delivers v to the caller. It never blocks: the channel has
// capacity 1 and is written at most once, so a send only falls through to
// the default branch if the caller has already gone away, in which case
// the value is dropped.
func (e Envelope) Reply(v any) {
	if e.reply == nil {
		return
	}
	select {
	case e.reply <- v:
	default:
	}
}
