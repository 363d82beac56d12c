package emitter

import "context"

// Name identifies one lifecycle event. The engine dispatches a closed
// set of names; listener tables are keyed by this type rather than
// free-form strings.
type Name string

// Lifecycle events emitted for every transfer attempt.
const (
	// BeforeSend fires before any transport I/O for an attempt.
	BeforeSend Name = "before-send"
	// AfterSend fires when an attempt produced a response.
	AfterSend Name = "after-send"
	// Error fires when an attempt failed. A listener may intercept
	// with a response, converting the attempt into a success.
	Error Name = "error"
)

// Anchor priorities for listeners that must run ahead of or behind
// everything else. Listeners fire in descending priority order.
const (
	PriorityEarly = 10000
	PriorityLate  = -10000
)

// Listener reacts to one dispatched event. Returning a non-nil error
// aborts the remaining listeners for that dispatch and surfaces from
// [Emitter.Emit].
type Listener func(ctx context.Context, ev Event) error

// Event is the payload handed to listeners for one dispatch. It is
// owned by that dispatch: listeners may read and mutate it, but must
// not retain it after Emit returns. Implementations embed [Base].
type Event interface {
	// StopPropagation skips the remaining listeners for the
	// current dispatch only.
	StopPropagation()
	// PropagationStopped reports whether StopPropagation was called.
	PropagationStopped() bool
}

// Base implements the propagation controls of [Event].
type Base struct {
	stopped bool
}

func (b *Base) StopPropagation()         { b.stopped = true }
func (b *Base) PropagationStopped() bool { return b.stopped }

// Subscription identifies one registration for later removal via
// [Emitter.Remove]. The zero value identifies nothing.
type Subscription struct {
	name Name
	id   uint64
}

// Binding is one (event, listener, priority) registration declared by
// a [Subscriber].
type Binding struct {
	Name     Name
	Listener Listener
	Priority int
	Once     bool
}

// Subscriber bulk-declares listener bindings so a cross-cutting policy
// (redirects, retries, history) can attach all of its hooks at once
// via [Emitter.AddSubscriber]. Implementations must be valid map keys;
// pointer types are.
type Subscriber interface {
	Bindings() []Binding
}
