// Package emitter provides the priority-ordered event hub the
// transaction engine is built on.
//
// # Registering Listeners
//
// Create an [Emitter] and attach listeners with [Emitter.On] or, for
// one-shot hooks, [Emitter.Once]:
//
//	em := emitter.New()
//	sub := em.On(emitter.BeforeSend, logStart, 0)
//	em.Once(emitter.AfterSend, recordFirst, emitter.PriorityEarly)
//
// Listeners for one event fire in descending priority order; equal
// priorities fire in registration order.
//
// # Dispatch
//
//	err := em.Emit(ctx, emitter.BeforeSend, ev)
//
// Dispatch stops early when a listener stops the event's propagation
// or returns an error. Listener errors are not swallowed; they surface
// from [Emitter.Emit].
//
// # Subscribers
//
// A [Subscriber] bundles several bindings so one policy object can
// attach all of its hooks with [Emitter.AddSubscriber] and detach them
// again with [Emitter.RemoveSubscriber].
package emitter
