// Package transact defines the unit of work the engine moves around: a
// [Transaction] pairing one request with its eventual response, the
// typed events dispatched over a transaction's lifecycle, and the
// error taxonomy adapters and subscribers share.
//
// # Lifecycle
//
// An adapter drives each attempt through three events on the request's
// emitter: [BeforeSendEvent] ahead of any I/O, then exactly one of
// [AfterSendEvent] or [ErrorEvent]. The terminal events support
// interception: a listener can supply the final response, and the
// adapter honors it in place of its own outcome.
//
// # Errors
//
// Callers see one error per failed transfer. [RequestError] marks a
// specific request's failure and always carries that request;
// transport-level causes ([TransportError]) sit inside it, reachable
// with errors.As. [AdapterError] is different in kind: the batch
// driver itself broke, taking the whole batch with it.
package transact
