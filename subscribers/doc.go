// Package subscribers carries the stock event subscribers that attach
// cross-cutting behavior to requests: exchange history, structured
// logging, token-bucket throttling, bounded retries, and tracing.
//
// Each subscriber declares its bindings through
// [github.com/adamwoolhether/courier/emitter.Subscriber] and composes
// with the others purely through dispatch priority. Observers
// (history, tracing, logging) sit above the policies that intercept
// outcomes (retry, redirect), so they witness every attempt; the
// throttle gate sits last on before-send, closest to the wire.
package subscribers
