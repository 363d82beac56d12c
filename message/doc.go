// Package message holds the narrow request/response values the engine
// exchanges with transports and listeners.
//
// # Requests
//
// Build a [Request] with functional options:
//
//	req, err := message.NewRequest(http.MethodPost, "https://api.example.com/v1/items",
//		message.WithHeader("Content-Type", "application/json"),
//		message.WithBody(strings.NewReader(`{"name":"a"}`)),
//	)
//
// Each Request carries its own event hub ([Request.Emitter]) and a
// per-request option map ([Request.Config]) consumed by subscribers.
//
// # Bodies
//
// Payloads are [Body] streams: readers that additionally report their
// position and, when the source permits, rewind to the start so the
// payload can be replayed on a redirect or retry hop. [BytesBody] and
// [StringBody] are always seekable; [NewBody] wraps any reader and is
// seekable when the reader seeks.
//
// The package stays deliberately small: header semantics beyond
// get/set, content negotiation, and cookie handling live outside the
// engine.
package message
