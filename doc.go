// Package courier is an HTTP client engine built around a
// priority-ordered event cycle.
//
// Every exchange runs as a transaction: before-send fires ahead of
// any I/O, then exactly one of after-send or error, and listeners on
// those events may observe the outcome or intercept it with a
// response of their own. Redirect following, retries, throttling,
// tracing, and response sinks are all ordinary subscribers on that
// cycle rather than special cases inside the transport.
//
// # Quick start
//
//	client, err := courier.New(courier.WithUserAgent("courier/1.0"))
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.Get("https://example.com/data")
//	if err != nil {
//		return err
//	}
//	defer resp.Close()
//
// # Batched sends
//
// [Client.SendAll] consumes a lazy request sequence and keeps a fixed
// number of transfers in flight, completing them as the transport
// reports readiness. Failures stay on each request's own event cycle
// unless [ThrowErrors] is set:
//
//	reqs := func(yield func(*message.Request) bool) {
//		for _, u := range urls {
//			req, _ := client.CreateRequest(http.MethodGet, u)
//			if !yield(req) {
//				return
//			}
//		}
//	}
//	err := client.SendAll(reqs, courier.Parallel(10))
//
// # Configuration
//
// [New] reads environment defaults (COURIER_PARALLEL,
// COURIER_USER_AGENT, COURIER_FOLLOW_REDIRECTS, COURIER_MAX_REDIRECTS)
// before applying options, so deployments can tune a client without
// code changes. Per-request behavior rides on request config entries
// such as "allow_redirects" and "save_to".
package courier
