// Package mock is a scripted adapter for tests and offline use. Queue
// responses, errors, or callbacks; each Send consumes the next outcome
// while running the same event cycle a real transport adapter would.
//
//	ad := mock.New()
//	ad.Enqueue(message.NewResponse(200, nil, strings.NewReader("ok")))
//	ad.EnqueueError(errors.New("connection reset"))
package mock
