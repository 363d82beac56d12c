package transact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adamwoolhether/courier/message"
)

// ErrInvalidConcurrency rejects a non-positive concurrency limit for a
// batch send.
var ErrInvalidConcurrency = errors.New("concurrency must be a positive integer")

// RequestError reports that one specific request failed to prepare or
// transfer. It always carries the offending request.
type RequestError struct {
	Request *message.Request
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Request.Method(), e.Request.URL(), e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// WrapRequest returns err as a [*RequestError] carrying req. An err
// that already is one passes through unchanged so the original request
// association survives.
func WrapRequest(req *message.Request, err error) *RequestError {
	if reqErr, ok := err.(*RequestError); ok {
		return reqErr
	}

	return &RequestError{Request: req, Err: err}
}

// IsRequestError reports whether err is a per-request failure, as
// opposed to a listener or driver fault. Batch drivers use this to
// decide whether a failure stays on its transaction or aborts the run.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// TransportError is a low-level transfer failure carrying the
// transport's numeric result code. It is wrapped into a
// [RequestError] before it reaches callers.
type TransportError struct {
	Code   int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed with code %d: %s: %v", e.Code, e.Detail, e.Err)
	}

	return fmt.Sprintf("transfer failed with code %d: %s", e.Code, e.Detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AdapterError reports that the batch multiplexer itself returned a
// non-zero control-plane result. It is fatal to the whole batch, not
// to one transfer.
type AdapterError struct {
	Code int
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("multiplexer failed with code %d", e.Code)
}

// TooManyRedirectsError reports a redirect chain that exceeded the
// configured maximum. Chain lists the URLs followed, original request
// first.
type TooManyRedirectsError struct {
	Max   int
	Chain []string
}

func (e *TooManyRedirectsError) Error() string {
	msg := fmt.Sprintf("will not follow more than %d redirects", e.Max)
	if len(e.Chain) > 0 {
		msg += ": " + strings.Join(e.Chain, " -> ")
	}

	return msg
}

// CouldNotRewindStreamError reports a request body that needed to be
// replayed for a redirect or retry but could not be returned to its
// start.
type CouldNotRewindStreamError struct {
	Request *message.Request
	Err     error
}

func (e *CouldNotRewindStreamError) Error() string {
	return fmt.Sprintf("could not rewind request body for replay: %v", e.Err)
}

func (e *CouldNotRewindStreamError) Unwrap() error {
	return e.Err
}
