package subscribers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// HTTPErrorKey is the request config entry that disables status
// policing for one request when set to false.
const HTTPErrorKey = "exceptions"

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// UnexpectedStatusError is returned when the HTTP response status code
// signals failure.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// HTTPError fails exchanges whose settled response carries a 4xx or
// 5xx status. The failure runs the normal error cycle, so retry
// policies and error listeners can still rescue the exchange.
type HTTPError struct{}

// NewHTTPError builds the status check subscriber.
func NewHTTPError() *HTTPError {
	return &HTTPError{}
}

// Bindings registers the check below the redirect follower, so
// followed chains are judged on their final response only.
func (h *HTTPError) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.AfterSend, Listener: h.onAfterSend, Priority: HTTPErrorPriority},
	}
}

func (h *HTTPError) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction

	if enabled, ok := tx.Request.Config().Bool(HTTPErrorKey); ok && !enabled {
		return nil
	}

	resp := tx.Response
	if resp == nil || resp.StatusCode() < 400 {
		return nil
	}

	cause := error(ErrUnexpectedStatusCode)
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		cause = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode(),
		Body:       peekBody(resp),
		Err:        cause,
	}
}

// peekBody captures up to maxErrBodySize of the payload for the error
// message.
func peekBody(resp *message.Response) string {
	body := resp.Body()
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, maxErrBodySize))
	if err != nil {
		return "unable to read body"
	}

	return string(data)
}
