package subscribers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

func TestHTTPError_FailsOnErrorStatus(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/missing")
	req.Emitter().AddSubscriber(NewHTTPError())
	client.ad.Enqueue(message.NewResponse(http.StatusNotFound, nil, strings.NewReader("no such widget")))

	_, err := client.Send(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Errorf("expected ErrUnexpectedStatusCode, got: %v", err)
	}

	var statusErr *UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UnexpectedStatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "no such widget" {
		t.Errorf("expected the payload captured, got %q", statusErr.Body)
	}

	var reqErr *transact.RequestError
	if !errors.As(err, &reqErr) {
		t.Error("expected the failure wrapped as a RequestError")
	}
}

func TestHTTPError_AuthFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "forbidden", status: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, req := newClientRequest(t, http.MethodGet, "http://example.com/private")
			req.Emitter().AddSubscriber(NewHTTPError())
			client.ad.Enqueue(message.NewResponse(tc.status, nil, nil))

			_, err := client.Send(req)
			if !errors.Is(err, ErrAuthFailure) {
				t.Errorf("expected ErrAuthFailure, got: %v", err)
			}
			if !errors.Is(err, ErrUnexpectedStatusCode) {
				t.Errorf("expected ErrUnexpectedStatusCode, got: %v", err)
			}
		})
	}
}

func TestHTTPError_PassesSuccesses(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/ok")
	req.Emitter().AddSubscriber(NewHTTPError())
	client.ad.Enqueue(message.NewResponse(http.StatusOK, nil, strings.NewReader("fine")))

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
}

func TestHTTPError_DisabledPerRequest(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/broken",
		message.WithConfig(HTTPErrorKey, false),
	)
	req.Emitter().AddSubscriber(NewHTTPError())
	client.ad.Enqueue(message.NewResponse(http.StatusInternalServerError, nil, nil))

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("expected the check disabled, got: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected the raw 500, got %d", resp.StatusCode())
	}
}

func TestHTTPError_BodyCapped(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/huge")
	req.Emitter().AddSubscriber(NewHTTPError())
	client.ad.Enqueue(message.NewResponse(http.StatusBadGateway, nil,
		strings.NewReader(strings.Repeat("x", maxErrBodySize+1024)),
	))

	_, err := client.Send(req)

	var statusErr *UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UnexpectedStatusError, got: %v", err)
	}
	if len(statusErr.Body) != maxErrBodySize {
		t.Errorf("expected the captured body capped at %d, got %d", maxErrBodySize, len(statusErr.Body))
	}
}

func TestHTTPError_ErrorCycleCanRescue(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/flaky")
	req.Emitter().AddSubscriber(NewHTTPError())

	rescue := message.NewResponse(http.StatusOK, nil, nil)
	req.Emitter().On(emitter.Error, func(ctx context.Context, ev emitter.Event) error {
		errEv, ok := ev.(*transact.ErrorEvent)
		if !ok {
			return nil
		}
		errEv.Intercept(rescue)
		return nil
	}, 0)

	client.ad.Enqueue(message.NewResponse(http.StatusServiceUnavailable, nil, nil))

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != rescue {
		t.Error("expected the intercepted response returned")
	}
}
