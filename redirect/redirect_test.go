package redirect

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/adamwoolhether/courier/adapter/mock"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// scriptClient runs requests through a scripted adapter, the way the
// real client drives its transport.
type scriptClient struct {
	ad *mock.Adapter
}

func (c *scriptClient) Send(req *message.Request) (*message.Response, error) {
	tx := transact.New(c, req)
	if err := c.ad.Send(tx); err != nil {
		return nil, err
	}

	return tx.Response, nil
}

func newClientRequest(t *testing.T, method, rawURL string, opts ...message.RequestOption) (*scriptClient, *message.Request) {
	t.Helper()

	req, err := message.NewRequest(method, rawURL, opts...)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Emitter().AddSubscriber(New())

	return &scriptClient{ad: mock.New()}, req
}

func redirectResponse(status int, location string) *message.Response {
	h := http.Header{}
	h.Set("Location", location)

	return message.NewResponse(status, h, nil)
}

func TestSubscriber_FollowsRedirect(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/start")
	client.ad.Enqueue(redirectResponse(http.StatusFound, "http://example.com/final"))
	final := message.NewResponse(http.StatusOK, nil, strings.NewReader("done"))
	client.ad.Enqueue(final)

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != final {
		t.Error("expected the final hop response to replace the redirect")
	}
	if got := resp.EffectiveURL(); got != "http://example.com/final" {
		t.Errorf("expected effective url of the final hop, got %q", got)
	}
	if n := client.ad.Remaining(); n != 0 {
		t.Errorf("expected queue drained, %d left", n)
	}
}

func TestSubscriber_LocationResolution(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		location string
		want     string
	}{
		{"absolute", "http://example.com/a", "http://other.example.com/b", "http://other.example.com/b"},
		{"relative without slash", "http://example.com/a/b", "c", "http://example.com/a/c"},
		{"relative with slash", "http://example.com/a/b", "/c", "http://example.com/c"},
		{"protocol relative", "http://example.com/a", "//cdn.example.com/x", "http://cdn.example.com/x"},
		{"fragment only", "http://example.com/a?q=1", "#section", "http://example.com/a?q=1"},
		{"fragment stripped", "http://example.com/a", "/b#frag", "http://example.com/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, req := newClientRequest(t, http.MethodGet, tt.base)
			client.ad.Enqueue(redirectResponse(http.StatusMovedPermanently, tt.location))

			var hopURL string
			client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
				hopURL = tx.Request.URL().String()
				return message.NewResponse(http.StatusOK, nil, nil), nil
			})

			if _, err := client.Send(req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hopURL != tt.want {
				t.Errorf("expected hop url %q, got %q", tt.want, hopURL)
			}
		})
	}
}

func TestSubscriber_TooManyRedirects(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/hop0")
	for range 6 {
		client.ad.Enqueue(redirectResponse(http.StatusMovedPermanently, "/next"))
	}

	_, err := client.Send(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var tmr *transact.TooManyRedirectsError
	if !errors.As(err, &tmr) {
		t.Fatalf("expected TooManyRedirectsError, got %T: %v", err, err)
	}
	if tmr.Max != DefaultMax {
		t.Errorf("expected max %d, got %d", DefaultMax, tmr.Max)
	}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("expected the limit in the message, got %q", err.Error())
	}
	if len(tmr.Chain) != 6 {
		t.Errorf("expected 6 urls in the chain, got %d", len(tmr.Chain))
	}
	if len(tmr.Chain) > 0 && tmr.Chain[0] != "http://example.com/hop0" {
		t.Errorf("expected the original request first in the chain, got %q", tmr.Chain[0])
	}

	var reqErr *transact.RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected failure wrapped as RequestError, got %T", err)
	}
}

func TestSubscriber_MaxOverride(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/start",
		message.WithConfig(Key, Options{Max: 1}))
	client.ad.Enqueue(redirectResponse(http.StatusFound, "/one"))
	client.ad.Enqueue(redirectResponse(http.StatusFound, "/two"))

	_, err := client.Send(req)

	var tmr *transact.TooManyRedirectsError
	if !errors.As(err, &tmr) {
		t.Fatalf("expected TooManyRedirectsError, got %v", err)
	}
	if tmr.Max != 1 {
		t.Errorf("expected max 1, got %d", tmr.Max)
	}
}

func TestSubscriber_LoosePolicyDowngradesPost(t *testing.T) {
	client, req := newClientRequest(t, http.MethodPost, "http://example.com/submit",
		message.WithBody(strings.NewReader("payload")),
		message.WithHeader("Content-Type", "text/plain"))

	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		io.Copy(io.Discard, tx.Request.Body())
		return redirectResponse(http.StatusMovedPermanently, "/moved"), nil
	})

	var hopMethod, hopContentType string
	var hopHadBody bool
	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		hopMethod = tx.Request.Method()
		hopContentType = tx.Request.Header().Get("Content-Type")
		hopHadBody = tx.Request.Body() != nil
		return message.NewResponse(http.StatusOK, nil, nil), nil
	})

	if _, err := client.Send(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hopMethod != http.MethodGet {
		t.Errorf("expected hop method GET, got %q", hopMethod)
	}
	if hopHadBody {
		t.Error("expected hop body dropped")
	}
	if hopContentType != "" {
		t.Errorf("expected Content-Type dropped, got %q", hopContentType)
	}
}

func TestSubscriber_StrictPolicyReplaysBody(t *testing.T) {
	client, req := newClientRequest(t, http.MethodPost, "http://example.com/submit",
		message.WithBody(strings.NewReader("payload")),
		message.WithConfig(Key, ModeStrict))

	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		io.Copy(io.Discard, tx.Request.Body())
		return redirectResponse(http.StatusMovedPermanently, "/moved"), nil
	})

	var hopMethod, hopBody string
	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		hopMethod = tx.Request.Method()
		b, _ := io.ReadAll(tx.Request.Body())
		hopBody = string(b)
		return message.NewResponse(http.StatusOK, nil, nil), nil
	})

	if _, err := client.Send(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hopMethod != http.MethodPost {
		t.Errorf("expected hop method POST, got %q", hopMethod)
	}
	if hopBody != "payload" {
		t.Errorf("expected replayed body %q, got %q", "payload", hopBody)
	}
}

func TestSubscriber_TemporaryRedirectPreservesMethod(t *testing.T) {
	client, req := newClientRequest(t, http.MethodPost, "http://example.com/submit",
		message.WithBody(strings.NewReader("payload")))

	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		io.Copy(io.Discard, tx.Request.Body())
		return redirectResponse(http.StatusTemporaryRedirect, "/retry"), nil
	})

	var hopMethod, hopBody string
	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		hopMethod = tx.Request.Method()
		b, _ := io.ReadAll(tx.Request.Body())
		hopBody = string(b)
		return message.NewResponse(http.StatusOK, nil, nil), nil
	})

	if _, err := client.Send(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hopMethod != http.MethodPost {
		t.Errorf("expected 307 to preserve POST, got %q", hopMethod)
	}
	if hopBody != "payload" {
		t.Errorf("expected replayed body %q, got %q", "payload", hopBody)
	}
}

func TestSubscriber_DeleteIsPreservedByLoosePolicy(t *testing.T) {
	client, req := newClientRequest(t, http.MethodDelete, "http://example.com/items/1")
	client.ad.Enqueue(redirectResponse(http.StatusFound, "/items/2"))

	var hopMethod string
	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		hopMethod = tx.Request.Method()
		return message.NewResponse(http.StatusNoContent, nil, nil), nil
	})

	if _, err := client.Send(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hopMethod != http.MethodDelete {
		t.Errorf("expected DELETE preserved, got %q", hopMethod)
	}
}

func TestSubscriber_UnrewindableBodyFailsChain(t *testing.T) {
	client, req := newClientRequest(t, http.MethodPost, "http://example.com/submit",
		message.WithBody(bytes.NewBufferString("payload")),
		message.WithConfig(Key, ModeStrict))

	client.ad.EnqueueFunc(func(tx *transact.Transaction) (*message.Response, error) {
		io.Copy(io.Discard, tx.Request.Body())
		return redirectResponse(http.StatusMovedPermanently, "/moved"), nil
	})
	client.ad.Enqueue(message.NewResponse(http.StatusOK, nil, nil))

	_, err := client.Send(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var rewindErr *transact.CouldNotRewindStreamError
	if !errors.As(err, &rewindErr) {
		t.Fatalf("expected CouldNotRewindStreamError, got %T: %v", err, err)
	}
	if !errors.Is(err, message.ErrNotSeekable) {
		t.Errorf("expected ErrNotSeekable in the chain, got %v", err)
	}
	if n := client.ad.Remaining(); n != 1 {
		t.Errorf("expected the follow-up request never sent, queue has %d left", n)
	}
}

func TestSubscriber_DisabledPerRequest(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/start",
		message.WithConfig(Key, false))
	moved := redirectResponse(http.StatusFound, "/elsewhere")
	client.ad.Enqueue(moved)

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != moved {
		t.Error("expected the redirect response returned untouched")
	}
}

func TestSubscriber_IgnoresResponsesWithoutLocation(t *testing.T) {
	client, req := newClientRequest(t, http.MethodGet, "http://example.com/start")
	notModified := message.NewResponse(http.StatusNotModified, nil, nil)
	client.ad.Enqueue(notModified)

	resp, err := client.Send(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != notModified {
		t.Error("expected the response returned untouched")
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		present     bool
		wantEnabled bool
		wantMax     int
		wantStrict  bool
	}{
		{"absent", nil, false, true, DefaultMax, false},
		{"true", true, true, true, DefaultMax, false},
		{"false", false, true, false, 0, false},
		{"nil value", nil, true, false, 0, false},
		{"empty string", "", true, false, 0, false},
		{"strict", ModeStrict, true, true, DefaultMax, true},
		{"other string", "loose", true, true, DefaultMax, false},
		{"options", Options{Max: 10, Strict: true}, true, true, 10, true},
		{"options zero max", Options{}, true, true, DefaultMax, false},
		{"options pointer", &Options{Max: 2}, true, true, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol, enabled := policyFor(tt.value, tt.present)
			if enabled != tt.wantEnabled {
				t.Fatalf("expected enabled %v, got %v", tt.wantEnabled, enabled)
			}
			if !enabled {
				return
			}
			if pol.max != tt.wantMax {
				t.Errorf("expected max %d, got %d", tt.wantMax, pol.max)
			}
			if pol.strict != tt.wantStrict {
				t.Errorf("expected strict %v, got %v", tt.wantStrict, pol.strict)
			}
		})
	}
}
