package redirect

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// Subscriber follows redirects by re-sending hop requests through the
// transaction's client. Each hop is a fresh request cloned from the
// redirected one, so it runs its own full event cycle; the final
// response replaces the original via interception.
type Subscriber struct {
	log *slog.Logger
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithLogger sets the logger hop decisions are logged to.
func WithLogger(log *slog.Logger) Option {
	return func(s *Subscriber) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds the redirect subscriber.
func New(opts ...Option) *Subscriber {
	s := Subscriber{
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

// Bindings registers the subscriber on after-send ahead of response
// consumers.
func (s *Subscriber) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.AfterSend, Listener: s.onAfterSend, Priority: Priority},
	}
}

func (s *Subscriber) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction

	pol, enabled := policyFor(tx.Request.Config().Value(Key))
	if !enabled {
		return nil
	}

	resp := tx.Response
	if resp == nil || resp.StatusCode() < 300 || resp.StatusCode() >= 400 {
		return nil
	}
	loc := resp.Header().Get("Location")
	if loc == "" {
		return nil
	}

	hops, _ := tx.Request.Config().Int(countKey)
	if hops >= pol.max {
		return &transact.TooManyRedirectsError{Max: pol.max, Chain: chainOf(tx.Request)}
	}

	target, err := url.Parse(loc)
	if err != nil {
		return fmt.Errorf("parsing redirect location %q: %w", loc, err)
	}

	next, err := s.hopRequest(tx.Request, resp.StatusCode(), target, pol, hops)
	if err != nil {
		return err
	}

	if tx.Client == nil {
		s.log.Debug("redirect not followed, transaction has no client",
			"location", next.URL().String())
		return nil
	}

	s.log.Debug("following redirect",
		"status", resp.StatusCode(), "from", tx.Request.URL().String(),
		"to", next.URL().String(), "hop", hops+1)

	final, err := tx.Client.Send(next)
	if err != nil {
		return err
	}
	after.Intercept(final)

	return nil
}

// hopRequest builds the follow-up request: resolved URL, the method
// and body the policy dictates, and the chain bookkeeping for the next
// round.
func (s *Subscriber) hopRequest(req *message.Request, status int, target *url.URL, pol policy, hops int) (*message.Request, error) {
	resolved := req.URL().ResolveReference(target)
	resolved.Fragment, resolved.RawFragment = "", ""

	method := req.Method()
	preserveBody := true
	if !pol.strict && status != http.StatusTemporaryRedirect && status != http.StatusPermanentRedirect {
		switch method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			method = http.MethodGet
			preserveBody = false
		}
	}

	next := req.Clone()
	next.SetMethod(method)
	next.SetURL(resolved)

	if !preserveBody {
		next.SetBody(nil)
		for _, h := range []string{"Content-Encoding", "Content-Length", "Content-Type"} {
			next.Header().Del(h)
		}
	} else if err := rewindForReplay(next); err != nil {
		return nil, err
	}

	next.Config()[countKey] = hops + 1
	next.Config()[chainKey] = chainOf(req)

	return next, nil
}

// chainOf lists the URLs followed so far, original request first,
// ending with req's own URL.
func chainOf(req *message.Request) []string {
	var chain []string
	if prior, ok := req.Config().Value(chainKey); ok {
		if urls, ok := prior.([]string); ok {
			chain = append(chain, urls...)
		}
	}

	return append(chain, req.URL().String())
}

// rewindForReplay returns a preserved body to its start so the hop can
// replay it. A body the prior transfer consumed but cannot seek fails
// the chain.
func rewindForReplay(req *message.Request) error {
	body := req.Body()
	if body == nil || body.Tell() == 0 {
		return nil
	}
	if !body.Seekable() {
		return &transact.CouldNotRewindStreamError{Request: req, Err: message.ErrNotSeekable}
	}
	if err := body.Rewind(); err != nil {
		return &transact.CouldNotRewindStreamError{Request: req, Err: err}
	}

	return nil
}
