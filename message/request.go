package message

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/courier/emitter"
)

// Request describes one HTTP exchange to perform. Every Request owns
// an [emitter.Emitter] carrying the listeners that observe its
// lifecycle.
type Request struct {
	method string
	url    *url.URL
	header http.Header
	body   Body
	config Config
	em     *emitter.Emitter
	ctx    context.Context
}

// RequestOption is a functional option for [NewRequest].
type RequestOption func(*Request) error

// NewRequest builds a Request for the given method and URL. An empty
// method defaults to GET. The URL must be absolute; relative targets
// have nothing to resolve against at this layer.
func NewRequest(method, rawURL string, opts ...RequestOption) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing request url: %w", err)
	}

	if method == "" {
		method = http.MethodGet
	}

	r := &Request{
		method: method,
		url:    u,
		header: make(http.Header),
		config: make(Config),
		em:     emitter.New(),
		ctx:    context.Background(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) error {
		if key == "" {
			return errors.New("header key must not be empty")
		}
		r.header.Add(key, value)
		return nil
	}
}

// WithHeaders adds all given headers to the request.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(r *Request) error {
		for key, values := range headers {
			for _, v := range values {
				r.header.Add(key, v)
			}
		}
		return nil
	}
}

// WithBody attaches a payload stream. The body is seekable, and so
// replayable across redirects and retries, when body implements
// [io.Seeker].
func WithBody(body io.Reader) RequestOption {
	return func(r *Request) error {
		r.body = NewBody(body)
		return nil
	}
}

// WithConfig sets one per-request engine option.
func WithConfig(key string, value any) RequestOption {
	return func(r *Request) error {
		if key == "" {
			return errors.New("config key must not be empty")
		}
		r.config[key] = value
		return nil
	}
}

// WithContext attaches ctx to the request; transports honor its
// deadline and cancellation.
func WithContext(ctx context.Context) RequestOption {
	return func(r *Request) error {
		if ctx == nil {
			return errors.New("context must not be nil")
		}
		r.ctx = ctx
		return nil
	}
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// SetMethod replaces the HTTP method.
func (r *Request) SetMethod(method string) { r.method = method }

// URL returns the request target. The caller and the Request share
// the value; replace it with [Request.SetURL] rather than mutating.
func (r *Request) URL() *url.URL { return r.url }

// SetURL replaces the request target.
func (r *Request) SetURL(u *url.URL) { r.url = u }

// Header returns the live header map; mutations are visible to the
// request.
func (r *Request) Header() http.Header { return r.header }

// Body returns the payload stream, nil when the request has none.
func (r *Request) Body() Body { return r.body }

// SetBody replaces the payload stream. A nil body removes it.
func (r *Request) SetBody(b Body) { r.body = b }

// Config returns the live per-request option map.
func (r *Request) Config() Config { return r.config }

// Emitter returns the event hub carrying this request's listeners.
func (r *Request) Emitter() *emitter.Emitter { return r.em }

// SetEmitter replaces the request's event hub.
func (r *Request) SetEmitter(em *emitter.Emitter) { r.em = em }

// Context returns the request's context, never nil.
func (r *Request) Context() context.Context { return r.ctx }

// Clone returns a copy with its own header map, config map, and an
// independent clone of the emitter's listener table, so a derived
// request (a redirect hop) starts from the original's listener set
// without later registrations leaking between the two. The body
// stream and context are shared with the original.
func (r *Request) Clone() *Request {
	u := *r.url
	if r.url.User != nil {
		user := *r.url.User
		u.User = &user
	}

	return &Request{
		method: r.method,
		url:    &u,
		header: r.header.Clone(),
		body:   r.body,
		config: maps.Clone(r.config),
		em:     r.em.Clone(),
		ctx:    r.ctx,
	}
}
