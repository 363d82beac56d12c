package courier

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/courier/adapter"
	"github.com/adamwoolhether/courier/adapter/netmulti"
	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/redirect"
	"github.com/adamwoolhether/courier/save"
	"github.com/adamwoolhether/courier/subscribers"
	"github.com/adamwoolhether/courier/transact"
)

// Client drives requests through a pluggable transport adapter while
// the event cycle lets subscribers observe, redirect, retry, or
// short-circuit each exchange. Build one with [New]; the zero value is
// not usable.
type Client struct {
	adapter  adapter.Adapter
	batch    adapter.BatchAdapter
	parallel int
	base     *emitter.Emitter
	defaults map[string]any
	logger   *slog.Logger
}

// New builds a Client. Defaults come from the environment (see
// [Config]), and optional funcs override them. Unless an adapter is
// injected, transfers run on the netmulti batch driver.
func New(optFns ...Option) (*Client, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return nil, err
	}

	opts := options{
		parallel:  cfg.Parallel,
		userAgent: cfg.UserAgent,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	client := &Client{
		parallel: opts.parallel,
		base:     emitter.New(),
		defaults: make(map[string]any),
		logger:   opts.logger,
	}

	switch {
	case opts.adapter != nil:
		client.adapter = opts.adapter
	case opts.transport != nil:
		ad, err := netmulti.New(netmulti.WithTransport(opts.transport), netmulti.WithLogger(opts.logger))
		if err != nil {
			return nil, err
		}
		client.adapter = ad
	default:
		ad, err := netmulti.New(netmulti.WithLogger(opts.logger))
		if err != nil {
			return nil, err
		}
		client.adapter = ad
	}
	client.batch = adapter.Serialize(client.adapter)

	switch {
	case opts.noFollow || !cfg.FollowRedirects:
		client.defaults[redirect.Key] = false
	case opts.redirects != nil:
		client.defaults[redirect.Key] = *opts.redirects
	case cfg.MaxRedirects != redirect.DefaultMax:
		client.defaults[redirect.Key] = redirect.Options{Max: cfg.MaxRedirects}
	}

	client.base.AddSubscriber(redirect.New(redirect.WithLogger(opts.logger)))
	client.base.AddSubscriber(subscribers.NewLogger(opts.logger))
	client.base.AddSubscriber(save.NewSubscriber(opts.logger))
	client.base.AddSubscriber(subscribers.NewTracer(opts.tracer))

	if opts.throttle != nil {
		th, err := subscribers.NewThrottle(*opts.throttle, opts.logger)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		client.base.AddSubscriber(th)
	}
	if opts.retry != nil {
		r, err := subscribers.NewRetry(*opts.retry)
		if err != nil {
			return nil, fmt.Errorf("configuring retry: %w", err)
		}
		client.base.AddSubscriber(r)
	}
	if opts.httpErrors {
		client.base.AddSubscriber(subscribers.NewHTTPError())
	}
	if opts.userAgent != "" {
		client.base.On(emitter.BeforeSend, setUserAgent(opts.userAgent), emitter.PriorityEarly)
	}
	for _, s := range opts.subscribers {
		client.base.AddSubscriber(s)
	}
	for k, v := range opts.defaults {
		client.defaults[k] = v
	}

	return client, nil
}

// CreateRequest builds a request carrying an independent clone of the
// client's listener set and the client's default config entries.
// Per-request options win over client defaults.
func (c *Client) CreateRequest(method, rawURL string, opts ...message.RequestOption) (*message.Request, error) {
	req, err := message.NewRequest(method, rawURL, opts...)
	if err != nil {
		return nil, err
	}

	req.SetEmitter(c.base.Clone())
	for k, v := range c.defaults {
		if _, ok := req.Config().Value(k); !ok {
			req.Config()[k] = v
		}
	}

	return req, nil
}

// Send runs req through the adapter and returns the final response:
// the transfer's own, or whatever a listener intercepted with. An
// unintercepted failure comes back as the error, typed per
// [github.com/adamwoolhether/courier/transact].
func (c *Client) Send(req *message.Request) (*message.Response, error) {
	tx := transact.New(c, req)
	if err := c.adapter.Send(tx); err != nil {
		return nil, err
	}

	return tx.Response, nil
}

// SendAll drives every request in reqs concurrently, wrapping each in
// its own transaction as capacity frees up. Outcomes land on the
// requests' own event cycles; SendAll returns only driver faults
// unless [ThrowErrors] is set. The sequence is consumed lazily, so it
// may be unbounded.
func (c *Client) SendAll(reqs iter.Seq[*message.Request], opts ...BatchOption) error {
	cfg := batchConfig{parallel: c.parallel}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return err
		}
	}

	var batchOpts []adapter.BatchOption
	if cfg.throwErrors {
		batchOpts = append(batchOpts, adapter.ThrowErrors())
	}

	txs := func(yield func(*transact.Transaction) bool) {
		for req := range reqs {
			if !yield(transact.New(c, req)) {
				return
			}
		}
	}

	return c.batch.SendAll(txs, cfg.parallel, batchOpts...)
}

// Get sends a GET request to rawURL.
func (c *Client) Get(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodGet, rawURL, opts...)
}

// Head sends a HEAD request to rawURL.
func (c *Client) Head(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodHead, rawURL, opts...)
}

// Post sends a POST request to rawURL.
func (c *Client) Post(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodPost, rawURL, opts...)
}

// Put sends a PUT request to rawURL.
func (c *Client) Put(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodPut, rawURL, opts...)
}

// Patch sends a PATCH request to rawURL.
func (c *Client) Patch(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodPatch, rawURL, opts...)
}

// Delete sends a DELETE request to rawURL.
func (c *Client) Delete(rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	return c.do(http.MethodDelete, rawURL, opts...)
}

func (c *Client) do(method, rawURL string, opts ...message.RequestOption) (*message.Response, error) {
	req, err := c.CreateRequest(method, rawURL, opts...)
	if err != nil {
		return nil, err
	}

	return c.Send(req)
}

// setUserAgent stamps the client's User-Agent onto requests that don't
// carry their own.
func setUserAgent(value string) emitter.Listener {
	return func(ctx context.Context, ev emitter.Event) error {
		before, ok := ev.(*transact.BeforeSendEvent)
		if !ok {
			return nil
		}

		h := before.Transaction.Request.Header()
		if h.Get("User-Agent") == "" {
			h.Set("User-Agent", value)
		}

		return nil
	}
}
