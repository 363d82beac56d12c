package courier

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/courier/adapter"
	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/redirect"
	"github.com/adamwoolhether/courier/subscribers"
	"github.com/adamwoolhether/courier/transact"
)

// Option defines optional settings for the client.
//
// WithLogger injects a custom logger into the client.
// WithUserAgent adds a persistent `User-Agent` header to all
// outgoing requests on the client.
type Option func(*options) error

type options struct {
	adapter     adapter.Adapter
	transport   http.RoundTripper
	parallel    int
	userAgent   string
	logger      *slog.Logger
	tracer      trace.Tracer
	throttle    *subscribers.ThrottleConfig
	retry       *subscribers.RetryConfig
	redirects   *redirect.Options
	noFollow    bool
	httpErrors  bool
	subscribers []emitter.Subscriber
	defaults    map[string]any
}

// WithAdapter replaces the transfer driver. The adapter owns the whole
// event cycle for each send.
func WithAdapter(a adapter.Adapter) Option {
	return func(c *options) error {
		if a == nil {
			return errors.New("adapter must not be nil")
		}
		c.adapter = a
		return nil
	}
}

// WithTransport sets the RoundTripper the default driver performs I/O
// on. It is ignored when WithAdapter is also given.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = rt
		return nil
	}
}

// WithParallel sets the default SendAll concurrency.
func WithParallel(n int) Option {
	return func(c *options) error {
		if n < 1 {
			return fmt.Errorf("parallelism %d: %w", n, transact.ErrInvalidConcurrency)
		}
		c.parallel = n
		return nil
	}
}

func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer injects the tracer request spans are started on.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithThrottle rate-limits outgoing requests across the client.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, subscribers.ErrMustNotBeZero)
		}
		c.throttle = &subscribers.ThrottleConfig{RPS: rps, Burst: burst}
		return nil
	}
}

// WithRetry re-sends failed requests per cfg.
func WithRetry(cfg subscribers.RetryConfig) Option {
	return func(c *options) error {
		c.retry = &cfg
		return nil
	}
}

// WithRedirects sets the client-wide redirect policy. Per-request
// "allow_redirects" config entries still win.
func WithRedirects(o redirect.Options) Option {
	return func(c *options) error {
		c.redirects = &o
		return nil
	}
}

func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollow = true
		return nil
	}
}

// WithHTTPErrors turns 4xx and 5xx responses into typed errors. A
// request can opt back out with an "exceptions" config entry set to
// false.
func WithHTTPErrors() Option {
	return func(c *options) error {
		c.httpErrors = true
		return nil
	}
}

// WithSubscribers attaches extra listener sets to every request the
// client creates.
func WithSubscribers(subs ...emitter.Subscriber) Option {
	return func(c *options) error {
		c.subscribers = append(c.subscribers, subs...)
		return nil
	}
}

// WithRequestConfig seeds a config entry onto every request the
// client creates, e.g. a "save_to" destination.
func WithRequestConfig(key string, value any) Option {
	return func(c *options) error {
		if key == "" {
			return errors.New("config key must not be empty")
		}
		if c.defaults == nil {
			c.defaults = make(map[string]any)
		}
		c.defaults[key] = value
		return nil
	}
}

// /////////////////////////////////////////////////////////////////

// BatchOption defines optional settings for one SendAll run.
//
// Parallel overrides the client's default concurrency.
// ThrowErrors surfaces unintercepted transfer failures from SendAll
// instead of leaving them on their transactions.
type BatchOption func(*batchConfig) error

type batchConfig struct {
	parallel    int
	throwErrors bool
}

func Parallel(n int) BatchOption {
	return func(c *batchConfig) error {
		if n < 1 {
			return fmt.Errorf("parallelism %d: %w", n, transact.ErrInvalidConcurrency)
		}
		c.parallel = n
		return nil
	}
}

func ThrowErrors() BatchOption {
	return func(c *batchConfig) error {
		c.throwErrors = true
		return nil
	}
}
