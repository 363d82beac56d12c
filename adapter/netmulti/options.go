package netmulti

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring the adapter via [New].
type Option func(*options) error

type options struct {
	transport     http.RoundTripper
	factory       HandleFactory
	newMux        func() Multiplexer
	selectTimeout time.Duration
	logger        *slog.Logger
}

// WithTransport sets the [http.RoundTripper] transfers run over.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = rt
		return nil
	}
}

// WithHandleFactory replaces how wire handles are built from engine
// requests.
func WithHandleFactory(f HandleFactory) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("handle factory must not be nil")
		}
		o.factory = f
		return nil
	}
}

// WithMultiplexer replaces the multiplexer construction. newMux is
// called once per batch run; a run's multiplexer is never shared.
func WithMultiplexer(newMux func() Multiplexer) Option {
	return func(o *options) error {
		if newMux == nil {
			return errors.New("multiplexer constructor must not be nil")
		}
		o.newMux = newMux
		return nil
	}
}

// WithSelectTimeout bounds how long one Select waits for completions
// before the driver loop comes back around.
func WithSelectTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.New("select timeout must be positive")
		}
		o.selectTimeout = d
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}
