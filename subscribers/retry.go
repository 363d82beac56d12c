package subscribers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// DelayFunc computes the wait before retry attempt n, counted from 1.
type DelayFunc func(attempt int) time.Duration

// ExponentialDelay doubles base for every further attempt.
func ExponentialDelay(base time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return base * (1 << (attempt - 1))
	}
}

// RetryConfig configures the retry subscriber.
type RetryConfig struct {
	// Max bounds how many re-sends one original request gets.
	Max int
	// Delay computes the wait before each re-send. Nil means none.
	Delay DelayFunc
	// Statuses lists response codes re-sent from after-send in
	// addition to transfer failures.
	Statuses []int
	// Logger for retry decisions. Nil falls back to slog.Default.
	Logger *slog.Logger
}

const retryCountKey = "retry_count"

// Retry rescues failed attempts by re-sending the request through the
// transaction's client, up to a bound carried in request config so the
// count survives across hops. A successful re-send replaces the
// outcome via interception; an unsuccessful one leaves the original
// failure standing.
type Retry struct {
	max      int
	delay    DelayFunc
	statuses map[int]bool
	log      *slog.Logger
}

// NewRetry builds the retry subscriber.
func NewRetry(cfg RetryConfig) (*Retry, error) {
	if cfg.Max <= 0 {
		return nil, fmt.Errorf("max[%d] %w", cfg.Max, ErrMustNotBeZero)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	statuses := make(map[int]bool, len(cfg.Statuses))
	for _, s := range cfg.Statuses {
		statuses[s] = true
	}

	return &Retry{
		max:      cfg.Max,
		delay:    cfg.Delay,
		statuses: statuses,
		log:      log,
	}, nil
}

// Bindings registers the subscriber above the redirect follower so a
// rescued attempt can still have its redirects followed.
func (r *Retry) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.Error, Listener: r.onError, Priority: RetryPriority},
		{Name: emitter.AfterSend, Listener: r.onAfterSend, Priority: RetryPriority},
	}
}

func (r *Retry) onError(ctx context.Context, ev emitter.Event) error {
	errEv, ok := ev.(*transact.ErrorEvent)
	if !ok {
		return nil
	}
	tx := errEv.Transaction

	next, attempt := r.prepare(ctx, tx)
	if next == nil {
		return nil
	}

	r.log.Debug("retrying failed request",
		"url", next.URL().String(), "attempt", attempt, "max", r.max)

	resp, err := tx.Client.Send(next)
	if err != nil {
		r.log.Debug("retry attempt failed",
			"url", next.URL().String(), "attempt", attempt, "err", err)
		return nil
	}
	errEv.Intercept(resp)

	return nil
}

func (r *Retry) onAfterSend(ctx context.Context, ev emitter.Event) error {
	if len(r.statuses) == 0 {
		return nil
	}
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction
	if tx.Response == nil || !r.statuses[tx.Response.StatusCode()] {
		return nil
	}

	next, attempt := r.prepare(ctx, tx)
	if next == nil {
		return nil
	}

	r.log.Debug("retrying response status",
		"url", next.URL().String(), "statusCode", tx.Response.StatusCode(), "attempt", attempt)

	resp, err := tx.Client.Send(next)
	if err != nil {
		r.log.Debug("retry attempt failed",
			"url", next.URL().String(), "attempt", attempt, "err", err)
		return nil
	}
	after.Intercept(resp)

	return nil
}

// prepare decides whether another attempt is allowed and builds its
// request. A nil request means the outcome stands as-is.
func (r *Retry) prepare(ctx context.Context, tx *transact.Transaction) (*message.Request, int) {
	if tx.Client == nil {
		return nil, 0
	}

	n, _ := tx.Request.Config().Int(retryCountKey)
	if n >= r.max {
		return nil, 0
	}
	if !replayable(tx.Request) {
		r.log.Debug("not retrying, request body cannot be replayed",
			"url", tx.Request.URL().String())
		return nil, 0
	}
	if err := r.wait(ctx, n+1); err != nil {
		return nil, 0
	}

	next := tx.Request.Clone()
	next.Config()[retryCountKey] = n + 1

	return next, n + 1
}

func (r *Retry) wait(ctx context.Context, attempt int) error {
	if r.delay == nil {
		return nil
	}
	d := r.delay(attempt)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// replayable rewinds a consumed body so the next attempt can send it
// again.
func replayable(req *message.Request) bool {
	body := req.Body()
	if body == nil || body.Tell() == 0 {
		return true
	}
	if !body.Seekable() {
		return false
	}

	return body.Rewind() == nil
}
