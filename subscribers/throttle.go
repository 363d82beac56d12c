package subscribers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/transact"
)

// ThrottleConfig defines the throttler's
// Requests Per Second and Burst Rate.
type ThrottleConfig struct {
	RPS   int
	Burst int
}

// Throttle gates before-send dispatch through a time/rate token bucket
// limiter, bounding how fast requests reach the wire. It sits at
// [ThrottlePriority] so every cheaper listener runs before the wait.
type Throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	log     *slog.Logger
}

// NewThrottle builds the throttling subscriber. A nil log falls back
// to [slog.Default].
func NewThrottle(cfg ThrottleConfig, log *slog.Logger) (*Throttle, error) {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", cfg.RPS, cfg.Burst, ErrMustNotBeZero)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		rps:     cfg.RPS,
		burst:   cfg.Burst,
		log:     log,
	}, nil
}

// Bindings registers the gate last in before-send dispatch.
func (t *Throttle) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.BeforeSend, Listener: t.onBeforeSend, Priority: ThrottlePriority},
	}
}

func (t *Throttle) onBeforeSend(ctx context.Context, ev emitter.Event) error {
	before, ok := ev.(*transact.BeforeSendEvent)
	if !ok {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	if t.limiter.Tokens() < 1 {
		t.log.Info("throttle tokens exhausted",
			"rate", t.rps, "burst", t.burst, "url", before.Transaction.Request.URL().Path)

		defer func() {
			t.log.Info("throttle wait complete", "waited", waited.String(), "rate", t.rps, "burst", t.burst)
		}()
	}

	start := time.Now()

	err := t.limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return nil
}
