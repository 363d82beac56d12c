package subscribers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/transact"
)

// Logger logs the lifecycle of every attempt it observes: start at
// debug, completion at info, failure at error. It sits at
// [LoggerPriority] so intercepted outcomes are still logged.
type Logger struct {
	log *slog.Logger

	mu      sync.Mutex
	started map[*transact.Transaction]time.Time
}

// NewLogger builds the logging subscriber. A nil log falls back to
// [slog.Default].
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}

	return &Logger{
		log:     log,
		started: make(map[*transact.Transaction]time.Time),
	}
}

// Bindings registers the logger across the full event cycle.
func (l *Logger) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.BeforeSend, Listener: l.onBeforeSend, Priority: LoggerPriority},
		{Name: emitter.AfterSend, Listener: l.onAfterSend, Priority: LoggerPriority},
		{Name: emitter.Error, Listener: l.onError, Priority: LoggerPriority},
	}
}

func (l *Logger) onBeforeSend(ctx context.Context, ev emitter.Event) error {
	before, ok := ev.(*transact.BeforeSendEvent)
	if !ok {
		return nil
	}
	tx := before.Transaction

	l.mu.Lock()
	l.started[tx] = time.Now()
	l.mu.Unlock()

	l.log.Debug("request started",
		"method", tx.Request.Method(), "url", tx.Request.URL().String(), "transaction", tx.ID)

	return nil
}

func (l *Logger) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction

	status := 0
	if tx.Response != nil {
		status = tx.Response.StatusCode()
	}

	l.log.Info("request completed",
		"method", tx.Request.Method(), "url", tx.Request.URL().String(),
		"statusCode", status, "since", l.since(tx).String())

	return nil
}

func (l *Logger) onError(ctx context.Context, ev emitter.Event) error {
	errEv, ok := ev.(*transact.ErrorEvent)
	if !ok {
		return nil
	}
	tx := errEv.Transaction

	l.log.Error("request failed",
		"method", tx.Request.Method(), "url", tx.Request.URL().String(),
		"err", errEv.Err, "since", l.since(tx).String())

	return nil
}

// since closes out the attempt's timing entry.
func (l *Logger) since(tx *transact.Transaction) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	start, ok := l.started[tx]
	if !ok {
		return 0
	}
	delete(l.started, tx)

	return time.Since(start)
}
