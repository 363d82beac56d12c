package subscribers

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/transact"
)

// Tracer opens one span per transaction attempt, closing it with the
// outcome when the terminal event fires. Redirect and retry hops get
// their own spans since each is its own transaction.
type Tracer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[*transact.Transaction]trace.Span
}

// NewTracer builds the tracing subscriber. A nil tracer falls back to
// a noop provider.
func NewTracer(tracer trace.Tracer) *Tracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return &Tracer{
		tracer: tracer,
		spans:  make(map[*transact.Transaction]trace.Span),
	}
}

// Bindings registers the span bracket across the full event cycle.
func (t *Tracer) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.BeforeSend, Listener: t.onBeforeSend, Priority: TracePriority},
		{Name: emitter.AfterSend, Listener: t.onAfterSend, Priority: TracePriority},
		{Name: emitter.Error, Listener: t.onError, Priority: TracePriority},
	}
}

func (t *Tracer) onBeforeSend(ctx context.Context, ev emitter.Event) error {
	before, ok := ev.(*transact.BeforeSendEvent)
	if !ok {
		return nil
	}
	tx := before.Transaction

	_, span := t.tracer.Start(ctx, "courier.send")
	span.SetAttributes(
		attribute.String("method", tx.Request.Method()),
		attribute.String("url", tx.Request.URL().String()),
		attribute.String("transaction", tx.ID),
	)

	t.mu.Lock()
	t.spans[tx] = span
	t.mu.Unlock()

	return nil
}

func (t *Tracer) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction

	span, ok := t.take(tx)
	if !ok {
		return nil
	}
	if tx.Response != nil {
		span.SetAttributes(attribute.Int("statusCode", tx.Response.StatusCode()))
	}
	span.End()

	return nil
}

func (t *Tracer) onError(ctx context.Context, ev emitter.Event) error {
	errEv, ok := ev.(*transact.ErrorEvent)
	if !ok {
		return nil
	}

	span, ok := t.take(errEv.Transaction)
	if !ok {
		return nil
	}
	span.RecordError(errEv.Err)
	span.SetStatus(codes.Error, "transfer failed")
	span.End()

	return nil
}

func (t *Tracer) take(tx *transact.Transaction) (trace.Span, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	span, ok := t.spans[tx]
	if ok {
		delete(t.spans, tx)
	}

	return span, ok
}
