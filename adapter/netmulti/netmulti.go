package netmulti

import (
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/courier/adapter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// Adapter drives transfers through net/http with a multi-handle batch
// loop: a single driver goroutine fills transfer slots up to the
// concurrency limit, collects completions from the multiplexer, runs
// every event dispatch itself, and backfills freed slots from the
// input sequence. Transport I/O is the only work that happens off the
// driver goroutine.
type Adapter struct {
	factory       HandleFactory
	newMux        func() Multiplexer
	selectTimeout time.Duration
	log           *slog.Logger
}

// New builds an Adapter. By default transfers run over
// [http.DefaultTransport] and an idle driver loop waits up to one
// second per select round.
func New(opts ...Option) (*Adapter, error) {
	o := options{
		transport:     http.DefaultTransport,
		selectTimeout: time.Second,
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("building netmulti adapter: %w", err)
		}
	}

	if o.factory == nil {
		o.factory = wireFactory{}
	}
	if o.newMux == nil {
		transport := o.transport
		o.newMux = func() Multiplexer { return newHTTPMux(transport) }
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Adapter{
		factory:       o.factory,
		newMux:        o.newMux,
		selectTimeout: o.selectTimeout,
		log:           o.logger,
	}, nil
}

// Send runs one transaction to completion, degenerately through the
// same loop SendAll uses. Unintercepted failures surface immediately.
func (a *Adapter) Send(tx *transact.Transaction) error {
	single := func(yield func(*transact.Transaction) bool) {
		yield(tx)
	}

	return a.run(single, 1, adapter.NewBatchContext[*Handle](true))
}

// SendAll drives the sequence with at most concurrency transfers
// active at once, starting new ones as completions free slots, until
// the sequence is exhausted and in-flight work settles. Failures stay
// on their transactions unless the batch was built with
// [adapter.ThrowErrors].
func (a *Adapter) SendAll(txs iter.Seq[*transact.Transaction], concurrency int, opts ...adapter.BatchOption) error {
	if concurrency < 1 {
		return fmt.Errorf("parallelism %d: %w", concurrency, transact.ErrInvalidConcurrency)
	}

	cfg := adapter.ApplyBatchOptions(opts)

	return a.run(txs, concurrency, adapter.NewBatchContext[*Handle](cfg.ThrowErrors))
}

// run is the batch loop shared by Send and SendAll. A propagating
// failure is deferred until the completions already collected have
// been processed, so sibling results ready in the same round are not
// dropped.
func (a *Adapter) run(txs iter.Seq[*transact.Transaction], limit int, bc *adapter.BatchContext[*Handle]) error {
	mux := a.newMux()
	next, stop := iter.Pull(txs)
	defer stop()

	if err := a.fill(next, bc, mux, limit); err != nil {
		a.abort(bc, mux)
		return err
	}

	var deferred error
	for bc.InFlight() > 0 {
		completions, mcode := mux.Select(a.selectTimeout)
		if err := mux.CheckResult(mcode); err != nil {
			a.abort(bc, mux)
			return err
		}

		for _, c := range completions {
			err := a.finish(c, bc, mux)
			if err != nil && deferred == nil && (bc.ThrowErrors() || !transact.IsRequestError(err)) {
				deferred = err
			}
			if deferred == nil {
				if err := a.fill(next, bc, mux, limit); err != nil {
					deferred = err
				}
			}
		}

		if deferred != nil {
			a.abort(bc, mux)
			return deferred
		}
	}

	return nil
}

// fill pulls transactions and starts them until the concurrency limit
// is reached or the sequence is exhausted. In a silent batch a
// transaction that fails to start keeps its failure and the next one
// is pulled; otherwise the failure returns for the batch to surface.
func (a *Adapter) fill(next func() (*transact.Transaction, bool), bc *adapter.BatchContext[*Handle], mux Multiplexer, limit int) error {
	for bc.InFlight() < limit {
		tx, ok := next()
		if !ok {
			return nil
		}
		if err := a.start(tx, bc, mux); err != nil {
			if bc.ThrowErrors() || !transact.IsRequestError(err) {
				return err
			}
		}
	}

	return nil
}

// start runs the pre-I/O stage for one transaction: before-send, the
// interception check, handle construction, and registration with the
// multiplexer. A nil return means the transaction is in flight or was
// settled without I/O.
func (a *Adapter) start(tx *transact.Transaction, bc *adapter.BatchContext[*Handle], mux Multiplexer) error {
	if err := adapter.EmitBeforeSend(tx); err != nil {
		return err
	}
	if tx.Response != nil {
		// A listener settled the attempt already; skip the
		// transfer and go straight to after-send.
		return adapter.EmitAfterSend(tx)
	}

	return a.register(tx, bc, mux)
}

// register builds the wire handle for tx and hands it to the
// multiplexer.
func (a *Adapter) register(tx *transact.Transaction, bc *adapter.BatchContext[*Handle], mux Multiplexer) error {
	h, err := a.factory.NewHandle(tx.Request)
	if err != nil {
		return adapter.EmitError(tx, transact.WrapRequest(tx.Request, err))
	}
	if err := bc.Track(h, tx); err != nil {
		a.factory.Release(h)
		return err
	}
	mux.Add(h)

	a.log.Debug("transfer started",
		"method", tx.Request.Method(), "url", tx.Request.URL().String(), "transaction", tx.ID)

	return nil
}

// finish consumes one completion: classify the result, build the
// response or offer the failure to error listeners, release the
// handle. A non-nil return is an unintercepted failure for the caller
// to gate on the batch's error policy.
func (a *Adapter) finish(c Completion, bc *adapter.BatchContext[*Handle], mux Multiplexer) error {
	h := c.Handle
	tx, ok := bc.Transaction(h)
	if !ok {
		return fmt.Errorf("completion for untracked transfer handle (code %d)", c.Code)
	}
	bc.Untrack(h)
	mux.Remove(h)

	if c.Code == CodeOK {
		resp := h.resp
		tx.Response = message.NewResponse(resp.StatusCode, resp.Header, resp.Body)
		a.factory.Release(h)

		a.log.Debug("transfer completed",
			"status", resp.StatusCode, "url", tx.Request.URL().String(), "transaction", tx.ID)

		return adapter.EmitAfterSend(tx)
	}

	cause := h.err
	a.factory.Release(h)

	// A connection that died before yielding any response bytes is
	// retried once per transaction, transparently, when the payload
	// can be replayed.
	if c.Code == CodeGotNothing && !bc.WasRetried(tx) && bodyReplayable(tx.Request) {
		bc.MarkRetried(tx)
		tx.Reset()

		a.log.Debug("transfer retried after empty reply",
			"url", tx.Request.URL().String(), "transaction", tx.ID)

		return a.register(tx, bc, mux)
	}

	tpErr := &transact.TransportError{Code: c.Code, Detail: codeDetail(c.Code), Err: cause}

	return adapter.EmitError(tx, transact.WrapRequest(tx.Request, tpErr))
}

// abort tears down whatever is still registered after a fatal batch
// error, cancelling in-flight transfers through the multiplexer.
func (a *Adapter) abort(bc *adapter.BatchContext[*Handle], mux Multiplexer) {
	if n := bc.InFlight(); n > 0 {
		a.log.Debug("aborting batch", "inflight", n)
	}

	for _, h := range bc.Handles() {
		mux.Remove(h)
		bc.Untrack(h)
	}
}

// bodyReplayable rewinds req's body when the failed attempt consumed
// part of it. It reports false when the payload cannot be replayed
// from the start.
func bodyReplayable(req *message.Request) bool {
	body := req.Body()
	if body == nil || body.Tell() == 0 {
		return true
	}
	if !body.Seekable() {
		return false
	}

	return body.Rewind() == nil
}
