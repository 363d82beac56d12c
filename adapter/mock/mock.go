package mock

import (
	"errors"
	"sync"

	"github.com/adamwoolhether/courier/adapter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// ErrQueueEmpty reports a send against an exhausted outcome queue.
var ErrQueueEmpty = errors.New("mock adapter queue is empty")

// Adapter replays scripted outcomes in enqueue order instead of
// performing transfers. It still dispatches the full event cycle, so
// subscribers observe exactly what a real transport would show them.
// For batch use wrap it with [adapter.Serialize].
type Adapter struct {
	mu    sync.Mutex
	queue []outcome
}

type outcome struct {
	resp *message.Response
	err  error
	fn   func(tx *transact.Transaction) (*message.Response, error)
}

func (o outcome) result(tx *transact.Transaction) (*message.Response, error) {
	if o.fn != nil {
		return o.fn(tx)
	}

	return o.resp, o.err
}

// New returns an Adapter with an empty outcome queue.
func New() *Adapter {
	return &Adapter{}
}

// Enqueue scripts resp as the next outcome.
func (a *Adapter) Enqueue(resp *message.Response) {
	a.push(outcome{resp: resp})
}

// EnqueueError scripts err as the next outcome. It is offered to error
// listeners like a real transfer failure.
func (a *Adapter) EnqueueError(err error) {
	a.push(outcome{err: err})
}

// EnqueueFunc scripts fn as the next outcome, letting a test inspect
// the transaction before deciding what it yields.
func (a *Adapter) EnqueueFunc(fn func(tx *transact.Transaction) (*message.Response, error)) {
	a.push(outcome{fn: fn})
}

// Remaining reports how many scripted outcomes have not been consumed.
func (a *Adapter) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.queue)
}

// Send pops the next scripted outcome and settles tx with it, running
// before-send, after-send, and error dispatch exactly like a transport
// adapter. An exhausted queue fails the transaction with
// [ErrQueueEmpty].
func (a *Adapter) Send(tx *transact.Transaction) error {
	if err := adapter.EmitBeforeSend(tx); err != nil {
		return err
	}
	if tx.Response != nil {
		return adapter.EmitAfterSend(tx)
	}

	out, ok := a.pop()
	if !ok {
		return adapter.EmitError(tx, transact.WrapRequest(tx.Request, ErrQueueEmpty))
	}

	resp, err := out.result(tx)
	if err != nil {
		return adapter.EmitError(tx, transact.WrapRequest(tx.Request, err))
	}

	tx.Response = resp

	return adapter.EmitAfterSend(tx)
}

func (a *Adapter) push(o outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.queue = append(a.queue, o)
}

func (a *Adapter) pop() (outcome, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return outcome{}, false
	}

	o := a.queue[0]
	a.queue = a.queue[1:]

	return o, true
}
