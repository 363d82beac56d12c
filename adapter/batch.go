package adapter

import (
	"fmt"

	"github.com/adamwoolhether/courier/transact"
)

// BatchContext is the shared state of one batch run: which transfer
// handle belongs to which transaction, whether transfer failures
// surface from the batch call, and which transactions already used
// their single retry. It belongs to exactly one SendAll invocation and
// is not safe for use from more than one goroutine.
type BatchContext[H comparable] struct {
	throwErrors bool
	inFlight    map[H]*transact.Transaction
	retried     map[*transact.Transaction]struct{}
}

// NewBatchContext builds an empty context. throwErrors decides whether
// unintercepted transfer failures propagate out of the batch call or
// stay on their transactions.
func NewBatchContext[H comparable](throwErrors bool) *BatchContext[H] {
	return &BatchContext[H]{
		throwErrors: throwErrors,
		inFlight:    make(map[H]*transact.Transaction),
		retried:     make(map[*transact.Transaction]struct{}),
	}
}

// ThrowErrors reports whether unintercepted transfer failures should
// propagate out of the batch call.
func (b *BatchContext[H]) ThrowErrors() bool {
	return b.throwErrors
}

// Track associates handle with tx. Every handle registered with the
// multiplexer has exactly one transaction until it completes or is
// requeued; a duplicate registration is a driver bug and fails.
func (b *BatchContext[H]) Track(handle H, tx *transact.Transaction) error {
	if _, ok := b.inFlight[handle]; ok {
		return fmt.Errorf("transfer handle already tracked for %s", tx.Request.URL())
	}
	b.inFlight[handle] = tx

	return nil
}

// Transaction looks up the transaction registered for handle.
func (b *BatchContext[H]) Transaction(handle H) (*transact.Transaction, bool) {
	tx, ok := b.inFlight[handle]
	return tx, ok
}

// Untrack drops the handle's registration once the transfer completed
// or was requeued.
func (b *BatchContext[H]) Untrack(handle H) {
	delete(b.inFlight, handle)
}

// InFlight reports how many transfers are currently registered.
func (b *BatchContext[H]) InFlight() int {
	return len(b.inFlight)
}

// Handles returns the currently registered transfer handles, in no
// particular order.
func (b *BatchContext[H]) Handles() []H {
	hs := make([]H, 0, len(b.inFlight))
	for h := range b.inFlight {
		hs = append(hs, h)
	}

	return hs
}

// MarkRetried records that tx consumed its single transparent retry.
func (b *BatchContext[H]) MarkRetried(tx *transact.Transaction) {
	b.retried[tx] = struct{}{}
}

// WasRetried reports whether tx already consumed its retry.
func (b *BatchContext[H]) WasRetried(tx *transact.Transaction) bool {
	_, ok := b.retried[tx]
	return ok
}
