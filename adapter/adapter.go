package adapter

import (
	"iter"

	"github.com/adamwoolhether/courier/transact"
)

// Adapter turns one transaction into a completed response, emitting
// the full event cycle along the way.
type Adapter interface {
	// Send runs tx to completion: before-send fires ahead of any
	// I/O, then exactly one of after-send or error. On success the
	// response sits on the transaction and the return is nil. An
	// unintercepted failure is returned and also left on the
	// transaction.
	Send(tx *transact.Transaction) error
}

// BatchAdapter additionally drives many transactions concurrently
// under one loop.
type BatchAdapter interface {
	Adapter

	// SendAll consumes transactions lazily, keeping at most
	// concurrency transfers active and starting new ones as others
	// finish, until the sequence is exhausted and in-flight work
	// settles. Outcomes are observed on each transaction and through
	// its events; transfer failures stay on their transactions
	// unless the batch was built with [ThrowErrors]. Non-positive
	// concurrency fails with [transact.ErrInvalidConcurrency].
	SendAll(txs iter.Seq[*transact.Transaction], concurrency int, opts ...BatchOption) error
}

// BatchConfig collects the per-batch settings options can tune.
type BatchConfig struct {
	ThrowErrors bool
}

// BatchOption adjusts one SendAll run.
type BatchOption func(*BatchConfig)

// ThrowErrors makes unintercepted transfer failures surface from
// SendAll once the completions already ready have been processed, so
// sibling results are not dropped. Without it failures stay attached
// to their transactions and SendAll reports only driver faults.
func ThrowErrors() BatchOption {
	return func(c *BatchConfig) {
		c.ThrowErrors = true
	}
}

// ApplyBatchOptions folds opts into a BatchConfig.
func ApplyBatchOptions(opts []BatchOption) BatchConfig {
	var cfg BatchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
