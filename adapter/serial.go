package adapter

import (
	"fmt"
	"iter"

	"github.com/adamwoolhether/courier/transact"
)

// Serial upgrades any Adapter into a BatchAdapter by driving
// transactions one at a time in sequence order. The concurrency limit
// is validated but otherwise unused. It exists for adapters without a
// native batch engine, the scripted test adapter above all.
type Serial struct {
	Adapter
}

// Serialize wraps a into a sequential BatchAdapter. An adapter that
// already is one passes through unchanged.
func Serialize(a Adapter) BatchAdapter {
	if ba, ok := a.(BatchAdapter); ok {
		return ba
	}

	return Serial{Adapter: a}
}

// SendAll sends each transaction to completion in order. Failures stay
// on their transactions unless the batch was built with [ThrowErrors];
// listener and driver faults always abort the run.
func (s Serial) SendAll(txs iter.Seq[*transact.Transaction], concurrency int, opts ...BatchOption) error {
	if concurrency < 1 {
		return fmt.Errorf("parallelism %d: %w", concurrency, transact.ErrInvalidConcurrency)
	}

	cfg := ApplyBatchOptions(opts)

	for tx := range txs {
		if err := s.Send(tx); err != nil {
			if cfg.ThrowErrors || !transact.IsRequestError(err) {
				return err
			}
		}
	}

	return nil
}
