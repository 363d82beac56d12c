package adapter

import (
	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/transact"
)

// EmitBeforeSend dispatches before-send for tx. A listener failure is
// offered to the error cycle instead of surfacing directly, so an
// error listener can still rescue the attempt by intercepting. After a
// nil return the caller must check tx.Response: a non-nil response
// means the attempt was already settled by interception and no I/O
// should run.
func EmitBeforeSend(tx *transact.Transaction) error {
	ev := &transact.BeforeSendEvent{Transaction: tx}
	if err := tx.Request.Emitter().Emit(tx.Request.Context(), emitter.BeforeSend, ev); err != nil {
		return EmitError(tx, transact.WrapRequest(tx.Request, err))
	}

	return nil
}

// EmitAfterSend stamps the response's effective URL and dispatches
// after-send for tx. An intercepting listener replaces the response on
// the transaction before remaining listeners are skipped. A listener
// failure is offered to the error cycle like in [EmitBeforeSend].
func EmitAfterSend(tx *transact.Transaction) error {
	if tx.Response != nil {
		tx.Response.SetEffectiveURL(tx.Request.URL().String())
	}

	ev := &transact.AfterSendEvent{Transaction: tx}
	if err := tx.Request.Emitter().Emit(tx.Request.Context(), emitter.AfterSend, ev); err != nil {
		return EmitError(tx, transact.WrapRequest(tx.Request, err))
	}

	return nil
}

// EmitError offers reqErr to error listeners. An interception converts
// the attempt into a success: the transaction ends up with a response,
// no error, and EmitError returns nil. Otherwise reqErr stays on the
// transaction and is returned for the adapter to surface. A listener
// failure during this dispatch is not offered anywhere; it returns
// as-is, with reqErr still on the transaction.
func EmitError(tx *transact.Transaction, reqErr *transact.RequestError) error {
	tx.Err = reqErr

	ev := &transact.ErrorEvent{Transaction: tx, Err: reqErr}
	if err := tx.Request.Emitter().Emit(tx.Request.Context(), emitter.Error, ev); err != nil {
		return err
	}

	if ev.Intercepted() {
		return nil
	}

	return reqErr
}
