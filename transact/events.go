package transact

import (
	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
)

// BeforeSendEvent fires on [emitter.BeforeSend], ahead of any
// transport I/O for the attempt.
type BeforeSendEvent struct {
	emitter.Base
	Transaction *Transaction
}

// AfterSendEvent fires on [emitter.AfterSend] once an attempt produced
// a response.
type AfterSendEvent struct {
	emitter.Base
	Transaction *Transaction
	intercepted bool
}

// Intercept replaces the attempt's outcome with resp and stops
// propagation. The adapter returns resp in place of whatever the
// transfer produced, without re-running it.
func (e *AfterSendEvent) Intercept(resp *message.Response) {
	e.Transaction.Response = resp
	e.intercepted = true
	e.StopPropagation()
}

// Intercepted reports whether a listener supplied the final response.
func (e *AfterSendEvent) Intercepted() bool { return e.intercepted }

// ErrorEvent fires on [emitter.Error] when an attempt failed. Err is
// the failure being offered to listeners before it reaches the caller.
type ErrorEvent struct {
	emitter.Base
	Transaction *Transaction
	Err         *RequestError
	intercepted bool
}

// Intercept converts the failed attempt into a success with resp: the
// transaction's error is cleared, resp becomes the outcome, and
// propagation stops. The adapter must not re-enter error handling for
// this attempt.
func (e *ErrorEvent) Intercept(resp *message.Response) {
	e.Transaction.Response = resp
	e.Transaction.Err = nil
	e.intercepted = true
	e.StopPropagation()
}

// Intercepted reports whether a listener converted the failure into a
// success.
func (e *ErrorEvent) Intercepted() bool { return e.intercepted }
