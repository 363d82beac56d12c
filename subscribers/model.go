package subscribers

import (
	"errors"

	"github.com/adamwoolhether/courier/emitter"
)

// Dispatch priorities for the stock subscribers. Observers outrank
// intercepting policies so an intercepted dispatch is still witnessed;
// the redirect subscriber slots in at 900, just under retries, and the
// status check sits below it so only settled responses are policed.
const (
	HistoryPriority   = emitter.PriorityEarly
	TracePriority     = 9500
	LoggerPriority    = 9000
	RetryPriority     = 1000
	HTTPErrorPriority = 850
	ThrottlePriority  = emitter.PriorityLate
)

// DefaultHistoryLimit bounds a History that was built without an
// explicit capacity.
const DefaultHistoryLimit = 10

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)
