package netmulti

import (
	"net/http"
	"time"

	"github.com/adamwoolhether/courier/message"
)

// Transport result codes, the closed set transfer failures are
// classified onto. The numbering follows libcurl's result codes so the
// values read the same in logs either way.
const (
	CodeOK                  = 0
	CodeUnsupportedProtocol = 1
	CodeBadURL              = 3
	CodeCouldntResolve      = 6
	CodeCouldntConnect      = 7
	CodeTimeout             = 28
	CodeTLS                 = 35
	CodeAborted             = 42
	CodeGotNothing          = 52
	CodeSendFailure         = 55
	CodeRecvFailure         = 56
)

// MultiOK is the control-plane result a healthy multiplexer reports
// from Select.
const MultiOK = 0

// Handle is one prepared transfer: the wire-level request built from
// an engine request, plus the slot its raw outcome lands in. A Handle
// serves a single attempt; retries build a fresh one.
type Handle struct {
	wire   *http.Request
	cancel func()

	// Outcome fields, written by the multiplexer worker before the
	// completion is queued.
	done bool
	resp *http.Response
	err  error
}

// Completion reports one finished transfer and its classified
// transport result code.
type Completion struct {
	Handle *Handle
	Code   int
}

// HandleFactory prepares wire-level handles from engine requests.
type HandleFactory interface {
	// NewHandle builds a handle for req. It fails with a
	// [*transact.RequestError] when the request cannot be prepared,
	// for example an unsupported URL scheme.
	NewHandle(req *message.Request) (*Handle, error)
	// Release frees a handle's resources once its outcome has been
	// consumed.
	Release(h *Handle)
}

// Multiplexer coordinates many in-flight transfers for one batch run
// and reports their completions.
type Multiplexer interface {
	// Add registers h and starts driving its transfer.
	Add(h *Handle)
	// Remove detaches h. A transfer still in flight is aborted;
	// one already completed is left untouched.
	Remove(h *Handle)
	// Select waits up to timeout for transfers to finish and
	// returns the completions ready so far together with the
	// multiplexer's own control-plane result code. An empty slice
	// after a full wait is not an error; the caller simply selects
	// again.
	Select(timeout time.Duration) ([]Completion, int)
	// CheckResult validates a control-plane result code from
	// Select, failing with a [*transact.AdapterError] when it is
	// non-zero.
	CheckResult(code int) error
}
