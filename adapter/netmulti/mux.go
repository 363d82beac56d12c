package netmulti

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/adamwoolhether/courier/transact"
)

// httpMux drives each added handle's round-trip in its own goroutine
// and queues completions for the driver loop to collect. One httpMux
// serves exactly one batch run.
type httpMux struct {
	transport http.RoundTripper

	mu     sync.Mutex
	active map[*Handle]struct{}
	ready  []Completion

	// wake carries one buffered signal so a completion arriving
	// between Select calls is never lost.
	wake chan struct{}
}

func newHTTPMux(transport http.RoundTripper) *httpMux {
	return &httpMux{
		transport: transport,
		active:    make(map[*Handle]struct{}),
		wake:      make(chan struct{}, 1),
	}
}

func (m *httpMux) Add(h *Handle) {
	ctx, cancel := context.WithCancel(h.wire.Context())
	h.cancel = cancel
	wire := h.wire.WithContext(ctx)

	m.mu.Lock()
	m.active[h] = struct{}{}
	m.mu.Unlock()

	go func() {
		resp, err := m.transport.RoundTrip(wire)

		m.mu.Lock()
		h.resp = resp
		h.err = err
		h.done = true
		delete(m.active, h)
		m.ready = append(m.ready, Completion{Handle: h, Code: classify(err)})
		m.mu.Unlock()

		select {
		case m.wake <- struct{}{}:
		default:
		}
	}()
}

func (m *httpMux) Remove(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[h]; ok {
		delete(m.active, h)
		if h.cancel != nil {
			h.cancel()
		}
	}
}

func (m *httpMux) Select(timeout time.Duration) ([]Completion, int) {
	if ready := m.take(); len(ready) > 0 {
		return ready, MultiOK
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-m.wake:
	case <-timer.C:
	}

	return m.take(), MultiOK
}

func (m *httpMux) take() []Completion {
	m.mu.Lock()
	defer m.mu.Unlock()

	ready := m.ready
	m.ready = nil

	return ready
}

func (m *httpMux) CheckResult(code int) error {
	if code != MultiOK {
		return &transact.AdapterError{Code: code}
	}

	return nil
}
