package subscribers

import (
	"context"
	"sync"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// Entry is one recorded exchange: the request plus either its response
// or the failure it ended in.
type Entry struct {
	Request  *message.Request
	Response *message.Response
	Err      error
}

// History records every exchange it observes, bounded to the newest
// limit entries. It sits at [HistoryPriority], above redirect and
// retry interception, so every hop and every failed attempt is
// witnessed.
type History struct {
	limit int

	mu      sync.Mutex
	entries []Entry
}

// NewHistory builds a recorder keeping the newest limit entries. A
// non-positive limit means [DefaultHistoryLimit].
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return &History{limit: limit}
}

// Bindings registers the recorder on both terminal events.
func (h *History) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.AfterSend, Listener: h.onAfterSend, Priority: HistoryPriority},
		{Name: emitter.Error, Listener: h.onError, Priority: HistoryPriority},
	}
}

func (h *History) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	h.record(Entry{Request: after.Transaction.Request, Response: after.Transaction.Response})

	return nil
}

func (h *History) onError(ctx context.Context, ev emitter.Event) error {
	errEv, ok := ev.(*transact.ErrorEvent)
	if !ok {
		return nil
	}
	h.record(Entry{Request: errEv.Transaction.Request, Err: errEv.Err})

	return nil
}

func (h *History) record(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, e)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// All returns the recorded entries, oldest first.
func (h *History) All() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)

	return out
}

// Last returns the newest entry.
func (h *History) Last() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return Entry{}, false
	}

	return h.entries[len(h.entries)-1], true
}

// Len reports how many entries are held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Clear drops all recorded entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
}
