package emitter

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// registration is one listener entry in the dispatch table. Entries
// stay sorted by descending priority; inserts land after existing
// peers of equal priority, so registration order breaks ties.
type registration struct {
	id       uint64
	fn       Listener
	priority int
	once     bool
}

// Emitter dispatches lifecycle events to registered listeners in
// priority order. It is safe for concurrent use. The zero value is not
// usable; create one with [New].
type Emitter struct {
	mu     sync.Mutex
	nextID uint64
	table  map[Name][]registration
	bySub  map[Subscriber][]Subscription
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{
		table: make(map[Name][]registration),
		bySub: make(map[Subscriber][]Subscription),
	}
}

// On registers fn for name. Higher priorities fire first; listeners at
// equal priority fire in registration order. The returned Subscription
// identifies this registration for [Emitter.Remove].
func (e *Emitter) On(name Name, fn Listener, priority int) Subscription {
	return e.register(name, fn, priority, false)
}

// Once registers fn for name like [Emitter.On], but the registration
// is discarded when dispatch first reaches it, before fn runs. It
// fires at most once no matter how many times name is emitted.
func (e *Emitter) Once(name Name, fn Listener, priority int) Subscription {
	return e.register(name, fn, priority, true)
}

func (e *Emitter) register(name Name, fn Listener, priority int, once bool) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	reg := registration{id: e.nextID, fn: fn, priority: priority, once: once}

	regs := e.table[name]
	i := sort.Search(len(regs), func(i int) bool { return regs[i].priority < priority })
	e.table[name] = slices.Insert(regs, i, reg)

	return Subscription{name: name, id: reg.id}
}

// Remove drops the registration identified by sub. Removing a
// Subscription that is absent, already removed, or owned by a
// different Emitter is a no-op.
func (e *Emitter) Remove(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(sub)
}

func (e *Emitter) removeLocked(sub Subscription) bool {
	regs := e.table[sub.name]
	for i, reg := range regs {
		if reg.id == sub.id {
			e.table[sub.name] = slices.Delete(regs, i, i+1)
			return true
		}
	}

	return false
}

// Emit dispatches ev to every listener registered for name at the time
// of the call, in priority order. Listeners added or removed during
// dispatch take effect on the next Emit. Dispatch stops early when a
// listener stops the event's propagation; a listener error aborts the
// remaining listeners and is returned as-is.
func (e *Emitter) Emit(ctx context.Context, name Name, ev Event) error {
	e.mu.Lock()
	snapshot := slices.Clone(e.table[name])
	e.mu.Unlock()

	for _, reg := range snapshot {
		if reg.once {
			e.mu.Lock()
			claimed := e.removeLocked(Subscription{name: name, id: reg.id})
			e.mu.Unlock()
			if !claimed { // A concurrent dispatch fired it already.
				continue
			}
		}

		if err := reg.fn(ctx, ev); err != nil {
			return err
		}
		if ev.PropagationStopped() {
			break
		}
	}

	return nil
}

// Listeners returns the listeners registered for name in dispatch
// order. The returned slice is a copy.
func (e *Emitter) Listeners(name Name) []Listener {
	e.mu.Lock()
	defer e.mu.Unlock()

	return listenerFns(e.table[name])
}

// All returns every registered listener keyed by event name, each list
// in dispatch order. The result is a copy.
func (e *Emitter) All() map[Name][]Listener {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make(map[Name][]Listener, len(e.table))
	for name, regs := range e.table {
		if fns := listenerFns(regs); fns != nil {
			all[name] = fns
		}
	}

	return all
}

func listenerFns(regs []registration) []Listener {
	if len(regs) == 0 {
		return nil
	}

	fns := make([]Listener, len(regs))
	for i, reg := range regs {
		fns[i] = reg.fn
	}

	return fns
}

// AddSubscriber registers every binding s declares and remembers them
// so [Emitter.RemoveSubscriber] can detach the whole set. Adding the
// same subscriber twice registers its bindings twice.
func (e *Emitter) AddSubscriber(s Subscriber) {
	subs := make([]Subscription, 0, len(s.Bindings()))
	for _, b := range s.Bindings() {
		if b.Once {
			subs = append(subs, e.Once(b.Name, b.Listener, b.Priority))
		} else {
			subs = append(subs, e.On(b.Name, b.Listener, b.Priority))
		}
	}

	e.mu.Lock()
	e.bySub[s] = append(e.bySub[s], subs...)
	e.mu.Unlock()
}

// RemoveSubscriber drops every registration previously added for s via
// [Emitter.AddSubscriber]. Unknown subscribers are a no-op.
func (e *Emitter) RemoveSubscriber(s Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sub := range e.bySub[s] {
		e.removeLocked(sub)
	}
	delete(e.bySub, s)
}

// Clone returns an independent copy of the Emitter: the whole listener
// table including once markers and priorities. Registrations and
// removals after the call affect only one side. Subscriptions issued
// before the call remain valid against both copies.
func (e *Emitter) Clone() *Emitter {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := New()
	c.nextID = e.nextID
	for name, regs := range e.table {
		c.table[name] = slices.Clone(regs)
	}
	for s, subs := range e.bySub {
		c.bySub[s] = slices.Clone(subs)
	}

	return c
}
