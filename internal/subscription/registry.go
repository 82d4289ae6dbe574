// Package subscription implements the listener registry: path-prefix-matched
// callbacks, fired in subscription order,
// at most once per listener per notification even when several of the
// patches in a batch fall under the same subscribed prefix.
package subscription

import (
	"sync"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// ReadFunc returns the current value at a path, used so a listener can
// read the state that triggered it without the registry needing to know
// anything about how state is stored.
type ReadFunc func(protocol.Path) (any, bool)

// Listener is called when a write occurs at or beneath the path it
// subscribed to. path is the triggering path — see NotifyBatch for the
// documented quirk around which path is reported when a batch contains
// several patches under the same subscription.
type Listener func(path protocol.Path, value any, ok bool)

// PanicFunc is invoked, if set, whenever a Listener panics. The panic
// itself is always recovered and never propagates to the writer that
// triggered notification — a misbehaving listener must never take down
// the writer that triggered it.
type PanicFunc func(path protocol.Path, recovered any)

type record struct {
	path protocol.Path
	fn   Listener
	live bool
}

// Registry holds subscriptions in insertion order and notifies them on
// writes. The zero value is ready to use; NewRegistry returns one.
type Registry struct {
	mu            sync.Mutex
	records       []*record
	OnListenerPanic PanicFunc
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Handle lets a caller unsubscribe a previously-added listener, or compose
// several teardowns into one.
type Handle struct {
	registry *Registry
	rec      *record
	extra    []*Handle
}

// Unsubscribe removes the listener. It is safe to call more than once;
// subsequent calls are no-ops.
func (h *Handle) Unsubscribe() {
	if h == nil {
		return
	}
	if h.rec != nil {
		h.registry.remove(h.rec)
		h.rec = nil
	}
	for _, e := range h.extra {
		e.Unsubscribe()
	}
}

// Add composes additional handles so a caller can tear down a group of
// subscriptions with a single Unsubscribe call.
func (h *Handle) Add(others ...*Handle) *Handle {
	h.extra = append(h.extra, others...)
	return h
}

// Subscribe registers fn to be notified whenever a write occurs at path or
// at any path beneath it (prefix match). Listeners fire
// in the order they were subscribed.
func (r *Registry) Subscribe(path protocol.Path, fn Listener) *Handle {
	rec := &record{path: path.Clone(), fn: fn, live: true}
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
	return &Handle{registry: r, rec: rec}
}

func (r *Registry) remove(target *record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec == target {
			rec.live = false
			r.records = append(r.records[:i], r.records[i+1:]...)
			return
		}
	}
}

func (r *Registry) snapshot() []*record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*record, len(r.records))
	copy(out, r.records)
	return out
}

// NotifySingle notifies every listener whose subscribed path prefixes the
// written path, in subscription order, passing the written path as the
// trigger but the value read at each listener's own subscribed path.
func (r *Registry) NotifySingle(path protocol.Path, read ReadFunc) {
	for _, rec := range r.snapshot() {
		if rec.path.IsPrefixOf(path) {
			value, ok := read(rec.path)
			r.invoke(rec, path, value, ok)
		}
	}
}

// NotifyBatch notifies every listener whose subscribed path prefixes at
// least one patch in the batch, firing each matching listener at most
// once. The path reported to the listener is its OWN subscribed path, not
// whichever patch in the batch triggered it — this is a documented
// characteristic of the protocol: a listener subscribed to a path that
// matches more than one patch in the same batch is notified once, with
// its own subscribed path reported as the trigger, not a bug to paper
// over.
func (r *Registry) NotifyBatch(paths []protocol.Path, read ReadFunc) {
	for _, rec := range r.snapshot() {
		matched := false
		for _, p := range paths {
			if rec.path.IsPrefixOf(p) {
				matched = true
				break
			}
		}
		if matched {
			value, ok := read(rec.path)
			r.invoke(rec, rec.path, value, ok)
		}
	}
}

// NotifyAll notifies every listener in the registry unconditionally, used
// on root replacement where every subscription is implicitly affected. The
// value passed is read at each listener's own subscribed path, but the
// triggering path reported is always the empty path, since a root
// replacement isn't attributable to any one listener's subscribed path.
func (r *Registry) NotifyAll(read ReadFunc) {
	for _, rec := range r.snapshot() {
		value, ok := read(rec.path)
		r.invoke(rec, protocol.Path{}, value, ok)
	}
}

func (r *Registry) invoke(rec *record, path protocol.Path, value any, ok bool) {
	defer func() {
		if rv := recover(); rv != nil {
			if r.OnListenerPanic != nil {
				r.OnListenerPanic(path, rv)
			}
		}
	}()
	rec.fn(path, value, ok)
}
