// Package mirror implements the client-side subscribable projection: a
// local tree kept in sync with the server by applying incoming patches
// and patch-batches, exposed to application code
// through the same Cursor-shaped navigation as the server's tracker, plus
// subscriptions at any path.
package mirror

import (
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/subscription"
)

// Mirror holds a client's local copy of the server's state tree and
// applies incoming wire messages to it. It composes a tracker-like storage
// model with a subscription.Registry so application code can observe
// changes without polling.
type Mirror struct {
	state    *projectionState
	registry *subscription.Registry
}

// New constructs an empty Mirror. Call Replace once a `complete` reply
// arrives to seed it with the server's snapshot.
func New() *Mirror {
	return &Mirror{
		state:    &projectionState{},
		registry: subscription.NewRegistry(),
	}
}

// Replace installs a brand-new root value, as received in a `complete`
// message, and notifies every subscription unconditionally — every
// subscribed path is implicitly affected by a full tree replacement.
func (m *Mirror) Replace(root any) {
	m.state.set(root)
	m.registry.NotifyAll(m.state.get)
}

// Apply applies one incoming patch to the local tree and notifies matching
// subscriptions.
func (m *Mirror) Apply(p protocol.Patch) {
	m.state.apply(p)
	m.registry.NotifySingle(p.Path, m.state.get)
}

// ApplyBatch applies an ordered group of patches as a unit — every patch
// is applied to the tree before any subscription fires, and each matching
// listener fires at most once for the whole batch, mirroring
// subscription.Registry.NotifyBatch's documented behavior.
func (m *Mirror) ApplyBatch(patches []protocol.Patch) {
	paths := make([]protocol.Path, len(patches))
	for i, p := range patches {
		m.state.apply(p)
		paths[i] = p.Path
	}
	m.registry.NotifyBatch(paths, m.state.get)
}

// Root returns a Projection positioned at the empty path.
func (m *Mirror) Root() Projection {
	return Projection{mirror: m, path: protocol.Path{}}
}

// Snapshot returns the current root value, e.g. for application code that
// wants a one-off read of the whole tree.
func (m *Mirror) Snapshot() any {
	v, _ := m.state.get(protocol.Path{})
	return v
}
