package mirror

import (
	"strconv"

	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/subscription"
)

// Projection is the client-side counterpart to tracker.Cursor: a cheap,
// structurally-typed handle onto a path in the mirrored tree. Unlike
// Cursor it is read-only — the mirror is driven entirely by incoming
// patches, never by local writes — and it additionally
// offers Subscribe, since the client side is where application code
// actually wants to be told about changes.
type Projection struct {
	mirror *Mirror
	path   protocol.Path
}

// Path returns the path this projection was reached by.
func (p Projection) Path() protocol.Path {
	return p.path.Clone()
}

// Child descends into a keyed container.
func (p Projection) Child(key string) Projection {
	return Projection{mirror: p.mirror, path: p.path.Child(key)}
}

// Index descends into an array element.
func (p Projection) Index(i int) Projection {
	return p.Child(strconv.Itoa(i))
}

// Get reads the current value at this projection's path.
func (p Projection) Get() (any, bool) {
	return p.mirror.state.get(p.path)
}

// Subscribe registers fn to be called whenever a patch lands at or beneath
// this projection's path. It returns a *subscription.Handle so the caller
// can unsubscribe; there is deliberately no restriction preventing
// subscription on a leaf path, since the mirror cannot always know in
// advance whether a given path currently holds a container or a scalar,
// and subscribe is valid anywhere a patch could land.
func (p Projection) Subscribe(fn func(path protocol.Path, value any, ok bool)) *subscription.Handle {
	return p.mirror.registry.Subscribe(p.path, subscription.Listener(fn))
}
