package tracker

import (
	"strconv"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// Cursor is an explicit, structurally-typed stand-in for a Proxy-style
// interposer. It carries the path by which it was reached and nothing
// else: constructing one is cheap and never touches the underlying
// State (see doc.go).
type Cursor struct {
	state *State
	path  protocol.Path
}

// Path returns the path this cursor was reached by.
func (c Cursor) Path() protocol.Path {
	return c.path.Clone()
}

// Child descends into a keyed container, mirroring the Proxy get-trap's
// lazy interposer construction for object properties.
func (c Cursor) Child(key string) Cursor {
	return Cursor{state: c.state, path: c.path.Child(key)}
}

// Index descends into an array element, mirroring the Proxy get-trap for
// numeric indices.
func (c Cursor) Index(i int) Cursor {
	return c.Child(strconv.Itoa(i))
}

// Get reads the current value at this cursor's path without emitting a
// patch. Reads never produce wire traffic.
func (c Cursor) Get() (any, bool) {
	return c.state.Get(c.path)
}

// Set writes value at this cursor's path, emitting exactly one patch.
func (c Cursor) Set(value any) error {
	return c.state.Set(c.path, value)
}

// Delete removes the keyed entry this cursor points at by assigning the
// Absent sentinel.
func (c Cursor) Delete() error {
	return c.state.Delete(c.path)
}

// Push appends values to the array at this cursor's path, reproducing the
// "chatty" patch sequence: one patch per
// appended element at its new index, followed by one patch at ".../length".
func (c Cursor) Push(values ...any) error {
	return c.state.Push(c.path, values...)
}

// Pop removes and returns the last element of the array at this cursor's
// path.
func (c Cursor) Pop() (any, error) {
	return c.state.Pop(c.path)
}

// Splice removes deleteCount elements starting at start and inserts insert
// in their place, following Array.prototype.splice semantics.
func (c Cursor) Splice(start, deleteCount int, insert ...any) ([]any, error) {
	return c.state.Splice(c.path, start, deleteCount, insert...)
}
