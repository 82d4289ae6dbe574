package tracker

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// PatchFunc receives every patch emitted by a State as it happens. It is
// called synchronously from whichever goroutine performed the write —
// the library never awaits inside a write trap — so it must
// not block or re-enter the State it was registered on.
type PatchFunc func(protocol.Patch)

// State is the server-side authoritative state tree. It is always a
// well-formed JSON tree after every observed mutation: every
// write is applied to s.root under s.mu before its patch is emitted, so no
// observer ever sees an intermediate, partially-applied value.
//
// State itself plays the role of the outermost state object wrapped at
// initialization; Cursor plays the role of the interposers
// lazily constructed on each read.
type State struct {
	mu    sync.Mutex
	root  any
	onPut PatchFunc
}

// NewState creates a State holding initial as its root value and reporting
// every subsequent write to onPatch.
func NewState(initial any, onPatch PatchFunc) *State {
	if onPatch == nil {
		onPatch = func(protocol.Patch) {}
	}
	return &State{root: initial, onPut: onPatch}
}

// Root returns a Cursor positioned at the empty path.
func (s *State) Root() Cursor {
	return Cursor{state: s, path: protocol.Path{}}
}

// Snapshot returns the current root value for use in a `complete` reply.
// A complete response reflects the state as of the moment the request
// was serviced: Snapshot takes s.mu, so it always observes a
// consistent tree.
func (s *State) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Get performs a read at path without emitting a patch. Reads emit no
// patches.
func (s *State) Get(path protocol.Path) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(path)
}

func (s *State) getLocked(path protocol.Path) (any, bool) {
	cur := s.root
	for _, seg := range path {
		next, ok := getChild(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Set performs a write at path and emits exactly one patch {path, value}.
// The empty path replaces the entire tree in one patch.
func (s *State) Set(path protocol.Path, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assignLocked(path, value); err != nil {
		return err
	}
	s.emitLocked(path, value)
	return nil
}

// Delete removes a keyed entry by assigning the Absent sentinel, the only
// deletion mechanism the protocol defines: removing a keyed entry is
// expressed by setting its value to absent, and there is no separate
// delete operation that can emit a patch.
func (s *State) Delete(path protocol.Path) error {
	return s.Set(path, protocol.Absent)
}

func (s *State) emitLocked(path protocol.Path, value any) {
	s.onPut(protocol.Patch{Path: path.Clone(), Value: value})
}

// assignLocked performs the write without emitting a patch; callers
// (Set, Push, Splice, Pop) emit whatever patch sequence is appropriate for
// the operation they perform. Must be called with s.mu held.
func (s *State) assignLocked(path protocol.Path, value any) error {
	if path.Empty() {
		s.root = value
		return nil
	}
	parent, key, err := s.locateParentLocked(path)
	if err != nil {
		return err
	}
	switch c := parent.(type) {
	case map[string]any:
		c[key] = value
		return nil
	case []any:
		idx, ok := parseIndex(key, len(c))
		if !ok {
			return fmt.Errorf("yuzu/tracker: index %q out of range for array at %q", key, path[:len(path)-1])
		}
		c[idx] = value
		return nil
	default:
		return fmt.Errorf("yuzu/tracker: path segment %q not found (full path %s)", key, path)
	}
}

func (s *State) locateParentLocked(path protocol.Path) (parent any, key string, err error) {
	cur := s.root
	for _, seg := range path[:len(path)-1] {
		next, ok := getChild(cur, seg)
		if !ok {
			return nil, "", fmt.Errorf("yuzu/tracker: path segment %q not found (full path %s)", seg, path)
		}
		cur = next
	}
	return cur, path[len(path)-1], nil
}

func getChild(container any, key string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case []any:
		idx, ok := parseIndex(key, len(c))
		if !ok {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

func parseIndex(key string, length int) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}
