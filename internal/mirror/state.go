package mirror

import (
	"strconv"
	"sync"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// projectionState holds the mirrored tree. Unlike tracker.State it never
// originates patches itself — it only applies ones the server already
// decided on — so it has no emit callback, just a mutex-guarded tree.
type projectionState struct {
	mu   sync.Mutex
	root any
}

func (s *projectionState) set(root any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

func (s *projectionState) get(path protocol.Path) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

// apply assigns a patch's value at its path. A patch whose value is the
// Absent sentinel still performs the assignment: the mirror keeps the
// entry present with an absent value, matching the server's own
// representation, rather than special-casing deletion into a map-key
// removal the wire protocol never actually requested.
func (s *projectionState) apply(p protocol.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = applyAt(s.root, p.Path, p.Value)
}

// applyAt walks container along path and returns the updated container
// with value set at the leaf, growing or truncating an array parent as
// needed. Two array-specific segments are special-cased to reconstruct
// the "chatty" patch sequence Push/Pop/Splice emit on the server:
//   - an index equal to the array's current length is an append, the
//     shape of the per-element patches a push emits
//   - a "length" segment resizes the array itself, the shape of the
//     trailing patch push/pop/splice always emit last
//
// A path beneath a container that doesn't exist yet (or a collection type
// that doesn't match the segment) is dropped; the tree resynchronizes on
// the next `complete` reply.
func applyAt(container any, path protocol.Path, value any) any {
	if path.Empty() {
		return value
	}
	seg, rest := path[0], path[1:]

	if arr, ok := container.([]any); ok {
		if seg == "length" && rest.Empty() {
			if n, ok := lengthValue(value); ok {
				return resizeSlice(arr, n)
			}
			return arr
		}
		if idx, ok := parseIndex(seg, len(arr)); ok {
			arr[idx] = applyAt(arr[idx], rest, value)
			return arr
		}
		if idx, ok := parseIndex(seg, len(arr)+1); ok && idx == len(arr) && rest.Empty() {
			arr = append(arr, nil)
			arr[idx] = applyAt(nil, rest, value)
			return arr
		}
		return arr
	}

	if m, ok := container.(map[string]any); ok {
		if _, exists := m[seg]; !exists && !rest.Empty() {
			return m
		}
		m[seg] = applyAt(m[seg], rest, value)
		return m
	}

	return container
}

// resizeSlice grows arr with nil-filled trailing elements or truncates it
// to exactly n elements.
func resizeSlice(arr []any, n int) []any {
	if n < 0 {
		n = 0
	}
	if n <= len(arr) {
		return arr[:n]
	}
	grown := make([]any, n)
	copy(grown, arr)
	return grown
}

// lengthValue extracts an integer length from a decoded JSON number,
// which arrives as float64 from the wire decoder.
func lengthValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
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
