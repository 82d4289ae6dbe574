package tracker

import (
	"fmt"
	"strconv"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// Push appends values to the array at path and emits the "chatty" patch
// sequence: a push of K elements onto an
// array yields K+1 patches — one per appended element at its new index,
// in order, followed by one final patch at ".../length".
func (s *State) Push(path protocol.Path, values ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, err := s.arrayAtLocked(path)
	if err != nil {
		return err
	}
	start := len(arr)
	next := append(append([]any{}, arr...), values...)
	if err := s.assignLocked(path, next); err != nil {
		return err
	}
	for i, v := range values {
		s.emitLocked(path.Child(strconv.Itoa(start+i)), v)
	}
	s.emitLocked(path.Child("length"), float64(len(next)))
	return nil
}

// Pop removes and returns the last element of the array at path. The
// vacated slot is reported as an Absent patch, consistent with the
// protocol's "deletion is expressed as an absent value" convention,
// followed by the updated ".../length" patch.
func (s *State) Pop(path protocol.Path) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, err := s.arrayAtLocked(path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("yuzu/tracker: pop on empty array at %s", path)
	}
	last := len(arr) - 1
	removed := arr[last]
	next := append([]any{}, arr[:last]...)
	if err := s.assignLocked(path, next); err != nil {
		return nil, err
	}
	s.emitLocked(path.Child(strconv.Itoa(last)), protocol.Absent)
	s.emitLocked(path.Child("length"), float64(len(next)))
	return removed, nil
}

// Splice removes deleteCount elements starting at start and inserts insert
// in their place, mirroring Array.prototype.splice. It emits one patch for
// every index in the union of the old and new tail (insertion/removal
// shifts every element after start), followed by one ".../length" patch,
// consistent with Push and Pop's chattiness.
func (s *State) Splice(path protocol.Path, start, deleteCount int, insert ...any) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, err := s.arrayAtLocked(path)
	if err != nil {
		return nil, err
	}
	if start < 0 || start > len(arr) {
		return nil, fmt.Errorf("yuzu/tracker: splice start %d out of range for array at %s", start, path)
	}
	end := start + deleteCount
	if end > len(arr) {
		end = len(arr)
	}
	removed := append([]any{}, arr[start:end]...)

	next := append([]any{}, arr[:start]...)
	next = append(next, insert...)
	next = append(next, arr[end:]...)

	if err := s.assignLocked(path, next); err != nil {
		return nil, err
	}

	tail := len(arr)
	if len(next) > tail {
		tail = len(next)
	}
	for i := start; i < tail; i++ {
		idxPath := path.Child(strconv.Itoa(i))
		if i < len(next) {
			s.emitLocked(idxPath, next[i])
		} else {
			s.emitLocked(idxPath, protocol.Absent)
		}
	}
	s.emitLocked(path.Child("length"), float64(len(next)))
	return removed, nil
}

func (s *State) arrayAtLocked(path protocol.Path) ([]any, error) {
	v, ok := s.getLocked(path)
	if !ok {
		return nil, fmt.Errorf("yuzu/tracker: no array at %s", path)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("yuzu/tracker: value at %s is not an array", path)
	}
	return arr, nil
}
