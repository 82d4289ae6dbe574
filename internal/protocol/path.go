package protocol

import "strings"

// Path is an ordered sequence of string segments naming a descent from the
// root of a synchronized state tree. The empty path denotes the root.
// Array indices appear as decimal-string segments (e.g. Path{"items", "3"}).
type Path []string

// Empty reports whether p is the root path.
func (p Path) Empty() bool {
	return len(p) == 0
}

// Clone returns a copy of p so callers may retain a path across mutation of
// the slice it was derived from.
func (p Path) Clone() Path {
	if len(p) == 0 {
		return Path{}
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns a new path with key appended.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// IsPrefixOf reports whether p is a prefix of q, i.e. whether a listener
// registered at p would be triggered by a patch at q. The empty path is a
// prefix of every path, including itself.
func (p Path) IsPrefixOf(q Path) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p and q name the same path.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path as a slash-separated string for logging, e.g.
// "user/profile/name". The root path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return strings.Join(p, "/")
}
