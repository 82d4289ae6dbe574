package protocol

import "github.com/goccy/go-json"

// absentType is the sentinel value representing a deleted or missing keyed
// entry. There is no explicit delete opcode in the protocol: removing a
// keyed entry is expressed as a patch whose value is Absent, and Absent
// serializes to JSON null. Clients must treat a missing key and a
// present null-valued key equivalently.
type absentType struct{}

// Absent is the sentinel used as a Patch.Value to mean "this entry no
// longer exists."
var Absent = absentType{}

// MarshalJSON renders Absent as JSON null, the only representation that
// survives JSON transport.
func (absentType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// IsAbsent reports whether v is the Absent sentinel or a decoded JSON null
// (i.e. a Go nil interface), since both must be treated equivalently once a
// message has crossed the wire.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(absentType)
	return ok
}

// Patch is the unit of incremental update: a path plus the new value found
// there. V may be any JSON-representable value or the Absent sentinel.
type Patch struct {
	Path  Path `json:"path"`
	Value any  `json:"value"`
}

// patchWire is the on-the-wire shape of Patch, used only to intercept
// decoding of a JSON null into the Absent sentinel rather than a bare nil,
// so in-process code can use protocol.IsAbsent uniformly.
type patchWire struct {
	Path  Path            `json:"path"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the patch in the wire shape {"path":[...],"value":...}.
func (p Patch) MarshalJSON() ([]byte, error) {
	type alias Patch
	return json.Marshal(alias(p))
}

// UnmarshalJSON decodes the patch, mapping a JSON null value to the Absent
// sentinel.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var w patchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Path = w.Path
	if len(w.Value) == 0 || string(w.Value) == "null" {
		p.Value = Absent
		return nil
	}
	var v any
	if err := json.Unmarshal(w.Value, &v); err != nil {
		return err
	}
	p.Value = v
	return nil
}
