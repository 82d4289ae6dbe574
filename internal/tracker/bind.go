package tracker

import (
	"fmt"
	"reflect"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// Binding is a struct-tag-driven convenience offered alongside
// the explicit Cursor API: a statically-typed port may additionally offer
// a struct-tag-driven binding as sugar over the same underlying Set(path,
// value) calls, provided both styles emit an identical patch stream.
//
// A Binding never bypasses State: every Field lookup still ends in a
// Cursor.Set/Get call, so code built on structs and code built on raw
// Cursor navigation are indistinguishable on the wire.
type Binding struct {
	root   Cursor
	fields map[string]string
}

// Bind inspects the struct pointed to by structPtr and builds a Binding
// mapping each exported field to a path segment under root. A field's
// segment is taken from its `yuzu:"name"` tag if present, otherwise the
// field's own name is used verbatim. A tag of "-" excludes the field.
func Bind(root Cursor, structPtr any) (*Binding, error) {
	rv := reflect.ValueOf(structPtr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("yuzu/tracker: Bind requires a pointer to a struct, got %T", structPtr)
	}
	t := rv.Elem().Type()
	fields := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("yuzu")
		if ok && tag == "-" {
			continue
		}
		segment := f.Name
		if ok && tag != "" {
			segment = tag
		}
		fields[f.Name] = segment
	}
	return &Binding{root: root, fields: fields}, nil
}

// Field returns a Cursor positioned at the path segment bound to the named
// struct field.
func (b *Binding) Field(name string) (Cursor, error) {
	segment, ok := b.fields[name]
	if !ok {
		return Cursor{}, fmt.Errorf("yuzu/tracker: field %q is not bound", name)
	}
	return b.root.Child(segment), nil
}

// Path returns the bound path segment for a field without constructing a
// Cursor, for callers that want to compose it further.
func (b *Binding) Path(name string) (protocol.Path, error) {
	c, err := b.Field(name)
	if err != nil {
		return nil, err
	}
	return c.Path(), nil
}
