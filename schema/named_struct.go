package schema

import (
	"strings"

	"mit.edu/dsg/planval/common"
)

// Field is one named, typed column of a NamedStruct.
type Field struct {
	Name string
	Type Type
}

func NewField(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

func (f Field) String() string {
	return f.Name + ":" + f.Type.String()
}

// NamedStruct is an ordered list of fields. Field order is positional: field
// references and emit mappings address fields by index.
type NamedStruct struct {
	Fields      []Field
	Nullability Nullability
	Variation   uint32
}

// New returns a required NamedStruct with the given fields.
func New(fields ...Field) NamedStruct {
	return NamedStruct{Fields: fields, Nullability: Required}
}

// Len returns the number of top-level fields.
func (s NamedStruct) Len() int {
	return len(s.Fields)
}

// Field returns the field at position i.
func (s NamedStruct) Field(i int) Field {
	common.Assert(i >= 0 && i < len(s.Fields), "field %d out of range [0, %d)", i, len(s.Fields))
	return s.Fields[i]
}

// Types returns the top-level field types in order.
func (s NamedStruct) Types() []Type {
	out := make([]Type, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Type
	}
	return out
}

// Names returns every field name depth-first: each top-level name is
// followed by the names of the struct fields nested inside its type.
func (s NamedStruct) Names() []string {
	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
		names = appendNestedNames(names, f.Type)
	}
	return names
}

func appendNestedNames(names []string, t Type) []string {
	switch t.Kind {
	case KindStruct:
		if t.Struct != nil {
			names = append(names, t.Struct.Names()...)
		}
	case KindList:
		names = appendNestedNames(names, *t.Elem)
	case KindMap:
		names = appendNestedNames(names, *t.Elem)
		names = appendNestedNames(names, *t.Value)
	}
	return names
}

// NameCount returns len(s.Names()) without building the list.
func (s NamedStruct) NameCount() int {
	n := 0
	for _, f := range s.Fields {
		n += 1 + nestedNameCount(f.Type)
	}
	return n
}

func nestedNameCount(t Type) int {
	switch t.Kind {
	case KindStruct:
		if t.Struct != nil {
			return t.Struct.NameCount()
		}
	case KindList:
		return nestedNameCount(*t.Elem)
	case KindMap:
		return nestedNameCount(*t.Elem) + nestedNameCount(*t.Value)
	}
	return 0
}

// Rename binds names to s depth-first, the same order Names reports them in.
// The number of names must match NameCount exactly.
func (s NamedStruct) Rename(names []string) (NamedStruct, error) {
	if want := s.NameCount(); want != len(names) {
		return NamedStruct{}, &ArityError{Expected: want, Found: len(names)}
	}
	c := &nameCursor{names: names}
	return s.rename(c), nil
}

func (s NamedStruct) rename(c *nameCursor) NamedStruct {
	out := NamedStruct{Fields: make([]Field, len(s.Fields)), Nullability: s.Nullability, Variation: s.Variation}
	for i, f := range s.Fields {
		name, _ := c.next()
		out.Fields[i] = Field{Name: name, Type: renameType(f.Type, c)}
	}
	return out
}

func renameType(t Type, c *nameCursor) Type {
	switch t.Kind {
	case KindStruct:
		if t.Struct != nil {
			renamed := t.Struct.rename(c)
			t.Struct = &renamed
		}
	case KindList:
		elem := renameType(*t.Elem, c)
		t.Elem = &elem
	case KindMap:
		key := renameType(*t.Elem, c)
		value := renameType(*t.Value, c)
		t.Elem, t.Value = &key, &value
	}
	return t
}

func (s NamedStruct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type nameCursor struct {
	names []string
	pos   int
}

func (c *nameCursor) next() (string, bool) {
	if c.pos >= len(c.names) {
		return "", false
	}
	name := c.names[c.pos]
	c.pos++
	return name, true
}
