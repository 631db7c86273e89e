package schema

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Emit selects and reorders the fields a relation outputs. A nil Mapping is
// the direct emit: every field passes through in order.
type Emit struct {
	Mapping []int32
}

// Direct is the identity emit.
var Direct = Emit{}

// EmitOf returns an emit that outputs the given input positions in order.
func EmitOf(mapping ...int32) Emit {
	if mapping == nil {
		mapping = []int32{}
	}
	return Emit{Mapping: mapping}
}

func (e Emit) IsDirect() bool {
	return e.Mapping == nil
}

func (e Emit) String() string {
	if e.IsDirect() {
		return "direct"
	}
	parts := make([]string, len(e.Mapping))
	for i, m := range e.Mapping {
		parts[i] = fmt.Sprint(m)
	}
	return "emit[" + strings.Join(parts, ",") + "]"
}

// ApplyEmit returns the fields of s selected by e. Entry i of the mapping
// becomes output field i; an entry may select the same input field more than
// once.
func ApplyEmit(s NamedStruct, e Emit) (NamedStruct, error) {
	if e.IsDirect() {
		return s, nil
	}
	out := NamedStruct{Fields: make([]Field, len(e.Mapping)), Nullability: s.Nullability, Variation: s.Variation}
	for pos, idx := range e.Mapping {
		if idx < 0 || int(idx) >= len(s.Fields) {
			return NamedStruct{}, &EmitError{Position: pos, Index: idx, Len: len(s.Fields)}
		}
		out.Fields[pos] = s.Fields[idx]
	}
	return out, nil
}

// CollisionPolicy decides what Concat does when both sides share a field
// name.
type CollisionPolicy int8

const (
	// CollisionQualify renames the right-hand field to name_k, with k the
	// smallest positive integer that makes it unique.
	CollisionQualify CollisionPolicy = iota
	// CollisionReject fails with a CollisionError.
	CollisionReject
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionQualify:
		return "qualify"
	case CollisionReject:
		return "error"
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int8(p))
}

// ParseCollisionPolicy accepts the names String returns.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(s) {
	case "", "qualify":
		return CollisionQualify, nil
	case "error", "reject":
		return CollisionReject, nil
	}
	return 0, errors.Newf("unknown collision policy %q", s)
}

// Concat returns the fields of left followed by the fields of right. Only a
// right field named like a left field collides; repeated names within one
// side are kept as they are. Unnamed fields never collide.
func Concat(left, right NamedStruct, policy CollisionPolicy) (NamedStruct, error) {
	out := NamedStruct{
		Fields:      make([]Field, 0, len(left.Fields)+len(right.Fields)),
		Nullability: left.Nullability,
		Variation:   left.Variation,
	}
	leftIdx := make(map[string]int, len(left.Fields))
	used := make(map[string]struct{}, len(left.Fields)+len(right.Fields))
	for i, f := range left.Fields {
		if _, ok := leftIdx[f.Name]; !ok && f.Name != "" {
			leftIdx[f.Name] = i
		}
		used[f.Name] = struct{}{}
		out.Fields = append(out.Fields, f)
	}
	for _, f := range right.Fields {
		used[f.Name] = struct{}{}
	}
	for j, f := range right.Fields {
		if i, ok := leftIdx[f.Name]; ok {
			if policy == CollisionReject {
				return NamedStruct{}, &CollisionError{Name: f.Name, Left: i, Right: j}
			}
			f.Name = qualify(f.Name, used)
			used[f.Name] = struct{}{}
		}
		out.Fields = append(out.Fields, f)
	}
	return out, nil
}

// qualify returns the first of name_1, name_2, ... not in used.
func qualify(name string, used map[string]struct{}) string {
	for k := 1; ; k++ {
		candidate := fmt.Sprintf("%s_%d", name, k)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// Nullify returns s with every top-level field made nullable.
func Nullify(s NamedStruct) NamedStruct {
	out := NamedStruct{Fields: make([]Field, len(s.Fields)), Nullability: s.Nullability, Variation: s.Variation}
	for i, f := range s.Fields {
		out.Fields[i] = Field{Name: f.Name, Type: f.Type.WithNullability(Nullable)}
	}
	return out
}
