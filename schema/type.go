// Package schema is the typed, named field model every relation's output is
// described with, plus the transforms operators apply to it. Values are
// immutable: every transform returns a new NamedStruct.
package schema

import (
	"fmt"
	"strings"
)

type Kind int8

const (
	// For uninitialized Types
	KindUnknown Kind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindFP32
	KindFP64
	KindString
	KindBinary
	KindTimestamp
	KindDate
	KindTime
	KindIntervalYear
	KindIntervalDay
	KindTimestampTZ
	KindUUID
	KindFixedChar
	KindVarChar
	KindFixedBinary
	KindDecimal
	KindStruct
	KindList
	KindMap
	KindUserDefined
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindFP32:
		return "fp32"
	case KindFP64:
		return "fp64"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindTimestamp:
		return "timestamp"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindIntervalYear:
		return "interval_year"
	case KindIntervalDay:
		return "interval_day"
	case KindTimestampTZ:
		return "timestamp_tz"
	case KindUUID:
		return "uuid"
	case KindFixedChar:
		return "fixedchar"
	case KindVarChar:
		return "varchar"
	case KindFixedBinary:
		return "fixedbinary"
	case KindDecimal:
		return "decimal"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindUserDefined:
		return "u!"
	}
	return "unknown"
}

type Nullability int8

const (
	NullabilityUnspecified Nullability = iota
	Nullable
	Required
)

// Type is a data type. Only the parameters relevant to Kind are set.
type Type struct {
	Kind        Kind
	Nullability Nullability
	Variation   uint32

	// Length of fixedchar, varchar and fixedbinary.
	Length int32
	// Precision and Scale of decimal.
	Precision int32
	Scale     int32

	// Elem is the element type of a list and the key type of a map.
	Elem *Type
	// Value is the value type of a map.
	Value *Type
	// Struct holds the fields of a struct type.
	Struct *NamedStruct
	// Reference is the type anchor of a user-defined type.
	Reference uint32
}

// Primitive returns a parameterless type of the given kind.
func Primitive(kind Kind, nullability Nullability) Type {
	return Type{Kind: kind, Nullability: nullability}
}

// Nullable reports whether values of this type may be null.
func (t Type) Nullable() bool {
	return t.Nullability == Nullable
}

// WithNullability returns a copy of t with its nullability replaced.
func (t Type) WithNullability(n Nullability) Type {
	t.Nullability = n
	return t
}

func (t Type) String() string {
	var sb strings.Builder
	sb.WriteString(t.Kind.String())
	switch t.Kind {
	case KindFixedChar, KindVarChar, KindFixedBinary:
		fmt.Fprintf(&sb, "<%d>", t.Length)
	case KindDecimal:
		fmt.Fprintf(&sb, "<%d,%d>", t.Precision, t.Scale)
	case KindList:
		fmt.Fprintf(&sb, "<%s>", t.Elem)
	case KindMap:
		fmt.Fprintf(&sb, "<%s,%s>", t.Elem, t.Value)
	case KindStruct:
		sb.WriteString("<")
		if t.Struct != nil {
			for i, f := range t.Struct.Fields {
				if i > 0 {
					sb.WriteString(",")
				}
				fmt.Fprintf(&sb, "%s:%s", f.Name, f.Type)
			}
		}
		sb.WriteString(">")
	case KindUserDefined:
		fmt.Fprintf(&sb, "%d", t.Reference)
	}
	if t.Nullable() {
		sb.WriteString("?")
	}
	return sb.String()
}
