package schema

import (
	"mit.edu/dsg/planval/proto"
)

// FromProto converts a raw named struct, binding its names depth-first.
// Every name must be consumed and every field must get one.
func FromProto(raw *proto.NamedStruct) (NamedStruct, error) {
	if raw == nil {
		return NamedStruct{}, inconsistent("named struct is absent")
	}
	if raw.Struct == nil {
		if len(raw.Names) > 0 {
			return NamedStruct{}, inconsistent("%d names given for an absent struct", len(raw.Names))
		}
		return NamedStruct{}, nil
	}
	c := &nameCursor{names: raw.Names}
	s, err := structFromProto(raw.Struct, c)
	if err != nil {
		return NamedStruct{}, err
	}
	if c.pos != len(raw.Names) {
		return NamedStruct{}, &ArityError{Expected: c.pos, Found: len(raw.Names)}
	}
	return s, nil
}

// TypeFromProto converts a raw type that carries no names, such as the
// declared output type of a function. Nested struct fields are left unnamed.
func TypeFromProto(raw *proto.Type) (Type, error) {
	return typeFromProto(raw, nil)
}

func structFromProto(raw *proto.Struct, c *nameCursor) (NamedStruct, error) {
	s := NamedStruct{
		Fields:      make([]Field, len(raw.Types)),
		Nullability: Nullability(raw.Nullability),
		Variation:   raw.TypeVariationReference,
	}
	for i, rt := range raw.Types {
		var name string
		if c != nil {
			var ok bool
			if name, ok = c.next(); !ok {
				return NamedStruct{}, inconsistent("ran out of names at field %d", i)
			}
		}
		t, err := typeFromProto(rt, c)
		if err != nil {
			return NamedStruct{}, err
		}
		s.Fields[i] = Field{Name: name, Type: t}
	}
	return s, nil
}

func primitive(kind Kind, p *proto.Primitive) Type {
	return Type{Kind: kind, Nullability: Nullability(p.Nullability), Variation: p.TypeVariationReference}
}

func sized(kind Kind, p *proto.Sized) Type {
	return Type{Kind: kind, Nullability: Nullability(p.Nullability), Variation: p.TypeVariationReference, Length: p.Length}
}

func typeFromProto(raw *proto.Type, c *nameCursor) (Type, error) {
	if raw == nil {
		return Type{}, inconsistent("type is absent")
	}
	switch {
	case raw.Bool != nil:
		return primitive(KindBool, raw.Bool), nil
	case raw.I8 != nil:
		return primitive(KindI8, raw.I8), nil
	case raw.I16 != nil:
		return primitive(KindI16, raw.I16), nil
	case raw.I32 != nil:
		return primitive(KindI32, raw.I32), nil
	case raw.I64 != nil:
		return primitive(KindI64, raw.I64), nil
	case raw.Fp32 != nil:
		return primitive(KindFP32, raw.Fp32), nil
	case raw.Fp64 != nil:
		return primitive(KindFP64, raw.Fp64), nil
	case raw.String != nil:
		return primitive(KindString, raw.String), nil
	case raw.Binary != nil:
		return primitive(KindBinary, raw.Binary), nil
	case raw.Timestamp != nil:
		return primitive(KindTimestamp, raw.Timestamp), nil
	case raw.Date != nil:
		return primitive(KindDate, raw.Date), nil
	case raw.Time != nil:
		return primitive(KindTime, raw.Time), nil
	case raw.IntervalYear != nil:
		return primitive(KindIntervalYear, raw.IntervalYear), nil
	case raw.IntervalDay != nil:
		return primitive(KindIntervalDay, raw.IntervalDay), nil
	case raw.TimestampTZ != nil:
		return primitive(KindTimestampTZ, raw.TimestampTZ), nil
	case raw.UUID != nil:
		return primitive(KindUUID, raw.UUID), nil
	case raw.FixedChar != nil:
		return sized(KindFixedChar, raw.FixedChar), nil
	case raw.VarChar != nil:
		return sized(KindVarChar, raw.VarChar), nil
	case raw.FixedBinary != nil:
		return sized(KindFixedBinary, raw.FixedBinary), nil
	case raw.Decimal != nil:
		d := raw.Decimal
		return Type{
			Kind:        KindDecimal,
			Nullability: Nullability(d.Nullability),
			Variation:   d.TypeVariationReference,
			Precision:   d.Precision,
			Scale:       d.Scale,
		}, nil
	case raw.Struct != nil:
		s, err := structFromProto(raw.Struct, c)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindStruct, Nullability: s.Nullability, Variation: s.Variation, Struct: &s}, nil
	case raw.List != nil:
		elem, err := typeFromProto(raw.List.Type, c)
		if err != nil {
			return Type{}, err
		}
		return Type{
			Kind:        KindList,
			Nullability: Nullability(raw.List.Nullability),
			Variation:   raw.List.TypeVariationReference,
			Elem:        &elem,
		}, nil
	case raw.Map != nil:
		key, err := typeFromProto(raw.Map.Key, c)
		if err != nil {
			return Type{}, err
		}
		value, err := typeFromProto(raw.Map.Value, c)
		if err != nil {
			return Type{}, err
		}
		return Type{
			Kind:        KindMap,
			Nullability: Nullability(raw.Map.Nullability),
			Variation:   raw.Map.TypeVariationReference,
			Elem:        &key,
			Value:       &value,
		}, nil
	case raw.UserDefined != nil:
		u := raw.UserDefined
		return Type{
			Kind:        KindUserDefined,
			Nullability: Nullability(u.Nullability),
			Variation:   u.TypeVariationReference,
			Reference:   u.TypeReference,
		}, nil
	}
	return Type{}, inconsistent("type has no kind set")
}

// ToProto converts s back to its raw form with names listed depth-first.
func (s NamedStruct) ToProto() *proto.NamedStruct {
	return &proto.NamedStruct{Names: s.Names(), Struct: s.structToProto()}
}

func (s NamedStruct) structToProto() *proto.Struct {
	out := &proto.Struct{
		Types:                  make([]*proto.Type, len(s.Fields)),
		Nullability:            proto.Nullability(s.Nullability),
		TypeVariationReference: s.Variation,
	}
	for i, f := range s.Fields {
		out.Types[i] = f.Type.ToProto()
	}
	return out
}

// ToProto converts t to its raw form. Names of nested struct fields are not
// part of a raw type; NamedStruct.ToProto carries them.
func (t Type) ToProto() *proto.Type {
	p := &proto.Primitive{TypeVariationReference: t.Variation, Nullability: proto.Nullability(t.Nullability)}
	sz := &proto.Sized{Length: t.Length, TypeVariationReference: t.Variation, Nullability: proto.Nullability(t.Nullability)}
	switch t.Kind {
	case KindBool:
		return &proto.Type{Bool: p}
	case KindI8:
		return &proto.Type{I8: p}
	case KindI16:
		return &proto.Type{I16: p}
	case KindI32:
		return &proto.Type{I32: p}
	case KindI64:
		return &proto.Type{I64: p}
	case KindFP32:
		return &proto.Type{Fp32: p}
	case KindFP64:
		return &proto.Type{Fp64: p}
	case KindString:
		return &proto.Type{String: p}
	case KindBinary:
		return &proto.Type{Binary: p}
	case KindTimestamp:
		return &proto.Type{Timestamp: p}
	case KindDate:
		return &proto.Type{Date: p}
	case KindTime:
		return &proto.Type{Time: p}
	case KindIntervalYear:
		return &proto.Type{IntervalYear: p}
	case KindIntervalDay:
		return &proto.Type{IntervalDay: p}
	case KindTimestampTZ:
		return &proto.Type{TimestampTZ: p}
	case KindUUID:
		return &proto.Type{UUID: p}
	case KindFixedChar:
		return &proto.Type{FixedChar: sz}
	case KindVarChar:
		return &proto.Type{VarChar: sz}
	case KindFixedBinary:
		return &proto.Type{FixedBinary: sz}
	case KindDecimal:
		return &proto.Type{Decimal: &proto.Decimal{
			Scale:                  t.Scale,
			Precision:              t.Precision,
			TypeVariationReference: t.Variation,
			Nullability:            proto.Nullability(t.Nullability),
		}}
	case KindStruct:
		var s NamedStruct
		if t.Struct != nil {
			s = *t.Struct
		}
		st := s.structToProto()
		st.Nullability = proto.Nullability(t.Nullability)
		st.TypeVariationReference = t.Variation
		return &proto.Type{Struct: st}
	case KindList:
		return &proto.Type{List: &proto.List{
			Type:                   t.Elem.ToProto(),
			TypeVariationReference: t.Variation,
			Nullability:            proto.Nullability(t.Nullability),
		}}
	case KindMap:
		return &proto.Type{Map: &proto.Map{
			Key:                    t.Elem.ToProto(),
			Value:                  t.Value.ToProto(),
			TypeVariationReference: t.Variation,
			Nullability:            proto.Nullability(t.Nullability),
		}}
	case KindUserDefined:
		return &proto.Type{UserDefined: &proto.UserDefined{
			TypeReference:          t.Reference,
			TypeVariationReference: t.Variation,
			Nullability:            proto.Nullability(t.Nullability),
		}}
	}
	return &proto.Type{}
}
