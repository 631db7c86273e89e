package proto

// Type is a Substrait data type. Exactly one field is set.
type Type struct {
	Bool         *Primitive   `yaml:"bool,omitempty"`
	I8           *Primitive   `yaml:"i8,omitempty"`
	I16          *Primitive   `yaml:"i16,omitempty"`
	I32          *Primitive   `yaml:"i32,omitempty"`
	I64          *Primitive   `yaml:"i64,omitempty"`
	Fp32         *Primitive   `yaml:"fp32,omitempty"`
	Fp64         *Primitive   `yaml:"fp64,omitempty"`
	String       *Primitive   `yaml:"string,omitempty"`
	Binary       *Primitive   `yaml:"binary,omitempty"`
	Timestamp    *Primitive   `yaml:"timestamp,omitempty"`
	Date         *Primitive   `yaml:"date,omitempty"`
	Time         *Primitive   `yaml:"time,omitempty"`
	IntervalYear *Primitive   `yaml:"interval_year,omitempty"`
	IntervalDay  *Primitive   `yaml:"interval_day,omitempty"`
	TimestampTZ  *Primitive   `yaml:"timestamp_tz,omitempty"`
	UUID         *Primitive   `yaml:"uuid,omitempty"`
	FixedChar    *Sized       `yaml:"fixed_char,omitempty"`
	VarChar      *Sized       `yaml:"varchar,omitempty"`
	FixedBinary  *Sized       `yaml:"fixed_binary,omitempty"`
	Decimal      *Decimal     `yaml:"decimal,omitempty"`
	Struct       *Struct      `yaml:"struct,omitempty"`
	List         *List        `yaml:"list,omitempty"`
	Map          *Map         `yaml:"map,omitempty"`
	UserDefined  *UserDefined `yaml:"user_defined,omitempty"`
}

// Primitive is the payload shared by all parameterless types.
type Primitive struct {
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

// Sized is the payload of the length-parameterized types.
type Sized struct {
	Length                 int32       `yaml:"length"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

type Decimal struct {
	Scale                  int32       `yaml:"scale,omitempty"`
	Precision              int32       `yaml:"precision"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

type Struct struct {
	Types                  []*Type     `yaml:"types"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

type List struct {
	Type                   *Type       `yaml:"type"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

type Map struct {
	Key                    *Type       `yaml:"key"`
	Value                  *Type       `yaml:"value"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

type UserDefined struct {
	TypeReference          uint32      `yaml:"type_reference"`
	TypeVariationReference uint32      `yaml:"type_variation_reference,omitempty"`
	Nullability            Nullability `yaml:"nullability,omitempty"`
}

// NamedStruct is a struct type plus the names of its fields, listed
// depth-first including the fields of nested structs.
type NamedStruct struct {
	Names  []string `yaml:"names,omitempty"`
	Struct *Struct  `yaml:"struct,omitempty"`
}
