package proto

// Expression is a scalar expression. Exactly one field is set.
type Expression struct {
	Literal        *Literal        `yaml:"literal,omitempty"`
	Selection      *FieldReference `yaml:"selection,omitempty"`
	ScalarFunction *ScalarFunction `yaml:"scalar_function,omitempty"`
	Cast           *Cast           `yaml:"cast,omitempty"`
}

// FieldReference points at a field of the input record (RootReference) or
// of an enclosing query (OuterReference).
type FieldReference struct {
	DirectReference *ReferenceSegment `yaml:"direct_reference,omitempty"`
	RootReference   *RootReference    `yaml:"root_reference,omitempty"`
	OuterReference  *OuterReference   `yaml:"outer_reference,omitempty"`
}

type ReferenceSegment struct {
	StructField *StructField `yaml:"struct_field,omitempty"`
}

type StructField struct {
	Field int32             `yaml:"field"`
	Child *ReferenceSegment `yaml:"child,omitempty"`
}

type RootReference struct{}

type OuterReference struct {
	StepsOut uint32 `yaml:"steps_out"`
}

// Literal is a constant. Exactly one value field is set.
type Literal struct {
	Boolean             *bool                `yaml:"boolean,omitempty"`
	I8                  *int32               `yaml:"i8,omitempty"`
	I16                 *int32               `yaml:"i16,omitempty"`
	I32                 *int32               `yaml:"i32,omitempty"`
	I64                 *int64               `yaml:"i64,omitempty"`
	Fp32                *float32             `yaml:"fp32,omitempty"`
	Fp64                *float64             `yaml:"fp64,omitempty"`
	String              *string              `yaml:"string,omitempty"`
	Date                *int32               `yaml:"date,omitempty"`
	Timestamp           *int64               `yaml:"timestamp,omitempty"`
	IntervalDayToSecond *IntervalDayToSecond `yaml:"interval_day_to_second,omitempty"`
	Decimal             *DecimalLiteral      `yaml:"decimal,omitempty"`
	Null                *Type                `yaml:"null,omitempty"`

	Nullable               bool   `yaml:"nullable,omitempty"`
	TypeVariationReference uint32 `yaml:"type_variation_reference,omitempty"`
}

type IntervalDayToSecond struct {
	Days         int32 `yaml:"days,omitempty"`
	Seconds      int32 `yaml:"seconds,omitempty"`
	Microseconds int32 `yaml:"microseconds,omitempty"`
}

type DecimalLiteral struct {
	Value     []byte `yaml:"value,omitempty"`
	Precision int32  `yaml:"precision"`
	Scale     int32  `yaml:"scale,omitempty"`
}

type ScalarFunction struct {
	FunctionReference uint32        `yaml:"function_reference"`
	Args              []*Expression `yaml:"args,omitempty"`
	OutputType        *Type         `yaml:"output_type,omitempty"`
}

type Cast struct {
	Type  *Type       `yaml:"type,omitempty"`
	Input *Expression `yaml:"input,omitempty"`
}

type AggregateFunction struct {
	FunctionReference uint32           `yaml:"function_reference"`
	Args              []*Expression    `yaml:"args,omitempty"`
	Sorts             []*SortField     `yaml:"sorts,omitempty"`
	Phase             AggregationPhase `yaml:"phase,omitempty"`
	OutputType        *Type            `yaml:"output_type,omitempty"`
}
