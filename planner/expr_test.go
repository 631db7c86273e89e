package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// Helper to create a standard input schema for testing
// Schema: [id(i64), name(string?), addr(struct<city:string, zip:i32?>)]
func makeExprTestSchema() schema.NamedStruct {
	addr := schema.New(
		schema.NewField("city", schema.Primitive(schema.KindString, schema.Required)),
		schema.NewField("zip", schema.Primitive(schema.KindI32, schema.Nullable)),
	)
	return schema.New(
		schema.NewField("id", schema.Primitive(schema.KindI64, schema.Required)),
		schema.NewField("name", schema.Primitive(schema.KindString, schema.Nullable)),
		schema.NewField("addr", schema.Type{Kind: schema.KindStruct, Nullability: schema.Required, Struct: &addr}),
	)
}

func ptr[T any](v T) *T { return &v }

// TestFieldReference checks references resolve to the referenced field's
// type and name.
func TestFieldReference(t *testing.T) {
	in := makeExprTestSchema()

	tests := []struct {
		path []int32
		kind schema.Kind
		name string
	}{
		{[]int32{0}, schema.KindI64, "id"},
		{[]int32{1}, schema.KindString, "name"},
		{[]int32{2}, schema.KindStruct, "addr"},
		{[]int32{2, 1}, schema.KindI32, "zip"},
	}
	for _, tt := range tests {
		ref := NewFieldRef(tt.path...)
		t.Run(ref.String(), func(t *testing.T) {
			typ, err := ref.OutputType(in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, typ.Kind)
			assert.Equal(t, tt.name, ref.Name(in))
		})
	}
}

func TestFieldReferenceInvalid(t *testing.T) {
	in := makeExprTestSchema()
	for _, path := range [][]int32{{3}, {-1}, {0, 0}, {2, 2}} {
		ref := NewFieldRef(path...)
		t.Run(ref.String(), func(t *testing.T) {
			_, err := ref.OutputType(in)
			assert.True(t, common.HasCode(err, common.InvalidFieldReference), "%v", err)
			assert.Empty(t, ref.Name(in))
		})
	}
}

func TestLiteralTypes(t *testing.T) {
	tests := []struct {
		name string
		lit  *proto.Literal
		want string
	}{
		{"bool", &proto.Literal{Boolean: ptr(true)}, "boolean"},
		{"i8", &proto.Literal{I8: ptr(int32(1))}, "i8"},
		{"i64 nullable", &proto.Literal{I64: ptr(int64(1)), Nullable: true}, "i64?"},
		{"fp64", &proto.Literal{Fp64: ptr(1.5)}, "fp64"},
		{"string", &proto.Literal{String: ptr("x")}, "string"},
		{"date", &proto.Literal{Date: ptr(int32(10561))}, "date"},
		{"interval", &proto.Literal{IntervalDayToSecond: &proto.IntervalDayToSecond{Days: 120}}, "interval_day"},
		{"decimal", &proto.Literal{Decimal: &proto.DecimalLiteral{Precision: 10, Scale: 2}}, "decimal<10,2>"},
		{"typed null", &proto.Literal{Null: &proto.Type{Date: &proto.Primitive{}}}, "date?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := (&LiteralExpr{raw: tt.lit}).OutputType(schema.NamedStruct{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.String())
		})
	}

	_, err := (&LiteralExpr{raw: &proto.Literal{}}).OutputType(schema.NamedStruct{})
	assert.Equal(t, common.UntypedExpression, common.CodeOf(err))
}

func TestExprFromProto(t *testing.T) {
	b := NewBuilder(Options{})
	decimal := &proto.Type{Decimal: &proto.Decimal{Precision: 19, Nullability: proto.NullabilityNullable}}
	raw := &proto.Expression{ScalarFunction: &proto.ScalarFunction{
		FunctionReference: 3,
		OutputType:        decimal,
		Args: []*proto.Expression{
			{Selection: &proto.FieldReference{
				DirectReference: &proto.ReferenceSegment{StructField: &proto.StructField{Field: 5}},
				RootReference:   &proto.RootReference{},
			}},
			{Cast: &proto.Cast{Type: decimal, Input: &proto.Expression{Literal: &proto.Literal{I32: ptr(int32(1))}}}},
		},
	}}

	e, err := b.expr(raw)
	require.NoError(t, err)
	assert.Equal(t, "fn#3($5, cast(1:i32 as decimal<19,0>?))", e.String())

	typ, err := e.OutputType(schema.NamedStruct{})
	require.NoError(t, err)
	assert.Equal(t, "decimal<19,0>?", typ.String())

	if diff := cmp.Diff(raw, e.ToProto()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExprFromProtoErrors(t *testing.T) {
	b := NewBuilder(Options{FunctionLookup: func(anchor uint32) bool { return anchor == 1 }})
	tests := []struct {
		name string
		raw  *proto.Expression
		code common.ErrorCode
	}{
		{"absent", nil, common.UntypedExpression},
		{"empty", &proto.Expression{}, common.UntypedExpression},
		{"empty literal", &proto.Expression{Literal: &proto.Literal{}}, common.UntypedExpression},
		{"cast without type", &proto.Expression{Cast: &proto.Cast{}}, common.UntypedExpression},
		{"outer reference", &proto.Expression{Selection: &proto.FieldReference{OuterReference: &proto.OuterReference{StepsOut: 1}}}, common.InvalidFieldReference},
		{"empty reference", &proto.Expression{Selection: &proto.FieldReference{RootReference: &proto.RootReference{}}}, common.InvalidFieldReference},
		{"undeclared function", &proto.Expression{ScalarFunction: &proto.ScalarFunction{FunctionReference: 2}}, common.UnknownFunctionAnchor},
		{"undeclared nested function", &proto.Expression{ScalarFunction: &proto.ScalarFunction{
			FunctionReference: 1,
			Args:              []*proto.Expression{{ScalarFunction: &proto.ScalarFunction{FunctionReference: 9}}},
		}}, common.UnknownFunctionAnchor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.expr(tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.code, common.CodeOf(err), "%v", err)
		})
	}
}

func TestFieldRefProtoKeepsRoot(t *testing.T) {
	withRoot := &proto.Expression{Selection: &proto.FieldReference{
		DirectReference: &proto.ReferenceSegment{StructField: &proto.StructField{
			Field: 2,
			Child: &proto.ReferenceSegment{StructField: &proto.StructField{Field: 1}},
		}},
		RootReference: &proto.RootReference{},
	}}
	withoutRoot := &proto.Expression{Selection: &proto.FieldReference{
		DirectReference: &proto.ReferenceSegment{StructField: &proto.StructField{Field: 0}},
	}}
	b := NewBuilder(Options{})
	for _, raw := range []*proto.Expression{withRoot, withoutRoot} {
		e, err := b.expr(raw)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(raw, e.ToProto()))
	}
}
