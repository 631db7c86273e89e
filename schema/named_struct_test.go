package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

var (
	i32  = Primitive(KindI32, Required)
	i64  = Primitive(KindI64, Required)
	str  = Primitive(KindString, Nullable)
	date = Primitive(KindDate, Nullable)
)

func abc() NamedStruct {
	return New(NewField("a", i32), NewField("b", i64), NewField("c", str))
}

func fieldNames(s NamedStruct) []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

func TestApplyEmit(t *testing.T) {
	s := abc()

	out, err := ApplyEmit(s, Direct)
	require.NoError(t, err)
	assert.Equal(t, s, out)

	out, err = ApplyEmit(s, EmitOf(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, fieldNames(out))
	assert.Equal(t, str, out.Field(0).Type)

	// Repeats are allowed.
	out, err = ApplyEmit(s, EmitOf(1, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "b"}, fieldNames(out))

	out, err = ApplyEmit(s, EmitOf())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestApplyEmitOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		mapping []int32
		pos     int
	}{
		{"past end", []int32{5}, 0},
		{"just past end", []int32{0, 3}, 1},
		{"negative", []int32{1, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyEmit(abc(), EmitOf(tt.mapping...))
			require.Error(t, err)
			assert.True(t, common.HasCode(err, common.EmitOutOfRange))

			var emitErr *EmitError
			require.ErrorAs(t, err, &emitErr)
			assert.Equal(t, tt.pos, emitErr.Position)
			assert.Equal(t, 3, emitErr.Len)
		})
	}
}

func TestConcat(t *testing.T) {
	left := New(NewField("a", i32), NewField("b", i64))
	right := New(NewField("c", str), NewField("d", date))

	out, err := Concat(left, right, CollisionQualify)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, fieldNames(out))
	assert.Equal(t, []Type{i32, i64, str, date}, out.Types())
}

func TestConcatCollision(t *testing.T) {
	left := New(NewField("id", i32), NewField("id_1", i64))
	right := New(NewField("id", i64), NewField("x", str), NewField("id", date))

	out, err := Concat(left, right, CollisionQualify)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "id_1", "id_2", "x", "id_3"}, fieldNames(out))

	_, err = Concat(left, right, CollisionReject)
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, CollisionError{Name: "id", Left: 0, Right: 0}, *collision)
	assert.Equal(t, common.NameCollision, common.CodeOf(err))
}

// Names repeated within one side are not collisions; only a right name that
// also appears on the left is.
func TestConcatRepeatsWithinOneSide(t *testing.T) {
	tests := []struct {
		name        string
		left, right []string
		policy      CollisionPolicy
		want        []string
	}{
		{"right repeats reject", []string{"x"}, []string{"y", "y"}, CollisionReject, []string{"x", "y", "y"}},
		{"left repeats reject", []string{"y", "y"}, []string{"z"}, CollisionReject, []string{"y", "y", "z"}},
		{"right repeats qualify", []string{"x"}, []string{"y", "y"}, CollisionQualify, []string{"x", "y", "y"}},
		{"left repeats qualify", []string{"y", "y"}, []string{"y"}, CollisionQualify, []string{"y", "y", "y_1"}},
		{"qualified name skips later right name", []string{"a"}, []string{"a", "a_1"}, CollisionQualify, []string{"a", "a_2", "a_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Concat(namedI32(tt.left...), namedI32(tt.right...), tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fieldNames(out))
		})
	}
}

func namedI32(names ...string) NamedStruct {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = NewField(n, i32)
	}
	return New(fields...)
}

func TestConcatUnnamedNeverCollide(t *testing.T) {
	left := New(NewField("", i32))
	right := New(NewField("", i64))
	out, err := Concat(left, right, CollisionReject)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestParseCollisionPolicy(t *testing.T) {
	for _, p := range []CollisionPolicy{CollisionQualify, CollisionReject} {
		parsed, err := ParseCollisionPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParseCollisionPolicy("merge")
	assert.Error(t, err)
}

func nested() NamedStruct {
	inner := New(NewField("x", i32), NewField("y", str))
	listOfStruct := Type{Kind: KindList, Nullability: Nullable, Elem: &Type{Kind: KindStruct, Nullability: Required, Struct: &NamedStruct{
		Fields: []Field{NewField("z", date)}, Nullability: Required,
	}}}
	return New(
		NewField("a", i64),
		NewField("s", Type{Kind: KindStruct, Nullability: Required, Struct: &inner}),
		NewField("l", listOfStruct),
	)
}

func TestNamesDepthFirst(t *testing.T) {
	s := nested()
	assert.Equal(t, []string{"a", "s", "x", "y", "l", "z"}, s.Names())
	assert.Equal(t, 6, s.NameCount())
}

func TestRename(t *testing.T) {
	s := nested()
	out, err := s.Rename([]string{"A", "S", "X", "Y", "L", "Z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "S", "X", "Y", "L", "Z"}, out.Names())
	// The original is untouched.
	assert.Equal(t, []string{"a", "s", "x", "y", "l", "z"}, s.Names())

	_, err = s.Rename([]string{"A", "S"})
	var arity *ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, ArityError{Expected: 6, Found: 2}, *arity)
}

func TestProtoRoundTrip(t *testing.T) {
	s := nested()
	raw := s.ToProto()
	assert.Equal(t, []string{"a", "s", "x", "y", "l", "z"}, raw.Names)
	require.Len(t, raw.Struct.Types, 3)
	require.NotNil(t, raw.Struct.Types[2].List)
	assert.Equal(t, proto.NullabilityNullable, raw.Struct.Types[2].List.Nullability)

	back, err := FromProto(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromProtoInconsistent(t *testing.T) {
	i32Raw := &proto.Type{I32: &proto.Primitive{Nullability: proto.NullabilityRequired}}
	tests := []struct {
		name string
		raw  *proto.NamedStruct
	}{
		{"absent", nil},
		{"too few names", &proto.NamedStruct{Names: []string{"a"}, Struct: &proto.Struct{Types: []*proto.Type{i32Raw, i32Raw}}}},
		{"too many names", &proto.NamedStruct{Names: []string{"a", "b"}, Struct: &proto.Struct{Types: []*proto.Type{i32Raw}}}},
		{"empty type", &proto.NamedStruct{Names: []string{"a"}, Struct: &proto.Struct{Types: []*proto.Type{{}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromProto(tt.raw)
			require.Error(t, err)
			assert.Equal(t, common.SchemaInconsistent, common.CodeOf(err))
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{i64, "i64"},
		{str, "string?"},
		{Type{Kind: KindDecimal, Precision: 19, Scale: 2, Nullability: Nullable}, "decimal<19,2>?"},
		{Type{Kind: KindVarChar, Length: 25}, "varchar<25>"},
		{Type{Kind: KindMap, Elem: &str, Value: &i32}, "map<string?,i32>"},
		{nested().Field(1).Type, "struct<x:i32,y:string?>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestNullify(t *testing.T) {
	out := Nullify(abc())
	for _, f := range out.Fields {
		assert.True(t, f.Type.Nullable(), f.Name)
	}
	assert.False(t, abc().Field(0).Type.Nullable())
}
