package planner

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// Expr represents a node in an expression tree.
// Expressions are immutable and unbound: field references hold positions, and
// are only resolved against an input schema when OutputType is called.
type Expr interface {
	// OutputType returns the type of value this expression produces when
	// evaluated over rows of input.
	OutputType(input schema.NamedStruct) (schema.Type, error)

	// String returns a string representation of the expression.
	String() string

	ToProto() *proto.Expression
}

// FieldRefExpr selects a field of the input row. Path holds one position per
// nesting level: Path[0] indexes the input, each further entry indexes the
// struct selected by the previous one.
type FieldRefExpr struct {
	Path []int32
	// root records whether the raw reference spelled out its root, so it
	// converts back the same way.
	root bool
}

func NewFieldRef(path ...int32) *FieldRefExpr {
	return &FieldRefExpr{Path: path, root: true}
}

func (e *FieldRefExpr) resolve(input schema.NamedStruct) (schema.Field, error) {
	fields := input.Fields
	var f schema.Field
	for depth, idx := range e.Path {
		if idx < 0 || int(idx) >= len(fields) {
			return schema.Field{}, common.Errorf(common.InvalidFieldReference,
				"%s: position %d at depth %d is outside a %d-field struct", e, idx, depth, len(fields))
		}
		f = fields[idx]
		if depth == len(e.Path)-1 {
			break
		}
		if f.Type.Kind != schema.KindStruct || f.Type.Struct == nil {
			return schema.Field{}, common.Errorf(common.InvalidFieldReference,
				"%s: field %q of type %s has no fields to select", e, f.Name, f.Type)
		}
		fields = f.Type.Struct.Fields
	}
	return f, nil
}

func (e *FieldRefExpr) OutputType(input schema.NamedStruct) (schema.Type, error) {
	f, err := e.resolve(input)
	return f.Type, err
}

// Name returns the name of the referenced field.
func (e *FieldRefExpr) Name(input schema.NamedStruct) string {
	f, err := e.resolve(input)
	if err != nil {
		return ""
	}
	return f.Name
}

func (e *FieldRefExpr) String() string {
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return "$" + strings.Join(parts, ".")
}

func (e *FieldRefExpr) ToProto() *proto.Expression {
	var seg *proto.ReferenceSegment
	for i := len(e.Path) - 1; i >= 0; i-- {
		seg = &proto.ReferenceSegment{StructField: &proto.StructField{Field: e.Path[i], Child: seg}}
	}
	ref := &proto.FieldReference{DirectReference: seg}
	if e.root {
		ref.RootReference = &proto.RootReference{}
	}
	return &proto.Expression{Selection: ref}
}

// LiteralExpr is a constant. Its type follows from which value is set.
type LiteralExpr struct {
	raw *proto.Literal
}

func (e *LiteralExpr) OutputType(schema.NamedStruct) (schema.Type, error) {
	l := e.raw
	t := schema.Type{Nullability: schema.Required, Variation: l.TypeVariationReference}
	if l.Nullable {
		t.Nullability = schema.Nullable
	}
	switch {
	case l.Boolean != nil:
		t.Kind = schema.KindBool
	case l.I8 != nil:
		t.Kind = schema.KindI8
	case l.I16 != nil:
		t.Kind = schema.KindI16
	case l.I32 != nil:
		t.Kind = schema.KindI32
	case l.I64 != nil:
		t.Kind = schema.KindI64
	case l.Fp32 != nil:
		t.Kind = schema.KindFP32
	case l.Fp64 != nil:
		t.Kind = schema.KindFP64
	case l.String != nil:
		t.Kind = schema.KindString
	case l.Date != nil:
		t.Kind = schema.KindDate
	case l.Timestamp != nil:
		t.Kind = schema.KindTimestamp
	case l.IntervalDayToSecond != nil:
		t.Kind = schema.KindIntervalDay
	case l.Decimal != nil:
		t.Kind = schema.KindDecimal
		t.Precision, t.Scale = l.Decimal.Precision, l.Decimal.Scale
	case l.Null != nil:
		nt, err := schema.TypeFromProto(l.Null)
		if err != nil {
			return schema.Type{}, err
		}
		return nt.WithNullability(schema.Nullable), nil
	default:
		return schema.Type{}, common.Errorf(common.UntypedExpression, "literal has no value")
	}
	return t, nil
}

func (e *LiteralExpr) String() string {
	l := e.raw
	var v any
	switch {
	case l.Boolean != nil:
		v = *l.Boolean
	case l.I8 != nil:
		v = *l.I8
	case l.I16 != nil:
		v = *l.I16
	case l.I32 != nil:
		v = *l.I32
	case l.I64 != nil:
		v = *l.I64
	case l.Fp32 != nil:
		v = *l.Fp32
	case l.Fp64 != nil:
		v = *l.Fp64
	case l.String != nil:
		v = fmt.Sprintf("'%s'", *l.String)
	case l.Date != nil:
		v = *l.Date
	case l.Timestamp != nil:
		v = *l.Timestamp
	case l.IntervalDayToSecond != nil:
		d := l.IntervalDayToSecond
		v = fmt.Sprintf("%dd%ds%dus", d.Days, d.Seconds, d.Microseconds)
	case l.Decimal != nil:
		v = fmt.Sprintf("0x%x", l.Decimal.Value)
	default:
		v = "null"
	}
	t, err := e.OutputType(schema.NamedStruct{})
	if err != nil {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%v:%s", v, t)
}

func (e *LiteralExpr) ToProto() *proto.Expression {
	return &proto.Expression{Literal: e.raw}
}

// ScalarFunctionExpr calls the extension function declared under Anchor. Its
// type is the declared output type; argument types are not checked.
type ScalarFunctionExpr struct {
	Anchor uint32
	Args   []Expr
	Output *schema.Type
}

func (e *ScalarFunctionExpr) OutputType(schema.NamedStruct) (schema.Type, error) {
	if e.Output == nil {
		return schema.Type{}, common.Errorf(common.UntypedExpression, "%s has no output type", e)
	}
	return *e.Output, nil
}

func (e *ScalarFunctionExpr) String() string {
	return fmt.Sprintf("fn#%d(%s)", e.Anchor, joinExprs(e.Args))
}

func (e *ScalarFunctionExpr) ToProto() *proto.Expression {
	return &proto.Expression{ScalarFunction: &proto.ScalarFunction{
		FunctionReference: e.Anchor,
		Args:              exprsToProto(e.Args),
		OutputType:        typeToProto(e.Output),
	}}
}

type CastExpr struct {
	Type  schema.Type
	Input Expr
}

func (e *CastExpr) OutputType(schema.NamedStruct) (schema.Type, error) {
	return e.Type, nil
}

func (e *CastExpr) String() string {
	return fmt.Sprintf("cast(%s as %s)", e.Input, e.Type)
}

func (e *CastExpr) ToProto() *proto.Expression {
	return &proto.Expression{Cast: &proto.Cast{Type: e.Type.ToProto(), Input: e.Input.ToProto()}}
}

// AggregateFunc is a measure's aggregate call. Like scalar functions it is
// typed by its declared output type.
type AggregateFunc struct {
	Anchor uint32
	Args   []Expr
	Sorts  []SortField
	Phase  proto.AggregationPhase
	Output *schema.Type
}

func (f *AggregateFunc) OutputType() (schema.Type, error) {
	if f.Output == nil {
		return schema.Type{}, common.Errorf(common.UntypedExpression, "%s has no output type", f)
	}
	return *f.Output, nil
}

func (f *AggregateFunc) String() string {
	return fmt.Sprintf("agg#%d(%s)", f.Anchor, joinExprs(f.Args))
}

func (f *AggregateFunc) ToProto() *proto.AggregateFunction {
	return &proto.AggregateFunction{
		FunctionReference: f.Anchor,
		Args:              exprsToProto(f.Args),
		Sorts:             sortsToProto(f.Sorts),
		Phase:             f.Phase,
		OutputType:        typeToProto(f.Output),
	}
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func exprsToProto(exprs []Expr) []*proto.Expression {
	if exprs == nil {
		return nil
	}
	out := make([]*proto.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = e.ToProto()
	}
	return out
}

func exprToProto(e Expr) *proto.Expression {
	if e == nil {
		return nil
	}
	return e.ToProto()
}

func typeToProto(t *schema.Type) *proto.Type {
	if t == nil {
		return nil
	}
	return t.ToProto()
}

// checkRefs resolves every field reference in e against input, including the
// ones nested in function arguments and cast inputs.
func checkRefs(e Expr, input schema.NamedStruct) error {
	switch e := e.(type) {
	case *FieldRefExpr:
		_, err := e.resolve(input)
		return err
	case *ScalarFunctionExpr:
		return checkAllRefs(e.Args, input)
	case *CastExpr:
		return checkRefs(e.Input, input)
	}
	return nil
}

func checkAllRefs(exprs []Expr, input schema.NamedStruct) error {
	for _, e := range exprs {
		if err := checkRefs(e, input); err != nil {
			return err
		}
	}
	return nil
}

func checkSortRefs(sorts []SortField, input schema.NamedStruct) error {
	for i, s := range sorts {
		if err := checkRefs(s.Expr, input); err != nil {
			return errors.Wrapf(err, "sort %d", i)
		}
	}
	return nil
}

// expr converts a raw expression. Function references are checked against
// the builder's function lookup when one is configured.
func (b *Builder) expr(raw *proto.Expression) (Expr, error) {
	if raw == nil {
		return nil, common.Errorf(common.UntypedExpression, "expression is absent")
	}
	switch {
	case raw.Selection != nil:
		return fieldRefFromProto(raw.Selection)
	case raw.Literal != nil:
		e := &LiteralExpr{raw: raw.Literal}
		if _, err := e.OutputType(schema.NamedStruct{}); err != nil {
			return nil, err
		}
		return e, nil
	case raw.ScalarFunction != nil:
		fn := raw.ScalarFunction
		if err := b.checkFunction(fn.FunctionReference); err != nil {
			return nil, err
		}
		args, err := b.exprs(fn.Args)
		if err != nil {
			return nil, errors.Wrapf(err, "function #%d", fn.FunctionReference)
		}
		out, err := optionalType(fn.OutputType)
		if err != nil {
			return nil, err
		}
		return &ScalarFunctionExpr{Anchor: fn.FunctionReference, Args: args, Output: out}, nil
	case raw.Cast != nil:
		if raw.Cast.Type == nil {
			return nil, common.Errorf(common.UntypedExpression, "cast has no target type")
		}
		t, err := schema.TypeFromProto(raw.Cast.Type)
		if err != nil {
			return nil, err
		}
		input, err := b.expr(raw.Cast.Input)
		if err != nil {
			return nil, errors.Wrap(err, "cast input")
		}
		return &CastExpr{Type: t, Input: input}, nil
	}
	return nil, common.Errorf(common.UntypedExpression, "expression has no kind set")
}

func (b *Builder) exprs(raw []*proto.Expression) ([]Expr, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]Expr, len(raw))
	for i, r := range raw {
		e, err := b.expr(r)
		if err != nil {
			return nil, errors.Wrapf(err, "expression %d", i)
		}
		out[i] = e
	}
	return out, nil
}

func (b *Builder) optionalExpr(raw *proto.Expression) (Expr, error) {
	if raw == nil {
		return nil, nil
	}
	return b.expr(raw)
}

func (b *Builder) aggregateFunc(raw *proto.AggregateFunction) (*AggregateFunc, error) {
	if raw == nil {
		return nil, common.Errorf(common.UntypedExpression, "measure has no aggregate function")
	}
	if err := b.checkFunction(raw.FunctionReference); err != nil {
		return nil, err
	}
	args, err := b.exprs(raw.Args)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregate #%d", raw.FunctionReference)
	}
	sorts, err := b.sorts(raw.Sorts, false)
	if err != nil {
		return nil, err
	}
	out, err := optionalType(raw.OutputType)
	if err != nil {
		return nil, err
	}
	return &AggregateFunc{Anchor: raw.FunctionReference, Args: args, Sorts: sorts, Phase: raw.Phase, Output: out}, nil
}

func (b *Builder) checkFunction(anchor uint32) error {
	if b.opts.FunctionLookup == nil || b.opts.FunctionLookup(anchor) {
		return nil
	}
	return common.Errorf(common.UnknownFunctionAnchor, "function anchor %d is not declared", anchor)
}

func fieldRefFromProto(raw *proto.FieldReference) (*FieldRefExpr, error) {
	if raw.OuterReference != nil {
		return nil, common.Errorf(common.InvalidFieldReference,
			"outer reference %d steps out has no enclosing query", raw.OuterReference.StepsOut)
	}
	ref := &FieldRefExpr{root: raw.RootReference != nil}
	for seg := raw.DirectReference; seg != nil; seg = seg.StructField.Child {
		if seg.StructField == nil {
			return nil, common.Errorf(common.InvalidFieldReference, "only struct field references are supported")
		}
		ref.Path = append(ref.Path, seg.StructField.Field)
	}
	if len(ref.Path) == 0 {
		return nil, common.Errorf(common.InvalidFieldReference, "field reference selects nothing")
	}
	return ref, nil
}

func optionalType(raw *proto.Type) (*schema.Type, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := schema.TypeFromProto(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
