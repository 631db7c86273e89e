package proto

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type Nullability int32

const (
	NullabilityUnspecified Nullability = iota
	NullabilityNullable
	NullabilityRequired
)

type JoinType int32

const (
	JoinTypeUnspecified JoinType = iota
	JoinTypeInner
	JoinTypeOuter
	JoinTypeLeft
	JoinTypeRight
	JoinTypeLeftSemi
	JoinTypeLeftAnti
	JoinTypeLeftSingle
	JoinTypeRightSemi
	JoinTypeRightAnti
	JoinTypeRightSingle
	JoinTypeLeftMark
	JoinTypeRightMark
)

type SortDirection int32

const (
	SortDirectionUnspecified SortDirection = iota
	SortDirectionAscNullsFirst
	SortDirectionAscNullsLast
	SortDirectionDescNullsFirst
	SortDirectionDescNullsLast
	SortDirectionClustered
)

type SetOp int32

const (
	SetOpUnspecified SetOp = iota
	SetOpMinusPrimary
	SetOpMinusMultiset
	SetOpIntersectionPrimary
	SetOpIntersectionMultiset
	SetOpUnionDistinct
	SetOpUnionAll
)

type AggregationPhase int32

const (
	AggregationPhaseUnspecified AggregationPhase = iota
	AggregationPhaseInitialToIntermediate
	AggregationPhaseIntermediateToIntermediate
	AggregationPhaseInitialToResult
	AggregationPhaseIntermediateToResult
)

// enumNames maps the values of one enum to their protobuf names, minus the
// shared prefix.
type enumNames struct {
	prefix string
	names  []string
}

var (
	nullabilityNames = enumNames{"NULLABILITY_", []string{"UNSPECIFIED", "NULLABLE", "REQUIRED"}}
	joinTypeNames    = enumNames{"JOIN_TYPE_", []string{
		"UNSPECIFIED", "INNER", "OUTER", "LEFT", "RIGHT", "LEFT_SEMI", "LEFT_ANTI",
		"LEFT_SINGLE", "RIGHT_SEMI", "RIGHT_ANTI", "RIGHT_SINGLE", "LEFT_MARK", "RIGHT_MARK",
	}}
	sortDirectionNames = enumNames{"SORT_DIRECTION_", []string{
		"UNSPECIFIED", "ASC_NULLS_FIRST", "ASC_NULLS_LAST", "DESC_NULLS_FIRST", "DESC_NULLS_LAST", "CLUSTERED",
	}}
	setOpNames = enumNames{"SET_OP_", []string{
		"UNSPECIFIED", "MINUS_PRIMARY", "MINUS_MULTISET", "INTERSECTION_PRIMARY",
		"INTERSECTION_MULTISET", "UNION_DISTINCT", "UNION_ALL",
	}}
	aggregationPhaseNames = enumNames{"AGGREGATION_PHASE_", []string{
		"UNSPECIFIED", "INITIAL_TO_INTERMEDIATE", "INTERMEDIATE_TO_INTERMEDIATE",
		"INITIAL_TO_RESULT", "INTERMEDIATE_TO_RESULT",
	}}
)

func (e enumNames) name(v int32) string {
	if v >= 0 && int(v) < len(e.names) {
		return e.names[v]
	}
	return fmt.Sprintf("%d", v)
}

// decode accepts either the numeric value, the full protobuf name or the
// name without its prefix.
func (e enumNames) decode(value *yaml.Node) (int32, error) {
	var n int32
	if err := value.Decode(&n); err == nil {
		return n, nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return 0, err
	}
	s = strings.TrimPrefix(strings.ToUpper(s), e.prefix)
	for i, name := range e.names {
		if name == s {
			return int32(i), nil
		}
	}
	return 0, errors.Newf("line %d: unknown %s value %q", value.Line, strings.ToLower(strings.TrimSuffix(e.prefix, "_")), s)
}

func (n Nullability) String() string { return nullabilityNames.name(int32(n)) }

func (n *Nullability) UnmarshalYAML(value *yaml.Node) error {
	v, err := nullabilityNames.decode(value)
	*n = Nullability(v)
	return err
}

func (n Nullability) MarshalYAML() (interface{}, error) { return n.String(), nil }

func (j JoinType) String() string { return joinTypeNames.name(int32(j)) }

func (j *JoinType) UnmarshalYAML(value *yaml.Node) error {
	v, err := joinTypeNames.decode(value)
	*j = JoinType(v)
	return err
}

func (j JoinType) MarshalYAML() (interface{}, error) { return j.String(), nil }

func (d SortDirection) String() string { return sortDirectionNames.name(int32(d)) }

func (d *SortDirection) UnmarshalYAML(value *yaml.Node) error {
	v, err := sortDirectionNames.decode(value)
	*d = SortDirection(v)
	return err
}

func (d SortDirection) MarshalYAML() (interface{}, error) { return d.String(), nil }

func (o SetOp) String() string { return setOpNames.name(int32(o)) }

func (o *SetOp) UnmarshalYAML(value *yaml.Node) error {
	v, err := setOpNames.decode(value)
	*o = SetOp(v)
	return err
}

func (o SetOp) MarshalYAML() (interface{}, error) { return o.String(), nil }

func (p AggregationPhase) String() string { return aggregationPhaseNames.name(int32(p)) }

func (p *AggregationPhase) UnmarshalYAML(value *yaml.Node) error {
	v, err := aggregationPhaseNames.decode(value)
	*p = AggregationPhase(v)
	return err
}

func (p AggregationPhase) MarshalYAML() (interface{}, error) { return p.String(), nil }
