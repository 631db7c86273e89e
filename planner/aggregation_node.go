package planner

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// GroupingSetField names the field that tells rows of different grouping
// sets apart. It is only present when there is more than one grouping set.
const GroupingSetField = "$grouping_set"

// Measure is one aggregate result column, optionally computed over the rows
// that pass Filter only.
type Measure struct {
	Func   *AggregateFunc
	Filter Expr
}

// AggregateNode represents a group-by and aggregation operation.
// Its fields are the distinct grouping keys of all grouping sets, in order of
// first appearance, followed by one field per measure.
type AggregateNode struct {
	relCommon
	Child     Node
	Groupings [][]Expr
	Measures  []Measure
}

func (b *Builder) buildAggregate(c relCommon, raw *proto.AggregateRel, ancestors []*proto.Rel) (*AggregateNode, error) {
	child, err := b.input(c, "", raw.Input, ancestors)
	if err != nil {
		return nil, err
	}
	n := &AggregateNode{relCommon: c, Child: child}
	keys := 0
	for i, g := range raw.Groupings {
		if g == nil {
			return nil, invalid(c, "grouping %d is absent", i)
		}
		exprs, err := b.exprs(g.GroupingExpressions)
		if err != nil {
			return nil, c.wrap(errors.Wrapf(err, "grouping %d", i))
		}
		keys += len(exprs)
		n.Groupings = append(n.Groupings, exprs)
	}
	for i, m := range raw.Measures {
		if m == nil {
			return nil, invalid(c, "measure %d is absent", i)
		}
		fn, err := b.aggregateFunc(m.Measure)
		if err != nil {
			return nil, c.wrap(errors.Wrapf(err, "measure %d", i))
		}
		filter, err := b.optionalExpr(m.Filter)
		if err != nil {
			return nil, c.wrap(errors.Wrapf(err, "measure %d filter", i))
		}
		n.Measures = append(n.Measures, Measure{Func: fn, Filter: filter})
	}
	if keys == 0 && len(n.Measures) == 0 {
		return nil, invalid(c, "aggregate has neither grouping keys nor measures")
	}
	return n, nil
}

// keys returns the distinct grouping expressions and, for each, how many
// grouping sets contain it.
func (n *AggregateNode) keys() ([]Expr, []int) {
	var keys []Expr
	var counts []int
	index := make(map[string]int)
	for _, g := range n.Groupings {
		inSet := make(map[int]bool)
		for _, e := range g {
			i, ok := index[e.String()]
			if !ok {
				i = len(keys)
				index[e.String()] = i
				keys = append(keys, e)
				counts = append(counts, 0)
			}
			if !inSet[i] {
				inSet[i] = true
				counts[i]++
			}
		}
	}
	return keys, counts
}

func (n *AggregateNode) OutputSchema() (schema.NamedStruct, error) {
	in, err := n.Child.OutputSchema()
	if err != nil {
		return schema.NamedStruct{}, err
	}
	keys, counts := n.keys()
	local := schema.NamedStruct{Nullability: in.Nullability, Variation: in.Variation}
	for i, k := range keys {
		f, err := exprField(k, in, len(local.Fields))
		if err != nil {
			return schema.NamedStruct{}, n.wrap(errors.Wrapf(err, "grouping key %d", i))
		}
		if counts[i] < len(n.Groupings) {
			f.Type = f.Type.WithNullability(schema.Nullable)
		}
		local.Fields = append(local.Fields, f)
	}
	for i, m := range n.Measures {
		if err := m.checkRefs(in); err != nil {
			return schema.NamedStruct{}, n.wrap(errors.Wrapf(err, "measure %d", i))
		}
		t, err := m.Func.OutputType()
		if err != nil {
			return schema.NamedStruct{}, n.wrap(errors.Wrapf(err, "measure %d", i))
		}
		local.Fields = append(local.Fields, schema.NewField(derivedName(len(local.Fields)), t))
	}
	if len(n.Groupings) > 1 {
		local.Fields = append(local.Fields, schema.NewField(GroupingSetField, schema.Primitive(schema.KindI32, schema.Required)))
	}
	return n.finish(local)
}

func (m Measure) checkRefs(input schema.NamedStruct) error {
	if err := checkAllRefs(m.Func.Args, input); err != nil {
		return err
	}
	if err := checkSortRefs(m.Func.Sorts, input); err != nil {
		return err
	}
	if m.Filter != nil {
		return errors.Wrap(checkRefs(m.Filter, input), "filter")
	}
	return nil
}

func (n *AggregateNode) Children() []Node {
	return []Node{n.Child}
}

func (n *AggregateNode) String() string {
	sets := make([]string, len(n.Groupings))
	for i, g := range n.Groupings {
		sets[i] = "(" + joinExprs(g) + ")"
	}
	measures := make([]string, len(n.Measures))
	for i, m := range n.Measures {
		measures[i] = m.Func.String()
	}
	return n.describe("aggregate", fmt.Sprintf("groupBy[%s] measures[%s]",
		strings.Join(sets, " "), strings.Join(measures, ", ")))
}

func (n *AggregateNode) ToProto() *proto.Rel {
	raw := &proto.AggregateRel{Common: n.commonToProto(), Input: n.Child.ToProto()}
	for _, g := range n.Groupings {
		raw.Groupings = append(raw.Groupings, &proto.Grouping{GroupingExpressions: exprsToProto(g)})
	}
	for _, m := range n.Measures {
		raw.Measures = append(raw.Measures, &proto.Measure{Measure: m.Func.ToProto(), Filter: exprToProto(m.Filter)})
	}
	return &proto.Rel{Aggregate: raw}
}
