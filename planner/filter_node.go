package planner

import (
	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// FilterNode filters rows from its child based on a predicate.
type FilterNode struct {
	relCommon
	Child     Node
	Condition Expr
}

func (b *Builder) buildFilter(c relCommon, raw *proto.FilterRel, ancestors []*proto.Rel) (*FilterNode, error) {
	child, err := b.input(c, "", raw.Input, ancestors)
	if err != nil {
		return nil, err
	}
	if raw.Condition == nil {
		return nil, invalid(c, "filter has no condition")
	}
	cond, err := b.expr(raw.Condition)
	if err != nil {
		return nil, c.wrap(err)
	}
	return &FilterNode{relCommon: c, Child: child, Condition: cond}, nil
}

func (n *FilterNode) OutputSchema() (schema.NamedStruct, error) {
	in, err := n.Child.OutputSchema()
	if err != nil {
		return schema.NamedStruct{}, err
	}
	if err := checkRefs(n.Condition, in); err != nil {
		return schema.NamedStruct{}, n.wrap(errors.Wrap(err, "condition"))
	}
	return n.finish(in)
}

func (n *FilterNode) Children() []Node {
	return []Node{n.Child}
}

func (n *FilterNode) String() string {
	return n.describe("filter", n.Condition.String())
}

func (n *FilterNode) ToProto() *proto.Rel {
	return &proto.Rel{Filter: &proto.FilterRel{
		Common:    n.commonToProto(),
		Input:     n.Child.ToProto(),
		Condition: n.Condition.ToProto(),
	}}
}
