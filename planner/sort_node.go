package planner

import (
	"strings"

	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// SortNode sorts the input rows.
type SortNode struct {
	relCommon
	Child Node
	Sorts []SortField
}

func (b *Builder) buildSort(c relCommon, raw *proto.SortRel, ancestors []*proto.Rel) (*SortNode, error) {
	child, err := b.input(c, "", raw.Input, ancestors)
	if err != nil {
		return nil, err
	}
	sorts, err := b.sorts(raw.Sorts, true)
	if err != nil {
		return nil, c.wrap(err)
	}
	return &SortNode{relCommon: c, Child: child, Sorts: sorts}, nil
}

func (n *SortNode) OutputSchema() (schema.NamedStruct, error) {
	in, err := n.Child.OutputSchema()
	if err != nil {
		return schema.NamedStruct{}, err
	}
	if err := checkSortRefs(n.Sorts, in); err != nil {
		return schema.NamedStruct{}, n.wrap(err)
	}
	return n.finish(in)
}

func (n *SortNode) Children() []Node {
	return []Node{n.Child}
}

func (n *SortNode) String() string {
	parts := make([]string, len(n.Sorts))
	for i, s := range n.Sorts {
		parts[i] = s.String()
	}
	return n.describe("sort", strings.Join(parts, ", "))
}

func (n *SortNode) ToProto() *proto.Rel {
	return &proto.Rel{Sort: &proto.SortRel{
		Common: n.commonToProto(),
		Input:  n.Child.ToProto(),
		Sorts:  sortsToProto(n.Sorts),
	}}
}
