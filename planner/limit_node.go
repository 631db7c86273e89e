package planner

import (
	"fmt"

	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// FetchNode skips Offset rows of its child and passes on at most Count of
// the rest. A Count of -1 passes on all of them.
type FetchNode struct {
	relCommon
	Child  Node
	Offset int64
	Count  int64
}

func (b *Builder) buildFetch(c relCommon, raw *proto.FetchRel, ancestors []*proto.Rel) (*FetchNode, error) {
	child, err := b.input(c, "", raw.Input, ancestors)
	if err != nil {
		return nil, err
	}
	if raw.Offset < 0 {
		return nil, invalid(c, "fetch offset %d is negative", raw.Offset)
	}
	if raw.Count < -1 {
		return nil, invalid(c, "fetch count %d is below -1", raw.Count)
	}
	return &FetchNode{relCommon: c, Child: child, Offset: raw.Offset, Count: raw.Count}, nil
}

func (n *FetchNode) OutputSchema() (schema.NamedStruct, error) {
	in, err := n.Child.OutputSchema()
	if err != nil {
		return schema.NamedStruct{}, err
	}
	return n.finish(in)
}

func (n *FetchNode) Children() []Node {
	return []Node{n.Child}
}

func (n *FetchNode) String() string {
	return n.describe("fetch", fmt.Sprintf("offset=%d count=%d", n.Offset, n.Count))
}

func (n *FetchNode) ToProto() *proto.Rel {
	return &proto.Rel{Fetch: &proto.FetchRel{
		Common: n.commonToProto(),
		Input:  n.Child.ToProto(),
		Offset: n.Offset,
		Count:  n.Count,
	}}
}
