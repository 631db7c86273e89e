package planner

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// SetNode combines two or more inputs of the same shape (union, intersection
// or difference). Inputs must agree on field count and kinds. Names come from
// the first input; a field is nullable if it is nullable in any input.
type SetNode struct {
	relCommon
	Inputs []Node
	Op     proto.SetOp
}

func (b *Builder) buildSet(c relCommon, raw *proto.SetRel, ancestors []*proto.Rel) (*SetNode, error) {
	if raw.Op <= proto.SetOpUnspecified || raw.Op > proto.SetOpUnionAll {
		return nil, invalid(c, "unsupported set operation %s", raw.Op)
	}
	if len(raw.Inputs) < 2 {
		return nil, invalid(c, "set operation needs at least 2 inputs, found %d", len(raw.Inputs))
	}
	n := &SetNode{relCommon: c, Op: raw.Op, Inputs: make([]Node, len(raw.Inputs))}
	for i, in := range raw.Inputs {
		child, err := b.input(c, fmt.Sprintf("inputs[%d]", i), in, ancestors)
		if err != nil {
			return nil, err
		}
		n.Inputs[i] = child
	}
	return n, nil
}

func (n *SetNode) OutputSchema() (schema.NamedStruct, error) {
	schemas := make([]schema.NamedStruct, len(n.Inputs))
	var g errgroup.Group
	for i, in := range n.Inputs {
		i, in := i, in
		g.Go(func() (err error) {
			schemas[i], err = in.OutputSchema()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return schema.NamedStruct{}, err
	}

	first := schemas[0]
	local := schema.NamedStruct{
		Fields:      append([]schema.Field(nil), first.Fields...),
		Nullability: first.Nullability,
		Variation:   first.Variation,
	}
	for i, s := range schemas[1:] {
		if s.Len() != first.Len() {
			return schema.NamedStruct{}, n.wrap(common.Errorf(common.SchemaInconsistent,
				"set input %d has %d fields, input 0 has %d", i+1, s.Len(), first.Len()))
		}
		for j, f := range s.Fields {
			if f.Type.Kind != first.Fields[j].Type.Kind {
				return schema.NamedStruct{}, n.wrap(common.Errorf(common.SchemaInconsistent,
					"set input %d field %d is %s, input 0 has %s", i+1, j, f.Type.Kind, first.Fields[j].Type.Kind))
			}
			if f.Type.Nullable() {
				local.Fields[j].Type = local.Fields[j].Type.WithNullability(schema.Nullable)
			}
		}
	}
	return n.finish(local)
}

func (n *SetNode) Children() []Node {
	return n.Inputs
}

func (n *SetNode) String() string {
	return n.describe("set", strings.ToLower(n.Op.String()))
}

func (n *SetNode) ToProto() *proto.Rel {
	raw := &proto.SetRel{Common: n.commonToProto(), Op: n.Op, Inputs: make([]*proto.Rel, len(n.Inputs))}
	for i, in := range n.Inputs {
		raw.Inputs[i] = in.ToProto()
	}
	return &proto.Rel{Set: raw}
}
