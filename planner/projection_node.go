package planner

import (
	"fmt"

	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// ProjectNode appends one computed field per expression to its child's
// fields.
type ProjectNode struct {
	relCommon
	Child       Node
	Expressions []Expr
}

func (b *Builder) buildProject(c relCommon, raw *proto.ProjectRel, ancestors []*proto.Rel) (*ProjectNode, error) {
	child, err := b.input(c, "", raw.Input, ancestors)
	if err != nil {
		return nil, err
	}
	exprs, err := b.exprs(raw.Expressions)
	if err != nil {
		return nil, c.wrap(err)
	}
	return &ProjectNode{relCommon: c, Child: child, Expressions: exprs}, nil
}

func (n *ProjectNode) OutputSchema() (schema.NamedStruct, error) {
	in, err := n.Child.OutputSchema()
	if err != nil {
		return schema.NamedStruct{}, err
	}
	local := schema.NamedStruct{
		Fields:      make([]schema.Field, 0, len(in.Fields)+len(n.Expressions)),
		Nullability: in.Nullability,
		Variation:   in.Variation,
	}
	local.Fields = append(local.Fields, in.Fields...)
	for _, e := range n.Expressions {
		f, err := exprField(e, in, len(local.Fields))
		if err != nil {
			return schema.NamedStruct{}, n.wrap(err)
		}
		local.Fields = append(local.Fields, f)
	}
	return n.finish(local)
}

// exprField types e over input and names it. Field references keep the
// referenced field's name; anything else is named after its position.
func exprField(e Expr, input schema.NamedStruct, pos int) (schema.Field, error) {
	if err := checkRefs(e, input); err != nil {
		return schema.Field{}, err
	}
	t, err := e.OutputType(input)
	if err != nil {
		return schema.Field{}, err
	}
	if ref, ok := e.(*FieldRefExpr); ok {
		return schema.NewField(ref.Name(input), t), nil
	}
	return schema.NewField(derivedName(pos), t), nil
}

func derivedName(pos int) string {
	return fmt.Sprintf("$f%d", pos)
}

func (n *ProjectNode) Children() []Node {
	return []Node{n.Child}
}

func (n *ProjectNode) String() string {
	return n.describe("project", joinExprs(n.Expressions))
}

func (n *ProjectNode) ToProto() *proto.Rel {
	return &proto.Rel{Project: &proto.ProjectRel{
		Common:      n.commonToProto(),
		Input:       n.Child.ToProto(),
		Expressions: exprsToProto(n.Expressions),
	}}
}
