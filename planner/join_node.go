package planner

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// JoinNode joins two children on Expression. Depending on Type, the fields
// of one side become nullable or are dropped from the output.
type JoinNode struct {
	relCommon
	Left           Node
	Right          Node
	Expression     Expr
	PostJoinFilter Expr
	Type           proto.JoinType
	collision      schema.CollisionPolicy
}

func (b *Builder) buildJoin(c relCommon, raw *proto.JoinRel, ancestors []*proto.Rel) (*JoinNode, error) {
	left, err := b.input(c, "left", raw.Left, ancestors)
	if err != nil {
		return nil, err
	}
	right, err := b.input(c, "right", raw.Right, ancestors)
	if err != nil {
		return nil, err
	}
	switch raw.Type {
	case proto.JoinTypeUnspecified, proto.JoinTypeLeftMark, proto.JoinTypeRightMark:
		return nil, invalid(c, "unsupported join type %s", raw.Type)
	}
	if raw.Type < proto.JoinTypeUnspecified || raw.Type > proto.JoinTypeRightMark {
		return nil, invalid(c, "unknown join type %d", int32(raw.Type))
	}
	if raw.Expression == nil {
		return nil, invalid(c, "join has no expression")
	}
	n := &JoinNode{relCommon: c, Left: left, Right: right, Type: raw.Type, collision: b.opts.Collision}
	if n.Expression, err = b.expr(raw.Expression); err != nil {
		return nil, c.wrap(err)
	}
	if n.PostJoinFilter, err = b.optionalExpr(raw.PostJoinFilter); err != nil {
		return nil, c.wrap(err)
	}
	return n, nil
}

// deriveBoth derives the schemas of two independent subtrees concurrently.
func deriveBoth(left, right Node) (schema.NamedStruct, schema.NamedStruct, error) {
	var l, r schema.NamedStruct
	var g errgroup.Group
	g.Go(func() (err error) {
		l, err = left.OutputSchema()
		return err
	})
	g.Go(func() (err error) {
		r, err = right.OutputSchema()
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.NamedStruct{}, schema.NamedStruct{}, err
	}
	return l, r, nil
}

func (n *JoinNode) OutputSchema() (schema.NamedStruct, error) {
	l, r, err := deriveBoth(n.Left, n.Right)
	if err != nil {
		return schema.NamedStruct{}, err
	}
	if err := n.checkConditions(l, r); err != nil {
		return schema.NamedStruct{}, n.wrap(err)
	}
	switch n.Type {
	case proto.JoinTypeLeftSemi, proto.JoinTypeLeftAnti:
		return n.finish(l)
	case proto.JoinTypeRightSemi, proto.JoinTypeRightAnti:
		return n.finish(r)
	case proto.JoinTypeLeft, proto.JoinTypeLeftSingle:
		r = schema.Nullify(r)
	case proto.JoinTypeRight, proto.JoinTypeRightSingle:
		l = schema.Nullify(l)
	case proto.JoinTypeOuter:
		l, r = schema.Nullify(l), schema.Nullify(r)
	}
	local, err := schema.Concat(l, r, n.collision)
	if err != nil {
		return schema.NamedStruct{}, n.wrap(err)
	}
	return n.finish(local)
}

// checkConditions resolves the join conditions against the left fields
// followed by the right fields, before either side is dropped or nullified.
func (n *JoinNode) checkConditions(l, r schema.NamedStruct) error {
	both := schema.NamedStruct{Fields: make([]schema.Field, 0, len(l.Fields)+len(r.Fields))}
	both.Fields = append(append(both.Fields, l.Fields...), r.Fields...)
	if err := checkRefs(n.Expression, both); err != nil {
		return errors.Wrap(err, "expression")
	}
	if n.PostJoinFilter != nil {
		if err := checkRefs(n.PostJoinFilter, both); err != nil {
			return errors.Wrap(err, "post join filter")
		}
	}
	return nil
}

func (n *JoinNode) Children() []Node {
	return []Node{n.Left, n.Right}
}

func (n *JoinNode) String() string {
	args := []string{strings.ToLower(n.Type.String()), n.Expression.String()}
	if n.PostJoinFilter != nil {
		args = append(args, "post="+n.PostJoinFilter.String())
	}
	return n.describe("join", args...)
}

func (n *JoinNode) ToProto() *proto.Rel {
	return &proto.Rel{Join: &proto.JoinRel{
		Common:         n.commonToProto(),
		Left:           n.Left.ToProto(),
		Right:          n.Right.ToProto(),
		Expression:     n.Expression.ToProto(),
		PostJoinFilter: exprToProto(n.PostJoinFilter),
		Type:           n.Type,
	}}
}

// CrossNode is the cartesian product of two children.
type CrossNode struct {
	relCommon
	Left      Node
	Right     Node
	collision schema.CollisionPolicy
}

func (b *Builder) buildCross(c relCommon, raw *proto.CrossRel, ancestors []*proto.Rel) (*CrossNode, error) {
	left, err := b.input(c, "left", raw.Left, ancestors)
	if err != nil {
		return nil, err
	}
	right, err := b.input(c, "right", raw.Right, ancestors)
	if err != nil {
		return nil, err
	}
	return &CrossNode{relCommon: c, Left: left, Right: right, collision: b.opts.Collision}, nil
}

func (n *CrossNode) OutputSchema() (schema.NamedStruct, error) {
	l, r, err := deriveBoth(n.Left, n.Right)
	if err != nil {
		return schema.NamedStruct{}, err
	}
	local, err := schema.Concat(l, r, n.collision)
	if err != nil {
		return schema.NamedStruct{}, n.wrap(err)
	}
	return n.finish(local)
}

func (n *CrossNode) Children() []Node {
	return []Node{n.Left, n.Right}
}

func (n *CrossNode) String() string {
	return n.describe("cross")
}

func (n *CrossNode) ToProto() *proto.Rel {
	return &proto.Rel{Cross: &proto.CrossRel{
		Common: n.commonToProto(),
		Left:   n.Left.ToProto(),
		Right:  n.Right.ToProto(),
	}}
}
