package planner

import (
	"slices"

	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// Options tune how relation trees are built and how their schemas are
// derived.
type Options struct {
	// Collision decides how Join and Cross resolve field names present on
	// both sides.
	Collision schema.CollisionPolicy
	// FunctionLookup reports whether a function anchor has been declared.
	// When nil, function references are not checked.
	FunctionLookup func(anchor uint32) bool
}

// Builder converts raw relations into Node trees, checking each operator's
// structure on the way. It does not derive schemas; call OutputSchema on the
// result for that.
type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build converts rel and everything below it.
func (b *Builder) Build(rel *proto.Rel) (Node, error) {
	return b.build(rel, "", nil)
}

func (b *Builder) build(rel *proto.Rel, path string, ancestors []*proto.Rel) (Node, error) {
	if rel == nil {
		return nil, &RelationError{Path: orRoot(path), Err: common.Errorf(common.MissingInput, "input relation is absent")}
	}
	if slices.Contains(ancestors, rel) {
		return nil, &RelationError{Path: orRoot(path), Err: common.Errorf(common.CyclicRelation, "relation is its own ancestor")}
	}
	op, count := opName(rel)
	if count != 1 {
		return nil, &RelationError{Path: orRoot(path), Err: common.Errorf(common.InvalidRelation, "relation must set exactly one operator, found %d", count)}
	}
	if path == "" {
		path = op
	}
	ancestors = append(ancestors, rel)

	var raw *proto.RelCommon
	switch {
	case rel.Read != nil:
		raw = rel.Read.Common
	case rel.Filter != nil:
		raw = rel.Filter.Common
	case rel.Fetch != nil:
		raw = rel.Fetch.Common
	case rel.Aggregate != nil:
		raw = rel.Aggregate.Common
	case rel.Sort != nil:
		raw = rel.Sort.Common
	case rel.Join != nil:
		raw = rel.Join.Common
	case rel.Project != nil:
		raw = rel.Project.Common
	case rel.Set != nil:
		raw = rel.Set.Common
	case rel.Cross != nil:
		raw = rel.Cross.Common
	}
	c, err := commonFromProto(raw, path)
	if err != nil {
		return nil, err
	}

	switch {
	case rel.Read != nil:
		return b.buildRead(c, rel.Read)
	case rel.Filter != nil:
		return b.buildFilter(c, rel.Filter, ancestors)
	case rel.Fetch != nil:
		return b.buildFetch(c, rel.Fetch, ancestors)
	case rel.Aggregate != nil:
		return b.buildAggregate(c, rel.Aggregate, ancestors)
	case rel.Sort != nil:
		return b.buildSort(c, rel.Sort, ancestors)
	case rel.Join != nil:
		return b.buildJoin(c, rel.Join, ancestors)
	case rel.Project != nil:
		return b.buildProject(c, rel.Project, ancestors)
	case rel.Set != nil:
		return b.buildSet(c, rel.Set, ancestors)
	default:
		return b.buildCross(c, rel.Cross, ancestors)
	}
}

// input builds a child relation. role names the child within its parent
// when the parent has more than one.
func (b *Builder) input(c relCommon, role string, rel *proto.Rel, ancestors []*proto.Rel) (Node, error) {
	op, _ := opName(rel)
	if op == "" {
		op = "?"
	}
	if role != "" {
		op = role + ":" + op
	}
	return b.build(rel, c.path+"/"+op, ancestors)
}

func commonFromProto(raw *proto.RelCommon, path string) (relCommon, error) {
	c := relCommon{emit: schema.Direct, path: path}
	if raw == nil || raw.Emit == nil {
		return c, nil
	}
	if raw.Direct != nil {
		return relCommon{}, c.wrap(common.Errorf(common.InvalidRelation, "common sets both direct and emit"))
	}
	for pos, idx := range raw.Emit.OutputMapping {
		if idx < 0 {
			return relCommon{}, c.wrap(common.Errorf(common.EmitOutOfRange, "emit entry %d is negative (%d)", pos, idx))
		}
	}
	c.emit = schema.EmitOf(raw.Emit.OutputMapping...)
	return c, nil
}

func opName(rel *proto.Rel) (string, int) {
	if rel == nil {
		return "", 0
	}
	var name string
	count := 0
	set := func(ok bool, n string) {
		if ok {
			name = n
			count++
		}
	}
	set(rel.Read != nil, "read")
	set(rel.Filter != nil, "filter")
	set(rel.Fetch != nil, "fetch")
	set(rel.Aggregate != nil, "aggregate")
	set(rel.Sort != nil, "sort")
	set(rel.Join != nil, "join")
	set(rel.Project != nil, "project")
	set(rel.Set != nil, "set")
	set(rel.Cross != nil, "cross")
	return name, count
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func invalid(c relCommon, format string, args ...any) error {
	return c.wrap(common.Errorf(common.InvalidRelation, format, args...))
}

func (b *Builder) sorts(raw []*proto.SortField, requireOne bool) ([]SortField, error) {
	if requireOne && len(raw) == 0 {
		return nil, common.Errorf(common.InvalidRelation, "at least one sort field is required")
	}
	if raw == nil {
		return nil, nil
	}
	out := make([]SortField, len(raw))
	for i, s := range raw {
		if s == nil || s.Expr == nil {
			return nil, common.Errorf(common.InvalidRelation, "sort field %d has no expression", i)
		}
		if s.Direction <= proto.SortDirectionUnspecified || s.Direction > proto.SortDirectionClustered {
			return nil, common.Errorf(common.InvalidRelation, "sort field %d has direction %s", i, s.Direction)
		}
		e, err := b.expr(s.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "sort field %d", i)
		}
		out[i] = SortField{Expr: e, Direction: s.Direction}
	}
	return out, nil
}
