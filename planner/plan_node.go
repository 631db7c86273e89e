package planner

import (
	"fmt"
	"strings"

	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// Node represents one operator of a relation tree.
// It is immutable. The set of implementations is closed: ReadNode,
// FilterNode, FetchNode, SortNode, ProjectNode, JoinNode, CrossNode,
// AggregateNode and SetNode.
type Node interface {
	// OutputSchema derives the schema of the rows produced by this node. It
	// is recomputed from the inputs on every call.
	OutputSchema() (schema.NamedStruct, error)

	// Children returns the input nodes.
	Children() []Node

	// Emit returns the node's output field selection.
	Emit() schema.Emit

	// Path locates the node within the tree it was built in.
	Path() string

	// String returns a one-line description of the node.
	String() string

	// ToProto converts the node and its inputs back to raw form.
	ToProto() *proto.Rel

	isNode()
}

// relCommon holds what every operator carries regardless of its kind.
type relCommon struct {
	emit schema.Emit
	path string
}

func (c relCommon) Emit() schema.Emit { return c.emit }

func (c relCommon) Path() string { return c.path }

func (relCommon) isNode() {}

// finish applies the emit to a node's local schema.
func (c relCommon) finish(local schema.NamedStruct) (schema.NamedStruct, error) {
	out, err := schema.ApplyEmit(local, c.emit)
	if err != nil {
		return schema.NamedStruct{}, c.wrap(err)
	}
	return out, nil
}

func (c relCommon) wrap(err error) error {
	return &RelationError{Path: c.path, Err: err}
}

func (c relCommon) commonToProto() *proto.RelCommon {
	if c.emit.IsDirect() {
		return &proto.RelCommon{Direct: &proto.RelCommonDirect{}}
	}
	return &proto.RelCommon{Emit: &proto.RelCommonEmit{OutputMapping: c.emit.Mapping}}
}

func (c relCommon) describe(op string, args ...string) string {
	var sb strings.Builder
	sb.WriteString(op)
	if len(args) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(args, " "))
	}
	if !c.emit.IsDirect() {
		sb.WriteString(" ")
		sb.WriteString(c.emit.String())
	}
	return sb.String()
}

// SortField orders rows by Expr.
type SortField struct {
	Expr      Expr
	Direction proto.SortDirection
}

func (s SortField) String() string {
	return fmt.Sprintf("%s %s", s.Expr, strings.ToLower(s.Direction.String()))
}

func sortsToProto(sorts []SortField) []*proto.SortField {
	if sorts == nil {
		return nil
	}
	out := make([]*proto.SortField, len(sorts))
	for i, s := range sorts {
		out[i] = &proto.SortField{Expr: s.Expr.ToProto(), Direction: s.Direction}
	}
	return out
}

// RelationError locates a failure within a relation tree.
type RelationError struct {
	Path string
	Err  error
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("relation %s: %v", e.Path, e.Err)
}

func (e *RelationError) Unwrap() error { return e.Err }

func (e *RelationError) ErrorCode() common.ErrorCode { return common.CodeOf(e.Err) }

// Walk visits n and its inputs depth-first, parents before children. It
// stops descending below a node when fn returns false.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}

// Explain renders the tree one node per line, each followed by its derived
// schema.
func Explain(n Node) (string, error) {
	var sb strings.Builder
	var err error
	Walk(n, func(n Node, depth int) bool {
		if err != nil {
			return false
		}
		var s schema.NamedStruct
		if s, err = n.OutputSchema(); err != nil {
			return false
		}
		fmt.Fprintf(&sb, "%s%s\n%s  %s\n", strings.Repeat("  ", depth), n, strings.Repeat("  ", depth), s)
		return true
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
