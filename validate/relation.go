package validate

import (
	"mit.edu/dsg/planval/planner"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// Relation is a validated relation tree together with its derived output
// schema.
type Relation struct {
	node   planner.Node
	schema schema.NamedStruct
}

// ValidateRelation builds the operator tree and derives its output schema.
// Building uses the options ctx provides, if any.
func ValidateRelation(ctx Context, raw *proto.Rel) (*Relation, error) {
	node, err := planner.NewBuilder(builderOptions(ctx)).Build(raw)
	if err != nil {
		return nil, err
	}
	out, err := node.OutputSchema()
	if err != nil {
		return nil, err
	}
	return &Relation{node: node, schema: out}, nil
}

// Node returns the root operator.
func (r *Relation) Node() planner.Node { return r.node }

// Schema returns the derived output schema.
func (r *Relation) Schema() schema.NamedStruct { return r.schema }

func (r *Relation) ToProto() *proto.Rel { return r.node.ToProto() }
