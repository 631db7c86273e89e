package validate

import (
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// RootRelation is a relation whose output carries externally visible names.
type RootRelation struct {
	input  *Relation
	names  []string
	schema schema.NamedStruct
}

// ValidateRootRelation validates the input relation and renames its schema.
// The number of names must equal the schema's depth-first name count.
func ValidateRootRelation(ctx Context, raw *proto.RelRoot) (*RootRelation, error) {
	if raw == nil {
		raw = &proto.RelRoot{}
	}
	input, err := ValidateRelation(ctx, raw.Input)
	if err != nil {
		return nil, err
	}
	derived := input.Schema()
	if n := derived.NameCount(); n != len(raw.Names) {
		return nil, &RootRelationError{Expected: n, Found: len(raw.Names)}
	}
	renamed, err := derived.Rename(raw.Names)
	if err != nil {
		return nil, err
	}
	return &RootRelation{
		input:  input,
		names:  append([]string(nil), raw.Names...),
		schema: renamed,
	}, nil
}

func (r *RootRelation) Input() *Relation { return r.input }

// Names returns the output names in depth-first order.
func (r *RootRelation) Names() []string { return append([]string(nil), r.names...) }

// Schema returns the input's schema under the root names.
func (r *RootRelation) Schema() schema.NamedStruct { return r.schema }

func (r *RootRelation) ToProto() *proto.RelRoot {
	return &proto.RelRoot{Input: r.input.ToProto(), Names: r.Names()}
}
