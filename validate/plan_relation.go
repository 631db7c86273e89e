package validate

import (
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// PlanRelation is one top-level plan entry: exactly one of a bare relation or
// a root relation.
type PlanRelation struct {
	rel  *Relation
	root *RootRelation
}

// ValidatePlanRelation validates whichever side is set. Setting neither or
// both is an error.
func ValidatePlanRelation(ctx Context, raw *proto.PlanRel) (*PlanRelation, error) {
	if raw == nil || raw.Rel == nil && raw.Root == nil {
		return nil, common.Errorf(common.PlanRelationEmpty, "plan relation has neither rel nor root")
	}
	if raw.Rel != nil && raw.Root != nil {
		return nil, common.Errorf(common.PlanRelationEmpty, "plan relation sets both rel and root")
	}
	if raw.Root != nil {
		root, err := ValidateRootRelation(ctx, raw.Root)
		if err != nil {
			return nil, &PlanRelationError{Root: true, Err: err}
		}
		return &PlanRelation{root: root}, nil
	}
	rel, err := ValidateRelation(ctx, raw.Rel)
	if err != nil {
		return nil, &PlanRelationError{Err: err}
	}
	return &PlanRelation{rel: rel}, nil
}

// Relation returns the bare relation, or nil for a root entry.
func (p *PlanRelation) Relation() *Relation { return p.rel }

// Root returns the root relation, or nil for a bare entry.
func (p *PlanRelation) Root() *RootRelation { return p.root }

func (p *PlanRelation) IsRoot() bool { return p.root != nil }

// Schema returns the entry's output schema.
func (p *PlanRelation) Schema() schema.NamedStruct {
	if p.root != nil {
		return p.root.Schema()
	}
	return p.rel.Schema()
}

func (p *PlanRelation) ToProto() *proto.PlanRel {
	if p.root != nil {
		return &proto.PlanRel{Root: p.root.ToProto()}
	}
	return &proto.PlanRel{Rel: p.rel.ToProto()}
}
