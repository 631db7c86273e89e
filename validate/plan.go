package validate

import (
	"mit.edu/dsg/planval/proto"
)

// Plan is a fully validated plan.
type Plan struct {
	version       *Version
	extensionURIs []*ExtensionURI
	extensions    []*ExtensionDeclaration
	relations     []*PlanRelation
	expectedTypes []string
}

// ValidatePlan validates a whole plan in order: version, supported version
// range, extension URIs, extension declarations, then relations. The first
// failure is returned as a *PlanError. Registrations made before the failure
// stay in ctx.
func ValidatePlan(ctx Context, raw *proto.Plan) (*Plan, error) {
	if raw == nil {
		raw = &proto.Plan{}
	}
	version, err := ValidateVersion(ctx, raw.Version)
	if err != nil {
		return nil, &PlanError{Kind: PlanVersion, Index: -1, Err: err}
	}
	if supported := supportedVersions(ctx); !supported.Check(version.Semver()) {
		return nil, &PlanError{Kind: PlanIncompatibleVersion, Index: -1, Found: version.Semver(), Supported: supported}
	}
	uris, i, err := validateAll(ctx, raw.ExtensionURIs, ValidateExtensionURI)
	if err != nil {
		return nil, &PlanError{Kind: PlanExtensionURI, Index: i, Err: err}
	}
	decls, i, err := validateAll(ctx, raw.Extensions, ValidateExtensionDeclaration)
	if err != nil {
		return nil, &PlanError{Kind: PlanExtensionDeclaration, Index: i, Err: err}
	}
	rels, i, err := validateAll(ctx, raw.Relations, ValidatePlanRelation)
	if err != nil {
		return nil, &PlanError{Kind: PlanRelationEntry, Index: i, Err: err}
	}
	if len(rels) == 0 {
		return nil, &PlanError{Kind: PlanMissingRelations, Index: -1}
	}
	return &Plan{
		version:       version,
		extensionURIs: uris,
		extensions:    decls,
		relations:     rels,
		expectedTypes: append([]string(nil), raw.ExpectedTypeURLs...),
	}, nil
}

func (p *Plan) Version() *Version { return p.version }

func (p *Plan) ExtensionURIs() []*ExtensionURI { return p.extensionURIs }

func (p *Plan) Extensions() []*ExtensionDeclaration { return p.extensions }

func (p *Plan) Relations() []*PlanRelation { return p.relations }

// Roots returns the root entries in plan order.
func (p *Plan) Roots() []*RootRelation {
	var roots []*RootRelation
	for _, r := range p.relations {
		if r.IsRoot() {
			roots = append(roots, r.Root())
		}
	}
	return roots
}

func (p *Plan) ToProto() *proto.Plan {
	raw := &proto.Plan{
		Version:          p.version.ToProto(),
		ExpectedTypeURLs: append([]string(nil), p.expectedTypes...),
	}
	for _, u := range p.extensionURIs {
		raw.ExtensionURIs = append(raw.ExtensionURIs, u.ToProto())
	}
	for _, d := range p.extensions {
		raw.Extensions = append(raw.Extensions, d.ToProto())
	}
	for _, r := range p.relations {
		raw.Relations = append(raw.Relations, r.ToProto())
	}
	if len(raw.ExpectedTypeURLs) == 0 {
		raw.ExpectedTypeURLs = nil
	}
	return raw
}
