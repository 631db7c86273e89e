package validate

import (
	"fmt"

	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

// ExtensionDeclaration binds an anchor to a named function, type or type
// variation defined in a previously registered extension URI.
type ExtensionDeclaration struct {
	// Kind is FunctionAnchor, TypeAnchor or TypeVariationAnchor.
	Kind      common.AnchorKind
	URIAnchor common.Anchor
	Anchor    common.Anchor
	Name      string
}

// ValidateExtensionDeclaration checks that exactly one declaration kind is
// set and, when ctx tracks declarations, registers it.
func ValidateExtensionDeclaration(ctx Context, raw *proto.SimpleExtensionDeclaration) (*ExtensionDeclaration, error) {
	if raw == nil {
		return nil, common.Errorf(common.ExtensionDeclarationEmpty, "extension declaration is not set")
	}
	var decls []*ExtensionDeclaration
	if f := raw.ExtensionFunction; f != nil {
		decls = append(decls, &ExtensionDeclaration{
			Kind: common.FunctionAnchor, URIAnchor: common.Anchor(f.ExtensionURIReference),
			Anchor: common.Anchor(f.FunctionAnchor), Name: f.Name,
		})
	}
	if t := raw.ExtensionType; t != nil {
		decls = append(decls, &ExtensionDeclaration{
			Kind: common.TypeAnchor, URIAnchor: common.Anchor(t.ExtensionURIReference),
			Anchor: common.Anchor(t.TypeAnchor), Name: t.Name,
		})
	}
	if v := raw.ExtensionTypeVariation; v != nil {
		decls = append(decls, &ExtensionDeclaration{
			Kind: common.TypeVariationAnchor, URIAnchor: common.Anchor(v.ExtensionURIReference),
			Anchor: common.Anchor(v.TypeVariationAnchor), Name: v.Name,
		})
	}
	switch len(decls) {
	case 0:
		return nil, common.Errorf(common.ExtensionDeclarationEmpty, "extension declaration has no function, type or type variation")
	case 1:
	default:
		return nil, common.Errorf(common.ExtensionDeclarationEmpty, "extension declaration sets %d kinds, expected one", len(decls))
	}
	d := decls[0]
	if r, ok := ctx.(DeclarationRegistrar); ok {
		if err := r.RegisterExtensionDeclaration(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *ExtensionDeclaration) String() string {
	return fmt.Sprintf("%s@%s", d.Name, d.URIAnchor)
}

func (d *ExtensionDeclaration) ToProto() *proto.SimpleExtensionDeclaration {
	uri, anchor := uint32(d.URIAnchor), uint32(d.Anchor)
	switch d.Kind {
	case common.TypeAnchor:
		return &proto.SimpleExtensionDeclaration{ExtensionType: &proto.ExtensionType{
			ExtensionURIReference: uri, TypeAnchor: anchor, Name: d.Name,
		}}
	case common.TypeVariationAnchor:
		return &proto.SimpleExtensionDeclaration{ExtensionTypeVariation: &proto.ExtensionTypeVariation{
			ExtensionURIReference: uri, TypeVariationAnchor: anchor, Name: d.Name,
		}}
	}
	return &proto.SimpleExtensionDeclaration{ExtensionFunction: &proto.ExtensionFunction{
		ExtensionURIReference: uri, FunctionAnchor: anchor, Name: d.Name,
	}}
}
