// Package proto holds the raw, unvalidated plan records. They mirror the
// Substrait protobuf message set field for field: every field is optional or
// defaultable, oneofs are modeled as sibling pointers of which at most one
// should be set, and nothing here enforces any invariant.
//
// The records carry yaml tags so test fixtures and tools can describe plans as
// text. Decoding the binary wire format is left to callers.
package proto

// Plan is the top-level message of a Substrait plan.
type Plan struct {
	Version          *Version                      `yaml:"version,omitempty"`
	ExtensionURIs    []*SimpleExtensionURI         `yaml:"extension_uris,omitempty"`
	Extensions       []*SimpleExtensionDeclaration `yaml:"extensions,omitempty"`
	Relations        []*PlanRel                    `yaml:"relations,omitempty"`
	ExpectedTypeURLs []string                      `yaml:"expected_type_urls,omitempty"`
}

// Version identifies the Substrait version a plan was produced against.
type Version struct {
	MajorNumber uint32 `yaml:"major_number,omitempty"`
	MinorNumber uint32 `yaml:"minor_number,omitempty"`
	PatchNumber uint32 `yaml:"patch_number,omitempty"`
	GitHash     string `yaml:"git_hash,omitempty"`
	Producer    string `yaml:"producer,omitempty"`
}

// SimpleExtensionURI declares an extension document and the anchor the rest
// of the plan uses to refer to it.
type SimpleExtensionURI struct {
	ExtensionURIAnchor uint32 `yaml:"extension_uri_anchor"`
	URI                string `yaml:"uri"`
}

// SimpleExtensionDeclaration binds an anchor to a named function, type or
// type variation from a declared extension URI. Exactly one field is set.
type SimpleExtensionDeclaration struct {
	ExtensionType          *ExtensionType          `yaml:"extension_type,omitempty"`
	ExtensionTypeVariation *ExtensionTypeVariation `yaml:"extension_type_variation,omitempty"`
	ExtensionFunction      *ExtensionFunction      `yaml:"extension_function,omitempty"`
}

type ExtensionType struct {
	ExtensionURIReference uint32 `yaml:"extension_uri_reference"`
	TypeAnchor            uint32 `yaml:"type_anchor"`
	Name                  string `yaml:"name"`
}

type ExtensionTypeVariation struct {
	ExtensionURIReference uint32 `yaml:"extension_uri_reference"`
	TypeVariationAnchor   uint32 `yaml:"type_variation_anchor"`
	Name                  string `yaml:"name"`
}

type ExtensionFunction struct {
	ExtensionURIReference uint32 `yaml:"extension_uri_reference"`
	FunctionAnchor        uint32 `yaml:"function_anchor"`
	Name                  string `yaml:"name"`
}

// PlanRel is one top-level entry of a plan: a bare relation or a root
// relation with output names.
type PlanRel struct {
	Rel  *Rel     `yaml:"rel,omitempty"`
	Root *RelRoot `yaml:"root,omitempty"`
}

// RelRoot binds externally visible names to the output of a relation, in
// depth-first order over the output schema.
type RelRoot struct {
	Input *Rel     `yaml:"input,omitempty"`
	Names []string `yaml:"names,omitempty"`
}
