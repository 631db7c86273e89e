package common

import "fmt"

// Anchor is a plan-local integer alias for an extension resource.
type Anchor uint32

// AnchorKind separates the namespaces anchors live in. The same integer may be
// used once per kind.
type AnchorKind int8

const (
	ExtensionURIAnchor AnchorKind = iota
	FunctionAnchor
	TypeAnchor
	TypeVariationAnchor
)

func (k AnchorKind) String() string {
	switch k {
	case ExtensionURIAnchor:
		return "extension uri"
	case FunctionAnchor:
		return "function"
	case TypeAnchor:
		return "type"
	case TypeVariationAnchor:
		return "type variation"
	}
	return "unknown"
}

func (a Anchor) String() string {
	return fmt.Sprintf("#%d", uint32(a))
}
