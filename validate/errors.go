package validate

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"mit.edu/dsg/planval/common"
)

// VersionError reports an invalid version record.
type VersionError struct {
	Code common.ErrorCode
	// GitHash is the original string when Code is GitHashMalformed.
	GitHash string
}

func (e *VersionError) Error() string {
	switch e.Code {
	case common.VersionMissing:
		return "version is missing"
	case common.GitHashMalformed:
		return fmt.Sprintf("git hash %q is not 40 lowercase hex digits", e.GitHash)
	}
	return e.Code.String()
}

func (e *VersionError) ErrorCode() common.ErrorCode { return e.Code }

// InvalidURIError reports an extension URI that does not parse as an
// absolute URI.
type InvalidURIError struct {
	URI   string
	Cause error
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("invalid extension uri %q: %v", e.URI, e.Cause)
}

func (e *InvalidURIError) Unwrap() error { return e.Cause }

func (e *InvalidURIError) ErrorCode() common.ErrorCode { return common.InvalidURI }

// UnsupportedExtensionError reports an extension URI the Context's policy
// refuses.
type UnsupportedExtensionError struct {
	URI    string
	Reason string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension %s: %s", e.URI, e.Reason)
}

func (e *UnsupportedExtensionError) ErrorCode() common.ErrorCode { return common.UnsupportedExtension }

// RootRelationError reports a root relation whose names do not cover its
// schema exactly.
type RootRelationError struct {
	Expected int
	Found    int
}

func (e *RootRelationError) Error() string {
	return fmt.Sprintf("root relation declares %d names, its schema has %d", e.Found, e.Expected)
}

func (e *RootRelationError) ErrorCode() common.ErrorCode { return common.RootNameArity }

// PlanRelationError wraps the failure of a plan relation's inner relation.
type PlanRelationError struct {
	Root bool
	Err  error
}

func (e *PlanRelationError) Error() string {
	if e.Root {
		return fmt.Sprintf("root relation: %v", e.Err)
	}
	return fmt.Sprintf("relation: %v", e.Err)
}

func (e *PlanRelationError) Unwrap() error { return e.Err }

func (e *PlanRelationError) ErrorCode() common.ErrorCode { return common.CodeOf(e.Err) }

// PlanErrorKind names the part of a plan that failed.
type PlanErrorKind int8

const (
	PlanVersion PlanErrorKind = iota
	PlanIncompatibleVersion
	PlanExtensionURI
	PlanExtensionDeclaration
	PlanRelationEntry
	PlanMissingRelations
)

func (k PlanErrorKind) String() string {
	switch k {
	case PlanVersion:
		return "version"
	case PlanIncompatibleVersion:
		return "substrait version"
	case PlanExtensionURI:
		return "extension uri"
	case PlanExtensionDeclaration:
		return "extension declaration"
	case PlanRelationEntry:
		return "plan relation"
	case PlanMissingRelations:
		return "relations"
	}
	return "unknown"
}

// PlanError is the error ValidatePlan returns. It names the failing part of
// the plan and, for list fields, the position of the failing element.
type PlanError struct {
	Kind PlanErrorKind
	// Index is the failing element of a list field, or -1.
	Index int
	// Found and Supported are set for PlanIncompatibleVersion.
	Found     *semver.Version
	Supported *semver.Constraints
	Err       error
}

func (e *PlanError) Error() string {
	switch e.Kind {
	case PlanIncompatibleVersion:
		return fmt.Sprintf("substrait version %s is outside the supported range %s", e.Found, e.Supported)
	case PlanMissingRelations:
		return "plan has no relations"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }

func (e *PlanError) ErrorCode() common.ErrorCode {
	switch e.Kind {
	case PlanIncompatibleVersion:
		return common.VersionIncompatible
	case PlanMissingRelations:
		return common.MissingRelations
	}
	return common.CodeOf(e.Err)
}
