package common

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type ErrorCode int

const (
	// UnknownError is returned by CodeOf for errors that carry no code.
	UnknownError ErrorCode = iota
	// VersionMissing indicates a plan without a version, or one whose major,
	// minor and patch numbers are all zero.
	VersionMissing
	// VersionIncompatible indicates a well-formed version outside the
	// supported range.
	VersionIncompatible
	// GitHashMalformed indicates a git hash that is not 40 lowercase hex
	// characters.
	GitHashMalformed
	// InvalidURI indicates an extension URI that does not parse as an
	// absolute URI.
	InvalidURI
	// DuplicateAnchor indicates an anchor that was already registered in the
	// current validation pass.
	DuplicateAnchor
	// UnsupportedExtension indicates an extension rejected by the context's
	// extension policy.
	UnsupportedExtension
	// UnknownExtensionURI indicates a declaration referencing an extension
	// URI anchor that was never registered.
	UnknownExtensionURI
	// ExtensionDeclarationEmpty indicates a declaration with no function,
	// type or type variation set.
	ExtensionDeclarationEmpty
	// PlanRelationEmpty indicates a plan relation that is neither a relation
	// nor a root relation.
	PlanRelationEmpty
	// MissingRelations indicates a plan without any relations.
	MissingRelations
	// RootNameArity indicates a root relation whose names do not match the
	// derived schema.
	RootNameArity
	// InvalidRelation indicates a structurally invalid operator.
	InvalidRelation
	// MissingInput indicates an operator without a required input relation.
	MissingInput
	// EmitOutOfRange indicates an emit mapping entry outside the operator's
	// field list.
	EmitOutOfRange
	// NameCollision indicates two concatenated schemas share a field name and
	// the collision policy rejects it.
	NameCollision
	// SchemaInconsistent indicates a named struct whose names and types do
	// not line up.
	SchemaInconsistent
	// UntypedExpression indicates an expression whose output type cannot be
	// determined.
	UntypedExpression
	// InvalidFieldReference indicates a field reference outside its input
	// schema.
	InvalidFieldReference
	// UnknownFunctionAnchor indicates a function reference without a
	// matching extension declaration.
	UnknownFunctionAnchor
	// CyclicRelation indicates an operator tree that refers back to one of
	// its own ancestors.
	CyclicRelation
)

func (ec ErrorCode) String() string {
	switch ec {
	case VersionMissing:
		return "VersionMissing"
	case VersionIncompatible:
		return "VersionIncompatible"
	case GitHashMalformed:
		return "GitHashMalformed"
	case InvalidURI:
		return "InvalidURI"
	case DuplicateAnchor:
		return "DuplicateAnchor"
	case UnsupportedExtension:
		return "UnsupportedExtension"
	case UnknownExtensionURI:
		return "UnknownExtensionURI"
	case ExtensionDeclarationEmpty:
		return "ExtensionDeclarationEmpty"
	case PlanRelationEmpty:
		return "PlanRelationEmpty"
	case MissingRelations:
		return "MissingRelations"
	case RootNameArity:
		return "RootNameArity"
	case InvalidRelation:
		return "InvalidRelation"
	case MissingInput:
		return "MissingInput"
	case EmitOutOfRange:
		return "EmitOutOfRange"
	case NameCollision:
		return "NameCollision"
	case SchemaInconsistent:
		return "SchemaInconsistent"
	case UntypedExpression:
		return "UntypedExpression"
	case InvalidFieldReference:
		return "InvalidFieldReference"
	case UnknownFunctionAnchor:
		return "UnknownFunctionAnchor"
	case CyclicRelation:
		return "CyclicRelation"
	}
	return "unknown"
}

// Coded is implemented by every error in this module that identifies one of
// the ErrorCode kinds. Wrapping errors report the code of what they wrap.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// Error is the leaf error type for violations that need no payload beyond a
// message. Richer errors live next to the validators that produce them.
type Error struct {
	Code      ErrorCode
	ErrString string
}

func (e Error) Error() string {
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

func (e Error) ErrorCode() ErrorCode {
	return e.Code
}

// Errorf builds an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) Error {
	return Error{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the outermost coded error in err's chain, or
// UnknownError when there is none.
func CodeOf(err error) ErrorCode {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return UnknownError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
