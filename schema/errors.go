package schema

import (
	"fmt"

	"mit.edu/dsg/planval/common"
)

// EmitError is returned when an emit mapping names a field the input does
// not have.
type EmitError struct {
	// Position of the offending entry within the mapping.
	Position int
	Index    int32
	Len      int
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit entry %d selects field %d of a %d-field input", e.Position, e.Index, e.Len)
}

func (e *EmitError) ErrorCode() common.ErrorCode { return common.EmitOutOfRange }

// CollisionError is returned by Concat when both sides carry a field of the
// same name and the collision policy rejects it.
type CollisionError struct {
	Name  string
	Left  int
	Right int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("field name %q appears at left %d and right %d", e.Name, e.Left, e.Right)
}

func (e *CollisionError) ErrorCode() common.ErrorCode { return common.NameCollision }

// ArityError is returned when a list of names does not cover a schema
// exactly.
type ArityError struct {
	Expected int
	Found    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected %d names, found %d", e.Expected, e.Found)
}

func (e *ArityError) ErrorCode() common.ErrorCode { return common.SchemaInconsistent }

func inconsistent(format string, args ...any) error {
	return common.Errorf(common.SchemaInconsistent, format, args...)
}
