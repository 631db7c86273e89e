package common

import "fmt"

// Assert checks a condition and panics if it is false.
//
// Use it for conditions the code itself guarantees (exhaustive switches over
// closed unions, invariants established by a constructor). Anything that
// depends on the input plan must be reported as an error instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
