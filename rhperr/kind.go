// Package rhperr defines the closed error-kind enumeration shared by every
// ReSHOP subsystem (container, empdag, analyzer, ovf, reform, orchestrator),
// plus the diagnostics aggregator the analyzer uses to report every problem
// found in a single pass instead of aborting on the first one.
//
// Kind values:
//
//	OK                    - success.
//	InvalidArgument       - caller passed garbage.
//	InvalidValue          - caller passed a value outside the accepted domain.
//	IndexOutOfRange       - an index/id fell outside the valid band.
//	NullPointer           - a required pointer/interface value was nil.
//	NotInitialized        - an operation ran before its prerequisite setup.
//	EMPIncorrectInput     - structurally wrong EMP graph (cycle, bad root, bad LCA, ...).
//	EMPIncorrectSyntax    - caught upstream of the core; surfaced for completeness.
//	EMPRuntimeError       - internal invariant violation; report as a bug.
//	DimensionDifferent    - mismatched parallel structures.
//	Inconsistency         - two views of the same data disagree.
//	UnExpectedData        - data shape the caller did not declare.
//	NotImplemented        - a reformulation path deliberately left unwired.
//	InsufficientMemory    - allocation failure.
//	MathError             - NaN/Inf where a finite value was required.
//	ModelUnbounded        - detected unboundedness.
//	Infeasible            - detected infeasibility.
package rhperr

import "fmt"

// Kind is the closed enumeration of error kinds from spec.md §7.
type Kind int

const (
	OK Kind = iota
	InvalidArgument
	InvalidValue
	IndexOutOfRange
	NullPointer
	NotInitialized
	EMPIncorrectInput
	EMPIncorrectSyntax
	EMPRuntimeError
	DimensionDifferent
	Inconsistency
	UnExpectedData
	NotImplemented
	InsufficientMemory
	MathError
	ModelUnbounded
	Infeasible
)

// kindNames mirrors the table in spec.md §7; used by Kind.String and by Error's
// default message formatting.
var kindNames = map[Kind]string{
	OK:                 "OK",
	InvalidArgument:    "InvalidArgument",
	InvalidValue:       "InvalidValue",
	IndexOutOfRange:    "IndexOutOfRange",
	NullPointer:        "NullPointer",
	NotInitialized:     "NotInitialized",
	EMPIncorrectInput:  "EMPIncorrectInput",
	EMPIncorrectSyntax: "EMPIncorrectSyntax",
	EMPRuntimeError:    "EMPRuntimeError",
	DimensionDifferent: "DimensionDifferent",
	Inconsistency:      "Inconsistency",
	UnExpectedData:     "UnExpectedData",
	NotImplemented:     "NotImplemented",
	InsufficientMemory: "InsufficientMemory",
	MathError:          "MathError",
	ModelUnbounded:     "ModelUnbounded",
	Infeasible:         "Infeasible",
}

// String renders the kind using its canonical spec.md §7 name, or a numeric
// fallback for an out-of-range value (which should never happen in practice).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error value every core operation returns on failure.
// It always carries a Kind, a human-readable message, and — when the failure
// is attributable to one MP, variable, or equation — the offending entity's
// display name, per spec.md §7's "User-visible failures" requirement.
type Error struct {
	Kind   Kind
	Msg    string
	Entity string // display name of the offending MP/var/equ, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Entity)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error with the same Kind, so callers can
// use errors.Is(err, rhperr.New(rhperr.EMPIncorrectInput, "")) style checks,
// mirroring the teacher's sentinel-error errors.Is usage throughout dfs/core.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == other.Kind
}

// New constructs an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithEntity returns a copy of e naming the offending MP/var/equ.
func (e *Error) WithEntity(name string) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Entity: name}
}
