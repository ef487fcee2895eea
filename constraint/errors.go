package constraint

import "errors"

var (
	// ErrAllocation signals ledger misuse: allocating after Finalize, allocating a
	// constant without a value, assigning a variable twice, or referencing a
	// variable the ledger never allocated.
	ErrAllocation = errors.New("allocation error")

	// ErrFinalized signals a mutation attempted on a finalized ledger.
	ErrFinalized = errors.New("constraint system is finalized")

	// ErrNotFinalized signals an operation that requires a frozen ledger
	// (shape identity, assignment construction) on a live one.
	ErrNotFinalized = errors.New("constraint system is not finalized")

	// ErrModeMismatch signals an operation invoked in the wrong evaluation mode,
	// or values from different modes combined in one gadget operation.
	ErrModeMismatch = errors.New("mode mismatch")

	// ErrUnsatisfied signals an assignment that fails at least one constraint.
	ErrUnsatisfied = errors.New("constraint system is not satisfied")

	// ErrCeilingExceeded signals a build that passed the configured constraint ceiling.
	ErrCeilingExceeded = errors.New("constraint ceiling exceeded")

	// ErrShapeMismatch signals keys whose recorded shape identifier does not match
	// the constraint system they are used with.
	ErrShapeMismatch = errors.New("setup parameters do not match constraint system shape")

	// ErrMissingAssignment signals a partial witness: a non-constant variable was
	// never assigned a value.
	ErrMissingAssignment = errors.New("missing variable assignment")
)
