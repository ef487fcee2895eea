// Package gadgets implements the typed operation library: Boolean, Field,
// Integer, Group, Scalar, Address and String values whose operations run
// identically in native and constrained mode. Gadgets are written once
// against the circuit wire API; mode duality comes from the environment's
// evaluation strategy.
package gadgets

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// Kind discriminates the closed set of value types.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindField
	KindU8
	KindU16
	KindU32
	KindU64
	KindGroup
	KindScalar
	KindAddress
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindField:
		return "field"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindGroup:
		return "group"
	case KindScalar:
		return "scalar"
	case KindAddress:
		return "address"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// KindFromString parses a type name as it appears in program text.
func KindFromString(s string) (Kind, error) {
	for k := KindBoolean; k <= KindString; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown type %q", s)
}

// Value is the closed sum over all gadget types. Operations switch
// exhaustively on Kind; there is no open-ended polymorphism.
type Value interface {
	Kind() Kind

	// Wires returns the circuit representation in canonical order.
	Wires() []circuit.Wire

	// String renders the native value, suffixed with its type.
	String() string

	isValue()
}

// PublicEncoding returns the canonical wires a verifier sees for v: packed
// limbs for integers and scalars, both coordinates for points, one wire for
// booleans and fields.
func PublicEncoding(v Value) (*circuit.Environment, []circuit.Wire) {
	switch x := v.(type) {
	case Boolean:
		return x.e, []circuit.Wire{x.w}
	case Field:
		return x.e, []circuit.Wire{x.w}
	case Integer[uint8]:
		return x.e, []circuit.Wire{x.packed()}
	case Integer[uint16]:
		return x.e, []circuit.Wire{x.packed()}
	case Integer[uint32]:
		return x.e, []circuit.Wire{x.packed()}
	case Integer[uint64]:
		return x.e, []circuit.Wire{x.packed()}
	case Group:
		return x.e, []circuit.Wire{x.x, x.y}
	case Scalar:
		return x.e, []circuit.Wire{x.packed()}
	case Address:
		return PublicEncoding(x.g)
	case String:
		return x.e, x.limbs
	default:
		panic(fmt.Errorf("%w: unhandled kind", constraint.ErrModeMismatch))
	}
}

// EncodingValues returns the native values of v's canonical encoding, in the
// order a verifier consumes them.
func EncodingValues(v Value) []fr.Element {
	_, ws := PublicEncoding(v)
	res := make([]fr.Element, len(ws))
	for i, w := range ws {
		res[i] = w.Value()
	}
	return res
}

// MakePublic re-emits v's canonical encoding through public output wires,
// each constrained equal to the computed result. Declared outputs go through
// this so verifiers see them.
func MakePublic(v Value) Value {
	e, ws := PublicEncoding(v)
	for _, w := range ws {
		e.PublicOutput(w)
	}
	return v
}

// Select picks ifTrue when cond holds, ifFalse otherwise. Both arms must
// share one kind; both are always synthesized, the pick is arithmetic.
func Select(cond Boolean, ifTrue, ifFalse Value) (Value, error) {
	if ifTrue.Kind() != ifFalse.Kind() {
		return nil, fmt.Errorf("select arms disagree: %s vs %s", ifTrue.Kind(), ifFalse.Kind())
	}
	switch t := ifTrue.(type) {
	case Boolean:
		return t.Select(cond, ifFalse.(Boolean)), nil
	case Field:
		return t.Select(cond, ifFalse.(Field)), nil
	case Integer[uint8]:
		return t.Select(cond, ifFalse.(Integer[uint8])), nil
	case Integer[uint16]:
		return t.Select(cond, ifFalse.(Integer[uint16])), nil
	case Integer[uint32]:
		return t.Select(cond, ifFalse.(Integer[uint32])), nil
	case Integer[uint64]:
		return t.Select(cond, ifFalse.(Integer[uint64])), nil
	case Group:
		return t.Select(cond, ifFalse.(Group)), nil
	case Scalar:
		return t.Select(cond, ifFalse.(Scalar)), nil
	case Address:
		return t.Select(cond, ifFalse.(Address)), nil
	case String:
		return t.Select(cond, ifFalse.(String))
	default:
		return nil, fmt.Errorf("select: unhandled kind %s", ifTrue.Kind())
	}
}

// Equal compares two values of the same kind.
func Equal(a, b Value) (Boolean, error) {
	if a.Kind() != b.Kind() {
		return Boolean{}, fmt.Errorf("equality across kinds: %s vs %s", a.Kind(), b.Kind())
	}
	switch x := a.(type) {
	case Boolean:
		return x.Equal(b.(Boolean)), nil
	case Field:
		return x.Equal(b.(Field)), nil
	case Integer[uint8]:
		return x.Equal(b.(Integer[uint8])), nil
	case Integer[uint16]:
		return x.Equal(b.(Integer[uint16])), nil
	case Integer[uint32]:
		return x.Equal(b.(Integer[uint32])), nil
	case Integer[uint64]:
		return x.Equal(b.(Integer[uint64])), nil
	case Group:
		return x.Equal(b.(Group)), nil
	case Scalar:
		return x.Equal(b.(Scalar)), nil
	case Address:
		return x.Equal(b.(Address)), nil
	case String:
		return x.Equal(b.(String))
	default:
		return Boolean{}, fmt.Errorf("equality: unhandled kind %s", a.Kind())
	}
}
