package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// Boolean is a field wire constrained to {0,1}.
type Boolean struct {
	e *circuit.Environment
	w circuit.Wire
}

func allocWire(e *circuit.Environment, v fr.Element, tag constraint.Tag) circuit.Wire {
	switch tag {
	case constraint.Constant:
		return e.Constant(v)
	case constraint.Public:
		return e.PublicInput(v)
	default:
		return e.PrivateInput(v)
	}
}

// NewBoolean allocates a boolean with the given visibility.
func NewBoolean(e *circuit.Environment, value bool, tag constraint.Tag) Boolean {
	var v fr.Element
	if value {
		v.SetOne()
	}
	w := allocWire(e, v, tag)
	e.AssertIsBoolean(w)
	return Boolean{e: e, w: w}
}

// booleanFromWire wraps a wire already known to be boolean.
func booleanFromWire(e *circuit.Environment, w circuit.Wire) Boolean {
	return Boolean{e: e, w: w}
}

func (b Boolean) Kind() Kind            { return KindBoolean }
func (b Boolean) Wires() []circuit.Wire { return []circuit.Wire{b.w} }
func (b Boolean) isValue()              {}

// Wire exposes the underlying field wire (0 or 1).
func (b Boolean) Wire() circuit.Wire { return b.w }

// Value returns the native boolean.
func (b Boolean) Value() bool {
	v := b.w.Value()
	return v.IsOne()
}

func (b Boolean) String() string {
	if b.Value() {
		return "true"
	}
	return "false"
}

// And needs one multiplicative constraint.
func (b Boolean) And(other Boolean) Boolean {
	return booleanFromWire(b.e, b.e.And(b.w, other.w))
}

// Or needs one multiplicative constraint.
func (b Boolean) Or(other Boolean) Boolean {
	return booleanFromWire(b.e, b.e.Or(b.w, other.w))
}

// Xor needs one multiplicative constraint.
func (b Boolean) Xor(other Boolean) Boolean {
	return booleanFromWire(b.e, b.e.Xor(b.w, other.w))
}

// Not is a linear rewrite; it costs nothing.
func (b Boolean) Not() Boolean {
	return booleanFromWire(b.e, b.e.Not(b.w))
}

// Nand is ¬(a∧b).
func (b Boolean) Nand(other Boolean) Boolean {
	return b.And(other).Not()
}

// Nor is ¬(a∨b).
func (b Boolean) Nor(other Boolean) Boolean {
	return b.Or(other).Not()
}

// Equal is the XNOR of the two booleans.
func (b Boolean) Equal(other Boolean) Boolean {
	return b.Xor(other).Not()
}

// NotEqual is the XOR of the two booleans.
func (b Boolean) NotEqual(other Boolean) Boolean {
	return b.Xor(other)
}

// Select returns b when cond holds, other otherwise.
func (b Boolean) Select(cond Boolean, other Boolean) Boolean {
	return booleanFromWire(b.e, b.e.Select(cond.w, b.w, other.w))
}
