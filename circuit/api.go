package circuit

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// strategy is the operation set every evaluation mode implements. There are
// exactly two implementations: native and constrained. Both must be
// observably indistinguishable to any caller holding the true witness.
type strategy interface {
	constant(v fr.Element) Wire
	publicInput(v fr.Element) Wire
	privateInput(v fr.Element) Wire
	publicOutput(a Wire) Wire
	witness(v fr.Element) Wire

	add(a, b Wire) Wire
	sub(a, b Wire) Wire
	neg(a Wire) Wire
	mul(a, b Wire) Wire
	mulConstant(a Wire, k fr.Element) Wire
	inverse(a Wire) Wire
	div(a, b Wire) Wire
	isZero(a Wire) Wire
	selector(cond, ifTrue, ifFalse Wire) Wire

	and(a, b Wire) Wire
	or(a, b Wire) Wire
	xor(a, b Wire) Wire
	not(a Wire) Wire

	toBits(a Wire, n int) []Wire
	fromBits(bits []Wire) Wire

	assertIsEqual(a, b Wire)
	assertIsBoolean(a Wire)
}

// Constant returns a wire fixed to v at compile time. Constants never touch
// the witness.
func (e *Environment) Constant(v fr.Element) Wire { return e.eval.constant(v) }

// ConstantUint64 is a convenience wrapper around Constant.
func (e *Environment) ConstantUint64(v uint64) Wire {
	var x fr.Element
	x.SetUint64(v)
	return e.eval.constant(x)
}

// PublicInput allocates a public input wire carrying v.
func (e *Environment) PublicInput(v fr.Element) Wire { return e.eval.publicInput(v) }

// PrivateInput allocates a private (witness-only) input wire carrying v.
func (e *Environment) PrivateInput(v fr.Element) Wire { return e.eval.privateInput(v) }

// PublicOutput allocates a public wire constrained equal to a. Declared
// outputs go through this so verifiers see them.
func (e *Environment) PublicOutput(a Wire) Wire {
	e.check(a)
	return e.eval.publicOutput(a)
}

// Witness allocates a fresh private wire carrying v. Gadgets use it for
// values computed out-of-circuit (quotients, remainders) that later
// constraints tie down.
func (e *Environment) Witness(v fr.Element) Wire { return e.eval.witness(v) }

// Add returns a+b. Purely linear: no multiplicative constraint.
func (e *Environment) Add(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.add(a, b)
}

// Sub returns a-b. Purely linear.
func (e *Environment) Sub(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.sub(a, b)
}

// Neg returns -a. Purely linear.
func (e *Environment) Neg(a Wire) Wire {
	e.check(a)
	return e.eval.neg(a)
}

// Mul returns a·b. One multiplicative constraint, unless either side is a
// compile-time constant.
func (e *Environment) Mul(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.mul(a, b)
}

// MulConstant returns k·a. Purely linear.
func (e *Environment) MulConstant(a Wire, k fr.Element) Wire {
	e.check(a)
	return e.eval.mulConstant(a, k)
}

// Inverse returns a⁻¹ and makes the build fail when a is zero.
func (e *Environment) Inverse(a Wire) Wire {
	e.check(a)
	return e.eval.inverse(a)
}

// Div returns a/b and makes the build fail when b is zero.
func (e *Environment) Div(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.div(a, b)
}

// IsZero returns 1 when a is zero, 0 otherwise.
func (e *Environment) IsZero(a Wire) Wire {
	e.check(a)
	return e.eval.isZero(a)
}

// Select returns ifTrue when cond is 1, ifFalse when cond is 0. Both arms are
// always synthesized; the result is picked arithmetically so constraint-system
// shape never depends on cond's runtime value. cond must be boolean.
func (e *Environment) Select(cond, ifTrue, ifFalse Wire) Wire {
	e.check(cond, ifTrue, ifFalse)
	return e.eval.selector(cond, ifTrue, ifFalse)
}

// And returns a∧b for boolean wires.
func (e *Environment) And(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.and(a, b)
}

// Or returns a∨b for boolean wires.
func (e *Environment) Or(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.or(a, b)
}

// Xor returns a⊕b for boolean wires.
func (e *Environment) Xor(a, b Wire) Wire {
	e.check(a, b)
	return e.eval.xor(a, b)
}

// Not returns ¬a for a boolean wire. Purely linear.
func (e *Environment) Not(a Wire) Wire {
	e.check(a)
	return e.eval.not(a)
}

// ToBits decomposes a into n little-endian boolean wires. The build fails if
// a does not fit in n bits.
func (e *Environment) ToBits(a Wire, n int) []Wire {
	e.check(a)
	return e.eval.toBits(a, n)
}

// FromBits packs little-endian boolean wires into a field wire. Purely
// linear.
func (e *Environment) FromBits(bits []Wire) Wire {
	e.check(bits...)
	return e.eval.fromBits(bits)
}

// AssertIsEqual makes the build fail unless a == b.
func (e *Environment) AssertIsEqual(a, b Wire) {
	e.check(a, b)
	e.eval.assertIsEqual(a, b)
}

// AssertIsBoolean makes the build fail unless a ∈ {0,1}.
func (e *Environment) AssertIsBoolean(a Wire) {
	e.check(a)
	e.eval.assertIsBoolean(a)
}
