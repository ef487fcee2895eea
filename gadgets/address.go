package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// Address is an account identifier: a newtype over a group element, as in
// the account model where an address is the public-key point.
type Address struct {
	g Group
}

// NewAddress allocates an address with the given visibility.
func NewAddress(e *circuit.Environment, p twistededwards.PointAffine, tag constraint.Tag) Address {
	return Address{g: NewGroup(e, p, tag)}
}

// AddressFromGroup derives the address owning a group element, e.g. a public
// key produced by GeneratorMul over a secret scalar.
func AddressFromGroup(g Group) Address {
	return Address{g: g}
}

func (a Address) Kind() Kind            { return KindAddress }
func (a Address) Wires() []circuit.Wire { return a.g.Wires() }
func (a Address) isValue()              {}

// Group returns the underlying point.
func (a Address) Group() Group { return a.g }

// Value returns the native point.
func (a Address) Value() twistededwards.PointAffine { return a.g.Value() }

func (a Address) String() string {
	p := a.g.Value()
	return p.X.String() + "address"
}

// ToFields encodes the address as its coordinate pair.
func (a Address) ToFields() (Field, Field) {
	return fieldFromWire(a.g.e, a.g.x), fieldFromWire(a.g.e, a.g.y)
}

// Equal compares the underlying points.
func (a Address) Equal(other Address) Boolean {
	return a.g.Equal(other.g)
}

// NotEqual is the negation of Equal.
func (a Address) NotEqual(other Address) Boolean {
	return a.g.NotEqual(other.g)
}

// Select picks a when cond holds, other otherwise.
func (a Address) Select(cond Boolean, other Address) Address {
	return Address{g: a.g.Select(cond, other.g)}
}
