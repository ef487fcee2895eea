package gadgets

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// ScalarSize is the bit width of the embedded-curve scalar field. Every
// scalar is held as exactly this many bits so shapes never depend on values.
var ScalarSize = func() int {
	params := twistededwards.GetEdwardsCurve()
	return params.Order.BitLen()
}()

// scalarOrder is the order of the embedded-curve prime subgroup.
func scalarOrder() *big.Int {
	params := twistededwards.GetEdwardsCurve()
	return new(big.Int).Set(&params.Order)
}

// Scalar is an element of the embedded-curve scalar field, held as one field
// wire plus its fixed-width bit decomposition. It is what group elements are
// multiplied by.
type Scalar struct {
	e    *circuit.Environment
	bits []circuit.Wire
}

// NewScalar allocates a scalar with the given visibility. value is reduced
// modulo the embedded-curve order.
func NewScalar(e *circuit.Environment, value *big.Int, tag constraint.Tag) Scalar {
	v := new(big.Int).Mod(value, scalarOrder())
	var packed fr.Element
	packed.SetBigInt(v)
	w := allocWire(e, packed, tag)
	return Scalar{e: e, bits: e.ToBits(w, ScalarSize)}
}

func (s Scalar) Kind() Kind            { return KindScalar }
func (s Scalar) Wires() []circuit.Wire { return s.bits }
func (s Scalar) isValue()              {}

// Bits exposes the little-endian decomposition; scalar multiplication
// consumes it.
func (s Scalar) Bits() []circuit.Wire { return s.bits }

// Value recomposes the native scalar.
func (s Scalar) Value() *big.Int {
	v := new(big.Int)
	for k, b := range s.bits {
		bv := b.Value()
		if bv.IsOne() {
			v.SetBit(v, k, 1)
		}
	}
	return v
}

func (s Scalar) String() string {
	return s.Value().String() + "scalar"
}

// packed folds the bits back into one field wire; purely linear.
func (s Scalar) packed() circuit.Wire {
	return s.e.FromBits(s.bits)
}

// ToField casts the scalar into the base field; always fits.
func (s Scalar) ToField() Field {
	return fieldFromWire(s.e, s.packed())
}

// ScalarFromField casts a base-field element down to a scalar. The build
// fails if the value does not fit in ScalarSize bits.
func ScalarFromField(f Field) Scalar {
	return Scalar{e: f.e, bits: f.e.ToBits(f.w, ScalarSize)}
}

// Equal compares the packed values.
func (s Scalar) Equal(other Scalar) Boolean {
	diff := s.e.Sub(s.packed(), other.packed())
	return booleanFromWire(s.e, s.e.IsZero(diff))
}

// NotEqual is the negation of Equal.
func (s Scalar) NotEqual(other Scalar) Boolean {
	return s.Equal(other).Not()
}

// LessThan orders scalars by the borrow bit of the offset subtraction, the
// same scheme integers use.
func (s Scalar) LessThan(other Scalar) Boolean {
	var off fr.Element
	off.SetOne()
	for k := 0; k < ScalarSize; k++ {
		off.Double(&off)
	}
	shifted := s.e.Add(s.packed(), s.e.Constant(off))
	diff := s.e.Sub(shifted, other.packed())
	bs := s.e.ToBits(diff, ScalarSize+1)
	return booleanFromWire(s.e, s.e.Not(bs[ScalarSize]))
}

// LessOrEqual is ¬(other < s).
func (s Scalar) LessOrEqual(other Scalar) Boolean {
	return other.LessThan(s).Not()
}

// GreaterThan is other < s.
func (s Scalar) GreaterThan(other Scalar) Boolean {
	return other.LessThan(s)
}

// GreaterOrEqual is ¬(s < other).
func (s Scalar) GreaterOrEqual(other Scalar) Boolean {
	return s.LessThan(other).Not()
}

// Select picks s when cond holds, other otherwise, bit by bit.
func (s Scalar) Select(cond Boolean, other Scalar) Scalar {
	bs := make([]circuit.Wire, len(s.bits))
	for k := range s.bits {
		bs[k] = s.e.Select(cond.w, s.bits[k], other.bits[k])
	}
	return Scalar{e: s.e, bits: bs}
}
