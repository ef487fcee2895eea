package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/constraint"
)

// native evaluates operations on plain field values, emitting nothing. It is
// the reference semantics the constrained strategy must reproduce.
type native struct {
	e *Environment
}

func (s *native) wire(v fr.Element) Wire {
	return Wire{env: s.e, value: v}
}

func (s *native) constant(v fr.Element) Wire     { return s.wire(v) }
func (s *native) publicInput(v fr.Element) Wire  { return s.wire(v) }
func (s *native) privateInput(v fr.Element) Wire { return s.wire(v) }
func (s *native) publicOutput(a Wire) Wire       { return a }
func (s *native) witness(v fr.Element) Wire      { return s.wire(v) }

func (s *native) add(a, b Wire) Wire {
	var v fr.Element
	v.Add(&a.value, &b.value)
	return s.wire(v)
}

func (s *native) sub(a, b Wire) Wire {
	var v fr.Element
	v.Sub(&a.value, &b.value)
	return s.wire(v)
}

func (s *native) neg(a Wire) Wire {
	var v fr.Element
	v.Neg(&a.value)
	return s.wire(v)
}

func (s *native) mul(a, b Wire) Wire {
	var v fr.Element
	v.Mul(&a.value, &b.value)
	return s.wire(v)
}

func (s *native) mulConstant(a Wire, k fr.Element) Wire {
	var v fr.Element
	v.Mul(&a.value, &k)
	return s.wire(v)
}

func (s *native) inverse(a Wire) Wire {
	if a.value.IsZero() {
		panic(fmt.Errorf("%w: inverse of zero", constraint.ErrUnsatisfied))
	}
	var v fr.Element
	v.Inverse(&a.value)
	return s.wire(v)
}

func (s *native) div(a, b Wire) Wire {
	return s.mul(a, s.inverse(b))
}

func (s *native) isZero(a Wire) Wire {
	var v fr.Element
	if a.value.IsZero() {
		v.SetOne()
	}
	return s.wire(v)
}

func (s *native) selector(cond, ifTrue, ifFalse Wire) Wire {
	s.assertIsBoolean(cond)
	if cond.value.IsOne() {
		return s.wire(ifTrue.value)
	}
	return s.wire(ifFalse.value)
}

func (s *native) and(a, b Wire) Wire { return s.mul(a, b) }

func (s *native) or(a, b Wire) Wire {
	// a+b-ab
	return s.sub(s.add(a, b), s.mul(a, b))
}

func (s *native) xor(a, b Wire) Wire {
	// a+b-2ab
	ab := s.mul(a, b)
	return s.sub(s.add(a, b), s.add(ab, ab))
}

func (s *native) not(a Wire) Wire {
	var one fr.Element
	one.SetOne()
	return s.sub(s.wire(one), a)
}

func (s *native) toBits(a Wire, n int) []Wire {
	var bi big.Int
	a.value.BigInt(&bi)
	if bi.BitLen() > n {
		panic(fmt.Errorf("%w: value does not fit in %d bits", constraint.ErrUnsatisfied, n))
	}
	bits := make([]Wire, n)
	for i := 0; i < n; i++ {
		var v fr.Element
		v.SetUint64(uint64(bi.Bit(i)))
		bits[i] = s.wire(v)
	}
	return bits
}

func (s *native) fromBits(bits []Wire) Wire {
	var res, coeff, tmp fr.Element
	coeff.SetOne()
	for _, b := range bits {
		s.assertIsBoolean(b)
		tmp.Mul(&coeff, &b.value)
		res.Add(&res, &tmp)
		coeff.Double(&coeff)
	}
	return s.wire(res)
}

func (s *native) assertIsEqual(a, b Wire) {
	if !a.value.Equal(&b.value) {
		panic(fmt.Errorf("%w: %s != %s", constraint.ErrUnsatisfied, a.value.String(), b.value.String()))
	}
}

func (s *native) assertIsBoolean(a Wire) {
	if !a.value.IsZero() && !a.value.IsOne() {
		panic(fmt.Errorf("%w: %s is not boolean", constraint.ErrUnsatisfied, a.value.String()))
	}
}
