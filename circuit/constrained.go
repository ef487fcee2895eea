package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/constraint"
)

// constrained emits variables and constraints into the ledger alongside
// computing the same values the native strategy would. Purely linear
// operations (add, sub, neg, not, constant scaling) rewrite linear
// combinations without touching the constraint table.
type constrained struct {
	e *Environment
}

func (s *constrained) wire(v fr.Element, lc constraint.LinearCombination) Wire {
	return Wire{env: s.e, value: v, lc: lc}
}

// newInternal allocates a private ledger variable carrying v.
func (s *constrained) newInternal(v fr.Element) Wire {
	vr := s.e.allocate(constraint.Private, v)
	return s.wire(v, constraint.NewLinearCombination(vr))
}

func (s *constrained) one() constraint.LinearCombination {
	return constraint.NewLinearCombination(s.e.sys.OneWire())
}

// markBoolean records single-variable wires already constrained to {0,1} so
// redundant boolean assertions are skipped.
func (s *constrained) markBoolean(w Wire) {
	if len(w.lc.Terms) == 1 && w.lc.Constant.IsZero() && w.lc.Terms[0].Coeff.IsOne() {
		s.e.booleans.Set(uint(w.lc.Terms[0].Variable.Index))
	}
}

func (s *constrained) isMarkedBoolean(w Wire) bool {
	return len(w.lc.Terms) == 1 && w.lc.Constant.IsZero() && w.lc.Terms[0].Coeff.IsOne() &&
		s.e.booleans.Test(uint(w.lc.Terms[0].Variable.Index))
}

func (s *constrained) constant(v fr.Element) Wire {
	return s.wire(v, constraint.FromConstant(v))
}

func (s *constrained) publicInput(v fr.Element) Wire {
	vr := s.e.allocate(constraint.Public, v)
	return s.wire(v, constraint.NewLinearCombination(vr))
}

func (s *constrained) privateInput(v fr.Element) Wire {
	vr := s.e.allocate(constraint.Private, v)
	return s.wire(v, constraint.NewLinearCombination(vr))
}

func (s *constrained) publicOutput(a Wire) Wire {
	vr := s.e.allocate(constraint.Public, a.value)
	out := s.wire(a.value, constraint.NewLinearCombination(vr))
	s.e.enforce(a.lc, s.one(), out.lc)
	return out
}

func (s *constrained) witness(v fr.Element) Wire {
	return s.newInternal(v)
}

func (s *constrained) add(a, b Wire) Wire {
	var v fr.Element
	v.Add(&a.value, &b.value)
	return s.wire(v, a.lc.Add(b.lc))
}

func (s *constrained) sub(a, b Wire) Wire {
	var v fr.Element
	v.Sub(&a.value, &b.value)
	return s.wire(v, a.lc.Sub(b.lc))
}

func (s *constrained) neg(a Wire) Wire {
	var v fr.Element
	v.Neg(&a.value)
	return s.wire(v, a.lc.Neg())
}

func (s *constrained) mul(a, b Wire) Wire {
	// a multiplication by a compile-time constant is a linear rewrite
	if a.lc.IsConstant() {
		return s.mulConstant(b, a.lc.Constant)
	}
	if b.lc.IsConstant() {
		return s.mulConstant(a, b.lc.Constant)
	}
	var v fr.Element
	v.Mul(&a.value, &b.value)
	p := s.newInternal(v)
	s.e.enforce(a.lc, b.lc, p.lc)
	return p
}

func (s *constrained) mulConstant(a Wire, k fr.Element) Wire {
	var v fr.Element
	v.Mul(&a.value, &k)
	return s.wire(v, a.lc.Scale(k))
}

func (s *constrained) inverse(a Wire) Wire {
	if a.lc.IsConstant() {
		if a.value.IsZero() {
			panic(fmt.Errorf("%w: inverse of zero", constraint.ErrUnsatisfied))
		}
		var v fr.Element
		v.Inverse(&a.value)
		return s.constant(v)
	}
	// inv carries a⁻¹ (zero when a is zero; the constraint then has no
	// satisfying witness and the build fails at finalize)
	var v fr.Element
	v.Inverse(&a.value)
	inv := s.newInternal(v)
	var one fr.Element
	one.SetOne()
	s.e.enforce(a.lc, inv.lc, constraint.FromConstant(one))
	return inv
}

func (s *constrained) div(a, b Wire) Wire {
	return s.mul(a, s.inverse(b))
}

func (s *constrained) isZero(a Wire) Wire {
	if a.lc.IsConstant() {
		var v fr.Element
		if a.value.IsZero() {
			v.SetOne()
		}
		return s.constant(v)
	}

	// b = 1 iff a = 0, via the inverse trick:
	//   a·m = 1-b   forces b = 1 when a = 0
	//   a·b = 0     forces b = 0 when a ≠ 0
	var bv, mv fr.Element
	if a.value.IsZero() {
		bv.SetOne()
	} else {
		mv.Inverse(&a.value)
	}
	b := s.newInternal(bv)
	m := s.newInternal(mv)

	var one fr.Element
	one.SetOne()
	s.e.enforce(a.lc, m.lc, constraint.FromConstant(one).Sub(b.lc))
	s.e.enforce(a.lc, b.lc, constraint.LinearCombination{})
	s.markBoolean(b)
	return b
}

func (s *constrained) selector(cond, ifTrue, ifFalse Wire) Wire {
	s.assertIsBoolean(cond)
	if cond.lc.IsConstant() {
		if cond.value.IsOne() {
			return ifTrue
		}
		return ifFalse
	}
	// result = cond·(ifTrue-ifFalse) + ifFalse: both arms are synthesized,
	// shape never depends on cond's runtime value
	p := s.mul(cond, s.sub(ifTrue, ifFalse))
	return s.add(p, ifFalse)
}

func (s *constrained) and(a, b Wire) Wire { return s.mul(a, b) }

func (s *constrained) or(a, b Wire) Wire {
	return s.sub(s.add(a, b), s.mul(a, b))
}

func (s *constrained) xor(a, b Wire) Wire {
	ab := s.mul(a, b)
	return s.sub(s.add(a, b), s.add(ab, ab))
}

func (s *constrained) not(a Wire) Wire {
	var one fr.Element
	one.SetOne()
	return s.sub(s.constant(one), a)
}

func (s *constrained) toBits(a Wire, n int) []Wire {
	var bi big.Int
	a.value.BigInt(&bi)
	if bi.BitLen() > n {
		panic(fmt.Errorf("%w: value does not fit in %d bits", constraint.ErrUnsatisfied, n))
	}

	bits := make([]Wire, n)
	sum := constraint.LinearCombination{}
	var coeff fr.Element
	coeff.SetOne()
	for i := 0; i < n; i++ {
		var v fr.Element
		v.SetUint64(uint64(bi.Bit(i)))
		bits[i] = s.newInternal(v)
		s.assertIsBoolean(bits[i])
		sum = sum.Add(bits[i].lc.Scale(coeff))
		coeff.Double(&coeff)
	}
	// recomposition ties the decomposition to a
	s.e.enforce(sum, s.one(), a.lc)
	return bits
}

func (s *constrained) fromBits(bits []Wire) Wire {
	var v, coeff, tmp fr.Element
	coeff.SetOne()
	lc := constraint.LinearCombination{}
	for _, b := range bits {
		s.assertIsBoolean(b)
		tmp.Mul(&coeff, &b.value)
		v.Add(&v, &tmp)
		lc = lc.Add(b.lc.Scale(coeff))
		coeff.Double(&coeff)
	}
	return s.wire(v, lc)
}

func (s *constrained) assertIsEqual(a, b Wire) {
	if a.lc.IsConstant() && b.lc.IsConstant() {
		if !a.value.Equal(&b.value) {
			panic(fmt.Errorf("%w: %s != %s", constraint.ErrUnsatisfied, a.value.String(), b.value.String()))
		}
		return
	}
	s.e.enforce(a.lc.Sub(b.lc), s.one(), constraint.LinearCombination{})
}

func (s *constrained) assertIsBoolean(a Wire) {
	if a.lc.IsConstant() {
		if !a.value.IsZero() && !a.value.IsOne() {
			panic(fmt.Errorf("%w: %s is not boolean", constraint.ErrUnsatisfied, a.value.String()))
		}
		return
	}
	if s.isMarkedBoolean(a) {
		return
	}
	// a·(1-a) = 0
	var one fr.Element
	one.SetOne()
	s.e.enforce(a.lc, constraint.FromConstant(one).Sub(a.lc), constraint.LinearCombination{})
	s.markBoolean(a)
}
