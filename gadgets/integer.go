package gadgets

import (
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/exp/constraints"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

type uinteger interface {
	constraints.Unsigned
}

func width[T uinteger]() int {
	return bits.OnesCount64(uint64(^T(0)))
}

// Integer is an unsigned integer of fixed width, held as its little-endian
// boolean decomposition. Every arithmetic operation declares its overflow
// semantics: checked variants fail the build on overflow in both modes,
// wrapped variants drop the carry in both.
type Integer[T uinteger] struct {
	e    *circuit.Environment
	bits []circuit.Wire
}

// NewInteger allocates an integer with the given visibility. The circuit
// representation of an input is one packed wire plus its range-checked bit
// decomposition.
func NewInteger[T uinteger](e *circuit.Environment, value T, tag constraint.Tag) Integer[T] {
	var v fr.Element
	v.SetUint64(uint64(value))
	w := allocWire(e, v, tag)
	return Integer[T]{e: e, bits: e.ToBits(w, width[T]())}
}

func integerFromBits[T uinteger](e *circuit.Environment, bs []circuit.Wire) Integer[T] {
	return Integer[T]{e: e, bits: bs}
}

func (i Integer[T]) Kind() Kind {
	switch width[T]() {
	case 8:
		return KindU8
	case 16:
		return KindU16
	case 32:
		return KindU32
	case 64:
		return KindU64
	default:
		panic(fmt.Errorf("%w: unsupported integer width %d", constraint.ErrModeMismatch, width[T]()))
	}
}

func (i Integer[T]) Wires() []circuit.Wire { return i.bits }
func (i Integer[T]) isValue()              {}

// Value recomposes the native integer from its bits.
func (i Integer[T]) Value() T {
	var v uint64
	for k, b := range i.bits {
		bv := b.Value()
		if bv.IsOne() {
			v |= 1 << uint(k)
		}
	}
	return T(v)
}

func (i Integer[T]) String() string {
	return fmt.Sprintf("%d%s", uint64(i.Value()), i.Kind())
}

// packed folds the bits into one field wire; purely linear.
func (i Integer[T]) packed() circuit.Wire {
	return i.e.FromBits(i.bits)
}

// ToField casts to a field element; always fits.
func (i Integer[T]) ToField() Field {
	return fieldFromWire(i.e, i.packed())
}

// IntegerFromField casts a field element down to a fixed-width integer. The
// build fails if the value does not fit: cast is checked.
func IntegerFromField[T uinteger](f Field) Integer[T] {
	return integerFromBits[T](f.e, f.e.ToBits(f.w, width[T]()))
}

// ResizeInteger converts between widths. Widening zero-extends; narrowing is
// checked, the build fails if high bits are set.
func ResizeInteger[To, From uinteger](a Integer[From]) Integer[To] {
	wFrom, wTo := width[From](), width[To]()
	if wTo >= wFrom {
		bs := make([]circuit.Wire, wTo)
		copy(bs, a.bits)
		zero := a.e.ConstantUint64(0)
		for k := wFrom; k < wTo; k++ {
			bs[k] = zero
		}
		return integerFromBits[To](a.e, bs)
	}
	for _, b := range a.bits[wTo:] {
		a.e.AssertIsEqual(b, a.e.ConstantUint64(0))
	}
	return integerFromBits[To](a.e, a.bits[:wTo])
}

// AddChecked fails the build on overflow.
func (i Integer[T]) AddChecked(other Integer[T]) Integer[T] {
	sum, carry := i.addBits(other)
	i.e.AssertIsEqual(carry, i.e.ConstantUint64(0))
	return sum
}

// AddWrapped drops the carry.
func (i Integer[T]) AddWrapped(other Integer[T]) Integer[T] {
	sum, _ := i.addBits(other)
	return sum
}

func (i Integer[T]) addBits(other Integer[T]) (Integer[T], circuit.Wire) {
	w := width[T]()
	sum := i.e.Add(i.packed(), other.packed())
	bs := i.e.ToBits(sum, w+1)
	return integerFromBits[T](i.e, bs[:w]), bs[w]
}

// SubChecked fails the build on underflow.
func (i Integer[T]) SubChecked(other Integer[T]) Integer[T] {
	diff, noBorrow := i.subBits(other)
	i.e.AssertIsEqual(noBorrow, i.e.ConstantUint64(1))
	return diff
}

// SubWrapped wraps modulo 2^w.
func (i Integer[T]) SubWrapped(other Integer[T]) Integer[T] {
	diff, _ := i.subBits(other)
	return diff
}

// subBits computes i-other offset by 2^w so the field subtraction cannot
// wrap; the top bit is 1 exactly when no borrow occurred.
func (i Integer[T]) subBits(other Integer[T]) (Integer[T], circuit.Wire) {
	w := width[T]()
	var off fr.Element
	off.SetOne()
	for k := 0; k < w; k++ {
		off.Double(&off)
	}
	shifted := i.e.Add(i.packed(), i.e.Constant(off))
	diff := i.e.Sub(shifted, other.packed())
	bs := i.e.ToBits(diff, w+1)
	return integerFromBits[T](i.e, bs[:w]), bs[w]
}

// NegChecked is 0-i checked: it fails unless i is zero.
func (i Integer[T]) NegChecked() Integer[T] {
	return zeroInteger[T](i.e).SubChecked(i)
}

// NegWrapped is two's-complement negation.
func (i Integer[T]) NegWrapped() Integer[T] {
	return zeroInteger[T](i.e).SubWrapped(i)
}

func zeroInteger[T uinteger](e *circuit.Environment) Integer[T] {
	zero := e.ConstantUint64(0)
	bs := make([]circuit.Wire, width[T]())
	for k := range bs {
		bs[k] = zero
	}
	return integerFromBits[T](e, bs)
}

// MulChecked fails the build on overflow.
func (i Integer[T]) MulChecked(other Integer[T]) Integer[T] {
	low, high := i.mulBits(other)
	i.e.AssertIsEqual(i.e.FromBits(high), i.e.ConstantUint64(0))
	return low
}

// MulWrapped keeps the low half of the product.
func (i Integer[T]) MulWrapped(other Integer[T]) Integer[T] {
	low, _ := i.mulBits(other)
	return low
}

func (i Integer[T]) mulBits(other Integer[T]) (Integer[T], []circuit.Wire) {
	w := width[T]()
	prod := i.e.Mul(i.packed(), other.packed())
	bs := i.e.ToBits(prod, 2*w)
	return integerFromBits[T](i.e, bs[:w]), bs[w:]
}

// DivChecked is euclidean division; the build fails when other is zero.
// Quotient and remainder enter as witnesses tied down by i = q·other + r and
// r < other.
func (i Integer[T]) DivChecked(other Integer[T]) Integer[T] {
	w := width[T]()

	// a zero divisor has no inverse; this fails the build in both modes
	i.e.Inverse(other.packed())

	av, bv := uint64(i.Value()), uint64(other.Value())
	var qv, rv fr.Element
	if bv != 0 {
		qv.SetUint64(av / bv)
		rv.SetUint64(av % bv)
	}
	q := i.e.Witness(qv)
	r := i.e.Witness(rv)
	qBits := i.e.ToBits(q, w)
	rBits := i.e.ToBits(r, w)

	// i = q·other + r
	i.e.AssertIsEqual(i.e.Add(i.e.Mul(q, other.packed()), r), i.packed())

	// r < other
	rem := integerFromBits[T](i.e, rBits)
	i.e.AssertIsEqual(rem.LessThan(other).w, i.e.ConstantUint64(1))

	return integerFromBits[T](i.e, qBits)
}

// And is the bitwise conjunction.
func (i Integer[T]) And(other Integer[T]) Integer[T] {
	return i.zip(other, i.e.And)
}

// Or is the bitwise disjunction.
func (i Integer[T]) Or(other Integer[T]) Integer[T] {
	return i.zip(other, i.e.Or)
}

// Xor is the bitwise exclusive or.
func (i Integer[T]) Xor(other Integer[T]) Integer[T] {
	return i.zip(other, i.e.Xor)
}

// Nand is the bitwise ¬∧.
func (i Integer[T]) Nand(other Integer[T]) Integer[T] {
	return i.And(other).Not()
}

// Nor is the bitwise ¬∨.
func (i Integer[T]) Nor(other Integer[T]) Integer[T] {
	return i.Or(other).Not()
}

// Not flips every bit; purely linear.
func (i Integer[T]) Not() Integer[T] {
	bs := make([]circuit.Wire, len(i.bits))
	for k, b := range i.bits {
		bs[k] = i.e.Not(b)
	}
	return integerFromBits[T](i.e, bs)
}

func (i Integer[T]) zip(other Integer[T], op func(a, b circuit.Wire) circuit.Wire) Integer[T] {
	bs := make([]circuit.Wire, len(i.bits))
	for k := range i.bits {
		bs[k] = op(i.bits[k], other.bits[k])
	}
	return integerFromBits[T](i.e, bs)
}

// Shl shifts left by a constant magnitude, dropping overflowed bits.
func (i Integer[T]) Shl(k uint) Integer[T] {
	w := width[T]()
	zero := i.e.ConstantUint64(0)
	bs := make([]circuit.Wire, w)
	for j := 0; j < w; j++ {
		if uint(j) < k {
			bs[j] = zero
		} else {
			bs[j] = i.bits[j-int(k)]
		}
	}
	return integerFromBits[T](i.e, bs)
}

// Shr shifts right by a constant magnitude.
func (i Integer[T]) Shr(k uint) Integer[T] {
	w := width[T]()
	zero := i.e.ConstantUint64(0)
	bs := make([]circuit.Wire, w)
	for j := 0; j < w; j++ {
		if j+int(k) < w {
			bs[j] = i.bits[j+int(k)]
		} else {
			bs[j] = zero
		}
	}
	return integerFromBits[T](i.e, bs)
}

// Equal compares the packed values.
func (i Integer[T]) Equal(other Integer[T]) Boolean {
	diff := i.e.Sub(i.packed(), other.packed())
	return booleanFromWire(i.e, i.e.IsZero(diff))
}

// NotEqual is the negation of Equal.
func (i Integer[T]) NotEqual(other Integer[T]) Boolean {
	return i.Equal(other).Not()
}

// LessThan compares via the borrow bit of the offset subtraction.
func (i Integer[T]) LessThan(other Integer[T]) Boolean {
	_, noBorrow := i.subBits(other)
	return booleanFromWire(i.e, i.e.Not(noBorrow))
}

// LessOrEqual is ¬(other < i).
func (i Integer[T]) LessOrEqual(other Integer[T]) Boolean {
	return other.LessThan(i).Not()
}

// GreaterThan is other < i.
func (i Integer[T]) GreaterThan(other Integer[T]) Boolean {
	return other.LessThan(i)
}

// GreaterOrEqual is ¬(i < other).
func (i Integer[T]) GreaterOrEqual(other Integer[T]) Boolean {
	return i.LessThan(other).Not()
}

// Select picks i when cond holds, other otherwise, bit by bit.
func (i Integer[T]) Select(cond Boolean, other Integer[T]) Integer[T] {
	bs := make([]circuit.Wire, len(i.bits))
	for k := range i.bits {
		bs[k] = i.e.Select(cond.w, i.bits[k], other.bits[k])
	}
	return integerFromBits[T](i.e, bs)
}
