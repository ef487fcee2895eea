package gadgets

import (
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// Field is an element of the base prime field.
type Field struct {
	e *circuit.Environment
	w circuit.Wire
}

// NewField allocates a field element with the given visibility.
func NewField(e *circuit.Environment, value fr.Element, tag constraint.Tag) Field {
	return Field{e: e, w: allocWire(e, value, tag)}
}

// fieldFromWire wraps an existing wire.
func fieldFromWire(e *circuit.Environment, w circuit.Wire) Field {
	return Field{e: e, w: w}
}

func (f Field) Kind() Kind            { return KindField }
func (f Field) Wires() []circuit.Wire { return []circuit.Wire{f.w} }
func (f Field) isValue()              {}

// Wire exposes the underlying wire.
func (f Field) Wire() circuit.Wire { return f.w }

// Value returns the native field value.
func (f Field) Value() fr.Element { return f.w.Value() }

func (f Field) String() string {
	v := f.Value()
	return v.String() + "field"
}

// Add is linear.
func (f Field) Add(other Field) Field {
	return fieldFromWire(f.e, f.e.Add(f.w, other.w))
}

// Sub is linear.
func (f Field) Sub(other Field) Field {
	return fieldFromWire(f.e, f.e.Sub(f.w, other.w))
}

// Neg is linear.
func (f Field) Neg() Field {
	return fieldFromWire(f.e, f.e.Neg(f.w))
}

// Double is linear.
func (f Field) Double() Field {
	return f.Add(f)
}

// Mul costs one multiplicative constraint.
func (f Field) Mul(other Field) Field {
	return fieldFromWire(f.e, f.e.Mul(f.w, other.w))
}

// Square costs one multiplicative constraint.
func (f Field) Square() Field {
	return f.Mul(f)
}

// Div fails the build when other is zero.
func (f Field) Div(other Field) Field {
	return fieldFromWire(f.e, f.e.Div(f.w, other.w))
}

// Inverse fails the build when f is zero.
func (f Field) Inverse() Field {
	return fieldFromWire(f.e, f.e.Inverse(f.w))
}

// Pow raises f to a small constant exponent by square-and-multiply.
func (f Field) Pow(exp uint64) Field {
	one := f.e.ConstantUint64(1)
	res := fieldFromWire(f.e, one)
	if exp == 0 {
		return res
	}
	n := bits.Len64(exp)
	for i := n - 1; i >= 0; i-- {
		res = res.Square()
		if exp&(1<<uint(i)) != 0 {
			res = res.Mul(f)
		}
	}
	return res
}

// IsZero returns 1 iff f is zero.
func (f Field) IsZero() Boolean {
	return booleanFromWire(f.e, f.e.IsZero(f.w))
}

// Equal compares two field elements.
func (f Field) Equal(other Field) Boolean {
	return f.Sub(other).IsZero()
}

// NotEqual is the negation of Equal.
func (f Field) NotEqual(other Field) Boolean {
	return f.Equal(other).Not()
}

// Select returns f when cond holds, other otherwise.
func (f Field) Select(cond Boolean, other Field) Field {
	return fieldFromWire(f.e, f.e.Select(cond.w, f.w, other.w))
}

// ToBits decomposes f into n little-endian booleans. The build fails if f
// does not fit.
func (f Field) ToBits(n int) []Boolean {
	ws := f.e.ToBits(f.w, n)
	res := make([]Boolean, n)
	for i, w := range ws {
		res[i] = booleanFromWire(f.e, w)
	}
	return res
}

// FieldFromBits packs little-endian booleans into a field element.
func FieldFromBits(e *circuit.Environment, bits []Boolean) Field {
	ws := make([]circuit.Wire, len(bits))
	for i, b := range bits {
		ws[i] = b.w
	}
	return fieldFromWire(e, e.FromBits(ws))
}
