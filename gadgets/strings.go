package gadgets

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// stringLimbBytes is how many bytes fit one field limb with headroom below
// the modulus.
const stringLimbBytes = 31

// String is a fixed-capacity byte string packed into field limbs,
// 31 bytes per limb, zero padded. Shape depends only on the declared
// capacity, never on the contents.
type String struct {
	e        *circuit.Environment
	capacity int
	limbs    []circuit.Wire
}

// NewString allocates a string with the given capacity and visibility. It
// fails when value exceeds the capacity; shorter values are zero padded.
func NewString(e *circuit.Environment, value string, capacity int, tag constraint.Tag) (String, error) {
	if len(value) > capacity {
		return String{}, fmt.Errorf("string of %d bytes exceeds capacity %d", len(value), capacity)
	}
	nbLimbs := (capacity + stringLimbBytes - 1) / stringLimbBytes

	padded := make([]byte, nbLimbs*stringLimbBytes)
	copy(padded, value)

	s := String{e: e, capacity: capacity, limbs: make([]circuit.Wire, nbLimbs)}
	for i := 0; i < nbLimbs; i++ {
		var v fr.Element
		v.SetBytes(padded[i*stringLimbBytes : (i+1)*stringLimbBytes])
		s.limbs[i] = allocWire(e, v, tag)
		// range check: each limb must fit its 31 bytes
		e.ToBits(s.limbs[i], stringLimbBytes*8)
	}
	return s, nil
}

func (s String) Kind() Kind            { return KindString }
func (s String) Wires() []circuit.Wire { return s.limbs }
func (s String) isValue()              {}

// Capacity returns the declared byte capacity.
func (s String) Capacity() int { return s.capacity }

// Value unpacks the native bytes, trailing zero padding trimmed.
func (s String) Value() string {
	buf := make([]byte, 0, len(s.limbs)*stringLimbBytes)
	for _, limb := range s.limbs {
		v := limb.Value()
		b := v.Bytes()
		// the limb occupies the low 31 bytes of the 32-byte encoding
		buf = append(buf, b[fr.Bytes-stringLimbBytes:]...)
	}
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	return string(buf[:end])
}

func (s String) String() string {
	return fmt.Sprintf("%q", s.Value())
}

// Equal requires identical capacity; differing capacities are a type error
// surfaced as a build failure.
func (s String) Equal(other String) (Boolean, error) {
	if s.capacity != other.capacity {
		return Boolean{}, fmt.Errorf("%w: string capacities differ (%d vs %d)",
			constraint.ErrModeMismatch, s.capacity, other.capacity)
	}
	var one fr.Element
	one.SetOne()
	acc := booleanFromWire(s.e, s.e.Constant(one))
	for i := range s.limbs {
		eq := booleanFromWire(s.e, s.e.IsZero(s.e.Sub(s.limbs[i], other.limbs[i])))
		acc = acc.And(eq)
	}
	return acc, nil
}

// Select picks s when cond holds, other otherwise; capacities must match.
func (s String) Select(cond Boolean, other String) (Value, error) {
	if s.capacity != other.capacity {
		return nil, fmt.Errorf("%w: string capacities differ (%d vs %d)",
			constraint.ErrModeMismatch, s.capacity, other.capacity)
	}
	limbs := make([]circuit.Wire, len(s.limbs))
	for i := range s.limbs {
		limbs[i] = s.e.Select(cond.w, s.limbs[i], other.limbs[i])
	}
	return String{e: s.e, capacity: s.capacity, limbs: limbs}, nil
}

// Hash absorbs the limbs into a MiMC sponge.
func (s String) Hash() Field {
	h := NewMiMC(s.e)
	for _, limb := range s.limbs {
		h.WriteWire(limb)
	}
	return h.Sum()
}

// ToFields exposes the packed limbs.
func (s String) ToFields() []Field {
	res := make([]Field, len(s.limbs))
	for i, limb := range s.limbs {
		res[i] = fieldFromWire(s.e, limb)
	}
	return res
}
