package gadgets

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/zkprivacy/snarkVM/circuit"
)

var (
	mimcOnce   sync.Once
	mimcParams []fr.Element
)

// mimcConstants loads the round constants shared with the native reference
// implementation, so native and constrained digests agree bit for bit.
func mimcConstants() []fr.Element {
	mimcOnce.Do(func() {
		raw := mimc.GetConstants()
		mimcParams = make([]fr.Element, len(raw))
		for i := range raw {
			mimcParams[i].SetBigInt(&raw[i])
		}
	})
	return mimcParams
}

// MiMC hashes field elements with the Miyaguchi–Preneel construction over
// the MiMC permutation (x⁵ round function). The XOR of the classical scheme
// is replaced by field addition.
type MiMC struct {
	e    *circuit.Environment
	h    circuit.Wire
	data []circuit.Wire
}

// NewMiMC returns a fresh hasher bound to the environment.
func NewMiMC(e *circuit.Environment) *MiMC {
	return &MiMC{e: e, h: e.ConstantUint64(0)}
}

// Write absorbs field elements into the running hash.
func (h *MiMC) Write(data ...Field) {
	for _, f := range data {
		h.data = append(h.data, f.w)
	}
}

// WriteWire absorbs a raw wire.
func (h *MiMC) WriteWire(w circuit.Wire) {
	h.data = append(h.data, w)
}

// Reset restores the initial state.
func (h *MiMC) Reset() {
	h.data = nil
	h.h = h.e.ConstantUint64(0)
}

// Sum digests the absorbed data: for each block m, h ← E_h(m) + h + m.
func (h *MiMC) Sum() Field {
	for _, m := range h.data {
		r := h.encrypt(m)
		h.h = h.e.Add(h.e.Add(h.h, r), m)
	}
	h.data = nil
	return fieldFromWire(h.e, h.h)
}

// encrypt runs the keyed permutation: x ← (x + h + c)⁵ per round, then a
// final key addition. Three multiplicative constraints per round.
func (h *MiMC) encrypt(m circuit.Wire) circuit.Wire {
	e := h.e
	x := m
	for _, c := range mimcConstants() {
		t := e.Add(e.Add(x, h.h), e.Constant(c))
		t2 := e.Mul(t, t)
		t4 := e.Mul(t2, t2)
		x = e.Mul(t4, t)
	}
	return e.Add(x, h.h)
}

// HashToField digests the inputs into one field element.
func HashToField(e *circuit.Environment, inputs ...Field) Field {
	h := NewMiMC(e)
	h.Write(inputs...)
	return h.Sum()
}

// HashToScalar digests the inputs and truncates into the embedded scalar
// field: the low ScalarSize-1 bits always fit below the group order.
func HashToScalar(e *circuit.Environment, inputs ...Field) Scalar {
	digest := HashToField(e, inputs...)
	bits := e.ToBits(digest.w, fr.Bits)

	truncated := make([]circuit.Wire, ScalarSize)
	copy(truncated, bits[:ScalarSize-1])
	truncated[ScalarSize-1] = e.ConstantUint64(0)
	return Scalar{e: e, bits: truncated}
}

// HashToGroup digests the inputs onto the embedded curve by multiplying the
// generator with the truncated digest.
func HashToGroup(e *circuit.Environment, inputs ...Field) Group {
	return GeneratorMul(e, HashToScalar(e, inputs...))
}
