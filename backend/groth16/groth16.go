// Package groth16 implements the Groth16 proof system over bn254 for
// finalized constraint systems: one-time setup per circuit shape,
// per-instance proving, and pairing-based verification.
//
// Keys record the shape identifier of the system they were set up for;
// proving with a system of a different shape fails before any work is done.
package groth16

import (
	"github.com/bits-and-blooms/bitset"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// Proof is a Groth16 proof: two G1 points and one G2 point. Its serialized
// form is fixed size.
type Proof struct {
	Ar, Krs bn254.G1Affine
	Bs      bn254.G2Affine
}

// ProvingKey encodes the circuit-specific part of the structured reference
// string a prover needs.
type ProvingKey struct {
	// ShapeID pins the constraint-system shape this key was set up for.
	ShapeID [32]byte

	Domain fft.Domain

	// [α]1, [β]1, [δ]1
	// [A(τ)]1, [B(τ)]1, [K(τ)]1 (private wires only), [τⁱ·Z(τ)/δ]1
	G1 struct {
		Alpha, Beta, Delta bn254.G1Affine
		A, B, K, Z         []bn254.G1Affine
	}

	// [β]2, [δ]2, [B(τ)]2
	G2 struct {
		Beta, Delta bn254.G2Affine
		B           []bn254.G2Affine
	}
}

// VerifyingKey encodes what a verifier needs: one pairing precomputation,
// the K vector over the verifier-side wires, and the constant values the
// circuit baked into those wires. Verification needs no constraint-system
// data beyond the public-input vector.
type VerifyingKey struct {
	// ShapeID pins the constraint-system shape this key was set up for.
	ShapeID [32]byte

	G1 struct {
		Alpha bn254.G1Affine

		// K spans the verifier-side wires: the one-wire, embedded
		// constants and public inputs, in wire order.
		K []bn254.G1Affine
	}

	G2 struct {
		Beta, Gamma, Delta bn254.G2Affine

		// negated points, precomputed for the pairing check
		GammaNeg, DeltaNeg bn254.G2Affine
	}

	// E is e(α, β), precomputed.
	E bn254.GT

	// constants marks which K slots are circuit constants rather than
	// public inputs; constantValues carries their values, dense (zero on
	// public-input slots).
	constants      *bitset.BitSet
	constantValues []fr.Element
}

// NbPublicInputs returns how many public-input values Verify expects.
func (vk *VerifyingKey) NbPublicInputs() int {
	return len(vk.G1.K) - int(vk.constants.Count())
}

// precompute fills the derived fields: e(α,β) and the negated G2 points.
func (vk *VerifyingKey) precompute() error {
	e, err := bn254.Pair([]bn254.G1Affine{vk.G1.Alpha}, []bn254.G2Affine{vk.G2.Beta})
	if err != nil {
		return err
	}
	vk.E = e
	vk.G2.GammaNeg.Neg(&vk.G2.Gamma)
	vk.G2.DeltaNeg.Neg(&vk.G2.Delta)
	return nil
}
