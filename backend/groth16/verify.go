package groth16

import (
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Verify checks a proof against a public-input vector. It is pure: a
// well-formed proof that does not verify yields (false, nil). A wrong
// public-input count is a format error, not a rejection.
func Verify(vk *VerifyingKey, proof *Proof, publicInputs []fr.Element) (bool, error) {
	if want := vk.NbPublicInputs(); len(publicInputs) != want {
		return false, fmt.Errorf("verifying key expects %d public inputs, got %d", want, len(publicInputs))
	}

	// proofs handed over without passing through ReadFrom still get the
	// subgroup membership checks the decoder would have done
	if !proof.Ar.IsInSubGroup() || !proof.Krs.IsInSubGroup() || !proof.Bs.IsInSubGroup() {
		return false, nil
	}

	// fill the verifier-side wire vector: baked-in constants from the key,
	// public inputs from the caller
	scalars := make([]fr.Element, len(vk.G1.K))
	next := 0
	for i := range scalars {
		if vk.constants.Test(uint(i)) {
			scalars[i] = vk.constantValues[i]
			continue
		}
		scalars[i] = publicInputs[next]
		next++
	}

	var kSumJac bn254.G1Jac
	if _, err := kSumJac.MultiExp(vk.G1.K, scalars, ecc.MultiExpConfig{NbTasks: runtime.NumCPU()}); err != nil {
		return false, err
	}
	var kSum bn254.G1Affine
	kSum.FromJacobian(&kSumJac)

	// e(Ar, Bs) · e(kSum, -γ) · e(Krs, -δ) == e(α, β)
	ml, err := bn254.MillerLoop(
		[]bn254.G1Affine{proof.Ar, kSum, proof.Krs},
		[]bn254.G2Affine{proof.Bs, vk.G2.GammaNeg, vk.G2.DeltaNeg},
	)
	if err != nil {
		return false, err
	}
	right := bn254.FinalExponentiation(&ml)
	return vk.E.Equal(&right), nil
}
