package groth16

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/logger"
)

// toxicWaste holds the secret sampling of a setup ceremony. It never leaves
// this file.
type toxicWaste struct {
	tau, alpha, beta, gamma, delta fr.Element
}

func sampleToxicWaste(cardinality uint64) (toxicWaste, error) {
	var tw toxicWaste
	for _, v := range []*fr.Element{&tw.alpha, &tw.beta, &tw.gamma, &tw.delta} {
		if _, err := v.SetRandom(); err != nil {
			return tw, err
		}
	}
	// τ must not be a root of the vanishing polynomial
	var one, zt fr.Element
	one.SetOne()
	card := new(big.Int).SetUint64(cardinality)
	for {
		if _, err := tw.tau.SetRandom(); err != nil {
			return tw, err
		}
		zt.Exp(tw.tau, card)
		if !zt.Equal(&one) {
			return tw, nil
		}
	}
}

// Setup builds the proving and verifying keys for a finalized system. It is
// run once per distinct shape; both keys record the shape identifier.
func Setup(sys *constraint.System) (*ProvingKey, *VerifyingKey, error) {
	if !sys.Finalized() {
		return nil, nil, constraint.ErrNotFinalized
	}
	shapeID, err := sys.ShapeID()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Logger().With().Str("backend", "groth16").Logger()

	nbWires := sys.NbVariables()
	nbConstraints := sys.NbConstraints()
	if nbConstraints == 0 {
		nbConstraints = 1
	}
	domain := fft.NewDomain(uint64(nbConstraints))

	tw, err := sampleToxicWaste(domain.Cardinality)
	if err != nil {
		return nil, nil, err
	}

	// per-wire evaluations A(τ), B(τ), C(τ)
	A, B, C := evaluateWirePolynomials(sys, domain, tw.tau)

	pk := &ProvingKey{ShapeID: shapeID, Domain: *domain}
	vk := &VerifyingKey{ShapeID: shapeID}

	_, _, g1, g2 := bn254.Generators()

	// pk: [α]1, [β]1, [δ]1, [β]2, [δ]2
	var alphaBig, betaBig, deltaBig, gammaBig big.Int
	tw.alpha.BigInt(&alphaBig)
	tw.beta.BigInt(&betaBig)
	tw.delta.BigInt(&deltaBig)
	tw.gamma.BigInt(&gammaBig)
	pk.G1.Alpha.ScalarMultiplication(&g1, &alphaBig)
	pk.G1.Beta.ScalarMultiplication(&g1, &betaBig)
	pk.G1.Delta.ScalarMultiplication(&g1, &deltaBig)
	pk.G2.Beta.ScalarMultiplication(&g2, &betaBig)
	pk.G2.Delta.ScalarMultiplication(&g2, &deltaBig)

	// vk: [α]1, [β]2, [γ]2, [δ]2 and the derived pairing values
	vk.G1.Alpha = pk.G1.Alpha
	vk.G2.Beta = pk.G2.Beta
	vk.G2.Delta = pk.G2.Delta
	vk.G2.Gamma.ScalarMultiplication(&g2, &gammaBig)

	// [A(τ)]1, [B(τ)]1, [B(τ)]2
	pk.G1.A = bn254.BatchScalarMultiplicationG1(&g1, A)
	pk.G1.B = bn254.BatchScalarMultiplicationG1(&g1, B)
	pk.G2.B = bn254.BatchScalarMultiplicationG2(&g2, B)

	// K coefficients: (β·A_i + α·B_i + C_i) scaled by δ⁻¹ on private wires
	// and γ⁻¹ on verifier-side wires
	var gammaInv, deltaInv fr.Element
	gammaInv.Inverse(&tw.gamma)
	deltaInv.Inverse(&tw.delta)

	privateK := make([]fr.Element, 0, sys.NbPrivate())
	verifierK := make([]fr.Element, 0, nbWires-sys.NbPrivate())
	vk.constants = bitset.New(uint(nbWires - sys.NbPrivate()))

	var k, t fr.Element
	for i := 0; i < nbWires; i++ {
		k.Mul(&A[i], &tw.beta)
		t.Mul(&B[i], &tw.alpha)
		k.Add(&k, &t).Add(&k, &C[i])

		v := sys.VariableAt(uint32(i))
		if v.Tag == constraint.Private {
			k.Mul(&k, &deltaInv)
			privateK = append(privateK, k)
			continue
		}
		slot := uint(len(verifierK))
		if cv, ok := sys.ConstantValue(v); ok {
			vk.constants.Set(slot)
			vk.constantValues = append(vk.constantValues, cv)
		} else {
			vk.constantValues = append(vk.constantValues, fr.Element{})
		}
		k.Mul(&k, &gammaInv)
		verifierK = append(verifierK, k)
	}
	pk.G1.K = bn254.BatchScalarMultiplicationG1(&g1, privateK)
	vk.G1.K = bn254.BatchScalarMultiplicationG1(&g1, verifierK)

	// [τⁱ·Z(τ)/δ]1 for i ≤ n-2; deg(H) = n-2
	n := int(domain.Cardinality)
	var one, zdt fr.Element
	one.SetOne()
	zdt.Exp(tw.tau, new(big.Int).SetUint64(domain.Cardinality))
	zdt.Sub(&zdt, &one).Mul(&zdt, &deltaInv)
	if n > 1 {
		zs := make([]fr.Element, n-1)
		for i := range zs {
			zs[i] = zdt
			zdt.Mul(&zdt, &tw.tau)
		}
		pk.G1.Z = bn254.BatchScalarMultiplicationG1(&g1, zs)
	}

	if err := vk.precompute(); err != nil {
		return nil, nil, err
	}

	log.Debug().
		Int("constraints", sys.NbConstraints()).
		Int("wires", nbWires).
		Uint64("domain", domain.Cardinality).
		Msg("setup done")
	return pk, vk, nil
}

// evaluateWirePolynomials accumulates, per wire, the Lagrange-interpolated
// constraint polynomials evaluated at τ: A_i(τ) from the L sides, B_i(τ)
// from R, C_i(τ) from O. A combination's constant offset is a coefficient on
// the one-wire.
func evaluateWirePolynomials(sys *constraint.System, domain *fft.Domain, tau fr.Element) (A, B, C []fr.Element) {
	nbWires := sys.NbVariables()
	A = make([]fr.Element, nbWires)
	B = make([]fr.Element, nbWires)
	C = make([]fr.Element, nbWires)

	// L_0(τ) = (τⁿ-1)/(n·(τ-1)), L_{i+1}(τ) = L_i(τ)·ω·(τ-ωⁱ)/(τ-ωⁱ⁺¹)
	var li, one, w, wi, tmp fr.Element
	one.SetOne()
	w.Set(&domain.Generator)
	wi.SetOne()

	li.Exp(tau, new(big.Int).SetUint64(domain.Cardinality))
	li.Sub(&li, &one)
	tmp.Sub(&tau, &one)
	li.Div(&li, &tmp).Mul(&li, &domain.CardinalityInv)

	accumulate := func(lc constraint.LinearCombination, acc []fr.Element) {
		var t fr.Element
		for _, term := range lc.Terms {
			t.Mul(&term.Coeff, &li)
			acc[term.Variable.Index].Add(&acc[term.Variable.Index], &t)
		}
		if !lc.Constant.IsZero() {
			t.Mul(&lc.Constant, &li)
			acc[0].Add(&acc[0], &t)
		}
	}

	for _, c := range sys.Constraints() {
		accumulate(c.L, A)
		accumulate(c.R, B)
		accumulate(c.O, C)

		li.Mul(&li, &w)
		tmp.Sub(&tau, &wi)
		li.Mul(&li, &tmp)
		wi.Mul(&wi, &w)
		tmp.Sub(&tau, &wi)
		li.Div(&li, &tmp)
	}
	return A, B, C
}
