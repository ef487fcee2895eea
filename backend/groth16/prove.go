package groth16

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"golang.org/x/sync/errgroup"

	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/internal/utils"
	"github.com/zkprivacy/snarkVM/logger"
)

// Prove generates a proof that assignment satisfies sys, under keys set up
// for sys's shape. An unsatisfying assignment is caller error, reported
// before any expensive work.
func Prove(sys *constraint.System, pk *ProvingKey, assignment *constraint.Assignment, opts ...ProverOption) (*Proof, error) {
	cfg, err := newProverConfig(opts...)
	if err != nil {
		return nil, err
	}
	if !sys.Finalized() {
		return nil, constraint.ErrNotFinalized
	}
	shapeID, err := sys.ShapeID()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(shapeID[:], pk.ShapeID[:]) {
		return nil, fmt.Errorf("%w: proving key was set up for a different circuit", constraint.ErrShapeMismatch)
	}
	if err := sys.CheckSatisfied(assignment); err != nil {
		return nil, err
	}
	log := logger.Logger().With().Str("backend", "groth16").Logger()

	nbWires := sys.NbVariables()
	wireValues := make([]fr.Element, nbWires)
	for i := 0; i < nbWires; i++ {
		wireValues[i] = assignment.Value(sys.VariableAt(uint32(i)))
	}

	// evaluate the three constraint sides per gate, padded to the domain
	n := int(pk.Domain.Cardinality)
	a := make([]fr.Element, n)
	b := make([]fr.Element, n)
	c := make([]fr.Element, n)
	for j, gate := range sys.Constraints() {
		a[j] = gate.L.Evaluate(assignment)
		b[j] = gate.R.Evaluate(assignment)
		c[j] = gate.O.Evaluate(assignment)
	}

	// H (witness reduction, coset FFT) while the MSMs are scheduled
	chH := make(chan []fr.Element, 1)
	go func() {
		chH <- computeH(a, b, c, &pk.Domain)
	}()

	var r, s fr.Element
	if _, err := r.SetRandom(); err != nil {
		return nil, err
	}
	if _, err := s.SetRandom(); err != nil {
		return nil, err
	}
	var kr fr.Element
	kr.Mul(&r, &s).Neg(&kr)

	// r[δ]1, s[δ]1, -rs[δ]1
	deltas := bn254.BatchScalarMultiplicationG1(&pk.G1.Delta, []fr.Element{r, s, kr})

	privateValues := make([]fr.Element, 0, sys.NbPrivate())
	for i := 0; i < nbWires; i++ {
		if sys.VariableAt(uint32(i)).Tag == constraint.Private {
			privateValues = append(privateValues, wireValues[i])
		}
	}

	h := <-chH

	msmCfg := ecc.MultiExpConfig{NbTasks: cfg.nbTasks}
	var (
		ar, bs1, krsPriv, krsZ bn254.G1Jac
		bs2                    bn254.G2Jac
	)
	eg := new(errgroup.Group)
	eg.Go(func() error {
		_, err := ar.MultiExp(pk.G1.A, wireValues, msmCfg)
		return err
	})
	eg.Go(func() error {
		_, err := bs1.MultiExp(pk.G1.B, wireValues, msmCfg)
		return err
	})
	eg.Go(func() error {
		_, err := bs2.MultiExp(pk.G2.B, wireValues, msmCfg)
		return err
	})
	eg.Go(func() error {
		_, err := krsPriv.MultiExp(pk.G1.K, privateValues, msmCfg)
		return err
	})
	eg.Go(func() error {
		if len(pk.G1.Z) == 0 {
			return nil
		}
		_, err := krsZ.MultiExp(pk.G1.Z, h[:len(pk.G1.Z)], msmCfg)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var rBig, sBig big.Int
	r.BigInt(&rBig)
	s.BigInt(&sBig)

	proof := &Proof{}

	// Ar = α + Σ wᵢ·Aᵢ(τ) + r·δ
	ar.AddMixed(&pk.G1.Alpha)
	ar.AddMixed(&deltas[0])
	proof.Ar.FromJacobian(&ar)

	// Bs1 = β + Σ wᵢ·Bᵢ(τ) + s·δ, in G1, feeds Krs
	bs1.AddMixed(&pk.G1.Beta)
	bs1.AddMixed(&deltas[1])

	// Bs = β + Σ wᵢ·Bᵢ(τ) + s·δ, in G2
	var deltaS bn254.G2Jac
	deltaS.FromAffine(&pk.G2.Delta)
	deltaS.ScalarMultiplication(&deltaS, &sBig)
	bs2.AddAssign(&deltaS)
	bs2.AddMixed(&pk.G2.Beta)
	proof.Bs.FromJacobian(&bs2)

	// Krs = Σ_priv wᵢ·Kᵢ + H(τ)Z(τ)/δ + s·Ar + r·Bs1 - rs·δ
	var p1 bn254.G1Jac
	krs := krsPriv
	krs.AddAssign(&krsZ)
	krs.AddMixed(&deltas[2])
	p1.ScalarMultiplication(&ar, &sBig)
	krs.AddAssign(&p1)
	p1.ScalarMultiplication(&bs1, &rBig)
	krs.AddAssign(&p1)
	proof.Krs.FromJacobian(&krs)

	log.Debug().Int("constraints", sys.NbConstraints()).Msg("proof generated")
	return proof, nil
}

// computeH returns the coefficients of H = (A·B - C)/Z, the quotient by the
// vanishing polynomial of the domain:
//
//	1. interpolate a, b, c over the domain
//	2. evaluate them on the coset gH, where Z is the nonzero constant gⁿ-1
//	3. divide pointwise and interpolate back
func computeH(a, b, c []fr.Element, domain *fft.Domain) []fr.Element {
	n := len(a)

	domain.FFTInverse(a, fft.DIF)
	domain.FFTInverse(b, fft.DIF)
	domain.FFTInverse(c, fft.DIF)

	domain.FFT(a, fft.DIT, fft.OnCoset())
	domain.FFT(b, fft.DIT, fft.OnCoset())
	domain.FFT(c, fft.DIT, fft.OnCoset())

	var den, one fr.Element
	one.SetOne()
	den.Exp(domain.FrMultiplicativeGen, new(big.Int).SetUint64(domain.Cardinality))
	den.Sub(&den, &one).Inverse(&den)

	utils.Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			a[i].Mul(&a[i], &b[i]).
				Sub(&a[i], &c[i]).
				Mul(&a[i], &den)
		}
	})

	domain.FFTInverse(a, fft.DIF, fft.OnCoset())
	fft.BitReverse(a)
	return a
}
