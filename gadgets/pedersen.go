package gadgets

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2b"

	"github.com/zkprivacy/snarkVM/circuit"
)

var (
	pedersenMu      sync.Mutex
	pedersenBases   []twistededwards.PointAffine
	pedersenHiding  *twistededwards.PointAffine
	pedersenDomains = struct{ base, hiding string }{
		base:   "snarkvm.pedersen.base",
		hiding: "snarkvm.pedersen.hiding",
	}
)

// hashToPoint derives a subgroup point from a domain tag by try-and-increment:
// candidate y coordinates come from a blake2b stream until the curve equation
// has a root, then the cofactor is cleared.
func hashToPoint(domain string, index uint32) twistededwards.PointAffine {
	var cofactor = new(big.Int)
	edwards.Cofactor.BigInt(cofactor)

	var ctr uint32
	for {
		buf := make([]byte, 0, len(domain)+8)
		buf = append(buf, domain...)
		buf = binary.LittleEndian.AppendUint32(buf, index)
		buf = binary.LittleEndian.AppendUint32(buf, ctr)
		digest := blake2b.Sum256(buf)
		ctr++

		var y fr.Element
		y.SetBytes(digest[:])

		// x² = (1 - y²) / (a - d·y²)
		var y2, num, den, x2, x fr.Element
		y2.Square(&y)
		var one fr.Element
		one.SetOne()
		num.Sub(&one, &y2)
		den.Mul(&edwards.D, &y2)
		den.Sub(&edwards.A, &den)
		if den.IsZero() {
			continue
		}
		x2.Div(&num, &den)
		if x.Sqrt(&x2) == nil {
			continue
		}

		var p twistededwards.PointAffine
		p.X = x
		p.Y = y
		if !p.IsOnCurve() {
			continue
		}
		p.ScalarMultiplication(&p, cofactor)
		if p.X.IsZero() && p.Y.IsOne() {
			continue
		}
		return p
	}
}

// pedersenBase returns the i-th commitment base, derived on first use.
func pedersenBase(i int) twistededwards.PointAffine {
	pedersenMu.Lock()
	defer pedersenMu.Unlock()
	for len(pedersenBases) <= i {
		pedersenBases = append(pedersenBases,
			hashToPoint(pedersenDomains.base, uint32(len(pedersenBases))))
	}
	return pedersenBases[i]
}

// pedersenH returns the hiding base.
func pedersenH() twistededwards.PointAffine {
	pedersenMu.Lock()
	defer pedersenMu.Unlock()
	if pedersenHiding == nil {
		p := hashToPoint(pedersenDomains.hiding, 0)
		pedersenHiding = &p
	}
	return *pedersenHiding
}

// PedersenCommit commits to the inputs with blinding randomness:
//
//	C = Σ mᵢ·Gᵢ + r·H
//
// over independently derived bases Gᵢ and H. The commitment is hiding through
// the r·H term and binding through the discrete logs of the bases.
func PedersenCommit(e *circuit.Environment, inputs []Field, randomness Scalar) (Group, error) {
	if len(inputs) == 0 {
		return Group{}, fmt.Errorf("pedersen commitment over no inputs")
	}
	acc := fixedBaseMul(e, pedersenH(), randomness.Bits())
	for i, input := range inputs {
		bits := e.ToBits(input.w, fr.Bits)
		acc = acc.Add(fixedBaseMul(e, pedersenBase(i), bits))
	}
	return acc, nil
}
