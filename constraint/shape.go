package constraint

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Shape is the structural signature of a finalized system: everything that
// determines proving/verifying keys, nothing that depends on witness values.
type Shape struct {
	Modulus        []byte
	Tags           []Tag
	ConstantValues [][]byte // dense; empty slot for non-constant variables
	Constraints    []ShapeR1C
}

// ShapeR1C mirrors R1C with coefficients as canonical bytes.
type ShapeR1C struct {
	L, R, O ShapeLC
}

// ShapeLC mirrors LinearCombination for encoding.
type ShapeLC struct {
	Indexes  []uint32
	Coeffs   [][]byte
	Constant []byte
}

// Shape captures the structural signature of the system. It requires a
// finalized ledger: ordering is part of the signature.
func (s *System) Shape() (*Shape, error) {
	if !s.finalized {
		return nil, ErrNotFinalized
	}
	shape := &Shape{
		Modulus:        fr.Modulus().Bytes(),
		Tags:           s.tags,
		ConstantValues: make([][]byte, len(s.tags)),
		Constraints:    make([]ShapeR1C, len(s.constraints)),
	}
	for i, t := range s.tags {
		if t == Constant {
			b := s.constants[i].Bytes()
			shape.ConstantValues[i] = b[:]
		}
	}
	for i, c := range s.constraints {
		shape.Constraints[i] = ShapeR1C{
			L: shapeLC(c.L),
			R: shapeLC(c.R),
			O: shapeLC(c.O),
		}
	}
	return shape, nil
}

func shapeLC(lc LinearCombination) ShapeLC {
	res := ShapeLC{
		Indexes: make([]uint32, len(lc.Terms)),
		Coeffs:  make([][]byte, len(lc.Terms)),
	}
	for i, t := range lc.Terms {
		res.Indexes[i] = t.Variable.Index
		b := t.Coeff.Bytes()
		res.Coeffs[i] = b[:]
	}
	b := lc.Constant.Bytes()
	res.Constant = b[:]
	return res
}

// ShapeID returns the blake2b-256 digest of the deterministic cbor encoding
// of the shape. Two systems share keys iff they share a ShapeID.
func (s *System) ShapeID() ([32]byte, error) {
	if !s.finalized {
		return [32]byte{}, ErrNotFinalized
	}
	if s.shapeSet {
		return s.shapeID, nil
	}
	shape, err := s.Shape()
	if err != nil {
		return [32]byte{}, err
	}
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return [32]byte{}, err
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, err
	}
	if err := em.NewEncoder(h).Encode(shape); err != nil {
		return [32]byte{}, err
	}
	copy(s.shapeID[:], h.Sum(nil))
	s.shapeSet = true
	return s.shapeID, nil
}
