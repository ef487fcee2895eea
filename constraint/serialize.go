package constraint

import (
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"github.com/ronanh/intcomp"

	"github.com/zkprivacy/snarkVM/logger"
)

// Version tags serialized constraint systems. Deserialization rejects blobs
// written by a different major version.
var Version = semver.MustParse("1.0.0")

// serializedSystem is the on-disk form: a deterministic cbor document with
// term indices integer-compressed and coefficients as raw field bytes.
type serializedSystem struct {
	Version   string   `cbor:"1,keyasint"`
	Tags      []byte   `cbor:"2,keyasint"`
	Constants []byte   `cbor:"3,keyasint"`
	LCLengths []uint32 `cbor:"4,keyasint"`
	Indices   []uint32 `cbor:"5,keyasint"`
	Coeffs    []byte   `cbor:"6,keyasint"`
	LCConsts  []byte   `cbor:"7,keyasint"`
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo serializes a finalized system.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	if !s.finalized {
		return 0, ErrNotFinalized
	}

	raw := serializedSystem{
		Version: Version.String(),
		Tags:    make([]byte, len(s.tags)),
	}
	for i, t := range s.tags {
		raw.Tags[i] = byte(t)
		if t == Constant {
			b := s.constants[i].Bytes()
			raw.Constants = append(raw.Constants, b[:]...)
		}
	}

	var indices []uint32
	raw.LCLengths = make([]uint32, 0, 3*len(s.constraints))
	for _, c := range s.constraints {
		for _, lc := range [3]LinearCombination{c.L, c.R, c.O} {
			raw.LCLengths = append(raw.LCLengths, uint32(len(lc.Terms)))
			for _, t := range lc.Terms {
				indices = append(indices, t.Variable.Index)
				b := t.Coeff.Bytes()
				raw.Coeffs = append(raw.Coeffs, b[:]...)
			}
			b := lc.Constant.Bytes()
			raw.LCConsts = append(raw.LCConsts, b[:]...)
		}
	}
	raw.Indices = intcomp.CompressUint32(indices, nil)

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	if err := em.NewEncoder(cw).Encode(&raw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom deserializes a system previously written with WriteTo. The result
// is finalized.
func (s *System) ReadFrom(r io.Reader) (int64, error) {
	var raw serializedSystem
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return int64(dec.NumBytesRead()), err
	}

	v, err := semver.Parse(raw.Version)
	if err != nil {
		return int64(dec.NumBytesRead()), fmt.Errorf("invalid version header %q: %w", raw.Version, err)
	}
	if v.Major != Version.Major {
		return int64(dec.NumBytesRead()), fmt.Errorf("incompatible serialization version %s (current %s)", v, Version)
	}

	s.tags = make([]Tag, len(raw.Tags))
	s.constants = make([]fr.Element, len(raw.Tags))
	s.nbPublic, s.nbPrivate, s.nbConstant = 0, 0, 0
	constOff := 0
	for i, b := range raw.Tags {
		t := Tag(b)
		s.tags[i] = t
		switch t {
		case Constant:
			if constOff+fr.Bytes > len(raw.Constants) {
				return int64(dec.NumBytesRead()), fmt.Errorf("%w: truncated constant table", ErrAllocation)
			}
			s.constants[i].SetBytes(raw.Constants[constOff : constOff+fr.Bytes])
			constOff += fr.Bytes
			s.nbConstant++
		case Public:
			s.nbPublic++
		case Private:
			s.nbPrivate++
		}
	}

	indices := intcomp.UncompressUint32(raw.Indices, nil)
	if len(raw.LCLengths)%3 != 0 {
		return int64(dec.NumBytesRead()), fmt.Errorf("malformed constraint table")
	}
	nbConstraints := len(raw.LCLengths) / 3
	s.constraints = make([]R1C, nbConstraints)
	termOff, lcOff := 0, 0
	readLC := func() (LinearCombination, error) {
		n := int(raw.LCLengths[lcOff])
		var lc LinearCombination
		lc.Terms = make([]Term, n)
		for k := 0; k < n; k++ {
			if termOff >= len(indices) || (termOff+1)*fr.Bytes > len(raw.Coeffs) {
				return lc, fmt.Errorf("truncated term table")
			}
			idx := indices[termOff]
			if int(idx) >= len(s.tags) {
				return lc, fmt.Errorf("%w: unknown variable %d", ErrAllocation, idx)
			}
			lc.Terms[k].Variable = Variable{Index: idx, Tag: s.tags[idx]}
			lc.Terms[k].Coeff.SetBytes(raw.Coeffs[termOff*fr.Bytes : (termOff+1)*fr.Bytes])
			termOff++
		}
		if (lcOff+1)*fr.Bytes > len(raw.LCConsts) {
			return lc, fmt.Errorf("truncated constant table")
		}
		lc.Constant.SetBytes(raw.LCConsts[lcOff*fr.Bytes : (lcOff+1)*fr.Bytes])
		lcOff++
		return lc, nil
	}
	for i := 0; i < nbConstraints; i++ {
		if s.constraints[i].L, err = readLC(); err != nil {
			return int64(dec.NumBytesRead()), err
		}
		if s.constraints[i].R, err = readLC(); err != nil {
			return int64(dec.NumBytesRead()), err
		}
		if s.constraints[i].O, err = readLC(); err != nil {
			return int64(dec.NumBytesRead()), err
		}
	}

	s.finalized = true
	s.shapeSet = false
	s.log = logger.Logger().With().Str("component", "constraint").Logger()
	return int64(dec.NumBytesRead()), nil
}
