package groth16

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/blang/semver/v4"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// Version tags serialized keys. Deserialization rejects blobs written by a
// different major version. Proofs carry no header: they are fixed-size
// point encodings.
var Version = semver.MustParse("1.0.0")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

func writeHeader(w io.Writer, shapeID [32]byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(Version.Major)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(Version.Minor)); err != nil {
		return err
	}
	_, err := w.Write(shapeID[:])
	return err
}

func readHeader(r io.Reader, shapeID *[32]byte) error {
	var major, minor uint32
	if err := binary.Read(r, binary.BigEndian, &major); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &minor); err != nil {
		return err
	}
	if uint64(major) != Version.Major {
		return fmt.Errorf("incompatible key version %d.%d (current %s)", major, minor, Version)
	}
	_, err := io.ReadFull(r, shapeID[:])
	return err
}

// WriteTo serializes the proof as three compressed points; the output is
// fixed size.
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := bn254.NewEncoder(w)
	for _, v := range []interface{}{&proof.Ar, &proof.Bs, &proof.Krs} {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom decodes a proof. The decoder enforces point validity and subgroup
// membership, so corrupted bytes surface as a decode error here, never as a
// panic later.
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := bn254.NewDecoder(r)
	for _, v := range []interface{}{&proof.Ar, &proof.Bs, &proof.Krs} {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}

// WriteTo serializes the proving key: version and shape header, domain
// cardinality, then the point tables.
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := writeHeader(cw, pk.ShapeID); err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.BigEndian, pk.Domain.Cardinality); err != nil {
		return cw.n, err
	}
	enc := bn254.NewEncoder(cw)
	toEncode := []interface{}{
		&pk.G1.Alpha, &pk.G1.Beta, &pk.G1.Delta,
		&pk.G2.Beta, &pk.G2.Delta,
		pk.G1.A, pk.G1.B, pk.G1.K, pk.G1.Z,
		pk.G2.B,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// ReadFrom deserializes a proving key written with WriteTo.
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	if err := readHeader(cr, &pk.ShapeID); err != nil {
		return cr.n, err
	}
	var cardinality uint64
	if err := binary.Read(cr, binary.BigEndian, &cardinality); err != nil {
		return cr.n, err
	}
	pk.Domain = *fft.NewDomain(cardinality)
	dec := bn254.NewDecoder(cr)
	toDecode := []interface{}{
		&pk.G1.Alpha, &pk.G1.Beta, &pk.G1.Delta,
		&pk.G2.Beta, &pk.G2.Delta,
		&pk.G1.A, &pk.G1.B, &pk.G1.K, &pk.G1.Z,
		&pk.G2.B,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return cr.n, err
		}
	}
	return cr.n, nil
}

// WriteTo serializes the verifying key: header, points, constant table.
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := writeHeader(cw, vk.ShapeID); err != nil {
		return cw.n, err
	}
	enc := bn254.NewEncoder(cw)
	toEncode := []interface{}{
		&vk.G1.Alpha,
		&vk.G2.Beta, &vk.G2.Gamma, &vk.G2.Delta,
		vk.G1.K,
		vk.constantValues,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return cw.n, err
		}
	}
	mask, err := vk.constants.MarshalBinary()
	if err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.BigEndian, uint32(len(mask))); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(mask); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom deserializes a verifying key and recomputes the derived pairing
// values.
func (vk *VerifyingKey) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	if err := readHeader(cr, &vk.ShapeID); err != nil {
		return cr.n, err
	}
	dec := bn254.NewDecoder(cr)
	toDecode := []interface{}{
		&vk.G1.Alpha,
		&vk.G2.Beta, &vk.G2.Gamma, &vk.G2.Delta,
		&vk.G1.K,
		&vk.constantValues,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return cr.n, err
		}
	}
	var maskLen uint32
	if err := binary.Read(cr, binary.BigEndian, &maskLen); err != nil {
		return cr.n, err
	}
	mask := make([]byte, maskLen)
	if _, err := io.ReadFull(cr, mask); err != nil {
		return cr.n, err
	}
	vk.constants = bitset.New(uint(len(vk.G1.K)))
	if err := vk.constants.UnmarshalBinary(mask); err != nil {
		return cr.n, err
	}
	if err := vk.precompute(); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}
