package groth16

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/synthesizer"
)

// mulCheckProgram proves knowledge of private a, b with a*b + 2 == c for a
// public c.
func mulCheckProgram() *synthesizer.Program {
	return &synthesizer.Program{
		Name: "mulcheck",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "c", Type: "u64", Visibility: "public"},
				{Register: "a", Type: "u64", Visibility: "private"},
				{Register: "b", Type: "u64", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "mul", Operands: []synthesizer.Operand{{Register: "a"}, {Register: "b"}}, Destinations: []string{"p"}},
				{Opcode: "add", Operands: []synthesizer.Operand{{Register: "p"}, {Type: "u64", Value: "2"}}, Destinations: []string{"s"}},
				{Opcode: "is.eq", Operands: []synthesizer.Operand{{Register: "s"}, {Register: "c"}}, Destinations: []string{"ok"}},
			},
			Outputs: []synthesizer.Output{{Operand: "ok", Type: "boolean"}},
		}},
	}
}

func synthesize(t *testing.T, p *synthesizer.Program, public, private []string) *synthesizer.Synthesis {
	t.Helper()
	synth, err := synthesizer.Synthesize(p, "main", public, private)
	require.NoError(t, err)
	return synth
}

// squareSystem builds x*x == y by hand: one public wire y, one private wire x.
func squareSystem(t *testing.T) (*constraint.System, constraint.Variable, constraint.Variable) {
	t.Helper()
	sys := constraint.NewSystem()
	y, err := sys.Allocate(constraint.Public, nil)
	require.NoError(t, err)
	x, err := sys.Allocate(constraint.Private, nil)
	require.NoError(t, err)
	lx := constraint.NewLinearCombination(x)
	require.NoError(t, sys.Enforce(lx, lx, constraint.NewLinearCombination(y)))
	sys.Finalize()
	return sys, x, y
}

func squareAssignment(t *testing.T, sys *constraint.System, x, y constraint.Variable, xv, yv uint64) *constraint.Assignment {
	t.Helper()
	a, err := constraint.NewAssignment(sys)
	require.NoError(t, err)
	var e fr.Element
	require.NoError(t, a.Assign(x, *e.SetUint64(xv)))
	require.NoError(t, a.Assign(y, *e.SetUint64(yv)))
	return a
}

func TestProveVerifyRoundTrip(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})

	pk, vk, err := Setup(synth.System)
	require.NoError(t, err)
	require.Equal(t, len(synth.Response.PublicInputs), vk.NbPublicInputs())

	proof, err := Prove(synth.System, pk, synth.Assignment, WithProverTasks(2))
	require.NoError(t, err)

	ok, err := Verify(vk, proof, synth.Response.PublicInputs)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = Prove(synth.System, pk, synth.Assignment, WithProverTasks(0))
	require.ErrorContains(t, err, "prover tasks")

	// a tampered public input is a clean rejection, not an error
	tampered := append([]fr.Element(nil), synth.Response.PublicInputs...)
	var one fr.Element
	one.SetOne()
	tampered[0].Add(&tampered[0], &one)
	ok, err = Verify(vk, proof, tampered)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyChecksPublicInputCount(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})
	pk, vk, err := Setup(synth.System)
	require.NoError(t, err)
	proof, err := Prove(synth.System, pk, synth.Assignment)
	require.NoError(t, err)

	_, err = Verify(vk, proof, synth.Response.PublicInputs[:1])
	require.ErrorContains(t, err, "public inputs")
}

func TestKeysAreBoundToShape(t *testing.T) {
	mul := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})

	other := &synthesizer.Program{
		Name: "logic",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "a", Type: "boolean", Visibility: "private"},
				{Register: "b", Type: "boolean", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "and", Operands: []synthesizer.Operand{{Register: "a"}, {Register: "b"}}, Destinations: []string{"c"}},
			},
			Outputs: []synthesizer.Output{{Operand: "c", Type: "boolean"}},
		}},
	}
	logic := synthesize(t, other, nil, []string{"true", "false"})

	pk, _, err := Setup(mul.System)
	require.NoError(t, err)

	_, err = Prove(logic.System, pk, logic.Assignment)
	require.ErrorIs(t, err, constraint.ErrShapeMismatch)
}

func TestProveRejectsUnsatisfiedAssignment(t *testing.T) {
	sys, x, y := squareSystem(t)
	pk, _, err := Setup(sys)
	require.NoError(t, err)

	bad := squareAssignment(t, sys, x, y, 3, 10)
	_, err = Prove(sys, pk, bad)
	require.ErrorIs(t, err, constraint.ErrUnsatisfied)
}

func TestHandBuiltSystem(t *testing.T) {
	sys, x, y := squareSystem(t)
	pk, vk, err := Setup(sys)
	require.NoError(t, err)
	require.Equal(t, 1, vk.NbPublicInputs())

	good := squareAssignment(t, sys, x, y, 3, 9)
	proof, err := Prove(sys, pk, good)
	require.NoError(t, err)

	ok, err := Verify(vk, proof, good.PublicInputs())
	require.NoError(t, err)
	require.True(t, ok)

	var eight fr.Element
	eight.SetUint64(8)
	ok, err = Verify(vk, proof, []fr.Element{eight})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProofSerialization(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})
	pk, vk, err := Setup(synth.System)
	require.NoError(t, err)
	proof, err := Prove(synth.System, pk, synth.Assignment)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := proof.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	var decoded Proof
	m, err := decoded.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, n, m)
	require.Equal(t, *proof, decoded)

	ok, err := Verify(vk, &decoded, synth.Response.PublicInputs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCorruptedProofNeverVerifies(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})
	pk, vk, err := Setup(synth.System)
	require.NoError(t, err)
	proof, err := Prove(synth.System, pk, synth.Assignment)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = proof.WriteTo(&buf)
	require.NoError(t, err)

	// flipping any byte must end in a decode error or a rejection
	for i := 0; i < buf.Len(); i++ {
		corrupted := append([]byte(nil), buf.Bytes()...)
		corrupted[i] ^= 0x40

		var p Proof
		if _, err := p.ReadFrom(bytes.NewReader(corrupted)); err != nil {
			continue
		}
		ok, err := Verify(vk, &p, synth.Response.PublicInputs)
		require.NoError(t, err)
		require.False(t, ok, "byte %d", i)
	}
}

func TestKeySerialization(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})
	pk, vk, err := Setup(synth.System)
	require.NoError(t, err)

	var pkBuf, vkBuf bytes.Buffer
	n, err := pk.WriteTo(&pkBuf)
	require.NoError(t, err)
	require.Equal(t, int64(pkBuf.Len()), n)
	n, err = vk.WriteTo(&vkBuf)
	require.NoError(t, err)
	require.Equal(t, int64(vkBuf.Len()), n)

	var pk2 ProvingKey
	_, err = pk2.ReadFrom(bytes.NewReader(pkBuf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, pk.ShapeID, pk2.ShapeID)
	require.Equal(t, pk.Domain.Cardinality, pk2.Domain.Cardinality)

	var vk2 VerifyingKey
	_, err = vk2.ReadFrom(bytes.NewReader(vkBuf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, vk.ShapeID, vk2.ShapeID)
	require.Equal(t, vk.NbPublicInputs(), vk2.NbPublicInputs())

	// the decoded keys are fully usable
	proof, err := Prove(synth.System, &pk2, synth.Assignment)
	require.NoError(t, err)
	ok, err := Verify(&vk2, proof, synth.Response.PublicInputs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKeyVersionGuard(t *testing.T) {
	synth := synthesize(t, mulCheckProgram(), []string{"17"}, []string{"3", "5"})
	_, vk, err := Setup(synth.System)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = vk.WriteTo(&buf)
	require.NoError(t, err)

	// bump the serialized major version
	blob := append([]byte(nil), buf.Bytes()...)
	blob[3]++
	var vk2 VerifyingKey
	_, err = vk2.ReadFrom(bytes.NewReader(blob))
	require.ErrorContains(t, err, "incompatible key version")
}

func TestSetupRequiresFinalizedSystem(t *testing.T) {
	sys := constraint.NewSystem()
	_, _, err := Setup(sys)
	require.ErrorIs(t, err, constraint.ErrNotFinalized)
}
