// Package test provides a harness for end-to-end program checks: native
// execution against constrained synthesis, and the full setup/prove/verify
// pipeline.
package test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkprivacy/snarkVM/backend/groth16"
	"github.com/zkprivacy/snarkVM/synthesizer"
)

var (
	ErrSynthesisNotDeterministic = errors.New("synthesis is not deterministic")
	ErrExecutionDiverged         = errors.New("native execution and synthesis disagree")
	ErrInvalidProofVerified      = errors.New("proof verified against the wrong public inputs")
)

// Assert is a helper to test programs end to end.
type Assert struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for
// convenience.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// Run runs the test function fn as a subtest, parametrized by the
// description strings descs.
func (assert *Assert) Run(fn func(assert *Assert), descs ...string) {
	desc := strings.Join(descs, "/")
	assert.t.Run(desc, func(t *testing.T) {
		fn(&Assert{t, require.New(t)})
	})
}

// Log logs using the test instance logger.
func (assert *Assert) Log(v ...interface{}) {
	assert.t.Log(v...)
}

// ExecutionMatches executes the function natively and in constrained mode and
// fails the test if the two disagree on outputs or on the public-input
// vector. It returns the synthesis for further checks.
func (assert *Assert) ExecutionMatches(p *synthesizer.Program, function string, public, private []string) *synthesizer.Synthesis {
	resp, err := synthesizer.Run(p, function, public, private)
	assert.NoError(err, "native execution")

	synth, err := synthesizer.Synthesize(p, function, public, private)
	assert.NoError(err, "synthesis")
	assert.NoError(synth.System.CheckSatisfied(synth.Assignment))

	assert.Equal(resp.Outputs, synth.Response.Outputs, "%s", ErrExecutionDiverged)
	assert.Equal(resp.PublicInputs, synth.Response.PublicInputs, "%s", ErrExecutionDiverged)
	return synth
}

// ShapeStable synthesizes the function once per input set and fails the test
// unless every run yields the same shape identifier.
func (assert *Assert) ShapeStable(p *synthesizer.Program, function string, inputSets ...[2][]string) {
	assert.NotEmpty(inputSets)
	var first [32]byte
	for i, set := range inputSets {
		synth, err := synthesizer.Synthesize(p, function, set[0], set[1])
		assert.NoError(err)
		id, err := synth.System.ShapeID()
		assert.NoError(err)
		if i == 0 {
			first = id
			continue
		}
		assert.Equal(first, id, "%s: input set %d", ErrSynthesisNotDeterministic, i)
	}
}

// ProverSucceeded fails the test if any of the following steps errored:
//
//  1. native execution and synthesis, which must agree
//  2. Setup / Prove / Verify over the synthesized system
//  3. proof and key serialization round trips, re-proving and re-verifying
//     with the decoded artifacts
//
// It also checks that a perturbed public-input vector does not verify.
func (assert *Assert) ProverSucceeded(p *synthesizer.Program, function string, public, private []string) {
	synth := assert.ExecutionMatches(p, function, public, private)

	pk, vk, err := groth16.Setup(synth.System)
	assert.NoError(err)
	proof, err := groth16.Prove(synth.System, pk, synth.Assignment)
	assert.NoError(err)

	ok, err := groth16.Verify(vk, proof, synth.Response.PublicInputs)
	assert.NoError(err)
	assert.True(ok)

	if n := len(synth.Response.PublicInputs); n > 0 {
		tampered := append([]fr.Element(nil), synth.Response.PublicInputs...)
		var one fr.Element
		one.SetOne()
		tampered[n-1].Add(&tampered[n-1], &one)
		ok, err = groth16.Verify(vk, proof, tampered)
		assert.NoError(err)
		assert.False(ok, "%s", ErrInvalidProofVerified)
	}

	assert.roundTrip(synth, proof, pk, vk)
}

// ProverFailed fails the test unless the pipeline rejects the inputs: either
// synthesis fails, or the resulting assignment does not satisfy the system.
func (assert *Assert) ProverFailed(p *synthesizer.Program, function string, public, private []string) {
	synth, err := synthesizer.Synthesize(p, function, public, private)
	if err != nil {
		return
	}
	assert.Error(synth.System.CheckSatisfied(synth.Assignment))
}

func (assert *Assert) roundTrip(synth *synthesizer.Synthesis, proof *groth16.Proof, pk *groth16.ProvingKey, vk *groth16.VerifyingKey) {
	var buf bytes.Buffer
	_, err := proof.WriteTo(&buf)
	assert.NoError(err)
	var decodedProof groth16.Proof
	_, err = decodedProof.ReadFrom(&buf)
	assert.NoError(err)

	buf.Reset()
	_, err = pk.WriteTo(&buf)
	assert.NoError(err)
	var decodedPk groth16.ProvingKey
	_, err = decodedPk.ReadFrom(&buf)
	assert.NoError(err)

	buf.Reset()
	_, err = vk.WriteTo(&buf)
	assert.NoError(err)
	var decodedVk groth16.VerifyingKey
	_, err = decodedVk.ReadFrom(&buf)
	assert.NoError(err)

	ok, err := groth16.Verify(&decodedVk, &decodedProof, synth.Response.PublicInputs)
	assert.NoError(err)
	assert.True(ok)

	reproof, err := groth16.Prove(synth.System, &decodedPk, synth.Assignment)
	assert.NoError(err)
	ok, err = groth16.Verify(&decodedVk, reproof, synth.Response.PublicInputs)
	assert.NoError(err)
	assert.True(ok)
}
