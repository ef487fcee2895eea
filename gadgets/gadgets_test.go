package gadgets

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

func elem(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// runBoth executes the same build under both strategies, checks the
// constrained witness satisfies its system, and returns the two value sets
// for comparison.
func runBoth(t *testing.T, build func(e *circuit.Environment) []circuit.Wire) ([]fr.Element, []fr.Element) {
	t.Helper()

	values := func(ws []circuit.Wire) []fr.Element {
		res := make([]fr.Element, len(ws))
		for i, w := range ws {
			res[i] = w.Value()
		}
		return res
	}

	nEnv := circuit.NewEnvironment(circuit.Native)
	nVals := values(build(nEnv))

	cEnv := circuit.NewEnvironment(circuit.Constrained)
	cVals := values(build(cEnv))
	sys, w, err := cEnv.Finalize()
	require.NoError(t, err)
	require.NoError(t, sys.CheckSatisfied(w))

	require.Equal(t, len(nVals), len(cVals))
	for i := range nVals {
		require.True(t, nVals[i].Equal(&cVals[i]),
			"mode divergence at output %d: native %s, constrained %s", i, nVals[i].String(), cVals[i].String())
	}
	return nVals, cVals
}

func TestBooleanTruthTables(t *testing.T) {
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
				x := NewBoolean(e, a, constraint.Private)
				y := NewBoolean(e, b, constraint.Private)
				return []circuit.Wire{
					x.And(y).Wire(),
					x.Or(y).Wire(),
					x.Xor(y).Wire(),
					x.Not().Wire(),
					x.Nand(y).Wire(),
					x.Nor(y).Wire(),
					x.Equal(y).Wire(),
				}
			})

			expect := []bool{a && b, a || b, a != b, !a, !(a && b), !(a || b), a == b}
			for i, want := range expect {
				got := nVals[i].IsOne()
				require.Equal(t, want, got, "op %d with a=%v b=%v", i, a, b)
			}
		}
	}
}

func TestFieldOperations(t *testing.T) {
	runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		a := NewField(e, elem(17), constraint.Private)
		b := NewField(e, elem(5), constraint.Public)
		return []circuit.Wire{
			a.Add(b).Wire(),
			a.Sub(b).Wire(),
			a.Neg().Wire(),
			a.Mul(b).Wire(),
			a.Div(b).Wire(),
			a.Inverse().Wire(),
			a.Square().Wire(),
			a.Pow(11).Wire(),
			a.IsZero().Wire(),
			a.Equal(b).Wire(),
			a.NotEqual(b).Wire(),
		}
	})

	// spot checks against native arithmetic
	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		a := NewField(e, elem(6), constraint.Private)
		b := NewField(e, elem(7), constraint.Private)
		return []circuit.Wire{a.Mul(b).Wire(), a.Pow(3).Wire()}
	})
	want := elem(42)
	require.True(t, nVals[0].Equal(&want))
	want = elem(216)
	require.True(t, nVals[1].Equal(&want))
}

func TestFieldBitsRoundTrip(t *testing.T) {
	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		a := NewField(e, elem(0xABCD), constraint.Private)
		bits := a.ToBits(16)
		return []circuit.Wire{FieldFromBits(e, bits).Wire()}
	})
	want := elem(0xABCD)
	require.True(t, nVals[0].Equal(&want))
}

func TestIntegerWrappedMatchesGo(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("u8 wrapped arithmetic follows two's complement", prop.ForAll(
		func(a, b uint8) bool {
			nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
				x := NewInteger[uint8](e, a, constraint.Private)
				y := NewInteger[uint8](e, b, constraint.Private)
				return []circuit.Wire{
					x.AddWrapped(y).packed(),
					x.SubWrapped(y).packed(),
					x.MulWrapped(y).packed(),
					x.NegWrapped().packed(),
				}
			})
			expect := []uint64{uint64(a + b), uint64(a - b), uint64(a * b), uint64(-a)}
			for i, want := range expect {
				w := elem(want)
				if !nVals[i].Equal(&w) {
					return false
				}
			}
			return true
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.Property("u64 bitwise and comparisons follow Go", prop.ForAll(
		func(a, b uint64) bool {
			nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
				x := NewInteger[uint64](e, a, constraint.Private)
				y := NewInteger[uint64](e, b, constraint.Private)
				return []circuit.Wire{
					x.And(y).packed(),
					x.Or(y).packed(),
					x.Xor(y).packed(),
					x.Not().packed(),
					x.LessThan(y).Wire(),
					x.GreaterOrEqual(y).Wire(),
					x.Equal(y).Wire(),
				}
			})
			boolToU64 := func(b bool) uint64 {
				if b {
					return 1
				}
				return 0
			}
			expect := []uint64{a & b, a | b, a ^ b, ^a, boolToU64(a < b), boolToU64(a >= b), boolToU64(a == b)}
			for i, want := range expect {
				w := elem(want)
				if !nVals[i].Equal(&w) {
					return false
				}
			}
			return true
		},
		gen.UInt64(), gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestIntegerCheckedDivision(t *testing.T) {
	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		x := NewInteger[uint32](e, 1000, constraint.Private)
		y := NewInteger[uint32](e, 7, constraint.Private)
		return []circuit.Wire{x.DivChecked(y).packed()}
	})
	want := elem(142)
	require.True(t, nVals[0].Equal(&want))
}

func TestIntegerShifts(t *testing.T) {
	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		x := NewInteger[uint16](e, 0x0F0F, constraint.Private)
		return []circuit.Wire{
			x.Shl(4).packed(),
			x.Shr(8).packed(),
			x.Shl(16).packed(),
		}
	})
	expect := []uint64{0xF0F0, 0x000F, 0}
	for i, want := range expect {
		w := elem(want)
		require.True(t, nVals[i].Equal(&w))
	}
}

// Checked overflow must fail the build in both modes: natively as an
// immediate panic, constrained as an unsatisfiable witness.
func TestCheckedOverflowFailsBothModes(t *testing.T) {
	assert := require.New(t)

	build := func(e *circuit.Environment) {
		x := NewInteger[uint8](e, 200, constraint.Private)
		y := NewInteger[uint8](e, 100, constraint.Private)
		x.AddChecked(y)
	}

	// native panics at the carry assertion
	func() {
		defer func() {
			err, ok := recover().(error)
			assert.True(ok)
			assert.ErrorIs(err, constraint.ErrUnsatisfied)
		}()
		build(circuit.NewEnvironment(circuit.Native))
	}()

	// constrained fails at finalize
	e := circuit.NewEnvironment(circuit.Constrained)
	build(e)
	_, _, err := e.Finalize()
	assert.ErrorIs(err, constraint.ErrUnsatisfied)
}

func TestIntegerCasts(t *testing.T) {
	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		x := NewInteger[uint8](e, 250, constraint.Private)
		wide := ResizeInteger[uint32](x)
		f := wide.ToField()
		back := IntegerFromField[uint16](f)
		return []circuit.Wire{wide.packed(), f.Wire(), back.packed()}
	})
	for _, v := range nVals {
		want := elem(250)
		require.True(t, v.Equal(&want))
	}

	// narrowing a value that does not fit fails the build
	e := circuit.NewEnvironment(circuit.Constrained)
	x := NewInteger[uint16](e, 300, constraint.Private)
	ResizeInteger[uint8](x)
	_, _, err := e.Finalize()
	require.ErrorIs(t, err, constraint.ErrUnsatisfied)
}

func TestGroupAgainstReference(t *testing.T) {
	assert := require.New(t)
	params := twistededwards.GetEdwardsCurve()

	g := params.Base
	var g2, g3 twistededwards.PointAffine
	g2.Add(&g, &g)
	g3.Add(&g2, &g)

	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		p := NewGroup(e, g, constraint.Private)
		sum := p.Double().Add(p) // 3g
		neg := p.Neg()
		return []circuit.Wire{sum.Wires()[0], sum.Wires()[1], neg.Wires()[0], neg.Wires()[1]}
	})
	assert.True(nVals[0].Equal(&g3.X))
	assert.True(nVals[1].Equal(&g3.Y))

	var negG twistededwards.PointAffine
	negG.Neg(&g)
	assert.True(nVals[2].Equal(&negG.X))
	assert.True(nVals[3].Equal(&negG.Y))
}

func TestScalarMulAgainstReference(t *testing.T) {
	assert := require.New(t)
	params := twistededwards.GetEdwardsCurve()

	k := big.NewInt(113)
	var want twistededwards.PointAffine
	want.ScalarMultiplication(&params.Base, k)

	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		p := NewGroup(e, params.Base, constraint.Private)
		s := NewScalar(e, k, constraint.Private)
		res := p.ScalarMul(s)
		fixed := GeneratorMul(e, s)
		return []circuit.Wire{res.Wires()[0], res.Wires()[1], fixed.Wires()[0], fixed.Wires()[1]}
	})
	assert.True(nVals[0].Equal(&want.X))
	assert.True(nVals[1].Equal(&want.Y))
	assert.True(nVals[2].Equal(&want.X))
	assert.True(nVals[3].Equal(&want.Y))
}

func TestOffCurvePointRejected(t *testing.T) {
	var bogus twistededwards.PointAffine
	bogus.X = elem(2)
	bogus.Y = elem(3)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.ErrorIs(t, err, constraint.ErrUnsatisfied)
	}()
	NewGroup(circuit.NewEnvironment(circuit.Native), bogus, constraint.Private)
}

func TestMiMCMatchesNativeReference(t *testing.T) {
	assert := require.New(t)

	inputs := []fr.Element{elem(1), elem(2), elem(3)}

	ref := mimc.NewMiMC()
	for _, in := range inputs {
		b := in.Bytes()
		_, err := ref.Write(b[:])
		assert.NoError(err)
	}
	var want fr.Element
	want.SetBytes(ref.Sum(nil))

	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		fs := make([]Field, len(inputs))
		for i, in := range inputs {
			fs[i] = NewField(e, in, constraint.Private)
		}
		return []circuit.Wire{HashToField(e, fs...).Wire()}
	})
	assert.True(nVals[0].Equal(&want), "circuit digest %s, reference %s", nVals[0].String(), want.String())
}

func TestPedersenCommitment(t *testing.T) {
	assert := require.New(t)

	commit := func(msg uint64, rand int64) [2]fr.Element {
		var out [2]fr.Element
		nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
			m := NewField(e, elem(msg), constraint.Private)
			r := NewScalar(e, big.NewInt(rand), constraint.Private)
			c, err := PedersenCommit(e, []Field{m}, r)
			require.NoError(t, err)
			return c.Wires()
		})
		out[0], out[1] = nVals[0], nVals[1]
		return out
	}

	c1 := commit(42, 1001)
	c2 := commit(42, 1001)
	assert.Equal(c1, c2, "commitment is deterministic")

	c3 := commit(42, 1002)
	assert.NotEqual(c1, c3, "different randomness, different commitment")

	c4 := commit(43, 1001)
	assert.NotEqual(c1, c4, "different message, different commitment")
}

func TestStringOperations(t *testing.T) {
	assert := require.New(t)

	nVals, _ := runBoth(t, func(e *circuit.Environment) []circuit.Wire {
		s1, err := NewString(e, "hello, snark", 64, constraint.Private)
		require.NoError(t, err)
		s2, err := NewString(e, "hello, snark", 64, constraint.Private)
		require.NoError(t, err)
		s3, err := NewString(e, "goodbye", 64, constraint.Private)
		require.NoError(t, err)

		eq, err := s1.Equal(s2)
		require.NoError(t, err)
		neq, err := s1.Equal(s3)
		require.NoError(t, err)
		return []circuit.Wire{eq.Wire(), neq.Wire(), s1.Hash().Wire()}
	})
	assert.True(nVals[0].IsOne())
	assert.True(nVals[1].IsZero())

	// over-capacity value is rejected
	e := circuit.NewEnvironment(circuit.Native)
	_, err := NewString(e, "this is way too long", 8, constraint.Private)
	assert.Error(err)

	// native round trip
	s, err := NewString(e, "abc", 40, constraint.Private)
	assert.NoError(err)
	assert.Equal("abc", s.Value())
}

// Conditional select: the result follows cond, and the constraint-system
// shape is identical whichever branch the witness takes.
func TestSelectValueAndShape(t *testing.T) {
	assert := require.New(t)

	build := func(cond bool) ([32]byte, fr.Element) {
		e := circuit.NewEnvironment(circuit.Constrained)
		c := NewBoolean(e, cond, constraint.Private)
		a := NewField(e, elem(5), constraint.Private)
		b := NewField(e, elem(9), constraint.Private)
		res, err := Select(c, a, b)
		assert.NoError(err)
		MakePublic(res)
		sys, w, err := e.Finalize()
		assert.NoError(err)
		assert.NoError(sys.CheckSatisfied(w))
		id, err := sys.ShapeID()
		assert.NoError(err)
		return id, w.PublicInputs()[0]
	}

	idTrue, vTrue := build(true)
	idFalse, vFalse := build(false)

	want := elem(5)
	assert.True(vTrue.Equal(&want))
	want = elem(9)
	assert.True(vFalse.Equal(&want))
	assert.Equal(idTrue, idFalse, "only the witness differs across cond values, not the structure")
}

func TestMixedKindOperationsRejected(t *testing.T) {
	assert := require.New(t)
	e := circuit.NewEnvironment(circuit.Native)

	f := NewField(e, elem(1), constraint.Private)
	b := NewBoolean(e, true, constraint.Private)

	_, err := Equal(f, b)
	assert.Error(err)

	_, err = Select(b, f, b)
	assert.Error(err)
}
