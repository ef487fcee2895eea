package circuit

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkprivacy/snarkVM/constraint"
)

func elem(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

func TestConstraintCosts(t *testing.T) {
	assert := require.New(t)

	cost := func(op func(e *Environment, a, b Wire)) int {
		e := NewEnvironment(Constrained)
		a := e.PrivateInput(elem(1))
		b := e.PrivateInput(elem(0))
		e.AssertIsBoolean(a)
		e.AssertIsBoolean(b)
		before := e.NbConstraints()
		op(e, a, b)
		return e.NbConstraints() - before
	}

	// linear operations are free
	assert.Equal(0, cost(func(e *Environment, a, b Wire) { e.Add(a, b) }))
	assert.Equal(0, cost(func(e *Environment, a, b Wire) { e.Sub(a, b) }))
	assert.Equal(0, cost(func(e *Environment, a, b Wire) { e.Neg(a) }))
	assert.Equal(0, cost(func(e *Environment, a, b Wire) { e.Not(a) }))
	assert.Equal(0, cost(func(e *Environment, a, b Wire) { e.MulConstant(a, elem(42)) }))

	// one multiplicative constraint
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.Mul(a, b) }))
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.And(a, b) }))
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.Or(a, b) }))
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.Xor(a, b) }))
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.Select(a, a, b) }))
	assert.Equal(1, cost(func(e *Environment, a, b Wire) { e.Inverse(a) }))

	assert.Equal(2, cost(func(e *Environment, a, b Wire) { e.Div(a, a) }))
	assert.Equal(2, cost(func(e *Environment, a, b Wire) { e.IsZero(a) }))

	// n boolean constraints plus one recomposition
	assert.Equal(9, cost(func(e *Environment, a, b Wire) { e.ToBits(a, 8) }))

	// multiplication by a compile-time constant folds to a linear rewrite
	e := NewEnvironment(Constrained)
	a := e.PrivateInput(elem(3))
	before := e.NbConstraints()
	e.Mul(a, e.Constant(elem(7)))
	assert.Equal(before, e.NbConstraints())
}

func TestModeDuality(t *testing.T) {
	assert := require.New(t)

	// the same computation under both strategies must produce the same value
	run := func(mode Mode) fr.Element {
		e := NewEnvironment(mode)
		a := e.PrivateInput(elem(11))
		b := e.PrivateInput(elem(4))
		cond := e.IsZero(e.Sub(a, e.Constant(elem(11)))) // 1
		sum := e.Add(e.Mul(a, b), e.Div(a, a))           // 45
		res := e.Select(cond, sum, b)
		bits := e.ToBits(res, 8)
		return e.FromBits(bits).Value()
	}

	nativeRes := run(Native)
	constrainedRes := run(Constrained)
	assert.True(nativeRes.Equal(&constrainedRes))
	want := elem(45)
	assert.True(nativeRes.Equal(&want))
}

func TestFinalize(t *testing.T) {
	assert := require.New(t)

	e := NewEnvironment(Constrained)
	a := e.PrivateInput(elem(6))
	b := e.PrivateInput(elem(7))
	out := e.PublicOutput(e.Mul(a, b))
	assert.Equal(elem(42), out.Value())

	sys, w, err := e.Finalize()
	assert.NoError(err)
	assert.True(sys.Finalized())
	assert.NoError(sys.CheckSatisfied(w))
	assert.Equal([]fr.Element{elem(42)}, w.PublicInputs())

	// native environments have no ledger to finalize
	n := NewEnvironment(Native)
	_, _, err = n.Finalize()
	assert.ErrorIs(err, constraint.ErrModeMismatch)
}

func TestScopeAccounting(t *testing.T) {
	assert := require.New(t)

	e := NewEnvironment(Constrained)
	a := e.PrivateInput(elem(2))
	b := e.PrivateInput(elem(3))

	err := e.WithScope("outer", func() error {
		e.Mul(a, b)
		return e.WithScope("inner", func() error {
			e.Mul(a, b)
			e.Mul(a, b)
			return nil
		})
	})
	assert.NoError(err)

	report := e.CostReport()
	assert.Equal("root", report.Label)
	assert.Equal(3, report.NbConstraints)
	assert.Len(report.Children, 1)

	outer := report.Children[0]
	assert.Equal("outer", outer.Label)
	assert.Equal(3, outer.NbConstraints)
	assert.Len(outer.Children, 1)
	assert.Equal("inner", outer.Children[0].Label)
	assert.Equal(2, outer.Children[0].NbConstraints)

	// the frame pops on failure too
	sentinel := errors.New("boom")
	err = e.WithScope("failing", func() error { return sentinel })
	assert.ErrorIs(err, sentinel)
	e.Mul(a, b) // attributed to root, not to the popped frame
	report = e.CostReport()
	assert.Equal(4, report.NbConstraints)
	assert.Equal(0, report.Children[1].NbConstraints)
}

func TestModeMixingPanics(t *testing.T) {
	assert := require.New(t)

	e1 := NewEnvironment(Constrained)
	e2 := NewEnvironment(Native)
	a := e1.PrivateInput(elem(1))
	b := e2.PrivateInput(elem(1))

	defer func() {
		r := recover()
		assert.NotNil(r)
		err, ok := r.(error)
		assert.True(ok)
		assert.ErrorIs(err, constraint.ErrModeMismatch)
	}()
	e1.Add(a, b)
}

func TestAssertionsFailTheBuild(t *testing.T) {
	assert := require.New(t)

	// native: immediate panic
	func() {
		defer func() {
			err, ok := recover().(error)
			assert.True(ok)
			assert.ErrorIs(err, constraint.ErrUnsatisfied)
		}()
		e := NewEnvironment(Native)
		e.AssertIsEqual(e.PrivateInput(elem(1)), e.PrivateInput(elem(2)))
	}()

	// constrained: the emitted constraint has no satisfying witness
	e := NewEnvironment(Constrained)
	e.AssertIsEqual(e.PrivateInput(elem(1)), e.PrivateInput(elem(2)))
	_, _, err := e.Finalize()
	assert.ErrorIs(err, constraint.ErrUnsatisfied)
}

func TestShapeIndependentOfValues(t *testing.T) {
	assert := require.New(t)

	build := func(x, y uint64) [32]byte {
		e := NewEnvironment(Constrained)
		a := e.PrivateInput(elem(x))
		b := e.PrivateInput(elem(y))
		cond := e.IsZero(e.Sub(a, b))
		e.PublicOutput(e.Select(cond, a, e.Mul(a, b)))
		sys, _, err := e.Finalize()
		assert.NoError(err)
		id, err := sys.ShapeID()
		assert.NoError(err)
		return id
	}

	id1 := build(3, 3)
	id2 := build(5, 8)
	assert.Equal(id1, id2, "shape depends on structure, never on input values")
}
