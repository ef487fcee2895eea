package constraint

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func elem(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// buildProduct enforces c = a*b with private a, b and public c.
func buildProduct(t *testing.T, s *System) (a, b, c Variable) {
	t.Helper()
	var err error
	a, err = s.Allocate(Private, nil)
	require.NoError(t, err)
	b, err = s.Allocate(Private, nil)
	require.NoError(t, err)
	c, err = s.Allocate(Public, nil)
	require.NoError(t, err)
	err = s.Enforce(NewLinearCombination(a), NewLinearCombination(b), NewLinearCombination(c))
	require.NoError(t, err)
	return
}

func TestAllocate(t *testing.T) {
	assert := require.New(t)
	s := NewSystem()

	assert.Equal(1, s.NbVariables(), "fresh system owns the one-wire")
	assert.Equal(Constant, s.OneWire().Tag)

	one, ok := s.ConstantValue(s.OneWire())
	assert.True(ok)
	assert.True(one.IsOne())

	// constant allocation records its value
	five := elem(5)
	v, err := s.Allocate(Constant, &five)
	assert.NoError(err)
	got, ok := s.ConstantValue(v)
	assert.True(ok)
	assert.True(got.Equal(&five))

	// constant without value is ledger misuse
	_, err = s.Allocate(Constant, nil)
	assert.ErrorIs(err, ErrAllocation)

	// indices are sequential
	p, err := s.Allocate(Public, nil)
	assert.NoError(err)
	assert.Equal(uint32(2), p.Index)

	s.Finalize()
	_, err = s.Allocate(Private, nil)
	assert.ErrorIs(err, ErrAllocation)
	err = s.Enforce(LinearCombination{}, LinearCombination{}, LinearCombination{})
	assert.ErrorIs(err, ErrFinalized)
}

func TestCeiling(t *testing.T) {
	assert := require.New(t)
	s := NewSystem(WithCeiling(1))
	a, _ := s.Allocate(Private, nil)
	lc := NewLinearCombination(a)
	assert.NoError(s.Enforce(lc, lc, lc))
	assert.ErrorIs(s.Enforce(lc, lc, lc), ErrCeilingExceeded)
}

func TestSatisfaction(t *testing.T) {
	assert := require.New(t)
	s := NewSystem()
	a, b, c := buildProduct(t, s)

	// assignment requires a frozen ledger
	_, err := NewAssignment(s)
	assert.ErrorIs(err, ErrNotFinalized)
	s.Finalize()

	w, err := NewAssignment(s)
	assert.NoError(err)
	assert.NoError(w.Assign(a, elem(3)))
	assert.NoError(w.Assign(b, elem(4)))

	// partial witness is caught before evaluation
	assert.ErrorIs(s.CheckSatisfied(w), ErrMissingAssignment)

	assert.NoError(w.Assign(c, elem(12)))
	assert.True(s.IsSatisfied(w))
	assert.Equal([]fr.Element{elem(12)}, w.PublicInputs())

	// assign-once
	assert.ErrorIs(w.Assign(c, elem(13)), ErrAllocation)

	// a wrong witness names the violated constraint
	w2, _ := NewAssignment(s)
	_ = w2.Assign(a, elem(3))
	_ = w2.Assign(b, elem(4))
	_ = w2.Assign(c, elem(13))
	assert.ErrorIs(s.CheckSatisfied(w2), ErrUnsatisfied)
}

func TestLinearCombinationAlgebra(t *testing.T) {
	assert := require.New(t)
	s := NewSystem()
	a, _ := s.Allocate(Private, nil)
	b, _ := s.Allocate(Private, nil)
	s.Finalize()

	la := NewLinearCombination(a)
	lb := NewLinearCombination(b)

	sum := la.Add(lb).Scale(elem(2)).AddConstant(elem(7))
	diff := sum.Sub(la.Scale(elem(2)))

	w, _ := NewAssignment(s)
	_ = w.Assign(a, elem(10))
	_ = w.Assign(b, elem(20))

	got := sum.Evaluate(w)
	want := elem(67) // 2*(10+20)+7
	assert.True(got.Equal(&want))

	got = diff.Evaluate(w)
	want = elem(47)
	assert.True(got.Equal(&want))

	// cancellation drops the term entirely
	cancel := la.Sub(la)
	assert.True(cancel.IsConstant())
	assert.Len(cancel.Terms, 0)
}

func TestShapeIdentity(t *testing.T) {
	assert := require.New(t)

	build := func() *System {
		s := NewSystem()
		buildProduct(t, s)
		s.Finalize()
		return s
	}

	s1, s2 := build(), build()
	id1, err := s1.ShapeID()
	assert.NoError(err)
	id2, err := s2.ShapeID()
	assert.NoError(err)
	assert.Equal(id1, id2, "same structure, same shape")

	// one extra constraint changes the shape
	s3 := NewSystem()
	a, b, c := buildProduct(t, s3)
	_ = s3.Enforce(NewLinearCombination(a).Add(NewLinearCombination(b)),
		NewLinearCombination(s3.OneWire()), NewLinearCombination(c))
	s3.Finalize()
	id3, err := s3.ShapeID()
	assert.NoError(err)
	assert.NotEqual(id1, id3)

	// shape is undefined on a live ledger
	s4 := NewSystem()
	_, err = s4.ShapeID()
	assert.ErrorIs(err, ErrNotFinalized)
}

func TestSerializationRoundTrip(t *testing.T) {
	assert := require.New(t)

	s := NewSystem()
	seven := elem(7)
	k, err := s.Allocate(Constant, &seven)
	assert.NoError(err)
	a, b, c := buildProduct(t, s)
	_ = s.Enforce(NewLinearCombination(a).Add(NewLinearCombination(k)),
		NewLinearCombination(s.OneWire()),
		NewLinearCombination(b).AddConstant(elem(7)))
	s.Finalize()

	var buf bytes.Buffer
	written, err := s.WriteTo(&buf)
	assert.NoError(err)
	assert.Equal(int64(buf.Len()), written)

	var got System
	read, err := got.ReadFrom(&buf)
	assert.NoError(err)
	assert.Equal(written, read)

	assert.Equal(s.NbVariables(), got.NbVariables())
	assert.Equal(s.NbConstraints(), got.NbConstraints())
	assert.Equal(s.NbPublic(), got.NbPublic())
	assert.True(got.Finalized())

	idWant, _ := s.ShapeID()
	idGot, err := got.ShapeID()
	assert.NoError(err)
	assert.Equal(idWant, idGot)

	// the deserialized system still evaluates witnesses
	w, err := NewAssignment(&got)
	assert.NoError(err)
	_ = w.Assign(got.VariableAt(a.Index), elem(3))
	_ = w.Assign(got.VariableAt(b.Index), elem(3))
	_ = w.Assign(got.VariableAt(c.Index), elem(9))
	assert.True(got.IsSatisfied(w))

	// a live system cannot be serialized
	live := NewSystem()
	_, err = live.WriteTo(&buf)
	assert.ErrorIs(err, ErrNotFinalized)
}
