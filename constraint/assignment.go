package constraint

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Assignment maps every variable of a finalized system to its field value.
// The one-wire and all constants are prefilled; every other variable must be
// assigned exactly once.
type Assignment struct {
	system *System
	values []fr.Element
	set    *bitset.BitSet
}

// NewAssignment returns an empty assignment for a finalized system.
func NewAssignment(s *System) (*Assignment, error) {
	if !s.Finalized() {
		return nil, ErrNotFinalized
	}
	n := s.NbVariables()
	a := &Assignment{
		system: s,
		values: make([]fr.Element, n),
		set:    bitset.New(uint(n)),
	}
	for i, t := range s.tags {
		if t == Constant {
			a.values[i] = s.constants[i]
			a.set.Set(uint(i))
		}
	}
	return a, nil
}

// System returns the constraint system this assignment belongs to.
func (a *Assignment) System() *System { return a.system }

// Assign records the value of v. Constants cannot be assigned, and every
// variable accepts at most one value.
func (a *Assignment) Assign(v Variable, value fr.Element) error {
	if int(v.Index) >= len(a.values) {
		return fmt.Errorf("%w: unknown variable %d", ErrAllocation, v.Index)
	}
	if a.system.tags[v.Index] == Constant {
		return fmt.Errorf("%w: constant variable %d cannot be assigned", ErrAllocation, v.Index)
	}
	if a.set.Test(uint(v.Index)) {
		return fmt.Errorf("%w: variable %d assigned twice", ErrAllocation, v.Index)
	}
	a.values[v.Index] = value
	a.set.Set(uint(v.Index))
	return nil
}

// Value returns the assigned value of v; zero if unassigned.
func (a *Assignment) Value(v Variable) fr.Element {
	return a.values[v.Index]
}

// Assigned reports whether v already carries a value.
func (a *Assignment) Assigned(v Variable) bool {
	return a.set.Test(uint(v.Index))
}

// Complete checks totality: every variable holds a value.
func (a *Assignment) Complete() error {
	if all := a.set.Count(); all != uint(len(a.values)) {
		i, _ := a.set.NextClear(0)
		return fmt.Errorf("%w: variable %d", ErrMissingAssignment, i)
	}
	return nil
}

// PublicInputs extracts the Public variable values in allocation order. This
// is the vector handed to proof verification; the one-wire and constants are
// excluded (the verifying key carries them).
func (a *Assignment) PublicInputs() []fr.Element {
	res := make([]fr.Element, 0, a.system.nbPublic)
	for i, t := range a.system.tags {
		if t == Public {
			res = append(res, a.values[i])
		}
	}
	return res
}
