// Package constraint implements the rank-1 constraint ledger: ordered variable
// and constraint tables for one circuit-build session, witness assignments and
// shape identity.
package constraint

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/zkprivacy/snarkVM/logger"
)

type config struct {
	ceiling            int
	capacityVariables  int
	capacityConstraint int
	log                zerolog.Logger
}

// Option configures a System at construction time.
type Option func(*config)

// WithCeiling rejects any Enforce call past the n-th constraint with
// ErrCeilingExceeded. Zero means no ceiling.
func WithCeiling(n int) Option {
	return func(c *config) { c.ceiling = n }
}

// WithCapacity pre-allocates the variable and constraint tables.
func WithCapacity(nbVariables, nbConstraints int) Option {
	return func(c *config) {
		c.capacityVariables = nbVariables
		c.capacityConstraint = nbConstraints
	}
}

// WithLogger overrides the logger inherited from the logger package.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// System is the constraint ledger: the ordered sequence of variables and
// rank-1 constraints produced by one compilation. It is exclusively owned by
// the builder that created it; no method is safe for concurrent use.
type System struct {
	tags        []Tag
	constants   []fr.Element // dense, only meaningful where tags[i] == Constant
	constraints []R1C

	nbPublic, nbPrivate, nbConstant int

	finalized bool
	shapeID   [32]byte
	shapeSet  bool

	ceiling int
	log     zerolog.Logger
}

// NewSystem returns a fresh ledger holding only the one-wire: variable 0,
// a constant fixed to 1 that linear combinations and proving keys rely on.
func NewSystem(opts ...Option) *System {
	cfg := config{log: logger.Logger().With().Str("component", "constraint").Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &System{
		tags:        make([]Tag, 0, cfg.capacityVariables+1),
		constants:   make([]fr.Element, 0, cfg.capacityVariables+1),
		constraints: make([]R1C, 0, cfg.capacityConstraint),
		ceiling:     cfg.ceiling,
		log:         cfg.log,
	}

	var one fr.Element
	one.SetOne()
	s.tags = append(s.tags, Constant)
	s.constants = append(s.constants, one)
	s.nbConstant = 1
	return s
}

// OneWire returns variable 0, the constant 1.
func (s *System) OneWire() Variable {
	return Variable{Index: 0, Tag: Constant}
}

// Allocate appends a variable to the ledger. A Constant allocation must carry
// its value; Public and Private allocations ignore it (values live in the
// Assignment). Fails with ErrAllocation once the system is finalized.
func (s *System) Allocate(tag Tag, value *fr.Element) (Variable, error) {
	if s.finalized {
		return Variable{}, fmt.Errorf("%w: allocate on finalized system", ErrAllocation)
	}
	if tag == Constant && value == nil {
		return Variable{}, fmt.Errorf("%w: constant allocation without value", ErrAllocation)
	}

	v := Variable{Index: uint32(len(s.tags)), Tag: tag}
	s.tags = append(s.tags, tag)
	var cv fr.Element
	if tag == Constant {
		cv = *value
	}
	s.constants = append(s.constants, cv)

	switch tag {
	case Constant:
		s.nbConstant++
	case Public:
		s.nbPublic++
	case Private:
		s.nbPrivate++
	}
	return v, nil
}

// Enforce appends the constraint l·r = o.
func (s *System) Enforce(l, r, o LinearCombination) error {
	if s.finalized {
		return fmt.Errorf("%w: enforce on finalized system", ErrFinalized)
	}
	if s.ceiling > 0 && len(s.constraints) >= s.ceiling {
		return fmt.Errorf("%w: ceiling is %d", ErrCeilingExceeded, s.ceiling)
	}
	for _, lc := range [3]LinearCombination{l, r, o} {
		for _, t := range lc.Terms {
			if int(t.Variable.Index) >= len(s.tags) {
				return fmt.Errorf("%w: unknown variable %d", ErrAllocation, t.Variable.Index)
			}
		}
	}
	s.constraints = append(s.constraints, R1C{L: l, R: r, O: o})
	return nil
}

// Finalize freezes variable and constraint ordering. The frozen ordering is
// the basis of shape identity; all mutating calls fail afterwards.
func (s *System) Finalize() {
	if s.finalized {
		return
	}
	s.finalized = true
	s.log.Debug().
		Int("nbVariables", s.NbVariables()).
		Int("nbConstraints", s.NbConstraints()).
		Int("nbPublic", s.nbPublic).
		Msg("constraint system finalized")
}

// Finalized reports whether the ledger is frozen.
func (s *System) Finalized() bool { return s.finalized }

// NbVariables includes the one-wire and all constants.
func (s *System) NbVariables() int { return len(s.tags) }

// NbConstraints returns the number of rank-1 constraints enforced so far.
func (s *System) NbConstraints() int { return len(s.constraints) }

// NbPublic returns the number of Public variables.
func (s *System) NbPublic() int { return s.nbPublic }

// NbPrivate returns the number of Private variables.
func (s *System) NbPrivate() int { return s.nbPrivate }

// NbConstant includes the one-wire.
func (s *System) NbConstant() int { return s.nbConstant }

// VariableAt rebuilds the Variable handle for index i.
func (s *System) VariableAt(i uint32) Variable {
	return Variable{Index: i, Tag: s.tags[i]}
}

// ConstantValue returns the recorded value of a Constant variable.
func (s *System) ConstantValue(v Variable) (fr.Element, bool) {
	if int(v.Index) >= len(s.tags) || s.tags[v.Index] != Constant {
		return fr.Element{}, false
	}
	return s.constants[v.Index], true
}

// Constraints exposes the ordered constraint table. Callers must not mutate.
func (s *System) Constraints() []R1C { return s.constraints }

// PublicVariables returns the Public variables in allocation order.
func (s *System) PublicVariables() []Variable {
	res := make([]Variable, 0, s.nbPublic)
	for i, t := range s.tags {
		if t == Public {
			res = append(res, Variable{Index: uint32(i), Tag: Public})
		}
	}
	return res
}

// IsSatisfied evaluates every constraint under a. It is a local self-check
// run before proving, never part of the proof itself.
func (s *System) IsSatisfied(a *Assignment) bool {
	return s.CheckSatisfied(a) == nil
}

// CheckSatisfied reports the first violated constraint, or nil if a satisfies
// the whole system.
func (s *System) CheckSatisfied(a *Assignment) error {
	if err := a.Complete(); err != nil {
		return err
	}
	var lr fr.Element
	for i, c := range s.constraints {
		l := c.L.Evaluate(a)
		r := c.R.Evaluate(a)
		o := c.O.Evaluate(a)
		lr.Mul(&l, &r)
		if !lr.Equal(&o) {
			return fmt.Errorf("%w: constraint %d: %s × %s != %s",
				ErrUnsatisfied, i, l.String(), r.String(), o.String())
		}
	}
	return nil
}
