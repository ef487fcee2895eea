// Package circuit provides the execution context every gadget operation runs
// against: a mode switch between native and constrained evaluation, the wire
// abstraction shared by both, and per-scope constraint-cost accounting.
//
// An Environment is exclusively owned by the goroutine that created it.
// Independent builds use independent environments and may run fully in
// parallel; nothing is shared until Finalize hands a result off.
package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/logger"
)

// Mode selects which gadget implementation fires for a given operation. It is
// fixed at environment creation and never changes mid-build.
type Mode uint8

const (
	// Native evaluates on plain field values, emitting no constraints. Used
	// for dry-run simulation and for producing public-input vectors.
	Native Mode = iota

	// Constrained emits variables and constraints alongside computing values.
	Constrained
)

func (m Mode) String() string {
	if m == Native {
		return "native"
	}
	return "constrained"
}

type config struct {
	systemOpts []constraint.Option
	log        zerolog.Logger
}

// Option configures an Environment.
type Option func(*config)

// WithSystemOptions forwards options to the underlying constraint system
// (ceiling, capacity hints).
func WithSystemOptions(opts ...constraint.Option) Option {
	return func(c *config) { c.systemOpts = opts }
}

// WithLogger overrides the environment logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// Environment wraps one constraint ledger with scope management and the mode
// switch. All wire operations dispatch through exactly one of two strategies.
type Environment struct {
	mode  Mode
	eval  strategy
	sys   *constraint.System
	value []fr.Element // witness value per ledger variable, constrained mode

	booleans *bitset.BitSet // variables already constrained to {0,1}

	frames  []frame
	current int

	log zerolog.Logger
}

type frame struct {
	label                      string
	parent                     int
	children                   []int
	startConstraints, startVar int
	nbConstraints, nbVariables int
}

// NewEnvironment returns a build context in the given mode. Constrained
// environments own a fresh constraint ledger.
func NewEnvironment(mode Mode, opts ...Option) *Environment {
	cfg := config{log: logger.Logger().With().Str("component", "circuit").Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Environment{
		mode:     mode,
		booleans: bitset.New(64),
		frames:   []frame{{label: "root", parent: -1}},
		log:      cfg.log,
	}
	if mode == Constrained {
		e.sys = constraint.NewSystem(cfg.systemOpts...)
		e.value = make([]fr.Element, 1) // slot for the one-wire
		e.value[0].SetOne()
		e.eval = &constrained{e}
	} else {
		e.eval = &native{e}
	}
	return e
}

// Mode returns the evaluation mode fixed at creation.
func (e *Environment) Mode() Mode { return e.mode }

// Ledger gives gadget implementations access to the underlying constraint
// system. It is nil in native mode. No other component may hold the ledger
// concurrently with the environment's owner.
func (e *Environment) Ledger() *constraint.System { return e.sys }

// NbConstraints returns the current ledger size; zero in native mode.
func (e *Environment) NbConstraints() int {
	if e.sys == nil {
		return 0
	}
	return e.sys.NbConstraints()
}

// NbVariables returns the current variable count; zero in native mode.
func (e *Environment) NbVariables() int {
	if e.sys == nil {
		return 0
	}
	return e.sys.NbVariables()
}

// allocate appends a ledger variable carrying value, keeping the witness
// table aligned with the variable table.
func (e *Environment) allocate(tag constraint.Tag, value fr.Element) constraint.Variable {
	var cv *fr.Element
	if tag == constraint.Constant {
		cv = &value
	}
	v, err := e.sys.Allocate(tag, cv)
	if err != nil {
		panic(err)
	}
	e.value = append(e.value, value)
	return v
}

func (e *Environment) enforce(l, r, o constraint.LinearCombination) {
	if err := e.sys.Enforce(l, r, o); err != nil {
		panic(err)
	}
}

func errModeMismatch(msg string) error {
	return fmt.Errorf("%w: %s", constraint.ErrModeMismatch, msg)
}

// Finalize freezes the ledger and extracts the constraint system together
// with its satisfying assignment. It fails with ErrModeMismatch in native
// mode, and with ErrUnsatisfied if the computed witness violates a
// constraint (an assertion that only fails at witness level).
func (e *Environment) Finalize() (*constraint.System, *constraint.Assignment, error) {
	if e.mode != Constrained {
		return nil, nil, errModeMismatch("finalize requires a constrained environment")
	}
	e.sys.Finalize()

	w, err := constraint.NewAssignment(e.sys)
	if err != nil {
		return nil, nil, err
	}
	for i := 1; i < e.sys.NbVariables(); i++ {
		v := e.sys.VariableAt(uint32(i))
		if v.Tag == constraint.Constant {
			continue
		}
		if err := w.Assign(v, e.value[i]); err != nil {
			return nil, nil, err
		}
	}
	if err := e.sys.CheckSatisfied(w); err != nil {
		return nil, nil, err
	}
	return e.sys, w, nil
}

// WithScope pushes a scope frame, runs body with scoped cost accounting and
// pops the frame on every exit path, panics included. Constraint and
// variable deltas observed while the frame is live are attributed to it.
func (e *Environment) WithScope(label string, body func() error) error {
	idx := len(e.frames)
	e.frames = append(e.frames, frame{
		label:            label,
		parent:           e.current,
		startConstraints: e.NbConstraints(),
		startVar:         e.NbVariables(),
	})
	e.frames[e.current].children = append(e.frames[e.current].children, idx)
	e.current = idx

	defer func() {
		f := &e.frames[idx]
		f.nbConstraints = e.NbConstraints() - f.startConstraints
		f.nbVariables = e.NbVariables() - f.startVar
		e.current = f.parent
	}()

	return body()
}

// Cost is one node of the per-scope cost report.
type Cost struct {
	Label         string
	NbConstraints int
	NbVariables   int
	Children      []*Cost
}

// CostReport returns the scope tree with per-scope constraint and variable
// counts. The root covers the whole build.
func (e *Environment) CostReport() *Cost {
	root := &e.frames[0]
	root.nbConstraints = e.NbConstraints() - root.startConstraints
	root.nbVariables = e.NbVariables() - root.startVar
	return e.costNode(0)
}

func (e *Environment) costNode(i int) *Cost {
	f := &e.frames[i]
	c := &Cost{
		Label:         f.label,
		NbConstraints: f.nbConstraints,
		NbVariables:   f.nbVariables,
	}
	for _, child := range f.children {
		c.Children = append(c.Children, e.costNode(child))
	}
	return c
}
