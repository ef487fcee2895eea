package circuit

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkprivacy/snarkVM/constraint"
)

// Wire is the unit both evaluation strategies produce: a field value, plus a
// linear combination tying that value to ledger variables when the owning
// environment runs constrained. A Wire is only meaningful inside the
// environment that created it.
type Wire struct {
	env   *Environment
	value fr.Element
	lc    constraint.LinearCombination
}

// Value returns the native field value carried by the wire. Under the true
// witness this equals the evaluation of the wire's linear combination, in
// either mode.
func (w Wire) Value() fr.Element { return w.value }

// IsConstant reports whether the wire is a compile-time constant: its value
// is part of the circuit, not of any witness.
func (w Wire) IsConstant() bool {
	return w.env == nil || w.env.mode == Native || w.lc.IsConstant()
}

// lcOrPanic guards against wires from another environment (or the zero Wire)
// leaking into this build.
func (e *Environment) check(wires ...Wire) {
	for _, w := range wires {
		if w.env != e {
			panic(errModeMismatch("wire does not belong to this environment"))
		}
	}
}
