package constraint

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Tag classifies a variable within a constraint system.
type Tag uint8

const (
	// Constant variables carry a value fixed at allocation time; the value is
	// part of the circuit, never of a witness.
	Constant Tag = iota

	// Public variables are revealed to the verifier.
	Public

	// Private variables belong to the witness only.
	Private
)

func (t Tag) String() string {
	switch t {
	case Constant:
		return "constant"
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Variable identifies one wire in a constraint system. The index is unique
// within the system that allocated it.
type Variable struct {
	Index uint32
	Tag   Tag
}

// Term is a variable scaled by a field-element coefficient.
type Term struct {
	Variable Variable
	Coeff    fr.Element
}

// LinearCombination is Σ coeffᵢ·varᵢ + constant. Terms are kept sorted by
// variable index with no duplicate and no zero coefficient, so structural
// equality is canonical.
type LinearCombination struct {
	Terms    []Term
	Constant fr.Element
}

// NewLinearCombination returns a linear combination reduced to the single
// term 1·v.
func NewLinearCombination(v Variable) LinearCombination {
	var one fr.Element
	one.SetOne()
	return LinearCombination{Terms: []Term{{Variable: v, Coeff: one}}}
}

// FromConstant returns a linear combination with no term, only a constant.
func FromConstant(c fr.Element) LinearCombination {
	return LinearCombination{Constant: c}
}

// Clone returns a deep copy; mutating the copy leaves lc untouched.
func (lc LinearCombination) Clone() LinearCombination {
	res := LinearCombination{Constant: lc.Constant}
	res.Terms = make([]Term, len(lc.Terms))
	copy(res.Terms, lc.Terms)
	return res
}

// IsConstant reports whether lc has no variable term.
func (lc LinearCombination) IsConstant() bool {
	return len(lc.Terms) == 0
}

// Add returns lc + other, merging terms on the same variable.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	res := LinearCombination{}
	res.Constant.Add(&lc.Constant, &other.Constant)
	res.Terms = mergeTerms(lc.Terms, other.Terms)
	return res
}

// Sub returns lc - other.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	return lc.Add(other.Neg())
}

// Neg returns -lc.
func (lc LinearCombination) Neg() LinearCombination {
	res := lc.Clone()
	res.Constant.Neg(&res.Constant)
	for i := range res.Terms {
		res.Terms[i].Coeff.Neg(&res.Terms[i].Coeff)
	}
	return res
}

// Scale returns k·lc. A zero k collapses lc to the empty combination.
func (lc LinearCombination) Scale(k fr.Element) LinearCombination {
	if k.IsZero() {
		return LinearCombination{}
	}
	res := lc.Clone()
	res.Constant.Mul(&res.Constant, &k)
	for i := range res.Terms {
		res.Terms[i].Coeff.Mul(&res.Terms[i].Coeff, &k)
	}
	return res
}

// AddConstant returns lc + c.
func (lc LinearCombination) AddConstant(c fr.Element) LinearCombination {
	res := lc.Clone()
	res.Constant.Add(&res.Constant, &c)
	return res
}

// Evaluate computes the value of lc under the given assignment.
func (lc LinearCombination) Evaluate(a *Assignment) fr.Element {
	res := lc.Constant
	var tmp fr.Element
	for _, t := range lc.Terms {
		v := a.Value(t.Variable)
		tmp.Mul(&t.Coeff, &v)
		res.Add(&res, &tmp)
	}
	return res
}

// mergeTerms merges two sorted term slices, summing coefficients of shared
// variables and dropping terms that cancel.
func mergeTerms(a, b []Term) []Term {
	res := make([]Term, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Variable.Index < b[j].Variable.Index:
			res = append(res, a[i])
			i++
		case a[i].Variable.Index > b[j].Variable.Index:
			res = append(res, b[j])
			j++
		default:
			var c fr.Element
			c.Add(&a[i].Coeff, &b[j].Coeff)
			if !c.IsZero() {
				res = append(res, Term{Variable: a[i].Variable, Coeff: c})
			}
			i++
			j++
		}
	}
	res = append(res, a[i:]...)
	res = append(res, b[j:]...)
	return res
}

// R1C is one rank-1 constraint: L·R = O under any satisfying assignment.
type R1C struct {
	L, R, O LinearCombination
}
