package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
)

// edwards caches the embedded twisted Edwards curve a·x² + y² = 1 + d·x²·y²
// defined over the base field. Commitments, addresses and public-key-like
// values live on it.
var edwards = twistededwards.GetEdwardsCurve()

// Group is a point on the embedded curve, both coordinates as field wires.
// The complete Edwards addition law means no operation needs to branch on
// special cases, which keeps shapes value-independent.
type Group struct {
	e    *circuit.Environment
	x, y circuit.Wire
}

// NewGroup allocates a point with the given visibility and asserts it is on
// the curve.
func NewGroup(e *circuit.Environment, p twistededwards.PointAffine, tag constraint.Tag) Group {
	g := Group{e: e, x: allocWire(e, p.X, tag), y: allocWire(e, p.Y, tag)}
	g.assertOnCurve()
	return g
}

// GroupIdentity returns the neutral element (0, 1) as a constant.
func GroupIdentity(e *circuit.Environment) Group {
	var one fr.Element
	one.SetOne()
	return Group{e: e, x: e.Constant(fr.Element{}), y: e.Constant(one)}
}

// GroupGenerator returns the subgroup generator as a constant.
func GroupGenerator(e *circuit.Environment) Group {
	return constantGroup(e, edwards.Base)
}

func constantGroup(e *circuit.Environment, p twistededwards.PointAffine) Group {
	return Group{e: e, x: e.Constant(p.X), y: e.Constant(p.Y)}
}

func (g Group) Kind() Kind            { return KindGroup }
func (g Group) Wires() []circuit.Wire { return []circuit.Wire{g.x, g.y} }
func (g Group) isValue()              {}

// Value returns the native point.
func (g Group) Value() twistededwards.PointAffine {
	var p twistededwards.PointAffine
	p.X = g.x.Value()
	p.Y = g.y.Value()
	return p
}

func (g Group) String() string {
	p := g.Value()
	return p.X.String() + "group"
}

// assertOnCurve enforces a·x² + y² = 1 + d·x²·y².
func (g Group) assertOnCurve() {
	e := g.e
	x2 := e.Mul(g.x, g.x)
	y2 := e.Mul(g.y, g.y)
	lhs := e.Add(e.MulConstant(x2, edwards.A), y2)
	var one fr.Element
	one.SetOne()
	rhs := e.Add(e.Constant(one), e.MulConstant(e.Mul(x2, y2), edwards.D))
	e.AssertIsEqual(lhs, rhs)
}

// Add uses the complete Edwards formulas:
//
//	x3 = (x1·y2 + y1·x2) / (1 + d·x1·x2·y1·y2)
//	y3 = (y1·y2 − a·x1·x2) / (1 − d·x1·x2·y1·y2)
func (g Group) Add(other Group) Group {
	e := g.e
	x1y2 := e.Mul(g.x, other.y)
	y1x2 := e.Mul(g.y, other.x)
	x1x2 := e.Mul(g.x, other.x)
	y1y2 := e.Mul(g.y, other.y)
	dxy := e.MulConstant(e.Mul(x1x2, y1y2), edwards.D)

	var one fr.Element
	one.SetOne()
	oneW := e.Constant(one)

	x3 := e.Div(e.Add(x1y2, y1x2), e.Add(oneW, dxy))
	y3 := e.Div(e.Sub(y1y2, e.MulConstant(x1x2, edwards.A)), e.Sub(oneW, dxy))
	return Group{e: e, x: x3, y: y3}
}

// Double is Add with itself; the formulas are complete.
func (g Group) Double() Group {
	return g.Add(g)
}

// Neg mirrors the point across the y axis; purely linear.
func (g Group) Neg() Group {
	return Group{e: g.e, x: g.e.Neg(g.x), y: g.y}
}

// Sub is g + (−other).
func (g Group) Sub(other Group) Group {
	return g.Add(other.Neg())
}

// Equal compares both coordinates.
func (g Group) Equal(other Group) Boolean {
	ex := booleanFromWire(g.e, g.e.IsZero(g.e.Sub(g.x, other.x)))
	ey := booleanFromWire(g.e, g.e.IsZero(g.e.Sub(g.y, other.y)))
	return ex.And(ey)
}

// NotEqual is the negation of Equal.
func (g Group) NotEqual(other Group) Boolean {
	return g.Equal(other).Not()
}

// Select picks g when cond holds, other otherwise.
func (g Group) Select(cond Boolean, other Group) Group {
	return Group{
		e: g.e,
		x: g.e.Select(cond.w, g.x, other.x),
		y: g.e.Select(cond.w, g.y, other.y),
	}
}

// ScalarMul computes s·g by a fixed double-and-add over all ScalarSize bits,
// selecting each addend arithmetically. The iteration count never depends on
// the scalar value, only the witness does.
func (g Group) ScalarMul(s Scalar) Group {
	acc := GroupIdentity(g.e)
	bits := s.Bits()
	for i := len(bits) - 1; i >= 0; i-- {
		acc = acc.Double()
		withAdd := acc.Add(g)
		cond := booleanFromWire(g.e, bits[i])
		acc = withAdd.Select(cond, acc)
	}
	return acc
}

// GeneratorMul computes s·G for the subgroup generator, walking the
// precomputed doublings of G so each step adds a constant point.
func GeneratorMul(e *circuit.Environment, s Scalar) Group {
	return fixedBaseMul(e, edwards.Base, s.Bits())
}

// fixedBaseMul computes Σ bitsᵢ·(2ⁱ·base) with native precomputation of the
// doubled bases.
func fixedBaseMul(e *circuit.Environment, base twistededwards.PointAffine, bits []circuit.Wire) Group {
	acc := GroupIdentity(e)
	cur := base
	for i := 0; i < len(bits); i++ {
		addend := constantGroup(e, cur).Select(booleanFromWire(e, bits[i]), GroupIdentity(e))
		acc = acc.Add(addend)
		cur.Add(&cur, &cur)
	}
	return acc
}
