package gadgets

import (
	"fmt"
)

// This file hosts the kind-polymorphic entry points instruction dispatch
// goes through. Each function narrows its operands to the gadget types the
// operation is defined on and reports a type error otherwise; type errors
// are ordinary errors, never constraint failures.

func operandMismatch(op string, a, b Value) error {
	return fmt.Errorf("%s: operand kinds %s and %s do not agree", op, a.Kind(), b.Kind())
}

func notDefined(op string, k Kind) error {
	return fmt.Errorf("%s is not defined on %s", op, k)
}

type arithOp uint8

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
)

type bitOp uint8

const (
	opAnd bitOp = iota
	opOr
	opXor
	opNand
	opNor
)

type cmpOp uint8

const (
	opLT cmpOp = iota
	opLTE
	opGT
	opGTE
)

// integerValue erases the width parameter of Integer[T] so dispatch does not
// enumerate widths at every call site. The methods are defined once on the
// generic type.
type integerValue interface {
	Value
	arith(op arithOp, other Value, wrapped bool) (Value, error)
	negate(wrapped bool) Value
	bitwise(op bitOp, other Value) (Value, error)
	invert() Value
	shift(left bool, k uint) Value
	compare(op cmpOp, other Value) (Boolean, error)
	field() Field
}

func (i Integer[T]) arith(op arithOp, other Value, wrapped bool) (Value, error) {
	o, ok := other.(Integer[T])
	if !ok {
		return nil, operandMismatch("arithmetic", i, other)
	}
	switch op {
	case opAdd:
		if wrapped {
			return i.AddWrapped(o), nil
		}
		return i.AddChecked(o), nil
	case opSub:
		if wrapped {
			return i.SubWrapped(o), nil
		}
		return i.SubChecked(o), nil
	case opMul:
		if wrapped {
			return i.MulWrapped(o), nil
		}
		return i.MulChecked(o), nil
	default:
		if wrapped {
			return nil, notDefined("div.w", i.Kind())
		}
		return i.DivChecked(o), nil
	}
}

func (i Integer[T]) negate(wrapped bool) Value {
	if wrapped {
		return i.NegWrapped()
	}
	return i.NegChecked()
}

func (i Integer[T]) bitwise(op bitOp, other Value) (Value, error) {
	o, ok := other.(Integer[T])
	if !ok {
		return nil, operandMismatch("bitwise", i, other)
	}
	switch op {
	case opAnd:
		return i.And(o), nil
	case opOr:
		return i.Or(o), nil
	case opXor:
		return i.Xor(o), nil
	case opNand:
		return i.Nand(o), nil
	default:
		return i.Nor(o), nil
	}
}

func (i Integer[T]) invert() Value { return i.Not() }

func (i Integer[T]) shift(left bool, k uint) Value {
	if left {
		return i.Shl(k)
	}
	return i.Shr(k)
}

func (i Integer[T]) compare(op cmpOp, other Value) (Boolean, error) {
	o, ok := other.(Integer[T])
	if !ok {
		return Boolean{}, operandMismatch("comparison", i, other)
	}
	switch op {
	case opLT:
		return i.LessThan(o), nil
	case opLTE:
		return i.LessOrEqual(o), nil
	case opGT:
		return i.GreaterThan(o), nil
	default:
		return i.GreaterOrEqual(o), nil
	}
}

func (i Integer[T]) field() Field { return i.ToField() }

// Add is checked addition: fields and groups add freely, integers fail the
// build on overflow.
func Add(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("add", a, b)
	}
	switch x := a.(type) {
	case Field:
		return x.Add(b.(Field)), nil
	case Group:
		return x.Add(b.(Group)), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opAdd, b, false)
	}
	return nil, notDefined("add", a.Kind())
}

// AddWrapped adds integers modulo their width.
func AddWrapped(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("add.w", a, b)
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opAdd, b, true)
	}
	return nil, notDefined("add.w", a.Kind())
}

// Sub is checked subtraction.
func Sub(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("sub", a, b)
	}
	switch x := a.(type) {
	case Field:
		return x.Sub(b.(Field)), nil
	case Group:
		return x.Sub(b.(Group)), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opSub, b, false)
	}
	return nil, notDefined("sub", a.Kind())
}

// SubWrapped subtracts integers modulo their width.
func SubWrapped(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("sub.w", a, b)
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opSub, b, true)
	}
	return nil, notDefined("sub.w", a.Kind())
}

// Mul is checked multiplication. Group×scalar (either operand order) is
// scalar multiplication on the embedded curve.
func Mul(a, b Value) (Value, error) {
	if g, ok := a.(Group); ok {
		if s, ok := b.(Scalar); ok {
			return g.ScalarMul(s), nil
		}
	}
	if s, ok := a.(Scalar); ok {
		if g, ok := b.(Group); ok {
			return g.ScalarMul(s), nil
		}
	}
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("mul", a, b)
	}
	if x, ok := a.(Field); ok {
		return x.Mul(b.(Field)), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opMul, b, false)
	}
	return nil, notDefined("mul", a.Kind())
}

// MulWrapped multiplies integers modulo their width.
func MulWrapped(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("mul.w", a, b)
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opMul, b, true)
	}
	return nil, notDefined("mul.w", a.Kind())
}

// Div is field division or checked euclidean integer division. Division by
// zero fails the build in both modes.
func Div(a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch("div", a, b)
	}
	if x, ok := a.(Field); ok {
		return x.Div(b.(Field)), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.arith(opDiv, b, false)
	}
	return nil, notDefined("div", a.Kind())
}

// Neg is checked negation: fields and groups negate freely, a nonzero
// unsigned integer fails the build.
func Neg(a Value) (Value, error) {
	switch x := a.(type) {
	case Field:
		return x.Neg(), nil
	case Group:
		return x.Neg(), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.negate(false), nil
	}
	return nil, notDefined("neg", a.Kind())
}

// NegWrapped is two's-complement negation of an integer.
func NegWrapped(a Value) (Value, error) {
	if iv, ok := a.(integerValue); ok {
		return iv.negate(true), nil
	}
	return nil, notDefined("neg.w", a.Kind())
}

func bitwise(name string, op bitOp, a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch(name, a, b)
	}
	if x, ok := a.(Boolean); ok {
		y := b.(Boolean)
		switch op {
		case opAnd:
			return x.And(y), nil
		case opOr:
			return x.Or(y), nil
		case opXor:
			return x.Xor(y), nil
		case opNand:
			return x.Nand(y), nil
		default:
			return x.Nor(y), nil
		}
	}
	if iv, ok := a.(integerValue); ok {
		return iv.bitwise(op, b)
	}
	return nil, notDefined(name, a.Kind())
}

// And is boolean conjunction or bitwise integer conjunction.
func And(a, b Value) (Value, error) { return bitwise("and", opAnd, a, b) }

// Or is boolean disjunction or bitwise integer disjunction.
func Or(a, b Value) (Value, error) { return bitwise("or", opOr, a, b) }

// Xor is boolean or bitwise exclusive or.
func Xor(a, b Value) (Value, error) { return bitwise("xor", opXor, a, b) }

// Nand is ¬∧.
func Nand(a, b Value) (Value, error) { return bitwise("nand", opNand, a, b) }

// Nor is ¬∨.
func Nor(a, b Value) (Value, error) { return bitwise("nor", opNor, a, b) }

// Not is boolean negation or bitwise integer complement.
func Not(a Value) (Value, error) {
	if x, ok := a.(Boolean); ok {
		return x.Not(), nil
	}
	if iv, ok := a.(integerValue); ok {
		return iv.invert(), nil
	}
	return nil, notDefined("not", a.Kind())
}

// Shl shifts an integer left by a constant magnitude.
func Shl(a Value, k uint) (Value, error) {
	if iv, ok := a.(integerValue); ok {
		return iv.shift(true, k), nil
	}
	return nil, notDefined("shl", a.Kind())
}

// Shr shifts an integer right by a constant magnitude.
func Shr(a Value, k uint) (Value, error) {
	if iv, ok := a.(integerValue); ok {
		return iv.shift(false, k), nil
	}
	return nil, notDefined("shr", a.Kind())
}

func comparison(name string, op cmpOp, a, b Value) (Value, error) {
	if a.Kind() != b.Kind() {
		return nil, operandMismatch(name, a, b)
	}
	if x, ok := a.(Scalar); ok {
		y := b.(Scalar)
		switch op {
		case opLT:
			return x.LessThan(y), nil
		case opLTE:
			return x.LessOrEqual(y), nil
		case opGT:
			return x.GreaterThan(y), nil
		default:
			return x.GreaterOrEqual(y), nil
		}
	}
	if iv, ok := a.(integerValue); ok {
		return iv.compare(op, b)
	}
	return nil, notDefined(name, a.Kind())
}

// LessThan orders integers and scalars.
func LessThan(a, b Value) (Value, error) { return comparison("lt", opLT, a, b) }

// LessOrEqual orders integers and scalars.
func LessOrEqual(a, b Value) (Value, error) { return comparison("lte", opLTE, a, b) }

// GreaterThan orders integers and scalars.
func GreaterThan(a, b Value) (Value, error) { return comparison("gt", opGT, a, b) }

// GreaterOrEqual orders integers and scalars.
func GreaterOrEqual(a, b Value) (Value, error) { return comparison("gte", opGTE, a, b) }

// Cast converts v to another kind. Numeric casts go through the base field
// and are checked: a value that does not fit the target fails the build.
// Group and address convert into each other; strings do not cast.
func Cast(v Value, to Kind) (Value, error) {
	if v.Kind() == to {
		return v, nil
	}

	switch x := v.(type) {
	case Group:
		if to == KindAddress {
			return AddressFromGroup(x), nil
		}
		return nil, fmt.Errorf("cannot cast group to %s", to)
	case Address:
		if to == KindGroup {
			return x.Group(), nil
		}
		return nil, fmt.Errorf("cannot cast address to %s", to)
	case String:
		return nil, fmt.Errorf("cannot cast string to %s", to)
	}

	var f Field
	switch x := v.(type) {
	case Boolean:
		f = fieldFromWire(x.e, x.w)
	case Field:
		f = x
	case Scalar:
		f = x.ToField()
	default:
		iv, ok := v.(integerValue)
		if !ok {
			return nil, fmt.Errorf("cannot cast %s", v.Kind())
		}
		f = iv.field()
	}

	switch to {
	case KindBoolean:
		f.e.AssertIsBoolean(f.w)
		return booleanFromWire(f.e, f.w), nil
	case KindField:
		return f, nil
	case KindU8:
		return IntegerFromField[uint8](f), nil
	case KindU16:
		return IntegerFromField[uint16](f), nil
	case KindU32:
		return IntegerFromField[uint32](f), nil
	case KindU64:
		return IntegerFromField[uint64](f), nil
	case KindScalar:
		return ScalarFromField(f), nil
	default:
		return nil, fmt.Errorf("cannot cast %s to %s", v.Kind(), to)
	}
}

// HashMiMC digests the canonical encodings of the inputs into one field
// element.
func HashMiMC(inputs ...Value) (Field, error) {
	if len(inputs) == 0 {
		return Field{}, fmt.Errorf("hash over no inputs")
	}
	e, _ := PublicEncoding(inputs[0])
	h := NewMiMC(e)
	for _, v := range inputs {
		_, ws := PublicEncoding(v)
		for _, w := range ws {
			h.WriteWire(w)
		}
	}
	return h.Sum(), nil
}

// CommitPedersen commits to the canonical encodings of the inputs under the
// given blinding scalar.
func CommitPedersen(inputs []Value, randomness Value) (Group, error) {
	r, ok := randomness.(Scalar)
	if !ok {
		return Group{}, fmt.Errorf("commitment randomness must be a scalar, got %s", randomness.Kind())
	}
	var limbs []Field
	for _, v := range inputs {
		e, ws := PublicEncoding(v)
		for _, w := range ws {
			limbs = append(limbs, fieldFromWire(e, w))
		}
	}
	if len(limbs) == 0 {
		return Group{}, fmt.Errorf("commitment over no inputs")
	}
	return PedersenCommit(r.e, limbs, r)
}
