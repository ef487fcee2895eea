package synthesizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/gadgets"
	"github.com/zkprivacy/snarkVM/logger"
)

// maxCallDepth bounds call nesting; recursion has no well-defined circuit
// shape.
const maxCallDepth = 32

// Response holds the observable result of executing a function: rendered
// output values and the public-input vector in verification order (public
// inputs in declaration order, then outputs).
type Response struct {
	Outputs      []string
	PublicInputs []fr.Element
}

// Synthesis is the product of a constrained build: the finalized system, its
// satisfying assignment, the response a native run would have produced and
// the per-scope constraint cost.
type Synthesis struct {
	System     *constraint.System
	Assignment *constraint.Assignment
	Response   *Response
	Cost       *circuit.Cost
}

// Run executes a function natively: no constraints, just values. The
// response carries the public-input vector a later verification expects.
func Run(p *Program, function string, public, private []string, opts ...circuit.Option) (*Response, error) {
	env := circuit.NewEnvironment(circuit.Native, opts...)
	outs, pub, err := execute(env, p, function, public, private)
	if err != nil {
		return nil, err
	}
	return &Response{Outputs: render(outs), PublicInputs: pub}, nil
}

// Synthesize executes a function in constrained mode and finalizes the
// ledger. The assignment is checked against the system before returning; a
// failed check surfaces the instruction-level cause where possible.
func Synthesize(p *Program, function string, public, private []string, opts ...circuit.Option) (*Synthesis, error) {
	env := circuit.NewEnvironment(circuit.Constrained, opts...)
	outs, _, err := execute(env, p, function, public, private)
	if err != nil {
		return nil, err
	}
	sys, assignment, err := env.Finalize()
	if err != nil {
		return nil, synthErr(function, -1, "finalize", err)
	}
	resp := &Response{Outputs: render(outs), PublicInputs: assignment.PublicInputs()}
	return &Synthesis{System: sys, Assignment: assignment, Response: resp, Cost: env.CostReport()}, nil
}

func render(values []gadgets.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

type executor struct {
	prog  *Program
	env   *circuit.Environment
	depth int
	log   zerolog.Logger
}

// frame is one function's register file. Register files never leak across
// calls.
type frame struct {
	regs map[string]gadgets.Value
}

func (f *frame) write(reg string, v gadgets.Value) error {
	if reg == "" {
		return fmt.Errorf("missing destination register")
	}
	if _, dup := f.regs[reg]; dup {
		return fmt.Errorf("register %q written twice", reg)
	}
	f.regs[reg] = v
	return nil
}

// execute binds the declared inputs, runs the body and exports the outputs.
// It returns the output values and the native public-input vector.
func execute(env *circuit.Environment, p *Program, function string, public, private []string) ([]gadgets.Value, []fr.Element, error) {
	fn, err := p.Function(function)
	if err != nil {
		return nil, nil, err
	}
	x := &executor{
		prog: p,
		env:  env,
		log: logger.Logger().With().
			Str("component", "synthesizer").
			Str("program", p.Name).
			Str("function", function).
			Logger(),
	}

	args := make([]gadgets.Value, len(fn.Inputs))
	var publicValues []gadgets.Value
	pi, vi := 0, 0
	for i, in := range fn.Inputs {
		var raw string
		if in.Visibility == "public" {
			if pi >= len(public) {
				return nil, nil, synthErr(function, -1, "input",
					fmt.Errorf("function declares %d public inputs, got %d", countPublic(fn), len(public)))
			}
			raw = public[pi]
			pi++
		} else {
			if vi >= len(private) {
				return nil, nil, synthErr(function, -1, "input",
					fmt.Errorf("function declares %d private inputs, got %d", len(fn.Inputs)-countPublic(fn), len(private)))
			}
			raw = private[vi]
			vi++
		}
		v, err := parseValue(env, in.Type, in.Capacity, raw, visibilityTag(in.Visibility))
		if err != nil {
			return nil, nil, synthErr(function, -1, "input", fmt.Errorf("input %q: %w", in.Register, err))
		}
		args[i] = v
		if in.Visibility == "public" {
			publicValues = append(publicValues, v)
		}
	}
	if pi != len(public) {
		return nil, nil, synthErr(function, -1, "input",
			fmt.Errorf("function declares %d public inputs, got %d", pi, len(public)))
	}
	if vi != len(private) {
		return nil, nil, synthErr(function, -1, "input",
			fmt.Errorf("function declares %d private inputs, got %d", vi, len(private)))
	}

	outs, err := x.run(fn, args, true)
	if err != nil {
		return nil, nil, err
	}
	x.log.Debug().
		Int("constraints", env.NbConstraints()).
		Int("variables", env.NbVariables()).
		Msg("executed")

	var pub []fr.Element
	for _, v := range publicValues {
		pub = append(pub, gadgets.EncodingValues(v)...)
	}
	for _, v := range outs {
		pub = append(pub, gadgets.EncodingValues(v)...)
	}
	return outs, pub, nil
}

func countPublic(fn *Function) int {
	n := 0
	for _, in := range fn.Inputs {
		if in.Visibility == "public" {
			n++
		}
	}
	return n
}

// run executes one function body over an already-bound argument list. Only
// the entry function exports its outputs publicly.
func (x *executor) run(fn *Function, args []gadgets.Value, export bool) ([]gadgets.Value, error) {
	if len(args) != len(fn.Inputs) {
		return nil, synthErr(fn.Name, -1, "input",
			fmt.Errorf("function takes %d inputs, got %d", len(fn.Inputs), len(args)))
	}
	f := &frame{regs: make(map[string]gadgets.Value, len(fn.Inputs)+len(fn.Instructions))}
	for i, in := range fn.Inputs {
		if err := f.write(in.Register, args[i]); err != nil {
			return nil, synthErr(fn.Name, -1, "input", err)
		}
	}

	for idx := range fn.Instructions {
		if err := x.step(f, fn.Name, idx, &fn.Instructions[idx]); err != nil {
			return nil, err
		}
	}

	outs := make([]gadgets.Value, len(fn.Outputs))
	for i, out := range fn.Outputs {
		v, ok := f.regs[out.Operand]
		if !ok {
			return nil, synthErr(fn.Name, -1, "output", fmt.Errorf("register %q is not defined", out.Operand))
		}
		kind, err := gadgets.KindFromString(out.Type)
		if err != nil {
			return nil, synthErr(fn.Name, -1, "output", err)
		}
		if v.Kind() != kind {
			return nil, synthErr(fn.Name, -1, "output",
				fmt.Errorf("output %q is %s, declared %s", out.Operand, v.Kind(), out.Type))
		}
		if export {
			v = gadgets.MakePublic(v)
		}
		outs[i] = v
	}
	return outs, nil
}

// step executes one instruction, converting gadget panics (failed native
// assertions, mode mixing) into a positioned SynthesisError.
func (x *executor) step(f *frame, function string, idx int, ins *Instruction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				rerr = fmt.Errorf("%v", r)
			}
			err = synthErr(function, idx, ins.Opcode, rerr)
		}
	}()
	return synthErr(function, idx, ins.Opcode, x.apply(f, ins))
}

func (x *executor) resolve(f *frame, op Operand) (gadgets.Value, error) {
	if op.IsLiteral() {
		if op.Type == "" {
			return nil, fmt.Errorf("literal operand has no type")
		}
		return parseValue(x.env, op.Type, op.Capacity, op.Value, constraint.Constant)
	}
	v, ok := f.regs[op.Register]
	if !ok {
		return nil, fmt.Errorf("register %q is not defined", op.Register)
	}
	return v, nil
}

func (x *executor) resolveAll(f *frame, ops []Operand) ([]gadgets.Value, error) {
	args := make([]gadgets.Value, len(ops))
	for i, op := range ops {
		v, err := x.resolve(f, op)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func arity(ins *Instruction, n int) error {
	if len(ins.Operands) != n {
		return fmt.Errorf("takes %d operands, got %d", n, len(ins.Operands))
	}
	return nil
}

func (x *executor) apply(f *frame, ins *Instruction) error {
	switch ins.Opcode {
	case "call":
		return x.applyCall(f, ins)
	case "shl", "shr":
		return x.applyShift(f, ins)
	}

	args, err := x.resolveAll(f, ins.Operands)
	if err != nil {
		return err
	}

	var res gadgets.Value
	switch ins.Opcode {
	case "add":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Add(args[0], args[1])
		}
	case "add.w":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.AddWrapped(args[0], args[1])
		}
	case "sub":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Sub(args[0], args[1])
		}
	case "sub.w":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.SubWrapped(args[0], args[1])
		}
	case "mul":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Mul(args[0], args[1])
		}
	case "mul.w":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.MulWrapped(args[0], args[1])
		}
	case "div":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Div(args[0], args[1])
		}
	case "neg":
		if err = arity(ins, 1); err == nil {
			res, err = gadgets.Neg(args[0])
		}
	case "neg.w":
		if err = arity(ins, 1); err == nil {
			res, err = gadgets.NegWrapped(args[0])
		}

	case "is.eq":
		if err = arity(ins, 2); err == nil {
			var b gadgets.Boolean
			if b, err = gadgets.Equal(args[0], args[1]); err == nil {
				res = b
			}
		}
	case "is.neq":
		if err = arity(ins, 2); err == nil {
			var b gadgets.Boolean
			if b, err = gadgets.Equal(args[0], args[1]); err == nil {
				res = b.Not()
			}
		}
	case "lt":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.LessThan(args[0], args[1])
		}
	case "lte":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.LessOrEqual(args[0], args[1])
		}
	case "gt":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.GreaterThan(args[0], args[1])
		}
	case "gte":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.GreaterOrEqual(args[0], args[1])
		}

	case "and":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.And(args[0], args[1])
		}
	case "or":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Or(args[0], args[1])
		}
	case "xor":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Xor(args[0], args[1])
		}
	case "nand":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Nand(args[0], args[1])
		}
	case "nor":
		if err = arity(ins, 2); err == nil {
			res, err = gadgets.Nor(args[0], args[1])
		}
	case "not":
		if err = arity(ins, 1); err == nil {
			res, err = gadgets.Not(args[0])
		}

	case "cast":
		if err = arity(ins, 1); err == nil {
			var kind gadgets.Kind
			if kind, err = gadgets.KindFromString(ins.CastType); err == nil {
				res, err = gadgets.Cast(args[0], kind)
			}
		}

	case "hash.mimc":
		var d gadgets.Field
		if d, err = gadgets.HashMiMC(args...); err == nil {
			res = d
		}

	case "commit.ped":
		if len(args) < 2 {
			err = fmt.Errorf("takes at least one input and the randomness scalar")
			break
		}
		var c gadgets.Group
		if c, err = gadgets.CommitPedersen(args[:len(args)-1], args[len(args)-1]); err == nil {
			res = c
		}

	case "ternary":
		if err = arity(ins, 3); err == nil {
			cond, ok := args[0].(gadgets.Boolean)
			if !ok {
				err = fmt.Errorf("condition must be boolean, got %s", args[0].Kind())
				break
			}
			res, err = gadgets.Select(cond, args[1], args[2])
		}

	default:
		err = fmt.Errorf("unsupported opcode %q", ins.Opcode)
	}
	if err != nil {
		return err
	}

	if len(ins.Destinations) != 1 {
		return fmt.Errorf("writes 1 destination, got %d", len(ins.Destinations))
	}
	return f.write(ins.Destinations[0], res)
}

func (x *executor) applyShift(f *frame, ins *Instruction) error {
	if err := arity(ins, 2); err != nil {
		return err
	}
	v, err := x.resolve(f, ins.Operands[0])
	if err != nil {
		return err
	}
	mag, err := shiftMagnitude(ins.Operands[1])
	if err != nil {
		return err
	}
	var res gadgets.Value
	if ins.Opcode == "shl" {
		res, err = gadgets.Shl(v, mag)
	} else {
		res, err = gadgets.Shr(v, mag)
	}
	if err != nil {
		return err
	}
	if len(ins.Destinations) != 1 {
		return fmt.Errorf("writes 1 destination, got %d", len(ins.Destinations))
	}
	return f.write(ins.Destinations[0], res)
}

// shiftMagnitude reads the constant shift amount. A register operand would
// make the circuit shape depend on a runtime value.
func shiftMagnitude(op Operand) (uint, error) {
	if !op.IsLiteral() {
		return 0, fmt.Errorf("shift magnitude must be a literal constant")
	}
	raw := strings.TrimSuffix(op.Value, op.Type)
	m, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("shift magnitude %q: %w", op.Value, err)
	}
	return uint(m), nil
}

func (x *executor) applyCall(f *frame, ins *Instruction) error {
	if ins.Function == "" {
		return fmt.Errorf("call names no function")
	}
	callee, err := x.prog.Function(ins.Function)
	if err != nil {
		return err
	}
	if x.depth >= maxCallDepth {
		return fmt.Errorf("call depth exceeds %d", maxCallDepth)
	}
	if len(ins.Operands) != len(callee.Inputs) {
		return fmt.Errorf("%s takes %d inputs, got %d", callee.Name, len(callee.Inputs), len(ins.Operands))
	}
	if len(ins.Destinations) != len(callee.Outputs) {
		return fmt.Errorf("%s yields %d outputs, got %d destinations", callee.Name, len(callee.Outputs), len(ins.Destinations))
	}
	args, err := x.resolveAll(f, ins.Operands)
	if err != nil {
		return err
	}
	for i, in := range callee.Inputs {
		kind, err := gadgets.KindFromString(in.Type)
		if err != nil {
			return err
		}
		if args[i].Kind() != kind {
			return fmt.Errorf("%s input %q is %s, got %s", callee.Name, in.Register, in.Type, args[i].Kind())
		}
	}

	var outs []gadgets.Value
	x.depth++
	err = x.env.WithScope(callee.Name, func() error {
		var err error
		outs, err = x.run(callee, args, false)
		return err
	})
	x.depth--
	if err != nil {
		return err
	}
	for i, dest := range ins.Destinations {
		if err := f.write(dest, outs[i]); err != nil {
			return err
		}
	}
	return nil
}
