// Package synthesizer compiles typed-register instruction programs into
// gadget operations over a circuit environment. The same program text drives
// both native dry runs and constrained builds; the mode lives in the
// environment, never in the program.
package synthesizer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zkprivacy/snarkVM/circuit"
	"github.com/zkprivacy/snarkVM/constraint"
	"github.com/zkprivacy/snarkVM/gadgets"
)

// Program is an ordered collection of functions. The first declared function
// is conventionally the entry point, but any function can be synthesized.
type Program struct {
	Name      string     `json:"name"`
	Functions []Function `json:"functions"`
}

// Function declares typed inputs, an instruction body and typed outputs.
// Registers are string-named and single-assignment.
type Function struct {
	Name         string        `json:"name"`
	Inputs       []Input       `json:"inputs"`
	Instructions []Instruction `json:"instructions"`
	Outputs      []Output      `json:"outputs"`
}

// Input binds a register to a declared type and visibility.
type Input struct {
	Register   string `json:"register"`
	Type       string `json:"type"`
	Visibility string `json:"visibility"`
	Capacity   int    `json:"capacity,omitempty"` // strings only
}

// Output names the register whose value the function exposes publicly.
type Output struct {
	Operand string `json:"operand"`
	Type    string `json:"type"`
}

// Instruction applies one opcode to its operands and writes the results to
// the destination registers.
type Instruction struct {
	Opcode       string    `json:"opcode"`
	Operands     []Operand `json:"operands"`
	Destinations []string  `json:"destinations"`

	// Function names the callee for the call opcode.
	Function string `json:"function,omitempty"`

	// CastType names the target type for the cast opcode.
	CastType string `json:"cast_type,omitempty"`
}

// Operand is either a register reference or a typed literal. A literal is
// embedded as a constant: it never widens the witness.
type Operand struct {
	Register string `json:"register,omitempty"`
	Type     string `json:"type,omitempty"`
	Value    string `json:"value,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// IsLiteral reports whether the operand embeds a constant.
func (o Operand) IsLiteral() bool { return o.Register == "" }

func (o Operand) String() string {
	if o.IsLiteral() {
		return o.Value + o.Type
	}
	return o.Register
}

// ParseProgram decodes a program from its JSON encoding and validates its
// declarations.
func ParseProgram(data []byte) (*Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalText renders the program back to its canonical JSON encoding.
func (p *Program) MarshalText() ([]byte, error) {
	// Marshal through a method-less defined type so encoding/json does not
	// re-enter MarshalText.
	type program Program
	return json.MarshalIndent((*program)(p), "", "  ")
}

// Function resolves a function by name.
func (p *Program) Function(name string) (*Function, error) {
	for i := range p.Functions {
		if p.Functions[i].Name == name {
			return &p.Functions[i], nil
		}
	}
	return nil, fmt.Errorf("program %q has no function %q", p.Name, name)
}

// Validate checks declarations: function names are unique, every input and
// output carries a known type, visibilities are well formed.
func (p *Program) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("program has no name")
	}
	if len(p.Functions) == 0 {
		return fmt.Errorf("program %q declares no functions", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Functions))
	for i := range p.Functions {
		fn := &p.Functions[i]
		if _, dup := seen[fn.Name]; dup {
			return fmt.Errorf("duplicate function %q", fn.Name)
		}
		seen[fn.Name] = struct{}{}
		if err := fn.validate(); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func (f *Function) validate() error {
	regs := make(map[string]struct{}, len(f.Inputs))
	for _, in := range f.Inputs {
		if in.Register == "" {
			return fmt.Errorf("input with empty register name")
		}
		if _, dup := regs[in.Register]; dup {
			return fmt.Errorf("register %q declared twice", in.Register)
		}
		regs[in.Register] = struct{}{}
		if _, err := gadgets.KindFromString(in.Type); err != nil {
			return err
		}
		switch in.Visibility {
		case "public", "private":
		default:
			return fmt.Errorf("input %q: visibility must be public or private, got %q", in.Register, in.Visibility)
		}
	}
	for _, out := range f.Outputs {
		if _, err := gadgets.KindFromString(out.Type); err != nil {
			return err
		}
	}
	return nil
}

// visibilityTag maps a declared visibility onto a ledger tag.
func visibilityTag(visibility string) constraint.Tag {
	if visibility == "public" {
		return constraint.Public
	}
	return constraint.Private
}

// parseValue allocates a gadget value of the declared type from program
// text. Literals like "5u8" may carry their type as a suffix; the suffix
// must agree with the declaration when present.
func parseValue(e *circuit.Environment, typeName string, capacity int, raw string, tag constraint.Tag) (gadgets.Value, error) {
	kind, err := gadgets.KindFromString(typeName)
	if err != nil {
		return nil, err
	}
	if kind != gadgets.KindString {
		raw = strings.TrimSuffix(raw, typeName)
	}

	switch kind {
	case gadgets.KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("boolean literal %q: %w", raw, err)
		}
		return gadgets.NewBoolean(e, b, tag), nil

	case gadgets.KindField:
		var v fr.Element
		if _, err := v.SetString(raw); err != nil {
			return nil, fmt.Errorf("field literal %q: %w", raw, err)
		}
		return gadgets.NewField(e, v, tag), nil

	case gadgets.KindU8:
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("u8 literal %q: %w", raw, err)
		}
		return gadgets.NewInteger[uint8](e, uint8(v), tag), nil

	case gadgets.KindU16:
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("u16 literal %q: %w", raw, err)
		}
		return gadgets.NewInteger[uint16](e, uint16(v), tag), nil

	case gadgets.KindU32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("u32 literal %q: %w", raw, err)
		}
		return gadgets.NewInteger[uint32](e, uint32(v), tag), nil

	case gadgets.KindU64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("u64 literal %q: %w", raw, err)
		}
		return gadgets.NewInteger[uint64](e, v, tag), nil

	case gadgets.KindScalar:
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("scalar literal %q is not a decimal integer", raw)
		}
		return gadgets.NewScalar(e, v, tag), nil

	case gadgets.KindGroup, gadgets.KindAddress:
		p, err := parsePoint(raw)
		if err != nil {
			return nil, err
		}
		if kind == gadgets.KindAddress {
			return gadgets.NewAddress(e, p, tag), nil
		}
		return gadgets.NewGroup(e, p, tag), nil

	case gadgets.KindString:
		if capacity <= 0 {
			capacity = len(raw)
		}
		return gadgets.NewString(e, raw, capacity, tag)

	default:
		return nil, fmt.Errorf("cannot parse values of kind %s", kind)
	}
}

// parsePoint reads a point literal: "generator", or an "x,y" affine pair.
// The point must lie on the embedded curve.
func parsePoint(raw string) (twistededwards.PointAffine, error) {
	params := twistededwards.GetEdwardsCurve()
	if raw == "generator" {
		return params.Base, nil
	}
	coords := strings.SplitN(raw, ",", 2)
	if len(coords) != 2 {
		return twistededwards.PointAffine{}, fmt.Errorf("point literal %q: want \"x,y\" or \"generator\"", raw)
	}
	var p twistededwards.PointAffine
	if _, err := p.X.SetString(strings.TrimSpace(coords[0])); err != nil {
		return twistededwards.PointAffine{}, fmt.Errorf("point literal %q: %w", raw, err)
	}
	if _, err := p.Y.SetString(strings.TrimSpace(coords[1])); err != nil {
		return twistededwards.PointAffine{}, fmt.Errorf("point literal %q: %w", raw, err)
	}
	if !p.IsOnCurve() {
		return twistededwards.PointAffine{}, fmt.Errorf("point literal %q is not on the curve", raw)
	}
	return p, nil
}
