package test

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/zkprivacy/snarkVM/synthesizer"
)

// mulCheckProgram proves knowledge of private a, b with a*b + 2 == c for a
// public c.
func mulCheckProgram() *synthesizer.Program {
	return &synthesizer.Program{
		Name: "mulcheck",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "c", Type: "u64", Visibility: "public"},
				{Register: "a", Type: "u64", Visibility: "private"},
				{Register: "b", Type: "u64", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "mul", Operands: []synthesizer.Operand{{Register: "a"}, {Register: "b"}}, Destinations: []string{"p"}},
				{Opcode: "add", Operands: []synthesizer.Operand{{Register: "p"}, {Type: "u64", Value: "2"}}, Destinations: []string{"s"}},
				{Opcode: "is.eq", Operands: []synthesizer.Operand{{Register: "s"}, {Register: "c"}}, Destinations: []string{"ok"}},
			},
			Outputs: []synthesizer.Output{{Operand: "ok", Type: "boolean"}},
		}},
	}
}

func TestArithmeticPipeline(t *testing.T) {
	assert := NewAssert(t)
	p := mulCheckProgram()

	assert.Run(func(assert *Assert) {
		assert.ProverSucceeded(p, "main", []string{"17"}, []string{"3", "5"})
	}, "consistent")

	assert.Run(func(assert *Assert) {
		// c != a*b + 2 still synthesizes; the boolean output is false
		synth := assert.ExecutionMatches(p, "main", []string{"99"}, []string{"3", "5"})
		assert.Equal([]string{"false"}, synth.Response.Outputs)
	}, "inconsistent")

	assert.Run(func(assert *Assert) {
		assert.ShapeStable(p, "main",
			[2][]string{{"17"}, {"3", "5"}},
			[2][]string{{"56"}, {"6", "9"}},
			[2][]string{{"2"}, {"0", "0"}},
		)
	}, "shape")
}

func TestOverflowRejected(t *testing.T) {
	assert := NewAssert(t)
	p := &synthesizer.Program{
		Name: "overflow",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "a", Type: "u8", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "add", Operands: []synthesizer.Operand{{Register: "a"}, {Type: "u8", Value: "1"}}, Destinations: []string{"b"}},
			},
			Outputs: []synthesizer.Output{{Operand: "b", Type: "u8"}},
		}},
	}

	assert.ProverFailed(p, "main", nil, []string{"255"})
	assert.ProverSucceeded(p, "main", nil, []string{"254"})
}

func TestCryptoPipeline(t *testing.T) {
	assert := NewAssert(t)
	p := &synthesizer.Program{
		Name: "crypto",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "m", Type: "field", Visibility: "private"},
				{Register: "r", Type: "scalar", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "hash.mimc", Operands: []synthesizer.Operand{{Register: "m"}}, Destinations: []string{"h"}},
				{Opcode: "commit.ped", Operands: []synthesizer.Operand{{Register: "m"}, {Register: "r"}}, Destinations: []string{"c"}},
				{Opcode: "cast", CastType: "address", Operands: []synthesizer.Operand{{Register: "c"}}, Destinations: []string{"addr"}},
			},
			Outputs: []synthesizer.Output{
				{Operand: "h", Type: "field"},
				{Operand: "addr", Type: "address"},
			},
		}},
	}

	assert.ProverSucceeded(p, "main", nil, []string{"42", "7"})
}

func TestComposedCallsPipeline(t *testing.T) {
	assert := NewAssert(t)
	p := &synthesizer.Program{
		Name: "composed",
		Functions: []synthesizer.Function{
			{
				Name: "main",
				Inputs: []synthesizer.Input{
					{Register: "x", Type: "field", Visibility: "public"},
				},
				Instructions: []synthesizer.Instruction{
					{Opcode: "call", Function: "square", Operands: []synthesizer.Operand{{Register: "x"}}, Destinations: []string{"y"}},
					{Opcode: "call", Function: "square", Operands: []synthesizer.Operand{{Register: "y"}}, Destinations: []string{"z"}},
				},
				Outputs: []synthesizer.Output{{Operand: "z", Type: "field"}},
			},
			{
				Name: "square",
				Inputs: []synthesizer.Input{
					{Register: "in", Type: "field", Visibility: "private"},
				},
				Instructions: []synthesizer.Instruction{
					{Opcode: "mul", Operands: []synthesizer.Operand{{Register: "in"}, {Register: "in"}}, Destinations: []string{"out"}},
				},
				Outputs: []synthesizer.Output{{Operand: "out", Type: "field"}},
			},
		},
	}

	assert.ProverSucceeded(p, "main", []string{"3"}, nil)
}

func TestWrappedAdditionProperty(t *testing.T) {
	p := &synthesizer.Program{
		Name: "wrapping",
		Functions: []synthesizer.Function{{
			Name: "main",
			Inputs: []synthesizer.Input{
				{Register: "a", Type: "u64", Visibility: "private"},
				{Register: "b", Type: "u64", Visibility: "private"},
			},
			Instructions: []synthesizer.Instruction{
				{Opcode: "add.w", Operands: []synthesizer.Operand{{Register: "a"}, {Register: "b"}}, Destinations: []string{"c"}},
			},
			Outputs: []synthesizer.Output{{Operand: "c", Type: "u64"}},
		}},
	}

	properties := gopter.NewProperties(QuickParameters(20))
	properties.Property("synthesis matches wrapping semantics", prop.ForAll(
		func(aRaw, bRaw string) bool {
			a, _ := strconv.ParseUint(aRaw, 10, 64)
			b, _ := strconv.ParseUint(bRaw, 10, 64)
			want := strconv.FormatUint(a+b, 10) + "u64"

			resp, err := synthesizer.Run(p, "main", nil, []string{aRaw, bRaw})
			if err != nil || resp.Outputs[0] != want {
				return false
			}
			synth, err := synthesizer.Synthesize(p, "main", nil, []string{aRaw, bRaw})
			if err != nil {
				return false
			}
			return synth.Response.Outputs[0] == want
		},
		GenUint(64), GenUint(64),
	))
	properties.TestingRun(t)
}
