package test

import (
	"math"
	"strconv"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// GenUint returns a generator of decimal integer literals fitting width bits,
// suitable as program operands.
func GenUint(width uint) gopter.Gen {
	max := uint64(math.MaxUint64)
	if width < 64 {
		max = uint64(1)<<width - 1
	}
	return gen.UInt64Range(0, max).Map(func(v uint64) string {
		return strconv.FormatUint(v, 10)
	})
}

// GenBool returns a generator of boolean literals.
func GenBool() gopter.Gen {
	return gen.Bool().Map(strconv.FormatBool)
}

// QuickParameters returns gopter parameters sized for synthesis-backed
// properties, which are orders of magnitude slower than pure functions.
func QuickParameters(tests int) *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = tests
	return params
}
