package synthesizer

import "fmt"

// SynthesisError carries the position of the instruction that aborted a run
// or a build. No partial constraint system escapes a failed synthesis.
type SynthesisError struct {
	Function string
	Index    int // instruction position, -1 outside the body
	Opcode   string
	Err      error
}

func (e *SynthesisError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("synthesizing %s: %v", e.Function, e.Err)
	}
	return fmt.Sprintf("synthesizing %s, instruction %d (%s): %v", e.Function, e.Index, e.Opcode, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// synthErr wraps err with position information unless it already carries it.
func synthErr(function string, index int, opcode string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*SynthesisError); ok {
		return err
	}
	return &SynthesisError{Function: function, Index: index, Opcode: opcode, Err: err}
}
