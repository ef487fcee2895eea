// Package debug carries build-tag controlled assertions and call-stack capture
// used in synthesis error reports.
package debug

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Assert panics if the invariant does not hold. It compiles to a no-op
// unless the debug build tag is set.
func Assert(condition bool, msg ...string) {
	if Debug && !condition {
		if len(msg) > 0 {
			panic("assertion failed: " + strings.Join(msg, " "))
		}
		panic("assertion failed")
	}
}

// Stack returns a readable snapshot of the calling stack, stopping at the
// synthesizer entry point when one is on the stack.
func Stack() string {
	var sbb strings.Builder
	WriteStack(&sbb)
	return sbb.String()
}

// WriteStack writes the current call stack into sbb, one frame per line.
func WriteStack(sbb *strings.Builder) {
	pc := make([]uintptr, 16)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return
	}
	pc = pc[:n]
	frames := runtime.CallersFrames(pc)
	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]
		if strings.Contains(function, "runtime.") {
			if !more {
				break
			}
			continue
		}
		sbb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", function, filepath.Base(frame.File), frame.Line))
		if !more {
			break
		}
		if strings.HasSuffix(function, ".Synthesize") {
			break
		}
	}
}
