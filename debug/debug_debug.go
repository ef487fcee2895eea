//go:build debug

package debug

// Debug is true when built with the debug tag.
const Debug = true
