//go:build !debug

package debug

// Debug is false in release builds; assertions compile away.
const Debug = false
