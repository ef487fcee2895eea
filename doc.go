// Package snarkvm provides a zkSNARK virtual machine: programs over a closed
// instruction set are executed natively or synthesized into rank-1 constraint
// systems, then proven and verified with Groth16 over the BN254 curve.
//
// The packages compose bottom-up:
//   - constraint: the R1CS ledger, assignments and shape identity
//   - circuit: the synthesis environment shared by native and constrained
//     execution
//   - gadgets: typed circuit values (booleans, sized integers, field and
//     group elements, addresses, strings) and the operations over them
//   - synthesizer: the program model and its executor
//   - backend/groth16: setup, prove and verify
package snarkvm

import "github.com/blang/semver/v4"

// Version of the snarkvm module.
var Version = semver.MustParse("0.1.0")
