// Package sumkit is a toolkit for fast-summation (N-body/FMM-style)
// field evaluation: truncated series expansions of interaction
// potentials, the translation operators that re-center them, and a
// family of direct pairwise (P2P) evaluators.
//
// What sumkit provides:
//
//	symbolic/  — immutable symbolic expression trees: differentiation,
//	             substitution, and complex-valued numeric evaluation,
//	             including Bessel/Hankel derivative identities
//	kernel/    — interaction-law kernels (Laplace, 2-D Helmholtz) and
//	             derivative wrappers with source/target hooks
//	expansion/ — line-Taylor, volume-Taylor and cylindrical-harmonic
//	             local expansions, the outgoing 2-D multipole
//	             counterpart, and the translation rule table
//	codegen/   — compiles symbolic expressions into register programs
//	             with a process-wide, build-once program cache
//	p2p/       — dense, full-matrix, block and CSR box-pair evaluators
//	             over real coordinate and strength arrays
//
// Symbolic construction is purely functional over immutable values and
// safe for concurrent use without coordination. Numeric evaluation runs
// on a goroutine worker pool where each worker owns a disjoint slice of
// the output.
//
//	go get github.com/pointfield/sumkit
package sumkit
