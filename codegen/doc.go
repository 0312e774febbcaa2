// Package codegen compiles symbolic expressions into flat register
// programs for repeated numeric evaluation.
//
// Compile flattens one or more expression trees into a single
// instruction list with hash-consed common-subexpression elimination:
// structurally identical subtrees are computed once and shared. A
// Program evaluates at complex128 over named scalar bindings and
// produces one result per compiled root expression.
//
// Special functions resolve through the program's function table.
// exp, log, atan2 and besselj are built in; kernel-specific functions
// (e.g. hankel1 for wave kernels) are registered by the kernel's
// program-adaptation hook before execution.
//
// The package also provides Cache, a process-wide memoized program
// store with no eviction and at-most-one-build-per-key semantics:
// concurrent lookups of the same key block on a single build
// (singleflight) rather than compiling twice.
package codegen
