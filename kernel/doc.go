// Package kernel defines interaction-law kernels: the symbolic
// expression of a pairwise potential as a function of the
// target-minus-source vector, plus the source/target post-processing
// hooks that derivative wrappers use to modify it.
//
// Concrete kernels:
//   - Laplace     — log r in 2-D, 1/r in 3-D
//   - Helmholtz2D — H¹₀(k·r), the 2-D outgoing wave potential
//
// Wrappers:
//   - AxisTargetDerivative — ∂/∂target_axis, applied at the target side
//   - AxisSourceDerivative — ∂/∂source_axis, applied at the source side
//
// Wrappers compose; BaseKernel always unwraps to the innermost law,
// which expansion kinds consult to validate compatibility (the
// cylindrical-harmonic expansion accepts only a 2-D wave base kernel).
//
// Hook ordering is part of the contract: the source hook applies
// before differentiation with respect to the source, the target hook
// after evaluation at the target offset.
//
// Kernels are immutable value objects, safe to share between any
// number of expansions and evaluators.
package kernel
