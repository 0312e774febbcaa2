// Package expansion provides truncated series representations of
// interaction fields near a center, and the translation operators that
// re-center them.
//
// Expansion kinds:
//   - LineTaylor    — single-parameter Taylor series along the line
//     joining source and target direction; the target direction must
//     be known at coefficient formation
//   - VolumeTaylor  — multivariate Taylor series over multi-indices up
//     to a total order
//   - H2DLocal      — cylindrical-harmonic (Bessel J) local expansion
//     for 2-D wave kernels
//   - H2DMultipole  — the outgoing (Hankel H¹) counterpart
//
// Conventions (fixed; sign errors silently corrupt every translation):
//   - avec points from the source to the expansion center, so angles
//     of the source relative to the center use the negated vector
//   - bvec points from the center to the target
//   - dvec is the center shift handed to translation operators
//
// Translation is dispatched through an explicit rule table keyed by
// (source kind, target kind). Pairs without a rule fail with an
// UnsupportedTranslationError naming both kinds; there is no implicit
// fallback.
//
// Expansions are immutable configuration objects; coefficient
// formation, evaluation and translation are pure functions over
// symbolic expressions and may run concurrently without coordination.
package expansion
