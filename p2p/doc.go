// Package p2p evaluates pairwise kernel interactions directly, without
// series approximation.
//
// Four evaluators share one pair semantics: for a target t and source
// s the pair value is the kernel expression at d = t − s with the
// source hook applied before and the target hook after, scaled by the
// kernel's scaling constant. They differ only in which pairs they
// visit and what shape they return:
//
//   - Apply reduces every source into every target, weighted by
//     strengths (the classic dense N-body sum).
//   - MatrixGenerator materializes the full interaction matrix per
//     kernel as a gonum CDense.
//   - BlockGenerator evaluates the pairs named by a BlockIndexSet and
//     returns them flattened block by block.
//   - FromCSR walks box pairs in CSR layout and accumulates into
//     per-target results, the form tree-based drivers feed.
//
// Pair expressions are compiled once per evaluator configuration and
// memoized in a codegen.Cache; evaluation parallelizes over disjoint
// target ranges (or target boxes, for FromCSR) with errgroup workers.
package p2p
