package p2p

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pointfield/sumkit/kernel"
)

// Apply is the dense reduce evaluator: every source contributes to
// every target, weighted by the source's strength.
type Apply struct {
	evaluatorBase
}

// NewApply returns a dense evaluator over the kernel set.
func NewApply(kernels []kernel.Kernel, opts ...Option) (*Apply, error) {
	b, err := newEvaluatorBase("apply", kernels, opts)
	if err != nil {
		return nil, err
	}
	return &Apply{evaluatorBase: b}, nil
}

// Evaluate reduces all sources into all targets and returns one result
// row per kernel, each with one entry per target:
//
//	result[k][i] = scale_k · Σ_j pair_k(t_i, s_j) · strength[usage[k]][j]
//
// selfIndex is consulted only when self-exclusion is enabled; the pair
// (i, selfIndex[i]) is still visited but contributes exactly zero, and
// its pair value is never computed — kernels singular at zero distance
// evaluate cleanly over their own point cloud.
// Targets are processed in parallel over disjoint contiguous ranges.
func (a *Apply) Evaluate(ctx context.Context, targets, sources [][]float64, strengths [][]complex128, selfIndex []int) ([][]complex128, error) {
	if err := a.checkPoints("targets", targets); err != nil {
		return nil, err
	}
	if err := a.checkPoints("sources", sources); err != nil {
		return nil, err
	}
	if err := a.checkStrengths(strengths, len(sources)); err != nil {
		return nil, err
	}
	if err := a.checkSelfIndex(selfIndex, len(targets)); err != nil {
		return nil, err
	}
	prog, err := a.pairProgram()
	if err != nil {
		return nil, err
	}

	results := make([][]complex128, len(a.kernels))
	for ik := range results {
		results[ik] = make([]complex128, len(targets))
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, rng := range chunkRanges(len(targets), a.opts.Workers) {
		lo, hi := rng[0], rng[1]
		g.Go(func() error {
			s := a.newScratch(prog)
			acc := make([]complex128, len(a.kernels))
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				self := -1
				if a.opts.ExcludeSelf {
					self = selfIndex[i]
				}
				for ik := range acc {
					acc[ik] = 0
				}
				for j := range sources {
					// The self pair contributes exactly zero and its pair
					// program is never run: at d = 0 the kernel expression
					// may be singular.
					if j == self {
						continue
					}
					if err := s.evalPair(targets[i], sources[j], a.opts.ValueKind); err != nil {
						return err
					}
					for ik := range a.kernels {
						acc[ik] += s.out[ik] * strengths[a.usage[ik]][j]
					}
				}
				for ik, k := range a.kernels {
					results[ik][i] = k.ScalingConstant() * acc[ik]
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.opts.Logger.Debug("dense apply evaluated",
		zap.Int("targets", len(targets)),
		zap.Int("sources", len(sources)),
		zap.Int("kernels", len(a.kernels)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
