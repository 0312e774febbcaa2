package p2p

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/pointfield/sumkit/kernel"
)

// MatrixGenerator materializes the full interaction matrix per kernel.
// Entries carry no strength weighting; multiplying the matrix by a
// strength vector reproduces the dense apply reduction.
type MatrixGenerator struct {
	evaluatorBase
}

// NewMatrixGenerator returns a full-matrix evaluator over the kernel
// set.
func NewMatrixGenerator(kernels []kernel.Kernel, opts ...Option) (*MatrixGenerator, error) {
	b, err := newEvaluatorBase("matrix", kernels, opts)
	if err != nil {
		return nil, err
	}
	return &MatrixGenerator{evaluatorBase: b}, nil
}

// Evaluate returns, per kernel, the ntargets×nsources matrix of scaled
// pair values. Self-excluded entries are exact zeros. Target rows are
// filled in parallel over disjoint contiguous ranges.
func (m *MatrixGenerator) Evaluate(ctx context.Context, targets, sources [][]float64, selfIndex []int) ([]*mat.CDense, error) {
	if err := m.checkPoints("targets", targets); err != nil {
		return nil, err
	}
	if err := m.checkPoints("sources", sources); err != nil {
		return nil, err
	}
	if err := m.checkSelfIndex(selfIndex, len(targets)); err != nil {
		return nil, err
	}
	prog, err := m.pairProgram()
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 || len(sources) == 0 {
		return nil, ErrEmptyOperands
	}

	mats := make([]*mat.CDense, len(m.kernels))
	for ik := range mats {
		mats[ik] = mat.NewCDense(len(targets), len(sources), nil)
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, rng := range chunkRanges(len(targets), m.opts.Workers) {
		lo, hi := rng[0], rng[1]
		g.Go(func() error {
			s := m.newScratch(prog)
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				self := -1
				if m.opts.ExcludeSelf {
					self = selfIndex[i]
				}
				for j := range sources {
					// Excluded entries stay exact zeros without running the
					// pair program, which may be singular at d = 0.
					if j == self {
						continue
					}
					if err := s.evalPair(targets[i], sources[j], m.opts.ValueKind); err != nil {
						return err
					}
					for ik, k := range m.kernels {
						mats[ik].Set(i, j, k.ScalingConstant()*s.out[ik])
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.opts.Logger.Debug("interaction matrices evaluated",
		zap.Int("targets", len(targets)),
		zap.Int("sources", len(sources)),
		zap.Int("kernels", len(m.kernels)),
		zap.Duration("elapsed", time.Since(start)))
	return mats, nil
}
