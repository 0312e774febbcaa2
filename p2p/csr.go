package p2p

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pointfield/sumkit/kernel"
)

// CSRBoxPairs describes which source boxes interact with which target
// boxes, in the compressed layout tree drivers hand over: per-box
// target and source point ranges, plus a CSR list of neighbor source
// boxes per listed target box.
type CSRBoxPairs struct {
	// TargetBoxes lists the box ids to evaluate targets for.
	TargetBoxes []int
	// BoxTargetStarts and BoxTargetCounts give each box's contiguous
	// target point range, indexed by box id.
	BoxTargetStarts []int
	BoxTargetCounts []int
	// BoxSourceStarts and BoxSourceCounts give each box's contiguous
	// source point range, indexed by box id.
	BoxSourceStarts []int
	BoxSourceCounts []int
	// SourceBoxStarts delimits, per TargetBoxes ordinal, the span of
	// neighbor boxes inside SourceBoxLists; it has len(TargetBoxes)+1
	// entries starting at 0.
	SourceBoxStarts []int
	// SourceBoxLists holds the neighbor source box ids.
	SourceBoxLists []int
}

// Validate checks the structure against the point counts: all four
// per-box arrays cover the same box id space, every listed box id is in
// range, the CSR starts are monotone and every box's point range lies
// inside [0, ntargets) respectively [0, nsources).
func (p *CSRBoxPairs) Validate(ntargets, nsources int) error {
	nboxes := len(p.BoxTargetStarts)
	if len(p.BoxTargetCounts) != nboxes || len(p.BoxSourceStarts) != nboxes || len(p.BoxSourceCounts) != nboxes {
		return fmt.Errorf("%w: per-box arrays disagree on the box count", ErrBoxPairs)
	}
	if len(p.SourceBoxStarts) != len(p.TargetBoxes)+1 {
		return fmt.Errorf("%w: %d neighbor starts for %d target boxes",
			ErrBoxPairs, len(p.SourceBoxStarts), len(p.TargetBoxes))
	}
	if len(p.SourceBoxStarts) > 0 && p.SourceBoxStarts[0] != 0 {
		return fmt.Errorf("%w: neighbor starts must begin at 0", ErrBoxPairs)
	}
	for i := 1; i < len(p.SourceBoxStarts); i++ {
		if p.SourceBoxStarts[i] < p.SourceBoxStarts[i-1] {
			return fmt.Errorf("%w: neighbor starts decrease at %d", ErrBoxPairs, i)
		}
	}
	if last := p.SourceBoxStarts[len(p.SourceBoxStarts)-1]; last != len(p.SourceBoxLists) {
		return fmt.Errorf("%w: neighbor starts end at %d for %d listed boxes",
			ErrBoxPairs, last, len(p.SourceBoxLists))
	}
	for _, box := range p.TargetBoxes {
		if box < 0 || box >= nboxes {
			return fmt.Errorf("%w: target box %d out of %d", ErrBoxPairs, box, nboxes)
		}
	}
	for _, box := range p.SourceBoxLists {
		if box < 0 || box >= nboxes {
			return fmt.Errorf("%w: source box %d out of %d", ErrBoxPairs, box, nboxes)
		}
	}
	for box := 0; box < nboxes; box++ {
		if err := checkRange("target", box, p.BoxTargetStarts[box], p.BoxTargetCounts[box], ntargets); err != nil {
			return err
		}
		if err := checkRange("source", box, p.BoxSourceStarts[box], p.BoxSourceCounts[box], nsources); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(side string, box, start, count, n int) error {
	if start < 0 || count < 0 || start+count > n {
		return fmt.Errorf("%w: box %d %s range [%d, %d) out of %d",
			ErrBoxPairs, box, side, start, start+count, n)
	}
	return nil
}

// FromCSR evaluates box-pair interactions and accumulates them into
// per-target results.
type FromCSR struct {
	evaluatorBase
}

// NewFromCSR returns a box-pair evaluator over the kernel set.
func NewFromCSR(kernels []kernel.Kernel, opts ...Option) (*FromCSR, error) {
	b, err := newEvaluatorBase("csr", kernels, opts)
	if err != nil {
		return nil, err
	}
	return &FromCSR{evaluatorBase: b}, nil
}

// NewResults returns a zeroed accumulation buffer with one row per
// kernel and one entry per target.
func (f *FromCSR) NewResults(ntargets int) [][]complex128 {
	out := make([][]complex128, len(f.kernels))
	for ik := range out {
		out[ik] = make([]complex128, ntargets)
	}
	return out
}

// Accumulate walks every listed target box and adds the scaled,
// strength-weighted pair values of its neighbor source boxes into
// results. Entries for targets outside the listed boxes are left
// untouched, so repeated calls with different pair lists compose by
// addition.
//
// Parallelism is over target boxes only: each listed target box owns
// its target range exclusively within one call. A pair list that
// repeats a target box, or overlapping concurrent calls sharing a
// results buffer, would race on those entries.
func (f *FromCSR) Accumulate(ctx context.Context, targets, sources [][]float64, strengths [][]complex128, pairs *CSRBoxPairs, selfIndex []int, results [][]complex128) error {
	if err := f.checkPoints("targets", targets); err != nil {
		return err
	}
	if err := f.checkPoints("sources", sources); err != nil {
		return err
	}
	if err := f.checkStrengths(strengths, len(sources)); err != nil {
		return err
	}
	if err := f.checkSelfIndex(selfIndex, len(targets)); err != nil {
		return err
	}
	if err := pairs.Validate(len(targets), len(sources)); err != nil {
		return err
	}
	if len(results) != len(f.kernels) {
		return fmt.Errorf("%w: %d rows for %d kernels", ErrResultShape, len(results), len(f.kernels))
	}
	for ik, row := range results {
		if len(row) != len(targets) {
			return fmt.Errorf("%w: row %d has %d entries for %d targets",
				ErrResultShape, ik, len(row), len(targets))
		}
	}
	prog, err := f.pairProgram()
	if err != nil {
		return err
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, rng := range chunkRanges(len(pairs.TargetBoxes), f.opts.Workers) {
		lo, hi := rng[0], rng[1]
		g.Go(func() error {
			s := f.newScratch(prog)
			for ib := lo; ib < hi; ib++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				tbox := pairs.TargetBoxes[ib]
				tstart := pairs.BoxTargetStarts[tbox]
				tend := tstart + pairs.BoxTargetCounts[tbox]

				neighbors := pairs.SourceBoxLists[pairs.SourceBoxStarts[ib]:pairs.SourceBoxStarts[ib+1]]
				for _, sbox := range neighbors {
					sstart := pairs.BoxSourceStarts[sbox]
					send := sstart + pairs.BoxSourceCounts[sbox]
					for i := tstart; i < tend; i++ {
						self := -1
						if f.opts.ExcludeSelf {
							self = selfIndex[i]
						}
						for j := sstart; j < send; j++ {
							// The self pair contributes exactly zero and its
							// pair program is never run: at d = 0 the kernel
							// expression may be singular.
							if j == self {
								continue
							}
							if err := s.evalPair(targets[i], sources[j], f.opts.ValueKind); err != nil {
								return err
							}
							for ik, k := range f.kernels {
								results[ik][i] += k.ScalingConstant() * s.out[ik] * strengths[f.usage[ik]][j]
							}
						}
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.opts.Logger.Debug("box pairs accumulated",
		zap.Int("target_boxes", len(pairs.TargetBoxes)),
		zap.Int("listed_source_boxes", len(pairs.SourceBoxLists)),
		zap.Int("kernels", len(f.kernels)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
