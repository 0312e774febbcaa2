package p2p

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pointfield/sumkit/kernel"
)

// BlockIndexSet names a sequence of interaction blocks. Block j pairs
// the target indices targetIndices[targetStarts[j]:targetStarts[j+1]]
// with the source indices sourceIndices[sourceStarts[j]:sourceStarts[j+1]];
// its flattened size is the product of the two range lengths.
type BlockIndexSet struct {
	targetIndices []int
	sourceIndices []int
	targetStarts  []int
	sourceStarts  []int
	blockRanges   []int

	linearOnce sync.Once
	linearRows []int
	linearCols []int
}

// NewBlockIndexSet validates the block layout: both start slices must
// be equally long, begin at 0, grow monotonically and end at their
// index slice's length.
func NewBlockIndexSet(targetIndices, sourceIndices, targetStarts, sourceStarts []int) (*BlockIndexSet, error) {
	if len(targetStarts) != len(sourceStarts) {
		return nil, fmt.Errorf("%w: %d target ranges vs %d source ranges",
			ErrIndexSet, len(targetStarts), len(sourceStarts))
	}
	if len(targetStarts) < 2 {
		return nil, fmt.Errorf("%w: need at least one block", ErrIndexSet)
	}
	if err := checkStarts("target", targetStarts, len(targetIndices)); err != nil {
		return nil, err
	}
	if err := checkStarts("source", sourceStarts, len(sourceIndices)); err != nil {
		return nil, err
	}

	nblocks := len(targetStarts) - 1
	ranges := make([]int, nblocks+1)
	for j := 0; j < nblocks; j++ {
		nt := targetStarts[j+1] - targetStarts[j]
		ns := sourceStarts[j+1] - sourceStarts[j]
		ranges[j+1] = ranges[j] + nt*ns
	}
	return &BlockIndexSet{
		targetIndices: targetIndices,
		sourceIndices: sourceIndices,
		targetStarts:  targetStarts,
		sourceStarts:  sourceStarts,
		blockRanges:   ranges,
	}, nil
}

func checkStarts(side string, starts []int, nindices int) error {
	if starts[0] != 0 {
		return fmt.Errorf("%w: %s starts must begin at 0, got %d", ErrIndexSet, side, starts[0])
	}
	for j := 1; j < len(starts); j++ {
		if starts[j] < starts[j-1] {
			return fmt.Errorf("%w: %s starts decrease at %d", ErrIndexSet, side, j)
		}
	}
	if last := starts[len(starts)-1]; last != nindices {
		return fmt.Errorf("%w: %s starts end at %d for %d indices", ErrIndexSet, side, last, nindices)
	}
	return nil
}

// NumBlocks returns the number of blocks.
func (s *BlockIndexSet) NumBlocks() int { return len(s.targetStarts) - 1 }

// NumPairs returns the total flattened pair count.
func (s *BlockIndexSet) NumPairs() int { return s.blockRanges[len(s.blockRanges)-1] }

// BlockRanges returns the prefix sums of block sizes: entry 0 is 0,
// entry j+1 ends block j. Flattened values of block j live at
// [BlockRanges[j], BlockRanges[j+1]).
func (s *BlockIndexSet) BlockRanges() []int {
	return append([]int(nil), s.blockRanges...)
}

// LinearIndices returns the flattened (row, col) pair lists: block by
// block, each block's cross product in target-major order. The lists
// are computed once and shared; callers must not modify them.
func (s *BlockIndexSet) LinearIndices() (rows, cols []int) {
	s.linearOnce.Do(func() {
		n := s.NumPairs()
		s.linearRows = make([]int, 0, n)
		s.linearCols = make([]int, 0, n)
		for j := 0; j < s.NumBlocks(); j++ {
			for _, ti := range s.targetIndices[s.targetStarts[j]:s.targetStarts[j+1]] {
				for _, si := range s.sourceIndices[s.sourceStarts[j]:s.sourceStarts[j+1]] {
					s.linearRows = append(s.linearRows, ti)
					s.linearCols = append(s.linearCols, si)
				}
			}
		}
	})
	return s.linearRows, s.linearCols
}

// BlockValues is a block evaluation result: per-kernel flattened pair
// values plus the layout needed to address them.
type BlockValues struct {
	// Rows and Cols are the flattened target/source index pair lists.
	Rows []int
	Cols []int
	// BlockRanges delimits each block's span inside Values rows.
	BlockRanges []int
	// Values holds one flattened row per kernel.
	Values [][]complex128
}

// BlockGenerator evaluates only the pairs a BlockIndexSet names.
type BlockGenerator struct {
	evaluatorBase
}

// NewBlockGenerator returns a block evaluator over the kernel set.
func NewBlockGenerator(kernels []kernel.Kernel, opts ...Option) (*BlockGenerator, error) {
	b, err := newEvaluatorBase("block", kernels, opts)
	if err != nil {
		return nil, err
	}
	return &BlockGenerator{evaluatorBase: b}, nil
}

// Evaluate computes the scaled pair value at every (row, col) pair the
// index set names, in flattened block order. Self-excluded pairs are
// exact zeros. Pairs are processed in parallel over disjoint ranges of
// the flattened list.
func (b *BlockGenerator) Evaluate(ctx context.Context, targets, sources [][]float64, set *BlockIndexSet, selfIndex []int) (*BlockValues, error) {
	if err := b.checkPoints("targets", targets); err != nil {
		return nil, err
	}
	if err := b.checkPoints("sources", sources); err != nil {
		return nil, err
	}
	if err := b.checkSelfIndex(selfIndex, len(targets)); err != nil {
		return nil, err
	}
	rows, cols := set.LinearIndices()
	for p := range rows {
		if rows[p] < 0 || rows[p] >= len(targets) {
			return nil, fmt.Errorf("%w: target index %d out of %d", ErrIndexSet, rows[p], len(targets))
		}
		if cols[p] < 0 || cols[p] >= len(sources) {
			return nil, fmt.Errorf("%w: source index %d out of %d", ErrIndexSet, cols[p], len(sources))
		}
	}
	prog, err := b.pairProgram()
	if err != nil {
		return nil, err
	}

	values := make([][]complex128, len(b.kernels))
	for ik := range values {
		values[ik] = make([]complex128, len(rows))
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, rng := range chunkRanges(len(rows), b.opts.Workers) {
		lo, hi := rng[0], rng[1]
		g.Go(func() error {
			s := b.newScratch(prog)
			for p := lo; p < hi; p++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ti, si := rows[p], cols[p]
				// Excluded pairs stay exact zeros without running the pair
				// program, which may be singular at d = 0.
				if b.opts.ExcludeSelf && selfIndex[ti] == si {
					continue
				}
				if err := s.evalPair(targets[ti], sources[si], b.opts.ValueKind); err != nil {
					return err
				}
				for ik, k := range b.kernels {
					values[ik][p] = k.ScalingConstant() * s.out[ik]
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.opts.Logger.Debug("block pairs evaluated",
		zap.Int("blocks", set.NumBlocks()),
		zap.Int("pairs", len(rows)),
		zap.Int("kernels", len(b.kernels)),
		zap.Duration("elapsed", time.Since(start)))
	return &BlockValues{
		Rows:        rows,
		Cols:        cols,
		BlockRanges: set.BlockRanges(),
		Values:      values,
	}, nil
}
