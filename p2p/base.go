package p2p

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pointfield/sumkit/codegen"
	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// evaluatorBase carries the state shared by the four evaluators: the
// validated kernel set, the resolved options and the compiled-program
// plumbing.
type evaluatorBase struct {
	kind    string
	kernels []kernel.Kernel
	dim     int
	opts    Options
	usage   []int
	nrows   int
	params  symbolic.Env
}

func newEvaluatorBase(kind string, kernels []kernel.Kernel, opts []Option) (evaluatorBase, error) {
	dim, err := kernel.UniformDim(kernels)
	if err != nil {
		return evaluatorBase{}, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}

	usage := o.StrengthUsage
	if usage == nil {
		usage = make([]int, len(kernels))
	}
	if len(usage) != len(kernels) {
		return evaluatorBase{}, fmt.Errorf("%w: %d rows for %d kernels",
			ErrStrengthUsage, len(usage), len(kernels))
	}
	nrows := 1
	for i, row := range usage {
		if row < 0 {
			return evaluatorBase{}, fmt.Errorf("%w: kernel %d reads row %d", ErrStrengthUsage, i, row)
		}
		if row+1 > nrows {
			nrows = row + 1
		}
	}

	return evaluatorBase{
		kind:    kind,
		kernels: kernels,
		dim:     dim,
		opts:    o,
		usage:   usage,
		nrows:   nrows,
		params:  kernel.MergeParameters(kernels),
	}, nil
}

// cacheKey identifies the compiled pair program for this evaluator's
// full configuration.
func (b *evaluatorBase) cacheKey() string {
	ids := make([]string, len(b.kernels))
	for i, k := range b.kernels {
		ids[i] = k.ID()
	}
	return fmt.Sprintf("p2p/%s|kernels=%s|exclude_self=%t|usage=%v|value=%s",
		b.kind, strings.Join(ids, ";"), b.opts.ExcludeSelf, b.usage, b.opts.ValueKind)
}

// pairProgram returns the compiled pair program, building it on first
// use. The program computes, per kernel, the hook-wrapped kernel
// expression at the relative vector d; scaling constants and strength
// weights are applied by the evaluators.
func (b *evaluatorBase) pairProgram() (*codegen.Program, error) {
	return b.opts.Cache.Lookup(b.cacheKey(), func() (*codegen.Program, error) {
		dvec := symbolic.MakeSymVector("d", b.dim)
		roots := make([]symbolic.Expr, len(b.kernels))
		for i, k := range b.kernels {
			roots[i] = k.PostprocessAtTarget(k.PostprocessAtSource(k.Expression(dvec), dvec), dvec)
		}
		p, err := codegen.Compile(roots...)
		if err != nil {
			return nil, err
		}
		kernel.AdaptProgram(p, b.kernels...)
		return p, nil
	})
}

func (b *evaluatorBase) checkPoints(name string, pts [][]float64) error {
	for i, p := range pts {
		if len(p) != b.dim {
			return fmt.Errorf("%w: %s[%d] has %d components for dim %d",
				ErrPointDimension, name, i, len(p), b.dim)
		}
	}
	return nil
}

func (b *evaluatorBase) checkStrengths(strengths [][]complex128, nsources int) error {
	if len(strengths) < b.nrows {
		return fmt.Errorf("%w: %d rows, usage needs %d", ErrStrengthShape, len(strengths), b.nrows)
	}
	for i, row := range strengths {
		if len(row) != nsources {
			return fmt.Errorf("%w: row %d has %d entries for %d sources",
				ErrStrengthShape, i, len(row), nsources)
		}
	}
	return nil
}

func (b *evaluatorBase) checkSelfIndex(selfIndex []int, ntargets int) error {
	if !b.opts.ExcludeSelf {
		return nil
	}
	if len(selfIndex) != ntargets {
		return fmt.Errorf("%w: got %d entries for %d targets", ErrSelfIndex, len(selfIndex), ntargets)
	}
	return nil
}

// pairScratch is one worker's evaluation state: register scratch, a
// result slot per kernel and a private environment map.
type pairScratch struct {
	prog *codegen.Program
	regs []complex128
	out  []complex128
	env  symbolic.Env
}

func (b *evaluatorBase) newScratch(prog *codegen.Program) *pairScratch {
	env := make(symbolic.Env, len(b.params)+b.dim)
	for name, v := range b.params {
		env[name] = v
	}
	return &pairScratch{
		prog: prog,
		regs: make([]complex128, prog.NumRegisters()),
		out:  make([]complex128, prog.NumResults()),
		env:  env,
	}
}

// evalPair fills s.out with the per-kernel pair values at d = tgt − src.
func (s *pairScratch) evalPair(tgt, src []float64, kind ValueKind) error {
	for ax := range tgt {
		s.env["d"+strconv.Itoa(ax)] = complex(tgt[ax]-src[ax], 0)
	}
	if err := s.prog.RunInto(s.regs, s.out, s.env); err != nil {
		return err
	}
	if kind == ValueReal {
		for i, v := range s.out {
			s.out[i] = complex(real(v), 0)
		}
	}
	return nil
}

// chunkRanges splits [0, n) into at most workers contiguous ranges.
func chunkRanges(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil
	}
	out := make([][2]int, 0, workers)
	size := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
