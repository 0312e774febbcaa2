package p2p

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/pointfield/sumkit/codegen"
)

// Sentinel errors for evaluator configuration and input validation.
var (
	// ErrPointDimension indicates a target or source point whose length
	// does not match the kernel set's spatial dimension.
	ErrPointDimension = errors.New("p2p: point dimension mismatch")
	// ErrStrengthShape indicates a strength matrix with too few rows for
	// the configured usage, or a row whose length differs from the
	// source count.
	ErrStrengthShape = errors.New("p2p: strength shape mismatch")
	// ErrStrengthUsage indicates a strength-usage vector whose length
	// differs from the kernel count, or with a negative row.
	ErrStrengthUsage = errors.New("p2p: invalid strength usage")
	// ErrSelfIndex indicates a missing or wrong-length self-index vector
	// while self-exclusion is enabled.
	ErrSelfIndex = errors.New("p2p: self index must have one entry per target")
	// ErrEmptyOperands indicates a matrix evaluation with no targets or
	// no sources; a zero-dimension matrix has no meaningful layout.
	ErrEmptyOperands = errors.New("p2p: matrix evaluation needs at least one target and one source")
	// ErrIndexSet indicates an inconsistent block index set.
	ErrIndexSet = errors.New("p2p: invalid block index set")
	// ErrBoxPairs indicates box-pair CSR data referencing targets,
	// sources or boxes out of bounds.
	ErrBoxPairs = errors.New("p2p: invalid box pairs")
	// ErrResultShape indicates an accumulation buffer whose shape does
	// not match the kernel and target counts.
	ErrResultShape = errors.New("p2p: result shape mismatch")
)

// ValueKind selects how pair values enter the reduction. It is part of
// the compiled-program cache key.
type ValueKind int

const (
	// ValueComplex keeps the full complex pair value.
	ValueComplex ValueKind = iota
	// ValueReal drops the imaginary part of the pair value before
	// weighting and scaling.
	ValueReal
)

// String returns the kind's name as used in cache keys.
func (v ValueKind) String() string {
	switch v {
	case ValueComplex:
		return "complex"
	case ValueReal:
		return "real"
	}
	return fmt.Sprintf("valuekind(%d)", int(v))
}

// Options configures an evaluator.
type Options struct {
	// ExcludeSelf makes the pair (target, source) contribute exactly
	// zero when the target's self index equals the source index. The
	// pair is still visited but its pair value is never computed, so
	// the reduction shape stays uniform and kernels singular at zero
	// distance stay evaluable.
	ExcludeSelf bool
	// StrengthUsage names, per kernel, the strength row the kernel
	// reads. Defaults to row 0 for every kernel.
	StrengthUsage []int
	// ValueKind selects complex or real pair values.
	ValueKind ValueKind
	// Workers bounds evaluation parallelism. Defaults to GOMAXPROCS.
	Workers int
	// Logger reports program builds and evaluation spans. Defaults to a
	// no-op logger.
	Logger *zap.Logger
	// Cache memoizes compiled pair programs. Defaults to the shared
	// process-wide cache.
	Cache *codegen.Cache
}

// DefaultOptions returns the evaluator defaults.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  zap.NewNop(),
		Cache:   codegen.Default(),
	}
}

// Option overrides one evaluator default.
type Option func(*Options)

// WithExcludeSelf toggles self-interaction exclusion.
func WithExcludeSelf(exclude bool) Option {
	return func(o *Options) { o.ExcludeSelf = exclude }
}

// WithStrengthUsage sets the strength row each kernel reads; one entry
// per kernel, in kernel order.
func WithStrengthUsage(rows ...int) Option {
	return func(o *Options) { o.StrengthUsage = rows }
}

// WithValueKind selects complex or real pair values.
func WithValueKind(v ValueKind) Option {
	return func(o *Options) { o.ValueKind = v }
}

// WithWorkers bounds evaluation parallelism.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the evaluator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithCache sets the compiled-program cache.
func WithCache(c *codegen.Cache) Option {
	return func(o *Options) { o.Cache = c }
}
