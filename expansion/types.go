package expansion

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// Sentinel errors for expansion configuration and use.
var (
	// ErrNegativeOrder indicates a truncation order below zero.
	ErrNegativeOrder = errors.New("expansion: truncation order must be non-negative")
	// ErrMissingTargetDirection indicates a line-Taylor expansion was
	// asked to form coefficients without a center-to-target vector.
	ErrMissingTargetDirection = errors.New(
		"expansion: line-Taylor coefficients need the center-to-target vector at formation")
	// ErrIncompatibleKernel indicates an expansion kind was attached to
	// a kernel it cannot represent (e.g. a cylindrical-harmonic
	// expansion on a non-wave or non-2-D kernel).
	ErrIncompatibleKernel = errors.New("expansion: kernel incompatible with expansion kind")
	// ErrCoefficientCount indicates a coefficient slice whose length
	// does not match the expansion's identifier set.
	ErrCoefficientCount = errors.New("expansion: coefficient count mismatch")
	// ErrDimensionMismatch indicates a vector argument whose length does
	// not match the kernel's spatial dimension.
	ErrDimensionMismatch = errors.New("expansion: vector dimension mismatch")
	// ErrUnsupportedTranslation indicates no translation rule exists for
	// a (source kind, target kind) pair. The concrete error names both.
	ErrUnsupportedTranslation = errors.New("expansion: unsupported translation")
)

// UnsupportedTranslationError reports a translation request for a
// kind pair absent from the rule table. It matches
// ErrUnsupportedTranslation under errors.Is.
type UnsupportedTranslationError struct {
	Source Kind
	Target Kind
}

func (e *UnsupportedTranslationError) Error() string {
	return fmt.Sprintf("expansion: no translation rule from %s to %s", e.Source, e.Target)
}

// Is matches the ErrUnsupportedTranslation sentinel.
func (e *UnsupportedTranslationError) Is(target error) bool {
	return target == ErrUnsupportedTranslation
}

// Kind tags the concrete expansion variants. Translation rules are
// keyed by (source kind, target kind), which keeps the supported set
// enumerable and auditable.
type Kind int

const (
	// KindLineTaylor is the single-parameter Taylor expansion along the
	// source-to-target line.
	KindLineTaylor Kind = iota
	// KindVolumeTaylor is the multivariate Taylor expansion.
	KindVolumeTaylor
	// KindH2DLocal is the cylindrical-harmonic (Bessel J) local
	// expansion for 2-D wave kernels.
	KindH2DLocal
	// KindH2DMultipole is the outgoing (Hankel H¹) expansion for 2-D
	// wave kernels.
	KindH2DMultipole
)

// String returns the kind's name as used in error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindLineTaylor:
		return "line-taylor"
	case KindVolumeTaylor:
		return "volume-taylor"
	case KindH2DLocal:
		return "h2d-local"
	case KindH2DMultipole:
		return "h2d-multipole"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Expansion is a truncated series representation of a field near a
// center. Implementations are immutable after construction.
//
// CoefficientsFromSource forms symbolic coefficients from the
// source-to-center vector avec; bvec (center-to-target) is required
// only by the line-Taylor kind and ignored by the others. Evaluate
// reconstructs the field value at the center-to-target vector bvec
// from a coefficient slice. TranslateFrom re-centers a source
// expansion's coefficients across the shift vector dvec.
type Expansion interface {
	Kind() Kind
	Kernel() kernel.Kernel
	Order() int
	NumCoefficients() int
	CoefficientsFromSource(avec, bvec []symbolic.Expr) ([]symbolic.Expr, error)
	Evaluate(coeffs []symbolic.Expr, bvec []symbolic.Expr) (symbolic.Expr, error)
	TranslateFrom(src Expansion, srcCoeffs []symbolic.Expr, dvec []symbolic.Expr) ([]symbolic.Expr, error)
}

// Option configures an expansion at construction.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report translation-operator
// construction. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// base carries the state shared by all expansion kinds.
type base struct {
	knl    kernel.Kernel
	order  int
	logger *zap.Logger
}

func newBase(knl kernel.Kernel, order int, opts []Option) (base, error) {
	if order < 0 {
		return base{}, fmt.Errorf("%w: got %d", ErrNegativeOrder, order)
	}
	c := newConfig(opts)
	return base{knl: knl, order: order, logger: c.logger}, nil
}

// Kernel returns the kernel the expansion represents.
func (b *base) Kernel() kernel.Kernel { return b.knl }

// Order returns the truncation order.
func (b *base) Order() int { return b.order }

func (b *base) checkVector(vec []symbolic.Expr) error {
	if len(vec) != b.knl.Dim() {
		return fmt.Errorf("%w: got %d components for dim %d",
			ErrDimensionMismatch, len(vec), b.knl.Dim())
	}
	return nil
}

func checkCoeffCount(e Expansion, coeffs []symbolic.Expr) error {
	if len(coeffs) != e.NumCoefficients() {
		return fmt.Errorf("%w: %s order %d wants %d coefficients, got %d",
			ErrCoefficientCount, e.Kind(), e.Order(), e.NumCoefficients(), len(coeffs))
	}
	return nil
}
