package expansion

import (
	"fmt"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// checkWaveKernel validates that the kernel's innermost law is a 2-D
// wave (Helmholtz) kernel, the only law the cylindrical-harmonic
// expansions can represent.
func checkWaveKernel(knl kernel.Kernel, kind Kind) error {
	wk, ok := knl.BaseKernel().(kernel.WaveKernel)
	if !ok || wk.Dim() != 2 {
		return fmt.Errorf("%w: %s needs a 2-D wave base kernel, got %q",
			ErrIncompatibleKernel, kind, knl.BaseKernel().ID())
	}
	return nil
}

// modes lists the signed coefficient identifiers -order..order.
func modes(order int) []int {
	out := make([]int, 0, 2*order+1)
	for l := -order; l <= order; l++ {
		out = append(out, l)
	}
	return out
}

// waveArg returns k·|vec|, the radial argument of the basis functions.
func waveArg(vec []symbolic.Expr) symbolic.Expr {
	return symbolic.Product(symbolic.Symbol(kernel.WavenumberName), symbolic.Norm2(vec))
}

// phase returns exp(i·l·theta).
func phase(l int, theta symbolic.Expr) symbolic.Expr {
	return symbolic.ExpOf(symbolic.Product(symbolic.I, symbolic.Int(int64(l)), theta))
}

// H2DLocal is the cylindrical-harmonic local expansion for 2-D wave
// kernels: incoming (Bessel J) radial basis, signed modes -order..order.
type H2DLocal struct {
	base
}

// NewH2DLocal returns a cylindrical-harmonic local expansion. The
// kernel's base kernel must be a 2-D wave kernel.
func NewH2DLocal(knl kernel.Kernel, order int, opts ...Option) (*H2DLocal, error) {
	if err := checkWaveKernel(knl, KindH2DLocal); err != nil {
		return nil, err
	}
	b, err := newBase(knl, order, opts)
	if err != nil {
		return nil, err
	}
	return &H2DLocal{base: b}, nil
}

// Kind returns KindH2DLocal.
func (e *H2DLocal) Kind() Kind { return KindH2DLocal }

// Modes returns the signed coefficient identifiers -order..order.
func (e *H2DLocal) Modes() []int { return modes(e.order) }

// NumCoefficients returns 2·order+1.
func (e *H2DLocal) NumCoefficients() int { return 2*e.order + 1 }

// StorageIndex maps mode l to the dense slot order+l.
func (e *H2DLocal) StorageIndex(l int) int { return e.order + l }

// CoefficientsFromSource forms, for each mode l, the outgoing radial
// basis H¹_l at the source-to-center distance times the phase factor
// exp(i·l·θ). The angle is taken of the negated avec: avec points from
// the source to the center, and the phase convention needs the source
// angle relative to the center.
func (e *H2DLocal) CoefficientsFromSource(avec, _ []symbolic.Expr) ([]symbolic.Expr, error) {
	if err := e.checkVector(avec); err != nil {
		return nil, err
	}
	theta := symbolic.Atan2Of(symbolic.Neg(avec[1]), symbolic.Neg(avec[0]))
	arg := waveArg(avec)

	coeffs := make([]symbolic.Expr, e.NumCoefficients())
	for _, l := range e.Modes() {
		coeffs[e.StorageIndex(l)] = e.knl.PostprocessAtSource(
			symbolic.Product(symbolic.Hankel1(l, arg), phase(l, theta)), avec)
	}
	return coeffs, nil
}

// Evaluate reconstructs Σ coeff[l] · J_l(k·|b|) · exp(-i·l·θ_target),
// θ_target taken of the center-to-target vector itself — note the
// negation differs from formation.
func (e *H2DLocal) Evaluate(coeffs []symbolic.Expr, bvec []symbolic.Expr) (symbolic.Expr, error) {
	if err := checkCoeffCount(e, coeffs); err != nil {
		return nil, err
	}
	if err := e.checkVector(bvec); err != nil {
		return nil, err
	}
	theta := symbolic.Atan2Of(bvec[1], bvec[0])
	arg := waveArg(bvec)

	terms := make([]symbolic.Expr, 0, e.NumCoefficients())
	for _, l := range e.Modes() {
		terms = append(terms, symbolic.Product(
			coeffs[e.StorageIndex(l)],
			e.knl.PostprocessAtTarget(
				symbolic.Product(symbolic.BesselJ(l, arg), phase(-l, theta)), bvec),
		))
	}
	return symbolic.Sum(terms...), nil
}

// TranslateFrom dispatches through the translation rule table; the
// supported source kinds are H2DLocal and H2DMultipole.
func (e *H2DLocal) TranslateFrom(src Expansion, srcCoeffs []symbolic.Expr, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	return translate(e, src, srcCoeffs, dvec, e.logger)
}

// H2DMultipole is the outgoing cylindrical-harmonic expansion: Hankel
// H¹ radial basis, valid away from the sources it represents.
type H2DMultipole struct {
	base
}

// NewH2DMultipole returns an outgoing cylindrical-harmonic expansion.
// The kernel's base kernel must be a 2-D wave kernel.
func NewH2DMultipole(knl kernel.Kernel, order int, opts ...Option) (*H2DMultipole, error) {
	if err := checkWaveKernel(knl, KindH2DMultipole); err != nil {
		return nil, err
	}
	b, err := newBase(knl, order, opts)
	if err != nil {
		return nil, err
	}
	return &H2DMultipole{base: b}, nil
}

// Kind returns KindH2DMultipole.
func (e *H2DMultipole) Kind() Kind { return KindH2DMultipole }

// Modes returns the signed coefficient identifiers -order..order.
func (e *H2DMultipole) Modes() []int { return modes(e.order) }

// NumCoefficients returns 2·order+1.
func (e *H2DMultipole) NumCoefficients() int { return 2*e.order + 1 }

// StorageIndex maps mode l to the dense slot order+l.
func (e *H2DMultipole) StorageIndex(l int) int { return e.order + l }

// CoefficientsFromSource mirrors the local formation with the radial
// bases swapped: J_l at the source-to-center distance and the negated
// phase.
func (e *H2DMultipole) CoefficientsFromSource(avec, _ []symbolic.Expr) ([]symbolic.Expr, error) {
	if err := e.checkVector(avec); err != nil {
		return nil, err
	}
	theta := symbolic.Atan2Of(symbolic.Neg(avec[1]), symbolic.Neg(avec[0]))
	arg := waveArg(avec)

	coeffs := make([]symbolic.Expr, e.NumCoefficients())
	for _, l := range e.Modes() {
		coeffs[e.StorageIndex(l)] = e.knl.PostprocessAtSource(
			symbolic.Product(symbolic.BesselJ(l, arg), phase(-l, theta)), avec)
	}
	return coeffs, nil
}

// Evaluate reconstructs Σ coeff[l] · H¹_l(k·|b|) · exp(i·l·θ_target).
func (e *H2DMultipole) Evaluate(coeffs []symbolic.Expr, bvec []symbolic.Expr) (symbolic.Expr, error) {
	if err := checkCoeffCount(e, coeffs); err != nil {
		return nil, err
	}
	if err := e.checkVector(bvec); err != nil {
		return nil, err
	}
	theta := symbolic.Atan2Of(bvec[1], bvec[0])
	arg := waveArg(bvec)

	terms := make([]symbolic.Expr, 0, e.NumCoefficients())
	for _, l := range e.Modes() {
		terms = append(terms, symbolic.Product(
			coeffs[e.StorageIndex(l)],
			e.knl.PostprocessAtTarget(
				symbolic.Product(symbolic.Hankel1(l, arg), phase(l, theta)), bvec),
		))
	}
	return symbolic.Sum(terms...), nil
}

// TranslateFrom dispatches through the translation rule table. No
// rules currently target the outgoing kind.
func (e *H2DMultipole) TranslateFrom(src Expansion, srcCoeffs []symbolic.Expr, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	return translate(e, src, srcCoeffs, dvec, e.logger)
}
