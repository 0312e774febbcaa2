package expansion

import (
	"math/big"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// lineParam is the scalar position along the source-to-target line.
const lineParam = "tau"

// LineTaylor is a single-parameter Taylor expansion of the kernel
// along the line joining the source and the target direction.
//
// Structurally, the target direction is baked into the coefficients:
// CoefficientsFromSource requires bvec, and Evaluate ignores its bvec
// argument — coefficients are only valid for the direction they were
// formed with.
type LineTaylor struct {
	base
}

// NewLineTaylor returns a line-Taylor local expansion of the given
// truncation order.
func NewLineTaylor(knl kernel.Kernel, order int, opts ...Option) (*LineTaylor, error) {
	b, err := newBase(knl, order, opts)
	if err != nil {
		return nil, err
	}
	return &LineTaylor{base: b}, nil
}

// Kind returns KindLineTaylor.
func (e *LineTaylor) Kind() Kind { return KindLineTaylor }

// NumCoefficients returns order+1.
func (e *LineTaylor) NumCoefficients() int { return e.order + 1 }

// StorageIndex maps the identifier i in 0..order to its dense slot.
func (e *LineTaylor) StorageIndex(i int) int { return i }

// CoefficientsFromSource forms the i-th coefficients as the i-th
// τ-derivative of the kernel along avec + τ·bvec, taken at τ = 0, with
// the source hook applied before and the target hook after the
// differentiation. A nil bvec is a configuration error: this kind
// cannot form coefficients without a known target direction.
func (e *LineTaylor) CoefficientsFromSource(avec, bvec []symbolic.Expr) ([]symbolic.Expr, error) {
	if bvec == nil {
		return nil, ErrMissingTargetDirection
	}
	if err := e.checkVector(avec); err != nil {
		return nil, err
	}
	if err := e.checkVector(bvec); err != nil {
		return nil, err
	}

	tau := symbolic.Symbol(lineParam)
	line := make([]symbolic.Expr, len(avec))
	for i := range avec {
		line[i] = symbolic.Sum(avec[i], symbolic.Product(tau, bvec[i]))
	}
	lineKernel := e.knl.Expression(line)

	coeffs := make([]symbolic.Expr, e.NumCoefficients())
	deriv := lineKernel
	for i := 0; i <= e.order; i++ {
		if i > 0 {
			deriv = deriv.Diff(lineParam)
		}
		pp := e.knl.PostprocessAtTarget(e.knl.PostprocessAtSource(deriv, avec), bvec)
		coeffs[e.StorageIndex(i)] = pp.Subs(lineParam, symbolic.Int(0))
	}
	return coeffs, nil
}

// Evaluate reconstructs the field value as Σ coeff[i]/i!. The bvec
// argument is unused: the target offset entered at formation time.
func (e *LineTaylor) Evaluate(coeffs []symbolic.Expr, _ []symbolic.Expr) (symbolic.Expr, error) {
	if err := checkCoeffCount(e, coeffs); err != nil {
		return nil, err
	}
	terms := make([]symbolic.Expr, e.NumCoefficients())
	for i := 0; i <= e.order; i++ {
		inv := symbolic.FromRat(new(big.Rat).Inv(factorialRat(i)))
		terms[i] = symbolic.Product(coeffs[e.StorageIndex(i)], inv)
	}
	return symbolic.Sum(terms...), nil
}

// TranslateFrom dispatches through the translation rule table.
func (e *LineTaylor) TranslateFrom(src Expansion, srcCoeffs []symbolic.Expr, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	return translate(e, src, srcCoeffs, dvec, e.logger)
}
