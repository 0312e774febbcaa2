package expansion

import (
	"math/big"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// VolumeTaylor is a multivariate Taylor expansion whose coefficient
// identifiers are the multi-indices of total degree up to the
// truncation order.
type VolumeTaylor struct {
	base
	mis   [][]int
	slots map[string]int
}

// NewVolumeTaylor returns a volume-Taylor local expansion of the given
// truncation order.
func NewVolumeTaylor(knl kernel.Kernel, order int, opts ...Option) (*VolumeTaylor, error) {
	b, err := newBase(knl, order, opts)
	if err != nil {
		return nil, err
	}
	mis := MultiIndices(knl.Dim(), order)
	slots := make(map[string]int, len(mis))
	for i, mi := range mis {
		slots[miKey(mi)] = i
	}
	return &VolumeTaylor{base: b, mis: mis, slots: slots}, nil
}

// Kind returns KindVolumeTaylor.
func (e *VolumeTaylor) Kind() Kind { return KindVolumeTaylor }

// MultiIndices returns the coefficient identifiers in storage order.
func (e *VolumeTaylor) MultiIndices() [][]int { return e.mis }

// NumCoefficients returns the number of multi-indices.
func (e *VolumeTaylor) NumCoefficients() int { return len(e.mis) }

// StorageIndex maps a multi-index to its dense slot; unknown
// identifiers map to -1.
func (e *VolumeTaylor) StorageIndex(mi []int) int {
	slot, ok := e.slots[miKey(mi)]
	if !ok {
		return -1
	}
	return slot
}

// CoefficientsFromSource forms, for each multi-index, the matching
// mixed partial derivative of the source-postprocessed kernel with
// respect to the source-to-center vector. bvec is not needed by this
// kind and may be nil.
func (e *VolumeTaylor) CoefficientsFromSource(avec, _ []symbolic.Expr) ([]symbolic.Expr, error) {
	if err := e.checkVector(avec); err != nil {
		return nil, err
	}
	pp := e.knl.PostprocessAtSource(e.knl.Expression(avec), avec)
	coeffs := make([]symbolic.Expr, len(e.mis))
	for i, mi := range e.mis {
		coeffs[i] = MixedDerivative(pp, avec, mi)
	}
	return coeffs, nil
}

// Evaluate reconstructs Σ coeff · postprocess_tgt(bvec^mi) / mi!.
func (e *VolumeTaylor) Evaluate(coeffs []symbolic.Expr, bvec []symbolic.Expr) (symbolic.Expr, error) {
	if err := checkCoeffCount(e, coeffs); err != nil {
		return nil, err
	}
	if err := e.checkVector(bvec); err != nil {
		return nil, err
	}
	terms := make([]symbolic.Expr, len(e.mis))
	for i, mi := range e.mis {
		weight := symbolic.FromRat(new(big.Rat).Inv(MultiIndexFactorial(mi)))
		terms[i] = symbolic.Product(
			coeffs[i],
			e.knl.PostprocessAtTarget(MultiIndexPower(bvec, mi), bvec),
			weight,
		)
	}
	return symbolic.Sum(terms...), nil
}

// TranslateFrom dispatches through the translation rule table. The
// volume-Taylor target accepts any registered source kind whose
// Evaluate is differentiable: the source's evaluation is re-expressed
// over the shift vector and each target multi-index takes the matching
// mixed partial. The result is exact up to both truncation orders.
func (e *VolumeTaylor) TranslateFrom(src Expansion, srcCoeffs []symbolic.Expr, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	return translate(e, src, srcCoeffs, dvec, e.logger)
}

// translateByDifferentiation is the generic re-centering rule for
// volume-Taylor targets.
func translateByDifferentiation(tgt, src Expansion, srcCoeffs, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	vt := tgt.(*VolumeTaylor)
	expr, err := src.Evaluate(srcCoeffs, dvec)
	if err != nil {
		return nil, err
	}
	out := make([]symbolic.Expr, len(vt.mis))
	for i, mi := range vt.mis {
		out[i] = MixedDerivative(expr, dvec, mi)
	}
	return out, nil
}
