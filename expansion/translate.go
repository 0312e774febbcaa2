package expansion

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/pointfield/sumkit/symbolic"
)

// kindPair keys the translation rule table.
type kindPair struct {
	src Kind
	tgt Kind
}

// translateFunc re-centers src's coefficients across the shift vector
// dvec (old center to new center) into tgt's identifier set.
type translateFunc func(tgt, src Expansion, srcCoeffs, dvec []symbolic.Expr) ([]symbolic.Expr, error)

// translationRules enumerates the supported (source kind, target kind)
// pairs. Pairs absent here yield an UnsupportedTranslationError, never
// a silent wrong answer.
var translationRules = map[kindPair]translateFunc{
	{KindVolumeTaylor, KindVolumeTaylor}: translateByDifferentiation,
	{KindLineTaylor, KindVolumeTaylor}:   translateByDifferentiation,
	{KindH2DLocal, KindH2DLocal}:         translateH2DLocalFromLocal,
	{KindH2DMultipole, KindH2DLocal}:     translateH2DLocalFromMultipole,
}

// SupportedTranslations lists the (source kind, target kind) pairs the
// rule table covers, sorted by source then target kind.
func SupportedTranslations() [][2]Kind {
	out := make([][2]Kind, 0, len(translationRules))
	for p := range translationRules {
		out = append(out, [2]Kind{p.src, p.tgt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// translate validates the request, looks up the rule for the kind pair
// and applies it.
func translate(tgt, src Expansion, srcCoeffs, dvec []symbolic.Expr, logger *zap.Logger) ([]symbolic.Expr, error) {
	if err := checkCoeffCount(src, srcCoeffs); err != nil {
		return nil, err
	}
	if len(dvec) != tgt.Kernel().Dim() {
		return nil, fmt.Errorf("%w: shift vector has %d components for dim %d",
			ErrDimensionMismatch, len(dvec), tgt.Kernel().Dim())
	}
	rule, ok := translationRules[kindPair{src: src.Kind(), tgt: tgt.Kind()}]
	if !ok {
		return nil, &UnsupportedTranslationError{Source: src.Kind(), Target: tgt.Kind()}
	}
	logger.Debug("building translation operator",
		zap.Stringer("source_kind", src.Kind()),
		zap.Stringer("target_kind", tgt.Kind()),
		zap.Int("source_order", src.Order()),
		zap.Int("target_order", tgt.Order()),
	)
	return rule(tgt, src, srcCoeffs, dvec)
}

// translateH2DLocalFromLocal re-centers a cylindrical-harmonic local
// expansion by the Graf addition theorem:
//
//	tgt[l] = Σ_m src[m] · J_{m-l}(k·|d|) · exp(i·(l-m)·θ_d)
//
// with θ_d the angle of the shift vector.
func translateH2DLocalFromLocal(tgt, src Expansion, srcCoeffs, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	tl := tgt.(*H2DLocal)
	sl := src.(*H2DLocal)

	theta := symbolic.Atan2Of(dvec[1], dvec[0])
	arg := waveArg(dvec)

	out := make([]symbolic.Expr, tl.NumCoefficients())
	for _, l := range tl.Modes() {
		terms := make([]symbolic.Expr, 0, sl.NumCoefficients())
		for _, m := range sl.Modes() {
			terms = append(terms, symbolic.Product(
				srcCoeffs[sl.StorageIndex(m)],
				symbolic.BesselJ(m-l, arg),
				phase(l-m, theta),
			))
		}
		out[tl.StorageIndex(l)] = symbolic.Sum(terms...)
	}
	return out, nil
}

// translateH2DLocalFromMultipole converts an outgoing expansion into a
// local one across a shift that separates the two centers:
//
//	tgt[l] = Σ_m (-1)^l · H¹_{m+l}(k·|d|) · exp(i·(m+l)·θ_d) · src[m]
//
// The shift must satisfy |d| > |b| for every target offset b the local
// expansion is later evaluated at; the rule itself does not check this.
func translateH2DLocalFromMultipole(tgt, src Expansion, srcCoeffs, dvec []symbolic.Expr) ([]symbolic.Expr, error) {
	tl := tgt.(*H2DLocal)
	sm := src.(*H2DMultipole)

	theta := symbolic.Atan2Of(dvec[1], dvec[0])
	arg := waveArg(dvec)

	out := make([]symbolic.Expr, tl.NumCoefficients())
	for _, l := range tl.Modes() {
		sign := symbolic.Int(1)
		if l%2 != 0 {
			sign = symbolic.Int(-1)
		}
		terms := make([]symbolic.Expr, 0, sm.NumCoefficients())
		for _, m := range sm.Modes() {
			terms = append(terms, symbolic.Product(
				sign,
				symbolic.Hankel1(m+l, arg),
				phase(m+l, theta),
				srcCoeffs[sm.StorageIndex(m)],
			))
		}
		out[tl.StorageIndex(l)] = symbolic.Sum(terms...)
	}
	return out, nil
}
