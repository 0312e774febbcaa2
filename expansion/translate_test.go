package expansion_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointfield/sumkit/expansion"
	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/symbolic"
)

// TestSupportedTranslations pins down the rule table contents.
func TestSupportedTranslations(t *testing.T) {
	got := expansion.SupportedTranslations()
	want := [][2]expansion.Kind{
		{expansion.KindLineTaylor, expansion.KindVolumeTaylor},
		{expansion.KindVolumeTaylor, expansion.KindVolumeTaylor},
		{expansion.KindH2DLocal, expansion.KindH2DLocal},
		{expansion.KindH2DMultipole, expansion.KindH2DLocal},
	}
	assert.ElementsMatch(t, want, got)
}

// TestTranslate_Unsupported verifies a kind pair absent from the rule
// table fails with an error naming both kinds and matching the
// ErrUnsupportedTranslation sentinel.
func TestTranslate_Unsupported(t *testing.T) {
	helm := kernel.NewHelmholtz2D(1)
	vt, err := expansion.NewVolumeTaylor(helm, 2)
	require.NoError(t, err)
	loc, err := expansion.NewH2DLocal(helm, 2)
	require.NoError(t, err)

	coeffs := make([]symbolic.Expr, vt.NumCoefficients())
	for i := range coeffs {
		coeffs[i] = symbolic.Int(0)
	}
	_, err = loc.TranslateFrom(vt, coeffs, symbolic.MakeSymVector("d", 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, expansion.ErrUnsupportedTranslation)
	assert.Contains(t, err.Error(), "volume-taylor")
	assert.Contains(t, err.Error(), "h2d-local")
}

// TestTranslate_CoefficientCountMismatch verifies the dispatcher checks
// the source coefficient count before looking up a rule.
func TestTranslate_CoefficientCountMismatch(t *testing.T) {
	vt, err := expansion.NewVolumeTaylor(polyKernel{}, 2)
	require.NoError(t, err)

	_, err = vt.TranslateFrom(vt, []symbolic.Expr{symbolic.Int(0)}, symbolic.MakeSymVector("d", 2))
	assert.ErrorIs(t, err, expansion.ErrCoefficientCount)
}

// TestTranslate_ShiftDimensionMismatch verifies a wrong-length shift
// vector is rejected.
func TestTranslate_ShiftDimensionMismatch(t *testing.T) {
	vt, err := expansion.NewVolumeTaylor(polyKernel{}, 1)
	require.NoError(t, err)

	coeffs := make([]symbolic.Expr, vt.NumCoefficients())
	for i := range coeffs {
		coeffs[i] = symbolic.Int(0)
	}
	_, err = vt.TranslateFrom(vt, coeffs, symbolic.MakeSymVector("d", 3))
	assert.ErrorIs(t, err, expansion.ErrDimensionMismatch)
}

// TestTranslate_H2DLocalToLocal re-centers a wave local expansion and
// checks the shifted series evaluated at b matches the original series
// evaluated at d+b, and both match the kernel H¹₀(k·|a+d+b|).
func TestTranslate_H2DLocalToLocal(t *testing.T) {
	const k = 1.0
	helm := kernel.NewHelmholtz2D(k)
	loc, err := expansion.NewH2DLocal(helm, 10)
	require.NoError(t, err)

	avec := symbolic.MakeSymVector("a", 2)
	bvec := symbolic.MakeSymVector("b", 2)
	dvec := symbolic.MakeSymVector("d", 2)

	coeffs, err := loc.CoefficientsFromSource(avec, nil)
	require.NoError(t, err)
	shifted, err := loc.TranslateFrom(loc, coeffs, dvec)
	require.NoError(t, err)
	val, err := loc.Evaluate(shifted, bvec)
	require.NoError(t, err)

	a := []float64{2, 0.5}
	d := []float64{0.2, -0.1}
	b := []float64{0.15, 0.1}
	env := h2dEnv(k, map[string][]float64{"a": a, "d": d, "b": b})

	got := evalAt(t, val, env)
	want := hankel0(k * math.Hypot(a[0]+d[0]+b[0], a[1]+d[1]+b[1]))
	assert.InDelta(t, real(want), real(got), 1e-6)
	assert.InDelta(t, imag(want), imag(got), 1e-6)
}

// TestTranslate_H2DMultipoleToLocal runs the outgoing-to-incoming
// conversion across a well-separated shift: a source near the outgoing
// center, a target near the local center, centers 3.2 apart. The local
// reconstruction must match the kernel between source and target.
func TestTranslate_H2DMultipoleToLocal(t *testing.T) {
	const k = 1.0
	helm := kernel.NewHelmholtz2D(k)
	mp, err := expansion.NewH2DMultipole(helm, 10)
	require.NoError(t, err)
	loc, err := expansion.NewH2DLocal(helm, 10)
	require.NoError(t, err)

	avec := symbolic.MakeSymVector("a", 2)
	bvec := symbolic.MakeSymVector("b", 2)
	dvec := symbolic.MakeSymVector("d", 2)

	coeffs, err := mp.CoefficientsFromSource(avec, nil)
	require.NoError(t, err)
	local, err := loc.TranslateFrom(mp, coeffs, dvec)
	require.NoError(t, err)
	val, err := loc.Evaluate(local, bvec)
	require.NoError(t, err)

	a := []float64{0.1, 0.05}
	d := []float64{3, 1.1}
	b := []float64{0.2, -0.1}
	env := h2dEnv(k, map[string][]float64{"a": a, "d": d, "b": b})

	got := evalAt(t, val, env)
	want := hankel0(k * math.Hypot(a[0]+d[0]+b[0], a[1]+d[1]+b[1]))
	assert.InDelta(t, real(want), real(got), 1e-6)
	assert.InDelta(t, imag(want), imag(got), 1e-6)
}

// TestTranslate_MultipoleToLocalToLocal chains conversion and
// re-centering, the operator sequence a downward tree pass performs.
func TestTranslate_MultipoleToLocalToLocal(t *testing.T) {
	const k = 1.0
	helm := kernel.NewHelmholtz2D(k)
	mp, err := expansion.NewH2DMultipole(helm, 10)
	require.NoError(t, err)
	loc, err := expansion.NewH2DLocal(helm, 10)
	require.NoError(t, err)

	avec := symbolic.MakeSymVector("a", 2)
	bvec := symbolic.MakeSymVector("b", 2)
	dvec := symbolic.MakeSymVector("d", 2)
	svec := symbolic.MakeSymVector("s", 2)

	coeffs, err := mp.CoefficientsFromSource(avec, nil)
	require.NoError(t, err)
	parent, err := loc.TranslateFrom(mp, coeffs, dvec)
	require.NoError(t, err)
	child, err := loc.TranslateFrom(loc, parent, svec)
	require.NoError(t, err)
	val, err := loc.Evaluate(child, bvec)
	require.NoError(t, err)

	a := []float64{0.1, -0.05}
	d := []float64{3.5, 0}
	s := []float64{0.25, 0.2}
	b := []float64{0.1, -0.05}
	env := h2dEnv(k, map[string][]float64{"a": a, "d": d, "s": s, "b": b})

	got := evalAt(t, val, env)
	want := hankel0(k * math.Hypot(a[0]+d[0]+s[0]+b[0], a[1]+d[1]+s[1]+b[1]))
	assert.InDelta(t, real(want), real(got), 1e-5)
	assert.InDelta(t, imag(want), imag(got), 1e-5)
}
