package p2p_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/p2p"
)

// Small fixed point clouds shared by the evaluator tests.
var (
	testTargets = [][]float64{
		{0.1, 0.2}, {1.3, -0.4}, {-0.8, 0.9}, {2.1, 1.7}, {0.5, -1.2},
	}
	testSources = [][]float64{
		{2.0, 0.3}, {-1.1, 1.4}, {0.7, 2.2}, {-0.6, -0.9},
	}
	testStrengths = []complex128{
		complex(1, 0), complex(-0.5, 0.25), complex(2, -1), complex(0.75, 0),
	}
)

func laplace2(t *testing.T) kernel.Kernel {
	t.Helper()
	lap, err := kernel.NewLaplace(2)
	require.NoError(t, err)
	return lap
}

// laplacePotential is the direct scaled reduction
// −1/(2π)·Σ log|t−s|·q_s, optionally skipping source index skip.
func laplacePotential(tgt []float64, sources [][]float64, strengths []complex128, skip int) complex128 {
	var acc complex128
	for j, s := range sources {
		if j == skip {
			continue
		}
		r := math.Hypot(tgt[0]-s[0], tgt[1]-s[1])
		acc += complex(math.Log(r), 0) * strengths[j]
	}
	return complex(-1/(2*math.Pi), 0) * acc
}

// TestNewApply_Validation covers kernel-set and option validation.
func TestNewApply_Validation(t *testing.T) {
	_, err := p2p.NewApply(nil)
	assert.ErrorIs(t, err, kernel.ErrEmptyKernelSet, "empty kernel set must error")

	lap2 := laplace2(t)
	lap3, err := kernel.NewLaplace(3)
	require.NoError(t, err)
	_, err = p2p.NewApply([]kernel.Kernel{lap2, lap3})
	assert.ErrorIs(t, err, kernel.ErrDimensionMismatch, "mixed dimensions must error")

	_, err = p2p.NewApply([]kernel.Kernel{lap2}, p2p.WithStrengthUsage(0, 1))
	assert.ErrorIs(t, err, p2p.ErrStrengthUsage, "usage length must match kernel count")

	_, err = p2p.NewApply([]kernel.Kernel{lap2}, p2p.WithStrengthUsage(-1))
	assert.ErrorIs(t, err, p2p.ErrStrengthUsage, "negative usage row must error")
}

// TestApply_MatchesDirectSum compares the evaluator against the
// hand-rolled scaled reduction for the 2-D Laplace kernel.
func TestApply_MatchesDirectSum(t *testing.T) {
	ap, err := p2p.NewApply([]kernel.Kernel{laplace2(t)}, p2p.WithWorkers(3))
	require.NoError(t, err)

	results, err := ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0], len(testTargets))

	for i, tgt := range testTargets {
		want := laplacePotential(tgt, testSources, testStrengths, -1)
		assert.InDelta(t, real(want), real(results[0][i]), 1e-12, "target %d", i)
		assert.InDelta(t, imag(want), imag(results[0][i]), 1e-12, "target %d", i)
	}
}

// TestApply_SelfExclusion evaluates a cloud against itself with the
// identity self map and checks the result equals manual diagonal
// skipping.
func TestApply_SelfExclusion(t *testing.T) {
	pts := testTargets
	strengths := []complex128{1, 2, 3, 4, 5}
	selfIndex := []int{0, 1, 2, 3, 4}

	ap, err := p2p.NewApply([]kernel.Kernel{laplace2(t)}, p2p.WithExcludeSelf(true))
	require.NoError(t, err)

	results, err := ap.Evaluate(context.Background(), pts, pts, [][]complex128{strengths}, selfIndex)
	require.NoError(t, err)

	for i, tgt := range pts {
		want := laplacePotential(tgt, pts, strengths, i)
		assert.InDelta(t, real(want), real(results[0][i]), 1e-12, "target %d", i)
	}
}

// TestApply_SelfExclusionHelmholtz evaluates a wave kernel over its
// own point cloud. The self pair sits at zero distance, where the
// Hankel function is singular; exclusion must yield zero contributions
// there, not a domain error.
func TestApply_SelfExclusionHelmholtz(t *testing.T) {
	const k = 1.5
	pts := [][]float64{{0, 0}, {1.2, 0.4}, {-0.3, 0.9}}
	strengths := []complex128{complex(1, 0), complex(0.5, -0.5), complex(-2, 1)}
	selfIndex := []int{0, 1, 2}

	ap, err := p2p.NewApply([]kernel.Kernel{kernel.NewHelmholtz2D(k)}, p2p.WithExcludeSelf(true))
	require.NoError(t, err)

	results, err := ap.Evaluate(context.Background(), pts, pts, [][]complex128{strengths}, selfIndex)
	require.NoError(t, err, "self pairs at zero distance must not be evaluated")

	for i, tgt := range pts {
		var acc complex128
		for j, s := range pts {
			if j == i {
				continue
			}
			r := math.Hypot(tgt[0]-s[0], tgt[1]-s[1])
			acc += complex(math.J0(k*r), math.Y0(k*r)) * strengths[j]
		}
		want := complex(0, 0.25) * acc
		assert.InDelta(t, real(want), real(results[0][i]), 1e-12, "target %d", i)
		assert.InDelta(t, imag(want), imag(results[0][i]), 1e-12, "target %d", i)
	}
}

// TestApply_SelfIndexRequired verifies exclusion without a matching
// self map fails up front.
func TestApply_SelfIndexRequired(t *testing.T) {
	ap, err := p2p.NewApply([]kernel.Kernel{laplace2(t)}, p2p.WithExcludeSelf(true))
	require.NoError(t, err)

	_, err = ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths}, nil)
	assert.ErrorIs(t, err, p2p.ErrSelfIndex)
}

// TestApply_StrengthUsageRows drives two kernels off two different
// strength rows: the potential off row 0 and its first target
// derivative off row 1.
func TestApply_StrengthUsageRows(t *testing.T) {
	lap := laplace2(t)
	kernels := []kernel.Kernel{lap, kernel.NewAxisTargetDerivative(0, lap)}
	ap, err := p2p.NewApply(kernels, p2p.WithStrengthUsage(0, 1))
	require.NoError(t, err)

	row0 := testStrengths
	row1 := []complex128{complex(0.5, 0), complex(1, 0), complex(-2, 0), complex(0.1, 0)}
	results, err := ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{row0, row1}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, tgt := range testTargets {
		want := laplacePotential(tgt, testSources, row0, -1)
		assert.InDelta(t, real(want), real(results[0][i]), 1e-12, "potential at target %d", i)

		// ∂/∂t0 log|t−s| = (t0−s0)/r².
		var acc complex128
		for j, s := range testSources {
			dx, dy := tgt[0]-s[0], tgt[1]-s[1]
			acc += complex(dx/(dx*dx+dy*dy), 0) * row1[j]
		}
		wantD := complex(-1/(2*math.Pi), 0) * acc
		assert.InDelta(t, real(wantD), real(results[1][i]), 1e-12, "derivative at target %d", i)
	}
}

// TestApply_StrengthShape verifies strength matrices are validated
// against the usage and the source count.
func TestApply_StrengthShape(t *testing.T) {
	lap := laplace2(t)
	ap, err := p2p.NewApply([]kernel.Kernel{lap, lap}, p2p.WithStrengthUsage(0, 1))
	require.NoError(t, err)

	_, err = ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths}, nil)
	assert.ErrorIs(t, err, p2p.ErrStrengthShape, "usage row 1 needs two strength rows")

	_, err = ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths, {1, 2}}, nil)
	assert.ErrorIs(t, err, p2p.ErrStrengthShape, "short strength row must error")
}

// TestApply_PointDimension verifies per-point dimension validation.
func TestApply_PointDimension(t *testing.T) {
	ap, err := p2p.NewApply([]kernel.Kernel{laplace2(t)})
	require.NoError(t, err)

	_, err = ap.Evaluate(context.Background(), [][]float64{{1, 2, 3}}, testSources,
		[][]complex128{testStrengths}, nil)
	assert.ErrorIs(t, err, p2p.ErrPointDimension)
}

// TestApply_ValueKindReal keeps only the real part of the Helmholtz
// pair value before weighting: i/4·Σ J₀(k·r)·q.
func TestApply_ValueKindReal(t *testing.T) {
	const k = 2.0
	helm := kernel.NewHelmholtz2D(k)
	ap, err := p2p.NewApply([]kernel.Kernel{helm}, p2p.WithValueKind(p2p.ValueReal))
	require.NoError(t, err)

	results, err := ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths}, nil)
	require.NoError(t, err)

	for i, tgt := range testTargets {
		var acc complex128
		for j, s := range testSources {
			r := math.Hypot(tgt[0]-s[0], tgt[1]-s[1])
			acc += complex(math.J0(k*r), 0) * testStrengths[j]
		}
		want := complex(0, 0.25) * acc
		assert.InDelta(t, real(want), real(results[0][i]), 1e-12, "target %d", i)
		assert.InDelta(t, imag(want), imag(results[0][i]), 1e-12, "target %d", i)
	}
}

// TestApply_ContextCancellation verifies a canceled context aborts the
// evaluation.
func TestApply_ContextCancellation(t *testing.T) {
	ap, err := p2p.NewApply([]kernel.Kernel{laplace2(t)}, p2p.WithWorkers(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ap.Evaluate(ctx, testTargets, testSources, [][]complex128{testStrengths}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
