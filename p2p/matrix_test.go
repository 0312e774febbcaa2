package p2p_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/p2p"
)

// TestMatrixGenerator_MatchesApply multiplies the interaction matrix
// by the strength vector and checks the rows sum to the dense apply
// result.
func TestMatrixGenerator_MatchesApply(t *testing.T) {
	lap := laplace2(t)
	mg, err := p2p.NewMatrixGenerator([]kernel.Kernel{lap})
	require.NoError(t, err)
	ap, err := p2p.NewApply([]kernel.Kernel{lap})
	require.NoError(t, err)

	mats, err := mg.Evaluate(context.Background(), testTargets, testSources, nil)
	require.NoError(t, err)
	require.Len(t, mats, 1)
	nt, ns := mats[0].Dims()
	require.Equal(t, len(testTargets), nt)
	require.Equal(t, len(testSources), ns)

	applied, err := ap.Evaluate(context.Background(), testTargets, testSources,
		[][]complex128{testStrengths}, nil)
	require.NoError(t, err)

	for i := 0; i < nt; i++ {
		var acc complex128
		for j := 0; j < ns; j++ {
			acc += mats[0].At(i, j) * testStrengths[j]
		}
		assert.InDelta(t, real(applied[0][i]), real(acc), 1e-12, "row %d", i)
		assert.InDelta(t, imag(applied[0][i]), imag(acc), 1e-12, "row %d", i)
	}
}

// TestMatrixGenerator_SelfExclusion checks excluded diagonal entries
// are exact zeros while off-diagonal entries are untouched.
func TestMatrixGenerator_SelfExclusion(t *testing.T) {
	mg, err := p2p.NewMatrixGenerator([]kernel.Kernel{laplace2(t)}, p2p.WithExcludeSelf(true))
	require.NoError(t, err)

	pts := testTargets
	selfIndex := []int{0, 1, 2, 3, 4}
	mats, err := mg.Evaluate(context.Background(), pts, pts, selfIndex)
	require.NoError(t, err)

	for i := range pts {
		assert.Zero(t, mats[0].At(i, i), "diagonal entry %d must be excluded", i)
		for j := range pts {
			if i != j {
				assert.NotZero(t, mats[0].At(i, j), "entry (%d,%d)", i, j)
			}
		}
	}
}

// TestMatrixGenerator_SelfExclusionHelmholtz materializes a wave
// kernel's matrix over one point cloud; the singular diagonal must come
// out as exact zeros rather than a domain error.
func TestMatrixGenerator_SelfExclusionHelmholtz(t *testing.T) {
	helm := kernel.NewHelmholtz2D(1.5)
	mg, err := p2p.NewMatrixGenerator([]kernel.Kernel{helm}, p2p.WithExcludeSelf(true))
	require.NoError(t, err)

	pts := [][]float64{{0, 0}, {1.2, 0.4}, {-0.3, 0.9}}
	mats, err := mg.Evaluate(context.Background(), pts, pts, []int{0, 1, 2})
	require.NoError(t, err, "diagonal pairs at zero distance must not be evaluated")

	for i := range pts {
		assert.Zero(t, mats[0].At(i, i), "diagonal entry %d", i)
	}
}

// TestMatrixGenerator_EmptyOperands verifies zero-size matrices are
// rejected rather than materialized.
func TestMatrixGenerator_EmptyOperands(t *testing.T) {
	mg, err := p2p.NewMatrixGenerator([]kernel.Kernel{laplace2(t)})
	require.NoError(t, err)

	_, err = mg.Evaluate(context.Background(), nil, testSources, nil)
	assert.ErrorIs(t, err, p2p.ErrEmptyOperands)

	_, err = mg.Evaluate(context.Background(), testTargets, nil, nil)
	assert.ErrorIs(t, err, p2p.ErrEmptyOperands)
}
