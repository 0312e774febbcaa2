package expansion_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointfield/sumkit/expansion"
	"github.com/pointfield/sumkit/symbolic"
)

// TestMultiIndices_GradedOrder verifies the 2-D order-2 identifier set
// comes out in graded order with the first component descending within
// each total degree.
func TestMultiIndices_GradedOrder(t *testing.T) {
	got := expansion.MultiIndices(2, 2)
	want := [][]int{
		{0, 0},
		{1, 0}, {0, 1},
		{2, 0}, {1, 1}, {0, 2},
	}
	assert.Equal(t, want, got)
}

// TestMultiIndices_Count checks the identifier count against the
// binomial formula C(dim+order, dim).
func TestMultiIndices_Count(t *testing.T) {
	assert.Len(t, expansion.MultiIndices(1, 5), 6)
	assert.Len(t, expansion.MultiIndices(2, 3), 10)
	assert.Len(t, expansion.MultiIndices(3, 3), 20)
	assert.Len(t, expansion.MultiIndices(3, 0), 1)
}

// TestMultiIndexFactorial checks mi! on a few hand-computed cases.
func TestMultiIndexFactorial(t *testing.T) {
	assert.Zero(t, expansion.MultiIndexFactorial([]int{0, 0}).Cmp(big.NewRat(1, 1)))
	assert.Zero(t, expansion.MultiIndexFactorial([]int{2, 3}).Cmp(big.NewRat(12, 1)))
	assert.Zero(t, expansion.MultiIndexFactorial([]int{4, 0, 1}).Cmp(big.NewRat(24, 1)))
}

// TestMultiIndexPower evaluates vec^mi numerically.
func TestMultiIndexPower(t *testing.T) {
	vec := symbolic.MakeSymVector("x", 2)
	env := symbolic.BindVector(symbolic.Env{}, "x", []float64{2, 3})

	p := expansion.MultiIndexPower(vec, []int{2, 1})
	v, err := p.Eval(env)
	require.NoError(t, err)
	assert.InDelta(t, 12, real(v), 1e-12)

	one, err := expansion.MultiIndexPower(vec, []int{0, 0}).Eval(env)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(one), 1e-12)
}

// TestMixedDerivative applies ∂²/∂x0∂x1 to x0²·x1 and checks the
// closed form 2·x0.
func TestMixedDerivative(t *testing.T) {
	vec := symbolic.MakeSymVector("x", 2)
	e := symbolic.Product(symbolic.PowOf(vec[0], symbolic.Int(2)), vec[1])

	d := expansion.MixedDerivative(e, vec, []int{1, 1})
	env := symbolic.BindVector(symbolic.Env{}, "x", []float64{1.5, -4})
	v, err := d.Eval(env)
	require.NoError(t, err)
	assert.InDelta(t, 3, real(v), 1e-12)
}
