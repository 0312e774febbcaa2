package expansion

import (
	"fmt"
	"math/big"

	"github.com/pointfield/sumkit/symbolic"
)

// MultiIndices returns all multi-indices of the given dimension with
// total degree ≤ order, in graded order (total degree ascending, first
// component descending within a degree). The returned ordering is the
// volume-Taylor coefficient-identifier ordering.
func MultiIndices(dim, order int) [][]int {
	var out [][]int
	mi := make([]int, dim)
	var fill func(axis, remaining int)
	fill = func(axis, remaining int) {
		if axis == dim-1 {
			mi[axis] = remaining
			out = append(out, append([]int(nil), mi...))
			return
		}
		for c := remaining; c >= 0; c-- {
			mi[axis] = c
			fill(axis+1, remaining-c)
		}
	}
	for total := 0; total <= order; total++ {
		fill(0, total)
	}
	return out
}

// factorial returns n! as a big integer.
func factorial(n int) *big.Int {
	return new(big.Int).MulRange(1, int64(n))
}

// factorialRat returns n! as a rational, for use in series weights.
func factorialRat(n int) *big.Rat {
	return new(big.Rat).SetInt(factorial(n))
}

// MultiIndexFactorial returns mi! = Π miᵢ! as a rational.
func MultiIndexFactorial(mi []int) *big.Rat {
	acc := big.NewInt(1)
	for _, m := range mi {
		acc.Mul(acc, factorial(m))
	}
	return new(big.Rat).SetInt(acc)
}

// MultiIndexPower returns vec^mi = Π vecᵢ^miᵢ.
func MultiIndexPower(vec []symbolic.Expr, mi []int) symbolic.Expr {
	factors := make([]symbolic.Expr, 0, len(mi))
	for i, m := range mi {
		if m == 0 {
			continue
		}
		factors = append(factors, symbolic.PowOf(vec[i], symbolic.Int(int64(m))))
	}
	if len(factors) == 0 {
		return symbolic.Int(1)
	}
	return symbolic.Product(factors...)
}

// MixedDerivative differentiates e miᵢ times with respect to each
// component of the symbol vector vec.
func MixedDerivative(e symbolic.Expr, vec []symbolic.Expr, mi []int) symbolic.Expr {
	for i, m := range mi {
		e = symbolic.DiffN(e, symName(vec, i), m)
	}
	return e
}

// symName returns the name of the symbol at vec[axis]; derivative
// vectors must be symbol vectors built by symbolic.MakeSymVector.
func symName(vec []symbolic.Expr, axis int) string {
	s, ok := vec[axis].(*symbolic.Sym)
	if !ok {
		panic(fmt.Sprintf("expansion: derivative vector component %d is %T, want symbol", axis, vec[axis]))
	}
	return s.Name()
}

// miKey encodes a multi-index for storage-index lookup.
func miKey(mi []int) string {
	return fmt.Sprint(mi)
}
