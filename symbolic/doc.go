// Package symbolic provides an immutable symbolic expression tree with
// differentiation, substitution, and complex-valued numeric evaluation.
//
// Expression variants:
//   - Num    — exact rational constant (math/big.Rat)
//   - Imag   — the imaginary unit i
//   - Sym    — named variable
//   - Add    — sum of terms
//   - Mul    — product of factors
//   - Pow    — base raised to an exponent
//   - Call   — named special-function application, optionally carrying
//     an integer order (Bessel J, Hankel H¹ of the first kind)
//
// All constructors return simplified expressions; values are immutable
// and safe for concurrent use. Differentiation reproduces the standard
// chain/product/power rules together with the special-function
// identities the expansion machinery depends on:
//
//	d/dz J_n(z)  = (J_{n-1}(z) - J_{n+1}(z)) / 2
//	d/dz H¹_n(z) = (H¹_{n-1}(z) - H¹_{n+1}(z)) / 2
//	∂/∂y atan2(y, x) =  x / (x² + y²)
//	∂/∂x atan2(y, x) = -y / (x² + y²)
//
// Numeric evaluation happens over an Env binding symbol names to
// complex128 values; unbound symbols are an error, not a zero.
package symbolic
