package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"strings"
)

// Names of the built-in special functions.
const (
	FnExp     = "exp"
	FnLog     = "log"
	FnAtan2   = "atan2"
	FnBesselJ = "besselj"
	FnHankel1 = "hankel1"
)

// Call applies a named special function. Radial basis functions
// (besselj, hankel1) additionally carry an integer order.
type Call struct {
	fn      string
	order   int
	ordered bool
	args    []Expr
}

// ExpOf returns exp(x).
func ExpOf(x Expr) Expr {
	if isZero(x) {
		return Int(1)
	}
	if inner, ok := x.(*Call); ok && inner.fn == FnLog {
		return inner.args[0]
	}
	return &Call{fn: FnExp, args: []Expr{x}}
}

// LogOf returns the natural logarithm log(x).
func LogOf(x Expr) Expr {
	if isOne(x) {
		return Int(0)
	}
	if inner, ok := x.(*Call); ok && inner.fn == FnExp {
		return inner.args[0]
	}
	return &Call{fn: FnLog, args: []Expr{x}}
}

// Atan2Of returns the two-argument arctangent atan2(y, x).
func Atan2Of(y, x Expr) Expr {
	return &Call{fn: FnAtan2, args: []Expr{y, x}}
}

// BesselJ returns the Bessel function of the first kind J_order(z).
func BesselJ(order int, z Expr) Expr {
	return &Call{fn: FnBesselJ, order: order, ordered: true, args: []Expr{z}}
}

// Hankel1 returns the Hankel function of the first kind H¹_order(z).
func Hankel1(order int, z Expr) Expr {
	return &Call{fn: FnHankel1, order: order, ordered: true, args: []Expr{z}}
}

// FuncName returns the function's name.
func (c *Call) FuncName() string { return c.fn }

// Order returns the integer order for ordered functions (besselj,
// hankel1) and zero otherwise.
func (c *Call) Order() int { return c.order }

// Ordered reports whether the function carries an integer order.
func (c *Call) Ordered() bool { return c.ordered }

// Args returns the function arguments.
func (c *Call) Args() []Expr { return c.args }

func (c *Call) Diff(name string) Expr {
	switch c.fn {
	case FnExp:
		return Product(c, c.args[0].Diff(name))
	case FnLog:
		return Product(c.args[0].Diff(name), PowOf(c.args[0], Int(-1)))
	case FnAtan2:
		// atan2(y, x): (x y' - y x') / (x² + y²)
		y, x := c.args[0], c.args[1]
		num := Sum(
			Product(x, y.Diff(name)),
			Neg(Product(y, x.Diff(name))),
		)
		den := Sum(PowOf(x, Int(2)), PowOf(y, Int(2)))
		return Product(num, PowOf(den, Int(-1)))
	case FnBesselJ, FnHankel1:
		// C'_n(z) = (C_{n-1}(z) - C_{n+1}(z)) / 2, same recurrence for
		// J and H¹.
		z := c.args[0]
		var lo, hi Expr
		if c.fn == FnBesselJ {
			lo, hi = BesselJ(c.order-1, z), BesselJ(c.order+1, z)
		} else {
			lo, hi = Hankel1(c.order-1, z), Hankel1(c.order+1, z)
		}
		return Product(Rat(1, 2), Sum(lo, Neg(hi)), z.Diff(name))
	}
	panic(fmt.Sprintf("symbolic: no derivative rule for %q", c.fn))
}

func (c *Call) Subs(name string, repl Expr) Expr {
	args := make([]Expr, len(c.args))
	for i, a := range c.args {
		args[i] = a.Subs(name, repl)
	}
	switch c.fn {
	case FnExp:
		return ExpOf(args[0])
	case FnLog:
		return LogOf(args[0])
	case FnAtan2:
		return Atan2Of(args[0], args[1])
	case FnBesselJ:
		return BesselJ(c.order, args[0])
	case FnHankel1:
		return Hankel1(c.order, args[0])
	}
	return &Call{fn: c.fn, order: c.order, ordered: c.ordered, args: args}
}

func (c *Call) Eval(env Env) (complex128, error) {
	vals := make([]complex128, len(c.args))
	for i, a := range c.args {
		v, err := a.Eval(env)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return EvalCall(c.fn, c.order, vals)
}

// EvalCall evaluates the named special function numerically. It is the
// shared function table for both tree evaluation and compiled register
// programs.
func EvalCall(fn string, order int, args []complex128) (complex128, error) {
	switch fn {
	case FnExp:
		return cmplx.Exp(args[0]), nil
	case FnLog:
		return cmplx.Log(args[0]), nil
	case FnAtan2:
		y, x := args[0], args[1]
		if !nearlyReal(y) || !nearlyReal(x) {
			return 0, fmt.Errorf("%w: atan2 of non-real input", ErrBadArgument)
		}
		return complex(math.Atan2(real(y), real(x)), 0), nil
	case FnBesselJ:
		z := args[0]
		if !nearlyReal(z) {
			return 0, fmt.Errorf("%w: besselj of non-real argument", ErrBadArgument)
		}
		return complex(besselJ(order, real(z)), 0), nil
	case FnHankel1:
		z := args[0]
		if !nearlyReal(z) {
			return 0, fmt.Errorf("%w: hankel1 of non-real argument", ErrBadArgument)
		}
		x := real(z)
		if x <= 0 {
			return 0, fmt.Errorf("%w: hankel1 requires a positive real argument", ErrBadArgument)
		}
		return complex(besselJ(order, x), besselY(order, x)), nil
	}
	return 0, fmt.Errorf("symbolic: unknown function %q", fn)
}

// besselJ extends math.Jn to negative orders via the reflection
// identity J_{-n}(x) = (-1)^n J_n(x).
func besselJ(n int, x float64) float64 {
	if n < 0 {
		if (-n)%2 == 1 {
			return -math.Jn(-n, x)
		}
		return math.Jn(-n, x)
	}
	return math.Jn(n, x)
}

// besselY extends math.Yn to negative orders via Y_{-n}(x) = (-1)^n Y_n(x).
func besselY(n int, x float64) float64 {
	if n < 0 {
		if (-n)%2 == 1 {
			return -math.Yn(-n, x)
		}
		return math.Yn(-n, x)
	}
	return math.Yn(n, x)
}

// nearlyReal tolerates the floating-point dust that complex arithmetic
// over real inputs can leave in the imaginary part.
func nearlyReal(z complex128) bool {
	return math.Abs(imag(z)) <= 1e-10*math.Max(1, math.Abs(real(z)))
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	if !ok || c.fn != o.fn || c.order != o.order || len(c.args) != len(o.args) {
		return false
	}
	for i := range c.args {
		if !c.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (c *Call) String() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = a.String()
	}
	if c.ordered {
		return fmt.Sprintf("%s(%d, %s)", c.fn, c.order, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s(%s)", c.fn, strings.Join(parts, ", "))
}

func ratPowInt(r *big.Rat, e int64) *big.Rat {
	if e < 0 {
		r = new(big.Rat).Inv(r)
		e = -e
	}
	out := big.NewRat(1, 1)
	base := new(big.Rat).Set(r)
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			out.Mul(out, base)
		}
		base.Mul(base, base)
	}
	return out
}
