package symbolic

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors for symbolic evaluation.
var (
	// ErrUnboundSymbol indicates Eval met a symbol with no binding in the Env.
	ErrUnboundSymbol = errors.New("symbolic: unbound symbol")
	// ErrBadArgument indicates a special function was evaluated outside its
	// numeric domain (e.g. a Bessel function of a non-real argument).
	ErrBadArgument = errors.New("symbolic: argument outside function domain")
)

// Env binds symbol names to numeric values for Eval.
type Env map[string]complex128

// Expr is an immutable symbolic expression.
//
// Diff differentiates with respect to the named variable, Subs replaces
// every occurrence of the named variable by repl (re-simplifying), and
// Eval computes a complex128 value under the given environment.
type Expr interface {
	Diff(name string) Expr
	Subs(name string, repl Expr) Expr
	Eval(env Env) (complex128, error)
	Equal(other Expr) bool
	String() string
}

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

// Int returns the integer constant n as an expression.
func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// Rat returns the exact rational p/q. Panics if q == 0.
func Rat(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// Float returns the closest rational to f.
func Float(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

// FromRat wraps a copy of r as a constant expression.
func FromRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Diff(string) Expr          { return Int(0) }
func (n *Num) Subs(string, Expr) Expr    { return n }
func (n *Num) Eval(Env) (complex128, error) {
	f, _ := n.val.Float64()
	return complex(f, 0), nil
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

// IsZero reports whether the constant equals 0.
func (n *Num) IsZero() bool { return n.val.Sign() == 0 }

// IsOne reports whether the constant equals 1.
func (n *Num) IsOne() bool { return n.val.Cmp(ratOne) == 0 }

// IsInteger reports whether the constant is integral.
func (n *Num) IsInteger() bool { return n.val.IsInt() }

// Int64 returns the integer value; only meaningful when IsInteger holds.
func (n *Num) Int64() int64 { return n.val.Num().Int64() }

// Rat returns a copy of the underlying rational.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

var ratOne = big.NewRat(1, 1)

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// Imag is the imaginary unit i. Products fold powers of i into their
// rational coefficient (i² = -1), so at most one Imag factor survives
// simplification.
type Imag struct{}

// I is the imaginary unit.
var I = Imag{}

func (Imag) Diff(string) Expr             { return Int(0) }
func (Imag) Subs(string, Expr) Expr       { return I }
func (Imag) Eval(Env) (complex128, error) { return complex(0, 1), nil }
func (Imag) String() string               { return "i" }
func (Imag) Equal(other Expr) bool {
	_, ok := other.(Imag)
	return ok
}

// Sym is a named variable.
type Sym struct{ name string }

// Symbol returns the variable with the given name.
func Symbol(name string) *Sym { return &Sym{name: name} }

// Name returns the variable's name.
func (s *Sym) Name() string { return s.name }

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return Int(1)
	}
	return Int(0)
}

func (s *Sym) Subs(name string, repl Expr) Expr {
	if s.name == name {
		return repl
	}
	return s
}

func (s *Sym) Eval(env Env) (complex128, error) {
	v, ok := env[s.name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnboundSymbol, s.name)
	}
	return v, nil
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

func (s *Sym) String() string { return s.name }

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}
