package symbolic

import (
	"math/cmplx"
	"strings"
)

// Add is a sum of two or more terms.
type Add struct{ terms []Expr }

// Sum returns the simplified sum of the given terms: nested sums are
// flattened, rational constants are folded, and zero terms dropped.
func Sum(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}
	acc := Int(0)
	rest := make([]Expr, 0, len(flat))
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			acc = numAdd(acc, n)
			continue
		}
		rest = append(rest, t)
	}
	if !acc.IsZero() {
		rest = append(rest, acc)
	}
	switch len(rest) {
	case 0:
		return Int(0)
	case 1:
		return rest[0]
	}
	return &Add{terms: rest}
}

// Terms returns the summands.
func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) Diff(name string) Expr {
	ds := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		ds[i] = t.Diff(name)
	}
	return Sum(ds...)
}

func (a *Add) Subs(name string, repl Expr) Expr {
	ts := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.Subs(name, repl)
	}
	return Sum(ts...)
}

func (a *Add) Eval(env Env) (complex128, error) {
	var acc complex128
	for _, t := range a.terms {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		acc += v
	}
	return acc, nil
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

// Mul is a product of two or more factors.
type Mul struct{ factors []Expr }

// Product returns the simplified product of the given factors: nested
// products are flattened, rational constants and powers of the
// imaginary unit fold into a single leading coefficient, and a zero
// factor annihilates the product.
func Product(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}
	coeff := Int(1)
	nimag := 0
	rest := make([]Expr, 0, len(flat))
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case Imag:
			nimag++
		default:
			rest = append(rest, f)
		}
	}
	if coeff.IsZero() {
		return Int(0)
	}
	// i^n cycles with period 4: 1, i, -1, -i.
	switch nimag % 4 {
	case 2:
		coeff = numNeg(coeff)
	case 3:
		coeff = numNeg(coeff)
		rest = append([]Expr{I}, rest...)
	case 1:
		rest = append([]Expr{I}, rest...)
	}
	if len(rest) == 0 {
		return coeff
	}
	if !coeff.IsOne() {
		rest = append([]Expr{coeff}, rest...)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &Mul{factors: rest}
}

// Neg returns -x.
func Neg(x Expr) Expr { return Product(Int(-1), x) }

// Factors returns the multiplicands.
func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) Diff(name string) Expr {
	// Product rule over all factors.
	terms := make([]Expr, len(m.factors))
	for i := range m.factors {
		parts := make([]Expr, 0, len(m.factors))
		parts = append(parts, m.factors[i].Diff(name))
		for j, f := range m.factors {
			if j != i {
				parts = append(parts, f)
			}
		}
		terms[i] = Product(parts...)
	}
	return Sum(terms...)
}

func (m *Mul) Subs(name string, repl Expr) Expr {
	fs := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.Subs(name, repl)
	}
	return Product(fs...)
}

func (m *Mul) Eval(env Env) (complex128, error) {
	acc := complex(1, 0)
	for _, f := range m.factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return acc, nil
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

// Pow is base raised to an exponent.
type Pow struct{ base, exp Expr }

// PowOf returns the simplified power base^exp.
func PowOf(base, exp Expr) Expr {
	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return Int(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return Int(1)
		}
		if bn.IsZero() {
			// 0^e = 0 for positive numeric e; anything else stays symbolic.
			if en, ok2 := exp.(*Num); ok2 && en.val.Sign() > 0 {
				return Int(0)
			}
			return &Pow{base: base, exp: exp}
		}
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			if e := en.Int64(); e >= -16 && e <= 16 {
				return FromRat(ratPowInt(bn.Rat(), e))
			}
		}
	}
	// (x^a)^b = x^(a*b) only for numeric a and integer b; a fractional
	// outer exponent may land on the wrong branch ((x²)^(1/2) is |x|,
	// not x).
	if inner, ok := base.(*Pow); ok {
		if _, aNum := inner.exp.(*Num); aNum {
			if bn, bNum := exp.(*Num); bNum && bn.IsInteger() {
				return PowOf(inner.base, Product(inner.exp, exp))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

// Sqrt returns the principal square root of x.
func Sqrt(x Expr) Expr { return PowOf(x, Rat(1, 2)) }

// Base returns the power's base.
func (p *Pow) Base() Expr { return p.base }

// Exponent returns the power's exponent.
func (p *Pow) Exponent() Expr { return p.exp }

func (p *Pow) Diff(name string) Expr {
	db := p.base.Diff(name)
	if en, ok := p.exp.(*Num); ok {
		// d(u^c) = c * u^(c-1) * u'
		return Product(en, PowOf(p.base, numAdd(en, Int(-1))), db)
	}
	de := p.exp.Diff(name)
	// d(u^v) = u^v * (v' ln u + v u'/u)
	return Product(p, Sum(
		Product(de, LogOf(p.base)),
		Product(p.exp, db, PowOf(p.base, Int(-1))),
	))
}

func (p *Pow) Subs(name string, repl Expr) Expr {
	return PowOf(p.base.Subs(name, repl), p.exp.Subs(name, repl))
}

func (p *Pow) Eval(env Env) (complex128, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(env)
	if err != nil {
		return 0, err
	}
	// Integer exponents evaluate by repeated multiplication, which is
	// exact for real inputs and avoids branch cuts.
	if imag(e) == 0 {
		if n := int64(real(e)); float64(n) == real(e) && n >= -32 && n <= 32 {
			return cpowInt(b, n), nil
		}
	}
	return cmplx.Pow(b, e), nil
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) String() string {
	bs := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		bs = "(" + bs + ")"
	}
	es := p.exp.String()
	switch p.exp.(type) {
	case *Add, *Mul, *Pow:
		es = "(" + es + ")"
	default:
		if strings.ContainsAny(es, "/-") {
			es = "(" + es + ")"
		}
	}
	return bs + "^" + es
}

func cpowInt(b complex128, n int64) complex128 {
	if n < 0 {
		return 1 / cpowInt(b, -n)
	}
	acc := complex(1, 0)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			acc *= b
		}
		b *= b
	}
	return acc
}
