package kernel

import (
	"fmt"

	"github.com/pointfield/sumkit/codegen"
	"github.com/pointfield/sumkit/symbolic"
)

// WavenumberName is the symbol under which wave kernels expose their
// wavenumber in symbolic expressions.
const WavenumberName = "k"

// Helmholtz2D is the 2-D outgoing Helmholtz potential H¹₀(k·r).
type Helmholtz2D struct {
	k float64
}

// NewHelmholtz2D returns the 2-D Helmholtz kernel with wavenumber k.
func NewHelmholtz2D(k float64) *Helmholtz2D { return &Helmholtz2D{k: k} }

// Dim returns 2.
func (k *Helmholtz2D) Dim() int { return 2 }

// Wavenumber returns the kernel's wavenumber.
func (k *Helmholtz2D) Wavenumber() float64 { return k.k }

// Expression returns H¹₀(k·|d|).
func (k *Helmholtz2D) Expression(dvec []symbolic.Expr) symbolic.Expr {
	return symbolic.Hankel1(0,
		symbolic.Product(symbolic.Symbol(WavenumberName), symbolic.Norm2(dvec)))
}

// PostprocessAtSource returns expr unchanged.
func (k *Helmholtz2D) PostprocessAtSource(expr symbolic.Expr, _ []symbolic.Expr) symbolic.Expr {
	return expr
}

// PostprocessAtTarget returns expr unchanged.
func (k *Helmholtz2D) PostprocessAtTarget(expr symbolic.Expr, _ []symbolic.Expr) symbolic.Expr {
	return expr
}

// BaseKernel returns the kernel itself.
func (k *Helmholtz2D) BaseKernel() Kernel { return k }

// ScalingConstant returns i/4.
func (k *Helmholtz2D) ScalingConstant() complex128 { return complex(0, 0.25) }

// Parameters binds the wavenumber symbol.
func (k *Helmholtz2D) Parameters() symbolic.Env {
	return symbolic.Env{WavenumberName: complex(k.k, 0)}
}

// ID returns the kernel's stable identity, including the wavenumber.
func (k *Helmholtz2D) ID() string { return fmt.Sprintf("helmholtz2d[k=%g]", k.k) }

// AdaptProgram registers the Hankel evaluator; hankel1 is not part of
// the compiled-program built-ins, so Helmholtz pair programs fail
// until the owning kernel adapts them.
func (k *Helmholtz2D) AdaptProgram(p *codegen.Program) {
	p.RegisterFunc(symbolic.FnHankel1, func(order int, args []complex128) (complex128, error) {
		return symbolic.EvalCall(symbolic.FnHankel1, order, args)
	})
}
