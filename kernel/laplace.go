package kernel

import (
	"fmt"
	"math"

	"github.com/pointfield/sumkit/symbolic"
)

// Laplace is the free-space Laplace potential: log r in two
// dimensions, 1/r in three.
type Laplace struct {
	dim int
}

// NewLaplace returns the Laplace kernel for dim 2 or 3.
func NewLaplace(dim int) (*Laplace, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("%w: laplace needs dim 2 or 3, got %d", ErrUnsupportedDim, dim)
	}
	return &Laplace{dim: dim}, nil
}

// Dim returns the kernel's spatial dimension.
func (k *Laplace) Dim() int { return k.dim }

// Expression returns log|d| (2-D) or 1/|d| (3-D).
func (k *Laplace) Expression(dvec []symbolic.Expr) symbolic.Expr {
	r := symbolic.Norm2(dvec)
	if k.dim == 2 {
		return symbolic.LogOf(r)
	}
	return symbolic.PowOf(r, symbolic.Int(-1))
}

// PostprocessAtSource returns expr unchanged; the plain law has no
// source-side processing.
func (k *Laplace) PostprocessAtSource(expr symbolic.Expr, _ []symbolic.Expr) symbolic.Expr {
	return expr
}

// PostprocessAtTarget returns expr unchanged.
func (k *Laplace) PostprocessAtTarget(expr symbolic.Expr, _ []symbolic.Expr) symbolic.Expr {
	return expr
}

// BaseKernel returns the kernel itself.
func (k *Laplace) BaseKernel() Kernel { return k }

// ScalingConstant returns -1/(2π) in 2-D and 1/(4π) in 3-D.
func (k *Laplace) ScalingConstant() complex128 {
	if k.dim == 2 {
		return complex(-1/(2*math.Pi), 0)
	}
	return complex(1/(4*math.Pi), 0)
}

// Parameters returns no bindings; the Laplace law is parameter-free.
func (k *Laplace) Parameters() symbolic.Env { return nil }

// ID returns the kernel's stable identity.
func (k *Laplace) ID() string { return fmt.Sprintf("laplace%dd", k.dim) }
