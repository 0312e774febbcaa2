package kernel

import (
	"fmt"

	"github.com/pointfield/sumkit/codegen"
	"github.com/pointfield/sumkit/symbolic"
)

// AxisTargetDerivative differentiates the wrapped kernel with respect
// to one target coordinate. The derivative applies at the target side,
// after evaluation at the target offset.
type AxisTargetDerivative struct {
	axis  int
	inner Kernel
}

// NewAxisTargetDerivative wraps inner with ∂/∂target_axis.
func NewAxisTargetDerivative(axis int, inner Kernel) *AxisTargetDerivative {
	if axis < 0 || axis >= inner.Dim() {
		panic(fmt.Sprintf("kernel: target-derivative axis %d out of range for dim %d", axis, inner.Dim()))
	}
	return &AxisTargetDerivative{axis: axis, inner: inner}
}

func (k *AxisTargetDerivative) Dim() int { return k.inner.Dim() }

func (k *AxisTargetDerivative) Expression(dvec []symbolic.Expr) symbolic.Expr {
	return k.inner.Expression(dvec)
}

func (k *AxisTargetDerivative) PostprocessAtSource(expr symbolic.Expr, avec []symbolic.Expr) symbolic.Expr {
	return k.inner.PostprocessAtSource(expr, avec)
}

// PostprocessAtTarget applies the inner hook, then differentiates with
// respect to the target vector's axis component. With d = target −
// source, ∂/∂target_axis equals ∂/∂d_axis, so the same hook serves
// both the expansion and P2P formulations.
func (k *AxisTargetDerivative) PostprocessAtTarget(expr symbolic.Expr, bvec []symbolic.Expr) symbolic.Expr {
	return k.inner.PostprocessAtTarget(expr, bvec).Diff(componentName(bvec, k.axis))
}

// BaseKernel unwraps to the innermost law.
func (k *AxisTargetDerivative) BaseKernel() Kernel { return k.inner.BaseKernel() }

func (k *AxisTargetDerivative) ScalingConstant() complex128 { return k.inner.ScalingConstant() }
func (k *AxisTargetDerivative) Parameters() symbolic.Env    { return k.inner.Parameters() }

func (k *AxisTargetDerivative) ID() string {
	return fmt.Sprintf("dtgt[%d](%s)", k.axis, k.inner.ID())
}

// AdaptProgram forwards the hook to the wrapped kernel.
func (k *AxisTargetDerivative) AdaptProgram(p *codegen.Program) {
	if a, ok := k.inner.(ProgramAdapter); ok {
		a.AdaptProgram(p)
	}
}

// AxisSourceDerivative differentiates the wrapped kernel with respect
// to one source coordinate. The derivative applies at the source side,
// before any differentiation with respect to the source-to-center
// vector during coefficient formation.
type AxisSourceDerivative struct {
	axis  int
	inner Kernel
}

// NewAxisSourceDerivative wraps inner with ∂/∂source_axis.
func NewAxisSourceDerivative(axis int, inner Kernel) *AxisSourceDerivative {
	if axis < 0 || axis >= inner.Dim() {
		panic(fmt.Sprintf("kernel: source-derivative axis %d out of range for dim %d", axis, inner.Dim()))
	}
	return &AxisSourceDerivative{axis: axis, inner: inner}
}

func (k *AxisSourceDerivative) Dim() int { return k.inner.Dim() }

func (k *AxisSourceDerivative) Expression(dvec []symbolic.Expr) symbolic.Expr {
	return k.inner.Expression(dvec)
}

// PostprocessAtSource applies the inner hook, differentiates with
// respect to the source vector's axis component, and negates: with
// d = target − source, ∂/∂source_axis = −∂/∂d_axis.
func (k *AxisSourceDerivative) PostprocessAtSource(expr symbolic.Expr, avec []symbolic.Expr) symbolic.Expr {
	inner := k.inner.PostprocessAtSource(expr, avec)
	return symbolic.Neg(inner.Diff(componentName(avec, k.axis)))
}

func (k *AxisSourceDerivative) PostprocessAtTarget(expr symbolic.Expr, bvec []symbolic.Expr) symbolic.Expr {
	return k.inner.PostprocessAtTarget(expr, bvec)
}

// BaseKernel unwraps to the innermost law.
func (k *AxisSourceDerivative) BaseKernel() Kernel { return k.inner.BaseKernel() }

func (k *AxisSourceDerivative) ScalingConstant() complex128 { return k.inner.ScalingConstant() }
func (k *AxisSourceDerivative) Parameters() symbolic.Env    { return k.inner.Parameters() }

func (k *AxisSourceDerivative) ID() string {
	return fmt.Sprintf("dsrc[%d](%s)", k.axis, k.inner.ID())
}

// AdaptProgram forwards the hook to the wrapped kernel.
func (k *AxisSourceDerivative) AdaptProgram(p *codegen.Program) {
	if a, ok := k.inner.(ProgramAdapter); ok {
		a.AdaptProgram(p)
	}
}
