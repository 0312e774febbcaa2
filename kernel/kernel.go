package kernel

import (
	"errors"
	"fmt"

	"github.com/pointfield/sumkit/codegen"
	"github.com/pointfield/sumkit/symbolic"
)

// Sentinel errors for kernel configuration.
var (
	// ErrEmptyKernelSet indicates an evaluator was handed no kernels.
	ErrEmptyKernelSet = errors.New("kernel: kernel set must contain at least one kernel")
	// ErrDimensionMismatch indicates kernels in one set disagree on the
	// spatial dimension.
	ErrDimensionMismatch = errors.New("kernel: kernels in a set must share one spatial dimension")
	// ErrUnsupportedDim indicates a kernel was requested for a dimension
	// it has no expression for.
	ErrUnsupportedDim = errors.New("kernel: unsupported spatial dimension")
)

// Kernel is an immutable interaction law over a relative vector.
//
// Expression builds the symbolic potential at the given
// target-minus-source vector. PostprocessAtSource and
// PostprocessAtTarget are the hooks derivative wrappers use; plain
// kernels return the expression unchanged. BaseKernel unwraps compound
// kernels to the innermost law. ScalingConstant is the global factor
// applied to reduced results. Parameters supplies numeric bindings for
// kernel parameters appearing in expressions (e.g. the wavenumber).
// ID is a stable identity string used in compiled-program cache keys.
type Kernel interface {
	Dim() int
	Expression(dvec []symbolic.Expr) symbolic.Expr
	PostprocessAtSource(expr symbolic.Expr, avec []symbolic.Expr) symbolic.Expr
	PostprocessAtTarget(expr symbolic.Expr, bvec []symbolic.Expr) symbolic.Expr
	BaseKernel() Kernel
	ScalingConstant() complex128
	Parameters() symbolic.Env
	ID() string
}

// WaveKernel is implemented by oscillatory kernels carrying a
// wavenumber. Cylindrical-harmonic expansions accept only kernels
// whose base law is wave-type.
type WaveKernel interface {
	Kernel
	Wavenumber() float64
}

// ProgramAdapter is implemented by kernels that must adapt a compiled
// program before execution, typically to register kernel-specific
// special-function evaluators.
type ProgramAdapter interface {
	AdaptProgram(p *codegen.Program)
}

// AdaptProgram applies every kernel's program-adaptation hook to p.
func AdaptProgram(p *codegen.Program, kernels ...Kernel) {
	for _, k := range kernels {
		if a, ok := k.(ProgramAdapter); ok {
			a.AdaptProgram(p)
		}
	}
}

// UniformDim validates that the set is non-empty and shares one
// spatial dimension, returning it.
func UniformDim(kernels []Kernel) (int, error) {
	if len(kernels) == 0 {
		return 0, ErrEmptyKernelSet
	}
	dim := kernels[0].Dim()
	for _, k := range kernels[1:] {
		if k.Dim() != dim {
			return 0, fmt.Errorf("%w: %q has dim %d, %q has dim %d",
				ErrDimensionMismatch, kernels[0].ID(), dim, k.ID(), k.Dim())
		}
	}
	return dim, nil
}

// MergeParameters collects the parameter bindings of all kernels into
// one environment.
func MergeParameters(kernels []Kernel) symbolic.Env {
	env := make(symbolic.Env)
	for _, k := range kernels {
		for name, v := range k.Parameters() {
			env[name] = v
		}
	}
	return env
}

// componentName returns the symbol name of vec[axis]; hook vectors are
// required to be symbol vectors built by symbolic.MakeSymVector.
func componentName(vec []symbolic.Expr, axis int) string {
	s, ok := vec[axis].(*symbolic.Sym)
	if !ok {
		panic(fmt.Sprintf("kernel: hook vector component %d is %T, want symbol", axis, vec[axis]))
	}
	return s.Name()
}
