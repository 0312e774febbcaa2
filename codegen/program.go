package codegen

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/pointfield/sumkit/symbolic"
)

// Sentinel errors for program compilation and execution.
var (
	// ErrUnknownFunction indicates a call instruction references a
	// function absent from the program's function table.
	ErrUnknownFunction = errors.New("codegen: unknown function")
	// ErrUnboundArgument indicates Run was invoked without a binding for
	// a symbol the program loads.
	ErrUnboundArgument = errors.New("codegen: unbound argument")
	// ErrUnsupportedExpr indicates Compile met an expression variant it
	// cannot lower.
	ErrUnsupportedExpr = errors.New("codegen: unsupported expression variant")
)

// FuncEval evaluates a named special function at complex arguments.
// order carries the integer order of radial basis functions and is
// zero for plain functions.
type FuncEval func(order int, args []complex128) (complex128, error)

type opcode uint8

const (
	opConst opcode = iota
	opLoad
	opAdd
	opMul
	opPow
	opCall
)

type instr struct {
	op    opcode
	out   int
	args  []int
	val   complex128
	name  string // symbol name (opLoad) or function name (opCall)
	order int    // opCall only
}

// Program is a compiled register program. It is immutable after
// construction except for RegisterFunc, which must not race with Run.
type Program struct {
	instrs  []instr
	nreg    int
	roots   []int
	funcs   map[string]FuncEval
	symbols []string
}

// builtinFuncs covers the special functions every program can call.
// Kernel-specific functions are registered via RegisterFunc.
var builtinFuncs = []string{
	symbolic.FnExp,
	symbolic.FnLog,
	symbolic.FnAtan2,
	symbolic.FnBesselJ,
}

type compiler struct {
	prog *Program
	memo map[string]int // expression string -> register holding it
	seen map[string]bool
}

// Compile lowers the given root expressions into a single program with
// one result per root. Structurally identical subexpressions compile
// to a single shared register.
func Compile(roots ...symbolic.Expr) (*Program, error) {
	p := &Program{funcs: make(map[string]FuncEval, len(builtinFuncs))}
	for _, name := range builtinFuncs {
		fn := name
		p.funcs[fn] = func(order int, args []complex128) (complex128, error) {
			return symbolic.EvalCall(fn, order, args)
		}
	}
	c := &compiler{
		prog: p,
		memo: make(map[string]int),
		seen: make(map[string]bool),
	}
	for _, root := range roots {
		reg, err := c.emit(root)
		if err != nil {
			return nil, err
		}
		p.roots = append(p.roots, reg)
	}
	return p, nil
}

func (c *compiler) emit(e symbolic.Expr) (int, error) {
	key := e.String()
	if reg, ok := c.memo[key]; ok {
		return reg, nil
	}

	var in instr
	switch v := e.(type) {
	case *symbolic.Num:
		f, _ := v.Rat().Float64()
		in = instr{op: opConst, val: complex(f, 0)}
	case symbolic.Imag:
		in = instr{op: opConst, val: complex(0, 1)}
	case *symbolic.Sym:
		in = instr{op: opLoad, name: v.Name()}
		if !c.seen[v.Name()] {
			c.seen[v.Name()] = true
			c.prog.symbols = append(c.prog.symbols, v.Name())
		}
	case *symbolic.Add:
		args, err := c.emitAll(v.Terms())
		if err != nil {
			return 0, err
		}
		in = instr{op: opAdd, args: args}
	case *symbolic.Mul:
		args, err := c.emitAll(v.Factors())
		if err != nil {
			return 0, err
		}
		in = instr{op: opMul, args: args}
	case *symbolic.Pow:
		base, err := c.emit(v.Base())
		if err != nil {
			return 0, err
		}
		exp, err := c.emit(v.Exponent())
		if err != nil {
			return 0, err
		}
		in = instr{op: opPow, args: []int{base, exp}}
	case *symbolic.Call:
		args, err := c.emitAll(v.Args())
		if err != nil {
			return 0, err
		}
		in = instr{op: opCall, args: args, name: v.FuncName(), order: v.Order()}
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedExpr, e)
	}

	in.out = c.prog.nreg
	c.prog.nreg++
	c.prog.instrs = append(c.prog.instrs, in)
	c.memo[key] = in.out
	return in.out, nil
}

func (c *compiler) emitAll(exprs []symbolic.Expr) ([]int, error) {
	regs := make([]int, len(exprs))
	for i, e := range exprs {
		reg, err := c.emit(e)
		if err != nil {
			return nil, err
		}
		regs[i] = reg
	}
	return regs, nil
}

// RegisterFunc installs (or overrides) an evaluator for the named
// function. Must not be called concurrently with Run.
func (p *Program) RegisterFunc(name string, fn FuncEval) { p.funcs[name] = fn }

// NumRegisters returns the scratch size RunInto requires.
func (p *Program) NumRegisters() int { return p.nreg }

// NumResults returns the number of compiled root expressions.
func (p *Program) NumResults() int { return len(p.roots) }

// Symbols returns the distinct symbol names the program loads.
func (p *Program) Symbols() []string { return p.symbols }

// Run evaluates the program under env, returning one value per root.
func (p *Program) Run(env symbolic.Env) ([]complex128, error) {
	out := make([]complex128, len(p.roots))
	if err := p.RunInto(make([]complex128, p.nreg), out, env); err != nil {
		return nil, err
	}
	return out, nil
}

// RunInto evaluates the program using caller-provided scratch space:
// regs must have NumRegisters entries and out NumResults entries.
// Intended for hot loops where Run's allocations would dominate.
func (p *Program) RunInto(regs, out []complex128, env symbolic.Env) error {
	for i := range p.instrs {
		in := &p.instrs[i]
		switch in.op {
		case opConst:
			regs[in.out] = in.val
		case opLoad:
			v, ok := env[in.name]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnboundArgument, in.name)
			}
			regs[in.out] = v
		case opAdd:
			var acc complex128
			for _, a := range in.args {
				acc += regs[a]
			}
			regs[in.out] = acc
		case opMul:
			acc := complex(1, 0)
			for _, a := range in.args {
				acc *= regs[a]
			}
			regs[in.out] = acc
		case opPow:
			regs[in.out] = cpow(regs[in.args[0]], regs[in.args[1]])
		case opCall:
			fn, ok := p.funcs[in.name]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownFunction, in.name)
			}
			// Built-in functions take at most two arguments; avoid
			// allocating in the evaluation loop.
			var buf [2]complex128
			args := buf[:len(in.args)]
			for j, a := range in.args {
				args[j] = regs[a]
			}
			v, err := fn(in.order, args)
			if err != nil {
				return err
			}
			regs[in.out] = v
		}
	}
	for i, r := range p.roots {
		out[i] = regs[r]
	}
	return nil
}

// cpow mirrors symbolic.Pow evaluation: small integer exponents use
// repeated multiplication, everything else the principal branch.
func cpow(b, e complex128) complex128 {
	if imag(e) == 0 {
		if n := int64(real(e)); float64(n) == real(e) && n >= -32 && n <= 32 {
			if n < 0 {
				return 1 / cpowInt(b, -n)
			}
			return cpowInt(b, n)
		}
	}
	return cmplx.Pow(b, e)
}

func cpowInt(b complex128, n int64) complex128 {
	acc := complex(1, 0)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			acc *= b
		}
		b *= b
	}
	return acc
}
