package symbolic

import "strconv"

// MakeSymVector returns the component symbols name0, name1, ..., one
// per spatial dimension.
func MakeSymVector(name string, dim int) []Expr {
	vec := make([]Expr, dim)
	for i := range vec {
		vec[i] = Symbol(name + strconv.Itoa(i))
	}
	return vec
}

// Norm2 returns the Euclidean norm sqrt(Σ vᵢ²) of a vector expression.
func Norm2(vec []Expr) Expr {
	sq := make([]Expr, len(vec))
	for i, v := range vec {
		sq[i] = PowOf(v, Int(2))
	}
	return Sqrt(Sum(sq...))
}

// DiffN differentiates e n times with respect to the named variable.
func DiffN(e Expr, name string, n int) Expr {
	for i := 0; i < n; i++ {
		e = e.Diff(name)
	}
	return e
}

// BindVector extends env with per-component bindings for a symbol
// vector created by MakeSymVector.
func BindVector(env Env, name string, values []float64) Env {
	if env == nil {
		env = make(Env, len(values))
	}
	for i, v := range values {
		env[name+strconv.Itoa(i)] = complex(v, 0)
	}
	return env
}
