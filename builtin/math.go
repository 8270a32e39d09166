package builtin

import (
	"fmt"
	"math"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

func doubleType() ctype.CType { return ctype.CType{TypeSpec: ctype.Double} }

// unary1 wraps a single-argument double->double math.h function.
func unary1(f func(float64) float64) func(*Registry, *memtable.Memory, []interface{}) (value.Number, error) {
	return func(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
		if len(args) != 1 {
			return value.Number{}, fmt.Errorf("expected 1 argument")
		}
		n, ok := asNumber(args[0])
		if !ok {
			return value.Number{}, fmt.Errorf("expected a numeric argument")
		}
		return value.NewFloat(doubleType(), f(n.FloatValue())), nil
	}
}

// binary2 wraps a two-argument double->double math.h function, fixing the
// original's wrong arity for atan2/pow (both genuinely take two doubles).
func binary2(f func(float64, float64) float64) func(*Registry, *memtable.Memory, []interface{}) (value.Number, error) {
	return func(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
		if len(args) != 2 {
			return value.Number{}, fmt.Errorf("expected 2 arguments")
		}
		a, ok := asNumber(args[0])
		if !ok {
			return value.Number{}, fmt.Errorf("expected numeric arguments")
		}
		b, ok := asNumber(args[1])
		if !ok {
			return value.Number{}, fmt.Errorf("expected numeric arguments")
		}
		return value.NewFloat(doubleType(), f(a.FloatValue(), b.FloatValue())), nil
	}
}

func mathLibrary() *Library {
	one := func(name string, f func(float64) float64) Func {
		return Func{Name: name, ReturnType: doubleType(), ParamTypes: []ctype.CType{doubleType()}, Call: unary1(f)}
	}
	two := func(name string, f func(float64, float64) float64) Func {
		return Func{Name: name, ReturnType: doubleType(), ParamTypes: []ctype.CType{doubleType(), doubleType()}, Call: binary2(f)}
	}
	return &Library{
		Name: "math",
		Funcs: []Func{
			one("sqrt", math.Sqrt),
			one("sin", math.Sin),
			one("cos", math.Cos),
			one("tan", math.Tan),
			one("asin", math.Asin),
			one("acos", math.Acos),
			one("atan", math.Atan),
			two("atan2", math.Atan2),
			one("sinh", math.Sinh),
			one("cosh", math.Cosh),
			one("tanh", math.Tanh),
			one("asinh", math.Asinh),
			one("acosh", math.Acosh),
			one("atanh", math.Atanh),
			one("exp", math.Exp),
			one("log", math.Log),
			one("log10", math.Log10),
			two("pow", math.Pow),
			one("ceil", math.Ceil),
			one("floor", math.Floor),
			one("trunc", math.Trunc),
			one("round", math.Round),
		},
	}
}
