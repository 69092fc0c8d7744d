// Package intrinsic maps FORTRAN 77 intrinsic procedures and FORMAT edit
// descriptors to Julia and holds the runtime support file translated programs include.
package intrinsic

import (
	"slices"
	"strings"
)

// Func describes how a call to a FORTRAN intrinsic is written in Julia.
type Func struct {
	Name  string // FORTRAN name, upper case.
	Julia string // Julia function called with the translated arguments.
	// Type is the result type tag. It is empty for generic intrinsics whose
	// result has the type of their arguments, such as ABS and MAX.
	Type string
	// Call, when non-nil, writes the whole call instead of Julia(args...).
	Call func(args []string) string
}

// Emit returns the Julia call expression for already translated arguments.
func (f Func) Emit(args []string) string {
	if f.Call != nil {
		return f.Call(args)
	}
	return f.Julia + "(" + strings.Join(args, ", ") + ")"
}

func typed(fn, typ string) func([]string) string {
	return func(args []string) string {
		return fn + "(" + typ + ", " + strings.Join(args, ", ") + ")"
	}
}

func compare(op string) func([]string) string {
	return func(args []string) string {
		if len(args) != 2 {
			return "(" + strings.Join(args, op) + ")"
		}
		return "(" + args[0] + " " + op + " " + args[1] + ")"
	}
}

var funcs = map[string]Func{}

func init() {
	add := func(julia string, names ...string) {
		for _, name := range names {
			funcs[name] = Func{Name: name, Julia: julia}
		}
	}
	add("abs", "ABS", "IABS", "DABS", "CABS")
	add("sqrt", "SQRT", "DSQRT", "CSQRT")
	add("exp", "EXP", "DEXP", "CEXP")
	add("log", "LOG", "ALOG", "DLOG", "CLOG")
	add("log10", "LOG10", "ALOG10", "DLOG10")
	add("sin", "SIN", "DSIN", "CSIN")
	add("cos", "COS", "DCOS", "CCOS")
	add("tan", "TAN", "DTAN")
	add("asin", "ASIN", "DASIN")
	add("acos", "ACOS", "DACOS")
	add("atan", "ATAN", "DATAN", "ATAN2", "DATAN2")
	add("sinh", "SINH", "DSINH")
	add("cosh", "COSH", "DCOSH")
	add("tanh", "TANH", "DTANH")
	// FORTRAN MOD takes the sign of the dividend, which is Julia's rem.
	add("rem", "MOD", "AMOD", "DMOD")
	add("copysign", "SIGN", "ISIGN", "DSIGN")
	add("max", "MAX", "MAX0", "AMAX0", "MAX1", "AMAX1", "DMAX1")
	add("min", "MIN", "MIN0", "AMIN0", "MIN1", "AMIN1", "DMIN1")
	add("float", "FLOAT", "REAL", "SNGL")
	add("Float64", "DBLE")
	add("complex", "CMPLX")
	add("imag", "AIMAG")
	add("conj", "CONJG")
	add("length", "LEN")
	add("fortran_index", "INDEX")
	add("Char", "CHAR")
	add("Int", "ICHAR")
	add("trunc", "AINT", "DINT")
	add("round", "ANINT", "DNINT")
	for _, name := range []string{"INT", "IFIX", "IDINT"} {
		funcs[name] = Func{Name: name, Julia: "trunc", Call: typed("trunc", "Int")}
	}
	for _, name := range []string{"NINT", "IDNINT"} {
		funcs[name] = Func{Name: name, Julia: "round", Call: typed("round", "Int")}
	}
	funcs["DIM"] = Func{Name: "DIM", Julia: "max", Call: func(args []string) string {
		if len(args) != 2 {
			return "max(" + strings.Join(args, ", ") + ")"
		}
		return "max(" + args[0] + " - " + args[1] + ", zero(" + args[0] + "))"
	}}
	funcs["LGE"] = Func{Name: "LGE", Julia: ">=", Call: compare(">=")}
	funcs["LGT"] = Func{Name: "LGT", Julia: ">", Call: compare(">")}
	funcs["LLE"] = Func{Name: "LLE", Julia: "<=", Call: compare("<=")}
	funcs["LLT"] = Func{Name: "LLT", Julia: "<", Call: compare("<")}

	result := func(typ string, names ...string) {
		for _, name := range names {
			f := funcs[name]
			f.Type = typ
			funcs[name] = f
		}
	}
	result("INTEGER", "INT", "IFIX", "IDINT", "NINT", "IDNINT", "LEN", "INDEX", "ICHAR", "IABS", "ISIGN", "MAX0", "MIN0")
	result("REAL", "FLOAT", "REAL", "SNGL", "AIMAG", "ALOG", "ALOG10", "AMOD", "AMAX0", "AMIN0", "AMAX1", "AMIN1")
	result("DOUBLE PRECISION", "DBLE", "DSQRT", "DEXP", "DLOG", "DLOG10", "DSIN", "DCOS", "DMOD", "DMAX1", "DMIN1")
	result("COMPLEX", "CMPLX")
	result("CHARACTER", "CHAR")
	result("LOGICAL", "LGE", "LGT", "LLE", "LLT")
}

// Lookup returns the intrinsic named name, ignoring case.
func Lookup(name string) (Func, bool) {
	f, ok := funcs[strings.ToUpper(name)]
	return f, ok
}

// Names returns the FORTRAN names of all known intrinsics in sorted order.
func Names() []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
