package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/types"
)

// builtinSig is the signature of a builtin function or string method.
type builtinSig struct {
	kind       int
	params     []types.Type
	returnType types.Type
}

// builtinFuncs are the functions callable without a receiver from anywhere.
// `print` and `println` accept any printable value and are checked separately.
var builtinFuncs = map[string][]builtinSig{
	"readInt":    {{ast.BuiltinReadInt, nil, types.PrimInt}},
	"readLong":   {{ast.BuiltinReadLong, nil, types.PrimLong}},
	"readFloat":  {{ast.BuiltinReadFloat, nil, types.PrimFloat}},
	"readDouble": {{ast.BuiltinReadDouble, nil, types.PrimDouble}},
	"readChar":   {{ast.BuiltinReadChar, nil, types.PrimChar}},
	"readBool":   {{ast.BuiltinReadBool, nil, types.PrimBool}},
	"readLine":   {{ast.BuiltinReadLine, nil, types.String}},
}

// stringMethods are the methods of strings.
var stringMethods = map[string][]builtinSig{
	"length":    {{ast.BuiltinStrLength, nil, types.PrimInt}},
	"charAt":    {{ast.BuiltinStrCharAt, []types.Type{types.PrimInt}, types.PrimChar}},
	"substring": {
		{ast.BuiltinStrSubstring, []types.Type{types.PrimInt}, types.String},
		{ast.BuiltinStrSubstring, []types.Type{types.PrimInt, types.PrimInt}, types.String},
	},
	"indexOf": {{ast.BuiltinStrIndexOf, []types.Type{types.String}, types.PrimInt}},
	"equals":  {{ast.BuiltinStrEquals, []types.Type{types.String}, types.PrimBool}},
	"replace": {{ast.BuiltinStrReplace, []types.Type{types.String, types.String}, types.String}},
}

// isBuiltinFunc returns whether name is a builtin function.
func isBuiltinFunc(name string) bool {
	if name == "print" || name == "println" {
		return true
	}

	_, ok := builtinFuncs[name]
	return ok
}

// walkBuiltinCall walks a call to a builtin function.
func (w *Walker) walkBuiltinCall(call *ast.CallExpr) {
	switch call.Name {
	case "print", "println":
		call.Builtin = ast.BuiltinPrint
		if call.Name == "println" {
			call.Builtin = ast.BuiltinPrintln
		}

		if len(call.Args) > 1 || (len(call.Args) == 0 && call.Name == "print") {
			w.error(report.OverloadError, call.Span(), "no overload of `%s` matches (%s)", call.Name, argReprs(call.Args))
		}

		if len(call.Args) == 1 {
			arg := call.Args[0]
			w.checkValue(arg)

			switch arg.Type().(type) {
			case types.PrimitiveType, types.StringType:
			case types.NullType:
				call.Args[0] = w.coerce(arg, types.String)
			default:
				w.error(report.TypeError, arg.Span(), "cannot print a value of type %s", arg.Type().Repr())
			}
		}

		call.NodeType = types.PrimVoid
	default:
		w.applyBuiltinSig(call, builtinFuncs[call.Name])
	}
}

// walkStringMethodCall walks a call to a method of a string.
func (w *Walker) walkStringMethodCall(call *ast.CallExpr) {
	sigs, ok := stringMethods[call.Name]
	if !ok {
		w.error(report.NameError, call.NameSpan, "type string has no method `%s`", call.Name)
	}

	w.applyBuiltinSig(call, sigs)
}

// applyBuiltinSig selects the builtin signature matching a call and coerces
// the arguments to it.  The signatures of a builtin differ in arity.
func (w *Walker) applyBuiltinSig(call *ast.CallExpr, sigs []builtinSig) {
	for _, sig := range sigs {
		if len(sig.params) != len(call.Args) {
			continue
		}

		for i, arg := range call.Args {
			call.Args[i] = w.coerce(arg, sig.params[i])
		}

		call.Builtin = sig.kind
		call.NodeType = sig.returnType
		return
	}

	w.error(report.OverloadError, call.Span(), "no overload of `%s` matches (%s)", call.Name, argReprs(call.Args))
}

// argReprs formats the types of the arguments to a call.
func argReprs(args []ast.ASTExpr) string {
	argTypes := make([]types.Type, len(args))
	for i, arg := range args {
		argTypes[i] = arg.Type()
	}

	return types.ReprList(argTypes)
}
