package walk

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// walkExpr walks an expression and annotates it with its type.  Expressions
// nested inside expr may be wrapped in implicit casts.
func (w *Walker) walkExpr(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.Literal:
		// Literals are typed by the parser.
	case *ast.Identifier:
		w.walkIdentifier(v)
	case *ast.This:
		if w.staticCtx {
			w.error(report.NameError, v.Span(), "`this` cannot be used in a static context")
		}

		v.NodeType = w.class.Type()
	case *ast.Super:
		w.error(report.TypeError, v.Span(), "`super` is not supported: classes cannot be extended")
	case *ast.BadExpr:
		w.error(report.LexicalError, v.Span(), "malformed expression")
	case *ast.BinaryExpr:
		w.walkBinaryExpr(v)
	case *ast.UnaryExpr:
		w.walkUnaryExpr(v)
	case *ast.IncDecExpr:
		w.walkIncDecExpr(v)
	case *ast.AssignExpr:
		w.walkAssignExpr(v)
	case *ast.TernaryExpr:
		w.walkTernaryExpr(v)
	case *ast.CastExpr:
		w.walkCastExpr(v)
	case *ast.CallExpr:
		w.walkCallExpr(v)
	case *ast.NewExpr:
		w.walkNewExpr(v)
	case *ast.FieldAccess:
		w.walkFieldAccess(v)
	case *ast.ArrayAccess:
		w.walkArrayAccess(v)
	case *ast.NewArray:
		w.walkNewArray(v)
	case *ast.Lambda:
		w.walkLambda(v)
	case *ast.MethodRef:
		w.walkMethodRef(v)
	default:
		report.ICE("walking not implemented for expression %T", expr)
	}
}

// walkIdentifier walks an identifier used as a value.
func (w *Walker) walkIdentifier(id *ast.Identifier) {
	if sym, ok := w.lookupLocal(id.Name); ok {
		id.Sym = sym
		id.NodeType = sym.Type
		return
	}

	if sym, ok := w.lookupField(id.Name); ok {
		if sym.Storage == common.StorageField && w.staticCtx {
			w.error(report.NameError, id.Span(), "cannot reference instance member `%s` from a static context", id.Name)
		}

		id.Sym = sym
		id.NodeType = sym.Type
		return
	}

	if _, ok := w.prog.LookupClass(id.Name); ok {
		w.error(report.TypeError, id.Span(), "class name `%s` cannot be used as a value", id.Name)
	}

	w.error(report.NameError, id.Span(), "undefined name: `%s`", id.Name)
}

// walkReceiver walks the receiver of a member access.  Receivers may name a
// class when the accessed member is static.
func (w *Walker) walkReceiver(expr ast.ASTExpr) {
	if id, ok := expr.(*ast.Identifier); ok {
		if _, ok := w.lookupLocal(id.Name); !ok && (w.class == nil || w.class.Fields[id.Name] == nil) {
			if ci, ok := w.prog.LookupClass(id.Name); ok {
				id.ClassName = ci.Name
				id.NodeType = ci.Type()
				return
			}
		}
	}

	w.walkExpr(expr)
	w.checkValue(expr)
}

// -----------------------------------------------------------------------------

// walkFieldAccess walks a member access which is not a call.
func (w *Walker) walkFieldAccess(fa *ast.FieldAccess) {
	w.walkReceiver(fa.Receiver)

	switch rt := fa.Receiver.Type().(type) {
	case *types.ArrayType:
		if fa.Name != "length" {
			w.error(report.NameError, fa.NameSpan, "arrays have no field `%s`", fa.Name)
		}

		fa.IsArrayLength = true
		fa.NodeType = types.PrimInt
	case *types.ClassType:
		ci := w.lookupClass(rt.Name, fa.Receiver.Span())

		fi, ok := ci.Fields[fa.Name]
		if !ok {
			w.error(report.NameError, fa.NameSpan, "class %s has no field `%s`", ci.Name, fa.Name)
		}

		if isStaticReceiver(fa.Receiver) && !fi.Static {
			w.error(report.NameError, fa.NameSpan, "cannot reference instance field `%s` from a static context", fa.Name)
		}

		fa.Field = fi
		fa.NodeType = fi.Type
	case types.StringType:
		w.error(report.NameError, fa.NameSpan, "strings have no fields: did you mean `%s()`?", fa.Name)
	default:
		w.error(report.TypeError, fa.Span(), "type %s has no fields", rt.Repr())
	}
}

// walkArrayAccess walks an array index operation.  All array accesses are
// bounds checked at runtime.
func (w *Walker) walkArrayAccess(aa *ast.ArrayAccess) {
	w.walkExpr(aa.Array)

	at, ok := aa.Array.Type().(*types.ArrayType)
	if !ok {
		w.error(report.TypeError, aa.Array.Span(), "cannot index a value of type %s", aa.Array.Type().Repr())
	}

	w.walkExpr(aa.Index)
	aa.Index = w.coerce(aa.Index, types.PrimInt)

	aa.BoundsCheck = true
	aa.NodeType = at.IndexType()
}

// walkNewArray walks an array creation.
func (w *Walker) walkNewArray(na *ast.NewArray) {
	if na.ElemType == nil {
		w.error(report.TypeError, na.Span(), "array initializer has no type: use `new T[]{...}`")
	}

	if types.IsVoid(na.ElemType) {
		w.error(report.TypeError, na.Span(), "cannot create an array of void")
	}

	at := types.NewArray(na.ElemType, len(na.Sizes)+na.ExtraRank)
	w.checkType(at, na.Span())

	if na.HasInit {
		w.walkArrayElements(na, at)
		return
	}

	for i, size := range na.Sizes {
		w.walkExpr(size)
		na.Sizes[i] = w.coerce(size, types.PrimInt)
	}

	na.NodeType = at
}

// walkNewExpr walks an object construction.
func (w *Walker) walkNewExpr(ne *ast.NewExpr) {
	ci := w.lookupClass(ne.ClassName, ne.Span())

	for _, arg := range ne.Args {
		w.walkExpr(arg)
	}

	ne.Ctor, ne.VarArgStart = w.resolveOverload(ci.Ctors, ci.Name, ne.Args, ne.Span())
	ne.NodeType = ci.Type()
}

// -----------------------------------------------------------------------------

// walkCallExpr walks a method call.
func (w *Walker) walkCallExpr(call *ast.CallExpr) {
	if call.Receiver == nil {
		w.walkArgs(call.Args)

		// Methods of the enclosing class shadow builtins.
		group, ok := w.class.Methods[call.Name]
		if !ok {
			if isBuiltinFunc(call.Name) {
				w.walkBuiltinCall(call)
				return
			}

			w.error(report.NameError, call.NameSpan, "undefined method: `%s`", call.Name)
		}

		w.resolveMethodCall(call, group)

		if !call.Method.Static && w.staticCtx {
			w.error(report.NameError, call.NameSpan, "cannot reference instance member `%s` from a static context", call.Name)
		}

		return
	}

	w.walkReceiver(call.Receiver)
	w.walkArgs(call.Args)

	switch rt := call.Receiver.Type().(type) {
	case types.StringType:
		w.walkStringMethodCall(call)
	case *types.ClassType:
		ci := w.lookupClass(rt.Name, call.Receiver.Span())

		group, ok := ci.Methods[call.Name]
		if !ok {
			w.error(report.NameError, call.NameSpan, "class %s has no method `%s`", ci.Name, call.Name)
		}

		w.resolveMethodCall(call, group)

		if isStaticReceiver(call.Receiver) && !call.Method.Static {
			w.error(report.NameError, call.NameSpan, "cannot reference instance method `%s` from a static context", call.Name)
		}
	default:
		w.error(report.TypeError, call.NameSpan, "type %s has no methods", rt.Repr())
	}
}

// walkArgs walks the arguments to a call.
func (w *Walker) walkArgs(args []ast.ASTExpr) {
	for _, arg := range args {
		w.walkExpr(arg)
	}
}

// resolveMethodCall selects the overload of group invoked by call.
func (w *Walker) resolveMethodCall(call *ast.CallExpr, group *common.MethodGroup) {
	call.Method, call.VarArgStart = w.resolveOverload(group, call.Name, call.Args, call.Span())
	call.NodeType = call.Method.ReturnType
}

// -----------------------------------------------------------------------------

// walkLambda walks a lambda.  Lambda bodies are checked in their own scope but
// lambdas can never be used as values: there are no function types.
func (w *Walker) walkLambda(lambda *ast.Lambda) {
	for _, param := range lambda.Params {
		if param.Type == nil {
			w.error(report.TypeError, param.Span, "cannot infer the type of lambda parameter `%s`: there are no function types", param.Name)
		}
	}

	prevInLambda, prevTargets, prevLabels := w.inLambda, w.branchTargets, w.plainLabels
	w.inLambda, w.branchTargets, w.plainLabels = true, nil, nil
	w.pushScope()

	func() {
		defer func() {
			w.popScope()
			w.inLambda, w.branchTargets, w.plainLabels = prevInLambda, prevTargets, prevLabels
		}()

		for _, param := range lambda.Params {
			w.checkType(param.Type, param.Span)

			param.Sym = &common.Symbol{
				Name:    param.Name,
				DefSpan: param.Span,
				Type:    param.Type,
				Storage: common.StorageParam,
			}

			w.defineLocal(param.Sym)
		}

		switch body := lambda.Body.(type) {
		case *ast.Block:
			w.walkBlock(body)
		case ast.ASTExpr:
			w.walkExpr(body)
		}
	}()

	w.error(report.TypeError, lambda.Span(), "lambda expressions cannot be used as values: there are no function types")
}

// walkMethodRef walks a method reference.  The referenced method must exist
// but references can never be used as values.
func (w *Walker) walkMethodRef(mr *ast.MethodRef) {
	w.walkReceiver(mr.Receiver)

	ct, ok := mr.Receiver.Type().(*types.ClassType)
	if !ok {
		w.error(report.TypeError, mr.Receiver.Span(), "type %s has no methods", mr.Receiver.Type().Repr())
	}

	ci := w.lookupClass(ct.Name, mr.Receiver.Span())
	if _, ok := ci.Methods[mr.Method]; !ok {
		w.error(report.NameError, mr.MethodSpan, "class %s has no method `%s`", ci.Name, mr.Method)
	}

	w.error(report.TypeError, mr.Span(), "method references cannot be used as values: there are no function types")
}
