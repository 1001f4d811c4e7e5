package generate

import (
	"cayc/ast"
	"cayc/common"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// declareClassType declares the named struct type of a class.  Its fields are
// set once all class types are declared since fields may refer to any class.
func (g *Generator) declareClassType(ci *common.ClassInfo) {
	st := types.NewStruct()
	g.mod.NewTypeDef(ci.Name, st)
	g.classTypes[ci.Name] = st
}

// declareClass declares the fields, static globals, and functions of a class.
func (g *Generator) declareClass(class *ast.ClassDecl) {
	ci := class.Info

	st := g.classTypes[ci.Name]
	for _, fi := range ci.FieldOrder {
		if fi.Static {
			glob := g.mod.NewGlobalDef(fi.MangledName(), zeroValue(g.convType(fi.Type)))
			g.staticGlobals[fi] = glob
		} else {
			st.Fields = append(st.Fields, g.convType(fi.Type))
		}
	}

	// Empty structs are given a byte so that each object has a distinct
	// address.
	if len(st.Fields) == 0 {
		st.Fields = append(st.Fields, types.I8)
	}

	for _, method := range class.Methods {
		if method.Info != nil {
			g.declareMethod(method.Info, method.Params)
		}
	}

	for _, ctor := range ci.Ctors.Overloads {
		g.declareMethod(ctor, ctorParams(class, ctor))
	}
}

// ctorParams returns the parameters of the declaration of ctor.  Default
// constructors have no declaration and no parameters.
func ctorParams(class *ast.ClassDecl, ctor *common.MethodInfo) []*ast.Param {
	for _, decl := range class.Ctors {
		if decl.Info == ctor {
			return decl.Params
		}
	}

	return nil
}

// declareMethod declares the LLVM function of a method or constructor.
// Instance methods and constructors take the object as their first parameter.
func (g *Generator) declareMethod(mi *common.MethodInfo, params []*ast.Param) {
	var llParams []*ir.Param
	if !mi.Static {
		llParams = append(llParams, ir.NewParam("this", types.NewPointer(g.classStruct(mi.Class))))
	}

	// Parameters are copied into slots named after them on entry.
	for i, pt := range mi.Params {
		name := ""
		if i < len(params) {
			name = params[i].Name + ".arg"
		}

		llParams = append(llParams, ir.NewParam(name, g.convType(pt)))
	}

	fn := g.mod.NewFunc(mi.MangledName(), g.convType(mi.ReturnType), llParams...)
	if !mi.Public && !mi.Native {
		fn.Linkage = enum.LinkageInternal
	}

	g.funcs[mi] = fn
}

// -----------------------------------------------------------------------------

// genClass generates the bodies of the methods and constructors of a class
// and its static initializer.
func (g *Generator) genClass(class *ast.ClassDecl) {
	g.genStaticInit(class)

	for _, method := range class.Methods {
		if method.Info != nil && method.Body != nil {
			g.genMethod(method.Info, method.Params, method.Body, nil)
		}
	}

	if len(class.Ctors) == 0 {
		g.genMethod(class.Info.Ctors.Overloads[0], nil, nil, class)
		return
	}

	for _, ctor := range class.Ctors {
		if ctor.Info != nil {
			g.genMethod(ctor.Info, ctor.Params, ctor.Body, class)
		}
	}
}

// genMethod generates the body of a method or constructor.  For constructors,
// class is the enclosing class whose instance field initializers run before
// the body.
func (g *Generator) genMethod(mi *common.MethodInfo, params []*ast.Param, body *ast.Block, class *ast.ClassDecl) {
	fn := g.funcs[mi]
	g.beginFunc(fn, mi.ReturnType)

	llParams := fn.Params
	if !mi.Static {
		g.this = llParams[0]
		llParams = llParams[1:]
	}

	for i, param := range params {
		slot := g.defineLocal(param.Sym)
		g.block.NewStore(llParams[i], slot)
	}

	if mi.IsCtor {
		g.genFieldInits(class, false)
	}

	if body != nil {
		g.genBlock(body)
	}

	g.endFunc()
}

// genStaticInit generates the static initializer `Class.<clinit>` of a class
// if it has any static field initializers.
func (g *Generator) genStaticInit(class *ast.ClassDecl) {
	hasInit := false
	for _, field := range class.Fields {
		if field.Info != nil && field.Info.Static && field.Init != nil {
			hasInit = true
			break
		}
	}

	if !hasInit {
		return
	}

	fn := g.mod.NewFunc(class.Info.Name+".<clinit>", types.Void)
	fn.Linkage = enum.LinkageInternal

	g.beginFunc(fn, cytypes.PrimVoid)
	g.genFieldInits(class, true)
	g.endFunc()

	g.startBuilder.AddInitFunc(fn)
}

// genFieldInits generates the initializers of the static or instance fields of
// a class in declaration order.
func (g *Generator) genFieldInits(class *ast.ClassDecl, static bool) {
	for _, field := range class.Fields {
		if field.Info == nil || field.Init == nil || field.Info.Static != static {
			continue
		}

		val := g.genExpr(field.Init)
		g.block.NewStore(val, g.fieldPtr(field.Info, g.this))
	}
}

// pruneDefaultCtors removes the synthesized default constructors that are
// never called from the module.
func (g *Generator) pruneDefaultCtors(classes []*ast.ClassDecl) {
	unused := make(map[*ir.Func]struct{})
	for _, class := range classes {
		if len(class.Ctors) > 0 {
			continue
		}

		ctor := class.Info.Ctors.Overloads[0]
		if _, ok := g.usedCtors[ctor]; !ok {
			unused[g.funcs[ctor]] = struct{}{}
			delete(g.funcs, ctor)
		}
	}

	funcs := g.mod.Funcs[:0]
	for _, fn := range g.mod.Funcs {
		if _, ok := unused[fn]; !ok {
			funcs = append(funcs, fn)
		}
	}

	g.mod.Funcs = funcs
}
