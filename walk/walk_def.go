package walk

import (
	"sort"
	"strings"

	"cayc/ast"
	"cayc/common"
	"cayc/depm"
	"cayc/report"
	"cayc/types"
)

// RegisterDecls registers all the classes declared in unit and the signatures
// of their members in the program's class table.  This is the first analysis
// pass: it must be run for every unit of a program before any unit is walked
// so that classes and methods may be referenced before their declaration.
func RegisterDecls(prog *depm.Program, unit *depm.SourceUnit) {
	for _, class := range unit.Classes {
		ci := common.NewClassInfo(class.Name, class.NameSpan)
		ci.Public = ast.HasModifier(class.Modifiers, ast.ModPublic)

		for name := range class.Annotations {
			ci.Annotations[name] = true
		}

		if !prog.DefineClass(ci) {
			unit.Diagnostics.Add(report.NameError, class.NameSpan, "multiple classes named `%s`", class.Name)
			continue
		}

		class.Info = ci

		for _, field := range class.Fields {
			registerField(unit, ci, field)
		}

		for _, method := range class.Methods {
			registerMethod(unit, ci, method)
		}

		for _, ctor := range class.Ctors {
			registerMethod(unit, ci, ctor)
		}

		// Classes without a constructor get a default constructor.
		if len(class.Ctors) == 0 {
			ci.Ctors.Overloads = append(ci.Ctors.Overloads, &common.MethodInfo{
				Name:       "<init>",
				DefSpan:    class.NameSpan,
				Class:      ci.Name,
				ReturnType: types.PrimVoid,
				Public:     true,
				IsCtor:     true,
			})
		}
	}
}

// registerField registers a field signature.
func registerField(unit *depm.SourceUnit, ci *common.ClassInfo, field *ast.FieldDecl) {
	if _, ok := ci.Fields[field.Name]; ok {
		unit.Diagnostics.Add(report.NameError, field.NameSpan, "multiple fields named `%s` in class %s", field.Name, ci.Name)
		return
	}

	fi := &common.FieldInfo{
		Name:    field.Name,
		DefSpan: field.NameSpan,
		Type:    field.Type,
		Class:   ci.Name,
		Static:  ast.HasModifier(field.Modifiers, ast.ModStatic),
		Final:   ast.HasModifier(field.Modifiers, ast.ModFinal),
		Public:  ast.HasModifier(field.Modifiers, ast.ModPublic),
		Index:   -1,
	}

	if !fi.Static {
		fi.Index = ci.InstanceFieldCount
		ci.InstanceFieldCount++
	}

	ci.Fields[fi.Name] = fi
	ci.FieldOrder = append(ci.FieldOrder, fi)
	field.Info = fi
}

// registerMethod registers a method or constructor signature.
func registerMethod(unit *depm.SourceUnit, ci *common.ClassInfo, method *ast.MethodDecl) {
	mi := &common.MethodInfo{
		Name:       method.Name,
		DefSpan:    method.NameSpan,
		Class:      ci.Name,
		ReturnType: method.ReturnType,
		Static:     ast.HasModifier(method.Modifiers, ast.ModStatic),
		Public:     ast.HasModifier(method.Modifiers, ast.ModPublic),
		Native:     ast.HasModifier(method.Modifiers, ast.ModNative),
		IsCtor:     method.IsCtor,
	}

	for _, param := range method.Params {
		mi.Params = append(mi.Params, param.Type)
		mi.ParamNames = append(mi.ParamNames, param.Name)
		mi.Variadic = param.Variadic
	}

	var group *common.MethodGroup
	if method.IsCtor {
		mi.Name = "<init>"
		group = ci.Ctors
	} else if g, ok := ci.Methods[mi.Name]; ok {
		group = g
	} else {
		group = &common.MethodGroup{Name: mi.Name}
		ci.Methods[mi.Name] = group
	}

	if prev := group.Lookup(mi.Params); prev != nil {
		unit.Diagnostics.Add(
			report.NameError,
			method.NameSpan,
			"method %s is already defined in class %s",
			mi.Signature(),
			ci.Name,
		)
		return
	}

	group.Overloads = append(group.Overloads, mi)
	method.Info = mi
}

// -----------------------------------------------------------------------------

// SelectEntry determines the entry class of the program and stores it in the
// program.  If entryName is not empty, it names the entry class.  Otherwise,
// the entry class is the only class declaring `public static void main()`
// or, if there are several, the one marked `@main`.  If no entry class can be
// determined, an error is returned.
func SelectEntry(prog *depm.Program, entryName string) *report.CompileError {
	if entryName != "" {
		ci, ok := prog.LookupClass(entryName)
		if !ok {
			return report.Raise(report.NameError, nil, "entry class `%s` does not exist", entryName)
		}

		if ci.EntryMethod() == nil {
			return report.Raise(report.NameError, ci.DefSpan, "entry class %s has no `public static void main()` method", entryName)
		}

		prog.Entry = ci
		return nil
	}

	var candidates, marked []*common.ClassInfo
	for _, ci := range prog.Classes() {
		if ci.EntryMethod() != nil {
			candidates = append(candidates, ci)

			if ci.Annotations[common.EntryAnnotation] {
				marked = append(marked, ci)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return report.Raise(report.NameError, nil, "no class declares a `public static void main()` entry method")
	case 1:
		prog.Entry = candidates[0]
		return nil
	}

	if len(marked) == 1 {
		prog.Entry = marked[0]
		return nil
	}

	names := make([]string, len(candidates))
	for i, ci := range candidates {
		names[i] = ci.Name
	}

	if len(marked) == 0 {
		return report.Raise(
			report.NameError,
			candidates[1].DefSpan,
			"multiple entry classes (%s): mark one with @%s",
			strings.Join(names, ", "),
			common.EntryAnnotation,
		)
	}

	return report.Raise(report.NameError, marked[1].DefSpan, "multiple classes are marked @%s", common.EntryAnnotation)
}

// -----------------------------------------------------------------------------

// walkClass walks all the members of a class declaration.
func (w *Walker) walkClass(class *ast.ClassDecl) {
	w.class = class.Info

	for _, name := range annotationNames(class) {
		if name != common.EntryAnnotation {
			w.warn(report.NameError, class.Annotations[name], "unknown annotation @%s", name)
		}
	}

	for _, field := range class.Fields {
		if field.Info != nil {
			w.walkDecl(func() { w.walkFieldDecl(field) })
		}
	}

	for _, method := range class.Methods {
		if method.Info != nil {
			w.walkDecl(func() { w.walkMethodDecl(method) })
		}
	}

	for _, ctor := range class.Ctors {
		if ctor.Info != nil {
			w.walkDecl(func() { w.walkMethodDecl(ctor) })
		}
	}

	w.class = nil
}

// annotationNames returns the names of the annotations of a class in source
// order.
func annotationNames(class *ast.ClassDecl) []string {
	names := make([]string, 0, len(class.Annotations))
	for name := range class.Annotations {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return class.Annotations[names[i]].Before(class.Annotations[names[j]])
	})

	return names
}

// walkFieldDecl walks a field declaration and its initializer.
func (w *Walker) walkFieldDecl(field *ast.FieldDecl) {
	w.checkType(field.Type, field.NameSpan)

	if field.Init == nil {
		if field.Info.Final && field.Info.Static {
			w.recError(report.TypeError, field.NameSpan, "static final field `%s` must be initialized", field.Name)
		}

		return
	}

	w.staticCtx = field.Info.Static

	// Initializers are walked in a scope of their own so that lambdas and
	// array initializers have somewhere to define locals.
	w.pushScope()
	defer w.popScope()

	field.Init = w.walkInitializer(field.Init, field.Type)
}

// walkMethodDecl walks a method or constructor declaration.
func (w *Walker) walkMethodDecl(method *ast.MethodDecl) {
	mi := method.Info

	w.method = mi
	w.staticCtx = mi.Static

	w.checkType(mi.ReturnType, method.NameSpan)
	for _, param := range method.Params {
		w.checkType(param.Type, param.Span)
	}

	if ast.HasModifier(method.Modifiers, ast.ModAbstract) {
		w.recError(report.TypeError, method.NameSpan, "abstract methods are not supported: classes cannot be extended")
	}

	if mi.Native {
		if !mi.Static {
			w.recError(report.TypeError, method.NameSpan, "native methods must be static")
		}

		if mi.Variadic {
			w.recError(report.TypeError, method.NameSpan, "native methods cannot be variadic")
		}
	}

	if method.Body == nil {
		return
	}

	// Push the enclosing scope of the method.
	w.pushScope()
	defer w.popScope()

	// Declare all parameter symbols.
	for _, param := range method.Params {
		param.Sym = &common.Symbol{
			Name:    param.Name,
			DefSpan: param.Span,
			Type:    param.Type,
			Storage: common.StorageParam,
		}

		w.defineLocal(param.Sym)
	}

	// Set the method return type.
	w.enclosingReturnType = mi.ReturnType

	terminates := w.walkBlock(method.Body)

	// Make sure the method returns.
	if !types.IsVoid(mi.ReturnType) && !terminates {
		w.recError(report.ControlFlowError, method.Body.Span(), "method %s is missing a return statement", mi.Signature())
	}
}
