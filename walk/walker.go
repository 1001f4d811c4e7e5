package walk

import (
	"cayc/ast"
	"cayc/common"
	"cayc/depm"
	"cayc/report"
	"cayc/types"
)

// Walker is responsible for walking source units and performing semantic
// analysis on their declarations.  Each walker owns its scopes: walkers for
// different units of the same program may run concurrently once the program
// has been sealed.
type Walker struct {
	// The program the unit belongs to.  It is read-only during walking.
	prog *depm.Program

	// The source unit being walked.
	unit *depm.SourceUnit

	// The class whose members are being walked.
	class *common.ClassInfo

	// The method whose body is being walked.  This is nil for field
	// initializers.
	method *common.MethodInfo

	// Whether the code being walked has no `this`.
	staticCtx bool

	// The stack of local scopes used to lookup symbols.
	localScopes []map[string]*common.Symbol

	// The stack of enclosing loops and switches: the targets of break and
	// continue statements.
	branchTargets []*branchTarget

	// The labels of enclosing statements which are not loops or switches.
	plainLabels []string

	// The return type of the enclosing method.  If this is nil, then return
	// statements are not valid.
	enclosingReturnType types.Type

	// Whether a lambda body is being walked.
	inLambda bool

	// The symbols of fields referenced without a receiver by field info.
	fieldSyms map[*common.FieldInfo]*common.Symbol
}

// branchTarget is an enclosing loop or switch.
type branchTarget struct {
	// The (optional) label of the loop or switch.
	label string

	// Whether the target is a loop: only loops may be targeted by continue.
	isLoop bool

	// Whether any break statement targets this loop or switch.
	broken bool

	// Whether any continue statement targets this loop.
	continued bool
}

// WalkUnit semantically analyzes all the class declarations of a source unit.
// The declarations of all units in the program must have been registered and
// the program sealed.  Diagnostics are added to the unit.
func WalkUnit(prog *depm.Program, unit *depm.SourceUnit) {
	if !prog.Sealed() {
		report.ICE("unit %s walked before its program was sealed", unit.ReprPath)
	}

	w := &Walker{
		prog:      prog,
		unit:      unit,
		fieldSyms: make(map[*common.FieldInfo]*common.Symbol),
	}

	for _, class := range unit.Classes {
		if class.Info != nil {
			w.walkClass(class)
		}
	}
}

// walkDecl walks a single member declaration and catches any errors that occur.
func (w *Walker) walkDecl(f func()) {
	// Catch any errors that occur while walking the declaration.
	defer report.CatchErrors(w.unit.Diagnostics)

	// Ensure that the walker is reset.
	defer func() {
		w.method = nil
		w.staticCtx = false
		w.localScopes = nil
		w.branchTargets = nil
		w.plainLabels = nil
		w.enclosingReturnType = nil
		w.inLambda = false
	}()

	f()
}

// -----------------------------------------------------------------------------

// lookupLocal looks up a local symbol by name in all visible local scopes.
func (w *Walker) lookupLocal(name string) (*common.Symbol, bool) {
	// Traverse local scopes in reverse order to implement shadowing.
	for i := len(w.localScopes) - 1; i > -1; i-- {
		if sym, ok := w.localScopes[i][name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// lookupField looks up a field of the enclosing class by name and returns a
// symbol for it.
func (w *Walker) lookupField(name string) (*common.Symbol, bool) {
	field, ok := w.class.Fields[name]
	if !ok {
		return nil, false
	}

	if sym, ok := w.fieldSyms[field]; ok {
		return sym, true
	}

	sym := &common.Symbol{
		Name:     field.Name,
		DefSpan:  field.DefSpan,
		Type:     field.Type,
		Storage:  common.StorageField,
		Owner:    field.Class,
		Constant: field.Final,
	}

	if field.Static {
		sym.Storage = common.StorageStatic
	}

	w.fieldSyms[field] = sym
	return sym, true
}

// defineLocal defines a local symbol in the current local scope.  If a local
// by the same name is already visible, then an error is reported.
func (w *Walker) defineLocal(sym *common.Symbol) {
	if _, ok := w.lookupLocal(sym.Name); ok {
		w.recError(report.NameError, sym.DefSpan, "variable `%s` is already defined in this scope", sym.Name)
		return
	}

	w.localScopes[len(w.localScopes)-1][sym.Name] = sym
}

// pushScope pushes a new local scope onto the scope stack.
func (w *Walker) pushScope() {
	w.localScopes = append(w.localScopes, make(map[string]*common.Symbol))
}

// popScope removes the top local scope from the scope stack.
func (w *Walker) popScope() {
	w.localScopes = w.localScopes[:len(w.localScopes)-1]
}

// -----------------------------------------------------------------------------

// pushBranchTarget pushes a loop or switch onto the branch target stack.
func (w *Walker) pushBranchTarget(label string, isLoop bool) *branchTarget {
	bt := &branchTarget{label: label, isLoop: isLoop}
	w.branchTargets = append(w.branchTargets, bt)
	return bt
}

// popBranchTarget removes the innermost loop or switch from the stack.
func (w *Walker) popBranchTarget() {
	w.branchTargets = w.branchTargets[:len(w.branchTargets)-1]
}

// -----------------------------------------------------------------------------

// lookupClass looks up a class by name.  If no such class exists, then an
// error is reported.
func (w *Walker) lookupClass(name string, span *report.TextSpan) *common.ClassInfo {
	ci, ok := w.prog.LookupClass(name)
	if !ok {
		w.error(report.NameError, span, "undefined class: `%s`", name)
	}

	return ci
}

// checkType checks that all the classes referenced by typ exist.
func (w *Walker) checkType(typ types.Type, span *report.TextSpan) {
	switch v := typ.(type) {
	case *types.ArrayType:
		if types.IsVoid(v.Elem) {
			w.error(report.TypeError, span, "cannot create an array of void")
		}

		w.checkType(v.Elem, span)
	case *types.ClassType:
		w.lookupClass(v.Name, span)
	}
}

// -----------------------------------------------------------------------------

// error reports an error on the given span that should abort walking of the
// current statement.
func (w *Walker) error(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (w *Walker) recError(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	w.unit.Diagnostics.Add(kind, span, msg, args...)
}

// warn reports a compile warning.
func (w *Walker) warn(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	w.unit.Diagnostics.Warn(kind, span, msg, args...)
}

// isStaticReceiver returns whether expr is an identifier used to name a
// class.  This is only valid after expr has been walked as a receiver.
func isStaticReceiver(expr ast.ASTExpr) bool {
	if id, ok := expr.(*ast.Identifier); ok {
		return id.ClassName != ""
	}

	return false
}
