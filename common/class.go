package common

import (
	"strings"

	"cayc/report"
	"cayc/types"
)

// ClassInfo is the declaration-level information of a class: its name and the
// signatures of all its members.  It is populated during declaration
// registration and is read-only afterward.
type ClassInfo struct {
	// The name of the class.
	Name string

	// Where the class name was declared.
	DefSpan *report.TextSpan

	// Whether the class is public.
	Public bool

	// The annotations applied to the class.
	Annotations map[string]bool

	// The class's fields by name.
	Fields map[string]*FieldInfo

	// The class's fields in declaration order.
	FieldOrder []*FieldInfo

	// The class's method groups by name.
	Methods map[string]*MethodGroup

	// The class's constructors.
	Ctors *MethodGroup

	// The number of instance fields in the class.
	InstanceFieldCount int
}

// NewClassInfo creates a new empty class info.
func NewClassInfo(name string, span *report.TextSpan) *ClassInfo {
	return &ClassInfo{
		Name:        name,
		DefSpan:     span,
		Annotations: make(map[string]bool),
		Fields:      make(map[string]*FieldInfo),
		Methods:     make(map[string]*MethodGroup),
		Ctors:       &MethodGroup{Name: "<init>"},
	}
}

// Type returns the class type of the class.
func (ci *ClassInfo) Type() *types.ClassType {
	return &types.ClassType{Name: ci.Name}
}

// EntryMethod returns the class's entry method if it has one: a public static
// void method named `main` with no parameters.
func (ci *ClassInfo) EntryMethod() *MethodInfo {
	if group, ok := ci.Methods[EntryMethodName]; ok {
		for _, m := range group.Overloads {
			if m.Static && m.Public && len(m.Params) == 0 && types.IsVoid(m.ReturnType) {
				return m
			}
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// FieldInfo is the signature of a class field.
type FieldInfo struct {
	Name    string
	DefSpan *report.TextSpan
	Type    types.Type

	// The name of the owning class.
	Class string

	Static bool
	Final  bool
	Public bool

	// The index of the field within the instance layout.  This is -1 for static
	// fields.
	Index int
}

// MangledName returns the global symbol name of a static field.
func (fi *FieldInfo) MangledName() string {
	return fi.Class + "." + fi.Name
}

// -----------------------------------------------------------------------------

// MethodGroup is an overload group: all the methods of a class sharing a name.
type MethodGroup struct {
	Name      string
	Overloads []*MethodInfo
}

// Lookup returns the overload whose parameter types are exactly params.
func (mg *MethodGroup) Lookup(params []types.Type) *MethodInfo {
	for _, m := range mg.Overloads {
		if sameTypes(m.Params, params) {
			return m
		}
	}

	return nil
}

func sameTypes(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}

	return true
}

// MethodInfo is the signature of a method or constructor.
type MethodInfo struct {
	Name    string
	DefSpan *report.TextSpan

	// The name of the owning class.
	Class string

	// The parameter types.  The type of a variadic parameter is its array type.
	Params     []types.Type
	ParamNames []string

	ReturnType types.Type

	// Whether the last parameter is variadic.
	Variadic bool

	Static bool
	Public bool
	Native bool
	IsCtor bool
}

// Signature returns the display signature of the method.
func (mi *MethodInfo) Signature() string {
	params := make([]string, len(mi.Params))
	for i, p := range mi.Params {
		if mi.Variadic && i == len(mi.Params)-1 {
			params[i] = p.(*types.ArrayType).IndexType().Repr() + "..."
		} else {
			params[i] = p.Repr()
		}
	}

	name := mi.Name
	if mi.IsCtor {
		name = mi.Class
	}

	return name + "(" + strings.Join(params, ", ") + ")"
}

// MangledName returns the name of the method in generated code.  Methods are
// mangled by class, method name, and the erased types of their parameters so
// that overloads do not collide.  Native methods keep their source name so
// they can bind to externally defined symbols.
func (mi *MethodInfo) MangledName() string {
	if mi.Native {
		return mi.Name
	}

	sb := strings.Builder{}
	sb.WriteString(mi.Class)
	sb.WriteRune('.')
	if mi.IsCtor {
		sb.WriteString("<init>")
	} else {
		sb.WriteString(mi.Name)
	}

	sb.WriteRune('$')
	for _, p := range mi.Params {
		sb.WriteString(p.Erasure())
	}

	return sb.String()
}
