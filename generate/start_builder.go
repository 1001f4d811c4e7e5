package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// StartBuilder is responsible for constructing the process entry point: the
// `main` function that runs all static initializers and then calls the entry
// method of the program.
type StartBuilder struct {
	// mod is the LLVM module that contains the entry point.
	mod *ir.Module

	// initFuncs is the list of static initializers in the order in which they
	// must be called.
	initFuncs []*ir.Func
}

// NewStartBuilder returns a new StartBuilder for the module.
func NewStartBuilder(mod *ir.Module) *StartBuilder {
	return &StartBuilder{mod: mod}
}

// AddInitFunc adds a new static initializer to the start builder.
func (sb *StartBuilder) AddInitFunc(initFunc *ir.Func) {
	sb.initFuncs = append(sb.initFuncs, initFunc)
}

// -----------------------------------------------------------------------------

// BuildMainFunc builds the `i32 main()` function which wraps the entry method.
func (sb *StartBuilder) BuildMainFunc(entry *ir.Func) *ir.Func {
	mainFunc := sb.mod.NewFunc("main", types.I32)
	block := mainFunc.NewBlock("entry")

	for _, initFunc := range sb.initFuncs {
		block.NewCall(initFunc)
	}

	block.NewCall(entry)
	block.NewRet(constant.NewInt(types.I32, 0))

	return mainFunc
}
