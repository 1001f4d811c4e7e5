package generate

import (
	"fmt"

	"cayc/ast"
	"cayc/common"
	"cayc/depm"
	"cayc/report"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Options configures code generation.
type Options struct {
	// The runtime mode: depm.RuntimeEmbedded defines the runtime helpers in the
	// generated module; depm.RuntimeExternal only declares them.
	Runtime string

	// The (optional) target triple of the module.
	Target string

	// The (optional) source file name recorded in the module.
	SourceName string
}

// Generator is responsible for converting the annotated Cay AST of a program
// into a single LLVM module.  Generation is assumed to always succeed: any
// error here is an internal compiler error.
type Generator struct {
	// The program being converted.
	prog *depm.Program

	// The LLVM module being generated.
	mod *ir.Module

	// The runtime functions of the module by name.
	rt map[string]*ir.Func

	// The struct types of classes by class name.
	classTypes map[string]*types.StructType

	// The global variables of static fields.
	staticGlobals map[*common.FieldInfo]*ir.Global

	// The LLVM functions of methods and constructors.
	funcs map[*common.MethodInfo]*ir.Func

	// The constructors called by some `new` expression.
	usedCtors map[*common.MethodInfo]struct{}

	// The interned string literals in order of first use.
	strings map[string]*ir.Global

	// The format strings used by builtins.
	formats map[string]*ir.Global

	// The builder of the entry point function.
	startBuilder *StartBuilder

	// The function being generated.
	enclosingFunc *ir.Func

	// The entry block of the function being generated: it holds only the
	// stack slots of the function.
	entry *ir.Block

	// The number of stack slots allocated in the entry block.
	nslots int

	// The stack slots of locals and parameters.
	slots map[*common.Symbol]*ir.InstAlloca

	// The number of times each slot name has been used in the function.
	slotNames map[string]int

	// The `this` pointer of the function being generated.
	this value.Value

	// The return type of the method being generated.
	returnType cytypes.Type

	// The stack of break and continue targets.
	targets []branchTarget

	// The blocks that were started after a terminator.
	deadBlocks map[*ir.Block]struct{}

	// The number of blocks created in the current function.
	blockCounter int

	// The block being generated.
	block *ir.Block
}

// branchTarget holds the destinations of break and continue statements
// targeting an enclosing loop or switch.
type branchTarget struct {
	breakBlock    *ir.Block
	continueBlock *ir.Block
}

// Generate converts the program into an LLVM module.  The program must have
// been analyzed without errors.
func Generate(prog *depm.Program, opts Options) *ir.Module {
	g := &Generator{
		prog:          prog,
		mod:           ir.NewModule(),
		rt:            make(map[string]*ir.Func),
		classTypes:    make(map[string]*types.StructType),
		staticGlobals: make(map[*common.FieldInfo]*ir.Global),
		funcs:         make(map[*common.MethodInfo]*ir.Func),
		usedCtors:     make(map[*common.MethodInfo]struct{}),
		strings:       make(map[string]*ir.Global),
		formats:       make(map[string]*ir.Global),
	}

	g.mod.TargetTriple = opts.Target
	g.mod.SourceFilename = opts.SourceName
	g.startBuilder = NewStartBuilder(g.mod)

	g.declareRuntime()
	if opts.Runtime != depm.RuntimeExternal {
		g.defineRuntime()
	}

	classes := g.classDecls()

	// Declare everything first so that definitions may reference each other
	// in any order.
	for _, class := range classes {
		g.declareClassType(class.Info)
	}

	for _, class := range classes {
		g.declareClass(class)
	}

	for _, class := range classes {
		g.genClass(class)
	}

	g.pruneDefaultCtors(classes)

	if prog.Entry != nil {
		g.startBuilder.BuildMainFunc(g.funcs[prog.Entry.EntryMethod()])
	}

	return g.mod
}

// classDecls returns all the registered class declarations of the program in
// declaration order.
func (g *Generator) classDecls() []*ast.ClassDecl {
	var classes []*ast.ClassDecl
	for _, unit := range g.prog.Units {
		for _, class := range unit.Classes {
			if class.Info != nil {
				classes = append(classes, class)
			}
		}
	}

	return classes
}

// -----------------------------------------------------------------------------

// beginFunc prepares the generator to generate the body of fn.
func (g *Generator) beginFunc(fn *ir.Func, returnType cytypes.Type) {
	g.enclosingFunc = fn
	g.returnType = returnType
	g.slots = make(map[*common.Symbol]*ir.InstAlloca)
	g.slotNames = make(map[string]int)
	g.deadBlocks = make(map[*ir.Block]struct{})
	g.targets = nil
	g.this = nil
	g.nslots = 0
	g.blockCounter = 0

	g.entry = fn.NewBlock("entry")
	g.block = g.entry
}

// endFunc terminates the function being generated and removes the empty
// blocks started after terminators.
func (g *Generator) endFunc() {
	if g.block.Term == nil {
		if cytypes.IsVoid(g.returnType) {
			g.block.NewRet(nil)
		} else {
			g.block.NewUnreachable()
		}
	}

	fn := g.enclosingFunc
	refs := referencedBlocks(fn)

	blocks := fn.Blocks[:0]
	for _, block := range fn.Blocks {
		if _, dead := g.deadBlocks[block]; dead && len(block.Insts) == 0 && !refs[block] {
			continue
		}

		if block.Term == nil {
			report.ICE("block %s of function %s has no terminator", block.Name(), fn.Name())
		}

		blocks = append(blocks, block)
	}

	fn.Blocks = blocks
	g.enclosingFunc = nil
	g.block = nil
}

// referencedBlocks returns the blocks of fn that are branched to or named as
// the predecessor of a phi.
func referencedBlocks(fn *ir.Func) map[*ir.Block]bool {
	refs := make(map[*ir.Block]bool)
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				for _, inc := range phi.Incs {
					if pred, ok := inc.Pred.(*ir.Block); ok {
						refs[pred] = true
					}
				}
			}
		}

		if block.Term != nil {
			for _, succ := range block.Term.Succs() {
				refs[succ] = true
			}
		}
	}

	return refs
}

// newBlock creates a new basic block which is not yet placed in the function.
// Blocks are placed when generation moves into them so that they appear in
// the order they are generated.
func (g *Generator) newBlock(prefix string) *ir.Block {
	block := ir.NewBlock(fmt.Sprintf("%s.%d", prefix, g.blockCounter))
	g.blockCounter++
	return block
}

// setBlock places block in the current function and moves generation into it.
func (g *Generator) setBlock(block *ir.Block) {
	if block.Parent == nil {
		block.Parent = g.enclosingFunc
		g.enclosingFunc.Blocks = append(g.enclosingFunc.Blocks, block)
	}

	g.block = block
}

// terminated returns whether the current block already has a terminator.
func (g *Generator) terminated() bool {
	return g.block.Term != nil
}

// unreachable returns whether generation is in a block started after a
// terminator.
func (g *Generator) unreachable() bool {
	_, dead := g.deadBlocks[g.block]
	return dead
}

// startDeadBlock moves generation into a fresh block after a terminator so
// that any code following the terminator has somewhere to go.
func (g *Generator) startDeadBlock() {
	block := g.newBlock("dead")
	g.deadBlocks[block] = struct{}{}
	g.setBlock(block)
}

// branchTo terminates the current block with a branch to target unless it is
// already terminated.
func (g *Generator) branchTo(target *ir.Block) {
	if !g.terminated() {
		g.block.NewBr(target)
	}
}

// -----------------------------------------------------------------------------

// newSlot allocates a new stack slot of type typ in the entry block.  Slots
// are placed in the entry block in allocation order ahead of any other
// instruction.  Slot names end in `.addr` so they never clash with block or
// parameter names.
func (g *Generator) newSlot(typ types.Type, name string) *ir.InstAlloca {
	slot := ir.NewAlloca(typ)

	if n := g.slotNames[name]; n > 0 {
		slot.SetName(fmt.Sprintf("%s.addr.%d", name, n))
	} else {
		slot.SetName(name + ".addr")
	}

	g.slotNames[name]++

	insts := g.entry.Insts
	insts = append(insts, nil)
	copy(insts[g.nslots+1:], insts[g.nslots:])
	insts[g.nslots] = slot

	g.entry.Insts = insts
	g.nslots++
	return slot
}

// defineLocal allocates the stack slot of a local symbol.
func (g *Generator) defineLocal(sym *common.Symbol) *ir.InstAlloca {
	slot := g.newSlot(g.convType(sym.Type), sym.Name)
	g.slots[sym] = slot
	return slot
}

// lookupSlot returns the stack slot of a local symbol.
func (g *Generator) lookupSlot(sym *common.Symbol) *ir.InstAlloca {
	slot, ok := g.slots[sym]
	if !ok {
		report.ICE("local `%s` used before its slot was allocated", sym.Name)
	}

	return slot
}

// -----------------------------------------------------------------------------

// pushTarget pushes the targets of a loop or switch.  continueBlock is nil
// for switches.
func (g *Generator) pushTarget(breakBlock, continueBlock *ir.Block) {
	g.targets = append(g.targets, branchTarget{breakBlock: breakBlock, continueBlock: continueBlock})
}

// popTarget pops the innermost loop or switch.
func (g *Generator) popTarget() {
	g.targets = g.targets[:len(g.targets)-1]
}
