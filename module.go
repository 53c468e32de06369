package lode

import (
	"fmt"

	"golang.org/x/tools/go/ssa"
)

// Module is the control-flow view of a program under analysis: its functions,
// their basic blocks, and the static call edges between them. Distance
// calculations and guided search run against this view.
type Module struct {
	Functions []*Function

	byName map[string]*Function
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{byName: make(map[string]*Function)}
}

// AddFunction creates an empty function and adds it to the module.
func (m *Module) AddFunction(name string) *Function {
	fn := &Function{Name: name, module: m}
	m.Functions = append(m.Functions, fn)
	m.byName[name] = fn
	return fn
}

// FunctionByName returns the named function, or nil.
func (m *Module) FunctionByName(name string) *Function {
	return m.byName[name]
}

// Function represents a single function's control flow graph.
type Function struct {
	Name   string
	Blocks []*Block

	module *Module
	ssa    *ssa.Function
}

// String returns the function name.
func (fn *Function) String() string { return fn.Name }

// SSA returns the backing SSA function, or nil for synthetic functions.
func (fn *Function) SSA() *ssa.Function { return fn.ssa }

// Entry returns the entry block, or nil for an empty function.
func (fn *Function) Entry() *Block {
	if len(fn.Blocks) == 0 {
		return nil
	}
	return fn.Blocks[0]
}

// AddBlock creates a block and appends it to the function.
func (fn *Function) AddBlock() *Block {
	b := &Block{Parent: fn, Index: len(fn.Blocks)}
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// ExitBlocks returns all blocks without successors.
func (fn *Function) ExitBlocks() []*Block {
	var a []*Block
	for _, b := range fn.Blocks {
		if len(b.Succs) == 0 {
			a = append(a, b)
		}
	}
	return a
}

// Block represents one basic block of a function.
type Block struct {
	Parent *Function
	Index  int

	Succs []*Block
	Preds []*Block

	// Functions statically called from this block.
	Calls []*Function

	ssa *ssa.BasicBlock
}

// String returns a short identifier for the block.
func (b *Block) String() string {
	return fmt.Sprintf("%s.%d", b.Parent.Name, b.Index)
}

// SSA returns the backing SSA block, or nil for synthetic blocks.
func (b *Block) SSA() *ssa.BasicBlock { return b.ssa }

// Instrs returns the instructions of the backing SSA block.
func (b *Block) Instrs() []ssa.Instruction {
	if b.ssa == nil {
		return nil
	}
	return b.ssa.Instrs
}

// AddEdge adds a control flow edge between two blocks of the same function.
func AddEdge(from, to *Block) {
	assert(from.Parent == to.Parent, "edge crosses functions: %s -> %s", from, to)
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// AddCall records a static call from a block to a function.
func AddCall(b *Block, callee *Function) {
	b.Calls = append(b.Calls, callee)
}

// BuildModule constructs the control-flow view of the given SSA functions
// and everything statically reachable from them through calls.
func BuildModule(fns ...*ssa.Function) *Module {
	m := NewModule()

	// Collect the static call closure first so call edges can always be
	// resolved to a wrapper.
	var all []*ssa.Function
	seen := make(map[*ssa.Function]bool)
	queue := append([]*ssa.Function(nil), fns...)
	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		if fn == nil || seen[fn] {
			continue
		}
		seen[fn] = true
		all = append(all, fn)

		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				call, ok := instr.(ssa.CallInstruction)
				if !ok {
					continue
				}
				if callee := call.Common().StaticCallee(); callee != nil {
					queue = append(queue, callee)
				}
			}
		}
	}

	// Create wrappers.
	byFn := make(map[*ssa.Function]*Function, len(all))
	for _, sfn := range all {
		fn := m.AddFunction(sfn.String())
		fn.ssa = sfn
		byFn[sfn] = fn

		for _, sb := range sfn.Blocks {
			b := fn.AddBlock()
			b.ssa = sb
		}
	}

	// Wire edges and calls.
	for _, sfn := range all {
		fn := byFn[sfn]
		for i, sb := range sfn.Blocks {
			b := fn.Blocks[i]
			for _, succ := range sb.Succs {
				other := fn.Blocks[succ.Index]
				b.Succs = append(b.Succs, other)
				other.Preds = append(other.Preds, b)
			}

			for _, instr := range sb.Instrs {
				call, ok := instr.(ssa.CallInstruction)
				if !ok {
					continue
				}
				if callee := call.Common().StaticCallee(); callee != nil {
					if target := byFn[callee]; target != nil {
						b.Calls = append(b.Calls, target)
					}
				}
			}
		}
	}

	return m
}

// BlockOf returns the wrapper for the given SSA block, or nil.
func (m *Module) BlockOf(sb *ssa.BasicBlock) *Block {
	fn := m.byName[sb.Parent().String()]
	if fn == nil || sb.Index >= len(fn.Blocks) {
		return nil
	}
	return fn.Blocks[sb.Index]
}

// FunctionOf returns the wrapper for the given SSA function, or nil.
func (m *Module) FunctionOf(sfn *ssa.Function) *Function {
	return m.byName[sfn.String()]
}
