package lode

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/tools/go/ssa"
)

var (
	ErrNoStateAvailable       = errors.New("lode: no state available")
	ErrNoInstructionAvailable = errors.New("lode: no instruction available")
)

type Executor struct {
	fn         *ssa.Function                // entry function
	root       *ExecutionState              // initial state
	states     map[*ExecutionState]struct{} // all states
	stateIDSeq int                          // autoincrementing state ID

	prog   *ssa.Program                // entire program, ease-of-use var
	module *Module                     // control flow view for guidance
	fns    map[funcKey]FunctionHandler // registered function handlers

	// Shared allocator for every state of this execution.
	mm *MemoryManager

	// Lazily built validity-query wrapper around Solver.
	timing *TimingSolver

	// OS & architecture settings for the executor.
	// See `go tool dist list` for a list of valid combinations.
	OS   string
	Arch string

	// Used for solving symbolic values.
	// Must set before execution.
	Solver Solver

	// Search strategy for the executor. Defaults to depth-first.
	Searcher Searcher

	// Bounds for multi-candidate symbolic pointer resolution.
	// Zero means unbounded.
	MaxResolutions int
	ResolveTimeout time.Duration

	// Optional context checked during pointer resolution for cooperative
	// cancellation. Defaults to context.Background().
	Context context.Context
}

// NewExecutor returns a new instance of Executor.
func NewExecutor(fn *ssa.Function) *Executor {
	e := &Executor{
		fn: fn,

		prog:   fn.Prog,
		module: BuildModule(fn),
		fns:    make(map[funcKey]FunctionHandler),

		mm: NewMemoryManager(),

		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Searcher: NewDFSSearcher(),
	}

	// Default registrations.
	pkgName := "github.com/lodesym/lode"
	e.Register(pkgName, "Assert", execAssert)
	e.Register(pkgName, "Byte", execInt)
	e.Register(pkgName, "Int", execInt)
	e.Register(pkgName, "Int8", execInt)
	e.Register(pkgName, "Int16", execInt)
	e.Register(pkgName, "Int32", execInt)
	e.Register(pkgName, "Int64", execInt)
	e.Register(pkgName, "Uint", execInt)
	e.Register(pkgName, "Uint8", execInt)
	e.Register(pkgName, "Uint16", execInt)
	e.Register(pkgName, "Uint32", execInt)
	e.Register(pkgName, "Uint64", execInt)
	e.Register(pkgName, "ByteSlice", execByteSlice)
	e.Register(pkgName, "String", execString)
	e.Register("", "copy", execCopy)
	e.Register("", "len", execLen)

	// Initialize entry state.
	e.root = NewExecutionState(e, fn)
	e.root.id = e.nextStateID()

	// Add state to searcher.
	e.states = map[*ExecutionState]struct{}{e.root: struct{}{}}
	e.Searcher.AddState(e.root)

	return e
}

// RootState returns the initial state for the function execution.
func (e *Executor) RootState() *ExecutionState { return e.root }

// Module returns the control flow view of the program under execution.
func (e *Executor) Module() *Module { return e.module }

// SetSearcher replaces the search strategy, carrying over the root state.
// Must be called before execution begins.
func (e *Executor) SetSearcher(s Searcher) {
	e.Searcher = s
	s.AddState(e.root)
}

// nextStateID returns the next autoincrementing state ID.
func (e *Executor) nextStateID() int {
	e.stateIDSeq++
	return e.stateIDSeq
}

// timingSolver returns the validity-query wrapper, creating it on first use.
func (e *Executor) timingSolver() *TimingSolver {
	if e.timing == nil {
		e.timing = NewTimingSolver(e.Solver)
	}
	return e.timing
}

// resolveCtx returns the context used during pointer resolution.
func (e *Executor) resolveCtx() context.Context {
	if e.Context != nil {
		return e.Context
	}
	return context.Background()
}

// abandonOnSolverFailure aborts only the affected state when the solver gives
// up on a query, leaving the rest of the search runnable. Other errors are
// returned unchanged.
func (e *Executor) abandonOnSolverFailure(state *ExecutionState, err error) error {
	switch {
	case errors.Is(err, ErrSolverTimeout),
		errors.Is(err, ErrSolverResourceLimit),
		errors.Is(err, ErrSolverUnknown):
		log.Printf("[state] abort: %s", err)
		state.status = ExecutionStatusAborted
		state.reason = err.Error()
		return nil
	default:
		return err
	}
}

// Register registers a function handler for a given function.
// Every invocation of the given function will be delegated to the handler.
func (e *Executor) Register(path, name string, h FunctionHandler) {
	e.fns[funcKey{path, name}] = h
}

// ExecuteNextState executes the next available state. This can be called
// continually until ErrNoStateAvailable is returned.
func (e *Executor) ExecuteNextState() (*ExecutionState, error) {
	if !isValidOSArch(e.OS, e.Arch) {
		return nil, errors.New("invalid os/arch combination")
	}

	state := e.Searcher.SelectState()
	if state == nil {
		return nil, ErrNoStateAvailable
	}

	log.Printf("[state] begin: %s", state.Position().String())
	defer log.Printf("")

	// Loop until new states available or completion.
	for {
		if err := e.executeNextInstruction(state); err == ErrNoInstructionAvailable {
			break
		} else if err != nil {
			return state, err
		} else if state.Done() {
			break
		}
	}
	return state, nil
}

func (e *Executor) executeNextInstruction(state *ExecutionState) (err error) {
	// Find the next available instruction on the current frame or pop
	// up to the caller if no more instructions remain. If no more frames
	// exist then execution is done.
	var frame *StackFrame
	for {
		frame = state.Frame()
		if frame == nil {
			return ErrNoInstructionAvailable
		}

		// Continue if instruction exists.
		state.Frame().NextInstr()
		if state.Frame().Instr() != nil {
			break
		}
		state.Pop()
	}

	state.markCovered(frame.block)

	// Log each non-debug line of execution.
	instr := state.Instr()
	if _, ok := instr.(*ssa.DebugRef); !ok {
		pos := state.Position()
		pos.Filename = filepath.Base(pos.Filename)
		pos.Column = 0
		log.Printf("[exec] %s: %s (%T)", pos, instr.String(), instr)
	}

	switch instr := instr.(type) {
	case *ssa.Alloc:
		return e.executeAllocInstr(state, instr)
	case *ssa.BinOp:
		return e.executeBinOpInstr(state, instr)
	case *ssa.Call:
		return e.executeCallInstr(state, instr)
	case *ssa.ChangeType:
		return e.executeChangeTypeInstr(state, instr)
	case *ssa.Convert:
		return e.executeConvertInstr(state, instr)
	case *ssa.DebugRef:
		return nil // nop
	case *ssa.Extract:
		return e.executeExtractInstr(state, instr)
	case *ssa.FieldAddr:
		return e.executeFieldAddrInstr(state, instr)
	case *ssa.Go:
		return errors.New("goroutines are not currently supported")
	case *ssa.If:
		return e.executeIfInstr(state, instr)
	case *ssa.IndexAddr:
		return e.executeIndexAddrInstr(state, instr)
	case *ssa.Jump:
		return e.executeJumpInstr(state, instr)
	case *ssa.Lookup:
		return e.executeLookupInstr(state, instr)
	case *ssa.MakeSlice:
		return e.executeMakeSliceInstr(state, instr)
	case *ssa.Phi:
		return e.executePhiInstr(state, instr)
	case *ssa.Return:
		return e.executeReturnInstr(state, instr)
	case *ssa.Slice:
		return e.executeSliceInstr(state, instr)
	case *ssa.Store:
		return e.executeStoreInstr(state, instr)
	case *ssa.UnOp:
		return e.executeUnOpInstr(state, instr)
	default:
		return fmt.Errorf("lode.Executor: unsupported instruction: %T", instr)
	}
}

func (e *Executor) executeAllocInstr(state *ExecutionState, instr *ssa.Alloc) error {
	// Non-heap allocs are allocated when pushing function onto stack.
	if !instr.Heap {
		return nil
	}

	// Allocate zero-initialized and bind address to instruction.
	size := e.Sizeof(deref(instr.Type())) / 8
	addr, _ := state.Alloc(size, instr.Parent().String())
	state.Frame().bind(instr, addr)

	log.Printf("[alloc] type=%s addr=%d size=%d", instr.Type(), addr.Value, size)

	return nil
}

func (e *Executor) executeBinOpInstr(state *ExecutionState, instr *ssa.BinOp) error {
	switch typ := instr.X.Type().Underlying().(type) {
	case *types.Basic:
		info := typ.Info()
		if info&types.IsBoolean != 0 {
			return e.executeBinOpInstrBoolean(state, instr)
		} else if info&types.IsInteger != 0 {
			return e.executeBinOpInstrInteger(state, instr, info&types.IsUnsigned == 0)
		} else if info&types.IsString != 0 {
			return e.executeBinOpInstrString(state, instr)
		}
		return errors.New("unexpected binop basic type")
	case *types.Pointer:
		return e.executeBinOpInstrInteger(state, instr, false)
	default:
		return fmt.Errorf("unexpected binop X type: %T", typ)
	}
}

func (e *Executor) executeBinOpInstrBoolean(state *ExecutionState, instr *ssa.BinOp) error {
	x, y := state.Eval(instr.X).(Expr), state.Eval(instr.Y).(Expr)
	switch instr.Op {
	case token.AND:
		state.Frame().bind(instr, NewBinaryExpr(AND, x, y))
		return nil
	case token.OR:
		state.Frame().bind(instr, NewBinaryExpr(OR, x, y))
		return nil
	default:
		return errors.New("invalid boolean binop operator")
	}
}

func (e *Executor) executeBinOpInstrInteger(state *ExecutionState, instr *ssa.BinOp, signed bool) error {
	x, y := state.Eval(instr.X).(Expr), state.Eval(instr.Y).(Expr)

	switch instr.Op {
	case token.ADD:
		state.Frame().bind(instr, NewBinaryExpr(ADD, x, y))
		return nil
	case token.SUB:
		state.Frame().bind(instr, NewBinaryExpr(SUB, x, y))
		return nil
	case token.MUL:
		state.Frame().bind(instr, NewBinaryExpr(MUL, x, y))
		return nil
	case token.QUO:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SDIV, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(UDIV, x, y))
		}
		return nil
	case token.REM:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SREM, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(UREM, x, y))
		}
		return nil
	case token.AND:
		state.Frame().bind(instr, NewBinaryExpr(AND, x, y))
		return nil
	case token.OR:
		state.Frame().bind(instr, NewBinaryExpr(OR, x, y))
		return nil
	case token.XOR:
		state.Frame().bind(instr, NewBinaryExpr(XOR, x, y))
		return nil
	case token.SHL:
		state.Frame().bind(instr, NewBinaryExpr(SHL, x, y))
		return nil
	case token.SHR:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(ASHR, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(LSHR, x, y))
		}
		return nil
	case token.AND_NOT:
		state.Frame().bind(instr, NewBinaryExpr(XOR, x, y))
		return nil
	case token.EQL:
		state.Frame().bind(instr, NewBinaryExpr(EQ, x, y))
		return nil
	case token.NEQ:
		state.Frame().bind(instr, NewBinaryExpr(NE, x, y))
		return nil
	case token.LSS:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SLT, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(ULT, x, y))
		}
		return nil
	case token.LEQ:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SLE, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(ULE, x, y))
		}
		return nil
	case token.GTR:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SGT, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(UGT, x, y))
		}
		return nil
	case token.GEQ:
		if signed {
			state.Frame().bind(instr, NewBinaryExpr(SGE, x, y))
		} else {
			state.Frame().bind(instr, NewBinaryExpr(UGE, x, y))
		}
		return nil
	default:
		return errors.New("invalid integer binop operator")
	}
}

func (e *Executor) executeBinOpInstrString(state *ExecutionState, instr *ssa.BinOp) error {
	switch instr.Op {
	case token.ADD:
		return e.executeBinOpInstrStringADD(state, instr)
	case token.EQL:
		x, y := state.Eval(instr.X).(*Array), state.Eval(instr.Y).(*Array)
		state.Frame().bind(instr, x.Equal(y))
		return nil
	case token.NEQ:
		x, y := state.Eval(instr.X).(*Array), state.Eval(instr.Y).(*Array)
		state.Frame().bind(instr, x.NotEqual(y))
		return nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return e.executeBinOpInstrStringCompare(state, instr)
	default:
		return errors.New("invalid string binop operator")
	}
}

// executeBinOpInstrStringCompare implements LSS, LTE, GTR, & GTE string comparisons.
func (e *Executor) executeBinOpInstrStringCompare(state *ExecutionState, instr *ssa.BinOp) error {
	x := state.Eval(instr.X).(*Array)
	y := state.Eval(instr.Y).(*Array)

	// Empty strings cannot be less than or greater than one another.
	if instr.Op == token.LSS || instr.Op == token.GTR {
		if x.Size == 0 && y.Size == 0 {
			state.Frame().bind(instr, NewBoolConstantExpr(false))
			return nil
		}
	}

	// Use the lower size.
	n := uint64(x.Size)
	if n > uint64(y.Size) {
		n = uint64(y.Size)
	}

	// Generate all selection expressions once to conserve memory.
	xSelectExprs, ySelectExprs := make([]Expr, n), make([]Expr, n)
	for i := uint64(0); i < n; i++ {
		index := NewConstantExpr64(i)
		xSelectExprs[i] = x.selectByte(index)
		ySelectExprs[i] = y.selectByte(index)
	}

	// Generate OR-concatenated expression for every byte.
	var cond Expr
	for i := uint64(0); i < n; i++ {
		// Check the current byte for given operation.
		// Last LSS/LEQ byte can be equal iif x is shorter or if equal len (LEQ only).
		// Last GTR/GEQ byte can be equal iif x is longer or if equal len (GEQ only).
		var base Expr
		switch instr.Op {
		case token.LSS, token.LEQ:
			if i == n-1 && (x.Size < y.Size || (x.Size == y.Size && instr.Op == token.LEQ)) {
				base = newUleExpr(xSelectExprs[i], ySelectExprs[i]) // last byte, short x or equal len (LEQ)
			} else {
				base = newUltExpr(xSelectExprs[i], ySelectExprs[i])
			}
		case token.GTR, token.GEQ:
			if i == n-1 && (x.Size > y.Size || (x.Size == y.Size && instr.Op == token.GEQ)) {
				base = newUleExpr(ySelectExprs[i], xSelectExprs[i]) // reverse
			} else {
				base = newUltExpr(ySelectExprs[i], xSelectExprs[i]) // reverse
			}
		}

		// Ensure all previous bytes are equal.
		for j := uint64(0); j < i; j++ {
			base = newAndExpr(base, newEqExpr(xSelectExprs[j], ySelectExprs[j]))
		}

		// OR-concat to the current expression.
		if i == 0 {
			cond = base
		} else {
			cond = newOrExpr(cond, base)
		}
	}

	// Bind condition expression to instruction.
	state.Frame().bind(instr, cond)
	return nil
}

func (e *Executor) executeBinOpInstrStringADD(state *ExecutionState, instr *ssa.BinOp) error {
	x, y := state.Eval(instr.X).(*Array), state.Eval(instr.Y).(*Array)

	log.Printf("[binop] str-add x=%s y=%s", x, y)

	// Return either x or y if the other is zero length.
	if x.Size == 0 {
		state.Frame().bind(instr, y)
		return nil
	} else if y.Size == 0 {
		state.Frame().bind(instr, x)
		return nil
	}

	// If x & y are non-blank then create a new array and copy all bytes.
	array := NewArray(0, x.Size+y.Size)
	for i := uint(0); i < x.Size; i++ {
		index := NewConstantExpr64(uint64(i))
		array.storeByte(index, x.selectByte(index))
	}
	for i := uint(0); i < y.Size; i++ {
		array.storeByte(NewConstantExpr64(uint64(x.Size+i)), y.selectByte(NewConstantExpr64(uint64(i))))
	}

	// Bind new array to instruction.
	state.Frame().bind(instr, array)

	return nil
}

func (e *Executor) executeCallInstr(state *ExecutionState, instr *ssa.Call) error {
	// Handle builtin functions separately.
	if builtin, ok := instr.Call.Value.(*ssa.Builtin); ok {
		registered := e.fns[funcKey{"", builtin.Name()}]
		if registered == nil {
			panic(fmt.Sprintf("lode.Executor: unregistered builtin function: %s", builtin.Name()))
		}
		return registered(state, instr)
	}

	// Lookup if function is registered with executor and defer execution.
	fn, args := state.ExtractCall(instr)
	path, name := fn.Pkg.Pkg.Path(), fn.Name()
	if registered, ok := e.fns[funcKey{path, name}]; ok {
		return registered(state, instr)
	}

	// Move execution to the new frame & bind arguments.
	log.Printf("[fork] call: %s %s", path, name)
	newState := state.Fork(nil)
	newState.id = e.nextStateID()
	newState.Push(fn)
	for i, arg := range args {
		newState.Frame().bind(fn.Params[i], arg)
	}
	e.Searcher.AddState(newState)

	return nil
}

func (e *Executor) executeChangeTypeInstr(state *ExecutionState, instr *ssa.ChangeType) error {
	x := state.Eval(instr.X)
	state.Frame().bind(instr, x)
	return nil
}

func (e *Executor) executeConvertInstr(state *ExecutionState, instr *ssa.Convert) error {
	srcType, dstType := instr.X.Type().Underlying(), instr.Type().Underlying()

	switch srcType := srcType.(type) {
	case *types.Pointer:
		if dstType, ok := dstType.(*types.Basic); !ok || dstType.Kind() != types.UnsafePointer {
			return fmt.Errorf("lode.Executor: unsupported pointer conversion")
		}
		state.Frame().bind(instr, state.MustEvalAsExpr(instr.X))
		return nil

	case *types.Slice:
		switch srcType.Elem().(*types.Basic).Kind() {
		case types.Byte:
			return e.executeConvertInstrByteSliceToString(state, instr)
		default:
			return fmt.Errorf("lode.Executor: unsupported slice conversion: %s", srcType.Elem())
		}

	case *types.Basic:
		if srcType.Kind() == types.String {
			switch dstType := dstType.(type) {
			case *types.Slice:
				if dstType.Elem().(*types.Basic).Kind() == types.Byte {
					return e.executeConvertInstrStringToByteSlice(state, instr)
				}
			case *types.Basic:
				if dstType.Kind() == types.String {
					state.Frame().bind(instr, state.Eval(instr.X)) // nop
					return nil
				}
			}
			return fmt.Errorf("lode.Executor: unsupported string conversion: %s", dstType)
		}

		if srcType.Info()&types.IsInteger == 0 {
			return fmt.Errorf("lode.Executor: unsupported basic type conversion: %s", srcType)
		}

		value := state.MustEvalAsExpr(instr.X)
		signed := srcType.Info()&types.IsUnsigned == 0
		state.Frame().bind(instr, NewCastExpr(value, e.Sizeof(dstType), signed))
		return nil

	default:
		return fmt.Errorf("lode.Executor: unsupported type conversion: %s", srcType)
	}
}

func (e *Executor) executeConvertInstrByteSliceToString(state *ExecutionState, instr *ssa.Convert) error {
	hdr := state.Eval(instr.X).(*Array)

	log.Printf("[convert] []byte-to-string: %s", hdr)

	// Find data using slice header pointer. Must be a constant expression.
	ptr, ok := state.selectIntAt(hdr, 0).(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode.Executor: cannot read non-constant SliceHeader.Data field")
	}

	// Find length of slice.
	length, ok := state.selectIntAt(hdr, 1).(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode.Executor: cannot read non-constant SliceHeader.Len field")
	}

	// Find the object at the given address.
	pair, found := state.addressSpace.ResolveExact(ptr.Value)
	if !found {
		return fmt.Errorf("lode.Executor: byte slice data allocation not found: %d", ptr.Value)
	}
	offset := ptr.Value - pair.Object.Address
	src := pair.State.Array()

	// Copy values from byte slice data to new array.
	dst := NewArray(0, uint(length.Value))
	for i := uint64(0); i < length.Value; i++ {
		dst.storeByte(NewConstantExpr64(i), src.selectByte(NewConstantExpr64(offset+i)))
	}

	// Bind new array to instruction.
	state.Frame().bind(instr, dst)
	return nil
}

func (e *Executor) executeConvertInstrStringToByteSlice(state *ExecutionState, instr *ssa.Convert) error {
	x := state.Eval(instr.X).(*Array)
	length := NewConstantExpr(uint64(x.Size), e.PointerWidth())

	// Build underlying object and copy bytes.
	addr, _ := state.Alloc(x.Size, instr.Parent().String())
	state.Copy(addr, x)

	// Build slice header.
	hdr := e.newSliceHeader(state, addr, length, length)
	state.Frame().bind(instr, hdr)

	return nil
}

// newSliceHeader builds a data/len/cap header as a standalone array value.
func (e *Executor) newSliceHeader(state *ExecutionState, data, length, capacity Expr) *Array {
	hdr := NewArray(0, (e.PointerWidth()/8)*3)
	hdr.zero()
	hdr = state.storeIntAt(hdr, 0, data)
	hdr = state.storeIntAt(hdr, 1, length)
	hdr = state.storeIntAt(hdr, 2, capacity)
	return hdr
}

func (e *Executor) executeExtractInstr(state *ExecutionState, instr *ssa.Extract) error {
	tuple := state.Eval(instr.Tuple).(Tuple)
	state.Frame().bind(instr, tuple[instr.Index])
	return nil
}

func (e *Executor) executeFieldAddrInstr(state *ExecutionState, instr *ssa.FieldAddr) error {
	// Retrieve type and field layout.
	ptrType := instr.X.Type().Underlying().(*types.Pointer)
	structType := ptrType.Elem().Underlying().(*types.Struct)
	offsets := e.Sizes().Offsetsof(structFields(structType))
	fieldOffset := offsets[instr.Field]

	// Find base address of the structure. Must be a constant address currently.
	base := state.Eval(instr.X).(*ConstantExpr)

	log.Printf("[field] base=%d offset=%d", base.Value, fieldOffset)

	// Compute offset from base address to field address.
	expr := NewBinaryExpr(ADD, base, NewConstantExpr(uint64(fieldOffset), e.PointerWidth()))
	state.Frame().bind(instr, expr)

	return nil
}

func (e *Executor) executeIndexAddrInstr(state *ExecutionState, instr *ssa.IndexAddr) error {
	switch typ := instr.X.Type().Underlying().(type) {
	case *types.Pointer:
		arrayType, ok := typ.Elem().Underlying().(*types.Array)
		if !ok {
			return fmt.Errorf("lode.Executor: unexpected IndexAddr pointer elem: %s", typ.Elem())
		}
		return e.executeIndexAddrInstrArray(state, instr, arrayType)
	case *types.Slice:
		return e.executeIndexAddrInstrSlice(state, instr, typ)
	default:
		return fmt.Errorf("lode.Executor: unexpected IndexAddr.X type: %T", typ)
	}
}

// executeIndexAddrInstrArray computes &a[i] for a pointer to an array.
// A symbolic index produces a symbolic pointer, resolved at the memory
// operation that consumes it.
func (e *Executor) executeIndexAddrInstrArray(state *ExecutionState, instr *ssa.IndexAddr, typ *types.Array) error {
	base := state.MustEvalAsExpr(instr.X)
	index := newZExtExpr(state.MustEvalAsExpr(instr.Index), e.PointerWidth())

	indexBytes := newMulExpr(index, NewConstantExpr(uint64(e.Sizeof(typ.Elem())/8), e.PointerWidth()))
	state.Frame().bind(instr, newAddExpr(base, indexBytes))
	return nil
}

func (e *Executor) executeIndexAddrInstrSlice(state *ExecutionState, instr *ssa.IndexAddr, typ *types.Slice) error {
	x := state.Eval(instr.X).(*Array)
	index := newZExtExpr(state.MustEvalAsExpr(instr.Index), e.PointerWidth())

	indexBytes := newMulExpr(index, NewConstantExpr(uint64(e.Sizeof(typ.Elem())/8), e.PointerWidth()))
	state.Frame().bind(instr, newAddExpr(state.selectIntAt(x, 0), indexBytes))
	return nil
}

func (e *Executor) executeLookupInstr(state *ExecutionState, instr *ssa.Lookup) error {
	switch typ := instr.X.Type().(type) {
	case *types.Basic:
		x := state.Eval(instr.X).(*Array)
		index := newZExtExpr(state.MustEvalAsExpr(instr.Index), 64)
		state.Frame().bind(instr, x.selectByte(index))
		return nil
	default:
		return fmt.Errorf("lode.Executor: unexpected Lookup.X type: %T", typ)
	}
}

func (e *Executor) executeMakeSliceInstr(state *ExecutionState, instr *ssa.MakeSlice) error {
	typ := instr.Type().(*types.Slice)

	// Evaluate arguments.
	length, ok := state.EvalAsConstantExpr(instr.Len)
	if !ok {
		return fmt.Errorf("lode.Executor: make slice len must be a constant")
	}
	capacity, ok := state.EvalAsConstantExpr(instr.Cap)
	if !ok {
		return fmt.Errorf("lode.Executor: make slice cap must be a constant")
	} else if capacity == nil {
		capacity = length
	}

	// Build underlying object, zero-filled.
	elemSizeBytes := (e.Sizeof(typ.Elem()) / 8)
	addr, _ := state.Alloc(uint(capacity.Value)*elemSizeBytes, instr.Parent().String())

	// Build slice header.
	hdr := e.newSliceHeader(state, addr, length, capacity)
	state.Frame().bind(instr, hdr)

	return nil
}

func (e *Executor) executeReturnInstr(state *ExecutionState, instr *ssa.Return) error {
	// Assign return values to call instruction results.
	if frame := state.CallerFrame(); frame != nil {
		// Retrieve results from this frame.
		results := make(Tuple, len(instr.Results))
		for i := range results {
			results[i] = state.Eval(instr.Results[i])
		}

		// Assign value to caller
		call := frame.Instr()
		if call, ok := call.(*ssa.Call); ok {
			switch len(results) {
			case 0:
			case 1:
				frame.bind(call, results[0])
			default:
				frame.bind(call, results)
			}
		}

		// Split off new state with same constraints so we can maintain position.
		log.Print("[fork] return")
		newState := state.Fork(nil)
		newState.id = e.nextStateID()
		newState.Pop()
		e.Searcher.AddState(newState)
	}

	return nil
}

func (e *Executor) executeIfInstr(state *ExecutionState, instr *ssa.If) error {
	cond := state.Eval(instr.Cond).(Expr)
	block := instr.Block()

	// Add the false branch if it is valid.
	if satisfiable, _, err := e.Solver.Solve(append(state.constraints, NewNotExpr(cond)), nil); err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if satisfiable {
		log.Print("[fork] condition false")
		newState := state.Fork(NewNotExpr(cond))
		newState.id = e.nextStateID()
		newState.Frame().jump(block.Succs[1])
		e.Searcher.AddState(newState)
	}

	// Add the true branch if it is satisfiable.
	if satisfiable, _, err := e.Solver.Solve(append(state.constraints, cond), nil); err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if satisfiable {
		log.Print("[fork] condition true")
		newState := state.Fork(cond)
		newState.id = e.nextStateID()
		newState.Frame().jump(block.Succs[0])
		e.Searcher.AddState(newState)
	}

	return nil
}

func (e *Executor) executeUnOpInstr(state *ExecutionState, instr *ssa.UnOp) error {
	switch instr.Op {
	case token.MUL:
		return e.executeUnOpMulInstr(state, instr)
	default:
		return fmt.Errorf("lode.Executor: unsupported UnOp operator: %s", instr.Op)
	}
}

func (e *Executor) executeUnOpMulInstr(state *ExecutionState, instr *ssa.UnOp) error {
	width := e.Sizeof(instr.Type())

	switch addr := state.MustEvalAsExpr(instr.X).(type) {
	case *ConstantExpr:
		return e.executeLoadConcrete(state, instr, addr, width)
	default:
		return e.executeLoadSymbolic(state, instr, addr, width)
	}
}

// executeLoadConcrete reads through a concrete pointer. Unbound non-nil
// addresses are lazily materialized as unconstrained symbolic objects.
func (e *Executor) executeLoadConcrete(state *ExecutionState, instr *ssa.UnOp, addr *ConstantExpr, width uint) error {
	if addr.Value == 0 {
		state.status = ExecutionStatusPanicked
		state.reason = "invalid memory address or nil pointer dereference"
		return nil
	}
	pair := state.addressSpace.FindOrLazyInitializeObject(e.mm, addr.Value, width/8, instr.Parent().String())
	offset := pair.Object.OffsetExpr(addr)

	// Simple data types (such as ints) are extracted as expressions.
	// Complex data types such as structs are extracted as arrays.
	if isExprType(instr.Type()) {
		state.Frame().bind(instr, pair.State.Array().Select(offset, width, e.IsLittleEndian()))
	} else {
		src := pair.State.Array()
		dstAddr, dst := state.Alloc(width/8, instr.Parent().String())
		wos := state.addressSpace.GetWriteable(dst.Object(), dst)
		for i := uint64(0); i < uint64(width/8); i++ {
			index := newAddExpr(offset, NewConstantExpr64(i))
			wos.Write(NewConstantExpr64(i), src.selectByte(index))
		}
		state.Frame().bind(instr, dstAddr)
	}
	return nil
}

// executeLoadSymbolic reads through a symbolic pointer. The pointer is
// resolved against the address space: a unique candidate is read in place,
// multiple candidates fork one state per feasible object.
func (e *Executor) executeLoadSymbolic(state *ExecutionState, instr *ssa.UnOp, addr Expr, width uint) error {
	ctx := e.resolveCtx()
	ts := e.timingSolver()

	// Fast path: most pointers resolve to a single object.
	if pair, ok, err := state.addressSpace.ResolveOneIfUnique(ctx, ts, state.constraints, addr); err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if ok {
		state.AddConstraint(pair.Object.BoundsCheckPointer(addr))
		state.Frame().bind(instr, pair.State.Array().Select(pair.Object.OffsetExpr(addr), width, e.IsLittleEndian()))
		return nil
	}

	rl, incomplete, err := state.addressSpace.Resolve(ctx, ts, state.constraints, addr, e.MaxResolutions, e.ResolveTimeout)
	if err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if len(rl) == 0 {
		if incomplete {
			state.status = ExecutionStatusAborted
			state.reason = "pointer resolution incomplete"
			return nil
		}
		state.status = ExecutionStatusPanicked
		state.reason = "invalid memory access"
		return nil
	}

	// Fork one state per feasible object.
	for _, pair := range rl {
		inBounds := pair.Object.BoundsCheckPointer(addr)
		log.Printf("[fork] load: %s", pair.Object)
		newState := state.Fork(inBounds)
		newState.id = e.nextStateID()
		newState.Frame().bind(instr, pair.State.Array().Select(pair.Object.OffsetExpr(addr), width, e.IsLittleEndian()))
		e.Searcher.AddState(newState)
	}
	return nil
}

func (e *Executor) executeJumpInstr(state *ExecutionState, instr *ssa.Jump) error {
	state.Frame().jump(instr.Block().Succs[0])
	return nil
}

func (e *Executor) executePhiInstr(state *ExecutionState, instr *ssa.Phi) error {
	i := basicBlockIndex(state.Frame().block.Preds, state.Frame().prev)
	assert(i >= 0, "phi basic block not found")

	state.Frame().bind(instr, state.Eval(instr.Edges[i]))
	return nil
}

func (e *Executor) executeStoreInstr(state *ExecutionState, instr *ssa.Store) error {
	switch addr := state.MustEvalAsExpr(instr.Addr).(type) {
	case *ConstantExpr:
		// Copy value if it is an array.
		switch val := state.Eval(instr.Val).(type) {
		case *Array:
			state.Copy(addr, val)
			return nil
		case Expr:
			state.Store(addr, val)
			return nil
		default:
			return fmt.Errorf("unexpected store value: %#v", val)
		}
	default:
		val, ok := state.Eval(instr.Val).(Expr)
		if !ok {
			return fmt.Errorf("lode.Executor: cannot store array through symbolic pointer")
		}
		return e.executeStoreSymbolic(state, addr, val)
	}
}

// executeStoreSymbolic writes through a symbolic pointer, forking one state
// per feasible destination object.
func (e *Executor) executeStoreSymbolic(state *ExecutionState, addr Expr, val Expr) error {
	ctx := e.resolveCtx()
	ts := e.timingSolver()

	if pair, ok, err := state.addressSpace.ResolveOneIfUnique(ctx, ts, state.constraints, addr); err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if ok {
		state.AddConstraint(pair.Object.BoundsCheckPointer(addr))
		wos := state.addressSpace.GetWriteable(pair.Object, pair.State)
		wos.Write(pair.Object.OffsetExpr(addr), val)
		return nil
	}

	rl, incomplete, err := state.addressSpace.Resolve(ctx, ts, state.constraints, addr, e.MaxResolutions, e.ResolveTimeout)
	if err != nil {
		return e.abandonOnSolverFailure(state, err)
	} else if len(rl) == 0 {
		if incomplete {
			state.status = ExecutionStatusAborted
			state.reason = "pointer resolution incomplete"
			return nil
		}
		state.status = ExecutionStatusPanicked
		state.reason = "invalid memory access"
		return nil
	}

	for _, pair := range rl {
		inBounds := pair.Object.BoundsCheckPointer(addr)
		log.Printf("[fork] store: %s", pair.Object)
		newState := state.Fork(inBounds)
		newState.id = e.nextStateID()

		target := newState.addressSpace.FindObject(pair.Object)
		assert(target != nil, "store: forked object missing: %s", pair.Object)
		wos := newState.addressSpace.GetWriteable(pair.Object, target)
		wos.Write(pair.Object.OffsetExpr(addr), val)
		e.Searcher.AddState(newState)
	}
	return nil
}

func (e *Executor) executeSliceInstr(state *ExecutionState, instr *ssa.Slice) error {
	switch typ := deref(instr.X.Type()).(type) {
	case *types.Array:
		return e.executeSliceInstrArray(state, instr)
	case *types.Basic:
		return e.executeSliceInstrString(state, instr)
	case *types.Slice:
		return e.executeSliceInstrSlice(state, instr)
	default:
		return fmt.Errorf("lode.Executor.executeSliceInstr(): unexpected slice type: %T", typ)
	}
}

func (e *Executor) executeSliceInstrArray(state *ExecutionState, instr *ssa.Slice) error {
	addr, ok := state.EvalAsConstantExpr(instr.X)
	if !ok {
		return fmt.Errorf("lode.Executor: array slice address must be a constant expression")
	}
	pair, found := state.addressSpace.ResolveExact(addr.Value)
	if !found {
		return fmt.Errorf("lode.Executor: cannot find array allocation: %d", addr.Value)
	}

	lo := state.MustEvalAsExpr(instr.Low)
	hi := state.MustEvalAsExpr(instr.High)
	max := state.MustEvalAsExpr(instr.Max)

	log.Printf("[slice] array low=%v high=%v max=%v", lo, hi, max)

	// Determine element width.
	pointerWidth := e.PointerWidth()
	typ := instr.Type().(*types.Slice)
	elemWidth := NewConstantExpr(uint64(e.Sizeof(typ.Elem()))/8, pointerWidth)

	// Set index defaults.
	if lo == nil {
		lo = NewConstantExpr(0, pointerWidth)
	}
	if hi == nil {
		hi = NewConstantExpr(uint64(pair.Object.Size), pointerWidth)
	}
	if max == nil {
		max = NewConstantExpr(uint64(pair.Object.Size), pointerWidth)
	}

	// Build header with updated data/len/cap.
	hdr := e.newSliceHeader(state,
		newAddExpr(addr, newMulExpr(lo, elemWidth)),
		newSubExpr(hi, lo),
		newSubExpr(max, lo))
	state.Frame().bind(instr, hdr)

	return nil
}

func (e *Executor) executeSliceInstrString(state *ExecutionState, instr *ssa.Slice) error {
	x := state.Eval(instr.X).(*Array)

	// Ensure low index is constant.
	lo, ok := state.EvalAsConstantExpr(instr.Low)
	if !ok {
		return fmt.Errorf("lode.Executor: string slice low index must be a constant expression")
	} else if lo == nil {
		lo = NewConstantExpr64(0)
	}

	// Ensure high index is constant.
	hi, ok := state.EvalAsConstantExpr(instr.High)
	if !ok {
		return fmt.Errorf("lode.Executor: string slice high index must be a constant expression")
	} else if hi == nil {
		hi = NewConstantExpr64(uint64(x.Size))
	}

	log.Printf("[slice] string low=%v high=%v", lo, hi)

	// Verify low & high are inbounds.
	if hi.Value > uint64(x.Size) || lo.Value > uint64(x.Size) {
		state.status = ExecutionStatusPanicked
		state.reason = "slice bounds out of range"
		return nil
	}

	// Copy substring to new array.
	array := NewArray(0, uint(hi.Value-lo.Value))
	for i := uint(0); i < array.Size; i++ {
		array.storeByte(NewConstantExpr64(uint64(i)), x.selectByte(NewConstantExpr64(uint64(i)+lo.Value)))
	}

	// Bind substring to instruction.
	state.Frame().bind(instr, array)

	return nil
}

func (e *Executor) executeSliceInstrSlice(state *ExecutionState, instr *ssa.Slice) error {
	x := state.Eval(instr.X).(*Array)
	lo := state.MustEvalAsExpr(instr.Low)
	hi := state.MustEvalAsExpr(instr.High)
	max := state.MustEvalAsExpr(instr.Max)

	log.Printf("[slice] slice low=%v high=%v max=%v, id=#%d", lo, hi, max, x.ID)

	// Determine element width.
	pointerWidth := e.PointerWidth()
	typ := instr.Type().(*types.Slice)
	elemWidth := NewConstantExpr(uint64(e.Sizeof(typ.Elem()))/8, pointerWidth)

	// Set index defaults.
	if lo == nil {
		lo = NewConstantExpr64(0)
	}
	if hi == nil {
		hi = state.selectIntAt(x, 1)
	}
	if max == nil {
		max = state.selectIntAt(x, 2)
	}

	// Data is offset based on element width and low value.
	data := newAddExpr(state.selectIntAt(x, 0), newMulExpr(lo, elemWidth))

	// Build header with updated data/len/cap.
	hdr := e.newSliceHeader(state, data, newSubExpr(hi, lo), newSubExpr(max, lo))
	state.Frame().bind(instr, hdr)

	return nil
}

func (e *Executor) Sizes() types.Sizes {
	return types.SizesFor("gc", e.Arch)
}

func (e *Executor) Sizeof(typ types.Type) uint {
	return uint(e.Sizes().Sizeof(typ)) * 8
}

func (e *Executor) PointerWidth() uint {
	return e.Sizeof((*types.Pointer)(nil))
}

// MaxAllocSize returns the maximum allocation size.
func (e *Executor) MaxAllocSize() uint {
	if e.PointerWidth() == 32 {
		return 1 * 1024 * 1024 // 1MB
	}
	return 256 * 1024 * 1024 // 256MB
}

// IsLittleEndian returns true if the target architecture is little endian.
func (e *Executor) IsLittleEndian() bool {
	switch e.Arch {
	case "ppc64", "mips", "mips64":
		return false
	default:
		return true
	}
}

// FunctionHandler represents special execution of an SSA function call.
//
// Once registered with the Executor, all invocations of the function will be
// delegated to the FunctionHandler.
type FunctionHandler func(state *ExecutionState, instr *ssa.Call) error

// funcKey represents a key for registering a FunctionHandler with the Executor.
type funcKey struct {
	path string // package name
	name string // function name
}

// Assert adds a constraint to the current execution state.
func Assert(cond bool) {}

// execAssert represents a function handler for adding an assertion to the current state.
func execAssert(state *ExecutionState, instr *ssa.Call) error {
	_, args := state.ExtractCall(instr)

	cond, ok := args[0].(Expr)
	if !ok {
		return fmt.Errorf("lode.Assert(): unable to assert non-expression: %T", args[0])
	}

	state.AddConstraint(cond)
	return nil
}

// Byte returns a symbolic byte.
func Byte() byte { return 0 }

// Int returns a symbolic signed integer with the current execution engine's integer width.
func Int() int { return 0 }

// Int8 returns a symbolic 8-bit signed integer.
func Int8() int8 { return 0 }

// Int16 returns a symbolic 16-bit signed integer.
func Int16() int16 { return 0 }

// Int32 returns a symbolic 32-bit signed integer.
func Int32() int32 { return 0 }

// Int64 returns a symbolic 64-bit signed integer.
func Int64() int64 { return 0 }

func Uint() uint     { return 0 }
func Uint8() uint8   { return 0 }
func Uint16() uint16 { return 0 }
func Uint32() uint32 { return 0 }
func Uint64() uint64 { return 0 }

// execInt represents a function handler for all int & uint special functions.
func execInt(state *ExecutionState, instr *ssa.Call) error {
	width := state.Executor().Sizeof(instr.Type())
	_, array := state.AllocSymbolic(width/8, instr.Parent().String())
	state.Frame().bind(instr, array.Select(NewConstantExpr(0, 32), width, state.Executor().IsLittleEndian()))
	return nil
}

// String returns a symbolic string that is n bytes long.
func String(n int) string { return "" }

// execString represents a function handler for the String() function.
func execString(state *ExecutionState, instr *ssa.Call) error {
	_, args := state.ExtractCall(instr)

	n, ok := args[0].(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode.String(): only constant size allowed")
	}

	// Allocate underlying bytes.
	_, array := state.AllocSymbolic(uint(n.Value), instr.Parent().String())

	// Bind array to instruction.
	state.Frame().bind(instr, array)
	return nil
}

// ByteSlice returns a symbolic byte slice that is n bytes long.
func ByteSlice(n int) []byte { return nil }

// execByteSlice represents a function handler for the ByteSlice() function.
func execByteSlice(state *ExecutionState, instr *ssa.Call) error {
	_, args := state.ExtractCall(instr)

	n, ok := args[0].(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode.ByteSlice(): only constant size allowed")
	}

	// Allocate underlying byte object.
	addr, _ := state.AllocSymbolic(uint(n.Value), instr.Parent().String())

	// Build slice header over it.
	hdr := state.Executor().newSliceHeader(state, addr, n, n)
	state.Frame().bind(instr, hdr)

	return nil
}

// execCopy represents a function handler for the builtin copy() function.
func execCopy(state *ExecutionState, instr *ssa.Call) error {
	_, args := state.ExtractCall(instr)

	// Retrieve underlying object, offset & size of destination.
	dstType := instr.Call.Args[0].Type().(*types.Slice)
	dstHeader := args[0].(*Array)
	dstData, ok := state.selectIntAt(dstHeader, 0).(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode: copy() expects constant dst slice data address")
	}
	dstLen, ok := state.selectIntAt(dstHeader, 1).(*ConstantExpr)
	if !ok {
		return fmt.Errorf("lode: copy() expects constant dst slice len")
	}
	dstPair, found := state.addressSpace.ResolveExact(dstData.Value)
	if !found {
		return fmt.Errorf("lode: dst slice data not found: %d", dstData.Value)
	}
	dstOffset := dstData.Value - dstPair.Object.Address
	dstSize := dstLen.Value * uint64(state.executor.Sizeof(dstType.Elem())/8)

	// Determine source raw data.
	// For a slice it's the Header.Data field. For a string it's the raw data.
	var srcArray *Array
	var srcOffset, srcSize uint64
	switch typ := instr.Call.Args[1].Type().(type) {
	case *types.Slice:
		srcHeader := args[1].(*Array)
		srcData, ok := state.selectIntAt(srcHeader, 0).(*ConstantExpr)
		if !ok {
			return fmt.Errorf("lode: copy() expects constant src slice data address")
		}
		srcLen, ok := state.selectIntAt(srcHeader, 1).(*ConstantExpr)
		if !ok {
			return fmt.Errorf("lode: copy() expects constant src slice len")
		}
		srcPair, found := state.addressSpace.ResolveExact(srcData.Value)
		if !found {
			return fmt.Errorf("lode: src slice data not found: %d", srcData.Value)
		}
		srcArray = srcPair.State.Array()
		srcOffset = srcData.Value - srcPair.Object.Address
		srcSize = srcLen.Value * uint64(state.executor.Sizeof(typ.Elem())/8)

	case *types.Basic:
		srcArray = args[1].(*Array)
		srcOffset, srcSize = 0, uint64(srcArray.Size)
	default:
		return fmt.Errorf("lode: invalid copy() src type: %s", typ)
	}

	// Validate that source size not larger than destination size.
	if srcSize > dstSize {
		state.status = ExecutionStatusPanicked
		state.reason = "copy out of range"
		return nil
	}

	// Copy all the bytes from src to dst through a writable state.
	wos := state.addressSpace.GetWriteable(dstPair.Object, dstPair.State)
	for i := uint64(0); i < srcSize; i++ {
		dstIndex := NewConstantExpr64(dstOffset + i)
		srcIndex := NewConstantExpr64(srcOffset + i)
		wos.Write(dstIndex, srcArray.selectByte(srcIndex))
	}

	return nil
}

// execLen represents a function handler for the builtin len() function.
func execLen(state *ExecutionState, instr *ssa.Call) error {
	_, args := state.ExtractCall(instr)
	arg := args[0].(*Array)

	switch typ := instr.Call.Args[0].Type().(type) {
	case *types.Slice:
		v, ok := state.selectIntAt(arg, 1).(*ConstantExpr)
		if !ok {
			return fmt.Errorf("lode: len() expects constant slice len")
		}
		state.Frame().bind(instr, v)
		return nil
	case *types.Basic:
		state.Frame().bind(instr, NewConstantExpr64(uint64(arg.Size)))
		return nil
	default:
		return fmt.Errorf("lode: invalid len() arg type: %s", typ)
	}
}

// isValidOSArch returns true if the OS & architecture combination are valid.
func isValidOSArch(os, arch string) bool {
	switch fmt.Sprintf("%s/%s", os, arch) {
	case "android/386",
		"android/amd64",
		"android/arm",
		"android/arm64",
		"darwin/386",
		"darwin/amd64",
		"darwin/arm",
		"darwin/arm64",
		"dragonfly/amd64",
		"freebsd/386",
		"freebsd/amd64",
		"freebsd/arm",
		"js/wasm",
		"linux/386",
		"linux/amd64",
		"linux/arm",
		"linux/arm64",
		"linux/mips",
		"linux/mips64",
		"linux/mips64le",
		"linux/mipsle",
		"linux/ppc64",
		"linux/ppc64le",
		"linux/riscv64",
		"linux/s390x",
		"nacl/386",
		"nacl/amd64p32",
		"nacl/arm",
		"netbsd/386",
		"netbsd/amd64",
		"netbsd/arm",
		"openbsd/386",
		"openbsd/amd64",
		"openbsd/arm",
		"plan9/386",
		"plan9/amd64",
		"plan9/arm",
		"solaris/amd64",
		"windows/386",
		"windows/amd64":
		return true
	default:
		return false
	}
}

func structFields(typ *types.Struct) []*types.Var {
	a := make([]*types.Var, typ.NumFields())
	for i := range a {
		a[i] = typ.Field(i)
	}
	return a
}

// basicBlockIndex returns the index of v within a. Returns -1 if v is not in a.
func basicBlockIndex(a []*ssa.BasicBlock, v *ssa.BasicBlock) int {
	for i := range a {
		if a[i] == v {
			return i
		}
	}
	return -1
}

// deref returns the underlying data type if typ is a pointer. Otherwise returns typ.
func deref(typ types.Type) types.Type {
	if p, ok := typ.Underlying().(*types.Pointer); ok {
		return p.Elem()
	}
	return typ
}

// isPointerType returns true if typ is a pointer type.
func isPointerType(typ types.Type) bool {
	_, ok := typ.Underlying().(*types.Pointer)
	return ok
}

// isExprType returns true if typ is stored as an Expr.
// Only applies to boolean, integer, and pointer values.
func isExprType(typ types.Type) bool {
	if typ, ok := typ.(*types.Basic); ok {
		return typ.Info()&types.IsBoolean != 0 || typ.Info()&types.IsInteger != 0
	}
	return isPointerType(typ)
}
