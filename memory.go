package lode

import (
	"fmt"
)

// Array represents an array of symbolic or concrete bytes.
type Array struct {
	ID      uint64       // unique id
	Size    uint         // width, in bytes
	Updates *ArrayUpdate // linked list of symbolic updates
}

// NewArray returns a new Array of the given size.
func NewArray(id uint64, size uint) *Array {
	return &Array{
		ID:   id,
		Size: size,
	}
}

// String returns a string representation of the array.
func (a *Array) String() string {
	if a.ID != 0 {
		return fmt.Sprintf("(array #%d %d)", a.ID, a.Size)
	}
	return fmt.Sprintf("(array %d)", a.Size)
}

// Clone returns a copy of the array.
// The update chain is shared so cloning is constant time.
func (a *Array) Clone() *Array {
	return &Array{
		ID:      a.ID,
		Size:    a.Size,
		Updates: a.Updates,
	}
}

// zero initializes all bytes to zero in-place. Panic if updates already exist.
func (a *Array) zero() {
	assert(a.Updates == nil, "lode.Array: cannot zero-initialize array with updates")
	for i := uint(0); i < a.Size; i++ {
		a.storeByte(NewConstantExpr64(uint64(i)), NewConstantExpr(0, 8))
	}
}

// Select reads a value from the array.
func (a *Array) Select(offset Expr, width uint, isLittleEndian bool) Expr {
	assert(width > 0, "select: invalid width")

	offset = newZExtExpr(offset, Width64)

	if width == WidthBool {
		return NewExtractExpr(a.selectByte(offset), 0, WidthBool)
	}

	// Handle read byte-by-byte.
	var result Expr
	for i, n := uint64(0), uint64(width)/8; i != n; i++ {
		byteOffset := i
		if !isLittleEndian {
			byteOffset = (n - i - 1)
		}

		value := a.selectByte(NewBinaryExpr(ADD, offset, NewConstantExpr64(byteOffset)))
		if i == 0 {
			result = value
		} else {
			result = NewConcatExpr(value, result)
		}
	}
	return result
}

// selectByte reads a single byte from the array.
//
// Attempts to find a concrete value by traversing the array update history.
// Falls back to a select expression if either the selected index or an update's
// index is symbolic.
func (a *Array) selectByte(index Expr) Expr {
	assert(ExprWidth(index) == 64, "selectByte: invalid array index width: %d", ExprWidth(index))
	for upd := a.Updates; upd != nil; upd = upd.Next {
		cond, ok := NewBinaryExpr(EQ, index, upd.Index).(*ConstantExpr)
		if !ok {
			break // found symbolic index, exit
		} else if cond.IsTrue() {
			return upd.Value
		}
	}
	return NewSelectExpr(a, index)
}

// Store writes a value at an offset. Returns a new copy of the array.
func (a *Array) Store(offset, value Expr, isLittleEndian bool) *Array {
	other := a.Clone()

	offset = newZExtExpr(offset, Width64)

	// Treat bool specially, it is the only non-byte sized write we allow.
	width := ExprWidth(value)
	assert(width > 0, "store: invalid width")
	if width == WidthBool {
		other.storeByte(offset, value)
		return other
	}

	// Otherwise, follow the slow general case.
	for i, n := uint64(0), uint64(width)/8; i != n; i++ {
		byteOffset := i
		if !isLittleEndian {
			byteOffset = (n - i - 1)
		}

		other.storeByte(NewBinaryExpr(ADD, offset, NewConstantExpr64(uint64(byteOffset))), NewExtractExpr(value, uint(i*8), Width8))
	}
	return other
}

// storeByte writes a single byte to the array.
func (a *Array) storeByte(index, value Expr) {
	assert(ExprWidth(index) == 64, "storeByte: invalid array index width: %d", ExprWidth(index))

	// Verify constant is not out of bounds.
	if index, ok := index.(*ConstantExpr); ok {
		assert(index.Value < uint64(a.Size), "storeByte: index out of bounds: %d < %d", index.Value, a.Size)
	}

	// Add update to the head of the chain.
	a.Updates = NewArrayUpdate(index, value, a.Updates)

	// Remove a previous update to the index from the chain. Before the first
	// symbolic index the chain holds at most one update per index, so only a
	// single stale entry can exist.
	if index, ok := index.(*ConstantExpr); ok {
		var stale *ArrayUpdate
		for upd := a.Updates.Next; upd != nil; upd = upd.Next {
			if updIndex, ok := upd.Index.(*ConstantExpr); !ok {
				break // symbolic index
			} else if index.Value == updIndex.Value {
				stale = upd
				break
			}
		}
		if stale == nil {
			return
		}

		// The tail of the chain may be shared with clones of the array, so
		// the nodes ahead of the stale entry are copied rather than relinked
		// in place. Only the freshly allocated head is mutated.
		prev := a.Updates
		for upd := prev.Next; upd != stale; upd = upd.Next {
			prev.Next = &ArrayUpdate{Index: upd.Index, Value: upd.Value, Next: upd.Next}
			prev = prev.Next
		}
		prev.Next = stale.Next
	}
}

// Equal returns an expression which determines if a equals other.
// Arrays of different sizes always return a false expression.
func (a *Array) Equal(other *Array) Expr {
	if a.Size != other.Size {
		return NewBoolConstantExpr(false)
	}

	expr := Expr(NewBoolConstantExpr(true))
	for i := uint(0); i < a.Size; i++ {
		index := NewConstantExpr64(uint64(i))
		expr = newAndExpr(expr, NewBinaryExpr(EQ, a.selectByte(index), other.selectByte(index)))
	}
	return expr
}

// NotEqual returns an expression which determines if a does not equal other.
func (a *Array) NotEqual(other *Array) Expr {
	return NewIsZeroExpr(a.Equal(other))
}

// IsSymbolic returns true if any bytes in the array are symbolic.
func (a *Array) IsSymbolic() bool {
	// Mark all bytes with concrete values.
	bytes := make([]bool, a.Size)
	for upd := a.Updates; upd != nil; upd = upd.Next {
		if index, ok := upd.Index.(*ConstantExpr); !ok {
			return true // found symbolic index
		} else if _, ok := upd.Value.(*ConstantExpr); ok {
			bytes[index.Value] = true // index & value are concrete
		}
	}

	for _, isConcrete := range bytes {
		if !isConcrete {
			return true
		}
	}
	return false
}

// ConcreteBytes returns the concrete value of every byte in the array.
// Returns ok=false if any byte is symbolic.
func (a *Array) ConcreteBytes() ([]byte, bool) {
	buf := make([]byte, a.Size)
	filled := make([]bool, a.Size)
	for upd := a.Updates; upd != nil; upd = upd.Next {
		index, ok := upd.Index.(*ConstantExpr)
		if !ok {
			return nil, false // symbolic index
		}
		value, ok := upd.Value.(*ConstantExpr)
		if !ok {
			return nil, false // symbolic value
		}
		if !filled[index.Value] {
			buf[index.Value] = byte(value.Value)
			filled[index.Value] = true
		}
	}

	for _, ok := range filled {
		if !ok {
			return nil, false
		}
	}
	return buf, true
}

// CompareArray returns an integer comparing two arrays.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareArray(a, b *Array) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if a.ID < b.ID {
		return -1
	} else if a.ID > b.ID {
		return 1
	}

	if a.Size < b.Size {
		return -1
	} else if a.Size > b.Size {
		return 1
	}

	return CompareArrayUpdate(a.Updates, b.Updates)
}

// ArrayUpdate represents a symbolic update to an array.
type ArrayUpdate struct {
	Index Expr // byte index of update
	Value Expr // byte value to update

	Next *ArrayUpdate // linked list of next update
}

// NewArrayUpdate returns a new instance of ArrayUpdate.
func NewArrayUpdate(index, value Expr, next *ArrayUpdate) *ArrayUpdate {
	return &ArrayUpdate{
		Index: newZExtExpr(index, Width64),
		Value: newZExtExpr(value, Width8),
		Next:  next,
	}
}

// CompareArrayUpdate returns an integer comparing two array updates.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareArrayUpdate(a, b *ArrayUpdate) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if cmp := CompareExpr(a.Index, b.Index); cmp != 0 {
		return cmp
	} else if cmp := CompareExpr(a.Value, b.Value); cmp != 0 {
		return cmp
	}
	return CompareArrayUpdate(a.Next, b.Next)
}

// MemoryObject represents a fixed allocation site in the program under
// analysis. Its identity is stable across state forks; the bytes that live at
// the allocation are held separately by an ObjectState.
type MemoryObject struct {
	ID      uint64 // unique allocation id
	Address uint64 // concrete base address
	Size    uint   // size, in bytes

	// True if the object was materialized on first access rather than at an
	// explicit allocation instruction.
	LazyInitialized bool

	// Human-readable allocation site, used in diagnostics.
	Site string
}

// String returns a string representation of the object.
func (mo *MemoryObject) String() string {
	return fmt.Sprintf("(object #%d addr=%#x size=%d)", mo.ID, mo.Address, mo.Size)
}

// BaseExpr returns the base address as a 64-bit constant expression.
func (mo *MemoryObject) BaseExpr() *ConstantExpr {
	return NewConstantExpr64(mo.Address)
}

// BoundsCheckPointer returns an expression that is true iff pointer points
// within the object. A zero-sized object only matches its base address.
func (mo *MemoryObject) BoundsCheckPointer(pointer Expr) Expr {
	pointer = newZExtExpr(pointer, Width64)
	if mo.Size == 0 {
		return NewBinaryExpr(EQ, pointer, mo.BaseExpr())
	}
	lower := NewBinaryExpr(ULE, mo.BaseExpr(), pointer)
	upper := NewBinaryExpr(ULT, pointer, NewConstantExpr64(mo.Address+uint64(mo.Size)))
	return NewBinaryExpr(AND, lower, upper)
}

// ContainsAddress returns true if the concrete address lies within the object.
func (mo *MemoryObject) ContainsAddress(addr uint64) bool {
	if mo.Size == 0 {
		return addr == mo.Address
	}
	return addr >= mo.Address && addr < mo.Address+uint64(mo.Size)
}

// OffsetExpr returns pointer rebased to an offset within the object.
func (mo *MemoryObject) OffsetExpr(pointer Expr) Expr {
	return NewBinaryExpr(SUB, newZExtExpr(pointer, Width64), mo.BaseExpr())
}

// ObjectState holds the byte contents bound to a memory object within one
// address space. States are shared between forked address spaces until a
// write forces a copy.
type ObjectState struct {
	object *MemoryObject
	array  *Array

	readOnly bool

	// Address space epoch that may mutate this state in place.
	copyOnWriteOwner uint32
}

// NewObjectState returns a zero-filled state for the given object.
func NewObjectState(object *MemoryObject, arrayID uint64) *ObjectState {
	array := NewArray(arrayID, object.Size)
	array.zero()
	return &ObjectState{object: object, array: array}
}

// NewSymbolicObjectState returns a state whose bytes are unconstrained
// symbolic values backed by the given array.
func NewSymbolicObjectState(object *MemoryObject, array *Array) *ObjectState {
	assert(array.Size == object.Size, "object state: array size mismatch: %d != %d", array.Size, object.Size)
	return &ObjectState{object: object, array: array}
}

// Object returns the memory object this state is bound to.
func (os *ObjectState) Object() *MemoryObject { return os.object }

// Array returns the backing byte array.
func (os *ObjectState) Array() *Array { return os.array }

// IsReadOnly returns true if writes to the state are forbidden.
func (os *ObjectState) IsReadOnly() bool { return os.readOnly }

// SetReadOnly marks the state read-only.
func (os *ObjectState) SetReadOnly() { os.readOnly = true }

// Clone returns a copy of the state owned by no address space.
func (os *ObjectState) Clone() *ObjectState {
	return &ObjectState{
		object:   os.object,
		array:    os.array.Clone(),
		readOnly: os.readOnly,
	}
}

// Read reads width bits at the given offset expression.
func (os *ObjectState) Read(offset Expr, width uint) Expr {
	return os.array.Select(offset, width, true)
}

// Write writes value at the given offset expression in-place.
// The caller must hold a writable state, see AddressSpace.GetWriteable.
func (os *ObjectState) Write(offset, value Expr) {
	assert(!os.readOnly, "write to read-only object: %s", os.object)
	os.array = os.array.Store(offset, value, true)
}

// IsSymbolic returns true if any byte of the state is symbolic.
func (os *ObjectState) IsSymbolic() bool {
	return os.array.IsSymbolic()
}

// String returns a string representation of the state.
func (os *ObjectState) String() string {
	return fmt.Sprintf("(state %s %s)", os.object, os.array)
}

// MemoryManager hands out non-overlapping concrete address ranges and unique
// allocation ids. One manager is shared by all states of an execution.
type MemoryManager struct {
	nextAddr uint64
	nextID   uint64
}

// Base address of the first allocation. Leaves the null page unmapped.
const memoryBaseAddr = 0x10000

// NewMemoryManager returns a new instance of MemoryManager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{nextAddr: memoryBaseAddr, nextID: 1}
}

// Allocate reserves size bytes and returns the new memory object.
func (mm *MemoryManager) Allocate(size uint, site string) *MemoryObject {
	mo := &MemoryObject{
		ID:      mm.nextID,
		Address: mm.nextAddr,
		Size:    size,
		Site:    site,
	}
	mm.nextID++

	// Keep allocations 8-byte aligned and separated by a guard byte so
	// distinct objects never share addresses.
	mm.nextAddr += (uint64(size) + 8) &^ 7
	return mo
}

// AllocateLazyAt reserves an object based at addr for an address that was
// accessed before any explicit allocation bound it.
func (mm *MemoryManager) AllocateLazyAt(addr uint64, size uint, site string) *MemoryObject {
	mo := &MemoryObject{
		ID:              mm.nextID,
		Address:         addr,
		Size:            size,
		LazyInitialized: true,
		Site:            site,
	}
	mm.nextID++

	// Keep future allocations clear of the materialized range.
	if end := (addr + uint64(size) + 8) &^ 7; end > mm.nextAddr {
		mm.nextAddr = end
	}
	return mo
}

// NextArrayID returns a unique id for a backing array.
func (mm *MemoryManager) NextArrayID() uint64 {
	id := mm.nextID
	mm.nextID++
	return id
}
