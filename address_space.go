package lode

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/benbjohnson/immutable"
)

// ObjectPair joins a memory object with the byte state bound to it in one
// address space.
type ObjectPair struct {
	Object *MemoryObject
	State  *ObjectState
}

// ResolutionList is the set of objects a symbolic pointer may refer to.
type ResolutionList []ObjectPair

// checkPointerInObject results.
const (
	checkSingleObject = 0 // pointer provably resolves to this object alone
	checkIncomplete   = 1 // resolution stopped early, list may be partial
	checkContinue     = 2 // keep scanning remaining objects
)

// AddressSpace maps concrete base addresses to object states. Forked spaces
// share unmodified states and copy them on first write, tracked by an
// ownership epoch.
type AddressSpace struct {
	// Epoch stamped onto object states this space may mutate in place.
	cowKey uint32

	// Base address to *ObjectState, sorted for containment lookups.
	objects *immutable.SortedMap
}

// NewAddressSpace returns an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{
		cowKey:  1,
		objects: immutable.NewSortedMap(&uint64Comparer{}),
	}
}

// Fork returns a copy of the address space sharing all object states.
// Both the parent and the child move to fresh epochs so neither can write
// through states bound before the fork.
func (as *AddressSpace) Fork() *AddressSpace {
	as.cowKey++
	return &AddressSpace{
		cowKey:  as.cowKey,
		objects: as.objects,
	}
}

// NumObjects returns the number of bound objects.
func (as *AddressSpace) NumObjects() int {
	return as.objects.Len()
}

// BindObject binds state to the given object, replacing any previous binding.
// The state must not already be owned by another space.
func (as *AddressSpace) BindObject(mo *MemoryObject, state *ObjectState) {
	assert(state.copyOnWriteOwner == 0, "bind: object state already owned: cowKey=%d", state.copyOnWriteOwner)
	state.copyOnWriteOwner = as.cowKey
	state.object = mo
	as.objects = as.objects.Set(mo.Address, state)
}

// UnbindObject removes the binding for the given object, if any.
func (as *AddressSpace) UnbindObject(mo *MemoryObject) {
	as.objects = as.objects.Delete(mo.Address)
}

// FindObject returns the state bound to the given object, or nil.
func (as *AddressSpace) FindObject(mo *MemoryObject) *ObjectState {
	if value, _ := as.objects.Get(mo.Address); value != nil {
		return value.(*ObjectState)
	}
	return nil
}

// GetWriteable returns a state for mo that this space may mutate in place.
// Shared states are cloned and rebound; exclusively owned states are
// returned as-is.
func (as *AddressSpace) GetWriteable(mo *MemoryObject, state *ObjectState) *ObjectState {
	if state.copyOnWriteOwner == as.cowKey {
		return state
	}

	other := state.Clone()
	other.copyOnWriteOwner = as.cowKey
	as.objects = as.objects.Set(mo.Address, other)
	return other
}

// ResolveExact returns the object containing the concrete address, if any.
func (as *AddressSpace) ResolveExact(addr uint64) (ObjectPair, bool) {
	// Seek to the given address or the next bound address.
	itr := as.objects.Iterator()
	if itr.Seek(addr); itr.Done() {
		itr.Last()
	}

	// Move backwards until address range too low.
	for !itr.Done() {
		k, v := itr.Prev()
		if k == nil {
			break
		}
		state := v.(*ObjectState)
		if state.object.ContainsAddress(addr) {
			return ObjectPair{Object: state.object, State: state}, true
		} else if k.(uint64)+uint64(state.object.Size) < addr {
			break
		}
	}
	return ObjectPair{}, false
}

// checkPointerInObject tests whether pointer may refer to pair's object under
// the given path constraints and, if so, appends it to rl.
//
// Returns checkSingleObject if the pointer provably refers to this object and
// nothing else, checkIncomplete if resolution must stop early, or
// checkContinue if the scan should move on to the next object.
func (as *AddressSpace) checkPointerInObject(ctx context.Context, solver *TimingSolver, constraints []Expr, pointer Expr, pair ObjectPair, rl *ResolutionList, maxResolutions int) (int, error) {
	inBounds := pair.Object.BoundsCheckPointer(pointer)

	mayBeTrue, err := solver.MayBeTrue(ctx, constraints, inBounds)
	if err != nil {
		return checkIncomplete, err
	}
	if !mayBeTrue {
		return checkContinue, nil
	}

	*rl = append(*rl, pair)

	// If this is the first match, check if the pointer can only refer here.
	if len(*rl) == 1 {
		mustBeTrue, err := solver.MustBeTrue(ctx, constraints, inBounds)
		if err != nil {
			return checkIncomplete, err
		} else if mustBeTrue {
			return checkSingleObject, nil
		}
	}

	if maxResolutions > 0 && len(*rl) >= maxResolutions {
		return checkIncomplete, nil
	}
	return checkContinue, nil
}

// ResolveOne returns one object the pointer may refer to under the given
// constraints. Returns ok=false if the pointer cannot refer to any bound
// object or the solver could not decide.
func (as *AddressSpace) ResolveOne(ctx context.Context, solver *TimingSolver, constraints []Expr, pointer Expr) (ObjectPair, bool, error) {
	if pointer, ok := pointer.(*ConstantExpr); ok {
		pair, found := as.ResolveExact(pointer.Value)
		return pair, found, nil
	}

	itr := as.objects.Iterator()
	for {
		_, v := itr.Next()
		if v == nil {
			break
		}
		state := v.(*ObjectState)

		mayBeTrue, err := solver.MayBeTrue(ctx, constraints, state.object.BoundsCheckPointer(pointer))
		if err != nil {
			return ObjectPair{}, false, err
		} else if mayBeTrue {
			return ObjectPair{Object: state.object, State: state}, true, nil
		}
	}
	return ObjectPair{}, false, nil
}

// ResolveOneIfUnique returns the single object the pointer may refer to.
// Returns ok=false if the pointer may refer to zero or multiple objects, or
// if the solver could not decide.
func (as *AddressSpace) ResolveOneIfUnique(ctx context.Context, solver *TimingSolver, constraints []Expr, pointer Expr) (ObjectPair, bool, error) {
	if pointer, ok := pointer.(*ConstantExpr); ok {
		pair, found := as.ResolveExact(pointer.Value)
		return pair, found, nil
	}

	var match ObjectPair
	var found bool

	itr := as.objects.Iterator()
	for {
		_, v := itr.Next()
		if v == nil {
			break
		}
		state := v.(*ObjectState)

		mayBeTrue, err := solver.MayBeTrue(ctx, constraints, state.object.BoundsCheckPointer(pointer))
		if err != nil {
			return ObjectPair{}, false, err
		} else if !mayBeTrue {
			continue
		}

		if found {
			return ObjectPair{}, false, nil // second candidate, not unique
		}
		match, found = ObjectPair{Object: state.object, State: state}, true
	}
	return match, found, nil
}

// Resolve returns every object the pointer may refer to under the given
// constraints, in ascending address order.
//
// At most maxResolutions objects are returned when maxResolutions is
// positive. The incomplete flag reports that the list may be missing
// candidates because the resolution budget, the timeout, or the context was
// exhausted.
func (as *AddressSpace) Resolve(ctx context.Context, solver *TimingSolver, constraints []Expr, pointer Expr, maxResolutions int, timeout time.Duration) (rl ResolutionList, incomplete bool, err error) {
	if pointer, ok := pointer.(*ConstantExpr); ok {
		if pair, found := as.ResolveExact(pointer.Value); found {
			rl = append(rl, pair)
		}
		return rl, false, nil
	}

	start := time.Now()

	itr := as.objects.Iterator()
	for {
		_, v := itr.Next()
		if v == nil {
			break
		}
		state := v.(*ObjectState)
		pair := ObjectPair{Object: state.object, State: state}

		if err := ctx.Err(); err != nil {
			return rl, true, nil
		}
		if timeout > 0 && time.Since(start) > timeout {
			return rl, true, nil
		}

		switch ret, err := as.checkPointerInObject(ctx, solver, constraints, pointer, pair, &rl, maxResolutions); {
		case err != nil:
			return rl, true, err
		case ret == checkSingleObject:
			return rl, false, nil
		case ret == checkIncomplete:
			log.Printf("[resolve] incomplete after %d object(s)", len(rl))
			return rl, true, nil
		}
	}
	return rl, false, nil
}

// LazyInitializeObject binds an unconstrained symbolic object of the given
// size based at addr for a pointer that escaped explicit allocation.
func (as *AddressSpace) LazyInitializeObject(mm *MemoryManager, addr uint64, size uint, site string) ObjectPair {
	mo := mm.AllocateLazyAt(addr, size, site)
	array := NewArray(mm.NextArrayID(), size)
	state := NewSymbolicObjectState(mo, array)
	as.BindObject(mo, state)
	log.Printf("[resolve] lazy object: %s", mo)
	return ObjectPair{Object: mo, State: state}
}

// FindOrLazyInitializeObject returns the object containing the concrete
// address, materializing a fresh symbolic object there when none is bound.
func (as *AddressSpace) FindOrLazyInitializeObject(mm *MemoryManager, addr uint64, size uint, site string) ObjectPair {
	if pair, found := as.ResolveExact(addr); found {
		return pair
	}
	return as.LazyInitializeObject(mm, addr, size, site)
}

// CopyOutConcretes writes the contents of every fully concrete object state
// into the concrete store.
func (as *AddressSpace) CopyOutConcretes(cm *ConcreteMemory) {
	itr := as.objects.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return
		}
		as.CopyOutConcrete(cm, v.(*ObjectState))
	}
}

// CopyOutConcrete writes a single object state into the concrete store if its
// contents are fully concrete.
func (as *AddressSpace) CopyOutConcrete(cm *ConcreteMemory, state *ObjectState) {
	if buf, ok := state.array.ConcreteBytes(); ok {
		cm.Write(state.object.Address, buf)
	}
}

// CopyInConcretes reads every fully concrete object back from the concrete
// store, picking up external modifications.
//
// Returns false if an externally modified object is marked read-only; the
// address space is left unchanged past that object.
func (as *AddressSpace) CopyInConcretes(cm *ConcreteMemory) bool {
	itr := as.objects.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return true
		}
		if !as.CopyInConcrete(cm, v.(*ObjectState)) {
			return false
		}
	}
}

// CopyInConcrete reads a single object back from the concrete store. Returns
// false if the object was externally modified but is marked read-only.
func (as *AddressSpace) CopyInConcrete(cm *ConcreteMemory, state *ObjectState) bool {
	prev, ok := state.array.ConcreteBytes()
	if !ok {
		return true // symbolic objects are not externalized
	}

	buf, ok := cm.Read(state.object.Address, state.object.Size)
	if !ok || bytes.Equal(prev, buf) {
		return true
	}
	if state.IsReadOnly() {
		return false
	}

	wos := as.GetWriteable(state.object, state)
	for i, b := range buf {
		wos.Write(NewConstantExpr64(uint64(i)), NewConstantExpr(uint64(b), 8))
	}
	return true
}

// Dump returns a human-readable listing of all bound objects.
func (as *AddressSpace) Dump() string {
	var buf bytes.Buffer
	itr := as.objects.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return buf.String()
		}
		fmt.Fprintf(&buf, "%#x: %s\n", k.(uint64), v.(*ObjectState))
	}
}

// uint64Comparer compares two 64-bit unsigned integers. Implements immutable.Comparer.
type uint64Comparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not a uint64.
func (c *uint64Comparer) Compare(a, b interface{}) int {
	if i, j := a.(uint64), b.(uint64); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}

// ConcreteMemory is a flat store of concrete bytes shared with execution
// outside the symbolic engine, such as calls into external code.
type ConcreteMemory struct {
	m map[uint64][]byte
}

// NewConcreteMemory returns an empty concrete store.
func NewConcreteMemory() *ConcreteMemory {
	return &ConcreteMemory{m: make(map[uint64][]byte)}
}

// Write stores buf at the given base address.
func (cm *ConcreteMemory) Write(addr uint64, buf []byte) {
	b := make([]byte, len(buf))
	copy(b, buf)
	cm.m[addr] = b
}

// Read returns size bytes at the given base address.
func (cm *ConcreteMemory) Read(addr uint64, size uint) ([]byte, bool) {
	buf, ok := cm.m[addr]
	if !ok || uint(len(buf)) != size {
		return nil, false
	}
	b := make([]byte, len(buf))
	copy(b, buf)
	return b, true
}
