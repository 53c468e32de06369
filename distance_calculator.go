package lode

import (
	"fmt"
)

// WeightResult classifies the outcome of a distance query.
type WeightResult uint8

const (
	// WeightDone means the target block has been reached.
	WeightDone WeightResult = iota

	// WeightContinue carries a positive finite weight toward the target.
	WeightContinue

	// WeightMiss means the target is unreachable from here.
	WeightMiss
)

// String returns the string representation of the result.
func (r WeightResult) String() string {
	switch r {
	case WeightDone:
		return "done"
	case WeightContinue:
		return "continue"
	case WeightMiss:
		return "miss"
	default:
		return fmt.Sprintf("WeightResult<%d>", uint8(r))
	}
}

// DistanceResult scores how close a program location is to a target.
type DistanceResult struct {
	Result WeightResult
	Weight uint

	// True if the scored location is inside the target's own function.
	// Used as a scheduling tie-break.
	IsInsideFunction bool
}

// Less orders results: done first, then smaller continue weights, miss last.
// Among equal weights a location inside the target function ranks first.
func (r DistanceResult) Less(other DistanceResult) bool {
	if r.Result != other.Result {
		return r.Result < other.Result
	}
	if r.Weight != other.Weight {
		return r.Weight < other.Weight
	}
	return r.IsInsideFunction && !other.IsInsideFunction
}

// String returns the string representation of the result.
func (r DistanceResult) String() string {
	return fmt.Sprintf("(%s %d inside=%v)", r.Result, r.Weight, r.IsInsideFunction)
}

// TargetKind describes a block's relationship to the search target along a
// call path. The set is closed, one weight function exists per kind.
type TargetKind uint8

const (
	localTarget TargetKind = iota // target in the same function
	preTarget                     // target in a function reachable by calls
	postTarget                    // target reachable only after returning
	noneTarget                    // unreachable
)

// speculativeState is the memoization key for one distance computation.
// It is state-independent: every execution state at the same block with the
// same role gets the same result for a target.
type speculativeState struct {
	kb   *Block
	kind TargetKind
}

// DistanceCalculator scores execution states against target blocks by
// combining block-graph and call-graph reachability. Results are memoized
// per target and never mutated, only inserted.
type DistanceCalculator struct {
	cgd *CodeGraphDistance

	cache map[*Block]map[speculativeState]DistanceResult
}

// NewDistanceCalculator returns a new calculator over the given code graph.
func NewDistanceCalculator(cgd *CodeGraphDistance) *DistanceCalculator {
	return &DistanceCalculator{
		cgd:   cgd,
		cache: make(map[*Block]map[speculativeState]DistanceResult),
	}
}

// GetDistance scores the state's current location against the target block.
func (dc *DistanceCalculator) GetDistance(state *ExecutionState, target *Block) DistanceResult {
	return dc.GetDistanceAt(state.PCBlock(), state.CallSiteBlocks(), target)
}

// GetDistanceAt scores an arbitrary location. callSites holds the call site
// block of every suspended frame, innermost caller first.
func (dc *DistanceCalculator) GetDistanceAt(kb *Block, callSites []*Block, target *Block) DistanceResult {
	if kb == nil {
		return DistanceResult{Result: WeightMiss}
	}
	kind := dc.classify(kb, callSites, target)
	return dc.getDistance(kb, kind, target)
}

// EvictTarget drops every cached result for the target. Called when no live
// state is interested in it anymore; eviction is memory hygiene only.
func (dc *DistanceCalculator) EvictTarget(target *Block) {
	delete(dc.cache, target)
}

// CachedTargets returns the number of targets with cached results.
func (dc *DistanceCalculator) CachedTargets() int {
	return len(dc.cache)
}

// classify determines the block's role relative to the target.
func (dc *DistanceCalculator) classify(kb *Block, callSites []*Block, target *Block) TargetKind {
	if kb.Parent == target.Parent {
		return localTarget
	}

	distToTargetFn := dc.cgd.DistanceToFunction(target.Parent)
	if _, ok := distToTargetFn[kb.Parent]; ok {
		return preTarget
	}

	// Walk the call stack outward: the target may become reachable again
	// after returning into a caller.
	for _, site := range callSites {
		if site == nil {
			continue
		}
		if site.Parent == target.Parent {
			return postTarget
		}
		if _, ok := distToTargetFn[site.Parent]; ok {
			return postTarget
		}
	}
	return noneTarget
}

// getDistance memoizes computeDistance per (target, block, kind).
func (dc *DistanceCalculator) getDistance(kb *Block, kind TargetKind, target *Block) DistanceResult {
	byState, ok := dc.cache[target]
	if !ok {
		byState = make(map[speculativeState]DistanceResult)
		dc.cache[target] = byState
	}

	key := speculativeState{kb: kb, kind: kind}
	if result, ok := byState[key]; ok {
		return result
	}

	result := dc.computeDistance(kb, kind, target)
	byState[key] = result
	return result
}

// computeDistance dispatches to the weight function for the block's role.
func (dc *DistanceCalculator) computeDistance(kb *Block, kind TargetKind, target *Block) DistanceResult {
	switch kind {
	case localTarget:
		if weight, ok := dc.tryGetTargetWeight(kb, target); ok {
			return DistanceResult{Result: WeightDone, Weight: weight, IsInsideFunction: true}
		}
		if weight, ok := dc.tryGetLocalWeight(kb, target); ok {
			return DistanceResult{Result: WeightContinue, Weight: weight, IsInsideFunction: true}
		}
		return DistanceResult{Result: WeightMiss, IsInsideFunction: true}

	case preTarget:
		if weight, ok := dc.tryGetPreTargetWeight(kb, target); ok {
			return DistanceResult{Result: WeightContinue, Weight: weight}
		}
		return DistanceResult{Result: WeightMiss}

	case postTarget:
		if weight, ok := dc.tryGetPostTargetWeight(kb, target); ok {
			return DistanceResult{Result: WeightContinue, Weight: weight}
		}
		return DistanceResult{Result: WeightMiss}

	default:
		return DistanceResult{Result: WeightMiss}
	}
}

// tryGetTargetWeight matches the block against the target itself.
func (dc *DistanceCalculator) tryGetTargetWeight(kb, target *Block) (uint, bool) {
	if kb == target {
		return 0, true
	}
	return 0, false
}

// tryGetLocalWeight returns the block-graph distance to the target within
// the shared function.
func (dc *DistanceCalculator) tryGetLocalWeight(kb, target *Block) (uint, bool) {
	dist := dc.cgd.Distance(kb)
	weight, ok := dist[target]
	return weight, ok
}

// tryGetPreTargetWeight returns the call-graph distance from the block's
// function to the target's function through a call site reachable from kb.
func (dc *DistanceCalculator) tryGetPreTargetWeight(kb, target *Block) (uint, bool) {
	distToTargetFn := dc.cgd.DistanceToFunction(target.Parent)
	return dc.distanceInCallGraph(kb.Parent, kb, distToTargetFn, target, false)
}

// tryGetPostTargetWeight walks outward: the weight is the distance to leave
// the current function plus the best distance from any caller's call site,
// counting only code strictly after the call.
func (dc *DistanceCalculator) tryGetPostTargetWeight(kb, target *Block) (uint, bool) {
	dist := dc.cgd.Distance(kb)

	// Distance to the nearest function exit.
	exitWeight, found := uint(0), false
	for _, exit := range kb.Parent.ExitBlocks() {
		if d, ok := dist[exit]; ok && (!found || d < exitWeight) {
			exitWeight, found = d, true
		}
	}
	if !found {
		return 0, false
	}

	distToTargetFn := dc.cgd.DistanceToFunction(target.Parent)

	best, found := uint(0), false
	for _, site := range dc.cgd.CallerBlocks(kb.Parent) {
		if d, ok := dc.distanceInCallGraph(site.Parent, site, distToTargetFn, target, true); ok {
			if !found || d < best {
				best, found = d, true
			}
		}
	}
	if !found {
		return 0, false
	}
	return exitWeight + 1 + best, true
}

// distanceInCallGraph finds the fewest call-graph hops from kb's position in
// fn to the target. With strictlyAfterKB only blocks reachable after leaving
// kb count, excluding kb's own call sites.
func (dc *DistanceCalculator) distanceInCallGraph(fn *Function, kb *Block, distToTargetFn map[*Function]uint, target *Block, strictlyAfterKB bool) (uint, bool) {
	var dist map[*Block]uint
	if !strictlyAfterKB {
		dist = dc.cgd.Distance(kb)
	} else {
		// Merge the successors' distance maps, shifted by the edge.
		dist = make(map[*Block]uint)
		for _, succ := range kb.Succs {
			for b, d := range dc.cgd.Distance(succ) {
				if cur, ok := dist[b]; !ok || d+1 < cur {
					dist[b] = d + 1
				}
			}
		}
	}

	// The target function itself reached locally counts as zero hops.
	if fn == target.Parent {
		if _, ok := dist[target]; ok {
			return 0, true
		}
	}

	best, found := uint(0), false
	for _, b := range fn.Blocks {
		if _, ok := dist[b]; !ok {
			continue
		}
		for _, callee := range b.Calls {
			if d, ok := distToTargetFn[callee]; ok {
				if !found || d+1 < best {
					best, found = d+1, true
				}
			}
		}
	}
	return best, found
}
