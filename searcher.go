package lode

import (
	"math/rand"
)

// Searcher represents a strategy for finding the next execution state to execute.
type Searcher interface {
	// Returns the next state to explore.
	SelectState() *ExecutionState

	// Adds states to the current searcher.
	AddState(state *ExecutionState)
}

var _ Searcher = (*MultiSearcher)(nil)

// MultiSearcher represents a Searcher that chooses a searcher round-robin.
type MultiSearcher struct {
	searchers []Searcher
	index     int
}

// NewMultiSearcher returns a new instance of MultiSearcher.
func NewMultiSearcher(searchers ...Searcher) *MultiSearcher {
	return &MultiSearcher{searchers: searchers}
}

// SelectState returns the next state to explore from the next searcher.
func (s *MultiSearcher) SelectState() *ExecutionState {
	searcher := s.searchers[s.index]
	if s.index++; s.index >= len(s.searchers) {
		s.index = 0
	}
	return searcher.SelectState()
}

// AddState adds a new state to the searcher.
func (s *MultiSearcher) AddState(state *ExecutionState) {
	for _, searcher := range s.searchers {
		searcher.AddState(state)
	}
}

// DFSSearcher represents a searcher with a depth-first search strategy.
type DFSSearcher struct {
	states []*ExecutionState
}

// NewDFSSearcher returns a new instance of DFSSearcher.
func NewDFSSearcher() *DFSSearcher {
	return &DFSSearcher{}
}

// SelectState returns the next execution state to explore.
func (s *DFSSearcher) SelectState() *ExecutionState {
	if len(s.states) == 0 {
		return nil
	}
	state := s.states[len(s.states)-1]
	s.states = s.states[:len(s.states)-1]
	return state
}

// AddState adds a new state to the searcher.
func (s *DFSSearcher) AddState(state *ExecutionState) {
	s.states = append(s.states, state)
}

// BFSSearcher represents a searcher with a breadth-first search strategy.
type BFSSearcher struct {
	states []*ExecutionState
}

// NewBFSSearcher returns a new instance of BFSSearcher.
func NewBFSSearcher() *BFSSearcher {
	return &BFSSearcher{}
}

// SelectState returns the next execution state to explore.
func (s *BFSSearcher) SelectState() *ExecutionState {
	if len(s.states) == 0 {
		return nil
	}
	state := s.states[0]
	s.states = s.states[1:]
	return state
}

// AddState adds a new state to the searcher.
func (s *BFSSearcher) AddState(state *ExecutionState) {
	s.states = append(s.states, state)
}

type RandomSearcher struct {
	states []*ExecutionState
	rand   *rand.Rand
}

func NewRandomSearcher(rand *rand.Rand) *RandomSearcher {
	return &RandomSearcher{
		rand: rand,
	}
}

// SelectState returns a random execution state to explore.
func (s *RandomSearcher) SelectState() *ExecutionState {
	if len(s.states) == 0 {
		return nil
	}
	i := s.rand.Intn(len(s.states))
	state := s.states[i]
	s.states = append(s.states[:i], s.states[i+1:]...)
	return state
}

// AddState adds a new state to the searcher.
func (s *RandomSearcher) AddState(state *ExecutionState) {
	s.states = append(s.states, state)
}

// RandomPathSearcher randomly selects a path from the executor's state tree.
type RandomPathSearcher struct {
	executor *Executor
	rand     *rand.Rand
}

// NewRandomPathSearcher returns a new instance of RandomPathSearcher.
func NewRandomPathSearcher(executor *Executor, rand *rand.Rand) *RandomPathSearcher {
	return &RandomPathSearcher{
		executor: executor,
		rand:     rand,
	}
}

// SelectState returns a random leaf execution state from the executor.
func (s *RandomPathSearcher) SelectState() *ExecutionState {
	state := s.executor.root
	if state == nil {
		return nil
	}

	for {
		// Return if leaf node.
		if len(state.children) == 0 {
			return state
		}

		// Otherwise randomly choose child.
		state = state.children[s.rand.Intn(len(state.children))]
	}
}

// AddState is a no-op. Searcher finds states from the executor.
func (s *RandomPathSearcher) AddState(state *ExecutionState) {}

var _ Searcher = (*TargetedSearcher)(nil)

// TargetedSearcher represents a searcher that prefers states closest to a
// set of target blocks, scored by a DistanceCalculator.
type TargetedSearcher struct {
	dc      *DistanceCalculator
	targets []*Block
	states  []*ExecutionState

	// Live states still working toward each target. A target that loses its
	// last live state has its cached distances dropped.
	localStates map[*Block]map[*ExecutionState]struct{}
}

// NewTargetedSearcher returns a new instance of TargetedSearcher.
func NewTargetedSearcher(dc *DistanceCalculator, targets ...*Block) *TargetedSearcher {
	s := &TargetedSearcher{
		dc:          dc,
		localStates: make(map[*Block]map[*ExecutionState]struct{}),
	}
	for _, target := range targets {
		s.AddTarget(target)
	}
	return s
}

// Targets returns the remaining target blocks.
func (s *TargetedSearcher) Targets() []*Block { return s.targets }

// AddTarget adds a target block to guide toward.
func (s *TargetedSearcher) AddTarget(target *Block) {
	s.targets = append(s.targets, target)

	set := make(map[*ExecutionState]struct{}, len(s.states))
	for _, state := range s.states {
		set[state] = struct{}{}
	}
	s.localStates[target] = set
}

// RemoveTarget drops a target and evicts its cached distances.
func (s *TargetedSearcher) RemoveTarget(target *Block) {
	for i, t := range s.targets {
		if t == target {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
			break
		}
	}
	delete(s.localStates, target)
	s.dc.EvictTarget(target)
}

// RemoveState drops a finished state. Targets left with no live state keep
// guiding future states but give up their cached distances.
func (s *TargetedSearcher) RemoveState(state *ExecutionState) {
	for target, set := range s.localStates {
		if _, ok := set[state]; !ok {
			continue
		}
		delete(set, state)
		if len(set) == 0 {
			s.dc.EvictTarget(target)
		}
	}
}

// SelectState returns the state with the best distance score. States that
// miss every target are selected last, in insertion order.
func (s *TargetedSearcher) SelectState() *ExecutionState {
	if len(s.states) == 0 {
		return nil
	}

	best, bestResult := 0, s.score(s.states[0])
	for i := 1; i < len(s.states); i++ {
		if r := s.score(s.states[i]); r.Less(bestResult) {
			best, bestResult = i, r
		}
	}

	state := s.states[best]
	s.states = append(s.states[:best], s.states[best+1:]...)
	return state
}

// AddState adds a new state to the searcher.
func (s *TargetedSearcher) AddState(state *ExecutionState) {
	s.states = append(s.states, state)
	for _, set := range s.localStates {
		set[state] = struct{}{}
	}
}

// score returns the best distance result over all remaining targets.
func (s *TargetedSearcher) score(state *ExecutionState) DistanceResult {
	result := DistanceResult{Result: WeightMiss}
	for i, target := range s.targets {
		if r := s.dc.GetDistance(state, target); i == 0 || r.Less(result) {
			result = r
		}
	}
	return result
}
