package lode

import (
	"fmt"
	"go/token"
	"log"
	"path/filepath"
	"sort"
)

// Location represents a file/line position in the program under analysis.
type Location struct {
	File string
	Line int
}

// String returns the string representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TargetManager maps source locations onto blocks of the program under
// execution and guides the search toward them. Reached targets are retired
// so remaining states stop paying for them.
type TargetManager struct {
	module *Module
	fset   *token.FileSet

	dc       *DistanceCalculator
	searcher *TargetedSearcher

	targets map[*Block]Location // unreached
	reached map[*Block]Location
}

// NewTargetManager returns a manager guiding the given executor.
func NewTargetManager(executor *Executor) *TargetManager {
	dc := NewDistanceCalculator(NewCodeGraphDistance(executor.Module()))
	return &TargetManager{
		module:   executor.Module(),
		fset:     executor.prog.Fset,
		dc:       dc,
		searcher: NewTargetedSearcher(dc),
		targets:  make(map[*Block]Location),
		reached:  make(map[*Block]Location),
	}
}

// Searcher returns the searcher guiding toward the managed targets.
// Assign it to Executor.Searcher before execution.
func (tm *TargetManager) Searcher() *TargetedSearcher { return tm.searcher }

// DistanceCalculator returns the underlying calculator.
func (tm *TargetManager) DistanceCalculator() *DistanceCalculator { return tm.dc }

// AddLocation resolves a source location to a block and adds it as a target.
// Returns an error if no block covers the location.
func (tm *TargetManager) AddLocation(loc Location) error {
	kb, ok := tm.resolveBlock(loc)
	if !ok {
		return fmt.Errorf("lode: no block found for target %s", loc)
	}
	tm.AddTarget(kb, loc)
	return nil
}

// AddTarget adds a block as a target with its originating location.
func (tm *TargetManager) AddTarget(kb *Block, loc Location) {
	if _, ok := tm.targets[kb]; ok {
		return
	}
	tm.targets[kb] = loc
	tm.searcher.AddTarget(kb)
}

// Update checks every block the state executed against the remaining
// targets. Returns the locations newly reached by the state, if any,
// sorted for stable output.
func (tm *TargetManager) Update(state *ExecutionState) []Location {
	var reached []Location
	for kb, loc := range tm.targets {
		if !state.HasCovered(kb) {
			continue
		}

		// Retire the target and drop its cached distances.
		log.Printf("[target] reached %s by state#%d", loc, state.ID())
		delete(tm.targets, kb)
		tm.reached[kb] = loc
		tm.searcher.RemoveTarget(kb)
		reached = append(reached, loc)
	}
	tm.searcher.RemoveState(state)

	sort.Slice(reached, func(i, j int) bool {
		if reached[i].File != reached[j].File {
			return reached[i].File < reached[j].File
		}
		return reached[i].Line < reached[j].Line
	})
	return reached
}

// Done returns true once every target has been reached.
func (tm *TargetManager) Done() bool { return len(tm.targets) == 0 }

// Remaining returns the unreached locations, sorted for stable output.
func (tm *TargetManager) Remaining() []Location {
	a := make([]Location, 0, len(tm.targets))
	for _, loc := range tm.targets {
		a = append(a, loc)
	}
	sort.Slice(a, func(i, j int) bool {
		if a[i].File != a[j].File {
			return a[i].File < a[j].File
		}
		return a[i].Line < a[j].Line
	})
	return a
}

// Reached returns the reached locations, sorted for stable output.
func (tm *TargetManager) Reached() []Location {
	a := make([]Location, 0, len(tm.reached))
	for _, loc := range tm.reached {
		a = append(a, loc)
	}
	sort.Slice(a, func(i, j int) bool {
		if a[i].File != a[j].File {
			return a[i].File < a[j].File
		}
		return a[i].Line < a[j].Line
	})
	return a
}

// resolveBlock returns the first block containing an instruction at the
// given location. File paths are matched by base name so configs can refer
// to files without the full module path.
func (tm *TargetManager) resolveBlock(loc Location) (*Block, bool) {
	base := filepath.Base(loc.File)
	for _, fn := range tm.module.Functions {
		for _, kb := range fn.Blocks {
			sb := kb.SSA()
			if sb == nil {
				continue
			}
			for _, instr := range sb.Instrs {
				pos := tm.fset.Position(instr.Pos())
				if !pos.IsValid() {
					continue
				}
				if pos.Line == loc.Line && filepath.Base(pos.Filename) == base {
					return kb, true
				}
			}
		}
	}
	return nil, false
}
