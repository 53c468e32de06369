package lode

import (
	"context"
	"time"
)

// Solver represents a logical constraint solver.
type Solver interface {
	// Returns the satisfiability of the set of constraints. If the formula
	// is satisfiable, a valid value is returned for each array passed in.
	Solve(constraints []Expr, arrays []*Array) (satisfiable bool, values [][]byte, err error)
}

// SolverStats tracks aggregate query counts and time.
type SolverStats struct {
	QueryN    int
	QueryTime time.Duration
}

// TimingSolver wraps a solver with validity queries, context cancellation,
// and query time accounting. Pointer resolution and branch feasibility
// checks go through it.
type TimingSolver struct {
	solver Solver
	stats  SolverStats
}

// NewTimingSolver returns a new instance of TimingSolver wrapping solver.
func NewTimingSolver(solver Solver) *TimingSolver {
	return &TimingSolver{solver: solver}
}

// Stats returns accumulated query statistics.
func (s *TimingSolver) Stats() SolverStats {
	return s.stats
}

// Solve passes a satisfiability query through to the underlying solver.
func (s *TimingSolver) Solve(ctx context.Context, constraints []Expr, arrays []*Array) (bool, [][]byte, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, ErrSolverCanceled
	}

	t := time.Now()
	defer func() {
		s.stats.QueryN++
		s.stats.QueryTime += time.Since(t)
	}()

	return s.solver.Solve(constraints, arrays)
}

// MayBeTrue returns true if expr can be true under the given constraints.
func (s *TimingSolver) MayBeTrue(ctx context.Context, constraints []Expr, expr Expr) (bool, error) {
	if expr, ok := expr.(*ConstantExpr); ok {
		return expr.IsTrue(), nil
	}

	all := make([]Expr, 0, len(constraints)+1)
	all = append(all, constraints...)
	all = append(all, expr)

	satisfiable, _, err := s.Solve(ctx, all, nil)
	if err != nil {
		return false, err
	}
	return satisfiable, nil
}

// MustBeTrue returns true if expr holds under every satisfying assignment of
// the given constraints.
func (s *TimingSolver) MustBeTrue(ctx context.Context, constraints []Expr, expr Expr) (bool, error) {
	mayBeFalse, err := s.MayBeTrue(ctx, constraints, NewIsZeroExpr(expr))
	if err != nil {
		return false, err
	}
	return !mayBeFalse, nil
}

// MustBeFalse returns true if expr is false under every satisfying
// assignment of the given constraints.
func (s *TimingSolver) MustBeFalse(ctx context.Context, constraints []Expr, expr Expr) (bool, error) {
	return s.MustBeTrue(ctx, constraints, NewIsZeroExpr(expr))
}

// ExhaustiveSolver decides satisfiability by enumerating every assignment of
// the symbolic arrays referenced by the constraints. Only usable for small
// formulas, primarily in tests and for states with one or two symbolic bytes.
type ExhaustiveSolver struct {
	// Maximum number of assignments to try before giving up.
	MaxAssignments uint64
}

// DefaultMaxAssignments supports formulas over up to two symbolic bytes.
const DefaultMaxAssignments = 1 << 16

// NewExhaustiveSolver returns a new instance of ExhaustiveSolver.
func NewExhaustiveSolver() *ExhaustiveSolver {
	return &ExhaustiveSolver{MaxAssignments: DefaultMaxAssignments}
}

// Ensure solver implements interface.
var _ Solver = (*ExhaustiveSolver)(nil)

// Solve enumerates assignments of all arrays referenced by the constraints.
// Returns ErrSolverResourceLimit if the search space exceeds MaxAssignments.
func (s *ExhaustiveSolver) Solve(constraints []Expr, arrays []*Array) (bool, [][]byte, error) {
	searched := FindArrays(constraints...)

	// Total bytes across all searched arrays bounds the search space.
	var n uint
	for _, array := range searched {
		n += array.Size
	}

	max := s.MaxAssignments
	if max == 0 {
		max = DefaultMaxAssignments
	}
	if n >= 8 || (n > 0 && uint64(1)<<(8*n) > max) {
		return false, nil, ErrSolverResourceLimit
	}

	total := uint64(1) << (8 * n)
	buf := make([]byte, n)
	for assignment := uint64(0); assignment < total; assignment++ {
		// Distribute assignment bytes across the searched arrays.
		for i := range buf {
			buf[i] = byte(assignment >> (8 * uint(i)))
		}

		values, off := make([][]byte, len(searched)), uint(0)
		for i, array := range searched {
			values[i] = buf[off : off+array.Size]
			off += array.Size
		}

		ok, err := s.evaluate(constraints, searched, values)
		if err != nil {
			return false, nil, err
		} else if ok {
			return true, s.bindValues(arrays, searched, values), nil
		}
	}
	return false, nil, nil
}

// evaluate returns true if every constraint holds under the assignment.
func (s *ExhaustiveSolver) evaluate(constraints []Expr, arrays []*Array, values [][]byte) (bool, error) {
	ee := NewExprEvaluator(arrays, values)
	for _, constraint := range constraints {
		result, err := ee.Evaluate(constraint)
		if err != nil {
			return false, err
		} else if result.Value == 0 {
			return false, nil
		}
	}
	return true, nil
}

// bindValues returns the satisfying value of each requested array.
// Arrays not mentioned by the constraints are unconstrained and zero-filled.
func (s *ExhaustiveSolver) bindValues(arrays, searched []*Array, values [][]byte) [][]byte {
	out := make([][]byte, len(arrays))
	for i, array := range arrays {
		var found []byte
		for j, other := range searched {
			if other.ID == array.ID {
				found = values[j]
				break
			}
		}
		if found == nil {
			found = make([]byte, array.Size)
		}

		out[i] = make([]byte, len(found))
		copy(out[i], found)
	}
	return out
}
