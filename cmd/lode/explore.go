package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/lodesym/lode"
	"github.com/lodesym/lode/z3"
)

// ExploreCommand represents a command for exhaustively exploring a function.
type ExploreCommand struct{}

// NewExploreCommand returns a new instance of ExploreCommand.
func NewExploreCommand() *ExploreCommand {
	return &ExploreCommand{}
}

// Run executes the "explore" subcommand.
func (cmd *ExploreCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lode-explore", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "verbose")
	strategy := fs.String("strategy", "dfs", "search strategy")
	seed := fs.Int64("seed", 0, "seed for random strategies")
	dump := fs.Bool("dump", false, "dump terminal states")
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	} else if fs.NArg() != 2 {
		return fmt.Errorf("usage: lode explore [arguments] <package> <function>")
	}

	log.SetFlags(0)
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}

	fn, err := loadFunction(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	z3Solver := z3.NewSolver()
	defer z3Solver.Close()

	e := lode.NewExecutor(fn)
	e.Solver = z3Solver
	e.Context = ctx

	searcher, err := newSearcher(e, *strategy, *seed)
	if err != nil {
		return err
	}
	e.SetSearcher(searcher)

	for {
		state, err := e.ExecuteNextState()
		if err == lode.ErrNoStateAvailable {
			break
		} else if err != nil {
			return err
		} else if !state.Terminated() {
			continue
		}

		fmt.Printf("state#%d %s", state.ID(), state.Status())
		if reason := state.Reason(); reason != "" {
			fmt.Printf(": %s", reason)
		}
		fmt.Println("")

		// Solve for an input assignment that drives this path.
		arrays, values, err := state.Values()
		if err != nil {
			return err
		}
		for i, array := range arrays {
			fmt.Printf("  %s => %x\n", array.String(), values[i])
		}

		if *dump {
			fmt.Println(state.Dump())
			spew.Fdump(os.Stdout, state.Constraints())
		}
		fmt.Println("")
	}

	return nil
}

// newSearcher returns the search strategy by name.
func newSearcher(e *lode.Executor, strategy string, seed int64) (lode.Searcher, error) {
	switch strategy {
	case "dfs":
		return lode.NewDFSSearcher(), nil
	case "bfs":
		return lode.NewBFSSearcher(), nil
	case "random":
		return lode.NewRandomSearcher(rand.New(rand.NewSource(seed))), nil
	case "random-path":
		return lode.NewRandomPathSearcher(e, rand.New(rand.NewSource(seed))), nil
	default:
		return nil, fmt.Errorf("unknown search strategy: %q", strategy)
	}
}

func (cmd *ExploreCommand) usage() {
	fmt.Fprintln(os.Stderr, `
usage: lode explore [arguments] <package> <function>

Arguments:

	-strategy NAME
	    Search strategy: dfs, bfs, random, or random-path.

	-seed N
	    Seed for random strategies.

	-dump
	    Dump memory & constraints of terminal states.

	-v
	    Enable verbose logging.
`[1:])
}
