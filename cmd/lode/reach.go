package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	"github.com/lodesym/lode"
	"github.com/lodesym/lode/z3"
)

// ReachCommand represents a command for guiding execution toward source locations.
type ReachCommand struct{}

// NewReachCommand returns a new instance of ReachCommand.
func NewReachCommand() *ReachCommand {
	return &ReachCommand{}
}

// Run executes the "reach" subcommand.
func (cmd *ReachCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lode-reach", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "verbose")
	configPath := fs.String("config", "", "config file (required)")
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	} else if *configPath == "" {
		return fmt.Errorf("config file required")
	} else if fs.NArg() != 2 {
		return fmt.Errorf("usage: lode reach -config PATH <package> <function>")
	}

	log.SetFlags(0)
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}

	config, err := lode.LoadConfigFile(*configPath)
	if err != nil {
		return err
	}

	fn, err := loadFunction(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	z3Solver := z3.NewSolver()
	defer z3Solver.Close()
	if config.SolverTimeout != 0 {
		z3Solver.SetTimeout(time.Duration(config.SolverTimeout))
	}

	e := lode.NewExecutor(fn)
	e.Solver = z3Solver
	e.Context = ctx
	e.MaxResolutions = config.MaxResolutions
	e.ResolveTimeout = time.Duration(config.SolverTimeout)
	if config.OS != "" {
		e.OS, e.Arch = config.OS, config.Arch
	}

	// Resolve target locations and guide the search toward them.
	tm := lode.NewTargetManager(e)
	if config.Strategy == "targeted" {
		for _, target := range config.Targets {
			if err := tm.AddLocation(target.Location()); err != nil {
				return err
			}
		}
		e.SetSearcher(tm.Searcher())
	} else {
		searcher, err := newSearcher(e, config.Strategy, 0)
		if err != nil {
			return err
		}
		e.SetSearcher(searcher)
		for _, target := range config.Targets {
			if err := tm.AddLocation(target.Location()); err != nil {
				return err
			}
		}
	}

	var executed int
	for !tm.Done() {
		if config.MaxStates > 0 && executed >= config.MaxStates {
			break
		}

		state, err := e.ExecuteNextState()
		if err == lode.ErrNoStateAvailable {
			break
		} else if err != nil {
			return err
		}
		executed++

		for _, loc := range tm.Update(state) {
			fmt.Printf("reached %s (state#%d)\n", loc, state.ID())

			// Solve for an input assignment that reaches the location.
			arrays, values, err := state.Values()
			if err != nil {
				return err
			}
			for i, array := range arrays {
				fmt.Printf("  %s => %x\n", array.String(), values[i])
			}
			fmt.Println("")
		}
	}

	// Report unreached targets.
	remaining := tm.Remaining()
	for _, loc := range remaining {
		fmt.Printf("unreached %s\n", loc)
	}
	if len(remaining) > 0 {
		return fmt.Errorf("%d target(s) unreached after %d state(s)", len(remaining), executed)
	}
	return nil
}

func (cmd *ReachCommand) usage() {
	fmt.Fprintln(os.Stderr, `
usage: lode reach -config PATH <package> <function>

Arguments:

	-config PATH
	    YAML config file with targets & strategy.

	-v
	    Enable verbose logging.
`[1:])
}
