package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err == flag.ErrHelp {
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var cmd string
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "", "-h", "--help", "help":
		usage()
		return flag.ErrHelp
	case "explore":
		return NewExploreCommand().Run(ctx, args)
	case "reach":
		return NewReachCommand().Run(ctx, args)
	default:
		return fmt.Errorf(`lode %s: unknown command`, cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `
Lode is a tool for symbolic execution of Go code.

Usage:

	lode <command> [arguments]

The commands are:

	explore     symbolically execute a function and report its paths
	reach       guide execution toward target source locations
	help        this screen
`[1:])
}

// loadFunction builds the package in SSA form and returns the named function.
func loadFunction(pattern, name string) (*ssa.Function, error) {
	initial, err := packages.Load(&packages.Config{
		Mode:  packages.LoadAllSyntax,
		Tests: true,
	}, pattern)
	if err != nil {
		return nil, err
	} else if packages.PrintErrors(initial) > 0 {
		return nil, fmt.Errorf("packages contain errors")
	}

	prog, pkgs := ssautil.AllPackages(initial, ssa.BuilderMode(0))
	for i, pkg := range pkgs {
		if pkg == nil {
			return nil, fmt.Errorf("cannot build SSA for package %s", initial[i])
		}
		pkg.SetDebugMode(true)
	}
	prog.Build()

	for _, pkg := range pkgs {
		if m, ok := pkg.Members[name].(*ssa.Function); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("function not found: %s", name)
}
