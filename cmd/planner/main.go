// Command planner drives pkg/oratio's solver over a set of input files and
// writes its final state as JSON.
//
// Usage: planner <input-file>... <output-file>
//
// Ingesting the modeling-language input files themselves is the job of an
// external parser (spec's consumed, not produced, collaborator: see
// pkg/oratio/theory.go). This command checks that each input file exists
// but does not read it: it wires a fresh solver to the internal/theories
// test doubles, runs Solve on it with nothing added, and writes the
// resulting state. What this command owns is the operational shell: argument
// handling, running the search to completion, and serializing the result,
// grounded on gokando's plain stdlib-only cmd/example/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/oratio-project/oratio/internal/theories"
	"github.com/oratio-project/oratio/pkg/oratio"
)

const (
	exitSolved     = 0
	exitUnsolvable = 1
	exitUsage      = -1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: planner <input-file>... <output-file>")
		return exitUsage
	}
	inputs, output := args[:len(args)-1], args[len(args)-1]

	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			fmt.Fprintf(os.Stderr, "planner: %v\n", err)
			return exitUsage
		}
	}

	sat := theories.New()
	lra := theories.NewLRA(sat)
	rdl := theories.NewRDL(sat)
	ov := theories.NewOV(sat)
	s := oratio.NewSolver(output, sat, lra, rdl, ov)

	if err := s.Solve(); err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
		return exitUnsolvable
	}

	out, err := marshalResult(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
		return exitUnsolvable
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
		return exitUnsolvable
	}
	return exitSolved
}

func marshalResult(s *oratio.Solver) ([]byte, error) {
	return s.MarshalState()
}
