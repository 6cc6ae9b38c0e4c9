package main

import (
	"flag"
	"fmt"
	"os"
)

// runInfo handles the "workcell info" subcommand.
func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	fmt.Fprintf(os.Stdout, `workcell %s — human-robot work allocation engine

workcell compiles a declarative job description (tasks over material
targets with spatial points of interest, executed by a roster of human
and robot agents) into a labelled Petri net encoding every legal
execution, then computes a minimum-makespan schedule with a
constraint optimiser.

PIPELINE

  basic   material flow: one place per target, one transition per task
  agent   add/discard choices and per-assignment task specialisations
  poi     spatial embedding: reach, travel, move, and carry motions
  cost    ergonomic recovery/accrual arcs and execution times (humans)

COMMANDS

  workcell compile <job.yaml>
      Compile all four stages and write basic.dot, agent.dot, poi.dot,
      and cost.dot to the output directory. Render with Graphviz:
        dot -Tsvg basic.dot -o basic.svg

  workcell plan <job.yaml>
      Derive task durations from the timing tables and print the
      optimal allocation table.

CONFIGURATION

  Config file: workcell.toml (see -config, WORKCELL_CONFIG)
  Environment: WORKCELL_LOG_LEVEL, WORKCELL_OUTPUT_DIR,
               WORKCELL_SOLVER_NODE_BUDGET, WORKCELL_ERGO_TABLE
`, Version)
}
