// Command workcell compiles declarative job descriptions into labelled
// Petri nets and schedules their tasks across the agent roster.
//
// Usage:
//
//	workcell compile <job.yaml>   compile and write DOT renderings
//	workcell plan <job.yaml>      compute a minimum-makespan schedule
//	workcell info                 print version and usage details
//
// Optional environment variables:
//
//	WORKCELL_CONFIG       - path to a workcell.toml config file
//	WORKCELL_LOG_LEVEL    - log level: debug, info, warn, error (default: info)
//	WORKCELL_OUTPUT_DIR   - directory for DOT output (default: .)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/emergent-company/workcell/internal/compile"
	"github.com/emergent-company/workcell/internal/config"
	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/ergo"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
	"github.com/emergent-company/workcell/internal/plan"
	"github.com/emergent-company/workcell/internal/solve"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "workcell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("workcell", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = usage
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	args := fs.Args()
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no subcommand given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "compile":
		return runCompile(ctx, cfg, logger, args[1:])
	case "plan":
		return runPlan(ctx, cfg, logger, args[1:])
	case "info":
		runInfo(args[1:])
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func runCompile(_ context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: workcell compile <job.yaml>")
	}
	j, err := LoadJobFile(args[0])
	if err != nil {
		return err
	}
	table, err := ergo.LoadTable(cfg.Ergo.TablePath)
	if err != nil {
		return err
	}

	compiler := compile.New(j,
		compile.WithLogger(logger),
		compile.WithTable(table),
		compile.WithSolver(func() solve.Solver { return solve.NewFD(cfg.Solver.NodeBudget) }),
	)

	stages := []struct {
		name  string
		build func() (*petri.Net, error)
	}{
		{"basic", compiler.BasicNet},
		{"agent", compiler.AgentNet},
		{"poi", compiler.PoiNet},
		{"cost", compiler.CostNet},
	}
	for _, stage := range stages {
		net, err := stage.build()
		if err != nil {
			return fmt.Errorf("compiling %s net: %w", stage.name, err)
		}
		path := filepath.Join(cfg.Output.Dir, stage.name+".dot")
		if err := os.WriteFile(path, []byte(net.Dot()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Info("wrote net rendering", "stage", stage.name, "path", path)
	}
	return nil
}

func runPlan(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: workcell plan <job.yaml>")
	}
	j, err := LoadJobFile(args[0])
	if err != nil {
		return err
	}
	table, err := ergo.LoadTable(cfg.Ergo.TablePath)
	if err != nil {
		return err
	}

	tasks := taskSpecs(j, table)
	planner := plan.NewPlanner(tasks, j.Agents,
		plan.WithLogger(logger),
		plan.WithSolver(func() solve.Solver { return solve.NewFD(cfg.Solver.NodeBudget) }),
	)
	allocated, err := planner.Plan(ctx)
	if err != nil {
		return err
	}

	rows := make([]plan.AllocatedTask, 0, len(allocated))
	for _, row := range allocated {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StartTime != rows[j].StartTime {
			return rows[i].StartTime < rows[j].StartTime
		}
		return rows[i].Task.String() < rows[j].Task.String()
	})

	fmt.Printf("%-24s %-16s %8s %8s\n", "TASK", "AGENT", "START", "END")
	for _, row := range rows {
		fmt.Printf("%-24s %-16s %8d %8d\n",
			j.Tasks[row.Task].Name, j.Agents[row.Agent].AgentName(), row.StartTime, row.EndTime)
	}
	return nil
}

// taskSpecs derives planner inputs from the job: durations from the
// timing table, dependencies from the declared producers.
func taskSpecs(j *job.Job, table *ergo.Table) map[entity.ID]*plan.TaskSpec {
	ctx := &ergo.Context{Job: j}
	specs := make(map[entity.ID]*plan.TaskSpec, len(j.Tasks))
	for id, task := range j.Tasks {
		seconds := 0.0
		for _, primID := range task.Primitives {
			if p, ok := j.Primitives[primID]; ok {
				seconds += table.PrimitiveSeconds(p, ctx)
			}
		}
		duration := int64(seconds + 0.5)
		if duration < 1 {
			duration = 1
		}
		deps := map[entity.ID]bool{}
		for _, dep := range task.Dependencies {
			deps[dep.Producer] = true
		}
		depList := make([]entity.ID, 0, len(deps))
		for dep := range deps {
			depList = append(depList, dep)
		}
		sort.Slice(depList, func(a, b int) bool { return depList[a].String() < depList[b].String() })
		specs[id] = &plan.TaskSpec{
			ID:           id,
			Primitives:   append([]entity.ID(nil), task.Primitives...),
			Duration:     duration,
			Dependencies: depList,
		}
	}
	return specs
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: workcell [-config file] <command> [arguments]

Commands:
  compile <job.yaml>   compile the job and write basic/agent/poi/cost DOT files
  plan <job.yaml>      compute a minimum-makespan schedule for the job's tasks
  info                 print version and configuration details
`)
}
