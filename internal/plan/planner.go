package plan

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/solve"
)

// Planner assigns tasks to agents and times them on a shared event
// timeline, minimising the makespan.
type Planner struct {
	tasks     map[entity.ID]*TaskSpec
	agents    map[entity.ID]job.Agent
	logger    *slog.Logger
	newSolver func() solve.Solver
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the planner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// WithSolver sets the solver factory.
func WithSolver(newSolver func() solve.Solver) Option {
	return func(p *Planner) { p.newSolver = newSolver }
}

// NewPlanner creates a planner over the given tasks and agents.
func NewPlanner(tasks map[entity.ID]*TaskSpec, agents map[entity.ID]job.Agent, opts ...Option) *Planner {
	p := &Planner{
		tasks:     tasks,
		agents:    agents,
		logger:    slog.Default(),
		newSolver: solve.New,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan builds the constraint model, solves it, and extracts the
// schedule. The solver's own reason string is returned on failure.
func (p *Planner) Plan(ctx context.Context) (map[entity.ID]AllocatedTask, error) {
	tasks := p.sortedTasks()
	agentIDs := p.sortedAgentIDs()
	if len(tasks) == 0 {
		return map[entity.ID]AllocatedTask{}, nil
	}
	if len(agentIDs) == 0 {
		return nil, fmt.Errorf("planning requires at least one agent")
	}

	s := p.newSolver()

	// Horizon: every schedule fits within the serial execution of all
	// tasks, padded so the timeline can always hold distinct events.
	total := 0
	for _, task := range tasks {
		total += int(task.Duration)
	}
	horizon := total
	if min := 2 * len(tasks); horizon < min {
		horizon = min
	}

	// Distinct per-agent markers.
	agentVars := make(map[entity.ID]solve.Var, len(agentIDs))
	for _, id := range agentIDs {
		agentVars[id] = s.IntVar(0, len(agentIDs)-1)
	}
	for i := 0; i < len(agentIDs); i++ {
		for j := i + 1; j < len(agentIDs); j++ {
			s.AssertNe(agentVars[agentIDs[i]], agentVars[agentIDs[j]])
		}
	}

	type taskVars struct {
		agent, start, end solve.Var
	}
	vars := make(map[entity.ID]taskVars, len(tasks))
	for _, task := range tasks {
		tv := taskVars{
			agent: s.IntVar(0, len(agentIDs)-1),
			start: s.IntVar(0, horizon),
			end:   s.IntVar(0, horizon),
		}
		// end = start + duration
		s.AssertEq([]solve.Term{solve.T(1, tv.end), solve.T(-1, tv.start)}, int(task.Duration))
		vars[task.ID] = tv
	}

	tl := newTimeline(s, tasks, agentIDs, horizon)

	for _, task := range tasks {
		tv := vars[task.ID]

		if task.Agent != entity.Nil {
			bound, ok := agentVars[task.Agent]
			if !ok {
				return nil, fmt.Errorf("task %s is pre-bound to unknown agent %s", task.ID, task.Agent)
			}
			s.AssertEq([]solve.Term{solve.T(1, tv.agent), solve.T(-1, bound)}, 0)
		}

		// Exactly one agent's marker equals the task's.
		matches := make([]solve.Var, 0, len(agentIDs))
		for _, id := range agentIDs {
			matches = append(matches, s.ReifyEq([]solve.Term{solve.T(1, tv.agent), solve.T(-1, agentVars[id])}, 0))
		}
		s.AssertExactly(matches, 1)

		// Start and end each land on exactly one timeline event.
		startMarks := make([]solve.Var, 0, len(tl.times))
		endMarks := make([]solve.Var, 0, len(tl.times))
		for _, event := range tl.times {
			startMarks = append(startMarks, s.ReifyEq([]solve.Term{solve.T(1, event), solve.T(-1, tv.start)}, 0))
			endMarks = append(endMarks, s.ReifyEq([]solve.Term{solve.T(1, event), solve.T(-1, tv.end)}, 0))
		}
		s.AssertExactly(startMarks, 1)
		s.AssertExactly(endMarks, 1)

		// Dependencies end before (or exactly when) the task starts.
		for _, dep := range task.Dependencies {
			dv, ok := vars[dep]
			if !ok {
				p.logger.Warn("task dependency not found", "task", task.ID, "dependency", dep)
				continue
			}
			s.AssertLe([]solve.Term{solve.T(1, dv.end), solve.T(-1, tv.start)}, 0)
		}

		// If the task runs on an agent, that agent is busy with it at
		// every event inside [start, end).
		for i, id := range agentIDs {
			assigned := matches[i]
			for k, event := range tl.times {
				afterStart := s.ReifyLe([]solve.Term{solve.T(1, tv.start), solve.T(-1, event)}, 0)
				beforeEnd := s.ReifyLe([]solve.Term{solve.T(1, event), solve.T(-1, tv.end)}, -1)
				s.AssertImplies([]solve.Var{assigned, afterStart, beforeEnd}, tl.busy[id][task.ID][k])
			}
		}
	}

	s.Minimize(tl.times[len(tl.times)-1])

	switch status := s.Check(ctx); status {
	case solve.Sat:
		if reason := s.Reason(); reason != "" {
			p.logger.Warn("planner solved with a caveat", "reason", reason)
		}
	default:
		return nil, fmt.Errorf("planning failed (%s): %s", status, s.Reason())
	}

	allocated := make(map[entity.ID]AllocatedTask, len(tasks))
	for _, task := range tasks {
		tv := vars[task.ID]
		code := s.IntValue(tv.agent)
		var assignee entity.ID
		for _, id := range agentIDs {
			if s.IntValue(agentVars[id]) == code {
				assignee = id
				break
			}
		}
		allocated[task.ID] = AllocatedTask{
			Task:       task.ID,
			Primitives: append([]entity.ID(nil), task.Primitives...),
			Agent:      assignee,
			StartTime:  int64(s.IntValue(tv.start)),
			EndTime:    int64(s.IntValue(tv.end)),
		}
	}
	return allocated, nil
}

func (p *Planner) sortedTasks() []*TaskSpec {
	out := make([]*TaskSpec, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

func (p *Planner) sortedAgentIDs() []entity.ID {
	out := make([]entity.ID, 0, len(p.agents))
	for id := range p.agents {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
