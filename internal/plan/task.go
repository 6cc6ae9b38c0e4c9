// Package plan schedules tasks onto agents with an optimising
// constraint model: a shared event timeline, per-agent busy grids, and
// per-task agent/start/end variables, minimising the final event. It
// is decoupled from the compiled nets but shares their identifier
// space.
package plan

import "github.com/emergent-company/workcell/internal/entity"

// TaskSpec describes one schedulable task.
type TaskSpec struct {
	ID         entity.ID
	Primitives []entity.ID
	// Agent pre-binds the task to an agent; entity.Nil leaves the
	// choice to the solver.
	Agent    entity.ID
	Duration int64
	// Dependencies lists tasks that must end no later than this one
	// starts.
	Dependencies []entity.ID
}

// AllocatedTask is one row of a computed schedule.
type AllocatedTask struct {
	Task       entity.ID   `json:"task"`
	Primitives []entity.ID `json:"primitives"`
	Agent      entity.ID   `json:"agent"`
	StartTime  int64       `json:"startTime"`
	EndTime    int64       `json:"endTime"`
}
