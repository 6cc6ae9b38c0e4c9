// Package job holds the declarative input to the compiler: the agents,
// targets, points of interest, primitives, and tasks that describe the
// work, together with the fluent builder API that assembles them.
//
// A Job is mutable only through the builder methods. The compiler
// treats it as read-only.
package job

import (
	"bytes"
	"sort"

	"github.com/emergent-company/workcell/internal/entity"
)

// Job aggregates everything the pipeline needs to compile a work
// description.
type Job struct {
	ID         entity.ID
	Name       string
	Tasks      map[entity.ID]*Task
	Primitives map[entity.ID]*Primitive
	POIs       map[entity.ID]*POI
	Agents     map[entity.ID]Agent
	Targets    map[entity.ID]*Target
}

// New creates an empty job.
func New(name string) *Job {
	return &Job{
		ID:         entity.NewID(),
		Name:       name,
		Tasks:      map[entity.ID]*Task{},
		Primitives: map[entity.ID]*Primitive{},
		POIs:       map[entity.ID]*POI{},
		Agents:     map[entity.ID]Agent{},
		Targets:    map[entity.ID]*Target{},
	}
}

// CreateRobotAgent adds a robot and returns its identifier.
func (j *Job) CreateRobotAgent(name string, reach, payload, agility, speed, precision, sensing, mobileSpeed float64) entity.ID {
	a := NewRobot(name, reach, payload, agility, speed, precision, sensing, mobileSpeed)
	j.Agents[a.ID] = a
	return a.ID
}

// CreateHumanAgent adds a human worker and returns their identifier.
func (j *Job) CreateHumanAgent(name string) entity.ID {
	a := NewHuman(name)
	j.Agents[a.ID] = a
	return a.ID
}

// CreateStandingPOI adds a foothold and returns its identifier.
func (j *Job) CreateStandingPOI(name string, x, y, z float64) entity.ID {
	p := NewPOI(StandingPOI, name, x, y, z)
	j.POIs[p.ID] = p
	return p.ID
}

// CreateHandPOI adds a workpoint and returns its identifier.
func (j *Job) CreateHandPOI(name string, x, y, z float64) entity.ID {
	p := NewPOI(HandPOI, name, x, y, z)
	j.POIs[p.ID] = p
	return p.ID
}

// CreateTarget adds an intermediate target and returns its identifier.
func (j *Job) CreateTarget(name string, size, weight float64) entity.ID {
	return j.CreateTargetOfKind(Intermediate, name, size, weight)
}

// CreatePrecursorTarget adds a raw-input target.
func (j *Job) CreatePrecursorTarget(name string, size, weight float64) entity.ID {
	return j.CreateTargetOfKind(Precursor, name, size, weight)
}

// CreateProductTarget adds a final-output target.
func (j *Job) CreateProductTarget(name string, size, weight float64) entity.ID {
	return j.CreateTargetOfKind(Product, name, size, weight)
}

// CreateReusableTarget adds a tool or fixture target.
func (j *Job) CreateReusableTarget(name string, size, weight float64) entity.ID {
	return j.CreateTargetOfKind(Reusable, name, size, weight)
}

// CreateTargetOfKind adds a target of the given kind and returns its
// identifier.
func (j *Job) CreateTargetOfKind(kind TargetKind, name string, size, weight float64) entity.ID {
	t := NewTarget(kind, name, size, weight)
	j.Targets[t.ID] = t
	return t.ID
}

// CreateSpawnTask adds a spawn task and returns its identifier.
func (j *Job) CreateSpawnTask(name string) entity.ID {
	return j.createTask(SpawnTask, name)
}

// CreateProcessTask adds a process task and returns its identifier.
func (j *Job) CreateProcessTask(name string) entity.ID {
	return j.createTask(ProcessTask, name)
}

// CreateCompleteTask adds a completion task and returns its
// identifier.
func (j *Job) CreateCompleteTask(name string) entity.ID {
	return j.createTask(CompleteTask, name)
}

func (j *Job) createTask(kind TaskKind, name string) entity.ID {
	t := NewTask(kind, name)
	j.Tasks[t.ID] = t
	return t.ID
}

// AddTaskDependency declares that task consumes one unit of target as
// produced by producer. Unknown task identifiers are ignored.
func (j *Job) AddTaskDependency(task, producer, target entity.ID) {
	if t, ok := j.Tasks[task]; ok {
		t.AddDependency(producer, target, 1)
	}
}

// AddTaskOutput declares that task produces count units of target.
func (j *Job) AddTaskOutput(task, target entity.ID, count int) {
	if t, ok := j.Tasks[task]; ok {
		t.AddOutput(target, count)
	}
}

// AddTaskPrimitive attaches a primitive to task, registering it on the
// job, and returns the primitive's identifier.
func (j *Job) AddTaskPrimitive(task entity.ID, primitive *Primitive) entity.ID {
	if t, ok := j.Tasks[task]; ok {
		t.AddPrimitive(primitive.ID)
		j.Primitives[primitive.ID] = primitive
	}
	return primitive.ID
}

// AddTaskPOI restricts task to execute at the given hand POI.
func (j *Job) AddTaskPOI(task, poi entity.ID) {
	if t, ok := j.Tasks[task]; ok {
		t.AddPOI(poi)
	}
}

// Sorted accessors. Builder maps iterate in random order; the pipeline
// walks entities in identifier order so compiled nets are reproducible.

// SortedAgents returns the agents in identifier order.
func (j *Job) SortedAgents() []Agent {
	out := make([]Agent, 0, len(j.Agents))
	for _, a := range j.Agents {
		out = append(out, a)
	}
	sort.Slice(out, func(a, b int) bool {
		ai, bi := out[a].AgentID(), out[b].AgentID()
		return bytes.Compare(ai[:], bi[:]) < 0
	})
	return out
}

// SortedTargets returns the targets in identifier order.
func (j *Job) SortedTargets() []*Target {
	out := make([]*Target, 0, len(j.Targets))
	for _, t := range j.Targets {
		out = append(out, t)
	}
	sort.Slice(out, func(a, b int) bool {
		return bytes.Compare(out[a].ID[:], out[b].ID[:]) < 0
	})
	return out
}

// SortedTasks returns the tasks in identifier order.
func (j *Job) SortedTasks() []*Task {
	out := make([]*Task, 0, len(j.Tasks))
	for _, t := range j.Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(a, b int) bool {
		return bytes.Compare(out[a].ID[:], out[b].ID[:]) < 0
	})
	return out
}

// SortedPOIs returns the POIs in identifier order.
func (j *Job) SortedPOIs() []*POI {
	out := make([]*POI, 0, len(j.POIs))
	for _, p := range j.POIs {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		return bytes.Compare(out[a].ID[:], out[b].ID[:]) < 0
	})
	return out
}
