package job

import "github.com/emergent-company/workcell/internal/entity"

// TaskKind classifies tasks by their role in the material flow.
type TaskKind string

const (
	// SpawnTask introduces targets into the cell.
	SpawnTask TaskKind = "spawn"
	// ProcessTask consumes dependencies and produces outputs.
	ProcessTask TaskKind = "process"
	// CompleteTask retires finished products; it is agent-agnostic and
	// never specialised.
	CompleteTask TaskKind = "complete"
)

// Dependency declares that a task consumes Count units of Target as
// produced by the Producer task.
type Dependency struct {
	Producer entity.ID `json:"producer"`
	Target   entity.ID `json:"target"`
	Count    int       `json:"count"`
}

// Output declares that a task produces Count units of Target.
type Output struct {
	Target entity.ID `json:"target"`
	Count  int       `json:"count"`
}

// Task is a named collection of primitives with material dependencies
// and outputs, optionally restricted to a set of hand POIs.
type Task struct {
	ID           entity.ID    `json:"id"`
	Kind         TaskKind     `json:"type"`
	Name         string       `json:"name"`
	Primitives   []entity.ID  `json:"primitives"`
	Dependencies []Dependency `json:"dependencies"`
	Outputs      []Output     `json:"outputs"`
	// POIs restricts where the task may execute. Empty means any hand
	// POI is allowed.
	POIs []entity.ID `json:"pois"`
}

// NewTask creates an empty task of the given kind.
func NewTask(kind TaskKind, name string) *Task {
	return &Task{ID: entity.NewID(), Kind: kind, Name: name}
}

// AddPrimitive appends a primitive to the task's ordered list.
func (t *Task) AddPrimitive(primitive entity.ID) {
	t.Primitives = append(t.Primitives, primitive)
}

// AddDependency records a dependency on count units of target from
// producer, accumulating counts for repeated declarations.
func (t *Task) AddDependency(producer, target entity.ID, count int) {
	for i, dep := range t.Dependencies {
		if dep.Producer == producer && dep.Target == target {
			t.Dependencies[i].Count += count
			return
		}
	}
	t.Dependencies = append(t.Dependencies, Dependency{Producer: producer, Target: target, Count: count})
}

// AddOutput records that the task produces count units of target,
// accumulating counts for repeated declarations.
func (t *Task) AddOutput(target entity.ID, count int) {
	for i, out := range t.Outputs {
		if out.Target == target {
			t.Outputs[i].Count += count
			return
		}
	}
	t.Outputs = append(t.Outputs, Output{Target: target, Count: count})
}

// AddReusable records a reusable target (tool, fixture): the task both
// requires and returns it.
func (t *Task) AddReusable(producer, target entity.ID, count int) {
	t.AddDependency(producer, target, count)
	t.AddOutput(target, count)
}

// AddPOI appends an allowed hand POI.
func (t *Task) AddPOI(poi entity.ID) {
	t.POIs = append(t.POIs, poi)
}

// AllowsPOI reports whether the task may execute at the hand POI. An
// empty restriction list allows every POI.
func (t *Task) AllowsPOI(poi entity.ID) bool {
	if len(t.POIs) == 0 {
		return true
	}
	for _, id := range t.POIs {
		if id == poi {
			return true
		}
	}
	return false
}

// OutputTargetCount sums the declared output counts for target.
func (t *Task) OutputTargetCount(target entity.ID) int {
	total := 0
	for _, out := range t.Outputs {
		if out.Target == target {
			total += out.Count
		}
	}
	return total
}
