package validation

import (
	"fmt"

	"github.com/emergent-company/workcell/internal/job"
)

// NewTaskValidator checks that every task's dependencies, outputs,
// primitives, and POI restrictions resolve against the job, and that
// each dependency's producer declares enough output to satisfy it.
func NewTaskValidator() Validator {
	return NewValidatorFunc("tasks", validateTasks)
}

func validateTasks(j *job.Job) error {
	for _, task := range j.SortedTasks() {
		for _, dep := range task.Dependencies {
			if dep.Count <= 0 {
				return fmt.Errorf("task %q: dependency count %d: %w", task.Name, dep.Count, ErrNonPositiveCount)
			}
			target, ok := j.Targets[dep.Target]
			if !ok {
				return fmt.Errorf("task %q: dependency references %s: %w", task.Name, dep.Target, ErrUnknownTarget)
			}
			producer, ok := j.Tasks[dep.Producer]
			if !ok {
				return fmt.Errorf(
					"task %q: dependency on target %q names a producer that does not exist: %w",
					task.Name, target.Name, ErrUnknownProducer,
				)
			}
			if produced := producer.OutputTargetCount(dep.Target); produced < dep.Count {
				return fmt.Errorf(
					"task %q: dependency on target %q cannot be satisfied: producer %q outputs %d of %d needed: %w",
					task.Name, target.Name, producer.Name, produced, dep.Count, ErrInsufficientOutput,
				)
			}
		}
		for _, out := range task.Outputs {
			if out.Count <= 0 {
				return fmt.Errorf("task %q: output count %d: %w", task.Name, out.Count, ErrNonPositiveCount)
			}
			if _, ok := j.Targets[out.Target]; !ok {
				return fmt.Errorf("task %q: output references %s: %w", task.Name, out.Target, ErrUnknownTarget)
			}
		}
		for _, prim := range task.Primitives {
			if _, ok := j.Primitives[prim]; !ok {
				return fmt.Errorf("task %q: primitive %s: %w", task.Name, prim, ErrUnknownPrimitive)
			}
		}
		for _, poi := range task.POIs {
			p, ok := j.POIs[poi]
			if !ok {
				return fmt.Errorf("task %q: allowed POI %s: %w", task.Name, poi, ErrUnknownPOI)
			}
			if p.Kind != job.HandPOI {
				return fmt.Errorf("task %q: allowed POI %q is not a hand POI: %w", task.Name, p.Name, ErrUnknownPOI)
			}
		}
	}
	return nil
}
