package compile

import (
	"fmt"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
	"github.com/emergent-company/workcell/internal/validation"
)

// buildBasic lowers the job's material dependencies into a net of
// target places and task transitions.
func (c *Compiler) buildBasic() (*petri.Net, error) {
	if err := validation.Validate(c.job); err != nil {
		return nil, fmt.Errorf("building basic net: %w", err)
	}

	net := petri.NewNet(c.job.Name)

	for _, target := range c.job.SortedTargets() {
		net.Names.Set(target.ID, target.Name)
		switch target.Kind {
		case job.Reusable:
			// Reusable targets cycle between an unplaced pool and a
			// situated place joined by a setup transition.
			pre := petri.NewPlace(
				fmt.Sprintf("Target: %s (pre)", target.Name),
				petri.Finite,
				[]petri.Data{petri.TargetData(target.ID), petri.TargetUnplaced(target.ID)},
			)
			situated := petri.NewPlace(
				fmt.Sprintf("Target: %s", target.Name),
				petri.Finite,
				[]petri.Data{petri.TargetData(target.ID), petri.TargetSituated(target.ID)},
			)
			net.InsertPlaceMarked(pre, 1)
			net.InsertPlaceMarked(situated, 0)
			situate := petri.NewTransition(
				fmt.Sprintf("Situate: %s", target.Name),
				map[entity.ID]petri.Signature{pre.ID: petri.Static(1)},
				map[entity.ID]petri.Signature{situated.ID: petri.Static(1)},
				[]petri.Data{
					petri.Setup(),
					petri.TargetData(target.ID),
					petri.TargetSituated(target.ID),
					petri.AgentAgnostic(),
				},
				0, 0,
			)
			net.InsertTransition(situate)
		default:
			tokens := petri.Finite
			switch target.Kind {
			case job.Precursor:
				tokens = petri.Infinite
			case job.Product:
				tokens = petri.Sink
			}
			place := petri.NewPlace(
				fmt.Sprintf("Target: %s", target.Name),
				tokens,
				[]petri.Data{petri.TargetData(target.ID), petri.TargetSituated(target.ID)},
			)
			net.InsertPlaceMarked(place, 0)
		}
	}

	for _, task := range c.job.SortedTasks() {
		net.Names.Set(task.ID, task.Name)
		meta := []petri.Data{petri.Simulation(), petri.TaskData(task.ID)}
		if task.Kind == job.CompleteTask {
			// Completion tasks retire products without an agent; the
			// next stage copies them through unspecialised.
			meta = append(meta, petri.AgentAgnostic())
		}
		transition := petri.NewTransition(task.Name, nil, nil, meta, 0, 0)

		for _, dep := range task.Dependencies {
			places := net.QueryPlaces([]petri.Query{
				petri.ByData(petri.TargetData(dep.Target)),
				petri.ByData(petri.TargetSituated(dep.Target)),
			})
			if len(places) == 0 {
				return nil, fmt.Errorf(
					"building basic net: dependency of task %q cannot be satisfied: no place holds target %q",
					task.Name, c.targetName(dep.Target),
				)
			}
			for _, place := range places {
				transition.AddInput(place.ID, petri.Static(dep.Count))
			}
		}
		for _, out := range task.Outputs {
			places := net.QueryPlaces([]petri.Query{
				petri.ByData(petri.TargetData(out.Target)),
				petri.ByData(petri.TargetSituated(out.Target)),
			})
			if len(places) == 0 {
				return nil, fmt.Errorf(
					"building basic net: output of task %q cannot be satisfied: no place holds target %q",
					task.Name, c.targetName(out.Target),
				)
			}
			for _, place := range places {
				transition.AddOutput(place.ID, petri.Static(out.Count))
			}
		}
		net.InsertTransition(transition)
	}

	for id, p := range c.primitives {
		net.Names.Set(id, string(p.Kind))
	}
	return net, nil
}

func (c *Compiler) targetName(id entity.ID) string {
	if t, ok := c.job.Targets[id]; ok {
		return t.Name
	}
	return id.String()
}
