package compile

import (
	"fmt"

	"github.com/emergent-company/workcell/internal/ergo"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

// buildCost attaches ergonomic and temporal weights to the POI net.
// Every human agent gets one place per fatigue bin; each of their
// action transitions gains recovery and accrual arcs against those
// bins, an execution-time estimate, and any one-off cost. Robot
// transitions pass through unchanged.
func (c *Compiler) buildCost(poiNet *petri.Net) *petri.Net {
	net := poiNet.Clone()
	ctx := c.ergoContext()

	for _, agent := range c.job.SortedAgents() {
		human, ok := agent.(*job.Human)
		if !ok {
			continue
		}

		binPlaces := map[ergo.Bin]*petri.Place{}
		for _, bin := range ergo.Bins() {
			place := petri.NewPlace(
				fmt.Sprintf("%s %s", human.Name, bin),
				petri.Finite,
				[]petri.Data{bin.DataFor(human.ID)},
			)
			net.InsertPlaceMarked(place, 0)
			binPlaces[bin] = place
		}

		actions := net.QueryTransitions([]petri.Query{
			petri.ByData(petri.AgentData(human.ID)),
			petri.ByData(petri.Action(human.ID)),
		})
		for _, transition := range actions {
			for _, bin := range ergo.Bins() {
				if recovery := c.table.Recovery(bin, human.ID, transition, ctx); recovery > 0 {
					transition.Input[binPlaces[bin].ID] = petri.Range(0, recovery)
				}
				if cost := c.table.Cost(bin, human.ID, transition, ctx); cost > 0 {
					transition.Output[binPlaces[bin].ID] = petri.Static(1)
				}
			}
			if execution := c.table.ExecutionTime(human.ID, transition, ctx); execution > transition.Time {
				transition.Time = execution
			}
			transition.Cost += c.table.OnetimeCostFor(human.ID, transition, ctx)
		}
	}
	return net
}
