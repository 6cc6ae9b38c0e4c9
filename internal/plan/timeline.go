package plan

import (
	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/solve"
)

// timeline holds the shared event variables and the per-agent busy
// grids. The timeline has two events per task (each start and end
// lands on one); the busy grid is sized with slack beyond that.
type timeline struct {
	times []solve.Var
	// busy[agent][task][k] holds when the agent is executing the task
	// at event k.
	busy map[entity.ID]map[entity.ID][]solve.Var
}

// newTimeline creates the event variables, orders them strictly with
// the first pinned to zero, and caps each agent at one task per event.
func newTimeline(s solve.Solver, tasks []*TaskSpec, agents []entity.ID, horizon int) *timeline {
	tl := &timeline{
		times: make([]solve.Var, 2*len(tasks)),
		busy:  map[entity.ID]map[entity.ID][]solve.Var{},
	}
	for k := range tl.times {
		tl.times[k] = s.IntVar(0, horizon)
	}
	s.AssertEq([]solve.Term{solve.T(1, tl.times[0])}, 0)
	for k := 0; k+1 < len(tl.times); k++ {
		// times[k] < times[k+1]
		s.AssertLe([]solve.Term{solve.T(1, tl.times[k]), solve.T(-1, tl.times[k+1])}, -1)
	}

	slots := 3 * len(tasks)
	for _, agent := range agents {
		grid := map[entity.ID][]solve.Var{}
		for _, task := range tasks {
			cells := make([]solve.Var, slots)
			for k := range cells {
				cells[k] = s.BoolVar()
			}
			grid[task.ID] = cells
		}
		tl.busy[agent] = grid
	}
	for _, agent := range agents {
		for k := 0; k < slots; k++ {
			column := make([]solve.Var, 0, len(tasks))
			for _, task := range tasks {
				column = append(column, tl.busy[agent][task.ID][k])
			}
			s.AssertAtMost(column, 1)
		}
	}
	return tl
}
