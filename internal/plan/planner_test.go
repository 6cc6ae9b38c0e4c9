package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
)

func twoAgents() (map[entity.ID]job.Agent, []entity.ID) {
	a := job.NewHuman("a")
	b := job.NewHuman("b")
	agents := map[entity.ID]job.Agent{a.ID: a, b.ID: b}
	return agents, []entity.ID{a.ID, b.ID}
}

func makespan(allocated map[entity.ID]AllocatedTask) int64 {
	var last int64
	for _, row := range allocated {
		if row.EndTime > last {
			last = row.EndTime
		}
	}
	return last
}

// checkFeasible asserts the schedule laws: non-negative starts, exact
// durations, disjoint intervals per agent, and dependency order.
func checkFeasible(t *testing.T, tasks map[entity.ID]*TaskSpec, allocated map[entity.ID]AllocatedTask) {
	t.Helper()
	for id, spec := range tasks {
		row, ok := allocated[id]
		require.True(t, ok, "every task is allocated")
		assert.GreaterOrEqual(t, row.StartTime, int64(0))
		assert.Equal(t, spec.Duration, row.EndTime-row.StartTime)
		for _, dep := range spec.Dependencies {
			assert.LessOrEqual(t, allocated[dep].EndTime, row.StartTime, "dependencies finish first")
		}
	}
	for id1, row1 := range allocated {
		for id2, row2 := range allocated {
			if id1 == id2 || row1.Agent != row2.Agent {
				continue
			}
			overlap := row1.StartTime < row2.EndTime && row2.StartTime < row1.EndTime
			assert.False(t, overlap, "same-agent intervals must be disjoint")
		}
	}
}

func TestLinearChainSchedulesBackToBack(t *testing.T) {
	agents, _ := twoAgents()
	t1 := entity.NewID()
	t2 := entity.NewID()
	t3 := entity.NewID()
	tasks := map[entity.ID]*TaskSpec{
		t1: {ID: t1, Duration: 3},
		t2: {ID: t2, Duration: 2, Dependencies: []entity.ID{t1}},
		t3: {ID: t3, Duration: 1, Dependencies: []entity.ID{t2}},
	}

	allocated, err := NewPlanner(tasks, agents).Plan(context.Background())
	require.NoError(t, err)
	checkFeasible(t, tasks, allocated)
	assert.Equal(t, int64(6), makespan(allocated))
}

func TestParallelPairUsesBothAgents(t *testing.T) {
	agents, _ := twoAgents()
	t1 := entity.NewID()
	t2 := entity.NewID()
	tasks := map[entity.ID]*TaskSpec{
		t1: {ID: t1, Duration: 4},
		t2: {ID: t2, Duration: 4},
	}

	allocated, err := NewPlanner(tasks, agents).Plan(context.Background())
	require.NoError(t, err)
	checkFeasible(t, tasks, allocated)
	assert.Equal(t, int64(4), makespan(allocated))
	assert.NotEqual(t, allocated[t1].Agent, allocated[t2].Agent, "parallel tasks land on distinct agents")
}

func TestPreBoundConflictSerializes(t *testing.T) {
	agents, ids := twoAgents()
	bound := ids[0]
	t1 := entity.NewID()
	t2 := entity.NewID()
	tasks := map[entity.ID]*TaskSpec{
		t1: {ID: t1, Duration: 3, Agent: bound},
		t2: {ID: t2, Duration: 3, Agent: bound},
	}

	allocated, err := NewPlanner(tasks, agents).Plan(context.Background())
	require.NoError(t, err)
	checkFeasible(t, tasks, allocated)
	assert.Equal(t, int64(6), makespan(allocated))
	assert.Equal(t, bound, allocated[t1].Agent)
	assert.Equal(t, bound, allocated[t2].Agent)
}

// bruteForceMakespan enumerates every assignment and every list
// schedule to find the optimal makespan on small instances.
func bruteForceMakespan(tasks map[entity.ID]*TaskSpec, agentCount int) int64 {
	ids := make([]entity.ID, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}

	best := int64(1 << 30)
	assignment := make(map[entity.ID]int, len(ids))

	var perms func(order []entity.ID, remaining []entity.ID)
	evaluate := func(order []entity.ID) {
		ends := make(map[entity.ID]int64, len(order))
		agentFree := make([]int64, agentCount)
		for _, id := range order {
			spec := tasks[id]
			start := agentFree[assignment[id]]
			for _, dep := range spec.Dependencies {
				depEnd, ok := ends[dep]
				if !ok {
					return // dependency not yet scheduled in this order
				}
				if depEnd > start {
					start = depEnd
				}
			}
			ends[id] = start + spec.Duration
			agentFree[assignment[id]] = ends[id]
		}
		var total int64
		for _, end := range ends {
			if end > total {
				total = end
			}
		}
		if total < best {
			best = total
		}
	}
	perms = func(order, remaining []entity.ID) {
		if len(remaining) == 0 {
			evaluate(order)
			return
		}
		for i := range remaining {
			next := append(append([]entity.ID(nil), remaining[:i]...), remaining[i+1:]...)
			grown := append(append([]entity.ID(nil), order...), remaining[i])
			perms(grown, next)
		}
	}

	var assignAll func(idx int)
	assignAll = func(idx int) {
		if idx == len(ids) {
			perms(nil, ids)
			return
		}
		spec := tasks[ids[idx]]
		for a := 0; a < agentCount; a++ {
			if spec.Agent != entity.Nil {
				// Pre-bound tasks are handled by the caller mapping
				// agents to indices; unused here.
				break
			}
			assignment[ids[idx]] = a
			assignAll(idx + 1)
		}
		if spec.Agent != entity.Nil {
			assignment[ids[idx]] = 0
			assignAll(idx + 1)
		}
	}
	assignAll(0)
	return best
}

// TestOptimalityAgainstBruteForce cross-checks the solver's makespan
// on a mixed instance: two parallel tracks with one dependency.
func TestOptimalityAgainstBruteForce(t *testing.T) {
	agents, _ := twoAgents()
	t1 := entity.NewID()
	t2 := entity.NewID()
	t3 := entity.NewID()
	tasks := map[entity.ID]*TaskSpec{
		t1: {ID: t1, Duration: 2},
		t2: {ID: t2, Duration: 3},
		t3: {ID: t3, Duration: 2, Dependencies: []entity.ID{t1}},
	}

	allocated, err := NewPlanner(tasks, agents).Plan(context.Background())
	require.NoError(t, err)
	checkFeasible(t, tasks, allocated)

	expected := bruteForceMakespan(tasks, len(agents))
	assert.Equal(t, expected, makespan(allocated))
	assert.Equal(t, int64(4), expected)
}

func TestPlanWithoutAgentsFails(t *testing.T) {
	t1 := entity.NewID()
	tasks := map[entity.ID]*TaskSpec{t1: {ID: t1, Duration: 1}}
	_, err := NewPlanner(tasks, map[entity.ID]job.Agent{}).Plan(context.Background())
	require.Error(t, err)
}

func TestPlanEmptyTaskSet(t *testing.T) {
	agents, _ := twoAgents()
	allocated, err := NewPlanner(map[entity.ID]*TaskSpec{}, agents).Plan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, allocated)
}

func TestPlanPreservesPrimitives(t *testing.T) {
	agents, _ := twoAgents()
	t1 := entity.NewID()
	prims := []entity.ID{entity.NewID(), entity.NewID()}
	tasks := map[entity.ID]*TaskSpec{
		t1: {ID: t1, Duration: 2, Primitives: prims},
	}
	allocated, err := NewPlanner(tasks, agents).Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, prims, allocated[t1].Primitives)
}
