package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/solve"
)

// TestPartitionKeepsAffiliatedPrimitivesTogether mirrors the canonical
// four-primitive case: inspect, force, hold, and position on one
// target split into two groups. Force affiliates weakly with the rest,
// so the optimum isolates it.
func TestPartitionKeepsAffiliatedPrimitivesTogether(t *testing.T) {
	target := entity.NewID()
	inspect := job.NewInspect(target, job.High)
	force := job.NewForce(target, 3)
	hold := job.NewHold(target)
	position := job.NewPosition(target, 180, 0)
	prims := []*job.Primitive{inspect, force, hold, position}

	c := New(job.New("partition"))
	splits := c.partition(prims, 2)
	require.Len(t, splits, 2)

	var solo, trio []entity.ID
	for _, split := range splits {
		require.NotEmpty(t, split, "every group must be non-empty")
		if len(split) == 1 {
			solo = split
		} else {
			trio = split
		}
	}
	require.Len(t, solo, 1)
	require.Len(t, trio, 3)
	assert.Equal(t, force.ID, solo[0])

	groupOf := map[entity.ID]int{}
	for i, split := range splits {
		for _, id := range split {
			groupOf[id] = i
		}
	}
	assert.Equal(t, groupOf[hold.ID], groupOf[position.ID], "hold and position pair at affiliation 5")
}

func TestPartitionDeterministic(t *testing.T) {
	target := entity.NewID()
	prims := []*job.Primitive{
		job.NewInspect(target, job.High),
		job.NewForce(target, 3),
		job.NewHold(target),
		job.NewPosition(target, 180, 0),
	}
	c := New(job.New("partition"))
	first := c.partition(prims, 2)
	second := c.partition(prims, 2)
	assert.Equal(t, first, second)
}

func TestPartitionSingleGroup(t *testing.T) {
	target := entity.NewID()
	prims := []*job.Primitive{job.NewHold(target), job.NewUse(target)}
	c := New(job.New("partition"))
	splits := c.partition(prims, 1)
	require.Len(t, splits, 1)
	assert.Len(t, splits[0], 2)
}

// TestPartitionFallbackRoundRobin forces solver failure through a
// one-node budget and checks the round-robin fallback keeps every
// group non-empty.
func TestPartitionFallbackRoundRobin(t *testing.T) {
	target := entity.NewID()
	prims := []*job.Primitive{
		job.NewHold(target),
		job.NewUse(target),
		job.NewForce(target, 1),
	}
	c := New(job.New("partition"), WithSolver(func() solve.Solver { return solve.NewFD(1) }))
	splits := c.partition(prims, 2)
	require.Len(t, splits, 2)
	for _, split := range splits {
		assert.NotEmpty(t, split)
	}
	total := 0
	for _, split := range splits {
		total += len(split)
	}
	assert.Equal(t, 3, total)
}
