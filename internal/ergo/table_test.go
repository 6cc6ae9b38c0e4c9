package ergo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

// motionFixture builds a job with one human and a transition assigning
// one primitive to that human; the job has no POIs.
func motionFixture(prim *job.Primitive) (*Context, entity.ID, *petri.Transition) {
	j := job.New("fixture")
	human := j.CreateHumanAgent("worker")

	ctx := &Context{Job: j, Primitives: map[entity.ID]*job.Primitive{prim.ID: prim}}
	tr := petri.NewTransition("action", nil, nil, []petri.Data{
		petri.AgentData(human),
		petri.Action(human),
		petri.PrimitiveAssignment(human, prim.ID),
	}, 0, 0)
	return ctx, human, tr
}

func TestTravelTimeScalesWithDistance(t *testing.T) {
	j := job.New("walk")
	human := j.CreateHumanAgent("worker")
	from := j.CreateStandingPOI("from", 0, 0, 0)
	to := j.CreateStandingPOI("to", 2*job.DistancePerPace, 0, 0)

	prim := job.NewTravel(from, to, entity.NewID(), entity.NewID())
	ctx := &Context{Job: j, Primitives: map[entity.ID]*job.Primitive{prim.ID: prim}}
	tr := petri.NewTransition("travel", nil, nil, []petri.Data{
		petri.AgentData(human),
		petri.Action(human),
		petri.PrimitiveAssignment(human, prim.ID),
	}, 0, 0)

	table := DefaultTable()
	seconds := table.ExecutionTime(human, tr, ctx)
	// Two paces at 15 TMU each.
	assert.InDelta(t, 2*15*job.TMUPerSecond, seconds, 1e-9)
}

func TestHoldLoadsArmAndSparesHand(t *testing.T) {
	prim := job.NewHold(entity.NewID())
	ctx, human, tr := motionFixture(prim)
	table := DefaultTable()

	assert.Equal(t, 1, table.Cost(Arm, human, tr, ctx))
	assert.Equal(t, 0, table.Cost(Hand, human, tr, ctx))
	assert.Equal(t, 0, table.Recovery(Arm, human, tr, ctx))
	assert.Equal(t, table.RecoveryGrant, table.Recovery(Hand, human, tr, ctx))
	assert.Equal(t, table.RecoveryGrant, table.Recovery(WholeBody, human, tr, ctx))
}

func TestHeavyForceLoadsWholeBody(t *testing.T) {
	table := DefaultTable()

	light := job.NewForce(entity.NewID(), 10)
	ctx, human, tr := motionFixture(light)
	assert.Equal(t, 0, table.Cost(WholeBody, human, tr, ctx))

	heavy := job.NewForce(entity.NewID(), table.HeavyForce+1)
	ctx, human, tr = motionFixture(heavy)
	assert.Equal(t, 1, table.Cost(WholeBody, human, tr, ctx))
	assert.Equal(t, 1, table.Cost(Arm, human, tr, ctx))
}

func TestTransitionWithoutAssignmentsIsNeutral(t *testing.T) {
	j := job.New("idle")
	human := j.CreateHumanAgent("worker")
	ctx := &Context{Job: j}
	tr := petri.NewTransition("decide", nil, nil, []petri.Data{petri.AgentData(human)}, 0, 0)

	table := DefaultTable()
	for _, bin := range Bins() {
		assert.Equal(t, 0, table.Cost(bin, human, tr, ctx))
		assert.Equal(t, 0, table.Recovery(bin, human, tr, ctx))
	}
	assert.Equal(t, 0.0, table.ExecutionTime(human, tr, ctx))
	assert.Equal(t, 0.0, table.OnetimeCostFor(human, tr, ctx))
}

func TestFittsMonotonicInDistance(t *testing.T) {
	table := DefaultTable()
	near := table.fitts(0.1, 0.05)
	far := table.fitts(0.8, 0.05)
	assert.Greater(t, far, near)
	assert.GreaterOrEqual(t, table.fitts(0, 0.05), 0.0)
}

func TestLoadTableOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ergo.toml")
	require.NoError(t, os.WriteFile(path, []byte("walk_tmu_per_pace = 20.0\nrecovery_grant = 3\n"), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, table.WalkTMUPerPace)
	assert.Equal(t, 3, table.RecoveryGrant)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultTable().FittsA, table.FittsA)
}

func TestLoadTableRejectsNegativeTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ergo.toml")
	require.NoError(t, os.WriteFile(path, []byte("walk_tmu_per_pace = -1.0\n"), 0o644))
	_, err := LoadTable(path)
	require.Error(t, err)
}

func TestLoadTableEmptyPathUsesDefaults(t *testing.T) {
	table, err := LoadTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTable().WalkTMUPerPace, table.WalkTMUPerPace)
}
