package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

func TestAgentNetChoiceStructure(t *testing.T) {
	j, _ := chainJob()
	robot := j.CreateRobotAgent("arm", 1, 3, 0.7, 2, 0.0001, 0.7, 0)
	human := j.CreateHumanAgent("worker")

	c := New(j)
	net, err := c.AgentNet()
	require.NoError(t, err)
	require.NoError(t, net.Validate())

	for _, agent := range []entity.ID{robot, human} {
		for _, tag := range []petri.DataTag{
			petri.TagAgentIndet, petri.TagAgentSituated, petri.TagAgentDiscard, petri.TagAgentPresent,
		} {
			places := net.QueryPlaces([]petri.Query{
				petri.ByData(petri.AgentData(agent)),
				petri.ByTagPrimary(tag, agent),
			})
			require.Len(t, places, 1, "expected exactly one %s place", tag)
		}

		indet := net.QueryPlaces([]petri.Query{petri.ByTagPrimary(petri.TagAgentIndet, agent)})[0]
		assert.Equal(t, 1, net.InitialMarking[indet.ID])

		discard := net.QueryPlaces([]petri.Query{petri.ByTagPrimary(petri.TagAgentDiscard, agent)})[0]
		assert.Equal(t, petri.Sink, discard.Tokens)

		adds := net.QueryTransitions([]petri.Query{petri.ByTagPrimary(petri.TagAgentAdd, agent)})
		require.Len(t, adds, 1)
		situated := net.QueryPlaces([]petri.Query{petri.ByTagPrimary(petri.TagAgentSituated, agent)})[0]
		present := net.QueryPlaces([]petri.Query{petri.ByTagPrimary(petri.TagAgentPresent, agent)})[0]
		assert.Contains(t, adds[0].Output, situated.ID)
		assert.Contains(t, adds[0].Output, present.ID)
		assert.Contains(t, adds[0].Input, indet.ID)
	}
}

func TestAgentNetSpecializesTaskTransitions(t *testing.T) {
	j, ids := chainJob()
	j.CreateRobotAgent("arm", 1, 3, 0.7, 2, 0.0001, 0.7, 0)
	j.CreateHumanAgent("worker")

	c := New(j)
	net, err := c.AgentNet()
	require.NoError(t, err)

	// Two primitives, two agents: each singleton takes both
	// primitives, and the pair splits them both ways.
	specialized := net.QueryTransitions([]petri.Query{
		petri.ByData(petri.TaskData(ids["t1"])),
		petri.ByTag(petri.TagAction),
	})
	require.Len(t, specialized, 4)

	taskPrims := map[entity.ID]bool{ids["hold"]: true, ids["position"]: true}
	for _, tr := range specialized {
		actions := petri.FilterTag(tr.MetaData, petri.TagAction)
		require.NotEmpty(t, actions)
		assert.LessOrEqual(t, len(actions), job.SplitSize)

		// Every primitive of the task is assigned exactly once.
		seen := map[entity.ID]int{}
		for _, assign := range petri.FilterTag(tr.MetaData, petri.TagPrimitiveAssign) {
			seen[assign.Secondary]++
		}
		require.Len(t, seen, len(taskPrims))
		for prim := range taskPrims {
			assert.Equal(t, 1, seen[prim])
		}

		// Each assigned agent's situated place loops through the
		// transition.
		for _, action := range actions {
			situated := net.QueryPlaces([]petri.Query{petri.ByTagPrimary(petri.TagAgentSituated, action.Primary)})[0]
			assert.Equal(t, petri.Static(1), tr.Input[situated.ID])
			assert.Equal(t, petri.Static(1), tr.Output[situated.ID])
		}

		// The allocation place loops too.
		allocLoops := 0
		for placeID := range tr.Input {
			place := net.Places[placeID]
			if petri.HasTag(place.MetaData, petri.TagAllocatedTask) {
				assert.Contains(t, tr.Output, placeID)
				allocLoops++
			}
		}
		assert.Equal(t, 1, allocLoops)
	}

	// One pre-alloc place per specialised task, marked with a single
	// decision token.
	preAllocs := net.QueryPlaces([]petri.Query{petri.ByData(petri.UnallocatedTask(ids["t1"]))})
	require.Len(t, preAllocs, 1)
	assert.Equal(t, 1, net.InitialMarking[preAllocs[0].ID])

	// One allocation-decide transition per assignment.
	decides := net.QueryTransitions([]petri.Query{petri.ByData(petri.AllocatedTask(ids["t1"]))})
	assert.Len(t, decides, 4)
}

func TestAgentNetKeepsAgnosticTransitionsUnspecialized(t *testing.T) {
	j, ids := chainJob()
	j.CreateRobotAgent("arm", 1, 3, 0.7, 2, 0.0001, 0.7, 0)

	c := New(j)
	net, err := c.AgentNet()
	require.NoError(t, err)

	complete := net.QueryTransitions([]petri.Query{petri.ByData(petri.TaskData(ids["c1"]))})
	require.Len(t, complete, 1)
	assert.False(t, petri.HasTag(complete[0].MetaData, petri.TagAction))

	setup := net.QueryTransitions([]petri.Query{petri.ByTag(petri.TagSetup)})
	require.Len(t, setup, 1)
}

func TestAgentSubsets(t *testing.T) {
	j := job.New("subsets")
	a := j.CreateRobotAgent("a", 1, 1, 1, 1, 1, 1, 0)
	b := j.CreateRobotAgent("b", 1, 1, 1, 1, 1, 1, 0)
	c := j.CreateRobotAgent("c", 1, 1, 1, 1, 1, 1, 0)
	_ = []entity.ID{a, b, c}

	subsets := agentSubsets(j.SortedAgents(), 2)
	// 3 singletons + 3 pairs.
	require.Len(t, subsets, 6)
	for _, subset := range subsets {
		assert.LessOrEqual(t, len(subset), 2)
		assert.NotEmpty(t, subset)
	}
}

func TestPermutations(t *testing.T) {
	perms := permutations(3)
	require.Len(t, perms, 6)
	assert.Equal(t, []int{0, 1, 2}, perms[0])
	seen := map[string]bool{}
	for _, p := range perms {
		key := ""
		for _, v := range p {
			key += string(rune('0' + v))
		}
		assert.False(t, seen[key])
		seen[key] = true
	}
}
