package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

// buildAgent clones the basic net's places, adds the add/discard
// choice structure for every agent, and replaces each task transition
// with one specialised copy per valid agent-subset and primitive
// partition.
func (c *Compiler) buildAgent(basic *petri.Net) *petri.Net {
	net := petri.NewNet(basic.Name)
	net.Names = basic.Names.Clone()
	for id, place := range basic.Places {
		net.Places[id] = place.Clone()
	}
	for id, marking := range basic.InitialMarking {
		net.InitialMarking[id] = marking
	}

	agents := c.job.SortedAgents()
	for _, agent := range agents {
		c.addAgentChoice(net, agent)
	}

	for _, transition := range sortedTransitions(basic) {
		if petri.HasTag(transition.MetaData, petri.TagAgentAgnostic) {
			net.InsertTransition(transition.CloneFresh())
			continue
		}
		c.specializeTask(net, transition, agents)
	}
	return net
}

// addAgentChoice creates the four per-agent places and the add/discard
// transitions between them.
func (c *Compiler) addAgentChoice(net *petri.Net, agent job.Agent) {
	id := agent.AgentID()
	name := agent.AgentName()
	net.Names.Set(id, name)

	indeterminate := petri.NewPlace(
		fmt.Sprintf("%s ?", name),
		petri.Finite,
		[]petri.Data{petri.AgentData(id), petri.AgentIndeterminate(id)},
	)
	situated := petri.NewPlace(
		name,
		petri.Finite,
		[]petri.Data{petri.AgentData(id), petri.AgentSituated(id)},
	)
	discarded := petri.NewPlace(
		fmt.Sprintf("%s discarded", name),
		petri.Sink,
		[]petri.Data{petri.AgentData(id), petri.AgentDiscard(id)},
	)
	present := petri.NewPlace(
		fmt.Sprintf("%s added", name),
		petri.Finite,
		[]petri.Data{petri.AgentData(id), petri.AgentPresent(id)},
	)
	net.InsertPlaceMarked(indeterminate, 1)
	net.InsertPlaceMarked(situated, 0)
	net.InsertPlaceMarked(discarded, 0)
	net.InsertPlaceMarked(present, 0)

	add := petri.NewTransition(
		fmt.Sprintf("Add %s", name),
		map[entity.ID]petri.Signature{indeterminate.ID: petri.Static(1)},
		map[entity.ID]petri.Signature{
			situated.ID: petri.Static(1),
			present.ID:  petri.Static(1),
		},
		[]petri.Data{petri.AgentData(id), petri.AgentAdd(id)},
		0, 0,
	)
	discard := petri.NewTransition(
		fmt.Sprintf("Discard %s", name),
		map[entity.ID]petri.Signature{indeterminate.ID: petri.Static(1)},
		map[entity.ID]petri.Signature{discarded.ID: petri.Static(1)},
		[]petri.Data{petri.AgentData(id), petri.AgentDiscard(id)},
		0, 0,
	)
	net.InsertTransition(add)
	net.InsertTransition(discard)
}

// assignment maps each agent of a subset to the primitives it
// executes.
type assignment map[entity.ID][]entity.ID

// key canonicalises the assignment for deduplication.
func (a assignment) key() string {
	agents := make([]entity.ID, 0, len(a))
	for id := range a {
		agents = append(agents, id)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].String() < agents[j].String() })
	var b strings.Builder
	for _, agent := range agents {
		prims := append([]entity.ID(nil), a[agent]...)
		sort.Slice(prims, func(i, j int) bool { return prims[i].String() < prims[j].String() })
		b.WriteString(agent.String())
		b.WriteString("=")
		for _, p := range prims {
			b.WriteString(p.String())
			b.WriteString(",")
		}
		b.WriteString(";")
	}
	return b.String()
}

// specializeTask expands one task transition into its per-assignment
// variants behind an allocation choice.
func (c *Compiler) specializeTask(net *petri.Net, transition *petri.Transition, agents []job.Agent) {
	taskTag, ok := petri.FindTag(transition.MetaData, petri.TagTask)
	if !ok {
		// Only task transitions reach this point; anything else is a
		// pipeline invariant violation.
		panic(fmt.Sprintf("transition %q has no task tag", transition.Name))
	}
	task := c.job.Tasks[taskTag.Primary]

	preAlloc := petri.NewPlace(
		fmt.Sprintf("%s-pre-alloc", transition.Name),
		petri.Finite,
		[]petri.Data{petri.TaskData(task.ID), petri.UnallocatedTask(task.ID)},
	)
	net.InsertPlaceMarked(preAlloc, 1)

	var assignments []assignment
	seen := map[string]bool{}
	record := func(a assignment) {
		k := a.key()
		if !seen[k] {
			seen[k] = true
			assignments = append(assignments, a)
		}
	}

	for _, subset := range agentSubsets(agents, job.SplitSize) {
		if len(subset) <= len(task.Primitives) {
			prims := make([]*job.Primitive, 0, len(task.Primitives))
			for _, id := range task.Primitives {
				prims = append(prims, c.primitives[id])
			}
			splits := c.partition(prims, len(subset))
			for _, perm := range permutations(len(splits)) {
				a := assignment{}
				for idx, splitIdx := range perm {
					a[subset[idx].AgentID()] = splits[splitIdx]
				}
				record(a)
			}
		} else {
			// More agents than primitives: everything goes to the
			// subset's first member.
			a := assignment{subset[0].AgentID(): append([]entity.ID(nil), task.Primitives...)}
			record(a)
		}
	}

	for _, assign := range assignments {
		c.emitAssignment(net, transition, task, preAlloc.ID, assign)
	}
}

// emitAssignment creates the allocation place, the allocation-decide
// transition, and the specialised task transition for one assignment.
func (c *Compiler) emitAssignment(net *petri.Net, transition *petri.Transition, task *job.Task, preAlloc entity.ID, assign assignment) {
	agentIDs := make([]entity.ID, 0, len(assign))
	for id := range assign {
		agentIDs = append(agentIDs, id)
	}
	sort.Slice(agentIDs, func(i, j int) bool { return agentIDs[i].String() < agentIDs[j].String() })

	names := make([]string, 0, len(agentIDs))
	for _, id := range agentIDs {
		names = append(names, c.job.Agents[id].AgentName())
	}
	crew := strings.Join(names, "+")

	allocMeta := []petri.Data{petri.TaskData(task.ID), petri.AllocatedTask(task.ID)}
	for _, id := range agentIDs {
		allocMeta = append(allocMeta, petri.AgentTaskLock(id))
	}
	alloc := petri.NewPlace(fmt.Sprintf("%s-alloc", transition.Name), petri.Finite, allocMeta)
	net.InsertPlaceMarked(alloc, 0)

	decideMeta := []petri.Data{petri.TaskData(task.ID), petri.AllocatedTask(task.ID)}
	decide := petri.NewTransition(
		fmt.Sprintf("%s decide %s", transition.Name, crew),
		map[entity.ID]petri.Signature{preAlloc: petri.Static(1)},
		map[entity.ID]petri.Signature{alloc.ID: petri.Static(1)},
		decideMeta,
		0, 0,
	)
	for _, id := range agentIDs {
		decide.MetaData = append(decide.MetaData, petri.AgentData(id))
		present := net.QueryPlaces([]petri.Query{
			petri.ByData(petri.AgentData(id)),
			petri.ByData(petri.AgentPresent(id)),
		})[0]
		// The present token is only observed, never consumed.
		decide.AddInput(present.ID, petri.Static(1))
		decide.AddOutput(present.ID, petri.Static(1))
	}
	net.InsertTransition(decide)

	t := transition.CloneFresh()
	t.Name = fmt.Sprintf("%s-%s", crew, transition.Name)
	t.AddInput(alloc.ID, petri.Static(1))
	t.AddOutput(alloc.ID, petri.Static(1))
	for _, id := range agentIDs {
		situated := net.QueryPlaces([]petri.Query{
			petri.ByData(petri.AgentData(id)),
			petri.ByData(petri.AgentSituated(id)),
		})[0]
		t.AddInput(situated.ID, petri.Static(1))
		t.AddOutput(situated.ID, petri.Static(1))
		t.MetaData = append(t.MetaData, petri.AgentData(id), petri.Action(id))
		for _, prim := range assign[id] {
			t.MetaData = append(t.MetaData, petri.PrimitiveAssignment(id, prim))
		}
	}
	net.InsertTransition(t)
}

// agentSubsets enumerates the non-empty subsets of agents of size at
// most limit, smaller subsets first, preserving agent order within
// each subset.
func agentSubsets(agents []job.Agent, limit int) [][]job.Agent {
	var out [][]job.Agent
	for size := 1; size <= limit && size <= len(agents); size++ {
		var build func(start int, current []job.Agent)
		build = func(start int, current []job.Agent) {
			if len(current) == size {
				out = append(out, append([]job.Agent(nil), current...))
				return
			}
			for i := start; i < len(agents); i++ {
				build(i+1, append(current, agents[i]))
			}
		}
		build(0, nil)
	}
	return out
}

// permutations returns every ordering of [0, n) in lexicographic
// order.
func permutations(n int) [][]int {
	var out [][]int
	perm := make([]int, n)
	used := make([]bool, n)
	var build func(depth int)
	build = func(depth int) {
		if depth == n {
			out = append(out, append([]int(nil), perm...))
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			perm[depth] = i
			build(depth + 1)
			used[i] = false
		}
	}
	build(0)
	return out
}

// sortedTransitions returns a net's transitions in identifier order.
func sortedTransitions(net *petri.Net) []*petri.Transition {
	return net.QueryTransitions(nil)
}
