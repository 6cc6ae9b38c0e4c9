package compile

import (
	"fmt"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

// buildPOI embeds the agent net in space: agent-situated places split
// by reachable (standing, hand) pairs, reach/travel transitions
// between them, task transitions pinned to single hand POIs, target
// places split by hand POI, and move/carry transitions relocating
// targets along the agents' existing motions.
func (c *Compiler) buildPOI(agentNet *petri.Net) (*petri.Net, error) {
	net := agentNet.Clone()

	var standings, hands []*job.POI
	for _, poi := range c.job.SortedPOIs() {
		if poi.Kind == job.StandingPOI {
			standings = append(standings, poi)
		} else {
			hands = append(hands, poi)
		}
		net.Names.Set(poi.ID, poi.Name)
	}

	// Without both POI kinds there is no spatial structure to embed.
	if len(standings) == 0 || len(hands) == 0 {
		return net, nil
	}

	for _, agent := range c.job.SortedAgents() {
		if err := c.embedAgent(net, agent, standings, hands); err != nil {
			return nil, err
		}
	}

	c.restrictTaskTransitions(net)

	if err := c.embedTargets(net, hands); err != nil {
		return nil, err
	}
	return net, nil
}

// embedAgent splits the agent's situated place by its valid
// (standing, hand) pairs and synthesises reach and travel transitions
// between the resulting places.
func (c *Compiler) embedAgent(net *petri.Net, agent job.Agent, standings, hands []*job.POI) error {
	agentID := agent.AgentID()

	var pairs [][]petri.Data
	for _, standing := range standings {
		for _, hand := range hands {
			if standing.Reachable(hand, agent) {
				pairs = append(pairs, []petri.Data{
					petri.Standing(standing.ID, agentID),
					petri.Hand(hand.ID, agentID),
				})
			}
		}
	}

	// An agent that cannot reach any workpoint keeps its unsplit
	// situated place; splitting by zero pairs would erase the place
	// and every transition wired to it.
	if len(pairs) == 0 {
		c.logger.Warn("agent reaches no (standing, hand) pair", "agent", agent.AgentName())
		return nil
	}

	situated, err := net.FirstPlace([]petri.Query{petri.ByData(petri.AgentSituated(agentID))})
	if err != nil {
		return fmt.Errorf("embedding agent %q: %w", agent.AgentName(), err)
	}
	if _, err := net.SplitPlace(situated.ID, pairs, func(*petri.Transition, []petri.Data) bool {
		return true
	}); err != nil {
		return fmt.Errorf("embedding agent %q: %w", agent.AgentName(), err)
	}

	poses := net.QueryPlaces([]petri.Query{
		petri.ByTag(petri.TagStanding),
		petri.ByTag(petri.TagHand),
		petri.ByData(petri.AgentSituated(agentID)),
	})

	var created []*petri.Transition
	for i := 0; i < len(poses); i++ {
		for j := i + 1; j < len(poses); j++ {
			created = append(created, c.connectPoses(net, agent, poses[i], poses[j])...)
		}
	}
	for _, t := range created {
		net.InsertTransition(t)
	}
	return nil
}

// connectPoses synthesises the reach or travel transitions between two
// of an agent's pose places, one per direction.
func (c *Compiler) connectPoses(net *petri.Net, agent job.Agent, a, b *petri.Place) []*petri.Transition {
	standingA, _ := petri.FindTag(a.MetaData, petri.TagStanding)
	standingB, _ := petri.FindTag(b.MetaData, petri.TagStanding)
	handA, _ := petri.FindTag(a.MetaData, petri.TagHand)
	handB, _ := petri.FindTag(b.MetaData, petri.TagHand)

	standing1 := c.job.POIs[standingA.Primary]
	standing2 := c.job.POIs[standingB.Primary]
	hand1 := c.job.POIs[handA.Primary]
	hand2 := c.job.POIs[handB.Primary]

	if standing1.ID == standing2.ID {
		if !standing1.Reachable(hand2, agent) {
			return nil
		}
		return []*petri.Transition{
			c.reachTransition(net, agent, standing1, hand1, hand2, a, b),
			c.reachTransition(net, agent, standing1, hand2, hand1, b, a),
		}
	}
	if !standing1.Travelable(standing2, agent) {
		return nil
	}
	return []*petri.Transition{
		c.travelTransition(net, agent, standing1, standing2, hand1, hand2, a, b),
		c.travelTransition(net, agent, standing2, standing1, hand2, hand1, b, a),
	}
}

func (c *Compiler) reachTransition(net *petri.Net, agent job.Agent, standing, fromHand, toHand *job.POI, from, to *petri.Place) *petri.Transition {
	agentID := agent.AgentID()
	primitive := job.NewReach(standing.ID, fromHand.ID, toHand.ID)
	c.registerPrimitive(net, primitive)
	return petri.NewTransition(
		fmt.Sprintf("%s:Reach:%s->%s", agent.AgentName(), fromHand.Name, toHand.Name),
		map[entity.ID]petri.Signature{from.ID: petri.Static(1)},
		map[entity.ID]petri.Signature{to.ID: petri.Static(1)},
		[]petri.Data{
			petri.AgentData(agentID),
			petri.Standing(standing.ID, agentID),
			petri.FromHandPOI(fromHand.ID, agentID),
			petri.ToHandPOI(toHand.ID, agentID),
			petri.Action(agentID),
			petri.PrimitiveAssignment(agentID, primitive.ID),
		},
		0, 0,
	)
}

func (c *Compiler) travelTransition(net *petri.Net, agent job.Agent, fromStanding, toStanding, fromHand, toHand *job.POI, from, to *petri.Place) *petri.Transition {
	agentID := agent.AgentID()
	primitive := job.NewTravel(fromStanding.ID, toStanding.ID, fromHand.ID, toHand.ID)
	c.registerPrimitive(net, primitive)
	return petri.NewTransition(
		fmt.Sprintf("%s:Travel:%s->%s", agent.AgentName(), fromStanding.Name, toStanding.Name),
		map[entity.ID]petri.Signature{from.ID: petri.Static(1)},
		map[entity.ID]petri.Signature{to.ID: petri.Static(1)},
		[]petri.Data{
			petri.AgentData(agentID),
			petri.Hand(fromHand.ID, agentID),
			petri.FromStandingPOI(fromStanding.ID, agentID),
			petri.ToStandingPOI(toStanding.ID, agentID),
			petri.FromHandPOI(fromHand.ID, agentID),
			petri.ToHandPOI(toHand.ID, agentID),
			petri.Action(agentID),
			petri.PrimitiveAssignment(agentID, primitive.ID),
		},
		0, 0,
	)
}

// restrictTaskTransitions drops task-transition variants whose hand
// POIs disagree or fall outside the task's allowed set. A surviving
// variant executes at exactly one hand POI with every participating
// agent co-located there.
func (c *Compiler) restrictTaskTransitions(net *petri.Net) {
	for _, transition := range sortedTransitions(net) {
		if !petri.HasTag(transition.MetaData, petri.TagTask) || !petri.HasTag(transition.MetaData, petri.TagHand) {
			continue
		}
		taskTag, _ := petri.FindTag(transition.MetaData, petri.TagTask)
		task := c.job.Tasks[taskTag.Primary]

		handTags := petri.FilterTag(transition.MetaData, petri.TagHand)
		poi := handTags[0].Primary
		uniform := true
		for _, tag := range handTags[1:] {
			if tag.Primary != poi {
				uniform = false
				break
			}
		}
		if !uniform || !task.AllowsPOI(poi) {
			net.RemoveTransition(transition.ID)
		}
	}
}

// embedTargets splits every target's situated place by hand POI and
// synthesises move/carry transitions along the agents' existing
// reach/travel motions.
func (c *Compiler) embedTargets(net *petri.Net, hands []*job.POI) error {
	var created []*petri.Transition
	for _, target := range c.job.SortedTargets() {
		situated, err := net.FirstPlace([]petri.Query{petri.ByData(petri.TargetSituated(target.ID))})
		if err != nil {
			return fmt.Errorf("embedding target %q: %w", target.Name, err)
		}

		splits := make([][]petri.Data, 0, len(hands))
		for _, hand := range hands {
			splits = append(splits, []petri.Data{petri.Hand(hand.ID, target.ID)})
		}
		newPlaces, err := net.SplitPlace(situated.ID, splits, func(t *petri.Transition, splitData []petri.Data) bool {
			if t.HasData([]petri.Query{petri.ByData(petri.TargetSituated(target.ID))}) {
				return true
			}
			// Agent-agnostic transitions (setup, completion) are
			// location-independent and stay wired to every split.
			if petri.HasTag(t.MetaData, petri.TagAgentAgnostic) {
				return true
			}
			hand, _ := petri.FindTag(splitData, petri.TagHand)
			return t.HasData([]petri.Query{petri.ByTagPrimary(petri.TagHand, hand.Primary)})
		})
		if err != nil {
			return fmt.Errorf("embedding target %q: %w", target.Name, err)
		}

		for i := 0; i < len(newPlaces); i++ {
			for j := i + 1; j < len(newPlaces); j++ {
				created = append(created, c.transportTransitions(net, target, net.Places[newPlaces[i]], net.Places[newPlaces[j]])...)
			}
		}
	}
	for _, t := range created {
		net.InsertTransition(t)
	}
	return nil
}

// transportTransitions synthesises move or carry transitions between
// two hand-split places of a target, one pair per existing directed
// agent motion between the hand POIs.
func (c *Compiler) transportTransitions(net *petri.Net, target *job.Target, q1, q2 *petri.Place) []*petri.Transition {
	hand1Tag, _ := petri.FindTag(q1.MetaData, petri.TagHand)
	hand2Tag, _ := petri.FindTag(q2.MetaData, petri.TagHand)
	hand1 := c.job.POIs[hand1Tag.Primary]
	hand2 := c.job.POIs[hand2Tag.Primary]

	motions := net.QueryTransitions([]petri.Query{
		petri.ByTag(petri.TagAgent),
		petri.ByTagPrimary(petri.TagFromHandPOI, hand1.ID),
		petri.ByTagPrimary(petri.TagToHandPOI, hand2.ID),
	})

	var out []*petri.Transition
	for _, motion := range motions {
		agentTag, _ := petri.FindTag(motion.MetaData, petri.TagAgent)
		agent := c.job.Agents[agentTag.Primary]
		if !target.Carryable(agent) {
			continue
		}
		fromStanding := findStanding(motion.MetaData, petri.TagFromStandingPOI)
		toStanding := findStanding(motion.MetaData, petri.TagToStandingPOI)

		var forward, backward *job.Primitive
		if fromStanding == toStanding {
			forward = job.NewMove(target.ID, fromStanding, hand1.ID, hand2.ID)
			backward = job.NewMove(target.ID, fromStanding, hand2.ID, hand1.ID)
		} else {
			forward = job.NewCarry(target.ID, fromStanding, toStanding, hand1.ID, hand2.ID)
			backward = job.NewCarry(target.ID, toStanding, fromStanding, hand2.ID, hand1.ID)
		}
		c.registerPrimitive(net, forward)
		c.registerPrimitive(net, backward)

		agentID := agent.AgentID()
		metaForward := transportMeta(agentID, target.ID, forward, hand1.ID, hand2.ID, fromStanding, toStanding)
		metaBackward := transportMeta(agentID, target.ID, backward, hand2.ID, hand1.ID, toStanding, fromStanding)

		t1 := petri.NewTransition(
			fmt.Sprintf("Transport:%s:%s:%s->%s", agent.AgentName(), target.Name, hand1.Name, hand2.Name),
			cloneArcs(motion.Input), cloneArcs(motion.Output),
			metaForward, 0, 0,
		)
		t1.AddInput(q1.ID, petri.Static(1))
		t1.AddOutput(q2.ID, petri.Static(1))

		t2 := petri.NewTransition(
			fmt.Sprintf("Transport:%s:%s:%s->%s", agent.AgentName(), target.Name, hand2.Name, hand1.Name),
			cloneArcs(motion.Output), cloneArcs(motion.Input),
			metaBackward, 0, 0,
		)
		t2.AddInput(q2.ID, petri.Static(1))
		t2.AddOutput(q1.ID, petri.Static(1))

		out = append(out, t1, t2)
	}
	return out
}

// findStanding resolves the standing POI a motion departs from or
// arrives at; reach motions carry a single Standing tag for both.
func findStanding(meta []petri.Data, directed petri.DataTag) entity.ID {
	if d, ok := petri.FindTag(meta, directed); ok {
		return d.Primary
	}
	d, _ := petri.FindTag(meta, petri.TagStanding)
	return d.Primary
}

func transportMeta(agent, target entity.ID, primitive *job.Primitive, fromHand, toHand, fromStanding, toStanding entity.ID) []petri.Data {
	meta := []petri.Data{
		petri.AgentData(agent),
		petri.TargetData(target),
	}
	if fromStanding == toStanding {
		meta = append(meta, petri.Standing(fromStanding, agent))
	} else {
		meta = append(meta,
			petri.FromStandingPOI(fromStanding, agent),
			petri.ToStandingPOI(toStanding, agent),
		)
	}
	meta = append(meta,
		petri.FromHandPOI(fromHand, agent),
		petri.ToHandPOI(toHand, agent),
		petri.Action(agent),
		petri.PrimitiveAssignment(agent, primitive.ID),
	)
	return meta
}

func cloneArcs(arcs map[entity.ID]petri.Signature) map[entity.ID]petri.Signature {
	out := make(map[entity.ID]petri.Signature, len(arcs))
	for id, sig := range arcs {
		out[id] = sig
	}
	return out
}
