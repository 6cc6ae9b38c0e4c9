// Package petri implements the labelled Petri nets produced by the
// compilation pipeline: places, transitions, arc signatures, the typed
// metadata vocabulary used to tag net elements, and the container
// operations (query, split, DOT export) the pipeline is built from.
package petri

import "github.com/emergent-company/workcell/internal/entity"

// DataTag discriminates the metadata vocabulary. Tags identify what a
// place or transition represents; the attached identifiers say which
// entity it represents it for.
type DataTag string

const (
	TagTarget          DataTag = "target"
	TagTargetSituated  DataTag = "targetSituated"
	TagTargetUnplaced  DataTag = "targetUnplaced"
	TagAgent           DataTag = "agent"
	TagAgentIndet      DataTag = "agentIndeterminate"
	TagAgentSituated   DataTag = "agentSituated"
	TagAgentDiscard    DataTag = "agentDiscard"
	TagAgentPresent    DataTag = "agentPresent"
	TagAgentAdd        DataTag = "agentAdd"
	TagAgentTaskLock   DataTag = "agentTaskLock"
	TagTask            DataTag = "task"
	TagUnallocatedTask DataTag = "unallocatedTask"
	TagAllocatedTask   DataTag = "allocatedTask"
	TagSetup           DataTag = "setup"
	TagAgentAgnostic   DataTag = "agentAgnostic"
	TagSimulation      DataTag = "simulation"
	TagStanding        DataTag = "standing"
	TagHand            DataTag = "hand"
	TagFromStandingPOI DataTag = "fromStandingPOI"
	TagToStandingPOI   DataTag = "toStandingPOI"
	TagFromHandPOI     DataTag = "fromHandPOI"
	TagToHandPOI       DataTag = "toHandPOI"
	TagAction          DataTag = "action"
	TagPrimitiveAssign DataTag = "primitiveAssignment"
	TagErgoWholeBody   DataTag = "ergoWholeBody"
	TagErgoArm         DataTag = "ergoArm"
	TagErgoHand        DataTag = "ergoHand"
)

// Data is one tagged metadata entry. Primary carries the entity the tag
// is about; Secondary carries the owning entity for the two-identifier
// variants (a POI tag's agent or target, an assignment's primitive).
type Data struct {
	Tag       DataTag   `json:"tag"`
	Primary   entity.ID `json:"primary,omitempty"`
	Secondary entity.ID `json:"secondary,omitempty"`
}

// Single-identifier constructors.

func TargetData(target entity.ID) Data         { return Data{Tag: TagTarget, Primary: target} }
func TargetSituated(target entity.ID) Data     { return Data{Tag: TagTargetSituated, Primary: target} }
func TargetUnplaced(target entity.ID) Data     { return Data{Tag: TagTargetUnplaced, Primary: target} }
func AgentData(agent entity.ID) Data           { return Data{Tag: TagAgent, Primary: agent} }
func AgentIndeterminate(agent entity.ID) Data  { return Data{Tag: TagAgentIndet, Primary: agent} }
func AgentSituated(agent entity.ID) Data       { return Data{Tag: TagAgentSituated, Primary: agent} }
func AgentDiscard(agent entity.ID) Data        { return Data{Tag: TagAgentDiscard, Primary: agent} }
func AgentPresent(agent entity.ID) Data        { return Data{Tag: TagAgentPresent, Primary: agent} }
func AgentAdd(agent entity.ID) Data            { return Data{Tag: TagAgentAdd, Primary: agent} }
func AgentTaskLock(agent entity.ID) Data       { return Data{Tag: TagAgentTaskLock, Primary: agent} }
func TaskData(task entity.ID) Data             { return Data{Tag: TagTask, Primary: task} }
func UnallocatedTask(task entity.ID) Data      { return Data{Tag: TagUnallocatedTask, Primary: task} }
func AllocatedTask(task entity.ID) Data        { return Data{Tag: TagAllocatedTask, Primary: task} }
func Action(agent entity.ID) Data              { return Data{Tag: TagAction, Primary: agent} }
func ErgoWholeBody(agent entity.ID) Data       { return Data{Tag: TagErgoWholeBody, Primary: agent} }
func ErgoArm(agent entity.ID) Data             { return Data{Tag: TagErgoArm, Primary: agent} }
func ErgoHand(agent entity.ID) Data            { return Data{Tag: TagErgoHand, Primary: agent} }

// Marker constructors.

func Setup() Data         { return Data{Tag: TagSetup} }
func AgentAgnostic() Data { return Data{Tag: TagAgentAgnostic} }
func Simulation() Data    { return Data{Tag: TagSimulation} }

// Two-identifier constructors. The POI is always the primary
// identifier; the owner (agent for situated splits, target for
// target-hand splits) is secondary.

func Standing(poi, owner entity.ID) Data        { return Data{Tag: TagStanding, Primary: poi, Secondary: owner} }
func Hand(poi, owner entity.ID) Data            { return Data{Tag: TagHand, Primary: poi, Secondary: owner} }
func FromStandingPOI(poi, agent entity.ID) Data { return Data{Tag: TagFromStandingPOI, Primary: poi, Secondary: agent} }
func ToStandingPOI(poi, agent entity.ID) Data   { return Data{Tag: TagToStandingPOI, Primary: poi, Secondary: agent} }
func FromHandPOI(poi, agent entity.ID) Data     { return Data{Tag: TagFromHandPOI, Primary: poi, Secondary: agent} }
func ToHandPOI(poi, agent entity.ID) Data       { return Data{Tag: TagToHandPOI, Primary: poi, Secondary: agent} }

// PrimitiveAssignment records that agent executes primitive as part of
// the carrying transition.
func PrimitiveAssignment(agent, primitive entity.ID) Data {
	return Data{Tag: TagPrimitiveAssign, Primary: agent, Secondary: primitive}
}

// FuzzyEq reports whether the two entries carry the same tag,
// regardless of identifiers.
func (d Data) FuzzyEq(other Data) bool {
	return d.Tag == other.Tag
}

// ID returns the primary identifier, or entity.Nil for marker tags.
func (d Data) ID() entity.ID {
	return d.Primary
}

// Subset reports whether every entry of sub occurs in data. With fuzzy
// set, entries match on tag alone.
func Subset(data, sub []Data, fuzzy bool) bool {
	for _, s := range sub {
		found := false
		for _, d := range data {
			if (fuzzy && d.FuzzyEq(s)) || (!fuzzy && d == s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// QueryKind selects how a Query matches a metadata entry.
type QueryKind int

const (
	queryData QueryKind = iota
	queryTag
	queryTagPrimary
)

// Query is one predicate over metadata. An element matches a list of
// queries iff every query matches at least one of its entries.
type Query struct {
	kind    QueryKind
	data    Data
	tag     DataTag
	primary entity.ID
}

// ByData matches entries equal to d.
func ByData(d Data) Query {
	return Query{kind: queryData, data: d}
}

// ByTag matches any entry carrying tag.
func ByTag(tag DataTag) Query {
	return Query{kind: queryTag, tag: tag}
}

// ByTagPrimary matches entries carrying tag whose primary identifier
// equals id, ignoring the secondary identifier.
func ByTagPrimary(tag DataTag, id entity.ID) Query {
	return Query{kind: queryTagPrimary, tag: tag, primary: id}
}

// Matches reports whether the query matches the single entry d.
func (q Query) Matches(d Data) bool {
	switch q.kind {
	case queryData:
		return d == q.data
	case queryTag:
		return d.Tag == q.tag
	case queryTagPrimary:
		return d.Tag == q.tag && d.Primary == q.primary
	default:
		return false
	}
}

// MatchesAll reports whether every query matches at least one entry.
func MatchesAll(data []Data, queries []Query) bool {
	for _, q := range queries {
		found := false
		for _, d := range data {
			if q.Matches(d) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindTag returns the first entry carrying tag, if any.
func FindTag(data []Data, tag DataTag) (Data, bool) {
	for _, d := range data {
		if d.Tag == tag {
			return d, true
		}
	}
	return Data{}, false
}

// FilterTag returns every entry carrying tag, in order.
func FilterTag(data []Data, tag DataTag) []Data {
	var out []Data
	for _, d := range data {
		if d.Tag == tag {
			out = append(out, d)
		}
	}
	return out
}

// HasTag reports whether any entry carries tag.
func HasTag(data []Data, tag DataTag) bool {
	_, ok := FindTag(data, tag)
	return ok
}
