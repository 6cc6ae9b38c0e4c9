package petri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-company/workcell/internal/entity"
)

func TestDataSubsetMismatchedInnerStrict(t *testing.T) {
	id1 := entity.NewID()
	id2 := entity.NewID()
	transition := NewTransition("test", nil, nil, []Data{TaskData(id1), AgentData(id2)}, 0, 0)
	assert.False(t, Subset(transition.MetaData, []Data{TaskData(id2)}, false))
}

func TestDataSubsetMismatchedInnerFuzzy(t *testing.T) {
	id1 := entity.NewID()
	id2 := entity.NewID()
	transition := NewTransition("test", nil, nil, []Data{TaskData(id1), AgentData(id2)}, 0, 0)
	assert.True(t, Subset(transition.MetaData, []Data{TaskData(id2)}, true))
}

func TestDataSubsetMatchedInnerStrict(t *testing.T) {
	id1 := entity.NewID()
	id2 := entity.NewID()
	transition := NewTransition("test", nil, nil, []Data{TaskData(id1), AgentData(id2)}, 0, 0)
	assert.True(t, Subset(transition.MetaData, []Data{TaskData(id1)}, false))
}

func TestQueryKinds(t *testing.T) {
	agent := entity.NewID()
	poi := entity.NewID()
	other := entity.NewID()
	meta := []Data{Hand(poi, agent), Action(agent)}

	assert.True(t, MatchesAll(meta, []Query{ByData(Hand(poi, agent))}))
	assert.False(t, MatchesAll(meta, []Query{ByData(Hand(poi, other))}))

	assert.True(t, MatchesAll(meta, []Query{ByTag(TagHand)}))
	assert.False(t, MatchesAll(meta, []Query{ByTag(TagStanding)}))

	// Primary-only matching ignores the owner.
	assert.True(t, MatchesAll(meta, []Query{ByTagPrimary(TagHand, poi)}))
	assert.False(t, MatchesAll(meta, []Query{ByTagPrimary(TagHand, other)}))

	// A list matches only if every query matches.
	assert.True(t, MatchesAll(meta, []Query{ByTag(TagHand), ByData(Action(agent))}))
	assert.False(t, MatchesAll(meta, []Query{ByTag(TagHand), ByData(Action(other))}))
}

func TestFilterAndFindTag(t *testing.T) {
	agent := entity.NewID()
	p1 := entity.NewID()
	p2 := entity.NewID()
	meta := []Data{PrimitiveAssignment(agent, p1), PrimitiveAssignment(agent, p2), Action(agent)}

	found, ok := FindTag(meta, TagAction)
	require.True(t, ok)
	assert.Equal(t, agent, found.Primary)

	assigns := FilterTag(meta, TagPrimitiveAssign)
	require.Len(t, assigns, 2)
	assert.Equal(t, p1, assigns[0].Secondary)
	assert.Equal(t, p2, assigns[1].Secondary)
}
