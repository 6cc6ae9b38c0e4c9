package petri

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/emergent-company/workcell/internal/entity"
)

// Net is the labelled Petri-net container produced by each pipeline
// stage. Stages never mutate a predecessor net; they clone it and
// extend the clone.
type Net struct {
	ID             entity.ID
	Name           string
	Places         map[entity.ID]*Place
	Transitions    map[entity.ID]*Transition
	InitialMarking map[entity.ID]int
	Names          entity.Names
}

// NewNet creates an empty net.
func NewNet(name string) *Net {
	return &Net{
		ID:             entity.NewID(),
		Name:           name,
		Places:         map[entity.ID]*Place{},
		Transitions:    map[entity.ID]*Transition{},
		InitialMarking: map[entity.ID]int{},
		Names:          entity.Names{},
	}
}

// Clone returns a deep copy of the net under a new identifier.
func (n *Net) Clone() *Net {
	out := NewNet(n.Name)
	for id, p := range n.Places {
		out.Places[id] = p.Clone()
	}
	for id, t := range n.Transitions {
		out.Transitions[id] = t.Clone()
	}
	for id, count := range n.InitialMarking {
		out.InitialMarking[id] = count
	}
	out.Names = n.Names.Clone()
	return out
}

// InsertPlace adds or replaces a place, keyed by its identifier.
func (n *Net) InsertPlace(p *Place) {
	n.Places[p.ID] = p
}

// InsertPlaceMarked adds or replaces a place and sets its initial
// marking in one step.
func (n *Net) InsertPlaceMarked(p *Place, marking int) {
	n.Places[p.ID] = p
	n.InitialMarking[p.ID] = marking
}

// InsertTransition adds or replaces a transition, keyed by its
// identifier.
func (n *Net) InsertTransition(t *Transition) {
	n.Transitions[t.ID] = t
}

// RemovePlace deletes a place and its initial marking entry. Arcs
// referencing the place are the caller's responsibility.
func (n *Net) RemovePlace(id entity.ID) {
	delete(n.Places, id)
	delete(n.InitialMarking, id)
}

// RemoveTransition deletes a transition.
func (n *Net) RemoveTransition(id entity.ID) {
	delete(n.Transitions, id)
}

// QueryPlaces returns every place matching all queries, ordered by
// identifier so results are stable.
func (n *Net) QueryPlaces(queries []Query) []*Place {
	var out []*Place
	for _, p := range n.Places {
		if p.HasData(queries) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// QueryTransitions returns every transition matching all queries,
// ordered by identifier.
func (n *Net) QueryTransitions(queries []Query) []*Transition {
	var out []*Transition
	for _, t := range n.Transitions {
		if t.HasData(queries) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// FirstPlace returns the lone place matching the queries. It is used
// where the pipeline's invariants guarantee exactly one match.
func (n *Net) FirstPlace(queries []Query) (*Place, error) {
	matches := n.QueryPlaces(queries)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no place matches query")
	}
	return matches[0], nil
}

// KeepFunc decides, for a transition incident to a place being split
// and one split's additional metadata, whether the transition is
// duplicated onto that split.
type KeepFunc func(t *Transition, splitData []Data) bool

// SplitPlace replaces the place with one new place per split. Each new
// place copies the original's name, token set, and initial marking, and
// extends its metadata with the split's entries. Every transition
// touching the place is duplicated once per split the keep function
// admits, rewired to that split's place and stamped with the split's
// metadata; the original place and its incident transitions are
// removed. The new place identifiers are returned in split order.
func (n *Net) SplitPlace(placeID entity.ID, splits [][]Data, keep KeepFunc) ([]entity.ID, error) {
	p, ok := n.Places[placeID]
	if !ok {
		return nil, fmt.Errorf("split place: no place %s in net %q", placeID, n.Name)
	}
	marking := n.InitialMarking[placeID]

	newPlaces := make([]*Place, 0, len(splits))
	for _, split := range splits {
		meta := make([]Data, 0, len(p.MetaData)+len(split))
		meta = append(meta, p.MetaData...)
		meta = append(meta, split...)
		np := NewPlace(p.Name, p.Tokens, meta)
		newPlaces = append(newPlaces, np)
	}

	incident := make([]*Transition, 0)
	for _, t := range n.Transitions {
		if t.Touches(placeID) {
			incident = append(incident, t)
		}
	}
	sort.Slice(incident, func(i, j int) bool {
		return bytes.Compare(incident[i].ID[:], incident[j].ID[:]) < 0
	})

	for _, t := range incident {
		for i, split := range splits {
			if !keep(t, split) {
				continue
			}
			dup := t.CloneFresh()
			if sig, ok := dup.Input[placeID]; ok {
				delete(dup.Input, placeID)
				dup.Input[newPlaces[i].ID] = sig
			}
			if sig, ok := dup.Output[placeID]; ok {
				delete(dup.Output, placeID)
				dup.Output[newPlaces[i].ID] = sig
			}
			dup.MetaData = append(dup.MetaData, split...)
			n.InsertTransition(dup)
		}
		n.RemoveTransition(t.ID)
	}

	n.RemovePlace(placeID)
	ids := make([]entity.ID, 0, len(newPlaces))
	for _, np := range newPlaces {
		n.InsertPlaceMarked(np, marking)
		ids = append(ids, np.ID)
	}
	return ids, nil
}

// sortedPlaces returns the places ordered by identifier.
func (n *Net) sortedPlaces() []*Place {
	out := make([]*Place, 0, len(n.Places))
	for _, p := range n.Places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// sortedTransitions returns the transitions ordered by identifier.
func (n *Net) sortedTransitions() []*Transition {
	out := make([]*Transition, 0, len(n.Transitions))
	for _, t := range n.Transitions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// Validate checks the structural invariants every compiled net must
// satisfy: arcs reference existing places and all metadata is present.
func (n *Net) Validate() error {
	for _, t := range n.sortedTransitions() {
		if len(t.MetaData) == 0 {
			return fmt.Errorf("transition %q has no metadata", t.Name)
		}
		for placeID := range t.Input {
			if _, ok := n.Places[placeID]; !ok {
				return fmt.Errorf("transition %q reads from unknown place %s", t.Name, placeID)
			}
		}
		for placeID := range t.Output {
			if _, ok := n.Places[placeID]; !ok {
				return fmt.Errorf("transition %q writes to unknown place %s", t.Name, placeID)
			}
		}
	}
	return nil
}
