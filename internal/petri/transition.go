package petri

import "github.com/emergent-company/workcell/internal/entity"

// Transition is one event node of a net. Input and output map place
// identifiers to arc signatures. Cost accumulates one-off monetary
// cost; Time is the execution time in seconds.
type Transition struct {
	ID       entity.ID               `json:"id"`
	Name     string                  `json:"name"`
	Input    map[entity.ID]Signature `json:"input"`
	Output   map[entity.ID]Signature `json:"output"`
	MetaData []Data                  `json:"metaData"`
	Cost     float64                 `json:"cost"`
	Time     float64                 `json:"time"`
}

// NewTransition creates a transition with a fresh identifier. The
// input and output maps are taken over by the transition.
func NewTransition(name string, input, output map[entity.ID]Signature, metaData []Data, cost, time float64) *Transition {
	if input == nil {
		input = map[entity.ID]Signature{}
	}
	if output == nil {
		output = map[entity.ID]Signature{}
	}
	return &Transition{
		ID:       entity.NewID(),
		Name:     name,
		Input:    input,
		Output:   output,
		MetaData: metaData,
		Cost:     cost,
		Time:     time,
	}
}

// AddInput records an input arc from place. Static weights on the same
// place accumulate; any other combination replaces the existing arc.
func (t *Transition) AddInput(place entity.ID, sig Signature) {
	t.Input[place] = combine(t.Input[place], sig, t.hasInput(place))
}

// AddOutput records an output arc to place, accumulating like AddInput.
func (t *Transition) AddOutput(place entity.ID, sig Signature) {
	t.Output[place] = combine(t.Output[place], sig, t.hasOutput(place))
}

func (t *Transition) hasInput(place entity.ID) bool {
	_, ok := t.Input[place]
	return ok
}

func (t *Transition) hasOutput(place entity.ID) bool {
	_, ok := t.Output[place]
	return ok
}

func combine(existing, sig Signature, present bool) Signature {
	if present && existing.Kind == StaticKind && sig.Kind == StaticKind {
		return Static(existing.Min + sig.Min)
	}
	return sig
}

// HasData reports whether every query matches at least one metadata
// entry of the transition.
func (t *Transition) HasData(queries []Query) bool {
	return MatchesAll(t.MetaData, queries)
}

// Touches reports whether the transition has an arc to or from place.
func (t *Transition) Touches(place entity.ID) bool {
	return t.hasInput(place) || t.hasOutput(place)
}

// Clone returns a deep copy with the same identifier.
func (t *Transition) Clone() *Transition {
	input := make(map[entity.ID]Signature, len(t.Input))
	for id, sig := range t.Input {
		input[id] = sig
	}
	output := make(map[entity.ID]Signature, len(t.Output))
	for id, sig := range t.Output {
		output[id] = sig
	}
	meta := make([]Data, len(t.MetaData))
	copy(meta, t.MetaData)
	return &Transition{
		ID:       t.ID,
		Name:     t.Name,
		Input:    input,
		Output:   output,
		MetaData: meta,
		Cost:     t.Cost,
		Time:     t.Time,
	}
}

// CloneFresh returns a deep copy under a new identifier, used when a
// builder stage specialises an inherited transition.
func (t *Transition) CloneFresh() *Transition {
	c := t.Clone()
	c.ID = entity.NewID()
	return c
}
