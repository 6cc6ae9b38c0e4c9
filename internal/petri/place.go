package petri

import "github.com/emergent-company/workcell/internal/entity"

// Place is one state node of a net. Its metadata is a multiset of
// typed tags identifying what the place represents; its token set
// fixes how tokens behave there.
type Place struct {
	ID       entity.ID `json:"id"`
	Name     string    `json:"name"`
	Tokens   TokenSet  `json:"tokens"`
	MetaData []Data    `json:"metaData"`
}

// NewPlace creates a place with a fresh identifier.
func NewPlace(name string, tokens TokenSet, metaData []Data) *Place {
	return &Place{
		ID:       entity.NewID(),
		Name:     name,
		Tokens:   tokens,
		MetaData: metaData,
	}
}

// HasData reports whether every query matches at least one metadata
// entry of the place.
func (p *Place) HasData(queries []Query) bool {
	return MatchesAll(p.MetaData, queries)
}

// Clone returns a deep copy sharing no mutable state.
func (p *Place) Clone() *Place {
	meta := make([]Data, len(p.MetaData))
	copy(meta, p.MetaData)
	return &Place{ID: p.ID, Name: p.Name, Tokens: p.Tokens, MetaData: meta}
}
