package petri

import "github.com/emergent-company/workcell/internal/entity"

// Matrices is the dense matrix form of a net: rows are places, columns
// are transitions, both in identifier order. Arcs records arc presence,
// Weights the arc multiplicities (the guaranteed minimum for range
// arcs), and Incidence the net token change per place and transition.
type Matrices struct {
	PlaceOrder      []entity.ID
	TransitionOrder []entity.ID
	Arcs            [][]int
	Weights         [][]int
	Incidence       [][]int
}

// Incidence computes the matrix form of the net.
func (n *Net) Incidence() Matrices {
	places := n.sortedPlaces()
	transitions := n.sortedTransitions()

	placeRow := make(map[entity.ID]int, len(places))
	m := Matrices{
		PlaceOrder:      make([]entity.ID, len(places)),
		TransitionOrder: make([]entity.ID, len(transitions)),
	}
	for i, p := range places {
		m.PlaceOrder[i] = p.ID
		placeRow[p.ID] = i
	}
	m.Arcs = newMatrix(len(places), len(transitions))
	m.Weights = newMatrix(len(places), len(transitions))
	m.Incidence = newMatrix(len(places), len(transitions))

	for j, t := range transitions {
		m.TransitionOrder[j] = t.ID
		for placeID, sig := range t.Input {
			i := placeRow[placeID]
			m.Arcs[i][j] = 1
			m.Weights[i][j] = sig.Min
			m.Incidence[i][j] -= sig.Min
		}
		for placeID, sig := range t.Output {
			i := placeRow[placeID]
			m.Arcs[i][j] = 1
			m.Weights[i][j] = sig.Min
			m.Incidence[i][j] += sig.Min
		}
	}
	return m
}

func newMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}
