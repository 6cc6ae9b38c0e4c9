package job

import (
	"math"

	"github.com/emergent-company/workcell/internal/entity"
)

// POIKind discriminates points of interest: footholds an agent stands
// at and workpoints a hand operates at.
type POIKind string

const (
	StandingPOI POIKind = "standing"
	HandPOI     POIKind = "hand"
)

// Shape is the rough geometry of the workspace around a POI.
type Shape string

const (
	Ellipsoid Shape = "ellipsoid"
	Cuboid    Shape = "cuboid"
)

// POI is a named location in the cell.
type POI struct {
	ID           entity.ID `json:"id"`
	Kind         POIKind   `json:"type"`
	Name         string    `json:"name"`
	Position     Vec3      `json:"position"`
	Shape        Shape     `json:"shape"`
	Displacement Vec3      `json:"displacement"`
	// Variability rates how much the workpiece pose varies between
	// executions; Structure rates how organised the surroundings are.
	Variability Rating `json:"variability"`
	Structure   Rating `json:"structure"`
}

// NewPOI creates a POI with medium variability and structure and an
// ellipsoid workspace.
func NewPOI(kind POIKind, name string, x, y, z float64) *POI {
	return &POI{
		ID:          entity.NewID(),
		Kind:        kind,
		Name:        name,
		Position:    Vec3{X: x, Y: y, Z: z},
		Shape:       Ellipsoid,
		Variability: Medium,
		Structure:   Medium,
	}
}

// Reachable reports whether agent can operate at the hand POI of the
// pair while standing at its standing POI. The predicate is symmetric
// in its arguments and false for two POIs of the same kind.
//
// Robots reach any point between 5% and 100% of their reach radius.
// Humans compare the horizontal distance when the workpoint is at or
// below shoulder height (they can bend down), and the full distance
// from the shoulder when it is above.
func (p *POI) Reachable(hand *POI, agent Agent) bool {
	if p.Kind == hand.Kind {
		return false
	}
	if p.Kind == HandPOI {
		return hand.Reachable(p, agent)
	}
	switch a := agent.(type) {
	case *Robot:
		d := Distance(p.Position, hand.Position)
		return d <= a.Reach && d >= a.Reach*0.05
	case *Human:
		shoulder := p.Position
		shoulder.Z += a.AcromialHeight
		if hand.Position.Z <= shoulder.Z {
			return HorizontalDistance(p.Position, hand.Position) <= a.Reach
		}
		return Distance(shoulder, hand.Position) <= a.Reach
	default:
		return false
	}
}

// Travelable reports whether agent can move between two standing POIs.
// Humans always can; robots need a mobile base and near-level ground.
func (p *POI) Travelable(other *POI, agent Agent) bool {
	if p.Kind != StandingPOI || other.Kind != StandingPOI {
		return false
	}
	switch a := agent.(type) {
	case *Robot:
		return a.MobileSpeed > 0 && math.Abs(p.Position.Z-other.Position.Z) <= 0.05
	default:
		return true
	}
}
