package job

import "github.com/emergent-company/workcell/internal/entity"

// PrimitiveKind discriminates the primitive union. Selection and
// Inspect are cognitive, Hold through Force are physical, and the
// remaining kinds are pseudo-primitives synthesised by the POI stage.
type PrimitiveKind string

const (
	Selection PrimitiveKind = "selection"
	Inspect   PrimitiveKind = "inspect"
	Hold      PrimitiveKind = "hold"
	Position  PrimitiveKind = "position"
	Use       PrimitiveKind = "use"
	Force     PrimitiveKind = "force"
	Travel    PrimitiveKind = "travel"
	Reach     PrimitiveKind = "reach"
	Move      PrimitiveKind = "move"
	Carry     PrimitiveKind = "carry"
)

// Primitive is an elementary motion or cognitive act. Physical and
// cognitive primitives reference the target they act on; the pseudo
// kinds reference the POIs they connect. Unused fields are zero.
type Primitive struct {
	ID   entity.ID     `json:"id"`
	Kind PrimitiveKind `json:"type"`

	Target entity.ID `json:"target,omitempty"`

	// Cognitive parameters.
	Skill Rating `json:"skill,omitempty"`

	// Physical parameters.
	Degrees      float64 `json:"degrees,omitempty"`
	Displacement float64 `json:"displacement,omitempty"`
	Magnitude    float64 `json:"magnitude,omitempty"`

	// Pseudo-primitive endpoints.
	Standing     entity.ID `json:"standing,omitempty"`
	FromStanding entity.ID `json:"fromStanding,omitempty"`
	ToStanding   entity.ID `json:"toStanding,omitempty"`
	FromHand     entity.ID `json:"fromHand,omitempty"`
	ToHand       entity.ID `json:"toHand,omitempty"`
}

// NewSelection creates a selection primitive over target.
func NewSelection(target entity.ID, skill Rating) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Selection, Target: target, Skill: skill}
}

// NewInspect creates an inspection primitive over target.
func NewInspect(target entity.ID, skill Rating) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Inspect, Target: target, Skill: skill}
}

// NewHold creates a hold primitive over target.
func NewHold(target entity.ID) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Hold, Target: target}
}

// NewPosition creates a reposition primitive over target.
func NewPosition(target entity.ID, degrees, displacement float64) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Position, Target: target, Degrees: degrees, Displacement: displacement}
}

// NewUse creates a tool-use primitive over target.
func NewUse(target entity.ID) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Use, Target: target}
}

// NewForce creates a force-application primitive over target.
func NewForce(target entity.ID, magnitude float64) *Primitive {
	return &Primitive{ID: entity.NewID(), Kind: Force, Target: target, Magnitude: magnitude}
}

// NewTravel creates the pseudo-primitive of walking or driving from
// one standing POI to another while tracking a hand POI pair.
func NewTravel(fromStanding, toStanding, fromHand, toHand entity.ID) *Primitive {
	return &Primitive{
		ID: entity.NewID(), Kind: Travel,
		FromStanding: fromStanding, ToStanding: toStanding,
		FromHand: fromHand, ToHand: toHand,
	}
}

// NewReach creates the pseudo-primitive of moving the hand between two
// hand POIs from a fixed standing POI.
func NewReach(standing, fromHand, toHand entity.ID) *Primitive {
	return &Primitive{
		ID: entity.NewID(), Kind: Reach,
		Standing: standing, FromHand: fromHand, ToHand: toHand,
	}
}

// NewMove creates the pseudo-primitive of relocating target between
// two hand POIs from a fixed standing POI.
func NewMove(target, standing, fromHand, toHand entity.ID) *Primitive {
	return &Primitive{
		ID: entity.NewID(), Kind: Move, Target: target,
		Standing: standing, FromHand: fromHand, ToHand: toHand,
	}
}

// NewCarry creates the pseudo-primitive of transporting target between
// standing POIs.
func NewCarry(target, fromStanding, toStanding, fromHand, toHand entity.ID) *Primitive {
	return &Primitive{
		ID: entity.NewID(), Kind: Carry, Target: target,
		FromStanding: fromStanding, ToStanding: toStanding,
		FromHand: fromHand, ToHand: toHand,
	}
}

// HasTarget reports whether the primitive acts on a material target.
func (p *Primitive) HasTarget() bool {
	return p.Target != entity.Nil
}

// kindPair keys the cross-kind affiliation table in a symmetric way.
type kindPair struct{ a, b PrimitiveKind }

func pair(a, b PrimitiveKind) kindPair {
	if a > b {
		a, b = b, a
	}
	return kindPair{a, b}
}

// crossAffiliation ranks how strongly two different primitive kinds
// pair on the same target.
var crossAffiliation = map[kindPair]int{
	pair(Selection, Inspect):  4,
	pair(Selection, Hold):     2,
	pair(Selection, Position): 2,
	pair(Selection, Use):      2,
	pair(Selection, Force):    2,
	pair(Inspect, Hold):       4,
	pair(Inspect, Position):   4,
	pair(Inspect, Use):        3,
	pair(Inspect, Force):      2,
	pair(Hold, Use):           4,
	pair(Hold, Force):         4,
	pair(Hold, Position):      5,
	pair(Position, Use):       3,
	pair(Position, Force):     2,
	pair(Use, Force):          2,
}

// Affiliation ranks, from 1 (none) to 5 (inseparable), how strongly
// two primitives should be executed together. Primitives on different
// targets never affiliate; same-kind primitives on the same target
// affiliate fully; cross-kind pairs follow the table; pseudo kinds
// only affiliate through the default.
func (p *Primitive) Affiliation(other *Primitive) int {
	if !p.HasTarget() || !other.HasTarget() || p.Target != other.Target {
		return 1
	}
	if p.Kind == other.Kind {
		if isPseudo(p.Kind) {
			return 1
		}
		return 5
	}
	if w, ok := crossAffiliation[pair(p.Kind, other.Kind)]; ok {
		return w
	}
	return 1
}

func isPseudo(k PrimitiveKind) bool {
	switch k {
	case Travel, Reach, Move, Carry:
		return true
	default:
		return false
	}
}
