package job

import "github.com/emergent-company/workcell/internal/entity"

// TargetKind controls the token semantics of a target's place in the
// compiled net.
type TargetKind string

const (
	// Precursor targets are raw inputs; their place never empties.
	Precursor TargetKind = "precursor"
	// Intermediate targets are produced and consumed within the job.
	Intermediate TargetKind = "intermediate"
	// Product targets are final outputs; their place absorbs tokens.
	Product TargetKind = "product"
	// Reusable targets (tools, fixtures) cycle between an unplaced and
	// a situated place.
	Reusable TargetKind = "reusable"
)

// Target is a material item consumed or produced by tasks.
type Target struct {
	ID     entity.ID  `json:"id"`
	Kind   TargetKind `json:"type"`
	Name   string     `json:"name"`
	Size   float64    `json:"size"`   // m, characteristic dimension
	Weight float64    `json:"weight"` // kg
}

// NewTarget creates a target of the given kind with a fresh
// identifier.
func NewTarget(kind TargetKind, name string, size, weight float64) *Target {
	return &Target{ID: entity.NewID(), Kind: kind, Name: name, Size: size, Weight: weight}
}

// Carryable reports whether agent can carry the target. Humans can
// always carry; robots are limited by payload.
func (t *Target) Carryable(agent Agent) bool {
	switch a := agent.(type) {
	case *Robot:
		return a.Payload >= t.Weight
	default:
		return true
	}
}
