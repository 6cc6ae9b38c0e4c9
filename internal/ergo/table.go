// Package ergo holds the ergonomic and timing tables consumed by the
// cost stage. The numbers are inputs to the pipeline, not contracts:
// the defaults below are plausible MTM-derived values, and every entry
// can be overridden from a TOML file. The cost stage relies only on
// recovery, cost, and time being non-negative.
package ergo

import (
	"math"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
)

// Bin names an ergonomic fatigue bin. Each human agent gets one place
// per bin in the cost net.
type Bin string

const (
	WholeBody Bin = "wholeBody"
	Arm       Bin = "arm"
	Hand      Bin = "hand"
)

// Bins returns every bin in a fixed order.
func Bins() []Bin {
	return []Bin{WholeBody, Arm, Hand}
}

// DataFor returns the metadata entry tagging agent's place for the
// bin.
func (b Bin) DataFor(agent entity.ID) petri.Data {
	switch b {
	case WholeBody:
		return petri.ErgoWholeBody(agent)
	case Arm:
		return petri.ErgoArm(agent)
	default:
		return petri.ErgoHand(agent)
	}
}

// Context resolves the entities a transition's metadata references.
// Primitives overlays the job's primitive map with the pseudo
// primitives the POI stage synthesises, so the job itself stays
// untouched by compilation.
type Context struct {
	Job        *job.Job
	Primitives map[entity.ID]*job.Primitive
}

// Primitive resolves a primitive id through the overlay, then the job.
func (c *Context) Primitive(id entity.ID) (*job.Primitive, bool) {
	if p, ok := c.Primitives[id]; ok {
		return p, true
	}
	p, ok := c.Job.Primitives[id]
	return p, ok
}

func (c *Context) poi(id entity.ID) (*job.POI, bool) {
	p, ok := c.Job.POIs[id]
	return p, ok
}

func (c *Context) target(id entity.ID) (*job.Target, bool) {
	t, ok := c.Job.Targets[id]
	return t, ok
}

// Table carries the tunable numbers. All times are in TMU unless noted
// otherwise.
type Table struct {
	// BaseTimeTMU is the fixed execution time per primitive kind; the
	// motion kinds (travel, reach, move, carry) are computed from
	// geometry instead.
	BaseTimeTMU map[job.PrimitiveKind]float64 `toml:"base_time_tmu"`
	// OnetimeCost is the monetary cost accrued once per execution and
	// primitive kind.
	OnetimeCost map[job.PrimitiveKind]float64 `toml:"onetime_cost"`
	// WalkTMUPerPace is the walking time per pace.
	WalkTMUPerPace float64 `toml:"walk_tmu_per_pace"`
	// FittsA and FittsB parameterise the reach/move time law
	// t = a + b * log2(2d / w), in seconds.
	FittsA float64 `toml:"fitts_a"`
	FittsB float64 `toml:"fitts_b"`
	// HeavyForce is the force magnitude, in newtons, at or above which a
	// force primitive loads the whole body.
	HeavyForce float64 `toml:"heavy_force"`
	// RecoveryGrant is how many fatigue tokens an unloaded bin may
	// shed during an action.
	RecoveryGrant int `toml:"recovery_grant"`
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	return &Table{
		BaseTimeTMU: map[job.PrimitiveKind]float64{
			job.Selection: 30,
			job.Inspect:   40,
			job.Hold:      15,
			job.Position:  25,
			job.Use:       50,
			job.Force:     20,
		},
		OnetimeCost: map[job.PrimitiveKind]float64{
			job.Use: 1,
		},
		WalkTMUPerPace: 15,
		FittsA:         0.1,
		FittsB:         0.15,
		HeavyForce:     100,
		RecoveryGrant:  1,
	}
}

// agentPrimitives resolves the primitives the transition assigns to
// agent.
func agentPrimitives(agent entity.ID, t *petri.Transition, ctx *Context) []*job.Primitive {
	var out []*job.Primitive
	for _, d := range petri.FilterTag(t.MetaData, petri.TagPrimitiveAssign) {
		if d.Primary != agent {
			continue
		}
		if p, ok := ctx.Primitive(d.Secondary); ok {
			out = append(out, p)
		}
	}
	return out
}

// loads reports which bins a primitive stresses.
func (t *Table) loads(p *job.Primitive, ctx *Context) map[Bin]bool {
	out := map[Bin]bool{}
	switch p.Kind {
	case job.Travel, job.Carry:
		out[WholeBody] = true
		if p.Kind == job.Carry {
			out[Arm] = true
		}
	case job.Reach, job.Move:
		d := t.handDistance(p, ctx)
		switch {
		case d <= job.MaxHandWorkDistance:
			out[Hand] = true
		case d <= job.MaxShoulderWorkDistance:
			out[Arm] = true
		default:
			out[Arm] = true
			out[WholeBody] = true
		}
	case job.Hold:
		out[Arm] = true
	case job.Position, job.Use:
		out[Hand] = true
	case job.Force:
		out[Arm] = true
		if p.Magnitude >= t.HeavyForce {
			out[WholeBody] = true
		}
	}
	return out
}

func (t *Table) handDistance(p *job.Primitive, ctx *Context) float64 {
	from, okFrom := ctx.poi(p.FromHand)
	to, okTo := ctx.poi(p.ToHand)
	if !okFrom || !okTo {
		return 0
	}
	return job.Distance(from.Position, to.Position)
}

func (t *Table) standingDistance(p *job.Primitive, ctx *Context) float64 {
	from, okFrom := ctx.poi(p.FromStanding)
	to, okTo := ctx.poi(p.ToStanding)
	if !okFrom || !okTo {
		return 0
	}
	return job.Distance(from.Position, to.Position)
}

// Cost returns how many fatigue units the transition accrues in the
// bin for agent. A positive value makes the cost stage add one accrual
// arc into the bin's place.
func (t *Table) Cost(bin Bin, agent entity.ID, tr *petri.Transition, ctx *Context) int {
	total := 0
	for _, p := range agentPrimitives(agent, tr, ctx) {
		if t.loads(p, ctx)[bin] {
			total++
		}
	}
	return total
}

// Recovery returns how many fatigue tokens agent may shed from the bin
// while executing the transition. Bins the transition leaves unloaded
// recover.
func (t *Table) Recovery(bin Bin, agent entity.ID, tr *petri.Transition, ctx *Context) int {
	prims := agentPrimitives(agent, tr, ctx)
	if len(prims) == 0 {
		return 0
	}
	for _, p := range prims {
		if t.loads(p, ctx)[bin] {
			return 0
		}
	}
	return t.RecoveryGrant
}

// ExecutionTime estimates, in seconds, how long agent's share of the
// transition takes: geometry-derived times for the motion kinds, table
// times for the rest.
func (t *Table) ExecutionTime(agent entity.ID, tr *petri.Transition, ctx *Context) float64 {
	total := 0.0
	for _, p := range agentPrimitives(agent, tr, ctx) {
		total += t.primitiveTime(p, ctx)
	}
	return total
}

// PrimitiveSeconds estimates the execution time of one primitive, in
// seconds. Callers deriving task durations (e.g. for the planner) sum
// this over a task's primitives.
func (t *Table) PrimitiveSeconds(p *job.Primitive, ctx *Context) float64 {
	return t.primitiveTime(p, ctx)
}

func (t *Table) primitiveTime(p *job.Primitive, ctx *Context) float64 {
	switch p.Kind {
	case job.Travel:
		paces := t.standingDistance(p, ctx) / job.DistancePerPace
		return paces * t.WalkTMUPerPace * job.TMUPerSecond
	case job.Carry:
		paces := t.standingDistance(p, ctx) / job.DistancePerPace
		carry := paces * t.WalkTMUPerPace * job.TMUPerSecond
		// Grasp and release overhead at either end.
		return carry + 2*t.BaseTimeTMU[job.Hold]*job.TMUPerSecond
	case job.Reach:
		return t.fitts(t.handDistance(p, ctx), job.MaxHandWorkDistance)
	case job.Move:
		width := job.MaxHandWorkDistance
		if target, ok := ctx.target(p.Target); ok && target.Size > 0 {
			width = target.Size
		}
		return t.fitts(t.handDistance(p, ctx), width)
	default:
		return t.BaseTimeTMU[p.Kind] * job.TMUPerSecond
	}
}

// fitts applies Fitts' law with the table's coefficients. Degenerate
// geometry yields the constant term alone.
func (t *Table) fitts(distance, width float64) float64 {
	if distance <= 0 || width <= 0 {
		return t.FittsA
	}
	difficulty := math.Log2(2 * distance / width)
	if difficulty < 0 {
		difficulty = 0
	}
	return t.FittsA + t.FittsB*difficulty
}

// OnetimeCostFor returns the monetary cost accrued once per execution
// of the transition by agent.
func (t *Table) OnetimeCostFor(agent entity.ID, tr *petri.Transition, ctx *Context) float64 {
	total := 0.0
	for _, p := range agentPrimitives(agent, tr, ctx) {
		total += t.OnetimeCost[p.Kind]
	}
	return total
}
