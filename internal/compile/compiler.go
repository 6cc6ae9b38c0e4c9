// Package compile lowers a job description into progressively more
// detailed Petri nets: basic (material flow), agent (who may execute
// what), POI (spatial embedding), and cost (ergonomic and temporal
// weights). Stages are pure per invocation: each clones its
// predecessor and extends the clone, and the job itself is never
// mutated — pseudo-primitives synthesised along the way live in a
// compiler-owned overlay.
package compile

import (
	"log/slog"
	"maps"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/ergo"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/petri"
	"github.com/emergent-company/workcell/internal/solve"
)

// Compiler runs the pipeline over one job, caching each stage's net so
// later stages compute earlier ones on demand.
type Compiler struct {
	job       *job.Job
	logger    *slog.Logger
	table     *ergo.Table
	newSolver func() solve.Solver

	// primitives overlays the job's primitives with the pseudo
	// primitives the POI stage synthesises.
	primitives map[entity.ID]*job.Primitive

	basic *petri.Net
	agent *petri.Net
	poi   *petri.Net
	cost  *petri.Net
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger; the default discards nothing but logs
// through slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithTable sets the ergonomic table used by the cost stage.
func WithTable(table *ergo.Table) Option {
	return func(c *Compiler) { c.table = table }
}

// WithSolver sets the factory for the partitioner's solver.
func WithSolver(newSolver func() solve.Solver) Option {
	return func(c *Compiler) { c.newSolver = newSolver }
}

// New creates a compiler over the job. The job is treated as read-only
// from here on.
func New(j *job.Job, opts ...Option) *Compiler {
	c := &Compiler{
		job:        j,
		logger:     slog.Default(),
		table:      ergo.DefaultTable(),
		newSolver:  solve.New,
		primitives: map[entity.ID]*job.Primitive{},
	}
	maps.Copy(c.primitives, j.Primitives)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BasicNet returns the material-flow net, building it on first use.
func (c *Compiler) BasicNet() (*petri.Net, error) {
	if c.basic != nil {
		return c.basic, nil
	}
	net, err := c.buildBasic()
	if err != nil {
		return nil, err
	}
	c.basic = net
	c.logger.Debug("built basic net", "places", len(net.Places), "transitions", len(net.Transitions))
	return net, nil
}

// AgentNet returns the agent-specialised net, building prior stages on
// demand.
func (c *Compiler) AgentNet() (*petri.Net, error) {
	if c.agent != nil {
		return c.agent, nil
	}
	basic, err := c.BasicNet()
	if err != nil {
		return nil, err
	}
	net := c.buildAgent(basic)
	c.agent = net
	c.logger.Debug("built agent net", "places", len(net.Places), "transitions", len(net.Transitions))
	return net, nil
}

// PoiNet returns the spatially embedded net.
func (c *Compiler) PoiNet() (*petri.Net, error) {
	if c.poi != nil {
		return c.poi, nil
	}
	agent, err := c.AgentNet()
	if err != nil {
		return nil, err
	}
	net, err := c.buildPOI(agent)
	if err != nil {
		return nil, err
	}
	c.poi = net
	c.logger.Debug("built poi net", "places", len(net.Places), "transitions", len(net.Transitions))
	return net, nil
}

// CostNet returns the fully weighted net.
func (c *Compiler) CostNet() (*petri.Net, error) {
	if c.cost != nil {
		return c.cost, nil
	}
	poi, err := c.PoiNet()
	if err != nil {
		return nil, err
	}
	net := c.buildCost(poi)
	c.cost = net
	c.logger.Debug("built cost net", "places", len(net.Places), "transitions", len(net.Transitions))
	return net, nil
}

// Primitive resolves a primitive through the compiler's overlay.
func (c *Compiler) Primitive(id entity.ID) (*job.Primitive, bool) {
	p, ok := c.primitives[id]
	return p, ok
}

func (c *Compiler) ergoContext() *ergo.Context {
	return &ergo.Context{Job: c.job, Primitives: c.primitives}
}

func (c *Compiler) registerPrimitive(net *petri.Net, p *job.Primitive) {
	c.primitives[p.ID] = p
	net.Names.Set(p.ID, string(p.Kind))
}
