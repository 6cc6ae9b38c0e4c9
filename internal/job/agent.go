package job

import "github.com/emergent-company/workcell/internal/entity"

// AgentKind discriminates the agent union.
type AgentKind string

const (
	RobotKind AgentKind = "robot"
	HumanKind AgentKind = "human"
)

// Agent is a worker in the cell, either a Robot or a Human. Agents are
// created through the Job builder and immutable afterwards.
type Agent interface {
	AgentID() entity.ID
	AgentName() string
	Kind() AgentKind
}

// Robot describes a robotic agent's physical capabilities.
type Robot struct {
	ID        entity.ID `json:"id"`
	Name      string    `json:"name"`
	Reach     float64   `json:"reach"`     // m
	Payload   float64   `json:"payload"`   // kg
	Agility   float64   `json:"agility"`   // 0..1
	Speed     float64   `json:"speed"`     // m/s
	Precision float64   `json:"precision"` // m (repeatability)
	Sensing   float64   `json:"sensing"`   // 0..1
	// MobileSpeed is the base travel speed in m/s; zero means the
	// robot is fixed in place.
	MobileSpeed float64 `json:"mobileSpeed"`
}

func (r *Robot) AgentID() entity.ID { return r.ID }
func (r *Robot) AgentName() string  { return r.Name }
func (r *Robot) Kind() AgentKind    { return RobotKind }

// Human describes a human worker. The ergonomic parameters feed the
// cost tables; the defaults describe an average adult worker.
type Human struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	// AcromialHeight is the shoulder height in metres; reaches above
	// it are measured from the shoulder.
	AcromialHeight float64 `json:"acromialHeight"`
	Reach          float64 `json:"reach"` // m
	Gender         Gender  `json:"gender"`
	Weights        Weights `json:"weights"`
}

func (h *Human) AgentID() entity.ID { return h.ID }
func (h *Human) AgentName() string  { return h.Name }
func (h *Human) Kind() AgentKind    { return HumanKind }

// NewRobot creates a robot agent with a fresh identifier.
func NewRobot(name string, reach, payload, agility, speed, precision, sensing, mobileSpeed float64) *Robot {
	return &Robot{
		ID:          entity.NewID(),
		Name:        name,
		Reach:       reach,
		Payload:     payload,
		Agility:     agility,
		Speed:       speed,
		Precision:   precision,
		Sensing:     sensing,
		MobileSpeed: mobileSpeed,
	}
}

// NewHuman creates a human agent with default anthropometrics.
func NewHuman(name string) *Human {
	return &Human{
		ID:             entity.NewID(),
		Name:           name,
		AcromialHeight: 1.37,
		Reach:          0.74,
		Gender:         Female,
		Weights:        DefaultWeights(),
	}
}
