package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
)

// jobFile is the YAML shape of a declarative job description. Entities
// reference each other by name; the loader resolves names to
// identifiers through the builder API.
type jobFile struct {
	Name    string       `yaml:"name"`
	Agents  []agentDecl  `yaml:"agents"`
	POIs    []poiDecl    `yaml:"pois"`
	Targets []targetDecl `yaml:"targets"`
	Tasks   []taskDecl   `yaml:"tasks"`
}

type agentDecl struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"` // robot | human
	Reach       float64 `yaml:"reach"`
	Payload     float64 `yaml:"payload"`
	Agility     float64 `yaml:"agility"`
	Speed       float64 `yaml:"speed"`
	Precision   float64 `yaml:"precision"`
	Sensing     float64 `yaml:"sensing"`
	MobileSpeed float64 `yaml:"mobileSpeed"`
}

type poiDecl struct {
	Name string  `yaml:"name"`
	Kind string  `yaml:"kind"` // standing | hand
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
}

type targetDecl struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"` // precursor | intermediate | product | reusable
	Size   float64 `yaml:"size"`
	Weight float64 `yaml:"weight"`
}

type taskDecl struct {
	Name         string           `yaml:"name"`
	Kind         string           `yaml:"kind"` // spawn | process | complete
	Primitives   []primitiveDecl  `yaml:"primitives"`
	Dependencies []dependencyDecl `yaml:"dependencies"`
	Outputs      []outputDecl     `yaml:"outputs"`
	POIs         []string         `yaml:"pois"`
}

type primitiveDecl struct {
	Kind         string  `yaml:"kind"`
	Target       string  `yaml:"target"`
	Skill        string  `yaml:"skill"`
	Degrees      float64 `yaml:"degrees"`
	Displacement float64 `yaml:"displacement"`
	Magnitude    float64 `yaml:"magnitude"`
}

type dependencyDecl struct {
	Producer string `yaml:"producer"`
	Target   string `yaml:"target"`
	Count    int    `yaml:"count"`
}

type outputDecl struct {
	Target string `yaml:"target"`
	Count  int    `yaml:"count"`
}

// LoadJobFile reads a YAML job description and assembles it through
// the builder API.
func LoadJobFile(path string) (*job.Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var file jobFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %w", path, err)
	}
	return file.assemble()
}

func (f *jobFile) assemble() (*job.Job, error) {
	j := job.New(f.Name)

	for _, decl := range f.Agents {
		switch decl.Kind {
		case "robot":
			j.CreateRobotAgent(decl.Name, decl.Reach, decl.Payload, decl.Agility, decl.Speed, decl.Precision, decl.Sensing, decl.MobileSpeed)
		case "human":
			j.CreateHumanAgent(decl.Name)
		default:
			return nil, fmt.Errorf("agent %q: unknown kind %q", decl.Name, decl.Kind)
		}
	}

	pois := map[string]entity.ID{}
	for _, decl := range f.POIs {
		switch decl.Kind {
		case "standing":
			pois[decl.Name] = j.CreateStandingPOI(decl.Name, decl.X, decl.Y, decl.Z)
		case "hand":
			pois[decl.Name] = j.CreateHandPOI(decl.Name, decl.X, decl.Y, decl.Z)
		default:
			return nil, fmt.Errorf("poi %q: unknown kind %q", decl.Name, decl.Kind)
		}
	}

	targets := map[string]entity.ID{}
	for _, decl := range f.Targets {
		kind := job.TargetKind(decl.Kind)
		switch kind {
		case job.Precursor, job.Intermediate, job.Product, job.Reusable:
		case "":
			kind = job.Intermediate
		default:
			return nil, fmt.Errorf("target %q: unknown kind %q", decl.Name, decl.Kind)
		}
		targets[decl.Name] = j.CreateTargetOfKind(kind, decl.Name, decl.Size, decl.Weight)
	}

	tasks := map[string]entity.ID{}
	for _, decl := range f.Tasks {
		var id entity.ID
		switch decl.Kind {
		case "spawn":
			id = j.CreateSpawnTask(decl.Name)
		case "process", "":
			id = j.CreateProcessTask(decl.Name)
		case "complete":
			id = j.CreateCompleteTask(decl.Name)
		default:
			return nil, fmt.Errorf("task %q: unknown kind %q", decl.Name, decl.Kind)
		}
		tasks[decl.Name] = id
	}

	for _, decl := range f.Tasks {
		id := tasks[decl.Name]
		for _, dep := range decl.Dependencies {
			producer, ok := tasks[dep.Producer]
			if !ok {
				return nil, fmt.Errorf("task %q: unknown producer %q", decl.Name, dep.Producer)
			}
			target, ok := targets[dep.Target]
			if !ok {
				return nil, fmt.Errorf("task %q: unknown target %q", decl.Name, dep.Target)
			}
			count := dep.Count
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				j.AddTaskDependency(id, producer, target)
			}
		}
		for _, out := range decl.Outputs {
			target, ok := targets[out.Target]
			if !ok {
				return nil, fmt.Errorf("task %q: unknown target %q", decl.Name, out.Target)
			}
			count := out.Count
			if count == 0 {
				count = 1
			}
			j.AddTaskOutput(id, target, count)
		}
		for _, decl2 := range decl.Primitives {
			prim, err := buildPrimitive(decl2, targets)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", decl.Name, err)
			}
			j.AddTaskPrimitive(id, prim)
		}
		for _, name := range decl.POIs {
			poi, ok := pois[name]
			if !ok {
				return nil, fmt.Errorf("task %q: unknown poi %q", decl.Name, name)
			}
			j.AddTaskPOI(id, poi)
		}
	}
	return j, nil
}

func buildPrimitive(decl primitiveDecl, targets map[string]entity.ID) (*job.Primitive, error) {
	target, ok := targets[decl.Target]
	if !ok {
		return nil, fmt.Errorf("primitive %q: unknown target %q", decl.Kind, decl.Target)
	}
	skill := job.Rating(decl.Skill)
	if skill == "" {
		skill = job.Medium
	}
	switch job.PrimitiveKind(decl.Kind) {
	case job.Selection:
		return job.NewSelection(target, skill), nil
	case job.Inspect:
		return job.NewInspect(target, skill), nil
	case job.Hold:
		return job.NewHold(target), nil
	case job.Position:
		return job.NewPosition(target, decl.Degrees, decl.Displacement), nil
	case job.Use:
		return job.NewUse(target), nil
	case job.Force:
		return job.NewForce(target, decl.Magnitude), nil
	default:
		return nil, fmt.Errorf("unknown primitive kind %q", decl.Kind)
	}
}
