package validation

import (
	"fmt"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
)

// NewTargetValidator checks targets carry sane physical parameters.
func NewTargetValidator() Validator {
	return NewValidatorFunc("targets", func(j *job.Job) error {
		for _, target := range j.SortedTargets() {
			if target.Weight < 0 {
				return fmt.Errorf("target %q has negative weight %v", target.Name, target.Weight)
			}
			if target.Size < 0 {
				return fmt.Errorf("target %q has negative size %v", target.Name, target.Size)
			}
		}
		return nil
	})
}

// NewPOIValidator checks that primitives referencing POIs resolve.
func NewPOIValidator() Validator {
	return NewValidatorFunc("pois", func(j *job.Job) error {
		for _, p := range j.Primitives {
			for _, ref := range []struct {
				name string
				id   entity.ID
			}{
				{"standing", p.Standing},
				{"fromStanding", p.FromStanding},
				{"toStanding", p.ToStanding},
				{"fromHand", p.FromHand},
				{"toHand", p.ToHand},
			} {
				if ref.id == entity.Nil {
					continue
				}
				if _, ok := j.POIs[ref.id]; !ok {
					return fmt.Errorf("primitive %s: %s POI %s: %w", p.ID, ref.name, ref.id, ErrUnknownPOI)
				}
			}
		}
		return nil
	})
}
