package compile

import (
	"context"

	"github.com/emergent-company/workcell/internal/entity"
	"github.com/emergent-company/workcell/internal/job"
	"github.com/emergent-company/workcell/internal/solve"
)

// partition splits primitives into k non-empty groups, maximising the
// total affiliation between primitives sharing a group. The solver
// model assigns each primitive a group index, reifies per-pair
// same-group booleans weighted by affiliation, and requires at least
// one member per group. If the solver fails, a round-robin split
// preserves the non-empty invariant.
func (c *Compiler) partition(primitives []*job.Primitive, k int) [][]entity.ID {
	if k <= 1 {
		group := make([]entity.ID, len(primitives))
		for i, p := range primitives {
			group[i] = p.ID
		}
		return [][]entity.ID{group}
	}

	s := c.newSolver()

	groups := make([]solve.Var, len(primitives))
	for i := range primitives {
		groups[i] = s.IntVar(0, k-1)
	}

	// Objective: sum of affiliations over same-group pairs.
	var weighted []solve.Term
	maxTotal := 0
	for i := 0; i < len(primitives); i++ {
		for j := i + 1; j < len(primitives); j++ {
			affinity := primitives[i].Affiliation(primitives[j])
			same := s.ReifyEq([]solve.Term{solve.T(1, groups[i]), solve.T(-1, groups[j])}, 0)
			weighted = append(weighted, solve.T(affinity, same))
			maxTotal += affinity
		}
	}
	total := s.IntVar(0, maxTotal)
	objective := append(append([]solve.Term(nil), weighted...), solve.T(-1, total))
	s.AssertEq(objective, 0)

	// Every group gets at least one primitive.
	for group := 0; group < k; group++ {
		members := make([]solve.Var, len(primitives))
		for i := range primitives {
			members[i] = s.ReifyEq([]solve.Term{solve.T(1, groups[i])}, group)
		}
		s.AssertAtLeast(members, 1)
	}

	s.Maximize(total)

	if s.Check(context.Background()) != solve.Sat {
		c.logger.Warn("primitive partition fell back to round-robin", "reason", s.Reason(), "primitives", len(primitives), "splits", k)
		out := make([][]entity.ID, k)
		for i, p := range primitives {
			out[i%k] = append(out[i%k], p.ID)
		}
		return out
	}

	out := make([][]entity.ID, k)
	for i, p := range primitives {
		out[s.IntValue(groups[i])] = append(out[s.IntValue(groups[i])], p.ID)
	}
	return out
}
