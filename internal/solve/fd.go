package solve

import "context"

// DefaultNodeBudget bounds the total number of search nodes a Check
// may expand before reporting Unknown.
const DefaultNodeBudget = 2_000_000

type constraintKind int

const (
	conLe constraintKind = iota
	conEq
	conReifLe
	conReifEq
)

type constraint struct {
	kind  constraintKind
	terms []Term
	bound int
	// b is the reifying boolean for conReifLe/conReifEq.
	b Var
}

// FD is a deterministic finite-domain solver: bounds propagation to a
// fixpoint, depth-first search branching on the first unbound variable
// in creation order with ascending values, and objective tightening by
// restart. It is complete on finite domains; Unknown arises only from
// an exhausted node budget or a cancelled context.
type FD struct {
	lo, hi []int
	cons   []constraint

	objective    Var
	hasObjective bool
	maximize     bool

	budget    int
	nodes     int
	exhausted bool

	model    []int
	hasModel bool
	reason   string
}

// NewFD creates a finite-domain solver with the given node budget.
func NewFD(nodeBudget int) *FD {
	return &FD{objective: -1, budget: nodeBudget}
}

func (s *FD) IntVar(lo, hi int) Var {
	s.lo = append(s.lo, lo)
	s.hi = append(s.hi, hi)
	return Var(len(s.lo) - 1)
}

func (s *FD) BoolVar() Var {
	return s.IntVar(0, 1)
}

func (s *FD) AssertLe(terms []Term, bound int) {
	s.cons = append(s.cons, constraint{kind: conLe, terms: cloneTerms(terms), bound: bound})
}

func (s *FD) AssertEq(terms []Term, bound int) {
	s.cons = append(s.cons, constraint{kind: conEq, terms: cloneTerms(terms), bound: bound})
}

func (s *FD) AssertNe(a, b Var) {
	eq := s.ReifyEq([]Term{T(1, a), T(-1, b)}, 0)
	s.AssertEq([]Term{T(1, eq)}, 0)
}

func (s *FD) ReifyLe(terms []Term, bound int) Var {
	b := s.BoolVar()
	s.cons = append(s.cons, constraint{kind: conReifLe, terms: cloneTerms(terms), bound: bound, b: b})
	return b
}

func (s *FD) ReifyEq(terms []Term, bound int) Var {
	b := s.BoolVar()
	s.cons = append(s.cons, constraint{kind: conReifEq, terms: cloneTerms(terms), bound: bound, b: b})
	return b
}

func (s *FD) AssertAtMost(bools []Var, k int) {
	s.AssertLe(unitTerms(bools), k)
}

func (s *FD) AssertAtLeast(bools []Var, k int) {
	s.AssertLe(negateTerms(unitTerms(bools)), -k)
}

func (s *FD) AssertExactly(bools []Var, k int) {
	s.AssertEq(unitTerms(bools), k)
}

// AssertImplies encodes cond1 & ... & condN -> then as the linear
// constraint sum(conds) - then <= N - 1.
func (s *FD) AssertImplies(conds []Var, then Var) {
	terms := unitTerms(conds)
	terms = append(terms, T(-1, then))
	s.AssertLe(terms, len(conds)-1)
}

func (s *FD) Minimize(v Var) {
	s.objective = v
	s.hasObjective = true
	s.maximize = false
}

func (s *FD) Maximize(v Var) {
	s.objective = v
	s.hasObjective = true
	s.maximize = true
}

func (s *FD) IntValue(v Var) int {
	return s.model[v]
}

func (s *FD) BoolValue(v Var) bool {
	return s.model[v] != 0
}

func (s *FD) Reason() string {
	return s.reason
}

// Check runs the search. With an objective it repeatedly tightens a
// bound on the objective variable and re-solves until the bound is
// unsatisfiable, so the last model found is optimal.
func (s *FD) Check(ctx context.Context) Status {
	s.nodes = 0
	s.exhausted = false
	s.hasModel = false
	s.reason = ""

	if !s.hasObjective {
		found := s.solveOnce(ctx)
		switch {
		case found:
			return Sat
		case s.exhausted:
			s.reason = s.exhaustReason(ctx)
			return Unknown
		default:
			s.reason = "constraints are unsatisfiable"
			return Unsat
		}
	}

	var objBounds []constraint
	for {
		found := s.solveWith(ctx, objBounds)
		if found {
			best := s.model[s.objective]
			if s.maximize {
				objBounds = []constraint{{kind: conLe, terms: []Term{T(-1, s.objective)}, bound: -(best + 1)}}
			} else {
				objBounds = []constraint{{kind: conLe, terms: []Term{T(1, s.objective)}, bound: best - 1}}
			}
			continue
		}
		if s.exhausted && !s.hasModel {
			s.reason = s.exhaustReason(ctx)
			return Unknown
		}
		if s.exhausted {
			s.reason = "node budget exhausted; model may be suboptimal"
			return Sat
		}
		if s.hasModel {
			return Sat
		}
		s.reason = "constraints are unsatisfiable"
		return Unsat
	}
}

func (s *FD) exhaustReason(ctx context.Context) string {
	if ctx.Err() != nil {
		return "search cancelled: " + ctx.Err().Error()
	}
	return "node budget exhausted before a decision"
}

func (s *FD) solveOnce(ctx context.Context) bool {
	return s.solveWith(ctx, nil)
}

// solveWith searches for any model under the base constraints plus
// extra. On success the model is stored and true returned.
func (s *FD) solveWith(ctx context.Context, extra []constraint) bool {
	lo := make([]int, len(s.lo))
	hi := make([]int, len(s.hi))
	copy(lo, s.lo)
	copy(hi, s.hi)
	all := make([]constraint, 0, len(s.cons)+len(extra))
	all = append(all, s.cons...)
	all = append(all, extra...)
	return s.search(ctx, lo, hi, all)
}

func (s *FD) search(ctx context.Context, lo, hi []int, cons []constraint) bool {
	s.nodes++
	if s.nodes > s.budget {
		s.exhausted = true
		return false
	}
	if s.nodes%1024 == 0 && ctx.Err() != nil {
		s.exhausted = true
		return false
	}

	if !propagate(lo, hi, cons) {
		return false
	}

	branch := -1
	for i := range lo {
		if lo[i] < hi[i] {
			branch = i
			break
		}
	}
	if branch == -1 {
		if !verify(lo, cons) {
			return false
		}
		s.model = make([]int, len(lo))
		copy(s.model, lo)
		s.hasModel = true
		return true
	}

	baseLo := make([]int, len(lo))
	baseHi := make([]int, len(hi))
	copy(baseLo, lo)
	copy(baseHi, hi)
	for v := baseLo[branch]; v <= baseHi[branch]; v++ {
		copy(lo, baseLo)
		copy(hi, baseHi)
		lo[branch] = v
		hi[branch] = v
		if s.search(ctx, lo, hi, cons) {
			return true
		}
		if s.exhausted {
			return false
		}
	}
	return false
}

// propagate runs bounds propagation to a fixpoint. It returns false on
// a domain wipe-out.
func propagate(lo, hi []int, cons []constraint) bool {
	for {
		changed := false
		for i := range cons {
			ok, ch := propagateOne(lo, hi, &cons[i])
			if !ok {
				return false
			}
			changed = changed || ch
		}
		if !changed {
			return true
		}
	}
}

func propagateOne(lo, hi []int, c *constraint) (ok, changed bool) {
	switch c.kind {
	case conLe:
		return propagateLe(lo, hi, c.terms, c.bound)
	case conEq:
		ok1, ch1 := propagateLe(lo, hi, c.terms, c.bound)
		if !ok1 {
			return false, false
		}
		ok2, ch2 := propagateLe(lo, hi, negateTerms(c.terms), -c.bound)
		return ok2, ch1 || ch2
	case conReifLe:
		return propagateReifLe(lo, hi, c)
	case conReifEq:
		return propagateReifEq(lo, hi, c)
	}
	return true, false
}

func propagateLe(lo, hi []int, terms []Term, bound int) (ok, changed bool) {
	minSum := sumMin(lo, hi, terms)
	if minSum > bound {
		return false, false
	}
	for _, t := range terms {
		if t.Coef == 0 {
			continue
		}
		// Slack available to this term once every other term sits at
		// its minimum.
		slack := bound - (minSum - termMin(lo, hi, t))
		if t.Coef > 0 {
			limit := floorDiv(slack, t.Coef)
			if limit < hi[t.Var] {
				if limit < lo[t.Var] {
					return false, false
				}
				hi[t.Var] = limit
				changed = true
				minSum = sumMin(lo, hi, terms)
			}
		} else {
			limit := ceilDiv(slack, t.Coef)
			if limit > lo[t.Var] {
				if limit > hi[t.Var] {
					return false, false
				}
				lo[t.Var] = limit
				changed = true
				minSum = sumMin(lo, hi, terms)
			}
		}
	}
	return true, changed
}

func propagateReifLe(lo, hi []int, c *constraint) (ok, changed bool) {
	minSum := sumMin(lo, hi, c.terms)
	maxSum := sumMax(lo, hi, c.terms)
	switch {
	case lo[c.b] == 1:
		return propagateLe(lo, hi, c.terms, c.bound)
	case hi[c.b] == 0:
		// Negation: sum >= bound+1.
		return propagateLe(lo, hi, negateTerms(c.terms), -(c.bound + 1))
	case maxSum <= c.bound:
		lo[c.b] = 1
		return true, true
	case minSum > c.bound:
		hi[c.b] = 0
		return true, true
	}
	return true, false
}

func propagateReifEq(lo, hi []int, c *constraint) (ok, changed bool) {
	minSum := sumMin(lo, hi, c.terms)
	maxSum := sumMax(lo, hi, c.terms)
	switch {
	case lo[c.b] == 1:
		ok1, ch1 := propagateLe(lo, hi, c.terms, c.bound)
		if !ok1 {
			return false, false
		}
		ok2, ch2 := propagateLe(lo, hi, negateTerms(c.terms), -c.bound)
		return ok2, ch1 || ch2
	case hi[c.b] == 0:
		if minSum == c.bound && maxSum == c.bound {
			return false, false
		}
		return true, false
	case minSum == c.bound && maxSum == c.bound:
		lo[c.b] = 1
		return true, true
	case c.bound < minSum || c.bound > maxSum:
		hi[c.b] = 0
		return true, true
	}
	return true, false
}

// verify evaluates every constraint exactly on a fully assigned model.
// Propagation is only required to be sound, so the leaf check is the
// final authority.
func verify(value []int, cons []constraint) bool {
	for i := range cons {
		c := &cons[i]
		sum := 0
		for _, t := range c.terms {
			sum += t.Coef * value[t.Var]
		}
		switch c.kind {
		case conLe:
			if sum > c.bound {
				return false
			}
		case conEq:
			if sum != c.bound {
				return false
			}
		case conReifLe:
			if (value[c.b] == 1) != (sum <= c.bound) {
				return false
			}
		case conReifEq:
			if (value[c.b] == 1) != (sum == c.bound) {
				return false
			}
		}
	}
	return true
}

func sumMin(lo, hi []int, terms []Term) int {
	total := 0
	for _, t := range terms {
		total += termMin(lo, hi, t)
	}
	return total
}

func sumMax(lo, hi []int, terms []Term) int {
	total := 0
	for _, t := range terms {
		if t.Coef > 0 {
			total += t.Coef * hi[t.Var]
		} else {
			total += t.Coef * lo[t.Var]
		}
	}
	return total
}

func termMin(lo, hi []int, t Term) int {
	if t.Coef > 0 {
		return t.Coef * lo[t.Var]
	}
	return t.Coef * hi[t.Var]
}

func cloneTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out
}

func unitTerms(vars []Var) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = T(1, v)
	}
	return out
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = T(-t.Coef, t.Var)
	}
	return out
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ceilDiv is integer division rounding toward positive infinity.
func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
