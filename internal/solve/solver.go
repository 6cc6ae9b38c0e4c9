// Package solve defines the narrow optimising-solver interface the
// partitioner and planner are written against, together with the
// built-in finite-domain implementation. The interface mirrors what
// those callers need and nothing more, so the solver is swappable.
package solve

import "context"

// Status is the outcome of a Check call.
type Status string

const (
	// Sat means a model was found; with an objective it is optimal
	// unless the node budget ran out first.
	Sat Status = "sat"
	// Unsat means the constraints admit no model.
	Unsat Status = "unsat"
	// Unknown means the search gave up before deciding.
	Unknown Status = "unknown"
)

// Var names a solver variable. Boolean variables are integer variables
// with domain {0, 1}.
type Var int

// Term is one summand of a linear expression.
type Term struct {
	Coef int
	Var  Var
}

// T builds a term.
func T(coef int, v Var) Term {
	return Term{Coef: coef, Var: v}
}

// Solver is the narrow constraint interface. All assertions are over
// linear sums of integer variables; pseudo-boolean operations treat
// boolean variables as 0/1 integers.
type Solver interface {
	// IntVar introduces an integer variable with inclusive bounds.
	IntVar(lo, hi int) Var
	// BoolVar introduces a boolean variable.
	BoolVar() Var

	// AssertLe asserts sum(terms) <= bound.
	AssertLe(terms []Term, bound int)
	// AssertEq asserts sum(terms) == bound.
	AssertEq(terms []Term, bound int)
	// AssertNe asserts a != b.
	AssertNe(a, b Var)

	// ReifyLe returns a boolean b with b <-> sum(terms) <= bound.
	ReifyLe(terms []Term, bound int) Var
	// ReifyEq returns a boolean b with b <-> sum(terms) == bound.
	ReifyEq(terms []Term, bound int) Var

	// AssertAtMost asserts that at most k of the booleans hold.
	AssertAtMost(bools []Var, k int)
	// AssertAtLeast asserts that at least k of the booleans hold.
	AssertAtLeast(bools []Var, k int)
	// AssertExactly asserts that exactly k of the booleans hold.
	AssertExactly(bools []Var, k int)
	// AssertImplies asserts that the conjunction of conds implies then.
	AssertImplies(conds []Var, then Var)

	// Minimize sets the objective to minimising v. At most one
	// objective may be set.
	Minimize(v Var)
	// Maximize sets the objective to maximising v.
	Maximize(v Var)

	// Check searches for a model, optimising the objective if one is
	// set. The context bounds the search.
	Check(ctx context.Context) Status
	// IntValue reads v from the model after a Sat result.
	IntValue(v Var) int
	// BoolValue reads a boolean from the model after a Sat result.
	BoolValue(v Var) bool
	// Reason describes an Unsat or Unknown result, or qualifies a Sat
	// result obtained under an exhausted budget.
	Reason() string
}

// New returns the built-in finite-domain solver with the default node
// budget.
func New() Solver {
	return NewFD(DefaultNodeBudget)
}
