package solver

import "errors"

// NumOperands is the number of dice a puzzle is solved with. The search cost is
// super-exponential in the operand count, so the solver refuses anything else.
const NumOperands = 5

// Tolerance is the absolute distance from the target within which a final
// operand counts as a match. Division produces non-integer intermediates.
const Tolerance = 1e-4

var ErrOperandCount = errors.New("solver: wrong number of operands")

// Result is the outcome of one search: either a witnessing expression or no
// solution at all.
type Result struct {
	Expression string
}

// NoSolution is returned when the search space is exhausted.
var NoSolution = Result{}

func (r Result) Found() bool {
	return r.Expression != ""
}

func (r Result) String() string {
	if !r.Found() {
		return "no solution"
	}
	return r.Expression
}

// Collector receives search counters. It is satisfied by experiments/metrics.Collector.
type Collector interface {
	AddExpansion()
	AddMemoHit()
	AddPrunedDivision()
	SetMemoSize(n int)
}
