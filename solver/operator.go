package solver

// Operator is a binary arithmetic operation. Apply reports false when the
// combination is undefined, which prunes the branch.
type Operator struct {
	Symbol      string
	Commutative bool
	Apply       func(a, b float64) (float64, bool)
}

// Operators are tried in this order at every pair; the order fixes which
// solution a search returns.
var Operators = []Operator{
	{Symbol: "+", Commutative: true, Apply: func(a, b float64) (float64, bool) { return a + b, true }},
	{Symbol: "-", Apply: func(a, b float64) (float64, bool) { return a - b, true }},
	{Symbol: "*", Commutative: true, Apply: func(a, b float64) (float64, bool) { return a * b, true }},
	{Symbol: "/", Apply: func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}},
}
