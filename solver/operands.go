package solver

import (
	"fmt"
	"slices"
	"strconv"

	"dicemath/utils"
)

// operands is the multiset being reduced. values[k] was produced by the
// fully parenthesized text exprs[k].
type operands struct {
	values []float64
	exprs  []string
}

func newOperands(numbers []int) operands {
	set := operands{
		values: make([]float64, len(numbers)),
		exprs:  make([]string, len(numbers)),
	}
	for i, n := range numbers {
		set.values[i] = float64(n)
		set.exprs[i] = strconv.Itoa(n)
	}
	return set
}

func (o operands) len() int {
	return len(o.values)
}

// combine removes positions i and j and appends the result of applying op to
// them, leaving a set one operand smaller.
func (o operands) combine(i, j int, value float64, symbol string) operands {
	values := utils.Without(o.values, i, j)
	exprs := utils.Without(o.exprs, i, j)
	return operands{
		values: append(values, value),
		exprs:  append(exprs, fmt.Sprintf("(%s %s %s)", o.exprs[i], symbol, o.exprs[j])),
	}
}

// stateKey identifies a search state by its sorted values and count only.
// Two sets reached through different expressions share a key: whether the
// target is reachable depends on the numbers, not on how they were built.
type stateKey struct {
	count  int
	values [NumOperands]float64
}

func (o operands) key() stateKey {
	k := stateKey{count: o.len()}
	copy(k.values[:], o.values)
	slices.Sort(k.values[:k.count])
	return k
}
