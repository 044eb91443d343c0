package solver

import (
	"context"
	"fmt"
	"math"
	"slices"

	"dicemath/experiments/metrics"
)

type Option func(s *Solver)

// Solver finds one fully parenthesized expression combining every operand
// exactly once with + - * / that evaluates to the target.
type Solver struct {
	collector Collector
}

func WithCollector(collector Collector) Option {
	return func(s *Solver) {
		if collector != nil {
			s.collector = collector
		}
	}
}

func NewSolver(options ...Option) *Solver {
	s := &Solver{ // Default values
		collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var defaultSolver = NewSolver()

// Solve runs a search with the default solver.
func Solve(numbers []int, target int) (Result, error) {
	return defaultSolver.Solve(numbers, target)
}

// Solve searches depth first and returns the first expression found. An
// unsolvable input yields NoSolution and a nil error; only a wrong operand
// count is an error.
func (s *Solver) Solve(numbers []int, target int) (Result, error) {
	if err := validate(numbers); err != nil {
		return NoSolution, err
	}
	return s.run(numbers, target), nil
}

// SolveContext runs Solve on its own goroutine. If ctx is done first the
// search keeps running to completion and its result is dropped.
func (s *Solver) SolveContext(ctx context.Context, numbers []int, target int) (Result, error) {
	if err := validate(numbers); err != nil {
		return NoSolution, err
	}
	if err := ctx.Err(); err != nil {
		return NoSolution, err
	}

	numbers = slices.Clone(numbers)
	done := make(chan Result, 1)
	go func() {
		done <- s.run(numbers, target)
	}()

	select {
	case <-ctx.Done():
		return NoSolution, ctx.Err()
	case result := <-done:
		return result, nil
	}
}

func validate(numbers []int) error {
	if len(numbers) != NumOperands {
		return fmt.Errorf("%w: got %d, want %d", ErrOperandCount, len(numbers), NumOperands)
	}
	return nil
}

// run searches numbers already known to hold NumOperands values.
func (s *Solver) run(numbers []int, target int) Result {
	state := &search{
		target:    float64(target),
		memo:      make(map[stateKey]struct{}),
		collector: s.collector,
	}
	expr, ok := state.reduce(newOperands(numbers))
	if !ok {
		return NoSolution
	}
	return Result{Expression: expr}
}

// search holds the state of a single Solve call. The memo set records keys
// proven unable to reach the target and is dropped with the search.
type search struct {
	target    float64
	memo      map[stateKey]struct{}
	collector Collector
}

func (s *search) reduce(set operands) (string, bool) {
	if set.len() == 1 {
		if math.Abs(set.values[0]-s.target) < Tolerance {
			return set.exprs[0], true
		}
		return "", false
	}

	key := set.key()
	if _, ok := s.memo[key]; ok {
		s.collector.AddMemoHit()
		return "", false
	}
	s.collector.AddExpansion()

	for i := range set.values {
		for j := range set.values {
			if i == j {
				continue
			}
			for _, op := range Operators {
				if op.Commutative && i > j { // Already tried as (j, i)
					continue
				}
				value, ok := op.Apply(set.values[i], set.values[j])
				if !ok {
					s.collector.AddPrunedDivision()
					continue
				}
				if expr, found := s.reduce(set.combine(i, j, value, op.Symbol)); found {
					return expr, true
				}
			}
		}
	}

	s.memo[key] = struct{}{}
	s.collector.SetMemoSize(len(s.memo))
	return "", false
}
