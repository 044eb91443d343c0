package game

import (
	"fmt"
	"math"
	"slices"

	"dicemath/expr"
	"dicemath/utils"
)

// Verdict is the outcome of checking a player's answer.
type Verdict struct {
	Correct bool    `json:"correct"`
	Value   float64 `json:"value"`
}

// Check evaluates a player's expression against the puzzle. Every operand
// must be one of the dice and no die may be used twice. Not every die has
// to be used.
func Check(p Puzzle, expression string, tolerance float64) (Verdict, error) {
	value, err := expr.Evaluate(expression)
	if err != nil {
		return Verdict{}, err
	}

	remaining := slices.Clone(p.Dice)
	for _, operand := range expr.Operands(expression) {
		i := utils.FindIndex(remaining, operand)
		if i >= 0 {
			remaining = utils.Without(remaining, i)
			continue
		}
		if utils.FindIndex(p.Dice, operand) >= 0 {
			return Verdict{}, fmt.Errorf("%w: %d", ErrDieReused, operand)
		}
		return Verdict{}, fmt.Errorf("%w: %d", ErrUnknownDie, operand)
	}

	return Verdict{
		Correct: math.Abs(value-float64(p.Target)) < tolerance,
		Value:   value,
	}, nil
}
